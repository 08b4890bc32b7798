package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/penwyp/go-counter-recovery/internal/analyzer"
	"github.com/penwyp/go-counter-recovery/internal/config"
	"github.com/penwyp/go-counter-recovery/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Logging related
	debug     bool
	logFormat string

	// Data path
	dataDir    string
	configFile string

	// Output related
	outputFormat string
	formatAlias  string
	sortBy       string
	descending   bool

	// Rates
	costPerCount    float64
	costPerStartup  float64
	costPerShutdown float64
	qcCount         int
	bleachCleans    int

	rootCmd = &cobra.Command{
		Use:   "go-counter-recovery [flags]",
		Short: "Monthly cost recovery for a shared hematology counter",
		Long: `go-counter-recovery splits the running costs of a shared hematology counter
between the labs that used it during a month.

The month directory holds one subdirectory per day; every sample exported by the
counter is a .CSV file somewhere below its day, naming the operator lab on line 13.
Each lab pays for its own counts, an even share of each day's startup and shutdown,
and an even share of the month's QC samples and bleach cleans.

Examples:
  go-counter-recovery                                  # Report on the current directory
  go-counter-recovery --dir /results/2023-08           # Report on a month directory
  go-counter-recovery --dir 2023-08 -o csv > 2023-08.csv
  go-counter-recovery --cost-per-count 0.70            # Override one rate
  go-counter-recovery --config rates.yaml              # Load rates from a file
  go-counter-recovery watch --dir 2023-08              # Re-run as samples arrive`,
		SilenceUsage: true,
		RunE:         runReport,
	}
)

const defaultLogFile = "~/.go-counter-recovery/logs/app.log"

func init() {
	flags := rootCmd.PersistentFlags()

	// Input data configuration
	flags.StringVar(&dataDir, "dir", ".", "Month directory containing one subdirectory per day")
	flags.StringVar(&configFile, "config", "", "YAML file with rates and defaults")

	// Output configuration
	flags.StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json, csv)")
	flags.StringVar(&formatAlias, "format", "", "Alias for --output")
	flags.StringVar(&sortBy, "sort", "lab", "Order per-lab costs by lab, samples or total")
	flags.BoolVar(&descending, "desc", false, "Sort per-lab costs in descending order")

	// Rates
	flags.Float64Var(&costPerCount, "cost-per-count", 0, "Cost of one count (default 0.64)")
	flags.Float64Var(&costPerStartup, "cost-per-startup", 0, "Cost of one startup (default 1.28)")
	flags.Float64Var(&costPerShutdown, "cost-per-shutdown", 0, "Cost of one shutdown (default 9.40)")
	flags.IntVar(&qcCount, "qc-count", 0, "QC samples run per month (default 12)")
	flags.IntVar(&bleachCleans, "bleach-cleans", 0, "Bleach cleans run per month (default 4)")

	// System and debugging
	flags.BoolVar(&debug, "debug", false, "Enable debug mode")
	flags.StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	defer util.CloseLogger()

	sortField, sortOrder := cfg.SortOrder()
	a := analyzer.New(&analyzer.Config{
		DataDir:      cfg.DataDir,
		OutputFormat: cfg.Output,
		Rates:        cfg.Rates,
		SortField:    sortField,
		SortOrder:    sortOrder,
	})
	return a.Run(cmd.OutOrStdout())
}

// setup initialises logging and resolves configuration from defaults, the
// config file, the environment and flags, in increasing priority.
func setup(cmd *cobra.Command) (*config.Config, error) {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	logFile := expandPath(defaultLogFile)
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := util.InitLogger(util.LoggerOptions{
		Level:   logLevel,
		File:    logFile,
		Console: debug,
		Format:  util.LogFormat(logFormat),
	}); err != nil {
		return nil, err
	}

	path := configFile
	if path != "" {
		path = expandPath(path)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg)
	cfg.DataDir = expandPath(cfg.DataDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	util.LogDebug("Resolved configuration",
		util.F("dir", cfg.DataDir),
		util.F("output", cfg.Output),
		util.F("sort", cfg.Sort),
		util.F("rates", fmt.Sprintf("%+v", cfg.Rates)))
	return cfg, nil
}

// applyFlags copies explicitly set flags over cfg
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("format") {
		cfg.Output = formatAlias
	}
	if flags.Changed("output") {
		cfg.Output = outputFormat
	}
	if flags.Changed("sort") {
		cfg.Sort = sortBy
	}
	if flags.Changed("desc") {
		cfg.Descending = descending
	}
	if flags.Changed("cost-per-count") {
		cfg.Rates.CostPerCount = costPerCount
	}
	if flags.Changed("cost-per-startup") {
		cfg.Rates.CostPerStartup = costPerStartup
	}
	if flags.Changed("cost-per-shutdown") {
		cfg.Rates.CostPerShutdown = costPerShutdown
	}
	if flags.Changed("qc-count") {
		cfg.Rates.QCCount = qcCount
	}
	if flags.Changed("bleach-cleans") {
		cfg.Rates.BleachCleans = bleachCleans
	}
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
