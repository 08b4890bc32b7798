package analyzer

import (
	"fmt"
	"io"
	"time"

	"github.com/penwyp/go-counter-recovery/internal/core/cache"
	"github.com/penwyp/go-counter-recovery/internal/core/costing"
	"github.com/penwyp/go-counter-recovery/internal/core/pricing"
	"github.com/penwyp/go-counter-recovery/internal/data/aggregator"
	"github.com/penwyp/go-counter-recovery/internal/data/parser"
	"github.com/penwyp/go-counter-recovery/internal/presentation/formatter"
	"github.com/penwyp/go-counter-recovery/internal/presentation/interaction"
	"github.com/penwyp/go-counter-recovery/internal/util"
)

type Config struct {
	DataDir      string
	OutputFormat string
	Rates        pricing.Rates
	SortField    interaction.SortField
	SortOrder    interaction.SortOrder
}

// Analyzer runs the monthly cost-recovery pipeline over one month directory.
// Labs read from sample files are kept between builds until the file changes.
type Analyzer struct {
	config *Config
	labs   *cache.LabCache
}

func New(config *Config) *Analyzer {
	return &Analyzer{
		config: config,
		labs:   cache.NewLabCache(),
	}
}

// Forget drops the cached lab of a sample file
func (a *Analyzer) Forget(path string) {
	a.labs.Invalidate(path)
}

// Build scans the month and computes every table of the report
func (a *Analyzer) Build() (*formatter.Report, error) {
	startTime := time.Now()
	util.LogInfo("Starting cost recovery analysis", util.F("dir", a.config.DataDir))

	p := parser.NewCachedParser(a.labs)
	agg := aggregator.NewAggregator(a.config.DataDir, p)

	// Phase 1: List days
	days, err := agg.Days()
	if err != nil {
		return nil, err
	}
	util.LogDebugf("Phase 1 - Found %d day directories", len(days))

	// Phase 2: Discover labs over the whole month before counting
	labs, err := agg.FindLabs()
	if err != nil {
		return nil, fmt.Errorf("failed to discover labs: %w", err)
	}
	if len(labs) == 0 {
		return nil, fmt.Errorf("%s: %w", a.config.DataDir, costing.ErrNoLabs)
	}
	util.LogDebugf("Phase 2 - Discovered labs: %v", labs.Sorted())

	// Phase 3: Count samples per day and lab
	counts, err := agg.CountUsage(labs, days)
	if err != nil {
		return nil, fmt.Errorf("failed to count samples: %w", err)
	}

	if dropped := a.labs.Retain(p.Paths()); dropped > 0 {
		util.LogDebugf("Dropped %d removed sample files from the lab cache", dropped)
	}

	// Phase 4: Derive usage days and startup/shutdown allocation
	usage, err := costing.UsageDays(counts)
	if err != nil {
		return nil, err
	}
	allocated, err := costing.StartupShutdown(counts, a.config.Rates)
	if err != nil {
		return nil, err
	}

	// Phase 5: Total per lab
	costs, err := costing.Totals(counts, allocated, usage, a.config.Rates)
	if err != nil {
		return nil, err
	}
	interaction.NewLabSorter(a.config.SortField, a.config.SortOrder).Sort(costs.Labs)

	util.LogInfo("Analysis complete",
		util.F("days", len(days)),
		util.F("labs", len(labs)),
		util.F("samples", int(counts.GrandTotal())),
		util.F("duration", time.Since(startTime)))

	return &formatter.Report{
		DataDir:         a.config.DataDir,
		Days:            days,
		Labs:            counts.Labs(),
		Rates:           a.config.Rates,
		Counts:          counts,
		UsageDays:       usage,
		StartupShutdown: allocated,
		Costs:           costs,
	}, nil
}

// Run builds the report and writes it to w in the configured format
func (a *Analyzer) Run(w io.Writer) error {
	report, err := a.Build()
	if err != nil {
		return err
	}

	outputStart := time.Now()
	err = formatter.New(a.config.OutputFormat, w).Format(report)
	util.LogDebug(fmt.Sprintf("Formatting and output duration: %v", time.Since(outputStart)))
	return err
}
