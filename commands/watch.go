package commands

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/penwyp/go-counter-recovery/internal/analyzer"
	"github.com/penwyp/go-counter-recovery/internal/data/watcher"
	"github.com/penwyp/go-counter-recovery/internal/util"
	"github.com/spf13/cobra"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the report whenever samples change",
	Long: `Prints the report for the month directory, then prints it again each time a
sample file is added or changed. New day directories are picked up automatically.
Stop with Ctrl+C.`,
	SilenceUsage: true,
	RunE:         runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 2*time.Second,
		"Wait this long after the last change before re-running")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	defer util.CloseLogger()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fw, err := watcher.NewFileWatcher(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", cfg.DataDir, err)
	}
	defer fw.Close()

	sortField, sortOrder := cfg.SortOrder()
	a := analyzer.New(&analyzer.Config{
		DataDir:      cfg.DataDir,
		OutputFormat: cfg.Output,
		Rates:        cfg.Rates,
		SortField:    sortField,
		SortOrder:    sortOrder,
	})
	return watchLoop(ctx, a, fw, cmd.OutOrStdout(), cmd.ErrOrStderr(), watchDebounce)
}

// watchLoop reports once, then again after each quiet period following a
// burst of sample changes. Report errors are printed and the loop carries on,
// since a sample may be caught half-written.
func watchLoop(ctx context.Context, a *analyzer.Analyzer, fw *watcher.FileWatcher, out, errOut io.Writer, debounce time.Duration) error {
	report := func() {
		if err := a.Run(out); err != nil {
			util.LogWarn("Report failed", util.F("error", err))
			fmt.Fprintf(errOut, "Error: %v\n", err)
		}
		fmt.Fprintln(out, util.FormatSectionSeparator(60, util.ColorEnabled(out)))
	}
	report()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events():
			if !ok {
				return nil
			}
			util.LogDebug("Sample change", util.F("path", event.Path), util.F("op", event.Operation))
			a.Forget(event.Path)
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			util.LogInfo("Samples changed, re-running report")
			report()
		}
	}
}
