package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/carboncoop/homeenergy/internal/cli/pagination"
	"github.com/carboncoop/homeenergy/internal/engine/batch"
	"github.com/carboncoop/homeenergy/internal/metrics"
	"github.com/carboncoop/homeenergy/internal/report"
)

const tabPadding = 2

type batchFlags struct {
	concurrency int
	batchSize   int
	metricsFile string
	outDir      string
	listing     pagination.Params
}

// newBatchCmd creates the batch command, which calculates many scenario
// files in parallel.
func newBatchCmd(s *session) *cobra.Command {
	var flags batchFlags

	cmd := &cobra.Command{
		Use:   "batch DIR|FILES...",
		Short: "Calculate many scenario files in parallel",
		Long: `Calculates every scenario of the given files, and of every *.json file in the
given directories, in parallel batches. A failed scenario is reported and the
run carries on.

With --out each calculated record is written to its own JSON file plus an
_index.json listing every scenario. With --metrics-file run metrics are written
in the Prometheus text format.`,
		Example: `  # Calculate a directory of surveys and keep the results
  homeenergy batch surveys/ --out results/

  # Show the ten best rated homes
  homeenergy batch surveys/ --sort sap:desc --limit 10

  # Export metrics for the node exporter textfile collector
  homeenergy batch surveys/ --metrics-file /var/lib/node_exporter/homeenergy.prom`,
		Args: cobra.MinimumNArgs(1),
		RunE: s.wrap(func(cmd *cobra.Command, args []string) error {
			return s.executeBatch(cmd, args, flags)
		}),
	}

	cmd.Flags().IntVar(&flags.concurrency, "concurrency", 0,
		"maximum scenarios calculated at once (default from config, 0 = all CPUs)")
	cmd.Flags().IntVar(&flags.batchSize, "batch-size", 0, "scenarios per batch (default from config)")
	cmd.Flags().StringVar(&flags.metricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	cmd.Flags().StringVar(&flags.outDir, "out", "", "write calculated records to this directory")
	cmd.Flags().StringVar(&flags.listing.Sort, "sort", "",
		"sort the listing by name, sap, cost, heating, co2 or fee, optionally with :asc or :desc")
	cmd.Flags().IntVar(&flags.listing.Limit, "limit", pagination.DefaultLimit, "show at most this many rows (0 = all)")
	cmd.Flags().IntVar(&flags.listing.Offset, "offset", pagination.DefaultOffset, "skip this many rows")
	return cmd
}

func (s *session) executeBatch(cmd *cobra.Command, args []string, flags batchFlags) error {
	ctx := cmd.Context()
	if err := flags.listing.Validate(); err != nil {
		return err
	}

	concurrency := s.cfg.Batch.Concurrency
	if cmd.Flags().Changed("concurrency") {
		concurrency = flags.concurrency
	}
	batchSize := s.cfg.Batch.BatchSize
	if cmd.Flags().Changed("batch-size") {
		batchSize = flags.batchSize
	}
	metricsFile := s.cfg.Metrics.Textfile
	if flags.metricsFile != "" {
		metricsFile = flags.metricsFile
	}

	paths, err := batch.ExpandPaths(args)
	if err != nil {
		return err
	}
	jobs, err := batch.LoadJobs(paths)
	if err != nil {
		return err
	}

	e, err := s.newEngine()
	if err != nil {
		return err
	}
	recorder, err := metrics.NewRecorder(nil)
	if err != nil {
		return err
	}

	runner, err := batch.NewRunner(e, batchSize, concurrency,
		batch.WithObserver(recorder),
		batch.WithProgress(func(p batch.ProgressSnapshot) {
			s.logger.Debug().
				Int("processed", p.Processed).
				Int("total", p.Total).
				Int("failed", p.Failed).
				Float64("percent", p.PercentComplete).
				Msg("batch progress")
		}),
	)
	if err != nil {
		return err
	}

	var store *batch.OutputStore
	if flags.outDir != "" {
		if store, err = batch.NewOutputStore(flags.outDir); err != nil {
			return err
		}
	}

	var (
		mu        sync.Mutex
		summaries = make([]report.Summary, 0, len(jobs))
	)
	sink := func(ctx context.Context, outcomes []batch.Outcome) error {
		mu.Lock()
		for _, o := range outcomes {
			summaries = append(summaries, report.FromRecord(o.Name, o.Record, o.Err))
		}
		mu.Unlock()
		if store == nil {
			return nil
		}
		return store.Sink()(ctx, outcomes)
	}

	summary, runErr := runner.Run(ctx, jobs, sink)
	if store != nil {
		if err := store.Close(); err != nil && runErr == nil {
			runErr = err
		}
	}
	if metricsFile != "" {
		if err := recorder.WriteTextfile(metricsFile); err != nil && runErr == nil {
			runErr = err
		}
	}
	if runErr != nil {
		return runErr
	}

	listed, err := pagination.Apply(summaries, flags.listing)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := writeBatchTable(out, listed, s.cfg.Output.Precision); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "\n%d scenarios, %d failed, in %s (run %s)\n",
		summary.Scenarios, summary.Failed, summary.Duration.Round(time.Millisecond), summary.RunID)
	if store != nil {
		_, _ = fmt.Fprintf(out, "Results written to %s\n", store.Directory())
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%w: %d of %d scenarios", ErrScenariosFailed, summary.Failed, summary.Scenarios)
	}
	return nil
}

// writeBatchTable lists one line per scenario.
func writeBatchTable(w io.Writer, summaries []report.Summary, precision int) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "Scenario\tSAP\tBand\tHeating kWh/m²\tCO₂ kg\tCost £\tStatus")
	fmt.Fprintln(tw, "--------\t---\t----\t--------------\t------\t------\t------")
	for _, sm := range summaries {
		if sm.Err != nil {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t-\tFAILED: %v\n", sm.Name, sm.Err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%.*f\t%s\t%.*f\t%.0f\t%s\tok\n",
			sm.Name,
			precision, sm.SAPRating,
			sm.Band(),
			precision, sm.SpaceHeatingM2,
			sm.AnnualCO2,
			sm.TotalCost.StringFixed(2),
		)
	}
	return tw.Flush()
}
