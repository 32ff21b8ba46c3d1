package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"go.viam.com/navsim/benchmark"
	"go.viam.com/navsim/motionplan"
)

const (
	histogramBins  = 8
	histogramWidth = 40
)

// BenchmarkAction runs seeded trials for each requested global planner and writes the results.
func BenchmarkAction(c *cli.Context) error {
	logger, closeLog, err := newLogger(c)
	if err != nil {
		return err
	}
	defer goutils.UncheckedErrorFunc(closeLog)

	scenario, err := loadScenario(c)
	if err != nil {
		return err
	}
	if c.IsSet(flagLocalPlanner) {
		scenario.LocalPlanner = c.String(flagLocalPlanner)
	}
	if scenario.ForcesDWA() {
		warningf(c.App.ErrWriter, "dynamic obstacles require DWA; switching to DWA")
	}
	base, err := scenario.SimulationConfig()
	if err != nil {
		return err
	}
	planners, err := parsePlanners(c.StringSlice(benchFlagPlanners), base.Planner.Type)
	if err != nil {
		return err
	}

	opts := benchmark.Options{
		Trials:   c.Int(benchFlagTrials),
		Seed:     c.Uint64(benchFlagSeed),
		Workers:  c.Int(benchFlagWorkers),
		Planners: planners,
		Base:     base,
	}
	if opts.Trials == 0 {
		printf(c.App.Writer, "No trials to run.")
		return nil
	}

	progress, err := newTrialProgress(opts.Trials*len(planners), progressEnabled(c))
	if err != nil {
		return err
	}
	report, err := benchmark.Run(c.Context, opts, logger, func(row benchmark.Row) {
		progress.Advance(fmt.Sprintf("%s trial %d", row.GlobalPlanner, row.Trial))
	})
	if finishErr := progress.Finish(); err == nil {
		err = finishErr
	}
	if err != nil {
		return err
	}

	if err := writeBenchmarkOutputs(c, report); err != nil {
		return err
	}
	printBenchmarkSummary(c.App.Writer, report)
	return nil
}

// parsePlanners resolves the --planners values. Values may also be comma separated; "all" selects
// every planner.
func parsePlanners(values []string, fallback motionplan.PlannerType) ([]motionplan.PlannerType, error) {
	names := lo.FlatMap(values, func(v string, _ int) []string {
		return lo.Compact(lo.Map(strings.Split(v, ","), func(s string, _ int) string {
			return strings.TrimSpace(s)
		}))
	})
	if len(names) == 0 {
		return []motionplan.PlannerType{fallback}, nil
	}
	if lo.Contains(names, "all") {
		return motionplan.PlannerTypes, nil
	}

	var errs error
	planners := make([]motionplan.PlannerType, 0, len(names))
	for _, name := range names {
		p, err := motionplan.ParsePlannerType(name)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		planners = append(planners, p)
	}
	if errs != nil {
		return nil, errors.Wrap(errs, "--"+benchFlagPlanners)
	}
	return lo.Uniq(planners), nil
}

func writeBenchmarkOutputs(c *cli.Context, report *benchmark.Report) error {
	if path := c.Path(benchFlagCSV); path != "" {
		if err := writeReportFile(path, func(w io.Writer) error { return benchmark.WriteCSV(w, report.Rows) }); err != nil {
			return err
		}
		infof(c.App.Writer, "wrote %d rows to %s", len(report.Rows), path)
	}
	if path := c.Path(benchFlagSummaryCSV); path != "" {
		if err := writeReportFile(path, func(w io.Writer) error {
			return benchmark.WriteSummaryCSV(w, report.Summaries)
		}); err != nil {
			return err
		}
	}
	if path := c.Path(benchFlagChart); path != "" {
		if err := writeReportFile(path, func(w io.Writer) error {
			return benchmark.SummaryChart(w, report.Summaries[0])
		}); err != nil {
			return err
		}
	}
	if path := c.Path(benchFlagCompareChart); path != "" {
		if err := writeReportFile(path, func(w io.Writer) error {
			return benchmark.CompareChart(w, report.Summaries)
		}); err != nil {
			return err
		}
	}
	if path := c.Path(benchFlagReadme); path != "" {
		if err := benchmark.UpdateMarkdownFile(path, report.Summaries); err != nil {
			return err
		}
		infof(c.App.Writer, "updated benchmark table in %s", path)
	}
	return nil
}

func writeReportFile(path string, write func(io.Writer) error) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer goutils.UncheckedErrorFunc(f.Close)
	return errors.Wrapf(write(f), "cannot write %q", path)
}

func printBenchmarkSummary(w io.Writer, report *benchmark.Report) {
	printf(w, "Benchmark summary (run %s)", report.RunID)
	for _, s := range report.Summaries {
		statusf(w, s.SuccessRate > 0, "%s: %d trials", s.GlobalPlanner, s.Trials)
	}
	printf(w, "%s", benchmark.SummaryTable(report.Summaries).Render())
	printf(w, "Steps per planned trial:")
	//nolint:errcheck
	benchmark.StepHistogram(w, report.Rows, histogramBins, histogramWidth)
}
