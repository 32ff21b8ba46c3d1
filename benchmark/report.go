package benchmark

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Markers delimit the generated table inside a markdown document.
const (
	TableStartMarker = "<!-- BENCHMARK_TABLE_START -->"
	TableEndMarker   = "<!-- BENCHMARK_TABLE_END -->"
	reportSection    = "## Benchmark Comparison"
)

// SummaryTable lays out one line per summary. Use Render for a terminal and RenderMarkdown for
// a report.
func SummaryTable(summaries []Summary) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{
		"Planner", "Plan Success", "Success", "Collision", "Avg Steps",
		"Avg Path", "Avg Traj", "Avg Final Dist", "Avg ms",
	})
	for _, s := range summaries {
		t.AppendRow(table.Row{
			s.GlobalPlanner,
			percent(s.PlanSuccessRate),
			percent(s.SuccessRate),
			percent(s.CollisionRate),
			fmt.Sprintf("%.1f", s.AvgSteps),
			fmt.Sprintf("%.2f", s.AvgPathLength),
			fmt.Sprintf("%.2f", s.AvgTrajLength),
			fmt.Sprintf("%.2f", s.AvgFinalDistance),
			fmt.Sprintf("%.2f", s.AvgElapsedMS),
		})
	}
	t.SetStyle(table.StyleLight)
	return t
}

func percent(rate float64) string {
	return fmt.Sprintf("%.0f%%", rate*100)
}

// UpdateMarkdownReport replaces the text between the table markers with tbl. A document without
// markers gets a new comparison section appended.
func UpdateMarkdownReport(content, tbl string) string {
	tbl = strings.TrimRight(tbl, "\n")
	before, rest, found := strings.Cut(content, TableStartMarker)
	if found {
		if _, after, ok := strings.Cut(rest, TableEndMarker); ok {
			return before + TableStartMarker + "\n" + tbl + "\n" + TableEndMarker + after
		}
	}
	return content + "\n" + reportSection + "\n\n" + TableStartMarker + "\n" + tbl + "\n" + TableEndMarker + "\n"
}

// UpdateMarkdownFile rewrites the summary table inside the markdown file at path.
func UpdateMarkdownFile(path string, summaries []Summary) error {
	//nolint:gosec
	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "cannot read report %q", path)
	}
	updated := UpdateMarkdownReport(string(content), SummaryTable(summaries).RenderMarkdown())
	//nolint:gosec
	return os.WriteFile(path, []byte(updated), 0o644)
}

// StepHistogram prints a text histogram of the steps taken by every row that found a plan. Nothing
// is printed unless the step counts differ.
func StepHistogram(w io.Writer, rows []Row, bins, width int) error {
	steps := lo.FilterMap(rows, func(r Row, _ int) (float64, bool) {
		return float64(r.Steps), r.PlanFound
	})
	if len(steps) < 2 || lo.Min(steps) == lo.Max(steps) {
		return nil
	}
	return histogram.Fprint(w, histogram.Hist(bins, steps), histogram.Linear(width))
}
