package benchmark

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// RowHeader is the column order written by WriteCSV.
var RowHeader = []string{
	"global_planner", "trial", "start_x", "start_y", "goal_x", "goal_y", "plan_found", "success", "steps",
	"path_length", "traj_length", "final_distance", "collision", "elapsed_ms", "status",
}

// SummaryHeader is the column order written by WriteSummaryCSV.
var SummaryHeader = []string{
	"global_planner", "trials", "plan_success_rate", "success_rate", "collision_rate", "avg_steps",
	"avg_path_length", "avg_traj_length", "avg_final_distance", "avg_elapsed_ms",
}

// WriteCSV writes rows with a header line. Booleans are written as 0 or 1.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(RowHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.GlobalPlanner,
			strconv.Itoa(r.Trial),
			strconv.Itoa(r.StartX), strconv.Itoa(r.StartY),
			strconv.Itoa(r.GoalX), strconv.Itoa(r.GoalY),
			formatBool(r.PlanFound), formatBool(r.Success),
			strconv.Itoa(r.Steps),
			formatFloat(r.PathLength), formatFloat(r.TrajLength), formatFloat(r.FinalDistance),
			formatBool(r.Collision),
			formatFloat(r.ElapsedMS),
			r.Status,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads rows written by WriteCSV. Columns are matched by header name, so files that
// lack the planner, trial or status columns still load.
func ReadCSV(r io.Reader) ([]Row, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(records))
	for i, rec := range records {
		var row Row
		var errs []error
		row.GlobalPlanner = rec["global_planner"]
		row.Status = rec["status"]
		row.Trial = i
		if _, ok := rec["trial"]; ok {
			row.Trial = toInt(rec["trial"], &errs)
		}
		row.StartX = toInt(rec["start_x"], &errs)
		row.StartY = toInt(rec["start_y"], &errs)
		row.GoalX = toInt(rec["goal_x"], &errs)
		row.GoalY = toInt(rec["goal_y"], &errs)
		row.PlanFound = toBool(rec["plan_found"], &errs)
		row.Success = toBool(rec["success"], &errs)
		row.Steps = toInt(rec["steps"], &errs)
		row.PathLength = toFloat(rec["path_length"], &errs)
		row.TrajLength = toFloat(rec["traj_length"], &errs)
		row.FinalDistance = toFloat(rec["final_distance"], &errs)
		row.Collision = toBool(rec["collision"], &errs)
		row.ElapsedMS = toFloat(rec["elapsed_ms"], &errs)
		if len(errs) > 0 {
			return nil, errors.Wrapf(errs[0], "row %d", i+1)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteSummaryCSV writes one line per summary.
func WriteSummaryCSV(w io.Writer, summaries []Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SummaryHeader); err != nil {
		return err
	}
	for _, s := range summaries {
		record := []string{
			s.GlobalPlanner,
			strconv.Itoa(s.Trials),
			formatFloat(s.PlanSuccessRate), formatFloat(s.SuccessRate), formatFloat(s.CollisionRate),
			formatFloat(s.AvgSteps), formatFloat(s.AvgPathLength), formatFloat(s.AvgTrajLength),
			formatFloat(s.AvgFinalDistance), formatFloat(s.AvgElapsedMS),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadSummaryCSV reads summaries written by WriteSummaryCSV.
func ReadSummaryCSV(r io.Reader) ([]Summary, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	summaries := make([]Summary, 0, len(records))
	for i, rec := range records {
		var errs []error
		s := Summary{
			GlobalPlanner:    rec["global_planner"],
			Trials:           toInt(rec["trials"], &errs),
			PlanSuccessRate:  toFloat(rec["plan_success_rate"], &errs),
			SuccessRate:      toFloat(rec["success_rate"], &errs),
			CollisionRate:    toFloat(rec["collision_rate"], &errs),
			AvgSteps:         toFloat(rec["avg_steps"], &errs),
			AvgPathLength:    toFloat(rec["avg_path_length"], &errs),
			AvgTrajLength:    toFloat(rec["avg_traj_length"], &errs),
			AvgFinalDistance: toFloat(rec["avg_final_distance"], &errs),
			AvgElapsedMS:     toFloat(rec["avg_elapsed_ms"], &errs),
		}
		if len(errs) > 0 {
			return nil, errors.Wrapf(errs[0], "row %d", i+1)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// readRecords returns every data line keyed by its header column.
func readRecords(r io.Reader) ([]map[string]string, error) {
	cr := csv.NewReader(r)
	lines, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, errors.New("missing csv header")
	}
	header := lines[0]
	records := make([]map[string]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		rec := make(map[string]string, len(header))
		for i, name := range header {
			rec[name] = line[i]
		}
		records = append(records, rec)
	}
	return records, nil
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func formatFloat(f float64) string {
	if math.IsInf(f, 1) {
		return "inf"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Missing columns decode as zero values.
func toInt(s string, errs *[]error) int {
	if s == "" {
		return 0
	}
	// older files write integer columns as floats
	v, err := cast.ToFloat64E(s)
	if err != nil {
		*errs = append(*errs, err)
	}
	return int(v)
}

func toFloat(s string, errs *[]error) float64 {
	if s == "" {
		return 0
	}
	v, err := cast.ToFloat64E(s)
	if err != nil {
		*errs = append(*errs, err)
	}
	return v
}

func toBool(s string, errs *[]error) bool {
	if s == "" {
		return false
	}
	v, err := cast.ToFloat64E(s)
	if err != nil {
		*errs = append(*errs, err)
	}
	return v != 0
}
