package benchmark

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/samber/lo"

	"go.viam.com/navsim/motionplan"
)

// Summary aggregates the rows of one planner.
type Summary struct {
	GlobalPlanner   string
	Trials          int
	PlanSuccessRate float64
	SuccessRate     float64
	CollisionRate   float64
	// AvgSteps, AvgPathLength and AvgTrajLength only count successful trials.
	AvgSteps      float64
	AvgPathLength float64
	AvgTrajLength float64
	// AvgFinalDistance skips trials without a plan, whose distance is infinite.
	AvgFinalDistance float64
	AvgElapsedMS     float64
}

// Summarize aggregates rows. Every average of an empty set is zero.
func Summarize(rows []Row) Summary {
	s := Summary{Trials: len(rows)}
	if len(rows) == 0 {
		return s
	}
	if planners := lo.Uniq(lo.Map(rows, func(r Row, _ int) string { return r.GlobalPlanner })); len(planners) == 1 {
		s.GlobalPlanner = planners[0]
	}

	n := float64(len(rows))
	s.PlanSuccessRate = float64(lo.CountBy(rows, func(r Row) bool { return r.PlanFound })) / n
	s.SuccessRate = float64(lo.CountBy(rows, func(r Row) bool { return r.Success })) / n
	s.CollisionRate = float64(lo.CountBy(rows, func(r Row) bool { return r.Collision })) / n

	successes := lo.Filter(rows, func(r Row, _ int) bool { return r.Success })
	s.AvgSteps = mean(lo.Map(successes, func(r Row, _ int) float64 { return float64(r.Steps) }))
	s.AvgPathLength = mean(lo.Map(successes, func(r Row, _ int) float64 { return r.PathLength }))
	s.AvgTrajLength = mean(lo.Map(successes, func(r Row, _ int) float64 { return r.TrajLength }))

	finite := lo.FilterMap(rows, func(r Row, _ int) (float64, bool) {
		return r.FinalDistance, !math.IsInf(r.FinalDistance, 0) && !math.IsNaN(r.FinalDistance)
	})
	s.AvgFinalDistance = mean(finite)
	s.AvgElapsedMS = mean(lo.Map(rows, func(r Row, _ int) float64 { return r.ElapsedMS }))
	return s
}

// SummarizeByPlanner returns one Summary per planner, in the order given.
func SummarizeByPlanner(rows []Row, planners []motionplan.PlannerType) []Summary {
	return lo.Map(planners, func(p motionplan.PlannerType, _ int) Summary {
		s := Summarize(lo.Filter(rows, func(r Row, _ int) bool { return r.GlobalPlanner == p.String() }))
		s.GlobalPlanner = p.String()
		return s
	})
}

func mean(values []float64) float64 {
	m, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return m
}
