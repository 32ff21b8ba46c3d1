// Package benchmark runs batches of seeded navigation trials, aggregates them into summary
// statistics and renders the results as CSV, tables and charts.
package benchmark

import (
	"context"
	"math"
	"math/rand/v2"
	"runtime"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"go.viam.com/navsim/costmap"
	"go.viam.com/navsim/gridmap"
	"go.viam.com/navsim/logging"
	"go.viam.com/navsim/motionplan"
	"go.viam.com/navsim/simulation"
)

// golden ratio increment used to spread trial seeds.
const seedStride = 0x9e3779b97f4a7c15

// Options describes a benchmark run.
type Options struct {
	Trials int
	Seed   uint64
	// Workers bounds the number of concurrent trials. Zero means one per CPU.
	Workers int
	// Planners are compared on identical start and goal pairs. Empty means Base.Planner.Type.
	Planners []motionplan.PlannerType
	// Base is copied for every trial; only the endpoints, planner and localization seed change.
	Base  simulation.Config
	Clock clock.Clock
}

// Row is one trial of one planner.
type Row struct {
	GlobalPlanner string
	Trial         int
	StartX        int
	StartY        int
	GoalX         int
	GoalY         int
	PlanFound     bool
	// Success is the true pose goal check; Status may still read succeeded without it when
	// localization is noisy.
	Success       bool
	Steps         int
	PathLength    float64
	TrajLength    float64
	FinalDistance float64
	Collision     bool
	ElapsedMS     float64
	Status        string
}

// Report is the outcome of Run.
type Report struct {
	RunID     uuid.UUID
	Rows      []Row
	Summaries []Summary
}

// SampleStartGoal draws two distinct cells.
func SampleStartGoal(rng *rand.Rand, cells []gridmap.Node) (gridmap.Node, gridmap.Node, error) {
	if len(cells) < 2 {
		return gridmap.Node{}, gridmap.Node{}, errors.Errorf("need at least 2 free cells to sample start and goal, have %d", len(cells))
	}
	start := cells[rng.IntN(len(cells))]
	goal := cells[rng.IntN(len(cells))]
	for goal == start {
		goal = cells[rng.IntN(len(cells))]
	}
	return start, goal, nil
}

// TrialSeed derives the seed of trial i so results do not depend on scheduling.
func TrialSeed(seed uint64, i int) uint64 {
	return seed + uint64(i)*seedStride
}

type job struct {
	trial   int
	planner motionplan.PlannerType
	start   gridmap.Node
	goal    gridmap.Node
}

// Run executes every trial for every planner. onTrial, if set, is called once per finished row
// and never concurrently.
func Run(ctx context.Context, opts Options, logger logging.Logger, onTrial func(Row)) (*Report, error) {
	if opts.Trials < 0 {
		return nil, errors.Errorf("trials must be non-negative, got %d", opts.Trials)
	}
	if err := opts.Base.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid base configuration")
	}
	planners := opts.Planners
	if len(planners) == 0 {
		planners = []motionplan.PlannerType{opts.Base.Planner.Type}
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}

	free := costmap.Build(opts.Base.Grid, opts.Base.InflationRadius, nil).Inflated().FreeCells()
	jobs := make([]job, 0, opts.Trials*len(planners))
	for i := 0; i < opts.Trials; i++ {
		rng := rand.New(rand.NewPCG(opts.Seed, uint64(i)))
		start, goal, err := SampleStartGoal(rng, free)
		if err != nil {
			return nil, err
		}
		for _, p := range planners {
			jobs = append(jobs, job{trial: i, planner: p, start: start, goal: goal})
		}
	}

	report := &Report{RunID: uuid.New(), Rows: make([]Row, len(jobs))}
	trialLogger := logger.Sublogger("trial")
	if logger.GetLevel() > logging.DEBUG {
		trialLogger.SetLevel(logging.WARN)
	}
	logger.Infow("starting benchmark",
		"run_id", report.RunID.String(),
		"trials", opts.Trials,
		"planners", len(planners),
		"workers", workers,
	)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for idx, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row, err := runTrial(gctx, opts, j, trialLogger, clk)
			if err != nil {
				return err
			}
			report.Rows[idx] = row
			if onTrial != nil {
				mu.Lock()
				defer mu.Unlock()
				onTrial(row)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report.Summaries = SummarizeByPlanner(report.Rows, planners)
	return report, nil
}

func runTrial(ctx context.Context, opts Options, j job, logger logging.Logger, clk clock.Clock) (Row, error) {
	cfg := opts.Base
	cfg.Start, cfg.Goal = j.start, j.goal
	cfg.Planner.Type = j.planner
	cfg.Localization.Seed = TrialSeed(opts.Seed, j.trial)

	res, err := simulation.Run(ctx, cfg, logger, simulation.WithClock(clk))
	if err != nil {
		return Row{}, errors.Wrapf(err, "trial %d", j.trial)
	}
	row := Row{
		GlobalPlanner: j.planner.String(),
		Trial:         j.trial,
		StartX:        j.start.X,
		StartY:        j.start.Y,
		GoalX:         j.goal.X,
		GoalY:         j.goal.Y,
		PlanFound:     res.PlanFound,
		Success:       res.GoalReached,
		Steps:         res.Steps,
		PathLength:    res.PathLength,
		TrajLength:    res.TrajectoryLength,
		FinalDistance: res.FinalDistance,
		Collision:     res.Collided,
		ElapsedMS:     float64(res.Elapsed) / float64(time.Millisecond),
		Status:        res.Status.String(),
	}
	if !res.PlanFound {
		row.FinalDistance = math.Inf(1)
	}
	return row, nil
}
