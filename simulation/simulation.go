// Package simulation runs the closed navigation loop: plan, track, estimate, and replan around
// moving obstacles until the robot reaches its goal or a terminal condition is hit.
package simulation

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r2"

	"go.viam.com/navsim/collision"
	"go.viam.com/navsim/control"
	"go.viam.com/navsim/costmap"
	"go.viam.com/navsim/gridmap"
	"go.viam.com/navsim/localization"
	"go.viam.com/navsim/logging"
	"go.viam.com/navsim/metrics"
	"go.viam.com/navsim/motionplan"
	"go.viam.com/navsim/motionplan/dwa"
	"go.viam.com/navsim/obstacles"
	"go.viam.com/navsim/spatialmath"
)

// Option configures a Run.
type Option func(*runOptions)

type runOptions struct {
	clock clock.Clock
}

// WithClock measures elapsed time against c instead of the wall clock.
func WithClock(c clock.Clock) Option {
	return func(o *runOptions) {
		o.clock = c
	}
}

// runner owns the mutable state of a single run.
type runner struct {
	cfg     Config
	logger  logging.Logger
	planner motionplan.Planner

	field *obstacles.Field
	cm    *costmap.CostMap
	loc   localization.Localizer
	ekf   *localization.EKFLocalizer

	plan       motionplan.Plan
	path       []r2.Point
	target     int
	since      int
	stuckTicks int
	forced     bool

	res *Result
}

// Run simulates cfg to completion. The returned error is non-nil only for an invalid Config;
// every other outcome is reported through Result.Status.
func Run(ctx context.Context, cfg Config, logger logging.Logger, opts ...Option) (*Result, error) {
	o := runOptions{clock: clock.New()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	planner, err := motionplan.NewPlanner(cfg.Planner)
	if err != nil {
		return nil, err
	}

	begin := o.clock.Now()
	r := newRunner(cfg, logger, planner)
	r.run(ctx)
	r.finish()
	r.res.Elapsed = o.clock.Since(begin)

	logger.Infow("simulation finished",
		"status", r.res.Status.String(),
		"steps", r.res.Steps,
		"replans", r.res.Replans,
		"final_distance", r.res.FinalDistance,
	)
	return r.res, nil
}

func newRunner(cfg Config, logger logging.Logger, planner motionplan.Planner) *runner {
	start := spatialmath.NewPose(float64(cfg.Start.X), float64(cfg.Start.Y), cfg.StartHeading)
	r := &runner{
		cfg:     cfg,
		logger:  logger,
		planner: planner,
		res:     &Result{Status: Running, TruePoses: []spatialmath.Pose{start}},
	}
	if cfg.Dynamic.Enabled {
		r.field = obstacles.NewField(cfg.Dynamic.Obstacles)
	}
	if cfg.Localization.Enabled {
		r.ekf = localization.NewEKFLocalizer(start, cfg.Localization.Params, cfg.Localization.Seed)
		r.loc = r.ekf
		r.res.EstimatedPoses = []spatialmath.Pose{start}
	} else {
		r.loc = localization.NewPerfectLocalizer(start)
	}
	r.rebuildCostmap()
	return r
}

func (r *runner) rebuildCostmap() {
	var overlay []gridmap.Node
	if r.field != nil {
		overlay = r.field.Cells(r.cfg.Grid)
	}
	r.cm = costmap.Build(r.cfg.Grid, r.cfg.InflationRadius, overlay)
}

func (r *runner) setPlan(plan motionplan.Plan) {
	r.plan = plan
	r.path = plan.Points()
	r.res.Path = r.path
	r.target = 0
}

func (r *runner) goal() r2.Point {
	return r.cfg.Goal.Point()
}

func (r *runner) atGoal(pose spatialmath.Pose) bool {
	return pose.Distance(r.goal()) <= r.cfg.GoalTolerance
}

func (r *runner) run(ctx context.Context) {
	plan, ok := r.planner.Plan(r.cm, r.cfg.Start, r.cfg.Goal)
	if !ok {
		r.logger.Debugw("no initial plan", "error", motionplan.NewPlannerFailedError(r.cfg.Start, r.cfg.Goal))
		r.res.Status = NoPlan
		return
	}
	r.res.PlanFound = true
	r.setPlan(plan)
	r.res.InitialPath = r.path

	for r.res.Steps < r.cfg.MaxSteps {
		if ctx.Err() != nil {
			r.res.Status = Canceled
			return
		}
		if status := r.tick(); status != Running {
			r.res.Status = status
			return
		}
	}
	if r.atGoal(r.loc.CurrentPosition()) {
		r.res.Status = Succeeded
		return
	}
	r.res.Status = Timeout
}

// tick advances the loop by one time step and returns Running unless the run is over.
func (r *runner) tick() Status {
	pose := r.loc.CurrentPosition()
	if r.atGoal(pose) {
		return Succeeded
	}

	if r.field != nil {
		r.field.Step(r.cfg.Dt, r.cfg.Grid)
		r.rebuildCostmap()
		if status := r.maybeReplan(pose); status != Running {
			return status
		}
	}

	view := r.cm
	if r.cfg.Window.Radius > 0 {
		view = r.cm.Windowed(pose.Point, r.cfg.Window.Radius, r.cfg.Window.UnknownAsObstacle)
	}
	cmd := r.command(pose, view)

	if cmd.IsZero(stuckEpsilon) {
		r.stuckTicks++
		if r.stuckTicks >= r.cfg.StuckSteps {
			if r.field == nil {
				return Stuck
			}
			r.forced = true
		}
	} else {
		r.stuckTicks = 0
	}

	truePose := r.res.TruePoses[len(r.res.TruePoses)-1].Integrate(cmd.V, cmd.Omega, r.cfg.Dt)
	r.res.TruePoses = append(r.res.TruePoses, truePose)
	r.res.Steps++

	r.loc.Observe(cmd.V, cmd.Omega, r.cfg.Dt, truePose)
	if r.ekf != nil {
		r.res.EstimatedPoses = append(r.res.EstimatedPoses, r.ekf.CurrentPosition())
	}
	r.since++

	if collision.PointInCollision(r.cm, truePose.Point) {
		r.res.Collided = true
		if r.cfg.StopOnCollision {
			return Collision
		}
	}
	return Running
}

// maybeReplan replaces the reference path when it went stale, became obstructed or the robot
// got stuck behind a moving obstacle.
func (r *runner) maybeReplan(pose spatialmath.Pose) Status {
	reason := replanNone
	switch {
	case r.forced:
		reason = ReplanStuck
	case r.cfg.Dynamic.ReplanInterval > 0 && r.since >= r.cfg.Dynamic.ReplanInterval:
		reason = ReplanInterval
	case collision.PathInCollision(r.cm, motionplan.NodesToPoints(r.plan.Cells())):
		reason = ReplanObstructed
	}
	if reason == replanNone {
		return Running
	}
	r.forced = false

	from := gridmap.NodeAt(pose.Point)
	plan, ok := r.planner.Plan(r.cm, from, r.cfg.Goal)
	if !ok {
		r.logger.Debugw("replan failed", "reason", reason.String(), "from", from.String())
		return ReplanFailed
	}
	r.setPlan(plan)
	r.since = 0
	r.res.Replans++
	r.logger.Debugw("replanned",
		"reason", reason.String(),
		"from", from.String(),
		"nodes", plan.Len(),
		"replans", r.res.Replans,
	)
	if r.cfg.Dynamic.MaxReplans > 0 && r.res.Replans >= r.cfg.Dynamic.MaxReplans {
		return ReplanExhausted
	}
	return Running
}

func (r *runner) command(pose spatialmath.Pose, view *costmap.CostMap) control.Command {
	if r.cfg.Controller == DWAController {
		out := dwa.Control(pose, r.path, view, r.cfg.DWA, r.cfg.Dt)
		if out.Blocked {
			r.res.BlockedTicks++
		}
		return control.Command{V: out.V, Omega: out.Omega}
	}
	cmd, target := control.PurePursuit(pose, r.path, r.cfg.PurePursuit, r.target)
	r.target = target
	return cmd
}

func (r *runner) finish() {
	res := r.res
	if r.ekf != nil {
		res.SkippedUpdates = r.ekf.SkippedUpdates()
	}
	if r.field != nil {
		for _, o := range r.field.Obstacles() {
			res.Obstacles = append(res.Obstacles, o.Position())
		}
	}
	goal := r.goal()
	res.GoalReached = metrics.GoalReached(res.TruePoses, goal, r.cfg.GoalTolerance)
	res.PathLength = metrics.PathLength(res.Path)
	res.TrajectoryLength = metrics.TrajectoryLength(res.TruePoses)
	res.FinalDistance = metrics.FinalDistance(res.TruePoses, goal)
}
