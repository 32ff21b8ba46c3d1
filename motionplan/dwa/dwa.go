// Package dwa implements a dynamic window local planner: it samples (v, ω) commands, rolls each
// out with the unicycle model and keeps the cheapest trajectory that stays clear of obstacles.
package dwa

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/floats"

	"go.viam.com/navsim/collision"
	"go.viam.com/navsim/gridmap"
	"go.viam.com/navsim/spatialmath"
)

const (
	minClearance = 1e-3
	minStep      = 1e-3
)

// CostGrid is the obstacle view a rollout is checked against.
type CostGrid interface {
	gridmap.Grid
	// OccupiedPoints are the obstacle centers used for clearance.
	OccupiedPoints() []r2.Point
}

// Params configures sampling and scoring.
type Params struct {
	VMin            float64 `json:"v_min"`
	VMax            float64 `json:"v_max"`
	OmegaMax        float64 `json:"omega_max"`
	VSamples        int     `json:"v_samples"`
	OmegaSamples    int     `json:"omega_samples"`
	Horizon         float64 `json:"horizon"`
	GoalWeight      float64 `json:"goal_weight"`
	PathWeight      float64 `json:"path_weight"`
	ClearanceWeight float64 `json:"clearance_weight"`
}

// DefaultParams returns the stock sampling window.
func DefaultParams() Params {
	return Params{
		VMin:            0,
		VMax:            1,
		OmegaMax:        2,
		VSamples:        5,
		OmegaSamples:    11,
		Horizon:         1.5,
		GoalWeight:      1,
		PathWeight:      0.4,
		ClearanceWeight: 0.2,
	}
}

// Validate rejects sampling windows that cannot produce a command.
func (p Params) Validate() error {
	var err error
	if p.VSamples < 1 {
		err = multierr.Append(err, errors.Errorf("v_samples must be positive, got %d", p.VSamples))
	}
	if p.OmegaSamples < 1 {
		err = multierr.Append(err, errors.Errorf("omega_samples must be positive, got %d", p.OmegaSamples))
	}
	if p.VMin > p.VMax {
		err = multierr.Append(err, errors.Errorf("v_min %v exceeds v_max %v", p.VMin, p.VMax))
	}
	if p.OmegaMax < 0 {
		err = multierr.Append(err, errors.Errorf("omega_max must be non-negative, got %v", p.OmegaMax))
	}
	if p.Horizon <= 0 {
		err = multierr.Append(err, errors.Errorf("horizon must be positive, got %v", p.Horizon))
	}
	if p.GoalWeight < 0 || p.PathWeight < 0 || p.ClearanceWeight < 0 {
		err = multierr.Append(err, errors.New("weights must be non-negative"))
	}
	return err
}

// Result is the selected command and its rollout. Blocked is set when every sample collided, in
// which case the command is zero and the rollout holds only the current pose.
type Result struct {
	V          float64
	Omega      float64
	Trajectory []spatialmath.Pose
	Blocked    bool
}

// Control picks the best command toward the last point of path. path must not be empty.
func Control(pose spatialmath.Pose, path []r2.Point, grid CostGrid, params Params, dt float64) Result {
	goal := path[len(path)-1]
	obstacles := grid.OccupiedPoints()

	best := Result{Trajectory: []spatialmath.Pose{pose}, Blocked: true}
	bestCost := math.Inf(1)
	for _, v := range span(params.VMin, params.VMax, params.VSamples) {
		for _, omega := range span(-params.OmegaMax, params.OmegaMax, params.OmegaSamples) {
			traj := Rollout(pose, v, omega, dt, params.Horizon)
			if collision.TrajectoryInCollision(grid, traj) {
				continue
			}

			end := traj[len(traj)-1].Point
			cost := params.GoalWeight*end.Sub(goal).Norm() +
				params.PathWeight*distanceToPath(end, path) +
				params.ClearanceWeight/math.Max(clearance(traj, obstacles), minClearance)
			if cost < bestCost {
				bestCost = cost
				best = Result{V: v, Omega: omega, Trajectory: traj}
			}
		}
	}
	return best
}

// Rollout forward simulates a constant command over horizon. The first pose is the start pose.
func Rollout(pose spatialmath.Pose, v, omega, dt, horizon float64) []spatialmath.Pose {
	steps := max(1, int(horizon/math.Max(dt, minStep)))
	traj := make([]spatialmath.Pose, 0, steps+1)
	traj = append(traj, pose)
	for i := 0; i < steps; i++ {
		pose = pose.Integrate(v, omega, dt)
		traj = append(traj, pose)
	}
	return traj
}

// span is linspace that tolerates a single sample.
func span(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

func clearance(traj []spatialmath.Pose, obstacles []r2.Point) float64 {
	nearest := math.Inf(1)
	if len(obstacles) == 0 {
		return nearest
	}
	dists := make([]float64, len(obstacles))
	for _, p := range traj {
		for i, o := range obstacles {
			dists[i] = p.Point.Sub(o).Norm()
		}
		nearest = math.Min(nearest, floats.Min(dists))
	}
	return nearest
}

func distanceToPath(p r2.Point, path []r2.Point) float64 {
	nearest := math.Inf(1)
	for _, q := range path {
		nearest = math.Min(nearest, p.Sub(q).Norm())
	}
	return nearest
}
