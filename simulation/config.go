package simulation

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/navsim/control"
	"go.viam.com/navsim/gridmap"
	"go.viam.com/navsim/localization"
	"go.viam.com/navsim/motionplan"
	"go.viam.com/navsim/motionplan/dwa"
	"go.viam.com/navsim/obstacles"
)

// default values for a simulation run.
const (
	defaultDt            = 0.1
	defaultMaxSteps      = 500
	defaultGoalTolerance = 0.3
	defaultStuckSteps    = 10

	defaultReplanInterval = 10
	defaultMaxReplans     = 50
	defaultInitCov        = 0.5

	// commands below this magnitude count toward the stuck detector.
	stuckEpsilon = 1e-3
)

// ControllerKind selects how velocity commands are produced each tick.
type ControllerKind int

const (
	// PurePursuitController tracks the reference path geometrically.
	PurePursuitController ControllerKind = iota
	// DWAController samples and scores short rollouts.
	DWAController
)

func (c ControllerKind) String() string {
	switch c {
	case PurePursuitController:
		return "pure_pursuit"
	case DWAController:
		return "dwa"
	default:
		return "unknown"
	}
}

// ParseControllerKind maps a configured local planner name to its kind.
func ParseControllerKind(name string) (ControllerKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "pure_pursuit", "purepursuit", "pursuit":
		return PurePursuitController, nil
	case "dwa", "":
		return DWAController, nil
	}
	return 0, errors.Errorf("unknown local planner %q", name)
}

// WindowConfig limits the local planner to a sensing radius around the robot.
type WindowConfig struct {
	// Radius enables windowing when positive.
	Radius            float64 `json:"radius"`
	UnknownAsObstacle bool    `json:"unknown_as_obstacle"`
}

// DynamicConfig enables moving obstacles and the replanning that comes with them.
type DynamicConfig struct {
	Enabled        bool                 `json:"enabled"`
	Obstacles      []obstacles.Obstacle `json:"obstacles"`
	ReplanInterval int                  `json:"replan_interval"`
	// MaxReplans ends the run once this many replans have happened. Zero means unlimited.
	MaxReplans int `json:"max_replans"`
}

// LocalizationConfig enables the noisy sensors and the EKF.
type LocalizationConfig struct {
	Enabled bool `json:"enabled"`
	localization.Params
	Seed uint64 `json:"seed"`
}

// Config fully describes one run. It is treated as immutable once passed to Run.
type Config struct {
	Grid            *gridmap.GridMap
	Start           gridmap.Node
	Goal            gridmap.Node
	StartHeading    float64
	InflationRadius float64

	Planner     motionplan.PlannerOptions
	Controller  ControllerKind
	PurePursuit control.PurePursuitParams
	DWA         dwa.Params
	Window      WindowConfig

	Dynamic      DynamicConfig
	Localization LocalizationConfig

	Dt            float64
	MaxSteps      int
	GoalTolerance float64
	// StuckSteps is the number of consecutive near-zero commands that count as stuck.
	StuckSteps      int
	StopOnCollision bool
}

// DefaultConfig returns a pure pursuit run over grid with the stock parameters.
func DefaultConfig(grid *gridmap.GridMap, start, goal gridmap.Node) Config {
	return Config{
		Grid:        grid,
		Start:       start,
		Goal:        goal,
		Controller:  PurePursuitController,
		PurePursuit: control.DefaultPurePursuitParams(),
		DWA:         dwa.DefaultParams(),
		Dynamic: DynamicConfig{
			ReplanInterval: defaultReplanInterval,
			MaxReplans:     defaultMaxReplans,
		},
		Localization: LocalizationConfig{
			Params: localization.Params{Noise: localization.DefaultSensorNoise(), InitCov: defaultInitCov},
		},
		Dt:            defaultDt,
		MaxSteps:      defaultMaxSteps,
		GoalTolerance: defaultGoalTolerance,
		StuckSteps:    defaultStuckSteps,
	}
}

// Validate reports every malformed field at once.
func (c *Config) Validate() error {
	var err error
	if c.Grid == nil {
		return errors.New("grid is required")
	}
	if c.InflationRadius < 0 {
		err = multierr.Append(err, errors.Errorf("inflation_radius must be non-negative, got %v", c.InflationRadius))
	}
	if _, planErr := motionplan.NewPlanner(c.Planner); planErr != nil {
		err = multierr.Append(err, planErr)
	}
	switch c.Controller {
	case PurePursuitController:
		err = multierr.Append(err, errors.Wrap(c.PurePursuit.Validate(), "pure_pursuit"))
	case DWAController:
		err = multierr.Append(err, errors.Wrap(c.DWA.Validate(), "dwa"))
	default:
		err = multierr.Append(err, errors.Errorf("unknown controller %d", int(c.Controller)))
	}
	if c.Window.Radius < 0 {
		err = multierr.Append(err, errors.Errorf("local_window.radius must be non-negative, got %v", c.Window.Radius))
	}
	if c.Dynamic.Enabled {
		if c.Dynamic.ReplanInterval < 0 {
			err = multierr.Append(err, errors.Errorf("replan_interval must be non-negative, got %d", c.Dynamic.ReplanInterval))
		}
		if c.Dynamic.MaxReplans < 0 {
			err = multierr.Append(err, errors.Errorf("max_replans must be non-negative, got %d", c.Dynamic.MaxReplans))
		}
	}
	if c.Localization.Enabled {
		err = multierr.Append(err, errors.Wrap(c.Localization.Noise.Validate(), "localization"))
		if c.Localization.InitCov < 0 {
			err = multierr.Append(err, errors.Errorf("init_cov must be non-negative, got %v", c.Localization.InitCov))
		}
	}
	if c.Dt <= 0 {
		err = multierr.Append(err, errors.Errorf("dt must be positive, got %v", c.Dt))
	}
	if c.MaxSteps < 0 {
		err = multierr.Append(err, errors.Errorf("max_steps must be non-negative, got %d", c.MaxSteps))
	}
	if c.GoalTolerance < 0 {
		err = multierr.Append(err, errors.Errorf("goal_tolerance must be non-negative, got %v", c.GoalTolerance))
	}
	if c.StuckSteps < 1 {
		err = multierr.Append(err, errors.Errorf("stuck_steps must be positive, got %d", c.StuckSteps))
	}
	return err
}
