// Package config loads navsim scenario files and turns them into simulation configurations.
package config

import (
	"math"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.viam.com/navsim/control"
	"go.viam.com/navsim/gridmap"
	"go.viam.com/navsim/localization"
	"go.viam.com/navsim/motionplan"
	"go.viam.com/navsim/motionplan/dwa"
	"go.viam.com/navsim/obstacles"
	"go.viam.com/navsim/simulation"
)

// default scenario values that are not owned by another package.
const (
	defaultDt             = 0.1
	defaultMaxSteps       = 500
	defaultGoalTolerance  = 0.3
	defaultStuckSteps     = 10
	defaultReplanInterval = 10
	defaultMaxReplans     = 50
	defaultInitCov        = 0.5
	defaultLocalPlanner   = "dwa"
	defaultOutputPNG      = "output.png"
)

var (
	defaultStart = gridmap.Node{X: 0, Y: 0}
	defaultGoal  = gridmap.Node{X: 9, Y: 9}
)

// Scenario is a decoded scenario file.
type Scenario struct {
	// Grid rows are listed from y = 0 upward. An empty grid selects the demo maze.
	Grid            []string `json:"grid"`
	Start           []int    `json:"start"`
	Goal            []int    `json:"goal"`
	StartHeading    float64  `json:"start_heading"`
	InflationRadius float64  `json:"inflation_radius"`

	GlobalPlanner string                    `json:"global_planner"`
	Heuristic     string                    `json:"heuristic"`
	LocalPlanner  string                    `json:"local_planner"`
	LocalWindow   simulation.WindowConfig   `json:"local_window"`
	PurePursuit   control.PurePursuitParams `json:"pure_pursuit"`
	DWA           dwa.Params                `json:"dwa"`

	// Lookahead and Speed are the older top level spellings of the pure_pursuit keys.
	Lookahead *float64 `json:"lookahead"`
	Speed     *float64 `json:"speed"`

	Dynamic      DynamicObstacles `json:"dynamic_obstacles"`
	Localization Localization     `json:"localization"`
	Sim          Sim              `json:"sim"`

	Seed      uint64 `json:"seed"`
	OutputPNG string `json:"output_png"`
	OutputGIF string `json:"output_gif"`
}

// DynamicObstacles configures moving obstacles and replanning.
type DynamicObstacles struct {
	Enabled        bool           `json:"enabled"`
	ReplanInterval int            `json:"replan_interval"`
	MaxReplans     int            `json:"max_replans"`
	Obstacles      []ObstacleSpec `json:"obstacles"`
}

// ObstacleSpec is one moving obstacle as written in a scenario file.
type ObstacleSpec struct {
	Position []float64 `json:"position"`
	Velocity []float64 `json:"velocity"`
}

// Validate ensures all parts of the config are valid.
func (o *ObstacleSpec) Validate(path string) error {
	if len(o.Position) == 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "position")
	}
	if len(o.Position) != 2 {
		return utils.NewConfigValidationError(path, errors.Errorf("position must have 2 values, got %d", len(o.Position)))
	}
	if len(o.Velocity) != 0 && len(o.Velocity) != 2 {
		return utils.NewConfigValidationError(path, errors.Errorf("velocity must have 2 values, got %d", len(o.Velocity)))
	}
	return nil
}

// Obstacle converts the entry. A missing velocity means a stationary obstacle.
func (o ObstacleSpec) Obstacle() obstacles.Obstacle {
	ob := obstacles.Obstacle{X: o.Position[0], Y: o.Position[1]}
	if len(o.Velocity) == 2 {
		ob.VX, ob.VY = o.Velocity[0], o.Velocity[1]
	}
	return ob
}

// Localization configures the noisy sensors and the EKF.
type Localization struct {
	Enabled bool                     `json:"enabled"`
	InitCov float64                  `json:"init_cov"`
	Seed    uint64                   `json:"seed"`
	Noise   localization.SensorNoise `json:"noise"`
}

// Sim holds the loop parameters.
type Sim struct {
	Dt              float64 `json:"dt"`
	MaxSteps        int     `json:"max_steps"`
	GoalTolerance   float64 `json:"goal_tolerance"`
	StuckSteps      int     `json:"stuck_steps"`
	StopOnCollision bool    `json:"stop_on_collision"`
}

// Default returns the scenario used when no file, or an empty file, is given.
func Default() Scenario {
	return Scenario{
		GlobalPlanner: motionplan.GridSearch.String(),
		Heuristic:     motionplan.Manhattan.String(),
		LocalPlanner:  defaultLocalPlanner,
		PurePursuit:   control.DefaultPurePursuitParams(),
		DWA:           dwa.DefaultParams(),
		Dynamic: DynamicObstacles{
			ReplanInterval: defaultReplanInterval,
			MaxReplans:     defaultMaxReplans,
		},
		Localization: Localization{
			InitCov: defaultInitCov,
			Noise:   localization.DefaultSensorNoise(),
		},
		Sim: Sim{
			Dt:            defaultDt,
			MaxSteps:      defaultMaxSteps,
			GoalTolerance: defaultGoalTolerance,
			StuckSteps:    defaultStuckSteps,
		},
		OutputPNG: defaultOutputPNG,
	}
}

// Validate ensures all parts of the config are valid. Every problem found is reported.
func (s *Scenario) Validate(path string) error {
	var err error
	if _, gridErr := s.GridMap(); gridErr != nil {
		err = multierr.Append(err, utils.NewConfigValidationError(joinPath(path, "grid"), gridErr))
	}
	for _, p := range []struct {
		name string
		val  []int
	}{{"start", s.Start}, {"goal", s.Goal}} {
		if p.val != nil && len(p.val) != 2 {
			err = multierr.Append(err, utils.NewConfigValidationError(
				joinPath(path, p.name), errors.Errorf("must have 2 values, got %d", len(p.val))))
		}
	}
	if s.InflationRadius < 0 || math.IsNaN(s.InflationRadius) {
		err = multierr.Append(err, utils.NewConfigValidationError(
			joinPath(path, "inflation_radius"), errors.Errorf("must be non-negative, got %v", s.InflationRadius)))
	}
	if _, planErr := motionplan.ParsePlannerType(s.GlobalPlanner); planErr != nil {
		err = multierr.Append(err, utils.NewConfigValidationError(joinPath(path, "global_planner"), planErr))
	}
	if _, hErr := motionplan.ParseHeuristic(s.Heuristic); hErr != nil {
		err = multierr.Append(err, utils.NewConfigValidationError(joinPath(path, "heuristic"), hErr))
	}
	if _, lpErr := simulation.ParseControllerKind(s.LocalPlanner); lpErr != nil {
		err = multierr.Append(err, utils.NewConfigValidationError(joinPath(path, "local_planner"), lpErr))
	}
	if s.LocalWindow.Radius < 0 {
		err = multierr.Append(err, utils.NewConfigValidationError(
			joinPath(path, "local_window.radius"), errors.Errorf("must be non-negative, got %v", s.LocalWindow.Radius)))
	}
	pursuit := s.pursuitParams()
	if ppErr := pursuit.Validate(); ppErr != nil {
		err = multierr.Append(err, utils.NewConfigValidationError(joinPath(path, "pure_pursuit"), ppErr))
	}
	if dwaErr := s.DWA.Validate(); dwaErr != nil {
		err = multierr.Append(err, utils.NewConfigValidationError(joinPath(path, "dwa"), dwaErr))
	}
	err = multierr.Append(err, s.Dynamic.Validate(joinPath(path, "dynamic_obstacles")))
	err = multierr.Append(err, s.Localization.Validate(joinPath(path, "localization")))
	err = multierr.Append(err, s.Sim.Validate(joinPath(path, "sim")))
	return err
}

// Validate ensures all parts of the config are valid.
func (d *DynamicObstacles) Validate(path string) error {
	var err error
	if d.ReplanInterval < 0 {
		err = multierr.Append(err, utils.NewConfigValidationError(
			joinPath(path, "replan_interval"), errors.Errorf("must be non-negative, got %d", d.ReplanInterval)))
	}
	if d.MaxReplans < 0 {
		err = multierr.Append(err, utils.NewConfigValidationError(
			joinPath(path, "max_replans"), errors.Errorf("must be non-negative, got %d", d.MaxReplans)))
	}
	for i := range d.Obstacles {
		err = multierr.Append(err, d.Obstacles[i].Validate(indexPath(joinPath(path, "obstacles"), i)))
	}
	return err
}

// Validate ensures all parts of the config are valid.
func (l *Localization) Validate(path string) error {
	var err error
	if l.InitCov < 0 {
		err = multierr.Append(err, utils.NewConfigValidationError(
			joinPath(path, "init_cov"), errors.Errorf("must be non-negative, got %v", l.InitCov)))
	}
	if noiseErr := l.Noise.Validate(); noiseErr != nil {
		err = multierr.Append(err, utils.NewConfigValidationError(joinPath(path, "noise"), noiseErr))
	}
	return err
}

// Validate ensures all parts of the config are valid.
func (s *Sim) Validate(path string) error {
	var err error
	if s.Dt <= 0 {
		err = multierr.Append(err, utils.NewConfigValidationError(
			joinPath(path, "dt"), errors.Errorf("must be positive, got %v", s.Dt)))
	}
	if s.MaxSteps < 0 {
		err = multierr.Append(err, utils.NewConfigValidationError(
			joinPath(path, "max_steps"), errors.Errorf("must be non-negative, got %d", s.MaxSteps)))
	}
	if s.GoalTolerance < 0 {
		err = multierr.Append(err, utils.NewConfigValidationError(
			joinPath(path, "goal_tolerance"), errors.Errorf("must be non-negative, got %v", s.GoalTolerance)))
	}
	if s.StuckSteps < 1 {
		err = multierr.Append(err, utils.NewConfigValidationError(
			joinPath(path, "stuck_steps"), errors.Errorf("must be positive, got %d", s.StuckSteps)))
	}
	return err
}

// GridMap builds the configured grid, or the demo maze when none is configured.
func (s *Scenario) GridMap() (*gridmap.GridMap, error) {
	if len(s.Grid) == 0 {
		return gridmap.DemoGrid(), nil
	}
	return gridmap.FromRows(s.Grid)
}

// StartNode returns the configured start cell.
func (s *Scenario) StartNode() gridmap.Node {
	return nodeOr(s.Start, defaultStart)
}

// GoalNode returns the configured goal cell.
func (s *Scenario) GoalNode() gridmap.Node {
	return nodeOr(s.Goal, defaultGoal)
}

// DynamicActive reports whether moving obstacles will actually be simulated.
func (s *Scenario) DynamicActive() bool {
	return s.Dynamic.Enabled && len(s.Dynamic.Obstacles) > 0
}

// ForcesDWA reports whether the configured local planner is overridden because moving obstacles
// require the dynamic window planner.
func (s *Scenario) ForcesDWA() bool {
	kind, err := simulation.ParseControllerKind(s.LocalPlanner)
	return s.DynamicActive() && (err != nil || kind != simulation.DWAController)
}

func (s *Scenario) pursuitParams() control.PurePursuitParams {
	params := s.PurePursuit
	if s.Lookahead != nil {
		params.Lookahead = *s.Lookahead
	}
	if s.Speed != nil {
		params.Speed = *s.Speed
	}
	return params
}

// SimulationConfig validates the scenario and converts it into a run configuration.
func (s *Scenario) SimulationConfig() (simulation.Config, error) {
	if err := s.Validate(""); err != nil {
		return simulation.Config{}, err
	}
	grid, err := s.GridMap()
	if err != nil {
		return simulation.Config{}, err
	}
	plannerType, err := motionplan.ParsePlannerType(s.GlobalPlanner)
	if err != nil {
		return simulation.Config{}, err
	}
	heuristic, err := motionplan.ParseHeuristic(s.Heuristic)
	if err != nil {
		return simulation.Config{}, err
	}
	controller, err := simulation.ParseControllerKind(s.LocalPlanner)
	if err != nil {
		return simulation.Config{}, err
	}
	if s.DynamicActive() {
		controller = simulation.DWAController
	}

	cfg := simulation.DefaultConfig(grid, s.StartNode(), s.GoalNode())
	cfg.StartHeading = s.StartHeading
	cfg.InflationRadius = s.InflationRadius
	cfg.Planner = motionplan.PlannerOptions{Type: plannerType, Heuristic: heuristic}
	cfg.Controller = controller
	cfg.PurePursuit = s.pursuitParams()
	cfg.DWA = s.DWA
	cfg.Window = s.LocalWindow
	cfg.Dynamic = simulation.DynamicConfig{
		Enabled: s.DynamicActive(),
		Obstacles: lo.Map(s.Dynamic.Obstacles, func(o ObstacleSpec, _ int) obstacles.Obstacle {
			return o.Obstacle()
		}),
		ReplanInterval: s.Dynamic.ReplanInterval,
		MaxReplans:     s.Dynamic.MaxReplans,
	}
	cfg.Localization = simulation.LocalizationConfig{
		Enabled: s.Localization.Enabled,
		Params:  localization.Params{Noise: s.Localization.Noise, InitCov: s.Localization.InitCov},
		Seed:    s.Localization.Seed,
	}
	cfg.Dt = s.Sim.Dt
	cfg.MaxSteps = s.Sim.MaxSteps
	cfg.GoalTolerance = s.Sim.GoalTolerance
	cfg.StuckSteps = s.Sim.StuckSteps
	cfg.StopOnCollision = s.Sim.StopOnCollision
	return cfg, cfg.Validate()
}

func nodeOr(v []int, fallback gridmap.Node) gridmap.Node {
	if len(v) != 2 {
		return fallback
	}
	return gridmap.Node{X: v[0], Y: v[1]}
}
