package cli

import (
	"io"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	goutils "go.viam.com/utils"

	"go.viam.com/navsim/collision"
	"go.viam.com/navsim/config"
	"go.viam.com/navsim/costmap"
	"go.viam.com/navsim/gridmap"
	"go.viam.com/navsim/render"
	"go.viam.com/navsim/simulation"
)

const (
	demoStepScenario  = "scenario"
	demoStepSimulate  = "simulate"
	demoStepScene     = "scene"
	demoStepAnimation = "animation"
)

// DemoAction runs one scenario, reports how it ended and renders it.
func DemoAction(c *cli.Context) error {
	logger, closeLog, err := newLogger(c)
	if err != nil {
		return err
	}
	defer goutils.UncheckedErrorFunc(closeLog)
	steps := []*Step{
		{ID: demoStepScenario, Message: "Loading scenario"},
		{ID: demoStepSimulate, Message: "Simulating"},
		{ID: demoStepScene, Message: "Rendering scene"},
		{ID: demoStepAnimation, Message: "Rendering animation"},
	}
	pm := NewProgressManager(c.App.ErrWriter, steps, WithProgressOutput(progressEnabled(c)))
	defer pm.Stop()

	var (
		scenario *config.Scenario
		cfg      simulation.Config
	)
	if err := pm.Run(demoStepScenario, func() error {
		var err error
		if scenario, err = loadScenario(c); err != nil {
			return err
		}
		if err := applyDemoOverrides(c, scenario); err != nil {
			return err
		}
		cfg, err = scenario.SimulationConfig()
		return err
	}); err != nil {
		return err
	}
	if scenario.ForcesDWA() {
		warningf(c.App.ErrWriter, "dynamic obstacles require DWA; switching to DWA")
	}

	var res *simulation.Result
	if err := pm.Run(demoStepSimulate, func() error {
		var err error
		if res, err = simulation.Run(c.Context, cfg, logger); err != nil {
			return err
		}
		if !res.PlanFound {
			return errors.Errorf("no path found from %v to %v", cfg.Start, cfg.Goal)
		}
		return nil
	}); err != nil {
		return err
	}
	reportDemo(c.App.Writer, c.App.ErrWriter, cfg, res)

	in := sceneInput(cfg, res)
	if path := scenario.OutputPNG; path != "" {
		pm.SetDetail(demoStepScene, path)
		if err := pm.Run(demoStepScene, func() error {
			return writeReportFile(path, func(w io.Writer) error { return render.Scene(w, in) })
		}); err != nil {
			return err
		}
	}
	if path := scenario.OutputGIF; path != "" {
		pm.SetDetail(demoStepAnimation, path)
		if err := pm.Run(demoStepAnimation, func() error {
			return writeReportFile(path, func(w io.Writer) error {
				return render.Animation(w, in, render.DefaultFrameStep)
			})
		}); err != nil {
			return err
		}
	}
	return nil
}

// applyDemoOverrides copies every flag given on the command line over the scenario.
func applyDemoOverrides(c *cli.Context, s *config.Scenario) error {
	for _, name := range []string{demoFlagStart, demoFlagGoal} {
		if !c.IsSet(name) {
			continue
		}
		x, y, err := config.ParsePoint(c.String(name))
		if err != nil {
			return errors.Wrapf(err, "--%s", name)
		}
		if name == demoFlagStart {
			s.Start = []int{x, y}
		} else {
			s.Goal = []int{x, y}
		}
	}
	if c.IsSet(demoFlagDynamic) && c.IsSet(demoFlagNoDynamic) {
		return errors.Errorf("--%s and --%s are mutually exclusive", demoFlagDynamic, demoFlagNoDynamic)
	}
	if c.IsSet(demoFlagLocalization) && c.IsSet(demoFlagNoLocalization) {
		return errors.Errorf("--%s and --%s are mutually exclusive", demoFlagLocalization, demoFlagNoLocalization)
	}

	if c.IsSet(demoFlagPNG) {
		s.OutputPNG = c.Path(demoFlagPNG)
	}
	if c.IsSet(demoFlagGIF) {
		s.OutputGIF = c.Path(demoFlagGIF)
	}
	if c.IsSet(demoFlagInflationRadius) {
		s.InflationRadius = c.Float64(demoFlagInflationRadius)
	}
	if c.IsSet(flagLocalPlanner) {
		s.LocalPlanner = c.String(flagLocalPlanner)
	}
	if c.IsSet(demoFlagGlobalPlanner) {
		s.GlobalPlanner = c.String(demoFlagGlobalPlanner)
	}
	if c.IsSet(demoFlagHeuristic) {
		s.Heuristic = c.String(demoFlagHeuristic)
	}
	if c.IsSet(demoFlagDynamic) {
		s.Dynamic.Enabled = c.Bool(demoFlagDynamic)
	}
	if c.IsSet(demoFlagNoDynamic) {
		s.Dynamic.Enabled = !c.Bool(demoFlagNoDynamic)
	}
	if c.IsSet(demoFlagReplanInterval) {
		s.Dynamic.ReplanInterval = c.Int(demoFlagReplanInterval)
	}
	if c.IsSet(demoFlagMaxReplans) {
		s.Dynamic.MaxReplans = c.Int(demoFlagMaxReplans)
	}
	if c.IsSet(demoFlagLocalization) {
		s.Localization.Enabled = c.Bool(demoFlagLocalization)
	}
	if c.IsSet(demoFlagNoLocalization) {
		s.Localization.Enabled = !c.Bool(demoFlagNoLocalization)
	}
	if c.IsSet(demoFlagLookahead) {
		lookahead := c.Float64(demoFlagLookahead)
		s.Lookahead = &lookahead
	}
	if c.IsSet(demoFlagSpeed) {
		speed := c.Float64(demoFlagSpeed)
		s.Speed = &speed
	}
	return nil
}

// finalCostMap is the costmap in effect when the run ended, including the last obstacle
// positions.
func finalCostMap(cfg simulation.Config, res *simulation.Result) *costmap.CostMap {
	overlay := lo.Map(res.Obstacles, func(p r2.Point, _ int) gridmap.Node { return gridmap.NodeAt(p) })
	return costmap.Build(cfg.Grid, cfg.InflationRadius, overlay)
}

func reportDemo(out, errOut io.Writer, cfg simulation.Config, res *simulation.Result) {
	statusf(out, res.GoalReached, "%s after %d steps", res.Status, res.Steps)
	printf(out, "path length %.2f, trajectory length %.2f, final distance %.2f",
		res.PathLength, res.TrajectoryLength, res.FinalDistance)
	if cfg.Dynamic.Enabled {
		printf(out, "replans %d", res.Replans)
	}
	if cfg.Localization.Enabled {
		printf(out, "skipped EKF updates %d", res.SkippedUpdates)
	}
	if res.BlockedTicks > 0 {
		infof(out, "local planner found no admissible command on %d ticks", res.BlockedTicks)
	}

	cm := finalCostMap(cfg, res)
	if collision.PathInCollision(cm, res.Path) {
		warningf(errOut, "planned path intersects inflated obstacles")
	}
	if collision.TrajectoryInCollision(cm, res.TruePoses) {
		warningf(errOut, "trajectory intersects inflated obstacles")
	}
}

func sceneInput(cfg simulation.Config, res *simulation.Result) render.SceneInput {
	return render.SceneInput{
		Grid:      cfg.Grid,
		Display:   finalCostMap(cfg, res).Inflated(),
		Path:      res.Path,
		Poses:     res.TruePoses,
		Estimated: res.EstimatedPoses,
		Obstacles: res.Obstacles,
		Start:     cfg.Start,
		Goal:      cfg.Goal,
	}
}
