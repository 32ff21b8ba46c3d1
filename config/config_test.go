package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.viam.com/test"

	"go.viam.com/navsim/gridmap"
	"go.viam.com/navsim/logging"
	"go.viam.com/navsim/motionplan"
	"go.viam.com/navsim/obstacles"
	"go.viam.com/navsim/simulation"
)

const fullScenario = `
grid:
  - "00000"
  - "01110"
  - "00000"
start: [0, 0]
goal: "4,2"
start_heading: 0.5
inflation_radius: 0.5
global_planner: theta_star
heuristic: euclidean
local_planner: pure_pursuit
local_window:
  radius: 3
  unknown_as_obstacle: true
pure_pursuit:
  lookahead: 1.2
dwa:
  v_samples: 7
dynamic_obstacles:
  enabled: true
  replan_interval: 5
  max_replans: 3
  obstacles:
    - position: [2, 2]
      velocity: [0.5, 0]
localization:
  enabled: true
  seed: 42
  noise:
    meas_std_x: 0.1
sim:
  dt: 0.05
  max_steps: 300
  stop_on_collision: true
seed: 9
output_gif: out.gif
`

func TestDefaults(t *testing.T) {
	for _, doc := range []string{"", "{}\n", "# comment only\n"} {
		scenario, err := FromBytes([]byte(doc))
		test.That(t, err, test.ShouldBeNil)
		if diff := cmp.Diff(Default(), *scenario); diff != "" {
			t.Fatalf("default scenario mismatch (-want +got):\n%s", diff)
		}
	}

	scenario := Default()
	cfg, err := scenario.SimulationConfig()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Grid.String(), test.ShouldEqual, gridmap.DemoGrid().String())
	test.That(t, cfg.Start, test.ShouldResemble, gridmap.Node{X: 0, Y: 0})
	test.That(t, cfg.Goal, test.ShouldResemble, gridmap.Node{X: 9, Y: 9})
	test.That(t, cfg.Controller, test.ShouldEqual, simulation.DWAController)
	test.That(t, cfg.Dt, test.ShouldEqual, 0.1)
	test.That(t, cfg.MaxSteps, test.ShouldEqual, 500)
	test.That(t, cfg.StuckSteps, test.ShouldEqual, 10)
	test.That(t, cfg.Dynamic.Enabled, test.ShouldBeFalse)
	test.That(t, scenario.ForcesDWA(), test.ShouldBeFalse)
}

func TestFullScenario(t *testing.T) {
	scenario, err := FromBytes([]byte(fullScenario))
	test.That(t, err, test.ShouldBeNil)

	want := Default()
	want.Grid = []string{"00000", "01110", "00000"}
	want.Start = []int{0, 0}
	want.Goal = []int{4, 2}
	want.StartHeading = 0.5
	want.InflationRadius = 0.5
	want.GlobalPlanner = "theta_star"
	want.Heuristic = "euclidean"
	want.LocalPlanner = "pure_pursuit"
	want.LocalWindow.Radius = 3
	want.LocalWindow.UnknownAsObstacle = true
	want.PurePursuit.Lookahead = 1.2
	want.DWA.VSamples = 7
	want.Dynamic = DynamicObstacles{
		Enabled:        true,
		ReplanInterval: 5,
		MaxReplans:     3,
		Obstacles:      []ObstacleSpec{{Position: []float64{2, 2}, Velocity: []float64{0.5, 0}}},
	}
	want.Localization.Enabled = true
	want.Localization.Seed = 42
	want.Localization.Noise.MeasStdX = 0.1
	want.Sim.Dt = 0.05
	want.Sim.MaxSteps = 300
	want.Sim.StopOnCollision = true
	want.Seed = 9
	want.OutputGIF = "out.gif"
	if diff := cmp.Diff(want, *scenario); diff != "" {
		t.Fatalf("decoded scenario mismatch (-want +got):\n%s", diff)
	}

	test.That(t, scenario.ForcesDWA(), test.ShouldBeTrue)
	cfg, err := scenario.SimulationConfig()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Grid.Width(), test.ShouldEqual, 5)
	test.That(t, cfg.Grid.IsOccupied(gridmap.Node{X: 2, Y: 1}), test.ShouldBeTrue)
	test.That(t, cfg.Goal, test.ShouldResemble, gridmap.Node{X: 4, Y: 2})
	test.That(t, cfg.Planner.Type, test.ShouldEqual, motionplan.AnyAngle)
	test.That(t, cfg.Planner.Heuristic, test.ShouldEqual, motionplan.Euclidean)
	test.That(t, cfg.Controller, test.ShouldEqual, simulation.DWAController)
	test.That(t, cfg.PurePursuit.Speed, test.ShouldEqual, 0.8)
	test.That(t, cfg.Dynamic.Obstacles, test.ShouldResemble, []obstacles.Obstacle{{X: 2, Y: 2, VX: 0.5}})
	test.That(t, cfg.Localization.Params.Noise.MeasStdY, test.ShouldEqual, 0.2)
	test.That(t, cfg.Localization.Seed, test.ShouldEqual, uint64(42))
	test.That(t, cfg.StopOnCollision, test.ShouldBeTrue)
}

func TestLegacyPursuitKeys(t *testing.T) {
	scenario, err := FromBytes([]byte("lookahead: 1.5\nspeed: 0.4\nlocal_planner: pure_pursuit\n"))
	test.That(t, err, test.ShouldBeNil)
	cfg, err := scenario.SimulationConfig()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Controller, test.ShouldEqual, simulation.PurePursuitController)
	test.That(t, cfg.PurePursuit.Lookahead, test.ShouldEqual, 1.5)
	test.That(t, cfg.PurePursuit.Speed, test.ShouldEqual, 0.4)
	test.That(t, cfg.PurePursuit.MaxOmega, test.ShouldEqual, 2.0)
}

func TestDynamicWithoutObstacles(t *testing.T) {
	scenario, err := FromBytes([]byte("local_planner: pure_pursuit\ndynamic_obstacles:\n  enabled: true\n"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, scenario.DynamicActive(), test.ShouldBeFalse)
	test.That(t, scenario.ForcesDWA(), test.ShouldBeFalse)
	cfg, err := scenario.SimulationConfig()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Controller, test.ShouldEqual, simulation.PurePursuitController)
}

func TestRejects(t *testing.T) {
	t.Run("unknown key", func(t *testing.T) {
		_, err := FromBytes([]byte("dwa:\n  v_sampels: 3\n"))
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "v_sampels")
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := FromBytes([]byte("grid: [\n"))
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "invalid yaml")
	})

	t.Run("every invalid field", func(t *testing.T) {
		doc := `
grid: ["000", "00"]
global_planner: rrt
dwa:
  v_min: 2
  v_max: 1
  omega_samples: 0
sim:
  dt: 0
localization:
  noise:
    odom_std_v: -1
dynamic_obstacles:
  obstacles:
    - velocity: [1, 1]
`
		_, err := FromBytes([]byte(doc))
		test.That(t, err, test.ShouldNotBeNil)
		for _, field := range []string{
			"grid", "global_planner", "rrt", "dwa", "v_min", "omega_samples",
			"sim.dt", "localization.noise", "odom_std_v", "dynamic_obstacles.obstacles.0", "position",
		} {
			test.That(t, err.Error(), test.ShouldContainSubstring, field)
		}
	})

	t.Run("start outside grid", func(t *testing.T) {
		// An unreachable start is a scenario outcome, not a configuration error.
		scenario, err := FromBytes([]byte("grid: ['000', '000']\nstart: [5, 0]\n"))
		test.That(t, err, test.ShouldBeNil)
		cfg, err := scenario.SimulationConfig()
		test.That(t, err, test.ShouldBeNil)
		test.That(t, cfg.Start, test.ShouldResemble, gridmap.Node{X: 5, Y: 0})

		res, err := simulation.Run(context.Background(), cfg, logging.NewTestLogger(t))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, res.Status, test.ShouldEqual, simulation.NoPlan)
		test.That(t, res.PlanFound, test.ShouldBeFalse)
	})
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	test.That(t, os.WriteFile(path, []byte("grid: |\n  ..#\n  ...\nstart: 0,1\ngoal: 2,1\n"), 0o600), test.ShouldBeNil)

	scenario, err := Read(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, scenario.Grid, test.ShouldResemble, []string{"..#", "..."})
	test.That(t, scenario.StartNode(), test.ShouldResemble, gridmap.Node{X: 0, Y: 1})
	test.That(t, scenario.GoalNode(), test.ShouldResemble, gridmap.Node{X: 2, Y: 1})

	t.Setenv("NAVSIM_TEST_GOAL", "1,0")
	envPath := filepath.Join(dir, "env.yaml")
	test.That(t, os.WriteFile(envPath, []byte("grid: |\n  ..#\n  ...\ngoal: ${NAVSIM_TEST_GOAL}\n"), 0o600), test.ShouldBeNil)
	scenario, err = Read(envPath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, scenario.GoalNode(), test.ShouldResemble, gridmap.Node{X: 1, Y: 0})

	_, err = Read(filepath.Join(dir, "missing.yaml"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "cannot read scenario")
}

func TestParsePoint(t *testing.T) {
	x, y, err := ParsePoint(" 3, 4")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, x, test.ShouldEqual, 3)
	test.That(t, y, test.ShouldEqual, 4)

	for _, bad := range []string{"3", "1,2,3", "a,1", ""} {
		_, _, err := ParsePoint(bad)
		test.That(t, err, test.ShouldNotBeNil)
	}
}

func TestSchema(t *testing.T) {
	data, err := json.Marshal(Schema())
	test.That(t, err, test.ShouldBeNil)
	for _, key := range []string{"inflation_radius", "dynamic_obstacles", "local_window", "odom_std_v", "stop_on_collision"} {
		test.That(t, string(data), test.ShouldContainSubstring, `"`+key+`"`)
	}
}
