package dwa

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"

	"go.viam.com/navsim/costmap"
	"go.viam.com/navsim/gridmap"
	"go.viam.com/navsim/spatialmath"
)

func build(t *testing.T, rows ...string) *costmap.CostMap {
	t.Helper()
	g, err := gridmap.FromRows(rows)
	test.That(t, err, test.ShouldBeNil)
	return costmap.Build(g, 0, nil)
}

func TestMovesTowardGoal(t *testing.T) {
	cm := build(t, "000", "000", "000")
	params := Params{
		VMin: 0, VMax: 1, OmegaMax: 1,
		VSamples: 3, OmegaSamples: 3,
		Horizon:    1,
		GoalWeight: 1,
	}
	test.That(t, params.Validate(), test.ShouldBeNil)

	res := Control(spatialmath.NewPose(0, 0, 0), []r2.Point{{X: 0, Y: 0}, {X: 2, Y: 0}}, cm, params, 0.1)
	test.That(t, res.Blocked, test.ShouldBeFalse)
	test.That(t, res.V, test.ShouldBeGreaterThan, 0)
	test.That(t, math.Abs(res.Omega), test.ShouldBeLessThanOrEqualTo, params.OmegaMax)
	test.That(t, len(res.Trajectory), test.ShouldEqual, 11)
	test.That(t, res.Trajectory[0], test.ShouldResemble, spatialmath.NewPose(0, 0, 0))
	// Straight ahead ends exactly one cell from the goal.
	test.That(t, res.V, test.ShouldEqual, 1.0)
	test.That(t, res.Omega, test.ShouldEqual, 0.0)
}

func TestBlocked(t *testing.T) {
	// The robot starts on the occupied cell, so every rollout collides.
	cm := build(t, "100", "000", "000")
	params := DefaultParams()
	params.VSamples = 2
	params.OmegaSamples = 3
	params.Horizon = 0.5

	pose := spatialmath.NewPose(0, 0, 0)
	res := Control(pose, []r2.Point{{X: 0, Y: 0}, {X: 2, Y: 0}}, cm, params, 0.1)
	test.That(t, res.Blocked, test.ShouldBeTrue)
	test.That(t, res.V, test.ShouldEqual, 0.0)
	test.That(t, res.Omega, test.ShouldEqual, 0.0)
	test.That(t, res.Trajectory, test.ShouldResemble, []spatialmath.Pose{pose})
}

func TestAvoidsWall(t *testing.T) {
	// A wall directly ahead forces a turn or a stop, never a straight drive into it.
	cm := build(t,
		"00000",
		"00000",
		"00100",
		"00000",
		"00000",
	)
	pose := spatialmath.NewPose(0, 2, 0)
	res := Control(pose, []r2.Point{{X: 0, Y: 2}, {X: 4, Y: 2}}, cm, DefaultParams(), 0.1)
	test.That(t, res.Blocked, test.ShouldBeFalse)
	for _, p := range res.Trajectory {
		x, y := p.Cell()
		test.That(t, cm.IsOccupied(gridmap.Node{X: x, Y: y}), test.ShouldBeFalse)
	}
}

func TestRollout(t *testing.T) {
	traj := Rollout(spatialmath.NewPose(0, 0, 0), 1, 0, 0.1, 1.5)
	test.That(t, len(traj), test.ShouldEqual, 16)
	test.That(t, traj[15].Point.X, test.ShouldAlmostEqual, 1.5)

	// dt is floored so the step count stays bounded.
	traj = Rollout(spatialmath.NewPose(0, 0, 0), 1, 0, 0, 0.01)
	test.That(t, len(traj), test.ShouldEqual, 11)

	traj = Rollout(spatialmath.NewPose(0, 0, 0), 1, 0, 2, 1)
	test.That(t, len(traj), test.ShouldEqual, 2)
}

func TestSpanAndValidate(t *testing.T) {
	test.That(t, span(-1, 1, 3), test.ShouldResemble, []float64{-1, 0, 1})
	test.That(t, span(0.5, 1, 1), test.ShouldResemble, []float64{0.5})

	bad := DefaultParams()
	bad.VSamples = 0
	bad.VMin = 2
	err := bad.Validate()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "v_samples")
	test.That(t, err.Error(), test.ShouldContainSubstring, "v_min")
}
