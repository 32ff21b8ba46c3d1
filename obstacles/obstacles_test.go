package obstacles

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/navsim/gridmap"
)

func openGrid(t *testing.T, rows ...string) *gridmap.GridMap {
	t.Helper()
	g, err := gridmap.FromRows(rows)
	test.That(t, err, test.ShouldBeNil)
	return g
}

func TestBoundaryReflection(t *testing.T) {
	grid := openGrid(t, "000", "000", "000")
	o := Obstacle{X: 2, Y: 1, VX: 1, VY: 0}
	o.Step(1, grid)
	test.That(t, o.VX, test.ShouldBeLessThan, 0)
	test.That(t, o.X, test.ShouldBeGreaterThanOrEqualTo, 0)
	test.That(t, o.X, test.ShouldBeLessThanOrEqualTo, 2)
	test.That(t, o.X, test.ShouldEqual, 2.0)

	// Next step moves back inside.
	o.Step(1, grid)
	test.That(t, o.X, test.ShouldEqual, 1.0)

	low := Obstacle{X: 0.5, Y: 0.2, VX: -1, VY: -1}
	low.Step(1, grid)
	test.That(t, low.X, test.ShouldEqual, 0.0)
	test.That(t, low.Y, test.ShouldEqual, 0.0)
	test.That(t, low.VX, test.ShouldEqual, 1.0)
	test.That(t, low.VY, test.ShouldEqual, 1.0)
}

func TestStaticReflection(t *testing.T) {
	grid := openGrid(t, "000", "010", "000")
	o := Obstacle{X: 0, Y: 0, VX: 1, VY: 1}
	o.Step(1, grid)
	test.That(t, o.X, test.ShouldEqual, 0.0)
	test.That(t, o.Y, test.ShouldEqual, 0.0)
	test.That(t, o.VX, test.ShouldEqual, -1.0)
	test.That(t, o.VY, test.ShouldEqual, -1.0)
}

func TestField(t *testing.T) {
	grid := openGrid(t, "0000", "0000")
	input := []Obstacle{{X: 0, Y: 0, VX: 1}, {X: 3, Y: 1, VY: 0.4}, {X: -3, Y: 0}}
	field := NewField(input)
	test.That(t, field.Len(), test.ShouldEqual, 3)
	test.That(t, field.Cells(grid), test.ShouldResemble, []gridmap.Node{{X: 0, Y: 0}, {X: 3, Y: 1}})

	field.Step(0.5, grid)
	// The caller's slice is untouched.
	test.That(t, input[0].X, test.ShouldEqual, 0.0)
	snapshot := field.Obstacles()
	test.That(t, snapshot[0].X, test.ShouldEqual, 0.5)
	// 1 + 0.2 exceeds the top row so the obstacle is clamped and reflected.
	test.That(t, snapshot[1].Y, test.ShouldEqual, 1.0)
	test.That(t, snapshot[1].VY, test.ShouldEqual, -0.4)
	// Out of bounds obstacles get clamped back onto the map.
	test.That(t, snapshot[2].X, test.ShouldEqual, 0.0)
	test.That(t, field.Cells(grid), test.ShouldResemble, []gridmap.Node{{X: 0, Y: 0}, {X: 3, Y: 1}, {X: 0, Y: 0}})

	snapshot[0].X = 99
	test.That(t, field.Obstacles()[0].X, test.ShouldEqual, 0.5)
}
