package costmap

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"

	"go.viam.com/navsim/gridmap"
)

func centerBlock(t *testing.T) *gridmap.GridMap {
	t.Helper()
	g, err := gridmap.FromRows([]string{"000", "010", "000"})
	test.That(t, err, test.ShouldBeNil)
	return g
}

func TestInflation(t *testing.T) {
	g := centerBlock(t)

	cm := Build(g, 1.0, nil)
	test.That(t, cm.IsOccupied(gridmap.Node{X: 1, Y: 1}), test.ShouldBeTrue)
	test.That(t, cm.IsOccupied(gridmap.Node{X: 1, Y: 0}), test.ShouldBeTrue)
	test.That(t, cm.IsOccupied(gridmap.Node{X: 0, Y: 1}), test.ShouldBeTrue)
	test.That(t, cm.IsOccupied(gridmap.Node{X: 0, Y: 0}), test.ShouldBeFalse)

	cm = Build(g, 0, nil)
	test.That(t, cm.IsOccupied(gridmap.Node{X: 1, Y: 1}), test.ShouldBeTrue)
	test.That(t, cm.IsOccupied(gridmap.Node{X: 1, Y: 0}), test.ShouldBeFalse)

	// sqrt(2) reaches the corners.
	cm = Build(g, math.Sqrt2, nil)
	test.That(t, cm.IsOccupied(gridmap.Node{X: 0, Y: 0}), test.ShouldBeTrue)

	cm = Build(g, -3, nil)
	test.That(t, cm.Radius(), test.ShouldEqual, 0.0)
	test.That(t, cm.IsOccupied(gridmap.Node{X: 1, Y: 0}), test.ShouldBeFalse)
	test.That(t, cm.IsOccupied(gridmap.Node{X: -1, Y: 0}), test.ShouldBeTrue)
	test.That(t, cm.InBounds(gridmap.Node{X: 3, Y: 0}), test.ShouldBeFalse)
}

func TestInflationMonotonic(t *testing.T) {
	g := gridmap.DemoGrid()
	radii := []float64{0, 0.5, 1, 1.2, math.Sqrt2, 2, 2.5}
	for i := 1; i < len(radii); i++ {
		small := Build(g, radii[i-1], nil)
		large := Build(g, radii[i], nil)
		for y := 0; y < g.Height(); y++ {
			for x := 0; x < g.Width(); x++ {
				n := gridmap.Node{X: x, Y: y}
				if small.IsOccupied(n) {
					test.That(t, large.IsOccupied(n), test.ShouldBeTrue)
				}
			}
		}
	}
}

func TestOverlay(t *testing.T) {
	g, err := gridmap.FromRows([]string{"0000", "0000"})
	test.That(t, err, test.ShouldBeNil)

	cm := Build(g, 0, []gridmap.Node{{X: 2, Y: 1}, {X: 7, Y: 7}, {X: -1, Y: 0}})
	test.That(t, cm.IsOccupied(gridmap.Node{X: 2, Y: 1}), test.ShouldBeTrue)
	test.That(t, cm.OccupiedPoints(), test.ShouldResemble, []r2.Point{{X: 2, Y: 1}})
	// The base map is never touched.
	test.That(t, cm.Base().IsFree(gridmap.Node{X: 2, Y: 1}), test.ShouldBeTrue)

	cm = Build(g, 1, []gridmap.Node{{X: 2, Y: 1}})
	test.That(t, cm.Inflated().OccupiedCount(), test.ShouldEqual, 4)
}

func TestWindowed(t *testing.T) {
	g := gridmap.DemoGrid()
	full := Build(g, 0.5, nil)
	focus := r2.Point{X: 4.2, Y: 4.7}
	const radius = 2.5

	open := full.Windowed(focus, radius, false)
	closed := full.Windowed(focus, radius, true)
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			n := gridmap.Node{X: x, Y: y}
			if math.Hypot(float64(x)-focus.X, float64(y)-focus.Y) <= radius {
				test.That(t, open.IsOccupied(n), test.ShouldEqual, full.IsOccupied(n))
				test.That(t, closed.IsOccupied(n), test.ShouldEqual, full.IsOccupied(n))
			} else {
				test.That(t, open.IsOccupied(n), test.ShouldBeFalse)
				test.That(t, closed.IsOccupied(n), test.ShouldBeTrue)
			}
		}
	}
	// Out of bounds stays occupied even in the open window.
	test.That(t, open.IsOccupied(gridmap.Node{X: -1, Y: 4}), test.ShouldBeTrue)
	test.That(t, open.Radius(), test.ShouldEqual, full.Radius())
}
