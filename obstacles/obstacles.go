// Package obstacles simulates point obstacles that move at constant velocity and bounce off the
// map boundary and static walls.
package obstacles

import (
	"math"

	"github.com/golang/geo/r2"

	"go.viam.com/navsim/gridmap"
)

// Obstacle is a moving point in continuous grid coordinates.
type Obstacle struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`
}

// Position returns the obstacle position.
func (o Obstacle) Position() r2.Point {
	return r2.Point{X: o.X, Y: o.Y}
}

// Step advances the obstacle by dt. A velocity component that would carry it outside
// [0, size-1] is reversed and the position clamped. If the new position rounds onto a statically
// occupied cell, both components reverse and the obstacle stays where it was.
func (o *Obstacle) Step(dt float64, grid *gridmap.GridMap) {
	nx := o.X + o.VX*dt
	ny := o.Y + o.VY*dt

	maxX := float64(grid.Width() - 1)
	maxY := float64(grid.Height() - 1)
	if nx < 0 || nx > maxX {
		o.VX = -o.VX
		nx = math.Max(0, math.Min(maxX, nx))
	}
	if ny < 0 || ny > maxY {
		o.VY = -o.VY
		ny = math.Max(0, math.Min(maxY, ny))
	}

	next := gridmap.NodeAt(r2.Point{X: nx, Y: ny})
	if grid.InBounds(next) && !grid.IsFree(next) {
		o.VX = -o.VX
		o.VY = -o.VY
		return
	}
	o.X, o.Y = nx, ny
}

// Cell is the nearest in-bounds cell, or false when the obstacle is off the map.
func (o Obstacle) Cell(grid gridmap.Grid) (gridmap.Node, bool) {
	n := gridmap.NodeAt(o.Position())
	return n, grid.InBounds(n)
}

// Field owns a set of obstacles for one simulation run.
type Field struct {
	obstacles []Obstacle
}

// NewField copies obstacles so the caller's configuration is never mutated.
func NewField(obstacles []Obstacle) *Field {
	return &Field{obstacles: append([]Obstacle(nil), obstacles...)}
}

// Step advances every obstacle.
func (f *Field) Step(dt float64, grid *gridmap.GridMap) {
	for i := range f.obstacles {
		f.obstacles[i].Step(dt, grid)
	}
}

// Cells lists the in-bounds cells occupied by obstacles, in obstacle order.
func (f *Field) Cells(grid gridmap.Grid) []gridmap.Node {
	cells := make([]gridmap.Node, 0, len(f.obstacles))
	for _, o := range f.obstacles {
		if n, ok := o.Cell(grid); ok {
			cells = append(cells, n)
		}
	}
	return cells
}

// Obstacles returns a snapshot of the current obstacle states.
func (f *Field) Obstacles() []Obstacle {
	return append([]Obstacle(nil), f.obstacles...)
}

// Len is the number of obstacles.
func (f *Field) Len() int {
	return len(f.obstacles)
}
