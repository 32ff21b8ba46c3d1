// Package costmap derives inflated occupancy grids from a static map plus moving obstacle cells.
package costmap

import (
	"math"

	"github.com/golang/geo/r2"

	"go.viam.com/navsim/gridmap"
)

// inflationEpsilon keeps cells lying exactly on the inflation circle inside the mask.
const inflationEpsilon = 1e-9

// CostMap is an immutable inflated view of a GridMap. Rebuild it whenever the overlay changes.
type CostMap struct {
	base     *gridmap.GridMap
	inflated *gridmap.GridMap
	radius   float64
}

var _ gridmap.Grid = (*CostMap)(nil)

// Build marks every in-bounds overlay cell occupied on a copy of the base grid and then inflates
// all occupied cells by radius. Negative radii are treated as zero.
func Build(base *gridmap.GridMap, radius float64, overlay []gridmap.Node) *CostMap {
	radius = math.Max(0, radius)
	cells := base.Cells()
	for _, n := range overlay {
		if base.InBounds(n) {
			cells[n.Y][n.X] = true
		}
	}
	return &CostMap{base: base, inflated: mustGrid(inflate(cells, radius)), radius: radius}
}

func inflate(cells [][]bool, radius float64) [][]bool {
	height := len(cells)
	width := len(cells[0])
	out := make([][]bool, height)
	for y := range cells {
		out[y] = append([]bool(nil), cells[y]...)
	}
	if radius <= 0 {
		return out
	}

	rad := int(math.Ceil(radius))
	radiusSq := radius*radius + inflationEpsilon
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !cells[y][x] {
				continue
			}
			for dy := -rad; dy <= rad; dy++ {
				for dx := -rad; dx <= rad; dx++ {
					if float64(dx*dx+dy*dy) > radiusSq {
						continue
					}
					nx, ny := x+dx, y+dy
					if nx >= 0 && nx < width && ny >= 0 && ny < height {
						out[ny][nx] = true
					}
				}
			}
		}
	}
	return out
}

func mustGrid(cells [][]bool) *gridmap.GridMap {
	g, err := gridmap.New(cells)
	if err != nil {
		// cells always come from a valid GridMap
		panic(err)
	}
	return g
}

// Width of the underlying grid.
func (c *CostMap) Width() int { return c.base.Width() }

// Height of the underlying grid.
func (c *CostMap) Height() int { return c.base.Height() }

// InBounds reports whether n lies on the grid.
func (c *CostMap) InBounds(n gridmap.Node) bool { return c.base.InBounds(n) }

// IsOccupied reports whether n is occupied after inflation. Out of bounds nodes are occupied.
func (c *CostMap) IsOccupied(n gridmap.Node) bool { return c.inflated.IsOccupied(n) }

// Base is the static map this costmap was built from.
func (c *CostMap) Base() *gridmap.GridMap { return c.base }

// Inflated returns the inflated grid.
func (c *CostMap) Inflated() *gridmap.GridMap { return c.inflated }

// Radius is the effective inflation radius.
func (c *CostMap) Radius() float64 { return c.radius }

// Windowed returns a costmap limited to cells within radius of focus. Cells farther away are
// occupied when unknownAsObstacle is set and free otherwise. Cells inside keep their value.
func (c *CostMap) Windowed(focus r2.Point, radius float64, unknownAsObstacle bool) *CostMap {
	cells := c.inflated.Cells()
	for y := range cells {
		for x := range cells[y] {
			if math.Hypot(float64(x)-focus.X, float64(y)-focus.Y) > radius {
				cells[y][x] = unknownAsObstacle
			}
		}
	}
	return &CostMap{base: c.base, inflated: mustGrid(cells), radius: c.radius}
}

// OccupiedPoints lists the centers of every occupied inflated cell in row-major order.
func (c *CostMap) OccupiedPoints() []r2.Point {
	var pts []r2.Point
	for y := 0; y < c.Height(); y++ {
		for x := 0; x < c.Width(); x++ {
			n := gridmap.Node{X: x, Y: y}
			if c.inflated.IsOccupied(n) {
				pts = append(pts, n.Point())
			}
		}
	}
	return pts
}
