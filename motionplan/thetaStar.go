package motionplan

import (
	"math"

	"go.viam.com/navsim/gridmap"
)

// thetaStar searches the 8-connected grid and lets a node attach to its grandparent whenever the
// straight line between them is free, producing any-angle paths.
type thetaStar struct{}

func (ts *thetaStar) Plan(grid gridmap.Grid, start, goal gridmap.Node) (Plan, bool) {
	if !endpointsFree(grid, start, goal) {
		return Plan{}, false
	}

	open := &openList{}
	open.push(start, 0, euclidean(start, goal))
	gCost := map[gridmap.Node]float64{start: 0}
	parents := map[gridmap.Node]gridmap.Node{start: start}
	closed := map[gridmap.Node]bool{}
	expanded := 0

	for open.Len() > 0 {
		item := open.pop()
		current := item.node
		if closed[current] || item.g > gCost[current] {
			continue
		}
		closed[current] = true
		expanded++
		if current == goal {
			return Plan{Path: reconstruct(parents, start, goal), Cost: gCost[current], Expanded: expanded}, true
		}

		parent := parents[current]
		for _, next := range gridmap.Neighbors8(grid, current) {
			if closed[next] {
				continue
			}
			from := current
			if parent != current && lineOfSight(grid, parent, next) {
				from = parent
			}
			tentative := gCost[from] + euclidean(from, next)
			if known, ok := gCost[next]; ok && tentative >= known {
				continue
			}
			parents[next] = from
			gCost[next] = tentative
			open.push(next, tentative, tentative+euclidean(next, goal))
		}
	}
	return Plan{}, false
}

func euclidean(a, b gridmap.Node) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

// lineOfSight reports whether every cell rasterized between a and b is free.
func lineOfSight(grid gridmap.Grid, a, b gridmap.Node) bool {
	for _, n := range bresenham(a, b) {
		if grid.IsOccupied(n) {
			return false
		}
	}
	return true
}

// bresenham rasterizes the segment from a to b, endpoints included.
func bresenham(a, b gridmap.Node) []gridmap.Node {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	errTerm := dx + dy

	out := make([]gridmap.Node, 0, max(dx, -dy)+1)
	x, y := a.X, a.Y
	for {
		out = append(out, gridmap.Node{X: x, Y: y})
		if x == b.X && y == b.Y {
			return out
		}
		e2 := 2 * errTerm
		if e2 >= dy {
			errTerm += dy
			x += sx
		}
		if e2 <= dx {
			errTerm += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
