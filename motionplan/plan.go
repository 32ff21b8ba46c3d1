// Package motionplan contains the global planners that search an occupancy grid for a path.
package motionplan

import (
	"github.com/golang/geo/r2"
	"github.com/samber/lo"

	"go.viam.com/navsim/gridmap"
)

// Planner finds a path between two cells. The boolean is false when no plan exists, which
// includes out of bounds or occupied endpoints.
type Planner interface {
	Plan(grid gridmap.Grid, start, goal gridmap.Node) (Plan, bool)
}

// Plan is an ordered node sequence from start to goal inclusive.
type Plan struct {
	// Path holds the waypoints. Any-angle plans skip the cells between line of sight vertices.
	Path []gridmap.Node
	// Cost is measured in the planner's own metric.
	Cost float64
	// Expanded counts nodes taken off the open list.
	Expanded int
}

// Len is the number of waypoints.
func (p Plan) Len() int {
	return len(p.Path)
}

// Points returns the waypoints in continuous coordinates.
func (p Plan) Points() []r2.Point {
	return NodesToPoints(p.Path)
}

// Cells returns every cell traversed by the plan, filling straight segments between waypoints.
func (p Plan) Cells() []gridmap.Node {
	if len(p.Path) < 2 {
		return append([]gridmap.Node(nil), p.Path...)
	}
	out := []gridmap.Node{p.Path[0]}
	for i := 1; i < len(p.Path); i++ {
		out = append(out, bresenham(p.Path[i-1], p.Path[i])[1:]...)
	}
	return out
}

// NodesToPoints converts cells to continuous points.
func NodesToPoints(nodes []gridmap.Node) []r2.Point {
	return lo.Map(nodes, func(n gridmap.Node, _ int) r2.Point { return n.Point() })
}

func reconstruct(parents map[gridmap.Node]gridmap.Node, start, goal gridmap.Node) []gridmap.Node {
	path := []gridmap.Node{goal}
	for node := goal; node != start; {
		node = parents[node]
		path = append(path, node)
	}
	return lo.Reverse(path)
}

func endpointsFree(grid gridmap.Grid, start, goal gridmap.Node) bool {
	return !grid.IsOccupied(start) && !grid.IsOccupied(goal)
}
