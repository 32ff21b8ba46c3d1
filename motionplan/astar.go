package motionplan

import (
	"go.viam.com/navsim/gridmap"
)

// gridSearch is 4-connected A* with unit step costs.
type gridSearch struct {
	heuristic Heuristic
}

func (gs *gridSearch) Plan(grid gridmap.Grid, start, goal gridmap.Node) (Plan, bool) {
	if !endpointsFree(grid, start, goal) {
		return Plan{}, false
	}

	open := &openList{}
	open.push(start, 0, gs.heuristic.Cost(start, goal))
	gCost := map[gridmap.Node]float64{start: 0}
	parents := map[gridmap.Node]gridmap.Node{}
	expanded := 0

	for open.Len() > 0 {
		item := open.pop()
		// stale entry superseded by a cheaper push
		if item.g > gCost[item.node] {
			continue
		}
		current := item.node
		expanded++
		if current == goal {
			return Plan{Path: reconstruct(parents, start, goal), Cost: gCost[current], Expanded: expanded}, true
		}

		for _, next := range gridmap.Neighbors(grid, current) {
			tentative := gCost[current] + 1
			if known, ok := gCost[next]; ok && tentative >= known {
				continue
			}
			parents[next] = current
			gCost[next] = tentative
			open.push(next, tentative, tentative+gs.heuristic.Cost(next, goal))
		}
	}
	return Plan{}, false
}
