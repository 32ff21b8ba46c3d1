package motionplan

import (
	"github.com/pkg/errors"

	"go.viam.com/navsim/gridmap"
)

var (
	// ErrUnknownPlanner is returned when a planner name is not one of the supported strategies.
	ErrUnknownPlanner = errors.New("unknown global planner")
	// ErrUnknownHeuristic is returned when a heuristic name is not recognized.
	ErrUnknownHeuristic = errors.New("unknown heuristic")
)

// NewPlannerFailedError is for callers that must surface a missing plan as an error.
func NewPlannerFailedError(start, goal gridmap.Node) error {
	return errors.Errorf("global planner failed to find path from %v to %v", start, goal)
}
