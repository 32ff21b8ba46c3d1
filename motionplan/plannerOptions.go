package motionplan

import (
	"strings"

	"github.com/pkg/errors"
)

// PlannerType is the closed set of global planning strategies.
type PlannerType int

const (
	// GridSearch is 4-connected A*.
	GridSearch PlannerType = iota
	// UniformCost is grid search without a heuristic.
	UniformCost
	// AnyAngle is an 8-connected theta-style search with line of sight shortcuts.
	AnyAngle
)

// PlannerTypes lists every planner in a stable order.
var PlannerTypes = []PlannerType{GridSearch, UniformCost, AnyAngle}

func (p PlannerType) String() string {
	switch p {
	case GridSearch:
		return "astar"
	case UniformCost:
		return "dijkstra"
	case AnyAngle:
		return "theta_star"
	default:
		return "unknown"
	}
}

// ParsePlannerType maps a configured name to its planner. Names are case insensitive.
func ParsePlannerType(name string) (PlannerType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "astar", "a*", "":
		return GridSearch, nil
	case "dijkstra", "ucs":
		return UniformCost, nil
	case "theta_star", "thetastar", "theta*":
		return AnyAngle, nil
	}
	return 0, errors.Wrapf(ErrUnknownPlanner, "%q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (p PlannerType) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *PlannerType) UnmarshalText(text []byte) error {
	parsed, err := ParsePlannerType(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// PlannerOptions selects and tunes a global planner.
type PlannerOptions struct {
	Type PlannerType `json:"global_planner"`
	// Heuristic only applies to GridSearch.
	Heuristic Heuristic `json:"heuristic"`
}

// NewPlanner builds the planner described by opts.
func NewPlanner(opts PlannerOptions) (Planner, error) {
	switch opts.Type {
	case GridSearch:
		return &gridSearch{heuristic: opts.Heuristic}, nil
	case UniformCost:
		return &gridSearch{heuristic: Zero}, nil
	case AnyAngle:
		return &thetaStar{}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownPlanner, "type %d", int(opts.Type))
	}
}
