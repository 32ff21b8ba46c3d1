package simulation

// Status is the reason a run ended.
type Status int

const (
	// Running is never returned by Run.
	Running Status = iota
	// Succeeded means the localized pose came within tolerance of the goal. See
	// Result.GoalReached for the true pose.
	Succeeded
	// NoPlan means the initial plan failed.
	NoPlan
	// ReplanFailed means a replan found no path.
	ReplanFailed
	// ReplanExhausted means the replan budget was used up.
	ReplanExhausted
	// Stuck means the controller issued near-zero commands for too long with static obstacles.
	Stuck
	// Collision means the true pose entered an occupied cell and the run stops on collision.
	Collision
	// Timeout means the tick budget ran out.
	Timeout
	// Canceled means the context ended the run.
	Canceled
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case NoPlan:
		return "no_plan"
	case ReplanFailed:
		return "replan_failed"
	case ReplanExhausted:
		return "replan_exhausted"
	case Stuck:
		return "stuck"
	case Collision:
		return "collision"
	case Timeout:
		return "timeout"
	case Canceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ReplanReason records why the reference path was replaced.
type ReplanReason int

const (
	replanNone ReplanReason = iota
	// ReplanInterval fires after a fixed number of ticks.
	ReplanInterval
	// ReplanObstructed fires when the reference path crosses an occupied cell.
	ReplanObstructed
	// ReplanStuck fires after the stuck detector trips with moving obstacles.
	ReplanStuck
)

func (r ReplanReason) String() string {
	switch r {
	case ReplanInterval:
		return "interval"
	case ReplanObstructed:
		return "obstructed"
	case ReplanStuck:
		return "stuck"
	default:
		return "none"
	}
}
