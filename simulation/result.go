package simulation

import (
	"time"

	"github.com/golang/geo/r2"

	"go.viam.com/navsim/spatialmath"
)

// Result is everything a run produced. TruePoses always holds at least the start pose.
type Result struct {
	Status Status

	TruePoses []spatialmath.Pose
	// EstimatedPoses is nil unless localization is enabled; it then has one entry per true pose.
	EstimatedPoses []spatialmath.Pose
	// Path is the final reference path and InitialPath the first one planned.
	Path        []r2.Point
	InitialPath []r2.Point
	// Obstacles holds the dynamic obstacle positions when the run ended.
	Obstacles []r2.Point

	PlanFound bool
	// GoalReached is judged on the final true pose. Status is decided on the localized pose, so
	// with localization enabled a run can end Succeeded while GoalReached is false, or the
	// reverse.
	GoalReached bool
	// Collided is set when any true pose rounded into an occupied cell of the costmap in effect.
	Collided bool

	Replans        int
	Steps          int
	SkippedUpdates int
	BlockedTicks   int

	PathLength       float64
	TrajectoryLength float64
	FinalDistance    float64
	Elapsed          time.Duration
}

// FinalPose returns the last true pose.
func (r *Result) FinalPose() spatialmath.Pose {
	return r.TruePoses[len(r.TruePoses)-1]
}
