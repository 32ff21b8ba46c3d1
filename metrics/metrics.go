// Package metrics computes the scalar outcomes reported for a simulation run.
package metrics

import (
	"math"

	"github.com/golang/geo/r2"

	"go.viam.com/navsim/spatialmath"
)

// PathLength is the summed segment length of a polyline.
func PathLength(path []r2.Point) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += path[i].Sub(path[i-1]).Norm()
	}
	return total
}

// TrajectoryLength is the distance travelled along a pose sequence.
func TrajectoryLength(poses []spatialmath.Pose) float64 {
	return PathLength(spatialmath.Points(poses))
}

// GoalReached reports whether the final pose is within tolerance of goal.
func GoalReached(poses []spatialmath.Pose, goal r2.Point, tolerance float64) bool {
	return len(poses) > 0 && FinalDistance(poses, goal) <= tolerance
}

// FinalDistance is the distance from the final pose to goal, +Inf when there are no poses.
func FinalDistance(poses []spatialmath.Pose, goal r2.Point) float64 {
	if len(poses) == 0 {
		return math.Inf(1)
	}
	return poses[len(poses)-1].Distance(goal)
}
