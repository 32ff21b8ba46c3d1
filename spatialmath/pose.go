// Package spatialmath defines planar poses for a unicycle robot and the small fixed-size
// matrices used by the pose estimator.
package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
)

// Pose is a position in continuous grid coordinates plus a heading in radians.
type Pose struct {
	Point r2.Point
	Theta float64
}

// NewPose returns a pose with its heading wrapped into (-π, π].
func NewPose(x, y, theta float64) Pose {
	return Pose{Point: r2.Point{X: x, Y: y}, Theta: WrapAngle(theta)}
}

// WrapAngle maps an angle into (-π, π].
func WrapAngle(a float64) float64 {
	wrapped := math.Mod(a+math.Pi, 2*math.Pi)
	if wrapped <= 0 {
		wrapped += 2 * math.Pi
	}
	return wrapped - math.Pi
}

// Integrate advances the pose by one unicycle step.
func (p Pose) Integrate(v, omega, dt float64) Pose {
	sin, cos := math.Sincos(p.Theta)
	return Pose{
		Point: r2.Point{X: p.Point.X + v*cos*dt, Y: p.Point.Y + v*sin*dt},
		Theta: WrapAngle(p.Theta + omega*dt),
	}
}

// Distance is the euclidean distance from the pose position to q.
func (p Pose) Distance(q r2.Point) float64 {
	return p.Point.Sub(q).Norm()
}

// Cell returns the grid cell nearest to the pose position.
func (p Pose) Cell() (int, int) {
	return RoundToCell(p.Point)
}

// Vec returns the pose as a state vector (x, y, theta).
func (p Pose) Vec() Vec3 {
	return Vec3{p.Point.X, p.Point.Y, p.Theta}
}

func (p Pose) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", p.Point.X, p.Point.Y, p.Theta)
}

// PoseFromVec builds a pose from a state vector, wrapping the heading.
func PoseFromVec(v Vec3) Pose {
	return NewPose(v[0], v[1], v[2])
}

// RoundToCell rounds a continuous point to the nearest integer cell. Halves round to even.
func RoundToCell(p r2.Point) (int, int) {
	return int(math.RoundToEven(p.X)), int(math.RoundToEven(p.Y))
}

// Points extracts the positions of a pose sequence.
func Points(poses []Pose) []r2.Point {
	pts := make([]r2.Point, len(poses))
	for i, p := range poses {
		pts[i] = p.Point
	}
	return pts
}
