// Package collision checks continuous points, paths and trajectories against an occupancy grid.
package collision

import (
	"github.com/golang/geo/r2"

	"go.viam.com/navsim/gridmap"
	"go.viam.com/navsim/spatialmath"
)

// PointInCollision rounds p to its nearest cell. Out of bounds cells collide.
func PointInCollision(g gridmap.Grid, p r2.Point) bool {
	return g.IsOccupied(gridmap.NodeAt(p))
}

// PathInCollision reports whether any point of path collides.
func PathInCollision(g gridmap.Grid, path []r2.Point) bool {
	for _, p := range path {
		if PointInCollision(g, p) {
			return true
		}
	}
	return false
}

// TrajectoryInCollision reports whether any pose position collides.
func TrajectoryInCollision(g gridmap.Grid, poses []spatialmath.Pose) bool {
	for _, p := range poses {
		if PointInCollision(g, p.Point) {
			return true
		}
	}
	return false
}
