// Package control contains the path tracking controller that turns a reference path into
// velocity commands.
package control

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/navsim/spatialmath"
)

const minLookahead = 1e-3

// Command is a unicycle velocity command.
type Command struct {
	V     float64
	Omega float64
}

// IsZero reports whether both components are within eps of zero.
func (c Command) IsZero(eps float64) bool {
	return math.Abs(c.V) < eps && math.Abs(c.Omega) < eps
}

// PurePursuitParams tunes the pursuit controller.
type PurePursuitParams struct {
	Lookahead float64 `json:"lookahead"`
	Speed     float64 `json:"speed"`
	MaxOmega  float64 `json:"max_omega"`
}

// DefaultPurePursuitParams returns the stock tuning.
func DefaultPurePursuitParams() PurePursuitParams {
	return PurePursuitParams{Lookahead: 0.8, Speed: 0.8, MaxOmega: 2.0}
}

// Validate checks the parameters.
func (p PurePursuitParams) Validate() error {
	var err error
	if p.Lookahead <= 0 {
		err = multierr.Append(err, errors.Errorf("lookahead must be positive, got %v", p.Lookahead))
	}
	if p.Speed < 0 {
		err = multierr.Append(err, errors.Errorf("speed must be non-negative, got %v", p.Speed))
	}
	if p.MaxOmega < 0 {
		err = multierr.Append(err, errors.Errorf("max_omega must be non-negative, got %v", p.MaxOmega))
	}
	return err
}

// PurePursuit steers toward the first path point at least a lookahead away, scanning forward from
// lastTarget, or toward the final point when none qualifies. It returns the command and the
// target index to pass back on the next call. path must not be empty.
func PurePursuit(pose spatialmath.Pose, path []r2.Point, params PurePursuitParams, lastTarget int) (Command, int) {
	target := len(path) - 1
	for i := max(lastTarget, 0); i < len(path); i++ {
		if pose.Distance(path[i]) >= params.Lookahead {
			target = i
			break
		}
	}

	delta := path[target].Sub(pose.Point)
	alpha := spatialmath.WrapAngle(math.Atan2(delta.Y, delta.X) - pose.Theta)
	curvature := 2 * math.Sin(alpha) / math.Max(params.Lookahead, minLookahead)
	omega := math.Max(-params.MaxOmega, math.Min(params.MaxOmega, curvature*params.Speed))
	return Command{V: params.Speed, Omega: omega}, target
}
