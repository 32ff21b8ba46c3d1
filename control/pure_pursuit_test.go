package control

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"

	"go.viam.com/navsim/spatialmath"
)

func TestPurePursuitStraight(t *testing.T) {
	path := []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}
	cmd, target := PurePursuit(spatialmath.NewPose(0, 0, 0), path, DefaultPurePursuitParams(), 0)
	test.That(t, target, test.ShouldEqual, 1)
	test.That(t, cmd.V, test.ShouldEqual, 0.8)
	test.That(t, cmd.Omega, test.ShouldAlmostEqual, 0)
}

func TestPurePursuitTurns(t *testing.T) {
	params := DefaultPurePursuitParams()
	path := []r2.Point{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 2}}

	// Target straight left: alpha = π/2, curvature 2/0.8 = 2.5, ω = 2.0 after clamping.
	cmd, target := PurePursuit(spatialmath.NewPose(0, 0, 0), path, params, 0)
	test.That(t, target, test.ShouldEqual, 1)
	test.That(t, cmd.Omega, test.ShouldAlmostEqual, 2.0)

	params.MaxOmega = 5
	cmd, _ = PurePursuit(spatialmath.NewPose(0, 0, 0), path, params, 0)
	test.That(t, cmd.Omega, test.ShouldAlmostEqual, 2.5*0.8)

	// Target to the right steers negative.
	cmd, _ = PurePursuit(spatialmath.NewPose(0, 0, math.Pi), path, params, 0)
	test.That(t, cmd.Omega, test.ShouldBeLessThan, 0)
}

func TestPurePursuitTargetIndex(t *testing.T) {
	params := DefaultPurePursuitParams()
	path := []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}

	// Never rewinds behind lastTarget even though index 0 is farther away now.
	_, target := PurePursuit(spatialmath.NewPose(2.5, 0, 0), path, params, 2)
	test.That(t, target, test.ShouldEqual, 3)

	// Nothing far enough away: aim at the last point.
	_, target = PurePursuit(spatialmath.NewPose(2.9, 0, 0), path, params, 3)
	test.That(t, target, test.ShouldEqual, 3)
	_, target = PurePursuit(spatialmath.NewPose(2.9, 0, 0), path, params, 10)
	test.That(t, target, test.ShouldEqual, 3)
}

func TestCommandAndValidate(t *testing.T) {
	test.That(t, Command{V: 1e-4, Omega: -1e-4}.IsZero(1e-3), test.ShouldBeTrue)
	test.That(t, Command{V: 0, Omega: 0.01}.IsZero(1e-3), test.ShouldBeFalse)

	test.That(t, DefaultPurePursuitParams().Validate(), test.ShouldBeNil)
	err := PurePursuitParams{Lookahead: 0, Speed: -1, MaxOmega: 1}.Validate()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "lookahead")
	test.That(t, err.Error(), test.ShouldContainSubstring, "speed")
}
