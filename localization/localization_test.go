package localization

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"

	"go.viam.com/navsim/spatialmath"
)

func TestEKFTracksWithoutNoise(t *testing.T) {
	ekf := NewEKF(spatialmath.NewPose(0, 0, 0), Params{InitCov: 0.1})
	truePose := spatialmath.NewPose(0, 0, 0)
	for i := 0; i < 5; i++ {
		truePose = truePose.Integrate(1, 0, 1)
		ekf.Predict(1, 0, 1)
		ekf.Update(truePose.Point)
	}

	est := ekf.Pose()
	test.That(t, est.Point.X, test.ShouldAlmostEqual, 5, 1e-6)
	test.That(t, est.Point.Y, test.ShouldAlmostEqual, 0, 1e-6)
	test.That(t, truePose.Point.X, test.ShouldAlmostEqual, 5, 1e-6)
	// With zero measurement noise the position variance collapses and later corrections are
	// skipped as singular.
	test.That(t, ekf.SkippedUpdates(), test.ShouldEqual, 4)
}

func TestEKFConverges(t *testing.T) {
	ekf := NewEKF(spatialmath.NewPose(0.5, -0.3, 0.2), Params{Noise: DefaultSensorNoise(), InitCov: 0.5})
	truePose := spatialmath.NewPose(0, 0, 0)
	for i := 0; i < 30; i++ {
		truePose = truePose.Integrate(1, 0.1, 0.1)
		ekf.Predict(1, 0.1, 0.1)
		test.That(t, ekf.Update(truePose.Point), test.ShouldBeTrue)
		test.That(t, ekf.PositiveDefinite(), test.ShouldBeTrue)
	}
	test.That(t, ekf.Pose().Distance(truePose.Point), test.ShouldBeLessThan, 0.05)
	test.That(t, ekf.SkippedUpdates(), test.ShouldEqual, 0)

	sym := ekf.CovarianceSym()
	cov := ekf.Covariance()
	test.That(t, sym.At(0, 1), test.ShouldAlmostEqual, (cov[0][1]+cov[1][0])/2)
	test.That(t, sym.At(2, 2), test.ShouldAlmostEqual, cov[2][2])
}

func TestEKFPredictCovariance(t *testing.T) {
	noise := SensorNoise{OdomStdV: 0.1, OdomStdOmega: 0.2}
	ekf := NewEKF(spatialmath.NewPose(0, 0, math.Pi/2), Params{Noise: noise, InitCov: 1})
	ekf.Predict(2, 0, 0.5)

	pose := ekf.Pose()
	test.That(t, pose.Point.X, test.ShouldAlmostEqual, 0, 1e-12)
	test.That(t, pose.Point.Y, test.ShouldAlmostEqual, 1)
	cov := ekf.Covariance()
	// F = [[1,0,-1],[0,1,0],[0,0,1]] at θ=π/2, so var(x) = 1 + 1 + 0.05².
	test.That(t, cov[0][0], test.ShouldAlmostEqual, 2+0.0025, 1e-9)
	test.That(t, cov[1][1], test.ShouldAlmostEqual, 1+0.0025, 1e-9)
	test.That(t, cov[0][2], test.ShouldAlmostEqual, -1, 1e-9)
	test.That(t, cov[2][2], test.ShouldAlmostEqual, 1+0.01, 1e-9)
}

func TestEKFSingularSkipsUpdate(t *testing.T) {
	ekf := NewEKF(spatialmath.NewPose(1, 2, 0), Params{InitCov: 0})
	before := ekf.Pose()
	test.That(t, ekf.Update(r2.Point{X: 5, Y: 5}), test.ShouldBeFalse)
	test.That(t, ekf.Pose(), test.ShouldResemble, before)
	test.That(t, ekf.SkippedUpdates(), test.ShouldEqual, 1)
}

func TestSensorDeterministic(t *testing.T) {
	a := NewSensor(DefaultSensorNoise(), 7)
	b := NewSensor(DefaultSensorNoise(), 7)
	c := NewSensor(DefaultSensorNoise(), 8)
	pose := spatialmath.NewPose(3, 4, 0)

	var differs bool
	for i := 0; i < 20; i++ {
		av, aw := a.NoisyControl(1, 0)
		bv, bw := b.NoisyControl(1, 0)
		cv, _ := c.NoisyControl(1, 0)
		test.That(t, av, test.ShouldEqual, bv)
		test.That(t, aw, test.ShouldEqual, bw)
		test.That(t, a.NoisyPosition(pose), test.ShouldResemble, b.NoisyPosition(pose))
		c.NoisyPosition(pose)
		differs = differs || av != cv
	}
	test.That(t, differs, test.ShouldBeTrue)

	quiet := NewSensor(SensorNoise{}, 1)
	v, w := quiet.NoisyControl(0.8, -0.2)
	test.That(t, v, test.ShouldEqual, 0.8)
	test.That(t, w, test.ShouldEqual, -0.2)
	test.That(t, quiet.NoisyPosition(pose), test.ShouldResemble, pose.Point)
}

func TestLocalizers(t *testing.T) {
	start := spatialmath.NewPose(0, 0, 0)
	next := start.Integrate(1, 0, 0.1)

	perfect := NewPerfectLocalizer(start)
	test.That(t, perfect.CurrentPosition(), test.ShouldResemble, start)
	perfect.Observe(1, 0, 0.1, next)
	test.That(t, perfect.CurrentPosition(), test.ShouldResemble, next)

	var noisy Localizer = NewEKFLocalizer(start, Params{Noise: DefaultSensorNoise(), InitCov: 0.5}, 3)
	noisy.Observe(1, 0, 0.1, next)
	test.That(t, noisy.CurrentPosition().Distance(next.Point), test.ShouldBeLessThan, 1)

	test.That(t, DefaultSensorNoise().Validate(), test.ShouldBeNil)
	err := SensorNoise{OdomStdV: -1, MeasStdY: -2}.Validate()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "odom_std_v")
	test.That(t, err.Error(), test.ShouldContainSubstring, "meas_std_y")
}
