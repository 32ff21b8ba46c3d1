// Package localization estimates the robot pose from noisy odometry and position fixes.
package localization

import (
	"math"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/navsim/spatialmath"
)

// singularThreshold is the smallest |det S| for which a correction is applied.
const singularThreshold = 1e-9

var positionModel = spatialmath.Mat23{{1, 0, 0}, {0, 1, 0}}

// Params configures the filter.
type Params struct {
	Noise   SensorNoise `json:"noise"`
	InitCov float64     `json:"init_cov"`
}

// EKF is an extended Kalman filter over (x, y, θ) with a unicycle motion model and a
// position-only measurement model.
type EKF struct {
	x       spatialmath.Vec3
	p       spatialmath.Mat3
	q       SensorNoise
	r       spatialmath.Mat2
	skipped int
}

// NewEKF starts the filter at initial with an isotropic covariance of params.InitCov.
func NewEKF(initial spatialmath.Pose, params Params) *EKF {
	return &EKF{
		x: initial.Vec(),
		p: spatialmath.Diag3(params.InitCov, params.InitCov, params.InitCov),
		q: params.Noise,
		r: spatialmath.Diag2(params.Noise.MeasStdX*params.Noise.MeasStdX, params.Noise.MeasStdY*params.Noise.MeasStdY),
	}
}

// Predict propagates the mean through the motion model and the covariance as F·P·Fᵗ + Q. The
// Jacobian is evaluated at the heading before the step.
func (f *EKF) Predict(v, omega, dt float64) {
	sin, cos := math.Sincos(f.x[2])
	f.x = spatialmath.Vec3{
		f.x[0] + v*cos*dt,
		f.x[1] + v*sin*dt,
		spatialmath.WrapAngle(f.x[2] + omega*dt),
	}
	jac := spatialmath.Mat3{
		{1, 0, -v * dt * sin},
		{0, 1, v * dt * cos},
		{0, 0, 1},
	}
	qxy := f.q.OdomStdV * dt
	qyaw := f.q.OdomStdOmega * dt
	f.p = jac.Mul(f.p).Mul(jac.T()).Add(spatialmath.Diag3(qxy*qxy, qxy*qxy, qyaw*qyaw))
}

// Update corrects the estimate with a position fix. It returns false and leaves the state
// untouched when the innovation covariance is numerically singular.
func (f *EKF) Update(z r2.Point) bool {
	innovation := spatialmath.Vec2{z.X, z.Y}.Sub(positionModel.MulVec(f.x))
	hT := positionModel.T()
	s := positionModel.MulMat3(f.p).Mul(hT).Add(f.r)
	sInv, ok := s.Inverse(singularThreshold)
	if !ok {
		f.skipped++
		return false
	}
	gain := f.p.MulMat32(hT).Mul(sInv)

	f.x = f.x.Add(gain.MulVec(innovation))
	f.x[2] = spatialmath.WrapAngle(f.x[2])
	f.p = spatialmath.Identity3().Sub(gain.MulMat23(positionModel)).Mul(f.p)
	return true
}

// Pose is the current estimate.
func (f *EKF) Pose() spatialmath.Pose {
	return spatialmath.PoseFromVec(f.x)
}

// Covariance is the current 3x3 covariance.
func (f *EKF) Covariance() spatialmath.Mat3 {
	return f.p
}

// CovarianceSym exports the covariance, symmetrized, for use with gonum.
func (f *EKF) CovarianceSym() *mat.SymDense {
	sym := mat.NewSymDense(3, nil)
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			sym.SetSym(i, j, (f.p[i][j]+f.p[j][i])/2)
		}
	}
	return sym
}

// PositiveDefinite reports whether the covariance admits a Cholesky factorization.
func (f *EKF) PositiveDefinite() bool {
	var chol mat.Cholesky
	return chol.Factorize(f.CovarianceSym())
}

// SkippedUpdates counts corrections dropped for a singular innovation covariance.
func (f *EKF) SkippedUpdates() int {
	return f.skipped
}
