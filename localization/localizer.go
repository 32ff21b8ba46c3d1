package localization

import (
	"go.viam.com/navsim/spatialmath"
)

// Localizer reports where the robot believes it is. Observe is called once per tick with the
// command that was executed and the resulting true pose.
type Localizer interface {
	CurrentPosition() spatialmath.Pose
	Observe(v, omega, dt float64, truePose spatialmath.Pose)
}

// perfectLocalizer passes the true pose through.
type perfectLocalizer struct {
	pose spatialmath.Pose
}

// NewPerfectLocalizer creates a Localizer with no estimation error.
func NewPerfectLocalizer(start spatialmath.Pose) Localizer {
	return &perfectLocalizer{pose: start}
}

func (l *perfectLocalizer) CurrentPosition() spatialmath.Pose {
	return l.pose
}

func (l *perfectLocalizer) Observe(_, _, _ float64, truePose spatialmath.Pose) {
	l.pose = truePose
}

// EKFLocalizer feeds noisy odometry and noisy position fixes into an EKF.
type EKFLocalizer struct {
	*EKF
	sensor *Sensor
}

// NewEKFLocalizer creates a noisy localizer starting from a known pose.
func NewEKFLocalizer(start spatialmath.Pose, params Params, seed uint64) *EKFLocalizer {
	return &EKFLocalizer{EKF: NewEKF(start, params), sensor: NewSensor(params.Noise, seed)}
}

// CurrentPosition is the filter estimate.
func (l *EKFLocalizer) CurrentPosition() spatialmath.Pose {
	return l.Pose()
}

// Observe predicts with a noisy copy of the command and corrects with a noisy fix of truePose.
func (l *EKFLocalizer) Observe(v, omega, dt float64, truePose spatialmath.Pose) {
	nv, nomega := l.sensor.NoisyControl(v, omega)
	l.Predict(nv, nomega, dt)
	l.Update(l.sensor.NoisyPosition(truePose))
}
