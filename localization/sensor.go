package localization

import (
	"math/rand/v2"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/stat/distuv"

	"go.viam.com/navsim/spatialmath"
)

// SensorNoise holds the standard deviations of the simulated odometry and position sensors.
type SensorNoise struct {
	OdomStdV     float64 `json:"odom_std_v"`
	OdomStdOmega float64 `json:"odom_std_omega"`
	MeasStdX     float64 `json:"meas_std_x"`
	MeasStdY     float64 `json:"meas_std_y"`
}

// DefaultSensorNoise returns the stock noise levels.
func DefaultSensorNoise() SensorNoise {
	return SensorNoise{OdomStdV: 0.05, OdomStdOmega: 0.05, MeasStdX: 0.2, MeasStdY: 0.2}
}

// Validate rejects negative standard deviations.
func (n SensorNoise) Validate() error {
	var err error
	for _, field := range []struct {
		name string
		std  float64
	}{
		{"odom_std_v", n.OdomStdV},
		{"odom_std_omega", n.OdomStdOmega},
		{"meas_std_x", n.MeasStdX},
		{"meas_std_y", n.MeasStdY},
	} {
		if field.std < 0 {
			err = multierr.Append(err, errors.Errorf("%s must be non-negative, got %v", field.name, field.std))
		}
	}
	return err
}

// Sensor draws reproducible Gaussian noise from a seeded source. It is not safe for concurrent use.
type Sensor struct {
	v, omega, x, y distuv.Normal
}

// NewSensor seeds all four noise channels from one source.
func NewSensor(noise SensorNoise, seed uint64) *Sensor {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	normal := func(sigma float64) distuv.Normal {
		return distuv.Normal{Mu: 0, Sigma: sigma, Src: src}
	}
	return &Sensor{
		v:     normal(noise.OdomStdV),
		omega: normal(noise.OdomStdOmega),
		x:     normal(noise.MeasStdX),
		y:     normal(noise.MeasStdY),
	}
}

// NoisyControl perturbs a velocity command as wheel odometry would report it.
func (s *Sensor) NoisyControl(v, omega float64) (float64, float64) {
	return v + s.v.Rand(), omega + s.omega.Rand()
}

// NoisyPosition returns a position fix of the true pose.
func (s *Sensor) NoisyPosition(pose spatialmath.Pose) r2.Point {
	return r2.Point{X: pose.Point.X + s.x.Rand(), Y: pose.Point.Y + s.y.Rand()}
}
