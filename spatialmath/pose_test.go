package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"
)

func TestWrapAngle(t *testing.T) {
	for _, tc := range []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{0.25, 0.25},
	} {
		test.That(t, WrapAngle(tc.in), test.ShouldAlmostEqual, tc.want, 1e-12)
	}
}

func TestIntegrate(t *testing.T) {
	p := NewPose(0, 0, 0).Integrate(1, 0, 0.5)
	test.That(t, p.Point.X, test.ShouldAlmostEqual, 0.5)
	test.That(t, p.Point.Y, test.ShouldAlmostEqual, 0)

	p = NewPose(1, 1, math.Pi/2).Integrate(2, 1, 0.1)
	test.That(t, p.Point.X, test.ShouldAlmostEqual, 1, 1e-12)
	test.That(t, p.Point.Y, test.ShouldAlmostEqual, 1.2)
	test.That(t, p.Theta, test.ShouldAlmostEqual, math.Pi/2+0.1)

	// Heading stays wrapped.
	p = NewPose(0, 0, math.Pi-0.05).Integrate(0, 1, 0.1)
	test.That(t, p.Theta, test.ShouldAlmostEqual, -math.Pi+0.05, 1e-12)
}

func TestCellAndDistance(t *testing.T) {
	p := NewPose(2.5, 3.49, 0)
	x, y := p.Cell()
	test.That(t, x, test.ShouldEqual, 2)
	test.That(t, y, test.ShouldEqual, 3)
	x, _ = NewPose(3.5, 0, 0).Cell()
	test.That(t, x, test.ShouldEqual, 4)
	test.That(t, NewPose(0, 0, 0).Distance(r2.Point{X: 3, Y: 4}), test.ShouldAlmostEqual, 5)
	test.That(t, Points([]Pose{p}), test.ShouldResemble, []r2.Point{{X: 2.5, Y: 3.49}})
}

func TestMat2Inverse(t *testing.T) {
	m := Mat2{{4, 7}, {2, 6}}
	inv, ok := m.Inverse(1e-9)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, inv[0][0], test.ShouldAlmostEqual, 0.6)
	test.That(t, inv[0][1], test.ShouldAlmostEqual, -0.7)
	test.That(t, inv[1][0], test.ShouldAlmostEqual, -0.2)
	test.That(t, inv[1][1], test.ShouldAlmostEqual, 0.4)

	_, ok = Mat2{{1, 2}, {2, 4}}.Inverse(1e-9)
	test.That(t, ok, test.ShouldBeFalse)
}

func TestMatrixProducts(t *testing.T) {
	a := Mat3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	test.That(t, a.Mul(Identity3()), test.ShouldResemble, a)
	test.That(t, a.T().T(), test.ShouldResemble, a)
	test.That(t, a.Sub(a), test.ShouldResemble, Mat3{})
	test.That(t, a.MulVec(Vec3{1, 0, 0}), test.ShouldResemble, Vec3{1, 4, 7})

	h := Mat23{{1, 0, 0}, {0, 1, 0}}
	test.That(t, h.MulVec(Vec3{3, 4, 5}), test.ShouldResemble, Vec2{3, 4})
	// H·A·Hᵗ picks the upper-left block.
	test.That(t, h.MulMat3(a).Mul(h.T()), test.ShouldResemble, Mat2{{1, 2}, {4, 5}})
	test.That(t, h.T().MulMat23(h), test.ShouldResemble, Diag3(1, 1, 0))
	test.That(t, h.T().Mul(Diag2(2, 3)).MulVec(Vec2{1, 1}), test.ShouldResemble, Vec3{2, 3, 0})
}
