package spatialmath

import "math"

type (
	// Vec2 is a 2-vector.
	Vec2 [2]float64
	// Vec3 is a 3-vector.
	Vec3 [3]float64
	// Mat2 is a row-major 2x2 matrix.
	Mat2 [2][2]float64
	// Mat3 is a row-major 3x3 matrix.
	Mat3 [3][3]float64
	// Mat23 is a 2x3 matrix.
	Mat23 [2][3]float64
	// Mat32 is a 3x2 matrix.
	Mat32 [3][2]float64
)

// Identity3 returns the 3x3 identity.
func Identity3() Mat3 {
	return Diag3(1, 1, 1)
}

// Diag3 returns a diagonal 3x3 matrix.
func Diag3(a, b, c float64) Mat3 {
	return Mat3{{a, 0, 0}, {0, b, 0}, {0, 0, c}}
}

// Diag2 returns a diagonal 2x2 matrix.
func Diag2(a, b float64) Mat2 {
	return Mat2{{a, 0}, {0, b}}
}

// Add returns m + o.
func (m Mat3) Add(o Mat3) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][j] + o[i][j]
		}
	}
	return out
}

// Sub returns m - o.
func (m Mat3) Sub(o Mat3) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][j] - o[i][j]
		}
	}
	return out
}

// Mul returns m·o.
func (m Mat3) Mul(o Mat3) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				out[i][j] += m[i][k] * o[k][j]
			}
		}
	}
	return out
}

// MulVec returns m·v.
func (m Mat3) MulVec(v Vec3) Vec3 {
	var out Vec3
	for i := 0; i < 3; i++ {
		for k := 0; k < 3; k++ {
			out[i] += m[i][k] * v[k]
		}
	}
	return out
}

// MulMat32 returns m·o, a 3x2 matrix.
func (m Mat3) MulMat32(o Mat32) Mat32 {
	var out Mat32
	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 3; k++ {
				out[i][j] += m[i][k] * o[k][j]
			}
		}
	}
	return out
}

// T returns the transpose.
func (m Mat3) T() Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[j][i]
		}
	}
	return out
}

// Mul returns m·o, a 2x2 matrix.
func (m Mat23) Mul(o Mat32) Mat2 {
	var out Mat2
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 3; k++ {
				out[i][j] += m[i][k] * o[k][j]
			}
		}
	}
	return out
}

// MulMat3 returns m·o, a 2x3 matrix.
func (m Mat23) MulMat3(o Mat3) Mat23 {
	var out Mat23
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				out[i][j] += m[i][k] * o[k][j]
			}
		}
	}
	return out
}

// MulVec returns m·v.
func (m Mat23) MulVec(v Vec3) Vec2 {
	var out Vec2
	for i := 0; i < 2; i++ {
		for k := 0; k < 3; k++ {
			out[i] += m[i][k] * v[k]
		}
	}
	return out
}

// T returns the transpose.
func (m Mat23) T() Mat32 {
	var out Mat32
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			out[j][i] = m[i][j]
		}
	}
	return out
}

// Mul returns m·o, a 3x2 matrix.
func (m Mat32) Mul(o Mat2) Mat32 {
	var out Mat32
	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 2; k++ {
				out[i][j] += m[i][k] * o[k][j]
			}
		}
	}
	return out
}

// MulMat23 returns m·o, a 3x3 matrix.
func (m Mat32) MulMat23(o Mat23) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 2; k++ {
				out[i][j] += m[i][k] * o[k][j]
			}
		}
	}
	return out
}

// MulVec returns m·v.
func (m Mat32) MulVec(v Vec2) Vec3 {
	var out Vec3
	for i := 0; i < 3; i++ {
		for k := 0; k < 2; k++ {
			out[i] += m[i][k] * v[k]
		}
	}
	return out
}

// Add returns m + o.
func (m Mat2) Add(o Mat2) Mat2 {
	return Mat2{
		{m[0][0] + o[0][0], m[0][1] + o[0][1]},
		{m[1][0] + o[1][0], m[1][1] + o[1][1]},
	}
}

// Det returns the determinant.
func (m Mat2) Det() float64 {
	return m[0][0]*m[1][1] - m[0][1]*m[1][0]
}

// Inverse returns the inverse computed from the determinant. ok is false when
// |det| < minDet and the returned matrix is zero.
func (m Mat2) Inverse(minDet float64) (Mat2, bool) {
	det := m.Det()
	if math.Abs(det) < minDet {
		return Mat2{}, false
	}
	return Mat2{
		{m[1][1] / det, -m[0][1] / det},
		{-m[1][0] / det, m[0][0] / det},
	}, true
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v[0] - o[0], v[1] - o[1]}
}
