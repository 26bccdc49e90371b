package math3d

import "math"

// Mat4 is a 4x4 matrix in column-major order: element (row, col) is at
// index row+col*4, and the translation of an affine transform sits in
// indices 12..14.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Scale(Vec3{1, 1, 1})
}

// Translate returns a matrix that moves points by v.
func Translate(v Vec3) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = v.X, v.Y, v.Z
	return m
}

// Scale returns a matrix that scales each axis by the matching component of v.
func Scale(v Vec3) Mat4 {
	var m Mat4
	m[0], m[5], m[10], m[15] = v.X, v.Y, v.Z, 1
	return m
}

// planeRotation rotates by angle in the plane spanned by axes a and b,
// turning a toward b.
func planeRotation(a, b int, angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	m := Identity()
	m[a+a*4], m[b+a*4] = c, s
	m[a+b*4], m[b+b*4] = -s, c
	return m
}

// RotateX returns a right-handed rotation about the X axis.
func RotateX(angle float64) Mat4 { return planeRotation(1, 2, angle) }

// RotateY returns a right-handed rotation about the Y axis.
func RotateY(angle float64) Mat4 { return planeRotation(2, 0, angle) }

// RotateZ returns a right-handed rotation about the Z axis.
func RotateZ(angle float64) Mat4 { return planeRotation(0, 1, angle) }

// LookAt returns the view matrix of a camera at eye looking at center. For
// orienting models use LookRotation.
func LookAt(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)

	m := Identity()
	for i, row := range [3]Vec3{s, u, f.Negate()} {
		m[i], m[i+4], m[i+8] = row.X, row.Y, row.Z
		m[i+12] = -row.Dot(eye)
	}
	return m
}

// Perspective returns an OpenGL-style projection mapping the view volume
// onto z in [-1, 1]. fovy is the vertical field of view in radians and
// aspect is width over height.
func Perspective(fovy, aspect, near, far float64) Mat4 {
	f := 1 / math.Tan(fovy/2)
	nf := 1 / (near - far)

	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = (far + near) * nf
	m[11] = -1
	m[14] = 2 * far * near * nf
	return m
}

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) float64 {
	return m[row+col*4]
}

// Mul returns the product a·b, which applies b first.
//
//nolint:st1016 // a*b reads better than m*b here
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		for row := range 4 {
			for k := range 4 {
				m[row+col*4] += a.Get(row, k) * b.Get(k, col)
			}
		}
	}
	return m
}

// MulVec4 returns m·v.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	var out [4]float64
	for row := range out {
		out[row] = m[row]*v.X + m[row+4]*v.Y + m[row+8]*v.Z + m[row+12]*v.W
	}
	return Vec4{out[0], out[1], out[2], out[3]}
}

// MulVec3 transforms v as a point and divides by the resulting w.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	return m.MulVec4(V4FromV3(v, 1)).PerspectiveDivide()
}

// MulVec3Dir transforms v as a direction, ignoring translation.
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	r := m.MulVec4(V4FromV3(v, 0))
	return Vec3{r.X, r.Y, r.Z}
}

// Determinant returns det(m), expanded along the first row.
func (m Mat4) Determinant() float64 {
	var det float64
	sign := 1.0
	for col := range 4 {
		det += sign * m.Get(0, col) * m.minor(0, col)
		sign = -sign
	}
	return det
}

// minor returns the determinant of m without the given row and column.
func (m Mat4) minor(row, col int) float64 {
	var s [3][3]float64
	for r, i := 0, 0; r < 4; r++ {
		if r == row {
			continue
		}
		for c, j := 0, 0; c < 4; c++ {
			if c == col {
				continue
			}
			s[i][j] = m.Get(r, c)
			j++
		}
		i++
	}
	return s[0][0]*(s[1][1]*s[2][2]-s[1][2]*s[2][1]) -
		s[0][1]*(s[1][0]*s[2][2]-s[1][2]*s[2][0]) +
		s[0][2]*(s[1][0]*s[2][1]-s[1][1]*s[2][0])
}

// Vec4 is a homogeneous point in clip space.
type Vec4 struct {
	X, Y, Z, W float64
}

// V4FromV3 extends v with the given w.
func V4FromV3(v Vec3, w float64) Vec4 {
	return Vec4{v.X, v.Y, v.Z, w}
}

// PerspectiveDivide returns the normalized device coordinates of v. A zero
// W leaves the components unchanged.
func (v Vec4) PerspectiveDivide() Vec3 {
	if v.W == 0 {
		return Vec3{v.X, v.Y, v.Z}
	}
	return Vec3{v.X / v.W, v.Y / v.W, v.Z / v.W}
}
