package math3d

import "math"

// EulerXYZ builds the rotation matrix for intrinsic X, then Y, then Z
// rotations (angles in radians). The result equals Rx * Ry * Rz.
func EulerXYZ(r Vec3) Mat4 {
	return RotateX(r.X).Mul(RotateY(r.Y)).Mul(RotateZ(r.Z))
}

// EulerFromMat4 extracts XYZ Euler angles from the rotation part of m.
// The upper 3x3 block must be a pure rotation.
func EulerFromMat4(m Mat4) Vec3 {
	m13 := clamp(m.Get(0, 2), -1, 1)
	y := math.Asin(m13)
	if math.Abs(m13) < 0.9999999 {
		return Vec3{
			X: math.Atan2(-m.Get(1, 2), m.Get(2, 2)),
			Y: y,
			Z: math.Atan2(-m.Get(0, 1), m.Get(0, 0)),
		}
	}
	// Gimbal lock: fold Z into X.
	return Vec3{X: math.Atan2(m.Get(2, 1), m.Get(1, 1)), Y: y}
}

// LookRotation returns a rotation whose +Z axis points from eye toward
// target. This is the object (not camera) convention: a model's front faces
// the target. Returns identity when eye and target coincide.
func LookRotation(eye, target, up Vec3) Mat4 {
	z := target.Sub(eye)
	if z.LenSq() == 0 {
		return Identity()
	}
	z = z.Normalize()

	x := up.Cross(z)
	if x.LenSq() == 0 {
		// up parallel to z: nudge z before taking the cross product.
		if math.Abs(up.Z) == 1 {
			z.X += 0.0001
		} else {
			z.Z += 0.0001
		}
		z = z.Normalize()
		x = up.Cross(z)
	}
	x = x.Normalize()
	y := z.Cross(x)

	return Mat4{
		x.X, x.Y, x.Z, 0,
		y.X, y.Y, y.Z, 0,
		z.X, z.Y, z.Z, 0,
		0, 0, 0, 1,
	}
}

// Compose builds a model matrix T * R * S from a position, XYZ Euler
// rotation and per-axis scale.
func Compose(position, rotation, scale Vec3) Mat4 {
	return Translate(position).Mul(EulerXYZ(rotation)).Mul(Scale(scale))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
