package math3d

import (
	"testing"
)

// The per-frame hot paths: composing a group's model matrix from its
// animated transform and projecting vertices through it.

func BenchmarkCompose(b *testing.B) {
	pos, rot, scale := V3(0.3, -0.1, 0), V3(1.5, 1, 0.2), V3(0.25, 0.25, 0.25)

	for b.Loop() {
		_ = Compose(pos, rot, scale)
	}
}

func BenchmarkEulerFromMat4(b *testing.B) {
	m := EulerXYZ(V3(0.4, -0.7, 1.1))

	for b.Loop() {
		_ = EulerFromMat4(m)
	}
}

func BenchmarkLookRotation(b *testing.B) {
	eye, target := V3(0.3, 0, 0), V3(0, 0, 1)

	for b.Loop() {
		_ = LookRotation(eye, target, Up())
	}
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Perspective(1.2, 16.0/9.0, 0.01, 10)
	m2 := Compose(V3(0.3, 0, -1), V3(0, 1, 0), V3(1, 1, 1))

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec4(b *testing.B) {
	m := Perspective(1.2, 16.0/9.0, 0.01, 10).Mul(Translate(V3(0, 0, -1)))
	v := V4FromV3(V3(0.1, 0.2, 0.3), 1)

	for b.Loop() {
		_ = m.MulVec4(v).PerspectiveDivide()
	}
}

func BenchmarkVec3Normalize(b *testing.B) {
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = v.Normalize()
	}
}

func BenchmarkVec3Cross(b *testing.B) {
	v1 := V3(1, 2, 3)
	v2 := V3(4, 5, 6)

	for b.Loop() {
		_ = v1.Cross(v2)
	}
}
