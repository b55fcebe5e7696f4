package ik

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

func sqrt(v float32) float32 { return float32(math.Sqrt(float64(v))) }

func acos(v float32) float32 { return float32(math.Acos(float64(v))) }

// normalizationToleranceSq bounds |len^2 - 1| for a vector to count as
// normalized.
const normalizationToleranceSq = 1e-3

func isNormalized(v mgl32.Vec3) bool {
	return mgl32.Abs(v.LenSqr()-1) < normalizationToleranceSq
}

// transformPoint applies m to v as a position (w = 1).
func transformPoint(m mgl32.Mat4, v mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(v.Vec4(1)).Vec3()
}

// transformVector applies m to v as a direction (w = 0, no translation).
func transformVector(m mgl32.Mat4, v mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(v.Vec4(0)).Vec3()
}

// translation returns m's position column.
func translation(m mgl32.Mat4) mgl32.Vec3 {
	return m.Col(3).Vec3()
}

// clampOrMin clamps v to [lo, hi], mapping NaN to lo. Degenerate cosine
// computations rely on the NaN-to-lower-bound behavior.
func clampOrMin(v, lo, hi float32) float32 {
	switch {
	case v > hi:
		return hi
	case v >= lo:
		return v
	default:
		return lo
	}
}

// quatFromVectors returns the shortest-arc rotation taking from onto to.
// Near-null inputs return identity; exactly opposite inputs rotate half a
// turn around an arbitrary orthogonal axis.
func quatFromVectors(from, to mgl32.Vec3) mgl32.Quat {
	norm := sqrt(from.LenSqr() * to.LenSqr())
	if norm < 1e-6 {
		return mgl32.QuatIdent()
	}
	realPart := norm + from.Dot(to)
	var q mgl32.Quat
	if realPart < 1e-6*norm {
		if mgl32.Abs(from.X()) > mgl32.Abs(from.Z()) {
			q = mgl32.Quat{V: mgl32.Vec3{-from.Y(), from.X(), 0}}
		} else {
			q = mgl32.Quat{V: mgl32.Vec3{0, -from.Z(), from.Y()}}
		}
	} else {
		q = mgl32.Quat{W: realPart, V: from.Cross(to)}
	}
	return q.Normalize()
}

// quatFromAxisCosAngle builds a rotation of acos(cos) around a normalized
// axis without computing the angle itself. NaN cosines propagate into the
// result.
func quatFromAxisCosAngle(axis mgl32.Vec3, cos float32) mgl32.Quat {
	halfCos2 := (1 + cos) * 0.5
	return mgl32.Quat{
		W: sqrt(halfCos2),
		V: axis.Mul(sqrt(1 - halfCos2)),
	}
}

// positiveW canonicalizes q to a non-negative scalar part, flipping on the
// sign bit so that -0 also flips.
func positiveW(q mgl32.Quat) mgl32.Quat {
	if math.Signbit(float64(q.W)) {
		return mgl32.Quat{W: -q.W, V: q.V.Mul(-1)}
	}
	return q
}
