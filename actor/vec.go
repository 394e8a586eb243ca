package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Cross returns the z component of the 3D cross product of a and b
func Cross(a, b mgl64.Vec2) float64 {
	return a.X()*b.Y() - a.Y()*b.X()
}

// CrossVS returns v x s, a vector perpendicular to v scaled by s
func CrossVS(v mgl64.Vec2, s float64) mgl64.Vec2 {
	return mgl64.Vec2{s * v.Y(), -s * v.X()}
}

// CrossSV returns s x v, the velocity of point v on a body spinning at s
func CrossSV(s float64, v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{-s * v.Y(), s * v.X()}
}

// Angle extracts the angle of a rotation matrix built with mgl64.Rotate2D
func Angle(q mgl64.Mat2) float64 {
	// column major: q[0] = cos, q[1] = sin
	return math.Atan2(q[1], q[0])
}

// DistanceSquared returns |a-b|²
func DistanceSquared(a, b mgl64.Vec2) float64 {
	return b.Sub(a).LenSqr()
}

// SafeNormalize returns v normalized, or the zero vector if v is too short
func SafeNormalize(v mgl64.Vec2) mgl64.Vec2 {
	l := v.Len()
	if l < mgl64.Epsilon {
		return mgl64.Vec2{}
	}
	return v.Mul(1.0 / l)
}
