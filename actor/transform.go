package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform represents a position and an orientation in 2D space
type Transform struct {
	Position mgl64.Vec2
	Rotation mgl64.Mat2
}

// NewTransform creates a transform at position, rotated by angle radians
func NewTransform(position mgl64.Vec2, angle float64) Transform {
	return Transform{
		Position: position,
		Rotation: mgl64.Rotate2D(angle),
	}
}

// IdentityTransform returns a transform with no translation and no rotation
func IdentityTransform() Transform {
	return Transform{Rotation: mgl64.Ident2()}
}

// Set moves the transform to position and angle
func (t *Transform) Set(position mgl64.Vec2, angle float64) {
	t.Position = position
	t.Rotation = mgl64.Rotate2D(angle)
}

// Angle returns the rotation angle in radians
func (t Transform) Angle() float64 {
	return Angle(t.Rotation)
}

// Apply maps a local point into world space
func (t Transform) Apply(v mgl64.Vec2) mgl64.Vec2 {
	return t.Rotation.Mul2x1(v).Add(t.Position)
}

// ApplyInverse maps a world point into local space
func (t Transform) ApplyInverse(v mgl64.Vec2) mgl64.Vec2 {
	return t.Rotation.Transpose().Mul2x1(v.Sub(t.Position))
}

// Rotate rotates a local direction into world space
func (t Transform) Rotate(v mgl64.Vec2) mgl64.Vec2 {
	return t.Rotation.Mul2x1(v)
}

// InverseRotate rotates a world direction into local space
func (t Transform) InverseRotate(v mgl64.Vec2) mgl64.Vec2 {
	return t.Rotation.Transpose().Mul2x1(v)
}

// MulT returns the transform taking points from other's frame into t's frame
func (t Transform) MulT(other Transform) Transform {
	rt := t.Rotation.Transpose()
	return Transform{
		Position: rt.Mul2x1(other.Position.Sub(t.Position)),
		Rotation: rt.Mul2(other.Rotation),
	}
}

// Sweep describes the motion of a body's center of mass over one step.
// C0/A0 are the state at the beginning of the step, C/A the current state.
type Sweep struct {
	LocalCenter mgl64.Vec2
	C0, C       mgl64.Vec2
	A0, A       float64
}

// Transform computes the body transform at the current sweep state
func (s Sweep) Transform() Transform {
	return TransformFromCenter(s.C, s.A, s.LocalCenter)
}

// Advance moves the start of the sweep forward to alpha in [0,1)
func (s *Sweep) Advance(alpha float64) {
	s.C0 = s.C0.Add(s.C.Sub(s.C0).Mul(alpha))
	s.A0 += alpha * (s.A - s.A0)
	s.C = s.C0
	s.A = s.A0
}

// TransformFromCenter builds the body origin transform from a center of mass
// position, an angle and the local center of mass
func TransformFromCenter(center mgl64.Vec2, angle float64, localCenter mgl64.Vec2) Transform {
	q := mgl64.Rotate2D(angle)
	return Transform{
		Position: center.Sub(q.Mul2x1(localCenter)),
		Rotation: q,
	}
}
