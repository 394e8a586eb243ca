package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = 1e-9

func vecAlmostEqual(a, b mgl64.Vec2) bool {
	return math.Abs(a.X()-b.X()) < epsilon && math.Abs(a.Y()-b.Y()) < epsilon
}

func TestTransform_ApplyInverse(t *testing.T) {
	xf := NewTransform(mgl64.Vec2{3, -2}, 0.7)

	points := []mgl64.Vec2{{0, 0}, {1, 0}, {-2.5, 4}}
	for _, p := range points {
		world := xf.Apply(p)
		if back := xf.ApplyInverse(world); !vecAlmostEqual(back, p) {
			t.Errorf("ApplyInverse(Apply(%v)) = %v", p, back)
		}
	}
}

func TestTransform_Rotate(t *testing.T) {
	xf := NewTransform(mgl64.Vec2{5, 5}, math.Pi/2)

	got := xf.Rotate(mgl64.Vec2{1, 0})
	if !vecAlmostEqual(got, mgl64.Vec2{0, 1}) {
		t.Errorf("Rotate({1,0}) by 90° = %v, want {0,1}", got)
	}

	if back := xf.InverseRotate(got); !vecAlmostEqual(back, mgl64.Vec2{1, 0}) {
		t.Errorf("InverseRotate() = %v, want {1,0}", back)
	}
}

func TestTransform_Angle(t *testing.T) {
	for _, angle := range []float64{0, 0.3, -1.2, math.Pi / 2, 3.0} {
		xf := NewTransform(mgl64.Vec2{}, angle)
		if got := xf.Angle(); math.Abs(got-angle) > epsilon {
			t.Errorf("Angle() = %v, want %v", got, angle)
		}
	}
}

func TestTransform_MulT(t *testing.T) {
	a := NewTransform(mgl64.Vec2{1, 2}, 0.4)
	b := NewTransform(mgl64.Vec2{-3, 0.5}, -1.1)

	// MulT maps points of b's frame into a's frame
	relative := a.MulT(b)
	p := mgl64.Vec2{0.7, -0.2}

	want := a.ApplyInverse(b.Apply(p))
	if got := relative.Apply(p); !vecAlmostEqual(got, want) {
		t.Errorf("MulT().Apply() = %v, want %v", got, want)
	}
}

func TestSweep_Transform(t *testing.T) {
	localCenter := mgl64.Vec2{0.5, 0}
	sweep := Sweep{
		LocalCenter: localCenter,
		C:           mgl64.Vec2{2, 3},
		A:           math.Pi / 2,
	}

	xf := sweep.Transform()
	// the local center must land on C
	if got := xf.Apply(localCenter); !vecAlmostEqual(got, sweep.C) {
		t.Errorf("Transform().Apply(localCenter) = %v, want %v", got, sweep.C)
	}
}

func TestSweep_Advance(t *testing.T) {
	sweep := Sweep{
		C0: mgl64.Vec2{0, 0},
		C:  mgl64.Vec2{2, 0},
		A0: 0,
		A:  1,
	}

	sweep.Advance(0.5)

	if !vecAlmostEqual(sweep.C0, mgl64.Vec2{1, 0}) || !vecAlmostEqual(sweep.C, mgl64.Vec2{1, 0}) {
		t.Errorf("Advance(0.5) centers = %v, %v, want {1,0}", sweep.C0, sweep.C)
	}
	if math.Abs(sweep.A0-0.5) > epsilon || math.Abs(sweep.A-0.5) > epsilon {
		t.Errorf("Advance(0.5) angles = %v, %v, want 0.5", sweep.A0, sweep.A)
	}
}

func TestCross(t *testing.T) {
	a := mgl64.Vec2{1, 0}
	b := mgl64.Vec2{0, 1}

	if got := Cross(a, b); got != 1 {
		t.Errorf("Cross(x, y) = %v, want 1", got)
	}
	if got := Cross(b, a); got != -1 {
		t.Errorf("Cross(y, x) = %v, want -1", got)
	}

	// v x s is perpendicular to v, clockwise for a positive s
	if got := CrossVS(a, 2); !vecAlmostEqual(got, mgl64.Vec2{0, -2}) {
		t.Errorf("CrossVS() = %v, want {0,-2}", got)
	}
	// s x v is the velocity of v on a body spinning at s
	if got := CrossSV(2, a); !vecAlmostEqual(got, mgl64.Vec2{0, 2}) {
		t.Errorf("CrossSV() = %v, want {0,2}", got)
	}
}

func TestSafeNormalize(t *testing.T) {
	if got := SafeNormalize(mgl64.Vec2{3, 4}); !vecAlmostEqual(got, mgl64.Vec2{0.6, 0.8}) {
		t.Errorf("SafeNormalize({3,4}) = %v", got)
	}
	if got := SafeNormalize(mgl64.Vec2{}); got != (mgl64.Vec2{}) {
		t.Errorf("SafeNormalize(0) = %v, want zero vector", got)
	}
}
