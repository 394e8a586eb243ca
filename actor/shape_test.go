package actor

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// =============================================================================
// Circle Tests
// =============================================================================

func TestCircle_ComputeAABB(t *testing.T) {
	circle := &Circle{Position: mgl64.Vec2{1, 0}, Radius: 0.5}
	xf := NewTransform(mgl64.Vec2{2, 3}, math.Pi/2)

	aabb := circle.ComputeAABB(xf)

	// local (1,0) rotated by 90° is (0,1), so the center is (2,4)
	wantMin := mgl64.Vec2{1.5, 3.5}
	wantMax := mgl64.Vec2{2.5, 4.5}
	if !vecAlmostEqual(aabb.Min, wantMin) || !vecAlmostEqual(aabb.Max, wantMax) {
		t.Errorf("ComputeAABB() = %v, want {%v %v}", aabb, wantMin, wantMax)
	}
}

func TestCircle_ComputeMass(t *testing.T) {
	circle := &Circle{Radius: 1.0}
	massData := circle.ComputeMass(2.0)

	wantMass := 2.0 * math.Pi
	if math.Abs(massData.Mass-wantMass) > epsilon {
		t.Errorf("Mass = %v, want %v", massData.Mass, wantMass)
	}
	if math.Abs(massData.I-0.5*wantMass) > epsilon {
		t.Errorf("I = %v, want %v", massData.I, 0.5*wantMass)
	}
	if massData.Center != (mgl64.Vec2{}) {
		t.Errorf("Center = %v, want origin", massData.Center)
	}
}

// =============================================================================
// Polygon Tests
// =============================================================================

func TestNewBox(t *testing.T) {
	box := NewBox(1.0, 0.5)

	if len(box.Vertices) != 4 || len(box.Normals) != 4 {
		t.Fatalf("box has %d vertices and %d normals, want 4", len(box.Vertices), len(box.Normals))
	}
	if box.Radius != 0.01 {
		t.Errorf("Radius = %v, want the polygon skin 0.01", box.Radius)
	}

	assertConvexCCW(t, box)
}

func TestNewOrientedBox(t *testing.T) {
	box := NewOrientedBox(1.0, 0.5, mgl64.Vec2{2, 0}, math.Pi/2)

	if !vecAlmostEqual(box.Centroid, mgl64.Vec2{2, 0}) {
		t.Errorf("Centroid = %v, want {2,0}", box.Centroid)
	}
	// rotated by 90°, the box is 1 wide and 2 high
	aabb := box.ComputeAABB(IdentityTransform())
	r := box.Radius
	if math.Abs(aabb.Max.X()-(2.5+r)) > epsilon || math.Abs(aabb.Max.Y()-(1+r)) > epsilon {
		t.Errorf("ComputeAABB().Max = %v, want {%v %v}", aabb.Max, 2.5+r, 1+r)
	}

	assertConvexCCW(t, box)
}

func TestNewPolygon(t *testing.T) {
	t.Run("hull of unordered points", func(t *testing.T) {
		points := []mgl64.Vec2{{1, 1}, {-1, -1}, {0, 0}, {1, -1}, {-1, 1}}

		polygon, err := NewPolygon(points)
		if err != nil {
			t.Fatalf("NewPolygon() error = %v", err)
		}
		if len(polygon.Vertices) != 4 {
			t.Errorf("hull has %d vertices, want 4 (interior point dropped)", len(polygon.Vertices))
		}
		if !vecAlmostEqual(polygon.Centroid, mgl64.Vec2{0, 0}) {
			t.Errorf("Centroid = %v, want origin", polygon.Centroid)
		}
		assertConvexCCW(t, polygon)
	})

	t.Run("welded duplicates", func(t *testing.T) {
		points := []mgl64.Vec2{{0, 0}, {1, 0}, {1, 0.0001}, {0, 1}}

		polygon, err := NewPolygon(points)
		if err != nil {
			t.Fatalf("NewPolygon() error = %v", err)
		}
		if len(polygon.Vertices) != 3 {
			t.Errorf("hull has %d vertices, want 3", len(polygon.Vertices))
		}
	})

	t.Run("too few vertices", func(t *testing.T) {
		_, err := NewPolygon([]mgl64.Vec2{{0, 0}, {1, 0}})
		if !errors.Is(err, ErrTooFewVertices) {
			t.Errorf("NewPolygon() error = %v, want ErrTooFewVertices", err)
		}
	})

	t.Run("too many vertices", func(t *testing.T) {
		points := make([]mgl64.Vec2, 9)
		for i := range points {
			angle := 2 * math.Pi * float64(i) / 9
			points[i] = mgl64.Vec2{math.Cos(angle), math.Sin(angle)}
		}
		if _, err := NewPolygon(points); err == nil {
			t.Error("NewPolygon() with 9 points should fail")
		}
	})

	t.Run("collinear points", func(t *testing.T) {
		_, err := NewPolygon([]mgl64.Vec2{{0, 0}, {1, 0}, {2, 0}})
		if !errors.Is(err, ErrDegeneratePolygon) {
			t.Errorf("NewPolygon() error = %v, want ErrDegeneratePolygon", err)
		}
	})
}

func TestPolygon_ComputeMass(t *testing.T) {
	tests := []struct {
		name       string
		polygon    *Polygon
		density    float64
		wantMass   float64
		wantCenter mgl64.Vec2
		wantI      float64
	}{
		{
			name:       "centered box",
			polygon:    NewBox(1.0, 0.5),
			density:    2.0,
			wantMass:   4.0,
			wantCenter: mgl64.Vec2{0, 0},
			// m(w²+h²)/12 with w=2, h=1
			wantI: 4.0 * 5.0 / 12.0,
		},
		{
			name:       "offset box",
			polygon:    NewOrientedBox(1.0, 1.0, mgl64.Vec2{3, 0}, 0),
			density:    1.0,
			wantMass:   4.0,
			wantCenter: mgl64.Vec2{3, 0},
			// about the origin: m(w²+h²)/12 + m*d²
			wantI: 4.0*8.0/12.0 + 4.0*9.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			massData := tt.polygon.ComputeMass(tt.density)

			if math.Abs(massData.Mass-tt.wantMass) > epsilon {
				t.Errorf("Mass = %v, want %v", massData.Mass, tt.wantMass)
			}
			if !vecAlmostEqual(massData.Center, tt.wantCenter) {
				t.Errorf("Center = %v, want %v", massData.Center, tt.wantCenter)
			}
			if math.Abs(massData.I-tt.wantI) > 1e-6 {
				t.Errorf("I = %v, want %v", massData.I, tt.wantI)
			}
		})
	}
}

func TestPolygon_Support(t *testing.T) {
	box := NewBox(2.0, 1.0)

	tests := []struct {
		direction mgl64.Vec2
		want      mgl64.Vec2
	}{
		{mgl64.Vec2{1, 1}, mgl64.Vec2{2, 1}},
		{mgl64.Vec2{-1, 1}, mgl64.Vec2{-2, 1}},
		{mgl64.Vec2{-1, -0.1}, mgl64.Vec2{-2, -1}},
		{mgl64.Vec2{0.3, -1}, mgl64.Vec2{2, -1}},
	}

	for _, tt := range tests {
		if got := box.Support(tt.direction); got != tt.want {
			t.Errorf("Support(%v) = %v, want %v", tt.direction, got, tt.want)
		}
	}
}

// assertConvexCCW checks every vertex lies behind every edge normal
func assertConvexCCW(t *testing.T, polygon *Polygon) {
	t.Helper()

	for i, n := range polygon.Normals {
		if math.Abs(n.Len()-1.0) > epsilon {
			t.Errorf("normal %d is not unit: %v", i, n)
		}
		for j, v := range polygon.Vertices {
			if d := n.Dot(v.Sub(polygon.Vertices[i])); d > epsilon {
				t.Errorf("vertex %d is in front of edge %d by %v", j, i, d)
			}
		}
	}
}
