package gjk

import (
	"math"
	"testing"

	"github.com/akmonengine/impulse/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Test helper functions

func boxProxy(position mgl64.Vec2, angle, hx, hy float64) Proxy {
	return Proxy{
		Shape:     actor.NewBox(hx, hy),
		Transform: actor.NewTransform(position, angle),
	}
}

func circleProxy(position mgl64.Vec2, radius float64) Proxy {
	return Proxy{
		Shape:     &actor.Circle{Radius: radius},
		Transform: actor.NewTransform(position, 0),
	}
}

func newSimplex() *Simplex {
	simplex := SimplexPool.Get().(*Simplex)
	simplex.Reset()
	return simplex
}

// MinkowskiSupport tests

func TestMinkowskiSupport(t *testing.T) {
	t.Run("two separated boxes along x-axis", func(t *testing.T) {
		a := boxProxy(mgl64.Vec2{0, 0}, 0, 1, 1)
		b := boxProxy(mgl64.Vec2{3, 0}, 0, 1, 1)

		support := MinkowskiSupport(a, b, mgl64.Vec2{1, 0})

		// max(A.x) - min(B.x) = 1 - 2 = -1
		if support.X() != -1.0 {
			t.Errorf("support.X = %v, want -1", support.X())
		}
	})

	t.Run("circle core is its center", func(t *testing.T) {
		a := circleProxy(mgl64.Vec2{1, 2}, 5)
		b := circleProxy(mgl64.Vec2{0, 0}, 5)

		support := MinkowskiSupport(a, b, mgl64.Vec2{0, 1})
		if support != (mgl64.Vec2{1, 2}) {
			t.Errorf("support = %v, want {1,2}", support)
		}
	})
}

// Overlap tests

func TestOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b Proxy
		want bool
	}{
		{
			name: "overlapping boxes",
			a:    boxProxy(mgl64.Vec2{0, 0}, 0, 1, 1),
			b:    boxProxy(mgl64.Vec2{1.5, 0.5}, 0, 1, 1),
			want: true,
		},
		{
			name: "separated boxes",
			a:    boxProxy(mgl64.Vec2{0, 0}, 0, 1, 1),
			b:    boxProxy(mgl64.Vec2{3, 0}, 0, 1, 1),
			want: false,
		},
		{
			name: "rotated box reaching over the gap",
			a:    boxProxy(mgl64.Vec2{0, 0}, 0, 1, 1),
			b:    boxProxy(mgl64.Vec2{2.3, 0}, math.Pi/4, 1, 1),
			want: true,
		},
		{
			name: "boxes within the skin radius",
			a:    boxProxy(mgl64.Vec2{0, 0}, 0, 1, 1),
			b:    boxProxy(mgl64.Vec2{2.015, 0}, 0, 1, 1),
			want: true,
		},
		{
			name: "overlapping circles",
			a:    circleProxy(mgl64.Vec2{0, 0}, 1),
			b:    circleProxy(mgl64.Vec2{1.9, 0}, 1),
			want: true,
		},
		{
			name: "separated circles",
			a:    circleProxy(mgl64.Vec2{0, 0}, 1),
			b:    circleProxy(mgl64.Vec2{2.1, 0}, 1),
			want: false,
		},
		{
			name: "circle near a box corner",
			a:    boxProxy(mgl64.Vec2{0, 0}, 0, 1, 1),
			b:    circleProxy(mgl64.Vec2{1.6, 1.6}, 0.5),
			want: false,
		},
		{
			name: "circle on a box face",
			a:    boxProxy(mgl64.Vec2{0, 0}, 0, 1, 1),
			b:    circleProxy(mgl64.Vec2{0, 1.4}, 0.5),
			want: true,
		},
		{
			name: "concentric shapes",
			a:    boxProxy(mgl64.Vec2{1, 1}, 0, 1, 1),
			b:    circleProxy(mgl64.Vec2{1, 1}, 0.1),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			simplex := newSimplex()
			defer SimplexPool.Put(simplex)

			if got := Overlap(tt.a, tt.b, simplex); got != tt.want {
				t.Errorf("Overlap() = %v, want %v", got, tt.want)
			}

			simplex.Reset()
			if got := Overlap(tt.b, tt.a, simplex); got != tt.want {
				t.Errorf("Overlap() is not symmetric: got %v, want %v", got, tt.want)
			}
		})
	}
}

// Distance tests

func TestDistance(t *testing.T) {
	tests := []struct {
		name          string
		a, b          Proxy
		wantDistance  float64
		wantIntersect bool
	}{
		{
			name:         "boxes face to face",
			a:            boxProxy(mgl64.Vec2{0, 0}, 0, 1, 1),
			b:            boxProxy(mgl64.Vec2{5, 0.3}, 0, 1, 1),
			wantDistance: 3.0,
		},
		{
			name:         "box corner to corner",
			a:            boxProxy(mgl64.Vec2{0, 0}, 0, 1, 1),
			b:            boxProxy(mgl64.Vec2{5, 6}, 0, 1, 1),
			wantDistance: 5.0, // (3, 4)
		},
		{
			name:         "circle centers",
			a:            circleProxy(mgl64.Vec2{0, 0}, 1),
			b:            circleProxy(mgl64.Vec2{3, 4}, 1),
			wantDistance: 5.0,
		},
		{
			name:          "overlapping cores",
			a:             boxProxy(mgl64.Vec2{0, 0}, 0, 1, 1),
			b:             boxProxy(mgl64.Vec2{0.5, -0.5}, 0.3, 1, 1),
			wantIntersect: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			simplex := newSimplex()
			defer SimplexPool.Put(simplex)

			distance, intersect := Distance(tt.a, tt.b, simplex)
			if intersect != tt.wantIntersect {
				t.Fatalf("intersect = %v, want %v", intersect, tt.wantIntersect)
			}
			if math.Abs(distance-tt.wantDistance) > 1e-6 {
				t.Errorf("distance = %v, want %v", distance, tt.wantDistance)
			}
		})
	}
}

// Simplex reduction tests

func TestTriangle_ContainsOrigin(t *testing.T) {
	simplex := &Simplex{
		Points: [3]mgl64.Vec2{{-1, -1}, {1, -1}, {0, 1}},
		Count:  3,
	}

	_, contains := triangle(simplex)
	if !contains {
		t.Error("triangle around the origin should contain it")
	}
}

func TestTriangle_ReducesToEdge(t *testing.T) {
	// origin is below the edge AB, A being the newest point
	simplex := &Simplex{
		Points: [3]mgl64.Vec2{{1, 3}, {1, 1}, {-1, 1}},
		Count:  3,
	}

	closest, contains := triangle(simplex)
	if contains {
		t.Fatal("origin is outside the triangle")
	}
	if math.Abs(closest.X()) > 1e-9 || math.Abs(closest.Y()-1.0) > 1e-9 {
		t.Errorf("closest = %v, want {0,1}", closest)
	}
	if simplex.Count != 2 {
		t.Errorf("simplex.Count = %d, want 2", simplex.Count)
	}
}

func TestSegment(t *testing.T) {
	tests := []struct {
		name      string
		a, b      mgl64.Vec2 // b oldest, a newest
		want      mgl64.Vec2
		wantCount int
	}{
		{"origin projects inside", mgl64.Vec2{-1, 1}, mgl64.Vec2{1, 1}, mgl64.Vec2{0, 1}, 2},
		{"origin past the newest point", mgl64.Vec2{1, 1}, mgl64.Vec2{3, 1}, mgl64.Vec2{1, 1}, 1},
		{"identical points", mgl64.Vec2{2, 2}, mgl64.Vec2{2, 2}, mgl64.Vec2{2, 2}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			simplex := &Simplex{Points: [3]mgl64.Vec2{tt.b, tt.a}, Count: 2}

			got := segment(simplex)
			if math.Abs(got.X()-tt.want.X()) > 1e-9 || math.Abs(got.Y()-tt.want.Y()) > 1e-9 {
				t.Errorf("segment() = %v, want %v", got, tt.want)
			}
			if simplex.Count != tt.wantCount {
				t.Errorf("simplex.Count = %d, want %d", simplex.Count, tt.wantCount)
			}
		})
	}
}
