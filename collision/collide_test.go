package collision

import (
	"math"
	"testing"

	"github.com/akmonengine/impulse/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Test helper functions

func at(x, y, angle float64) actor.Transform {
	return actor.NewTransform(mgl64.Vec2{x, y}, angle)
}

// =============================================================================
// Circles Tests
// =============================================================================

func TestCollideCircles(t *testing.T) {
	tests := []struct {
		name      string
		circleA   actor.Circle
		xfA       actor.Transform
		circleB   actor.Circle
		xfB       actor.Transform
		wantCount int
	}{
		{"overlapping", actor.Circle{Radius: 1}, at(0, 0, 0), actor.Circle{Radius: 1}, at(1.5, 0, 0), 1},
		{"touching", actor.Circle{Radius: 1}, at(0, 0, 0), actor.Circle{Radius: 1}, at(2, 0, 0), 1},
		{"separated", actor.Circle{Radius: 1}, at(0, 0, 0), actor.Circle{Radius: 1}, at(2.01, 0, 0), 0},
		{"offset centers", actor.Circle{Position: mgl64.Vec2{1, 0}, Radius: 0.5}, at(0, 0, 0), actor.Circle{Radius: 0.5}, at(0, 1.8, -math.Pi/2), 0},
		{"offset centers overlapping", actor.Circle{Position: mgl64.Vec2{1, 0}, Radius: 0.5}, at(0, 0, 0), actor.Circle{Position: mgl64.Vec2{1, 0}, Radius: 0.5}, at(1, 0.9, -math.Pi/2), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Manifold
			CollideCircles(&m, &tt.circleA, tt.xfA, &tt.circleB, tt.xfB)

			if m.PointCount != tt.wantCount {
				t.Fatalf("PointCount = %d, want %d", m.PointCount, tt.wantCount)
			}
			if m.PointCount == 0 {
				return
			}
			if m.Type != ManifoldCircles {
				t.Errorf("Type = %v, want circles", m.Type)
			}
			if m.LocalPoint != tt.circleA.Position || m.Points[0].LocalPoint != tt.circleB.Position {
				t.Error("manifold points should be the local circle centers")
			}
			if m.Points[0].ID != (ContactID{}) {
				t.Errorf("ID = %+v, want zero", m.Points[0].ID)
			}
		})
	}
}

// =============================================================================
// Polygon and Circle Tests
// =============================================================================

func TestCollidePolygonAndCircle(t *testing.T) {
	box := actor.NewBox(1, 1)
	circle := &actor.Circle{Radius: 0.5}

	tests := []struct {
		name           string
		center         mgl64.Vec2
		wantCount      int
		wantNormal     mgl64.Vec2
		wantLocalPoint mgl64.Vec2
	}{
		{"center inside", mgl64.Vec2{0, 0.5}, 1, mgl64.Vec2{0, 1}, mgl64.Vec2{0, 1}},
		{"face region", mgl64.Vec2{0.3, 1.4}, 1, mgl64.Vec2{0, 1}, mgl64.Vec2{0, 1}},
		{"vertex region", mgl64.Vec2{1.3, 1.3}, 1, mgl64.Vec2{math.Sqrt2 / 2, math.Sqrt2 / 2}, mgl64.Vec2{1, 1}},
		{"vertex region separated", mgl64.Vec2{1.4, 1.4}, 0, mgl64.Vec2{}, mgl64.Vec2{}},
		{"face region separated", mgl64.Vec2{0, 1.6}, 0, mgl64.Vec2{}, mgl64.Vec2{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Manifold
			CollidePolygonAndCircle(&m, box, at(0, 0, 0), circle, at(tt.center.X(), tt.center.Y(), 0))

			if m.PointCount != tt.wantCount {
				t.Fatalf("PointCount = %d, want %d", m.PointCount, tt.wantCount)
			}
			if m.PointCount == 0 {
				return
			}
			if m.Type != ManifoldFaceA {
				t.Errorf("Type = %v, want faceA", m.Type)
			}
			if !vecAlmostEqual(m.LocalNormal, tt.wantNormal, epsilon) {
				t.Errorf("LocalNormal = %v, want %v", m.LocalNormal, tt.wantNormal)
			}
			if !vecAlmostEqual(m.LocalPoint, tt.wantLocalPoint, epsilon) {
				t.Errorf("LocalPoint = %v, want %v", m.LocalPoint, tt.wantLocalPoint)
			}
		})
	}
}

func TestCollidePolygonAndCircle_RotatedPolygon(t *testing.T) {
	box := actor.NewBox(1, 1)
	circle := &actor.Circle{Radius: 0.5}

	// the box top face points toward -x after a quarter turn to the left
	var m Manifold
	CollidePolygonAndCircle(&m, box, at(0, 0, math.Pi/2), circle, at(-1.4, 0, 0))

	if m.PointCount != 1 {
		t.Fatalf("PointCount = %d, want 1", m.PointCount)
	}

	var wm WorldManifold
	wm.Initialize(&m, at(0, 0, math.Pi/2), box.Radius, at(-1.4, 0, 0), circle.Radius)
	if !vecAlmostEqual(wm.Normal, mgl64.Vec2{-1, 0}, 1e-9) {
		t.Errorf("Normal = %v, want {-1,0}", wm.Normal)
	}
	if !almostEqual(wm.Separations[0], -0.11, 1e-9) {
		t.Errorf("Separation = %v, want -0.11", wm.Separations[0])
	}
}

// =============================================================================
// Polygons Tests
// =============================================================================

func TestCollidePolygons_BoxOnGround(t *testing.T) {
	ground := actor.NewBox(5, 0.5)
	box := actor.NewBox(0.5, 0.5)

	var m Manifold
	CollidePolygons(&m, ground, at(0, 0, 0), box, at(0, 0.99, 0))

	if m.PointCount != 2 {
		t.Fatalf("PointCount = %d, want 2", m.PointCount)
	}
	if m.Type != ManifoldFaceA {
		t.Errorf("Type = %v, want faceA", m.Type)
	}
	if !vecAlmostEqual(m.LocalNormal, mgl64.Vec2{0, 1}, epsilon) {
		t.Errorf("LocalNormal = %v, want {0,1}", m.LocalNormal)
	}

	wantIDs := [2]ContactID{
		{IndexA: 2, IndexB: 0, TypeA: FeatureFace, TypeB: FeatureVertex},
		{IndexA: 2, IndexB: 1, TypeA: FeatureFace, TypeB: FeatureVertex},
	}
	for i, want := range wantIDs {
		if m.Points[i].ID != want {
			t.Errorf("Points[%d].ID = %+v, want %+v", i, m.Points[i].ID, want)
		}
	}

	var wm WorldManifold
	wm.Initialize(&m, at(0, 0, 0), ground.Radius, at(0, 0.99, 0), box.Radius)
	for i := 0; i < m.PointCount; i++ {
		if !almostEqual(wm.Separations[i], -0.03, 1e-9) {
			t.Errorf("Separations[%d] = %v, want -0.03", i, wm.Separations[i])
		}
	}
}

func TestCollidePolygons_StableIDs(t *testing.T) {
	ground := actor.NewBox(5, 0.5)
	box := actor.NewBox(0.5, 0.5)

	var before Manifold
	CollidePolygons(&before, ground, at(0, 0, 0), box, at(0, 0.99, 0))

	moves := []actor.Transform{
		at(0.01, 0.985, 0),
		at(-0.2, 0.995, 0.001),
		at(1.5, 0.99, -0.001),
	}

	for _, xf := range moves {
		var after Manifold
		CollidePolygons(&after, ground, at(0, 0, 0), box, xf)

		if after.PointCount != before.PointCount {
			t.Fatalf("PointCount = %d after a small move, want %d", after.PointCount, before.PointCount)
		}

		_, states := GetPointStates(&before, &after)
		for i := 0; i < after.PointCount; i++ {
			if states[i] != PointStatePersist {
				t.Errorf("point %d did not persist after moving to %v", i, xf.Position)
			}
		}
	}
}

func TestCollidePolygons_SwappedOrder(t *testing.T) {
	ground := actor.NewBox(5, 0.5)
	box := actor.NewBox(0.5, 0.5)

	var m Manifold
	CollidePolygons(&m, box, at(0, 0.99, 0), ground, at(0, 0, 0))

	if m.PointCount != 2 {
		t.Fatalf("PointCount = %d, want 2", m.PointCount)
	}

	var wm WorldManifold
	wm.Initialize(&m, at(0, 0.99, 0), box.Radius, at(0, 0, 0), ground.Radius)
	if !vecAlmostEqual(wm.Normal, mgl64.Vec2{0, -1}, epsilon) {
		t.Errorf("Normal = %v, want {0,-1} from the box to the ground", wm.Normal)
	}
	// the ground edge is clipped by the box side planes
	if !almostEqual(math.Abs(wm.Points[0].X()), 0.52, 1e-9) || !almostEqual(math.Abs(wm.Points[1].X()), 0.52, 1e-9) {
		t.Errorf("Points = %v, want the clipped ends at ±0.52", wm.Points)
	}
	if m.Points[0].ID.TypeA != FeatureVertex || m.Points[0].ID.TypeB != FeatureFace {
		t.Errorf("ID = %+v, want a clip point (vertex of A, face of B)", m.Points[0].ID)
	}
}

func TestCollidePolygons_ReferenceFaceOnB(t *testing.T) {
	ground := actor.NewBox(5, 0.5)
	box := actor.NewBox(0.5, 0.5)

	// a tilted box standing on its lowest corner, 0.01 deep in the ground
	angle := 0.3
	height := 0.5 + 0.5*math.Cos(angle) + 0.5*math.Sin(angle) - 0.01
	xfBox := at(0, height, angle)

	var m Manifold
	CollidePolygons(&m, box, xfBox, ground, at(0, 0, 0))

	if m.PointCount != 1 {
		t.Fatalf("PointCount = %d, want 1", m.PointCount)
	}
	if m.Type != ManifoldFaceB {
		t.Errorf("Type = %v, want faceB", m.Type)
	}

	want := ContactID{IndexA: 0, IndexB: 2, TypeA: FeatureVertex, TypeB: FeatureFace}
	if m.Points[0].ID != want {
		t.Errorf("ID = %+v, want %+v", m.Points[0].ID, want)
	}

	var wm WorldManifold
	wm.Initialize(&m, xfBox, box.Radius, at(0, 0, 0), ground.Radius)
	if !vecAlmostEqual(wm.Normal, mgl64.Vec2{0, -1}, epsilon) {
		t.Errorf("Normal = %v, want {0,-1}", wm.Normal)
	}
	if !almostEqual(wm.Separations[0], -0.03, 1e-9) {
		t.Errorf("Separation = %v, want -0.03", wm.Separations[0])
	}
}

func TestCollidePolygons_Separated(t *testing.T) {
	tests := []struct {
		name string
		xfB  actor.Transform
	}{
		{"above", at(0, 1.6, 0)},
		{"beside", at(6.6, 0, 0)},
		{"rotated corner", at(0, 1.3, math.Pi/4)},
	}

	ground := actor.NewBox(5, 0.5)
	box := actor.NewBox(0.5, 0.5)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Manifold{PointCount: 2}
			CollidePolygons(&m, ground, at(0, 0, 0), box, tt.xfB)

			if m.PointCount != 0 {
				t.Errorf("PointCount = %d, want 0", m.PointCount)
			}
		})
	}
}

// =============================================================================
// Overlap Tests
// =============================================================================

func TestTestOverlap(t *testing.T) {
	box := actor.NewBox(1, 1)
	circle := &actor.Circle{Radius: 0.5}

	tests := []struct {
		name   string
		shapeA actor.ShapeInterface
		xfA    actor.Transform
		shapeB actor.ShapeInterface
		xfB    actor.Transform
		want   bool
	}{
		{"box and circle overlapping", box, at(0, 0, 0), circle, at(1.3, 0, 0), true},
		{"box and circle apart", box, at(0, 0, 0), circle, at(1.6, 0, 0), false},
		{"boxes overlapping", box, at(0, 0, 0), box, at(1.9, 1.9, 0), true},
		{"boxes apart", box, at(0, 0, 0), box, at(2.1, 2.1, 0), false},
		{"circles overlapping", circle, at(0, 0, 0), circle, at(0, 0.9, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TestOverlap(tt.shapeA, 0, tt.shapeB, 0, tt.xfA, tt.xfB); got != tt.want {
				t.Errorf("TestOverlap() = %v, want %v", got, tt.want)
			}
		})
	}
}
