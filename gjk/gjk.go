// Package gjk implements the Gilbert-Johnson-Keerthi (GJK) algorithm for 2D overlap tests.
//
// GJK detects whether two convex shapes overlap by testing if their Minkowski difference
// contains the origin. The algorithm builds a simplex incrementally, converging toward
// the origin in typically 2-5 iterations in the plane.
//
// Shapes are handled through their support function, so any actor.ShapeInterface works.
// Rounded shapes (circles, polygon skins) are tested on their core and the rounding radii
// are compared against the core distance, which keeps the simplex small and exact.
//
// References:
//   - Gilbert, Johnson, Keerthi: "A Fast Procedure for Computing the Distance Between
//     Complex Objects in Three-Dimensional Space" (1988)
//   - Van den Bergen: "Collision Detection in Interactive 3D Environments" (2003)
package gjk

import (
	"math"
	"sync"

	"github.com/akmonengine/impulse/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// touchTolerance is the core distance under which two shapes are considered touching
const touchTolerance = 1e-9

// Simplex represents a set of 1-3 points in the Minkowski difference space.
// Size progression: 1 point → 2 points (segment) → 3 points (triangle)
type Simplex struct {
	Points [3]mgl64.Vec2
	Count  int
}

func (s *Simplex) Reset() {
	s.Count = 0
}

var SimplexPool = sync.Pool{
	New: func() interface{} {
		return &Simplex{}
	},
}

// Proxy is a convex shape placed in the world
type Proxy struct {
	Shape     actor.ShapeInterface
	Transform actor.Transform
}

// SupportWorld returns the furthest core point of the proxy along a world direction
func (p Proxy) SupportWorld(direction mgl64.Vec2) mgl64.Vec2 {
	localDirection := p.Transform.InverseRotate(direction)
	return p.Transform.Apply(p.Shape.Support(localDirection))
}

// MinkowskiSupport computes a support point in the Minkowski difference (A - B).
//
// Returns:
//
//	Support point: furthestPoint(A, direction) - furthestPoint(B, -direction)
func MinkowskiSupport(a, b Proxy, direction mgl64.Vec2) mgl64.Vec2 {
	supportA := a.SupportWorld(direction)
	supportB := b.SupportWorld(direction.Mul(-1))
	return supportA.Sub(supportB)
}

// Overlap reports whether the two rounded shapes overlap.
//
// The core shapes are tested first. When they are disjoint, the closest feature of the
// final simplex gives the core distance, compared against the sum of the radii.
func Overlap(a, b Proxy, simplex *Simplex) bool {
	distance, intersect := Distance(a, b, simplex)
	if intersect {
		return true
	}

	radius := a.Shape.GetRadius() + b.Shape.GetRadius()
	return distance < radius+touchTolerance
}

// Distance computes the distance between the cores of the two proxies.
// It returns intersect=true and a zero distance when the cores overlap.
func Distance(a, b Proxy, simplex *Simplex) (float64, bool) {
	// Start with the direction between the centers (cheaper than a random one)
	direction := a.Transform.Position.Sub(b.Transform.Position)
	if direction.LenSqr() < 1e-16 {
		direction = mgl64.Vec2{1, 0}
	}

	simplex.Points[0] = MinkowskiSupport(a, b, direction.Mul(-1))
	simplex.Count = 1

	closest := simplex.Points[0]

	const maxIterations = 32 // Safety limit to prevent infinite loops
	for i := 0; i < maxIterations; i++ {
		if closest.LenSqr() < touchTolerance*touchTolerance {
			return 0.0, true
		}

		// Search toward the origin from the closest feature
		direction = closest.Mul(-1)
		newPoint := MinkowskiSupport(a, b, direction)

		// No progress toward the origin: closest is the answer
		progress := newPoint.Dot(direction) - closest.Dot(direction)
		if progress <= 1e-10*math.Max(1.0, closest.LenSqr()) {
			return closest.Len(), false
		}

		simplex.Points[simplex.Count] = newPoint
		simplex.Count++

		var contains bool
		closest, contains = reduce(simplex)
		if contains {
			return 0.0, true
		}
	}

	return closest.Len(), false
}

// reduce keeps the smallest sub-simplex whose hull holds the point closest to the
// origin, and returns that point.
//
// Behavior by simplex dimension:
//   - 2 points (segment): Voronoi regions of the endpoints and the segment
//   - 3 points (triangle): origin inside → contained, else reduce to an edge or a vertex
func reduce(simplex *Simplex) (mgl64.Vec2, bool) {
	switch simplex.Count {
	case 2:
		return segment(simplex), false
	case 3:
		return triangle(simplex)
	}

	return simplex.Points[0], false
}

// segment handles the 2 point case, A being the most recent point
func segment(simplex *Simplex) mgl64.Vec2 {
	a := simplex.Points[1]
	b := simplex.Points[0]
	ab := b.Sub(a)
	ao := a.Mul(-1)

	// Handle degenerate case: identical points
	lenSqr := ab.LenSqr()
	if lenSqr < 1e-18 {
		simplex.Points[0] = a
		simplex.Count = 1
		return a
	}

	t := ab.Dot(ao) / lenSqr
	if t <= 0 {
		// Region A
		simplex.Points[0] = a
		simplex.Count = 1
		return a
	}
	if t >= 1 {
		// Region B
		simplex.Points[0] = b
		simplex.Count = 1
		return b
	}

	return a.Add(ab.Mul(t))
}

// triangle handles the 3 point case, A being the most recent point
func triangle(simplex *Simplex) (mgl64.Vec2, bool) {
	a := simplex.Points[2]
	b := simplex.Points[1]
	c := simplex.Points[0]

	ab := b.Sub(a)
	ac := c.Sub(a)
	ao := a.Mul(-1)

	area := actor.Cross(ab, ac)

	// Check for degenerate triangle (colinear points)
	if math.Abs(area) < 1e-18 {
		simplex.Points[0] = b
		simplex.Points[1] = a
		simplex.Count = 2
		return segment(simplex), false
	}

	// Outward normals of the two edges touching A
	abPerp := actor.CrossVS(ab, math.Copysign(1.0, area))
	acPerp := actor.CrossVS(ac, -math.Copysign(1.0, area))

	// Region AB (edge)
	if abPerp.Dot(ao) > 0 {
		simplex.Points[0] = b
		simplex.Points[1] = a
		simplex.Count = 2
		return segment(simplex), false
	}

	// Region AC (edge)
	if acPerp.Dot(ao) > 0 {
		simplex.Points[0] = c
		simplex.Points[1] = a
		simplex.Count = 2
		return segment(simplex), false
	}

	// The origin is inside the triangle
	return mgl64.Vec2{}, true
}
