package actor

import (
	"errors"
	"fmt"
	"math"

	"github.com/akmonengine/impulse/settings"
	"github.com/go-gl/mathgl/mgl64"
)

// ShapeType represents the type of collision shape
type ShapeType int

const (
	ShapeTypeCircle ShapeType = iota
	ShapeTypePolygon

	// ShapeTypeCount is the number of shape types, used to size dispatch tables
	ShapeTypeCount
)

var (
	ErrTooFewVertices    = errors.New("polygon needs at least 3 vertices")
	ErrDegeneratePolygon = errors.New("polygon is degenerate")
)

// MassData holds the mass properties computed from a shape and a density
type MassData struct {
	Mass   float64
	Center mgl64.Vec2 // center of mass relative to the shape origin
	I      float64    // rotational inertia about the shape origin
}

// ShapeInterface is the interface that all collision shapes must implement
type ShapeInterface interface {
	Type() ShapeType
	// GetRadius returns the rounding radius: the circle radius, or the polygon skin
	GetRadius() float64
	// ChildCount is the number of convex children, always 1 for circles and polygons
	ChildCount() int
	// ComputeAABB calculates the axis-aligned bounding box at the given transform
	ComputeAABB(transform Transform) AABB
	ComputeMass(density float64) MassData
	// Support returns the furthest local point along direction, radius excluded
	Support(direction mgl64.Vec2) mgl64.Vec2
}

// Circle represents a circular collision shape
type Circle struct {
	Position mgl64.Vec2 // local center
	Radius   float64
}

func (c *Circle) Type() ShapeType {
	return ShapeTypeCircle
}

func (c *Circle) GetRadius() float64 {
	return c.Radius
}

func (c *Circle) ChildCount() int {
	return 1
}

// ComputeAABB calculates the axis-aligned bounding box for the circle
func (c *Circle) ComputeAABB(transform Transform) AABB {
	p := transform.Apply(c.Position)
	r := mgl64.Vec2{c.Radius, c.Radius}

	return AABB{Min: p.Sub(r), Max: p.Add(r)}
}

// ComputeMass calculates mass data for the circle
func (c *Circle) ComputeMass(density float64) MassData {
	mass := density * math.Pi * c.Radius * c.Radius

	return MassData{
		Mass:   mass,
		Center: c.Position,
		// inertia about the local origin
		I: mass * (0.5*c.Radius*c.Radius + c.Position.Dot(c.Position)),
	}
}

func (c *Circle) Support(direction mgl64.Vec2) mgl64.Vec2 {
	return c.Position
}

// Polygon represents a convex polygon collision shape.
// Vertices are stored in counter-clockwise order.
type Polygon struct {
	Vertices []mgl64.Vec2
	Normals  []mgl64.Vec2
	Centroid mgl64.Vec2
	Radius   float64
}

// NewBox creates an axis aligned box centered on the body origin
func NewBox(hx, hy float64) *Polygon {
	return &Polygon{
		Vertices: []mgl64.Vec2{{-hx, -hy}, {hx, -hy}, {hx, hy}, {-hx, hy}},
		Normals:  []mgl64.Vec2{{0, -1}, {1, 0}, {0, 1}, {-1, 0}},
		Centroid: mgl64.Vec2{0, 0},
		Radius:   settings.PolygonRadius,
	}
}

// NewOrientedBox creates a box centered on center and rotated by angle, in body space
func NewOrientedBox(hx, hy float64, center mgl64.Vec2, angle float64) *Polygon {
	box := NewBox(hx, hy)
	xf := NewTransform(center, angle)

	for i := range box.Vertices {
		box.Vertices[i] = xf.Apply(box.Vertices[i])
		box.Normals[i] = xf.Rotate(box.Normals[i])
	}
	box.Centroid = center

	return box
}

// NewPolygon computes the convex hull of points and builds a polygon from it.
// Points closer than half the linear slop are welded together.
func NewPolygon(points []mgl64.Vec2) (*Polygon, error) {
	if len(points) < 3 {
		return nil, ErrTooFewVertices
	}
	if len(points) > settings.MaxPolygonVertices {
		return nil, fmt.Errorf("polygon has %d vertices, max is %d", len(points), settings.MaxPolygonVertices)
	}

	hull := convexHull(points)
	if len(hull) < 3 {
		return nil, ErrDegeneratePolygon
	}

	p := &Polygon{
		Vertices: hull,
		Normals:  make([]mgl64.Vec2, len(hull)),
		Radius:   settings.PolygonRadius,
	}

	for i := range hull {
		next := hull[(i+1)%len(hull)]
		edge := next.Sub(hull[i])
		if edge.LenSqr() <= settings.Epsilon*settings.Epsilon {
			return nil, ErrDegeneratePolygon
		}
		p.Normals[i] = CrossVS(edge, 1.0).Normalize()
	}

	p.Centroid = polygonCentroid(hull)

	return p, nil
}

// convexHull welds near duplicates then gift-wraps the remaining points
func convexHull(points []mgl64.Vec2) []mgl64.Vec2 {
	welded := make([]mgl64.Vec2, 0, len(points))
	tolSqr := 0.5 * settings.LinearSlop * 0.5 * settings.LinearSlop
	for _, v := range points {
		unique := true
		for _, w := range welded {
			if DistanceSquared(v, w) < tolSqr {
				unique = false
				break
			}
		}
		if unique {
			welded = append(welded, v)
		}
	}

	if len(welded) < 3 {
		return nil
	}

	// rightmost point, lowest y on ties, is on the hull
	i0 := 0
	x0 := welded[0].X()
	for i := 1; i < len(welded); i++ {
		x := welded[i].X()
		if x > x0 || (x == x0 && welded[i].Y() < welded[i0].Y()) {
			i0 = i
			x0 = x
		}
	}

	hull := make([]int, 0, len(welded))
	ih := i0

	for {
		hull = append(hull, ih)

		ie := 0
		for j := 1; j < len(welded); j++ {
			if ie == ih {
				ie = j
				continue
			}

			r := welded[ie].Sub(welded[hull[len(hull)-1]])
			v := welded[j].Sub(welded[hull[len(hull)-1]])
			c := Cross(r, v)
			if c < 0.0 {
				ie = j
			}

			// collinear, keep the farthest point
			if c == 0.0 && v.LenSqr() > r.LenSqr() {
				ie = j
			}
		}

		ih = ie
		if ie == i0 || len(hull) == len(welded) {
			break
		}
	}

	result := make([]mgl64.Vec2, len(hull))
	for i, idx := range hull {
		result[i] = welded[idx]
	}

	return result
}

func polygonCentroid(vertices []mgl64.Vec2) mgl64.Vec2 {
	var c mgl64.Vec2
	area := 0.0

	// reference point inside the polygon, keeps the triangles well formed
	s := vertices[0]
	const inv3 = 1.0 / 3.0

	for i := range vertices {
		e1 := vertices[i].Sub(s)
		e2 := vertices[(i+1)%len(vertices)].Sub(s)
		triangleArea := 0.5 * Cross(e1, e2)
		area += triangleArea

		c = c.Add(e1.Add(e2).Mul(triangleArea * inv3))
	}

	return c.Mul(1.0 / area).Add(s)
}

func (p *Polygon) Type() ShapeType {
	return ShapeTypePolygon
}

func (p *Polygon) GetRadius() float64 {
	return p.Radius
}

func (p *Polygon) ChildCount() int {
	return 1
}

// ComputeAABB calculates the axis-aligned bounding box for the polygon, skin included
func (p *Polygon) ComputeAABB(transform Transform) AABB {
	lower := transform.Apply(p.Vertices[0])
	upper := lower

	for i := 1; i < len(p.Vertices); i++ {
		v := transform.Apply(p.Vertices[i])
		lower = mgl64.Vec2{math.Min(lower.X(), v.X()), math.Min(lower.Y(), v.Y())}
		upper = mgl64.Vec2{math.Max(upper.X(), v.X()), math.Max(upper.Y(), v.Y())}
	}

	r := mgl64.Vec2{p.Radius, p.Radius}
	return AABB{Min: lower.Sub(r), Max: upper.Add(r)}
}

// ComputeMass calculates mass data for the polygon.
//
// The polygon is split in triangles fanning out of the first vertex; each
// triangle contributes its area, its centroid and its second moment of area.
// The skin radius is ignored.
func (p *Polygon) ComputeMass(density float64) MassData {
	var center mgl64.Vec2
	area := 0.0
	I := 0.0

	s := p.Vertices[0]
	const inv3 = 1.0 / 3.0

	for i := range p.Vertices {
		e1 := p.Vertices[i].Sub(s)
		e2 := p.Vertices[(i+1)%len(p.Vertices)].Sub(s)

		D := Cross(e1, e2)
		triangleArea := 0.5 * D
		area += triangleArea

		center = center.Add(e1.Add(e2).Mul(triangleArea * inv3))

		ex1, ey1 := e1.X(), e1.Y()
		ex2, ey2 := e2.X(), e2.Y()

		intx2 := ex1*ex1 + ex2*ex1 + ex2*ex2
		inty2 := ey1*ey1 + ey2*ey1 + ey2*ey2

		I += (0.25 * inv3 * D) * (intx2 + inty2)
	}

	mass := density * area
	center = center.Mul(1.0 / area)
	massCenter := center.Add(s)

	// shift the inertia from the reference point to the shape origin
	inertia := density*I + mass*(massCenter.Dot(massCenter)-center.Dot(center))

	return MassData{
		Mass:   mass,
		Center: massCenter,
		I:      inertia,
	}
}

func (p *Polygon) Support(direction mgl64.Vec2) mgl64.Vec2 {
	best := 0
	bestDot := p.Vertices[0].Dot(direction)

	for i := 1; i < len(p.Vertices); i++ {
		dot := p.Vertices[i].Dot(direction)
		if dot > bestDot {
			bestDot = dot
			best = i
		}
	}

	return p.Vertices[best]
}
