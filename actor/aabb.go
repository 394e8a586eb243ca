package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec2
	Max mgl64.Vec2
}

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl64.Vec2) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y()
}

// Overlaps checks if two AABBs overlap
func (a AABB) Overlaps(other AABB) bool {
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y()
}

// Combine returns the smallest AABB containing a and other
func (a AABB) Combine(other AABB) AABB {
	return AABB{
		Min: mgl64.Vec2{math.Min(a.Min.X(), other.Min.X()), math.Min(a.Min.Y(), other.Min.Y())},
		Max: mgl64.Vec2{math.Max(a.Max.X(), other.Max.X()), math.Max(a.Max.Y(), other.Max.Y())},
	}
}
