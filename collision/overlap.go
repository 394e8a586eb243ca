package collision

import (
	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/gjk"
)

// TestOverlap reports whether two shapes overlap, rounding radii included.
// The child indices address a convex child of the shapes; circles and polygons
// only have child 0.
func TestOverlap(shapeA actor.ShapeInterface, indexA int, shapeB actor.ShapeInterface, indexB int, xfA, xfB actor.Transform) bool {
	simplex := gjk.SimplexPool.Get().(*gjk.Simplex)
	defer gjk.SimplexPool.Put(simplex)
	simplex.Reset()

	return gjk.Overlap(
		gjk.Proxy{Shape: shapeA, Transform: xfA},
		gjk.Proxy{Shape: shapeB, Transform: xfB},
		simplex,
	)
}
