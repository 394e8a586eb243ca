// Package constraint implements the contact constraint solver.
//
// A Contact pairs two fixtures whose bounding boxes overlap and keeps their manifold
// alive across steps. Each step the island solver hands the touching contacts of an
// island to a ContactSolver, which runs a sequential impulse solve on velocities
// followed by a separate position correction pass. The impulses found are stored back
// in the manifolds and seed the next step (warm starting).
package constraint

import (
	"math"
)

// MixFriction combines the friction of two fixtures with the geometric mean,
// so that a zero friction surface slides on anything.
func MixFriction(friction1, friction2 float64) float64 {
	return math.Sqrt(friction1 * friction2)
}

// MixRestitution combines the restitution of two fixtures: if one bounces, it bounces.
func MixRestitution(restitution1, restitution2 float64) float64 {
	return math.Max(restitution1, restitution2)
}
