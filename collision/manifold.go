// Package collision holds the contact manifold model and the narrow phase routines that
// fill it.
//
// A manifold describes the overlap of two convex shapes in the local frames of their
// bodies, so that the solver can recompute world geometry from any later body position.
// Every manifold point carries a ContactID naming the pair of features (vertex or face
// indices) that produced it. Those IDs stay stable while the same features keep touching,
// which is what lets the contact solver carry impulses from one step to the next.
package collision

import (
	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/settings"
	"github.com/go-gl/mathgl/mgl64"
)

// FeatureType tells whether a contact feature is a vertex or a face
type FeatureType uint8

const (
	FeatureVertex FeatureType = iota
	FeatureFace
)

// ContactID identifies the features that intersect to form a contact point.
// It is a comparable value: two IDs are the same point across steps iff they are equal.
type ContactID struct {
	IndexA uint8 // Feature index on shapeA
	IndexB uint8 // Feature index on shapeB
	TypeA  FeatureType
	TypeB  FeatureType
}

// Key packs the ID in 32 bits
func (id ContactID) Key() uint32 {
	return uint32(id.IndexA) | uint32(id.IndexB)<<8 | uint32(id.TypeA)<<16 | uint32(id.TypeB)<<24
}

// ContactIDFromKey unpacks an ID built by Key
func ContactIDFromKey(key uint32) ContactID {
	return ContactID{
		IndexA: uint8(key),
		IndexB: uint8(key >> 8),
		TypeA:  FeatureType(key >> 16),
		TypeB:  FeatureType(key >> 24),
	}
}

// Swap exchanges the A and B features, used when the reference shape is B
func (id ContactID) Swap() ContactID {
	return ContactID{
		IndexA: id.IndexB,
		IndexB: id.IndexA,
		TypeA:  id.TypeB,
		TypeB:  id.TypeA,
	}
}

// ManifoldType selects how the local points and normal of a manifold are read
type ManifoldType uint8

const (
	// ManifoldCircles: LocalPoint is the center of circle A, Points[0].LocalPoint the
	// center of circle B, LocalNormal is unused
	ManifoldCircles ManifoldType = iota
	// ManifoldFaceA: LocalNormal and LocalPoint describe a face of A, points are on B
	ManifoldFaceA
	// ManifoldFaceB: LocalNormal and LocalPoint describe a face of B, points are on A
	ManifoldFaceB
)

func (t ManifoldType) String() string {
	switch t {
	case ManifoldCircles:
		return "circles"
	case ManifoldFaceA:
		return "faceA"
	case ManifoldFaceB:
		return "faceB"
	}
	return "unknown"
}

// ManifoldPoint is a contact point stored across steps.
// The impulses are solver cache used for warm starting: NormalImpulse is never
// negative, TangentImpulse is signed.
type ManifoldPoint struct {
	LocalPoint     mgl64.Vec2
	NormalImpulse  float64
	TangentImpulse float64
	ID             ContactID
}

// Manifold describes the contact between two convex shapes, with up to two points
type Manifold struct {
	Points      [settings.MaxManifoldPoints]ManifoldPoint
	LocalNormal mgl64.Vec2
	LocalPoint  mgl64.Vec2
	Type        ManifoldType
	PointCount  int
}

// FindPoint returns the index of the point with the given ID, or -1
func (m *Manifold) FindPoint(id ContactID) int {
	for i := 0; i < m.PointCount; i++ {
		if m.Points[i].ID == id {
			return i
		}
	}
	return -1
}

// WorldManifold is a manifold expressed in world space at given body transforms
type WorldManifold struct {
	Normal      mgl64.Vec2 // points from A to B
	Points      [settings.MaxManifoldPoints]mgl64.Vec2
	Separations [settings.MaxManifoldPoints]float64 // negative when overlapping
}

// Initialize evaluates the manifold at the given transforms. Contact points are placed
// midway between the two shape surfaces.
func (wm *WorldManifold) Initialize(manifold *Manifold, xfA actor.Transform, radiusA float64, xfB actor.Transform, radiusB float64) {
	if manifold.PointCount == 0 {
		return
	}

	switch manifold.Type {
	case ManifoldCircles:
		wm.Normal = mgl64.Vec2{1, 0}
		pointA := xfA.Apply(manifold.LocalPoint)
		pointB := xfB.Apply(manifold.Points[0].LocalPoint)
		if actor.DistanceSquared(pointA, pointB) > settings.Epsilon*settings.Epsilon {
			wm.Normal = pointB.Sub(pointA).Normalize()
		}

		cA := pointA.Add(wm.Normal.Mul(radiusA))
		cB := pointB.Sub(wm.Normal.Mul(radiusB))
		wm.Points[0] = cA.Add(cB).Mul(0.5)
		wm.Separations[0] = cB.Sub(cA).Dot(wm.Normal)

	case ManifoldFaceA:
		wm.Normal = xfA.Rotate(manifold.LocalNormal)
		planePoint := xfA.Apply(manifold.LocalPoint)

		for i := 0; i < manifold.PointCount; i++ {
			clipPoint := xfB.Apply(manifold.Points[i].LocalPoint)
			cA := clipPoint.Add(wm.Normal.Mul(radiusA - clipPoint.Sub(planePoint).Dot(wm.Normal)))
			cB := clipPoint.Sub(wm.Normal.Mul(radiusB))
			wm.Points[i] = cA.Add(cB).Mul(0.5)
			wm.Separations[i] = cB.Sub(cA).Dot(wm.Normal)
		}

	case ManifoldFaceB:
		wm.Normal = xfB.Rotate(manifold.LocalNormal)
		planePoint := xfB.Apply(manifold.LocalPoint)

		for i := 0; i < manifold.PointCount; i++ {
			clipPoint := xfA.Apply(manifold.Points[i].LocalPoint)
			cB := clipPoint.Add(wm.Normal.Mul(radiusB - clipPoint.Sub(planePoint).Dot(wm.Normal)))
			cA := clipPoint.Sub(wm.Normal.Mul(radiusA))
			wm.Points[i] = cA.Add(cB).Mul(0.5)
			wm.Separations[i] = cA.Sub(cB).Dot(wm.Normal)
		}

		// Ensure normal points from A to B.
		wm.Normal = wm.Normal.Mul(-1)
	}
}

// PointState classifies a manifold point between two updates
type PointState uint8

const (
	PointStateNull    PointState = iota // point does not exist
	PointStateAdd                       // point was added in the update
	PointStatePersist                   // point persisted across the update
	PointStateRemove                    // point was removed in the update
)

// GetPointStates compares the points of two manifolds by ContactID. state1 describes
// the points of manifold1 (persist or remove), state2 the points of manifold2
// (add or persist).
func GetPointStates(manifold1, manifold2 *Manifold) (state1, state2 [settings.MaxManifoldPoints]PointState) {
	for i := 0; i < manifold1.PointCount; i++ {
		state1[i] = PointStateRemove
		if manifold2.FindPoint(manifold1.Points[i].ID) >= 0 {
			state1[i] = PointStatePersist
		}
	}

	for i := 0; i < manifold2.PointCount; i++ {
		state2[i] = PointStateAdd
		if manifold1.FindPoint(manifold2.Points[i].ID) >= 0 {
			state2[i] = PointStatePersist
		}
	}

	return state1, state2
}
