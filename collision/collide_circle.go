package collision

import (
	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/settings"
	"github.com/go-gl/mathgl/mgl64"
)

// CollideCircles computes the manifold between two circles.
// The single point has a zero ID: there is only one feature pair.
func CollideCircles(manifold *Manifold, circleA *actor.Circle, xfA actor.Transform, circleB *actor.Circle, xfB actor.Transform) {
	manifold.PointCount = 0

	pA := xfA.Apply(circleA.Position)
	pB := xfB.Apply(circleB.Position)

	radius := circleA.Radius + circleB.Radius
	if actor.DistanceSquared(pA, pB) > radius*radius {
		return
	}

	manifold.Type = ManifoldCircles
	manifold.LocalPoint = circleA.Position
	manifold.LocalNormal = mgl64.Vec2{}
	manifold.PointCount = 1

	manifold.Points[0].LocalPoint = circleB.Position
	manifold.Points[0].ID = ContactID{}
}

// CollidePolygonAndCircle computes the manifold between a polygon (A) and a circle (B).
//
// The circle center is moved into the polygon frame and tested against the face of
// minimum separation, then against the Voronoi regions of that face's two vertices.
func CollidePolygonAndCircle(manifold *Manifold, polygonA *actor.Polygon, xfA actor.Transform, circleB *actor.Circle, xfB actor.Transform) {
	manifold.PointCount = 0

	// Compute circle position in the frame of the polygon.
	c := xfB.Apply(circleB.Position)
	cLocal := xfA.ApplyInverse(c)

	// Find the min separating edge.
	normalIndex := 0
	separation := -settings.MaxFloat
	radius := polygonA.Radius + circleB.Radius
	vertexCount := len(polygonA.Vertices)
	vertices := polygonA.Vertices
	normals := polygonA.Normals

	for i := 0; i < vertexCount; i++ {
		s := normals[i].Dot(cLocal.Sub(vertices[i]))

		if s > radius {
			// Early out.
			return
		}

		if s > separation {
			separation = s
			normalIndex = i
		}
	}

	// Vertices that subtend the incident face.
	vertIndex1 := normalIndex
	vertIndex2 := 0
	if vertIndex1+1 < vertexCount {
		vertIndex2 = vertIndex1 + 1
	}

	v1 := vertices[vertIndex1]
	v2 := vertices[vertIndex2]

	// If the center is inside the polygon ...
	if separation < settings.Epsilon {
		manifold.PointCount = 1
		manifold.Type = ManifoldFaceA
		manifold.LocalNormal = normals[normalIndex]
		manifold.LocalPoint = v1.Add(v2).Mul(0.5)
		manifold.Points[0].LocalPoint = circleB.Position
		manifold.Points[0].ID = ContactID{}
		return
	}

	// Compute barycentric coordinates
	u1 := cLocal.Sub(v1).Dot(v2.Sub(v1))
	u2 := cLocal.Sub(v2).Dot(v1.Sub(v2))

	switch {
	case u1 <= 0.0:
		if actor.DistanceSquared(cLocal, v1) > radius*radius {
			return
		}

		manifold.PointCount = 1
		manifold.Type = ManifoldFaceA
		manifold.LocalNormal = cLocal.Sub(v1).Normalize()
		manifold.LocalPoint = v1
		manifold.Points[0].LocalPoint = circleB.Position
		manifold.Points[0].ID = ContactID{}

	case u2 <= 0.0:
		if actor.DistanceSquared(cLocal, v2) > radius*radius {
			return
		}

		manifold.PointCount = 1
		manifold.Type = ManifoldFaceA
		manifold.LocalNormal = cLocal.Sub(v2).Normalize()
		manifold.LocalPoint = v2
		manifold.Points[0].LocalPoint = circleB.Position
		manifold.Points[0].ID = ContactID{}

	default:
		faceCenter := v1.Add(v2).Mul(0.5)
		s := cLocal.Sub(faceCenter).Dot(normals[vertIndex1])
		if s > radius {
			return
		}

		manifold.PointCount = 1
		manifold.Type = ManifoldFaceA
		manifold.LocalNormal = normals[vertIndex1]
		manifold.LocalPoint = faceCenter
		manifold.Points[0].LocalPoint = circleB.Position
		manifold.Points[0].ID = ContactID{}
	}
}
