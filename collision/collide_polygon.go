package collision

import (
	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/settings"
	"github.com/go-gl/mathgl/mgl64"
)

// clipVertex is a point of the incident edge being clipped, with the features it came from
type clipVertex struct {
	V  mgl64.Vec2
	ID ContactID
}

// findMaxSeparation returns the edge of poly1 with the largest separation from poly2
func findMaxSeparation(poly1 *actor.Polygon, xf1 actor.Transform, poly2 *actor.Polygon, xf2 actor.Transform) (int, float64) {
	xf := xf2.MulT(xf1)

	bestIndex := 0
	maxSeparation := -settings.MaxFloat
	for i := range poly1.Vertices {
		// Get poly1 normal in frame2.
		n := xf.Rotate(poly1.Normals[i])
		v1 := xf.Apply(poly1.Vertices[i])

		// Find deepest point for normal i.
		si := settings.MaxFloat
		for _, v2 := range poly2.Vertices {
			sij := n.Dot(v2.Sub(v1))
			if sij < si {
				si = sij
			}
		}

		if si > maxSeparation {
			maxSeparation = si
			bestIndex = i
		}
	}

	return bestIndex, maxSeparation
}

// findIncidentEdge picks the edge of poly2 most anti-parallel to the reference normal
func findIncidentEdge(poly1 *actor.Polygon, xf1 actor.Transform, edge1 int, poly2 *actor.Polygon, xf2 actor.Transform) [2]clipVertex {
	// Get the normal of the reference edge in poly2's frame.
	normal1 := xf2.InverseRotate(xf1.Rotate(poly1.Normals[edge1]))

	index := 0
	minDot := settings.MaxFloat
	for i, n := range poly2.Normals {
		dot := normal1.Dot(n)
		if dot < minDot {
			minDot = dot
			index = i
		}
	}

	i1 := index
	i2 := 0
	if i1+1 < len(poly2.Vertices) {
		i2 = i1 + 1
	}

	return [2]clipVertex{
		{
			V:  xf2.Apply(poly2.Vertices[i1]),
			ID: ContactID{IndexA: uint8(edge1), IndexB: uint8(i1), TypeA: FeatureFace, TypeB: FeatureVertex},
		},
		{
			V:  xf2.Apply(poly2.Vertices[i2]),
			ID: ContactID{IndexA: uint8(edge1), IndexB: uint8(i2), TypeA: FeatureFace, TypeB: FeatureVertex},
		},
	}
}

// clipSegmentToLine keeps the part of the segment behind the line normal·x = offset
// (Sutherland-Hodgman). A point created by the clip is tagged with the reference
// vertex that clipped it.
func clipSegmentToLine(vIn [2]clipVertex, normal mgl64.Vec2, offset float64, vertexIndexA int) ([2]clipVertex, int) {
	var vOut [2]clipVertex
	numOut := 0

	// Calculate the distance of end points to the line
	distance0 := normal.Dot(vIn[0].V) - offset
	distance1 := normal.Dot(vIn[1].V) - offset

	// If the points are behind the plane
	if distance0 <= 0.0 {
		vOut[numOut] = vIn[0]
		numOut++
	}
	if distance1 <= 0.0 {
		vOut[numOut] = vIn[1]
		numOut++
	}

	// If the points are on different sides of the plane
	if distance0*distance1 < 0.0 {
		interp := distance0 / (distance0 - distance1)
		vOut[numOut].V = vIn[0].V.Add(vIn[1].V.Sub(vIn[0].V).Mul(interp))

		// VertexA is hitting edgeB.
		vOut[numOut].ID = ContactID{
			IndexA: uint8(vertexIndexA),
			IndexB: vIn[0].ID.IndexB,
			TypeA:  FeatureVertex,
			TypeB:  FeatureFace,
		}
		numOut++
	}

	return vOut, numOut
}

// CollidePolygons computes the manifold between two convex polygons.
//
// Algorithm:
//  1. Find the face of max separation on A, then on B; early out on a separating axis
//  2. The reference face is the one of larger separation, with a small bias toward A
//     so the choice does not flicker between steps
//  3. Find the incident edge on the other polygon
//  4. Clip the incident edge against the side planes of the reference face
//  5. Keep the clipped points within the skin radius of the reference face
//
// The normal points from A to B.
func CollidePolygons(manifold *Manifold, polyA *actor.Polygon, xfA actor.Transform, polyB *actor.Polygon, xfB actor.Transform) {
	manifold.PointCount = 0
	totalRadius := polyA.Radius + polyB.Radius

	edgeA, separationA := findMaxSeparation(polyA, xfA, polyB, xfB)
	if separationA > totalRadius {
		return
	}

	edgeB, separationB := findMaxSeparation(polyB, xfB, polyA, xfA)
	if separationB > totalRadius {
		return
	}

	var poly1, poly2 *actor.Polygon // reference and incident polygons
	var xf1, xf2 actor.Transform
	var edge1 int
	var flip bool
	const tolerance = 0.1 * settings.LinearSlop

	if separationB > separationA+tolerance {
		poly1, poly2 = polyB, polyA
		xf1, xf2 = xfB, xfA
		edge1 = edgeB
		manifold.Type = ManifoldFaceB
		flip = true
	} else {
		poly1, poly2 = polyA, polyB
		xf1, xf2 = xfA, xfB
		edge1 = edgeA
		manifold.Type = ManifoldFaceA
		flip = false
	}

	incidentEdge := findIncidentEdge(poly1, xf1, edge1, poly2, xf2)

	count1 := len(poly1.Vertices)
	iv1 := edge1
	iv2 := 0
	if edge1+1 < count1 {
		iv2 = edge1 + 1
	}

	v11 := poly1.Vertices[iv1]
	v12 := poly1.Vertices[iv2]

	localTangent := v12.Sub(v11).Normalize()
	localNormal := actor.CrossVS(localTangent, 1.0)
	planePoint := v11.Add(v12).Mul(0.5)

	tangent := xf1.Rotate(localTangent)
	normal := actor.CrossVS(tangent, 1.0)

	v11 = xf1.Apply(v11)
	v12 = xf1.Apply(v12)

	// Face offset.
	frontOffset := normal.Dot(v11)

	// Side offsets, extended by polytope skin thickness.
	sideOffset1 := -tangent.Dot(v11) + totalRadius
	sideOffset2 := tangent.Dot(v12) + totalRadius

	// Clip incident edge against extruded edge1 side edges.
	clipPoints1, np := clipSegmentToLine(incidentEdge, tangent.Mul(-1), sideOffset1, iv1)
	if np < 2 {
		return
	}

	clipPoints2, np := clipSegmentToLine(clipPoints1, tangent, sideOffset2, iv2)
	if np < 2 {
		return
	}

	manifold.LocalNormal = localNormal
	manifold.LocalPoint = planePoint

	pointCount := 0
	for i := 0; i < settings.MaxManifoldPoints; i++ {
		separation := normal.Dot(clipPoints2[i].V) - frontOffset
		if separation > totalRadius {
			continue
		}

		cp := &manifold.Points[pointCount]
		cp.LocalPoint = xf2.ApplyInverse(clipPoints2[i].V)
		cp.ID = clipPoints2[i].ID
		if flip {
			cp.ID = cp.ID.Swap()
		}
		pointCount++
	}

	manifold.PointCount = pointCount
}
