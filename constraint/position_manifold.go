package constraint

import (
	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/collision"
	"github.com/go-gl/mathgl/mgl64"
)

// positionManifold evaluates point index of pc at the given transforms.
// It returns the world normal (A to B), the world point midway between the surfaces
// and the signed separation, negative when overlapping.
func positionManifold(pc *contactPositionConstraint, xfA, xfB actor.Transform, index int) (normal, point mgl64.Vec2, separation float64) {
	switch pc.Type {
	case collision.ManifoldCircles:
		pointA := xfA.Apply(pc.LocalPoint)
		pointB := xfB.Apply(pc.LocalPoints[0])
		normal = actor.SafeNormalize(pointB.Sub(pointA))
		if normal.LenSqr() == 0.0 {
			normal = mgl64.Vec2{1, 0}
		}
		point = pointA.Add(pointB).Mul(0.5)
		separation = pointB.Sub(pointA).Dot(normal) - pc.RadiusA - pc.RadiusB

	case collision.ManifoldFaceA:
		normal = xfA.Rotate(pc.LocalNormal)
		planePoint := xfA.Apply(pc.LocalPoint)

		clipPoint := xfB.Apply(pc.LocalPoints[index])
		separation = clipPoint.Sub(planePoint).Dot(normal) - pc.RadiusA - pc.RadiusB
		point = clipPoint

	case collision.ManifoldFaceB:
		normal = xfB.Rotate(pc.LocalNormal)
		planePoint := xfB.Apply(pc.LocalPoint)

		clipPoint := xfA.Apply(pc.LocalPoints[index])
		separation = clipPoint.Sub(planePoint).Dot(normal) - pc.RadiusA - pc.RadiusB
		point = clipPoint

		// Ensure normal points from A to B
		normal = normal.Mul(-1)
	}

	return normal, point, separation
}
