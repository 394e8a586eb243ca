package constraint

import (
	"log"
	"math"

	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/collision"
	"github.com/akmonengine/impulse/settings"
	"github.com/go-gl/mathgl/mgl64"
)

// VelocityConstraintPoint is the per point solver state of a velocity constraint
type VelocityConstraintPoint struct {
	RA, RB         mgl64.Vec2 // offsets from the centers of mass
	NormalImpulse  float64
	TangentImpulse float64
	NormalMass     float64
	TangentMass    float64
	VelocityBias   float64
}

// ContactVelocityConstraint is rebuilt every step from a contact and the body state
type ContactVelocityConstraint struct {
	Points [settings.MaxManifoldPoints]VelocityConstraintPoint
	Normal mgl64.Vec2
	// K and its inverse NormalMass are only meaningful when PointCount == 2
	K          mgl64.Mat2
	NormalMass mgl64.Mat2

	IndexA, IndexB     int
	InvMassA, InvMassB float64
	InvIA, InvIB       float64

	Friction     float64
	Restitution  float64
	TangentSpeed float64
	PointCount   int
	ContactIndex int
}

// Impulse returns the accumulated impulses of the constraint
func (vc *ContactVelocityConstraint) Impulse() ContactImpulse {
	impulse := ContactImpulse{Count: vc.PointCount}
	for j := 0; j < vc.PointCount; j++ {
		impulse.NormalImpulses[j] = vc.Points[j].NormalImpulse
		impulse.TangentImpulses[j] = vc.Points[j].TangentImpulse
	}

	return impulse
}

type contactPositionConstraint struct {
	LocalPoints                [settings.MaxManifoldPoints]mgl64.Vec2
	LocalNormal                mgl64.Vec2
	LocalPoint                 mgl64.Vec2
	IndexA, IndexB             int
	InvMassA, InvMassB         float64
	LocalCenterA, LocalCenterB mgl64.Vec2
	InvIA, InvIB               float64
	Type                       collision.ManifoldType
	RadiusA, RadiusB           float64
	PointCount                 int
}

// SolverStats counts the numerical fallbacks taken since the last Init
type SolverStats struct {
	// IllConditioned counts 2-point contacts solved as 1-point because K was ill conditioned
	IllConditioned int
	// BlockSolverMisses counts block solves where no case of the mini LCP held;
	// the impulses of the previous iteration are kept
	BlockSolverMisses int
}

// ContactSolver solves the contacts of one island with sequential impulses.
//
// A step runs, in order: Init, InitializeVelocityConstraints, WarmStart,
// SolveVelocityConstraints once per velocity iteration, StoreImpulses, then
// SolvePositionConstraints once per position iteration after the positions are
// integrated. The constraint arrays are reused between steps and only grow.
type ContactSolver struct {
	config Config
	step   TimeStep

	positions  []Position
	velocities []Velocity
	contacts   []*Contact

	velocityConstraints []ContactVelocityConstraint
	positionConstraints []contactPositionConstraint

	stats SolverStats
}

func NewContactSolver(config Config) *ContactSolver {
	return &ContactSolver{config: config}
}

func (s *ContactSolver) Config() Config {
	return s.config
}

// Init builds the constraints of contacts. positions and velocities are indexed by the
// bodies' IslandIndex and are updated in place by the solve passes.
// Every contact must be touching, enabled and have at least one manifold point.
func (s *ContactSolver) Init(step TimeStep, contacts []*Contact, positions []Position, velocities []Velocity) {
	s.step = step
	s.positions = positions
	s.velocities = velocities
	s.contacts = contacts
	s.stats = SolverStats{}

	s.velocityConstraints = grow(s.velocityConstraints, len(contacts))
	s.positionConstraints = grow(s.positionConstraints, len(contacts))

	for i, contact := range contacts {
		fixtureA := contact.GetFixtureA()
		fixtureB := contact.GetFixtureB()
		bodyA := fixtureA.GetBody()
		bodyB := fixtureB.GetBody()
		manifold := contact.GetManifold()

		pointCount := manifold.PointCount
		if s.config.Debug {
			assert(pointCount > 0, "contact %d has no manifold point", i)
			assert(bodyA.IslandIndex >= 0 && bodyA.IslandIndex < len(positions), "contact %d: body A island index %d out of range", i, bodyA.IslandIndex)
			assert(bodyB.IslandIndex >= 0 && bodyB.IslandIndex < len(positions), "contact %d: body B island index %d out of range", i, bodyB.IslandIndex)
		}

		vc := &s.velocityConstraints[i]
		*vc = ContactVelocityConstraint{
			IndexA:       bodyA.IslandIndex,
			IndexB:       bodyB.IslandIndex,
			InvMassA:     bodyA.GetInvMass(),
			InvMassB:     bodyB.GetInvMass(),
			InvIA:        bodyA.GetInvI(),
			InvIB:        bodyB.GetInvI(),
			Friction:     contact.GetFriction(),
			Restitution:  contact.GetRestitution(),
			TangentSpeed: contact.GetTangentSpeed(),
			PointCount:   pointCount,
			ContactIndex: i,
		}

		pc := &s.positionConstraints[i]
		*pc = contactPositionConstraint{
			LocalNormal:  manifold.LocalNormal,
			LocalPoint:   manifold.LocalPoint,
			IndexA:       bodyA.IslandIndex,
			IndexB:       bodyB.IslandIndex,
			InvMassA:     bodyA.GetInvMass(),
			InvMassB:     bodyB.GetInvMass(),
			LocalCenterA: bodyA.GetLocalCenter(),
			LocalCenterB: bodyB.GetLocalCenter(),
			InvIA:        bodyA.GetInvI(),
			InvIB:        bodyB.GetInvI(),
			Type:         manifold.Type,
			RadiusA:      fixtureA.GetShape().GetRadius(),
			RadiusB:      fixtureB.GetShape().GetRadius(),
			PointCount:   pointCount,
		}

		for j := 0; j < pointCount; j++ {
			mp := &manifold.Points[j]
			vcp := &vc.Points[j]

			if step.WarmStarting {
				vcp.NormalImpulse = step.DtRatio * mp.NormalImpulse
				vcp.TangentImpulse = step.DtRatio * mp.TangentImpulse
			}

			pc.LocalPoints[j] = mp.LocalPoint
		}
	}
}

// grow resizes constraints to n, reallocating with doubled capacity when needed
func grow[T any](constraints []T, n int) []T {
	if cap(constraints) >= n {
		return constraints[:n]
	}

	return make([]T, n, max(n, 2*cap(constraints)))
}

// InitializeVelocityConstraints computes the world geometry, the effective masses and
// the restitution bias at the current positions and velocities
func (s *ContactSolver) InitializeVelocityConstraints() {
	for i := range s.velocityConstraints {
		vc := &s.velocityConstraints[i]
		pc := &s.positionConstraints[i]
		manifold := s.contacts[vc.ContactIndex].GetManifold()

		mA, mB := vc.InvMassA, vc.InvMassB
		iA, iB := vc.InvIA, vc.InvIB

		cA, aA := s.positions[vc.IndexA].C, s.positions[vc.IndexA].A
		vA, wA := s.velocities[vc.IndexA].V, s.velocities[vc.IndexA].W
		cB, aB := s.positions[vc.IndexB].C, s.positions[vc.IndexB].A
		vB, wB := s.velocities[vc.IndexB].V, s.velocities[vc.IndexB].W

		xfA := actor.TransformFromCenter(cA, aA, pc.LocalCenterA)
		xfB := actor.TransformFromCenter(cB, aB, pc.LocalCenterB)

		var worldManifold collision.WorldManifold
		worldManifold.Initialize(manifold, xfA, pc.RadiusA, xfB, pc.RadiusB)

		vc.Normal = worldManifold.Normal
		tangent := actor.CrossVS(vc.Normal, 1.0)

		for j := 0; j < vc.PointCount; j++ {
			vcp := &vc.Points[j]

			vcp.RA = worldManifold.Points[j].Sub(cA)
			vcp.RB = worldManifold.Points[j].Sub(cB)

			rnA := actor.Cross(vcp.RA, vc.Normal)
			rnB := actor.Cross(vcp.RB, vc.Normal)
			kNormal := mA + mB + iA*rnA*rnA + iB*rnB*rnB
			vcp.NormalMass = 0.0
			if kNormal > 0.0 {
				vcp.NormalMass = 1.0 / kNormal
			}

			rtA := actor.Cross(vcp.RA, tangent)
			rtB := actor.Cross(vcp.RB, tangent)
			kTangent := mA + mB + iA*rtA*rtA + iB*rtB*rtB
			vcp.TangentMass = 0.0
			if kTangent > 0.0 {
				vcp.TangentMass = 1.0 / kTangent
			}

			// Setup a velocity bias for restitution.
			vcp.VelocityBias = 0.0
			vRel := vc.Normal.Dot(relativeVelocity(vA, wA, vcp.RA, vB, wB, vcp.RB))
			if vRel < -s.config.VelocityThreshold {
				vcp.VelocityBias = -vc.Restitution * vRel
			}
		}

		// If we have two points, then prepare the block solver.
		if vc.PointCount == 2 && s.config.BlockSolve {
			vcp1 := &vc.Points[0]
			vcp2 := &vc.Points[1]

			rn1A := actor.Cross(vcp1.RA, vc.Normal)
			rn1B := actor.Cross(vcp1.RB, vc.Normal)
			rn2A := actor.Cross(vcp2.RA, vc.Normal)
			rn2B := actor.Cross(vcp2.RB, vc.Normal)

			k11 := mA + mB + iA*rn1A*rn1A + iB*rn1B*rn1B
			k22 := mA + mB + iA*rn2A*rn2A + iB*rn2B*rn2B
			k12 := mA + mB + iA*rn1A*rn2A + iB*rn1B*rn2B

			if k11*k11 < s.config.MaxConditionNumber*(k11*k22-k12*k12) {
				// K is safe to invert.
				vc.K = mgl64.Mat2{k11, k12, k12, k22}
				vc.NormalMass = vc.K.Inv()
			} else {
				// The constraints are redundant, just use one.
				vc.PointCount = 1
				s.stats.IllConditioned++
			}
		}
	}
}

// relativeVelocity returns the velocity of the point of B relative to the point of A
func relativeVelocity(vA mgl64.Vec2, wA float64, rA mgl64.Vec2, vB mgl64.Vec2, wB float64, rB mgl64.Vec2) mgl64.Vec2 {
	return vB.Add(actor.CrossSV(wB, rB)).Sub(vA).Sub(actor.CrossSV(wA, rA))
}

// WarmStart applies the impulses seeded by Init to the velocities
func (s *ContactSolver) WarmStart() {
	for i := range s.velocityConstraints {
		vc := &s.velocityConstraints[i]

		mA, mB := vc.InvMassA, vc.InvMassB
		iA, iB := vc.InvIA, vc.InvIB

		vA, wA := s.velocities[vc.IndexA].V, s.velocities[vc.IndexA].W
		vB, wB := s.velocities[vc.IndexB].V, s.velocities[vc.IndexB].W

		normal := vc.Normal
		tangent := actor.CrossVS(normal, 1.0)

		for j := 0; j < vc.PointCount; j++ {
			vcp := &vc.Points[j]
			P := normal.Mul(vcp.NormalImpulse).Add(tangent.Mul(vcp.TangentImpulse))

			wA -= iA * actor.Cross(vcp.RA, P)
			vA = vA.Sub(P.Mul(mA))
			wB += iB * actor.Cross(vcp.RB, P)
			vB = vB.Add(P.Mul(mB))
		}

		s.velocities[vc.IndexA] = Velocity{V: vA, W: wA}
		s.velocities[vc.IndexB] = Velocity{V: vB, W: wB}
	}
}

// SolveVelocityConstraints runs one Gauss-Seidel pass over the contacts: friction
// first, bounded by the current normal impulse, then the normal impulses.
func (s *ContactSolver) SolveVelocityConstraints() {
	for i := range s.velocityConstraints {
		vc := &s.velocityConstraints[i]

		mA, mB := vc.InvMassA, vc.InvMassB
		iA, iB := vc.InvIA, vc.InvIB

		vA, wA := s.velocities[vc.IndexA].V, s.velocities[vc.IndexA].W
		vB, wB := s.velocities[vc.IndexB].V, s.velocities[vc.IndexB].W

		normal := vc.Normal
		tangent := actor.CrossVS(normal, 1.0)

		if s.config.Debug {
			assert(vc.PointCount > 0 && vc.PointCount <= settings.MaxManifoldPoints, "velocity constraint %d has %d points", i, vc.PointCount)
		}

		// Solve tangent constraints first because non-penetration is more important
		// than friction.
		for j := 0; j < vc.PointCount; j++ {
			vcp := &vc.Points[j]

			dv := relativeVelocity(vA, wA, vcp.RA, vB, wB, vcp.RB)

			vt := dv.Dot(tangent) - vc.TangentSpeed
			lambda := vcp.TangentMass * -vt

			// Clamp the accumulated force
			maxFriction := vc.Friction * vcp.NormalImpulse
			newImpulse := mgl64.Clamp(vcp.TangentImpulse+lambda, -maxFriction, maxFriction)
			lambda = newImpulse - vcp.TangentImpulse
			vcp.TangentImpulse = newImpulse

			P := tangent.Mul(lambda)

			vA = vA.Sub(P.Mul(mA))
			wA -= iA * actor.Cross(vcp.RA, P)
			vB = vB.Add(P.Mul(mB))
			wB += iB * actor.Cross(vcp.RB, P)
		}

		if vc.PointCount == 2 && s.config.BlockSolve {
			vA, wA, vB, wB = s.solveBlock(vc, vA, wA, vB, wB)
		} else {
			for j := 0; j < vc.PointCount; j++ {
				vcp := &vc.Points[j]

				dv := relativeVelocity(vA, wA, vcp.RA, vB, wB, vcp.RB)

				vn := dv.Dot(normal)
				lambda := -vcp.NormalMass * (vn - vcp.VelocityBias)

				// Clamp the accumulated impulse
				newImpulse := math.Max(vcp.NormalImpulse+lambda, 0.0)
				lambda = newImpulse - vcp.NormalImpulse
				vcp.NormalImpulse = newImpulse

				P := normal.Mul(lambda)
				vA = vA.Sub(P.Mul(mA))
				wA -= iA * actor.Cross(vcp.RA, P)
				vB = vB.Add(P.Mul(mB))
				wB += iB * actor.Cross(vcp.RB, P)
			}
		}

		s.velocities[vc.IndexA] = Velocity{V: vA, W: wA}
		s.velocities[vc.IndexB] = Velocity{V: vB, W: wB}
	}
}

// solveBlock solves the normal impulses of a 2-point constraint together.
//
// With a the accumulated impulse, x the new one and vn the resulting normal
// velocities, the problem is the linear complementarity problem
//
//	vn = A * x + b, vn >= 0, x >= 0 and vn_i * x_i = 0
//
// with b = vn0 - velocityBias. It is solved by trying the four active sets in a
// fixed order and taking the first that is consistent:
//  1. both points active: vn = 0
//  2. point 1 active: x2 = 0 and vn1 = 0
//  3. point 2 active: x1 = 0 and vn2 = 0
//  4. no point active: x = 0
//
// When none is consistent, the impulses are left unchanged.
func (s *ContactSolver) solveBlock(vc *ContactVelocityConstraint, vA mgl64.Vec2, wA float64, vB mgl64.Vec2, wB float64) (mgl64.Vec2, float64, mgl64.Vec2, float64) {
	mA, mB := vc.InvMassA, vc.InvMassB
	iA, iB := vc.InvIA, vc.InvIB
	normal := vc.Normal

	cp1 := &vc.Points[0]
	cp2 := &vc.Points[1]

	a := mgl64.Vec2{cp1.NormalImpulse, cp2.NormalImpulse}

	// Relative velocity at contact
	dv1 := relativeVelocity(vA, wA, cp1.RA, vB, wB, cp1.RB)
	dv2 := relativeVelocity(vA, wA, cp2.RA, vB, wB, cp2.RB)

	// Compute normal velocity
	vn1 := dv1.Dot(normal)
	vn2 := dv2.Dot(normal)

	b := mgl64.Vec2{vn1 - cp1.VelocityBias, vn2 - cp2.VelocityBias}

	// Compute b'
	b = b.Sub(vc.K.Mul2x1(a))

	var x mgl64.Vec2
	solved := 0

	switch {
	case s.tryBothActive(vc, b, &x):
		solved = 1
	case s.tryFirstActive(vc, b, &x):
		solved = 2
	case s.trySecondActive(vc, b, &x):
		solved = 3
	case b.X() >= 0.0 && b.Y() >= 0.0:
		// Case 4: x1 = x2 = 0, vn = b
		x = mgl64.Vec2{}
		solved = 4
	}

	if solved == 0 {
		// No solution, give up. This is hit sometimes, but it doesn't seem to matter.
		s.stats.BlockSolverMisses++
		if s.config.Debug {
			log.Printf("constraint: block solver found no solution for contact %d, b=%v", vc.ContactIndex, b)
		}
		return vA, wA, vB, wB
	}

	// Get the incremental impulse
	d := x.Sub(a)

	// Apply incremental impulse
	P1 := normal.Mul(d.X())
	P2 := normal.Mul(d.Y())
	vA = vA.Sub(P1.Add(P2).Mul(mA))
	wA -= iA * (actor.Cross(cp1.RA, P1) + actor.Cross(cp2.RA, P2))

	vB = vB.Add(P1.Add(P2).Mul(mB))
	wB += iB * (actor.Cross(cp1.RB, P1) + actor.Cross(cp2.RB, P2))

	// Accumulate
	cp1.NormalImpulse = x.X()
	cp2.NormalImpulse = x.Y()

	if s.config.Debug {
		s.checkBlockSolution(vc, solved, vA, wA, vB, wB)
	}

	return vA, wA, vB, wB
}

// Case 1: vn = 0, x = -inv(K) * b'
func (s *ContactSolver) tryBothActive(vc *ContactVelocityConstraint, b mgl64.Vec2, x *mgl64.Vec2) bool {
	*x = vc.NormalMass.Mul2x1(b).Mul(-1)

	return x.X() >= 0.0 && x.Y() >= 0.0
}

// Case 2: x2 = 0 and vn1 = 0, requires vn2 >= 0.
// K is column major and symmetric: K[1] and K[2] are both k12.
func (s *ContactSolver) tryFirstActive(vc *ContactVelocityConstraint, b mgl64.Vec2, x *mgl64.Vec2) bool {
	*x = mgl64.Vec2{-vc.Points[0].NormalMass * b.X(), 0.0}
	vn2 := vc.K[1]*x.X() + b.Y()

	return x.X() >= 0.0 && vn2 >= 0.0
}

// Case 3: x1 = 0 and vn2 = 0, requires vn1 >= 0
func (s *ContactSolver) trySecondActive(vc *ContactVelocityConstraint, b mgl64.Vec2, x *mgl64.Vec2) bool {
	*x = mgl64.Vec2{0.0, -vc.Points[1].NormalMass * b.Y()}
	vn1 := vc.K[2]*x.Y() + b.X()

	return x.Y() >= 0.0 && vn1 >= 0.0
}

// checkBlockSolution verifies the post-conditions of the chosen case on the updated
// velocities and logs any violation larger than the error tolerance
func (s *ContactSolver) checkBlockSolution(vc *ContactVelocityConstraint, solved int, vA mgl64.Vec2, wA float64, vB mgl64.Vec2, wB float64) {
	cp1 := &vc.Points[0]
	cp2 := &vc.Points[1]

	vn1 := relativeVelocity(vA, wA, cp1.RA, vB, wB, cp1.RB).Dot(vc.Normal)
	vn2 := relativeVelocity(vA, wA, cp2.RA, vB, wB, cp2.RB).Dot(vc.Normal)

	// velocities of the active points must match their bias
	tol := s.config.ErrorTolerance
	switch solved {
	case 1:
		if math.Abs(vn1-cp1.VelocityBias) > tol || math.Abs(vn2-cp2.VelocityBias) > tol {
			log.Printf("constraint: block solver case 1 post-condition failed: vn1=%g vn2=%g", vn1, vn2)
		}
	case 2:
		if math.Abs(vn1-cp1.VelocityBias) > tol {
			log.Printf("constraint: block solver case 2 post-condition failed: vn1=%g", vn1)
		}
	case 3:
		if math.Abs(vn2-cp2.VelocityBias) > tol {
			log.Printf("constraint: block solver case 3 post-condition failed: vn2=%g", vn2)
		}
	}
}

// StoreImpulses writes the accumulated impulses back into the contact manifolds,
// where the next step's Init reads them for warm starting
func (s *ContactSolver) StoreImpulses() {
	for i := range s.velocityConstraints {
		vc := &s.velocityConstraints[i]
		manifold := s.contacts[vc.ContactIndex].GetManifold()

		for j := 0; j < vc.PointCount; j++ {
			manifold.Points[j].NormalImpulse = vc.Points[j].NormalImpulse
			manifold.Points[j].TangentImpulse = vc.Points[j].TangentImpulse
		}
	}
}

// SolvePositionConstraints runs one position correction pass on the positions and
// reports whether the worst separation is within 3 linear slops
func (s *ContactSolver) SolvePositionConstraints() bool {
	minSeparation := s.solvePositions(s.config.Baumgarte, -1, -1)

	// We can't expect minSeparation >= -linearSlop because we don't push the
	// separation above -linearSlop.
	return minSeparation >= -3.0*s.config.LinearSlop
}

// SolveTOIPositionConstraints is the position pass of time of impact resolution.
// Only the bodies at island indices toiIndexA and toiIndexB are moved.
func (s *ContactSolver) SolveTOIPositionConstraints(toiIndexA, toiIndexB int) bool {
	minSeparation := s.solvePositions(s.config.TOIBaumgarte, toiIndexA, toiIndexB)

	return minSeparation >= -1.5*s.config.LinearSlop
}

// solvePositions returns the worst separation seen during the pass.
// With toiIndexA < 0 every body moves according to its mass.
func (s *ContactSolver) solvePositions(baumgarte float64, toiIndexA, toiIndexB int) float64 {
	minSeparation := 0.0

	for i := range s.positionConstraints {
		pc := &s.positionConstraints[i]

		indexA, indexB := pc.IndexA, pc.IndexB
		mA, iA := pc.InvMassA, pc.InvIA
		mB, iB := pc.InvMassB, pc.InvIB

		if toiIndexA >= 0 {
			mA, iA = 0.0, 0.0
			if indexA == toiIndexA || indexA == toiIndexB {
				mA, iA = pc.InvMassA, pc.InvIA
			}

			mB, iB = 0.0, 0.0
			if indexB == toiIndexA || indexB == toiIndexB {
				mB, iB = pc.InvMassB, pc.InvIB
			}
		}

		cA, aA := s.positions[indexA].C, s.positions[indexA].A
		cB, aB := s.positions[indexB].C, s.positions[indexB].A

		// Solve normal constraints
		for j := 0; j < pc.PointCount; j++ {
			xfA := actor.TransformFromCenter(cA, aA, pc.LocalCenterA)
			xfB := actor.TransformFromCenter(cB, aB, pc.LocalCenterB)

			normal, point, separation := positionManifold(pc, xfA, xfB, j)

			rA := point.Sub(cA)
			rB := point.Sub(cB)

			// Track max constraint error.
			minSeparation = math.Min(minSeparation, separation)

			// Prevent large corrections and allow slop.
			C := mgl64.Clamp(baumgarte*(separation+s.config.LinearSlop), -s.config.MaxLinearCorrection, 0.0)

			// Compute the effective mass.
			rnA := actor.Cross(rA, normal)
			rnB := actor.Cross(rB, normal)
			K := mA + mB + iA*rnA*rnA + iB*rnB*rnB

			// Compute normal impulse
			impulse := 0.0
			if K > 0.0 {
				impulse = -C / K
			}

			P := normal.Mul(impulse)

			cA = cA.Sub(P.Mul(mA))
			aA -= iA * actor.Cross(rA, P)

			cB = cB.Add(P.Mul(mB))
			aB += iB * actor.Cross(rB, P)
		}

		s.positions[indexA] = Position{C: cA, A: aA}
		s.positions[indexB] = Position{C: cB, A: aB}
	}

	return minSeparation
}

// VelocityConstraints exposes the constraints built by the last Init
func (s *ContactSolver) VelocityConstraints() []ContactVelocityConstraint {
	return s.velocityConstraints
}

// Stats returns the fallbacks counted since the last Init
func (s *ContactSolver) Stats() SolverStats {
	return s.stats
}

func assert(condition bool, format string, args ...interface{}) {
	if !condition {
		log.Panicf("constraint: "+format, args...)
	}
}
