package impulse

import (
	"math"

	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/constraint"
	"github.com/akmonengine/impulse/settings"
	"github.com/go-gl/mathgl/mgl64"
)

// island is a set of bodies connected by touching contacts, solved together.
// Its slices are reused from one island to the next.
type island struct {
	bodies     []*actor.RigidBody
	contacts   []*constraint.Contact
	positions  []constraint.Position
	velocities []constraint.Velocity
}

func (isl *island) clear() {
	isl.bodies = isl.bodies[:0]
	isl.contacts = isl.contacts[:0]
	isl.positions = isl.positions[:0]
	isl.velocities = isl.velocities[:0]
}

// addBody assigns the body its island index
func (isl *island) addBody(body *actor.RigidBody) {
	body.IslandIndex = len(isl.bodies)
	isl.bodies = append(isl.bodies, body)
	isl.positions = append(isl.positions, constraint.Position{C: body.Sweep.C, A: body.Sweep.A})
	isl.velocities = append(isl.velocities, constraint.Velocity{V: body.Velocity, W: body.AngularVelocity})
}

func (isl *island) addContact(c *constraint.Contact) {
	isl.contacts = append(isl.contacts, c)
}

// solve walks the contact graph from every awake body and solves each island as soon
// as it is complete
func (w *World) solve(step constraint.TimeStep) {
	clear(w.visited)
	for _, c := range w.contacts {
		c.SetInIsland(false)
	}

	stack := w.stack[:0]
	for _, seed := range w.Bodies {
		if w.visited[seed] || !seed.IsAwake() || seed.BodyType == actor.BodyTypeStatic {
			continue
		}

		w.island.clear()
		stack = append(stack, seed)
		w.visited[seed] = true

		// Perform a depth first search on the contact graph.
		for len(stack) > 0 {
			body := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			w.island.addBody(body)

			// Make sure the body is awake.
			if !body.IsAwake() {
				body.SetAwake(true)
			}

			// Don't propagate islands across static bodies.
			if body.BodyType == actor.BodyTypeStatic {
				continue
			}

			for edge := w.graph.First(body); edge != nil; edge = edge.Next {
				c := edge.Contact

				if c.InIsland() {
					continue
				}

				// Is this contact solid and touching?
				if !c.IsEnabled() || !c.IsTouching() {
					continue
				}
				if c.GetFixtureA().IsSensor() || c.GetFixtureB().IsSensor() {
					continue
				}

				w.island.addContact(c)
				c.SetInIsland(true)

				other := edge.Other
				if w.visited[other] {
					continue
				}

				stack = append(stack, other)
				w.visited[other] = true
			}
		}

		w.solveIsland(&w.island, step)

		// Allow static bodies to participate in other islands.
		for _, body := range w.island.bodies {
			if body.BodyType == actor.BodyTypeStatic {
				delete(w.visited, body)
			}
		}
	}
	w.stack = stack[:0]

	// Synchronize fixtures for the broad phase of the next step.
	task(w.Workers, w.Bodies, func(body *actor.RigidBody) {
		if body.BodyType != actor.BodyTypeStatic && body.IsAwake() {
			body.SynchronizeFixtures()
		}
	})
}

// solveIsland integrates velocities, solves the contacts, integrates positions,
// corrects them, and puts the island to sleep when it rested long enough
func (w *World) solveIsland(isl *island, step constraint.TimeStep) {
	h := step.Dt

	// Integrate velocities and apply damping. Initialize the body state.
	for i, body := range isl.bodies {
		body.Sweep.C0 = body.Sweep.C
		body.Sweep.A0 = body.Sweep.A

		v := isl.velocities[i].V
		angular := isl.velocities[i].W

		if body.BodyType == actor.BodyTypeDynamic {
			// Integrate velocities.
			acceleration := w.Gravity.Mul(body.GravityScale).Add(body.GetForce().Mul(body.GetInvMass()))
			v = v.Add(acceleration.Mul(h))
			angular += h * body.GetInvI() * body.GetTorque()

			// Apply damping, a Padé approximation of exp(-c*h) that stays stable for
			// large time steps.
			v = v.Mul(1.0 / (1.0 + h*body.LinearDamping))
			angular *= 1.0 / (1.0 + h*body.AngularDamping)
		}

		isl.velocities[i] = constraint.Velocity{V: v, W: angular}
	}

	// Solver data
	w.solver.Init(step, isl.contacts, isl.positions, isl.velocities)
	w.solver.InitializeVelocityConstraints()

	if step.WarmStarting {
		w.solver.WarmStart()
	}

	for i := 0; i < step.VelocityIterations; i++ {
		w.solver.SolveVelocityConstraints()
	}

	// Store impulses for warm starting
	w.solver.StoreImpulses()

	// Integrate positions
	for i := range isl.bodies {
		c := isl.positions[i].C
		a := isl.positions[i].A
		v := isl.velocities[i].V
		angular := isl.velocities[i].W

		// Check for large velocities
		v = clampVelocity(v, h, settings.MaxTranslation)

		rotation := h * angular
		if rotation*rotation > settings.MaxRotationSquared {
			angular *= settings.MaxRotation / math.Abs(rotation)
		}

		// Integrate
		c = c.Add(v.Mul(h))
		a += h * angular

		isl.positions[i] = constraint.Position{C: c, A: a}
		isl.velocities[i] = constraint.Velocity{V: v, W: angular}
	}

	// Solve position constraints
	positionSolved := false
	for i := 0; i < step.PositionIterations; i++ {
		if w.solver.SolvePositionConstraints() {
			// Exit early if the position errors are small.
			positionSolved = true
			break
		}
	}

	// Copy state buffers back to the bodies
	for i, body := range isl.bodies {
		if body.BodyType == actor.BodyTypeStatic {
			continue
		}

		body.Sweep.C = isl.positions[i].C
		body.Sweep.A = isl.positions[i].A
		body.Velocity = isl.velocities[i].V
		body.AngularVelocity = isl.velocities[i].W
		body.SynchronizeTransform()
	}

	w.accumulateStats(w.solver.Stats())
	w.report(isl)

	if !w.AllowSleep {
		return
	}

	minSleepTime := settings.MaxFloat
	for _, body := range isl.bodies {
		if body.BodyType == actor.BodyTypeStatic {
			continue
		}

		minSleepTime = math.Min(minSleepTime, body.AccumulateSleep(h, settings.LinearSleepTolerance, settings.AngularSleepTolerance))
	}

	if minSleepTime >= settings.TimeToSleep && positionSolved {
		for _, body := range isl.bodies {
			body.SetAwake(false)
		}
	}
}

// report hands the solved impulses to a listener implementing constraint.PostSolver
func (w *World) report(isl *island) {
	postSolver, ok := w.ContactListener.(constraint.PostSolver)
	if !ok {
		return
	}

	constraints := w.solver.VelocityConstraints()
	for i, c := range isl.contacts {
		impulse := constraints[i].Impulse()
		postSolver.PostSolve(c, &impulse)
	}
}

// SolveTOI runs the time of impact position pass on the contacts touching bodyA or
// bodyB, moving only those two bodies. The contacts are updated first. Callers running
// their own time of impact search use it once the bodies are placed at the impact.
// It reports whether the separation ended within tolerance.
func (w *World) SolveTOI(bodyA, bodyB *actor.RigidBody, iterations int) bool {
	w.init()
	listener := w.listener()

	w.island.clear()
	w.island.addBody(bodyA)
	w.island.addBody(bodyB)

	seen := make(map[*constraint.Contact]bool)
	added := map[*actor.RigidBody]bool{bodyA: true, bodyB: true}
	for _, body := range []*actor.RigidBody{bodyA, bodyB} {
		for edge := w.graph.First(body); edge != nil; edge = edge.Next {
			c := edge.Contact
			if seen[c] {
				continue
			}
			seen[c] = true

			if c.GetFixtureA().IsSensor() || c.GetFixtureB().IsSensor() {
				continue
			}

			c.Update(listener)
			if !c.IsEnabled() || !c.IsTouching() {
				continue
			}

			// bodies other than the pair take part with their current position only
			if other := edge.Other; !added[other] {
				w.island.addBody(other)
				added[other] = true
			}
			w.island.addContact(c)
		}
	}

	if len(w.island.contacts) == 0 {
		return true
	}

	step := constraint.TimeStep{DtRatio: 1.0}
	w.solver.Init(step, w.island.contacts, w.island.positions, w.island.velocities)

	solved := false
	for i := 0; i < iterations; i++ {
		if w.solver.SolveTOIPositionConstraints(bodyA.IslandIndex, bodyB.IslandIndex) {
			solved = true
			break
		}
	}

	for _, body := range []*actor.RigidBody{bodyA, bodyB} {
		if body.BodyType == actor.BodyTypeStatic {
			continue
		}

		position := w.island.positions[body.IslandIndex]
		body.Sweep.C0 = position.C
		body.Sweep.A0 = position.A
		body.Sweep.C = position.C
		body.Sweep.A = position.A
		body.SynchronizeTransform()
		body.SynchronizeFixtures()
	}

	return solved
}

// clampVelocity returns v scaled down so that a step of h moves at most limit
func clampVelocity(v mgl64.Vec2, h, limit float64) mgl64.Vec2 {
	translation := v.Mul(h)
	if translation.LenSqr() > limit*limit {
		return v.Mul(limit / translation.Len())
	}
	return v
}
