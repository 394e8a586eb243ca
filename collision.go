package impulse

import (
	"unsafe"

	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/constraint"
)

type pairKey struct {
	fixtureA *actor.Fixture
	fixtureB *actor.Fixture
	indexA   int
	indexB   int
}

// makePairKey creates a normalized pair key with consistent ordering, used to look
// pairs up whatever order their fixtures come in
func makePairKey(fixtureA *actor.Fixture, indexA int, fixtureB *actor.Fixture, indexB int) pairKey {
	ptrA := uintptr(unsafe.Pointer(fixtureA))
	ptrB := uintptr(unsafe.Pointer(fixtureB))

	if ptrB < ptrA || (ptrB == ptrA && indexB < indexA) {
		fixtureA, fixtureB = fixtureB, fixtureA
		indexA, indexB = indexB, indexA
	}

	return pairKey{fixtureA: fixtureA, fixtureB: fixtureB, indexA: indexA, indexB: indexB}
}

func contactKey(c *constraint.Contact) pairKey {
	return makePairKey(c.GetFixtureA(), c.GetChildIndexA(), c.GetFixtureB(), c.GetChildIndexB())
}

// broadPhase returns the fixture children whose bounding boxes overlap and that are not
// paired yet. Pairs are ordered by body, then fixture, and keep the body order inside
// each pair, so that contacts are created the same way on every run.
// This is an O(n²) brute-force approach suitable for small numbers of bodies.
func (w *World) broadPhase() []pairKey {
	rows := make([][]pairKey, len(w.Bodies))
	indices := make([]int, len(w.Bodies))
	for i := range indices {
		indices[i] = i
	}

	// the pairs map is only read during the scan
	task(w.Workers, indices, func(i int) {
		bodyA := w.Bodies[i]
		for j := i + 1; j < len(w.Bodies); j++ {
			bodyB := w.Bodies[j]
			if !bodyA.ShouldCollide(bodyB) {
				continue
			}

			rows[i] = w.overlappingFixtures(bodyA, bodyB, rows[i])
		}
	})

	var pairs []pairKey
	for _, row := range rows {
		pairs = append(pairs, row...)
	}

	return pairs
}

func (w *World) overlappingFixtures(bodyA, bodyB *actor.RigidBody, pairs []pairKey) []pairKey {
	for _, fixtureA := range bodyA.Fixtures {
		for _, fixtureB := range bodyB.Fixtures {
			if !fixtureA.GetAABB().Overlaps(fixtureB.GetAABB()) {
				continue
			}

			for indexA := 0; indexA < fixtureA.GetShape().ChildCount(); indexA++ {
				for indexB := 0; indexB < fixtureB.GetShape().ChildCount(); indexB++ {
					if _, ok := w.pairs[makePairKey(fixtureA, indexA, fixtureB, indexB)]; ok {
						continue
					}
					pairs = append(pairs, pairKey{fixtureA: fixtureA, fixtureB: fixtureB, indexA: indexA, indexB: indexB})
				}
			}
		}
	}

	return pairs
}

// findNewContacts creates a contact for every new overlapping pair
func (w *World) findNewContacts() {
	for _, pair := range w.broadPhase() {
		c := constraint.NewContact(pair.fixtureA, pair.indexA, pair.fixtureB, pair.indexB)
		if c == nil {
			continue
		}

		w.pairs[makePairKey(pair.fixtureA, pair.indexA, pair.fixtureB, pair.indexB)] = c
		w.contacts = append(w.contacts, c)
		w.graph.Link(c)

		// Wake up the bodies so the new contact gets a chance to be solved
		if !c.GetFixtureA().IsSensor() && !c.GetFixtureB().IsSensor() {
			c.GetFixtureA().GetBody().SetAwake(true)
			c.GetFixtureB().GetBody().SetAwake(true)
		}
	}
}

// collide updates every contact, destroying those whose bounding boxes no longer
// overlap or whose bodies should no longer collide
func (w *World) collide() {
	listener := w.listener()

	n := 0
	for _, c := range w.contacts {
		fixtureA := c.GetFixtureA()
		fixtureB := c.GetFixtureB()
		bodyA := fixtureA.GetBody()
		bodyB := fixtureB.GetBody()

		if c.IsFlaggedForFiltering() {
			if !bodyA.ShouldCollide(bodyB) {
				w.destroyContact(c, listener)
				continue
			}
			c.ClearFiltering()
		}

		activeA := bodyA.IsAwake() && bodyA.BodyType != actor.BodyTypeStatic
		activeB := bodyB.IsAwake() && bodyB.BodyType != actor.BodyTypeStatic

		// At least one body must be awake and it must be dynamic or kinematic.
		if !activeA && !activeB {
			w.contacts[n] = c
			n++
			continue
		}

		if !fixtureA.GetAABB().Overlaps(fixtureB.GetAABB()) {
			w.destroyContact(c, listener)
			continue
		}

		// The contact persists.
		c.Update(listener)
		w.contacts[n] = c
		n++
	}

	clear(w.contacts[n:])
	w.contacts = w.contacts[:n]
}

// destroyContact unlinks c from the graph and the pair map. The caller removes it from
// the contact list.
func (w *World) destroyContact(c *constraint.Contact, listener constraint.Listener) {
	if c.IsTouching() && listener != nil {
		listener.EndContact(c)
	}

	w.graph.Unlink(c)
	delete(w.pairs, contactKey(c))
}
