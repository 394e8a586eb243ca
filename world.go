// Package impulse is a 2D rigid body engine built around a sequential impulse contact
// solver.
//
// A World owns the bodies and the contacts between their fixtures. Each Step pairs the
// fixtures whose bounding boxes overlap, updates the contact manifolds, splits the awake
// bodies in islands over the contact graph, and solves every island: velocity
// integration, contact impulses, position integration, then position correction.
package impulse

import (
	"log"

	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

const DEFAULT_WORKERS = 1

const (
	DEFAULT_VELOCITY_ITERATIONS = 8
	DEFAULT_POSITION_ITERATIONS = 3
)

type World struct {
	// List of all rigid bodies in the world
	Bodies []*actor.RigidBody
	// Gravity acceleration (m/s², or N/kg)
	Gravity mgl64.Vec2

	VelocityIterations int
	PositionIterations int
	// WarmStarting seeds each step with the impulses of the previous one
	WarmStarting bool
	AllowSleep   bool
	// Workers is the number of goroutines used for per body work. Islands are always
	// solved one after the other.
	Workers int
	Config  constraint.Config

	Events Events
	// ContactListener receives the contact callbacks as they happen, after Events.
	// If it implements constraint.PostSolver it also receives the solved impulses.
	ContactListener constraint.Listener

	contacts []*constraint.Contact
	pairs    map[pairKey]*constraint.Contact
	graph    *constraint.ContactGraph
	solver   *constraint.ContactSolver

	island  island
	visited map[*actor.RigidBody]bool
	stack   []*actor.RigidBody

	prevDt float64
	stats  constraint.SolverStats
}

// NewWorld creates a world with the default solver settings
func NewWorld(gravity mgl64.Vec2) *World {
	return &World{
		Gravity:            gravity,
		VelocityIterations: DEFAULT_VELOCITY_ITERATIONS,
		PositionIterations: DEFAULT_POSITION_ITERATIONS,
		WarmStarting:       true,
		AllowSleep:         true,
		Workers:            DEFAULT_WORKERS,
		Config:             constraint.DefaultConfig(),
		Events:             NewEvents(),
	}
}

// init lazily builds the internal state, so that a World literal is usable
func (w *World) init() {
	if w.pairs == nil {
		w.pairs = make(map[pairKey]*constraint.Contact)
	}
	if w.graph == nil {
		w.graph = constraint.NewContactGraph()
	}
	if w.visited == nil {
		w.visited = make(map[*actor.RigidBody]bool)
	}
	if w.Events.listeners == nil {
		w.Events = NewEvents()
	}
	if w.solver == nil || w.solver.Config() != w.Config {
		w.solver = constraint.NewContactSolver(w.Config)
	}
}

// listener returns the chain notified by contact updates
func (w *World) listener() constraint.Listener {
	if w.ContactListener == nil {
		return &w.Events
	}

	return listenerChain{&w.Events, w.ContactListener}
}

// AddBody adds a rigid body to the world. Its contacts are created on the next Step.
func (w *World) AddBody(body *actor.RigidBody) {
	body.SynchronizeFixtures()
	w.Bodies = append(w.Bodies, body)
}

// RemoveBody removes a rigid body from the world, destroying its contacts.
// The listeners get an end notification for the touching ones.
func (w *World) RemoveBody(body *actor.RigidBody) {
	k := -1
	for i, b := range w.Bodies {
		if b == body {
			k = i
			break
		}
	}

	if k == -1 {
		return
	}
	w.Bodies = append(w.Bodies[:k], w.Bodies[k+1:]...)

	w.init()
	listener := w.listener()
	destroyed := make(map[*constraint.Contact]bool)
	for edge := w.graph.First(body); edge != nil; {
		next := edge.Next
		destroyed[edge.Contact] = true
		w.destroyContact(edge.Contact, listener)
		edge = next
	}

	n := 0
	for _, c := range w.contacts {
		if !destroyed[c] {
			w.contacts[n] = c
			n++
		}
	}
	clear(w.contacts[n:])
	w.contacts = w.contacts[:n]

	w.Events.forget(body)
}

// Contacts returns the contacts alive after the last Step, touching or not
func (w *World) Contacts() []*constraint.Contact {
	return w.contacts
}

// ContactsOf returns the number of contacts linked to body
func (w *World) ContactsOf(body *actor.RigidBody) int {
	w.init()
	return w.graph.Count(body)
}

// SolverStats returns the solver fallbacks counted during the last Step
func (w *World) SolverStats() constraint.SolverStats {
	return w.stats
}

func (w *World) accumulateStats(stats constraint.SolverStats) {
	w.stats.IllConditioned += stats.IllConditioned
	w.stats.BlockSolverMisses += stats.BlockSolverMisses
}

// Step advances the world by dt seconds
func (w *World) Step(dt float64) {
	w.Workers = max(DEFAULT_WORKERS, w.Workers)
	w.init()
	w.stats = constraint.SolverStats{}

	// Phase 1: pair the fixtures whose bounding boxes started overlapping
	w.findNewContacts()

	// Phase 2: update the manifolds, destroy the contacts that stopped overlapping
	w.collide()

	// Phase 3: solve the islands
	if dt > 0.0 {
		step := constraint.NewTimeStep(dt, w.prevDt, w.VelocityIterations, w.PositionIterations, w.WarmStarting)
		w.solve(step)
		w.prevDt = dt
	}

	if w.Config.Debug && w.stats.BlockSolverMisses > 0 {
		log.Printf("impulse: block solver found no solution %d times", w.stats.BlockSolverMisses)
	}

	task(w.Workers, w.Bodies, func(body *actor.RigidBody) {
		body.ClearForces()
	})

	w.Events.processSleepEvents(w.Bodies)
	w.Events.flush(w.contacts)
}
