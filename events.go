package impulse

import (
	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/collision"
	"github.com/akmonengine/impulse/constraint"
)

const (
	TRIGGER_ENTER EventType = iota
	COLLISION_ENTER
	TRIGGER_STAY
	COLLISION_STAY
	TRIGGER_EXIT
	COLLISION_EXIT
	ON_SLEEP
	ON_WAKE
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// ContactEvent is the payload shared by trigger and collision events
type ContactEvent struct {
	BodyA   *actor.RigidBody
	BodyB   *actor.RigidBody
	Contact *constraint.Contact
}

func newContactEvent(c *constraint.Contact) ContactEvent {
	return ContactEvent{
		BodyA:   c.GetFixtureA().GetBody(),
		BodyB:   c.GetFixtureB().GetBody(),
		Contact: c,
	}
}

// Trigger events, emitted for contacts with a sensor fixture
type TriggerEnterEvent struct{ ContactEvent }

func (e TriggerEnterEvent) Type() EventType { return TRIGGER_ENTER }

type TriggerStayEvent struct{ ContactEvent }

func (e TriggerStayEvent) Type() EventType { return TRIGGER_STAY }

type TriggerExitEvent struct{ ContactEvent }

func (e TriggerExitEvent) Type() EventType { return TRIGGER_EXIT }

// Collision events
type CollisionEnterEvent struct{ ContactEvent }

func (e CollisionEnterEvent) Type() EventType { return COLLISION_ENTER }

type CollisionStayEvent struct{ ContactEvent }

func (e CollisionStayEvent) Type() EventType { return COLLISION_STAY }

// CollisionExitEvent may reference a contact already destroyed by the world
type CollisionExitEvent struct{ ContactEvent }

func (e CollisionExitEvent) Type() EventType { return COLLISION_EXIT }

// Sleep/Wake events
type SleepEvent struct {
	Body *actor.RigidBody
}

func (e SleepEvent) Type() EventType { return ON_SLEEP }

type WakeEvent struct {
	Body *actor.RigidBody
}

func (e WakeEvent) Type() EventType { return ON_WAKE }

// EventListener - callback for events
type EventListener func(event Event)

// Events buffers the contact and sleep notifications of a step and dispatches them to
// the subscribed listeners once the step is over, so listeners may safely change the
// world. It implements constraint.Listener.
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	// contacts that began touching during the step, they get no Stay event
	entered map[*constraint.Contact]bool

	sleepStates map[*actor.RigidBody]bool
}

func NewEvents() Events {
	return Events{
		listeners:   make(map[EventType][]EventListener),
		buffer:      make([]Event, 0, 256),
		entered:     make(map[*constraint.Contact]bool),
		sleepStates: make(map[*actor.RigidBody]bool),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

func isTrigger(c *constraint.Contact) bool {
	return c.GetFixtureA().IsSensor() || c.GetFixtureB().IsSensor()
}

func (e *Events) BeginContact(c *constraint.Contact) {
	e.entered[c] = true

	if isTrigger(c) {
		e.buffer = append(e.buffer, TriggerEnterEvent{newContactEvent(c)})
	} else {
		e.buffer = append(e.buffer, CollisionEnterEvent{newContactEvent(c)})
	}
}

func (e *Events) EndContact(c *constraint.Contact) {
	delete(e.entered, c)

	if isTrigger(c) {
		e.buffer = append(e.buffer, TriggerExitEvent{newContactEvent(c)})
	} else {
		e.buffer = append(e.buffer, CollisionExitEvent{newContactEvent(c)})
	}
}

// PreSolve is a no-op, events are only about touching state
func (e *Events) PreSolve(c *constraint.Contact, oldManifold *collision.Manifold) {}

// processStayEvents emits a Stay event for every contact still touching that did not
// begin during this step
func (e *Events) processStayEvents(contacts []*constraint.Contact) {
	for _, c := range contacts {
		if !c.IsTouching() || e.entered[c] {
			continue
		}

		bodyA := c.GetFixtureA().GetBody()
		bodyB := c.GetFixtureB().GetBody()
		// Skip if both bodies are sleeping, to avoid spamming events
		if !bodyA.IsAwake() && !bodyB.IsAwake() {
			continue
		}

		if isTrigger(c) {
			e.buffer = append(e.buffer, TriggerStayEvent{newContactEvent(c)})
		} else {
			e.buffer = append(e.buffer, CollisionStayEvent{newContactEvent(c)})
		}
	}

	clear(e.entered)
}

func (e *Events) processSleepEvents(bodies []*actor.RigidBody) {
	for _, body := range bodies {
		trackedState, exists := e.sleepStates[body]
		if !exists {
			e.sleepStates[body] = body.IsSleeping
			continue
		}

		if !trackedState && body.IsSleeping {
			e.buffer = append(e.buffer, SleepEvent{Body: body})
			e.sleepStates[body] = true
		} else if trackedState && !body.IsSleeping {
			e.buffer = append(e.buffer, WakeEvent{Body: body})
			e.sleepStates[body] = false
		}
	}
}

// forget drops the tracking state of a removed body
func (e *Events) forget(body *actor.RigidBody) {
	delete(e.sleepStates, body)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush(contacts []*constraint.Contact) {
	e.processStayEvents(contacts)

	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}

// listenerChain forwards the contact callbacks to every listener in order
type listenerChain []constraint.Listener

func (l listenerChain) BeginContact(c *constraint.Contact) {
	for _, listener := range l {
		listener.BeginContact(c)
	}
}

func (l listenerChain) EndContact(c *constraint.Contact) {
	for _, listener := range l {
		listener.EndContact(c)
	}
}

func (l listenerChain) PreSolve(c *constraint.Contact, oldManifold *collision.Manifold) {
	for _, listener := range l {
		listener.PreSolve(c, oldManifold)
	}
}
