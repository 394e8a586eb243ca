package constraint

import "github.com/akmonengine/impulse/actor"

// ContactEdge links a contact into the contact list of one of its bodies.
// Each contact owns two edges, one per body.
type ContactEdge struct {
	Other   *actor.RigidBody // the other body of the contact
	Contact *Contact
	Prev    *ContactEdge
	Next    *ContactEdge
}

// ContactGraph keeps, for every body, the doubly linked list of its contacts
type ContactGraph struct {
	heads map[*actor.RigidBody]*ContactEdge
}

func NewContactGraph() *ContactGraph {
	return &ContactGraph{
		heads: make(map[*actor.RigidBody]*ContactEdge),
	}
}

// Link adds the contact to the lists of both its bodies
func (g *ContactGraph) Link(c *Contact) {
	bodyA := c.fixtureA.GetBody()
	bodyB := c.fixtureB.GetBody()

	g.push(bodyA, &c.nodeA, c, bodyB)
	g.push(bodyB, &c.nodeB, c, bodyA)
}

func (g *ContactGraph) push(body *actor.RigidBody, edge *ContactEdge, c *Contact, other *actor.RigidBody) {
	edge.Contact = c
	edge.Other = other
	edge.Prev = nil
	edge.Next = g.heads[body]
	if edge.Next != nil {
		edge.Next.Prev = edge
	}
	g.heads[body] = edge
}

// Unlink removes the contact from the lists of both its bodies
func (g *ContactGraph) Unlink(c *Contact) {
	g.remove(c.fixtureA.GetBody(), &c.nodeA)
	g.remove(c.fixtureB.GetBody(), &c.nodeB)
}

func (g *ContactGraph) remove(body *actor.RigidBody, edge *ContactEdge) {
	if edge.Prev != nil {
		edge.Prev.Next = edge.Next
	}
	if edge.Next != nil {
		edge.Next.Prev = edge.Prev
	}

	if g.heads[body] == edge {
		if edge.Next != nil {
			g.heads[body] = edge.Next
		} else {
			delete(g.heads, body)
		}
	}

	edge.Prev = nil
	edge.Next = nil
}

// First returns the head of the contact list of body, nil if it has no contact
func (g *ContactGraph) First(body *actor.RigidBody) *ContactEdge {
	return g.heads[body]
}

// Count returns the number of contacts of body
func (g *ContactGraph) Count(body *actor.RigidBody) int {
	n := 0
	for e := g.heads[body]; e != nil; e = e.Next {
		n++
	}
	return n
}
