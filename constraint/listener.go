package constraint

import (
	"github.com/akmonengine/impulse/collision"
	"github.com/akmonengine/impulse/settings"
)

// Listener receives the contact notifications of Contact.Update.
//
// BeginContact and EndContact are called when the touching state toggles.
// PreSolve is called for every touching, non sensor contact before it is solved, with
// the manifold of the previous step; it may disable the contact for the current step
// with SetEnabled(false).
type Listener interface {
	BeginContact(contact *Contact)
	EndContact(contact *Contact)
	PreSolve(contact *Contact, oldManifold *collision.Manifold)
}

// ContactImpulse holds the impulses applied to a contact during the velocity solve
type ContactImpulse struct {
	NormalImpulses  [settings.MaxManifoldPoints]float64
	TangentImpulses [settings.MaxManifoldPoints]float64
	Count           int
}

// PostSolver is implemented by listeners that want the solved impulses
type PostSolver interface {
	PostSolve(contact *Contact, impulse *ContactImpulse)
}
