package constraint

import (
	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/collision"
)

// EvaluateFunc fills manifold for the given fixture children at the given transforms.
// It must set PointCount, Type, LocalNormal, LocalPoint and every point's LocalPoint
// and ID. Impulses are handled by the caller.
type EvaluateFunc func(manifold *collision.Manifold, fixtureA *actor.Fixture, indexA int, fixtureB *actor.Fixture, indexB int, xfA, xfB actor.Transform)

type registration struct {
	evaluate EvaluateFunc
	// primary is false for the mirrored entry: fixtures must be swapped
	primary bool
}

var registry [actor.ShapeTypeCount][actor.ShapeTypeCount]registration

// RegisterEvaluator sets the narrow phase used between shapes of typeA and typeB.
// Pairs created in the other order are swapped so that evaluate always receives a
// typeA fixture first.
func RegisterEvaluator(typeA, typeB actor.ShapeType, evaluate EvaluateFunc) {
	registry[typeA][typeB] = registration{evaluate: evaluate, primary: true}
	if typeA != typeB {
		registry[typeB][typeA] = registration{evaluate: evaluate, primary: false}
	}
}

func init() {
	RegisterEvaluator(actor.ShapeTypeCircle, actor.ShapeTypeCircle, evaluateCircles)
	RegisterEvaluator(actor.ShapeTypePolygon, actor.ShapeTypeCircle, evaluatePolygonAndCircle)
	RegisterEvaluator(actor.ShapeTypePolygon, actor.ShapeTypePolygon, evaluatePolygons)
}

func evaluateCircles(manifold *collision.Manifold, fixtureA *actor.Fixture, _ int, fixtureB *actor.Fixture, _ int, xfA, xfB actor.Transform) {
	collision.CollideCircles(manifold, fixtureA.Shape.(*actor.Circle), xfA, fixtureB.Shape.(*actor.Circle), xfB)
}

func evaluatePolygonAndCircle(manifold *collision.Manifold, fixtureA *actor.Fixture, _ int, fixtureB *actor.Fixture, _ int, xfA, xfB actor.Transform) {
	collision.CollidePolygonAndCircle(manifold, fixtureA.Shape.(*actor.Polygon), xfA, fixtureB.Shape.(*actor.Circle), xfB)
}

func evaluatePolygons(manifold *collision.Manifold, fixtureA *actor.Fixture, _ int, fixtureB *actor.Fixture, _ int, xfA, xfB actor.Transform) {
	collision.CollidePolygons(manifold, fixtureA.Shape.(*actor.Polygon), xfA, fixtureB.Shape.(*actor.Polygon), xfB)
}

// Contact is the persistent pairing of two fixtures whose bounding boxes overlap.
// It exists from the first overlap reported by the pairing phase until the boxes stop
// overlapping, and may or may not be touching in between.
type Contact struct {
	flags ContactFlags

	// graph nodes, one per body
	nodeA, nodeB ContactEdge

	fixtureA, fixtureB *actor.Fixture
	indexA, indexB     int

	Manifold collision.Manifold

	toiCount int
	toi      float64

	friction     float64
	restitution  float64
	tangentSpeed float64

	evaluate EvaluateFunc
}

// NewContact creates the contact between two fixture children with the registered
// evaluator of their shape types. Fixtures may be swapped to match the evaluator order.
// It returns nil when no evaluator handles the pair.
func NewContact(fixtureA *actor.Fixture, indexA int, fixtureB *actor.Fixture, indexB int) *Contact {
	reg := registry[fixtureA.GetType()][fixtureB.GetType()]
	if reg.evaluate == nil {
		return nil
	}

	if !reg.primary {
		fixtureA, fixtureB = fixtureB, fixtureA
		indexA, indexB = indexB, indexA
	}

	return NewContactWithEvaluator(fixtureA, indexA, fixtureB, indexB, reg.evaluate)
}

// NewContactWithEvaluator creates a contact using a caller supplied narrow phase
func NewContactWithEvaluator(fixtureA *actor.Fixture, indexA int, fixtureB *actor.Fixture, indexB int, evaluate EvaluateFunc) *Contact {
	c := &Contact{evaluate: evaluate}
	c.Init(fixtureA, indexA, fixtureB, indexB)

	return c
}

// Init resets the contact for a new pair of fixtures, keeping the evaluator
func (c *Contact) Init(fixtureA *actor.Fixture, indexA int, fixtureB *actor.Fixture, indexB int) {
	c.flags = FlagEnabled

	c.fixtureA = fixtureA
	c.fixtureB = fixtureB
	c.indexA = indexA
	c.indexB = indexB

	c.Manifold.PointCount = 0

	c.nodeA = ContactEdge{}
	c.nodeB = ContactEdge{}

	c.toiCount = 0
	c.toi = 0.0

	c.friction = MixFriction(fixtureA.GetFriction(), fixtureB.GetFriction())
	c.restitution = MixRestitution(fixtureA.GetRestitution(), fixtureB.GetRestitution())
	c.tangentSpeed = 0.0
}

// Update refreshes the manifold at the current body transforms, carries the impulses
// of the points that persist, and notifies listener. listener may be nil.
func (c *Contact) Update(listener Listener) {
	oldManifold := c.Manifold

	// Re-enable this contact, a pre-solve callback may disable it again.
	c.flags.Set(FlagEnabled)

	wasTouching := c.flags.Has(FlagTouching)
	touching := false

	sensor := c.fixtureA.IsSensor() || c.fixtureB.IsSensor()

	bodyA := c.fixtureA.GetBody()
	bodyB := c.fixtureB.GetBody()
	xfA := bodyA.GetTransform()
	xfB := bodyB.GetTransform()

	if sensor {
		touching = collision.TestOverlap(c.fixtureA.GetShape(), c.indexA, c.fixtureB.GetShape(), c.indexB, xfA, xfB)

		// Sensors don't generate manifolds.
		c.Manifold.PointCount = 0
	} else {
		c.evaluate(&c.Manifold, c.fixtureA, c.indexA, c.fixtureB, c.indexB, xfA, xfB)
		touching = c.Manifold.PointCount > 0

		// Match the new points to the old ones by feature ID. Order and count may
		// change, an unmatched point starts with no impulse.
		for i := 0; i < c.Manifold.PointCount; i++ {
			mp2 := &c.Manifold.Points[i]
			mp2.NormalImpulse = 0.0
			mp2.TangentImpulse = 0.0

			if j := oldManifold.FindPoint(mp2.ID); j >= 0 {
				mp2.NormalImpulse = oldManifold.Points[j].NormalImpulse
				mp2.TangentImpulse = oldManifold.Points[j].TangentImpulse
			}
		}

		if touching != wasTouching {
			bodyA.SetAwake(true)
			bodyB.SetAwake(true)
		}
	}

	c.flags.SetTo(FlagTouching, touching)

	if listener == nil {
		return
	}

	if !wasTouching && touching {
		listener.BeginContact(c)
	}
	if wasTouching && !touching {
		listener.EndContact(c)
	}
	if !sensor && touching {
		listener.PreSolve(c, &oldManifold)
	}
}

func (c *Contact) GetFixtureA() *actor.Fixture {
	return c.fixtureA
}

func (c *Contact) GetFixtureB() *actor.Fixture {
	return c.fixtureB
}

func (c *Contact) GetChildIndexA() int {
	return c.indexA
}

func (c *Contact) GetChildIndexB() int {
	return c.indexB
}

func (c *Contact) GetManifold() *collision.Manifold {
	return &c.Manifold
}

// GetWorldManifold evaluates the manifold at the current body transforms
func (c *Contact) GetWorldManifold(worldManifold *collision.WorldManifold) {
	worldManifold.Initialize(
		&c.Manifold,
		c.fixtureA.GetBody().GetTransform(), c.fixtureA.GetShape().GetRadius(),
		c.fixtureB.GetBody().GetTransform(), c.fixtureB.GetShape().GetRadius(),
	)
}

func (c *Contact) Flags() ContactFlags {
	return c.flags
}

func (c *Contact) IsTouching() bool {
	return c.flags.Has(FlagTouching)
}

func (c *Contact) IsEnabled() bool {
	return c.flags.Has(FlagEnabled)
}

// SetEnabled disables the contact for the current step only, Update enables it again
func (c *Contact) SetEnabled(enabled bool) {
	c.flags.SetTo(FlagEnabled, enabled)
}

// FlagForFiltering asks the world to re-check the pair filter before the next update
func (c *Contact) FlagForFiltering() {
	c.flags.Set(FlagFilter)
}

func (c *Contact) IsFlaggedForFiltering() bool {
	return c.flags.Has(FlagFilter)
}

func (c *Contact) ClearFiltering() {
	c.flags.Clear(FlagFilter)
}

func (c *Contact) InIsland() bool {
	return c.flags.Has(FlagIsland)
}

func (c *Contact) SetInIsland(in bool) {
	c.flags.SetTo(FlagIsland, in)
}

func (c *Contact) IsBulletHit() bool {
	return c.flags.Has(FlagBulletHit)
}

func (c *Contact) SetBulletHit(hit bool) {
	c.flags.SetTo(FlagBulletHit, hit)
}

// GetTOI returns the cached time of impact and whether it is valid
func (c *Contact) GetTOI() (float64, bool) {
	return c.toi, c.flags.Has(FlagTOI)
}

func (c *Contact) SetTOI(toi float64) {
	c.toi = toi
	c.flags.Set(FlagTOI)
	c.toiCount++
}

// InvalidateTOI clears the cached time of impact, the TOI counter is kept
func (c *Contact) InvalidateTOI() {
	c.flags.Clear(FlagTOI)
}

func (c *Contact) GetTOICount() int {
	return c.toiCount
}

// ResetTOICount is called at the start of each step
func (c *Contact) ResetTOICount() {
	c.toiCount = 0
	c.flags.Clear(FlagTOI)
}

func (c *Contact) GetFriction() float64 {
	return c.friction
}

// SetFriction overrides the mixed friction until ResetFriction is called.
// Usually called from a pre-solve callback.
func (c *Contact) SetFriction(friction float64) {
	c.friction = friction
}

func (c *Contact) ResetFriction() {
	c.friction = MixFriction(c.fixtureA.GetFriction(), c.fixtureB.GetFriction())
}

func (c *Contact) GetRestitution() float64 {
	return c.restitution
}

// SetRestitution overrides the mixed restitution until ResetRestitution is called
func (c *Contact) SetRestitution(restitution float64) {
	c.restitution = restitution
}

func (c *Contact) ResetRestitution() {
	c.restitution = MixRestitution(c.fixtureA.GetRestitution(), c.fixtureB.GetRestitution())
}

// GetTangentSpeed returns the target surface speed along the tangent, in m/s
func (c *Contact) GetTangentSpeed() float64 {
	return c.tangentSpeed
}

// SetTangentSpeed makes the contact behave like a conveyor belt
func (c *Contact) SetTangentSpeed(speed float64) {
	c.tangentSpeed = speed
}
