package actor

import (
	"github.com/go-gl/mathgl/mgl64"
)

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies are affected by forces, gravity, and collisions
	// They have finite mass and can move freely
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies are immovable and have infinite mass
	// They are not affected by forces or gravity (e.g., ground, walls)
	BodyTypeStatic

	// BodyTypeKinematic bodies move with their velocity only
	// They have infinite mass and push dynamic bodies without being pushed back
	BodyTypeKinematic
)

// RigidBody represents a rigid body in the physics simulation
type RigidBody struct {
	Id interface{}

	// Spatial properties, Transform is the body origin, Sweep tracks the center of mass
	Transform Transform
	Sweep     Sweep

	Velocity        mgl64.Vec2 // Linear velocity of the center of mass (m/s)
	AngularVelocity float64    // rad/s

	mass, invMass float64
	// Rotational inertia about the center of mass
	inertia, invI float64

	accumulatedForce  mgl64.Vec2
	accumulatedTorque float64

	LinearDamping  float64
	AngularDamping float64
	GravityScale   float64

	IsSleeping bool
	SleepTimer float64

	// IslandIndex is the index of the body in the island being solved
	IslandIndex int

	BodyType BodyType
	Fixtures []*Fixture
}

// NewRigidBody creates a body at the given transform, without fixtures.
// Dynamic bodies get a unit mass until a fixture with density is attached.
func NewRigidBody(transform Transform, bodyType BodyType) *RigidBody {
	rb := &RigidBody{
		Transform:    transform,
		BodyType:     bodyType,
		GravityScale: 1.0,
	}

	rb.Sweep = Sweep{
		C0: transform.Position,
		C:  transform.Position,
		A0: transform.Angle(),
		A:  transform.Angle(),
	}

	rb.ResetMassData()

	return rb
}

// CreateFixture attaches shape to the body and updates the mass data
func (rb *RigidBody) CreateFixture(shape ShapeInterface, density float64) *Fixture {
	fixture := &Fixture{
		Shape: shape,
		Body:  rb,
		Material: Material{
			Density:  density,
			Friction: DefaultFriction,
		},
	}
	fixture.Synchronize(rb.Transform)

	rb.Fixtures = append(rb.Fixtures, fixture)
	if density > 0.0 {
		rb.ResetMassData()
	}

	return fixture
}

// ResetMassData recomputes mass, inertia and center of mass from the fixtures.
// Static and kinematic bodies keep zero inverse mass.
func (rb *RigidBody) ResetMassData() {
	rb.mass = 0.0
	rb.invMass = 0.0
	rb.inertia = 0.0
	rb.invI = 0.0
	rb.Sweep.LocalCenter = mgl64.Vec2{}

	if rb.BodyType != BodyTypeDynamic {
		rb.Sweep.C0 = rb.Transform.Position
		rb.Sweep.C = rb.Transform.Position
		rb.Sweep.A0 = rb.Sweep.A
		return
	}

	var localCenter mgl64.Vec2
	for _, f := range rb.Fixtures {
		if f.Material.Density == 0.0 {
			continue
		}

		massData := f.Shape.ComputeMass(f.Material.Density)
		rb.mass += massData.Mass
		localCenter = localCenter.Add(massData.Center.Mul(massData.Mass))
		rb.inertia += massData.I
	}

	if rb.mass > 0.0 {
		rb.invMass = 1.0 / rb.mass
		localCenter = localCenter.Mul(rb.invMass)
	} else {
		// Force all dynamic bodies to have a positive mass.
		rb.mass = 1.0
		rb.invMass = 1.0
	}

	if rb.inertia > 0.0 {
		// Center the inertia about the center of mass.
		rb.inertia -= rb.mass * localCenter.Dot(localCenter)
		rb.invI = 1.0 / rb.inertia
	} else {
		rb.inertia = 0.0
		rb.invI = 0.0
	}

	// Move the center of mass and keep the velocity of the origin unchanged.
	oldCenter := rb.Sweep.C
	rb.Sweep.LocalCenter = localCenter
	rb.Sweep.C = rb.Transform.Apply(localCenter)
	rb.Sweep.C0 = rb.Sweep.C

	rb.Velocity = rb.Velocity.Add(CrossSV(rb.AngularVelocity, rb.Sweep.C.Sub(oldCenter)))
}

func (rb *RigidBody) GetTransform() Transform {
	return rb.Transform
}

// SetTransform teleports the body origin, the sweep is reset
func (rb *RigidBody) SetTransform(position mgl64.Vec2, angle float64) {
	rb.Transform.Set(position, angle)

	rb.Sweep.C = rb.Transform.Apply(rb.Sweep.LocalCenter)
	rb.Sweep.A = angle
	rb.Sweep.C0 = rb.Sweep.C
	rb.Sweep.A0 = angle

	for _, f := range rb.Fixtures {
		f.Synchronize(rb.Transform)
	}
}

// SynchronizeTransform rebuilds the origin transform from the sweep
func (rb *RigidBody) SynchronizeTransform() {
	rb.Transform = rb.Sweep.Transform()
}

// SynchronizeFixtures refreshes the fixture bounding boxes
func (rb *RigidBody) SynchronizeFixtures() {
	for _, f := range rb.Fixtures {
		f.Synchronize(rb.Transform)
	}
}

func (rb *RigidBody) GetMass() float64 {
	return rb.mass
}

func (rb *RigidBody) GetInvMass() float64 {
	return rb.invMass
}

// GetInertia returns the rotational inertia about the center of mass
func (rb *RigidBody) GetInertia() float64 {
	return rb.inertia
}

func (rb *RigidBody) GetInvI() float64 {
	return rb.invI
}

func (rb *RigidBody) GetLocalCenter() mgl64.Vec2 {
	return rb.Sweep.LocalCenter
}

func (rb *RigidBody) GetWorldCenter() mgl64.Vec2 {
	return rb.Sweep.C
}

func (rb *RigidBody) GetLinearVelocity() mgl64.Vec2 {
	return rb.Velocity
}

func (rb *RigidBody) SetLinearVelocity(v mgl64.Vec2) {
	if rb.BodyType == BodyTypeStatic {
		return
	}
	if v.Dot(v) > 0.0 {
		rb.Awake()
	}
	rb.Velocity = v
}

func (rb *RigidBody) GetAngularVelocity() float64 {
	return rb.AngularVelocity
}

func (rb *RigidBody) SetAngularVelocity(w float64) {
	if rb.BodyType == BodyTypeStatic {
		return
	}
	if w*w > 0.0 {
		rb.Awake()
	}
	rb.AngularVelocity = w
}

// SetAwake wakes the body up or puts it to sleep. Static bodies never move and
// ignore the call.
func (rb *RigidBody) SetAwake(awake bool) {
	if rb.BodyType == BodyTypeStatic {
		return
	}
	if awake {
		rb.Awake()
	} else {
		rb.Sleep()
	}
}

func (rb *RigidBody) IsAwake() bool {
	return !rb.IsSleeping
}

// AccumulateSleep adds dt to the sleep timer when the body moves slower than the
// tolerances, resets it otherwise. Returns the updated timer.
func (rb *RigidBody) AccumulateSleep(dt float64, linearTolerance, angularTolerance float64) float64 {
	if rb.AngularVelocity*rb.AngularVelocity > angularTolerance*angularTolerance ||
		rb.Velocity.Dot(rb.Velocity) > linearTolerance*linearTolerance {
		rb.SleepTimer = 0.0
	} else {
		rb.SleepTimer += dt
	}

	return rb.SleepTimer
}

func (rb *RigidBody) Sleep() {
	rb.IsSleeping = true
	rb.SleepTimer = 0.0

	rb.ClearForces()
	rb.Velocity = mgl64.Vec2{}
	rb.AngularVelocity = 0.0
}

// Awake clears the sleeping flag. The sleep timer restarts only when the body was
// asleep, so waking an awake body keeps its accumulated rest time.
func (rb *RigidBody) Awake() {
	if !rb.IsSleeping {
		return
	}
	rb.IsSleeping = false
	rb.SleepTimer = 0.0
}

// ApplyForce applies a world force at a world point
func (rb *RigidBody) ApplyForce(force mgl64.Vec2, point mgl64.Vec2) {
	if rb.BodyType != BodyTypeDynamic {
		return
	}
	rb.Awake()

	rb.accumulatedForce = rb.accumulatedForce.Add(force)
	rb.accumulatedTorque += Cross(point.Sub(rb.Sweep.C), force)
}

// ApplyForceToCenter applies a world force at the center of mass
func (rb *RigidBody) ApplyForceToCenter(force mgl64.Vec2) {
	if rb.BodyType != BodyTypeDynamic {
		return
	}
	rb.Awake()

	rb.accumulatedForce = rb.accumulatedForce.Add(force)
}

func (rb *RigidBody) ApplyTorque(torque float64) {
	if rb.BodyType != BodyTypeDynamic {
		return
	}
	rb.Awake()

	rb.accumulatedTorque += torque
}

// ApplyLinearImpulse changes the velocity immediately, impulse in N·s
func (rb *RigidBody) ApplyLinearImpulse(impulse mgl64.Vec2, point mgl64.Vec2) {
	if rb.BodyType != BodyTypeDynamic {
		return
	}
	rb.Awake()

	rb.Velocity = rb.Velocity.Add(impulse.Mul(rb.invMass))
	rb.AngularVelocity += rb.invI * Cross(point.Sub(rb.Sweep.C), impulse)
}

func (rb *RigidBody) GetForce() mgl64.Vec2 {
	return rb.accumulatedForce
}

func (rb *RigidBody) GetTorque() float64 {
	return rb.accumulatedTorque
}

func (rb *RigidBody) ClearForces() {
	rb.accumulatedForce = mgl64.Vec2{}
	rb.accumulatedTorque = 0.0
}

// ShouldCollide reports whether contacts between the two bodies can do anything:
// at least one of them must be dynamic
func (rb *RigidBody) ShouldCollide(other *RigidBody) bool {
	if rb == other {
		return false
	}

	return rb.BodyType == BodyTypeDynamic || other.BodyType == BodyTypeDynamic
}
