package actor

// DefaultFriction is the friction given to new fixtures
const DefaultFriction = 0.2

type Material struct {
	Density     float64
	Friction    float64 // Coulomb friction coefficient, usually in [0,1]
	Restitution float64 // 0= no rebound, 1= perfect restitution
}

// Fixture binds a shape to a body with the material used by the contact solver.
// A sensor fixture detects overlap but never generates a collision response.
type Fixture struct {
	Shape ShapeInterface
	Body  *RigidBody

	Material Material
	Sensor   bool

	aabb AABB

	UserData interface{}
}

func (f *Fixture) GetShape() ShapeInterface {
	return f.Shape
}

func (f *Fixture) GetBody() *RigidBody {
	return f.Body
}

func (f *Fixture) GetType() ShapeType {
	return f.Shape.Type()
}

func (f *Fixture) GetFriction() float64 {
	return f.Material.Friction
}

// SetFriction does not change the friction of existing contacts,
// see constraint.Contact.ResetFriction
func (f *Fixture) SetFriction(friction float64) {
	f.Material.Friction = friction
}

func (f *Fixture) GetRestitution() float64 {
	return f.Material.Restitution
}

// SetRestitution does not change the restitution of existing contacts,
// see constraint.Contact.ResetRestitution
func (f *Fixture) SetRestitution(restitution float64) {
	f.Material.Restitution = restitution
}

func (f *Fixture) IsSensor() bool {
	return f.Sensor
}

func (f *Fixture) SetSensor(sensor bool) {
	if sensor != f.Sensor {
		f.Body.Awake()
		f.Sensor = sensor
	}
}

func (f *Fixture) GetAABB() AABB {
	return f.aabb
}

// Synchronize recomputes the bounding box at the given body transform
func (f *Fixture) Synchronize(transform Transform) {
	f.aabb = f.Shape.ComputeAABB(transform)
}
