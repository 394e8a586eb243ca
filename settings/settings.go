// Package settings holds the tuning constants shared by the collision and constraint packages.
//
// Units are meters, kilograms and seconds. The values are tuned for moving objects between
// 0.1 and 10 meters; static shapes may be larger.
package settings

import "math"

const (
	// MaxManifoldPoints is the number of points a contact manifold can hold.
	// Clipping two convex polygons in 2D never yields more than two.
	MaxManifoldPoints = 2

	// MaxPolygonVertices bounds the vertex count of a convex polygon.
	MaxPolygonVertices = 8

	// Epsilon is the smallest relative float difference worth acting on.
	Epsilon = 2.220446049250313e-16

	// MaxFloat is used as the initial value of min searches.
	MaxFloat = math.MaxFloat64
)

const (
	// LinearSlop is the collision and constraint tolerance.
	// Chosen to be numerically significant but visually insignificant.
	LinearSlop = 0.005

	// AngularSlop is the angular counterpart of LinearSlop (2 degrees).
	AngularSlop = 2.0 / 180.0 * math.Pi

	// PolygonRadius is the skin thickness around polygons. It keeps polygons
	// from resting in exact contact so that continuous collision has room to work.
	PolygonRadius = 2.0 * LinearSlop

	// VelocityThreshold is the relative approach speed below which collisions are
	// treated as inelastic. Stops restitution from buzzing on resting contacts.
	VelocityThreshold = 1.0

	// MaxLinearCorrection caps the position correction of a single solver pass.
	MaxLinearCorrection = 0.2

	// MaxTranslation caps the distance a body may move in one step.
	MaxTranslation        = 2.0
	MaxTranslationSquared = MaxTranslation * MaxTranslation

	// MaxRotation caps the angle a body may turn in one step.
	MaxRotation        = 0.5 * math.Pi
	MaxRotationSquared = MaxRotation * MaxRotation

	// Baumgarte scales how fast overlap is resolved by the regular position pass.
	Baumgarte = 0.2

	// TOIBaumgarte is the same factor for the time of impact position pass.
	TOIBaumgarte = 0.75

	// MaxConditionNumber guards the inversion of the 2x2 block solver matrix.
	MaxConditionNumber = 1000.0

	// ErrorTolerance is the post-condition tolerance of the block solver debug checks.
	ErrorTolerance = 1e-3
)

const (
	// TimeToSleep is how long a body has to rest before it is put to sleep.
	TimeToSleep = 0.5

	// LinearSleepTolerance is the linear speed below which a body may sleep.
	LinearSleepTolerance = 0.01

	// AngularSleepTolerance is the angular speed below which a body may sleep.
	AngularSleepTolerance = 2.0 / 180.0 * math.Pi
)
