package constraint

import (
	"github.com/akmonengine/impulse/settings"
	"github.com/go-gl/mathgl/mgl64"
)

// Config holds the tuning values read by the ContactSolver
type Config struct {
	// VelocityThreshold is the approach speed under which restitution is ignored
	VelocityThreshold float64
	// MaxLinearCorrection caps a single position correction
	MaxLinearCorrection float64
	LinearSlop          float64
	Baumgarte           float64
	TOIBaumgarte        float64
	// MaxConditionNumber guards the 2x2 block solver inversion
	MaxConditionNumber float64
	// ErrorTolerance is used by the debug checks only
	ErrorTolerance float64

	// BlockSolve solves 2-point manifolds as one 2x2 system.
	// When false each point is solved on its own.
	BlockSolve bool
	// Debug enables contract assertions and block solver post-condition checks
	Debug bool
}

// DefaultConfig returns the configuration matching the settings constants
func DefaultConfig() Config {
	return Config{
		VelocityThreshold:   settings.VelocityThreshold,
		MaxLinearCorrection: settings.MaxLinearCorrection,
		LinearSlop:          settings.LinearSlop,
		Baumgarte:           settings.Baumgarte,
		TOIBaumgarte:        settings.TOIBaumgarte,
		MaxConditionNumber:  settings.MaxConditionNumber,
		ErrorTolerance:      settings.ErrorTolerance,
		BlockSolve:          true,
	}
}

// TimeStep describes the step being solved
type TimeStep struct {
	Dt      float64
	InvDt   float64
	DtRatio float64 // Dt * previous InvDt, scales the warm start impulses

	VelocityIterations int
	PositionIterations int
	WarmStarting       bool
}

// NewTimeStep builds a step of dt seconds following a step of prevDt seconds.
// A zero prevDt gives a ratio of 1.
func NewTimeStep(dt, prevDt float64, velocityIterations, positionIterations int, warmStarting bool) TimeStep {
	step := TimeStep{
		Dt:                 dt,
		DtRatio:            1.0,
		VelocityIterations: velocityIterations,
		PositionIterations: positionIterations,
		WarmStarting:       warmStarting,
	}
	if dt > 0.0 {
		step.InvDt = 1.0 / dt
	}
	if prevDt > 0.0 {
		step.DtRatio = dt / prevDt
	}

	return step
}

// Position is the center of mass and angle of a body in island order
type Position struct {
	C mgl64.Vec2
	A float64
}

// Velocity is the linear and angular velocity of a body in island order
type Velocity struct {
	V mgl64.Vec2
	W float64
}
