package constraint

import (
	"math"
	"testing"
)

func TestMixFriction(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want float64
	}{
		{"same friction", 0.5, 0.5, 0.5},
		{"frictionless surface", 0.0, 1.0, 0.0},
		{"geometric mean", 0.4, 0.9, 0.6},
		{"high friction", 1.0, 1.0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MixFriction(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("MixFriction(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got != MixFriction(tt.b, tt.a) {
				t.Errorf("MixFriction is not symmetric for %v, %v", tt.a, tt.b)
			}
		})
	}
}

func TestMixRestitution(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want float64
	}{
		{"no bounce", 0.0, 0.0, 0.0},
		{"one bouncy fixture", 0.0, 0.8, 0.8},
		{"both bouncy", 0.3, 0.6, 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MixRestitution(tt.a, tt.b); got != tt.want {
				t.Errorf("MixRestitution(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if MixRestitution(tt.a, tt.b) != MixRestitution(tt.b, tt.a) {
				t.Errorf("MixRestitution is not symmetric for %v, %v", tt.a, tt.b)
			}
		})
	}
}

func TestNewTimeStep(t *testing.T) {
	tests := []struct {
		name      string
		dt        float64
		prevDt    float64
		wantInvDt float64
		wantRatio float64
	}{
		{"first step", 0.5, 0.0, 2.0, 1.0},
		{"constant step", 0.25, 0.25, 4.0, 1.0},
		{"halved step", 0.25, 0.5, 4.0, 0.5},
		{"zero step", 0.0, 0.5, 0.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step := NewTimeStep(tt.dt, tt.prevDt, 8, 3, true)

			if step.InvDt != tt.wantInvDt {
				t.Errorf("InvDt = %v, want %v", step.InvDt, tt.wantInvDt)
			}
			if step.DtRatio != tt.wantRatio {
				t.Errorf("DtRatio = %v, want %v", step.DtRatio, tt.wantRatio)
			}
			if step.VelocityIterations != 8 || step.PositionIterations != 3 || !step.WarmStarting {
				t.Errorf("iterations or warm starting not kept: %+v", step)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if !config.BlockSolve {
		t.Error("block solver should be enabled by default")
	}
	if config.Debug {
		t.Error("debug checks should be disabled by default")
	}
	if config.Baumgarte <= 0.0 || config.Baumgarte > 1.0 {
		t.Errorf("Baumgarte = %v, want a factor in (0,1]", config.Baumgarte)
	}
	if config.TOIBaumgarte <= config.Baumgarte {
		t.Errorf("TOIBaumgarte = %v, want a stiffer factor than %v", config.TOIBaumgarte, config.Baumgarte)
	}
}
