package metrics

import (
	"testing"

	"github.com/andersnelson/SSCP-2018/internal/dynamo"
)

func TestConservationCleanRun(t *testing.T) {
	m := NewConservation(1.0)

	m.Observe(dynamo.State{0.2, 0.1, 0.05}, nil, 0)
	m.Observe(dynamo.State{0.3, 0.2, 0.1}, nil, 0.1)

	if m.Value() != 0 {
		t.Errorf("expected zero drift for in-range states, got %f", m.Value())
	}
}

func TestConservationFlagsNegativeOccupancy(t *testing.T) {
	m := NewConservation(1.0)

	m.Observe(dynamo.State{-0.05, 0.1, 0.05}, nil, 0)

	if m.Value() < 0.05-1e-12 {
		t.Errorf("expected drift >= 0.05, got %f", m.Value())
	}
}

func TestConservationFlagsOverflow(t *testing.T) {
	m := NewConservation(1.0)

	// Sum exceeds the total: the implicit Roff goes negative.
	m.Observe(dynamo.State{0.6, 0.4, 0.2}, nil, 0)

	if m.Value() < 0.2-1e-12 {
		t.Errorf("expected drift >= 0.2, got %f", m.Value())
	}
}

func TestPeakTension(t *testing.T) {
	m := NewPeakTension(2)

	m.Observe(dynamo.State{0, 0, 0.1}, nil, 0)
	m.Observe(dynamo.State{0, 0, 0.4}, nil, 1)
	m.Observe(dynamo.State{0, 0, 0.3}, nil, 2)

	if m.Value() != 0.4 {
		t.Errorf("expected peak 0.4, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected zero after reset, got %f", m.Value())
	}
}

func TestSettlingTime(t *testing.T) {
	m := NewSettlingTime(1e-3)

	m.Observe(dynamo.State{0.0}, nil, 0)
	m.Observe(dynamo.State{0.5}, nil, 1)
	m.Observe(dynamo.State{0.9}, nil, 2)
	m.Observe(dynamo.State{0.9000001}, nil, 3)
	m.Observe(dynamo.State{0.9000002}, nil, 4)

	if m.Value() != 2 {
		t.Errorf("expected settling at t=2, got %f", m.Value())
	}
}
