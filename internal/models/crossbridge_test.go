package models

import (
	"math"
	"testing"

	"github.com/andersnelson/SSCP-2018/internal/dynamo"
	"github.com/andersnelson/SSCP-2018/internal/integrators"
)

func integrate(cb *CrossBridge, x0 dynamo.State, dt, duration float64) ([]dynamo.State, []float64) {
	integ := integrators.NewRK4()
	u := dynamo.Control{}

	steps := int(duration / dt)
	states := make([]dynamo.State, 0, steps+1)
	times := make([]float64, 0, steps+1)

	x := x0.Clone()
	t := 0.0
	states = append(states, x.Clone())
	times = append(times, t)

	for i := 0; i < steps; i++ {
		x = integ.Step(cb, x, u, t, dt)
		t += dt
		states = append(states, x.Clone())
		times = append(times, t)
	}
	return states, times
}

func TestCrossBridgeDimensions(t *testing.T) {
	cb := NewCrossBridge()
	if cb.StateDim() != 3 {
		t.Errorf("expected state dim 3, got %d", cb.StateDim())
	}
	if cb.ControlDim() != 0 {
		t.Errorf("expected control dim 0, got %d", cb.ControlDim())
	}
}

func TestCrossBridgeRestingDerivative(t *testing.T) {
	cb := NewCrossBridge()

	// From the all-non-permissive state only the kon transition moves.
	dx := cb.Derive(dynamo.State{0, 0, 0}, nil, 0)

	if math.Abs(dx[0]-cb.KOn*cb.RT) > 1e-12 {
		t.Errorf("expected dD/dt = kon*RT = %f, got %f", cb.KOn*cb.RT, dx[0])
	}
	if dx[1] != 0 || dx[2] != 0 {
		t.Errorf("expected zero dA1/dt and dA2/dt at rest, got %f, %f", dx[1], dx[2])
	}
}

func TestCrossBridgeConservation(t *testing.T) {
	cb := NewCrossBridge()
	states, _ := integrate(cb, dynamo.State{0, 0, 0}, 0.001, 1.0)

	for i, s := range states {
		total := s[0] + s[1] + s[2] + cb.Roff(s)
		if math.Abs(total-cb.RT) > 1e-9 {
			t.Fatalf("conservation violated at sample %d: total %f, want %f", i, total, cb.RT)
		}
		for j, v := range s {
			if v < -1e-9 || v > cb.RT+1e-9 {
				t.Fatalf("occupancy %d out of range at sample %d: %f", j, i, v)
			}
		}
	}
}

func TestCrossBridgeTensionRisesMonotonically(t *testing.T) {
	cb := NewCrossBridge()
	states, _ := integrate(cb, dynamo.State{0, 0, 0}, 0.001, 2.0)

	final := states[len(states)-1][2]
	if final <= 0 {
		t.Fatalf("expected positive steady tension, got %f", final)
	}

	// Monotone rise until A2 reaches 90% of its final value.
	prev := states[0][2]
	for i, s := range states {
		if s[2] >= 0.9*final {
			break
		}
		if s[2] < prev-1e-12 {
			t.Fatalf("A2 decreased during development at sample %d: %f -> %f", i, prev, s[2])
		}
		prev = s[2]
	}
}

func TestCrossBridgeSteadyState(t *testing.T) {
	cb := NewCrossBridge()
	states, times := integrate(cb, dynamo.State{0, 0, 0}, 0.001, 10.0)

	final := states[len(states)-1]
	dx := cb.Derive(final, nil, times[len(times)-1])

	for i, v := range dx {
		if math.Abs(v) > 1e-3 {
			t.Errorf("derivative %d not settled at t=10: %e", i, v)
		}
	}
}

func TestCrossBridgeDerivePure(t *testing.T) {
	cb := NewCrossBridge()
	x := dynamo.State{0.2, 0.1, 0.05}
	orig := x.Clone()

	dx1 := cb.Derive(x, nil, 0)
	dx2 := cb.Derive(x, nil, 0)

	for i := range dx1 {
		if dx1[i] != dx2[i] {
			t.Errorf("outputs differ at %d: %v vs %v", i, dx1[i], dx2[i])
		}
	}
	for i := range x {
		if x[i] != orig[i] {
			t.Errorf("input mutated at %d: %f -> %f", i, orig[i], x[i])
		}
	}
}

func TestCrossBridgeParams(t *testing.T) {
	cb := NewCrossBridge()

	params := cb.GetParams()
	if len(params) != 8 {
		t.Fatalf("expected 8 parameters, got %d", len(params))
	}
	if params["kon"] != 400 {
		t.Errorf("expected kon 400, got %f", params["kon"])
	}

	cb.SetParam("h", 16)
	if cb.H != 16 {
		t.Errorf("SetParam did not apply: h = %f", cb.H)
	}

	cb.SetParam("unknown", 1)
	if cb.GetParams()["h"] != 16 {
		t.Error("unknown parameter name must not disturb existing values")
	}
}
