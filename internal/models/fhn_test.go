package models

import (
	"math"
	"testing"

	"github.com/andersnelson/SSCP-2018/internal/dynamo"
	"github.com/andersnelson/SSCP-2018/internal/integrators"
)

func TestFHNDimensions(t *testing.T) {
	fhn := NewFitzHughNagumo()
	if fhn.StateDim() != 2 {
		t.Errorf("expected state dim 2, got %d", fhn.StateDim())
	}
	if fhn.ControlDim() != 1 {
		t.Errorf("expected control dim 1, got %d", fhn.ControlDim())
	}
}

func TestFHNRestNearFixedPoint(t *testing.T) {
	fhn := NewFitzHughNagumo()
	integ := integrators.NewRK4()

	x := fhn.DefaultState()
	u := dynamo.Control{0}
	dt := 0.01

	for i := 0; i < 10000; i++ {
		x = integ.Step(fhn, x, u, float64(i)*dt, dt)
	}

	// Without stimulus the cell relaxes to rest and stays there.
	dx := fhn.Derive(x, u, 0)
	if math.Abs(dx[0]) > 1e-4 || math.Abs(dx[1]) > 1e-4 {
		t.Errorf("expected resting derivatives near zero, got %e, %e", dx[0], dx[1])
	}
}

func TestFHNSpikesUnderCurrent(t *testing.T) {
	fhn := NewFitzHughNagumo()
	integ := integrators.NewRK4()

	x := fhn.DefaultState()
	rest := x[0]
	u := dynamo.Control{0.8}
	dt := 0.01

	peak := rest
	for i := 0; i < 10000; i++ {
		x = integ.Step(fhn, x, u, float64(i)*dt, dt)
		if x[0] > peak {
			peak = x[0]
		}
	}

	// Suprathreshold current must carry v well above rest.
	if peak < rest+1.0 {
		t.Errorf("expected an excursion above rest %.2f, peak only %.2f", rest, peak)
	}
}
