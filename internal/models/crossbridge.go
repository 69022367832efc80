package models

import "github.com/andersnelson/SSCP-2018/internal/dynamo"

// CrossBridge implements a four-state mass-action model of crossbridge
// cycling. The tracked states are fractional occupancies:
//
//	D  - detached, thin-filament-active sites
//	A1 - attached, pre-force-generating conformation
//	A2 - attached, force-bearing conformation
//
// The non-permissive fraction is never stored; it is recovered on every
// evaluation as Roff = RT - D - A1 - A2, so the conservation law
// D + A1 + A2 + Roff = RT holds by construction. The cycle is
// Roff <-> D <-> A1 <-> A2 -> D: detachment from the force-bearing
// state returns sites to D, not directly to Roff.
//
// Derive does not validate or clamp its inputs. It sits in the
// integrator inner loop and out-of-range states are the caller's
// problem; the conservation metric makes them observable.
type CrossBridge struct {
	RT     float64 // total site count
	KOn    float64 // non-permissive -> permissive
	KOff   float64 // permissive -> non-permissive
	F      float64 // attachment, D -> A1
	FPrime float64 // detachment, A1 -> D
	H      float64 // power stroke, A1 -> A2
	HPrime float64 // reverse stroke, A2 -> A1
	G      float64 // detachment, A2 -> D
}

// NewCrossBridge returns the model with the textbook rate constants
// (all rates in 1/s, RT normalized to one).
func NewCrossBridge() *CrossBridge {
	return &CrossBridge{
		RT:     1.0,
		KOn:    400.0,
		KOff:   50.0,
		F:      50.0,
		FPrime: 400.0,
		H:      8.0,
		HPrime: 6.0,
		G:      4.0,
	}
}

func (c *CrossBridge) StateDim() int   { return 3 }
func (c *CrossBridge) ControlDim() int { return 0 }

// Derive computes the instantaneous rate of change of (D, A1, A2).
func (c *CrossBridge) Derive(s dynamo.State, _ dynamo.Control, _ float64) dynamo.State {
	d, a1, a2 := s[0], s[1], s[2]
	rOff := c.RT - d - a1 - a2

	dD := c.KOn*rOff + c.FPrime*a1 + c.G*a2 - (c.KOff+c.F)*d
	dA1 := c.F*d + c.HPrime*a2 - (c.FPrime+c.H)*a1
	dA2 := c.H*a1 - (c.HPrime+c.G)*a2

	return dynamo.State{dD, dA1, dA2}
}

// DefaultState is the fully non-permissive resting muscle.
func (c *CrossBridge) DefaultState() dynamo.State {
	return dynamo.State{0.0, 0.0, 0.0}
}

// Roff recovers the implicit non-permissive fraction.
func (c *CrossBridge) Roff(s dynamo.State) float64 {
	return c.RT - s[0] - s[1] - s[2]
}

// Tension reports the force-bearing occupancy A2, the observable the
// development-rate diagnostic works on.
func (c *CrossBridge) Tension(s dynamo.State) float64 { return s[2] }

// GetParams implements dynamo.Configurable
func (c *CrossBridge) GetParams() map[string]float64 {
	return map[string]float64{
		"rt": c.RT, "kon": c.KOn, "koff": c.KOff,
		"f": c.F, "fprime": c.FPrime,
		"h": c.H, "hprime": c.HPrime, "g": c.G,
	}
}

// SetParam implements dynamo.Configurable
func (c *CrossBridge) SetParam(name string, value float64) {
	switch name {
	case "rt":
		c.RT = value
	case "kon":
		c.KOn = value
	case "koff":
		c.KOff = value
	case "f":
		c.F = value
	case "fprime":
		c.FPrime = value
	case "h":
		c.H = value
	case "hprime":
		c.HPrime = value
	case "g":
		c.G = value
	}
}
