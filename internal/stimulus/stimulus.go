// Package stimulus provides external drive terms for simulation runs.
package stimulus

import "github.com/andersnelson/SSCP-2018/internal/dynamo"

// None supplies a zero control of the given dimension.
type None struct {
	dim int
}

func NewNone(dim int) *None {
	return &None{dim: dim}
}

func (n *None) Compute(_ dynamo.State, _ float64) dynamo.Control {
	return make(dynamo.Control, n.dim)
}

// Pulse applies a constant current during [Start, Start+Width) and zero
// otherwise. Used to trigger an action potential in the excitable model.
type Pulse struct {
	Amplitude float64
	Start     float64
	Width     float64
}

func NewPulse(amplitude, start, width float64) *Pulse {
	return &Pulse{Amplitude: amplitude, Start: start, Width: width}
}

func (p *Pulse) Compute(_ dynamo.State, t float64) dynamo.Control {
	if t >= p.Start && t < p.Start+p.Width {
		return dynamo.Control{p.Amplitude}
	}
	return dynamo.Control{0}
}
