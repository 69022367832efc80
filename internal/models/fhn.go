package models

import "github.com/andersnelson/SSCP-2018/internal/dynamo"

// FitzHughNagumo is the two-variable excitable cell model, the local
// reaction kinetics of the excitable-media example. State: [v, w]
// where v is the fast membrane variable and w the slow recovery
// variable. The single control entry is an applied stimulus current.
//
//	dv/dt = v - v^3/3 - w + I
//	dw/dt = eps*(v + beta - gamma*w)
type FitzHughNagumo struct {
	Eps   float64
	Beta  float64
	Gamma float64
}

func NewFitzHughNagumo() *FitzHughNagumo {
	return &FitzHughNagumo{
		Eps:   0.08,
		Beta:  0.7,
		Gamma: 0.8,
	}
}

func (f *FitzHughNagumo) StateDim() int   { return 2 }
func (f *FitzHughNagumo) ControlDim() int { return 1 }

func (f *FitzHughNagumo) Derive(s dynamo.State, u dynamo.Control, _ float64) dynamo.State {
	v, w := s[0], s[1]

	iApp := 0.0
	if len(u) > 0 {
		iApp = u[0]
	}

	dv := v - v*v*v/3 - w + iApp
	dw := f.Eps * (v + f.Beta - f.Gamma*w)

	return dynamo.State{dv, dw}
}

// DefaultState rests near the stable fixed point for the default
// parameters with no applied current.
func (f *FitzHughNagumo) DefaultState() dynamo.State {
	return dynamo.State{-1.2, -0.6}
}

// GetParams implements dynamo.Configurable
func (f *FitzHughNagumo) GetParams() map[string]float64 {
	return map[string]float64{"eps": f.Eps, "beta": f.Beta, "gamma": f.Gamma}
}

// SetParam implements dynamo.Configurable
func (f *FitzHughNagumo) SetParam(name string, value float64) {
	switch name {
	case "eps":
		f.Eps = value
	case "beta":
		f.Beta = value
	case "gamma":
		f.Gamma = value
	}
}
