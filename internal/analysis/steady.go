package analysis

import (
	"math"

	"github.com/andersnelson/SSCP-2018/internal/dynamo"
)

// SteadyStateResidual evaluates the right-hand side at a state and
// returns the largest derivative magnitude. A small residual means the
// system has settled.
func SteadyStateResidual(dyn dynamo.System, x dynamo.State, t float64) float64 {
	u := make(dynamo.Control, dyn.ControlDim())
	dx := dyn.Derive(x, u, t)

	residual := 0.0
	for _, v := range dx {
		residual = math.Max(residual, math.Abs(v))
	}
	return residual
}

// IsSteady reports whether the final state of a trajectory satisfies
// the residual tolerance.
func IsSteady(dyn dynamo.System, result *dynamo.Result, tol float64) bool {
	final := result.Final()
	if final == nil {
		return false
	}
	t := result.Times[len(result.Times)-1]
	return SteadyStateResidual(dyn, final, t) < tol
}
