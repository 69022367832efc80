package analysis

import (
	"context"
	"fmt"

	"github.com/andersnelson/SSCP-2018/internal/dynamo"
)

// SweepPoint records the diagnostic at one swept parameter value.
type SweepPoint struct {
	Param float64
	Dev   Development
	Err   error
}

// SweepRate sweeps one named rate constant over [min, max] and reports
// k_dev at each value. Each parameter value gets its own system built
// by newSystem, and all runs execute concurrently through an Ensemble;
// this is safe because the systems are pure and never shared.
//
// Points where the trace never develops carry their error instead of a
// number; a flat trace is a result, not a sweep failure.
func SweepRate(
	ctx context.Context,
	newSystem func() dynamo.System,
	newIntegrator func() dynamo.Integrator,
	paramName string,
	paramMin, paramMax float64,
	paramSteps int,
	tensionIdx int,
	x0 dynamo.State,
	cfg dynamo.Config,
) ([]SweepPoint, error) {
	if paramSteps < 2 {
		paramSteps = 2
	}
	step := (paramMax - paramMin) / float64(paramSteps-1)

	systems := make([]dynamo.System, paramSteps)
	values := make([]float64, paramSteps)
	for i := 0; i < paramSteps; i++ {
		dyn := newSystem()
		tunable, ok := dyn.(dynamo.Configurable)
		if !ok {
			return nil, fmt.Errorf("analysis: model does not expose parameter %q", paramName)
		}
		if _, exists := tunable.GetParams()[paramName]; !exists {
			return nil, fmt.Errorf("analysis: model does not expose parameter %q", paramName)
		}
		values[i] = paramMin + float64(i)*step
		tunable.SetParam(paramName, values[i])
		systems[i] = dyn
	}

	ensemble := dynamo.NewEnsemble(newIntegrator, nil)
	results, err := ensemble.Run(ctx, systems, x0, cfg)
	if err != nil {
		return nil, err
	}

	points := make([]SweepPoint, paramSteps)
	for i, res := range results {
		dev, devErr := RateOfDevelopment(res.Times, res.Series(tensionIdx))
		points[i] = SweepPoint{Param: values[i], Dev: dev, Err: devErr}
	}

	return points, nil
}
