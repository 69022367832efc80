package dynamo

import (
	"context"
	"sync"
)

// Ensemble runs one simulation per System, fanned out over goroutines.
// Each run gets its own Simulator and its own Integrator (integrators
// may carry scratch buffers); the systems themselves are pure, so no
// locking is needed.
type Ensemble struct {
	newIntegrator func() Integrator
	stimulus      Stimulus
}

func NewEnsemble(newIntegrator func() Integrator, stimulus Stimulus) *Ensemble {
	return &Ensemble{newIntegrator: newIntegrator, stimulus: stimulus}
}

// Run integrates every system from the same initial state and config.
// Results are index-aligned with systems. The first error encountered
// is returned and the remaining results discarded.
func (e *Ensemble) Run(ctx context.Context, systems []System, x0 State, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(systems))
	errs := make([]error, len(systems))

	var wg sync.WaitGroup
	for i, dyn := range systems {
		wg.Add(1)
		go func(idx int, dyn System) {
			defer wg.Done()
			sim := New(dyn, e.newIntegrator(), e.stimulus)
			results[idx], errs[idx] = sim.Run(ctx, x0, cfg)
		}(i, dyn)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
