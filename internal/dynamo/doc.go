// Package dynamo provides core simulation primitives for the kinetic
// models in this repository.
//
// The package defines the fundamental interfaces and types for
// numerical simulation of ordinary differential equations (ODEs):
//
//   - [State]: vector of state-variable occupancies
//   - [System]: interface for ODE right-hand sides (dX/dt = f(X, u, t))
//   - [Integrator]: numerical stepping interface
//   - [Stimulus]: external drive applied during a run
//   - [Simulator]: orchestrates a single run
//
// # Example
//
//	dyn := models.NewCrossBridge()
//	integ := integrators.NewRK4()
//	sim := dynamo.New(dyn, integ, nil)
//	result, _ := sim.Run(ctx, dynamo.State{0, 0, 0}, cfg)
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. For parallel runs over many
// parameter sets, use [Ensemble], which gives each run its own
// Simulator; that is safe because System implementations are pure.
package dynamo
