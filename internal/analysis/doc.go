// Package analysis derives scalar diagnostics from simulated
// trajectories: the rate of force development (k_dev), steady-state
// residuals, and parameter sweeps of k_dev across a rate constant.
package analysis
