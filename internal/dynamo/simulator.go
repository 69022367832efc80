package dynamo

import (
	"context"
	"fmt"
	"math"
)

type Simulator struct {
	dyn        System
	integrator Integrator
	stimulus   Stimulus
	metrics    []Metric
	observers  []Observer
}

// New creates a simulator. A nil stimulus means an unforced run.
func New(dyn System, integrator Integrator, stimulus Stimulus) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		stimulus:   stimulus,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run integrates from x0 over cfg.Duration and records every step.
// The recorded trajectory always includes the initial state at t=0.
func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}

	result := &Result{
		States:  make([]State, 0, int(cfg.Duration/cfg.Dt)+1),
		Times:   make([]float64, 0, int(cfg.Duration/cfg.Dt)+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result.States = append(result.States, x0.Clone())
	result.Times = append(result.Times, 0)

	var err error
	if cfg.Adaptive {
		err = s.runAdaptive(ctx, x0.Clone(), cfg, result)
	} else {
		err = s.runFixed(ctx, x0.Clone(), cfg, result)
	}
	if err != nil {
		return result, err
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) runFixed(ctx context.Context, x State, cfg Config, result *Result) error {
	steps := int(cfg.Duration / cfg.Dt)
	t := 0.0

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		u := s.observe(x, t)

		newX := s.integrator.Step(s.dyn, x, u, t, cfg.Dt)
		if cfg.ValidateState && !newX.IsValid() {
			return SimError{Time: t, Step: i, Message: ErrInvalidState.Error()}
		}

		x = newX
		t += cfg.Dt
		result.StepsTaken++

		result.States = append(result.States, x.Clone())
		result.Times = append(result.Times, t)
	}

	return nil
}

// runAdaptive advances until t reaches cfg.Duration, clamping the last
// step so the trajectory covers the requested timespan exactly. The
// step size used and the size suggested for the next step are distinct:
// t advances by what was actually taken.
func (s *Simulator) runAdaptive(ctx context.Context, x State, cfg Config, result *Result) error {
	t := 0.0
	dt := cfg.Dt

	for i := 0; cfg.Duration-t > 1e-12*cfg.Duration; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		u := s.observe(x, t)

		h := math.Min(dt, cfg.Duration-t)
		newX, used, next, err := s.adaptiveStep(x, u, t, h, cfg)
		if err != nil {
			return err
		}
		if cfg.ValidateState && !newX.IsValid() {
			return SimError{Time: t, Step: i, Message: ErrInvalidState.Error()}
		}

		x = newX
		t += used
		dt = next
		result.StepsTaken++

		result.States = append(result.States, x.Clone())
		result.Times = append(result.Times, t)
	}

	return nil
}

// RunWithCallback integrates without recording; the callback sees every
// step and returns false to stop early.
func (s *Simulator) RunWithCallback(ctx context.Context, x0 State, cfg Config, callback func(State, float64) bool) error {
	if err := s.validate(x0, cfg); err != nil {
		return err
	}

	x := x0.Clone()
	t := 0.0

	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(x, t) {
			return nil
		}

		u := s.compute(x, t)
		x = s.integrator.Step(s.dyn, x, u, t, cfg.Dt)
		t += cfg.Dt

		if cfg.ValidateState && !x.IsValid() {
			return fmt.Errorf("invalid state at t=%.4f: %w", t, ErrInvalidState)
		}
	}

	return nil
}

// observe computes the control at (x, t) and feeds the pre-step state
// to the attached metrics and observers.
func (s *Simulator) observe(x State, t float64) Control {
	u := s.compute(x, t)
	for _, m := range s.metrics {
		m.Observe(x, u, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(x, u, t)
	}
	return u
}

func (s *Simulator) compute(x State, t float64) Control {
	if s.stimulus == nil {
		return make(Control, s.dyn.ControlDim())
	}
	return s.stimulus.Compute(x, t)
}

func (s *Simulator) validate(x0 State, cfg Config) error {
	if len(x0) != s.dyn.StateDim() {
		return fmt.Errorf("%w: state has %d entries, system wants %d",
			ErrDimensionMismatch, len(x0), s.dyn.StateDim())
	}
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.Adaptive && cfg.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive for adaptive stepping")
	}
	return nil
}

func (s *Simulator) adaptiveStep(x State, u Control, t, dt float64, cfg Config) (State, float64, float64, error) {
	if adaptive, ok := s.integrator.(AdaptiveIntegrator); ok {
		newX, used, next, err := adaptive.StepAdaptive(s.dyn, x, u, t, dt, cfg.Tolerance)
		if err != nil {
			return nil, 0, 0, err
		}
		if used < cfg.MinDt {
			return nil, 0, 0, ErrStepTooSmall
		}
		return newX, used, math.Min(math.Max(next, cfg.MinDt), cfg.MaxDt), nil
	}

	// Step doubling for integrators without an embedded error estimate.
	for {
		x1 := s.integrator.Step(s.dyn, x, u, t, dt)
		xHalf := s.integrator.Step(s.dyn, x, u, t, dt/2)
		x2 := s.integrator.Step(s.dyn, xHalf, u, t+dt/2, dt/2)

		errEst := x1.Sub(x2).Norm()
		if errEst <= cfg.Tolerance {
			next := dt
			if errEst < cfg.Tolerance/10 {
				next = math.Min(dt*2, cfg.MaxDt)
			}
			return x2, dt, next, nil
		}

		if dt/2 < cfg.MinDt {
			return nil, 0, 0, ErrStepTooSmall
		}
		dt /= 2
	}
}
