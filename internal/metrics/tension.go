package metrics

import (
	"math"

	"github.com/andersnelson/SSCP-2018/internal/dynamo"
)

// PeakTension records the maximum of one state variable over a run,
// normally the force-bearing occupancy A2.
type PeakTension struct {
	name string
	idx  int
	peak float64
	seen bool
}

func NewPeakTension(stateIdx int) *PeakTension {
	return &PeakTension{name: "peak_tension", idx: stateIdx}
}

func (p *PeakTension) Name() string { return p.name }

func (p *PeakTension) Observe(x dynamo.State, _ dynamo.Control, _ float64) {
	if p.idx >= len(x) {
		return
	}
	if !p.seen || x[p.idx] > p.peak {
		p.peak = x[p.idx]
		p.seen = true
	}
}

func (p *PeakTension) Value() float64 { return p.peak }

func (p *PeakTension) Reset() {
	p.peak = 0
	p.seen = false
}

// SettlingTime reports the last time any state variable changed by more
// than the tolerance between observations, i.e. when the run stopped
// moving.
type SettlingTime struct {
	name    string
	tol     float64
	prev    dynamo.State
	lastMov float64
}

func NewSettlingTime(tol float64) *SettlingTime {
	return &SettlingTime{name: "settling_time", tol: tol}
}

func (s *SettlingTime) Name() string { return s.name }

func (s *SettlingTime) Observe(x dynamo.State, _ dynamo.Control, t float64) {
	if s.prev != nil {
		for i := range x {
			if i < len(s.prev) && math.Abs(x[i]-s.prev[i]) > s.tol {
				s.lastMov = t
				break
			}
		}
	}
	s.prev = x.Clone()
}

func (s *SettlingTime) Value() float64 { return s.lastMov }

func (s *SettlingTime) Reset() {
	s.prev = nil
	s.lastMov = 0
}
