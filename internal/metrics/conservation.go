package metrics

import (
	"math"

	"github.com/andersnelson/SSCP-2018/internal/dynamo"
)

// Conservation tracks the worst violation of the site-conservation law
// D + A1 + A2 + Roff = RT over a run. The integrator never enforces the
// law; this metric makes drift from an unstable step visible.
type Conservation struct {
	name     string
	total    float64
	maxDrift float64
	samples  int
}

func NewConservation(total float64) *Conservation {
	return &Conservation{
		name:  "conservation_drift",
		total: total,
	}
}

func (c *Conservation) Name() string { return c.name }

func (c *Conservation) Observe(x dynamo.State, _ dynamo.Control, _ float64) {
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	rOff := c.total - sum
	// Occupancies outside [0, total] break conservation even when the
	// explicit sum is intact.
	drift := 0.0
	if rOff < 0 {
		drift = -rOff
	}
	for _, v := range x {
		if v < 0 {
			drift = math.Max(drift, -v)
		}
		if v > c.total {
			drift = math.Max(drift, v-c.total)
		}
	}
	c.maxDrift = math.Max(c.maxDrift, drift)
	c.samples++
}

func (c *Conservation) Value() float64 { return c.maxDrift }

func (c *Conservation) Reset() {
	c.maxDrift = 0
	c.samples = 0
}
