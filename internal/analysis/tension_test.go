package analysis_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/andersnelson/SSCP-2018/internal/analysis"
)

// ramp builds a tension trace rising linearly from 0 to 1 over [0, 1].
func ramp(n int) (times, tension []float64) {
	times = make([]float64, n+1)
	tension = make([]float64, n+1)
	for i := 0; i <= n; i++ {
		times[i] = float64(i) / float64(n)
		tension[i] = float64(i) / float64(n)
	}
	return times, tension
}

var _ = Describe("RateOfDevelopment", func() {
	It("computes the half-max threshold from the final sample", func() {
		times, tension := ramp(1000)

		dev, err := analysis.RateOfDevelopment(times, tension)
		Expect(err).NotTo(HaveOccurred())
		Expect(dev.FMax).To(Equal(1.0))
		Expect(dev.FHalf).To(BeNumerically("~", 1.0-1.0/math.E, 1e-12))
	})

	It("reports the first sample at or above the threshold", func() {
		times, tension := ramp(1000)

		dev, err := analysis.RateOfDevelopment(times, tension)
		Expect(err).NotTo(HaveOccurred())

		// Linear trace: t_half equals the threshold itself, up to one
		// sampling interval.
		expected := 1.0 - 1.0/math.E
		Expect(dev.THalf).To(BeNumerically("~", expected, 1e-3))
		Expect(dev.KDev).To(Equal(1.0 / dev.THalf))
		Expect(dev.KDev).To(BeNumerically("~", 1.0/expected, 1e-2))
	})

	It("rejects a trace that never develops", func() {
		times := []float64{0, 0.1, 0.2, 0.3}
		flat := []float64{0, 0, 0, 0}

		_, err := analysis.RateOfDevelopment(times, flat)
		Expect(err).To(MatchError(analysis.ErrThresholdNotReached))
	})

	It("rejects a transient that decays back to zero", func() {
		// The final sample anchors the threshold, so a peak that has
		// fully relaxed by the end offers no level to measure against.
		times := []float64{0, 0.1, 0.2}
		tension := []float64{0, 0.5, 0}

		_, err := analysis.RateOfDevelopment(times, tension)
		Expect(err).To(MatchError(analysis.ErrThresholdNotReached))
	})

	It("rejects a threshold crossing at time zero", func() {
		times := []float64{0, 0.1, 0.2}
		tension := []float64{1.0, 1.0, 1.0}

		_, err := analysis.RateOfDevelopment(times, tension)
		Expect(err).To(MatchError(analysis.ErrZeroRiseTime))
	})

	It("rejects traces too short to diagnose", func() {
		_, err := analysis.RateOfDevelopment([]float64{0}, []float64{0})
		Expect(err).To(MatchError(analysis.ErrShortTrace))

		_, err = analysis.RateOfDevelopment([]float64{0, 1}, []float64{0})
		Expect(err).To(MatchError(analysis.ErrShortTrace))
	})

	It("never substitutes a numeric default for an error", func() {
		times := []float64{0, 0.1, 0.2, 0.3}
		flat := []float64{0, 0, 0, 0}

		dev, err := analysis.RateOfDevelopment(times, flat)
		Expect(err).To(HaveOccurred())
		Expect(dev.KDev).To(BeZero())
		Expect(math.IsInf(dev.KDev, 0)).To(BeFalse())
	})
})
