package integrators

import (
	"testing"

	"github.com/andersnelson/SSCP-2018/internal/dynamo"
	"github.com/andersnelson/SSCP-2018/internal/models"
)

func BenchmarkEulerCrossBridge(b *testing.B) {
	integrator := NewEuler()
	dyn := models.NewCrossBridge()
	x := dynamo.State{0, 0, 0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(dyn, x, nil, 0, 0.001)
	}
}

func BenchmarkRK4CrossBridge(b *testing.B) {
	integrator := NewRK4()
	dyn := models.NewCrossBridge()
	x := dynamo.State{0, 0, 0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(dyn, x, nil, 0, 0.001)
	}
}

func BenchmarkRK45CrossBridge(b *testing.B) {
	integrator := NewRK45()
	dyn := models.NewCrossBridge()
	x := dynamo.State{0, 0, 0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(dyn, x, nil, 0, 0.001)
	}
}
