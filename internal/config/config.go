package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.001
	DefaultDuration = 1.0
	DefaultRT       = 1.0
	DefaultKOn      = 400.0
	DefaultKOff     = 50.0
	DefaultF        = 50.0
	DefaultFPrime   = 400.0
	DefaultH        = 8.0
	DefaultHPrime   = 6.0
	DefaultG        = 4.0
)

type Config struct {
	Model      string         `yaml:"model"`
	Integrator string         `yaml:"integrator"`
	Dt         float64        `yaml:"dt"`
	Duration   float64        `yaml:"duration"`
	Rates      RatesConfig    `yaml:"rates"`
	InitState  InitState      `yaml:"init_state"`
	Stimulus   StimulusConfig `yaml:"stimulus"`
}

// RatesConfig holds the eight crossbridge rate constants plus the
// excitable-model coefficients; unset fields fall back to defaults.
type RatesConfig struct {
	RT     float64 `yaml:"rt"`
	KOn    float64 `yaml:"kon"`
	KOff   float64 `yaml:"koff"`
	F      float64 `yaml:"f"`
	FPrime float64 `yaml:"fprime"`
	H      float64 `yaml:"h"`
	HPrime float64 `yaml:"hprime"`
	G      float64 `yaml:"g"`
	Eps    float64 `yaml:"eps"`
	Beta   float64 `yaml:"beta"`
	Gamma  float64 `yaml:"gamma"`
}

type InitState struct {
	D  float64 `yaml:"d"`
	A1 float64 `yaml:"a1"`
	A2 float64 `yaml:"a2"`
	V  float64 `yaml:"v"`
	W  float64 `yaml:"w"`
}

type StimulusConfig struct {
	Kind      string  `yaml:"kind"`
	Amplitude float64 `yaml:"amplitude"`
	Start     float64 `yaml:"start"`
	Width     float64 `yaml:"width"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:      "crossbridge",
		Integrator: "rk4",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Rates: RatesConfig{
			RT: DefaultRT, KOn: DefaultKOn, KOff: DefaultKOff,
			F: DefaultF, FPrime: DefaultFPrime,
			H: DefaultH, HPrime: DefaultHPrime, G: DefaultG,
			Eps: 0.08, Beta: 0.7, Gamma: 0.8,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// GetInitState maps the named fields onto the model's state vector.
func (c *Config) GetInitState() []float64 {
	switch c.Model {
	case "fhn":
		return []float64{c.InitState.V, c.InitState.W}
	default:
		return []float64{c.InitState.D, c.InitState.A1, c.InitState.A2}
	}
}
