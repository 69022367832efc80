package config

var Presets = map[string]map[string]*Config{
	"crossbridge": {
		// Textbook rates; reaches steady tension well before 1s.
		"twitch": {
			Model: "crossbridge", Integrator: "rk4", Dt: 0.001, Duration: 1.0,
			Rates: RatesConfig{
				RT: 1.0, KOn: 400, KOff: 50, F: 50, FPrime: 400,
				H: 8, HPrime: 6, G: 4,
			},
		},
		// Faster cycling: attachment and power-stroke rates doubled,
		// shifting k_dev upward.
		"fast": {
			Model: "crossbridge", Integrator: "rk4", Dt: 0.0005, Duration: 0.5,
			Rates: RatesConfig{
				RT: 1.0, KOn: 400, KOff: 50, F: 100, FPrime: 400,
				H: 16, HPrime: 6, G: 8,
			},
		},
		// Slow fatigue-like regime with weak thin-filament activation.
		"fatigued": {
			Model: "crossbridge", Integrator: "rk4", Dt: 0.001, Duration: 3.0,
			Rates: RatesConfig{
				RT: 1.0, KOn: 100, KOff: 100, F: 25, FPrime: 400,
				H: 4, HPrime: 6, G: 2,
			},
		},
	},
	"fhn": {
		"spike": {
			Model: "fhn", Integrator: "rk4", Dt: 0.01, Duration: 100.0,
			Rates:     RatesConfig{Eps: 0.08, Beta: 0.7, Gamma: 0.8},
			InitState: InitState{V: -1.2, W: -0.6},
			Stimulus:  StimulusConfig{Kind: "pulse", Amplitude: 0.8, Start: 5, Width: 5},
		},
		"oscillate": {
			Model: "fhn", Integrator: "rk4", Dt: 0.01, Duration: 200.0,
			Rates:     RatesConfig{Eps: 0.08, Beta: 0.7, Gamma: 0.8},
			InitState: InitState{V: -1.2, W: -0.6},
			Stimulus:  StimulusConfig{Kind: "pulse", Amplitude: 0.5, Start: 0, Width: 200},
		},
	},
}

func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	return names
}
