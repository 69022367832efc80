package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model != "crossbridge" {
		t.Errorf("expected model crossbridge, got %s", cfg.Model)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if cfg.Rates.KOn != DefaultKOn || cfg.Rates.G != DefaultG {
		t.Error("default rates not applied")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("crossbridge", "twitch")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Rates.KOn != 400 {
		t.Errorf("expected kon 400, got %f", cfg.Rates.KOn)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("crossbridge", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "twitch") != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestListPresets(t *testing.T) {
	if len(ListPresets("crossbridge")) == 0 {
		t.Error("expected presets for crossbridge")
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestGetInitState(t *testing.T) {
	tests := []struct {
		model    string
		expected int
	}{
		{"crossbridge", 3},
		{"fhn", 2},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.Model = tt.model
		state := cfg.GetInitState()
		if len(state) != tt.expected {
			t.Errorf("model %s: expected %d states, got %d", tt.model, tt.expected, len(state))
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Model = "fhn"
	cfg.Duration = 42.0
	cfg.Rates.Eps = 0.05
	cfg.Stimulus = StimulusConfig{Kind: "pulse", Amplitude: 0.8, Start: 5, Width: 5}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Model != "fhn" || loaded.Duration != 42.0 {
		t.Errorf("round trip lost run fields: %+v", loaded)
	}
	if loaded.Rates.Eps != 0.05 {
		t.Errorf("round trip lost rates: %+v", loaded.Rates)
	}
	if loaded.Stimulus.Kind != "pulse" || loaded.Stimulus.Amplitude != 0.8 {
		t.Errorf("round trip lost stimulus: %+v", loaded.Stimulus)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
