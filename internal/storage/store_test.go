package storage

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/andersnelson/SSCP-2018/internal/dynamo"
)

func sampleResult() *dynamo.Result {
	return &dynamo.Result{
		States: []dynamo.State{
			{0.0, 0.0, 0.0},
			{0.1, 0.05, 0.01},
			{0.2, 0.1, 0.03},
		},
		Times:   []float64{0, 0.001, 0.002},
		Metrics: map[string]float64{"peak_tension": 0.03},
	}
}

func TestSaveAndLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	params := map[string]float64{"kon": 400, "g": 4}
	runID, err := st.Save("crossbridge", 0.001, 0.002, "rk4", []string{"d", "a1", "a2"}, params, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Model != "crossbridge" || meta.Integrator != "rk4" {
		t.Errorf("metadata mismatch: %+v", meta)
	}
	if meta.Params["kon"] != 400 {
		t.Errorf("params not persisted: %+v", meta.Params)
	}
	if len(meta.Labels) != 3 || meta.Labels[2] != "a2" {
		t.Errorf("labels not persisted: %v", meta.Labels)
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}
	if len(states) != 3 || len(times) != 3 {
		t.Fatalf("expected 3 samples, got %d states %d times", len(states), len(times))
	}
	if states[2][2] != 0.03 {
		t.Errorf("state round trip mismatch: %v", states[2])
	}
	if times[1] != 0.001 {
		t.Errorf("time round trip mismatch: %v", times)
	}
}

func TestList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected empty store, got %d runs", len(runs))
	}

	if _, err := st.Save("crossbridge", 0.001, 0.002, "rk4", nil, nil, sampleResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestRapidSavesGetDistinctRuns(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		runID, err := st.Save("crossbridge", 0.001, 0.002, "rk4", nil, nil, sampleResult())
		if err != nil {
			t.Fatalf("save %d failed: %v", i, err)
		}
		if seen[runID] {
			t.Fatalf("run id %s reused, earlier run would be overwritten", runID)
		}
		seen[runID] = true
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 5 {
		t.Errorf("expected 5 stored runs, got %d", len(runs))
	}
}

func TestListMissingDir(t *testing.T) {
	st := New("does-not-exist")
	runs, err := st.List()
	if err != nil {
		t.Fatalf("missing base dir should not error: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestExportJSON(t *testing.T) {
	meta := &RunMetadata{
		ID:         "crossbridge_1",
		Model:      "crossbridge",
		Integrator: "rk4",
		Dt:         0.001,
		Duration:   0.002,
		Labels:     []string{"d", "a1", "a2"},
	}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, meta, sampleResult()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if data.ID != "crossbridge_1" || data.Steps != 3 {
		t.Errorf("export mismatch: %+v", data)
	}
	if len(data.States) != 3 || data.States[2][2] != 0.03 {
		t.Errorf("export states mismatch: %v", data.States)
	}
}
