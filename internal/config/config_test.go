package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iammorganparry/hwsim/internal/simulation"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "HWSIM_DB_PATH", "HWSIM_SCENARIO", "HWSIM_MAX_STEPS", "API_KEY"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8742 {
		t.Errorf("Port = %d, want 8742", cfg.Port)
	}
	if cfg.DBPath != ":memory:" {
		t.Errorf("DBPath = %q, want :memory:", cfg.DBPath)
	}
	if cfg.Scenario.TotalPopulation != 5000 || cfg.Scenario.Tolerance != 80 {
		t.Errorf("Scenario = %+v", cfg.Scenario)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port out of range", "PORT", "70000"},
		{"non-positive max steps", "HWSIM_MAX_STEPS", "0"},
		{"missing scenario file", "HWSIM_SCENARIO", filepath.Join(t.TempDir(), "missing.yaml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error with %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoadScenarioOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	content := `total_population: 1000
tolerance: 20
drift_sizes: [100, 50000]
default_population:
  dominant: 300
  recessive: 200
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}

	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	def := simulation.DefaultScenario()
	if sc.TotalPopulation != 1000 || sc.Tolerance != 20 {
		t.Errorf("overrides not applied: %+v", sc)
	}
	if len(sc.DriftSizes) != 2 || sc.DriftSizes[1] != 50000 {
		t.Errorf("DriftSizes = %v", sc.DriftSizes)
	}
	if sc.MaxAttempts != def.MaxAttempts || sc.MinGenerations != def.MinGenerations {
		t.Errorf("defaults lost: %+v", sc)
	}
	if sc.DefaultPopulation.Dominant != 300 {
		t.Errorf("DefaultPopulation = %+v", sc.DefaultPopulation)
	}
}

func TestParseScenarioRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "total_population: [1"},
		{"negative tolerance", "tolerance: -1"},
		{"candidate above one", "initial_candidate: 1.5"},
		{"zero drift size", "drift_sizes: [0]"},
		{"default population too large", "default_population: {dominant: 4000, recessive: 2000}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := simulation.DefaultScenario()
			if err := ParseScenario([]byte(tt.yaml), &sc); err == nil {
				t.Errorf("expected error for %q", tt.yaml)
			}
		})
	}
}

func TestParseScenarioSmallerPopulation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want simulation.DefaultPopulation
	}{
		{"inherited entry is emptied", "total_population: 1000\n", simulation.DefaultPopulation{}},
		{"explicit entry is kept", "total_population: 1000\ndefault_population: {dominant: 300, recessive: 200}\n",
			simulation.DefaultPopulation{Dominant: 300, Recessive: 200}},
		{"inherited entry that fits is kept", "total_population: 2500\n",
			simulation.DefaultPopulation{Dominant: 1500, Recessive: 1000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := simulation.DefaultScenario()
			if err := ParseScenario([]byte(tt.yaml), &sc); err != nil {
				t.Fatalf("ParseScenario: %v", err)
			}
			if sc.DefaultPopulation != tt.want {
				t.Errorf("DefaultPopulation = %+v, want %+v", sc.DefaultPopulation, tt.want)
			}
		})
	}
}
