package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HorizonDays != 28 {
		t.Errorf("horizon_days = %d, want 28", cfg.HorizonDays)
	}
	if cfg.SolverProvider != "highs" {
		t.Errorf("solver_provider = %q", cfg.SolverProvider)
	}
	if cfg.SolverTimeLimit != 5*time.Minute {
		t.Errorf("solver_time_limit = %s", cfg.SolverTimeLimit)
	}
	if cfg.SolverGapRel != 0.01 {
		t.Errorf("solver_gap_rel = %g", cfg.SolverGapRel)
	}
	if cfg.PalletAmortizationDays != 7 {
		t.Errorf("pallet_amortization_days = %d", cfg.PalletAmortizationDays)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log_level = %q", cfg.LogLevel)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.yaml")
	content := "horizon_days: 14\nsolver_gap_rel: 0.05\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HorizonDays != 14 {
		t.Errorf("horizon_days = %d, want 14", cfg.HorizonDays)
	}
	if cfg.SolverGapRel != 0.05 {
		t.Errorf("solver_gap_rel = %g", cfg.SolverGapRel)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log_level = %q", cfg.LogLevel)
	}
	// Untouched keys keep their defaults.
	if cfg.SolverProvider != "highs" {
		t.Errorf("solver_provider = %q", cfg.SolverProvider)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PLANNER_HORIZON_DAYS", "10")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HorizonDays != 10 {
		t.Errorf("horizon_days = %d, want 10", cfg.HorizonDays)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []string{
		"horizon_days: 0\n",
		"solver_time_limit: -1s\n",
		"solver_gap_rel: -0.5\n",
		"pallet_amortization_days: 0\n",
	}
	for _, content := range cases {
		path := filepath.Join(t.TempDir(), "planner.yaml")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing config: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("config %q accepted", content)
		}
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing config file accepted")
	}
}

func TestValidate(t *testing.T) {
	good := Config{
		HorizonDays:            28,
		SolverTimeLimit:        time.Minute,
		PalletAmortizationDays: 7,
	}
	if err := good.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}
