package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Financial.LowUtilization != 0.5 {
		t.Errorf("low utilization = %v", cfg.Financial.LowUtilization)
	}
	if cfg.Industry.Performance != 0.75 {
		t.Errorf("performance threshold = %v", cfg.Industry.Performance)
	}
	if cfg.Operational.EquipmentIdleYears != 5 {
		t.Errorf("equipment idle years = %v", cfg.Operational.EquipmentIdleYears)
	}
	if cfg.Operational.RevenueContribution != 0.05 {
		t.Errorf("operational revenue contribution = %v", cfg.Operational.RevenueContribution)
	}
	if cfg.Narrative.Timeout() != 60*time.Second {
		t.Errorf("narrative timeout = %v", cfg.Narrative.Timeout())
	}
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Financial.RevenueContribution != 0.05 {
		t.Errorf("revenue contribution = %v", cfg.Financial.RevenueContribution)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screening.yaml")
	content := "industry:\n  performance_threshold: 0.8\nnarrative:\n  timeout_seconds: 30\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Industry.Performance != 0.8 {
		t.Errorf("override performance = %v", cfg.Industry.Performance)
	}
	if cfg.Narrative.Timeout() != 30*time.Second {
		t.Errorf("override timeout = %v", cfg.Narrative.Timeout())
	}
	// Untouched values keep their defaults.
	if cfg.Financial.ProfitMargin != 0.10 {
		t.Errorf("profit margin = %v", cfg.Financial.ProfitMargin)
	}
}
