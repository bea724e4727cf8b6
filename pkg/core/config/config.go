// Package config carries the screening thresholds and narrative settings.
// Defaults are compiled in; a yaml file overrides individual values.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Financial   FinancialThresholds   `yaml:"financial"`
	Operational OperationalThresholds `yaml:"operational"`
	Industry    IndustryThresholds    `yaml:"industry"`
	Historical  HistoricalThresholds  `yaml:"historical"`
	Narrative   NarrativeSettings     `yaml:"narrative"`
}

type FinancialThresholds struct {
	LowUtilization      float64 `yaml:"low_utilization"`
	RevenueContribution float64 `yaml:"revenue_contribution"`
	ProfitMargin        float64 `yaml:"profit_margin"`
	RealEstateOccupancy float64 `yaml:"real_estate_occupancy"`
}

type OperationalThresholds struct {
	FacilityUtilization  float64 `yaml:"facility_utilization"`
	EquipmentIdleYears   int     `yaml:"equipment_idle_years"`
	WarehouseUtilization float64 `yaml:"warehouse_utilization"`
	TechnologyUsage      float64 `yaml:"technology_usage"`
	RevenueContribution  float64 `yaml:"revenue_contribution"`
}

type IndustryThresholds struct {
	// Performance is the fraction of the benchmark below which a
	// sub-category is flagged as lagging.
	Performance          float64 `yaml:"performance_threshold"`
	SignificantDeviation float64 `yaml:"significant_deviation"`
}

type HistoricalThresholds struct {
	// PoorFitYears and LowFitYears bound the acquisition-age decay:
	// an unintegrated acquisition older than PoorFitYears rates "poor",
	// older than LowFitYears rates "low".
	PoorFitYears int `yaml:"poor_fit_years"`
	LowFitYears  int `yaml:"low_fit_years"`
}

type NarrativeSettings struct {
	Enabled        bool   `yaml:"enabled"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	RetryAttempts  int    `yaml:"retry_attempts"`
	Provider       string `yaml:"provider"`
	Model          string `yaml:"model"`
}

// Timeout returns the per-call narrative timeout as a duration.
func (n NarrativeSettings) Timeout() time.Duration {
	if n.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(n.TimeoutSeconds) * time.Second
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		Financial: FinancialThresholds{
			LowUtilization:      0.5,
			RevenueContribution: 0.05,
			ProfitMargin:        0.10,
			RealEstateOccupancy: 0.70,
		},
		Operational: OperationalThresholds{
			FacilityUtilization:  0.60,
			EquipmentIdleYears:   5,
			WarehouseUtilization: 0.65,
			TechnologyUsage:      0.40,
			RevenueContribution:  0.05,
		},
		Industry: IndustryThresholds{
			Performance:          0.75,
			SignificantDeviation: 0.20,
		},
		Historical: HistoricalThresholds{
			PoorFitYears: 5,
			LowFitYears:  3,
		},
		Narrative: NarrativeSettings{
			Enabled:        true,
			TimeoutSeconds: 60,
			RetryAttempts:  3,
		},
	}
}

// Load reads a yaml config file over the defaults. A missing file is not an
// error: the defaults are returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
