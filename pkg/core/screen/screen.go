// Package screen holds the shared shapes the four analyzers produce and the
// aggregation layer consumes: flagged assets, benchmark observations, and the
// guard that isolates a failing sub-analysis from its siblings.
package screen

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"noncore_agent/pkg/core/calc"
)

// Category tags what kind of holding a flag refers to.
type Category string

const (
	CategoryAsset        Category = "asset"
	CategorySubsidiary   Category = "subsidiary"
	CategoryProperty     Category = "property"
	CategoryPatent       Category = "patent"
	CategoryFacility     Category = "facility"
	CategoryEquipment    Category = "equipment"
	CategoryInvestment   Category = "investment"
	CategoryTechnology   Category = "technology"
	CategoryBusinessUnit Category = "business_unit"
	CategorySegment      Category = "segment"
	CategoryAssetClass   Category = "asset_class"
	CategoryRevenue      Category = "revenue_stream"
	CategoryAcquired     Category = "acquired_asset"
	CategoryMarket       Category = "market_asset"
)

// Flagged is one underperformance finding, normalized across analyzers.
// The same asset name may be flagged under several metrics; the shortlist
// counts distinct metrics per name.
type Flagged struct {
	Name      string        `json:"name"`
	Type      Category      `json:"type"`
	Metric    string        `json:"metric"`
	Value     float64       `json:"value"`
	Benchmark float64       `json:"benchmark"`
	Deviation float64       `json:"deviation"`
	Severity  calc.Severity `json:"severity"`
}

// Flag builds a Flagged entry, deriving deviation and severity from the
// value/benchmark pair.
func Flag(name string, typ Category, metric string, value, benchmark float64) Flagged {
	return Flagged{
		Name:      name,
		Type:      typ,
		Metric:    metric,
		Value:     value,
		Benchmark: benchmark,
		Deviation: calc.Deviation(value, benchmark),
		Severity:  calc.SeverityFor(value, benchmark),
	}
}

// RatedFlag builds a Flagged entry whose severity was assigned by rule
// rather than derived from a benchmark ratio.
func RatedFlag(name string, typ Category, metric string, severity calc.Severity) Flagged {
	return Flagged{Name: name, Type: typ, Metric: metric, Severity: severity}
}

// Observation is a company-wide metric compared against its industry
// benchmark.
type Observation struct {
	Value      float64 `json:"value"`
	Benchmark  float64 `json:"benchmark"`
	Percentile float64 `json:"percentile"`
	Deviation  float64 `json:"deviation"`
}

// Guard runs one sub-analysis and converts a panic into a recorded error,
// so the remaining checks of the same analyzer still run.
func Guard(check string, errs *[]string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("check", check).Interface("cause", r).Msg("sub-analysis failed")
			*errs = append(*errs, fmt.Sprintf("%s: %v", check, r))
		}
	}()
	fn()
}
