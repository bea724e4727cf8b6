package calc

// Severity grades how badly a metric underperforms its benchmark.
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
)

// Severities lists all levels from worst to best, for ordered rendering.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Rank returns a sortable weight: Critical is highest.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// SeverityForDeviation classifies a relative deviation. Deviations are
// negative when the value falls short of the benchmark.
func SeverityForDeviation(d float64) Severity {
	switch {
	case d <= -0.5:
		return SeverityCritical
	case d <= -0.3:
		return SeverityHigh
	case d <= -0.15:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// SeverityFor classifies value against benchmark. A zero benchmark carries
// no usable ratio and is always Medium.
func SeverityFor(value, benchmark float64) Severity {
	if benchmark == 0 {
		return SeverityMedium
	}
	return SeverityForDeviation(Deviation(value, benchmark))
}

// GrowthSeverity is the dual-metric grade for growth underperformance.
// Profit growth carries more weight than revenue growth: shrinking profit
// is the stronger divestment signal.
type GrowthSeverity struct {
	Level             Severity `json:"level"`
	Score             float64  `json:"score"`
	WeightedDeviation float64  `json:"weighted_deviation"`
}

// GrowthSeverityFor combines revenue and profit growth deviations into a
// 0-100 score (higher is worse) and a tier. The score is 50 at parity with
// the benchmarks and moves 1 point per percentage point of weighted
// deviation, clamped to [0, 100].
func GrowthSeverityFor(revenueGrowth, profitGrowth, revenueBenchmark, profitBenchmark float64) GrowthSeverity {
	rd := Deviation(revenueGrowth, revenueBenchmark)
	pd := Deviation(profitGrowth, profitBenchmark)
	w := 0.4*rd + 0.6*pd

	score := 50 - w*100
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	var level Severity
	switch {
	case score >= 75:
		level = SeverityCritical
	case score >= 50:
		level = SeverityHigh
	case score >= 25:
		level = SeverityMedium
	default:
		level = SeverityLow
	}

	return GrowthSeverity{Level: level, Score: score, WeightedDeviation: w}
}
