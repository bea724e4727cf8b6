package calc

import "sort"

// =============================================================================
// BENCHMARK METRICS
// =============================================================================

// Deviation returns the relative shortfall (or excess) of value against a
// benchmark. A zero benchmark yields 0: the caller is expected to classify
// that case separately (see SeverityFor).
func Deviation(value, benchmark float64) float64 {
	if benchmark == 0 {
		return 0
	}
	return (value - benchmark) / benchmark
}

// Ratio divides numerator by denominator, returning 0 for a zero denominator.
func Ratio(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// Percentile estimates where value sits within an industry distribution,
// as a 0-100 rank. When no empirical distribution is available it degrades
// to a coarse rank around the benchmark point: exactly at benchmark maps to
// 50, and the rank scales linearly with the value/benchmark ratio,
// saturating at twice the benchmark. It never fails.
func Percentile(value, benchmark float64, distribution []float64) float64 {
	if len(distribution) == 0 {
		if benchmark == 0 {
			return 50
		}
		ratio := value / benchmark
		switch {
		case ratio < 0:
			return 0
		case ratio >= 2:
			return 100
		case ratio >= 1:
			return 50 + (ratio-1)*50
		default:
			return ratio * 50
		}
	}

	below := 0
	for _, v := range distribution {
		if v <= value {
			below++
		}
	}
	return float64(below) / float64(len(distribution)) * 100
}

// =============================================================================
// GROWTH METRICS
// =============================================================================

// GrowthRate returns the relative change from prior to current.
// A zero prior period yields 0 rather than an undefined rate.
func GrowthRate(current, prior float64) float64 {
	if prior == 0 {
		return 0
	}
	return (current - prior) / prior
}

// GrowthFromSeries computes the growth rate from a series ordered most
// recent first. Fewer than two periods yield 0.
func GrowthFromSeries(series []float64) float64 {
	if len(series) < 2 {
		return 0
	}
	return GrowthRate(series[0], series[1])
}

// GrowthFromYears computes the growth rate between the two most recent
// years of a year-keyed series.
func GrowthFromYears(byYear map[int]float64) float64 {
	if len(byYear) < 2 {
		return 0
	}
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return GrowthRate(byYear[years[0]], byYear[years[1]])
}
