// Package industry compares the company against peer benchmarks: asset
// turnover, return on assets, revenue per employee, space utilization,
// operating margins, and growth. Sub-categories falling below a fraction of
// their benchmark are flagged as laggards.
package industry

import (
	"context"
	"fmt"
	"sort"

	"noncore_agent/pkg/core/calc"
	"noncore_agent/pkg/core/company"
	"noncore_agent/pkg/core/config"
	"noncore_agent/pkg/core/narrative"
	"noncore_agent/pkg/core/screen"
)

const fallbackSystemPrompt = `You are an equity analyst benchmarking a company against its industry.
Review the company figures and peer benchmarks and identify segments, asset classes, or functions whose performance lags the industry enough to question whether they belong in the portfolio.
Respond with a JSON list of objects, each with: asset_name, asset_type, justification, potential_value, current_strategic_alignment.`

// Metric ids used in the benchmark maps.
const (
	MetricAssetTurnover      = "asset_turnover"
	MetricReturnOnAssets     = "return_on_assets"
	MetricRevenuePerEmployee = "revenue_per_employee"
	MetricSpaceUtilization   = "space_utilization"
	MetricOperatingMargin    = "operating_margin"
	MetricRevenueGrowth      = "revenue_growth"
	MetricProfitGrowth       = "profit_growth"
)

// Analyzer runs the six benchmark comparisons.
type Analyzer struct {
	cfg config.IndustryThresholds
	llm narrative.Invoker
}

func New(cfg config.IndustryThresholds, llm narrative.Invoker) *Analyzer {
	return &Analyzer{cfg: cfg, llm: llm}
}

// Comparison is one company-wide metric against its benchmark.
type Comparison struct {
	CompanyValue    float64 `json:"company_value"`
	IndustryAverage float64 `json:"industry_average"`
	Percentile      float64 `json:"percentile"`
	Deviation       float64 `json:"deviation"`
}

// Laggard is a sub-category performing below the benchmark fraction.
type Laggard struct {
	Name            string                `json:"name"`
	Value           float64               `json:"value"`
	IndustryAverage float64               `json:"industry_average"`
	Deviation       float64               `json:"deviation"`
	Severity        calc.Severity         `json:"severity"`
	Narrative       *narrative.Enrichment `json:"narrative,omitempty"`
}

// MetricComparison combines the company-wide comparison with its laggards.
type MetricComparison struct {
	Comparison
	Laggards []Laggard `json:"low_performers,omitempty"`
}

// GrowthLaggard is a segment whose dual growth rates trail the benchmarks.
type GrowthLaggard struct {
	Name          string                `json:"segment"`
	RevenueGrowth float64               `json:"revenue_growth"`
	ProfitGrowth  float64               `json:"profit_growth"`
	Severity      calc.GrowthSeverity   `json:"severity"`
	Narrative     *narrative.Enrichment `json:"narrative,omitempty"`
}

// GrowthComparison holds the company-wide growth comparisons and the
// underperforming segments.
type GrowthComparison struct {
	RevenueGrowth Comparison      `json:"revenue_growth"`
	ProfitGrowth  Comparison      `json:"profit_growth"`
	Laggards      []GrowthLaggard `json:"underperforming_segments,omitempty"`
}

// Result is the industry comparison bundle. Comparisons whose inputs were
// unavailable stay nil.
type Result struct {
	AssetTurnover      *MetricComparison `json:"asset_turnover,omitempty"`
	ReturnOnAssets     *MetricComparison `json:"return_on_assets,omitempty"`
	RevenuePerEmployee *MetricComparison `json:"revenue_per_employee,omitempty"`
	SpaceUtilization   *MetricComparison `json:"space_utilization,omitempty"`
	OperatingMargins   *MetricComparison `json:"operating_margins,omitempty"`
	Growth             *GrowthComparison `json:"growth_metrics,omitempty"`

	Insights         []narrative.Candidate `json:"llm_insights,omitempty"`
	NarrativeSummary *narrative.Summary    `json:"llm_summary,omitempty"`
	Errors           []string              `json:"errors,omitempty"`

	flags        []screen.Flagged
	observations map[string]screen.Observation
}

// Flatten returns the normalized flag list for aggregation.
func (r *Result) Flatten() []screen.Flagged {
	if r == nil {
		return nil
	}
	return r.flags
}

// Observations returns the company-wide metric comparisons keyed by metric
// id, for the consolidated summary.
func (r *Result) Observations() map[string]screen.Observation {
	if r == nil {
		return nil
	}
	return r.observations
}

// Analyze runs every comparison the document carries inputs for.
func (a *Analyzer) Analyze(ctx context.Context, doc *company.Document) (*Result, error) {
	if doc == nil || doc.Industry == nil {
		return nil, fmt.Errorf("document carries no industry benchmarks")
	}
	res := &Result{observations: make(map[string]screen.Observation)}
	fin := doc.Financials
	ops := doc.Operations
	ind := doc.Industry

	screen.Guard(MetricAssetTurnover, &res.Errors, func() { a.assetTurnover(fin, ind, res) })
	screen.Guard(MetricReturnOnAssets, &res.Errors, func() { a.returnOnAssets(fin, ind, res) })
	screen.Guard(MetricRevenuePerEmployee, &res.Errors, func() { a.revenuePerEmployee(fin, ops, ind, res) })
	screen.Guard(MetricSpaceUtilization, &res.Errors, func() { a.spaceUtilization(ops, ind, res) })
	screen.Guard(MetricOperatingMargin, &res.Errors, func() { a.operatingMargins(fin, ind, res) })
	screen.Guard("growth_metrics", &res.Errors, func() { a.growth(fin, ind, res) })

	if a.llm.Enabled() {
		a.enrich(ctx, doc, res)
	}
	return res, nil
}

func (a *Analyzer) compare(metric string, value float64, ind *company.Industry) Comparison {
	benchmark := ind.Metric(metric)
	return Comparison{
		CompanyValue:    value,
		IndustryAverage: benchmark,
		Percentile:      calc.Percentile(value, benchmark, ind.Distribution(metric)),
		Deviation:       calc.Deviation(value, benchmark),
	}
}

func (a *Analyzer) observe(metric string, cmp Comparison, res *Result) {
	res.observations[metric] = screen.Observation{
		Value:      cmp.CompanyValue,
		Benchmark:  cmp.IndustryAverage,
		Percentile: cmp.Percentile,
		Deviation:  cmp.Deviation,
	}
}

// lagging reports whether value falls below the benchmark performance
// fraction. A zero benchmark never flags.
func (a *Analyzer) lagging(value, benchmark float64) bool {
	return benchmark != 0 && value < benchmark*a.cfg.Performance
}

func (a *Analyzer) assetTurnover(fin *company.Financials, ind *company.Industry, res *Result) {
	if fin == nil || ind.Metric(MetricAssetTurnover) == 0 {
		return
	}
	mc := &MetricComparison{
		Comparison: a.compare(MetricAssetTurnover, calc.Ratio(fin.Revenue, fin.TotalAssets), ind),
	}
	companyAvg := mc.IndustryAverage
	for _, class := range fin.AssetClasses {
		turnover := calc.Ratio(class.Revenue, class.Assets)
		benchmark := company.GroupMetric(ind.ByCategory, class.Name, MetricAssetTurnover, companyAvg)
		if !a.lagging(turnover, benchmark) {
			continue
		}
		mc.Laggards = append(mc.Laggards, Laggard{
			Name:            class.Name,
			Value:           turnover,
			IndustryAverage: benchmark,
			Deviation:       calc.Deviation(turnover, benchmark),
			Severity:        calc.SeverityFor(turnover, benchmark),
		})
		res.addFlag(screen.Flag(class.Name, screen.CategoryAssetClass, MetricAssetTurnover, turnover, benchmark))
	}
	sortLaggards(mc.Laggards)
	res.AssetTurnover = mc
	a.observe(MetricAssetTurnover, mc.Comparison, res)
}

func (a *Analyzer) returnOnAssets(fin *company.Financials, ind *company.Industry, res *Result) {
	if fin == nil || ind.Metric(MetricReturnOnAssets) == 0 {
		return
	}
	mc := &MetricComparison{
		Comparison: a.compare(MetricReturnOnAssets, calc.Ratio(fin.NetIncome, fin.TotalAssets), ind),
	}
	for _, class := range fin.AssetClasses {
		roa := calc.Ratio(class.OperatingIncome, class.Assets)
		benchmark := company.GroupMetric(ind.ByCategory, class.Name, MetricReturnOnAssets, mc.IndustryAverage)
		if !a.lagging(roa, benchmark) {
			continue
		}
		mc.Laggards = append(mc.Laggards, Laggard{
			Name:            class.Name,
			Value:           roa,
			IndustryAverage: benchmark,
			Deviation:       calc.Deviation(roa, benchmark),
			Severity:        calc.SeverityFor(roa, benchmark),
		})
		res.addFlag(screen.Flag(class.Name, screen.CategoryAssetClass, MetricReturnOnAssets, roa, benchmark))
	}
	sortLaggards(mc.Laggards)
	res.ReturnOnAssets = mc
	a.observe(MetricReturnOnAssets, mc.Comparison, res)
}

func (a *Analyzer) revenuePerEmployee(fin *company.Financials, ops *company.Operations, ind *company.Industry, res *Result) {
	if fin == nil || ops == nil || ops.EmployeeCount == 0 || ind.Metric(MetricRevenuePerEmployee) == 0 {
		return
	}
	mc := &MetricComparison{
		Comparison: a.compare(MetricRevenuePerEmployee, calc.Ratio(fin.Revenue, float64(ops.EmployeeCount)), ind),
	}
	for _, unit := range ops.BusinessUnits {
		if unit.Employees == 0 {
			continue
		}
		rpe := calc.Ratio(unit.Revenue, float64(unit.Employees))
		benchmark := company.GroupMetric(ind.ByFunction, unit.Name, MetricRevenuePerEmployee, mc.IndustryAverage)
		if !a.lagging(rpe, benchmark) {
			continue
		}
		mc.Laggards = append(mc.Laggards, Laggard{
			Name:            unit.Name,
			Value:           rpe,
			IndustryAverage: benchmark,
			Deviation:       calc.Deviation(rpe, benchmark),
			Severity:        calc.SeverityFor(rpe, benchmark),
		})
		res.addFlag(screen.Flag(unit.Name, screen.CategoryBusinessUnit, MetricRevenuePerEmployee, rpe, benchmark))
	}
	sortLaggards(mc.Laggards)
	res.RevenuePerEmployee = mc
	a.observe(MetricRevenuePerEmployee, mc.Comparison, res)
}

func (a *Analyzer) spaceUtilization(ops *company.Operations, ind *company.Industry, res *Result) {
	if ops == nil || ind.Metric(MetricSpaceUtilization) == 0 {
		return
	}
	mc := &MetricComparison{
		Comparison: a.compare(MetricSpaceUtilization, ops.SpaceUtilization, ind),
	}
	for _, facility := range ops.Facilities {
		benchmark := company.GroupMetric(ind.ByFacility, facility.Type, MetricSpaceUtilization, mc.IndustryAverage)
		if !a.lagging(facility.Utilization, benchmark) {
			continue
		}
		mc.Laggards = append(mc.Laggards, Laggard{
			Name:            facility.Name,
			Value:           facility.Utilization,
			IndustryAverage: benchmark,
			Deviation:       calc.Deviation(facility.Utilization, benchmark),
			Severity:        calc.SeverityFor(facility.Utilization, benchmark),
		})
		res.addFlag(screen.Flag(facility.Name, screen.CategoryFacility, MetricSpaceUtilization,
			facility.Utilization, benchmark))
	}
	sortLaggards(mc.Laggards)
	res.SpaceUtilization = mc
	a.observe(MetricSpaceUtilization, mc.Comparison, res)
}

func (a *Analyzer) operatingMargins(fin *company.Financials, ind *company.Industry, res *Result) {
	if fin == nil || ind.Metric(MetricOperatingMargin) == 0 {
		return
	}
	mc := &MetricComparison{
		Comparison: a.compare(MetricOperatingMargin, calc.Ratio(fin.OperatingIncome, fin.Revenue), ind),
	}
	for _, segment := range fin.Segments {
		margin := calc.Ratio(segment.OperatingIncome, segment.Revenue)
		benchmark := company.GroupMetric(ind.BySegment, segment.Name, MetricOperatingMargin, mc.IndustryAverage)
		if !a.lagging(margin, benchmark) {
			continue
		}
		mc.Laggards = append(mc.Laggards, Laggard{
			Name:            segment.Name,
			Value:           margin,
			IndustryAverage: benchmark,
			Deviation:       calc.Deviation(margin, benchmark),
			Severity:        calc.SeverityFor(margin, benchmark),
		})
		res.addFlag(screen.Flag(segment.Name, screen.CategorySegment, MetricOperatingMargin, margin, benchmark))
	}
	sortLaggards(mc.Laggards)
	res.OperatingMargins = mc
	a.observe(MetricOperatingMargin, mc.Comparison, res)
}

func (a *Analyzer) growth(fin *company.Financials, ind *company.Industry, res *Result) {
	if fin == nil {
		return
	}
	revBench := ind.Metric(MetricRevenueGrowth)
	profBench := ind.Metric(MetricProfitGrowth)
	if revBench == 0 && profBench == 0 {
		return
	}

	gc := &GrowthComparison{
		RevenueGrowth: a.compare(MetricRevenueGrowth, calc.GrowthFromSeries(fin.RevenueHistory), ind),
		ProfitGrowth:  a.compare(MetricProfitGrowth, calc.GrowthFromSeries(fin.IncomeHistory), ind),
	}

	for _, segment := range fin.Segments {
		if len(segment.RevenueHistory) < 2 && len(segment.IncomeHistory) < 2 {
			continue
		}
		revGrowth := calc.GrowthFromSeries(segment.RevenueHistory)
		profGrowth := calc.GrowthFromSeries(segment.IncomeHistory)
		if revGrowth >= revBench && profGrowth >= profBench {
			continue
		}
		severity := calc.GrowthSeverityFor(revGrowth, profGrowth, revBench, profBench)
		gc.Laggards = append(gc.Laggards, GrowthLaggard{
			Name:          segment.Name,
			RevenueGrowth: revGrowth,
			ProfitGrowth:  profGrowth,
			Severity:      severity,
		})
		res.flags = append(res.flags, screen.Flagged{
			Name:      segment.Name,
			Type:      screen.CategorySegment,
			Metric:    "growth",
			Value:     profGrowth,
			Benchmark: profBench,
			Deviation: severity.WeightedDeviation,
			Severity:  severity.Level,
		})
	}
	sort.Slice(gc.Laggards, func(i, j int) bool {
		return gc.Laggards[i].Severity.WeightedDeviation < gc.Laggards[j].Severity.WeightedDeviation
	})

	res.Growth = gc
	a.observe(MetricRevenueGrowth, gc.RevenueGrowth, res)
	a.observe(MetricProfitGrowth, gc.ProfitGrowth, res)
}

func sortLaggards(laggards []Laggard) {
	sort.Slice(laggards, func(i, j int) bool { return laggards[i].Deviation < laggards[j].Deviation })
}

func (r *Result) addFlag(f screen.Flagged) {
	r.flags = append(r.flags, f)
}
