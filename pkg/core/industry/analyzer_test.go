package industry

import (
	"context"
	"testing"

	"noncore_agent/pkg/core/calc"
	"noncore_agent/pkg/core/company"
	"noncore_agent/pkg/core/config"
	"noncore_agent/pkg/core/narrative"
)

func testDoc() *company.Document {
	return &company.Document{
		Name: "Acme Industrial",
		Financials: &company.Financials{
			Revenue:         1000,
			NetIncome:       60,
			OperatingIncome: 90,
			TotalAssets:     2000,
			RevenueHistory:  []float64{1000, 980},
			IncomeHistory:   []float64{60, 75},
			AssetClasses: []company.AssetClass{
				{Name: "Machinery", Revenue: 200, Assets: 500, OperatingIncome: 10},
				{Name: "Logistics", Revenue: 300, Assets: 200, OperatingIncome: 40},
			},
			Segments: []company.Segment{
				{
					Name: "Legacy Components", Revenue: 100, OperatingIncome: 2,
					RevenueHistory: []float64{100, 108},
					IncomeHistory:  []float64{2, 6},
				},
				{
					Name: "Drive Systems", Revenue: 600, OperatingIncome: 80,
					RevenueHistory: []float64{600, 540},
					IncomeHistory:  []float64{80, 68},
				},
			},
		},
		Operations: &company.Operations{
			EmployeeCount:    1000,
			SpaceUtilization: 0.70,
			Facilities: []company.Facility{
				{Name: "Plant B", Type: "manufacturing", Utilization: 0.40},
			},
			BusinessUnits: []company.BusinessUnit{
				{Name: "Field Services", Revenue: 50, Employees: 200},
			},
		},
		Industry: &company.Industry{
			Metrics: map[string]float64{
				MetricAssetTurnover:      0.8,
				MetricReturnOnAssets:     0.05,
				MetricRevenuePerEmployee: 1.2,
				MetricSpaceUtilization:   0.80,
				MetricOperatingMargin:    0.10,
				MetricRevenueGrowth:      0.06,
				MetricProfitGrowth:       0.08,
			},
			Distributions: map[string][]float64{
				MetricAssetTurnover: {0.3, 0.4, 0.5, 0.6, 0.8, 0.9, 1.0, 1.1, 1.2, 1.4},
			},
		},
	}
}

func newAnalyzer() *Analyzer {
	return New(config.Default().Industry, narrative.Invoker{})
}

func almostEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}

func TestAssetTurnoverComparison(t *testing.T) {
	res, err := newAnalyzer().Analyze(context.Background(), testDoc())
	if err != nil {
		t.Fatal(err)
	}
	mc := res.AssetTurnover
	if mc == nil {
		t.Fatal("asset turnover comparison missing")
	}
	// Company: 1000/2000 = 0.5, benchmark 0.8, deviation -0.375.
	if mc.CompanyValue != 0.5 {
		t.Errorf("company value = %v", mc.CompanyValue)
	}
	if !almostEqual(mc.Deviation, -0.375) {
		t.Errorf("deviation = %v", mc.Deviation)
	}
	// 3 of 10 peers at or below 0.5.
	if mc.Percentile != 30 {
		t.Errorf("percentile = %v", mc.Percentile)
	}

	// Machinery: 200/500 = 0.4 < 0.8*0.75 = 0.6 -> flagged.
	// Logistics: 300/200 = 1.5 -> not flagged.
	if len(mc.Laggards) != 1 || mc.Laggards[0].Name != "Machinery" {
		t.Fatalf("laggards = %+v", mc.Laggards)
	}
	// 0.4 vs 0.8: deviation -0.5 -> Critical.
	if mc.Laggards[0].Severity != calc.SeverityCritical {
		t.Errorf("laggard severity = %v", mc.Laggards[0].Severity)
	}
}

func TestObservationsCoverComparisons(t *testing.T) {
	res, err := newAnalyzer().Analyze(context.Background(), testDoc())
	if err != nil {
		t.Fatal(err)
	}
	obs := res.Observations()
	for _, metric := range []string{
		MetricAssetTurnover, MetricReturnOnAssets, MetricRevenuePerEmployee,
		MetricSpaceUtilization, MetricOperatingMargin, MetricRevenueGrowth, MetricProfitGrowth,
	} {
		if _, ok := obs[metric]; !ok {
			t.Errorf("missing observation %s", metric)
		}
	}
}

func TestGrowthLaggards(t *testing.T) {
	res, err := newAnalyzer().Analyze(context.Background(), testDoc())
	if err != nil {
		t.Fatal(err)
	}
	gc := res.Growth
	if gc == nil {
		t.Fatal("growth comparison missing")
	}

	// Legacy Components: revenue growth (100-108)/108 = -0.0741,
	// profit growth (2-6)/6 = -0.6667 -> both below benchmarks -> flagged.
	// Drive Systems: both above benchmarks -> not flagged.
	if len(gc.Laggards) != 1 || gc.Laggards[0].Name != "Legacy Components" {
		t.Fatalf("growth laggards = %+v", gc.Laggards)
	}
	lag := gc.Laggards[0]
	// rd = (-0.0741-0.06)/0.06 = -2.2346, pd = (-0.6667-0.08)/0.08 = -9.3333
	// w well below -0.5 -> score clamps to 100 -> Critical.
	if lag.Severity.Level != calc.SeverityCritical {
		t.Errorf("growth severity = %+v", lag.Severity)
	}
	if lag.Severity.Score != 100 {
		t.Errorf("growth score = %v", lag.Severity.Score)
	}
}

func TestSubCategoryBenchmarkOverride(t *testing.T) {
	doc := testDoc()
	// With a per-category benchmark of 0.5, Machinery's 0.4 is above
	// 0.5*0.75 = 0.375 and is no longer flagged.
	doc.Industry.ByCategory = map[string]map[string]float64{
		"Machinery": {MetricAssetTurnover: 0.5},
	}
	res, err := newAnalyzer().Analyze(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.AssetTurnover.Laggards) != 0 {
		t.Errorf("laggards = %+v", res.AssetTurnover.Laggards)
	}
}

func TestMissingBenchmarkSkipsComparison(t *testing.T) {
	doc := testDoc()
	delete(doc.Industry.Metrics, MetricSpaceUtilization)
	res, err := newAnalyzer().Analyze(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	if res.SpaceUtilization != nil {
		t.Errorf("space utilization should be skipped without a benchmark")
	}
	if res.AssetTurnover == nil {
		t.Error("other comparisons should still run")
	}
}

func TestAnalyzeNoBenchmarks(t *testing.T) {
	if _, err := newAnalyzer().Analyze(context.Background(), &company.Document{}); err == nil {
		t.Error("expected error without industry data")
	}
}

type stubClient struct{ response string }

func (s stubClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return s.response, nil
}

func TestNarrativeEnrichesLaggard(t *testing.T) {
	response := `[{"asset_name": "Machinery", "justification": "capacity stranded after line exit"}]`
	a := New(config.Default().Industry, narrative.NewInvoker(stubClient{response}, 0, 1))
	res, err := a.Analyze(context.Background(), testDoc())
	if err != nil {
		t.Fatal(err)
	}
	lag := res.AssetTurnover.Laggards[0]
	if lag.Narrative == nil || lag.Narrative.Justification != "capacity stranded after line exit" {
		t.Errorf("laggard narrative = %+v", lag.Narrative)
	}
	if len(res.Insights) != 1 {
		t.Errorf("insights = %+v", res.Insights)
	}
}
