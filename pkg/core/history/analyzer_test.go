package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noncore_agent/pkg/core/calc"
	"noncore_agent/pkg/core/company"
	"noncore_agent/pkg/core/config"
	"noncore_agent/pkg/core/narrative"
)

func fixedNow() time.Time {
	return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
}

func testDoc() *company.Document {
	return &company.Document{
		Name: "Acme Industrial",
		History: &company.History{
			Acquisitions: []company.Acquisition{
				{
					Name: "Meridian Systems", Year: 2018, Value: 120,
					Assets: []company.AcquiredAsset{
						{Name: "Meridian Test Lab", Value: 30, IntegrationLevel: "minimal"},
						{Name: "Meridian Controls", Value: 90, IntegrationLevel: "full"},
					},
				},
				{
					Name: "Quanta Tooling", Year: 2022, Value: 40,
					IntegrationLevel: "low",
					PrimaryAsset:     "Quanta Die Shop",
				},
			},
			Initiatives: []company.Initiative{
				{
					Name: "Retail Expansion", Status: "abandoned",
					Units: []company.HistoricalUnit{
						{Name: "Direct Retail Group", Status: "operating", Headcount: 45, AnnualCost: 3.8},
						{Name: "Pop-up Stores", Status: "closed"},
					},
				},
			},
			BusinessUnits: []company.HistoricalUnit{
				{Name: "Retail Ventures", Origin: "diversification into consumer retail", Status: "minimal operations", Headcount: 12},
				{Name: "Drive Assembly", Origin: "", Status: "operating"},
			},
			MarketChanges: []company.MarketChange{
				{
					Change: "shift to electric drivetrains",
					AffectedAssets: []company.LegacyAsset{
						{Name: "Carburetor Line", Relevance: "none", BookValue: 15, MarketValue: 2},
						{Name: "Hybrid Inverter Line", Relevance: "growing"},
					},
				},
			},
			LegacyAssets: []company.LegacyAsset{
				{Name: "Film Coating Plant", Relevance: "declining", Reason: "substrate demand moving offshore"},
			},
		},
	}
}

func newAnalyzer(llm narrative.Invoker) *Analyzer {
	a := New(config.Default().Historical, llm)
	a.Now = fixedNow
	return a
}

func TestAcquisitionScreen(t *testing.T) {
	res, err := newAnalyzer(narrative.Invoker{}).Analyze(context.Background(), testDoc())
	require.NoError(t, err)

	require.Len(t, res.Acquisitions.NonIntegrated, 2)

	// Meridian Test Lab: 2026-2018 = 8 years unintegrated -> poor fit.
	lab := res.Acquisitions.NonIntegrated[0]
	assert.Equal(t, "Meridian Systems (2018)", lab.Acquisition)
	assert.Equal(t, "Meridian Test Lab", lab.Asset)
	assert.Equal(t, "poor", lab.StrategicFit)
	assert.Equal(t, 8, lab.YearsSince)

	// Quanta: no asset breakdown, judged whole via primary asset.
	// 2026-2022 = 4 years -> low fit, old enough to surface.
	quanta := res.Acquisitions.NonIntegrated[1]
	assert.Equal(t, "Quanta Die Shop", quanta.Asset)
	assert.Equal(t, "low", quanta.StrategicFit)
}

func TestRecentWholeAcquisitionNotSurfaced(t *testing.T) {
	doc := testDoc()
	doc.History.Acquisitions = []company.Acquisition{
		{Name: "Fresh Deal", Year: 2025, IntegrationLevel: "none"},
	}
	res, err := newAnalyzer(narrative.Invoker{}).Analyze(context.Background(), doc)
	require.NoError(t, err)

	// One year in, the whole deal still rates medium fit and stays off the
	// list. Itemized assets are not gated the same way.
	assert.Empty(t, res.Acquisitions.NonIntegrated)

	doc.History.Acquisitions = []company.Acquisition{
		{
			Name: "Fresh Deal", Year: 2025,
			Assets: []company.AcquiredAsset{{Name: "Deal Lab", IntegrationLevel: "none"}},
		},
	}
	res, err = newAnalyzer(narrative.Invoker{}).Analyze(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, res.Acquisitions.NonIntegrated, 1)
	assert.Equal(t, "medium", res.Acquisitions.NonIntegrated[0].StrategicFit)
}

func TestPartialIntegrationNotFlagged(t *testing.T) {
	doc := testDoc()
	doc.History.Acquisitions = []company.Acquisition{
		{Name: "Halfway Systems", Year: 2018, IntegrationLevel: "partial"},
	}
	res, err := newAnalyzer(narrative.Invoker{}).Analyze(context.Background(), doc)
	require.NoError(t, err)
	assert.Empty(t, res.Acquisitions.NonIntegrated)
}

func TestAbandonedStrategyScreen(t *testing.T) {
	res, err := newAnalyzer(narrative.Invoker{}).Analyze(context.Background(), testDoc())
	require.NoError(t, err)

	// Direct Retail Group still operating under the abandoned initiative,
	// Retail Ventures via its origin wording plus minimal activity. Pop-up
	// Stores is closed and Drive Assembly has no strategy origin.
	require.Len(t, res.Abandoned.ResidualUnits, 2)
	assert.Equal(t, "Direct Retail Group", res.Abandoned.ResidualUnits[0].Unit)
	assert.Equal(t, "Retail Expansion", res.Abandoned.ResidualUnits[0].Strategy)
	assert.Equal(t, "Retail Ventures", res.Abandoned.ResidualUnits[1].Unit)
}

func TestResidualUnitOriginKeywordPath(t *testing.T) {
	doc := testDoc()
	doc.History.Initiatives = nil
	doc.History.BusinessUnits = []company.HistoricalUnit{
		{Name: "Retail Ventures", Origin: "diversification into consumer retail", Status: "minimal operations"},
		{Name: "Shift Office", Origin: "strategic shift to services", Status: "legacy"},
		{Name: "Deal Desk", Origin: "acquisition of Meridian", Status: "maintenance"},
		{Name: "Core Ops", Origin: "diversification program", Status: "operating"},
		{Name: "Plain Unit", Origin: "founded 1985", Status: "minimal operations"},
	}
	res, err := newAnalyzer(narrative.Invoker{}).Analyze(context.Background(), doc)
	require.NoError(t, err)

	// Origin keyword and residual-activity status must both hold.
	names := make([]string, 0)
	for _, u := range res.Abandoned.ResidualUnits {
		names = append(names, u.Unit)
	}
	assert.Equal(t, []string{"Retail Ventures", "Shift Office", "Deal Desk"}, names)
}

func TestResidualUnitsDeduplicated(t *testing.T) {
	doc := testDoc()
	// Same unit reachable through the abandoned initiative and as a
	// standalone entry: it must be listed once.
	doc.History.BusinessUnits = append(doc.History.BusinessUnits, company.HistoricalUnit{
		Name: "Direct Retail Group", Origin: "strategic shift to direct retail", Status: "scaled back",
	})
	res, err := newAnalyzer(narrative.Invoker{}).Analyze(context.Background(), doc)
	require.NoError(t, err)

	count := 0
	for _, u := range res.Abandoned.ResidualUnits {
		if u.Unit == "Direct Retail Group" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestMarketChangeScreen(t *testing.T) {
	res, err := newAnalyzer(narrative.Invoker{}).Analyze(context.Background(), testDoc())
	require.NoError(t, err)

	require.Len(t, res.MarketChanges.ObsoleteAssets, 2)
	carb := res.MarketChanges.ObsoleteAssets[0]
	assert.Equal(t, "Carburetor Line", carb.Asset)
	assert.Equal(t, "shift to electric drivetrains", carb.MarketCondition)
	assert.Equal(t, "Film Coating Plant", res.MarketChanges.ObsoleteAssets[1].Asset)
}

func TestFlattenSeverities(t *testing.T) {
	res, err := newAnalyzer(narrative.Invoker{}).Analyze(context.Background(), testDoc())
	require.NoError(t, err)

	bySubject := make(map[string]calc.Severity)
	for _, f := range res.Flatten() {
		bySubject[f.Name] = f.Severity
	}
	assert.Equal(t, calc.SeverityCritical, bySubject["Meridian Test Lab"], "poor fit")
	assert.Equal(t, calc.SeverityHigh, bySubject["Quanta Die Shop"], "low fit")
	assert.Equal(t, calc.SeverityHigh, bySubject["Direct Retail Group"], "residual unit")
	assert.Equal(t, calc.SeverityCritical, bySubject["Carburetor Line"], "relevance none")
	assert.Equal(t, calc.SeverityMedium, bySubject["Film Coating Plant"], "relevance declining")
}

func TestAnalyzeNoHistory(t *testing.T) {
	_, err := newAnalyzer(narrative.Invoker{}).Analyze(context.Background(), &company.Document{})
	assert.Error(t, err)
}

type stubClient struct{ response string }

func (s stubClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return s.response, nil
}

func TestNarrativeMerge(t *testing.T) {
	response := `[
		{"asset_name": "Carburetor Line", "justification": "ICE parts demand collapsed"},
		{"asset_name": "Northfield Acquisition Remnant", "asset_type": "acquisition", "year_period": "2015"},
		{"asset_name": "Export Compliance Desk", "asset_type": "business unit"},
		{"asset_name": "Analog Sensor Stock", "asset_type": "market-specific asset"}
	]`
	res, err := newAnalyzer(narrative.NewInvoker(stubClient{response}, 0, 1)).
		Analyze(context.Background(), testDoc())
	require.NoError(t, err)

	// Exact-name match enriched in place.
	carb := res.MarketChanges.ObsoleteAssets[0]
	require.NotNil(t, carb.Narrative)
	assert.Equal(t, "ICE parts demand collapsed", carb.Narrative.Justification)
	assert.Empty(t, carb.Source)

	// Unmatched candidates appended by type, with the assumed defaults.
	acq := res.Acquisitions.NonIntegrated[len(res.Acquisitions.NonIntegrated)-1]
	assert.Equal(t, "Northfield Acquisition Remnant", acq.Asset)
	assert.Equal(t, "narrative", acq.Source)
	assert.Equal(t, "low", acq.IntegrationLevel)

	unit := res.Abandoned.ResidualUnits[len(res.Abandoned.ResidualUnits)-1]
	assert.Equal(t, "Export Compliance Desk", unit.Unit)
	assert.Equal(t, "minimal operations", unit.UnitStatus)

	market := res.MarketChanges.ObsoleteAssets[len(res.MarketChanges.ObsoleteAssets)-1]
	assert.Equal(t, "Analog Sensor Stock", market.Asset)

	require.NotNil(t, res.NarrativeSummary)
	assert.Equal(t, 4, res.NarrativeSummary.TotalIdentified)
}

func TestNarrativeGarbageDegrades(t *testing.T) {
	res, err := newAnalyzer(narrative.NewInvoker(stubClient{`{"summary": "no assets here"}`}, 0, 1)).
		Analyze(context.Background(), testDoc())
	require.NoError(t, err)
	assert.Empty(t, res.Insights)
	assert.Len(t, res.MarketChanges.ObsoleteAssets, 2)
}
