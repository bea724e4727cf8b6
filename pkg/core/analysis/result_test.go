package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noncore_agent/pkg/core/calc"
	"noncore_agent/pkg/core/company"
	"noncore_agent/pkg/core/config"
	"noncore_agent/pkg/core/financial"
	"noncore_agent/pkg/core/narrative"
	"noncore_agent/pkg/core/operational"
)

func financialResult(t *testing.T) *financial.Result {
	t.Helper()
	doc := &company.Document{
		Name: "Acme Industrial",
		Financials: &company.Financials{
			Revenue:   1000,
			NetIncome: 80,
			Assets: []company.OwnedAsset{
				{Name: "Coil Line", UtilizationRate: 0.10},
			},
			Subsidiaries: []company.Subsidiary{
				{Name: "Coil Line", RevenueContribution: 0.02, ProfitMargin: -0.20},
			},
		},
	}
	res, err := financial.New(config.Default().Financial, narrative.Invoker{}).
		Analyze(context.Background(), doc)
	require.NoError(t, err)
	return res
}

func operationalResult(t *testing.T) *operational.Result {
	t.Helper()
	doc := &company.Document{
		Name: "Acme Industrial",
		Operations: &company.Operations{
			Facilities: []company.Facility{
				{Name: "Plant B", Utilization: 0.25},
			},
		},
	}
	res, err := operational.New(config.Default().Operational, narrative.Invoker{}).
		Analyze(context.Background(), doc)
	require.NoError(t, err)
	return res
}

func TestConsolidateHistogram(t *testing.T) {
	res := &ScreeningResult{
		Company:     "Acme Industrial",
		Financial:   financialResult(t),
		Operational: operationalResult(t),
	}
	Consolidate(res)

	require.NotNil(t, res.Summary)
	assert.Equal(t, len(res.Summary.Flagged), res.Summary.TotalUnderperforming)
	assert.Greater(t, res.Summary.TotalUnderperforming, 0)

	// Every severity level is present in the histogram, zeroes included.
	total := 0
	for _, s := range calc.Severities {
		count, ok := res.Summary.BySeverity[s]
		assert.True(t, ok, "missing histogram bucket %s", s)
		total += count
	}
	assert.Equal(t, res.Summary.TotalUnderperforming, total)
}

func TestConsolidateWithMissingAnalyzers(t *testing.T) {
	res := &ScreeningResult{Company: "Acme Industrial"}
	Consolidate(res)

	require.NotNil(t, res.Summary)
	assert.Zero(t, res.Summary.TotalUnderperforming)
	assert.Empty(t, res.Summary.Shortlist)
}

func TestShortlistRanking(t *testing.T) {
	res := &ScreeningResult{
		Company:   "Acme Industrial",
		Financial: financialResult(t),
	}
	Consolidate(res)

	// Coil Line is flagged three times: asset utilization plus the two
	// subsidiary screens. It must lead with distinct metrics and the worst
	// severity across its flags.
	require.NotEmpty(t, res.Summary.Shortlist)
	top := res.Summary.Shortlist[0]
	assert.Equal(t, "Coil Line", top.Name)
	assert.Equal(t, 3, top.FlagCount)
	assert.Equal(t, calc.SeverityCritical, top.Severity)
	assert.Len(t, top.Metrics, 3)
	assert.LessOrEqual(t, len(res.Summary.Shortlist), 5)
}
