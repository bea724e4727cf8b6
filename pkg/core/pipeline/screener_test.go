package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noncore_agent/pkg/core/analysis"
	"noncore_agent/pkg/core/company"
	"noncore_agent/pkg/core/config"
)

func testDoc() *company.Document {
	return &company.Document{
		Name:   "Acme Industrial",
		Ticker: "ACME",
		Financials: &company.Financials{
			Revenue:   1000,
			NetIncome: 80,
			Assets: []company.OwnedAsset{
				{Name: "Coil Line", UtilizationRate: 0.10},
			},
		},
		Operations: &company.Operations{
			Facilities: []company.Facility{
				{Name: "Plant B", Utilization: 0.25},
			},
		},
	}
}

type memStore struct {
	saved []*analysis.ScreeningResult
	err   error
}

func (m *memStore) Save(ctx context.Context, res *analysis.ScreeningResult) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, res)
	return nil
}

func TestRunPartialDocument(t *testing.T) {
	s := NewScreener(config.Default(), Clients{})
	res, err := s.Run(context.Background(), testDoc())
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, "Acme Industrial", res.Company)
	assert.NotNil(t, res.Financial)
	assert.NotNil(t, res.Operational)

	// The document has no industry or history sections: those analyzers
	// are skipped with markers, not run errors.
	assert.Nil(t, res.Industry)
	assert.Nil(t, res.Historical)
	assert.Contains(t, res.AnalyzerErrors, "industry")
	assert.Contains(t, res.AnalyzerErrors, "historical")

	require.NotNil(t, res.Summary)
	assert.Greater(t, res.Summary.TotalUnderperforming, 0)
}

func TestRunNilDocument(t *testing.T) {
	_, err := NewScreener(config.Default(), Clients{}).Run(context.Background(), nil)
	assert.Error(t, err)
}

func TestRunPersistsResult(t *testing.T) {
	store := &memStore{}
	s := NewScreener(config.Default(), Clients{})
	s.SetStore(store)

	res, err := s.Run(context.Background(), testDoc())
	require.NoError(t, err)
	require.Len(t, store.saved, 1)
	assert.Equal(t, res.RunID, store.saved[0].RunID)
}

func TestRunSurvivesStoreFailure(t *testing.T) {
	store := &memStore{err: assert.AnError}
	s := NewScreener(config.Default(), Clients{})
	s.SetStore(store)

	res, err := s.Run(context.Background(), testDoc())
	require.NoError(t, err)
	assert.NotNil(t, res.Summary)
}
