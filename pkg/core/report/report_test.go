package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noncore_agent/pkg/core/analysis"
	"noncore_agent/pkg/core/company"
	"noncore_agent/pkg/core/config"
	"noncore_agent/pkg/core/pipeline"
)

func testResult(t *testing.T) *analysis.ScreeningResult {
	t.Helper()
	doc := &company.Document{
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
	res, err := pipeline.NewScreener(config.Default(), pipeline.Clients{}).
		Run(context.Background(), doc)
	require.NoError(t, err)
	return res
}

func TestMarkdownSections(t *testing.T) {
	md := Markdown(testResult(t))

	assert.Contains(t, md, "# Non-Core Asset Screening: Acme Industrial")
	assert.Contains(t, md, "## Summary")
	assert.Contains(t, md, "## Divestiture Shortlist")
	assert.Contains(t, md, "## Financial Screening")
	assert.Contains(t, md, "Coil Line")
	assert.Contains(t, md, "## Operational Screening")
	assert.Contains(t, md, "Plant B")

	// Missing sections reported as skipped, not rendered.
	assert.NotContains(t, md, "## Industry Comparison")
	assert.Contains(t, md, "## Skipped Analyzers")
}

func TestHTMLRendering(t *testing.T) {
	html, err := HTML(testResult(t))
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>")
	assert.Contains(t, html, "Acme Industrial")
	assert.Contains(t, html, "<table>")
}

func TestWriteHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")
	require.NoError(t, WriteHTML(testResult(t), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "Acme Industrial"))
}
