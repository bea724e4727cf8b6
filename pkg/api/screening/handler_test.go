package screening

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noncore_agent/pkg/core/agent"
	"noncore_agent/pkg/core/analysis"
	"noncore_agent/pkg/core/config"
)

func setup() {
	InitHandler(agent.NewManager(agent.Config{}), config.Default())
	SetStore(nil)
}

func TestHandleScreening(t *testing.T) {
	setup()
	body := `{
		"company": {
			"name": "Acme Industrial",
			"financials": {
				"revenue": 1000,
				"assets": [{"name": "Coil Line", "utilization_rate": 0.1}]
			}
		},
		"narrative": false
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/screening", strings.NewReader(body))
	rec := httptest.NewRecorder()
	HandleScreening(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var res analysis.ScreeningResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "Acme Industrial", res.Company)
	require.NotNil(t, res.Summary)
	assert.Greater(t, res.Summary.TotalUnderperforming, 0)
}

func TestHandleScreeningMarkdown(t *testing.T) {
	setup()
	body := `{
		"company": {
			"name": "Acme Industrial",
			"financials": {"revenue": 1000}
		},
		"format": "markdown"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/screening", strings.NewReader(body))
	rec := httptest.NewRecorder()
	HandleScreening(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "# Non-Core Asset Screening: Acme Industrial")
}

func TestHandleScreeningBadRequests(t *testing.T) {
	setup()

	req := httptest.NewRequest(http.MethodPost, "/api/screening", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	HandleScreening(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/screening", strings.NewReader(`{"company": null}`))
	rec = httptest.NewRecorder()
	HandleScreening(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/screening", nil)
	rec = httptest.NewRecorder()
	HandleScreening(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleScreeningCORSPreflight(t *testing.T) {
	setup()
	req := httptest.NewRequest(http.MethodOptions, "/api/screening", nil)
	rec := httptest.NewRecorder()
	HandleScreening(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
