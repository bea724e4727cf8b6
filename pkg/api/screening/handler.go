// Package screening exposes the screening pipeline over HTTP.
package screening

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"noncore_agent/pkg/core/agent"
	"noncore_agent/pkg/core/company"
	"noncore_agent/pkg/core/config"
	"noncore_agent/pkg/core/pipeline"
	"noncore_agent/pkg/core/report"
)

var (
	agentManager *agent.Manager
	screenConfig = config.Default()
	resultStore  pipeline.ResultStore
)

// InitHandler wires the handler to the agent manager and screening config.
func InitHandler(mgr *agent.Manager, cfg config.Config) {
	agentManager = mgr
	screenConfig = cfg
}

// SetStore enables persistence of screening runs.
func SetStore(store pipeline.ResultStore) {
	resultStore = store
}

type ScreeningRequest struct {
	Company   map[string]interface{} `json:"company"`
	Narrative bool                   `json:"narrative"`
	Format    string                 `json:"format,omitempty"` // "json" (default) or "markdown"
}

// HandleScreening runs the four analyzers over the posted company document.
func HandleScreening(w http.ResponseWriter, r *http.Request) {
	// CORS
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ScreeningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	doc := company.Normalize(req.Company)
	if doc == nil {
		http.Error(w, "request carries no company data", http.StatusBadRequest)
		return
	}

	cfg := screenConfig
	cfg.Narrative.Enabled = cfg.Narrative.Enabled && req.Narrative

	var clients pipeline.Clients
	if cfg.Narrative.Enabled && agentManager != nil {
		clients = pipeline.Clients{
			Financial:   agentManager.ClientFor("financial"),
			Operational: agentManager.ClientFor("operational"),
			Industry:    agentManager.ClientFor("industry"),
			Historical:  agentManager.ClientFor("historical"),
		}
	}

	screener := pipeline.NewScreener(cfg, clients)
	if resultStore != nil {
		screener.SetStore(resultStore)
	}

	res, err := screener.Run(r.Context(), doc)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if req.Format == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		if _, err := w.Write([]byte(report.Markdown(res))); err != nil {
			log.Warn().Err(err).Msg("failed to write markdown response")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.Warn().Err(err).Msg("failed to encode screening response")
	}
}
