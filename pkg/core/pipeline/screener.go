// Package pipeline runs the end-to-end screening flow: four analyzers over
// one company document, consolidation, and optional persistence.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"noncore_agent/pkg/core/analysis"
	"noncore_agent/pkg/core/company"
	"noncore_agent/pkg/core/config"
	"noncore_agent/pkg/core/financial"
	"noncore_agent/pkg/core/history"
	"noncore_agent/pkg/core/industry"
	"noncore_agent/pkg/core/narrative"
	"noncore_agent/pkg/core/operational"
)

// ResultStore persists completed screening runs. Implementations may write
// to Postgres, a file, or an in-memory map for tests.
type ResultStore interface {
	Save(ctx context.Context, res *analysis.ScreeningResult) error
}

// Clients carries one narrative client per analyzer. Nil slots disable the
// narrative pass for that analyzer; heuristics still run.
type Clients struct {
	Financial   narrative.Client
	Operational narrative.Client
	Industry    narrative.Client
	Historical  narrative.Client
}

// Screener wires the analyzers together and runs them over a document.
type Screener struct {
	cfg     config.Config
	clients Clients
	store   ResultStore
}

func NewScreener(cfg config.Config, clients Clients) *Screener {
	return &Screener{cfg: cfg, clients: clients}
}

// SetStore injects a result store. Without one, results are returned only.
func (s *Screener) SetStore(store ResultStore) {
	s.store = store
}

func (s *Screener) invoker(client narrative.Client) narrative.Invoker {
	if !s.cfg.Narrative.Enabled {
		return narrative.Invoker{}
	}
	return narrative.NewInvoker(client, s.cfg.Narrative.Timeout(), s.cfg.Narrative.RetryAttempts)
}

// Run screens one company. Each analyzer runs independently: a missing data
// section or a panic in one analyzer is recorded in AnalyzerErrors and the
// rest still contribute to the consolidated result.
func (s *Screener) Run(ctx context.Context, doc *company.Document) (*analysis.ScreeningResult, error) {
	if doc == nil {
		return nil, fmt.Errorf("no company document to screen")
	}
	start := time.Now()
	res := &analysis.ScreeningResult{
		RunID:          uuid.NewString(),
		Company:        doc.Name,
		Ticker:         doc.Ticker,
		GeneratedAt:    start.UTC(),
		AnalyzerErrors: make(map[string]string),
	}
	log.Info().Str("run_id", res.RunID).Str("company", doc.Name).Msg("screening started")

	runAnalyzer(ctx, "financial", res, &res.Financial, func(ctx context.Context) (*financial.Result, error) {
		return financial.New(s.cfg.Financial, s.invoker(s.clients.Financial)).Analyze(ctx, doc)
	})
	runAnalyzer(ctx, "operational", res, &res.Operational, func(ctx context.Context) (*operational.Result, error) {
		return operational.New(s.cfg.Operational, s.invoker(s.clients.Operational)).Analyze(ctx, doc)
	})
	runAnalyzer(ctx, "industry", res, &res.Industry, func(ctx context.Context) (*industry.Result, error) {
		return industry.New(s.cfg.Industry, s.invoker(s.clients.Industry)).Analyze(ctx, doc)
	})
	runAnalyzer(ctx, "historical", res, &res.Historical, func(ctx context.Context) (*history.Result, error) {
		return history.New(s.cfg.Historical, s.invoker(s.clients.Historical)).Analyze(ctx, doc)
	})

	analysis.Consolidate(res)

	if s.store != nil {
		if err := s.store.Save(ctx, res); err != nil {
			log.Warn().Err(err).Str("run_id", res.RunID).Msg("result not persisted")
		}
	}

	log.Info().
		Str("run_id", res.RunID).
		Int("flagged", res.Summary.TotalUnderperforming).
		Dur("elapsed", time.Since(start)).
		Msg("screening finished")
	return res, nil
}

// runAnalyzer executes one analyzer, recovering panics into an error marker
// so a single bad section cannot sink the whole run.
func runAnalyzer[T any](ctx context.Context, name string, res *analysis.ScreeningResult, slot **T, fn func(context.Context) (*T, error)) {
	defer func() {
		if r := recover(); r != nil {
			res.AnalyzerErrors[name] = fmt.Sprintf("panic: %v", r)
			log.Error().Str("analyzer", name).Interface("panic", r).Msg("analyzer crashed")
		}
	}()
	out, err := fn(ctx)
	if err != nil {
		res.AnalyzerErrors[name] = err.Error()
		log.Warn().Err(err).Str("analyzer", name).Msg("analyzer skipped")
		return
	}
	*slot = out
}
