// Package history screens the corporate past: acquisitions that never
// integrated, business units left behind by abandoned strategies, and
// assets stranded by market shifts.
package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"noncore_agent/pkg/core/calc"
	"noncore_agent/pkg/core/company"
	"noncore_agent/pkg/core/config"
	"noncore_agent/pkg/core/narrative"
	"noncore_agent/pkg/core/screen"
)

const fallbackSystemPrompt = `You are a corporate historian screening a company's past decisions for assets that no longer fit.
Review the acquisition record, strategic initiatives, and market changes, and identify acquisitions, business units, or market-specific assets that lost their original purpose.
Respond with a JSON list of objects, each with: asset_name, asset_type (acquisition, business unit, or market-specific asset), year_period, original_strategic_purpose, justification, current_strategic_alignment.`

// Analyzer runs the historical screens.
type Analyzer struct {
	cfg config.HistoricalThresholds
	llm narrative.Invoker

	// Now is injectable for deterministic acquisition-age tests.
	Now func() time.Time
}

func New(cfg config.HistoricalThresholds, llm narrative.Invoker) *Analyzer {
	return &Analyzer{cfg: cfg, llm: llm, Now: time.Now}
}

// Result is the historical context bundle.
type Result struct {
	Acquisitions  AcquisitionFindings `json:"acquisitions"`
	Abandoned     StrategyFindings    `json:"abandoned_strategies"`
	MarketChanges MarketFindings      `json:"market_changes"`

	Insights         []narrative.Candidate `json:"llm_insights,omitempty"`
	NarrativeSummary *narrative.Summary    `json:"llm_summary,omitempty"`
	Errors           []string              `json:"errors,omitempty"`

	flags []screen.Flagged
}

type AcquisitionFindings struct {
	NonIntegrated []NonIntegratedAsset `json:"non_integrated_assets"`
}

// NonIntegratedAsset is one asset from an acquisition that was never folded
// into the core business.
type NonIntegratedAsset struct {
	Acquisition      string                `json:"acquisition"` // "Name (Year)"
	Asset            string                `json:"asset"`
	IntegrationLevel string                `json:"integration_level"`
	StrategicFit     string                `json:"strategic_fit"`
	YearsSince       int                   `json:"years_since_acquisition"`
	OriginalValue    float64               `json:"original_value,omitempty"`
	Source           string                `json:"source,omitempty"`
	Narrative        *narrative.Enrichment `json:"narrative,omitempty"`
}

type StrategyFindings struct {
	ResidualUnits []ResidualUnit `json:"residual_units"`
}

// ResidualUnit is a business unit still operating although the initiative
// that created it was abandoned.
type ResidualUnit struct {
	Unit             string                `json:"unit"`
	Strategy         string                `json:"strategy,omitempty"`
	UnitStatus       string                `json:"unit_status,omitempty"`
	InitiativeStatus string                `json:"initiative_status,omitempty"`
	Headcount        int                   `json:"headcount,omitempty"`
	AnnualCost       float64               `json:"annual_cost,omitempty"`
	Source           string                `json:"source,omitempty"`
	Narrative        *narrative.Enrichment `json:"narrative,omitempty"`
}

type MarketFindings struct {
	ObsoleteAssets []ObsoleteAsset `json:"obsolete_assets"`
}

// ObsoleteAsset is an asset whose market relevance has decayed.
type ObsoleteAsset struct {
	Asset           string                `json:"asset"`
	MarketCondition string                `json:"market_condition,omitempty"`
	Relevance       string                `json:"relevance,omitempty"`
	BookValue       float64               `json:"book_value,omitempty"`
	MarketValue     float64               `json:"market_value,omitempty"`
	Reason          string                `json:"reason,omitempty"`
	Source          string                `json:"source,omitempty"`
	Narrative       *narrative.Enrichment `json:"narrative,omitempty"`
}

// Flatten returns the normalized flag list for aggregation.
func (r *Result) Flatten() []screen.Flagged {
	if r == nil {
		return nil
	}
	return r.flags
}

// Analyze runs all historical screens over the document.
func (a *Analyzer) Analyze(ctx context.Context, doc *company.Document) (*Result, error) {
	if doc == nil || doc.History == nil {
		return nil, fmt.Errorf("document carries no corporate history")
	}
	hist := doc.History
	res := &Result{}

	screen.Guard("acquisitions", &res.Errors, func() { a.acquisitions(hist, res) })
	screen.Guard("abandoned_strategies", &res.Errors, func() { a.abandonedStrategies(hist, res) })
	screen.Guard("market_changes", &res.Errors, func() { a.marketChanges(hist, res) })

	if a.llm.Enabled() {
		a.enrich(ctx, doc, res)
	}
	return res, nil
}

// acquisitions flags acquired assets that stayed unintegrated, graded by
// how long ago the deal closed. The "Name (Year)" key deduplicates assets
// reported under the same acquisition.
func (a *Analyzer) acquisitions(hist *company.History, res *Result) {
	currentYear := a.Now().Year()
	seen := make(map[string]bool)

	for _, acq := range hist.Acquisitions {
		yearsSince := currentYear - acq.Year
		if acq.Year == 0 {
			yearsSince = 0
		}
		dealKey := fmt.Sprintf("%s (%d)", acq.Name, acq.Year)

		assets := acq.Assets
		whole := len(assets) == 0
		if whole {
			// No per-asset breakdown: judge the acquisition as a whole.
			name := acq.PrimaryAsset
			if name == "" {
				name = acq.Name
			}
			assets = []company.AcquiredAsset{{Name: name, Value: acq.Value, IntegrationLevel: acq.IntegrationLevel}}
		}

		for _, asset := range assets {
			level := asset.IntegrationLevel
			if level == "" {
				level = acq.IntegrationLevel
			}
			if !unintegrated(level) {
				continue
			}
			key := dealKey + "/" + asset.Name
			if seen[key] {
				continue
			}
			seen[key] = true

			fit := a.strategicFit(yearsSince, level)
			// A whole deal surfaces only once the fit has decayed; recent
			// deals get time to integrate. Itemized assets are listed as-is.
			if whole && fit != "poor" && fit != "low" {
				continue
			}
			res.Acquisitions.NonIntegrated = append(res.Acquisitions.NonIntegrated, NonIntegratedAsset{
				Acquisition:      dealKey,
				Asset:            asset.Name,
				IntegrationLevel: level,
				StrategicFit:     fit,
				YearsSince:       yearsSince,
				OriginalValue:    asset.Value,
			})
			res.addFlag(screen.RatedFlag(asset.Name, screen.CategoryAcquired, "acquisition_integration",
				fitSeverity(fit)))
		}
	}
}

// strategicFit grades an unintegrated acquisition by age: the longer a deal
// sits unintegrated, the less likely it ever becomes core.
func (a *Analyzer) strategicFit(yearsSince int, level string) string {
	if !unintegrated(level) {
		return "high"
	}
	switch {
	case yearsSince >= a.cfg.PoorFitYears:
		return "poor"
	case yearsSince >= a.cfg.LowFitYears:
		return "low"
	default:
		return "medium"
	}
}

func unintegrated(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "low", "minimal", "none":
		return true
	}
	return false
}

func fitSeverity(fit string) calc.Severity {
	switch fit {
	case "poor":
		return calc.SeverityCritical
	case "low":
		return calc.SeverityHigh
	case "medium":
		return calc.SeverityMedium
	}
	return calc.SeverityLow
}

// abandonedStrategies flags units still running under initiatives the
// company walked away from. Units are deduplicated by name across both
// detection paths.
func (a *Analyzer) abandonedStrategies(hist *company.History, res *Result) {
	seen := make(map[string]bool)
	add := func(unit company.HistoricalUnit, strategy, initiativeStatus string) {
		if seen[unit.Name] {
			return
		}
		seen[unit.Name] = true
		res.Abandoned.ResidualUnits = append(res.Abandoned.ResidualUnits, ResidualUnit{
			Unit:             unit.Name,
			Strategy:         strategy,
			UnitStatus:       unit.Status,
			InitiativeStatus: initiativeStatus,
			Headcount:        unit.Headcount,
			AnnualCost:       unit.AnnualCost,
		})
		res.addFlag(screen.RatedFlag(unit.Name, screen.CategoryBusinessUnit, "abandoned_strategy",
			calc.SeverityHigh))
	}

	for _, initiative := range hist.Initiatives {
		if !strategyAbandoned(initiative.Status) {
			continue
		}
		for _, unit := range initiative.Units {
			if unitWoundDown(unit.Status) {
				continue
			}
			add(unit, initiative.Name, initiative.Status)
		}
	}

	// Standalone units whose origin text points at a past strategy push and
	// whose status shows only residual activity.
	for _, unit := range hist.BusinessUnits {
		if !originSuggestsStrategy(unit.Origin) || !minimalActivity(unit.Status) {
			continue
		}
		add(unit, unit.Origin, "")
	}
}

func originSuggestsStrategy(origin string) bool {
	o := strings.ToLower(origin)
	for _, kw := range []string{"strategic shift", "acquisition", "diversification"} {
		if strings.Contains(o, kw) {
			return true
		}
	}
	return false
}

func minimalActivity(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "minimal operations", "scaled back", "legacy", "maintenance":
		return true
	}
	return false
}

func strategyAbandoned(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "abandoned", "discontinued", "scaled back", "deprioritized":
		return true
	}
	return false
}

func unitWoundDown(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "closed", "sold", "divested":
		return true
	}
	return false
}

// marketChanges flags assets whose relevance decayed, from explicit market
// shift records and from the standalone legacy-asset list.
func (a *Analyzer) marketChanges(hist *company.History, res *Result) {
	seen := make(map[string]bool)
	add := func(asset company.LegacyAsset, condition string) {
		if !relevanceDecayed(asset.Relevance) || seen[asset.Name] {
			return
		}
		seen[asset.Name] = true
		severity := relevanceSeverity(asset.Relevance)
		res.MarketChanges.ObsoleteAssets = append(res.MarketChanges.ObsoleteAssets, ObsoleteAsset{
			Asset:           asset.Name,
			MarketCondition: condition,
			Relevance:       asset.Relevance,
			BookValue:       asset.BookValue,
			MarketValue:     asset.MarketValue,
			Reason:          asset.Reason,
		})
		res.addFlag(screen.RatedFlag(asset.Name, screen.CategoryMarket, "market_relevance", severity))
	}

	for _, change := range hist.MarketChanges {
		for _, asset := range change.AffectedAssets {
			add(asset, change.Change)
		}
	}
	for _, asset := range hist.LegacyAssets {
		add(asset, "")
	}
}

func relevanceDecayed(relevance string) bool {
	switch strings.ToLower(strings.TrimSpace(relevance)) {
	case "declining", "diminishing", "minimal", "low", "none":
		return true
	}
	return false
}

func relevanceSeverity(relevance string) calc.Severity {
	switch strings.ToLower(strings.TrimSpace(relevance)) {
	case "none":
		return calc.SeverityCritical
	case "minimal", "low":
		return calc.SeverityHigh
	}
	return calc.SeverityMedium
}

func (r *Result) addFlag(f screen.Flagged) {
	r.flags = append(r.flags, f)
}
