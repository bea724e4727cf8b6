package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"noncore_agent/pkg/core/calc"
	"noncore_agent/pkg/core/company"
	"noncore_agent/pkg/core/narrative"
	"noncore_agent/pkg/core/prompt"
	"noncore_agent/pkg/core/screen"
)

const sourceNarrative = "narrative"

func (a *Analyzer) enrich(ctx context.Context, doc *company.Document, res *Result) {
	payload, err := json.MarshalIndent(doc.History, "", "  ")
	if err != nil {
		return
	}
	system := prompt.SystemPromptOr(prompt.HistoricalScreening, fallbackSystemPrompt)
	user := fmt.Sprintf("Company: %s\n\nCorporate history:\n%s", doc.Name, payload)

	raw, err := a.llm.Generate(ctx, system, user)
	if err != nil {
		log.Warn().Err(err).Msg("historical narrative unavailable, heuristics only")
		return
	}
	candidates, err := narrative.ParseCandidates(raw)
	if err != nil {
		log.Warn().Err(err).Msg("historical narrative unusable, heuristics only")
		return
	}

	res.Insights = candidates
	res.NarrativeSummary = narrative.Summarize(candidates)
	res.merge(candidates)
}

// merge enriches matched findings in place. New candidates land in the
// list their type suggests: acquisition-like types join the non-integrated
// assets, business-unit-like the residual units, and everything else the
// obsolete assets.
func (r *Result) merge(candidates []narrative.Candidate) {
	for _, c := range candidates {
		if r.enrichMatch(c) {
			continue
		}
		switch narrative.ClassifyKind(c.AssetType) {
		case narrative.KindAcquisition:
			// Assumed defaults: the model saw something the heuristics did
			// not, so the entry carries the weakest integration assumption.
			r.Acquisitions.NonIntegrated = append(r.Acquisitions.NonIntegrated, NonIntegratedAsset{
				Acquisition:      c.YearPeriod,
				Asset:            c.AssetName,
				IntegrationLevel: "low",
				Source:           sourceNarrative,
				Narrative:        c.Enrichment(),
			})
			r.addFlag(screen.RatedFlag(c.AssetName, screen.CategoryAcquired, "narrative", calc.SeverityMedium))
		case narrative.KindBusinessUnit:
			r.Abandoned.ResidualUnits = append(r.Abandoned.ResidualUnits, ResidualUnit{
				Unit:       c.AssetName,
				UnitStatus: "minimal operations",
				Source:     sourceNarrative,
				Narrative:  c.Enrichment(),
			})
			r.addFlag(screen.RatedFlag(c.AssetName, screen.CategoryBusinessUnit, "narrative", calc.SeverityMedium))
		default:
			r.MarketChanges.ObsoleteAssets = append(r.MarketChanges.ObsoleteAssets, ObsoleteAsset{
				Asset:     c.AssetName,
				Source:    sourceNarrative,
				Narrative: c.Enrichment(),
			})
			r.addFlag(screen.RatedFlag(c.AssetName, screen.CategoryMarket, "narrative", calc.SeverityMedium))
		}
	}
}

func (r *Result) enrichMatch(c narrative.Candidate) bool {
	matched := false
	for i := range r.Acquisitions.NonIntegrated {
		if r.Acquisitions.NonIntegrated[i].Asset == c.AssetName {
			r.Acquisitions.NonIntegrated[i].Narrative = c.Enrichment()
			matched = true
		}
	}
	for i := range r.Abandoned.ResidualUnits {
		if r.Abandoned.ResidualUnits[i].Unit == c.AssetName {
			r.Abandoned.ResidualUnits[i].Narrative = c.Enrichment()
			matched = true
		}
	}
	for i := range r.MarketChanges.ObsoleteAssets {
		if r.MarketChanges.ObsoleteAssets[i].Asset == c.AssetName {
			r.MarketChanges.ObsoleteAssets[i].Narrative = c.Enrichment()
			matched = true
		}
	}
	return matched
}
