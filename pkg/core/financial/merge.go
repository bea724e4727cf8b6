package financial

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
	payload, err := json.MarshalIndent(doc.Financials, "", "  ")
	if err != nil {
		return
	}
	system := prompt.SystemPromptOr(prompt.FinancialScreening, fallbackSystemPrompt)
	user := fmt.Sprintf("Company: %s\n\nFinancial data:\n%s", doc.Name, payload)

	raw, err := a.llm.Generate(ctx, system, user)
	if err != nil {
		log.Warn().Err(err).Msg("financial narrative unavailable, heuristics only")
		return
	}
	candidates, err := narrative.ParseCandidates(raw)
	if err != nil {
		log.Warn().Err(err).Msg("financial narrative unusable, heuristics only")
		return
	}

	res.Insights = candidates
	res.NarrativeSummary = narrative.Summarize(candidates)
	res.merge(candidates)
}

// merge matches candidates to heuristic findings by exact name and enriches
// them in place. Candidates naming nothing the heuristics flagged are
// appended under a best-guess category: business-unit-like types join the
// subsidiary list, everything else the asset-utilization list.
func (r *Result) merge(candidates []narrative.Candidate) {
	for _, c := range candidates {
		if r.enrichMatch(c) {
			continue
		}
		switch narrative.ClassifyKind(c.AssetType) {
		case narrative.KindBusinessUnit:
			r.Subsidiaries.NonCore = append(r.Subsidiaries.NonCore, SubsidiaryFlag{
				Name:      c.AssetName,
				Reasons:   []string{"flagged by narrative analysis"},
				Severity:  calc.SeverityMedium,
				Source:    sourceNarrative,
				Narrative: c.Enrichment(),
			})
			r.addFlag(screen.RatedFlag(c.AssetName, screen.CategorySubsidiary, "narrative", calc.SeverityMedium))
		default:
			r.AssetUtilization.LowUtilization = append(r.AssetUtilization.LowUtilization, AssetFlag{
				Name:      c.AssetName,
				Severity:  calc.SeverityMedium,
				Source:    sourceNarrative,
				Narrative: c.Enrichment(),
			})
			r.addFlag(screen.RatedFlag(c.AssetName, screen.CategoryAsset, "narrative", calc.SeverityMedium))
		}
	}
}

func (r *Result) enrichMatch(c narrative.Candidate) bool {
	matched := false
	for i := range r.AssetUtilization.LowUtilization {
		if r.AssetUtilization.LowUtilization[i].Name == c.AssetName {
			r.AssetUtilization.LowUtilization[i].Narrative = c.Enrichment()
			matched = true
		}
	}
	for i := range r.Subsidiaries.NonCore {
		if r.Subsidiaries.NonCore[i].Name == c.AssetName {
			r.Subsidiaries.NonCore[i].Narrative = c.Enrichment()
			matched = true
		}
	}
	for i := range r.RealEstate.NonEssential {
		if r.RealEstate.NonEssential[i].Name == c.AssetName {
			r.RealEstate.NonEssential[i].Narrative = c.Enrichment()
			matched = true
		}
	}
	for i := range r.IntellectualProperty.Unused {
		if r.IntellectualProperty.Unused[i].ID == c.AssetName {
			r.IntellectualProperty.Unused[i].Narrative = c.Enrichment()
			matched = true
		}
	}
	return matched
}
