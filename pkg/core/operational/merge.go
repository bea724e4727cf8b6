package operational

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
	payload, err := json.MarshalIndent(doc.Operations, "", "  ")
	if err != nil {
		return
	}
	system := prompt.SystemPromptOr(prompt.OperationalScreening, fallbackSystemPrompt)
	user := fmt.Sprintf("Company: %s\n\nOperational data:\n%s", doc.Name, payload)

	raw, err := a.llm.Generate(ctx, system, user)
	if err != nil {
		log.Warn().Err(err).Msg("operational narrative unavailable, heuristics only")
		return
	}
	candidates, err := narrative.ParseCandidates(raw)
	if err != nil {
		log.Warn().Err(err).Msg("operational narrative unusable, heuristics only")
		return
	}

	res.Insights = candidates
	res.NarrativeSummary = narrative.Summarize(candidates)
	res.merge(candidates)
}

// merge enriches matched findings in place. New candidates land in the
// category their type suggests: acquisition-like types join the acquired
// technologies, business-unit-like the facility list, and everything else
// the equipment list.
func (r *Result) merge(candidates []narrative.Candidate) {
	for _, c := range candidates {
		if r.enrichMatch(c) {
			continue
		}
		switch narrative.ClassifyKind(c.AssetType) {
		case narrative.KindAcquisition:
			r.Technologies.Dormant = append(r.Technologies.Dormant, TechnologyFlag{
				Name:      c.AssetName,
				Severity:  calc.SeverityMedium,
				Narrative: c.Enrichment(),
			})
			r.addFlag(screen.RatedFlag(c.AssetName, screen.CategoryTechnology, "narrative", calc.SeverityMedium))
		case narrative.KindBusinessUnit:
			r.Facilities.Underused = append(r.Facilities.Underused, FacilityFlag{
				Name:      c.AssetName,
				Severity:  calc.SeverityMedium,
				Source:    sourceNarrative,
				Narrative: c.Enrichment(),
			})
			r.addFlag(screen.RatedFlag(c.AssetName, screen.CategoryFacility, "narrative", calc.SeverityMedium))
		default:
			r.Equipment.Idle = append(r.Equipment.Idle, EquipmentFlag{
				Name:      c.AssetName,
				Severity:  calc.SeverityMedium,
				Source:    sourceNarrative,
				Narrative: c.Enrichment(),
			})
			r.addFlag(screen.RatedFlag(c.AssetName, screen.CategoryEquipment, "narrative", calc.SeverityMedium))
		}
	}
}

func (r *Result) enrichMatch(c narrative.Candidate) bool {
	matched := false
	for i := range r.RevenueMapping.Marginal {
		if r.RevenueMapping.Marginal[i].Name == c.AssetName {
			r.RevenueMapping.Marginal[i].Narrative = c.Enrichment()
			matched = true
		}
	}
	for i := range r.Facilities.Underused {
		if r.Facilities.Underused[i].Name == c.AssetName {
			r.Facilities.Underused[i].Narrative = c.Enrichment()
			matched = true
		}
	}
	for i := range r.Equipment.Idle {
		if r.Equipment.Idle[i].Name == c.AssetName {
			r.Equipment.Idle[i].Narrative = c.Enrichment()
			matched = true
		}
	}
	for i := range r.Distribution.Underused {
		if r.Distribution.Underused[i].Name == c.AssetName {
			r.Distribution.Underused[i].Narrative = c.Enrichment()
			matched = true
		}
	}
	for i := range r.Investments.NonStrategic {
		if r.Investments.NonStrategic[i].Company == c.AssetName {
			r.Investments.NonStrategic[i].Narrative = c.Enrichment()
			matched = true
		}
	}
	for i := range r.Technologies.Dormant {
		if r.Technologies.Dormant[i].Name == c.AssetName {
			r.Technologies.Dormant[i].Narrative = c.Enrichment()
			matched = true
		}
	}
	return matched
}
