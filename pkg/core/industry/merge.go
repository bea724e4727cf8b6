package industry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"noncore_agent/pkg/core/company"
	"noncore_agent/pkg/core/narrative"
	"noncore_agent/pkg/core/prompt"
)

func (a *Analyzer) enrich(ctx context.Context, doc *company.Document, res *Result) {
	payload, err := json.MarshalIndent(struct {
		Financials *company.Financials `json:"financials,omitempty"`
		Operations *company.Operations `json:"operations,omitempty"`
		Industry   *company.Industry   `json:"industry"`
	}{doc.Financials, doc.Operations, doc.Industry}, "", "  ")
	if err != nil {
		return
	}
	system := prompt.SystemPromptOr(prompt.IndustryScreening, fallbackSystemPrompt)
	user := fmt.Sprintf("Company: %s\n\nCompany figures and peer benchmarks:\n%s", doc.Name, payload)

	raw, err := a.llm.Generate(ctx, system, user)
	if err != nil {
		log.Warn().Err(err).Msg("industry narrative unavailable, heuristics only")
		return
	}
	candidates, err := narrative.ParseCandidates(raw)
	if err != nil {
		log.Warn().Err(err).Msg("industry narrative unusable, heuristics only")
		return
	}

	res.Insights = candidates
	res.NarrativeSummary = narrative.Summarize(candidates)
	res.mergeEnrich(candidates)
}

// mergeEnrich attaches narrative detail to laggards matched by exact name.
// Unmatched candidates stay in Insights only: every laggard list here
// carries computed benchmark numbers, and a synthesized entry without them
// would corrupt the comparisons.
func (r *Result) mergeEnrich(candidates []narrative.Candidate) {
	for _, c := range candidates {
		for _, mc := range []*MetricComparison{
			r.AssetTurnover, r.ReturnOnAssets, r.RevenuePerEmployee,
			r.SpaceUtilization, r.OperatingMargins,
		} {
			if mc == nil {
				continue
			}
			for i := range mc.Laggards {
				if mc.Laggards[i].Name == c.AssetName {
					mc.Laggards[i].Narrative = c.Enrichment()
				}
			}
		}
		if r.Growth != nil {
			for i := range r.Growth.Laggards {
				if r.Growth.Laggards[i].Name == c.AssetName {
					r.Growth.Laggards[i].Narrative = c.Enrichment()
				}
			}
		}
	}
}
