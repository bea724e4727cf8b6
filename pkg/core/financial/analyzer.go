// Package financial screens the balance-sheet side of the company: asset
// utilization, subsidiary economics, real-estate occupancy, and dormant IP.
package financial

import (
	"context"
	"fmt"
	"sort"

	"noncore_agent/pkg/core/calc"
	"noncore_agent/pkg/core/company"
	"noncore_agent/pkg/core/config"
	"noncore_agent/pkg/core/narrative"
	"noncore_agent/pkg/core/screen"
)

const fallbackSystemPrompt = `You are a corporate finance analyst screening a company's balance sheet for non-core assets.
Review the financial data and identify assets, subsidiaries, properties, or intellectual property that appear underused, unprofitable, or disconnected from the core business.
Respond with a JSON list of objects, each with: asset_name, asset_type, justification, original_strategic_purpose, potential_value, current_strategic_alignment.`

// Analyzer runs the financial screens. The narrative invoker is optional;
// a disabled invoker produces heuristic-only results.
type Analyzer struct {
	cfg config.FinancialThresholds
	llm narrative.Invoker
}

func New(cfg config.FinancialThresholds, llm narrative.Invoker) *Analyzer {
	return &Analyzer{cfg: cfg, llm: llm}
}

// Result is the financial analysis bundle.
type Result struct {
	AssetUtilization     UtilizationFindings `json:"asset_utilization"`
	Subsidiaries         SubsidiaryFindings  `json:"subsidiary_analysis"`
	RealEstate           RealEstateFindings  `json:"real_estate"`
	IntellectualProperty IPFindings          `json:"intellectual_property"`

	Insights         []narrative.Candidate `json:"llm_insights,omitempty"`
	NarrativeSummary *narrative.Summary    `json:"llm_summary,omitempty"`
	Errors           []string              `json:"errors,omitempty"`

	flags []screen.Flagged
}

type UtilizationFindings struct {
	AverageUtilization float64     `json:"average_utilization"`
	LowUtilization     []AssetFlag `json:"low_utilization_assets"`
}

type AssetFlag struct {
	Name                string                `json:"name"`
	BookValue           float64               `json:"book_value,omitempty"`
	UtilizationRate     float64               `json:"utilization_rate"`
	RevenueContribution float64               `json:"revenue_contribution,omitempty"`
	Severity            calc.Severity         `json:"severity"`
	Source              string                `json:"source,omitempty"`
	Narrative           *narrative.Enrichment `json:"narrative,omitempty"`
}

type SubsidiaryFindings struct {
	NonCore []SubsidiaryFlag `json:"non_core_subsidiaries"`
}

type SubsidiaryFlag struct {
	Name                string                `json:"name"`
	RevenueContribution float64               `json:"revenue_contribution"`
	ProfitMargin        float64               `json:"profit_margin"`
	Reasons             []string              `json:"reasons"`
	Severity            calc.Severity         `json:"severity"`
	Source              string                `json:"source,omitempty"`
	Narrative           *narrative.Enrichment `json:"narrative,omitempty"`
}

type RealEstateFindings struct {
	NonEssential []PropertyFlag `json:"non_essential_properties"`
}

type PropertyFlag struct {
	Name          string                `json:"name"`
	BookValue     float64               `json:"book_value,omitempty"`
	AnnualCost    float64               `json:"annual_cost,omitempty"`
	OccupancyRate float64               `json:"occupancy_rate"`
	Severity      calc.Severity         `json:"severity"`
	Narrative     *narrative.Enrichment `json:"narrative,omitempty"`
}

type IPFindings struct {
	Unused []PatentFlag `json:"unused_ip_assets"`
}

type PatentFlag struct {
	ID          string                `json:"id"`
	Description string                `json:"description,omitempty"`
	BookValue   float64               `json:"book_value,omitempty"`
	UsageRate   float64               `json:"usage_rate"`
	Severity    calc.Severity         `json:"severity"`
	Narrative   *narrative.Enrichment `json:"narrative,omitempty"`
}

// Flatten returns the normalized flag list for aggregation.
func (r *Result) Flatten() []screen.Flagged {
	if r == nil {
		return nil
	}
	return r.flags
}

// Analyze runs all financial screens over the document.
func (a *Analyzer) Analyze(ctx context.Context, doc *company.Document) (*Result, error) {
	if doc == nil || doc.Financials == nil {
		return nil, fmt.Errorf("document carries no financial data")
	}
	fin := doc.Financials
	res := &Result{}

	screen.Guard("asset_utilization", &res.Errors, func() { a.assetUtilization(fin, res) })
	screen.Guard("subsidiary_analysis", &res.Errors, func() { a.subsidiaries(fin, res) })
	screen.Guard("real_estate", &res.Errors, func() { a.realEstate(fin, res) })
	screen.Guard("intellectual_property", &res.Errors, func() { a.intellectualProperty(fin, res) })

	if a.llm.Enabled() {
		a.enrich(ctx, doc, res)
	}
	return res, nil
}

func (a *Analyzer) assetUtilization(fin *company.Financials, res *Result) {
	var total float64
	for _, asset := range fin.Assets {
		total += asset.UtilizationRate
		if asset.UtilizationRate < a.cfg.LowUtilization {
			res.AssetUtilization.LowUtilization = append(res.AssetUtilization.LowUtilization, AssetFlag{
				Name:                asset.Name,
				BookValue:           asset.BookValue,
				UtilizationRate:     asset.UtilizationRate,
				RevenueContribution: asset.RevenueContribution,
				Severity:            calc.SeverityFor(asset.UtilizationRate, a.cfg.LowUtilization),
			})
			res.addFlag(screen.Flag(asset.Name, screen.CategoryAsset, "asset_utilization",
				asset.UtilizationRate, a.cfg.LowUtilization))
		}
	}
	if len(fin.Assets) > 0 {
		res.AssetUtilization.AverageUtilization = total / float64(len(fin.Assets))
	}
	sort.Slice(res.AssetUtilization.LowUtilization, func(i, j int) bool {
		return res.AssetUtilization.LowUtilization[i].UtilizationRate < res.AssetUtilization.LowUtilization[j].UtilizationRate
	})
}

func (a *Analyzer) subsidiaries(fin *company.Financials, res *Result) {
	for _, sub := range fin.Subsidiaries {
		var reasons []string
		worst := 0.0

		if sub.RevenueContribution < a.cfg.RevenueContribution {
			reasons = append(reasons, fmt.Sprintf("revenue contribution %.1f%% below %.1f%% threshold",
				sub.RevenueContribution*100, a.cfg.RevenueContribution*100))
			if d := calc.Deviation(sub.RevenueContribution, a.cfg.RevenueContribution); d < worst {
				worst = d
			}
			res.addFlag(screen.Flag(sub.Name, screen.CategorySubsidiary, "revenue_contribution",
				sub.RevenueContribution, a.cfg.RevenueContribution))
		}
		if sub.ProfitMargin < a.cfg.ProfitMargin {
			reasons = append(reasons, fmt.Sprintf("profit margin %.1f%% below %.1f%% threshold",
				sub.ProfitMargin*100, a.cfg.ProfitMargin*100))
			if d := calc.Deviation(sub.ProfitMargin, a.cfg.ProfitMargin); d < worst {
				worst = d
			}
			res.addFlag(screen.Flag(sub.Name, screen.CategorySubsidiary, "profit_margin",
				sub.ProfitMargin, a.cfg.ProfitMargin))
		}
		if len(reasons) == 0 {
			continue
		}
		res.Subsidiaries.NonCore = append(res.Subsidiaries.NonCore, SubsidiaryFlag{
			Name:                sub.Name,
			RevenueContribution: sub.RevenueContribution,
			ProfitMargin:        sub.ProfitMargin,
			Reasons:             reasons,
			Severity:            calc.SeverityForDeviation(worst),
		})
	}
	sort.Slice(res.Subsidiaries.NonCore, func(i, j int) bool {
		return res.Subsidiaries.NonCore[i].RevenueContribution < res.Subsidiaries.NonCore[j].RevenueContribution
	})
}

func (a *Analyzer) realEstate(fin *company.Financials, res *Result) {
	for _, prop := range fin.Properties {
		if prop.OccupancyRate >= a.cfg.RealEstateOccupancy {
			continue
		}
		res.RealEstate.NonEssential = append(res.RealEstate.NonEssential, PropertyFlag{
			Name:          prop.Name,
			BookValue:     prop.BookValue,
			AnnualCost:    prop.AnnualCost,
			OccupancyRate: prop.OccupancyRate,
			Severity:      calc.SeverityFor(prop.OccupancyRate, a.cfg.RealEstateOccupancy),
		})
		res.addFlag(screen.Flag(prop.Name, screen.CategoryProperty, "property_occupancy",
			prop.OccupancyRate, a.cfg.RealEstateOccupancy))
	}
	sort.Slice(res.RealEstate.NonEssential, func(i, j int) bool {
		return res.RealEstate.NonEssential[i].OccupancyRate < res.RealEstate.NonEssential[j].OccupancyRate
	})
}

func (a *Analyzer) intellectualProperty(fin *company.Financials, res *Result) {
	for _, patent := range fin.Patents {
		if patent.ActiveUse {
			continue
		}
		severity := calc.SeverityMedium
		if patent.UsageRate == 0 {
			severity = calc.SeverityHigh
		}
		res.IntellectualProperty.Unused = append(res.IntellectualProperty.Unused, PatentFlag{
			ID:          patent.ID,
			Description: patent.Description,
			BookValue:   patent.BookValue,
			UsageRate:   patent.UsageRate,
			Severity:    severity,
		})
		res.addFlag(screen.RatedFlag(patent.ID, screen.CategoryPatent, "ip_utilization", severity))
	}
}

func (r *Result) addFlag(f screen.Flagged) {
	r.flags = append(r.flags, f)
}
