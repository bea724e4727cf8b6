// Package operational screens the operating footprint: facility and
// warehouse utilization, idle equipment, minority investments, and acquired
// technology that never found a use.
package operational

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"noncore_agent/pkg/core/calc"
	"noncore_agent/pkg/core/company"
	"noncore_agent/pkg/core/config"
	"noncore_agent/pkg/core/narrative"
	"noncore_agent/pkg/core/screen"
)

const fallbackSystemPrompt = `You are an operations consultant screening a company's operating footprint for non-core assets.
Review the operational data and identify facilities, equipment, distribution sites, investments, or technologies that are underused or disconnected from current product lines.
Respond with a JSON list of objects, each with: asset_name, asset_type, justification, original_strategic_purpose, potential_value, current_strategic_alignment.`

// Analyzer runs the operational screens.
type Analyzer struct {
	cfg config.OperationalThresholds
	llm narrative.Invoker

	// Now is injectable for deterministic equipment-age tests.
	Now func() time.Time
}

func New(cfg config.OperationalThresholds, llm narrative.Invoker) *Analyzer {
	return &Analyzer{cfg: cfg, llm: llm, Now: time.Now}
}

// Result is the operational assessment bundle.
type Result struct {
	RevenueMapping RevenueMappingFindings `json:"revenue_mapping"`
	Facilities     FacilityFindings       `json:"manufacturing_facilities"`
	Equipment      EquipmentFindings      `json:"legacy_equipment"`
	Distribution   FacilityFindings       `json:"distribution_network"`
	Investments    InvestmentFindings     `json:"minority_investments"`
	Technologies   TechnologyFindings     `json:"acquired_technologies"`

	Insights         []narrative.Candidate `json:"llm_insights,omitempty"`
	NarrativeSummary *narrative.Summary    `json:"llm_summary,omitempty"`
	Errors           []string              `json:"errors,omitempty"`

	flags []screen.Flagged
}

type RevenueMappingFindings struct {
	Marginal []StreamFlag `json:"marginal_streams"`
}

type StreamFlag struct {
	Name         string                `json:"name"`
	Contribution float64               `json:"contribution"`
	Growth       float64               `json:"growth"`
	Severity     calc.Severity         `json:"severity"`
	Narrative    *narrative.Enrichment `json:"narrative,omitempty"`
}

type FacilityFindings struct {
	Underused []FacilityFlag `json:"underused"`
}

type FacilityFlag struct {
	Name        string                `json:"name"`
	Type        string                `json:"type,omitempty"`
	Utilization float64               `json:"utilization"`
	AnnualCost  float64               `json:"annual_cost,omitempty"`
	Severity    calc.Severity         `json:"severity"`
	Source      string                `json:"source,omitempty"`
	Narrative   *narrative.Enrichment `json:"narrative,omitempty"`
}

type EquipmentFindings struct {
	Idle []EquipmentFlag `json:"idle"`
}

type EquipmentFlag struct {
	Name          string                `json:"name"`
	BookValue     float64               `json:"book_value,omitempty"`
	LastUsedYear  int                   `json:"last_used_year,omitempty"`
	YearsIdle     int                   `json:"years_idle,omitempty"`
	ProductLine   string                `json:"product_line,omitempty"`
	LineStatus    string                `json:"line_status,omitempty"`
	Severity      calc.Severity         `json:"severity"`
	Source        string                `json:"source,omitempty"`
	Narrative     *narrative.Enrichment `json:"narrative,omitempty"`
}

type InvestmentFindings struct {
	NonStrategic []InvestmentFlag `json:"non_strategic"`
}

type InvestmentFlag struct {
	Company      string                `json:"company"`
	OwnershipPct float64               `json:"ownership_pct,omitempty"`
	BookValue    float64               `json:"book_value,omitempty"`
	Alignment    string                `json:"alignment,omitempty"`
	Severity     calc.Severity         `json:"severity"`
	Narrative    *narrative.Enrichment `json:"narrative,omitempty"`
}

type TechnologyFindings struct {
	Dormant []TechnologyFlag `json:"dormant"`
}

type TechnologyFlag struct {
	Name         string                `json:"name"`
	AcquiredFrom string                `json:"acquired_from,omitempty"`
	UsageRate    float64               `json:"usage_rate"`
	Severity     calc.Severity         `json:"severity"`
	Narrative    *narrative.Enrichment `json:"narrative,omitempty"`
}

// Flatten returns the normalized flag list for aggregation.
func (r *Result) Flatten() []screen.Flagged {
	if r == nil {
		return nil
	}
	return r.flags
}

// Analyze runs all operational screens over the document.
func (a *Analyzer) Analyze(ctx context.Context, doc *company.Document) (*Result, error) {
	if doc == nil || doc.Operations == nil {
		return nil, fmt.Errorf("document carries no operational data")
	}
	ops := doc.Operations
	res := &Result{}

	screen.Guard("revenue_mapping", &res.Errors, func() { a.revenueMapping(ops, res) })
	screen.Guard("manufacturing_facilities", &res.Errors, func() { a.facilities(ops, res) })
	screen.Guard("legacy_equipment", &res.Errors, func() { a.equipment(ops, res) })
	screen.Guard("distribution_network", &res.Errors, func() { a.distribution(ops, res) })
	screen.Guard("minority_investments", &res.Errors, func() { a.investments(ops, res) })
	screen.Guard("acquired_technologies", &res.Errors, func() { a.technologies(ops, res) })

	if a.llm.Enabled() {
		a.enrich(ctx, doc, res)
	}
	return res, nil
}

// revenueMapping flags streams that are both marginal and shrinking.
func (a *Analyzer) revenueMapping(ops *company.Operations, res *Result) {
	for _, stream := range ops.RevenueStreams {
		if stream.Contribution >= a.cfg.RevenueContribution || stream.Growth >= 0 {
			continue
		}
		res.RevenueMapping.Marginal = append(res.RevenueMapping.Marginal, StreamFlag{
			Name:         stream.Name,
			Contribution: stream.Contribution,
			Growth:       stream.Growth,
			Severity:     calc.SeverityFor(stream.Contribution, a.cfg.RevenueContribution),
		})
		res.addFlag(screen.Flag(stream.Name, screen.CategoryRevenue, "revenue_stream",
			stream.Contribution, a.cfg.RevenueContribution))
	}
	sort.Slice(res.RevenueMapping.Marginal, func(i, j int) bool {
		return res.RevenueMapping.Marginal[i].Contribution < res.RevenueMapping.Marginal[j].Contribution
	})
}

func (a *Analyzer) facilities(ops *company.Operations, res *Result) {
	res.Facilities.Underused = a.underusedFacilities(ops.Facilities, a.cfg.FacilityUtilization,
		screen.CategoryFacility, "facility_utilization", res)
}

func (a *Analyzer) distribution(ops *company.Operations, res *Result) {
	res.Distribution.Underused = a.underusedFacilities(ops.Distribution, a.cfg.WarehouseUtilization,
		screen.CategoryFacility, "distribution_utilization", res)
}

func (a *Analyzer) underusedFacilities(facilities []company.Facility, threshold float64,
	typ screen.Category, metric string, res *Result) []FacilityFlag {
	var out []FacilityFlag
	for _, f := range facilities {
		if f.Utilization >= threshold {
			continue
		}
		out = append(out, FacilityFlag{
			Name:        f.Name,
			Type:        f.Type,
			Utilization: f.Utilization,
			AnnualCost:  f.AnnualCost,
			Severity:    calc.SeverityFor(f.Utilization, threshold),
		})
		res.addFlag(screen.Flag(f.Name, typ, metric, f.Utilization, threshold))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Utilization < out[j].Utilization })
	return out
}

// equipment flags machinery tied to a discontinued line or idle beyond the
// configured age.
func (a *Analyzer) equipment(ops *company.Operations, res *Result) {
	currentYear := a.Now().Year()
	for _, eq := range ops.Equipment {
		discontinued := lineDiscontinued(eq.ProductLineStatus)
		yearsIdle := 0
		if eq.LastUsedYear > 0 && eq.LastUsedYear < currentYear {
			yearsIdle = currentYear - eq.LastUsedYear
		}
		aged := yearsIdle >= a.cfg.EquipmentIdleYears && a.cfg.EquipmentIdleYears > 0

		if !discontinued && !aged {
			continue
		}
		severity := calc.SeverityMedium
		if discontinued {
			severity = calc.SeverityHigh
		}
		res.Equipment.Idle = append(res.Equipment.Idle, EquipmentFlag{
			Name:         eq.Name,
			BookValue:    eq.BookValue,
			LastUsedYear: eq.LastUsedYear,
			YearsIdle:    yearsIdle,
			ProductLine:  eq.ProductLine,
			LineStatus:   eq.ProductLineStatus,
			Severity:     severity,
		})
		res.addFlag(screen.RatedFlag(eq.Name, screen.CategoryEquipment, "equipment_activity", severity))
	}
}

func lineDiscontinued(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "discontinued", "phased out", "sunset", "retired":
		return true
	}
	return false
}

func (a *Analyzer) investments(ops *company.Operations, res *Result) {
	for _, inv := range ops.Investments {
		if !lowAlignment(inv.StrategicAlignment) {
			continue
		}
		res.Investments.NonStrategic = append(res.Investments.NonStrategic, InvestmentFlag{
			Company:      inv.Company,
			OwnershipPct: inv.OwnershipPct,
			BookValue:    inv.BookValue,
			Alignment:    inv.StrategicAlignment,
			Severity:     calc.SeverityMedium,
		})
		res.addFlag(screen.RatedFlag(inv.Company, screen.CategoryInvestment, "investment_alignment",
			calc.SeverityMedium))
	}
}

func lowAlignment(alignment string) bool {
	return narrative.AlignmentBucket(alignment) == "low"
}

func (a *Analyzer) technologies(ops *company.Operations, res *Result) {
	for _, tech := range ops.Technologies {
		level := strings.ToLower(strings.TrimSpace(tech.UsageLevel))
		dormantLevel := level == "minimal" || level == "none"
		if !dormantLevel && tech.UsageRate >= a.cfg.TechnologyUsage {
			continue
		}
		severity := calc.SeverityMedium
		if level == "none" || tech.UsageRate == 0 {
			severity = calc.SeverityHigh
		}
		res.Technologies.Dormant = append(res.Technologies.Dormant, TechnologyFlag{
			Name:         tech.Name,
			AcquiredFrom: tech.AcquiredFrom,
			UsageRate:    tech.UsageRate,
			Severity:     severity,
		})
		res.addFlag(screen.RatedFlag(tech.Name, screen.CategoryTechnology, "technology_usage", severity))
	}
}

func (r *Result) addFlag(f screen.Flagged) {
	r.flags = append(r.flags, f)
}
