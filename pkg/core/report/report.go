// Package report renders screening results as Markdown and HTML.
package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"noncore_agent/pkg/core/analysis"
	"noncore_agent/pkg/core/calc"
	"noncore_agent/pkg/core/financial"
	"noncore_agent/pkg/core/history"
	"noncore_agent/pkg/core/industry"
	"noncore_agent/pkg/core/narrative"
	"noncore_agent/pkg/core/operational"
)

// Markdown renders the full screening report.
func Markdown(res *analysis.ScreeningResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Non-Core Asset Screening: %s\n\n", res.Company)
	if res.Ticker != "" {
		fmt.Fprintf(&b, "Ticker: %s  \n", res.Ticker)
	}
	fmt.Fprintf(&b, "Run %s, generated %s\n\n", res.RunID, res.GeneratedAt.Format("2006-01-02 15:04 MST"))

	writeSummary(&b, res)
	writeShortlist(&b, res)
	writeFinancial(&b, res.Financial)
	writeOperational(&b, res.Operational)
	writeIndustry(&b, res.Industry)
	writeHistorical(&b, res.Historical)
	writeErrors(&b, res)

	return b.String()
}

// renderer carries the table extension for the summary tables.
var renderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML renders the Markdown report through goldmark.
func HTML(res *analysis.ScreeningResult) (string, error) {
	var out strings.Builder
	if err := renderer.Convert([]byte(Markdown(res)), &out); err != nil {
		return "", fmt.Errorf("failed to render report HTML: %w", err)
	}
	return out.String(), nil
}

// WriteHTML renders the report and writes it to path.
func WriteHTML(res *analysis.ScreeningResult, path string) error {
	html, err := HTML(res)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func writeSummary(b *strings.Builder, res *analysis.ScreeningResult) {
	if res.Summary == nil {
		return
	}
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(b, "%d findings across all screens.\n\n", res.Summary.TotalUnderperforming)

	b.WriteString("| Severity | Count |\n|---|---|\n")
	for i := len(calc.Severities) - 1; i >= 0; i-- {
		s := calc.Severities[i]
		fmt.Fprintf(b, "| %s | %d |\n", s, res.Summary.BySeverity[s])
	}
	b.WriteString("\n")

	if len(res.Summary.OverallMetrics) > 0 {
		b.WriteString("### Company vs. Industry\n\n")
		b.WriteString("| Metric | Company | Industry | Percentile |\n|---|---|---|---|\n")
		for _, metric := range []string{
			industry.MetricAssetTurnover, industry.MetricReturnOnAssets,
			industry.MetricRevenuePerEmployee, industry.MetricSpaceUtilization,
			industry.MetricOperatingMargin, industry.MetricRevenueGrowth,
			industry.MetricProfitGrowth,
		} {
			obs, ok := res.Summary.OverallMetrics[metric]
			if !ok {
				continue
			}
			fmt.Fprintf(b, "| %s | %.3f | %.3f | %.0f |\n",
				strings.ReplaceAll(metric, "_", " "), obs.Value, obs.Benchmark, obs.Percentile)
		}
		b.WriteString("\n")
	}
}

func writeShortlist(b *strings.Builder, res *analysis.ScreeningResult) {
	if res.Summary == nil || len(res.Summary.Shortlist) == 0 {
		return
	}
	b.WriteString("## Divestiture Shortlist\n\n")
	b.WriteString("| Candidate | Type | Severity | Flags | Screens |\n|---|---|---|---|---|\n")
	for _, e := range res.Summary.Shortlist {
		fmt.Fprintf(b, "| %s | %s | %s | %d | %s |\n",
			e.Name, e.Type, e.Severity, e.FlagCount, strings.Join(e.Metrics, ", "))
	}
	b.WriteString("\n")
}

func writeFinancial(b *strings.Builder, r *financial.Result) {
	if r == nil {
		return
	}
	b.WriteString("## Financial Screening\n\n")

	if len(r.AssetUtilization.LowUtilization) > 0 {
		fmt.Fprintf(b, "Average asset utilization %.0f%%.\n\n", r.AssetUtilization.AverageUtilization*100)
		b.WriteString("### Underutilized Assets\n\n")
		for _, a := range r.AssetUtilization.LowUtilization {
			fmt.Fprintf(b, "- **%s** (%s): utilization %.0f%%%s\n",
				a.Name, a.Severity, a.UtilizationRate*100, narrativeNote(a.Narrative))
		}
		b.WriteString("\n")
	}
	if len(r.Subsidiaries.NonCore) > 0 {
		b.WriteString("### Non-Core Subsidiaries\n\n")
		for _, s := range r.Subsidiaries.NonCore {
			fmt.Fprintf(b, "- **%s** (%s): %s%s\n",
				s.Name, s.Severity, strings.Join(s.Reasons, "; "), narrativeNote(s.Narrative))
		}
		b.WriteString("\n")
	}
	if len(r.RealEstate.NonEssential) > 0 {
		b.WriteString("### Non-Essential Real Estate\n\n")
		for _, p := range r.RealEstate.NonEssential {
			fmt.Fprintf(b, "- **%s** (%s): occupancy %.0f%%%s\n",
				p.Name, p.Severity, p.OccupancyRate*100, narrativeNote(p.Narrative))
		}
		b.WriteString("\n")
	}
	if len(r.IntellectualProperty.Unused) > 0 {
		b.WriteString("### Unused Intellectual Property\n\n")
		for _, p := range r.IntellectualProperty.Unused {
			fmt.Fprintf(b, "- **%s** (%s)%s\n", p.ID, p.Severity, narrativeNote(p.Narrative))
		}
		b.WriteString("\n")
	}
}

func writeOperational(b *strings.Builder, r *operational.Result) {
	if r == nil {
		return
	}
	b.WriteString("## Operational Screening\n\n")

	if len(r.RevenueMapping.Marginal) > 0 {
		b.WriteString("### Marginal Revenue Streams\n\n")
		for _, s := range r.RevenueMapping.Marginal {
			fmt.Fprintf(b, "- **%s** (%s): %.1f%% of revenue, growth %.1f%%%s\n",
				s.Name, s.Severity, s.Contribution*100, s.Growth*100, narrativeNote(s.Narrative))
		}
		b.WriteString("\n")
	}
	if len(r.Facilities.Underused) > 0 {
		b.WriteString("### Underused Facilities\n\n")
		for _, f := range r.Facilities.Underused {
			fmt.Fprintf(b, "- **%s** (%s): utilization %.0f%%%s\n",
				f.Name, f.Severity, f.Utilization*100, narrativeNote(f.Narrative))
		}
		b.WriteString("\n")
	}
	if len(r.Equipment.Idle) > 0 {
		b.WriteString("### Idle Equipment\n\n")
		for _, e := range r.Equipment.Idle {
			fmt.Fprintf(b, "- **%s** (%s)%s%s\n",
				e.Name, e.Severity, idleNote(e), narrativeNote(e.Narrative))
		}
		b.WriteString("\n")
	}
	if len(r.Distribution.Underused) > 0 {
		b.WriteString("### Underused Distribution\n\n")
		for _, f := range r.Distribution.Underused {
			fmt.Fprintf(b, "- **%s** (%s): utilization %.0f%%%s\n",
				f.Name, f.Severity, f.Utilization*100, narrativeNote(f.Narrative))
		}
		b.WriteString("\n")
	}
	if len(r.Investments.NonStrategic) > 0 {
		b.WriteString("### Non-Strategic Investments\n\n")
		for _, inv := range r.Investments.NonStrategic {
			fmt.Fprintf(b, "- **%s** (%s)%s\n", inv.Company, inv.Severity, narrativeNote(inv.Narrative))
		}
		b.WriteString("\n")
	}
	if len(r.Technologies.Dormant) > 0 {
		b.WriteString("### Dormant Technologies\n\n")
		for _, tech := range r.Technologies.Dormant {
			fmt.Fprintf(b, "- **%s** (%s)%s\n", tech.Name, tech.Severity, narrativeNote(tech.Narrative))
		}
		b.WriteString("\n")
	}
}

func idleNote(e operational.EquipmentFlag) string {
	if e.YearsIdle > 0 {
		return fmt.Sprintf(": idle %d years", e.YearsIdle)
	}
	return ""
}

func writeIndustry(b *strings.Builder, r *industry.Result) {
	if r == nil {
		return
	}
	b.WriteString("## Industry Comparison\n\n")

	comparisons := []struct {
		label string
		mc    *industry.MetricComparison
	}{
		{"Asset Turnover", r.AssetTurnover},
		{"Return on Assets", r.ReturnOnAssets},
		{"Revenue per Employee", r.RevenuePerEmployee},
		{"Space Utilization", r.SpaceUtilization},
		{"Operating Margins", r.OperatingMargins},
	}
	for _, c := range comparisons {
		if c.mc == nil || len(c.mc.Laggards) == 0 {
			continue
		}
		fmt.Fprintf(b, "### %s Laggards\n\n", c.label)
		for _, lag := range c.mc.Laggards {
			fmt.Fprintf(b, "- **%s** (%s): %.3f vs. benchmark %.3f%s\n",
				lag.Name, lag.Severity, lag.Value, lag.IndustryAverage, narrativeNote(lag.Narrative))
		}
		b.WriteString("\n")
	}
	if r.Growth != nil && len(r.Growth.Laggards) > 0 {
		b.WriteString("### Growth Laggards\n\n")
		for _, lag := range r.Growth.Laggards {
			fmt.Fprintf(b, "- **%s** (%s, score %.0f)%s\n",
				lag.Name, lag.Severity.Level, lag.Severity.Score, narrativeNote(lag.Narrative))
		}
		b.WriteString("\n")
	}
}

func writeHistorical(b *strings.Builder, r *history.Result) {
	if r == nil {
		return
	}
	b.WriteString("## Historical Context\n\n")

	if len(r.Acquisitions.NonIntegrated) > 0 {
		b.WriteString("### Non-Integrated Acquisitions\n\n")
		for _, a := range r.Acquisitions.NonIntegrated {
			fmt.Fprintf(b, "- **%s** from %s: integration %s, strategic fit %s%s\n",
				a.Asset, a.Acquisition, a.IntegrationLevel, a.StrategicFit, narrativeNote(a.Narrative))
		}
		b.WriteString("\n")
	}
	if len(r.Abandoned.ResidualUnits) > 0 {
		b.WriteString("### Residual Units of Abandoned Strategies\n\n")
		for _, u := range r.Abandoned.ResidualUnits {
			fmt.Fprintf(b, "- **%s** (from %s)%s\n", u.Unit, u.Strategy, narrativeNote(u.Narrative))
		}
		b.WriteString("\n")
	}
	if len(r.MarketChanges.ObsoleteAssets) > 0 {
		b.WriteString("### Assets Stranded by Market Changes\n\n")
		for _, a := range r.MarketChanges.ObsoleteAssets {
			fmt.Fprintf(b, "- **%s**: relevance %s%s\n", a.Asset, a.Relevance, narrativeNote(a.Narrative))
		}
		b.WriteString("\n")
	}
}

func writeErrors(b *strings.Builder, res *analysis.ScreeningResult) {
	if len(res.AnalyzerErrors) == 0 {
		return
	}
	b.WriteString("## Skipped Analyzers\n\n")
	for _, name := range []string{"financial", "operational", "industry", "historical"} {
		if msg, ok := res.AnalyzerErrors[name]; ok {
			fmt.Fprintf(b, "- %s: %s\n", name, msg)
		}
	}
	b.WriteString("\n")
}

func narrativeNote(e *narrative.Enrichment) string {
	if e == nil || e.Justification == "" {
		return ""
	}
	return ". " + e.Justification
}
