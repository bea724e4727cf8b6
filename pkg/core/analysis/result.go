// Package analysis consolidates the per-analyzer screening bundles into a
// single result with a cross-analyzer summary.
package analysis

import (
	"sort"
	"time"

	"noncore_agent/pkg/core/calc"
	"noncore_agent/pkg/core/financial"
	"noncore_agent/pkg/core/history"
	"noncore_agent/pkg/core/industry"
	"noncore_agent/pkg/core/operational"
	"noncore_agent/pkg/core/screen"
)

// ScreeningResult is the full output of one screening run. Analyzer slots
// are nil when the document carried no data for that dimension or the
// analyzer failed; AnalyzerErrors records why.
type ScreeningResult struct {
	RunID       string    `json:"run_id"`
	Company     string    `json:"company"`
	Ticker      string    `json:"ticker,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`

	Financial   *financial.Result   `json:"financial,omitempty"`
	Operational *operational.Result `json:"operational,omitempty"`
	Industry    *industry.Result    `json:"industry,omitempty"`
	Historical  *history.Result     `json:"historical,omitempty"`

	AnalyzerErrors map[string]string `json:"analyzer_errors,omitempty"`

	Summary *Summary `json:"summary"`
}

// Summary is the cross-analyzer rollup.
type Summary struct {
	TotalUnderperforming int                           `json:"total_underperforming"`
	BySeverity           map[calc.Severity]int         `json:"by_severity"`
	OverallMetrics       map[string]screen.Observation `json:"overall_metrics,omitempty"`
	Shortlist            []ShortlistEntry              `json:"shortlist,omitempty"`
	Flagged              []screen.Flagged              `json:"flagged,omitempty"`
}

// ShortlistEntry is one divestiture candidate: an asset flagged Critical or
// High, ranked by how many independent screens caught it.
type ShortlistEntry struct {
	Name      string          `json:"name"`
	Type      screen.Category `json:"type"`
	Severity  calc.Severity   `json:"severity"`
	FlagCount int             `json:"flag_count"`
	Metrics   []string        `json:"metrics"`
}

// Consolidate fills the Summary from whatever analyzer results are present.
func Consolidate(res *ScreeningResult) {
	flagged := make([]screen.Flagged, 0)
	flagged = append(flagged, res.Financial.Flatten()...)
	flagged = append(flagged, res.Operational.Flatten()...)
	flagged = append(flagged, res.Industry.Flatten()...)
	flagged = append(flagged, res.Historical.Flatten()...)

	summary := &Summary{
		TotalUnderperforming: len(flagged),
		BySeverity:           make(map[calc.Severity]int, len(calc.Severities)),
		Flagged:              flagged,
	}
	for _, s := range calc.Severities {
		summary.BySeverity[s] = 0
	}
	for _, f := range flagged {
		summary.BySeverity[f.Severity]++
	}
	summary.OverallMetrics = res.Industry.Observations()
	summary.Shortlist = shortlist(flagged)
	res.Summary = summary
}

// shortlist groups Critical and High flags by asset name and keeps the five
// most-flagged candidates. A Critical anywhere outranks flag count ties.
func shortlist(flagged []screen.Flagged) []ShortlistEntry {
	byName := make(map[string]*ShortlistEntry)
	metricsSeen := make(map[string]map[string]bool)

	for _, f := range flagged {
		if f.Severity.Rank() < calc.SeverityHigh.Rank() {
			continue
		}
		entry, ok := byName[f.Name]
		if !ok {
			entry = &ShortlistEntry{Name: f.Name, Type: f.Type, Severity: f.Severity}
			byName[f.Name] = entry
			metricsSeen[f.Name] = make(map[string]bool)
		}
		entry.FlagCount++
		if f.Severity.Rank() > entry.Severity.Rank() {
			entry.Severity = f.Severity
		}
		if f.Metric != "" && !metricsSeen[f.Name][f.Metric] {
			metricsSeen[f.Name][f.Metric] = true
			entry.Metrics = append(entry.Metrics, f.Metric)
		}
	}

	entries := make([]ShortlistEntry, 0, len(byName))
	for _, e := range byName {
		sort.Strings(e.Metrics)
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if len(entries[i].Metrics) != len(entries[j].Metrics) {
			return len(entries[i].Metrics) > len(entries[j].Metrics)
		}
		if entries[i].Severity.Rank() != entries[j].Severity.Rank() {
			return entries[i].Severity.Rank() > entries[j].Severity.Rank()
		}
		return entries[i].Name < entries[j].Name
	})
	if len(entries) > 5 {
		entries = entries[:5]
	}
	return entries
}
