// Package company defines the typed input model for a screening run and the
// normalization step that converts loose loader documents into it.
package company

// Document is the full normalized input for one company. Sections that were
// absent from the source document are nil; the analyzers treat a nil section
// as "no data" and report an error marker instead of guessing.
type Document struct {
	Name       string      `json:"name"`
	Ticker     string      `json:"ticker,omitempty"`
	Financials *Financials `json:"financials,omitempty"`
	Operations *Operations `json:"operations,omitempty"`
	Industry   *Industry   `json:"industry,omitempty"`
	History    *History    `json:"history,omitempty"`
}

// Financials carries book-level figures plus the holdings the financial
// analyzer screens.
type Financials struct {
	Revenue         float64 `json:"revenue"`
	NetIncome       float64 `json:"net_income"`
	OperatingIncome float64 `json:"operating_income"`
	TotalAssets     float64 `json:"total_assets"`

	// Histories are ordered most recent first.
	RevenueHistory []float64 `json:"revenue_history,omitempty"`
	IncomeHistory  []float64 `json:"income_history,omitempty"`

	AssetClasses []AssetClass `json:"asset_classes,omitempty"`
	Segments     []Segment    `json:"segments,omitempty"`
	Assets       []OwnedAsset `json:"assets,omitempty"`
	Subsidiaries []Subsidiary `json:"subsidiaries,omitempty"`
	Properties   []Property   `json:"properties,omitempty"`
	Patents      []Patent     `json:"patents,omitempty"`
}

type AssetClass struct {
	Name            string  `json:"name"`
	Revenue         float64 `json:"revenue"`
	Assets          float64 `json:"assets"`
	OperatingIncome float64 `json:"operating_income"`
}

type Segment struct {
	Name            string    `json:"name"`
	Revenue         float64   `json:"revenue"`
	OperatingIncome float64   `json:"operating_income"`
	RevenueHistory  []float64 `json:"revenue_history,omitempty"`
	IncomeHistory   []float64 `json:"income_history,omitempty"`
}

type OwnedAsset struct {
	Name                string  `json:"name"`
	BookValue           float64 `json:"book_value"`
	UtilizationRate     float64 `json:"utilization_rate"`
	RevenueContribution float64 `json:"revenue_contribution"`
}

type Subsidiary struct {
	Name                string  `json:"name"`
	RevenueContribution float64 `json:"revenue_contribution"`
	ProfitMargin        float64 `json:"profit_margin"`
	StrategicAlignment  string  `json:"strategic_alignment,omitempty"`
}

type Property struct {
	Name          string  `json:"name"`
	BookValue     float64 `json:"book_value"`
	AnnualCost    float64 `json:"annual_cost"`
	OccupancyRate float64 `json:"occupancy_rate"`
}

type Patent struct {
	ID          string  `json:"id"`
	Description string  `json:"description,omitempty"`
	BookValue   float64 `json:"book_value"`
	UsageRate   float64 `json:"usage_rate"`
	ActiveUse   bool    `json:"active_use"`
}

// Operations carries workforce and facility data for the operational
// analyzer.
type Operations struct {
	EmployeeCount    int     `json:"employee_count"`
	SpaceUtilization float64 `json:"space_utilization"`

	RevenueStreams []RevenueStream `json:"revenue_streams,omitempty"`
	Facilities     []Facility      `json:"facilities,omitempty"`
	Equipment      []Equipment     `json:"equipment,omitempty"`
	Distribution   []Facility      `json:"distribution,omitempty"`
	Investments    []Investment    `json:"investments,omitempty"`
	Technologies   []Technology    `json:"technologies,omitempty"`
	BusinessUnits  []BusinessUnit  `json:"business_units,omitempty"`
}

type RevenueStream struct {
	Name         string  `json:"name"`
	Contribution float64 `json:"contribution"`
	Growth       float64 `json:"growth"`
}

type Facility struct {
	Name        string  `json:"name"`
	Location    string  `json:"location,omitempty"`
	Type        string  `json:"type,omitempty"`
	Utilization float64 `json:"utilization"`
	AnnualCost  float64 `json:"annual_cost"`
	Employees   int     `json:"employees"`
}

type Equipment struct {
	Name              string  `json:"name"`
	BookValue         float64 `json:"book_value"`
	LastUsedYear      int     `json:"last_used_year"`
	ProductLine       string  `json:"product_line,omitempty"`
	ProductLineStatus string  `json:"product_line_status,omitempty"`
}

type Investment struct {
	Company            string  `json:"company"`
	OwnershipPct       float64 `json:"ownership_pct"`
	BookValue          float64 `json:"book_value"`
	StrategicAlignment string  `json:"strategic_alignment,omitempty"`
}

type Technology struct {
	Name         string  `json:"name"`
	AcquiredFrom string  `json:"acquired_from,omitempty"`
	UsageLevel   string  `json:"usage_level,omitempty"`
	UsageRate    float64 `json:"usage_rate"`
	BookValue    float64 `json:"book_value"`
}

type BusinessUnit struct {
	Name      string  `json:"name"`
	Revenue   float64 `json:"revenue"`
	Employees int     `json:"employees"`
}

// Industry carries peer benchmarks. Metrics holds benchmark means keyed by
// metric id (asset_turnover, return_on_assets, revenue_per_employee,
// space_utilization, operating_margin, revenue_growth, profit_growth);
// Distributions holds the matching empirical peer values when known.
// Group maps hold per-category benchmark means, keyed by group then metric.
type Industry struct {
	Sector        string                        `json:"sector,omitempty"`
	Metrics       map[string]float64            `json:"metrics,omitempty"`
	Distributions map[string][]float64          `json:"distributions,omitempty"`
	ByCategory    map[string]map[string]float64 `json:"by_category,omitempty"`
	BySegment     map[string]map[string]float64 `json:"by_segment,omitempty"`
	ByFunction    map[string]map[string]float64 `json:"by_function,omitempty"`
	ByFacility    map[string]map[string]float64 `json:"by_facility,omitempty"`
}

// Metric returns the benchmark mean for a metric id, 0 when unknown.
func (i *Industry) Metric(id string) float64 {
	if i == nil {
		return 0
	}
	return i.Metrics[id]
}

// Distribution returns the empirical peer values for a metric id.
func (i *Industry) Distribution(id string) []float64 {
	if i == nil {
		return nil
	}
	return i.Distributions[id]
}

// GroupMetric looks up a per-group benchmark, falling back to the
// company-wide mean when the group carries no figure.
func GroupMetric(group map[string]map[string]float64, name, metric string, fallback float64) float64 {
	if m, ok := group[name]; ok {
		if v, ok := m[metric]; ok && v != 0 {
			return v
		}
	}
	return fallback
}

// History carries the corporate-history inputs for the historical analyzer.
type History struct {
	Acquisitions  []Acquisition    `json:"acquisitions,omitempty"`
	Initiatives   []Initiative     `json:"initiatives,omitempty"`
	BusinessUnits []HistoricalUnit `json:"business_units,omitempty"`
	MarketChanges []MarketChange   `json:"market_changes,omitempty"`
	LegacyAssets  []LegacyAsset    `json:"legacy_assets,omitempty"`
}

type Acquisition struct {
	Name             string          `json:"name"`
	Year             int             `json:"year"`
	Value            float64         `json:"value"`
	IntegrationLevel string          `json:"integration_level,omitempty"`
	PrimaryAsset     string          `json:"primary_asset,omitempty"`
	Assets           []AcquiredAsset `json:"assets,omitempty"`
}

type AcquiredAsset struct {
	Name             string  `json:"name"`
	Value            float64 `json:"value"`
	IntegrationLevel string  `json:"integration_level,omitempty"`
}

type Initiative struct {
	Name   string           `json:"name"`
	Period string           `json:"period,omitempty"`
	Status string           `json:"status"`
	Units  []HistoricalUnit `json:"units,omitempty"`
}

type HistoricalUnit struct {
	Name       string  `json:"name"`
	Origin     string  `json:"origin,omitempty"`
	Status     string  `json:"status,omitempty"`
	Headcount  int     `json:"headcount"`
	AnnualCost float64 `json:"annual_cost"`
}

type MarketChange struct {
	Change         string        `json:"change"`
	Period         string        `json:"period,omitempty"`
	Description    string        `json:"description,omitempty"`
	AffectedAssets []LegacyAsset `json:"affected_assets,omitempty"`
}

type LegacyAsset struct {
	Name        string  `json:"name"`
	BookValue   float64 `json:"book_value"`
	MarketValue float64 `json:"market_value"`
	Relevance   string  `json:"relevance,omitempty"`
	Reason      string  `json:"reason,omitempty"`
}
