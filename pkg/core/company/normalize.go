package company

import "fmt"

// Normalize converts a loader document into the typed model. Missing
// numerics become 0 and missing collections become empty; a section that is
// entirely absent stays nil so its analyzer can report the gap.
func Normalize(doc map[string]interface{}) *Document {
	if doc == nil {
		return &Document{}
	}

	out := &Document{
		Name:   getString(doc, "name", "company", "company_name"),
		Ticker: getString(doc, "ticker", "symbol"),
	}
	if meta := getMap(doc, "company", "company_data", "profile"); meta != nil {
		if out.Name == "" {
			out.Name = getString(meta, "name", "company_name")
		}
		if out.Ticker == "" {
			out.Ticker = getString(meta, "ticker", "symbol")
		}
	}

	if fin := getMap(doc, "financials", "financial", "financial_data"); fin != nil {
		out.Financials = NormalizeFinancials(fin)
	}
	if ops := getMap(doc, "operations", "operational", "operational_data"); ops != nil {
		out.Operations = NormalizeOperations(ops)
	}
	if ind := getMap(doc, "industry", "industry_data", "benchmarks"); ind != nil {
		out.Industry = NormalizeIndustry(ind)
	}
	if hist := getMap(doc, "history", "historical", "historical_data"); hist != nil {
		out.History = NormalizeHistory(hist)
	}
	// Acquisitions may also arrive as a standalone top-level list. Deals
	// present in both inputs are deduplicated by "Name (Year)", the
	// history-section entry winning.
	if acqs := getSlice(doc, "acquisition_history"); len(acqs) > 0 {
		if out.History == nil {
			out.History = &History{}
		}
		out.History.Acquisitions = mergeAcquisitions(out.History.Acquisitions, normalizeAcquisitions(acqs))
	}
	return out
}

// NormalizeFinancials maps the financial section.
func NormalizeFinancials(m map[string]interface{}) *Financials {
	fin := &Financials{
		Revenue:         getFloat(m, "revenue", "sales", "total_revenue"),
		NetIncome:       getFloat(m, "net_income", "profit", "net_profit"),
		OperatingIncome: getFloat(m, "operating_income", "operating_profit", "ebit"),
		TotalAssets:     getFloat(m, "total_assets", "assets_total"),
		RevenueHistory:  getSeries(m, "revenue_history", "historical_revenue"),
		IncomeHistory:   getSeries(m, "income_history", "historical_income", "profit_history"),
	}

	for _, entry := range getSlice(m, "asset_classes", "asset_categories") {
		fin.AssetClasses = append(fin.AssetClasses, AssetClass{
			Name:            getString(entry, "name", "category"),
			Revenue:         getFloat(entry, "revenue", "sales"),
			Assets:          getFloat(entry, "assets", "book_value"),
			OperatingIncome: getFloat(entry, "operating_income", "income"),
		})
	}
	for _, entry := range getSlice(m, "segments", "business_segments") {
		fin.Segments = append(fin.Segments, Segment{
			Name:            getString(entry, "name", "segment"),
			Revenue:         getFloat(entry, "revenue", "sales"),
			OperatingIncome: getFloat(entry, "operating_income", "income"),
			RevenueHistory:  getSeries(entry, "revenue_history", "historical_revenue"),
			IncomeHistory:   getSeries(entry, "income_history", "historical_income"),
		})
	}
	for _, entry := range getSlice(m, "assets", "asset_utilization") {
		fin.Assets = append(fin.Assets, OwnedAsset{
			Name:                getString(entry, "name", "asset"),
			BookValue:           getFloat(entry, "book_value", "value"),
			UtilizationRate:     getFloat(entry, "utilization_rate", "utilization"),
			RevenueContribution: getFloat(entry, "revenue_contribution", "contribution"),
		})
	}
	for _, entry := range getSlice(m, "subsidiaries") {
		fin.Subsidiaries = append(fin.Subsidiaries, Subsidiary{
			Name:                getString(entry, "name", "subsidiary"),
			RevenueContribution: getFloat(entry, "revenue_contribution", "contribution"),
			ProfitMargin:        getFloat(entry, "profit_margin", "margin"),
			StrategicAlignment:  getString(entry, "strategic_alignment", "alignment"),
		})
	}
	for _, entry := range getSlice(m, "properties", "real_estate") {
		fin.Properties = append(fin.Properties, Property{
			Name:          getString(entry, "name", "location", "address"),
			BookValue:     getFloat(entry, "book_value", "value"),
			AnnualCost:    getFloat(entry, "annual_cost", "cost"),
			OccupancyRate: getFloat(entry, "occupancy_rate", "occupancy"),
		})
	}
	for _, entry := range getSlice(m, "patents", "ip_assets", "intellectual_property") {
		fin.Patents = append(fin.Patents, Patent{
			ID:          getString(entry, "id", "patent_id", "name"),
			Description: getString(entry, "description"),
			BookValue:   getFloat(entry, "book_value", "value"),
			UsageRate:   getFloat(entry, "usage_rate", "usage"),
			ActiveUse:   getBool(entry, "active_use", "in_use"),
		})
	}
	return fin
}

// NormalizeOperations maps the operational section.
func NormalizeOperations(m map[string]interface{}) *Operations {
	ops := &Operations{
		EmployeeCount:    getInt(m, "employee_count", "employees", "headcount"),
		SpaceUtilization: getFloat(m, "space_utilization", "space_usage"),
	}

	for _, entry := range getSlice(m, "revenue_streams", "revenue_mapping") {
		ops.RevenueStreams = append(ops.RevenueStreams, RevenueStream{
			Name:         getString(entry, "name", "stream"),
			Contribution: getFloat(entry, "contribution", "revenue_contribution"),
			Growth:       getFloat(entry, "growth", "growth_rate"),
		})
	}
	for _, entry := range getSlice(m, "facilities", "manufacturing_facilities") {
		ops.Facilities = append(ops.Facilities, normalizeFacility(entry))
	}
	for _, entry := range getSlice(m, "equipment", "machinery") {
		ops.Equipment = append(ops.Equipment, Equipment{
			Name:              getString(entry, "name", "equipment"),
			BookValue:         getFloat(entry, "book_value", "value"),
			LastUsedYear:      getInt(entry, "last_used_year", "last_used"),
			ProductLine:       getString(entry, "product_line"),
			ProductLineStatus: getString(entry, "product_line_status", "line_status"),
		})
	}
	for _, entry := range getSlice(m, "distribution", "distribution_network", "warehouses") {
		ops.Distribution = append(ops.Distribution, normalizeFacility(entry))
	}
	for _, entry := range getSlice(m, "investments", "minority_investments") {
		ops.Investments = append(ops.Investments, Investment{
			Company:            getString(entry, "company", "name"),
			OwnershipPct:       getFloat(entry, "ownership_pct", "ownership"),
			BookValue:          getFloat(entry, "book_value", "value"),
			StrategicAlignment: getString(entry, "strategic_alignment", "alignment"),
		})
	}
	for _, entry := range getSlice(m, "technologies", "acquired_technologies") {
		ops.Technologies = append(ops.Technologies, Technology{
			Name:         getString(entry, "name", "technology"),
			AcquiredFrom: getString(entry, "acquired_from", "source"),
			UsageLevel:   getString(entry, "usage_level", "current_usage"),
			UsageRate:    getFloat(entry, "usage_rate", "usage"),
			BookValue:    getFloat(entry, "book_value", "value"),
		})
	}
	for _, entry := range getSlice(m, "business_units", "units") {
		ops.BusinessUnits = append(ops.BusinessUnits, BusinessUnit{
			Name:      getString(entry, "name", "unit"),
			Revenue:   getFloat(entry, "revenue", "sales"),
			Employees: getInt(entry, "employees", "headcount"),
		})
	}
	return ops
}

func normalizeFacility(entry map[string]interface{}) Facility {
	return Facility{
		Name:        getString(entry, "name", "facility", "location"),
		Location:    getString(entry, "location", "address"),
		Type:        getString(entry, "type", "facility_type"),
		Utilization: getFloat(entry, "utilization", "utilization_rate"),
		AnnualCost:  getFloat(entry, "annual_cost", "cost", "annual_maintenance_cost"),
		Employees:   getInt(entry, "employees", "headcount"),
	}
}

// NormalizeIndustry maps the benchmark section.
func NormalizeIndustry(m map[string]interface{}) *Industry {
	return &Industry{
		Sector:        getString(m, "sector", "industry"),
		Metrics:       getMetricMap(m, "metrics", "averages", "benchmarks"),
		Distributions: getDistributionMap(m, "distributions", "peer_values"),
		ByCategory:    getGroupMap(m, "by_category", "category_benchmarks"),
		BySegment:     getGroupMap(m, "by_segment", "segment_benchmarks"),
		ByFunction:    getGroupMap(m, "by_function", "function_benchmarks"),
		ByFacility:    getGroupMap(m, "by_facility", "facility_benchmarks"),
	}
}

// NormalizeHistory maps the corporate-history section.
func NormalizeHistory(m map[string]interface{}) *History {
	hist := &History{}

	hist.Acquisitions = mergeAcquisitions(
		normalizeAcquisitions(getSlice(m, "acquisitions")),
		normalizeAcquisitions(getSlice(m, "acquisition_history")))
	for _, entry := range getSlice(m, "initiatives", "strategic_initiatives") {
		ini := Initiative{
			Name:   getString(entry, "name", "initiative"),
			Period: getString(entry, "period", "years"),
			Status: getString(entry, "status"),
		}
		for _, sub := range getSlice(entry, "units", "business_units") {
			ini.Units = append(ini.Units, normalizeHistoricalUnit(sub))
		}
		hist.Initiatives = append(hist.Initiatives, ini)
	}
	for _, entry := range getSlice(m, "business_units", "units") {
		hist.BusinessUnits = append(hist.BusinessUnits, normalizeHistoricalUnit(entry))
	}
	for _, entry := range getSlice(m, "market_changes", "market_shifts") {
		change := MarketChange{
			Change:      getString(entry, "change", "type", "name"),
			Period:      getString(entry, "period"),
			Description: getString(entry, "description"),
		}
		for _, sub := range getSlice(entry, "affected_assets", "assets") {
			change.AffectedAssets = append(change.AffectedAssets, normalizeLegacyAsset(sub))
		}
		hist.MarketChanges = append(hist.MarketChanges, change)
	}
	for _, entry := range getSlice(m, "legacy_assets", "assets") {
		hist.LegacyAssets = append(hist.LegacyAssets, normalizeLegacyAsset(entry))
	}
	return hist
}

func normalizeAcquisitions(entries []map[string]interface{}) []Acquisition {
	var out []Acquisition
	for _, entry := range entries {
		acq := Acquisition{
			Name:             getString(entry, "name", "company"),
			Year:             getInt(entry, "year", "acquired_year"),
			Value:            getFloat(entry, "value", "price"),
			IntegrationLevel: getString(entry, "integration_level", "integration"),
			PrimaryAsset:     getString(entry, "primary_asset"),
		}
		for _, sub := range getSlice(entry, "assets", "acquired_assets") {
			acq.Assets = append(acq.Assets, AcquiredAsset{
				Name:             getString(sub, "name", "asset"),
				Value:            getFloat(sub, "value", "book_value"),
				IntegrationLevel: getString(sub, "integration_level", "integration"),
			})
		}
		out = append(out, acq)
	}
	return out
}

// mergeAcquisitions concatenates two acquisition lists, dropping later
// entries whose "Name (Year)" key was already seen.
func mergeAcquisitions(lists ...[]Acquisition) []Acquisition {
	seen := make(map[string]bool)
	var out []Acquisition
	for _, list := range lists {
		for _, acq := range list {
			key := fmt.Sprintf("%s (%d)", acq.Name, acq.Year)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, acq)
		}
	}
	return out
}

func normalizeHistoricalUnit(entry map[string]interface{}) HistoricalUnit {
	return HistoricalUnit{
		Name:       getString(entry, "name", "unit"),
		Origin:     getString(entry, "origin", "origin_initiative"),
		Status:     getString(entry, "status", "current_status"),
		Headcount:  getInt(entry, "headcount", "employees"),
		AnnualCost: getFloat(entry, "annual_cost", "cost"),
	}
}

func normalizeLegacyAsset(entry map[string]interface{}) LegacyAsset {
	return LegacyAsset{
		Name:        getString(entry, "name", "asset"),
		BookValue:   getFloat(entry, "book_value", "value"),
		MarketValue: getFloat(entry, "market_value", "estimated_market_value"),
		Relevance:   getString(entry, "relevance", "current_relevance", "market_relevance"),
		Reason:      getString(entry, "reason", "decline_reason"),
	}
}
