package company

import "testing"

func TestNormalizeKeySynonyms(t *testing.T) {
	doc := Normalize(map[string]interface{}{
		"company": map[string]interface{}{"name": "Acme Industrial"},
		"financials": map[string]interface{}{
			"sales":      1000.0,
			"profit":     80.0,
			"assets_total": 2500.0,
			"subsidiaries": []interface{}{
				map[string]interface{}{"name": "Acme Labs", "contribution": 0.03, "margin": 0.02},
			},
		},
		"operations": map[string]interface{}{
			"employees": 1200.0,
		},
	})

	if doc.Name != "Acme Industrial" {
		t.Errorf("name = %q", doc.Name)
	}
	if doc.Financials == nil {
		t.Fatal("financials section missing")
	}
	if doc.Financials.Revenue != 1000 {
		t.Errorf("revenue via sales = %v, want 1000", doc.Financials.Revenue)
	}
	if doc.Financials.NetIncome != 80 {
		t.Errorf("net income via profit = %v, want 80", doc.Financials.NetIncome)
	}
	if len(doc.Financials.Subsidiaries) != 1 || doc.Financials.Subsidiaries[0].RevenueContribution != 0.03 {
		t.Errorf("subsidiaries = %+v", doc.Financials.Subsidiaries)
	}
	if doc.Operations == nil || doc.Operations.EmployeeCount != 1200 {
		t.Errorf("operations = %+v", doc.Operations)
	}
	if doc.Industry != nil || doc.History != nil {
		t.Error("absent sections should stay nil")
	}
}

func TestNormalizeMissingValuesDefaultToZero(t *testing.T) {
	doc := Normalize(map[string]interface{}{
		"financials": map[string]interface{}{
			"assets": []interface{}{
				map[string]interface{}{"name": "Old Press"},
			},
		},
	})
	if len(doc.Financials.Assets) != 1 {
		t.Fatalf("assets = %+v", doc.Financials.Assets)
	}
	a := doc.Financials.Assets[0]
	if a.BookValue != 0 || a.UtilizationRate != 0 || a.RevenueContribution != 0 {
		t.Errorf("missing numerics should be zero: %+v", a)
	}
}

func TestGetSeriesFromYearMap(t *testing.T) {
	doc := Normalize(map[string]interface{}{
		"financials": map[string]interface{}{
			"revenue_history": map[string]interface{}{
				"2022": 800.0,
				"2024": 1000.0,
				"2023": 900.0,
			},
		},
	})
	hist := doc.Financials.RevenueHistory
	if len(hist) != 3 || hist[0] != 1000 || hist[1] != 900 || hist[2] != 800 {
		t.Errorf("year-keyed history should be most recent first, got %v", hist)
	}
}

func TestNormalizeIndustryGroups(t *testing.T) {
	doc := Normalize(map[string]interface{}{
		"industry": map[string]interface{}{
			"metrics": map[string]interface{}{"asset_turnover": 1.8},
			"by_category": map[string]interface{}{
				"Machinery": map[string]interface{}{"asset_turnover": 1.2},
			},
		},
	})
	ind := doc.Industry
	if ind.Metric("asset_turnover") != 1.8 {
		t.Errorf("metric = %v", ind.Metric("asset_turnover"))
	}
	if got := GroupMetric(ind.ByCategory, "Machinery", "asset_turnover", 1.8); got != 1.2 {
		t.Errorf("group metric = %v, want 1.2", got)
	}
	if got := GroupMetric(ind.ByCategory, "Unknown", "asset_turnover", 1.8); got != 1.8 {
		t.Errorf("group fallback = %v, want 1.8", got)
	}
}

func TestNormalizeAcquisitionHistoryMerge(t *testing.T) {
	doc := Normalize(map[string]interface{}{
		"history": map[string]interface{}{
			"acquisitions": []interface{}{
				map[string]interface{}{"name": "Meridian Systems", "year": 2018.0, "integration": "minimal"},
			},
		},
		"acquisition_history": []interface{}{
			map[string]interface{}{"name": "Meridian Systems", "year": 2018.0, "integration": "full"},
			map[string]interface{}{"name": "Quanta Tooling", "year": 2022.0, "price": 40.0},
		},
	})
	if doc.History == nil {
		t.Fatal("history section missing")
	}
	if len(doc.History.Acquisitions) != 2 {
		t.Fatalf("acquisitions = %+v", doc.History.Acquisitions)
	}
	// Duplicate "Meridian Systems (2018)" resolves to the history-section
	// entry; the standalone-list extra deal is kept.
	if doc.History.Acquisitions[0].IntegrationLevel != "minimal" {
		t.Errorf("dedup kept wrong entry: %+v", doc.History.Acquisitions[0])
	}
	if doc.History.Acquisitions[1].Name != "Quanta Tooling" || doc.History.Acquisitions[1].Value != 40 {
		t.Errorf("standalone acquisition dropped: %+v", doc.History.Acquisitions[1])
	}
}

func TestNormalizeAcquisitionHistoryWithoutSection(t *testing.T) {
	doc := Normalize(map[string]interface{}{
		"acquisition_history": []interface{}{
			map[string]interface{}{"name": "Quanta Tooling", "year": 2022.0},
		},
	})
	if doc.History == nil || len(doc.History.Acquisitions) != 1 {
		t.Fatalf("history = %+v", doc.History)
	}
}

func TestNormalizeNilDocument(t *testing.T) {
	doc := Normalize(nil)
	if doc == nil {
		t.Fatal("Normalize(nil) returned nil")
	}
	if doc.Financials != nil {
		t.Error("nil input should produce empty document")
	}
}
