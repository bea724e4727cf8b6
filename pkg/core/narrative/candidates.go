package narrative

import (
	"fmt"
	"strings"

	"noncore_agent/pkg/core/utils"
)

// Candidate is one asset proposed by the model. The payload is unverified
// output: fields may be missing or renamed, so extraction tolerates the
// synonyms the models actually produce.
type Candidate struct {
	AssetName          string  `json:"asset_name"`
	AssetType          string  `json:"asset_type,omitempty"`
	YearPeriod         string  `json:"year_period,omitempty"`
	Justification      string  `json:"justification,omitempty"`
	StrategicPurpose   string  `json:"strategic_purpose,omitempty"`
	PotentialValue     string  `json:"potential_value,omitempty"`
	StrategicAlignment string  `json:"strategic_alignment,omitempty"`
	CoreAlignment      float64 `json:"core_alignment,omitempty"`
}

// Enrichment is the narrative attachment carried on a heuristic finding
// after a candidate matched it by name.
type Enrichment struct {
	Justification      string  `json:"justification,omitempty"`
	StrategicPurpose   string  `json:"strategic_purpose,omitempty"`
	PotentialValue     string  `json:"potential_value,omitempty"`
	StrategicAlignment string  `json:"strategic_alignment,omitempty"`
	CoreAlignment      float64 `json:"core_alignment,omitempty"`
}

// Enrichment converts the candidate into the attachment stored on a
// matched finding. Returns nil when the candidate carries no narrative
// content beyond its name.
func (c Candidate) Enrichment() *Enrichment {
	e := &Enrichment{
		Justification:      c.Justification,
		StrategicPurpose:   c.StrategicPurpose,
		PotentialValue:     c.PotentialValue,
		StrategicAlignment: c.StrategicAlignment,
		CoreAlignment:      c.CoreAlignment,
	}
	if *e == (Enrichment{}) {
		return nil
	}
	return e
}

// ParseCandidates extracts the candidate list from a raw model response.
// Accepted shapes: a bare JSON list of objects, or an object holding the
// list under "assets" (or "non_core_assets"/"candidates"). Anything else is
// an error and the caller proceeds heuristic-only.
func ParseCandidates(raw string) ([]Candidate, error) {
	value, err := utils.SmartParseValue(raw)
	if err != nil {
		return nil, fmt.Errorf("unparseable narrative response: %w", err)
	}

	var list []interface{}
	switch v := value.(type) {
	case []interface{}:
		list = v
	case map[string]interface{}:
		for _, key := range []string{"assets", "non_core_assets", "candidates"} {
			if inner, ok := v[key].([]interface{}); ok {
				list = inner
				break
			}
		}
		if list == nil {
			return nil, fmt.Errorf("narrative response object carries no asset list")
		}
	default:
		return nil, fmt.Errorf("narrative response is neither list nor object")
	}

	out := make([]Candidate, 0, len(list))
	for _, item := range list {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		c := Candidate{
			AssetName:          firstString(entry, "asset_name", "name", "asset"),
			AssetType:          firstString(entry, "asset_type", "type", "category"),
			YearPeriod:         firstString(entry, "year_period", "period", "year"),
			Justification:      firstString(entry, "justification", "reasons_for_non_core_status", "reason"),
			StrategicPurpose:   firstString(entry, "original_strategic_purpose", "strategic_purpose"),
			PotentialValue:     firstString(entry, "potential_value", "estimated_value"),
			StrategicAlignment: firstString(entry, "current_strategic_alignment", "strategic_alignment", "alignment"),
			CoreAlignment:      firstFloat(entry, "core_alignment", "alignment_score"),
		}
		if strings.TrimSpace(c.AssetName) == "" {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func firstString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			switch s := v.(type) {
			case string:
				return s
			case []interface{}:
				// Some models return reasons as a list; join them.
				parts := make([]string, 0, len(s))
				for _, item := range s {
					if str, ok := item.(string); ok {
						parts = append(parts, str)
					}
				}
				if len(parts) > 0 {
					return strings.Join(parts, "; ")
				}
			}
		}
	}
	return ""
}

func firstFloat(m map[string]interface{}, keys ...string) float64 {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			switch n := v.(type) {
			case float64:
				return n
			case int:
				return float64(n)
			}
		}
	}
	return 0
}
