package narrative

import "strings"

// Kind buckets a candidate's free-text asset type into the merge
// vocabulary. Analyzers use it to pick the category a genuinely new
// candidate gets appended under.
type Kind int

const (
	// KindUnknown covers unrecognized types; mergers treat it as
	// market-change material.
	KindUnknown Kind = iota
	KindAcquisition
	KindBusinessUnit
	KindMarket
)

// ClassifyKind maps an asset_type string onto a Kind.
func ClassifyKind(assetType string) Kind {
	t := strings.ToLower(strings.TrimSpace(assetType))
	switch {
	case t == "":
		return KindUnknown
	case strings.Contains(t, "acqui"):
		return KindAcquisition
	case strings.Contains(t, "business unit"), strings.Contains(t, "division"),
		strings.Contains(t, "department"), strings.Contains(t, "subsidiary"):
		return KindBusinessUnit
	case strings.Contains(t, "market"), strings.Contains(t, "product"):
		return KindMarket
	}
	return KindUnknown
}

// AlignmentBucket normalizes a free-text strategic alignment into
// low/medium/high for tallying. Unrecognized values map to "unspecified".
func AlignmentBucket(alignment string) string {
	a := strings.ToLower(strings.TrimSpace(alignment))
	switch {
	case a == "":
		return "unspecified"
	case strings.Contains(a, "low"), strings.Contains(a, "minimal"),
		strings.Contains(a, "none"), strings.Contains(a, "poor"):
		return "low"
	case strings.Contains(a, "high"), strings.Contains(a, "strong"),
		strings.Contains(a, "core"):
		return "high"
	case strings.Contains(a, "medium"), strings.Contains(a, "moderate"),
		strings.Contains(a, "partial"):
		return "medium"
	}
	return "unspecified"
}
