package narrative

// Summary tallies what the model proposed, independent of how much of it
// matched the heuristic findings.
type Summary struct {
	TotalIdentified int            `json:"total_assets_identified"`
	ByType          map[string]int `json:"by_type"`
	ByAlignment     map[string]int `json:"by_strategic_alignment"`
}

// Summarize counts candidates per asset type and per alignment bucket.
func Summarize(candidates []Candidate) *Summary {
	if len(candidates) == 0 {
		return nil
	}
	s := &Summary{
		TotalIdentified: len(candidates),
		ByType:          make(map[string]int),
		ByAlignment:     make(map[string]int),
	}
	for _, c := range candidates {
		typ := c.AssetType
		if typ == "" {
			typ = "unspecified"
		}
		s.ByType[typ]++
		s.ByAlignment[AlignmentBucket(c.StrategicAlignment)]++
	}
	return s
}
