package company

import (
	"encoding/json"
	"sort"
	"strconv"
)

// Loader documents arrive as loosely-keyed maps from JSON/HJSON/YAML files
// or scraped pages. The helpers below read a value under the first key that
// is present, so documents can use any of the accepted synonyms.

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

func getFloat(m map[string]interface{}, keys ...string) float64 {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if f, ok := toFloat(v); ok {
				return f
			}
		}
	}
	return 0
}

func getInt(m map[string]interface{}, keys ...string) int {
	return int(getFloat(m, keys...))
}

func getString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}

func getBool(m map[string]interface{}, keys ...string) bool {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if b, ok := v.(bool); ok {
				return b
			}
		}
	}
	return false
}

func getMap(m map[string]interface{}, keys ...string) map[string]interface{} {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if sub, ok := v.(map[string]interface{}); ok {
				return sub
			}
		}
	}
	return nil
}

func getSlice(m map[string]interface{}, keys ...string) []map[string]interface{} {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		list, ok := v.([]interface{})
		if !ok {
			continue
		}
		out := make([]map[string]interface{}, 0, len(list))
		for _, item := range list {
			if entry, ok := item.(map[string]interface{}); ok {
				out = append(out, entry)
			}
		}
		return out
	}
	return nil
}

// getSeries reads a numeric history either as a list (assumed most recent
// first) or as a map keyed by year, which is reordered most recent first.
func getSeries(m map[string]interface{}, keys ...string) []float64 {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch series := v.(type) {
		case []interface{}:
			out := make([]float64, 0, len(series))
			for _, item := range series {
				if f, ok := toFloat(item); ok {
					out = append(out, f)
				}
			}
			return out
		case map[string]interface{}:
			type yearVal struct {
				year int
				val  float64
			}
			pairs := make([]yearVal, 0, len(series))
			for yearKey, raw := range series {
				year, err := strconv.Atoi(yearKey)
				if err != nil {
					continue
				}
				if f, ok := toFloat(raw); ok {
					pairs = append(pairs, yearVal{year, f})
				}
			}
			sort.Slice(pairs, func(i, j int) bool { return pairs[i].year > pairs[j].year })
			out := make([]float64, len(pairs))
			for i, p := range pairs {
				out[i] = p.val
			}
			return out
		}
	}
	return nil
}

func getMetricMap(m map[string]interface{}, keys ...string) map[string]float64 {
	raw := getMap(m, keys...)
	if raw == nil {
		return nil
	}
	out := make(map[string]float64, len(raw))
	for k, v := range raw {
		if f, ok := toFloat(v); ok {
			out[k] = f
		}
	}
	return out
}

func getDistributionMap(m map[string]interface{}, keys ...string) map[string][]float64 {
	raw := getMap(m, keys...)
	if raw == nil {
		return nil
	}
	out := make(map[string][]float64, len(raw))
	for k, v := range raw {
		list, ok := v.([]interface{})
		if !ok {
			continue
		}
		vals := make([]float64, 0, len(list))
		for _, item := range list {
			if f, ok := toFloat(item); ok {
				vals = append(vals, f)
			}
		}
		out[k] = vals
	}
	return out
}

func getGroupMap(m map[string]interface{}, keys ...string) map[string]map[string]float64 {
	raw := getMap(m, keys...)
	if raw == nil {
		return nil
	}
	out := make(map[string]map[string]float64, len(raw))
	for group, v := range raw {
		entry, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		metrics := make(map[string]float64, len(entry))
		for metric, val := range entry {
			if f, ok := toFloat(val); ok {
				metrics[metric] = f
			}
		}
		out[group] = metrics
	}
	return out
}
