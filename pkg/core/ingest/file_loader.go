// Package ingest loads company documents from local files and corporate
// profile pages.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"noncore_agent/pkg/core/company"
	"noncore_agent/pkg/core/utils"
)

// LoadFile reads a company document from a JSON, HJSON, or YAML file and
// normalizes it. The format follows the file extension; unknown extensions
// are tried as JSON.
func LoadFile(path string) (*company.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read company file: %w", err)
	}

	var raw map[string]interface{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		raw, err = parseYAML(data)
	case ".hjson":
		raw, err = parseHJSON(data)
	default:
		raw, err = parseJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	doc := company.Normalize(raw)
	if doc == nil {
		return nil, fmt.Errorf("%s holds no company data", filepath.Base(path))
	}
	return doc, nil
}

// parseJSON falls back to repair for files with trailing commas, comments,
// or other hand-edit damage.
func parseJSON(data []byte) (map[string]interface{}, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err == nil {
		return raw, nil
	}
	repaired, err := utils.RepairJSON(string(data))
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(repaired), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func parseHJSON(data []byte) (map[string]interface{}, error) {
	normalized, err := utils.ParseHJSON(string(data))
	if err != nil {
		return nil, err
	}
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(normalized), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func parseYAML(data []byte) (map[string]interface{}, error) {
	var raw map[interface{}]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	converted, ok := cleanYAML(raw).(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("top-level YAML value is not a mapping")
	}
	return converted, nil
}

// cleanYAML rewrites yaml.v2's map[interface{}]interface{} trees into the
// map[string]interface{} shape the normalizer expects.
func cleanYAML(v interface{}) interface{} {
	switch val := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[fmt.Sprintf("%v", k)] = cleanYAML(item)
		}
		return out
	case []interface{}:
		for i := range val {
			val[i] = cleanYAML(val[i])
		}
		return val
	default:
		return v
	}
}
