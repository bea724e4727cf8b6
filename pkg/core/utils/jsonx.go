// Package utils carries lenient JSON handling for model output. Language
// models emit almost-JSON: fenced blocks, single quotes, trailing commas,
// unquoted keys. The parse chain here recovers a usable value from most of
// those shapes before the caller gives up.
package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// StripFences removes a surrounding markdown code fence (```json ... ```)
// and any prose before the first brace or bracket.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if idx := strings.Index(s, "```"); idx >= 0 {
		s = s[idx+3:]
		s = strings.TrimPrefix(s, "json")
		if end := strings.LastIndex(s, "```"); end >= 0 {
			s = s[:end]
		}
	}
	s = strings.TrimSpace(s)

	// Drop leading prose before the payload.
	objStart := strings.IndexAny(s, "{[")
	if objStart > 0 {
		s = s[objStart:]
	}
	return s
}

// RepairJSON fixes common model-output JSON defects (missing quotes,
// trailing commas, unclosed brackets) and returns valid JSON text.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("json repair failed: %w", err)
	}
	return repaired, nil
}

// ParseHJSON parses human-friendly JSON (comments, unquoted keys, optional
// commas) and re-emits standard JSON.
func ParseHJSON(data string) (string, error) {
	var value interface{}
	if err := hjson.Unmarshal([]byte(data), &value); err != nil {
		return "", fmt.Errorf("hjson parse failed: %w", err)
	}
	out, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("marshal of hjson value failed: %w", err)
	}
	return string(out), nil
}

// SmartParse tries progressively more lenient strategies to unmarshal input
// into schema: standard JSON, then HJSON, then repaired JSON. HJSON runs
// before repair because the repair pass rewrites HJSON comments into bogus
// tokens it then accepts, masking the real structure.
func SmartParse(input string, schema interface{}) error {
	input = StripFences(input)

	if err := json.Unmarshal([]byte(input), schema); err == nil {
		return nil
	}
	if lenient, err := ParseHJSON(input); err == nil {
		if err := json.Unmarshal([]byte(lenient), schema); err == nil {
			return nil
		}
	}
	if repaired, err := RepairJSON(input); err == nil {
		if err := json.Unmarshal([]byte(repaired), schema); err == nil {
			return nil
		}
	}
	return fmt.Errorf("all parsing strategies failed")
}

// SmartParseValue is SmartParse for callers that need the raw decoded value
// rather than a known schema.
func SmartParseValue(input string) (interface{}, error) {
	var value interface{}
	if err := SmartParse(input, &value); err != nil {
		return nil, err
	}
	return value, nil
}
