// Package llm holds the concrete model providers. Analyzers never talk to
// these directly; they go through the narrative client so provider choice
// stays a configuration detail.
package llm

import "context"

// Provider is the interface all model backends implement.
// Options recognized by the built-in providers: "model" (string override)
// and "response_format" ({"type": "json_object"} for JSON mode).
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
}

func optionString(options map[string]interface{}, key, fallback string) string {
	if v, ok := options[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func wantsJSON(options map[string]interface{}) bool {
	if rf, ok := options["response_format"].(map[string]interface{}); ok {
		return rf["type"] == "json_object"
	}
	return false
}
