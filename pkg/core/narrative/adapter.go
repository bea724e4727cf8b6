package narrative

import (
	"context"

	"noncore_agent/pkg/core/llm"
)

// providerAdapter bridges an llm.Provider into the Client the analyzers
// consume, pinning JSON response mode since every screening prompt expects
// a structured list back.
type providerAdapter struct {
	provider llm.Provider
	model    string
}

// NewProviderAdapter wraps a provider as a Client. A nil provider yields a
// nil Client, which keeps the invoker disabled.
func NewProviderAdapter(p llm.Provider, model string) Client {
	if p == nil {
		return nil
	}
	return &providerAdapter{provider: p, model: model}
}

func (a *providerAdapter) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	options := map[string]interface{}{
		"response_format": map[string]interface{}{"type": "json_object"},
	}
	if a.model != "" {
		options["model"] = a.model
	}
	return a.provider.GenerateResponse(ctx, userPrompt, systemPrompt, options)
}
