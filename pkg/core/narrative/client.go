// Package narrative is the model-facing half of the screener: it invokes a
// language model over the company document, parses whatever comes back into
// candidate assets, and merges those candidates into the heuristic findings.
// Everything here degrades: a missing client, a timeout, or unusable output
// leaves the heuristic results untouched.
package narrative

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

// Client is the minimal capability the analyzers need from a language model.
type Client interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ErrDisabled is returned by an Invoker with no client configured.
var ErrDisabled = errors.New("narrative client not configured")

const (
	defaultTimeout  = 60 * time.Second
	defaultAttempts = 3
)

// Invoker wraps a Client with the per-call timeout and bounded retry policy.
// The zero value is a disabled invoker.
type Invoker struct {
	Client   Client
	Timeout  time.Duration
	Attempts int
}

// NewInvoker builds an Invoker; zero timeout/attempts select the defaults.
func NewInvoker(c Client, timeout time.Duration, attempts int) Invoker {
	return Invoker{Client: c, Timeout: timeout, Attempts: attempts}
}

// Enabled reports whether a client is configured.
func (iv Invoker) Enabled() bool {
	return iv.Client != nil
}

// Generate calls the client, retrying transient failures up to the attempt
// budget. Each attempt gets its own timeout; a canceled parent context stops
// the retry loop.
func (iv Invoker) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if iv.Client == nil {
		return "", ErrDisabled
	}

	timeout := iv.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	attempts := iv.Attempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		out, err := iv.Client.Generate(callCtx, systemPrompt, userPrompt)
		cancel()
		if err == nil {
			return out, nil
		}
		lastErr = err
		log.Warn().Int("attempt", attempt).Err(err).Msg("narrative generation failed")
		if ctx.Err() != nil {
			break
		}
	}
	return "", lastErr
}
