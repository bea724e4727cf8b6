// Package prompt is a small prompt library: templates live in JSON files
// loaded at startup, with compiled-in fallbacks in the analyzers so a
// missing resources directory never breaks a run.
package prompt

import (
	"bytes"
	"fmt"
	"sync"
	"text/template"
)

// Screening prompt IDs. The resources directory may override any of them.
const (
	FinancialScreening   = "screening.financial"
	OperationalScreening = "screening.operational"
	IndustryScreening    = "screening.industry"
	HistoricalScreening  = "screening.historical"
)

// Template is one reusable prompt with metadata.
type Template struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	Category     string `json:"category,omitempty"`
	Description  string `json:"description,omitempty"`
	SystemPrompt string `json:"system_prompt"`
	UserTmpl     string `json:"user_prompt_template,omitempty"`
	Version      string `json:"version,omitempty"`
}

// Render executes the user template against vars. An empty template
// renders to "".
func (t *Template) Render(vars map[string]interface{}) (string, error) {
	if t.UserTmpl == "" {
		return "", nil
	}
	tmpl, err := template.New(t.ID).Parse(t.UserTmpl)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", t.ID, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("execute template %s: %w", t.ID, err)
	}
	return buf.String(), nil
}

// Registry holds loaded templates keyed by ID.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

var (
	global *Registry
	once   sync.Once
)

// Get returns the global registry singleton.
func Get() *Registry {
	once.Do(func() {
		global = &Registry{templates: make(map[string]*Template)}
	})
	return global
}

// Register adds a template; the ID must be set.
func (r *Registry) Register(t *Template) error {
	if t.ID == "" {
		return fmt.Errorf("prompt ID cannot be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[t.ID] = t
	return nil
}

// Lookup retrieves a template by ID.
func (r *Registry) Lookup(id string) (*Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[id]
	return t, ok
}

// Count returns the number of registered templates.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.templates)
}

// Clear removes all templates. Used by tests.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates = make(map[string]*Template)
}

// SystemPromptOr returns the system prompt registered under id, or the
// fallback when the library carries no override.
func SystemPromptOr(id, fallback string) string {
	if t, ok := Get().Lookup(id); ok && t.SystemPrompt != "" {
		return t.SystemPrompt
	}
	return fallback
}
