// Package agent maps analyzers to LLM providers from a models.yaml config.
package agent

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"noncore_agent/pkg/core/llm"
	"noncore_agent/pkg/core/narrative"
)

type Config struct {
	ActiveProvider string                    `yaml:"active_provider"`
	Models         map[string]string         `yaml:"models"`
	Analyzers      map[string]AnalyzerConfig `yaml:"analyzers"`
}

type AnalyzerConfig struct {
	Provider    string `yaml:"provider"` // Optional override
	Description string `yaml:"description"`
}

// LoadConfig reads models.yaml. A missing file yields the zero Config, which
// resolves every analyzer to the default provider.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read models config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse models config: %w", err)
	}
	return cfg, nil
}

// Manager resolves which provider serves which analyzer.
type Manager struct {
	config    Config
	providers map[string]llm.Provider
}

func NewManager(config Config) *Manager {
	return &Manager{
		config: config,
		providers: map[string]llm.Provider{
			"gemini":   &llm.GeminiProvider{},
			"deepseek": &llm.DeepSeekProvider{},
		},
	}
}

// GetProvider returns the provider for an analyzer, honoring per-analyzer
// overrides before the global active provider.
func (m *Manager) GetProvider(analyzer string) llm.Provider {
	if ac, ok := m.config.Analyzers[analyzer]; ok && ac.Provider != "" {
		if p, ok := m.providers[ac.Provider]; ok {
			return p
		}
	}
	if p, ok := m.providers[m.config.ActiveProvider]; ok {
		return p
	}
	return m.providers["gemini"]
}

// GetProviderByName retrieves a provider by name, nil when unknown.
func (m *Manager) GetProviderByName(name string) llm.Provider {
	return m.providers[name]
}

// ClientFor builds the narrative client for an analyzer, with the model
// chosen for that analyzer's provider.
func (m *Manager) ClientFor(analyzer string) narrative.Client {
	provider := m.GetProvider(analyzer)
	name := m.providerName(analyzer)
	return narrative.NewProviderAdapter(provider, m.config.Models[name])
}

func (m *Manager) providerName(analyzer string) string {
	if ac, ok := m.config.Analyzers[analyzer]; ok && ac.Provider != "" {
		if _, known := m.providers[ac.Provider]; known {
			return ac.Provider
		}
	}
	if _, known := m.providers[m.config.ActiveProvider]; known {
		return m.config.ActiveProvider
	}
	return "gemini"
}

func (m *Manager) SetGlobalProvider(name string) error {
	if _, ok := m.providers[name]; !ok {
		return fmt.Errorf("provider %s not found", name)
	}
	m.config.ActiveProvider = name
	return nil
}

func (m *Manager) GetActiveProvider() string {
	return m.config.ActiveProvider
}
