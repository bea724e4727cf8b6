package agent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noncore_agent/pkg/core/llm"
)

func TestProviderResolution(t *testing.T) {
	m := NewManager(Config{
		ActiveProvider: "deepseek",
		Analyzers: map[string]AnalyzerConfig{
			"financial": {Provider: "gemini"},
		},
	})

	_, ok := m.GetProvider("financial").(*llm.GeminiProvider)
	assert.True(t, ok, "per-analyzer override")

	_, ok = m.GetProvider("operational").(*llm.DeepSeekProvider)
	assert.True(t, ok, "global active provider")
}

func TestProviderFallback(t *testing.T) {
	m := NewManager(Config{ActiveProvider: "unknown"})
	_, ok := m.GetProvider("financial").(*llm.GeminiProvider)
	assert.True(t, ok)
	assert.Nil(t, m.GetProviderByName("unknown"))
}

func TestSetGlobalProvider(t *testing.T) {
	m := NewManager(Config{})
	require.NoError(t, m.SetGlobalProvider("deepseek"))
	assert.Equal(t, "deepseek", m.GetActiveProvider())
	assert.Error(t, m.SetGlobalProvider("nope"))
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yaml")
	content := `
active_provider: gemini
models:
  gemini: gemini-2.0-flash-exp
analyzers:
  historical:
    provider: deepseek
    description: long context for acquisition records
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.ActiveProvider)
	assert.Equal(t, "deepseek", cfg.Analyzers["historical"].Provider)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.ActiveProvider)
}

func TestClientForReturnsAdapter(t *testing.T) {
	m := NewManager(Config{ActiveProvider: "gemini"})
	assert.NotNil(t, m.ClientFor("financial"))
}
