package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromBytesDefaults(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(`
host_model:
  provider: mock
`))
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Session.MaxRounds)
	assert.Equal(t, 50, cfg.Session.MaxTurns)
	assert.Equal(t, 5, cfg.Session.HistoryWindow)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, ProviderMock, cfg.AppModel.Provider, "app model inherits the host model when omitted")
}

func TestLoadFromBytesEnvExpansion(t *testing.T) {
	t.Setenv("UIPILOT_TEST_KEY", "sk-test")
	t.Setenv("UIPILOT_TEST_MODEL", "gpt-4o")

	cfg, err := LoadFromBytes([]byte(`
host_model:
  provider: openai
  name: $UIPILOT_TEST_MODEL
  api_key: ${UIPILOT_TEST_KEY}
  base_url: ${UIPILOT_TEST_URL:-https://api.openai.com/v1}
`))
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", cfg.HostModel.Name)
	assert.Equal(t, "sk-test", cfg.HostModel.APIKey)
	assert.Equal(t, "https://api.openai.com/v1", cfg.HostModel.BaseURL, "unset variables fall back to the inline default")
}

func TestLoadFromBytesEnvOverridesDefault(t *testing.T) {
	t.Setenv("UIPILOT_TEST_URL", "http://localhost:8080")

	cfg, err := LoadFromBytes([]byte(`
host_model:
  provider: mock
  base_url: ${UIPILOT_TEST_URL:-https://api.openai.com/v1}
`))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.HostModel.BaseURL)
}

func TestLoadFromBytesUnknownField(t *testing.T) {
	_, err := LoadFromBytes([]byte(`
sesion:
  max_rounds: 3
host_model:
  provider: mock
`))
	require.Error(t, err)
}

func TestLoadFromBytesUnknownProvider(t *testing.T) {
	_, err := LoadFromBytes([]byte(`
host_model:
  provider: cohere
  name: command-r
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestLoadFromBytesMissingModelName(t *testing.T) {
	_, err := LoadFromBytes([]byte(`
host_model:
  provider: anthropic
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model name is required")
}

func TestLoadFromBytesAppModelOverride(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(`
host_model:
  provider: openai
  name: gpt-4o
app_model:
  provider: anthropic
  name: claude-3-5-sonnet-latest
`))
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.HostModel.Provider)
	assert.Equal(t, ProviderAnthropic, cfg.AppModel.Provider)
	assert.Equal(t, "claude-3-5-sonnet-latest", cfg.AppModel.Name)
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uipilot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
session:
  max_rounds: 3
host_model:
  provider: mock
safeguard:
  operations:
    - set_edit_text
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Session.MaxRounds)
	assert.Equal(t, []string{"set_edit_text"}, cfg.Safeguard.Operations)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("UIPILOT_DOTENV_KEY=from-file\n"), 0o600))

	require.NoError(t, LoadDotEnv(path))
	t.Cleanup(func() { os.Unsetenv("UIPILOT_DOTENV_KEY") })

	assert.Equal(t, "from-file", os.Getenv("UIPILOT_DOTENV_KEY"))
}

func TestLoadDotEnvSkipsMissingFiles(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env.absent")))
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("UIPILOT_TEST_SET", "value")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "braced", in: "${UIPILOT_TEST_SET}", want: "value"},
		{name: "bare", in: "$UIPILOT_TEST_SET", want: "value"},
		{name: "default used", in: "${UIPILOT_TEST_UNSET:-fallback}", want: "fallback"},
		{name: "default ignored when set", in: "${UIPILOT_TEST_SET:-fallback}", want: "value"},
		{name: "unset braced", in: "${UIPILOT_TEST_UNSET}", want: ""},
		{name: "literal text", in: "plain", want: "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expandEnv(tt.in))
		})
	}
}
