package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Providers accepted by Model.Provider.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderMock      = "mock"
)

// Config is the root of the YAML run configuration.
type Config struct {
	Session   Session   `yaml:"session"`
	HostModel Model     `yaml:"host_model"`
	AppModel  Model     `yaml:"app_model"`
	Safeguard Safeguard `yaml:"safeguard"`
	Logging   Logging   `yaml:"logging"`
	Artifacts Artifacts `yaml:"artifacts"`
	Metrics   Metrics   `yaml:"metrics"`
}

// Session bounds a single run.
type Session struct {
	// MaxRounds caps how many user-visible rounds a session may execute.
	MaxRounds int `yaml:"max_rounds"`
	// MaxTurns caps state transitions inside one round.
	MaxTurns int `yaml:"max_turns"`
	// HistoryWindow is how many prior steps are offered to the model.
	HistoryWindow int `yaml:"history_window"`
	// MemoryLimit bounds per-agent step memory, zero meaning unbounded.
	MemoryLimit int `yaml:"memory_limit"`
}

// Model selects and parameterizes one language model role.
type Model struct {
	Provider    string  `yaml:"provider"`
	Name        string  `yaml:"name"`
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// IsZero reports whether the model section was omitted entirely.
func (m Model) IsZero() bool {
	return m == Model{}
}

// Safeguard names the operations that require confirmation before applying.
type Safeguard struct {
	Operations []string `yaml:"operations"`
}

// Logging selects the log level and optional JSONL record destinations.
type Logging struct {
	Level      string `yaml:"level"`
	RequestLog string `yaml:"request_log"`
	ErrorLog   string `yaml:"error_log"`
}

// Artifacts locates screenshot storage. An empty Dir keeps artifacts
// in memory.
type Artifacts struct {
	Dir string `yaml:"dir"`
}

// Metrics controls the Prometheus endpoint.
type Metrics struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Load reads, expands and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes parses raw YAML after environment expansion, then applies
// defaults and validates the result.
func LoadFromBytes(data []byte) (*Config, error) {
	expanded := expandEnv(string(data))

	cfg := &Config{}

	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SetDefaults fills unset fields with their defaults.
func (c *Config) SetDefaults() {
	if c.Session.MaxRounds <= 0 {
		c.Session.MaxRounds = 10
	}

	if c.Session.MaxTurns <= 0 {
		c.Session.MaxTurns = 50
	}

	if c.Session.HistoryWindow <= 0 {
		c.Session.HistoryWindow = 5
	}

	if c.HostModel.Provider == "" {
		c.HostModel.Provider = ProviderOpenAI
	}

	if c.AppModel.IsZero() {
		c.AppModel = c.HostModel
	}

	if c.AppModel.Provider == "" {
		c.AppModel.Provider = c.HostModel.Provider
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9090"
	}
}

// Validate rejects configurations the session loop cannot run with.
func (c *Config) Validate() error {
	if err := c.HostModel.validate("host_model"); err != nil {
		return err
	}

	if err := c.AppModel.validate("app_model"); err != nil {
		return err
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown logging level %q", c.Logging.Level)
	}

	return nil
}

func (m Model) validate(section string) error {
	switch strings.ToLower(m.Provider) {
	case ProviderOpenAI, ProviderAnthropic, ProviderMock:
	default:
		return fmt.Errorf("config: %s: unknown provider %q", section, m.Provider)
	}

	if m.Provider != ProviderMock && m.Name == "" {
		return fmt.Errorf("config: %s: model name is required for provider %q", section, m.Provider)
	}

	return nil
}
