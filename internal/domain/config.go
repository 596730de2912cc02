package domain

// Config mirrors ~/.shellm/config.yaml. Immutable after load; the resolver
// methods in config_behavior.go are the only sanctioned way to pick a model.
type Config struct {
	ConfigFormatVersion string                    `yaml:"config_format_version"`
	DefaultModels       []string                  `yaml:"default_models"`
	Models              map[string]ModelConfig    `yaml:"models"`
	Providers           map[string]ProviderConfig `yaml:"providers"`
	AllowedCommands     []string                  `yaml:"allowed_commands"`
	Context             ContextSettings           `yaml:"context"`
	Security            SecuritySettings          `yaml:"security"`
	Execution           ExecutionSettings         `yaml:"execution"`
	History             HistorySettings           `yaml:"history"`
	Cache               CacheSettings             `yaml:"cache"`
	Logging             LoggingSettings           `yaml:"logging"`
}

// ModelConfig declares one selectable model: which provider serves it, the
// upstream model id, and what context the prompt may carry.
type ModelConfig struct {
	Provider              string `yaml:"provider"`
	Model                 string `yaml:"model"`
	Instructions          string `yaml:"instructions,omitempty"`
	IncludePathCommands   bool   `yaml:"include_path_commands"`
	IncludeHistoryContext bool   `yaml:"include_history_context"`
	HistoryContextSize    int    `yaml:"history_context_size,omitempty"`
	MaxTokens             int    `yaml:"max_tokens,omitempty"`
	APIKey                string `yaml:"api_key,omitempty"`
}

// ProviderConfig holds connection parameters for one backend. The map key in
// Config.Providers doubles as the adapter kind when Kind is empty, so the
// common case stays `openai: {api_key: ...}` with no redundancy.
type ProviderConfig struct {
	Kind    string `yaml:"kind,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	APIKey  string `yaml:"api_key,omitempty"`
}

// ContextSettings bounds the gathered environment bundle.
type ContextSettings struct {
	MaxCommands int `yaml:"max_commands"`
	MaxHistory  int `yaml:"max_history"`
}

// SecuritySettings configures the guardrail layer.
type SecuritySettings struct {
	Enabled   bool   `yaml:"enabled"`
	RulesFile string `yaml:"rules_file,omitempty"`
}

// ExecutionSettings controls how approved commands run.
type ExecutionSettings struct {
	Shell          string `yaml:"shell,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// HistorySettings configures the query history store.
type HistorySettings struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// CacheSettings configures the provider response cache.
type CacheSettings struct {
	Enabled    bool   `yaml:"enabled"`
	Dir        string `yaml:"dir,omitempty"`
	TTLMinutes int    `yaml:"ttl_minutes,omitempty"`
}

// LoggingSettings configures the zap sink.
type LoggingSettings struct {
	Level string `yaml:"level,omitempty"`
	File  string `yaml:"file,omitempty"`
}
