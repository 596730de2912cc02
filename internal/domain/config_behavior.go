package domain

import (
	"fmt"
	"os"
	"regexp"
)

// envVarRef matches the ${VAR_NAME} interpolation syntax accepted in
// connection parameters. Bare $VAR is deliberately not expanded so shell-ish
// text elsewhere in a value survives untouched.
var envVarRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// wellKnownKeyEnv maps provider kinds to the conventional API key variable
// consulted when neither the model nor the provider carries a key.
var wellKnownKeyEnv = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"gemini":    "GEMINI_API_KEY",
	"google":    "GEMINI_API_KEY",
}

// ModelByName returns the named model configuration.
func (c *Config) ModelByName(name string) (ModelConfig, bool) {
	m, ok := c.Models[name]
	return m, ok
}

// HasModel reports whether a model with the given name is configured.
func (c *Config) HasModel(name string) bool {
	_, ok := c.Models[name]
	return ok
}

// ProviderFor resolves the provider configuration backing a model and the
// adapter kind selecting the implementation. The providers map key is the
// kind unless the entry overrides it.
func (c *Config) ProviderFor(m ModelConfig) (ProviderConfig, string, error) {
	p, ok := c.Providers[m.Provider]
	if !ok {
		return ProviderConfig{}, "", fmt.Errorf("provider %q not configured", m.Provider)
	}
	kind := p.Kind
	if kind == "" {
		kind = m.Provider
	}
	return p, kind, nil
}

// ResolveAPIKey returns the API key for a model, consulting the model entry,
// then its provider entry, then the provider kind's conventional environment
// variable. ${VAR_NAME} references are expanded at each step. An empty result
// is not an error here; adapters that require a key reject it themselves.
func (c *Config) ResolveAPIKey(m ModelConfig) string {
	if key := ExpandEnvRefs(m.APIKey); key != "" {
		return key
	}
	p, kind, err := c.ProviderFor(m)
	if err == nil {
		if key := ExpandEnvRefs(p.APIKey); key != "" {
			return key
		}
		if envName, ok := wellKnownKeyEnv[kind]; ok {
			return os.Getenv(envName)
		}
	}
	return ""
}

// CandidateModels returns the model names tried in priority order: an explicit
// override alone, otherwise the default_models list, otherwise nothing.
func (c *Config) CandidateModels(override string) []string {
	if override != "" {
		return []string{override}
	}
	out := make([]string, 0, len(c.DefaultModels))
	seen := make(map[string]bool, len(c.DefaultModels))
	for _, name := range c.DefaultModels {
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// CommandAllowed reports whether the base command (first shell word) is on the
// allow-list, permitting execution without an interactive confirmation.
func (c *Config) CommandAllowed(command string) bool {
	base := baseCommand(command)
	if base == "" {
		return false
	}
	for _, allowed := range c.AllowedCommands {
		if allowed == base {
			return true
		}
	}
	return false
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	for name, m := range c.Models {
		if m.Provider == "" {
			return fmt.Errorf("model %q: provider is required", name)
		}
		if m.Model == "" {
			return fmt.Errorf("model %q: model id is required", name)
		}
		if _, ok := c.Providers[m.Provider]; !ok {
			return fmt.Errorf("model %q references unknown provider %q", name, m.Provider)
		}
	}
	for _, name := range c.DefaultModels {
		if !c.HasModel(name) {
			return fmt.Errorf("default_models references unknown model %q", name)
		}
	}
	if c.Context.MaxCommands < 0 || c.Context.MaxHistory < 0 {
		return fmt.Errorf("context caps must not be negative")
	}
	if c.Execution.TimeoutSeconds < 0 {
		return fmt.Errorf("execution timeout must not be negative")
	}
	return nil
}

// ExpandEnvRefs resolves ${VAR_NAME} references against the process
// environment. Unset variables expand to the empty string.
func ExpandEnvRefs(s string) string {
	if s == "" {
		return s
	}
	return envVarRef.ReplaceAllStringFunc(s, func(ref string) string {
		name := ref[2 : len(ref)-1]
		return os.Getenv(name)
	})
}

// baseCommand extracts the first whitespace-delimited word of a command line.
// Quoting is not interpreted; the allow-list names plain executables.
func baseCommand(command string) string {
	start := 0
	for start < len(command) && (command[start] == ' ' || command[start] == '\t') {
		start++
	}
	end := start
	for end < len(command) && command[end] != ' ' && command[end] != '\t' {
		end++
	}
	return command[start:end]
}
