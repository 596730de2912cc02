package domain_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/okzu/shellm/internal/domain"
)

func baseConfig() domain.Config {
	return domain.Config{
		DefaultModels: []string{"gpt", "claude"},
		Models: map[string]domain.ModelConfig{
			"gpt":    {Provider: "openai", Model: "gpt-4o-mini"},
			"claude": {Provider: "anthropic", Model: "claude-3-5-haiku-latest"},
			"local":  {Provider: "ollama", Model: "llama3.2"},
		},
		Providers: map[string]domain.ProviderConfig{
			"openai":    {APIKey: "${TEST_OPENAI_KEY}"},
			"anthropic": {},
			"ollama":    {BaseURL: "http://localhost:11434"},
		},
		AllowedCommands: []string{"ls", "pwd", "date"},
	}
}

func TestCandidateModels(t *testing.T) {
	cfg := baseConfig()

	tests := []struct {
		name     string
		override string
		want     []string
	}{
		{name: "override wins", override: "local", want: []string{"local"}},
		{name: "defaults in order", override: "", want: []string{"gpt", "claude"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cfg.CandidateModels(tt.override)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("CandidateModels() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCandidateModelsDeduplicates(t *testing.T) {
	cfg := baseConfig()
	cfg.DefaultModels = []string{"gpt", "gpt", "claude", "gpt"}
	got := cfg.CandidateModels("")
	want := []string{"gpt", "claude"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CandidateModels() mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveAPIKeyChain(t *testing.T) {
	cfg := baseConfig()

	t.Run("model key wins", func(t *testing.T) {
		m := domain.ModelConfig{Provider: "openai", Model: "x", APIKey: "direct"}
		if got := cfg.ResolveAPIKey(m); got != "direct" {
			t.Errorf("got %q, want direct", got)
		}
	})

	t.Run("provider key via env ref", func(t *testing.T) {
		t.Setenv("TEST_OPENAI_KEY", "from-provider")
		m := cfg.Models["gpt"]
		if got := cfg.ResolveAPIKey(m); got != "from-provider" {
			t.Errorf("got %q, want from-provider", got)
		}
	})

	t.Run("well-known env fallback", func(t *testing.T) {
		t.Setenv("ANTHROPIC_API_KEY", "from-env")
		m := cfg.Models["claude"]
		if got := cfg.ResolveAPIKey(m); got != "from-env" {
			t.Errorf("got %q, want from-env", got)
		}
	})

	t.Run("empty when nothing set", func(t *testing.T) {
		t.Setenv("TEST_OPENAI_KEY", "")
		t.Setenv("OPENAI_API_KEY", "")
		m := cfg.Models["gpt"]
		if got := cfg.ResolveAPIKey(m); got != "" {
			t.Errorf("got %q, want empty", got)
		}
	})
}

func TestExpandEnvRefs(t *testing.T) {
	t.Setenv("SHELLM_TEST_VAR", "value")

	tests := []struct {
		in   string
		want string
	}{
		{in: "${SHELLM_TEST_VAR}", want: "value"},
		{in: "prefix-${SHELLM_TEST_VAR}", want: "prefix-value"},
		{in: "$SHELLM_TEST_VAR", want: "$SHELLM_TEST_VAR"},
		{in: "${UNSET_SHELLM_VAR}", want: ""},
		{in: "plain", want: "plain"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		if got := domain.ExpandEnvRefs(tt.in); got != tt.want {
			t.Errorf("ExpandEnvRefs(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCommandAllowed(t *testing.T) {
	cfg := baseConfig()

	tests := []struct {
		command string
		want    bool
	}{
		{command: "ls -la", want: true},
		{command: "  pwd", want: true},
		{command: "date", want: true},
		{command: "rm -rf /", want: false},
		{command: "", want: false},
	}

	for _, tt := range tests {
		if got := cfg.CommandAllowed(tt.command); got != tt.want {
			t.Errorf("CommandAllowed(%q) = %v, want %v", tt.command, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		cfg := baseConfig()
		if err := cfg.Validate(); err != nil {
			t.Fatalf("Validate() = %v, want nil", err)
		}
	})

	t.Run("model without provider", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Models["broken"] = domain.ModelConfig{Model: "x"}
		if err := cfg.Validate(); err == nil {
			t.Fatal("Validate() = nil, want error")
		}
	})

	t.Run("model references unknown provider", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Models["broken"] = domain.ModelConfig{Provider: "nope", Model: "x"}
		if err := cfg.Validate(); err == nil {
			t.Fatal("Validate() = nil, want error")
		}
	})

	t.Run("default references unknown model", func(t *testing.T) {
		cfg := baseConfig()
		cfg.DefaultModels = []string{"missing"}
		if err := cfg.Validate(); err == nil {
			t.Fatal("Validate() = nil, want error")
		}
	})
}
