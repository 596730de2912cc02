// Package ports defines the interfaces between the application core and its
// adapters. The services layer depends only on these contracts; the concrete
// implementations live under internal/infrastructure and are wired together
// by internal/app.
package ports

import (
	"context"
	"time"

	"github.com/okzu/shellm/internal/domain"
)

// ConfigLoader loads the resolved configuration from persistent storage.
// Implementations read ~/.shellm/config.yaml and expand ${VAR} references
// before returning; the result is immutable for the process lifetime.
type ConfigLoader interface {
	Load(context.Context) (domain.Config, error)
}

// ContextCollector gathers the bounded environment bundle (PATH executables,
// shell history tail, working directory). Read-only; best-effort per section.
type ContextCollector interface {
	Collect(context.Context, domain.ContextRequest) (domain.ContextBundle, error)
}

// GenerateRequest carries one prompt to a provider. The model id and
// connection parameters were bound when the provider was constructed.
type GenerateRequest struct {
	Prompt  string
	Timeout time.Duration
}

// GenerateResponse carries the raw text reply. Interpretation belongs to the
// response parser, never to the adapter.
type GenerateResponse struct {
	Text string
}

// Provider sends a prompt to one model backend and returns its raw text.
// Implementations honor the timeout by failing with a domain.TimeoutError
// rather than blocking, and never retry on their own.
type Provider interface {
	Name() string
	ModelID() string
	Generate(context.Context, GenerateRequest) (GenerateResponse, error)
}

// ProviderFactory builds the provider serving a configured model, resolving
// credentials and base URLs from the provider entry the model references.
type ProviderFactory interface {
	ForModel(ctx context.Context, cfg domain.Config, name string, model domain.ModelConfig) (Provider, error)
}

// Guardrail evaluates a command against the security rules.
type Guardrail interface {
	Evaluate(command string) (domain.RiskAssessment, error)
}

// CommandExecutor runs an approved command through the host shell. A zero
// timeout means the executor's configured default.
type CommandExecutor interface {
	Execute(ctx context.Context, command string, timeout time.Duration) (domain.ExecutionResult, error)
}

// ConfirmationPrompter gates execution on user approval. Interactive reports
// whether a human can actually answer; callers must not execute when it is
// false unless auto-run was explicitly requested.
type ConfirmationPrompter interface {
	Confirm(action domain.GuardrailAction, level domain.RiskLevel, command string, reasons []string) (bool, error)
	FollowUp() (string, error)
	Interactive() bool
}

// HistoryStore persists resolved requests for the history subcommand.
type HistoryStore interface {
	Save(domain.HistoryRecord) error
	Records(limit int, search string) ([]domain.HistoryRecord, error)
	Clear() error
	ExportJSON(dest string) error
}

// CacheStore persists provider replies keyed by prompt digest.
type CacheStore interface {
	Get(key string) (domain.CacheEntry, bool)
	Put(domain.CacheEntry) error
	Clear() error
	Len() int
}

// Clipboard copies generated commands for the --copy flag.
type Clipboard interface {
	Copy(text string) error
	Enabled() bool
}

// Logger is the structured logging seam for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
