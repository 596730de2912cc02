package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/okzu/shellm/internal/domain"
	"github.com/okzu/shellm/internal/ports"
)

// ErrBlocked marks a suggestion the guardrail refused to execute.
var ErrBlocked = errors.New("command blocked by guardrail")

// execResultLimit caps how much captured output is fed back into the
// conversation between interactive rounds.
const execResultLimit = 2000

// AskService turns natural-language requests into confirmed, executed shell
// commands. It owns model selection and the per-round policy (guardrail
// gating, confirmation, history, clipboard); the per-request protocol lives
// in Orchestrator.
type AskService struct {
	Config    domain.Config
	Factory   ports.ProviderFactory
	Collector ports.ContextCollector
	Guardrail ports.Guardrail
	Executor  ports.CommandExecutor
	Prompter  ports.ConfirmationPrompter
	History   ports.HistoryStore
	Clipboard ports.Clipboard
	Logger    ports.Logger
}

// Options carries the per-invocation flags.
type Options struct {
	Model       string
	AutoRun     bool
	PreviewOnly bool
	NoContext   bool
	Copy        bool
	Timeout     time.Duration
}

// Result is one resolved round, ready for presentation and execution gating.
type Result struct {
	Request         string
	ModelName       string
	Suggestion      domain.CommandSuggestion
	Assessment      domain.RiskAssessment
	ContextGathered bool
	ContextFellBack bool
	AllowListed     bool
}

// Session is one interactive exchange: a selected provider plus the running
// conversation shared by follow-up rounds. Not safe for concurrent use.
type Session struct {
	svc          *AskService
	opts         Options
	modelName    string
	model        domain.ModelConfig
	provider     ports.Provider
	conversation *domain.Conversation
}

// NewSession selects a model and constructs its provider. Without an explicit
// override the default_models list is tried in order and the first entry
// whose provider constructs wins; skipped candidates are reported together
// when none works. After this point there is no provider fallback: runtime
// failures belong to the selected model.
func (s *AskService) NewSession(ctx context.Context, opts Options) (*Session, error) {
	if s.Factory == nil || s.Executor == nil || s.Logger == nil {
		return nil, errors.New("services.AskService dependencies not satisfied")
	}

	candidates := s.Config.CandidateModels(opts.Model)
	if len(candidates) == 0 {
		return nil, errors.New("no models configured: set default_models or pass --model")
	}

	var errs []error
	for _, name := range candidates {
		model, ok := s.Config.ModelByName(name)
		if !ok {
			errs = append(errs, fmt.Errorf("model %q not configured", name))
			continue
		}
		provider, err := s.Factory.ForModel(ctx, s.Config, name, model)
		if err != nil {
			s.Logger.Debug("model unavailable", map[string]interface{}{
				"model": name,
				"error": err.Error(),
			})
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		s.Logger.Info("model selected", map[string]interface{}{
			"model":    name,
			"provider": provider.Name(),
			"model_id": provider.ModelID(),
		})
		return &Session{
			svc:          s,
			opts:         opts,
			modelName:    name,
			model:        model,
			provider:     provider,
			conversation: &domain.Conversation{},
		}, nil
	}
	return nil, fmt.Errorf("no usable model: %w", errors.Join(errs...))
}

// ModelName reports the selected model's configured name.
func (sess *Session) ModelName() string {
	return sess.modelName
}

// Interactive reports whether follow-up rounds and confirmations are
// possible.
func (sess *Session) Interactive() bool {
	return sess.svc.Prompter != nil && sess.svc.Prompter.Interactive()
}

// FollowUp reads the next request in an interactive session. Empty means the
// user is done.
func (sess *Session) FollowUp() (string, error) {
	if sess.svc.Prompter == nil {
		return "", nil
	}
	return sess.svc.Prompter.FollowUp()
}

// Ask resolves one request into a risk-assessed suggestion. A transient
// provider failure is retried once for the whole resolution; correction
// retries inside the orchestrator are independent of this.
func (sess *Session) Ask(ctx context.Context, request string) (Result, error) {
	out, err := sess.resolve(ctx, request)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Request:         request,
		ModelName:       sess.modelName,
		Suggestion:      out.Suggestion,
		ContextGathered: out.ContextGathered,
		ContextFellBack: out.ContextFellBack,
		Assessment:      domain.RiskAssessment{Level: domain.RiskSafe, Action: domain.ActionAllow},
	}

	if sess.svc.Config.Security.Enabled && sess.svc.Guardrail != nil {
		assessment, err := sess.svc.Guardrail.Evaluate(out.Suggestion.Command)
		if err != nil {
			return res, fmt.Errorf("guardrail: %w", err)
		}
		res.Assessment = assessment
	}
	res.AllowListed = sess.svc.Config.CommandAllowed(out.Suggestion.Command)

	if sess.opts.Copy && sess.svc.Clipboard != nil && sess.svc.Clipboard.Enabled() {
		if err := sess.svc.Clipboard.Copy(out.Suggestion.Command); err != nil {
			sess.svc.Logger.Warn("clipboard copy failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return res, nil
}

// Execute gates and runs an accepted suggestion. A nil result with nil error
// means the round ended without execution (preview, declined confirmation, or
// no way to confirm). Every round is recorded in history either way.
func (sess *Session) Execute(ctx context.Context, res Result) (*domain.ExecutionResult, error) {
	run, err := sess.shouldExecute(res)
	if err != nil || !run {
		sess.saveHistory(res, nil)
		return nil, err
	}

	timeout := sess.opts.Timeout
	if timeout <= 0 {
		timeout = time.Duration(sess.svc.Config.Execution.TimeoutSeconds) * time.Second
	}
	result, err := sess.svc.Executor.Execute(ctx, res.Suggestion.Command, timeout)
	sess.saveHistory(res, &result)
	if err != nil {
		return &result, err
	}
	if result.Ran {
		sess.conversation.Append(domain.RoleSystem, execResultText(res.Suggestion.Command, result))
	}
	return &result, nil
}

func (sess *Session) resolve(ctx context.Context, request string) (Outcome, error) {
	out, err := sess.resolveOnce(ctx, request)
	if err != nil && domain.IsTransient(err) && ctx.Err() == nil {
		sess.svc.Logger.Warn("transient provider failure, retrying once", map[string]interface{}{
			"error": err.Error(),
		})
		return sess.resolveOnce(ctx, request)
	}
	return out, err
}

func (sess *Session) resolveOnce(ctx context.Context, request string) (Outcome, error) {
	orch := &Orchestrator{
		Provider:       sess.provider,
		Collector:      sess.svc.Collector,
		Conversation:   sess.conversation,
		Logger:         sess.svc.Logger,
		Instructions:   sess.model.Instructions,
		ContextRequest: sess.contextRequest(),
		SkipContext:    sess.opts.NoContext,
	}
	return orch.Resolve(ctx, request)
}

func (sess *Session) contextRequest() domain.ContextRequest {
	return domain.ContextRequest{
		IncludeCommands: sess.model.IncludePathCommands,
		IncludeHistory:  sess.model.IncludeHistoryContext,
		HistorySize:     sess.model.HistoryContextSize,
		MaxCommands:     sess.svc.Config.Context.MaxCommands,
		MaxHistory:      sess.svc.Config.Context.MaxHistory,
	}
}

// shouldExecute applies the gating policy: a guardrail block always wins,
// preview modes never run, the allow-list and --yes run without asking, and
// everything else needs an interactive confirmation.
func (sess *Session) shouldExecute(res Result) (bool, error) {
	switch {
	case res.Assessment.Action == domain.ActionBlock:
		return false, fmt.Errorf("%w: %s", ErrBlocked, strings.Join(res.Assessment.Reasons, "; "))
	case sess.opts.PreviewOnly:
		return false, nil
	case res.Assessment.Action == domain.ActionPreviewOnly:
		return false, nil
	case res.AllowListed:
		return true, nil
	case sess.opts.AutoRun:
		return true, nil
	}
	if !sess.Interactive() {
		sess.svc.Logger.Info("not executing: no interactive confirmation available", nil)
		return false, nil
	}
	return sess.svc.Prompter.Confirm(res.Assessment.Action, res.Assessment.Level, res.Suggestion.Command, res.Assessment.Reasons)
}

func (sess *Session) saveHistory(res Result, exec *domain.ExecutionResult) {
	if !sess.svc.Config.History.Enabled || sess.svc.History == nil {
		return
	}
	rec := domain.HistoryRecord{
		Request:     res.Request,
		Command:     res.Suggestion.Command,
		Explanation: res.Suggestion.Explanation,
		Model:       sess.modelName,
		RiskLevel:   res.Assessment.Level,
		ExitCode:    domain.ExitCodeUnknown,
	}
	if exec != nil {
		rec.Executed = exec.Ran
		rec.ExitCode = exec.ExitCode
		rec.TimedOut = exec.TimedOut
		rec.DurationMS = exec.DurationMS
	}
	if err := sess.svc.History.Save(rec); err != nil {
		sess.svc.Logger.Warn("history save failed", map[string]interface{}{"error": err.Error()})
	}
}

// execResultText renders an execution outcome as the feedback turn for
// follow-up rounds.
func execResultText(command string, result domain.ExecutionResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "$ %s\n", command)
	if out := strings.TrimSpace(result.Stdout); out != "" {
		b.WriteString(truncateOutput(out))
		b.WriteByte('\n')
	}
	if errOut := strings.TrimSpace(result.Stderr); errOut != "" {
		b.WriteString(truncateOutput(errOut))
		b.WriteByte('\n')
	}
	if result.TimedOut {
		b.WriteString("(timed out)")
	} else {
		fmt.Fprintf(&b, "(exit %d)", result.ExitCode)
	}
	return b.String()
}

func truncateOutput(s string) string {
	if len(s) <= execResultLimit {
		return s
	}
	return s[:execResultLimit] + "\n... (truncated)"
}
