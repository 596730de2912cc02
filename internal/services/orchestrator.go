package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/okzu/shellm/internal/domain"
	"github.com/okzu/shellm/internal/ports"
	"github.com/okzu/shellm/internal/prompt"
)

// Retry budgets. The decision phase gets one correction attempt before the
// pipeline falls back to running without context; the generation phase gets
// two before failing with MalformedResponseError.
const (
	decisionRetries   = 1
	generationRetries = 2
)

// resolveState names where a request is in its lifecycle, for debug logging.
type resolveState string

const (
	stateStart      resolveState = "start"
	stateDeciding   resolveState = "deciding_context"
	stateGathering  resolveState = "gathering_context"
	stateGenerating resolveState = "generating_suggestion"
	stateValidating resolveState = "validating"
	stateReady      resolveState = "ready"
	stateFailed     resolveState = "failed"
)

// Orchestrator resolves one natural-language request into a validated
// command suggestion: an optional context-need decision, at most one
// gathering pass, then bounded generate/validate rounds. One instance serves
// one request; construct a fresh one per round.
type Orchestrator struct {
	Provider     ports.Provider
	Collector    ports.ContextCollector
	Conversation *domain.Conversation
	Logger       ports.Logger

	// Instructions and ContextRequest come from the selected model's config.
	Instructions   string
	ContextRequest domain.ContextRequest

	// SkipContext bypasses the decision phase entirely (--no-context).
	SkipContext bool
}

// Outcome is a successfully resolved request.
type Outcome struct {
	Suggestion      domain.CommandSuggestion
	Bundle          domain.ContextBundle
	ContextGathered bool
	// ContextFellBack is set when the decision reply stayed unreadable after
	// its correction retry and the pipeline continued without context.
	ContextFellBack bool
	RawReply        string
	Attempts        int
}

// Resolve runs the full pipeline up to an accepted suggestion. The session
// conversation is only appended to on success, so a failed or retried round
// leaves no partial turns behind.
func (o *Orchestrator) Resolve(ctx context.Context, request string) (Outcome, error) {
	if o.Provider == nil || o.Conversation == nil || o.Logger == nil {
		return Outcome{}, errors.New("services.Orchestrator dependencies not satisfied")
	}
	if strings.TrimSpace(request) == "" {
		return Outcome{}, errors.New("empty request")
	}

	o.logState(stateStart)
	var out Outcome

	needsContext, fellBack, err := o.decideContext(ctx, request)
	if err != nil {
		o.logState(stateFailed)
		return Outcome{}, err
	}
	out.ContextFellBack = fellBack

	if needsContext {
		o.logState(stateGathering)
		bundle, err := o.Collector.Collect(ctx, o.ContextRequest)
		if err != nil {
			o.logState(stateFailed)
			return Outcome{}, fmt.Errorf("gather context: %w", err)
		}
		out.Bundle = bundle
		out.ContextGathered = true
	}

	suggestion, raw, attempts, err := o.generate(ctx, request, out)
	if err != nil {
		o.logState(stateFailed)
		return Outcome{}, err
	}
	out.Suggestion = suggestion
	out.RawReply = raw
	out.Attempts = attempts
	o.logState(stateReady)
	return out, nil
}

// decideContext asks the model whether environment context is needed before
// generating. Malformed replies get one correction attempt; after that the
// pipeline continues without context rather than stalling, and the fallback
// is surfaced through the log and the outcome instead of being swallowed.
func (o *Orchestrator) decideContext(ctx context.Context, request string) (needs bool, fellBack bool, err error) {
	if o.SkipContext {
		return false, false, nil
	}
	if !o.ContextRequest.IncludeCommands && !o.ContextRequest.IncludeHistory {
		return false, false, nil
	}
	if o.Collector == nil {
		return false, false, nil
	}

	o.logState(stateDeciding)
	turns := o.Conversation.Turns()
	var lastRaw string
	for attempt := 0; attempt <= decisionRetries; attempt++ {
		in := prompt.Input{Instructions: o.Instructions, Turns: turns, Request: request}
		resp, err := o.Provider.Generate(ctx, ports.GenerateRequest{Prompt: prompt.Decision(in)})
		if err != nil {
			return false, false, fmt.Errorf("context decision: %w", err)
		}
		needs, perr := prompt.ParseDecision(resp.Text)
		if perr == nil {
			return needs, false, nil
		}
		lastRaw = resp.Text
		o.Logger.Debug("context decision reply invalid", map[string]interface{}{
			"attempt": attempt + 1,
			"error":   perr.Error(),
		})
		// Correction turns stay local to the decision phase; they are not
		// part of the session narrative.
		turns = append(turns,
			domain.Turn{Role: domain.RoleAssistant, Text: resp.Text},
			domain.Turn{Role: domain.RoleUser, Text: prompt.CorrectionMessage},
		)
	}

	o.Logger.Warn("context decision unreadable, continuing without context", map[string]interface{}{
		"raw": truncateForLog(lastRaw),
	})
	return false, true, nil
}

// generate runs the generation/validation loop. Correction exchanges become
// part of the turn history so the model sees its own invalid reply; the
// whole round (request, corrections, accepted reply) is committed to the
// session conversation only once a suggestion is accepted.
func (o *Orchestrator) generate(ctx context.Context, request string, out Outcome) (domain.CommandSuggestion, string, int, error) {
	var bundle *domain.ContextBundle
	if out.ContextGathered && !out.Bundle.Empty() {
		b := out.Bundle
		bundle = &b
	}

	turns := append(o.Conversation.Turns(), domain.Turn{Role: domain.RoleUser, Text: request})
	pending := []domain.Turn{{Role: domain.RoleUser, Text: request}}

	var lastRaw string
	var lastParse *domain.ParseError
	attempts := 0
	for attempt := 0; attempt <= generationRetries; attempt++ {
		attempts++
		o.logState(stateGenerating)
		in := prompt.Input{Instructions: o.Instructions, Bundle: bundle, Turns: turns}
		resp, err := o.Provider.Generate(ctx, ports.GenerateRequest{Prompt: prompt.Generation(in)})
		if err != nil {
			return domain.CommandSuggestion{}, "", attempts, fmt.Errorf("generate suggestion: %w", err)
		}

		o.logState(stateValidating)
		suggestion, perr := prompt.ParseSuggestion(resp.Text)
		if perr == nil {
			pending = append(pending, domain.Turn{Role: domain.RoleAssistant, Text: resp.Text})
			for _, t := range pending {
				o.Conversation.Append(t.Role, t.Text)
			}
			return suggestion, resp.Text, attempts, nil
		}

		lastRaw = resp.Text
		var pe *domain.ParseError
		if errors.As(perr, &pe) {
			lastParse = pe
		}
		o.Logger.Warn("model reply failed validation", map[string]interface{}{
			"attempt": attempts,
			"error":   perr.Error(),
			"raw":     truncateForLog(resp.Text),
		})
		if attempt < generationRetries {
			correction := []domain.Turn{
				{Role: domain.RoleAssistant, Text: resp.Text},
				{Role: domain.RoleUser, Text: prompt.CorrectionMessage},
			}
			turns = append(turns, correction...)
			pending = append(pending, correction...)
		}
	}

	return domain.CommandSuggestion{}, lastRaw, attempts, &domain.MalformedResponseError{
		Attempts: attempts,
		LastRaw:  lastRaw,
		Last:     lastParse,
	}
}

func (o *Orchestrator) logState(s resolveState) {
	o.Logger.Debug("pipeline state", map[string]interface{}{"state": string(s)})
}

func truncateForLog(s string) string {
	const max = 200
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
