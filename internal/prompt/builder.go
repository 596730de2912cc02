// Package prompt renders the structured text sent to model backends and
// parses their replies back into typed suggestions. Rendering is
// deterministic: identical inputs produce byte-identical prompts, which the
// response cache and the test fixtures rely on.
package prompt

import (
	"strings"

	"github.com/okzu/shellm/internal/domain"
)

// systemPrompt is the fixed framing carried by every exchange. The JSON
// contract is spelled out in the prompt text itself because not every backend
// supports schema enforcement; behavior must be uniform across providers.
const systemPrompt = `You are shellm, a careful assistant that turns natural-language requests into shell commands.

You must respond with a single JSON object and nothing else, using exactly these fields:
{"command": string, "explanation": string, "needs_more_context": boolean}

- "command": the exact shell command to run. Prefer portable POSIX forms.
- "explanation": one short sentence describing what the command does.
- "needs_more_context": true only when information about the local environment is required to answer well.

Do not wrap the object in markdown fences. Do not emit more than one object.`

// decisionTask is appended in the context-decision phase instead of asking
// for a command. Only the boolean is read from the reply.
const decisionTask = `Decide whether you need local environment context (available commands, recent shell history, working directory) before suggesting a command for the request above.
Respond with the standard JSON object. Set "needs_more_context" accordingly; "command" may be empty for this answer.`

// CorrectionMessage is appended as a user turn after an invalid reply, up to
// the orchestrator's retry budget.
const CorrectionMessage = `Your previous output was not a single valid JSON object. Resend your answer strictly as one JSON object with exactly the fields {"command": string, "explanation": string, "needs_more_context": boolean} and no surrounding text.`

// Input gathers everything a prompt is rendered from. Bundle is nil until
// context has been gathered; Turns carries the running conversation.
type Input struct {
	Instructions string
	Bundle       *domain.ContextBundle
	Turns        []domain.Turn
	Request      string
}

// Decision renders the minimal first-phase prompt asking whether environment
// context is needed. No bundle is ever attached here.
func Decision(in Input) string {
	var b strings.Builder
	writeSection(&b, "system", systemPrompt)
	if in.Instructions != "" {
		writeSection(&b, "instructions", in.Instructions)
	}
	writeTurns(&b, in.Turns)
	if in.Request != "" {
		writeSection(&b, "user", in.Request)
	}
	writeSection(&b, "task", decisionTask)
	return strings.TrimSuffix(b.String(), "\n\n")
}

// Generation renders the full second-phase prompt demanding a command
// suggestion, including the context bundle when one was gathered.
func Generation(in Input) string {
	var b strings.Builder
	writeSection(&b, "system", systemPrompt)
	if in.Instructions != "" {
		writeSection(&b, "instructions", in.Instructions)
	}
	if in.Bundle != nil {
		writeBundle(&b, *in.Bundle)
	}
	writeTurns(&b, in.Turns)
	if in.Request != "" {
		writeSection(&b, "user", in.Request)
	}
	return strings.TrimSuffix(b.String(), "\n\n")
}

func writeBundle(b *strings.Builder, bundle domain.ContextBundle) {
	if len(bundle.Commands) > 0 {
		writeSection(b, "available_commands", strings.Join(bundle.Commands, ", "))
	}
	if len(bundle.History) > 0 {
		writeSection(b, "command_history", strings.Join(bundle.History, "\n"))
	}
	if bundle.WorkingDir != "" {
		writeSection(b, "working_directory", bundle.WorkingDir)
	}
}

// writeTurns renders the running conversation. System turns carry execution
// results fed back between interactive rounds and render as <exec_result>.
func writeTurns(b *strings.Builder, turns []domain.Turn) {
	for _, turn := range turns {
		switch turn.Role {
		case domain.RoleAssistant:
			writeSection(b, "assistant", turn.Text)
		case domain.RoleSystem:
			writeSection(b, "exec_result", turn.Text)
		default:
			writeSection(b, "user", turn.Text)
		}
	}
}

func writeSection(b *strings.Builder, tag, body string) {
	b.WriteByte('<')
	b.WriteString(tag)
	b.WriteString(">\n")
	b.WriteString(body)
	b.WriteString("\n</")
	b.WriteString(tag)
	b.WriteString(">\n\n")
}
