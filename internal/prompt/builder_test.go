package prompt_test

import (
	"strings"
	"testing"

	"github.com/okzu/shellm/internal/domain"
	"github.com/okzu/shellm/internal/prompt"
)

func sampleInput() prompt.Input {
	return prompt.Input{
		Instructions: "Prefer GNU coreutils flags.",
		Bundle: &domain.ContextBundle{
			Commands:   []string{"git", "grep", "ls"},
			History:    []string{"git status", "git log --oneline"},
			WorkingDir: "/home/dev/project",
		},
		Turns: []domain.Turn{
			{Role: domain.RoleUser, Text: "show me the biggest files"},
			{Role: domain.RoleAssistant, Text: `{"command": "du -ah | sort -rh | head", "explanation": "largest files", "needs_more_context": false}`},
			{Role: domain.RoleSystem, Text: "$ du -ah | sort -rh | head\n12M ./bin"},
		},
		Request: "now only in the src directory",
	}
}

func TestGenerationDeterministic(t *testing.T) {
	first := prompt.Generation(sampleInput())
	second := prompt.Generation(sampleInput())
	if first != second {
		t.Fatalf("identical inputs produced different prompts:\n%q\n%q", first, second)
	}
}

func TestGenerationSectionOrder(t *testing.T) {
	out := prompt.Generation(sampleInput())

	tags := []string{
		"<system>",
		"<instructions>",
		"<available_commands>",
		"<command_history>",
		"<working_directory>",
		"<user>",
		"<assistant>",
		"<exec_result>",
	}
	last := -1
	for _, tag := range tags {
		idx := strings.Index(out, tag)
		if idx < 0 {
			t.Fatalf("prompt missing %s section:\n%s", tag, out)
		}
		if idx < last {
			t.Fatalf("section %s out of order in:\n%s", tag, out)
		}
		last = idx
	}

	if !strings.Contains(out, "git, grep, ls") {
		t.Errorf("available commands not comma-joined:\n%s", out)
	}
	if !strings.Contains(out, "git status\ngit log --oneline") {
		t.Errorf("history not newline-joined:\n%s", out)
	}
	if !strings.HasSuffix(out, "<user>\nnow only in the src directory\n</user>") {
		t.Errorf("prompt does not end with the current request:\n%s", out)
	}
}

func TestGenerationOmitsEmptySections(t *testing.T) {
	out := prompt.Generation(prompt.Input{Request: "list files"})

	for _, tag := range []string{"<instructions>", "<available_commands>", "<command_history>", "<working_directory>", "<exec_result>"} {
		if strings.Contains(out, tag) {
			t.Errorf("unexpected %s section for empty input:\n%s", tag, out)
		}
	}
	if !strings.Contains(out, "<system>") || !strings.Contains(out, "<user>\nlist files\n</user>") {
		t.Errorf("minimal prompt missing required sections:\n%s", out)
	}
}

func TestDecisionIgnoresBundle(t *testing.T) {
	out := prompt.Decision(sampleInput())

	if !strings.Contains(out, "<task>") {
		t.Fatalf("decision prompt missing task section:\n%s", out)
	}
	for _, tag := range []string{"<available_commands>", "<command_history>", "<working_directory>"} {
		if strings.Contains(out, tag) {
			t.Errorf("decision prompt must not carry %s:\n%s", tag, out)
		}
	}
	if !strings.HasSuffix(out, "</task>") {
		t.Errorf("decision prompt does not end with the task section:\n%s", out)
	}
}

func TestSystemFramingStatesContract(t *testing.T) {
	out := prompt.Generation(prompt.Input{Request: "x"})
	for _, want := range []string{`"command"`, `"explanation"`, `"needs_more_context"`, "single JSON object"} {
		if !strings.Contains(out, want) {
			t.Errorf("system framing missing %s:\n%s", want, out)
		}
	}
}
