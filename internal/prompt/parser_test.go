package prompt_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/okzu/shellm/internal/domain"
	"github.com/okzu/shellm/internal/prompt"
)

func TestParseSuggestion(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    domain.CommandSuggestion
		wantErr string
	}{
		{
			name: "plain object",
			raw:  `{"command": "ls -la", "explanation": "list all files", "needs_more_context": false}`,
			want: domain.CommandSuggestion{Command: "ls -la", Explanation: "list all files"},
		},
		{
			name: "surrounding whitespace",
			raw:  "\n\n  {\"command\": \"pwd\", \"explanation\": \"print dir\", \"needs_more_context\": false}  \n",
			want: domain.CommandSuggestion{Command: "pwd", Explanation: "print dir"},
		},
		{
			name: "json fence",
			raw:  "```json\n{\"command\": \"df -h\", \"explanation\": \"disk usage\", \"needs_more_context\": false}\n```",
			want: domain.CommandSuggestion{Command: "df -h", Explanation: "disk usage"},
		},
		{
			name: "bare fence",
			raw:  "```\n{\"command\": \"uptime\", \"explanation\": \"\", \"needs_more_context\": true}\n```",
			want: domain.CommandSuggestion{Command: "uptime", NeedsMoreContext: true},
		},
		{
			name: "missing explanation tolerated",
			raw:  `{"command": "date", "needs_more_context": false}`,
			want: domain.CommandSuggestion{Command: "date"},
		},
		{
			name:    "empty response",
			raw:     "   \n ",
			wantErr: "empty response",
		},
		{
			name:    "prose instead of json",
			raw:     "You should probably run ls here.",
			wantErr: "not a valid JSON object",
		},
		{
			name:    "missing command",
			raw:     `{"explanation": "no idea", "needs_more_context": false}`,
			wantErr: `missing "command"`,
		},
		{
			name:    "empty command",
			raw:     `{"command": "  ", "explanation": "x", "needs_more_context": false}`,
			wantErr: `empty "command"`,
		},
		{
			name:    "missing needs_more_context",
			raw:     `{"command": "ls", "explanation": "x"}`,
			wantErr: `missing "needs_more_context"`,
		},
		{
			name:    "string needs_more_context",
			raw:     `{"command": "ls", "explanation": "x", "needs_more_context": "yes"}`,
			wantErr: "not a boolean",
		},
		{
			name:    "two objects",
			raw:     `{"command": "ls", "explanation": "a", "needs_more_context": false}{"command": "pwd", "explanation": "b", "needs_more_context": false}`,
			wantErr: "multiple JSON objects",
		},
		{
			name:    "trailing prose",
			raw:     `{"command": "ls", "explanation": "a", "needs_more_context": false} hope that helps!`,
			wantErr: "trailing data",
		},
		{
			name:    "array wrapper",
			raw:     `[{"command": "ls", "explanation": "a", "needs_more_context": false}]`,
			wantErr: "not a valid JSON object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := prompt.ParseSuggestion(tt.raw)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got suggestion %+v", tt.wantErr, got)
				}
				var pe *domain.ParseError
				if !errors.As(err, &pe) {
					t.Fatalf("expected *domain.ParseError, got %T: %v", err, err)
				}
				if !strings.Contains(pe.Reason, tt.wantErr) {
					t.Fatalf("reason %q does not contain %q", pe.Reason, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("suggestion mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseDecision(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    bool
		wantErr bool
	}{
		{
			name: "needs context",
			raw:  `{"command": "", "explanation": "need to see installed tools", "needs_more_context": true}`,
			want: true,
		},
		{
			name: "no context needed",
			raw:  `{"command": "", "explanation": "", "needs_more_context": false}`,
		},
		{
			name: "command field absent is fine",
			raw:  `{"explanation": "", "needs_more_context": true}`,
			want: true,
		},
		{
			name:    "boolean missing",
			raw:     `{"command": "", "explanation": ""}`,
			wantErr: true,
		},
		{
			name:    "prose",
			raw:     "yes, I need more context",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := prompt.ParseDecision(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("decision = %v, want %v", got, tt.want)
			}
		})
	}
}
