package prompt

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/okzu/shellm/internal/domain"
)

// payload mirrors the wire contract with pointer fields so that a missing
// field is distinguishable from a zero value.
type payload struct {
	Command          *string `json:"command"`
	Explanation      *string `json:"explanation"`
	NeedsMoreContext *bool   `json:"needs_more_context"`
}

// ParseSuggestion parses a model reply into a command suggestion. The reply
// must be a single JSON object; surrounding whitespace and markdown fences
// are tolerated, anything else is a *domain.ParseError.
func ParseSuggestion(raw string) (domain.CommandSuggestion, error) {
	p, err := decodePayload(raw)
	if err != nil {
		return domain.CommandSuggestion{}, err
	}
	if p.Command == nil {
		return domain.CommandSuggestion{}, parseErr(raw, `missing "command" field`)
	}
	if strings.TrimSpace(*p.Command) == "" {
		return domain.CommandSuggestion{}, parseErr(raw, `empty "command" field`)
	}
	return domain.CommandSuggestion{
		Command:          *p.Command,
		Explanation:      explanationOf(p),
		NeedsMoreContext: *p.NeedsMoreContext,
	}, nil
}

// ParseDecision parses the context-decision reply. Only the boolean is
// load-bearing here; the command field may be absent or empty.
func ParseDecision(raw string) (bool, error) {
	p, err := decodePayload(raw)
	if err != nil {
		return false, err
	}
	return *p.NeedsMoreContext, nil
}

// decodePayload handles the shared strictness rules: exactly one JSON
// object, no trailing data, and a present boolean needs_more_context.
func decodePayload(raw string) (payload, error) {
	cleaned := stripFences(raw)
	if cleaned == "" {
		return payload{}, parseErr(raw, "empty response")
	}

	dec := json.NewDecoder(strings.NewReader(cleaned))
	var p payload
	if err := dec.Decode(&p); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "needs_more_context" {
			return payload{}, parseErr(raw, `"needs_more_context" is not a boolean`)
		}
		return payload{}, parseErr(raw, fmt.Sprintf("not a valid JSON object: %v", err))
	}
	if tok, err := dec.Token(); err != io.EOF {
		if delim, ok := tok.(json.Delim); ok && delim == '{' {
			return payload{}, parseErr(raw, "multiple JSON objects in response")
		}
		return payload{}, parseErr(raw, "trailing data after JSON object")
	}
	if p.NeedsMoreContext == nil {
		return payload{}, parseErr(raw, `missing "needs_more_context" field`)
	}
	return p, nil
}

// stripFences removes a surrounding markdown code fence, with or without a
// language tag, plus outer whitespace.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		first := strings.TrimSpace(s[:idx])
		if first == "" || isFenceTag(first) {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func isFenceTag(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

func explanationOf(p payload) string {
	if p.Explanation == nil {
		return ""
	}
	return *p.Explanation
}

func parseErr(raw, reason string) *domain.ParseError {
	return &domain.ParseError{Reason: reason, Raw: raw}
}
