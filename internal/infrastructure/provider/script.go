package provider

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/okzu/shellm/internal/ports"
)

// Script is the offline backend behind the "test" provider kind. It answers
// the wire contract deterministically from keyword rules, which keeps the
// whole pipeline runnable without credentials or network.
type Script struct {
	name  string
	model string
}

func NewScript(name, model string) *Script {
	return &Script{name: name, model: model}
}

func (p *Script) Name() string    { return p.name }
func (p *Script) ModelID() string { return p.model }

func (p *Script) Generate(_ context.Context, req ports.GenerateRequest) (ports.GenerateResponse, error) {
	if strings.Contains(req.Prompt, "<task>") {
		return jsonReply("", "offline backend never requests environment context", false)
	}
	command, explanation := guessCommand(req.Prompt)
	return jsonReply(command, explanation, false)
}

func guessCommand(prompt string) (string, string) {
	prompt = strings.ToLower(prompt)
	switch {
	case strings.Contains(prompt, "docker"):
		return "docker ps", "list running containers"
	case strings.Contains(prompt, "kubernetes") || strings.Contains(prompt, "pod"):
		return "kubectl get pods", "list pods in the current namespace"
	case strings.Contains(prompt, "git"):
		return "git status", "show the working tree status"
	case strings.Contains(prompt, "disk") || strings.Contains(prompt, "space"):
		return "df -h", "show free disk space"
	case strings.Contains(prompt, "process"):
		return "ps aux", "list running processes"
	case strings.Contains(prompt, "list") && strings.Contains(prompt, "file"):
		return "ls -la", "list files including hidden ones"
	default:
		return "pwd", "print the working directory"
	}
}

func jsonReply(command, explanation string, needsContext bool) (ports.GenerateResponse, error) {
	raw, err := json.Marshal(map[string]any{
		"command":            command,
		"explanation":        explanation,
		"needs_more_context": needsContext,
	})
	if err != nil {
		return ports.GenerateResponse{}, err
	}
	return ports.GenerateResponse{Text: string(raw)}, nil
}

var _ ports.Provider = (*Script)(nil)
