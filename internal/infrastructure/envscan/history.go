package envscan

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// zshExtended matches the metadata prefix of zsh EXTENDED_HISTORY lines,
// ": <start>:<elapsed>;command".
var zshExtended = regexp.MustCompile(`^: \d+:\d+;`)

// navCommands are interactive noise that carries no signal for suggesting
// the next command.
var navCommands = map[string]struct{}{
	"cd": {}, "ls": {}, "ll": {}, "la": {}, "pwd": {},
	"clear": {}, "exit": {}, "logout": {}, "history": {},
}

// readHistory returns the most recent limit entries from the user's shell
// history file, oldest first, deduplicated keeping the latest occurrence.
func readHistory(limit int) ([]string, error) {
	path := historyFilePath()
	if path == "" {
		return nil, errors.New("no shell history file found")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseHistory(string(data), limit), nil
}

// historyFilePath resolves the history file, preferring HISTFILE, then the
// conventional file for the login shell, then the other shell's file.
func historyFilePath() string {
	if path := os.Getenv("HISTFILE"); path != "" && fileExists(path) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	candidates := []string{".bash_history", ".zsh_history"}
	if filepath.Base(os.Getenv("SHELL")) == "zsh" {
		candidates = []string{".zsh_history", ".bash_history"}
	}
	for _, name := range candidates {
		if path := filepath.Join(home, name); fileExists(path) {
			return path
		}
	}
	return ""
}

func parseHistory(data string, limit int) []string {
	lines := strings.Split(data, "\n")

	// Walk newest to oldest so deduplication keeps the latest occurrence
	// and the cap keeps the most recent entries.
	seen := make(map[string]struct{})
	var recent []string
	for i := len(lines) - 1; i >= 0 && len(recent) < limit; i-- {
		cmd := strings.TrimSpace(zshExtended.ReplaceAllString(lines[i], ""))
		if cmd == "" {
			continue
		}
		fields := strings.Fields(cmd)
		if _, ok := navCommands[fields[0]]; ok {
			continue
		}
		if _, ok := seen[cmd]; ok {
			continue
		}
		seen[cmd] = struct{}{}
		recent = append(recent, cmd)
	}

	// Back to chronological order.
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}
	return recent
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
