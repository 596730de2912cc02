package filesystem

import (
	"os"
	"path/filepath"
	"strings"
)

// UserHomeDir returns the current user's home directory.
// If the home directory cannot be determined, it returns "." as a fallback.
func UserHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// ConfigDir returns the application configuration directory, ~/.shellm.
func ConfigDir() string {
	return filepath.Join(UserHomeDir(), ".shellm")
}

// ConfigPath joins a file name onto the configuration directory.
func ConfigPath(name string) string {
	return filepath.Join(ConfigDir(), name)
}

// ExpandPath resolves a leading ~/ against the home directory and cleans
// relative paths. Absolute paths pass through unchanged.
func ExpandPath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if path == "~" {
		return UserHomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(UserHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}
