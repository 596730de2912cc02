// Package config loads ~/.shellm/config.yaml, seeding it from the embedded
// default on first run.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/okzu/shellm/assets"
	"github.com/okzu/shellm/internal/domain"
	"github.com/okzu/shellm/internal/pkg/filesystem"
	"github.com/okzu/shellm/internal/ports"
)

// FileLoader loads YAML configuration from ~/.shellm/config.yaml, overridable
// via SHELLM_CONFIG or an explicit path.
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a loader. An empty path defers to SHELLM_CONFIG and
// then the conventional location.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigLoader. On first run the embedded default
// configuration is written out (0600, it may hold keys) and returned.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return domain.Config{}, err
		}
		if err := os.WriteFile(path, assets.DefaultConfigYAML, 0o600); err != nil {
			return domain.Config{}, err
		}
		data = assets.DefaultConfigYAML
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg = expandRefs(cfg)
	cfg = hydrateDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Path reports the configuration file location the loader resolves to.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom := os.Getenv("SHELLM_CONFIG"); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filesystem.ConfigPath("config.yaml")
}

// expandRefs resolves ${VAR_NAME} references in connection parameters, so the
// rest of the process only ever sees literal values.
func expandRefs(cfg domain.Config) domain.Config {
	for name, p := range cfg.Providers {
		p.APIKey = domain.ExpandEnvRefs(p.APIKey)
		p.BaseURL = domain.ExpandEnvRefs(p.BaseURL)
		cfg.Providers[name] = p
	}
	for name, m := range cfg.Models {
		m.APIKey = domain.ExpandEnvRefs(m.APIKey)
		cfg.Models[name] = m
	}
	return cfg
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.Context.MaxCommands == 0 {
		cfg.Context.MaxCommands = 200
	}
	if cfg.Context.MaxHistory == 0 {
		cfg.Context.MaxHistory = 50
	}
	if cfg.Execution.TimeoutSeconds == 0 {
		cfg.Execution.TimeoutSeconds = 30
	}
	if cfg.History.Path == "" {
		cfg.History.Path = filesystem.ConfigPath("history.db")
	}
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = filesystem.ConfigPath("cache")
	}
	if cfg.Cache.TTLMinutes == 0 {
		cfg.Cache.TTLMinutes = 24 * 60
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "warn"
	}
	for name, m := range cfg.Models {
		if m.HistoryContextSize == 0 {
			m.HistoryContextSize = 20
			cfg.Models[name] = m
		}
	}
	return cfg
}

var _ ports.ConfigLoader = (*FileLoader)(nil)
