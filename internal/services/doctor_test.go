package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/okzu/shellm/internal/domain"
	"github.com/okzu/shellm/internal/ports"
)

type stubLoader struct {
	cfg domain.Config
	err error
}

func (l stubLoader) Load(context.Context) (domain.Config, error) { return l.cfg, l.err }

func TestDoctorReportsHealthySetup(t *testing.T) {
	dir := t.TempDir()
	cfg := domain.Config{
		DefaultModels: []string{"main"},
		Models:        map[string]domain.ModelConfig{"main": {Provider: "test", Model: "scripted-v1"}},
		Providers:     map[string]domain.ProviderConfig{"test": {}},
		Security:      domain.SecuritySettings{Enabled: true},
		Execution:     domain.ExecutionSettings{Shell: "/bin/sh"},
		History:       domain.HistorySettings{Enabled: true, Path: filepath.Join(dir, "history.db")},
		Cache:         domain.CacheSettings{Enabled: true, Dir: filepath.Join(dir, "cache")},
	}

	svc := &DoctorService{
		Loader:     stubLoader{cfg: cfg},
		Factory:    &stubFactory{providers: map[string]ports.Provider{"main": &scriptedProvider{}}},
		Guardrail:  &stubGuardrail{assessment: domain.RiskAssessment{Level: domain.RiskSafe, Action: domain.ActionAllow}},
		ConfigPath: filepath.Join(dir, "config.yaml"),
	}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !report.Healthy() {
		t.Errorf("expected healthy report, got %+v", report.Checks)
	}
	byName := map[string]domain.HealthCheck{}
	for _, c := range report.Checks {
		byName[c.Name] = c
	}
	for _, name := range []string{"config", "model main", "guardrail", "shell", "history", "cache"} {
		check, found := byName[name]
		if !found {
			t.Errorf("missing check %q", name)
			continue
		}
		if check.Status != domain.CheckOK {
			t.Errorf("check %q = %s (%s), want ok", name, check.Status, check.Detail)
		}
	}
}

func TestDoctorFailsOnBrokenConfig(t *testing.T) {
	svc := &DoctorService{
		Loader:     stubLoader{err: errors.New("yaml: unmarshal error")},
		ConfigPath: "/tmp/shellm/config.yaml",
	}
	report, err := svc.Run(context.Background())
	if err == nil {
		t.Fatal("expected error for unloadable config")
	}
	if report.Healthy() {
		t.Error("report should not be healthy")
	}
}

func TestDoctorWarnsOnUnavailableModel(t *testing.T) {
	cfg := domain.Config{
		DefaultModels: []string{"cloud"},
		Models:        map[string]domain.ModelConfig{"cloud": {Provider: "openai", Model: "gpt-4o"}},
		Providers:     map[string]domain.ProviderConfig{"openai": {}},
	}
	svc := &DoctorService{
		Loader:  stubLoader{cfg: cfg},
		Factory: &stubFactory{errs: map[string]error{"cloud": &domain.AuthError{Provider: "openai"}}},
	}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, c := range report.Checks {
		if c.Name == "model cloud" {
			if c.Status != domain.CheckWarn {
				t.Errorf("model check = %s, want warn", c.Status)
			}
			return
		}
	}
	t.Error("missing model check")
}
