package services

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/okzu/shellm/internal/domain"
	"github.com/okzu/shellm/internal/ports"
)

// DoctorService probes the local setup: config, models, guardrail, shell,
// and the optional stores. Probes never mutate anything beyond creating the
// directories the app would create anyway.
type DoctorService struct {
	Loader     ports.ConfigLoader
	Factory    ports.ProviderFactory
	Guardrail  ports.Guardrail
	Clipboard  ports.Clipboard
	ConfigPath string
}

// Run executes all probes and returns the aggregate report. The returned
// error is reserved for a config that cannot load at all; individual probe
// failures land in the report.
func (s *DoctorService) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.Loader.Load(ctx)
	if err != nil {
		checks = append(checks, fail("config", fmt.Sprintf("%s: %v", s.ConfigPath, err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("config", s.ConfigPath))

	checks = append(checks, s.modelChecks(ctx, cfg)...)
	checks = append(checks, s.guardrailCheck(cfg))
	checks = append(checks, shellCheck(cfg))
	checks = append(checks, storeCheck("history", cfg.History.Enabled, cfg.History.Path))
	checks = append(checks, storeCheck("cache", cfg.Cache.Enabled, cfg.Cache.Dir))

	if s.Clipboard != nil {
		if s.Clipboard.Enabled() {
			checks = append(checks, ok("clipboard", "available"))
		} else {
			checks = append(checks, warn("clipboard", "no clipboard tool found (--copy will be a no-op)"))
		}
	}

	return domain.HealthReport{Checks: checks}, nil
}

func (s *DoctorService) modelChecks(ctx context.Context, cfg domain.Config) []domain.HealthCheck {
	names := cfg.CandidateModels("")
	if len(names) == 0 {
		return []domain.HealthCheck{warn("models", "default_models is empty")}
	}
	var checks []domain.HealthCheck
	for _, name := range names {
		model, found := cfg.ModelByName(name)
		if !found {
			checks = append(checks, fail("model "+name, "not configured"))
			continue
		}
		if s.Factory == nil {
			continue
		}
		if _, err := s.Factory.ForModel(ctx, cfg, name, model); err != nil {
			checks = append(checks, warn("model "+name, err.Error()))
			continue
		}
		checks = append(checks, ok("model "+name, fmt.Sprintf("%s/%s ready", model.Provider, model.Model)))
	}
	return checks
}

func (s *DoctorService) guardrailCheck(cfg domain.Config) domain.HealthCheck {
	if !cfg.Security.Enabled {
		return warn("guardrail", "security.enabled is false")
	}
	if s.Guardrail == nil {
		return warn("guardrail", "not initialized")
	}
	if _, err := s.Guardrail.Evaluate("ls"); err != nil {
		return fail("guardrail", err.Error())
	}
	return ok("guardrail", "rules loaded")
}

func shellCheck(cfg domain.Config) domain.HealthCheck {
	shell := cfg.Execution.Shell
	if shell == "" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/sh"
	}
	if _, err := exec.LookPath(shell); err != nil {
		return fail("shell", fmt.Sprintf("%s not found", shell))
	}
	return ok("shell", shell)
}

// storeCheck verifies the parent directory of a store path is writable.
func storeCheck(name string, enabled bool, path string) domain.HealthCheck {
	if !enabled {
		return warn(name, "disabled")
	}
	if path == "" {
		return warn(name, "no path configured")
	}
	dir := filepath.Dir(path)
	if name == "cache" {
		dir = path
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fail(name, fmt.Sprintf("%s: %v", dir, err))
	}
	probe, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return fail(name, fmt.Sprintf("%s not writable: %v", dir, err))
	}
	probe.Close()
	os.Remove(probe.Name())
	return ok(name, path)
}

func ok(name, detail string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.CheckOK, Detail: detail}
}

func warn(name, detail string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.CheckWarn, Detail: detail}
}

func fail(name, detail string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.CheckFail, Detail: detail}
}
