// Package app wires application services to their infrastructure adapters.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/okzu/shellm/internal/domain"
	"github.com/okzu/shellm/internal/infrastructure/cache"
	"github.com/okzu/shellm/internal/infrastructure/config"
	"github.com/okzu/shellm/internal/infrastructure/envscan"
	"github.com/okzu/shellm/internal/infrastructure/executor"
	"github.com/okzu/shellm/internal/infrastructure/history"
	"github.com/okzu/shellm/internal/infrastructure/provider"
	"github.com/okzu/shellm/internal/infrastructure/security"
	"github.com/okzu/shellm/internal/pkg/logger"
	"github.com/okzu/shellm/internal/ports"
	"github.com/okzu/shellm/internal/services"
)

// Container holds the wired dependency graph. The CLI layer injects the
// prompter and clipboard after construction since they belong to the
// terminal, not the core.
type Container struct {
	Config        domain.Config
	ConfigPath    string
	Logger        *logger.ZapLogger
	AskService    *services.AskService
	DoctorService *services.DoctorService
	Guardrail     *security.Guardrail
	HistoryStore  ports.HistoryStore
	CacheStore    ports.CacheStore
}

// BuildOptions carries the process-level flags that shape construction.
type BuildOptions struct {
	ConfigPath string
	Verbose    bool
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, opts BuildOptions) (*Container, error) {
	loader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Logging, opts.Verbose)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	guardrail, err := security.NewGuardrail(cfg.Security.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("load guardrail rules: %w", err)
	}

	var historyStore ports.HistoryStore
	if cfg.History.Enabled {
		sqlStore, err := history.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			log.Warn("sqlite history unavailable, using jsonl fallback", map[string]interface{}{
				"path":  cfg.History.Path,
				"error": err.Error(),
			})
			historyStore = history.NewFileStore(cfg.History.Path + ".jsonl")
		} else {
			historyStore = sqlStore
		}
	}

	var cacheStore ports.CacheStore
	if cfg.Cache.Enabled {
		cacheStore = cache.NewFileCache(cfg.Cache.Dir, time.Duration(cfg.Cache.TTLMinutes)*time.Minute)
	}

	factory := provider.NewFactory(log, cacheStore)
	collector := envscan.NewCollector(log)
	shellExec := executor.NewShell(cfg.Execution.Shell, time.Duration(cfg.Execution.TimeoutSeconds)*time.Second)

	askService := &services.AskService{
		Config:    cfg,
		Factory:   factory,
		Collector: collector,
		Guardrail: guardrail,
		Executor:  shellExec,
		History:   historyStore,
		Logger:    log,
	}

	doctorService := &services.DoctorService{
		Loader:     loader,
		Factory:    factory,
		Guardrail:  guardrail,
		ConfigPath: loader.Path(),
	}

	return &Container{
		Config:        cfg,
		ConfigPath:    loader.Path(),
		Logger:        log,
		AskService:    askService,
		DoctorService: doctorService,
		Guardrail:     guardrail,
		HistoryStore:  historyStore,
		CacheStore:    cacheStore,
	}, nil
}
