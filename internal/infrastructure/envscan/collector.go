// Package envscan gathers the local environment bundle attached to
// generation prompts: executables on PATH, the recent shell history tail,
// and the working directory. Collection is read-only and best-effort; a
// section that cannot be gathered is left empty and logged, never fatal.
package envscan

import (
	"context"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/okzu/shellm/internal/domain"
	"github.com/okzu/shellm/internal/ports"
)

const (
	defaultMaxCommands = 200
	defaultHistorySize = 20
)

// Collector implements ports.ContextCollector against the host environment.
type Collector struct {
	log    ports.Logger
	ignore *ignoreSet
}

func NewCollector(log ports.Logger) *Collector {
	return &Collector{log: log, ignore: defaultIgnoreSet()}
}

// Collect gathers the requested sections concurrently. Only context
// cancellation aborts the whole bundle; per-section failures degrade to an
// empty section with a warning.
func (c *Collector) Collect(ctx context.Context, req domain.ContextRequest) (domain.ContextBundle, error) {
	var bundle domain.ContextBundle
	g, gctx := errgroup.WithContext(ctx)

	if req.IncludeCommands {
		g.Go(func() error {
			commands, err := scanPath(gctx, c.ignore, commandCap(req))
			if err != nil {
				// scanPath fails only on context cancellation.
				return err
			}
			bundle.Commands = commands
			return nil
		})
	}

	if req.IncludeHistory {
		g.Go(func() error {
			lines, err := readHistory(historyCap(req))
			if err != nil {
				c.log.Warn("shell history unavailable", map[string]interface{}{"error": err.Error()})
				return nil
			}
			bundle.History = lines
			return nil
		})
	}

	g.Go(func() error {
		wd, err := os.Getwd()
		if err != nil {
			c.log.Warn("working directory unavailable", map[string]interface{}{"error": err.Error()})
			return nil
		}
		bundle.WorkingDir = wd
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.ContextBundle{}, err
	}
	return bundle, nil
}

func commandCap(req domain.ContextRequest) int {
	if req.MaxCommands > 0 {
		return req.MaxCommands
	}
	return defaultMaxCommands
}

func historyCap(req domain.ContextRequest) int {
	size := req.HistorySize
	if size <= 0 {
		size = defaultHistorySize
	}
	if req.MaxHistory > 0 && size > req.MaxHistory {
		size = req.MaxHistory
	}
	return size
}

var _ ports.ContextCollector = (*Collector)(nil)
