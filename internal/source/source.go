// Package source provides the collaborators that supply the initial task list.
package source

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"sakura/internal/config"
	"sakura/internal/task"
)

const (
	KindHTTP   = "http"
	KindSeed   = "seed"
	KindSQLite = "sqlite"
)

type Source interface {
	Load(ctx context.Context) ([]task.Task, error)
}

// New builds the source named by cfg.Kind.
func New(cfg config.Source, logger *log.Logger) (Source, error) {
	switch cfg.Kind {
	case KindHTTP, "":
		return NewHTTP(cfg.Endpoint, cfg.Limit, cfg.Timeout.Duration, logger), nil
	case KindSeed:
		return Seed(), nil
	case KindSQLite:
		return NewSQLite(cfg.DBPath, cfg.Limit, logger), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}
