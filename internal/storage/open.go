package storage

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/klabast/wb-services/menu-planer/internal/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the backend selected in cfg. It returns a nil Backend when no
// backend is configured. The returned Closer releases backend resources.
func Open(ctx context.Context, cfg config.Storage) (Backend, io.Closer, error) {
	switch cfg.Backend {
	case config.BackendNone:
		log.Println("⚠️  No storage backend configured, menus will not be saved")
		return nil, nopCloser{}, nil
	case config.BackendFile:
		log.Printf("Data directory: %s", cfg.File.Dir)
		return NewFileBackend(cfg.File.Dir), nopCloser{}, nil
	case config.BackendGitHub:
		log.Printf("GitHub repository: %s/%s (branch %s)", cfg.GitHub.Owner, cfg.GitHub.Repo, cfg.GitHub.Branch)
		return NewGitHubBackend(cfg.GitHub, nil), nopCloser{}, nil
	case config.BackendSQL:
		b, err := OpenSQL(ctx, cfg.SQL)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("SQL database: %s (table %s)", cfg.SQL.Driver, b.table)
		return b, b, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
