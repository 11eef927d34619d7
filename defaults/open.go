package defaults

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Backend types accepted by Open.
const (
	TypeFile   = "file"
	TypeSQLite = "sqlite"
	TypeMemory = "memory"
)

// Config selects and configures a Store backend.
type Config struct {
	// Type is one of "file", "sqlite" or "memory"
	Type string `mapstructure:"type" validate:"required,oneof=file sqlite memory"`
	// Path is the YAML file or SQLite database path
	Path string `mapstructure:"path"`
	// Namespace separates records sharing one file or database
	Namespace string `mapstructure:"namespace" validate:"required"`
	// Table is the SQLite table name
	Table string `mapstructure:"table"`
}

// Open returns the configured Store. The returned cleanup function
// should be called once the store is no longer needed.
func Open(ctx context.Context, cfg Config) (Store, func(), error) {
	switch cfg.Type {
	case TypeFile, "":
		if cfg.Path == "" {
			return nil, nil, errors.New("open defaults store: file backend needs a path")
		}
		return NewFileStore(cfg.Path, cfg.Namespace), func() {}, nil
	case TypeSQLite:
		if cfg.Path == "" {
			return nil, nil, errors.New("open defaults store: sqlite backend needs a path")
		}
		if !isMemoryDSN(cfg.Path) {
			if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
				return nil, nil, fmt.Errorf("open defaults store: create directory: %w", err)
			}
		}
		s, err := OpenSQLite(ctx, cfg.Path, cfg.Table, cfg.Namespace)
		if err != nil {
			return nil, nil, fmt.Errorf("open defaults store: %w", err)
		}
		return s, func() { _ = s.Close() }, nil
	case TypeMemory:
		return NewMapStore(Record{}), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported defaults store type: %s", cfg.Type)
	}
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
}
