package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rfigueredo/inventario/internal/inventory/storage/sqlite"
	"github.com/rfigueredo/inventario/internal/platform/config"
)

type serviceEnv struct {
	DBPath      string `env:"INVENTARIO_DB_PATH"`
	DefaultRate string `env:"INVENTARIO_DEFAULT_RATE"`
}

func loadServiceEnv() serviceEnv {
	var cfg serviceEnv
	_ = config.ParseEnv(&cfg)
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "inventario.db")
	}
	if strings.TrimSpace(cfg.DefaultRate) == "" {
		cfg.DefaultRate = "36.0"
	}
	return cfg
}

// Open builds the service from environment configuration: opens the SQLite
// store at INVENTARIO_DB_PATH, applies migrations and seeds the default
// exchange rate when the series is empty. Callers own the returned service
// and must Close it on shutdown.
func Open(ctx context.Context) (*Service, error) {
	env := loadServiceEnv()
	return OpenPath(ctx, env.DBPath, env.DefaultRate)
}

// OpenPath is Open with explicit store path and default rate.
func OpenPath(ctx context.Context, dbPath, defaultRate string) (*Service, error) {
	fallback, err := decimal.NewFromString(strings.TrimSpace(defaultRate))
	if err != nil {
		return nil, fmt.Errorf("parse default rate %q: %w", defaultRate, err)
	}

	store, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, err
	}

	service := NewService(store, fallback)
	if err := service.SeedDefaultRate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("seed default rate: %w", err)
	}
	return service, nil
}
