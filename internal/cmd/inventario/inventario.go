// Package inventario implements the inventario CLI: it opens the store,
// applies migrations, seeds the default exchange rate and reports the
// resulting inventory state.
package inventario

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/rfigueredo/inventario/internal/inventory/app"
	platformcmd "github.com/rfigueredo/inventario/internal/platform/cmd"
)

// Config controls one CLI invocation.
type Config struct {
	DBPath      string `env:"INVENTARIO_DB_PATH" envDefault:"data/inventario.db"`
	DefaultRate string `env:"INVENTARIO_DEFAULT_RATE" envDefault:"36.0"`
}

// ParseConfig loads env defaults and command-line flags.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the SQLite database")
	fs.StringVar(&cfg.DefaultRate, "default-rate", cfg.DefaultRate, "exchange rate seeded on first boot")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run initializes the store and writes a short status report.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	return platformcmd.RunWithTelemetry(ctx, "inventario", func(ctx context.Context) error {
		service, err := app.OpenPath(ctx, cfg.DBPath, cfg.DefaultRate)
		if err != nil {
			return err
		}
		defer service.Close()

		products, err := service.CatalogList(ctx, "")
		if err != nil {
			return err
		}
		movements, err := service.LedgerList(ctx, 0)
		if err != nil {
			return err
		}
		current, err := service.RateCurrent(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "store: %s\n", cfg.DBPath)
		fmt.Fprintf(out, "products: %d\n", len(products))
		fmt.Fprintf(out, "movements: %d\n", len(movements))
		fmt.Fprintf(out, "current rate: %s\n", current.String())
		low := 0
		for _, p := range products {
			if p.LowStock() {
				low++
			}
		}
		fmt.Fprintf(out, "low stock products: %d\n", low)
		return nil
	})
}
