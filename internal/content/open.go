package content

import (
	"context"
	"fmt"
)

// Config selects and configures a Store adapter.
type Config struct {
	Driver      string // memory, sqlite or postgres
	SQLitePath  string
	PostgresURL string
}

// Open creates the Store described by cfg.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemoryStore(), nil
	case "", "sqlite":
		return NewSQLiteStore(ctx, cfg.SQLitePath)
	case "postgres":
		if cfg.PostgresURL == "" {
			return nil, fmt.Errorf("postgres store requires TCG_POSTGRES_URL")
		}
		return NewPostgresStore(ctx, cfg.PostgresURL)
	default:
		return nil, fmt.Errorf("unknown content store driver: %s", cfg.Driver)
	}
}
