package options

import (
	"context"
	"fmt"
)

// Store persists option blobs keyed by generator identity. Last write wins.
type Store interface {
	// Get returns the stored blob, or nil if nothing has been saved under ident.
	Get(ctx context.Context, ident string) ([]byte, error)
	Set(ctx context.Context, ident string, blob []byte) error
	Close() error
}

// Config selects and configures an option Store.
type Config struct {
	Driver string // bolt, file or memory
	Path   string
}

// Open creates the Store described by cfg.
func Open(cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", "bolt":
		return NewBoltStore(cfg.Path)
	case "file":
		return NewFileStore(cfg.Path)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown options store driver: %s", cfg.Driver)
	}
}
