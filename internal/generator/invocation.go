package generator

import (
	"context"
	"sync"
)

type invocationKey struct{}

// invocation records which generators have already run within one logical
// call (one CLI command, HTTP request or tool call).
type invocation struct {
	mu  sync.Mutex
	ran map[string]bool
}

// WithInvocation marks ctx as a single invocation. Within it, each generator's
// Run performs its side effects at most once.
func WithInvocation(ctx context.Context) context.Context {
	return context.WithValue(ctx, invocationKey{}, &invocation{ran: make(map[string]bool)})
}

// claim reports whether ident may run. Contexts without an invocation marker
// never block.
func claim(ctx context.Context, ident string) bool {
	inv, ok := ctx.Value(invocationKey{}).(*invocation)
	if !ok {
		return true
	}
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if inv.ran[ident] {
		return false
	}
	inv.ran[ident] = true
	return true
}
