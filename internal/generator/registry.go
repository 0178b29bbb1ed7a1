package generator

import (
	"context"
	"fmt"
	"sync"

	"tcg/internal/options"
)

// Registry maps generator identities to their initialised workflows. Every
// adapter (CLI, web, MCP) resolves generators through it.
type Registry struct {
	store   options.Store
	notices *Notices

	mu        sync.RWMutex
	workflows map[string]*Workflow
	order     []string
}

// NewRegistry creates a registry whose workflows persist to store and queue
// notices on notices.
func NewRegistry(store options.Store, notices *Notices) *Registry {
	if notices == nil {
		notices = NewNotices()
	}
	return &Registry{
		store:     store,
		notices:   notices,
		workflows: make(map[string]*Workflow),
	}
}

// Initialize sets up gen's workflow and registers it.
func (r *Registry) Initialize(ctx context.Context, gen Generator) (*Workflow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.workflows[gen.Ident()]; exists {
		return nil, fmt.Errorf("generator %s already registered", gen.Ident())
	}

	w, err := Initialize(ctx, gen, r.store, r.notices)
	if err != nil {
		return nil, err
	}
	r.workflows[gen.Ident()] = w
	r.order = append(r.order, gen.Ident())
	return w, nil
}

// Get looks a workflow up by identity or command name.
func (r *Registry) Get(name string) (*Workflow, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if w, ok := r.workflows[name]; ok {
		return w, true
	}
	for _, w := range r.workflows {
		if w.gen.Command() == name {
			return w, true
		}
	}
	return nil, false
}

// All returns workflows in registration order.
func (r *Registry) All() []*Workflow {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Workflow, 0, len(r.order))
	for _, ident := range r.order {
		out = append(out, r.workflows[ident])
	}
	return out
}

func (r *Registry) Notices() *Notices { return r.notices }
