package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"tcg/internal/options"
)

// Mode describes how a run was triggered.
type Mode struct {
	// Interactive runs come from a settings UI: options are always saved and
	// no progress is drawn.
	Interactive bool
	// Save persists options for non-interactive runs.
	Save bool
	// Console receives messages in addition to the notice queue when the run
	// is non-interactive.
	Console Reporter
	// Progress, if set, draws progress for non-interactive runs.
	Progress ProgressFunc
}

// Workflow binds a Generator to its persisted options.
type Workflow struct {
	gen     Generator
	store   options.Store
	notices *Notices

	mu   sync.RWMutex
	opts Options
}

// Initialize loads the generator's persisted options merged over its
// defaults and sanitises them. An unreadable blob falls back to defaults.
func Initialize(ctx context.Context, gen Generator, store options.Store, notices *Notices) (*Workflow, error) {
	if notices == nil {
		notices = NewNotices()
	}
	w := &Workflow{gen: gen, store: store, notices: notices}

	merged := InputFromOptions(gen.Defaults())

	blob, err := store.Get(ctx, gen.Ident())
	if err != nil {
		return nil, fmt.Errorf("failed to load options for %s: %w", gen.Ident(), err)
	}
	if blob != nil {
		var saved map[string]any
		if err := json.Unmarshal(blob, &saved); err != nil {
			log.Warn().Err(err).Str("ident", gen.Ident()).Msg("Ignoring unreadable saved options")
		} else {
			for k, v := range saved {
				merged[k] = v
			}
		}
	}

	w.opts = gen.Sanitise(merged)
	log.Debug().Str("ident", gen.Ident()).Interface("options", w.opts).Msg("Generator initialized")
	return w, nil
}

func (w *Workflow) Generator() Generator { return w.gen }
func (w *Workflow) Notices() *Notices    { return w.notices }

// Options returns the current sanitised options.
func (w *Workflow) Options() Options {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.opts.Clone()
}

// Run sanitises in, persists it as mode requires, generates content and
// returns the sanitised options. A repeated Run of the same generator within
// one WithInvocation context returns empty options without side effects.
func (w *Workflow) Run(ctx context.Context, in Input, mode Mode) (Options, error) {
	ident := w.gen.Ident()
	if !claim(ctx, ident) {
		log.Debug().Str("ident", ident).Msg("Skipping repeated run within one invocation")
		return Options{}, nil
	}

	opts := w.gen.Sanitise(in)
	w.mu.Lock()
	w.opts = opts.Clone()
	w.mu.Unlock()

	var rep Reporter = w.notices
	if !mode.Interactive && mode.Console != nil {
		rep = Tee(w.notices, mode.Console)
	}

	if mode.Interactive || mode.Save {
		if err := w.persist(ctx, opts, !mode.Interactive); err != nil {
			log.Error().Err(err).Str("ident", ident).Msg("Failed to save options")
			rep.Warning(fmt.Sprintf("Options could not be saved: %v", err))
		}
	}

	var progress Progress
	if !mode.Interactive && mode.Progress != nil {
		if amount, ok := opts["amount"].(int); ok {
			progress = mode.Progress(fmt.Sprintf("%s: running", ident), amount)
		}
	}

	batch := uuid.NewString()
	log.Info().Str("ident", ident).Str("batch", batch).Bool("interactive", mode.Interactive).
		Interface("options", opts).Msg("Generation started")

	if err := w.gen.Create(ctx, opts, rep, progress); err != nil {
		log.Error().Err(err).Str("ident", ident).Str("batch", batch).Msg("Generation failed")
		return opts, err
	}

	log.Info().Str("ident", ident).Str("batch", batch).Msg("Generation finished")
	return opts, nil
}

// ShowOptions writes the current options in a readable form.
func (w *Workflow) ShowOptions() string {
	out, _ := json.MarshalIndent(w.Options(), "", "    ")
	return fmt.Sprintf("%s is using these options: %s", w.gen.Ident(), out)
}

// persist re-sanitises opts the way a settings store would on write and saves
// the result.
func (w *Workflow) persist(ctx context.Context, opts Options, nonInteractive bool) error {
	value := KeepSanitised(w.gen.Sanitise(InputFromOptions(opts)), opts, nonInteractive)

	blob, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return w.store.Set(ctx, w.gen.Ident(), blob)
}

// KeepSanitised is the store-side sanitisation filter. Non-interactive runs
// keep the already sanitised original so a second pass can never discard it.
// Re-applying it with the original value is a no-op.
func KeepSanitised(value, original Options, nonInteractive bool) Options {
	if nonInteractive {
		return original
	}
	return value
}
