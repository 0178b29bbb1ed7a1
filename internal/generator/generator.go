// Package generator holds the workflow shared by every test-content generator:
// defaults, sanitisation, option persistence, generation and reporting.
package generator

import (
	"context"
	"slices"
)

// Options is the canonical, validated configuration of one generator.
type Options map[string]any

// Clone returns a copy whose slice values are not shared with o.
func (o Options) Clone() Options {
	if o == nil {
		return nil
	}
	out := make(Options, len(o))
	for k, v := range o {
		if s, ok := v.([]string); ok {
			v = slices.Clone(s)
		}
		out[k] = v
	}
	return out
}

// Input is raw, unvalidated settings from a form, command line, tool call or
// persisted blob.
type Input map[string]any

// Generator is one content type's implementation of the shared workflow.
type Generator interface {
	// Ident names the generator's persisted options.
	Ident() string
	// Command is the CLI/URL-friendly short name.
	Command() string
	Defaults() Options
	// Sanitise coerces every recognised key into a valid value, drops unknown
	// keys and falls back to defaults. It must be idempotent.
	Sanitise(in Input) Options
	// Settings describes the generator's fields for interactive UIs.
	Settings() Section
	// Create performs the generation. Fatal failures are reported through rep
	// and returned as a *ReportedError.
	Create(ctx context.Context, opts Options, rep Reporter, progress Progress) error
}

// FieldKind selects how a field is rendered.
type FieldKind string

const (
	FieldSelect      FieldKind = "select"
	FieldMultiSelect FieldKind = "multiselect"
	FieldNumber      FieldKind = "number"
)

// Section groups a generator's settings fields under a title.
type Section struct {
	Title  string
	Intro  string
	Fields []Field
}

// Field is one setting as presented to an operator.
type Field struct {
	Key     string
	Label   string
	Kind    FieldKind
	Choices []Choice
	Prefix  string
	Suffix  string
	Usage   string
}

// InputFromOptions converts options back into raw input, e.g. to merge
// persisted values over defaults.
func InputFromOptions(o Options) Input {
	return Input(o.Clone())
}
