package generator

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"testing"

	"tcg/internal/options"
)

// countingGenerator records Create calls and reports a fixed outcome.
type countingGenerator struct {
	creates  int
	progress Progress
	fail     bool
}

func (g *countingGenerator) Ident() string   { return "tcg_counting" }
func (g *countingGenerator) Command() string { return "counting" }

func (g *countingGenerator) Defaults() Options {
	return Options{"amount": 1, "kinds": []string{"a"}}
}

func (g *countingGenerator) Sanitise(in Input) Options {
	return Options{
		"amount": ReadInt(in, "amount", 1, 100, 1),
		"kinds":  ReadArray(in, "kinds", []string{"a", "b"}, []string{"a"}),
	}
}

func (g *countingGenerator) Settings() Section { return Section{Title: "Counting"} }

func (g *countingGenerator) Create(ctx context.Context, opts Options, rep Reporter, progress Progress) error {
	g.creates++
	g.progress = progress
	if g.fail {
		return Fail(rep, "nope", errors.New("nope"))
	}
	rep.Success("made things")
	return nil
}

type recordingProgress struct {
	label    string
	total    int
	ticks    int
	finished bool
}

func (p *recordingProgress) Tick()   { p.ticks++ }
func (p *recordingProgress) Finish() { p.finished = true }

func TestInitialize_MergesSavedOverDefaults(t *testing.T) {
	ctx := context.Background()
	store := options.NewMemoryStore()
	store.Set(ctx, "tcg_counting", []byte(`{"amount": 500, "kinds": ["b", "zzz"], "stray": 1}`))

	w, err := Initialize(ctx, &countingGenerator{}, store, nil)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	want := Options{"amount": 100, "kinds": []string{"b"}}
	if got := w.Options(); !reflect.DeepEqual(got, want) {
		t.Errorf("Options() = %#v, want %#v", got, want)
	}
}

func TestInitialize_CorruptBlobFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	store := options.NewMemoryStore()
	store.Set(ctx, "tcg_counting", []byte(`{not json`))

	w, err := Initialize(ctx, &countingGenerator{}, store, nil)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	want := Options{"amount": 1, "kinds": []string{"a"}}
	if got := w.Options(); !reflect.DeepEqual(got, want) {
		t.Errorf("Options() = %#v, want %#v", got, want)
	}
}

func TestRun_InteractiveAlwaysSaves(t *testing.T) {
	ctx := context.Background()
	store := options.NewMemoryStore()
	gen := &countingGenerator{}
	w, _ := Initialize(ctx, gen, store, nil)

	got, err := w.Run(ctx, Input{"amount": "7"}, Mode{Interactive: true, Progress: func(string, int) Progress {
		t.Fatal("interactive runs must not create progress")
		return nil
	}})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got["amount"] != 7 {
		t.Errorf("expected amount 7, got %v", got["amount"])
	}
	if store.Writes() != 1 {
		t.Errorf("expected options to be saved once, got %d writes", store.Writes())
	}
	blob, _ := store.Get(ctx, "tcg_counting")
	if string(blob) != `{"amount":7,"kinds":["a"]}` {
		t.Errorf("unexpected saved blob %s", blob)
	}
	if gen.creates != 1 {
		t.Errorf("expected one Create call, got %d", gen.creates)
	}
}

func TestRun_NonInteractiveSavesOnlyWhenAsked(t *testing.T) {
	ctx := context.Background()
	store := options.NewMemoryStore()
	w, _ := Initialize(ctx, &countingGenerator{}, store, nil)

	if _, err := w.Run(ctx, Input{}, Mode{}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if store.Writes() != 0 {
		t.Errorf("expected no save without Save flag, got %d", store.Writes())
	}

	if _, err := w.Run(ctx, Input{"kinds": "b"}, Mode{Save: true}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if store.Writes() != 1 {
		t.Errorf("expected one save with Save flag, got %d", store.Writes())
	}
}

func TestRun_NonInteractiveProgressAndConsole(t *testing.T) {
	ctx := context.Background()
	gen := &countingGenerator{}
	w, _ := Initialize(ctx, gen, options.NewMemoryStore(), nil)

	var buf bytes.Buffer
	var made *recordingProgress
	mode := Mode{
		Console: Console{Out: &buf},
		Progress: func(label string, total int) Progress {
			made = &recordingProgress{label: label, total: total}
			return made
		},
	}

	if _, err := w.Run(ctx, Input{"amount": 3}, mode); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if made == nil || made.total != 3 || made.label != "tcg_counting: running" {
		t.Fatalf("unexpected progress: %+v", made)
	}
	if gen.progress != made {
		t.Error("Create did not receive the created progress")
	}
	if buf.String() != "Success: made things\n" {
		t.Errorf("unexpected console output %q", buf.String())
	}
	if w.Notices().Len() != 1 {
		t.Errorf("expected the message to be queued as a notice too")
	}
}

func TestRun_ReturnsReportedError(t *testing.T) {
	ctx := context.Background()
	gen := &countingGenerator{fail: true}
	w, _ := Initialize(ctx, gen, options.NewMemoryStore(), nil)

	opts, err := w.Run(ctx, Input{"amount": 2}, Mode{})
	var reported *ReportedError
	if !errors.As(err, &reported) {
		t.Fatalf("expected *ReportedError, got %v", err)
	}
	if opts["amount"] != 2 {
		t.Errorf("expected sanitised options alongside the error, got %v", opts)
	}
}

func TestRun_GuardsRepeatedRunWithinInvocation(t *testing.T) {
	store := options.NewMemoryStore()
	gen := &countingGenerator{}
	w, _ := Initialize(context.Background(), gen, store, nil)

	ctx := WithInvocation(context.Background())
	first, err := w.Run(ctx, Input{"amount": 4}, Mode{Interactive: true})
	if err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	second, err := w.Run(ctx, InputFromOptions(first), Mode{Interactive: true})
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}

	if gen.creates != 1 {
		t.Errorf("expected generation once, got %d", gen.creates)
	}
	if len(second) != 0 {
		t.Errorf("expected empty options from guarded run, got %v", second)
	}
	if store.Writes() != 1 {
		t.Errorf("expected a single save, got %d", store.Writes())
	}
	if got := w.Options()["amount"]; got != 4 {
		t.Errorf("guarded run must not change options, got amount %v", got)
	}

	// A fresh invocation runs again.
	if _, err := w.Run(WithInvocation(context.Background()), Input{}, Mode{}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if gen.creates != 2 {
		t.Errorf("expected a new invocation to run, got %d creates", gen.creates)
	}
}

func TestKeepSanitised(t *testing.T) {
	original := Options{"amount": 5}
	wiped := Options{}

	if got := KeepSanitised(wiped, original, true); !reflect.DeepEqual(got, original) {
		t.Errorf("non-interactive should keep original, got %v", got)
	}
	if got := KeepSanitised(wiped, original, false); !reflect.DeepEqual(got, wiped) {
		t.Errorf("interactive should keep value, got %v", got)
	}
	// Re-invoking with the original is a no-op.
	once := KeepSanitised(original, original, true)
	if got := KeepSanitised(once, original, true); !reflect.DeepEqual(got, original) {
		t.Errorf("re-invocation changed the value: %v", got)
	}
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(options.NewMemoryStore(), nil)

	w, err := reg.Initialize(ctx, &countingGenerator{})
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if _, err := reg.Initialize(ctx, &countingGenerator{}); err == nil {
		t.Error("expected duplicate registration to fail")
	}

	for _, name := range []string{"tcg_counting", "counting"} {
		got, ok := reg.Get(name)
		if !ok || got != w {
			t.Errorf("Get(%q) did not find the workflow", name)
		}
	}
	if _, ok := reg.Get("missing"); ok {
		t.Error("expected unknown generator lookup to fail")
	}
	if all := reg.All(); len(all) != 1 || all[0] != w {
		t.Errorf("unexpected All(): %v", all)
	}
	if w.Notices() != reg.Notices() {
		t.Error("workflows should share the registry's notice queue")
	}
}

func TestShowOptions(t *testing.T) {
	w, err := Initialize(context.Background(), &countingGenerator{}, options.NewMemoryStore(), nil)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	want := "tcg_counting is using these options: {\n    \"amount\": 1,\n    \"kinds\": [\n        \"a\"\n    ]\n}"
	if got := w.ShowOptions(); got != want {
		t.Errorf("ShowOptions() = %q, want %q", got, want)
	}
}
