package generator

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// Progress is advanced once per generated record.
type Progress interface {
	Tick()
	Finish()
}

// ProgressFunc creates a Progress for a run of total records.
type ProgressFunc func(label string, total int) Progress

// NewProgressBar returns a ProgressFunc drawing a terminal progress bar on w.
// The bar is hidden when w is not a terminal.
func NewProgressBar(w io.Writer) ProgressFunc {
	visible := false
	if f, ok := w.(*os.File); ok {
		visible = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	return func(label string, total int) Progress {
		bar := progressbar.NewOptions(total,
			progressbar.OptionSetDescription(label),
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetVisibility(visible),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionOnCompletion(func() {
				if visible {
					io.WriteString(w, "\n")
				}
			}),
		)
		return &barProgress{bar: bar}
	}
}

type barProgress struct {
	bar *progressbar.ProgressBar
}

func (p *barProgress) Tick()   { _ = p.bar.Add(1) }
func (p *barProgress) Finish() { _ = p.bar.Finish() }
