package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
)

// Reporter surfaces the outcome of a run to an operator.
type Reporter interface {
	Success(msg string)
	Warning(msg string)
	Error(msg string)
}

// Level classifies a queued notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

const (
	codeOkay  = "tcg_okay"
	codeError = "tcg_error"
)

// Notice is a message queued for display in an interactive UI.
type Notice struct {
	Level   Level  `json:"level"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Notices is a queue of messages shown on the next UI render.
type Notices struct {
	mu    sync.Mutex
	items []Notice
}

func NewNotices() *Notices {
	return &Notices{}
}

func (n *Notices) Success(msg string) { n.add(LevelSuccess, codeOkay, msg) }
func (n *Notices) Warning(msg string) { n.add(LevelWarning, codeError, msg) }
func (n *Notices) Error(msg string)   { n.add(LevelError, codeError, msg) }

func (n *Notices) add(level Level, code, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, Notice{Level: level, Code: code, Message: msg})
}

// Drain returns every queued notice and empties the queue.
func (n *Notices) Drain() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	items := n.items
	n.items = nil
	return items
}

// Len reports the number of queued notices.
func (n *Notices) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.items)
}

// Console prints messages the way a command-line tool does.
type Console struct {
	Out io.Writer
}

func (c Console) Success(msg string) { fmt.Fprintf(c.Out, "Success: %s\n", msg) }
func (c Console) Warning(msg string) { fmt.Fprintf(c.Out, "Warning: %s\n", msg) }
func (c Console) Error(msg string)   { fmt.Fprintf(c.Out, "Error: %s\n", msg) }

type tee []Reporter

// Tee fans every message out to each non-nil reporter.
func Tee(reporters ...Reporter) Reporter {
	var t tee
	for _, r := range reporters {
		if r != nil {
			t = append(t, r)
		}
	}
	return t
}

func (t tee) Success(msg string) {
	for _, r := range t {
		r.Success(msg)
	}
}

func (t tee) Warning(msg string) {
	for _, r := range t {
		r.Warning(msg)
	}
}

func (t tee) Error(msg string) {
	for _, r := range t {
		r.Error(msg)
	}
}

// ReportedError wraps a fatal error that has already been shown to the
// operator, so callers only need to signal failure.
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string { return e.Err.Error() }
func (e *ReportedError) Unwrap() error { return e.Err }

// Fail reports msg as an error and returns err marked as reported.
func Fail(rep Reporter, msg string, err error) error {
	rep.Error(msg)
	return &ReportedError{Err: err}
}

// Structured is implemented by errors that carry machine-readable details.
type Structured interface {
	error
	Structured() any
}

// FormatError renders err for an operator. Structured errors anywhere in the
// chain are pretty-printed as JSON.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	var s Structured
	if errors.As(err, &s) {
		out, mErr := json.MarshalIndent(s.Structured(), "", "    ")
		if mErr == nil {
			return string(out)
		}
	}
	return err.Error()
}
