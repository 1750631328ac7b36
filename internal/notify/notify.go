// Package notify defines the transient success/error notification sink that
// workflows report to, plus a console implementation for CLI mode.
package notify

import (
	"fmt"
	"io"
	"sync"
)

// Kind distinguishes success from error notices.
type Kind int

const (
	Success Kind = iota
	Error
)

func (k Kind) String() string {
	if k == Error {
		return "error"
	}
	return "success"
}

// Notifier surfaces a short message to the user. Implementations must not
// block and the caller ignores whatever happens afterwards.
type Notifier interface {
	Notify(kind Kind, message string)
}

// Func adapts a plain function to Notifier.
type Func func(kind Kind, message string)

// Notify calls f.
func (f Func) Notify(kind Kind, message string) {
	f(kind, message)
}

// Discard drops every notice.
var Discard Notifier = Func(func(Kind, string) {})

// Console prints successes to Out and errors to Err.
type Console struct {
	Out io.Writer
	Err io.Writer

	mu sync.Mutex
}

// Notify implements Notifier.
func (c *Console) Notify(kind Kind, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if kind == Error {
		fmt.Fprintf(c.Err, "✗ %s\n", message)
		return
	}
	fmt.Fprintf(c.Out, "✓ %s\n", message)
}
