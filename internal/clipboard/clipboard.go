// Package clipboard copies selected text out of the viewer.
package clipboard

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// ErrEmpty is returned when there is nothing to copy.
var ErrEmpty = errors.New("nothing to copy")

// Method reports how text reached the clipboard.
type Method string

// Copy methods.
const (
	MethodSystem Method = "system"
	MethodOSC52  Method = "osc52"
)

// Clipboard writes text to the system clipboard, or to the terminal through
// an OSC 52 escape sequence when no clipboard utility is available (for
// example over SSH).
type Clipboard struct {
	system   func(string) error
	terminal io.Writer
	tmux     bool
}

// Option configures a Clipboard.
type Option func(*Clipboard)

// WithTerminal sets where OSC 52 sequences are written. Defaults to stderr.
func WithTerminal(w io.Writer) Option {
	return func(c *Clipboard) {
		c.terminal = w
	}
}

// WithSystem replaces the system clipboard writer. A nil writer disables
// the system clipboard.
func WithSystem(write func(string) error) Option {
	return func(c *Clipboard) {
		c.system = write
	}
}

// New creates a clipboard.
func New(opts ...Option) *Clipboard {
	c := &Clipboard{
		system:   clipboard.WriteAll,
		terminal: os.Stderr,
		tmux:     os.Getenv("TMUX") != "",
	}
	if clipboard.Unsupported {
		c.system = nil
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Copy writes text to the clipboard and reports which method was used.
func (c *Clipboard) Copy(text string) (Method, error) {
	if text == "" {
		return "", ErrEmpty
	}

	var sysErr error
	if c.system != nil {
		if sysErr = c.system(text); sysErr == nil {
			return MethodSystem, nil
		}
	}

	seq := osc52.New(text)
	if c.tmux {
		seq = seq.Tmux()
	}
	if _, err := seq.WriteTo(c.terminal); err != nil {
		return "", fmt.Errorf("write osc52 sequence: %w", errors.Join(sysErr, err))
	}
	return MethodOSC52, nil
}
