// Package transcript owns the live document of a chat conversation. Finished
// messages are parsed once and appended; the assistant reply that is still
// streaming is re-parsed on every chunk, but only from its last safe
// paragraph boundary onward.
package transcript

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/gomdview/internal/logging"
	"github.com/yaklabco/gomdview/pkg/block"
	"github.com/yaklabco/gomdview/pkg/reconcile"
	"github.com/yaklabco/gomdview/pkg/selection"
)

// Errors returned by a Transcript.
var (
	ErrStreaming    = errors.New("a message is streaming")
	ErrNotStreaming = errors.New("no message is streaming")
	ErrClosed       = errors.New("transcript is closed")
	ErrUnknownRole  = errors.New("unknown role")
)

// Role identifies who wrote a message.
type Role string

// Message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ParseRole converts a role name to a Role.
func ParseRole(name string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(name))); r {
	case RoleUser, RoleAssistant, RoleSystem:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, name)
	}
}

// Message is one entry of the transcript.
type Message struct {
	Role Role
	Text string

	// Start is the position of the message's first block in the document,
	// and Count the number of blocks it produced.
	Start int
	Count int
}

// Parser turns Markdown into block descriptors.
type Parser interface {
	Parse(ctx context.Context, content []byte) ([]*block.Descriptor, error)
}

// Option configures a Transcript.
type Option func(*Transcript)

// WithLogger sets the logger used by the transcript, its engine and its
// tracker.
func WithLogger(logger *log.Logger) Option {
	return func(t *Transcript) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// stream is the state of the message being streamed.
type stream struct {
	role Role
	text strings.Builder

	// stableAt is the byte offset of the last safe boundary already parsed
	// and stable holds the blocks parsed from text[:stableAt].
	stableAt int
	stable   []*block.Descriptor
}

// Transcript is a document of messages backed by one reconciliation engine
// and one selection tracker. It is not safe for concurrent use.
type Transcript struct {
	parser  Parser
	engine  *reconcile.Engine
	tracker *selection.Tracker
	logger  *log.Logger

	messages []Message
	blocks   []*block.Descriptor // blocks of finished messages
	stream   *stream
	closed   bool
}

// New creates an empty transcript whose hosts are built by factory.
func New(parser Parser, factory reconcile.Factory, opts ...Option) *Transcript {
	t := &Transcript{
		parser: parser,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.tracker = selection.NewTracker(selection.WithLogger(t.logger))
	t.engine = reconcile.New(factory,
		reconcile.WithTracker(t.tracker),
		reconcile.WithLogger(t.logger),
	)
	return t
}

// Tracker returns the selection tracker of the document.
func (t *Transcript) Tracker() *selection.Tracker {
	return t.tracker
}

// Engine returns the reconciliation engine of the document.
func (t *Transcript) Engine() *reconcile.Engine {
	return t.engine
}

// Messages returns the finished messages, followed by the streaming message
// if there is one.
func (t *Transcript) Messages() []Message {
	msgs := slices.Clone(t.messages)
	if t.stream != nil {
		msgs = append(msgs, Message{
			Role:  t.stream.role,
			Text:  t.stream.text.String(),
			Start: len(t.blocks),
			Count: t.engine.Len() - len(t.blocks),
		})
	}
	return msgs
}

// Blocks returns the descriptors of the live document.
func (t *Transcript) Blocks() []*block.Descriptor {
	hosts := t.engine.Hosts()
	out := make([]*block.Descriptor, len(hosts))
	for i, h := range hosts {
		out[i] = h.Descriptor()
	}
	return out
}

// Streaming reports whether a message is streaming.
func (t *Transcript) Streaming() bool {
	return t.stream != nil
}

// SelectedText returns the selected text joined with sep.
func (t *Transcript) SelectedText(sep string) string {
	return selection.Text(t.tracker, sep)
}

// AddMessage parses a finished message and appends its blocks.
func (t *Transcript) AddMessage(ctx context.Context, role Role, text string) error {
	if err := t.check(); err != nil {
		return err
	}
	if t.stream != nil {
		return ErrStreaming
	}

	descs, err := t.parser.Parse(ctx, []byte(text))
	if err != nil {
		return fmt.Errorf("parse message: %w", err)
	}

	all := append(slices.Clip(t.blocks), descs...)
	stats, err := t.engine.Append(all)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}

	t.messages = append(t.messages, Message{Role: role, Text: text, Start: len(t.blocks), Count: len(descs)})
	t.blocks = all

	t.logger.Debug("message added",
		logging.FieldRole, role,
		logging.FieldBlocks, len(descs),
		logging.FieldInserted, stats.Inserted,
	)
	return nil
}

// BeginStream starts a new streaming message.
func (t *Transcript) BeginStream(role Role) error {
	if err := t.check(); err != nil {
		return err
	}
	if t.stream != nil {
		return ErrStreaming
	}
	t.stream = &stream{role: role}
	return nil
}

// Write appends chunk to the streaming message and reconciles the document.
// Blocks of finished messages and of the streaming text before its last
// safe boundary are not compared again. When Write fails the document is
// left unchanged; the chunk stays in the message text and is reconciled by
// the next Write or EndStream.
func (t *Transcript) Write(ctx context.Context, chunk string) (reconcile.Stats, error) {
	noStats := reconcile.Stats{Divergence: -1}
	if err := t.check(); err != nil {
		return noStats, err
	}
	if t.stream == nil {
		return noStats, ErrNotStreaming
	}

	// The chunk's text is always kept. The stable prefix only advances once
	// the document has been reconciled against it, so after a failure the
	// next Write compares those positions again.
	s := t.stream
	s.text.WriteString(chunk)
	text := s.text.String()
	stableAt, stable := s.stableAt, s.stable
	stableCount := len(stable)

	if boundary := SafeBoundary(text); boundary > stableAt {
		descs, err := t.parser.Parse(ctx, []byte(text[stableAt:boundary]))
		if err != nil {
			return noStats, fmt.Errorf("parse stable text: %w", err)
		}
		stable = append(slices.Clip(stable), descs...)
		stableAt = boundary

		t.logger.Debug("boundary advanced", logging.FieldBoundary, boundary, logging.FieldBlocks, len(stable))
	}

	tail, err := t.parser.Parse(ctx, []byte(text[stableAt:]))
	if err != nil {
		return noStats, fmt.Errorf("parse streaming text: %w", err)
	}

	all := make([]*block.Descriptor, 0, len(t.blocks)+len(stable)+len(tail))
	all = append(all, t.blocks...)
	all = append(all, stable...)
	all = append(all, tail...)

	frozen := min(len(t.blocks)+stableCount, t.engine.Len())
	stats, err := t.engine.ReconcileFrom(frozen, all)
	if err != nil {
		return noStats, fmt.Errorf("reconcile stream: %w", err)
	}

	s.stableAt, s.stable = stableAt, stable

	t.logger.Debug("chunk reconciled", logging.FieldChunk, len(chunk), logging.FieldStable, frozen)
	return stats, nil
}

// EndStream finishes the streaming message. The whole message is parsed once
// more so the final blocks do not depend on where the boundaries fell.
func (t *Transcript) EndStream(ctx context.Context) error {
	if err := t.check(); err != nil {
		return err
	}
	if t.stream == nil {
		return ErrNotStreaming
	}

	s := t.stream
	text := s.text.String()
	descs, err := t.parser.Parse(ctx, []byte(text))
	if err != nil {
		return fmt.Errorf("parse message: %w", err)
	}

	all := append(slices.Clip(t.blocks), descs...)
	stats, err := t.engine.ReconcileFrom(len(t.blocks), all)
	if err != nil {
		return fmt.Errorf("reconcile message: %w", err)
	}

	t.messages = append(t.messages, Message{Role: s.role, Text: text, Start: len(t.blocks), Count: len(descs)})
	t.blocks = all
	t.stream = nil

	t.logger.Debug("stream ended",
		logging.FieldRole, s.role,
		logging.FieldBlocks, len(descs),
		logging.FieldChanged, stats.Changed,
		logging.FieldDivergence, stats.Divergence,
	)
	return nil
}

// Close tears the document down. Every host is destroyed and deregistered.
func (t *Transcript) Close() error {
	if t.closed {
		return nil
	}
	if err := t.engine.Close(); err != nil {
		return fmt.Errorf("close engine: %w", err)
	}
	t.closed = true
	t.stream = nil
	return nil
}

func (t *Transcript) check() error {
	if t.closed {
		return ErrClosed
	}
	return nil
}
