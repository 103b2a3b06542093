package reconcile

import (
	"errors"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/gomdview/internal/logging"
	"github.com/yaklabco/gomdview/pkg/block"
	"github.com/yaklabco/gomdview/pkg/selection"
)

// Errors returned by the engine.
var (
	ErrReentrant = errors.New("reconcile called while another reconcile is running")
	ErrNotAppend = errors.New("sequence does not extend the live collection")
	ErrClosed    = errors.New("engine is closed")
	ErrNilHost   = errors.New("factory returned a nil host")
)

// Option configures an Engine.
type Option func(*Engine)

// WithTracker registers selectable hosts with tracker.
func WithTracker(tracker *selection.Tracker) Option {
	return func(e *Engine) {
		e.tracker = tracker
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Engine owns the live host collection of one document.
//
// An Engine is single-writer: calls must not overlap. Overlapping or
// reentrant calls (for example from inside a host callback) fail with
// ErrReentrant and leave the collection untouched.
type Engine struct {
	factory Factory
	tracker *selection.Tracker
	logger  *log.Logger

	hosts  []Host
	busy   atomic.Bool
	closed bool
}

// New creates an engine with an empty live collection.
func New(factory Factory, opts ...Option) *Engine {
	e := &Engine{
		factory: factory,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reconcile updates the live collection to match seq, the full current
// descriptor sequence of the document.
func (e *Engine) Reconcile(seq []*block.Descriptor) (Stats, error) {
	return e.run(0, seq)
}

// Append is the streaming fast path. The caller asserts that seq[:Len()] is
// unchanged; only the new trailing descriptors get hosts.
func (e *Engine) Append(seq []*block.Descriptor) (Stats, error) {
	stable := len(e.hosts)
	if len(seq) < stable {
		return Stats{Divergence: -1}, fmt.Errorf("%w: %d descriptors for %d hosts", ErrNotAppend, len(seq), stable)
	}
	return e.run(stable, seq)
}

// ReconcileFrom is like Reconcile but skips the comparison of the first
// stable positions, which the caller asserts are unchanged.
func (e *Engine) ReconcileFrom(stable int, seq []*block.Descriptor) (Stats, error) {
	stable = max(stable, 0)
	if stable > len(seq) || stable > len(e.hosts) {
		return Stats{Divergence: -1}, fmt.Errorf("%w: stable prefix %d exceeds %d descriptors or %d hosts",
			ErrNotAppend, stable, len(seq), len(e.hosts))
	}
	return e.run(stable, seq)
}

// Len returns the number of live hosts.
func (e *Engine) Len() int {
	return len(e.hosts)
}

// At returns the host at position i.
func (e *Engine) At(i int) Host {
	return e.hosts[i]
}

// Hosts returns the live hosts in document order.
func (e *Engine) Hosts() []Host {
	return slices.Clone(e.hosts)
}

// Index returns the current position of h, or -1.
func (e *Engine) Index(h Host) int {
	return slices.Index(e.hosts, h)
}

// Close tears the document down, destroying every host from the tail
// backward. Closing a closed engine does nothing.
func (e *Engine) Close() error {
	if !e.busy.CompareAndSwap(false, true) {
		return ErrReentrant
	}
	defer e.busy.Store(false)

	if e.closed {
		return nil
	}
	removed := e.truncate(0)
	e.closed = true

	e.logger.Debug("engine closed", logging.FieldRemoved, removed)
	return nil
}

func (e *Engine) run(stable int, seq []*block.Descriptor) (Stats, error) {
	stats := Stats{Divergence: -1}

	if !e.busy.CompareAndSwap(false, true) {
		return stats, ErrReentrant
	}
	defer e.busy.Store(false)

	if e.closed {
		return stats, ErrClosed
	}
	if err := block.Validate(seq); err != nil {
		return stats, fmt.Errorf("validate sequence: %w", err)
	}

	// Classify the overlapping positions. Refreshes are deferred until every
	// new host exists so a failure leaves the collection untouched.
	stats.Unchanged = stable
	overlap := min(len(e.hosts), len(seq))
	cut := overlap
	var changed []int
	for i := stable; i < overlap; i++ {
		switch block.Compare(e.hosts[i].Descriptor(), seq[i]) {
		case block.ChangeNone:
			stats.Unchanged++
		case block.ChangeContent:
			changed = append(changed, i)
		case block.ChangeStructural:
			stats.Divergence = i
			cut = i
		}
		if stats.Divergence >= 0 {
			break
		}
	}

	// Replacements are created before the diverged tail is destroyed, the
	// reverse of a plain destroy-then-create, so a failed creation can be
	// rolled back without losing the old tail.
	created, err := e.create(seq[cut:])
	if err != nil {
		return Stats{Divergence: -1}, err
	}

	for _, i := range changed {
		e.hosts[i].Refresh(seq[i])
	}
	stats.Changed = len(changed)
	stats.Removed = e.truncate(cut)
	stats.Inserted = len(created)
	e.hosts = append(e.hosts, created...)

	e.position()

	e.logger.Debug("reconciled",
		logging.FieldBlocks, len(seq),
		logging.FieldStable, stable,
		logging.FieldUnchanged, stats.Unchanged,
		logging.FieldChanged, stats.Changed,
		logging.FieldInserted, stats.Inserted,
		logging.FieldRemoved, stats.Removed,
		logging.FieldDivergence, stats.Divergence,
	)
	return stats, nil
}

// create builds and registers hosts for descs. On failure every host it
// created is deregistered and destroyed again.
func (e *Engine) create(descs []*block.Descriptor) ([]Host, error) {
	if len(descs) == 0 {
		return nil, nil
	}

	created := make([]Host, 0, len(descs))
	rollback := func() {
		for i := len(created) - 1; i >= 0; i-- {
			e.release(created[i])
		}
	}

	for i, d := range descs {
		host := e.factory.NewHost(d)
		if host == nil {
			rollback()
			return nil, fmt.Errorf("create host for %s: %w", d.Kind(), ErrNilHost)
		}
		if unit, ok := host.(selection.Unit); ok && e.tracker != nil {
			if err := e.tracker.AddUnit(unit); err != nil {
				host.Destroy()
				rollback()
				return nil, fmt.Errorf("register host %d: %w", len(e.hosts)+i, err)
			}
		}
		created = append(created, host)
	}
	return created, nil
}

// truncate removes hosts from position cut onward, tail first, and returns
// how many were removed.
func (e *Engine) truncate(cut int) int {
	removed := 0
	for i := len(e.hosts) - 1; i >= cut; i-- {
		e.release(e.hosts[i])
		e.hosts[i] = nil
		removed++
	}
	e.hosts = e.hosts[:cut]
	return removed
}

// release deregisters h and destroys it.
func (e *Engine) release(h Host) {
	if unit, ok := h.(selection.Unit); ok && e.tracker != nil {
		e.tracker.RemoveUnit(unit)
	}
	h.Destroy()
}

func (e *Engine) position() {
	last := len(e.hosts) - 1
	for i, h := range e.hosts {
		h.Position(i == 0, i == last)
	}
}
