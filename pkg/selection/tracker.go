package selection

import (
	"errors"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/gomdview/internal/logging"
)

// Errors returned by AddUnit.
var (
	ErrNilUnit             = errors.New("nil selectable unit")
	ErrAlreadyRegistered   = errors.New("unit already registered with this tracker")
	ErrRegisteredElsewhere = errors.New("unit registered with another tracker")
)

// Point is a position inside a registered unit.
type Point struct {
	Key    Key
	Offset int
}

// Span is one selecting unit together with its local range.
type Span struct {
	Unit  Unit
	Start int
	End   int
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *log.Logger) Option {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// Tracker owns the registry of selectable units and is the only writer of
// their keys and selection ranges.
//
// A Tracker is not safe for concurrent use. All calls must come from the
// goroutine that owns the document.
type Tracker struct {
	next      Key
	units     []Unit // registration order; keys are strictly increasing
	selecting int
	logger    *log.Logger
}

// NewTracker creates an empty tracker.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		next:   1,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// AddUnit registers u and assigns it a fresh key.
func (t *Tracker) AddUnit(u Unit) error {
	if u == nil {
		return ErrNilUnit
	}
	state := u.Selection()
	if state == nil {
		return ErrNilUnit
	}
	switch state.tracker {
	case nil:
	case t:
		return ErrAlreadyRegistered
	default:
		return ErrRegisteredElsewhere
	}

	state.key = t.next
	state.tracker = t
	state.clear()
	t.next++
	t.units = append(t.units, u)

	t.logger.Debug("unit registered", logging.FieldKey, state.key, logging.FieldUnits, len(t.units))
	return nil
}

// RemoveUnit deregisters u, resetting its key to zero and clearing its
// selection. Removing a unit that is not registered here does nothing.
func (t *Tracker) RemoveUnit(u Unit) {
	if u == nil {
		return
	}
	state := u.Selection()
	if state == nil || state.tracker != t {
		return
	}

	if idx, ok := t.find(state.key); ok {
		t.units = slices.Delete(t.units, idx, idx+1)
	}
	if state.selecting {
		t.selecting--
	}

	t.logger.Debug("unit deregistered", logging.FieldKey, state.key, logging.FieldUnits, len(t.units))

	state.key = 0
	state.tracker = nil
	state.clear()
}

// Contains reports whether u is currently registered with t.
func (t *Tracker) Contains(u Unit) bool {
	if u == nil {
		return false
	}
	state := u.Selection()
	return state != nil && state.tracker == t
}

// Len returns the number of registered units.
func (t *Tracker) Len() int {
	return len(t.units)
}

// Units returns the registered units in registration order.
func (t *Tracker) Units() []Unit {
	return slices.Clone(t.units)
}

// Lookup returns the unit registered under key.
func (t *Tracker) Lookup(key Key) (Unit, bool) {
	idx, ok := t.find(key)
	if !ok {
		return nil, false
	}
	return t.units[idx], true
}

// SelectNone clears the selection on every selecting unit and reports
// whether any unit changed.
func (t *Tracker) SelectNone() bool {
	if t.selecting == 0 {
		return false
	}
	changed := false
	for _, u := range t.units {
		if u.Selection().clear() {
			changed = true
		}
	}
	t.selecting = 0
	return changed
}

// SelectAll selects the whole content of every registered unit and reports
// whether any unit changed.
func (t *Tracker) SelectAll() bool {
	changed := false
	for _, u := range t.units {
		if u.Selection().set(0, u.TextLength()) {
			changed = true
		}
	}
	t.selecting = len(t.units)

	t.logger.Debug("select all", logging.FieldSelected, t.selecting, "changed", changed)
	return changed
}

// Select clears the prior selection and then selects, over their full
// content, the units whose keys fall within [min(start,end), max(start,end)].
// Stale keys are skipped. It returns the number of units selected.
func (t *Tracker) Select(start, end Key) int {
	if start > end {
		start, end = end, start
	}

	count := 0
	for _, u := range t.units {
		state := u.Selection()
		if state.key < start || state.key > end {
			state.clear()
			continue
		}
		state.set(0, u.TextLength())
		count++
	}
	t.selecting = count

	t.logger.Debug("select range", "start", start, "end", end, logging.FieldSelected, count)
	return count
}

// SelectUnit selects the single unit registered under key.
func (t *Tracker) SelectUnit(key Key) int {
	return t.Select(key, key)
}

// SelectSpan selects a partial range running from one point to another:
// the first unit from its offset to its end, the last unit from its start to
// its offset and every unit in between entirely. Points are normalized so the
// earlier one comes first and offsets are clamped to the unit's length.
//
// If either key is stale the selection is cleared and zero is returned.
func (t *Tracker) SelectSpan(from, to Point) int {
	if to.Key < from.Key || (to.Key == from.Key && to.Offset < from.Offset) {
		from, to = to, from
	}

	first, okFirst := t.find(from.Key)
	last, okLast := t.find(to.Key)
	if !okFirst || !okLast {
		t.SelectNone()
		return 0
	}

	count := 0
	for idx, u := range t.units {
		state := u.Selection()
		if idx < first || idx > last {
			state.clear()
			continue
		}

		length := u.TextLength()
		lo, hi := 0, length
		if idx == first {
			lo = clamp(from.Offset, length)
		}
		if idx == last {
			hi = clamp(to.Offset, length)
		}
		state.set(lo, hi)
		count++
	}
	t.selecting = count

	t.logger.Debug("select span", "from", from.Key, "to", to.Key, logging.FieldSelected, count)
	return count
}

// Selected returns the selecting units and their ranges in registration
// order.
func (t *Tracker) Selected() []Span {
	if t.selecting == 0 {
		return nil
	}
	spans := make([]Span, 0, t.selecting)
	for _, u := range t.units {
		state := u.Selection()
		if !state.selecting {
			continue
		}
		spans = append(spans, Span{Unit: u, Start: state.start, End: state.end})
	}
	return spans
}

// find locates key with a binary search, since keys are assigned in
// registration order.
func (t *Tracker) find(key Key) (int, bool) {
	if key == 0 {
		return 0, false
	}
	return slices.BinarySearchFunc(t.units, key, func(u Unit, k Key) int {
		switch uk := u.Selection().key; {
		case uk < k:
			return -1
		case uk > k:
			return 1
		default:
			return 0
		}
	})
}

func clamp(offset, length int) int {
	return max(0, min(offset, length))
}
