// Package selection tracks text selection across independently rendered
// units. Each registered unit gets a key from its Tracker; range selection is
// expressed over keys so the tracker never needs to know what rendering
// technology backs a unit.
package selection

// Key identifies a registered unit. Zero means "not registered".
type Key uint64

// Unit is implemented by anything that exposes selectable text.
//
// Selection returns the unit's selection facet. The facet's fields can only
// be written by this package, which makes the Tracker the sole writer of
// keys and selection ranges; the unit reads them to draw highlights.
type Unit interface {
	// TextLength returns the current plain-text length in characters.
	TextLength() int

	// Selection returns the unit's selection state. It must return the same
	// pointer for the lifetime of the unit.
	Selection() *State
}

// TextUnit is a Unit that can also return its plain text, used to build
// the copied text of a selection.
type TextUnit interface {
	Unit
	PlainText() string
}

// State is the per-unit selection facet. The zero value is an unregistered,
// unselected unit.
type State struct {
	key       Key
	tracker   *Tracker
	selecting bool
	start     int
	end       int
}

// Key returns the unit's track key, or zero when unregistered.
func (s *State) Key() Key {
	return s.key
}

// Tracker returns the tracker the unit is registered with, or nil.
func (s *State) Tracker() *Tracker {
	return s.tracker
}

// HasSelection reports whether the unit is part of the current selection.
func (s *State) HasSelection() bool {
	return s.selecting
}

// Range returns the selected local character range [start, end).
// It is meaningful only when HasSelection is true.
func (s *State) Range() (int, int) {
	return s.start, s.end
}

// set updates the selection and reports whether anything changed.
func (s *State) set(start, end int) bool {
	if s.selecting && s.start == start && s.end == end {
		return false
	}
	s.selecting = true
	s.start = start
	s.end = end
	return true
}

// clear drops the selection and reports whether anything changed.
func (s *State) clear() bool {
	if !s.selecting {
		return false
	}
	s.selecting = false
	s.start = 0
	s.end = 0
	return true
}
