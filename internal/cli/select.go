package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/gomdview/pkg/selection"
)

// ErrInvalidSelection is returned for a malformed --select expression.
var ErrInvalidSelection = errors.New("invalid selection")

// applySelection applies a selection expression to t and returns the number
// of units selected. Accepted forms:
//
//	all | none      every unit, or nothing
//	K               the unit with key K
//	K1..K2          the units with keys K1 through K2
//	K1:O1..K2:O2    from rune offset O1 of K1 to rune offset O2 of K2
func applySelection(t *selection.Tracker, expr string) (int, error) {
	expr = strings.TrimSpace(expr)

	switch expr {
	case "":
		return 0, nil
	case "all":
		t.SelectAll()
		return t.Len(), nil
	case "none":
		t.SelectNone()
		return 0, nil
	}

	from, to, isRange := strings.Cut(expr, "..")
	if !isRange {
		key, err := parseKey(t, expr)
		if err != nil {
			return 0, err
		}
		return t.SelectUnit(key), nil
	}

	fromKey, fromOff, fromPoint := strings.Cut(from, ":")
	toKey, toOff, toPoint := strings.Cut(to, ":")
	if fromPoint != toPoint {
		return 0, fmt.Errorf("%w: %q mixes keys and points", ErrInvalidSelection, expr)
	}

	start, err := parseKey(t, fromKey)
	if err != nil {
		return 0, err
	}
	end, err := parseKey(t, toKey)
	if err != nil {
		return 0, err
	}
	if !fromPoint {
		return t.Select(start, end), nil
	}

	startOff, err := parseOffset(fromOff)
	if err != nil {
		return 0, err
	}
	endOff, err := parseOffset(toOff)
	if err != nil {
		return 0, err
	}
	return t.SelectSpan(
		selection.Point{Key: start, Offset: startOff},
		selection.Point{Key: end, Offset: endOff},
	), nil
}

// parseKey parses a unit key and checks that t holds it.
func parseKey(t *selection.Tracker, s string) (selection.Key, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w: key %q must be a positive integer", ErrInvalidSelection, s)
	}
	key := selection.Key(n)
	if _, ok := t.Lookup(key); !ok {
		return 0, fmt.Errorf("%w: no block with key %d", ErrInvalidSelection, key)
	}
	return key, nil
}

func parseOffset(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: offset %q must be a non-negative integer", ErrInvalidSelection, s)
	}
	return n, nil
}
