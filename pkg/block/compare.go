package block

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Change classifies how the descriptor at one position differs between two
// parse cycles.
type Change uint8

const (
	// ChangeNone means same kind and same content fingerprint.
	ChangeNone Change = iota

	// ChangeContent means same kind with a different fingerprint.
	ChangeContent

	// ChangeStructural means the kinds differ.
	ChangeStructural
)

// String returns a human-readable name for the change.
func (c Change) String() string {
	switch c {
	case ChangeNone:
		return "unchanged"
	case ChangeContent:
		return "changed"
	case ChangeStructural:
		return "structural"
	default:
		return "unknown"
	}
}

// Compare classifies next against prev. Both must be non-nil.
func Compare(prev, next *Descriptor) Change {
	if prev.kind != next.kind {
		return ChangeStructural
	}
	if prev.fingerprint != next.fingerprint {
		return ChangeContent
	}
	return ChangeNone
}

// Errors reported by Validate.
var (
	ErrNilDescriptor = errors.New("nil block descriptor")
	ErrInvalidKind   = errors.New("invalid block kind")
)

// IndexError reports a malformed entry in a descriptor sequence.
type IndexError struct {
	Index int
	Err   error
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	return fmt.Sprintf("descriptor %d: %v", e.Index, e.Err)
}

// Unwrap returns the underlying sentinel error.
func (e *IndexError) Unwrap() error {
	return e.Err
}

// Validate checks that every entry of seq is a non-nil descriptor with a
// valid kind. It reports the first violation as an *IndexError.
func Validate(seq []*Descriptor) error {
	for i, d := range seq {
		if d == nil {
			return &IndexError{Index: i, Err: ErrNilDescriptor}
		}
		if !d.kind.Valid() {
			return &IndexError{Index: i, Err: ErrInvalidKind}
		}
	}
	return nil
}

// fingerprint hashes every content field. Strings are length-prefixed so
// that adjacent fields cannot alias each other.
func fingerprint(content *Content) uint64 {
	digest := xxhash.New()
	var scratch [8]byte

	writeInt := func(n int) {
		binary.LittleEndian.PutUint64(scratch[:], uint64(n))
		_, _ = digest.Write(scratch[:])
	}
	writeString := func(s string) {
		writeInt(len(s))
		_, _ = digest.WriteString(s)
	}
	writeBool := func(b bool) {
		if b {
			writeInt(1)
		} else {
			writeInt(0)
		}
	}

	writeString(content.Text)
	writeString(content.Source)
	writeString(content.Language)
	writeBool(content.LanguageDetected)
	writeInt(content.Level)
	writeInt(content.Depth)
	writeBool(content.Ordered)
	writeInt(content.Number)
	writeBool(content.Task)
	writeBool(content.Checked)

	writeInt(len(content.Rows))
	for _, row := range content.Rows {
		writeInt(len(row))
		for _, cell := range row {
			writeString(cell)
		}
	}
	writeInt(len(content.Align))
	for _, align := range content.Align {
		writeInt(int(align))
	}

	return digest.Sum64()
}
