// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError  = "error"
	FieldPath   = "path"
	FieldPaths  = "paths"
	FieldInput  = "input"
	FieldOutput = "output"

	// Configuration fields.
	FieldFlavor = "flavor"
	FieldWidth  = "width"
	FieldStyle  = "style"
	FieldConfig = "config"

	// Block and host fields.
	FieldKind     = "kind"
	FieldPosition = "position"
	FieldBlocks   = "blocks"
	FieldHosts    = "hosts"
	FieldLanguage = "language"

	// Reconciliation statistics.
	FieldUnchanged  = "unchanged"
	FieldChanged    = "changed"
	FieldInserted   = "inserted"
	FieldRemoved    = "removed"
	FieldDivergence = "divergence"
	FieldStable     = "stable"

	// Selection fields.
	FieldKey      = "key"
	FieldUnits    = "units"
	FieldSelected = "selected"
	FieldMethod   = "method"

	// Transcript fields.
	FieldMessage  = "message"
	FieldRole     = "role"
	FieldBoundary = "boundary"
	FieldChunk    = "chunk"
	FieldChunks   = "chunks"
	FieldDelay    = "delay"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
