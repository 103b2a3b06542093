package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/gomdview/internal/configloader"
)

// Exit codes for gomdview.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitFailure indicates a failure without a more specific code.
	ExitFailure = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	var vErr *configloader.ValidationError
	var pathErr *fs.PathError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrInvalidSelection), errors.Is(err, ErrInvalidFlag):
		return ExitInvalidUsage
	case errors.As(err, &vErr), errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.As(err, &pathErr):
		return ExitIOError
	default:
		return ExitFailure
	}
}
