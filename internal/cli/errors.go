package cli

import (
	"errors"

	"github.com/alexanderramin/planflow/internal/domain"
	"github.com/alexanderramin/planflow/internal/repository"
)

// Exit codes by error kind.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitValidation = 2
	ExitForbidden  = 3
	ExitNotFound   = 4
	ExitConflict   = 5
)

// ExitCode maps a command error to the process exit code for its kind.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, domain.ErrValidation):
		return ExitValidation
	case errors.Is(err, domain.ErrForbidden):
		return ExitForbidden
	case errors.Is(err, repository.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, domain.ErrConflict):
		return ExitConflict
	default:
		return ExitFailure
	}
}

// ErrorKind names the kind of err for the error line printed to stderr.
func ErrorKind(err error) string {
	switch ExitCode(err) {
	case ExitValidation:
		return "invalid"
	case ExitForbidden:
		return "forbidden"
	case ExitNotFound:
		return "not found"
	case ExitConflict:
		return "conflict"
	default:
		return "error"
	}
}
