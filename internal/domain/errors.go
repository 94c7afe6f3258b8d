package domain

import "errors"

// Error kinds surfaced by the workflow. Callers match them with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
)
