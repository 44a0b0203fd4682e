package core

import (
	"errors"
	"fmt"
)

// Sentinel errors of the reconciliation engine. The HTTP layer maps these to
// status codes in exactly one place.
var (
	ErrUnauthorized         = errors.New("unauthorized")
	ErrNotFound             = errors.New("not found")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidType          = errors.New("invalid transaction type")
	ErrEmptyDescription     = errors.New("empty description")
	ErrInvalidInstallment   = errors.New("installment index out of range")
	ErrTooManyInstallments  = errors.New("too many installments: maximum is 48")
	ErrInvalidStructure     = errors.New("invalid backup structure: version, createdAt, payload and checksum are required")
	ErrIncompatibleVersion  = errors.New("incompatible version")
	ErrChecksumMismatch     = errors.New("invalid checksum: payload does not match the sealed checksum")
	ErrConfirmationRequired = errors.New("confirmation required: set confirmDelete=true to replace existing data")
)

// ValidationFailedError aggregates every field-level error of a request,
// grouped by resource kind. Nothing is written when it is returned.
type ValidationFailedError struct {
	Errors map[string][]ValidationError
}

func (e *ValidationFailedError) Error() string {
	total := 0
	for _, errs := range e.Errors {
		total += len(errs)
	}
	return fmt.Sprintf("validation failed: %d error(s) across %d resource kind(s)", total, len(e.Errors))
}

// StorageError wraps a persistence collaborator failure with the resource
// and action it happened on. The engine never retries these.
type StorageError struct {
	Resource string
	Action   string
	Err      error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Action, e.Resource, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
