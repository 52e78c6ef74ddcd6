// Package errs holds the error taxonomy shared by the accident and user services.
// Callers wrap these with fmt.Errorf("%w: ...") and match with errors.Is.
package errs

import "errors"

var (
	// ErrValidation rejects input before any mutation.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound reports an unknown accident or user id.
	ErrNotFound = errors.New("not found")
	// ErrStorage reports that the backing store could not serve the request.
	ErrStorage = errors.New("storage unavailable")
	// ErrInvalidTransition reports a status change the lifecycle does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")
)
