// Package apperr defines the error taxonomy shared by services and handlers.
// Handlers map these to HTTP statuses; services wrap them with context via %w.
package apperr

import "errors"

var (
	// ErrNotFound means the referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrPrecondition means a structural transition guard failed
	// (e.g. approving from draft, or an approver not in the assigned list).
	ErrPrecondition = errors.New("precondition failed")

	// ErrPermission means the actor's role lacks the required capability.
	ErrPermission = errors.New("permission denied")

	// ErrConflict means a concurrent update invalidated the expected prior
	// state. The caller may re-read and retry; the service layer never does.
	ErrConflict = errors.New("conflicting concurrent update")
)
