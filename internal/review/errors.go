package review

import "errors"

var (
	// ErrInvalidRating indicates a rating outside hard/ok/easy.
	ErrInvalidRating = errors.New("invalid rating")

	// ErrItemNotFound indicates the review item does not exist.
	ErrItemNotFound = errors.New("review item not found")

	// ErrSessionNotFound indicates the review session does not exist.
	ErrSessionNotFound = errors.New("review session not found")

	// ErrItemInactive indicates the item was deactivated and cannot be reviewed.
	ErrItemInactive = errors.New("review item is inactive")

	// ErrSessionClosed indicates the session has already been completed.
	ErrSessionClosed = errors.New("review session already closed")

	// ErrConflict indicates a concurrent submission touched the same item or
	// session. The caller decides whether to retry the whole operation.
	ErrConflict = errors.New("concurrent review submission conflict")
)
