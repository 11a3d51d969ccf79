// Package apperr holds the error kinds shared by the board engine and its callers.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// ErrAddressResolution marks a board address that does not name a board.
	ErrAddressResolution = errors.New("cannot resolve board address")
	// ErrUnknownBoard is an address resolution failure at the registry step.
	ErrUnknownBoard = errors.New("unknown board")

	ErrLaneBoundary = errors.New("edge of board")
	ErrInvalidName  = errors.New("invalid item name")
)

// IsRecoverable reports whether err aborts only the current operation.
// Recoverable errors are printed and the board is still displayed; any
// other error ends the invocation.
func IsRecoverable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrAddressResolution) || errors.Is(err, ErrUnknownBoard) {
		return false
	}
	var c *CollisionError
	if errors.As(err, &c) {
		return false
	}
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrLaneBoundary) ||
		errors.Is(err, ErrInvalidName) ||
		errors.Is(err, ErrAlreadyExists)
}

// CollisionError reports a filesystem destination that is already taken.
// It unwraps to ErrAlreadyExists but is never recoverable: it means the
// board is in a state the lifecycle operations do not expect.
type CollisionError struct {
	Path string
}

func (e *CollisionError) Error() string {
	return "destination exists: " + e.Path
}

func (e *CollisionError) Unwrap() error { return ErrAlreadyExists }
