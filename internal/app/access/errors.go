package access

import (
	"errors"
	"fmt"
)

// Error taxonomy of the core. All failures are plain return values; nothing
// here is fatal to the process, and every failure is local to one request.
var (
	// ErrNotFound: a referenced group, user, topic, or comment is absent.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition: the requested membership state change is not
	// legal from the current state. Never silently coerced.
	ErrInvalidTransition = errors.New("invalid membership transition")

	// ErrConflict: the atomic compare-and-set failed because a concurrent
	// actor changed the membership first. Callers may retry the whole
	// operation; the core does not auto-retry.
	ErrConflict = errors.New("membership changed concurrently")
)

// PermissionError is a policy denial surfaced as an error. It carries the
// action and the structured reason so the boundary layer can translate it
// without re-deriving the logic.
type PermissionError struct {
	Action Action
	Reason Reason
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: %s (%s)", e.Action, e.Reason)
}

// Denied wraps a deny decision for an action into a PermissionError.
func Denied(action Action, reason Reason) *PermissionError {
	return &PermissionError{Action: action, Reason: reason}
}

// DeniedReason extracts the structured reason from an error chain, if the
// error is (or wraps) a policy denial.
func DeniedReason(err error) (Reason, bool) {
	var pe *PermissionError
	if errors.As(err, &pe) {
		return pe.Reason, true
	}
	return "", false
}
