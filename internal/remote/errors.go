package remote

import (
	"errors"
	"fmt"
)

// The error taxonomy every Service implementation must map onto. Callers
// branch only on these values, never on transport detail.
var (
	// ErrUnavailable: the remote authority could not be reached. Triggers
	// local queueing / draft preservation, never a hard user error.
	ErrUnavailable = errors.New("remote service unavailable")

	// ErrAuthExpired: the session is no longer valid. The in-flight action
	// is aborted without side effects; re-login is the session layer's job.
	ErrAuthExpired = errors.New("authorization expired")

	// ErrForbidden: the authority refused the action. Not retryable.
	ErrForbidden = errors.New("forbidden")
)

// ServerError is a remote-side failure with an HTTP-ish status code.
// Local optimistic state is left alone; a later refetch is the source of
// truth for whatever the server actually did.
type ServerError struct {
	Status int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (status %d)", e.Status)
}

// IsServerError reports whether err is a ServerError.
func IsServerError(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}
