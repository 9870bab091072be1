package services

import "errors"

var (
	// ErrValidation: the input is locally malformed and was never sent to
	// the remote authority.
	ErrValidation = errors.New("validation error")

	// ErrNotPermitted: the permission evaluator refused the action.
	ErrNotPermitted = errors.New("not permitted")

	// ErrNotFound: the target record is not in the visible collection.
	ErrNotFound = errors.New("not found")

	// ErrNotSynced: the target still carries a pending ID; the remote
	// authority does not know it exists, so acting on it is meaningless.
	ErrNotSynced = errors.New("record not yet confirmed by server")

	// ErrNoAcceptedResponse: an RFI cannot close before one of its
	// responses has been accepted.
	ErrNoAcceptedResponse = errors.New("accept a response first")
)
