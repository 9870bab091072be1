package models

import (
	"fmt"

	"github.com/google/uuid"
)

// ID identifies a server-backed record. An ID is either confirmed (the
// remote authority has assigned a numeric identifier) or pending (the record
// was created locally and carries an opaque token until the authority
// confirms it). The zero ID is neither and means "no record".
//
// IDs are comparable; two records are the same record iff their IDs are equal.
type ID struct {
	value int64
	token string
}

// ConfirmedID wraps a server-assigned numeric identifier.
func ConfirmedID(n int64) ID {
	return ID{value: n}
}

// NewPendingID returns a fresh pending ID with a random token.
func NewPendingID() ID {
	return ID{token: uuid.NewString()}
}

// PendingID wraps an existing local token, e.g. a draft's storage key, so a
// locally held record can be matched up after the authority confirms it.
func PendingID(token string) ID {
	return ID{token: token}
}

// IsPending reports whether the record has not yet been confirmed by the
// remote authority. Actions against a pending record must be refused: the
// authority does not know it exists.
func (id ID) IsPending() bool {
	return id.token != ""
}

// IsZero reports whether the ID identifies nothing.
func (id ID) IsZero() bool {
	return id.value == 0 && id.token == ""
}

// Value returns the server-assigned identifier. ok is false for pending and
// zero IDs.
func (id ID) Value() (n int64, ok bool) {
	if id.IsPending() || id.IsZero() {
		return 0, false
	}
	return id.value, true
}

// Token returns the local token of a pending ID, or "".
func (id ID) Token() string {
	return id.token
}

func (id ID) String() string {
	switch {
	case id.IsPending():
		return "pending:" + id.token
	case id.IsZero():
		return "none"
	default:
		return fmt.Sprintf("%d", id.value)
	}
}
