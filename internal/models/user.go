package models

// Capability is a closed enumeration of the permissions a user can hold.
// Using typed constants instead of free-form strings means a misspelled
// capability is a compile error, not a silently failing authorization check.
type Capability string

const (
	CapRespondRFI    Capability = "rfi.respond"
	CapEditRFI       Capability = "rfi.edit"
	CapManageRFI     Capability = "rfi.manage"
	CapCloseRFI      Capability = "rfi.close"
	CapManageProject Capability = "project.manage"
	CapReviewMarkup  Capability = "markup.review"
	CapDeleteMarkup  Capability = "markup.delete"
)

// User is the acting user, passed explicitly into every mutating operation
// rather than read from ambient session state.
type User struct {
	ID           int64
	Name         string
	Capabilities []Capability
}

// Has reports whether the user holds the given capability.
func (u User) Has(c Capability) bool {
	for _, have := range u.Capabilities {
		if have == c {
			return true
		}
	}
	return false
}
