// Package perm is the permission evaluator: pure functions mapping
// (user, entity) to allowed actions. No I/O, no ambient state; the acting
// user is always an explicit argument. Every mutating service operation
// calls the matching evaluator before touching local or remote state.
package perm

import "github.com/planmark/planmark/internal/models"

// CanRespond reports whether the user may add a response to the RFI:
// assigned with the respond capability, or any manage-RFI holder.
func CanRespond(u models.User, r models.RFI) bool {
	if u.Has(models.CapManageRFI) {
		return true
	}
	return r.IsAssigned(u.ID) && u.Has(models.CapRespondRFI)
}

// CanReview reports whether the user may approve or reject responses:
// the RFI's manager, or a manage-RFI holder.
func CanReview(u models.User, r models.RFI) bool {
	return u.ID == r.ManagerID || u.Has(models.CapManageRFI)
}

// CanEdit reports whether the user may edit the RFI.
func CanEdit(u models.User, r models.RFI) bool {
	if u.ID == r.ManagerID || u.Has(models.CapManageRFI) {
		return true
	}
	return r.IsAssigned(u.ID) && u.Has(models.CapEditRFI)
}

// CanClose reports whether the user may close the RFI. Closing additionally
// requires that a response has already been accepted.
func CanClose(u models.User, r models.RFI) bool {
	if !HasAcceptedResponse(r) {
		return false
	}
	return u.ID == r.ManagerID || u.Has(models.CapManageRFI) || u.Has(models.CapCloseRFI)
}

// HasAcceptedResponse reports whether the RFI already has an approved answer.
func HasAcceptedResponse(r models.RFI) bool {
	if !r.AcceptedResponseID.IsZero() {
		return true
	}
	for _, resp := range r.Responses {
		if resp.Status == models.ResponseApproved {
			return true
		}
	}
	return false
}

// ShouldOfferAddDrawing reports whether the "link a drawing" action should be
// offered. While the RFI is still a draft this follows CanEdit; once it has
// left draft state only project managers may alter its drawing set, so mere
// assignees cannot tamper with a submitted RFI.
func ShouldOfferAddDrawing(u models.User, r models.RFI) bool {
	if r.Status == models.RFIDraftStatus {
		return CanEdit(u, r)
	}
	return u.Has(models.CapManageProject)
}

// CanPublishMarkup reports whether the user may move the markup from draft
// to published: its creator, or a review/manage holder.
func CanPublishMarkup(u models.User, m models.Markup) bool {
	return u.ID == m.CreatorID || u.Has(models.CapReviewMarkup) || u.Has(models.CapManageProject)
}

// CanDeleteMarkup reports whether the user may delete the markup. Once
// published, deletion requires the delete capability regardless of who
// created it.
func CanDeleteMarkup(u models.User, m models.Markup) bool {
	if m.Status == models.MarkupPublished {
		return u.Has(models.CapDeleteMarkup)
	}
	return u.ID == m.CreatorID || u.Has(models.CapDeleteMarkup)
}
