package models

import "time"

// RFIStatus is the workflow state of an RFI.
type RFIStatus string

const (
	RFIDraftStatus RFIStatus = "draft"
	RFISubmitted   RFIStatus = "submitted"
	RFIInReview    RFIStatus = "in_review"
	RFIResponded   RFIStatus = "responded"
	RFIClosed      RFIStatus = "closed"
)

// CanTransition reports whether the workflow allows moving from s to next.
// draft → submitted → {in_review, responded} → closed; closed is terminal.
func (s RFIStatus) CanTransition(next RFIStatus) bool {
	switch s {
	case RFIDraftStatus:
		return next == RFISubmitted
	case RFISubmitted:
		return next == RFIInReview || next == RFIResponded || next == RFIClosed
	case RFIInReview:
		return next == RFIResponded || next == RFIClosed
	case RFIResponded:
		return next == RFIInReview || next == RFIClosed
	default:
		return false
	}
}

// ResponseStatus is the review state of an RFI response.
type ResponseStatus string

const (
	ResponsePending  ResponseStatus = "pending"
	ResponseApproved ResponseStatus = "approved"
	ResponseRejected ResponseStatus = "rejected"
)

// Terminal reports whether the status admits no further transition.
func (s ResponseStatus) Terminal() bool {
	return s == ResponseApproved || s == ResponseRejected
}

// Attachment references an uploaded file.
type Attachment struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// RFIResponse is one answer to an RFI. Created pending; a reviewer moves it
// to approved or rejected, both terminal.
type RFIResponse struct {
	ID           ID
	Content      string
	AuthorID     int64
	Status       ResponseStatus
	RejectReason string
	CreatedAt    time.Time
}

// RecordID implements buffer.Identified.
func (r RFIResponse) RecordID() ID { return r.ID }

// RFI is a request for information against a project.
type RFI struct {
	ID                 ID
	Number             int
	ProjectID          int64
	Title              string
	Description        string
	Query              string
	Status             RFIStatus
	ManagerID          int64
	AssignedUserIDs    []int64
	ReturnDate         time.Time
	CreatedAt          time.Time
	ClosedAt           time.Time // zero while open
	Attachments        []Attachment
	DrawingIDs         []int64
	Responses          []RFIResponse
	AcceptedResponseID ID // zero until a response is accepted
}

// RecordID implements buffer.Identified.
func (r RFI) RecordID() ID { return r.ID }

// IsAssigned reports whether the user is on the RFI's assignee list.
func (r RFI) IsAssigned(userID int64) bool {
	for _, id := range r.AssignedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Response returns the response with the given id, if present.
func (r RFI) Response(id ID) (RFIResponse, bool) {
	for _, resp := range r.Responses {
		if resp.ID == id {
			return resp, true
		}
	}
	return RFIResponse{}, false
}

// WithResponse returns a copy of the RFI with the response at the same ID
// replaced, or appended if absent.
func (r RFI) WithResponse(resp RFIResponse) RFI {
	out := r
	out.Responses = make([]RFIResponse, len(r.Responses))
	copy(out.Responses, r.Responses)
	for i, have := range out.Responses {
		if have.ID == resp.ID {
			out.Responses[i] = resp
			return out
		}
	}
	out.Responses = append(out.Responses, resp)
	return out
}
