package models

import "time"

// RFIDraft is a complete, not-yet-submitted RFI creation payload held in
// local durable storage. It is owned by the draft store and deleted only
// after the remote authority has confirmed the created RFI.
type RFIDraft struct {
	LocalID         string    `json:"local_id"`
	ProjectID       int64     `json:"project_id"`
	Title           string    `json:"title"`
	Query           string    `json:"query"`
	ManagerID       int64     `json:"manager_id"`
	AssignedUserIDs []int64   `json:"assigned_user_ids"`
	ReturnDate      time.Time `json:"return_date"`
	FilePaths       []string  `json:"file_paths"`
	DrawingIDs      []int64   `json:"drawing_ids"`
	CreatedAt       time.Time `json:"created_at"`
}

// AsRFI renders the draft as a synthetic RFI for display alongside
// server-fetched ones: Draft status, no number, and a pending ID carrying
// the draft's storage key so a later submission can be matched back to it.
func (d RFIDraft) AsRFI() RFI {
	return RFI{
		ID:              PendingID(d.LocalID),
		ProjectID:       d.ProjectID,
		Title:           d.Title,
		Query:           d.Query,
		Status:          RFIDraftStatus,
		ManagerID:       d.ManagerID,
		AssignedUserIDs: d.AssignedUserIDs,
		ReturnDate:      d.ReturnDate,
		CreatedAt:       d.CreatedAt,
		DrawingIDs:      d.DrawingIDs,
	}
}
