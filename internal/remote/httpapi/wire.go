package httpapi

import (
	"time"

	"github.com/planmark/planmark/internal/models"
)

// Wire DTOs for the backend JSON API. The domain structs stay tag-free; this
// package owns the mapping, the same way the transport layer owns its
// message types.

type wireMarkup struct {
	ID            int64               `json:"id"`
	DrawingID     int64               `json:"drawing_id"`
	DrawingFileID int64               `json:"drawing_file_id"`
	Page          int                 `json:"page"`
	Type          models.MarkupType   `json:"type"`
	Bounds        models.Bounds       `json:"bounds"`
	Text          string              `json:"text,omitempty"`
	Color         string              `json:"color"`
	Opacity       float64             `json:"opacity"`
	StrokeWidth   float64             `json:"stroke_width"`
	Status        models.MarkupStatus `json:"status"`
	GroupID       int64               `json:"group_id,omitempty"`
	GroupTitle    string              `json:"group_title,omitempty"`
	CreatorID     int64               `json:"creator_id"`
	CreatedAt     time.Time           `json:"created_at"`
}

func (w wireMarkup) toModel() models.Markup {
	return models.Markup{
		ID:            models.ConfirmedID(w.ID),
		DrawingID:     w.DrawingID,
		DrawingFileID: w.DrawingFileID,
		Page:          w.Page,
		Type:          w.Type,
		Bounds:        w.Bounds,
		Text:          w.Text,
		Color:         w.Color,
		Opacity:       w.Opacity,
		StrokeWidth:   w.StrokeWidth,
		Status:        w.Status,
		GroupID:       w.GroupID,
		GroupTitle:    w.GroupTitle,
		CreatorID:     w.CreatorID,
		CreatedAt:     w.CreatedAt,
	}
}

type wireResponse struct {
	ID           int64                 `json:"id"`
	Content      string                `json:"content"`
	AuthorID     int64                 `json:"author_id"`
	Status       models.ResponseStatus `json:"status"`
	RejectReason string                `json:"reject_reason,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
}

func (w wireResponse) toModel() models.RFIResponse {
	return models.RFIResponse{
		ID:           models.ConfirmedID(w.ID),
		Content:      w.Content,
		AuthorID:     w.AuthorID,
		Status:       w.Status,
		RejectReason: w.RejectReason,
		CreatedAt:    w.CreatedAt,
	}
}

type wireRFI struct {
	ID                 int64               `json:"id"`
	Number             int                 `json:"number"`
	ProjectID          int64               `json:"project_id"`
	Title              string              `json:"title"`
	Description        string              `json:"description,omitempty"`
	Query              string              `json:"query"`
	Status             models.RFIStatus    `json:"status"`
	ManagerID          int64               `json:"manager_id"`
	AssignedUserIDs    []int64             `json:"assigned_user_ids"`
	ReturnDate         time.Time           `json:"return_date"`
	CreatedAt          time.Time           `json:"created_at"`
	ClosedAt           time.Time           `json:"closed_at,omitzero"`
	Attachments        []models.Attachment `json:"attachments,omitempty"`
	DrawingIDs         []int64             `json:"drawing_ids,omitempty"`
	Responses          []wireResponse      `json:"responses,omitempty"`
	AcceptedResponseID int64               `json:"accepted_response_id,omitempty"`
}

func (w wireRFI) toModel() models.RFI {
	r := models.RFI{
		ID:              models.ConfirmedID(w.ID),
		Number:          w.Number,
		ProjectID:       w.ProjectID,
		Title:           w.Title,
		Description:     w.Description,
		Query:           w.Query,
		Status:          w.Status,
		ManagerID:       w.ManagerID,
		AssignedUserIDs: w.AssignedUserIDs,
		ReturnDate:      w.ReturnDate,
		CreatedAt:       w.CreatedAt,
		ClosedAt:        w.ClosedAt,
		Attachments:     w.Attachments,
		DrawingIDs:      w.DrawingIDs,
	}
	for _, resp := range w.Responses {
		r.Responses = append(r.Responses, resp.toModel())
	}
	if w.AcceptedResponseID != 0 {
		r.AcceptedResponseID = models.ConfirmedID(w.AcceptedResponseID)
	}
	return r
}

type wireRFICreation struct {
	ProjectID       int64               `json:"project_id"`
	Title           string              `json:"title"`
	Query           string              `json:"query"`
	ManagerID       int64               `json:"manager_id"`
	AssignedUserIDs []int64             `json:"assigned_user_ids"`
	ReturnDate      time.Time           `json:"return_date"`
	Attachments     []models.Attachment `json:"attachments,omitempty"`
	DrawingIDs      []int64             `json:"drawing_ids,omitempty"`
}

type wireResponseSubmission struct {
	Content string `json:"content"`
}

type wireReview struct {
	Status models.ResponseStatus `json:"status"`
	Reason string                `json:"reason,omitempty"`
}

type wirePresign struct {
	Name string `json:"name"`
}

type wirePresignResult struct {
	UploadURL string `json:"upload_url"`
	FileURL   string `json:"file_url"`
	Type      string `json:"type,omitempty"`
}
