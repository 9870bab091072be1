// Package models defines the record types shared by the sync engine:
// markups, RFIs, responses, drafts and their identifiers. Records are value
// types with structural equality on their ID; an update produces a new value
// that replaces the old one in the owning collection.
package models

import "time"

// MarkupType classifies a markup shape.
type MarkupType string

const (
	MarkupHighlight MarkupType = "highlight"
	MarkupRectangle MarkupType = "rectangle"
	MarkupCircle    MarkupType = "circle"
	MarkupArrow     MarkupType = "arrow"
	MarkupLine      MarkupType = "line"
	MarkupTextNote  MarkupType = "text_note"
	MarkupCloud     MarkupType = "cloud"
)

// MarkupStatus is the publication state of a markup.
type MarkupStatus string

const (
	MarkupDraft     MarkupStatus = "draft"
	MarkupPublished MarkupStatus = "published"
)

// MinMarkupExtent is the smallest width/height, in page units, a markup's
// bounds may have. Degenerate drags are padded up to this before persisting.
const MinMarkupExtent = 1.0

// Bounds is a rectangle in page space plus the page it sits on.
// X1,Y1 is one corner of the drag, X2,Y2 the other; Normalized orders them.
type Bounds struct {
	X1   float64 `json:"x1"`
	Y1   float64 `json:"y1"`
	X2   float64 `json:"x2"`
	Y2   float64 `json:"y2"`
	Page int     `json:"page"`
}

func (b Bounds) Width() float64  { return b.X2 - b.X1 }
func (b Bounds) Height() float64 { return b.Y2 - b.Y1 }

// Normalized returns bounds with corners ordered and each extent padded up
// to MinMarkupExtent, so a zero-size drag still yields a visible rectangle.
func (b Bounds) Normalized() Bounds {
	if b.X2 < b.X1 {
		b.X1, b.X2 = b.X2, b.X1
	}
	if b.Y2 < b.Y1 {
		b.Y1, b.Y2 = b.Y2, b.Y1
	}
	if b.Width() < MinMarkupExtent {
		b.X2 = b.X1 + MinMarkupExtent
	}
	if b.Height() < MinMarkupExtent {
		b.Y2 = b.Y1 + MinMarkupExtent
	}
	return b
}

// Valid reports whether the bounds satisfy the minimum-extent invariant.
func (b Bounds) Valid() bool {
	return b.Width() >= MinMarkupExtent && b.Height() >= MinMarkupExtent
}

// Markup is a user-drawn annotation anchored to one page of one drawing
// file revision.
type Markup struct {
	ID            ID
	DrawingID     int64
	DrawingFileID int64
	Page          int
	Type          MarkupType
	Bounds        Bounds
	Text          string
	Color         string
	Opacity       float64
	StrokeWidth   float64
	Status        MarkupStatus
	GroupID       int64
	GroupTitle    string
	CreatorID     int64
	CreatedAt     time.Time
}

// RecordID implements buffer.Identified.
func (m Markup) RecordID() ID { return m.ID }

// PendingMarkup is a markup creation request: everything the remote authority
// needs to create the markup, minus the identifier it will assign. It is the
// payload queued by the offline outbox, so it carries JSON tags and a
// client-generated idempotency key letting the authority deduplicate a
// resend after a lost success response.
type PendingMarkup struct {
	DrawingID      int64      `json:"drawing_id"`
	DrawingFileID  int64      `json:"drawing_file_id"`
	Page           int        `json:"page"`
	Type           MarkupType `json:"type"`
	Bounds         Bounds     `json:"bounds"`
	Text           string     `json:"text,omitempty"`
	Color          string     `json:"color"`
	Opacity        float64    `json:"opacity"`
	StrokeWidth    float64    `json:"stroke_width"`
	GroupID        int64      `json:"group_id,omitempty"`
	GroupTitle     string     `json:"group_title,omitempty"`
	CreatorID      int64      `json:"creator_id"`
	CreatedAt      time.Time  `json:"created_at"`
	IdempotencyKey string     `json:"idempotency_key"`
}
