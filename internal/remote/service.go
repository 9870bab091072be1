// Package remote defines the abstract boundary to the remote authority and
// the error taxonomy the sync engine branches on. Implementations live in
// subpackages; tests substitute struct fakes.
package remote

import (
	"context"
	"time"

	"github.com/planmark/planmark/internal/models"
)

// MarkupFilters narrows a markup fetch. Zero values mean "no filter".
type MarkupFilters struct {
	Page      int
	Status    models.MarkupStatus
	CreatorID int64
}

// RFICreation is the payload for creating an RFI, with attachments already
// uploaded and referenced by descriptor.
type RFICreation struct {
	ProjectID       int64
	Title           string
	Query           string
	ManagerID       int64
	AssignedUserIDs []int64
	ReturnDate      time.Time
	Attachments     []models.Attachment
	DrawingIDs      []int64
}

// Service is the typed surface of the remote authority. Every method fails
// with one of ErrUnavailable, ErrAuthExpired, ErrForbidden or *ServerError.
type Service interface {
	Close() error

	// Ping probes reachability; used by the connectivity watcher.
	Ping(ctx context.Context) error

	CreateMarkup(ctx context.Context, req models.PendingMarkup) (models.Markup, error)
	DeleteMarkup(ctx context.Context, id int64) error
	// PublishMarkup returns the updated markup, or a zero Markup if the
	// authority acknowledges without a body.
	PublishMarkup(ctx context.Context, id int64) (models.Markup, error)
	FetchMarkups(ctx context.Context, drawingID, drawingFileID int64, f MarkupFilters) ([]models.Markup, error)

	SubmitRFIResponse(ctx context.Context, rfiID int64, content string) error
	ReviewRFIResponse(ctx context.Context, rfiID, responseID int64, status models.ResponseStatus, reason string) error
	CloseRFI(ctx context.Context, rfiID int64) error
	FetchRFIs(ctx context.Context, projectID int64) ([]models.RFI, error)

	UploadFile(ctx context.Context, data []byte, name string) (models.Attachment, error)
	CreateRFI(ctx context.Context, req RFICreation) (models.RFI, error)
}
