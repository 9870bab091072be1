package drafts

import (
	"context"

	"github.com/planmark/planmark/internal/models"
)

// Repository is the durable store for RFI submissions composed offline.
// A draft is an immutable snapshot of the whole submission; it is deleted
// only after the remote authority has confirmed the created RFI.
type Repository interface {
	// Save writes the draft. The draft must carry a LocalID.
	Save(ctx context.Context, d models.RFIDraft) error

	// ListByProject returns all undispatched drafts for a project, oldest first.
	ListByProject(ctx context.Context, projectID int64) ([]models.RFIDraft, error)

	// Delete removes a confirmed-submitted draft.
	Delete(ctx context.Context, localID string) error
}
