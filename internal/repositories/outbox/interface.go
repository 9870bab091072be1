package outbox

import (
	"context"

	"github.com/planmark/planmark/internal/models"
)

// Scope is the (drawing, drawing file) pair a queued markup belongs to.
// Flushing happens per scope; cross-scope ordering is unspecified.
type Scope struct {
	DrawingID     int64
	DrawingFileID int64
}

// Item is one queued markup creation. Seq is the storage row id and fixes
// FIFO order within a scope.
type Item struct {
	Seq    int64
	Markup models.PendingMarkup
}

// Repository is the durable queue of markup creations that could not reach
// the remote authority. Written only by the sync pipeline: enqueue on
// connectivity failure, delete after confirmed remote success, nothing else.
type Repository interface {
	// Enqueue appends the full creation payload. Enqueueing the same gesture
	// twice yields two rows; there is no content-based dedup here.
	Enqueue(ctx context.Context, m models.PendingMarkup) error

	// ListScope returns the queued items for one scope in FIFO order.
	ListScope(ctx context.Context, s Scope) ([]Item, error)

	// Scopes returns every scope that currently has queued items.
	Scopes(ctx context.Context) ([]Scope, error)

	// Delete removes one queued item after its remote creation succeeded.
	Delete(ctx context.Context, seq int64) error
}
