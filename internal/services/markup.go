// Package services implements the synchronization pipeline: optimistic
// local mutation, the offline replay paths, and the RFI review workflow.
// Services own the visible collections; view code reads snapshots and calls
// the action entry points, nothing else.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/planmark/planmark/internal/buffer"
	"github.com/planmark/planmark/internal/logging"
	"github.com/planmark/planmark/internal/models"
	"github.com/planmark/planmark/internal/perm"
	"github.com/planmark/planmark/internal/remote"
	"github.com/planmark/planmark/internal/repositories/outbox"
)

// MarkupService manages the visible markup collection for one drawing view
// and the offline queue behind it.
type MarkupService struct {
	remote  remote.Service
	queue   outbox.Repository
	visible *buffer.Buffer[models.Markup]
	log     logging.Logger

	mu       sync.Mutex
	flushing map[outbox.Scope]bool
}

// NewMarkupService returns a MarkupService over the given remote boundary
// and durable queue.
func NewMarkupService(rs remote.Service, queue outbox.Repository, log logging.Logger) *MarkupService {
	return &MarkupService{
		remote:   rs,
		queue:    queue,
		visible:  buffer.New[models.Markup](),
		log:      log,
		flushing: make(map[outbox.Scope]bool),
	}
}

// Visible returns a read-only snapshot of the markup collection.
func (s *MarkupService) Visible() []models.Markup {
	return s.visible.Snapshot()
}

// Create applies the markup optimistically and attempts the remote creation.
// If the authority is unreachable the request is queued durably and the
// placeholder stays visible; it is reconciled on a later flush.
func (s *MarkupService) Create(ctx context.Context, user models.User, req models.PendingMarkup) (models.Markup, error) {
	req.Bounds = req.Bounds.Normalized()
	if req.DrawingID == 0 || req.DrawingFileID == 0 || req.Type == "" || !req.Bounds.Valid() {
		return models.Markup{}, fmt.Errorf("%w: incomplete markup creation", ErrValidation)
	}
	if req.CreatorID == 0 {
		req.CreatorID = user.ID
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = uuid.NewString()
	}

	optimistic := markupFromRequest(req)
	s.visible.InsertOptimistic(optimistic)

	authoritative, err := s.remote.CreateMarkup(ctx, req)
	if errors.Is(err, remote.ErrUnavailable) {
		if qerr := s.queue.Enqueue(ctx, req); qerr != nil {
			return models.Markup{}, fmt.Errorf("failed to queue markup while offline: %w", qerr)
		}
		s.log.Info(ctx, "markup queued for later delivery",
			"drawing_id", req.DrawingID, "drawing_file_id", req.DrawingFileID, "page", req.Page)
		return optimistic, nil
	}
	if err != nil {
		// placeholder stays; the next refetch is the source of truth
		return models.Markup{}, err
	}

	s.visible.Reconcile(matchesRequest(req), authoritative)
	return authoritative, nil
}

// Flush replays the queued creations for one scope in FIFO order. A second
// Flush on the same scope while one is running returns immediately. Each
// success deletes the queued row and reconciles the placeholder; a
// connectivity failure ends the pass quietly, any other failure skips the
// item and leaves it queued.
func (s *MarkupService) Flush(ctx context.Context, scope outbox.Scope) error {
	s.mu.Lock()
	if s.flushing[scope] {
		s.mu.Unlock()
		return nil
	}
	s.flushing[scope] = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.flushing, scope)
		s.mu.Unlock()
	}()

	items, err := s.queue.ListScope(ctx, scope)
	if err != nil {
		return err
	}

	sent := 0
	for _, item := range items {
		authoritative, err := s.remote.CreateMarkup(ctx, item.Markup)
		if errors.Is(err, remote.ErrUnavailable) {
			// still offline; the next connectivity event retries
			s.log.Info(ctx, "flush interrupted, remote unavailable",
				"drawing_id", scope.DrawingID, "sent", sent, "remaining", len(items)-sent)
			return nil
		}
		if err != nil {
			s.log.Warn(ctx, "queued markup not accepted, keeping for retry",
				"seq", item.Seq, "error", err)
			continue
		}
		if err := s.queue.Delete(ctx, item.Seq); err != nil {
			return fmt.Errorf("failed to dequeue markup %d: %w", item.Seq, err)
		}
		s.visible.Reconcile(matchesRequest(item.Markup), authoritative)
		sent++
	}

	if sent > 0 {
		s.log.Info(ctx, "flush complete", "drawing_id", scope.DrawingID,
			"drawing_file_id", scope.DrawingFileID, "sent", sent)
	}
	return nil
}

// FlushAll flushes every scope that has queued items. Used by the
// connectivity watcher on the offline-to-online transition.
func (s *MarkupService) FlushAll(ctx context.Context) error {
	scopes, err := s.queue.Scopes(ctx)
	if err != nil {
		return err
	}
	for _, scope := range scopes {
		if err := s.Flush(ctx, scope); err != nil {
			return err
		}
	}
	return nil
}

// Refresh replaces the visible collection with the authority's state.
// Placeholders the fetch does not corroborate are dropped.
func (s *MarkupService) Refresh(ctx context.Context, drawingID, drawingFileID int64, f remote.MarkupFilters) error {
	items, err := s.remote.FetchMarkups(ctx, drawingID, drawingFileID, f)
	if err != nil {
		return err
	}
	s.visible.ReplaceAll(items)
	return nil
}

// Publish moves a markup from draft to published. Publishing an already
// published markup is a no-op; publishing a not-yet-synced one is refused.
func (s *MarkupService) Publish(ctx context.Context, user models.User, id models.ID) (models.Markup, error) {
	if id.IsPending() {
		return models.Markup{}, ErrNotSynced
	}
	m, ok := s.visible.Get(id)
	if !ok {
		return models.Markup{}, ErrNotFound
	}
	if m.Status == models.MarkupPublished {
		return m, nil
	}
	if !perm.CanPublishMarkup(user, m) {
		return models.Markup{}, ErrNotPermitted
	}

	n, _ := id.Value()
	updated, err := s.remote.PublishMarkup(ctx, n)
	if err != nil {
		return models.Markup{}, err
	}
	if updated.ID.IsZero() {
		// authority acknowledged without a body
		updated = m
		updated.Status = models.MarkupPublished
	}
	s.visible.Reconcile(func(models.Markup) bool { return false }, updated)
	return updated, nil
}

// Delete removes a markup remotely and from the visible collection.
func (s *MarkupService) Delete(ctx context.Context, user models.User, id models.ID) error {
	if id.IsPending() {
		return ErrNotSynced
	}
	m, ok := s.visible.Get(id)
	if !ok {
		return ErrNotFound
	}
	if !perm.CanDeleteMarkup(user, m) {
		return ErrNotPermitted
	}

	n, _ := id.Value()
	if err := s.remote.DeleteMarkup(ctx, n); err != nil {
		return err
	}
	s.visible.Remove(id)
	return nil
}

func markupFromRequest(req models.PendingMarkup) models.Markup {
	return models.Markup{
		ID:            models.NewPendingID(),
		DrawingID:     req.DrawingID,
		DrawingFileID: req.DrawingFileID,
		Page:          req.Page,
		Type:          req.Type,
		Bounds:        req.Bounds,
		Text:          req.Text,
		Color:         req.Color,
		Opacity:       req.Opacity,
		StrokeWidth:   req.StrokeWidth,
		Status:        models.MarkupDraft,
		GroupID:       req.GroupID,
		GroupTitle:    req.GroupTitle,
		CreatorID:     req.CreatorID,
		CreatedAt:     req.CreatedAt,
	}
}

// matchesRequest identifies the placeholder a reconciled creation replaces:
// same scope and page, still in draft. ID-range checks make this safe even
// when two identical placeholders exist.
func matchesRequest(req models.PendingMarkup) func(models.Markup) bool {
	return func(m models.Markup) bool {
		return m.DrawingID == req.DrawingID &&
			m.DrawingFileID == req.DrawingFileID &&
			m.Page == req.Page &&
			m.Status == models.MarkupDraft
	}
}
