package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/planmark/planmark/internal/buffer"
	"github.com/planmark/planmark/internal/logging"
	"github.com/planmark/planmark/internal/models"
	"github.com/planmark/planmark/internal/perm"
	"github.com/planmark/planmark/internal/remote"
	"github.com/planmark/planmark/internal/repositories/drafts"
)

// ReasonSuperseded is the system-supplied rejection reason applied to the
// other pending responses when one is accepted. An RFI keeps exactly one
// living answer; accepting one retires the rest rather than leaving them
// ambiguously pending.
const ReasonSuperseded = "Another response was accepted as the answer"

// RFIService manages the visible RFI collection, the response review
// workflow and the offline draft pipeline.
type RFIService struct {
	remote  remote.Service
	drafts  drafts.Repository
	visible *buffer.Buffer[models.RFI]
	log     logging.Logger

	mu         sync.Mutex
	submitting bool
}

// NewRFIService returns an RFIService over the given remote boundary and
// draft store.
func NewRFIService(rs remote.Service, draftRepo drafts.Repository, log logging.Logger) *RFIService {
	return &RFIService{
		remote:  rs,
		drafts:  draftRepo,
		visible: buffer.New[models.RFI](),
		log:     log,
	}
}

// Visible returns a read-only snapshot of the RFI collection.
func (s *RFIService) Visible() []models.RFI {
	return s.visible.Snapshot()
}

// Refresh replaces the visible collection with the authority's RFIs plus
// the local undispatched drafts, rendered with a synthetic Draft status.
func (s *RFIService) Refresh(ctx context.Context, projectID int64) error {
	fetched, err := s.remote.FetchRFIs(ctx, projectID)
	if err != nil {
		return err
	}
	local, err := s.drafts.ListByProject(ctx, projectID)
	if err != nil {
		return err
	}

	merged := make([]models.RFI, 0, len(fetched)+len(local))
	merged = append(merged, fetched...)
	for _, d := range local {
		merged = append(merged, d.AsRFI())
	}
	s.visible.ReplaceAll(merged)
	return nil
}

// SubmitResponse appends a pending response to the RFI, optimistically
// first. If the authority is unreachable the placeholder stays visible
// until a later refetch corroborates or drops it.
func (s *RFIService) SubmitResponse(ctx context.Context, user models.User, rfiID models.ID, content string) (models.RFIResponse, error) {
	if rfiID.IsPending() {
		return models.RFIResponse{}, ErrNotSynced
	}
	rfi, ok := s.visible.Get(rfiID)
	if !ok {
		return models.RFIResponse{}, ErrNotFound
	}
	if !perm.CanRespond(user, rfi) {
		return models.RFIResponse{}, ErrNotPermitted
	}

	resp := models.RFIResponse{
		ID:        models.NewPendingID(),
		Content:   content,
		AuthorID:  user.ID,
		Status:    models.ResponsePending,
		CreatedAt: time.Now(),
	}
	s.visible.Update(rfiID, func(r models.RFI) models.RFI {
		return r.WithResponse(resp)
	})

	n, _ := rfiID.Value()
	err := s.remote.SubmitRFIResponse(ctx, n, content)
	if errors.Is(err, remote.ErrUnavailable) {
		s.log.Warn(ctx, "response submitted while offline, awaiting refetch", "rfi", rfiID)
		return resp, nil
	}
	if err != nil {
		return models.RFIResponse{}, err
	}
	return resp, nil
}

// ApproveAndClose is the compound accept operation: every other pending
// response is rejected with ReasonSuperseded, the target is approved, and
// the RFI is closed. The sub-operations are sequential remote calls with
// optimistic local application and no rollback; after a partial failure the
// next successful refetch corrects any mismatch.
func (s *RFIService) ApproveAndClose(ctx context.Context, user models.User, rfiID, responseID models.ID) error {
	if rfiID.IsPending() || responseID.IsPending() {
		return ErrNotSynced
	}
	rfi, ok := s.visible.Get(rfiID)
	if !ok {
		return ErrNotFound
	}
	if !perm.CanReview(user, rfi) {
		return ErrNotPermitted
	}
	if !rfi.Status.CanTransition(models.RFIClosed) {
		return fmt.Errorf("%w: cannot close an RFI in %s state", ErrValidation, rfi.Status)
	}
	target, ok := rfi.Response(responseID)
	if !ok {
		return ErrNotFound
	}
	if target.Status == models.ResponseRejected {
		return fmt.Errorf("%w: cannot accept a rejected response", ErrValidation)
	}

	rfiN, _ := rfiID.Value()

	var others []models.RFIResponse
	for _, r := range rfi.Responses {
		if r.ID != responseID && r.Status == models.ResponsePending && !r.ID.IsPending() {
			others = append(others, r)
		}
	}
	for _, other := range others {
		s.applyReview(rfiID, other.ID, models.ResponseRejected, ReasonSuperseded)
		respN, _ := other.ID.Value()
		if err := s.remote.ReviewRFIResponse(ctx, rfiN, respN, models.ResponseRejected, ReasonSuperseded); err != nil {
			return err
		}
	}

	if target.Status != models.ResponseApproved {
		s.applyReview(rfiID, responseID, models.ResponseApproved, "")
		respN, _ := responseID.Value()
		if err := s.remote.ReviewRFIResponse(ctx, rfiN, respN, models.ResponseApproved, ""); err != nil {
			return err
		}
	}
	s.visible.Update(rfiID, func(r models.RFI) models.RFI {
		r.AcceptedResponseID = responseID
		return r
	})

	s.visible.Update(rfiID, func(r models.RFI) models.RFI {
		r.Status = models.RFIClosed
		r.ClosedAt = time.Now()
		return r
	})
	if err := s.remote.CloseRFI(ctx, rfiN); err != nil {
		return err
	}

	s.log.Info(ctx, "rfi accepted and closed", "rfi", rfiID, "response", responseID,
		"superseded", len(others))
	return nil
}

// RejectResponse rejects a single response. An empty reason is stopped at
// the input layer, not here; an already approved response is immutable.
func (s *RFIService) RejectResponse(ctx context.Context, user models.User, rfiID, responseID models.ID, reason string) error {
	if rfiID.IsPending() || responseID.IsPending() {
		return ErrNotSynced
	}
	rfi, ok := s.visible.Get(rfiID)
	if !ok {
		return ErrNotFound
	}
	if !perm.CanReview(user, rfi) {
		return ErrNotPermitted
	}
	resp, ok := rfi.Response(responseID)
	if !ok {
		return ErrNotFound
	}
	if resp.Status.Terminal() {
		return fmt.Errorf("%w: %s response is immutable", ErrValidation, resp.Status)
	}

	s.applyReview(rfiID, responseID, models.ResponseRejected, reason)

	rfiN, _ := rfiID.Value()
	respN, _ := responseID.Value()
	return s.remote.ReviewRFIResponse(ctx, rfiN, respN, models.ResponseRejected, reason)
}

// Close closes an RFI that already has an accepted response. Without one it
// fails with ErrNoAcceptedResponse and performs no mutation.
func (s *RFIService) Close(ctx context.Context, user models.User, rfiID models.ID) error {
	if rfiID.IsPending() {
		return ErrNotSynced
	}
	rfi, ok := s.visible.Get(rfiID)
	if !ok {
		return ErrNotFound
	}
	if rfi.Status == models.RFIClosed {
		return nil
	}
	if !rfi.Status.CanTransition(models.RFIClosed) {
		return fmt.Errorf("%w: cannot close an RFI in %s state", ErrValidation, rfi.Status)
	}
	if !perm.CanClose(user, rfi) {
		if !perm.HasAcceptedResponse(rfi) {
			return ErrNoAcceptedResponse
		}
		return ErrNotPermitted
	}

	s.visible.Update(rfiID, func(r models.RFI) models.RFI {
		r.Status = models.RFIClosed
		r.ClosedAt = time.Now()
		return r
	})

	n, _ := rfiID.Value()
	return s.remote.CloseRFI(ctx, n)
}

// SaveDraft stores a complete submission snapshot locally and surfaces it
// in the visible collection with a synthetic Draft status.
func (s *RFIService) SaveDraft(ctx context.Context, d models.RFIDraft) (models.RFIDraft, error) {
	if d.ProjectID == 0 || d.Title == "" || d.Query == "" {
		return d, fmt.Errorf("%w: draft needs a project, title and query", ErrValidation)
	}
	if d.LocalID == "" {
		d.LocalID = uuid.NewString()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}

	if err := s.drafts.Save(ctx, d); err != nil {
		return d, err
	}

	asRFI := d.AsRFI()
	if !s.visible.Update(asRFI.ID, func(models.RFI) models.RFI { return asRFI }) {
		s.visible.InsertOptimistic(asRFI)
	}
	s.log.Info(ctx, "rfi draft saved", "project_id", d.ProjectID, "local_id", d.LocalID)
	return d, nil
}

// Drafts lists the undispatched drafts for a project.
func (s *RFIService) Drafts(ctx context.Context, projectID int64) ([]models.RFIDraft, error) {
	return s.drafts.ListByProject(ctx, projectID)
}

// SubmitDraft replays the two-phase live-submission pipeline: upload every
// attached file, then create the RFI referencing the uploaded descriptors.
// The draft is deleted only after the creation is confirmed; any failure
// before that leaves it in the store for the next sync pass, even if some
// files were already uploaded (those are re-uploaded on retry).
func (s *RFIService) SubmitDraft(ctx context.Context, user models.User, d models.RFIDraft) (models.RFI, error) {
	attachments := make([]models.Attachment, 0, len(d.FilePaths))
	for _, path := range d.FilePaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return models.RFI{}, fmt.Errorf("failed to read draft attachment %s: %w", path, err)
		}
		att, err := s.remote.UploadFile(ctx, data, filepath.Base(path))
		if err != nil {
			return models.RFI{}, fmt.Errorf("failed to upload draft attachment %s: %w", path, err)
		}
		attachments = append(attachments, att)
	}

	created, err := s.remote.CreateRFI(ctx, remote.RFICreation{
		ProjectID:       d.ProjectID,
		Title:           d.Title,
		Query:           d.Query,
		ManagerID:       d.ManagerID,
		AssignedUserIDs: d.AssignedUserIDs,
		ReturnDate:      d.ReturnDate,
		Attachments:     attachments,
		DrawingIDs:      d.DrawingIDs,
	})
	if err != nil {
		return models.RFI{}, err
	}

	if err := s.drafts.Delete(ctx, d.LocalID); err != nil {
		// the RFI exists remotely; worst case the draft is resubmitted and
		// the idempotency of refetch folds it away
		s.log.Error(ctx, "draft not deleted after confirmed submission",
			"local_id", d.LocalID, "error", err)
	}

	s.visible.Reconcile(func(r models.RFI) bool {
		return r.ID.Token() == d.LocalID
	}, created)

	s.log.Info(ctx, "rfi draft submitted", "local_id", d.LocalID, "rfi", created.ID)
	return created, nil
}

// SubmitDrafts is the app-level sync pass: it attempts every draft of the
// project in order, stopping quietly when the authority is unreachable.
// A second pass while one is running returns immediately.
func (s *RFIService) SubmitDrafts(ctx context.Context, user models.User, projectID int64) error {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return nil
	}
	s.submitting = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	list, err := s.drafts.ListByProject(ctx, projectID)
	if err != nil {
		return err
	}
	for _, d := range list {
		if _, err := s.SubmitDraft(ctx, user, d); err != nil {
			if errors.Is(err, remote.ErrUnavailable) {
				// still offline; the next connectivity event retries
				return nil
			}
			s.log.Warn(ctx, "draft submission failed, keeping draft",
				"local_id", d.LocalID, "error", err)
		}
	}
	return nil
}

// applyReview mutates one response of one visible RFI.
func (s *RFIService) applyReview(rfiID, responseID models.ID, status models.ResponseStatus, reason string) {
	s.visible.Update(rfiID, func(r models.RFI) models.RFI {
		resp, ok := r.Response(responseID)
		if !ok {
			return r
		}
		resp.Status = status
		resp.RejectReason = reason
		return r.WithResponse(resp)
	})
}
