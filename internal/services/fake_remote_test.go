package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/planmark/planmark/internal/models"
	"github.com/planmark/planmark/internal/remote"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// setupDB creates an in-memory database with the sync engine's tables.
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS outbox (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  drawing_id INTEGER NOT NULL,
  drawing_file_id INTEGER NOT NULL,
  idempotency_key TEXT NOT NULL UNIQUE,
  payload BLOB NOT NULL,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS rfi_drafts (
  id TEXT PRIMARY KEY,
  project_id INTEGER NOT NULL,
  payload BLOB NOT NULL,
  created_at INTEGER NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

type reviewCall struct {
	RFIID      int64
	ResponseID int64
	Status     models.ResponseStatus
	Reason     string
}

type uploadCall struct {
	Name string
	Size int
}

// fakeRemote implements remote.Service with preset results and recorded
// calls. Function fields override per-method behavior; nil means "succeed
// with the zero result".
type fakeRemote struct {
	mu sync.Mutex

	CreateMarkupFn  func(req models.PendingMarkup) (models.Markup, error)
	PublishMarkupFn func(id int64) (models.Markup, error)
	UploadFileFn    func(data []byte, name string) (models.Attachment, error)
	CreateRFIFn     func(req remote.RFICreation) (models.RFI, error)
	ReviewFn        func(call reviewCall) error

	Markups []models.Markup
	RFIs    []models.RFI

	PingErr           error
	DeleteMarkupErr   error
	FetchMarkupsErr   error
	SubmitResponseErr error
	CloseRFIErr       error
	FetchRFIsErr      error

	CreateMarkupCalls []models.PendingMarkup
	DeleteMarkupIDs   []int64
	PublishMarkupIDs  []int64
	ResponseContents  []string
	ReviewCalls       []reviewCall
	ClosedRFIIDs      []int64
	UploadCalls       []uploadCall
	CreateRFICalls    []remote.RFICreation
}

func (f *fakeRemote) Close() error { return nil }

func (f *fakeRemote) Ping(ctx context.Context) error { return f.PingErr }

func (f *fakeRemote) CreateMarkup(ctx context.Context, req models.PendingMarkup) (models.Markup, error) {
	f.mu.Lock()
	f.CreateMarkupCalls = append(f.CreateMarkupCalls, req)
	f.mu.Unlock()
	if f.CreateMarkupFn != nil {
		return f.CreateMarkupFn(req)
	}
	return models.Markup{}, nil
}

func (f *fakeRemote) DeleteMarkup(ctx context.Context, id int64) error {
	f.mu.Lock()
	f.DeleteMarkupIDs = append(f.DeleteMarkupIDs, id)
	f.mu.Unlock()
	return f.DeleteMarkupErr
}

func (f *fakeRemote) PublishMarkup(ctx context.Context, id int64) (models.Markup, error) {
	f.mu.Lock()
	f.PublishMarkupIDs = append(f.PublishMarkupIDs, id)
	f.mu.Unlock()
	if f.PublishMarkupFn != nil {
		return f.PublishMarkupFn(id)
	}
	return models.Markup{}, nil
}

func (f *fakeRemote) FetchMarkups(ctx context.Context, drawingID, drawingFileID int64, filters remote.MarkupFilters) ([]models.Markup, error) {
	return f.Markups, f.FetchMarkupsErr
}

func (f *fakeRemote) SubmitRFIResponse(ctx context.Context, rfiID int64, content string) error {
	f.mu.Lock()
	f.ResponseContents = append(f.ResponseContents, content)
	f.mu.Unlock()
	return f.SubmitResponseErr
}

func (f *fakeRemote) ReviewRFIResponse(ctx context.Context, rfiID, responseID int64, status models.ResponseStatus, reason string) error {
	call := reviewCall{RFIID: rfiID, ResponseID: responseID, Status: status, Reason: reason}
	f.mu.Lock()
	f.ReviewCalls = append(f.ReviewCalls, call)
	f.mu.Unlock()
	if f.ReviewFn != nil {
		return f.ReviewFn(call)
	}
	return nil
}

func (f *fakeRemote) CloseRFI(ctx context.Context, rfiID int64) error {
	f.mu.Lock()
	f.ClosedRFIIDs = append(f.ClosedRFIIDs, rfiID)
	f.mu.Unlock()
	return f.CloseRFIErr
}

func (f *fakeRemote) FetchRFIs(ctx context.Context, projectID int64) ([]models.RFI, error) {
	return f.RFIs, f.FetchRFIsErr
}

func (f *fakeRemote) UploadFile(ctx context.Context, data []byte, name string) (models.Attachment, error) {
	f.mu.Lock()
	f.UploadCalls = append(f.UploadCalls, uploadCall{Name: name, Size: len(data)})
	f.mu.Unlock()
	if f.UploadFileFn != nil {
		return f.UploadFileFn(data, name)
	}
	return models.Attachment{URL: "https://files.example/" + name, Name: name}, nil
}

func (f *fakeRemote) CreateRFI(ctx context.Context, req remote.RFICreation) (models.RFI, error) {
	f.mu.Lock()
	f.CreateRFICalls = append(f.CreateRFICalls, req)
	f.mu.Unlock()
	if f.CreateRFIFn != nil {
		return f.CreateRFIFn(req)
	}
	return models.RFI{}, nil
}
