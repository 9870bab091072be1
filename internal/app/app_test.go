package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/planmark/planmark/internal/config"
	"github.com/planmark/planmark/internal/logging"
	"github.com/planmark/planmark/internal/models"
	"github.com/planmark/planmark/internal/remote"
	"github.com/planmark/planmark/internal/services"
	"github.com/planmark/planmark/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// watcherRemote is reachable or not depending on the pingErr field and
// signals every markup delivery on the created channel.
type watcherRemote struct {
	mu       sync.Mutex
	pingErr  error
	closeErr error
	created  chan models.PendingMarkup
}

func (f *watcherRemote) setPingErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingErr = err
}

func (f *watcherRemote) Close() error { return f.closeErr }

func (f *watcherRemote) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

func (f *watcherRemote) CreateMarkup(ctx context.Context, req models.PendingMarkup) (models.Markup, error) {
	f.mu.Lock()
	err := f.pingErr
	f.mu.Unlock()
	if err != nil {
		return models.Markup{}, err
	}
	f.created <- req
	return models.Markup{ID: models.ConfirmedID(1), DrawingID: req.DrawingID,
		DrawingFileID: req.DrawingFileID, Page: req.Page, Status: models.MarkupDraft}, nil
}

func (f *watcherRemote) DeleteMarkup(ctx context.Context, id int64) error { return nil }
func (f *watcherRemote) PublishMarkup(ctx context.Context, id int64) (models.Markup, error) {
	return models.Markup{}, nil
}
func (f *watcherRemote) FetchMarkups(ctx context.Context, d, df int64, _ remote.MarkupFilters) ([]models.Markup, error) {
	return nil, nil
}
func (f *watcherRemote) SubmitRFIResponse(ctx context.Context, rfiID int64, content string) error {
	return nil
}
func (f *watcherRemote) ReviewRFIResponse(ctx context.Context, rfiID, responseID int64, status models.ResponseStatus, reason string) error {
	return nil
}
func (f *watcherRemote) CloseRFI(ctx context.Context, rfiID int64) error { return nil }
func (f *watcherRemote) FetchRFIs(ctx context.Context, projectID int64) ([]models.RFI, error) {
	return nil, nil
}
func (f *watcherRemote) UploadFile(ctx context.Context, data []byte, name string) (models.Attachment, error) {
	return models.Attachment{}, nil
}
func (f *watcherRemote) CreateRFI(ctx context.Context, req remote.RFICreation) (models.RFI, error) {
	return models.RFI{}, nil
}

func newTestApp(t *testing.T, fr *watcherRemote) *App {
	t.Helper()
	ctx := context.Background()

	stores, err := store.InitDatabase(ctx, "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = stores.DB.Close() })

	log := logging.NewNopLogger()
	return &App{
		config:    &config.Config{},
		remote:    fr,
		markups:   services.NewMarkupService(fr, stores.Outbox, log),
		rfis:      services.NewRFIService(fr, stores.Drafts, log),
		stores:    stores,
		log:       log,
		user:      models.User{ID: 7, Name: "kim"},
		projectID: 1,
		mode:      ModeOffline,
	}
}

func TestWatcher_ReconnectTriggersSyncPass(t *testing.T) {
	fr := &watcherRemote{pingErr: remote.ErrUnavailable, created: make(chan models.PendingMarkup, 4)}
	a := newTestApp(t, fr)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// create while unreachable: the markup lands in the outbox
	_, err := a.Markups().Create(ctx, models.User{ID: 7}, models.PendingMarkup{
		DrawingID: 5, DrawingFileID: 6, Page: 1, Type: models.MarkupCloud,
		Bounds: models.Bounds{X1: 0, Y1: 0, X2: 5, Y2: 5, Page: 1},
		Color:  "#ff0000",
	})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		a.StartOnlineStatusWatcher(ctx, 5*time.Millisecond)
	}()

	// a few failed pings keep the mode offline
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, ModeOffline, a.Mode())

	// connectivity returns: the watcher flips online and flushes the outbox
	fr.setPingErr(nil)

	select {
	case req := <-fr.created:
		assert.Equal(t, int64(5), req.DrawingID)
	case <-time.After(2 * time.Second):
		t.Fatal("queued markup was not delivered after reconnect")
	}
	assert.Eventually(t, func() bool { return a.Mode() == ModeOnline },
		time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestClose_ReleasesDatabaseEvenWhenRemoteCloseFails(t *testing.T) {
	fr := &watcherRemote{closeErr: errors.New("conn teardown failed"), created: make(chan models.PendingMarkup, 1)}
	a := newTestApp(t, fr)

	err := a.Close()
	require.Error(t, err)
	assert.ErrorContains(t, err, "conn teardown failed")
	assert.Error(t, a.stores.DB.PingContext(context.Background()), "database handle released")
}

func TestWatcher_GoesOfflineWhenPingFails(t *testing.T) {
	fr := &watcherRemote{created: make(chan models.PendingMarkup, 1)}
	a := newTestApp(t, fr)
	a.mode = ModeOnline
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.StartOnlineStatusWatcher(ctx, 5*time.Millisecond)

	fr.setPingErr(remote.ErrUnavailable)
	assert.Eventually(t, func() bool { return a.Mode() == ModeOffline },
		time.Second, 5*time.Millisecond)
}
