// Package app assembles the sync engine and runs the connectivity watcher
// that drives the offline/online mode transitions.
package app

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/planmark/planmark/internal/config"
	"github.com/planmark/planmark/internal/logging"
	"github.com/planmark/planmark/internal/models"
	"github.com/planmark/planmark/internal/remote"
	"github.com/planmark/planmark/internal/remote/httpapi"
	"github.com/planmark/planmark/internal/services"
	"github.com/planmark/planmark/internal/store"

	_ "modernc.org/sqlite"
)

// Mode is the client's view of server reachability.
type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const pingTimeout = 3 * time.Second

// App owns the services and the current connectivity mode. Coming back
// online triggers a sync pass: the markup outbox is flushed and queued RFI
// drafts are dispatched.
type App struct {
	config  *config.Config
	remote  remote.Service
	markups *services.MarkupService
	rfis    *services.RFIService
	stores  *store.Repositories
	log     logging.Logger

	user      models.User
	projectID int64

	mu   sync.Mutex
	mode Mode
}

// NewApp opens the local database, connects the HTTP API client and wires
// the services. The app starts in offline mode until the first successful
// ping.
func NewApp(ctx context.Context, c *config.Config, user models.User, projectID int64) (*App, error) {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	stores, err := store.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	apiClient := httpapi.NewClient(c.ServerEndpointAddr)

	return &App{
		config:    c,
		remote:    apiClient,
		markups:   services.NewMarkupService(apiClient, stores.Outbox, log),
		rfis:      services.NewRFIService(apiClient, stores.Drafts, log),
		stores:    stores,
		log:       log,
		user:      user,
		projectID: projectID,
		mode:      ModeOffline,
	}, nil
}

// Markups exposes the markup service.
func (a *App) Markups() *services.MarkupService { return a.markups }

// RFIs exposes the RFI service.
func (a *App) RFIs() *services.RFIService { return a.rfis }

// Mode returns the current connectivity mode.
func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// Close releases the remote connection and the local database. Both are
// closed even if one fails.
func (a *App) Close() error {
	return errors.Join(a.remote.Close(), a.stores.DB.Close())
}

// setMode records a transition and returns whether the app just came online.
func (a *App) setMode(ctx context.Context, mode Mode) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode == mode {
		return false
	}
	a.mode = mode
	a.log.Info(ctx, "connectivity mode changed", "mode", mode)
	return mode == ModeOnline
}

// StartOnlineStatusWatcher pings the server every interval and flips the
// mode accordingly. Each offline-to-online transition kicks off a sync pass.
// Blocks until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
			err := a.remote.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ctx, ModeOffline)
				continue
			}
			if a.setMode(ctx, ModeOnline) {
				a.syncPass(ctx)
			}

		case <-ctx.Done():
			return
		}
	}
}

// syncPass replays everything that accumulated while offline. Failures are
// logged and left queued for the next transition.
func (a *App) syncPass(ctx context.Context) {
	if err := a.markups.FlushAll(ctx); err != nil {
		a.log.Warn(ctx, "markup outbox flush incomplete", "error", err)
	}
	if err := a.rfis.SubmitDrafts(ctx, a.user, a.projectID); err != nil {
		a.log.Warn(ctx, "draft dispatch incomplete", "error", err)
	}
}
