// Package store opens the local SQLite database and wires the repositories
// over it. The database is the durable side of the sync engine: the markup
// outbox and the RFI draft store.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/planmark/planmark/internal/migrations"
	"github.com/planmark/planmark/internal/repositories/drafts"
	"github.com/planmark/planmark/internal/repositories/outbox"
	"github.com/pressly/goose/v3"
)

// Repositories bundles the durable stores backed by one database.
type Repositories struct {
	Outbox outbox.Repository
	Drafts drafts.Repository
	DB     *sql.DB
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Files)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the local database at dsn, runs
// migrations and returns the repositories bound to it.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		Outbox: outbox.NewSQLiteRepository(db),
		Drafts: drafts.NewSQLiteRepository(db),
		DB:     db,
	}, nil
}
