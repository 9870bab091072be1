package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/planmark/planmark/internal/dbx"
	"github.com/planmark/planmark/internal/models"
)

// SQLiteRepository implements Repository over a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Enqueue appends one creation payload. An idempotency key is assigned here
// if the caller did not already set one, so a replayed row always carries
// the same key it was first sent with.
func (r *SQLiteRepository) Enqueue(ctx context.Context, m models.PendingMarkup) error {
	if m.IdempotencyKey == "" {
		m.IdempotencyKey = uuid.NewString()
	}

	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal queued markup: %w", err)
	}

	query := `INSERT INTO outbox (drawing_id, drawing_file_id, idempotency_key, payload, created_at)
			values (?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		m.DrawingID, m.DrawingFileID, m.IdempotencyKey, payload, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to enqueue markup: %w", err)
	}
	return nil
}

// ListScope returns queued items for the scope ordered by row id (FIFO).
func (r *SQLiteRepository) ListScope(ctx context.Context, s Scope) ([]Item, error) {
	query := `select id, payload from outbox where drawing_id=? and drawing_file_id=? order by id`
	rows, err := r.db.QueryContext(ctx, query, s.DrawingID, s.DrawingFileID)
	if err != nil {
		return nil, fmt.Errorf("failed to select queued markups: %w", err)
	}
	defer rows.Close()

	var result []Item
	for rows.Next() {
		var item Item
		var payload []byte
		if err := rows.Scan(&item.Seq, &payload); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &item.Markup); err != nil {
			return nil, fmt.Errorf("failed to unmarshal queued markup %d: %w", item.Seq, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Scopes lists the distinct scopes with queued items.
func (r *SQLiteRepository) Scopes(ctx context.Context) ([]Scope, error) {
	query := `select distinct drawing_id, drawing_file_id from outbox order by drawing_id, drawing_file_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select outbox scopes: %w", err)
	}
	defer rows.Close()

	var result []Scope
	for rows.Next() {
		var s Scope
		if err := rows.Scan(&s.DrawingID, &s.DrawingFileID); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes one queued item. It expects exactly one row to be affected.
func (r *SQLiteRepository) Delete(ctx context.Context, seq int64) error {
	res, err := r.db.ExecContext(ctx, `delete from outbox where id=?`, seq)
	if err != nil {
		return fmt.Errorf("failed to delete queued markup: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return fmt.Errorf("wrong rows affected count: %d", ra)
	}
	return nil
}
