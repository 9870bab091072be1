package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/planmark/planmark/internal/dbx"
	"github.com/planmark/planmark/internal/models"
)

var ErrMissingLocalID = errors.New("draft has no local id")

// SQLiteRepository implements Repository over a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Save upserts the draft snapshot by LocalID.
func (r *SQLiteRepository) Save(ctx context.Context, d models.RFIDraft) error {
	if d.LocalID == "" {
		return ErrMissingLocalID
	}

	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	query := `INSERT INTO rfi_drafts (id, project_id, payload, created_at)
			values (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET payload = excluded.payload`
	_, err = r.db.ExecContext(ctx, query,
		d.LocalID, d.ProjectID, payload, d.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// ListByProject returns the project's drafts ordered by creation time.
func (r *SQLiteRepository) ListByProject(ctx context.Context, projectID int64) ([]models.RFIDraft, error) {
	query := `select payload from rfi_drafts where project_id=? order by created_at, id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to select drafts: %w", err)
	}
	defer rows.Close()

	var result []models.RFIDraft
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var d models.RFIDraft
		if err := json.Unmarshal(payload, &d); err != nil {
			return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes one draft. It expects exactly one row to be affected.
func (r *SQLiteRepository) Delete(ctx context.Context, localID string) error {
	res, err := r.db.ExecContext(ctx, `delete from rfi_drafts where id=?`, localID)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
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
