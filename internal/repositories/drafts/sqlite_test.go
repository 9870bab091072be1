package drafts

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/planmark/planmark/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE rfi_drafts (
  id TEXT PRIMARY KEY,
  project_id INTEGER NOT NULL,
  payload BLOB NOT NULL,
  created_at INTEGER NOT NULL
);
`)
	require.NoError(t, err)

	return db
}

func draft(localID string, projectID int64, createdAt time.Time) models.RFIDraft {
	return models.RFIDraft{
		LocalID:         localID,
		ProjectID:       projectID,
		Title:           "Beam clearance at grid C4",
		Query:           "Confirm clearance under beam B-12",
		ManagerID:       3,
		AssignedUserIDs: []int64{5, 6},
		FilePaths:       []string{"/tmp/photo1.jpg"},
		DrawingIDs:      []int64{42},
		CreatedAt:       createdAt,
	}
}

func TestSave_RequiresLocalID(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	err := r.Save(context.Background(), models.RFIDraft{ProjectID: 1})
	assert.ErrorIs(t, err, ErrMissingLocalID)
}

func TestSaveAndListByProject(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	base := time.Now().Truncate(time.Millisecond)

	require.NoError(t, r.Save(ctx, draft("d1", 1, base)))
	require.NoError(t, r.Save(ctx, draft("d2", 1, base.Add(time.Minute))))
	require.NoError(t, r.Save(ctx, draft("d3", 2, base)))

	got, err := r.ListByProject(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "d1", got[0].LocalID)
	assert.Equal(t, "d2", got[1].LocalID)

	// full payload round-trips
	assert.Equal(t, []int64{5, 6}, got[0].AssignedUserIDs)
	assert.Equal(t, []string{"/tmp/photo1.jpg"}, got[0].FilePaths)
	assert.Equal(t, []int64{42}, got[0].DrawingIDs)
}

func TestSave_UpsertsByLocalID(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	d := draft("d1", 1, time.Now())
	require.NoError(t, r.Save(ctx, d))
	d.Title = "Updated title"
	require.NoError(t, r.Save(ctx, d))

	got, err := r.ListByProject(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Updated title", got[0].Title)
}

func TestDelete(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, draft("d1", 1, time.Now())))
	require.NoError(t, r.Delete(ctx, "d1"))

	got, err := r.ListByProject(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.Error(t, r.Delete(ctx, "d1"), "second delete must fail")
}
