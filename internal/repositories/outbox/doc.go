// Package outbox is the offline durable queue for markup creations.
//
// A markup drawn while the remote authority is unreachable is stored here as
// a complete creation payload and replayed, in FIFO order per drawing-file
// scope, when connectivity returns. Rows are deleted only after the remote
// creation is confirmed; a row whose success response is lost will be resent
// with the same idempotency key, letting the authority deduplicate it.
//
// Key Types
//
//   - type Repository        — interface used by the markup service
//   - type SQLiteRepository  — SQLite implementation over dbx.DBTX
//
// Typical Usage
//
//	repo := outbox.NewSQLiteRepository(db)
//	_ = repo.Enqueue(ctx, pending)
//	items, _ := repo.ListScope(ctx, outbox.Scope{DrawingID: 1, DrawingFileID: 42})
//	_ = repo.Delete(ctx, items[0].Seq)
package outbox
