// Package drafts is the draft persistence store: durable, queryable local
// storage for fully composed RFI submissions that could not yet be sent.
//
// A draft survives app restarts and is merged into the visible RFI list with
// a synthetic Draft status until its submission is confirmed, at which point
// the sync pipeline deletes it. View code never writes here directly.
//
// Key Types
//
//   - type Repository        — interface used by the RFI service
//   - type SQLiteRepository  — SQLite implementation over dbx.DBTX
package drafts
