// Package repositories implements SQLite persistence for sync run history.
//
// [SyncRunRepository] implements models.Repository for [models.SyncRun] and satisfies the tasks.RunRecorder
// interface, so the sync engine can persist every run directly. Deletes are soft: deleted_at is stamped and
// queries skip those rows.
//
// Sequence numbers provide stable, human-readable ordering independent of UUIDs and timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
