// Package tasks reconciles a destination album with a source album, reporting progress as it goes.
//
// # Behaviors
//
// A [Behavior] reads the albums of a sync configuration and returns a [Plan]: the source items it selected and
// the ids to add to or remove from the destination. Behaviors are registered by name; [Lookup] resolves the name
// given on the command line.
//
// [NMostRecent] ("n-most-recent") selects the N most recently created still images of the source:
//   - videos and other non-images are ignored
//   - ties on creation time keep source order
//   - toAdd = wanted − have, toRemove = have − wanted, compared by media item id
//
// # Applying a Plan
//
// [SyncEngine.Sync] removes first, then adds. Both steps run even if the other fails, and neither is rolled back.
// Failures land in [SyncResult] as warnings rather than errors. Dry runs stop after planning.
//
// # Progress Reporting
//
// Progress goes out through an optional channel as [ProgressUpdate] values. Sends use select with default so a
// slow reader never blocks a run.
//
// # History
//
// With a [RunRecorder] configured each run is persisted as a models.SyncRun. Recording failures are logged.
package tasks
