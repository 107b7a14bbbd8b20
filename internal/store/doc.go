// Package store provides SQLite-backed persistence for scenario runs.
//
// The store records:
//   - Runs: one row per scenario run (mode, seed, variation settings, outcome)
//   - Frames: every orchestrator output of a run, as JSON, with its digest
//   - Leitmotifs: each actor's registry entry at the end of a run
//
// # Ordering
//
// Frames are keyed by (run_id, frame_index) and always read back in
// frame_index order. Runs list by created_at, then id. FinishRun folds
// the frame digests in that order into the run digest, which replay
// compares against.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Writes are idempotent: writing a frame or leitmotif twice replaces the
// earlier row.
package store
