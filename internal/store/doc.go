// Package store provides SQLite-backed durable storage for fixture verdicts.
//
// Each fixture run is recorded as one row in runs plus one row per case in
// verdicts. Records are append-only:
//   - Writes use ON CONFLICT DO NOTHING, so re-recording a run is a no-op
//   - Run IDs are UUIDv7 strings
//   - Ordering uses seq INTEGER from a logical clock, never timestamps
//
// All reads order by seq ASC with a COLLATE BINARY tiebreak, so listings are
// identical across machines.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait on lock contention
//   - foreign_keys=ON: verdicts must reference a recorded run
package store
