// Package store is the SQLite turn journal.
//
// A run is one campaign played from a seed and an initial campaign. For
// every committed turn the journal keeps:
//   - Turns: the orders given, their outcomes and the campaign digest after
//     the commit
//   - Events: every narrative event, keyed by the engine's sequence number
//   - Changes: the turn's ledger entries in application order
//   - Snapshots: the full campaign after the commit
//
// # Ordering
//
// Nothing is ordered by wall time. Turns order by turn number, events by
// seq, changes by their index within the turn. Reads always use those
// keys so results are identical across replays.
//
// # Replay
//
// Replay re-runs a journaled campaign from its seed and initial campaign
// through a fresh engine and compares each turn's digest with the journal.
// Digests are computed by internal/canon.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
