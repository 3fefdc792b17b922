// Package store provides durable storage for contracts and their
// operation history.
//
// The store is an append-only record: operations are inserted, never
// updated, and an owned cell is "destroyed" by stamping the identifier
// of the operation that spent it. SQLite in WAL mode gives concurrent
// readers during writes; a single-writer connection pool avoids
// SQLITE_BUSY contention.
//
// The store records, it does not judge: admissibility is the verifier's
// concern and callers are expected to verify before they apply.
package store
