// Package store provides SQLite-backed durable storage for the decision rail.
//
// The store is an append-only table of accepted decisions:
//   - id, card_id, parent_id (NULL for roots), summary
//   - accepted_at in Unix milliseconds
//   - card_snapshot as canonical JSON, with its content hash in card_hash
//   - seq, a logical clock assigned on append
//
// # Ordering
//
// LoadAll returns rows ORDER BY seq ASC, never by timestamp, so a reload
// rebuilds the forest in acceptance order regardless of wall-clock skew.
//
// # Snapshots
//
// Snapshots are written with card.EncodeCanonical and checked against
// card_hash on load. A row whose snapshot no longer matches its hash, or
// no longer decodes, fails the load instead of producing a silently
// different card.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON
package store
