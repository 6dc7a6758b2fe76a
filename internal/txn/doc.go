// Package txn implements the Transaction Coordinator: per-collection
// write-transaction mutual exclusion, version allocation, and the
// ordered commit/abort state machine shared by the dense, sparse, and
// text indexes (spec §4.9).
package txn
