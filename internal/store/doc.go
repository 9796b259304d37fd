// Package store provides the SQLite-backed render cache used by batch
// tooling.
//
// The cache memoizes transform output keyed by a content-addressed hash of
// the raw markup (SHA-256 with domain separation, see hash.go). The engine
// itself is stateless by contract; caching lives strictly in this tooling
// layer, and a cold or missing cache only costs recomputation.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
//
// Writes are idempotent upserts: the hash fixes the input and the engine
// version fixes the output, so rewriting a row for the same version can
// only carry identical content.
package store
