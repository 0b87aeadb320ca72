// Package sqlite provides the SQLite-based implementation of the record
// store driven port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. A single database
// connection backs both the record rows and the committed artifact state:
//
//   - RecordStore: embedded chunk rows plus per-artifact commit markers
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Embeddings are stored as packed little-endian float32 blobs.
//
// # Data Location
//
// By default, each corpus is one database file at ~/.lore/data/<corpus>.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
