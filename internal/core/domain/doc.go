// Package domain defines the core business entities for Lore.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Artifact: A source text unit submitted for ingestion
//   - Chunk: A retrieval-sized fragment of an artifact
//   - Record: A persisted (chunk, vector, metadata) tuple
//   - Dataset: A tabular file loaded for row-level analysis
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
