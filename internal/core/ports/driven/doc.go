// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Chunker: Splits artifacts into retrieval-sized chunks
//   - RecordStore: Durable (chunk, vector, metadata) persistence
//   - VectorIndex: In-memory nearest-neighbour search, rebuildable from records
//   - EmbeddingService: Generates vector embeddings for ingest and query
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Text generation. Without it, retrieval still works but
//     answer synthesis and code assistance are disabled.
//   - PromptStore: Customisable prompt templates. Without it, services
//     fall back to built-in defaults.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
