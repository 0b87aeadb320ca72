// Package mcp provides an MCP (Model Context Protocol) server adapter for lore.
// It enables AI assistants like Claude to ingest into and query the local corpus.
package mcp

import "errors"

// ErrMissingRAGService is returned when the RAG service is not provided.
var ErrMissingRAGService = errors.New("mcp: rag service is required")
