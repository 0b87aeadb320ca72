// Package chunker provides deterministic fixed-size text chunking.
package chunker

import (
	"context"
	"strings"

	"github.com/custodia-labs/lore-cli/internal/core/domain"
	"github.com/custodia-labs/lore-cli/internal/core/ports/driven"
)

// DefaultChunkSize is the default window size in runes.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping runes.
const DefaultChunkOverlap = 200

// DefaultMinChunkSize is the default threshold below which a trailing
// fragment is merged into the previous chunk.
const DefaultMinChunkSize = 200

// Splitter splits artifact text into overlapping windows.
// It implements the Chunker port. Splitting is a pure function of the
// text and the configuration: the same input always yields the same
// boundaries and the same chunk IDs.
type Splitter struct {
	chunkSize int
	overlap   int
	minSize   int
}

var _ driven.Chunker = (*Splitter)(nil)

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the window size in runes.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in runes.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// WithMinChunkSize sets the minimum size of a standalone trailing chunk.
// A shorter tail is merged into the previous chunk instead.
func WithMinChunkSize(minSize int) Option {
	return func(s *Splitter) {
		if minSize >= 0 {
			s.minSize = minSize
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
		minSize:   DefaultMinChunkSize,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure the window always advances
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}
	if s.minSize >= s.chunkSize {
		s.minSize = s.overlap
	}

	return s
}

// FromSettings creates a splitter from chunker settings.
func FromSettings(cfg domain.ChunkerSettings) *Splitter {
	return New(
		WithChunkSize(cfg.MaxChunkSize),
		WithOverlap(cfg.Overlap),
		WithMinChunkSize(cfg.MinChunkSize),
	)
}

// Chunk splits the artifact into windows of at most chunkSize runes.
// Offsets are rune offsets into the artifact content, so chunk IDs stay
// stable across platforms and encodings.
func (s *Splitter) Chunk(_ context.Context, artifact domain.Artifact) ([]domain.Chunk, error) {
	if strings.TrimSpace(artifact.Content) == "" {
		return nil, domain.ErrEmptyArtifact
	}

	runes := []rune(artifact.Content)
	total := len(runes)
	step := s.chunkSize - s.overlap

	estimated := total/step + 1
	chunks := make([]domain.Chunk, 0, estimated)

	for start := 0; start < total; start += step {
		end := start + s.chunkSize
		last := false
		if end >= total {
			end = total
			last = true
		}

		if last && len(chunks) > 0 && total-start < s.minSize {
			// Trailing fragment too small to stand alone; fold it
			// into the previous chunk.
			prev := &chunks[len(chunks)-1]
			prev.EndOffset = total
			prev.Content = string(runes[prev.StartOffset:total])
			break
		}

		chunks = append(chunks, domain.Chunk{
			ID:          domain.NewChunkID(artifact.ID, start),
			ArtifactID:  artifact.ID,
			Content:     string(runes[start:end]),
			StartOffset: start,
			EndOffset:   end,
		})

		if last {
			break
		}
	}

	return chunks, nil
}
