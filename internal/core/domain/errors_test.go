package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrEmptyArtifact", ErrEmptyArtifact},
		{"ErrDimensionMismatch", ErrDimensionMismatch},
		{"ErrCorruptRecord", ErrCorruptRecord},
		{"ErrProviderUnavailable", ErrProviderUnavailable},
		{"ErrRateLimited", ErrRateLimited},
		{"ErrNotConfigured", ErrNotConfigured},
		{"ErrNoContext", ErrNoContext},
		{"ErrStoreClosed", ErrStoreClosed},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrUnsupportedFormat", ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

// TestErrors_Wrapping tests that wrapped sentinels survive errors.Is
func TestErrors_Wrapping(t *testing.T) {
	wrapped := fmt.Errorf("ingest a.py: %w", ErrEmptyArtifact)

	assert.True(t, errors.Is(wrapped, ErrEmptyArtifact))
	assert.False(t, errors.Is(wrapped, ErrNotFound))
}

// TestErrNotFound tests ErrNotFound error
func TestErrNotFound(t *testing.T) {
	assert.Equal(t, "not found", ErrNotFound.Error())
	assert.True(t, errors.Is(ErrNotFound, ErrNotFound))
	assert.False(t, errors.Is(ErrNotFound, ErrCorruptRecord))
}
