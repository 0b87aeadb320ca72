// Package api provides the HTTP front-end for lore built on Fiber.
// It exposes corpus operations as a small JSON API so other processes
// can ingest, query and ask without shelling out to the CLI.
package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/custodia-labs/lore-cli/internal/core/domain"
)

// ErrMissingRAGService is returned when the required RAG service is not provided.
var ErrMissingRAGService = errors.New("api: rag service is required")

// statusFor maps domain errors to HTTP status codes. Anything
// unrecognised surfaces as an internal error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyArtifact),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrUnsupportedFormat):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrNoContext):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrRateLimited):
		return fiber.StatusTooManyRequests
	case errors.Is(err, domain.ErrEmbeddingUnavailable),
		errors.Is(err, domain.ErrLLMUnavailable),
		errors.Is(err, domain.ErrProviderUnavailable),
		errors.Is(err, domain.ErrNotConfigured),
		errors.Is(err, domain.ErrStoreClosed):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// fail writes the error as JSON with its mapped status code.
func fail(c fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
}
