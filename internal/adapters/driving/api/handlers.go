package api

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/custodia-labs/lore-cli/internal/core/domain"
	"github.com/custodia-labs/lore-cli/internal/core/ports/driving"
)

type ingestRequest struct {
	ArtifactID string `json:"artifact_id"`
	Content    string `json:"content"`
}

type queryRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type answerRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k"`
}

type codeRequest struct {
	Code string `json:"code"`
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type datasetAnalyzeRequest struct {
	// Path optionally loads a dataset before analysing. When empty the
	// previously loaded dataset is used.
	Path string `json:"path,omitempty"`

	// Row selects the row to analyse. Omitted means a random row.
	Row *int `json:"row,omitempty"`

	Iterations int `json:"iterations,omitempty"`
}

// handleHealth reports liveness.
func (s *Server) handleHealth(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleIngest adds or refreshes one artifact in the corpus.
func (s *Server) handleIngest(c fiber.Ctx) error {
	var body ingestRequest
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if strings.TrimSpace(body.ArtifactID) == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "artifact_id is required"})
	}

	result, err := s.ports.RAG.Ingest(c.Context(), domain.NewArtifact(body.ArtifactID, body.Content))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"artifact_id": result.ArtifactID,
		"chunk_count": result.ChunkCount,
		"skipped":     result.Skipped,
		"replaced":    result.Replaced,
	})
}

// handleQuery retrieves the chunks most similar to the query text.
func (s *Server) handleQuery(c fiber.Ctx) error {
	var body queryRequest
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if strings.TrimSpace(body.Query) == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "query is required"})
	}

	matches, err := s.ports.RAG.Query(c.Context(), body.Query, body.TopK)
	if err != nil {
		return fail(c, err)
	}

	out := make([]fiber.Map, len(matches))
	for i, match := range matches {
		out[i] = fiber.Map{
			"chunk_id":    match.ChunkID,
			"artifact_id": match.ArtifactID,
			"content":     match.Content,
			"score":       match.Score,
		}
	}

	return c.JSON(fiber.Map{"matches": out, "count": len(out)})
}

// handleStatus reports corpus statistics.
func (s *Server) handleStatus(c fiber.Ctx) error {
	status, err := s.ports.RAG.Status(c.Context())
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"artifacts":  status.ArtifactCount,
		"records":    status.RecordCount,
		"dimensions": status.Dimensions,
		"model":      status.Model,
		"path":       status.Path,
	})
}

// handleRemove deletes an artifact and all its records. The wildcard
// keeps slashes in artifact IDs addressable.
func (s *Server) handleRemove(c fiber.Ctx) error {
	artifactID := c.Params("*")
	if artifactID == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "artifact id is required"})
	}

	if err := s.ports.RAG.Remove(c.Context(), artifactID); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"removed": artifactID})
}

// handleAnswer runs the full retrieve-then-generate pipeline.
func (s *Server) handleAnswer(c fiber.Ctx) error {
	var body answerRequest
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if strings.TrimSpace(body.Question) == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "question is required"})
	}

	answer, err := s.ports.Answer.Answer(c.Context(), body.Question, driving.AnswerOptions{TopK: body.TopK})
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"answer":  answer.Text,
		"model":   answer.Model,
		"sources": answer.UsedChunkIDs,
	})
}

// handleExplain asks the model to explain the posted code.
func (s *Server) handleExplain(c fiber.Ctx) error {
	var body codeRequest
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if strings.TrimSpace(body.Code) == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "code is required"})
	}

	explanation, err := s.ports.Assistant.ExplainCode(c.Context(), body.Code)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"explanation": explanation})
}

// handleAnalyze analyses the posted code. Analysis and explanation
// share a prompt; both routes exist so clients can use either verb.
func (s *Server) handleAnalyze(c fiber.Ctx) error {
	var body codeRequest
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if strings.TrimSpace(body.Code) == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "code is required"})
	}

	analysis, err := s.ports.Assistant.ExplainCode(c.Context(), body.Code)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"analysis": analysis})
}

// handleGenerate produces code from a free-form prompt.
func (s *Server) handleGenerate(c fiber.Ctx) error {
	var body generateRequest
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if strings.TrimSpace(body.Prompt) == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "prompt is required"})
	}

	code, err := s.ports.Assistant.GenerateCode(c.Context(), body.Prompt)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"code": code})
}

// handleDatasetAnalyze analyses one dataset row, optionally loading a
// dataset file first.
func (s *Server) handleDatasetAnalyze(c fiber.Ctx) error {
	var body datasetAnalyzeRequest
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if body.Path != "" {
		if _, err := s.ports.Dataset.Load(c.Context(), body.Path); err != nil {
			return fail(c, err)
		}
	}

	row := -1
	if body.Row != nil {
		row = *body.Row
	}

	iterations := body.Iterations
	if iterations <= 0 {
		iterations = 1
	}

	analysis, err := s.ports.Dataset.Analyze(c.Context(), row, iterations)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"analysis": analysis})
}
