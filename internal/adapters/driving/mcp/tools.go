package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/lore-cli/internal/core/domain"
	"github.com/custodia-labs/lore-cli/internal/core/ports/driving"
)

// IngestInput is the input schema for the rag_ingest tool.
type IngestInput struct {
	ArtifactID string `json:"artifact_id" jsonschema:"identity of the artifact, e.g. a file path or URL"`
	Content    string `json:"content" jsonschema:"full text content of the artifact"`
}

// IngestOutput is the output schema for the rag_ingest tool.
type IngestOutput struct {
	ArtifactID string `json:"artifact_id"`
	ChunkCount int    `json:"chunk_count"`
	Skipped    bool   `json:"skipped"`
	Replaced   bool   `json:"replaced"`
}

// QueryInput is the input schema for the rag_query tool.
type QueryInput struct {
	Query string `json:"query" jsonschema:"the text to find similar chunks for"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"maximum number of chunks to return (default 4)"`
}

// QueryOutput is the output schema for the rag_query tool.
type QueryOutput struct {
	Matches []MatchOutput `json:"matches"`
	Count   int           `json:"count"`
}

// MatchOutput represents a single retrieval hit.
type MatchOutput struct {
	ChunkID    string  `json:"chunk_id"`
	ArtifactID string  `json:"artifact_id"`
	Content    string  `json:"content"`
	Score      float64 `json:"score"`
}

// AnswerInput is the input schema for the rag_answer tool.
type AnswerInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the corpus"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"number of chunks to retrieve as context (default 4)"`
}

// AnswerOutput is the output schema for the rag_answer tool.
type AnswerOutput struct {
	Answer  string   `json:"answer"`
	Model   string   `json:"model"`
	Sources []string `json:"sources"`
}

// StatusInput is the input schema for the corpus_status tool.
type StatusInput struct{}

// StatusOutput is the output schema for the corpus_status tool.
type StatusOutput struct {
	Artifacts  int    `json:"artifacts"`
	Records    int    `json:"records"`
	Dimensions int    `json:"dimensions,omitempty"`
	Model      string `json:"model,omitempty"`
	Path       string `json:"path"`
}

// registerTools registers all tool handlers with the MCP server.
// rag_answer is only exposed when an answer service is wired.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "rag_ingest",
		Description: "Ingest a text artifact into the local knowledge corpus",
	}, s.handleIngest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "rag_query",
		Description: "Retrieve the chunks most similar to a query from the corpus",
	}, s.handleQuery)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "corpus_status",
		Description: "Report artifact and record counts of the corpus",
	}, s.handleStatus)

	if s.ports.Answer != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "rag_answer",
			Description: "Answer a question using the corpus as grounding context",
		}, s.handleAnswer)
	}
}

// handleIngest handles the rag_ingest tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	result, err := s.ports.RAG.Ingest(ctx, domain.NewArtifact(input.ArtifactID, input.Content))
	if err != nil {
		return nil, IngestOutput{}, err
	}

	output := IngestOutput{
		ArtifactID: result.ArtifactID,
		ChunkCount: result.ChunkCount,
		Skipped:    result.Skipped,
		Replaced:   result.Replaced,
	}

	return nil, output, nil
}

// handleQuery handles the rag_query tool invocation.
func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	matches, err := s.ports.RAG.Query(ctx, input.Query, input.TopK)
	if err != nil {
		return nil, QueryOutput{}, err
	}

	output := QueryOutput{
		Matches: make([]MatchOutput, len(matches)),
		Count:   len(matches),
	}

	for i := range matches {
		output.Matches[i] = MatchOutput{
			ChunkID:    matches[i].ChunkID,
			ArtifactID: matches[i].ArtifactID,
			Content:    matches[i].Content,
			Score:      matches[i].Score,
		}
	}

	return nil, output, nil
}

// handleAnswer handles the rag_answer tool invocation.
func (s *Server) handleAnswer(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnswerInput,
) (*mcp.CallToolResult, AnswerOutput, error) {
	answer, err := s.ports.Answer.Answer(ctx, input.Question, driving.AnswerOptions{TopK: input.TopK})
	if err != nil {
		return nil, AnswerOutput{}, err
	}

	output := AnswerOutput{
		Answer:  answer.Text,
		Model:   answer.Model,
		Sources: answer.UsedChunkIDs,
	}

	return nil, output, nil
}

// handleStatus handles the corpus_status tool invocation.
func (s *Server) handleStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	status, err := s.ports.RAG.Status(ctx)
	if err != nil {
		return nil, StatusOutput{}, err
	}

	output := StatusOutput{
		Artifacts:  status.ArtifactCount,
		Records:    status.RecordCount,
		Dimensions: status.Dimensions,
		Model:      status.Model,
		Path:       status.Path,
	}

	return nil, output, nil
}
