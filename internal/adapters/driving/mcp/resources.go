package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for lore resources.
	uriScheme = "lore://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource exposing corpus statistics.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "corpus/status",
		Name:        "corpus-status",
		Description: "Artifact and record counts of the local knowledge corpus",
		MIMEType:    "application/json",
	}, s.handleStatusResource)
}

// handleStatusResource returns the corpus statistics as JSON.
func (s *Server) handleStatusResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	status, err := s.ports.RAG.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading corpus status: %w", err)
	}

	info := StatusOutput{
		Artifacts:  status.ArtifactCount,
		Records:    status.RecordCount,
		Dimensions: status.Dimensions,
		Model:      status.Model,
		Path:       status.Path,
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling corpus status: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
