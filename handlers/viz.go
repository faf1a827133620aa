// ABOUTME: GraphViz visualization MCP handlers
// ABOUTME: Provides the generate_graph tool for the pipeline and single leads
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/leadcoach/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type VizHandlers struct {
	db *sql.DB
}

func NewVizHandlers(database *sql.DB) *VizHandlers {
	return &VizHandlers{db: database}
}

type GenerateGraphInput struct {
	Type   string `json:"type" jsonschema:"Graph type: pipeline or lead"`
	LeadID string `json:"lead_id,omitempty" jsonschema:"Lead ID (required for lead graphs)"`
}

type GenerateGraphOutput struct {
	GraphType string `json:"graph_type"`
	DOTSource string `json:"dot_source"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

func (h *VizHandlers) GenerateGraph(ctx context.Context, request *mcp.CallToolRequest, input GenerateGraphInput) (*mcp.CallToolResult, GenerateGraphOutput, error) {
	generator := viz.NewGraphGenerator(h.db)
	var dot string
	var err error

	switch input.Type {
	case "pipeline", "":
		input.Type = "pipeline"
		dot, err = generator.GeneratePipelineGraph(ctx)

	case "lead":
		if input.LeadID == "" {
			return nil, GenerateGraphOutput{}, fmt.Errorf("lead_id required for lead graph")
		}
		var leadID uuid.UUID
		leadID, err = uuid.Parse(input.LeadID)
		if err != nil {
			return nil, GenerateGraphOutput{}, fmt.Errorf("invalid lead_id: %w", err)
		}
		dot, err = generator.GenerateLeadGraph(ctx, leadID)

	default:
		return nil, GenerateGraphOutput{}, fmt.Errorf("unknown graph type: %s (valid types: pipeline, lead)", input.Type)
	}

	if err != nil {
		return nil, GenerateGraphOutput{}, fmt.Errorf("failed to generate graph: %w", err)
	}

	return nil, GenerateGraphOutput{
		GraphType: input.Type,
		DOTSource: dot,
		NodeCount: strings.Count(dot, "[label="),
		EdgeCount: strings.Count(dot, "->"),
	}, nil
}
