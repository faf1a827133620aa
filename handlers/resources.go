// ABOUTME: MCP resource handlers for exposing lead pipeline data
// ABOUTME: Provides read-only access to leads, quotes, the pipeline and the service catalog via URI
package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/leadcoach/db"
	"github.com/harperreed/leadcoach/engine"
	"github.com/harperreed/leadcoach/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/shopspring/decimal"
)

const resourceScheme = "leadcoach://"

type ResourceHandlers struct {
	db     *sql.DB
	engine *engine.Engine
}

func NewResourceHandlers(database *sql.DB, eng *engine.Engine) *ResourceHandlers {
	return &ResourceHandlers{db: database, engine: eng}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, resourceScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", resourceScheme)
	}

	parts := strings.Split(strings.TrimPrefix(uri, resourceScheme), "/")

	switch parts[0] {
	case "leads":
		if len(parts) == 1 || parts[1] == "" {
			return h.readAllLeads(uri)
		}
		return h.readLead(uri, parts[1])

	case "pipeline":
		return h.readPipeline(uri)

	case "catalog":
		return jsonResource(uri, h.engine.Catalog())

	default:
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}

func (h *ResourceHandlers) readAllLeads(uri string) (*mcp.ReadResourceResult, error) {
	leads, err := db.FindLeads(h.db, "", "", 1000)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leads: %w", err)
	}
	out := make([]LeadOutput, len(leads))
	for i := range leads {
		out[i] = leadToOutput(&leads[i])
	}
	return jsonResource(uri, out)
}

func (h *ResourceHandlers) readLead(uri, idStr string) (*mcp.ReadResourceResult, error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid lead ID: %w", err)
	}

	lead, err := db.GetLead(h.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lead: %w", err)
	}
	if lead == nil {
		return nil, fmt.Errorf("lead not found: %s", idStr)
	}

	// Include quote history
	quotes, err := db.FindQuotesByLead(h.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lead quotes: %w", err)
	}
	quoteOut := make([]QuoteOutput, len(quotes))
	for i := range quotes {
		quoteOut[i] = quoteToOutput(&quotes[i])
	}

	return jsonResource(uri, struct {
		Lead        *models.Lead       `json:"lead"`
		Quotes      []QuoteOutput      `json:"quotes"`
		Suggestions []SuggestionOutput `json:"suggestions"`
	}{
		Lead:        lead,
		Quotes:      quoteOut,
		Suggestions: suggestionsToOutput(h.engine.Suggest(lead)),
	})
}

type pipelineStage struct {
	Count int    `json:"count"`
	Value string `json:"total_value"`
}

func (h *ResourceHandlers) readPipeline(uri string) (*mcp.ReadResourceResult, error) {
	leads, err := db.FindLeads(h.db, "", "", 10000)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leads: %w", err)
	}

	counts := make(map[models.Status]int)
	values := make(map[models.Status]decimal.Decimal)
	for i := range leads {
		status := leads[i].Status
		counts[status]++
		if budget, ok := leads[i].Budget(); ok {
			values[status] = values[status].Add(budget)
		}
	}

	stages := make(map[string]pipelineStage, len(counts))
	for status, n := range counts {
		stages[string(status)] = pipelineStage{Count: n, Value: values[status].StringFixed(2)}
	}

	return jsonResource(uri, struct {
		Currency string                   `json:"currency"`
		Stages   map[string]pipelineStage `json:"stages"`
	}{
		Currency: h.engine.Catalog().Currency,
		Stages:   stages,
	})
}
