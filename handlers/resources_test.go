// ABOUTME: Tests for MCP resources, prompts and the graph tool
// ABOUTME: Reads leadcoach:// URIs and renders prompt templates against seeded leads
package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/harperreed/leadcoach/logging"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readResource(t *testing.T, h *ResourceHandlers, uri string) string {
	t.Helper()
	res, err := h.ReadResource(context.Background(), &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Equal(t, uri, res.Contents[0].URI)
	assert.Equal(t, "application/json", res.Contents[0].MIMEType)
	return res.Contents[0].Text
}

func TestReadResources(t *testing.T) {
	database := setupTestDB(t)
	eng := testEngine(t)
	leads := NewLeadHandlers(database, logging.Nop())
	ana := addLead(t, leads, anaInput)
	addLead(t, leads, AddLeadInput{Name: "Bea Ruiz", PotentialValue: 5000})
	h := NewResourceHandlers(database, eng)

	var all []LeadOutput
	require.NoError(t, json.Unmarshal([]byte(readResource(t, h, "leadcoach://leads")), &all))
	assert.Len(t, all, 2)

	var one struct {
		Lead struct {
			Name string `json:"name"`
		} `json:"lead"`
		Quotes      []QuoteOutput      `json:"quotes"`
		Suggestions []SuggestionOutput `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal([]byte(readResource(t, h, "leadcoach://leads/"+ana.ID)), &one))
	assert.Equal(t, "Ana Torres", one.Lead.Name)
	assert.Empty(t, one.Quotes)
	assert.NotEmpty(t, one.Suggestions)

	var pipeline struct {
		Currency string                   `json:"currency"`
		Stages   map[string]pipelineStage `json:"stages"`
	}
	require.NoError(t, json.Unmarshal([]byte(readResource(t, h, "leadcoach://pipeline")), &pipeline))
	assert.Equal(t, "MXN", pipeline.Currency)
	assert.Equal(t, pipelineStage{Count: 2, Value: "20000.00"}, pipeline.Stages["new"])

	assert.Contains(t, readResource(t, h, "leadcoach://catalog"), "social_basic")
}

func TestReadResourceErrors(t *testing.T) {
	h := NewResourceHandlers(setupTestDB(t), testEngine(t))

	for _, uri := range []string{
		"crm://contacts",
		"leadcoach://deals",
		"leadcoach://leads/not-a-uuid",
		"leadcoach://leads/7b0c3c8e-6a4e-4b8a-9a53-2a7f1e3b9d10",
	} {
		_, err := h.ReadResource(context.Background(), &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}})
		assert.Error(t, err, uri)
	}
}

func promptText(t *testing.T, res *mcp.GetPromptResult) string {
	t.Helper()
	require.Len(t, res.Messages, 1)
	text, ok := res.Messages[0].Content.(*mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestPrompts(t *testing.T) {
	database := setupTestDB(t)
	eng := testEngine(t)
	leads := NewLeadHandlers(database, logging.Nop())
	ana := addLead(t, leads, anaInput)
	h := NewPromptHandlers(database, eng)
	ctx := context.Background()

	get := func(name string, args map[string]string) (*mcp.GetPromptResult, error) {
		return h.GetPrompt(ctx, &mcp.GetPromptRequest{Params: &mcp.GetPromptParams{Name: name, Arguments: args}})
	}

	res, err := get("lead-briefing", map[string]string{"lead_id": ana.ID})
	require.NoError(t, err)
	text := promptText(t, res)
	assert.Contains(t, text, "Name: Ana Torres")
	assert.Contains(t, text, "Budget: MXN 15000")
	assert.Contains(t, text, "Send welcome message")

	res, err = get("closing-plan", map[string]string{"lead_id": ana.ID})
	require.NoError(t, err)
	text = promptText(t, res)
	assert.Contains(t, text, "Close line:")
	assert.Contains(t, text, "Auto-close: false")

	res, err = get("follow-up-queue", nil)
	require.NoError(t, err)
	assert.Contains(t, promptText(t, res), "Ana Torres (new, never contacted)")

	res, err = get("pipeline-review", nil)
	require.NoError(t, err)
	assert.Contains(t, promptText(t, res), "new: 1")

	_, err = get("lead-briefing", nil)
	assert.EqualError(t, err, "lead_id is required")
	_, err = get("follow-up-queue", map[string]string{"days_since_contact": "soon"})
	assert.ErrorContains(t, err, "invalid days_since_contact")
	_, err = get("contact-summary", nil)
	assert.EqualError(t, err, "unknown prompt: contact-summary")

	names := make([]string, 0)
	for _, p := range Prompts() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"lead-briefing", "closing-plan", "follow-up-queue", "pipeline-review"}, names)
}

func TestGenerateGraph(t *testing.T) {
	database := setupTestDB(t)
	ana := addLead(t, NewLeadHandlers(database, logging.Nop()), anaInput)
	h := NewVizHandlers(database)
	ctx := context.Background()

	_, out, err := h.GenerateGraph(ctx, nil, GenerateGraphInput{})
	require.NoError(t, err)
	assert.Equal(t, "pipeline", out.GraphType)
	assert.Contains(t, out.DOTSource, "digraph")
	assert.Greater(t, out.EdgeCount, 0)

	_, out, err = h.GenerateGraph(ctx, nil, GenerateGraphInput{Type: "lead", LeadID: ana.ID})
	require.NoError(t, err)
	assert.Contains(t, out.DOTSource, "Ana Torres")

	_, _, err = h.GenerateGraph(ctx, nil, GenerateGraphInput{Type: "lead"})
	assert.EqualError(t, err, "lead_id required for lead graph")
	_, _, err = h.GenerateGraph(ctx, nil, GenerateGraphInput{Type: "org"})
	assert.ErrorContains(t, err, "unknown graph type")
}
