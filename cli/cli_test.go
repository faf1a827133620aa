// ABOUTME: Tests for the CLI commands
// ABOUTME: Runs each command against a temporary database and checks what it prints
package cli

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/leadcoach/config"
	"github.com/harperreed/leadcoach/db"
	"github.com/harperreed/leadcoach/engine"
	"github.com/harperreed/leadcoach/logging"
	"github.com/harperreed/leadcoach/models"
)

func setupTestCLI(t *testing.T) (*sql.DB, *engine.Engine, *bytes.Buffer) {
	t.Helper()
	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "leads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	eng, err := BuildEngine(config.Default())
	require.NoError(t, err)

	var out bytes.Buffer
	prev, prevColor := stdout, color
	stdout, color = &out, false
	t.Cleanup(func() { stdout, color = prev, prevColor })
	return database, eng, &out
}

func onlyLead(t *testing.T, database *sql.DB) *models.Lead {
	t.Helper()
	leads, err := db.FindLeads(database, "", "", 10)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	return &leads[0]
}

func TestLeadCommands(t *testing.T) {
	database, eng, out := setupTestCLI(t)

	require.NoError(t, AddLeadCommand(database, eng, []string{
		"--name", "Ana Torres", "--company", "Torres Café", "--email", "ana@example.com",
		"--source", "Referral", "--budget", "15000", "--needs", "social media, seo", "--psych", "assertive",
	}))
	assert.Contains(t, out.String(), "Lead created: Ana Torres")
	lead := onlyLead(t, database)
	assert.Equal(t, "referral", lead.Source)
	assert.Equal(t, []string{"social media", "seo"}, lead.DetectedNeeds)
	assert.Equal(t, models.PsychAssertive, lead.PsychType())
	assert.Equal(t, eng.Score(lead), lead.LeadScore)

	out.Reset()
	require.NoError(t, ListLeadsCommand(database, nil))
	assert.Contains(t, out.String(), "Ana Torres")
	assert.Contains(t, out.String(), shortID(lead.ID))
	assert.Contains(t, out.String(), "Total: 1 lead(s)")

	out.Reset()
	require.NoError(t, ListLeadsCommand(database, []string{"--status", "won"}))
	assert.Equal(t, "No leads found\n", out.String())

	out.Reset()
	require.NoError(t, ShowLeadCommand(database, eng, []string{shortID(lead.ID)}))
	assert.Contains(t, out.String(), "Budget:   MXN 15000")
	assert.Contains(t, out.String(), "NEXT ACTIONS")

	out.Reset()
	require.NoError(t, UpdateStatusCommand(database, []string{"--meeting", "2026-06-01T16:00:00Z", "--link", "https://meet.example.com/ana", lead.ID.String(), "scheduled"}))
	assert.Contains(t, out.String(), "Ana Torres is now scheduled")
	lead = onlyLead(t, database)
	require.NotNil(t, lead.NextMeeting)
	assert.Equal(t, "https://meet.example.com/ana", lead.NextMeeting.Link)

	out.Reset()
	require.NoError(t, LogInteractionCommand(database, []string{"--channel", "call", "--notes", "Intro call", lead.ID.String()}))
	assert.Contains(t, out.String(), "Logged outbound call with Ana Torres")
	lead = onlyLead(t, database)
	assert.NotNil(t, lead.LastContactAt)

	out.Reset()
	require.NoError(t, ScoreLeadCommand(database, eng, []string{lead.ID.String()}))
	assert.Contains(t, out.String(), "Ana Torres:")

	assert.EqualError(t, UpdateStatusCommand(database, []string{lead.ID.String(), "pending"}), "invalid status: pending")
	assert.Error(t, LogInteractionCommand(database, []string{"--channel", "fax", lead.ID.String()}))

	out.Reset()
	require.NoError(t, DeleteLeadCommand(database, []string{lead.ID.String()}))
	assert.Contains(t, out.String(), "Lead deleted: Ana Torres")
	_, err := resolveLead(database, lead.ID.String())
	assert.ErrorContains(t, err, "lead not found")
}

func TestAddLeadValidation(t *testing.T) {
	database, eng, _ := setupTestCLI(t)

	assert.EqualError(t, AddLeadCommand(database, eng, nil), "--name is required")
	assert.ErrorContains(t, AddLeadCommand(database, eng, []string{"--name", "Bea", "--budget", "lots"}), "invalid --budget")
	assert.ErrorContains(t, AddLeadCommand(database, eng, []string{"--name", "Bea", "--psych", "grumpy"}), "invalid --psych")
}

func TestResolveLead(t *testing.T) {
	database, _, _ := setupTestCLI(t)

	_, err := resolveLead(database, "")
	assert.EqualError(t, err, "lead ID is required")
	_, err = resolveLead(database, "ffffffff")
	assert.EqualError(t, err, "lead not found: ffffffff")

	a := &models.Lead{Name: "A"}
	b := &models.Lead{Name: "B"}
	require.NoError(t, db.CreateLead(database, a))
	require.NoError(t, db.CreateLead(database, b))

	got, err := resolveLead(database, shortID(a.ID))
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = resolveLead(database, "-")
	assert.EqualError(t, err, "lead not found: -")
}

func TestQuoteCommands(t *testing.T) {
	database, eng, out := setupTestCLI(t)
	require.NoError(t, AddLeadCommand(database, eng, []string{
		"--name", "Ana Torres", "--budget", "15000", "--needs", "social media", "--psych", "assertive",
	}))
	lead := onlyLead(t, database)

	out.Reset()
	require.NoError(t, QuoteGenerateCommand(database, eng, []string{lead.ID.String()}))
	assert.Contains(t, out.String(), "16200.00")
	assert.Contains(t, out.String(), "economic")
	assert.Contains(t, out.String(), "premium")

	quotes, err := db.FindQuotesByLead(database, lead.ID)
	require.NoError(t, err)
	require.Len(t, quotes, 3)
	var standard models.Quote
	for _, q := range quotes {
		if q.Kind == models.QuoteKindStandard {
			standard = q
		}
	}
	require.NotEmpty(t, standard.Number)

	out.Reset()
	require.NoError(t, QuoteListCommand(database, []string{lead.ID.String()}))
	assert.Contains(t, out.String(), standard.Number)

	out.Reset()
	require.NoError(t, QuoteEditCommand(database, eng, []string{standard.Number, "give", "me", "a", "discount"}))
	assert.Contains(t, out.String(), "14400.00")

	out.Reset()
	require.NoError(t, QuoteEditCommand(database, eng, []string{standard.Number, "hello"}))
	assert.Contains(t, out.String(), "No changes recognised")

	out.Reset()
	require.NoError(t, QuoteStatusCommand(database, eng, []string{standard.ID.String(), "sent"}))
	assert.Contains(t, out.String(), "Lead moved to proposal_sent")
	assert.Equal(t, models.StatusProposalSent, onlyLead(t, database).Status)

	assert.ErrorContains(t, QuoteEditCommand(database, eng, []string{standard.Number, "add seo"}), "only draft quotes")
	assert.ErrorIs(t, QuoteStatusCommand(database, eng, []string{standard.Number, "draft"}), models.ErrInvalidTransition)
	assert.EqualError(t, QuoteStatusCommand(database, eng, []string{"Q-NOPE", "sent"}), "quote not found: Q-NOPE")
}

func TestCoachCommands(t *testing.T) {
	database, eng, out := setupTestCLI(t)
	require.NoError(t, AddLeadCommand(database, eng, []string{"--name", "Ana Torres"}))
	require.NoError(t, AddLeadCommand(database, eng, []string{"--name", "Dan Won"}))
	leads, err := db.FindLeads(database, "", "Dan", 1)
	require.NoError(t, err)
	require.NoError(t, db.UpdateLeadStatus(database, leads[0].ID, models.StatusWon))

	out.Reset()
	require.NoError(t, SuggestCommand(context.Background(), database, eng, []string{"--all"}))
	assert.Contains(t, out.String(), "Ana Torres")
	assert.Contains(t, out.String(), "Send welcome message")
	assert.NotContains(t, out.String(), "Dan Won")

	// the newest lead is closed; the limit still reaches Ana
	out.Reset()
	require.NoError(t, SuggestCommand(context.Background(), database, eng, []string{"--all", "--limit", "1"}))
	assert.Contains(t, out.String(), "Ana Torres")

	ana, err := db.FindLeads(database, "", "Ana", 1)
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, GuideCommand(database, eng, []string{ana[0].ID.String()}))
	assert.Contains(t, out.String(), "CLOSE")
	assert.Contains(t, out.String(), "Auto-close: ✗")
}

func TestVizCommands(t *testing.T) {
	database, eng, out := setupTestCLI(t)
	require.NoError(t, AddLeadCommand(database, eng, []string{"--name", "Ana Torres", "--budget", "15000"}))
	lead := onlyLead(t, database)
	ctx := context.Background()

	out.Reset()
	require.NoError(t, VizDashboardCommand(ctx, database, eng, nil))
	assert.Contains(t, out.String(), "LEADCOACH DASHBOARD")

	out.Reset()
	require.NoError(t, VizGraphPipelineCommand(ctx, database, nil))
	assert.Contains(t, out.String(), "digraph")

	file := filepath.Join(t.TempDir(), "lead.dot")
	require.NoError(t, VizGraphLeadCommand(ctx, database, []string{"--output", file, lead.ID.String()}))
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Ana Torres")
}

func TestBuildEngineOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Currency = "usd"
	cfg.QuoteValidityDays = 14

	eng, err := BuildEngine(cfg)
	require.NoError(t, err)
	assert.Equal(t, "USD", eng.Catalog().Currency)

	q := eng.GenerateQuote(&models.Lead{DetectedNeeds: []string{"seo"}}).Quote
	assert.Equal(t, "USD", q.Currency)
	assert.Equal(t, 14*24.0, q.ValidUntil.Sub(q.CreatedAt).Hours())

	cfg.CatalogPath = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = BuildEngine(cfg)
	assert.Error(t, err)
}

func TestMCPServerRegistration(t *testing.T) {
	database, eng, _ := setupTestCLI(t)
	ctx := context.Background()

	server := NewMCPServer(database, eng, logging.Nop(), "test")
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer func() { _ = serverSession.Close() }()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer func() { _ = session.Close() }()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{
		"add_lead", "closer_guidance", "edit_quote", "find_leads", "generate_graph", "generate_quote",
		"get_lead", "log_lead_interaction", "score_lead", "suggest_next_actions", "update_lead_status",
		"update_quote_status",
	}, names)

	prompts, err := session.ListPrompts(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, prompts.Prompts, 4)

	resources, err := session.ListResources(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, resources.Resources, 3)

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "add_lead",
		Arguments: map[string]any{"name": "Ana Torres", "source": "referral"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "referral", onlyLead(t, database).Source)
}
