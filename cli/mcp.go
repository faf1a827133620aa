// ABOUTME: MCP server subcommand
// ABOUTME: Registers lead, coaching and graph tools plus resources and prompts on stdio
package cli

import (
	"context"
	"database/sql"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/harperreed/leadcoach/engine"
	"github.com/harperreed/leadcoach/handlers"
)

// NewMCPServer builds the server with every tool, resource and prompt registered.
func NewMCPServer(db *sql.DB, eng *engine.Engine, logger *zap.Logger, version string) *mcp.Server {
	leadHandlers := handlers.NewLeadHandlers(db, logger)
	coachHandlers := handlers.NewCoachHandlers(db, eng, logger)
	vizHandlers := handlers.NewVizHandlers(db)
	resourceHandlers := handlers.NewResourceHandlers(db, eng)
	promptHandlers := handlers.NewPromptHandlers(db, eng)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "leadcoach",
		Version: version,
	}, nil)

	// Lead tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_lead",
		Description: "Capture a new lead with contact details, budget, needs and psych profile",
	}, leadHandlers.AddLead)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_leads",
		Description: "Search leads by name, company or email, optionally filtered by pipeline status",
	}, leadHandlers.FindLeads)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_lead",
		Description: "Get a lead with its interaction count, meeting and last contact",
	}, leadHandlers.GetLead)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_lead_status",
		Description: "Move a lead through the pipeline and optionally schedule its meeting",
	}, leadHandlers.UpdateLeadStatus)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "log_lead_interaction",
		Description: "Log an inbound or outbound touch with a lead and update its last contact time",
	}, leadHandlers.LogLeadInteraction)

	// Decision engine tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "score_lead",
		Description: "Compute the 0-100 lead score from source, contact data and budget and store it",
	}, coachHandlers.ScoreLead)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "suggest_next_actions",
		Description: "Prioritised next-best actions with ready-to-send messages for one lead or the whole open pipeline",
	}, coachHandlers.SuggestNextActions)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_quote",
		Description: "Price a quote for a lead from its needs and budget, with economic and premium alternatives",
	}, coachHandlers.GenerateQuote)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "edit_quote",
		Description: "Apply a plain-language change to a draft quote: add or remove services, or add a discount",
	}, coachHandlers.EditQuote)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_quote_status",
		Description: "Send, mark viewed, accept or reject a quote; the lead follows the quote",
	}, coachHandlers.UpdateQuoteStatus)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "closer_guidance",
		Description: "Talking points, objection handlers and a close line for a lead, plus whether it can be auto-closed",
	}, coachHandlers.CloserGuidance)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_graph",
		Description: "Generate a GraphViz graph of the pipeline or of a single lead",
	}, vizHandlers.GenerateGraph)

	// Resources
	server.AddResource(&mcp.Resource{
		URI:         "leadcoach://leads",
		Name:        "leads",
		Description: "Every lead in the pipeline",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "leadcoach://leads/{id}",
		Name:        "lead",
		Description: "One lead with its quotes and current suggestions",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResource(&mcp.Resource{
		URI:         "leadcoach://pipeline",
		Name:        "pipeline",
		Description: "Lead counts and budget totals by status",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResource(&mcp.Resource{
		URI:         "leadcoach://catalog",
		Name:        "catalog",
		Description: "Service catalog used to price quotes",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	// Prompts
	for _, p := range handlers.Prompts() {
		server.AddPrompt(p, promptHandlers.GetPrompt)
	}

	return server
}

// MCPCommand starts the MCP server on stdio
func MCPCommand(ctx context.Context, db *sql.DB, eng *engine.Engine, logger *zap.Logger, version string) error {
	logger.Info("starting MCP server", zap.String("version", version))
	return NewMCPServer(db, eng, logger, version).Run(ctx, &mcp.StdioTransport{})
}
