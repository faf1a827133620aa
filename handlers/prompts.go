// ABOUTME: MCP prompt handlers for reusable sales coaching templates
// ABOUTME: Builds lead briefings, closing plans, follow-up queues and pipeline reviews
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/harperreed/leadcoach/db"
	"github.com/harperreed/leadcoach/engine"
	"github.com/harperreed/leadcoach/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type PromptHandlers struct {
	db     *sql.DB
	engine *engine.Engine
}

func NewPromptHandlers(database *sql.DB, eng *engine.Engine) *PromptHandlers {
	return &PromptHandlers{db: database, engine: eng}
}

// Prompts lists the templates served by GetPrompt.
func Prompts() []*mcp.Prompt {
	leadArg := []*mcp.PromptArgument{{Name: "lead_id", Description: "Lead ID", Required: true}}
	return []*mcp.Prompt{
		{Name: "lead-briefing", Description: "Summarise a lead and its next-best actions", Arguments: leadArg},
		{Name: "closing-plan", Description: "Plan the close for a lead using its psych profile", Arguments: leadArg},
		{Name: "follow-up-queue", Description: "Open leads with no contact in a number of days", Arguments: []*mcp.PromptArgument{
			{Name: "days_since_contact", Description: "Days without contact (default 3)"},
		}},
		{Name: "pipeline-review", Description: "Review pipeline health by status"},
	}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	arguments := request.Params.Arguments
	switch request.Params.Name {
	case "lead-briefing":
		return h.getLeadBriefingPrompt(arguments)
	case "closing-plan":
		return h.getClosingPlanPrompt(arguments)
	case "follow-up-queue":
		return h.getFollowUpQueuePrompt(arguments)
	case "pipeline-review":
		return h.getPipelineReviewPrompt()
	default:
		return nil, fmt.Errorf("unknown prompt: %s", request.Params.Name)
	}
}

func userPrompt(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []*mcp.PromptMessage{
			{Role: "user", Content: &mcp.TextContent{Text: text}},
		},
	}
}

func writeLeadHeader(b *strings.Builder, lead *models.Lead, currency string) {
	fmt.Fprintf(b, "Name: %s\n", lead.Name)
	if lead.Company != "" {
		fmt.Fprintf(b, "Company: %s\n", lead.Company)
	}
	fmt.Fprintf(b, "Status: %s\n", lead.Status)
	fmt.Fprintf(b, "Score: %d\n", lead.LeadScore)
	if budget, ok := lead.Budget(); ok {
		fmt.Fprintf(b, "Budget: %s %s\n", currency, budget.StringFixed(0))
	}
	if len(lead.DetectedNeeds) > 0 {
		fmt.Fprintf(b, "Needs: %s\n", strings.Join(lead.DetectedNeeds, ", "))
	}
	if lead.PsychProfile != nil {
		fmt.Fprintf(b, "Psych type: %s\n", lead.PsychType())
	}
	if lead.LastContactAt != nil {
		fmt.Fprintf(b, "Last contact: %s\n", lead.LastContactAt.Format("2006-01-02"))
	}
}

func (h *PromptHandlers) getLeadBriefingPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	lead, err := loadLead(h.db, args["lead_id"])
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	text.WriteString("Brief me on this lead before I reach out:\n\n")
	writeLeadHeader(&text, lead, h.engine.Catalog().Currency)
	fmt.Fprintf(&text, "Interactions: %d\n", len(lead.Interactions))
	if lead.Notes != "" {
		fmt.Fprintf(&text, "\nNotes: %s\n", lead.Notes)
	}

	suggestions := h.engine.Suggest(lead)
	if len(suggestions) > 0 {
		text.WriteString("\nEngine suggestions:\n")
		for _, s := range suggestions {
			fmt.Fprintf(&text, "  - [%s] %s: %s\n", s.Priority, s.Title, s.Description)
		}
	}

	text.WriteString("\nPlease provide:")
	text.WriteString("\n1. A short summary of where this lead stands")
	text.WriteString("\n2. Which suggestion to act on first and why")
	text.WriteString("\n3. A draft of the next message to send")

	return userPrompt(fmt.Sprintf("Briefing for lead: %s", lead.Name), text.String()), nil
}

func (h *PromptHandlers) getClosingPlanPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	lead, err := loadLead(h.db, args["lead_id"])
	if err != nil {
		return nil, err
	}

	guidance := h.engine.Guidance(lead)
	verdict := h.engine.CanAIClose(lead)

	var text strings.Builder
	text.WriteString("Help me close this lead:\n\n")
	writeLeadHeader(&text, lead, h.engine.Catalog().Currency)
	fmt.Fprintf(&text, "\nPhase: %s\n", guidance.Phase)

	if len(guidance.TalkingPoints) > 0 {
		text.WriteString("\nTalking points:\n")
		for _, p := range guidance.TalkingPoints {
			fmt.Fprintf(&text, "  - %s\n", p)
		}
	}
	if len(guidance.ObjectionHandlers) > 0 {
		text.WriteString("\nObjections:\n")
		for _, o := range guidance.ObjectionHandlers {
			fmt.Fprintf(&text, "  - %s: %s\n", o.Objection, o.Response)
		}
	}
	fmt.Fprintf(&text, "\nClose line: %s\n", guidance.CloseAttempt)
	fmt.Fprintf(&text, "Auto-close: %t (%s)\n", verdict.Eligible, verdict.Reason)

	text.WriteString("\nPlease provide:")
	text.WriteString("\n1. A step-by-step closing plan for the next conversation")
	text.WriteString("\n2. How to adapt the close line to this person")
	text.WriteString("\n3. What to do if they push back")

	return userPrompt(fmt.Sprintf("Closing plan for lead: %s", lead.Name), text.String()), nil
}

func (h *PromptHandlers) getFollowUpQueuePrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	days := 3
	if d, ok := args["days_since_contact"]; ok && d != "" {
		n, err := strconv.Atoi(d)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid days_since_contact: %s", d)
		}
		days = n
	}

	leads, err := OpenLeads(h.db, 10000)
	if err != nil {
		return nil, err
	}
	now := h.engine.Now()

	var text strings.Builder
	fmt.Fprintf(&text, "Open leads that may need follow-up (no contact in %d+ days):\n\n", days)

	count := 0
	for i := range leads {
		lead := &leads[i]
		switch {
		case lead.LastContactAt == nil:
			fmt.Fprintf(&text, "- %s (%s, never contacted)\n", lead.Name, lead.Status)
		case int(now.Sub(*lead.LastContactAt).Hours()/24) >= days:
			fmt.Fprintf(&text, "- %s (%s, last contact %s)\n", lead.Name, lead.Status, lead.LastContactAt.Format("2006-01-02"))
		default:
			continue
		}
		count++
	}
	if count == 0 {
		text.WriteString("All open leads have been contacted recently.\n")
	}

	text.WriteString("\nPlease:")
	text.WriteString("\n1. Prioritise which leads to reach out to first")
	text.WriteString("\n2. Suggest a WhatsApp message for each")

	return userPrompt("Follow-up queue for open leads", text.String()), nil
}

func (h *PromptHandlers) getPipelineReviewPrompt() (*mcp.GetPromptResult, error) {
	counts, err := db.CountLeadsByStatus(h.db)
	if err != nil {
		return nil, fmt.Errorf("failed to count leads: %w", err)
	}

	statuses := make([]string, 0, len(counts))
	total := 0
	for s, n := range counts {
		statuses = append(statuses, string(s))
		total += n
	}
	sort.Strings(statuses)

	var text strings.Builder
	text.WriteString("Please review the current lead pipeline:\n\n")
	fmt.Fprintf(&text, "Total leads: %d\n\n", total)
	text.WriteString("Leads by status:\n")
	for _, s := range statuses {
		fmt.Fprintf(&text, "  - %s: %d\n", s, counts[models.Status(s)])
	}

	text.WriteString("\nPlease provide:")
	text.WriteString("\n1. Where leads are getting stuck")
	text.WriteString("\n2. Which stage deserves attention this week")

	return userPrompt("Lead pipeline review", text.String()), nil
}
