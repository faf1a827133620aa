// ABOUTME: Lead MCP tool handlers
// ABOUTME: Implements add_lead, find_leads, get_lead, update_lead_status and log_lead_interaction tools
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/leadcoach/db"
	"github.com/harperreed/leadcoach/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type LeadHandlers struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewLeadHandlers(database *sql.DB, logger *zap.Logger) *LeadHandlers {
	return &LeadHandlers{db: database, logger: logger}
}

type AddLeadInput struct {
	Name                string   `json:"name" jsonschema:"Lead name (required)"`
	Email               string   `json:"email,omitempty" jsonschema:"Email address"`
	Phone               string   `json:"phone,omitempty" jsonschema:"Phone or WhatsApp number"`
	Company             string   `json:"company,omitempty" jsonschema:"Company name"`
	JobTitle            string   `json:"job_title,omitempty" jsonschema:"Job title"`
	Source              string   `json:"source,omitempty" jsonschema:"Acquisition channel, e.g. referral, linkedin, website, whatsapp"`
	PotentialValue      float64  `json:"potential_value,omitempty" jsonschema:"Estimated budget in the catalog currency"`
	DetectedNeeds       []string `json:"detected_needs,omitempty" jsonschema:"Needs such as social media, website, seo"`
	PsychType           string   `json:"psych_type,omitempty" jsonschema:"analytical, emotional, assertive or indecisive"`
	PainPoints          []string `json:"pain_points,omitempty" jsonschema:"Pain points mentioned by the lead"`
	Objections          []string `json:"objections,omitempty" jsonschema:"Open objections"`
	RecommendedStrategy string   `json:"recommended_strategy,omitempty" jsonschema:"Suggested approach for this lead"`
	Notes               string   `json:"notes,omitempty" jsonschema:"Free-form notes"`
}

func (h *LeadHandlers) AddLead(_ context.Context, request *mcp.CallToolRequest, input AddLeadInput) (*mcp.CallToolResult, LeadOutput, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, LeadOutput{}, fmt.Errorf("name is required")
	}

	lead := &models.Lead{
		Name:          input.Name,
		Email:         input.Email,
		Phone:         input.Phone,
		Company:       input.Company,
		JobTitle:      input.JobTitle,
		Source:        strings.ToLower(input.Source),
		DetectedNeeds: input.DetectedNeeds,
		Notes:         input.Notes,
	}
	if input.PotentialValue > 0 {
		v := decimal.NewFromFloat(input.PotentialValue)
		lead.PotentialValue = &v
	}

	profile, err := buildProfile(input.PsychType, input.PainPoints, input.Objections, input.RecommendedStrategy)
	if err != nil {
		return nil, LeadOutput{}, err
	}
	lead.PsychProfile = profile

	if err := db.CreateLead(h.db, lead); err != nil {
		return nil, LeadOutput{}, fmt.Errorf("failed to create lead: %w", err)
	}
	h.logger.Info("lead created", zap.String("lead_id", lead.ID.String()), zap.String("source", lead.Source))

	return nil, leadToOutput(lead), nil
}

func buildProfile(psychType string, pains, objections []string, strategy string) (*models.PsychProfile, error) {
	if psychType == "" && len(pains) == 0 && len(objections) == 0 && strategy == "" {
		return nil, nil
	}
	psychType = strings.ToLower(psychType)
	if psychType != "" && !models.ValidPsychType(psychType) {
		return nil, fmt.Errorf("invalid psych_type: %s (valid: analytical, emotional, assertive, indecisive)", psychType)
	}
	return &models.PsychProfile{
		DominantType:        models.PsychType(psychType),
		PainPoints:          pains,
		Objections:          objections,
		RecommendedStrategy: strategy,
	}, nil
}

type FindLeadsInput struct {
	Query  string `json:"query,omitempty" jsonschema:"Search query (name, company or email)"`
	Status string `json:"status,omitempty" jsonschema:"Filter by pipeline status"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type FindLeadsOutput struct {
	Leads []LeadOutput `json:"leads"`
}

func (h *LeadHandlers) FindLeads(_ context.Context, request *mcp.CallToolRequest, input FindLeadsInput) (*mcp.CallToolResult, FindLeadsOutput, error) {
	if input.Status != "" && !models.ValidStatus(input.Status) {
		return nil, FindLeadsOutput{}, fmt.Errorf("invalid status: %s", input.Status)
	}
	limit := input.Limit
	if limit == 0 {
		limit = 10
	}

	leads, err := db.FindLeads(h.db, models.Status(input.Status), input.Query, limit)
	if err != nil {
		return nil, FindLeadsOutput{}, fmt.Errorf("failed to find leads: %w", err)
	}

	result := make([]LeadOutput, len(leads))
	for i := range leads {
		result[i] = leadToOutput(&leads[i])
	}
	return nil, FindLeadsOutput{Leads: result}, nil
}

type LeadIDInput struct {
	LeadID string `json:"lead_id" jsonschema:"Lead ID (required)"`
}

func (h *LeadHandlers) GetLead(_ context.Context, request *mcp.CallToolRequest, input LeadIDInput) (*mcp.CallToolResult, LeadOutput, error) {
	lead, err := loadLead(h.db, input.LeadID)
	if err != nil {
		return nil, LeadOutput{}, err
	}
	return nil, leadToOutput(lead), nil
}

// loadLead parses id and loads the lead with its history, failing when it does not exist.
func loadLead(database *sql.DB, id string) (*models.Lead, error) {
	if id == "" {
		return nil, fmt.Errorf("lead_id is required")
	}
	leadID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid lead_id: %w", err)
	}
	lead, err := db.GetLead(database, leadID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	if lead == nil {
		return nil, fmt.Errorf("lead not found")
	}
	return lead, nil
}

type UpdateLeadStatusInput struct {
	LeadID      string `json:"lead_id" jsonschema:"Lead ID (required)"`
	Status      string `json:"status" jsonschema:"New pipeline status (required)"`
	MeetingAt   string `json:"meeting_at,omitempty" jsonschema:"Meeting time in RFC3339, used when scheduling"`
	MeetingLink string `json:"meeting_link,omitempty" jsonschema:"Video call link for the meeting"`
}

func (h *LeadHandlers) UpdateLeadStatus(_ context.Context, request *mcp.CallToolRequest, input UpdateLeadStatusInput) (*mcp.CallToolResult, LeadOutput, error) {
	if !models.ValidStatus(input.Status) {
		return nil, LeadOutput{}, fmt.Errorf("invalid status: %s", input.Status)
	}
	lead, err := loadLead(h.db, input.LeadID)
	if err != nil {
		return nil, LeadOutput{}, err
	}

	lead.Status = models.Status(input.Status)
	if input.MeetingAt != "" {
		at, err := time.Parse(time.RFC3339, input.MeetingAt)
		if err != nil {
			return nil, LeadOutput{}, fmt.Errorf("invalid meeting_at format (use RFC3339): %w", err)
		}
		lead.NextMeeting = &models.Meeting{ScheduledAt: at, Link: input.MeetingLink}
	} else if input.MeetingLink != "" && lead.NextMeeting != nil {
		lead.NextMeeting.Link = input.MeetingLink
	}

	if err := db.UpdateLead(h.db, lead); err != nil {
		return nil, LeadOutput{}, fmt.Errorf("failed to update lead: %w", err)
	}
	h.logger.Info("lead status updated", zap.String("lead_id", lead.ID.String()), zap.String("status", input.Status))

	return nil, leadToOutput(lead), nil
}

type LogLeadInteractionInput struct {
	LeadID    string `json:"lead_id" jsonschema:"Lead ID (required)"`
	Channel   string `json:"channel" jsonschema:"whatsapp, email, call or meeting"`
	Direction string `json:"direction" jsonschema:"inbound or outbound"`
	Notes     string `json:"notes,omitempty" jsonschema:"What was said"`
	Timestamp string `json:"timestamp,omitempty" jsonschema:"Time of the interaction (RFC3339, defaults to now)"`
}

func (h *LeadHandlers) LogLeadInteraction(_ context.Context, request *mcp.CallToolRequest, input LogLeadInteractionInput) (*mcp.CallToolResult, LeadOutput, error) {
	lead, err := loadLead(h.db, input.LeadID)
	if err != nil {
		return nil, LeadOutput{}, err
	}

	switch input.Channel {
	case models.ChannelWhatsApp, models.ChannelEmail, models.ChannelCall, models.ChannelMeeting:
	default:
		return nil, LeadOutput{}, fmt.Errorf("invalid channel: %s", input.Channel)
	}

	in := &models.Interaction{
		LeadID:    lead.ID,
		Channel:   input.Channel,
		Direction: input.Direction,
		Notes:     input.Notes,
	}
	if input.Timestamp != "" {
		in.Timestamp, err = time.Parse(time.RFC3339, input.Timestamp)
		if err != nil {
			return nil, LeadOutput{}, fmt.Errorf("invalid timestamp format (use RFC3339): %w", err)
		}
	}

	if err := db.LogInteraction(h.db, in); err != nil {
		return nil, LeadOutput{}, fmt.Errorf("failed to log interaction: %w", err)
	}

	lead, err = db.GetLead(h.db, lead.ID)
	if err != nil {
		return nil, LeadOutput{}, fmt.Errorf("failed to reload lead: %w", err)
	}
	return nil, leadToOutput(lead), nil
}
