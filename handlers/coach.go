// ABOUTME: Decision engine MCP tool handlers
// ABOUTME: Scores leads, suggests next actions, builds and edits quotes, and coaches the close
package handlers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/leadcoach/db"
	"github.com/harperreed/leadcoach/engine"
	"github.com/harperreed/leadcoach/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// batchLimit bounds concurrent evaluation when suggesting across the whole pipeline.
const batchLimit = 8

type CoachHandlers struct {
	db     *sql.DB
	engine *engine.Engine
	logger *zap.Logger
}

func NewCoachHandlers(database *sql.DB, eng *engine.Engine, logger *zap.Logger) *CoachHandlers {
	return &CoachHandlers{db: database, engine: eng, logger: logger}
}

type ScoreLeadOutput struct {
	LeadID   string `json:"lead_id"`
	Previous int    `json:"previous"`
	Score    int    `json:"score"`
}

// ScoreLead computes the lead score and stores it on the lead.
func (h *CoachHandlers) ScoreLead(_ context.Context, request *mcp.CallToolRequest, input LeadIDInput) (*mcp.CallToolResult, ScoreLeadOutput, error) {
	lead, err := loadLead(h.db, input.LeadID)
	if err != nil {
		return nil, ScoreLeadOutput{}, err
	}

	score := h.engine.Score(lead)
	if err := db.UpdateLeadScore(h.db, lead.ID, score); err != nil {
		return nil, ScoreLeadOutput{}, fmt.Errorf("failed to save score: %w", err)
	}
	h.logger.Debug("lead scored", zap.String("lead_id", lead.ID.String()), zap.Int("score", score))

	return nil, ScoreLeadOutput{LeadID: lead.ID.String(), Previous: lead.LeadScore, Score: score}, nil
}

type SuggestInput struct {
	LeadID string `json:"lead_id,omitempty" jsonschema:"Lead ID; omit to cover every open lead"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Maximum leads when lead_id is omitted (default 50)"`
}

type LeadSuggestions struct {
	LeadID      string             `json:"lead_id"`
	Name        string             `json:"name"`
	Status      string             `json:"status"`
	Suggestions []SuggestionOutput `json:"suggestions"`
}

type SuggestOutput struct {
	Leads []LeadSuggestions `json:"leads"`
}

// SuggestNextActions returns prioritised next-best-actions for one lead or the open pipeline.
func (h *CoachHandlers) SuggestNextActions(ctx context.Context, request *mcp.CallToolRequest, input SuggestInput) (*mcp.CallToolResult, SuggestOutput, error) {
	if input.LeadID != "" {
		lead, err := loadLead(h.db, input.LeadID)
		if err != nil {
			return nil, SuggestOutput{}, err
		}
		return nil, SuggestOutput{Leads: []LeadSuggestions{{
			LeadID:      lead.ID.String(),
			Name:        lead.Name,
			Status:      string(lead.Status),
			Suggestions: suggestionsToOutput(h.engine.Suggest(lead)),
		}}}, nil
	}

	limit := input.Limit
	if limit == 0 {
		limit = 50
	}
	leads, err := OpenLeads(h.db, limit)
	if err != nil {
		return nil, SuggestOutput{}, err
	}

	ptrs := make([]*models.Lead, len(leads))
	for i := range leads {
		ptrs[i] = &leads[i]
	}
	results, err := h.engine.SuggestBatch(ctx, ptrs, batchLimit)
	if err != nil {
		return nil, SuggestOutput{}, err
	}

	out := SuggestOutput{Leads: []LeadSuggestions{}}
	for i, lead := range ptrs {
		if len(results[i]) == 0 {
			continue
		}
		out.Leads = append(out.Leads, LeadSuggestions{
			LeadID:      lead.ID.String(),
			Name:        lead.Name,
			Status:      string(lead.Status),
			Suggestions: suggestionsToOutput(results[i]),
		})
	}
	h.logger.Debug("pipeline suggestions", zap.Int("leads", len(ptrs)), zap.Int("with_actions", len(out.Leads)))
	return nil, out, nil
}

// OpenLeads loads up to limit leads that are neither won nor lost, with interaction history.
func OpenLeads(database *sql.DB, limit int) ([]models.Lead, error) {
	leads, err := db.FindOpenLeads(database, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find open leads: %w", err)
	}
	return leads, nil
}

type GenerateQuoteOutput struct {
	Quote        QuoteOutput   `json:"quote"`
	Rationale    string        `json:"rationale"`
	Alternatives []QuoteOutput `json:"alternatives"`
}

// GenerateQuote prices a quote for the lead and stores it with its alternatives.
func (h *CoachHandlers) GenerateQuote(_ context.Context, request *mcp.CallToolRequest, input LeadIDInput) (*mcp.CallToolResult, GenerateQuoteOutput, error) {
	lead, err := loadLead(h.db, input.LeadID)
	if err != nil {
		return nil, GenerateQuoteOutput{}, err
	}

	res := h.engine.GenerateQuote(lead)
	if err := db.SaveQuote(h.db, res.Quote); err != nil {
		return nil, GenerateQuoteOutput{}, fmt.Errorf("failed to save quote: %w", err)
	}
	alts := make([]QuoteOutput, 0, len(res.Alternatives))
	for _, alt := range res.Alternatives {
		if err := db.SaveQuote(h.db, alt); err != nil {
			return nil, GenerateQuoteOutput{}, fmt.Errorf("failed to save %s alternative: %w", alt.Kind, err)
		}
		alts = append(alts, quoteToOutput(alt))
	}
	h.logger.Info("quote generated",
		zap.String("lead_id", lead.ID.String()),
		zap.String("number", res.Quote.Number),
		zap.String("total", res.Quote.Total.String()))

	return nil, GenerateQuoteOutput{
		Quote:        quoteToOutput(res.Quote),
		Rationale:    res.Rationale,
		Alternatives: alts,
	}, nil
}

type EditQuoteInput struct {
	QuoteID string `json:"quote_id" jsonschema:"Quote ID (required)"`
	Request string `json:"request" jsonschema:"Plain-language change, e.g. 'add seo' or 'give me a discount'"`
}

// EditQuote applies a plain-language edit request to a stored quote.
func (h *CoachHandlers) EditQuote(_ context.Context, request *mcp.CallToolRequest, input EditQuoteInput) (*mcp.CallToolResult, QuoteOutput, error) {
	q, err := h.loadQuote(input.QuoteID)
	if err != nil {
		return nil, QuoteOutput{}, err
	}
	if q.Status != models.QuoteStatusDraft {
		return nil, QuoteOutput{}, fmt.Errorf("only draft quotes can be edited (status: %s)", q.Status)
	}

	edited := h.engine.EditQuote(q, input.Request)
	if err := db.UpdateQuote(h.db, edited); err != nil {
		return nil, QuoteOutput{}, fmt.Errorf("failed to update quote: %w", err)
	}
	h.logger.Info("quote edited", zap.String("quote_id", q.ID.String()), zap.Int("changes", len(edited.Notes)-len(q.Notes)))

	return nil, quoteToOutput(edited), nil
}

type UpdateQuoteStatusInput struct {
	QuoteID string `json:"quote_id" jsonschema:"Quote ID (required)"`
	Status  string `json:"status" jsonschema:"sent, viewed, accepted or rejected"`
}

// UpdateQuoteStatus advances the quote lifecycle. Sending moves the lead to proposal_sent
// and acceptance marks the lead won.
func (h *CoachHandlers) UpdateQuoteStatus(_ context.Context, request *mcp.CallToolRequest, input UpdateQuoteStatusInput) (*mcp.CallToolResult, QuoteOutput, error) {
	q, err := h.loadQuote(input.QuoteID)
	if err != nil {
		return nil, QuoteOutput{}, err
	}

	next, err := h.engine.AdvanceQuote(q, input.Status)
	if err != nil {
		return nil, QuoteOutput{}, err
	}
	leadStatus, err := db.UpdateQuoteStatus(h.db, next)
	if err != nil {
		return nil, QuoteOutput{}, err
	}
	h.logger.Info("quote status updated",
		zap.String("quote_id", next.ID.String()),
		zap.String("status", next.Status),
		zap.String("lead_status", string(leadStatus)))

	return nil, quoteToOutput(next), nil
}

func (h *CoachHandlers) loadQuote(id string) (*models.Quote, error) {
	if id == "" {
		return nil, fmt.Errorf("quote_id is required")
	}
	quoteID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid quote_id: %w", err)
	}
	q, err := db.GetQuote(h.db, quoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	if q == nil {
		return nil, fmt.Errorf("quote not found")
	}
	return q, nil
}

type GuidanceOutput struct {
	LeadID    string                   `json:"lead_id"`
	Guidance  CloserGuidanceOutput     `json:"guidance"`
	AutoClose models.AutoCloseDecision `json:"auto_close"`
}

// CloserGuidance returns coaching material and the auto-close verdict for a lead.
func (h *CoachHandlers) CloserGuidance(_ context.Context, request *mcp.CallToolRequest, input LeadIDInput) (*mcp.CallToolResult, GuidanceOutput, error) {
	lead, err := loadLead(h.db, input.LeadID)
	if err != nil {
		return nil, GuidanceOutput{}, err
	}
	return nil, GuidanceOutput{
		LeadID:    lead.ID.String(),
		Guidance:  guidanceToOutput(h.engine.Guidance(lead)),
		AutoClose: h.engine.CanAIClose(lead),
	}, nil
}
