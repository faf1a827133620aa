// ABOUTME: JSON output shapes shared by the MCP tool handlers
// ABOUTME: Converts leads, suggestions and quotes to plain string-typed records
package handlers

import (
	"time"

	"github.com/harperreed/leadcoach/models"
)

type LeadOutput struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	Company        string   `json:"company,omitempty"`
	JobTitle       string   `json:"job_title,omitempty"`
	Source         string   `json:"source,omitempty"`
	Status         string   `json:"status"`
	LeadScore      int      `json:"lead_score"`
	PotentialValue string   `json:"potential_value,omitempty"`
	DetectedNeeds  []string `json:"detected_needs,omitempty"`
	PsychType      string   `json:"psych_type,omitempty"`
	Objections     []string `json:"objections,omitempty"`
	NextMeeting    string   `json:"next_meeting,omitempty"`
	MeetingLink    string   `json:"meeting_link,omitempty"`
	LastContactAt  *string  `json:"last_contact_at,omitempty"`
	Interactions   int      `json:"interactions"`
	Notes          string   `json:"notes,omitempty"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

func leadToOutput(lead *models.Lead) LeadOutput {
	out := LeadOutput{
		ID:            lead.ID.String(),
		Name:          lead.Name,
		Email:         lead.Email,
		Phone:         lead.Phone,
		Company:       lead.Company,
		JobTitle:      lead.JobTitle,
		Source:        lead.Source,
		Status:        string(lead.Status),
		LeadScore:     lead.LeadScore,
		DetectedNeeds: lead.DetectedNeeds,
		Objections:    lead.Objections(),
		Interactions:  len(lead.Interactions),
		Notes:         lead.Notes,
		CreatedAt:     lead.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     lead.UpdatedAt.Format(time.RFC3339),
	}
	if lead.PotentialValue != nil {
		out.PotentialValue = lead.PotentialValue.String()
	}
	if lead.PsychProfile != nil {
		out.PsychType = string(lead.PsychProfile.DominantType)
	}
	if lead.NextMeeting != nil {
		out.NextMeeting = lead.NextMeeting.ScheduledAt.Format(time.RFC3339)
		out.MeetingLink = lead.NextMeeting.Link
	}
	if lead.LastContactAt != nil {
		s := lead.LastContactAt.Format(time.RFC3339)
		out.LastContactAt = &s
	}
	return out
}

type SuggestionOutput struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Priority    string `json:"priority"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Message     string `json:"message,omitempty"`
	DueLabel    string `json:"due_label,omitempty"`
	ActionID    string `json:"action_id,omitempty"`
	ActionLabel string `json:"action_label,omitempty"`
}

func suggestionsToOutput(in []models.Suggestion) []SuggestionOutput {
	out := make([]SuggestionOutput, len(in))
	for i, s := range in {
		out[i] = SuggestionOutput{
			ID:          s.ID.String(),
			Type:        string(s.Type),
			Priority:    string(s.Priority),
			Title:       s.Title,
			Description: s.Description,
			Message:     s.Message,
			DueLabel:    s.DueLabel,
		}
		if s.Action != nil {
			out[i].ActionID = s.Action.ID
			out[i].ActionLabel = s.Action.Label
		}
	}
	return out
}

type QuoteItemOutput struct {
	ServiceID string `json:"service_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type QuoteOutput struct {
	ID         string            `json:"id"`
	Number     string            `json:"number"`
	LeadID     string            `json:"lead_id"`
	Kind       string            `json:"kind"`
	Items      []QuoteItemOutput `json:"items"`
	Subtotal   string            `json:"subtotal"`
	Discount   string            `json:"discount"`
	Total      string            `json:"total"`
	Currency   string            `json:"currency"`
	ValidUntil string            `json:"valid_until"`
	Status     string            `json:"status"`
	Notes      []string          `json:"notes,omitempty"`
	UpdatedAt  string            `json:"updated_at"`
}

func quoteToOutput(q *models.Quote) QuoteOutput {
	items := make([]QuoteItemOutput, len(q.Items))
	for i, it := range q.Items {
		items[i] = QuoteItemOutput{
			ServiceID: it.ServiceID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice.StringFixed(2),
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal().StringFixed(2),
		}
	}
	return QuoteOutput{
		ID:         q.ID.String(),
		Number:     q.Number,
		LeadID:     q.LeadID.String(),
		Kind:       q.Kind,
		Items:      items,
		Subtotal:   q.Subtotal.StringFixed(2),
		Discount:   q.Discount.StringFixed(2),
		Total:      q.Total.StringFixed(2),
		Currency:   q.Currency,
		ValidUntil: q.ValidUntil.Format(time.RFC3339),
		Status:     q.Status,
		Notes:      q.Notes,
		UpdatedAt:  q.UpdatedAt.Format(time.RFC3339),
	}
}

type ObjectionOutput struct {
	Objection string `json:"objection"`
	Response  string `json:"response"`
}

type CloserGuidanceOutput struct {
	Phase             string            `json:"phase"`
	SuggestedActions  []string          `json:"suggested_actions"`
	TalkingPoints     []string          `json:"talking_points"`
	ObjectionHandlers []ObjectionOutput `json:"objection_handlers"`
	CloseAttempt      string            `json:"close_attempt"`
}

// guidanceToOutput keeps every list non-nil so the JSON always carries arrays.
func guidanceToOutput(g models.CloserGuidance) CloserGuidanceOutput {
	out := CloserGuidanceOutput{
		Phase:             g.Phase,
		SuggestedActions:  append([]string{}, g.SuggestedActions...),
		TalkingPoints:     append([]string{}, g.TalkingPoints...),
		ObjectionHandlers: make([]ObjectionOutput, len(g.ObjectionHandlers)),
		CloseAttempt:      g.CloseAttempt,
	}
	for i, h := range g.ObjectionHandlers {
		out.ObjectionHandlers[i] = ObjectionOutput{Objection: h.Objection, Response: h.Response}
	}
	return out
}
