// ABOUTME: Data models for leads, suggestions and closer guidance
// ABOUTME: Defines Lead, PsychProfile, Suggestion and the pipeline enums shared by the engine
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is a lead's position in the sales pipeline.
type Status string

const (
	StatusNew          Status = "new"
	StatusContacted    Status = "contacted"
	StatusScheduled    Status = "scheduled"
	StatusShow         Status = "show"
	StatusNoShow       Status = "no_show"
	StatusProposalSent Status = "proposal_sent"
	StatusNegotiation  Status = "negotiation"
	StatusWon          Status = "won"
	StatusLost         Status = "lost"
)

// AllStatuses lists every pipeline status in board order.
var AllStatuses = []Status{
	StatusNew,
	StatusContacted,
	StatusScheduled,
	StatusShow,
	StatusNoShow,
	StatusProposalSent,
	StatusNegotiation,
	StatusWon,
	StatusLost,
}

// ValidStatus reports whether s names a pipeline status.
func ValidStatus(s string) bool {
	for _, st := range AllStatuses {
		if string(st) == s {
			return true
		}
	}
	return false
}

// PsychType describes a lead's decision-making style.
type PsychType string

const (
	PsychAnalytical PsychType = "analytical"
	PsychEmotional  PsychType = "emotional"
	PsychAssertive  PsychType = "assertive"
	PsychIndecisive PsychType = "indecisive"
)

// DefaultPsychType is assumed when a lead has no profile.
const DefaultPsychType = PsychAssertive

// ValidPsychType reports whether s names a psych type.
func ValidPsychType(s string) bool {
	switch PsychType(s) {
	case PsychAnalytical, PsychEmotional, PsychAssertive, PsychIndecisive:
		return true
	}
	return false
}

// Interaction channels.
const (
	ChannelWhatsApp = "whatsapp"
	ChannelEmail    = "email"
	ChannelCall     = "call"
	ChannelMeeting  = "meeting"
)

// Interaction directions.
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

type PsychProfile struct {
	DominantType        PsychType `json:"dominant_type"`
	PainPoints          []string  `json:"pain_points,omitempty"`
	Objections          []string  `json:"objections,omitempty"`
	RecommendedStrategy string    `json:"recommended_strategy,omitempty"`
}

type Interaction struct {
	ID        uuid.UUID `json:"id"`
	LeadID    uuid.UUID `json:"lead_id"`
	Channel   string    `json:"channel"`
	Direction string    `json:"direction"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes,omitempty"`
}

type Meeting struct {
	ScheduledAt time.Time `json:"scheduled_at"`
	Link        string    `json:"link,omitempty"`
}

// Lead is a read-only snapshot handed to the engine. The CRM owns and mutates it.
type Lead struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	Email          string           `json:"email,omitempty"`
	Phone          string           `json:"phone,omitempty"`
	Company        string           `json:"company,omitempty"`
	JobTitle       string           `json:"job_title,omitempty"`
	Source         string           `json:"source,omitempty"`
	Status         Status           `json:"status"`
	LeadScore      int              `json:"lead_score"`
	PotentialValue *decimal.Decimal `json:"potential_value,omitempty"`
	DetectedNeeds  []string         `json:"detected_needs,omitempty"`
	PsychProfile   *PsychProfile    `json:"psych_profile,omitempty"`
	LastContactAt  *time.Time       `json:"last_contact_at,omitempty"`
	Interactions   []Interaction    `json:"interactions,omitempty"`
	NextMeeting    *Meeting         `json:"next_meeting,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// PsychType returns the dominant psych type, or DefaultPsychType without a profile.
func (l *Lead) PsychType() PsychType {
	if l.PsychProfile == nil || l.PsychProfile.DominantType == "" {
		return DefaultPsychType
	}
	return l.PsychProfile.DominantType
}

// Objections returns the profile's objections, nil without a profile.
func (l *Lead) Objections() []string {
	if l.PsychProfile == nil {
		return nil
	}
	return l.PsychProfile.Objections
}

// LastOutboundAt returns the newest outbound interaction time.
func (l *Lead) LastOutboundAt() *time.Time {
	var last *time.Time
	for i := range l.Interactions {
		in := &l.Interactions[i]
		if in.Direction != DirectionOutbound {
			continue
		}
		if last == nil || in.Timestamp.After(*last) {
			last = &in.Timestamp
		}
	}
	return last
}

// Budget returns the potential value when it is positive.
func (l *Lead) Budget() (decimal.Decimal, bool) {
	if l.PotentialValue == nil || !l.PotentialValue.IsPositive() {
		return decimal.Zero, false
	}
	return *l.PotentialValue, true
}

// Priority orders suggestions: urgent > high > medium > low.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank maps urgent..low to 0..3. Unknown priorities sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

type SuggestionType string

const (
	SuggestionMessage  SuggestionType = "message"
	SuggestionCall     SuggestionType = "call"
	SuggestionEmail    SuggestionType = "email"
	SuggestionQuote    SuggestionType = "quote"
	SuggestionReminder SuggestionType = "reminder"
	SuggestionFollowUp SuggestionType = "follow_up"
)

// Action identifiers. Callers interpret and execute these; the values are a stable contract.
const (
	ActionSendWhatsApp    = "SEND_WHATSAPP"
	ActionSendEmail       = "SEND_EMAIL"
	ActionCallLead        = "CALL_LEAD"
	ActionGenerateQuote   = "GENERATE_QUOTE"
	ActionCalculateScore  = "CALCULATE_SCORE"
	ActionScheduleMeeting = "SCHEDULE_MEETING"
	ActionSendMeetingLink = "SEND_MEETING_LINK"
	ActionOpenCloser      = "OPEN_CLOSER"
	ActionViewObjections  = "VIEW_OBJECTIONS"
)

type SuggestionAction struct {
	Label string `json:"label"`
	ID    string `json:"id"`
}

type Suggestion struct {
	ID          uuid.UUID         `json:"id"`
	LeadID      uuid.UUID         `json:"lead_id"`
	Type        SuggestionType    `json:"type"`
	Priority    Priority          `json:"priority"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Message     string            `json:"message,omitempty"`
	DueLabel    string            `json:"due_label,omitempty"`
	Action      *SuggestionAction `json:"action,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

type ObjectionHandler struct {
	Objection string `json:"objection"`
	Response  string `json:"response"`
}

// CloserGuidance is coaching material for a salesperson working a lead.
type CloserGuidance struct {
	Phase             string             `json:"phase"`
	SuggestedActions  []string           `json:"suggested_actions"`
	TalkingPoints     []string           `json:"talking_points"`
	ObjectionHandlers []ObjectionHandler `json:"objection_handlers"`
	CloseAttempt      string             `json:"close_attempt"`
}

// AutoCloseDecision is the verdict of the auto-close gate.
type AutoCloseDecision struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason"`
}
