// ABOUTME: Stage-indexed rules that turn a lead snapshot into next-best-actions
// ABOUTME: Suggestions are returned sorted by priority, ties in rule order
package rules

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/leadcoach/closer"
	"github.com/harperreed/leadcoach/models"
	"github.com/harperreed/leadcoach/templates"
)

// Thresholds in minutes.
const (
	NoResponseAfter       = 1440
	ProposalFollowUpAfter = 2880
	ConfirmBefore         = 60
	LastCallBefore        = 15
)

// Suggestion titles.
const (
	TitleComputeScore     = "Compute initial score"
	TitleSendWelcome      = "Send welcome message"
	TitleNoResponse       = "24h no-response follow-up"
	TitleConfirmMeeting   = "Confirm meeting"
	TitleReminder1h       = "1-hour reminder"
	TitleReminder15m      = "15-min reminder"
	TitleRecoverNoShow    = "Recover no-show"
	TitleGenerateQuote    = "Generate quote"
	TitlePostCall         = "Post-call message"
	TitleProposalFollowUp = "Proposal follow-up"
	TitleCallToClose      = "Call to close"
	TitleAttemptClose     = "Attempt close"
	TitleHandleObjections = "Handle objections"
)

// Evaluator runs the rule set for a lead's current stage.
type Evaluator struct {
	Templates *templates.Matcher
	Guidance  *closer.Generator
}

func NewEvaluator(m *templates.Matcher, g *closer.Generator) *Evaluator {
	return &Evaluator{Templates: m, Guidance: g}
}

// Evaluate returns the applicable suggestions for lead, most urgent first.
func (e *Evaluator) Evaluate(lead *models.Lead, now time.Time) []models.Suggestion {
	r := &run{e: e, lead: lead, now: now}

	switch lead.Status {
	case models.StatusNew:
		r.newLead()
	case models.StatusScheduled:
		r.scheduled()
	case models.StatusNoShow:
		r.noShow()
	case models.StatusShow:
		r.show()
	case models.StatusProposalSent:
		r.proposalSent()
	case models.StatusNegotiation:
		r.negotiation()
	}

	sort.SliceStable(r.out, func(i, j int) bool {
		return r.out[i].Priority.Rank() < r.out[j].Priority.Rank()
	})
	return r.out
}

// MinutesSinceLastActivity is +Inf when the lead has no recorded contact.
func MinutesSinceLastActivity(lead *models.Lead, now time.Time) float64 {
	if lead.LastContactAt == nil {
		return math.Inf(1)
	}
	return now.Sub(*lead.LastContactAt).Minutes()
}

type run struct {
	e    *Evaluator
	lead *models.Lead
	now  time.Time
	out  []models.Suggestion
}

func (r *run) add(s models.Suggestion) {
	s.ID = uuid.New()
	s.LeadID = r.lead.ID
	s.CreatedAt = r.now
	r.out = append(r.out, s)
}

func (r *run) message(ctx templates.Context) (string, bool) {
	return r.e.Templates.Message(r.lead, ctx, r.now)
}

func action(label, id string) *models.SuggestionAction {
	return &models.SuggestionAction{Label: label, ID: id}
}

func (r *run) newLead() {
	if r.lead.LeadScore == 0 {
		r.add(models.Suggestion{
			Type:        models.SuggestionFollowUp,
			Priority:    models.PriorityHigh,
			Title:       TitleComputeScore,
			Description: "This lead has no score yet. Score it to prioritise follow-up.",
			Action:      action("Calculate score", models.ActionCalculateScore),
		})
	}

	if msg, ok := r.message(templates.Now()); ok {
		r.add(models.Suggestion{
			Type:        models.SuggestionMessage,
			Priority:    models.PriorityUrgent,
			Title:       TitleSendWelcome,
			Description: "First contact within minutes multiplies the chance of a reply.",
			Message:     msg,
			Action:      action("Send WhatsApp", models.ActionSendWhatsApp),
		})
	}

	if MinutesSinceLastActivity(r.lead, r.now) > NoResponseAfter {
		msg, _ := r.message(templates.Elapsed(NoResponseAfter))
		r.add(models.Suggestion{
			Type:        models.SuggestionFollowUp,
			Priority:    models.PriorityHigh,
			Title:       TitleNoResponse,
			Description: "No activity in over 24 hours. Send a follow-up.",
			Message:     msg,
			Action:      action("Send WhatsApp", models.ActionSendWhatsApp),
		})
	}
}

func (r *run) scheduled() {
	if r.lead.NextMeeting == nil {
		return
	}
	until := r.lead.NextMeeting.ScheduledAt.Sub(r.now).Minutes()

	if until > ConfirmBefore {
		if msg, ok := r.message(templates.Now()); ok {
			r.add(models.Suggestion{
				Type:        models.SuggestionMessage,
				Priority:    models.PriorityMedium,
				Title:       TitleConfirmMeeting,
				Description: "Confirm attendance to reduce no-shows.",
				Message:     msg,
				Action:      action("Send WhatsApp", models.ActionSendWhatsApp),
			})
		}
	}

	if until > LastCallBefore && until <= ConfirmBefore {
		r.add(models.Suggestion{
			Type:        models.SuggestionReminder,
			Priority:    models.PriorityUrgent,
			Title:       TitleReminder1h,
			Description: "The meeting starts within the hour.",
			Message:     "Hi! Just a reminder that our meeting starts in less than an hour. See you soon!",
			DueLabel:    fmt.Sprintf("in %d min", int(math.Round(until))),
			Action:      action("Send reminder", models.ActionSendWhatsApp),
		})
	}

	if until > 0 && until <= LastCallBefore {
		msg, ok := r.message(templates.UntilMeeting(LastCallBefore))
		if !ok {
			msg = "We start in a few minutes. Talk soon!"
		}
		r.add(models.Suggestion{
			Type:        models.SuggestionReminder,
			Priority:    models.PriorityUrgent,
			Title:       TitleReminder15m,
			Description: "The meeting is about to start. Share the link.",
			Message:     msg,
			DueLabel:    "now",
			Action:      action("Send meeting link", models.ActionSendMeetingLink),
		})
	}
}

func (r *run) noShow() {
	if msg, ok := r.message(templates.Now()); ok {
		r.add(models.Suggestion{
			Type:        models.SuggestionMessage,
			Priority:    models.PriorityHigh,
			Title:       TitleRecoverNoShow,
			Description: "The lead missed the meeting. Offer a new time.",
			Message:     msg,
			Action:      action("Reschedule", models.ActionScheduleMeeting),
		})
	}
}

func (r *run) show() {
	r.add(models.Suggestion{
		Type:        models.SuggestionQuote,
		Priority:    models.PriorityUrgent,
		Title:       TitleGenerateQuote,
		Description: "The call happened. Send the proposal while interest is high.",
		Action:      action("Generate quote", models.ActionGenerateQuote),
	})

	if msg, ok := r.message(templates.Now()); ok {
		r.add(models.Suggestion{
			Type:        models.SuggestionMessage,
			Priority:    models.PriorityHigh,
			Title:       TitlePostCall,
			Description: "Thank the lead and set expectations for the proposal.",
			Message:     msg,
			Action:      action("Send WhatsApp", models.ActionSendWhatsApp),
		})
	}
}

func (r *run) proposalSent() {
	if MinutesSinceLastActivity(r.lead, r.now) > ProposalFollowUpAfter {
		msg, _ := r.message(templates.Elapsed(ProposalFollowUpAfter))
		r.add(models.Suggestion{
			Type:        models.SuggestionFollowUp,
			Priority:    models.PriorityHigh,
			Title:       TitleProposalFollowUp,
			Description: "No reply to the proposal in over 48 hours.",
			Message:     msg,
			Action:      action("Send WhatsApp", models.ActionSendWhatsApp),
		})
		return
	}

	r.add(models.Suggestion{
		Type:        models.SuggestionCall,
		Priority:    models.PriorityMedium,
		Title:       TitleCallToClose,
		Description: "Call to review the proposal and answer questions.",
		Action:      action("Call", models.ActionCallLead),
	})
}

func (r *run) negotiation() {
	r.add(models.Suggestion{
		Type:        models.SuggestionCall,
		Priority:    models.PriorityUrgent,
		Title:       TitleAttemptClose,
		Description: r.e.Guidance.CloseLine(r.lead),
		Action:      action("Open closer mode", models.ActionOpenCloser),
	})

	if n := len(r.e.Guidance.Objections); n > 0 {
		r.add(models.Suggestion{
			Type:        models.SuggestionCall,
			Priority:    models.PriorityHigh,
			Title:       TitleHandleObjections,
			Description: fmt.Sprintf("%d prepared answers to common objections.", n),
			Action:      action("View objections", models.ActionViewObjections),
		})
	}
}
