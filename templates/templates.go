// ABOUTME: Outbound message template table and selection rules
// ABOUTME: Picks the first template matching a lead's status, time context and condition
package templates

import (
	"math"
	"time"

	"github.com/harperreed/leadcoach/models"
)

// Kind tags how a template is triggered in time.
type Kind int

const (
	// KindImmediate applies as soon as the lead enters the stage.
	KindImmediate Kind = iota
	// KindAfterElapsed applies once enough minutes passed since the last outbound contact.
	KindAfterElapsed
	// KindBeforeMeeting applies while the scheduled meeting is close but not started.
	KindBeforeMeeting
)

type ID string

const (
	Welcome           ID = "welcome"
	NoResponse24h     ID = "no_response_24h"
	ContactedFollowUp ID = "contacted_followup"
	MeetingConfirm    ID = "meeting_confirm"
	Reminder1h        ID = "reminder_1h"
	Reminder15m       ID = "reminder_15m"
	NoShowRecovery    ID = "no_show_recovery"
	PostCall          ID = "post_call"
	ProposalFollowUp  ID = "proposal_followup"
	NegotiationNudge  ID = "negotiation_nudge"
)

// ConditionID names an extra predicate a template requires.
type ConditionID int

const (
	CondNone ConditionID = iota
	CondHasMeeting
	CondHasMeetingLink
	CondHasNeeds
)

// Trigger says when a template applies. Only the offset matching Kind is read.
type Trigger struct {
	Status                  models.Status
	Kind                    Kind
	MinElapsedSinceEntry    int
	MinBeforeScheduledEvent int
}

func Immediate(status models.Status) Trigger {
	return Trigger{Status: status, Kind: KindImmediate}
}

func AfterElapsed(status models.Status, minutes int) Trigger {
	return Trigger{Status: status, Kind: KindAfterElapsed, MinElapsedSinceEntry: minutes}
}

func BeforeMeeting(status models.Status, minutes int) Trigger {
	return Trigger{Status: status, Kind: KindBeforeMeeting, MinBeforeScheduledEvent: minutes}
}

type Template struct {
	ID        ID
	Trigger   Trigger
	Condition ConditionID
}

// Context is the time frame a caller asks about.
type Context struct {
	Kind    Kind
	Minutes int
}

// Now asks for templates that apply on stage entry.
func Now() Context { return Context{Kind: KindImmediate} }

// Elapsed asks for templates keyed to minutes since the last outbound contact.
func Elapsed(minutes int) Context { return Context{Kind: KindAfterElapsed, Minutes: minutes} }

// UntilMeeting asks for templates keyed to minutes before the scheduled meeting.
func UntilMeeting(minutes int) Context { return Context{Kind: KindBeforeMeeting, Minutes: minutes} }

func (t Trigger) matches(ctx Context) bool {
	if t.Kind != ctx.Kind {
		return false
	}
	switch t.Kind {
	case KindAfterElapsed:
		return t.MinElapsedSinceEntry == ctx.Minutes
	case KindBeforeMeeting:
		return t.MinBeforeScheduledEvent == ctx.Minutes
	}
	return true
}

// DefaultTable returns the built-in templates in priority order.
func DefaultTable() []Template {
	return []Template{
		{ID: Welcome, Trigger: Immediate(models.StatusNew)},
		{ID: NoResponse24h, Trigger: AfterElapsed(models.StatusNew, 1440)},
		{ID: ContactedFollowUp, Trigger: AfterElapsed(models.StatusContacted, 2880)},
		{ID: MeetingConfirm, Trigger: Immediate(models.StatusScheduled), Condition: CondHasMeeting},
		{ID: Reminder1h, Trigger: BeforeMeeting(models.StatusScheduled, 60), Condition: CondHasMeeting},
		{ID: Reminder15m, Trigger: BeforeMeeting(models.StatusScheduled, 15), Condition: CondHasMeetingLink},
		{ID: NoShowRecovery, Trigger: Immediate(models.StatusNoShow)},
		{ID: PostCall, Trigger: Immediate(models.StatusShow)},
		{ID: ProposalFollowUp, Trigger: AfterElapsed(models.StatusProposalSent, 2880)},
		{ID: NegotiationNudge, Trigger: Immediate(models.StatusNegotiation)},
	}
}

// Matcher selects templates from an injected table.
type Matcher struct {
	table []Template
}

func NewMatcher(table []Template) *Matcher {
	return &Matcher{table: table}
}

// Select returns the first template that applies to lead in ctx.
func (m *Matcher) Select(lead *models.Lead, ctx Context, now time.Time) (ID, bool) {
	for _, t := range m.table {
		if t.Trigger.Status != lead.Status || !t.Trigger.matches(ctx) {
			continue
		}
		if !timeConditionHolds(t.Trigger, lead, now) {
			continue
		}
		if !conditionHolds(t.Condition, lead) {
			continue
		}
		return t.ID, true
	}
	return "", false
}

// Message selects and renders in one step.
func (m *Matcher) Message(lead *models.Lead, ctx Context, now time.Time) (string, bool) {
	id, ok := m.Select(lead, ctx, now)
	if !ok {
		return "", false
	}
	return Render(id, lead), true
}

func timeConditionHolds(t Trigger, lead *models.Lead, now time.Time) bool {
	switch t.Kind {
	case KindAfterElapsed:
		return HoursSinceLastOutbound(lead, now) >= float64(t.MinElapsedSinceEntry)/60
	case KindBeforeMeeting:
		if lead.NextMeeting == nil {
			return false
		}
		until := lead.NextMeeting.ScheduledAt.Sub(now).Minutes()
		return until > 0 && until <= float64(t.MinBeforeScheduledEvent)
	}
	return true
}

func conditionHolds(c ConditionID, lead *models.Lead) bool {
	switch c {
	case CondHasMeeting:
		return lead.NextMeeting != nil
	case CondHasMeetingLink:
		return lead.NextMeeting != nil && lead.NextMeeting.Link != ""
	case CondHasNeeds:
		return len(lead.DetectedNeeds) > 0
	}
	return true
}

// HoursSinceLastOutbound is +Inf when the lead was never contacted.
func HoursSinceLastOutbound(lead *models.Lead, now time.Time) float64 {
	last := lead.LastOutboundAt()
	if last == nil {
		return math.Inf(1)
	}
	return now.Sub(*last).Hours()
}
