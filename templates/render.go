// ABOUTME: Message bodies for each template ID
// ABOUTME: Pure rendering kept apart from the selection table
package templates

import (
	"fmt"
	"strings"

	"github.com/harperreed/leadcoach/models"
)

const meetingLayout = "Mon Jan 2 at 15:04"

// Render produces the message body for id. Unknown IDs render empty.
func Render(id ID, lead *models.Lead) string {
	name := firstName(lead.Name)

	switch id {
	case Welcome:
		return fmt.Sprintf("Hi %s! Thanks for reaching out. I'm here to help you grow your business. "+
			"When would be a good time for a quick 15-minute call?", name)
	case NoResponse24h:
		return fmt.Sprintf("Hi %s, just following up on my previous message. "+
			"Do you have a few minutes this week to talk about your goals?", name)
	case ContactedFollowUp:
		return fmt.Sprintf("Hi %s, I wanted to check in. Shall we book a short call so I can show you some ideas?", name)
	case MeetingConfirm:
		return fmt.Sprintf("Hi %s! Confirming our meeting on %s. Reply YES to confirm or let me know if you need another time.",
			name, meetingTime(lead))
	case Reminder1h:
		return fmt.Sprintf("Hi %s, a reminder that we meet in one hour (%s). See you soon!", name, meetingTime(lead))
	case Reminder15m:
		return fmt.Sprintf("Hi %s, we start in 15 minutes. Here is the link: %s", name, meetingLink(lead))
	case NoShowRecovery:
		return fmt.Sprintf("Hi %s, we missed you today. No worries, things come up! "+
			"Would you like to pick a new time that works better?", name)
	case PostCall:
		if len(lead.DetectedNeeds) > 0 {
			return fmt.Sprintf("Thanks for your time today, %s! As we discussed, I'll prepare a proposal covering %s. "+
				"You'll have it shortly.", name, strings.Join(lead.DetectedNeeds, ", "))
		}
		return fmt.Sprintf("Thanks for your time today, %s! I'll send you a proposal shortly.", name)
	case ProposalFollowUp:
		return fmt.Sprintf("Hi %s, did you get a chance to review the proposal? I'm happy to walk you through any questions.", name)
	case NegotiationNudge:
		return fmt.Sprintf("Hi %s, is there anything else you need from us to move forward?", name)
	}
	return ""
}

func firstName(full string) string {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return "there"
	}
	return fields[0]
}

func meetingTime(lead *models.Lead) string {
	if lead.NextMeeting == nil {
		return "the scheduled time"
	}
	return lead.NextMeeting.ScheduledAt.Format(meetingLayout)
}

func meetingLink(lead *models.Lead) string {
	if lead.NextMeeting == nil || lead.NextMeeting.Link == "" {
		return "(link to follow)"
	}
	return lead.NextMeeting.Link
}
