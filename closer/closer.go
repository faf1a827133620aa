// ABOUTME: Closer coaching material keyed by pipeline stage and psych type
// ABOUTME: Also decides whether a lead may be closed without a human
package closer

import (
	"fmt"
	"strings"

	"github.com/harperreed/leadcoach/models"
)

// AutoCloseMinScore is the lowest lead score the auto-close gate accepts.
const AutoCloseMinScore = 85

// Generator holds the static guidance tables.
type Generator struct {
	Phases     map[models.Status]string
	Actions    map[models.Status][]string
	Objections []models.ObjectionHandler
	CloseLines map[models.PsychType]string
	Currency   string
}

// Default returns a Generator with the built-in tables.
func Default() *Generator {
	return &Generator{
		Phases: map[models.Status]string{
			models.StatusNew:          "Opening",
			models.StatusContacted:    "Discovery",
			models.StatusScheduled:    "Meeting prep",
			models.StatusShow:         "Diagnosis",
			models.StatusNoShow:       "Recovery",
			models.StatusProposalSent: "Proposal review",
			models.StatusNegotiation:  "Closing",
			models.StatusWon:          "Onboarding",
			models.StatusLost:         "Post-mortem",
		},
		Actions: map[models.Status][]string{
			models.StatusNew:          {"Send the welcome message", "Qualify budget and timeline", "Book a discovery call"},
			models.StatusContacted:    {"Ask about current marketing efforts", "Propose two meeting slots"},
			models.StatusScheduled:    {"Confirm the meeting the day before", "Review their social profiles and website"},
			models.StatusShow:         {"Summarise the needs you heard", "Generate the quote while the call is fresh"},
			models.StatusNoShow:       {"Send a friendly recovery message", "Offer a shorter 10-minute slot"},
			models.StatusProposalSent: {"Confirm they opened the proposal", "Call to walk through the numbers"},
			models.StatusNegotiation:  {"Handle the open objections", "Offer a clear next step with a deadline", "Ask for the decision"},
			models.StatusWon:          {"Send the onboarding checklist", "Ask for a referral"},
			models.StatusLost:         {"Record the loss reason", "Schedule a check-in in three months"},
		},
		Objections: []models.ObjectionHandler{
			{Objection: "It's too expensive", Response: "I understand. Let's look at what one new client is worth to you; most customers recover the investment within the first months. We can also start with a smaller package."},
			{Objection: "I need to think about it", Response: "Of course. What part would you like to think over? If we clear it up now you can decide with all the information."},
			{Objection: "I need to talk to my partner", Response: "Makes sense. Would it help if we set up a short call with both of you so I can answer their questions directly?"},
			{Objection: "I already work with someone", Response: "Great that you invest in this already. What would you change about the results you get today? We can complement what is working."},
			{Objection: "Now is not a good time", Response: "Understood. When would be better? Keep in mind every month without action is a month of leads going to your competitors."},
		},
		CloseLines: map[models.PsychType]string{
			models.PsychAnalytical: "Based on the numbers we reviewed, this plan gives you the best return for your budget. Shall we start on Monday?",
			models.PsychEmotional:  "I can really see your business growing with this. Shall we make it happen together and get started this week?",
			models.PsychAssertive:  "You've seen the results this delivers. Let's lock it in today so you start seeing leads next week.",
			models.PsychIndecisive: "Most clients in your position start with this plan, and you can adjust it after the first month. Shall I reserve your spot?",
		},
	}
}

// Guidance assembles coaching material for lead.
func (g *Generator) Guidance(lead *models.Lead) models.CloserGuidance {
	return models.CloserGuidance{
		Phase:             g.Phases[lead.Status],
		SuggestedActions:  append([]string(nil), g.Actions[lead.Status]...),
		TalkingPoints:     g.talkingPoints(lead),
		ObjectionHandlers: append([]models.ObjectionHandler(nil), g.Objections...),
		CloseAttempt:      g.CloseLine(lead),
	}
}

// CloseLine picks the close-attempt line for the lead's psych type.
func (g *Generator) CloseLine(lead *models.Lead) string {
	return g.CloseLines[lead.PsychType()]
}

func (g *Generator) talkingPoints(lead *models.Lead) []string {
	var points []string
	if len(lead.DetectedNeeds) > 0 {
		points = append(points, "They are looking for: "+strings.Join(lead.DetectedNeeds, ", "))
	}
	if p := lead.PsychProfile; p != nil && len(p.PainPoints) > 0 {
		points = append(points, "Pain points to address: "+strings.Join(p.PainPoints, ", "))
	}
	if v, ok := lead.Budget(); ok {
		currency := g.Currency
		if currency == "" {
			currency = "$"
		}
		points = append(points, fmt.Sprintf("Estimated budget: %s %s", currency, v.StringFixed(0)))
	}
	if p := lead.PsychProfile; p != nil && p.RecommendedStrategy != "" {
		points = append(points, "Recommended approach: "+p.RecommendedStrategy)
	}
	return points
}

// CanAIClose is a three-way gate: eligible, recommend a human close, or keep nurturing.
// A lead without a psych profile is never treated as assertive here.
func (g *Generator) CanAIClose(lead *models.Lead) models.AutoCloseDecision {
	highScore := lead.LeadScore >= AutoCloseMinScore
	noObjections := len(lead.Objections()) == 0
	assertive := lead.PsychProfile != nil && lead.PsychProfile.DominantType == models.PsychAssertive
	closingStage := lead.Status == models.StatusProposalSent || lead.Status == models.StatusNegotiation

	switch {
	case highScore && noObjections && assertive && closingStage:
		return models.AutoCloseDecision{
			Eligible: true,
			Reason:   "High-score assertive lead with no open objections in a closing stage; safe to close automatically.",
		}
	case highScore && noObjections:
		return models.AutoCloseDecision{
			Eligible: false,
			Reason:   "Lead is qualified but the profile or stage calls for a personal touch; recommend a human close.",
		}
	}
	return models.AutoCloseDecision{
		Eligible: false,
		Reason:   "Lead needs more nurturing before a close attempt.",
	}
}
