// ABOUTME: Tests for closer guidance and the auto-close gate
// ABOUTME: Covers talking point assembly, close lines and all three gate outcomes
package closer

import (
	"testing"

	"github.com/harperreed/leadcoach/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func closingLead() *models.Lead {
	return &models.Lead{
		LeadScore:    90,
		Status:       models.StatusNegotiation,
		PsychProfile: &models.PsychProfile{DominantType: models.PsychAssertive},
	}
}

func TestCanAIClose(t *testing.T) {
	d := Default().CanAIClose(closingLead())
	assert.True(t, d.Eligible)
	assert.NotEmpty(t, d.Reason)
}

func TestCanAICloseRecommendsHuman(t *testing.T) {
	g := Default()

	lead := closingLead()
	lead.PsychProfile.DominantType = models.PsychEmotional
	d := g.CanAIClose(lead)
	assert.False(t, d.Eligible)
	assert.Contains(t, d.Reason, "human close")

	lead = closingLead()
	lead.Status = models.StatusShow
	d = g.CanAIClose(lead)
	assert.False(t, d.Eligible)
	assert.Contains(t, d.Reason, "human close")

	lead = closingLead()
	lead.PsychProfile = nil
	d = g.CanAIClose(lead)
	assert.False(t, d.Eligible)
	assert.Contains(t, d.Reason, "human close")
}

func TestCanAICloseNeedsNurturing(t *testing.T) {
	g := Default()

	lead := closingLead()
	lead.PsychProfile.Objections = []string{"price"}
	d := g.CanAIClose(lead)
	assert.False(t, d.Eligible)
	assert.Contains(t, d.Reason, "nurturing")

	for _, score := range []int{0, 50, 84} {
		lead = closingLead()
		lead.LeadScore = score
		d = g.CanAIClose(lead)
		assert.False(t, d.Eligible, "score %d", score)
		assert.Contains(t, d.Reason, "nurturing")
	}
}

func TestGuidanceObjectionsAreLeadIndependent(t *testing.T) {
	g := Default()
	a := g.Guidance(&models.Lead{Status: models.StatusNew})
	b := g.Guidance(closingLead())

	assert.Len(t, a.ObjectionHandlers, 5)
	assert.Equal(t, a.ObjectionHandlers, b.ObjectionHandlers)
}

func TestGuidancePhaseActionsAndCloseLine(t *testing.T) {
	g := Default()
	guide := g.Guidance(closingLead())

	assert.Equal(t, "Closing", guide.Phase)
	assert.NotEmpty(t, guide.SuggestedActions)
	assert.Equal(t, g.CloseLines[models.PsychAssertive], guide.CloseAttempt)

	noProfile := g.Guidance(&models.Lead{Status: models.StatusNew})
	assert.Equal(t, g.CloseLines[models.PsychAssertive], noProfile.CloseAttempt)
}

func TestTalkingPointsOnlyFromPresentFields(t *testing.T) {
	g := Default()
	g.Currency = "MXN"

	assert.Empty(t, g.Guidance(&models.Lead{Status: models.StatusShow}).TalkingPoints)

	v := decimal.NewFromInt(15000)
	lead := &models.Lead{
		Status:         models.StatusShow,
		DetectedNeeds:  []string{"social media"},
		PotentialValue: &v,
		PsychProfile: &models.PsychProfile{
			DominantType:        models.PsychAnalytical,
			PainPoints:          []string{"no leads from Instagram"},
			RecommendedStrategy: "Lead with data",
		},
	}
	points := g.Guidance(lead).TalkingPoints
	assert.Equal(t, []string{
		"They are looking for: social media",
		"Pain points to address: no leads from Instagram",
		"Estimated budget: MXN 15000",
		"Recommended approach: Lead with data",
	}, points)
}

func TestGuidanceDoesNotAliasTables(t *testing.T) {
	g := Default()
	guide := g.Guidance(closingLead())
	guide.ObjectionHandlers[0].Response = "changed"
	guide.SuggestedActions[0] = "changed"

	assert.NotEqual(t, "changed", g.Objections[0].Response)
	assert.NotEqual(t, "changed", g.Actions[models.StatusNegotiation][0])
}
