// ABOUTME: Tests for template selection and rendering
// ABOUTME: Covers immediate, elapsed and before-meeting triggers and conditions
package templates

import (
	"testing"
	"time"

	"github.com/harperreed/leadcoach/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

func defaultMatcher() *Matcher {
	return NewMatcher(DefaultTable())
}

func TestSelectImmediateWelcome(t *testing.T) {
	lead := &models.Lead{Name: "Ana Torres", Status: models.StatusNew}

	id, ok := defaultMatcher().Select(lead, Now(), now)
	require.True(t, ok)
	assert.Equal(t, Welcome, id)

	msg, ok := defaultMatcher().Message(lead, Now(), now)
	require.True(t, ok)
	assert.Contains(t, msg, "Hi Ana!")
}

func TestSelectNoMatchIsNotAnError(t *testing.T) {
	lead := &models.Lead{Status: models.StatusWon}
	_, ok := defaultMatcher().Select(lead, Now(), now)
	assert.False(t, ok)
}

func TestElapsedTemplateRequiresOutboundGap(t *testing.T) {
	lead := &models.Lead{Status: models.StatusNew, Interactions: []models.Interaction{
		{Direction: models.DirectionOutbound, Timestamp: now.Add(-23 * time.Hour)},
	}}
	_, ok := defaultMatcher().Select(lead, Elapsed(1440), now)
	assert.False(t, ok, "23h since outbound is below the 24h threshold")

	lead.Interactions[0].Timestamp = now.Add(-24 * time.Hour)
	id, ok := defaultMatcher().Select(lead, Elapsed(1440), now)
	require.True(t, ok)
	assert.Equal(t, NoResponse24h, id)
}

func TestElapsedTemplateWithoutOutboundHistory(t *testing.T) {
	lead := &models.Lead{Status: models.StatusNew, Interactions: []models.Interaction{
		{Direction: models.DirectionInbound, Timestamp: now.Add(-time.Minute)},
	}}
	id, ok := defaultMatcher().Select(lead, Elapsed(1440), now)
	require.True(t, ok)
	assert.Equal(t, NoResponse24h, id)
}

func TestElapsedContextMustMatchOffset(t *testing.T) {
	lead := &models.Lead{Status: models.StatusNew}
	_, ok := defaultMatcher().Select(lead, Elapsed(60), now)
	assert.False(t, ok)
}

func TestBeforeMeetingHalfOpenWindow(t *testing.T) {
	lead := &models.Lead{Status: models.StatusScheduled, NextMeeting: &models.Meeting{
		ScheduledAt: now.Add(60 * time.Minute),
	}}
	id, ok := defaultMatcher().Select(lead, UntilMeeting(60), now)
	require.True(t, ok, "exactly 60 minutes is inside (0, 60]")
	assert.Equal(t, Reminder1h, id)

	lead.NextMeeting.ScheduledAt = now.Add(61 * time.Minute)
	_, ok = defaultMatcher().Select(lead, UntilMeeting(60), now)
	assert.False(t, ok)

	lead.NextMeeting.ScheduledAt = now
	_, ok = defaultMatcher().Select(lead, UntilMeeting(60), now)
	assert.False(t, ok, "a meeting that already started is outside the window")
}

func TestReminder15mNeedsLink(t *testing.T) {
	lead := &models.Lead{Status: models.StatusScheduled, NextMeeting: &models.Meeting{
		ScheduledAt: now.Add(10 * time.Minute),
	}}
	_, ok := defaultMatcher().Select(lead, UntilMeeting(15), now)
	assert.False(t, ok)

	lead.NextMeeting.Link = "https://meet.example.com/abc"
	msg, ok := defaultMatcher().Message(lead, UntilMeeting(15), now)
	require.True(t, ok)
	assert.Contains(t, msg, "https://meet.example.com/abc")
}

func TestMeetingConfirmNeedsMeeting(t *testing.T) {
	lead := &models.Lead{Status: models.StatusScheduled}
	_, ok := defaultMatcher().Select(lead, Now(), now)
	assert.False(t, ok)

	lead.NextMeeting = &models.Meeting{ScheduledAt: now.Add(48 * time.Hour)}
	id, ok := defaultMatcher().Select(lead, Now(), now)
	require.True(t, ok)
	assert.Equal(t, MeetingConfirm, id)
}

func TestSelectFirstInDeclarationOrder(t *testing.T) {
	table := []Template{
		{ID: NegotiationNudge, Trigger: Immediate(models.StatusNew), Condition: CondHasNeeds},
		{ID: Welcome, Trigger: Immediate(models.StatusNew)},
	}
	m := NewMatcher(table)

	id, _ := m.Select(&models.Lead{Status: models.StatusNew}, Now(), now)
	assert.Equal(t, Welcome, id)

	id, _ = m.Select(&models.Lead{Status: models.StatusNew, DetectedNeeds: []string{"seo"}}, Now(), now)
	assert.Equal(t, NegotiationNudge, id)
}

func TestRenderPostCallMentionsNeeds(t *testing.T) {
	lead := &models.Lead{Name: "Luis", DetectedNeeds: []string{"website", "seo"}}
	assert.Contains(t, Render(PostCall, lead), "website, seo")
	assert.Equal(t, "", Render(ID("nope"), lead))
}

func TestRenderWithoutNameOrMeeting(t *testing.T) {
	msg := Render(Reminder15m, &models.Lead{})
	assert.Contains(t, msg, "Hi there")
	assert.Contains(t, msg, "link to follow")
}
