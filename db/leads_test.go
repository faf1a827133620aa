// ABOUTME: Tests for lead and interaction database operations
// ABOUTME: Covers JSON columns, search filters, last-contact tracking and cascading delete
package db

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/leadcoach/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLead() *models.Lead {
	v := decimal.NewFromInt(15000)
	return &models.Lead{
		Name:           "Ana Torres",
		Email:          "ana@example.com",
		Company:        "Panadería Sol",
		Source:         "referral",
		PotentialValue: &v,
		DetectedNeeds:  []string{"social media", "website"},
		PsychProfile: &models.PsychProfile{
			DominantType: models.PsychEmotional,
			PainPoints:   []string{"no time for posting"},
			Objections:   []string{"price"},
		},
		NextMeeting: &models.Meeting{
			ScheduledAt: time.Date(2026, 5, 6, 17, 0, 0, 0, time.UTC),
			Link:        "https://meet.example.com/ana",
		},
	}
}

func TestCreateAndGetLead(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	lead := sampleLead()
	require.NoError(t, CreateLead(db, lead))
	assert.NotEqual(t, uuid.Nil, lead.ID)
	assert.Equal(t, models.StatusNew, lead.Status)

	got, err := GetLead(db, lead.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Ana Torres", got.Name)
	assert.Equal(t, "Panadería Sol", got.Company)
	assert.Equal(t, []string{"social media", "website"}, got.DetectedNeeds)
	require.NotNil(t, got.PotentialValue)
	assert.True(t, got.PotentialValue.Equal(decimal.NewFromInt(15000)))
	require.NotNil(t, got.PsychProfile)
	assert.Equal(t, models.PsychEmotional, got.PsychProfile.DominantType)
	assert.Equal(t, []string{"price"}, got.PsychProfile.Objections)
	require.NotNil(t, got.NextMeeting)
	assert.True(t, got.NextMeeting.ScheduledAt.Equal(lead.NextMeeting.ScheduledAt))
	assert.Nil(t, got.LastContactAt)
	assert.Empty(t, got.Interactions)
}

func TestGetLeadNotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	got, err := GetLead(db, uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestLeadWithoutOptionalFields(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	lead := &models.Lead{Name: "Bo"}
	require.NoError(t, CreateLead(db, lead))

	got, err := GetLead(db, lead.ID)
	require.NoError(t, err)
	assert.Nil(t, got.PotentialValue)
	assert.Nil(t, got.PsychProfile)
	assert.Nil(t, got.NextMeeting)
	assert.Empty(t, got.DetectedNeeds)
}

func TestFindLeads(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	a := sampleLead()
	b := &models.Lead{Name: "Carlos Ruiz", Company: "Ruiz Motors", Status: models.StatusNegotiation}
	c := &models.Lead{Name: "Diana", Email: "diana@ruiz.mx", Status: models.StatusNegotiation}
	for _, l := range []*models.Lead{a, b, c} {
		require.NoError(t, CreateLead(db, l))
	}

	all, err := FindLeads(db, "", "", 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	neg, err := FindLeads(db, models.StatusNegotiation, "", 10)
	require.NoError(t, err)
	assert.Len(t, neg, 2)

	ruiz, err := FindLeads(db, models.StatusNegotiation, "RUIZ", 10)
	require.NoError(t, err)
	assert.Len(t, ruiz, 2, "matches company and email")

	one, err := FindLeads(db, "", "", 1)
	require.NoError(t, err)
	assert.Len(t, one, 1)
}

func TestFindOpenLeadsSkipsClosedBeforeLimit(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	open := sampleLead()
	require.NoError(t, CreateLead(db, open))
	require.NoError(t, LogInteraction(db, &models.Interaction{
		LeadID: open.ID, Channel: models.ChannelWhatsApp, Direction: models.DirectionOutbound,
	}))
	for _, name := range []string{"Won A", "Won B", "Lost C"} {
		status := models.StatusWon
		if name == "Lost C" {
			status = models.StatusLost
		}
		require.NoError(t, CreateLead(db, &models.Lead{Name: name, Status: status}))
	}

	leads, err := FindOpenLeads(db, 3)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, open.ID, leads[0].ID)
	assert.Len(t, leads[0].Interactions, 1)
}

func TestUpdateLead(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	lead := sampleLead()
	require.NoError(t, CreateLead(db, lead))

	lead.Status = models.StatusScheduled
	lead.LeadScore = 75
	lead.PsychProfile = nil
	lead.DetectedNeeds = append(lead.DetectedNeeds, "seo")
	require.NoError(t, UpdateLead(db, lead))

	got, err := GetLead(db, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusScheduled, got.Status)
	assert.Equal(t, 75, got.LeadScore)
	assert.Nil(t, got.PsychProfile)
	assert.Equal(t, []string{"social media", "website", "seo"}, got.DetectedNeeds)
}

func TestUpdateLeadStatusAndScore(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	lead := sampleLead()
	require.NoError(t, CreateLead(db, lead))

	require.NoError(t, UpdateLeadStatus(db, lead.ID, models.StatusContacted))
	require.NoError(t, UpdateLeadScore(db, lead.ID, 88))
	assert.Error(t, UpdateLeadStatus(db, lead.ID, "maybe"))
	assert.Error(t, UpdateLeadScore(db, uuid.New(), 10))

	got, err := GetLead(db, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusContacted, got.Status)
	assert.Equal(t, 88, got.LeadScore)
}

func TestLogInteraction(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	lead := sampleLead()
	require.NoError(t, CreateLead(db, lead))

	first := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(2 * time.Hour)

	require.NoError(t, LogInteraction(db, &models.Interaction{
		LeadID: lead.ID, Channel: models.ChannelWhatsApp, Direction: models.DirectionOutbound, Timestamp: second, Notes: "welcome",
	}))
	require.NoError(t, LogInteraction(db, &models.Interaction{
		LeadID: lead.ID, Channel: models.ChannelEmail, Direction: models.DirectionInbound, Timestamp: first,
	}))

	got, err := GetLead(db, lead.ID)
	require.NoError(t, err)
	require.Len(t, got.Interactions, 2)
	assert.Equal(t, "welcome", got.Interactions[0].Notes, "newest first")
	require.NotNil(t, got.LastContactAt)
	assert.True(t, got.LastContactAt.Equal(second), "older interactions do not move last contact back")
	require.NotNil(t, got.LastOutboundAt())
	assert.True(t, got.LastOutboundAt().Equal(second))
}

func TestLogInteractionErrors(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	err := LogInteraction(db, &models.Interaction{LeadID: uuid.New(), Channel: models.ChannelCall, Direction: models.DirectionOutbound})
	assert.Error(t, err, "unknown lead")

	lead := sampleLead()
	require.NoError(t, CreateLead(db, lead))
	err = LogInteraction(db, &models.Interaction{LeadID: lead.ID, Channel: models.ChannelCall, Direction: "sideways"})
	assert.Error(t, err)

	history, err := ListInteractions(db, lead.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestAttachInteractions(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	lead := sampleLead()
	require.NoError(t, CreateLead(db, lead))
	require.NoError(t, LogInteraction(db, &models.Interaction{LeadID: lead.ID, Channel: models.ChannelCall, Direction: models.DirectionOutbound}))

	leads, err := FindLeads(db, "", "", 10)
	require.NoError(t, err)
	require.NoError(t, AttachInteractions(db, leads))
	assert.Len(t, leads[0].Interactions, 1)
}

func TestDeleteLead(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	lead := sampleLead()
	require.NoError(t, CreateLead(db, lead))
	require.NoError(t, LogInteraction(db, &models.Interaction{LeadID: lead.ID, Channel: models.ChannelCall, Direction: models.DirectionOutbound}))
	require.NoError(t, SaveQuote(db, sampleQuote(lead.ID)))

	require.NoError(t, DeleteLead(db, lead.ID))

	got, err := GetLead(db, lead.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	quotes, err := FindQuotesByLead(db, lead.ID)
	require.NoError(t, err)
	assert.Empty(t, quotes)
}

func TestCountLeadsByStatus(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for _, st := range []models.Status{models.StatusNew, models.StatusNew, models.StatusWon} {
		require.NoError(t, CreateLead(db, &models.Lead{Name: "x", Status: st}))
	}
	counts, err := CountLeadsByStatus(db)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[models.StatusNew])
	assert.Equal(t, 1, counts[models.StatusWon])
	assert.Zero(t, counts[models.StatusLost])
}
