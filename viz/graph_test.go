// ABOUTME: Tests for pipeline and lead graph rendering
// ABOUTME: Checks that statuses, counts and quotes reach the DOT output
package viz

import (
	"context"
	"testing"

	"github.com/harperreed/leadcoach/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineGraph(t *testing.T) {
	dot, err := PipelineGraph(context.Background(), map[models.Status]int{
		models.StatusNew:         3,
		models.StatusNegotiation: 1,
	})
	require.NoError(t, err)

	assert.Contains(t, dot, "digraph")
	assert.Contains(t, dot, "Lead Pipeline")
	for _, st := range models.AllStatuses {
		assert.Contains(t, dot, string(st))
	}
	assert.Contains(t, dot, "3 leads")
	assert.Contains(t, dot, "rebooked")
}

func TestLeadGraph(t *testing.T) {
	lead := &models.Lead{
		Name:      "Ana Torres",
		Status:    models.StatusProposalSent,
		LeadScore: 70,
		Interactions: []models.Interaction{
			{Channel: models.ChannelWhatsApp},
			{Channel: models.ChannelWhatsApp},
			{Channel: models.ChannelCall},
		},
	}
	quotes := []models.Quote{{
		Number:   "Q-01TEST",
		Kind:     models.QuoteKindStandard,
		Currency: "MXN",
		Total:    decimal.NewFromInt(16200),
		Status:   models.QuoteStatusSent,
	}}

	dot, err := LeadGraph(context.Background(), lead, quotes)
	require.NoError(t, err)
	assert.Contains(t, dot, "Ana Torres")
	assert.Contains(t, dot, "MXN 16200")
	assert.Contains(t, dot, "2 touches")
	assert.Contains(t, dot, "channel_call")
}
