// ABOUTME: Tests for initial lead scoring
// ABOUTME: Covers source bonuses, completeness bonuses, value tiers and clamping
package scoring

import (
	"testing"

	"github.com/harperreed/leadcoach/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func value(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestScoreBaseOnly(t *testing.T) {
	assert.Equal(t, 30, Score(&models.Lead{}, DefaultTable()))
}

func TestScoreUnknownSourceAddsNothing(t *testing.T) {
	assert.Equal(t, 30, Score(&models.Lead{Source: "carrier pigeon"}, DefaultTable()))
	assert.Equal(t, 50, Score(&models.Lead{Source: "Referral"}, DefaultTable()))
}

func TestScoreValueTiers(t *testing.T) {
	tests := []struct {
		value int64
		want  int
	}{
		{9999, 30},
		{10000, 35},
		{25000, 40},
		{49999, 40},
		{50000, 45},
	}
	for _, tt := range tests {
		got := Score(&models.Lead{PotentialValue: value(tt.value)}, DefaultTable())
		assert.Equal(t, tt.want, got, "value %d", tt.value)
	}
}

func TestScoreClampedAt100(t *testing.T) {
	table := DefaultTable()
	table.SourceBonus["referral"] = 80
	lead := &models.Lead{
		Source:         "referral",
		Email:          "a@b.co",
		Phone:          "555",
		Company:        "Acme",
		JobTitle:       "CEO",
		PotentialValue: value(90000),
	}
	assert.Equal(t, 100, Score(lead, table))
}

func TestScoreFullDefaultLead(t *testing.T) {
	lead := &models.Lead{
		Source:         "referral",
		Email:          "a@b.co",
		Phone:          "555",
		Company:        "Acme",
		JobTitle:       "CEO",
		PotentialValue: value(60000),
	}
	// 30 + 20 + 5 + 5 + 10 + 5 + 15
	assert.Equal(t, 90, Score(lead, DefaultTable()))
}

func TestScoreMonotonicInOptionalFields(t *testing.T) {
	table := DefaultTable()
	lead := &models.Lead{Source: "website"}
	prev := Score(lead, table)

	steps := []func(l *models.Lead){
		func(l *models.Lead) { l.Email = "x@y.z" },
		func(l *models.Lead) { l.Phone = "123" },
		func(l *models.Lead) { l.Company = "Acme" },
		func(l *models.Lead) { l.JobTitle = "Owner" },
	}
	for _, step := range steps {
		step(lead)
		got := Score(lead, table)
		assert.GreaterOrEqual(t, got, prev)
		assert.LessOrEqual(t, got, 100)
		prev = got
	}
}
