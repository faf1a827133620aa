// ABOUTME: Initial lead quality score from acquisition source and data completeness
// ABOUTME: Deterministic and total; result is clamped to 0..100
package scoring

import (
	"strings"

	"github.com/harperreed/leadcoach/models"
	"github.com/shopspring/decimal"
)

const (
	baseScore = 30
	maxScore  = 100
)

// Table holds the tunable parts of the score.
type Table struct {
	SourceBonus  map[string]int
	ValueTiers   []ValueTier // highest threshold first
	EmailBonus   int
	PhoneBonus   int
	CompanyBonus int
	TitleBonus   int
}

type ValueTier struct {
	Min   decimal.Decimal
	Bonus int
}

// DefaultTable returns the standard scoring weights.
func DefaultTable() Table {
	return Table{
		SourceBonus: map[string]int{
			"referral":   20,
			"linkedin":   15,
			"website":    15,
			"event":      15,
			"whatsapp":   10,
			"facebook":   10,
			"instagram":  10,
			"google_ads": 10,
		},
		ValueTiers: []ValueTier{
			{Min: decimal.NewFromInt(50000), Bonus: 15},
			{Min: decimal.NewFromInt(25000), Bonus: 10},
			{Min: decimal.NewFromInt(10000), Bonus: 5},
		},
		EmailBonus:   5,
		PhoneBonus:   5,
		CompanyBonus: 10,
		TitleBonus:   5,
	}
}

// Score computes the initial score for a lead.
func Score(lead *models.Lead, t Table) int {
	score := baseScore
	score += t.SourceBonus[strings.ToLower(strings.TrimSpace(lead.Source))]

	if lead.Email != "" {
		score += t.EmailBonus
	}
	if lead.Phone != "" {
		score += t.PhoneBonus
	}
	if lead.Company != "" {
		score += t.CompanyBonus
	}
	if lead.JobTitle != "" {
		score += t.TitleBonus
	}

	if lead.PotentialValue != nil {
		for _, tier := range t.ValueTiers {
			if lead.PotentialValue.GreaterThanOrEqual(tier.Min) {
				score += tier.Bonus
				break
			}
		}
	}

	if score > maxScore {
		score = maxScore
	}
	if score < 0 {
		score = 0
	}
	return score
}
