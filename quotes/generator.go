// ABOUTME: Builds priced service quotes from a lead's needs, budget and psych profile
// ABOUTME: Greedy budget fit, psych-based discount, economic/premium alternatives and rationale
package quotes

import (
	"crypto/rand"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/leadcoach/catalog"
	"github.com/harperreed/leadcoach/models"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

const (
	economicSize    = 2
	economicMinimum = 1
	premiumSize     = 4
	premiumMinimum  = 2
)

// Generator turns a lead snapshot into a quote with two alternatives.
type Generator struct {
	Catalog         *catalog.Catalog
	Discounts       map[models.PsychType]decimal.Decimal
	PremiumDiscount decimal.Decimal
	BudgetTolerance decimal.Decimal
	Validity        time.Duration
	Rationale       map[models.PsychType]string
}

// Result is the generator output. Alternatives holds zero, one or two quotes.
type Result struct {
	Quote        *models.Quote   `json:"quote"`
	Rationale    string          `json:"rationale"`
	Alternatives []*models.Quote `json:"alternatives"`
}

// Default wires the standard discounts and rationale sentences around c.
func Default(c *catalog.Catalog) *Generator {
	return &Generator{
		Catalog: c,
		Discounts: map[models.PsychType]decimal.Decimal{
			models.PsychAnalytical: decimal.Zero,
			models.PsychEmotional:  decimal.RequireFromString("0.05"),
			models.PsychAssertive:  decimal.RequireFromString("0.10"),
			models.PsychIndecisive: decimal.Zero,
		},
		PremiumDiscount: decimal.RequireFromString("0.15"),
		BudgetTolerance: decimal.RequireFromString("1.2"),
		Validity:        7 * 24 * time.Hour,
		Rationale: map[models.PsychType]string{
			models.PsychAnalytical: "The proposal is laid out service by service so every cost can be checked against measurable results.",
			models.PsychEmotional:  "The proposal focuses on how your customers will feel about your brand, with a loyalty discount to start together.",
			models.PsychAssertive:  "The proposal is built for fast results, with a preferred-client discount for a quick decision.",
			models.PsychIndecisive: "The proposal starts with the essentials so you can move forward with confidence and grow from there.",
		},
	}
}

// Generate builds the main quote, its alternatives and the rationale.
func (g *Generator) Generate(lead *models.Lead, now time.Time) Result {
	candidates := g.Candidates(lead)

	selected := candidates
	if budget, ok := lead.Budget(); ok {
		selected = BudgetFit(candidates, budget, g.BudgetTolerance)
	}

	psych := lead.PsychType()
	main := g.newQuote(lead, models.QuoteKindStandard, selected, now)
	main.Discount = main.Subtotal.Mul(g.Discounts[psych])
	main.Recalculate()

	var alts []*models.Quote
	if len(candidates) >= economicMinimum {
		alts = append(alts, g.newQuote(lead, models.QuoteKindEconomic, cheapest(candidates, economicSize), now))
	}
	if len(candidates) >= premiumMinimum {
		premium := g.newQuote(lead, models.QuoteKindPremium, mostExpensive(candidates, premiumSize), now)
		premium.Discount = premium.Subtotal.Mul(g.PremiumDiscount)
		premium.Recalculate()
		alts = append(alts, premium)
	}

	return Result{
		Quote:        main,
		Rationale:    g.rationale(lead, len(candidates)),
		Alternatives: alts,
	}
}

// Candidates resolves the ordered union of services mapped from the lead's needs,
// falling back to the catalog's default pair when no need maps to anything.
func (g *Generator) Candidates(lead *models.Lead) []catalog.Service {
	var ids []string
	seen := make(map[string]bool)
	for _, need := range lead.DetectedNeeds {
		for _, id := range g.Catalog.ServicesForNeed(need) {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		ids = g.Catalog.DefaultServices
	}

	var out []catalog.Service
	for _, id := range ids {
		if s, ok := g.Catalog.Lookup(id); ok {
			out = append(out, s)
		}
	}
	return out
}

// BudgetFit greedily accepts the most expensive candidates while the running total
// stays within budget*tolerance. If nothing fits, the cheapest candidate is forced in.
func BudgetFit(candidates []catalog.Service, budget, tolerance decimal.Decimal) []catalog.Service {
	if len(candidates) == 0 {
		return nil
	}
	limit := budget.Mul(tolerance)

	byPrice := append([]catalog.Service(nil), candidates...)
	sort.SliceStable(byPrice, func(i, j int) bool {
		return byPrice[i].BasePrice.GreaterThan(byPrice[j].BasePrice)
	})

	var selected []catalog.Service
	running := decimal.Zero
	for _, s := range byPrice {
		if running.Add(s.BasePrice).LessThanOrEqual(limit) {
			running = running.Add(s.BasePrice)
			selected = append(selected, s)
		}
	}

	if len(selected) == 0 {
		low := candidates[0]
		for _, s := range candidates[1:] {
			if s.BasePrice.LessThan(low.BasePrice) {
				low = s
			}
		}
		selected = []catalog.Service{low}
	}
	return selected
}

func cheapest(candidates []catalog.Service, n int) []catalog.Service {
	sorted := append([]catalog.Service(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BasePrice.LessThan(sorted[j].BasePrice)
	})
	return head(sorted, n)
}

func mostExpensive(candidates []catalog.Service, n int) []catalog.Service {
	sorted := append([]catalog.Service(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BasePrice.GreaterThan(sorted[j].BasePrice)
	})
	return head(sorted, n)
}

func head(s []catalog.Service, n int) []catalog.Service {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func (g *Generator) newQuote(lead *models.Lead, kind string, services []catalog.Service, now time.Time) *models.Quote {
	q := &models.Quote{
		ID:         uuid.New(),
		Number:     NewNumber(now),
		LeadID:     lead.ID,
		Kind:       kind,
		Discount:   decimal.Zero,
		Currency:   g.Catalog.Currency,
		ValidUntil: now.Add(g.Validity),
		Status:     models.QuoteStatusDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, s := range services {
		q.Items = append(q.Items, ItemFor(s))
	}
	q.Recalculate()
	return q
}

// ItemFor turns a catalog service into a single-quantity line item at base price.
func ItemFor(s catalog.Service) models.QuoteItem {
	return models.QuoteItem{
		ServiceID:   s.ID,
		Name:        s.Name,
		Description: s.Description,
		UnitPrice:   s.BasePrice,
		Quantity:    1,
	}
}

// NewNumber returns a sortable human-facing quote reference.
func NewNumber(now time.Time) string {
	return "Q-" + ulid.MustNew(ulid.Timestamp(now), rand.Reader).String()
}

func (g *Generator) rationale(lead *models.Lead, services int) string {
	var b strings.Builder
	name := lead.Name
	if name == "" {
		name = "this lead"
	}
	b.WriteString(fmt.Sprintf("Proposal prepared for %s.", name))
	if len(lead.DetectedNeeds) > 0 {
		b.WriteString(fmt.Sprintf(" Based on the detected needs we recommend %d service(s).", services))
	}
	if s := g.Rationale[lead.PsychType()]; s != "" {
		b.WriteString(" ")
		b.WriteString(s)
	}
	return b.String()
}
