// ABOUTME: Tests for the quote prompt interpreter
// ABOUTME: Covers discount, add and remove intents and their combination
package interpreter

import (
	"testing"
	"time"

	"github.com/harperreed/leadcoach/catalog"
	"github.com/harperreed/leadcoach/models"
	"github.com/harperreed/leadcoach/quotes"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	created = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	edited  = created.Add(time.Hour)
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// socialQuote is the 18000 / 1800 / 16200 quote for an assertive social media lead.
func socialQuote(t *testing.T) *models.Quote {
	t.Helper()
	v := dec(15000)
	lead := &models.Lead{DetectedNeeds: []string{"social media"}, PotentialValue: &v}
	q := quotes.Default(catalog.Default()).Generate(lead, created).Quote
	require.True(t, q.Subtotal.Equal(dec(18000)))
	require.True(t, q.Discount.Equal(dec(1800)))
	return q
}

func ids(q *models.Quote) []string {
	var out []string
	for _, it := range q.Items {
		out = append(out, it.ServiceID)
	}
	return out
}

func assertTotalsConsistent(t *testing.T, q *models.Quote) {
	t.Helper()
	assert.True(t, q.Total.Equal(q.Subtotal.Sub(q.Discount)))
}

func TestDiscountAddsFlatTenPercent(t *testing.T) {
	in := New(catalog.Default())
	q := socialQuote(t)

	out := in.Edit(q, "give me a discount", edited)
	assert.True(t, out.Discount.Equal(dec(3600)))
	assert.True(t, out.Total.Equal(dec(14400)))
	assertTotalsConsistent(t, out)
	assert.Contains(t, out.Notes, "Additional 10% discount applied")

	assert.True(t, q.Discount.Equal(dec(1800)), "original quote is untouched")
}

func TestDiscountIgnoresStatedPercentage(t *testing.T) {
	in := New(catalog.Default())
	out := in.Edit(socialQuote(t), "Can you LOWER it by 25%?", edited)
	assert.True(t, out.Discount.Equal(dec(3600)))
}

func TestAddByCategory(t *testing.T) {
	in := New(catalog.Default())
	out := in.Edit(socialQuote(t), "please add seo too", edited)
	assert.Equal(t, []string{"social_pro", "social_basic", "seo_basic"}, ids(out))
	assert.True(t, out.Subtotal.Equal(dec(23000)))
	assert.True(t, out.Discount.Equal(dec(1800)), "adding a service leaves the discount amount alone")
	assertTotalsConsistent(t, out)
}

func TestAddSkipsServicesAlreadyQuoted(t *testing.T) {
	in := New(catalog.Default())
	out := in.Edit(socialQuote(t), "include more social media", edited)
	assert.Equal(t, []string{"social_pro", "social_basic", "social_premium"}, ids(out))
}

func TestAddByName(t *testing.T) {
	in := New(catalog.Default())
	out := in.Edit(socialQuote(t), "Include a Logo Design please", edited)
	assert.Contains(t, ids(out), "logo_design")
}

func TestRemoveFirstMentionedItem(t *testing.T) {
	in := New(catalog.Default())
	out := in.Edit(socialQuote(t), "eliminate the social media basic plan", edited)
	assert.Equal(t, []string{"social_pro"}, ids(out))
	assert.True(t, out.Subtotal.Equal(dec(12000)))
	assertTotalsConsistent(t, out)
}

func TestCombinedIntentsApplyInOrder(t *testing.T) {
	in := New(catalog.Default())
	q := socialQuote(t)

	instr := in.Classify(q, "add seo, remove social media basic and give a discount")
	require.Len(t, instr, 3)
	assert.Equal(t, AddDiscount(10), instr[0])
	// catalog order wins: the social media category is mentioned and listed before seo
	assert.Equal(t, AddService("social_premium"), instr[1])
	assert.Equal(t, RemoveService("social_basic"), instr[2])

	out := in.Apply(q, instr, edited)
	// discount computed on the 18000 subtotal before the other edits
	assert.True(t, out.Discount.Equal(dec(3600)))
	assert.Equal(t, []string{"social_pro", "social_premium"}, ids(out))
	assert.True(t, out.Subtotal.Equal(dec(32000)))
	assertTotalsConsistent(t, out)
	assert.Equal(t, []string{"Additional 10% discount applied", "Added Social Media Premium", "Removed Social Media Basic"}, out.Notes)
}

func TestRemoveSeesServiceAddedByTheSameRequest(t *testing.T) {
	in := New(catalog.Default())
	q := socialQuote(t)

	instr := in.Classify(q, "add logo design and remove logo design")
	assert.Equal(t, []Instruction{AddService("logo_design"), RemoveService("logo_design")}, instr)

	out := in.Edit(q, "add logo design and remove logo design", edited)
	assert.Equal(t, ids(q), ids(out))
	assert.True(t, out.Subtotal.Equal(dec(18000)))
	assertTotalsConsistent(t, out)
	assert.Equal(t, []string{"Added Logo Design", "Removed Logo Design"}, out.Notes)
	assert.Equal(t, edited, out.UpdatedAt)
	assert.Len(t, q.Items, 2, "original quote is untouched")
}

func TestUnmatchedTextOnlyTouchesUpdatedAt(t *testing.T) {
	in := New(catalog.Default())
	q := socialQuote(t)

	out := in.Edit(q, "looks great, thanks!", edited)
	assert.Equal(t, ids(q), ids(out))
	assert.True(t, out.Total.Equal(q.Total))
	assert.Empty(t, out.Notes)
	assert.Equal(t, edited, out.UpdatedAt)
}

func TestAddWithoutMatchingServiceDoesNothing(t *testing.T) {
	in := New(catalog.Default())
	out := in.Edit(socialQuote(t), "add a unicorn", edited)
	assert.Len(t, out.Items, 2)
}

func TestApplyIgnoresUnknownService(t *testing.T) {
	in := New(catalog.Default())
	out := in.Apply(socialQuote(t), []Instruction{AddService("ghost"), RemoveService("ghost")}, edited)
	assert.Len(t, out.Items, 2)
	assertTotalsConsistent(t, out)
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "add_discount", OpAddDiscount.String())
	assert.Equal(t, "remove_service", OpRemoveService.String())
}
