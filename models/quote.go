// ABOUTME: Quote model with line items, totals and lifecycle transitions
// ABOUTME: Keeps total = subtotal - discount after every mutation
package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Quote kinds.
const (
	QuoteKindStandard = "standard"
	QuoteKindEconomic = "economic"
	QuoteKindPremium  = "premium"
)

// Quote statuses.
const (
	QuoteStatusDraft    = "draft"
	QuoteStatusSent     = "sent"
	QuoteStatusViewed   = "viewed"
	QuoteStatusAccepted = "accepted"
	QuoteStatusRejected = "rejected"
)

var ErrInvalidTransition = errors.New("invalid quote status transition")

var quoteTransitions = map[string][]string{
	QuoteStatusDraft:  {QuoteStatusSent},
	QuoteStatusSent:   {QuoteStatusViewed, QuoteStatusAccepted, QuoteStatusRejected},
	QuoteStatusViewed: {QuoteStatusAccepted, QuoteStatusRejected},
}

type QuoteItem struct {
	ServiceID   string          `json:"service_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

// LineTotal is unit price times quantity.
func (i QuoteItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Quote struct {
	ID         uuid.UUID       `json:"id"`
	Number     string          `json:"number"`
	LeadID     uuid.UUID       `json:"lead_id"`
	Kind       string          `json:"kind"`
	Items      []QuoteItem     `json:"items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Discount   decimal.Decimal `json:"discount"`
	Total      decimal.Decimal `json:"total"`
	Currency   string          `json:"currency"`
	ValidUntil time.Time       `json:"valid_until"`
	Status     string          `json:"status"`
	Notes      []string        `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Recalculate sums the line items into Subtotal and derives Total from Discount.
func (q *Quote) Recalculate() {
	subtotal := decimal.Zero
	for _, item := range q.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	q.Subtotal = subtotal
	q.Total = q.Subtotal.Sub(q.Discount)
}

// HasService reports whether serviceID is already a line item.
func (q *Quote) HasService(serviceID string) bool {
	for _, item := range q.Items {
		if item.ServiceID == serviceID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so mutations never reach the original.
func (q *Quote) Clone() *Quote {
	c := *q
	c.Items = append([]QuoteItem(nil), q.Items...)
	c.Notes = append([]string(nil), q.Notes...)
	return &c
}

// CanTransition reports whether the lifecycle allows moving to next.
func (q *Quote) CanTransition(next string) bool {
	for _, allowed := range quoteTransitions[q.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionStatus validates and applies a lifecycle move.
func (q *Quote) TransitionStatus(next string, now time.Time) error {
	if !q.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, q.Status, next)
	}
	q.Status = next
	q.UpdatedAt = now
	return nil
}

// LeadStatusForQuote returns the pipeline status a lead moves to when one of its
// quotes reaches status. Sending marks a proposal and acceptance wins the lead.
func LeadStatusForQuote(status string) (Status, bool) {
	switch status {
	case QuoteStatusSent:
		return StatusProposalSent, true
	case QuoteStatusAccepted:
		return StatusWon, true
	}
	return "", false
}
