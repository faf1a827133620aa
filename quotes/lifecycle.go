// ABOUTME: Quote lifecycle helpers for send, view, accept and reject
// ABOUTME: Returns an updated copy and leaves the input untouched
package quotes

import (
	"time"

	"github.com/harperreed/leadcoach/models"
)

// Advance moves a copy of q to status next.
func Advance(q *models.Quote, next string, now time.Time) (*models.Quote, error) {
	c := q.Clone()
	if err := c.TransitionStatus(next, now); err != nil {
		return nil, err
	}
	return c, nil
}

func Send(q *models.Quote, now time.Time) (*models.Quote, error) {
	return Advance(q, models.QuoteStatusSent, now)
}

func MarkViewed(q *models.Quote, now time.Time) (*models.Quote, error) {
	return Advance(q, models.QuoteStatusViewed, now)
}

func Accept(q *models.Quote, now time.Time) (*models.Quote, error) {
	return Advance(q, models.QuoteStatusAccepted, now)
}

func Reject(q *models.Quote, now time.Time) (*models.Quote, error) {
	return Advance(q, models.QuoteStatusRejected, now)
}
