// ABOUTME: Quote database operations
// ABOUTME: Stores priced quotes with their line items and edit notes as JSON
package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/leadcoach/models"
)

const quoteColumns = `id, number, lead_id, kind, items, subtotal, discount, total, currency,
	valid_until, status, notes, created_at, updated_at`

func encodeQuote(q *models.Quote) (items, notes string, err error) {
	it := q.Items
	if it == nil {
		it = []models.QuoteItem{}
	}
	b, err := json.Marshal(it)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode quote items: %w", err)
	}
	n := q.Notes
	if n == nil {
		n = []string{}
	}
	nb, err := json.Marshal(n)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode quote notes: %w", err)
	}
	return string(b), string(nb), nil
}

func scanQuote(row scanner) (*models.Quote, error) {
	q := &models.Quote{}
	var items, notes string

	err := row.Scan(
		&q.ID,
		&q.Number,
		&q.LeadID,
		&q.Kind,
		&items,
		&q.Subtotal,
		&q.Discount,
		&q.Total,
		&q.Currency,
		&q.ValidUntil,
		&q.Status,
		&notes,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(items), &q.Items); err != nil {
		return nil, fmt.Errorf("failed to decode quote items: %w", err)
	}
	if err := json.Unmarshal([]byte(notes), &q.Notes); err != nil {
		return nil, fmt.Errorf("failed to decode quote notes: %w", err)
	}
	if len(q.Notes) == 0 {
		q.Notes = nil
	}
	return q, nil
}

// SaveQuote inserts a quote produced by the engine. The quote keeps its own ID and timestamps.
func SaveQuote(db *sql.DB, q *models.Quote) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	items, notes, err := encodeQuote(q)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO quotes (`+quoteColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, q.ID.String(), q.Number, q.LeadID.String(), q.Kind, items, q.Subtotal, q.Discount, q.Total,
		q.Currency, q.ValidUntil, q.Status, notes, q.CreatedAt, q.UpdatedAt)

	return err
}

// GetQuote returns the quote, or nil when it does not exist.
func GetQuote(db *sql.DB, id uuid.UUID) (*models.Quote, error) {
	q, err := scanQuote(db.QueryRow(`SELECT `+quoteColumns+` FROM quotes WHERE id = ?`, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return q, err
}

// GetQuoteByNumber looks a quote up by its human-facing number, or returns nil.
func GetQuoteByNumber(db *sql.DB, number string) (*models.Quote, error) {
	q, err := scanQuote(db.QueryRow(`SELECT `+quoteColumns+` FROM quotes WHERE number = ?`, number))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return q, err
}

// UpdateQuote overwrites the stored quote with q, which is normally an edited copy.
func UpdateQuote(db *sql.DB, q *models.Quote) error {
	return updateQuote(db, q)
}

// UpdateQuoteStatus stores q after a lifecycle move and, when the new status also moves
// the lead (sent, accepted), updates the lead in the same transaction. It returns the
// lead's new status, or "" when the lead is unchanged.
func UpdateQuoteStatus(db *sql.DB, q *models.Quote) (models.Status, error) {
	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := updateQuote(tx, q); err != nil {
		return "", fmt.Errorf("failed to update quote: %w", err)
	}

	leadStatus, ok := models.LeadStatusForQuote(q.Status)
	if ok {
		if err := updateLeadField(tx, q.LeadID, "status", string(leadStatus)); err != nil {
			return "", fmt.Errorf("failed to update lead status: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return leadStatus, nil
}

func updateQuote(db execer, q *models.Quote) error {
	items, notes, err := encodeQuote(q)
	if err != nil {
		return err
	}

	res, err := db.Exec(`
		UPDATE quotes
		SET kind = ?, items = ?, subtotal = ?, discount = ?, total = ?, currency = ?,
		    valid_until = ?, status = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`, q.Kind, items, q.Subtotal, q.Discount, q.Total, q.Currency, q.ValidUntil, q.Status, notes,
		q.UpdatedAt, q.ID.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("quote not found: %s", q.ID)
	}
	return nil
}

// FindQuotesByLead lists a lead's quotes, newest first.
func FindQuotesByLead(db *sql.DB, leadID uuid.UUID) ([]models.Quote, error) {
	rows, err := db.Query(`
		SELECT `+quoteColumns+`
		FROM quotes
		WHERE lead_id = ?
		ORDER BY created_at DESC, kind
	`, leadID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	return out, rows.Err()
}
