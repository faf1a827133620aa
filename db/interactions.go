// ABOUTME: Interaction log database operations
// ABOUTME: Records inbound and outbound touches and keeps the lead's last contact current
package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/leadcoach/models"
)

// LogInteraction stores the interaction and moves the lead's last_contact_at forward.
func LogInteraction(db *sql.DB, in *models.Interaction) error {
	if in.Direction != models.DirectionInbound && in.Direction != models.DirectionOutbound {
		return fmt.Errorf("invalid direction: %s", in.Direction)
	}
	in.ID = uuid.New()
	if in.Timestamp.IsZero() {
		in.Timestamp = time.Now()
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.Exec(`
		INSERT INTO interactions (id, lead_id, channel, direction, timestamp, notes)
		VALUES (?, ?, ?, ?, ?, ?)
	`, in.ID.String(), in.LeadID.String(), in.Channel, in.Direction, in.Timestamp, in.Notes)
	if err != nil {
		return fmt.Errorf("failed to insert interaction: %w", err)
	}

	res, err := tx.Exec(`
		UPDATE leads
		SET last_contact_at = ?, updated_at = ?
		WHERE id = ? AND (last_contact_at IS NULL OR last_contact_at < ?)
	`, in.Timestamp, time.Now(), in.LeadID.String(), in.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to update last contact: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM leads WHERE id = ?`, in.LeadID.String()).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return fmt.Errorf("lead not found: %s", in.LeadID)
		}
	}

	return tx.Commit()
}

// ListInteractions returns a lead's interactions, newest first.
func ListInteractions(db *sql.DB, leadID uuid.UUID) ([]models.Interaction, error) {
	rows, err := db.Query(`
		SELECT id, lead_id, channel, direction, timestamp, notes
		FROM interactions
		WHERE lead_id = ?
		ORDER BY timestamp DESC
	`, leadID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Interaction
	for rows.Next() {
		var in models.Interaction
		var notes sql.NullString
		if err := rows.Scan(&in.ID, &in.LeadID, &in.Channel, &in.Direction, &in.Timestamp, &notes); err != nil {
			return nil, err
		}
		in.Notes = notes.String
		out = append(out, in)
	}
	return out, rows.Err()
}
