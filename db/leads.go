// ABOUTME: Lead database operations
// ABOUTME: Handles CRUD, status and score updates, and search by status or text
package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/leadcoach/models"
	"github.com/shopspring/decimal"
)

const leadColumns = `id, name, email, phone, company, job_title, source, status, lead_score,
	potential_value, detected_needs, psych_profile, next_meeting, notes, last_contact_at, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// leadJSON holds the encoded forms of the structured lead columns.
type leadJSON struct {
	needs   string
	profile sql.NullString
	meeting sql.NullString
}

func encodeLead(lead *models.Lead) (leadJSON, error) {
	var out leadJSON

	needs := lead.DetectedNeeds
	if needs == nil {
		needs = []string{}
	}
	b, err := json.Marshal(needs)
	if err != nil {
		return out, fmt.Errorf("failed to encode detected needs: %w", err)
	}
	out.needs = string(b)

	if lead.PsychProfile != nil {
		b, err := json.Marshal(lead.PsychProfile)
		if err != nil {
			return out, fmt.Errorf("failed to encode psych profile: %w", err)
		}
		out.profile = sql.NullString{String: string(b), Valid: true}
	}
	if lead.NextMeeting != nil {
		b, err := json.Marshal(lead.NextMeeting)
		if err != nil {
			return out, fmt.Errorf("failed to encode next meeting: %w", err)
		}
		out.meeting = sql.NullString{String: string(b), Valid: true}
	}
	return out, nil
}

func potentialValue(lead *models.Lead) decimal.NullDecimal {
	if lead.PotentialValue == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *lead.PotentialValue, Valid: true}
}

func scanLead(row scanner) (*models.Lead, error) {
	lead := &models.Lead{}
	var (
		email, phone, company, title, source, notes sql.NullString
		value                                       decimal.NullDecimal
		needs                                       string
		profile, meeting                            sql.NullString
	)

	err := row.Scan(
		&lead.ID,
		&lead.Name,
		&email,
		&phone,
		&company,
		&title,
		&source,
		&lead.Status,
		&lead.LeadScore,
		&value,
		&needs,
		&profile,
		&meeting,
		&notes,
		&lead.LastContactAt,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	lead.Email = email.String
	lead.Phone = phone.String
	lead.Company = company.String
	lead.JobTitle = title.String
	lead.Source = source.String
	lead.Notes = notes.String
	if value.Valid {
		v := value.Decimal
		lead.PotentialValue = &v
	}

	if err := json.Unmarshal([]byte(needs), &lead.DetectedNeeds); err != nil {
		return nil, fmt.Errorf("failed to decode detected needs: %w", err)
	}
	if profile.Valid {
		lead.PsychProfile = &models.PsychProfile{}
		if err := json.Unmarshal([]byte(profile.String), lead.PsychProfile); err != nil {
			return nil, fmt.Errorf("failed to decode psych profile: %w", err)
		}
	}
	if meeting.Valid {
		lead.NextMeeting = &models.Meeting{}
		if err := json.Unmarshal([]byte(meeting.String), lead.NextMeeting); err != nil {
			return nil, fmt.Errorf("failed to decode next meeting: %w", err)
		}
	}
	return lead, nil
}

func CreateLead(db *sql.DB, lead *models.Lead) error {
	lead.ID = uuid.New()
	now := time.Now()
	lead.CreatedAt = now
	lead.UpdatedAt = now
	if lead.Status == "" {
		lead.Status = models.StatusNew
	}

	enc, err := encodeLead(lead)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO leads (`+leadColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, lead.ID.String(), lead.Name, lead.Email, lead.Phone, lead.Company, lead.JobTitle, lead.Source,
		string(lead.Status), lead.LeadScore, potentialValue(lead), enc.needs, enc.profile, enc.meeting,
		lead.Notes, lead.LastContactAt, lead.CreatedAt, lead.UpdatedAt)

	return err
}

// GetLead returns the lead with its interaction history, or nil when it does not exist.
func GetLead(db *sql.DB, id uuid.UUID) (*models.Lead, error) {
	lead, err := scanLead(db.QueryRow(`SELECT `+leadColumns+` FROM leads WHERE id = ?`, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	lead.Interactions, err = ListInteractions(db, lead.ID)
	if err != nil {
		return nil, err
	}
	return lead, nil
}

// FindLeads searches by status and by name, company or email. Empty filters match everything.
// Interactions are not loaded; see AttachInteractions.
func FindLeads(db *sql.DB, status models.Status, query string, limit int) ([]models.Lead, error) {
	if limit <= 0 {
		limit = 10
	}

	var (
		where []string
		args  []any
	)
	if status != "" {
		where = append(where, "status = ?")
		args = append(args, string(status))
	}
	if query != "" {
		pattern := "%" + strings.ToLower(query) + "%"
		where = append(where, "(LOWER(name) LIKE ? OR LOWER(company) LIKE ? OR LOWER(email) LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}

	return queryLeads(db, where, args, limit)
}

// FindOpenLeads returns the newest leads that are neither won nor lost, with their
// interaction history. The limit counts open leads only.
func FindOpenLeads(db *sql.DB, limit int) ([]models.Lead, error) {
	if limit <= 0 {
		limit = 10
	}
	leads, err := queryLeads(db, []string{"status NOT IN (?, ?)"},
		[]any{string(models.StatusWon), string(models.StatusLost)}, limit)
	if err != nil {
		return nil, err
	}
	if err := AttachInteractions(db, leads); err != nil {
		return nil, err
	}
	return leads, nil
}

func queryLeads(db *sql.DB, where []string, args []any, limit int) ([]models.Lead, error) {
	q := `SELECT ` + leadColumns + ` FROM leads`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []models.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *lead)
	}
	return leads, rows.Err()
}

// AttachInteractions loads the interaction history of every lead in place.
func AttachInteractions(db *sql.DB, leads []models.Lead) error {
	for i := range leads {
		history, err := ListInteractions(db, leads[i].ID)
		if err != nil {
			return fmt.Errorf("failed to load interactions for %s: %w", leads[i].ID, err)
		}
		leads[i].Interactions = history
	}
	return nil
}

// UpdateLead writes every editable field of lead.
func UpdateLead(db *sql.DB, lead *models.Lead) error {
	lead.UpdatedAt = time.Now()

	enc, err := encodeLead(lead)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		UPDATE leads
		SET name = ?, email = ?, phone = ?, company = ?, job_title = ?, source = ?, status = ?,
		    lead_score = ?, potential_value = ?, detected_needs = ?, psych_profile = ?, next_meeting = ?,
		    notes = ?, last_contact_at = ?, updated_at = ?
		WHERE id = ?
	`, lead.Name, lead.Email, lead.Phone, lead.Company, lead.JobTitle, lead.Source, string(lead.Status),
		lead.LeadScore, potentialValue(lead), enc.needs, enc.profile, enc.meeting,
		lead.Notes, lead.LastContactAt, lead.UpdatedAt, lead.ID.String())

	return err
}

func UpdateLeadStatus(db *sql.DB, id uuid.UUID, status models.Status) error {
	if !models.ValidStatus(string(status)) {
		return fmt.Errorf("invalid status: %s", status)
	}
	return updateLeadField(db, id, "status", string(status))
}

func UpdateLeadScore(db *sql.DB, id uuid.UUID, score int) error {
	return updateLeadField(db, id, "lead_score", score)
}

func updateLeadField(db execer, id uuid.UUID, column string, value any) error {
	res, err := db.Exec(`UPDATE leads SET `+column+` = ?, updated_at = ? WHERE id = ?`, value, time.Now(), id.String())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("lead not found: %s", id)
	}
	return nil
}

// DeleteLead removes the lead together with its interactions and quotes.
func DeleteLead(db *sql.DB, id uuid.UUID) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Safe even after commit
	}()

	if _, err := tx.Exec(`DELETE FROM interactions WHERE lead_id = ?`, id.String()); err != nil {
		return fmt.Errorf("failed to delete interactions: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM quotes WHERE lead_id = ?`, id.String()); err != nil {
		return fmt.Errorf("failed to delete quotes: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM leads WHERE id = ?`, id.String()); err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}

	return tx.Commit()
}

// CountLeadsByStatus returns the number of leads in each status.
func CountLeadsByStatus(db *sql.DB) (map[models.Status]int, error) {
	rows, err := db.Query(`SELECT status, COUNT(*) FROM leads GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.Status]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[models.Status(status)] = n
	}
	return counts, rows.Err()
}
