// ABOUTME: Database schema definitions for leads, interactions and quotes
// ABOUTME: Structured lead fields are stored as JSON text columns
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS leads (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT,
	phone TEXT,
	company TEXT,
	job_title TEXT,
	source TEXT,
	status TEXT NOT NULL DEFAULT 'new' CHECK(status IN ('new', 'contacted', 'scheduled', 'show', 'no_show', 'proposal_sent', 'negotiation', 'won', 'lost')),
	lead_score INTEGER NOT NULL DEFAULT 0,
	potential_value TEXT,
	detected_needs TEXT NOT NULL DEFAULT '[]',
	psych_profile TEXT,
	next_meeting TEXT,
	notes TEXT,
	last_contact_at DATETIME,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
CREATE INDEX IF NOT EXISTS idx_leads_name ON leads(name);

CREATE TABLE IF NOT EXISTS interactions (
	id TEXT PRIMARY KEY,
	lead_id TEXT NOT NULL,
	channel TEXT NOT NULL CHECK(channel IN ('whatsapp', 'email', 'call', 'meeting')),
	direction TEXT NOT NULL CHECK(direction IN ('inbound', 'outbound')),
	timestamp DATETIME NOT NULL,
	notes TEXT,
	FOREIGN KEY (lead_id) REFERENCES leads(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_interactions_lead ON interactions(lead_id);
CREATE INDEX IF NOT EXISTS idx_interactions_timestamp ON interactions(timestamp DESC);

CREATE TABLE IF NOT EXISTS quotes (
	id TEXT PRIMARY KEY,
	number TEXT NOT NULL UNIQUE,
	lead_id TEXT NOT NULL,
	kind TEXT NOT NULL CHECK(kind IN ('standard', 'economic', 'premium')),
	items TEXT NOT NULL DEFAULT '[]',
	subtotal TEXT NOT NULL,
	discount TEXT NOT NULL,
	total TEXT NOT NULL,
	currency TEXT NOT NULL,
	valid_until DATETIME NOT NULL,
	status TEXT NOT NULL DEFAULT 'draft' CHECK(status IN ('draft', 'sent', 'viewed', 'accepted', 'rejected')),
	notes TEXT NOT NULL DEFAULT '[]',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY (lead_id) REFERENCES leads(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_quotes_lead ON quotes(lead_id);
CREATE INDEX IF NOT EXISTS idx_quotes_status ON quotes(status);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
