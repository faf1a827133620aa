// ABOUTME: Shared plumbing for the CLI commands
// ABOUTME: Builds the engine from config, resolves short lead IDs and styles terminal output
package cli

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/harperreed/leadcoach/catalog"
	"github.com/harperreed/leadcoach/config"
	"github.com/harperreed/leadcoach/db"
	"github.com/harperreed/leadcoach/engine"
	"github.com/harperreed/leadcoach/models"
)

// stdout is where commands print. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

// color is on only when printing to a terminal.
var color = term.IsTerminal(int(os.Stdout.Fd()))

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	priorityStyles = map[models.Priority]lipgloss.Style{
		models.PriorityUrgent: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		models.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
)

func paint(style lipgloss.Style, s string) string {
	if !color {
		return s
	}
	return style.Render(s)
}

func printf(format string, a ...any) {
	_, _ = fmt.Fprintf(stdout, format, a...)
}

// BuildEngine wires an engine from the runtime configuration.
func BuildEngine(cfg *config.Config) (*engine.Engine, error) {
	ec := engine.DefaultConfig()
	if cfg.CatalogPath != "" {
		c, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		ec.Catalog = c
	}
	if cfg.Currency != "" {
		c := *ec.Catalog
		c.Currency = strings.ToUpper(cfg.Currency)
		ec.Catalog = &c
	}
	ec.BudgetTolerance = cfg.Tolerance()
	ec.QuoteValidity = time.Duration(cfg.QuoteValidityDays) * 24 * time.Hour
	return engine.New(ec)
}

// resolveLead accepts a full UUID or the short prefix printed by list commands.
func resolveLead(database *sql.DB, ref string) (*models.Lead, error) {
	if ref == "" {
		return nil, fmt.Errorf("lead ID is required")
	}
	if id, err := uuid.Parse(ref); err == nil {
		lead, err := db.GetLead(database, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get lead: %w", err)
		}
		if lead == nil {
			return nil, fmt.Errorf("lead not found: %s", ref)
		}
		return lead, nil
	}

	leads, err := db.FindLeads(database, "", "", 100000)
	if err != nil {
		return nil, fmt.Errorf("failed to find leads: %w", err)
	}
	var match *models.Lead
	for i := range leads {
		if strings.HasPrefix(leads[i].ID.String(), strings.ToLower(ref)) {
			if match != nil {
				return nil, fmt.Errorf("ambiguous lead ID: %s", ref)
			}
			match = &leads[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("lead not found: %s", ref)
	}
	return db.GetLead(database, match.ID)
}

// resolveQuote accepts a quote UUID or its Q- number.
func resolveQuote(database *sql.DB, ref string) (*models.Quote, error) {
	if ref == "" {
		return nil, fmt.Errorf("quote ID is required")
	}
	if id, err := uuid.Parse(ref); err == nil {
		q, err := db.GetQuote(database, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get quote: %w", err)
		}
		if q == nil {
			return nil, fmt.Errorf("quote not found: %s", ref)
		}
		return q, nil
	}
	q, err := db.GetQuoteByNumber(database, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	if q == nil {
		return nil, fmt.Errorf("quote not found: %s", ref)
	}
	return q, nil
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
