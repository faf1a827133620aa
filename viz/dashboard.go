// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Summarises the lead pipeline, urgent next actions and leads ready to close
package viz

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/harperreed/leadcoach/db"
	"github.com/harperreed/leadcoach/engine"
	"github.com/harperreed/leadcoach/models"
	"github.com/shopspring/decimal"
)

// StaleAfterDays marks open leads with no contact for longer than this.
const StaleAfterDays = 3

type DashboardStats struct {
	Currency string

	ByStatus   map[models.Status]StatusStats
	TotalLeads int
	OpenValue  decimal.Decimal

	Urgent    []UrgentAction
	ReadyToAI []string
	Stale     []StaleLead
}

type StatusStats struct {
	Count int
	Value decimal.Decimal
}

type UrgentAction struct {
	Lead     string
	Title    string
	DueLabel string
}

type StaleLead struct {
	Name      string
	DaysSince int // -1 when never contacted
}

// GenerateDashboardStats loads every lead and runs the engine over the open ones.
func GenerateDashboardStats(ctx context.Context, database *sql.DB, eng *engine.Engine) (*DashboardStats, error) {
	leads, err := db.FindLeads(database, "", "", 10000)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leads: %w", err)
	}
	if err := db.AttachInteractions(database, leads); err != nil {
		return nil, err
	}
	return BuildDashboardStats(ctx, leads, eng)
}

// BuildDashboardStats computes the dashboard from already loaded leads.
func BuildDashboardStats(ctx context.Context, leads []models.Lead, eng *engine.Engine) (*DashboardStats, error) {
	stats := &DashboardStats{
		Currency:   eng.Catalog().Currency,
		ByStatus:   make(map[models.Status]StatusStats),
		TotalLeads: len(leads),
		OpenValue:  decimal.Zero,
	}
	now := eng.Now()

	var open []*models.Lead
	for i := range leads {
		lead := &leads[i]
		value, _ := lead.Budget()

		s := stats.ByStatus[lead.Status]
		s.Count++
		s.Value = s.Value.Add(value)
		stats.ByStatus[lead.Status] = s

		if lead.Status == models.StatusWon || lead.Status == models.StatusLost {
			continue
		}
		open = append(open, lead)
		stats.OpenValue = stats.OpenValue.Add(value)

		if eng.CanAIClose(lead).Eligible {
			stats.ReadyToAI = append(stats.ReadyToAI, lead.Name)
		}
		if lead.LastContactAt == nil {
			stats.Stale = append(stats.Stale, StaleLead{Name: lead.Name, DaysSince: -1})
		} else if days := int(now.Sub(*lead.LastContactAt).Hours() / 24); days > StaleAfterDays {
			stats.Stale = append(stats.Stale, StaleLead{Name: lead.Name, DaysSince: days})
		}
	}

	suggestions, err := eng.SuggestBatch(ctx, open, 0)
	if err != nil {
		return nil, err
	}
	for i, lead := range open {
		for _, s := range suggestions[i] {
			if s.Priority == models.PriorityUrgent {
				stats.Urgent = append(stats.Urgent, UrgentAction{Lead: lead.Name, Title: s.Title, DueLabel: s.DueLabel})
			}
		}
	}
	sort.SliceStable(stats.Stale, func(i, j int) bool {
		return stats.Stale[i].DaysSince > stats.Stale[j].DaysSince
	})

	return stats, nil
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder

	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  LEADCOACH DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString("PIPELINE\n")
	renderPipeline(&out, stats)
	out.WriteString("\n")

	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  %d leads  open value %s %s\n\n",
		stats.TotalLeads, stats.Currency, stats.OpenValue.StringFixed(0)))

	if len(stats.Urgent) > 0 {
		out.WriteString("DO NOW\n")
		for _, u := range stats.Urgent {
			due := ""
			if u.DueLabel != "" {
				due = " (" + u.DueLabel + ")"
			}
			out.WriteString(fmt.Sprintf("  🔥 %s: %s%s\n", u.Lead, u.Title, due))
		}
		out.WriteString("\n")
	}

	if len(stats.ReadyToAI) > 0 {
		out.WriteString("READY FOR AUTO-CLOSE\n")
		out.WriteString(fmt.Sprintf("  ✅ %s\n\n", strings.Join(stats.ReadyToAI, ", ")))
	}

	if len(stats.Stale) > 0 {
		never := 0
		for _, s := range stats.Stale {
			if s.DaysSince < 0 {
				never++
			}
		}
		out.WriteString("NEEDS ATTENTION\n")
		if never > 0 {
			out.WriteString(fmt.Sprintf("  ⚠️  %d leads - never contacted\n", never))
		}
		if n := len(stats.Stale) - never; n > 0 {
			out.WriteString(fmt.Sprintf("  ⚠️  %d leads - no contact in %d+ days\n", n, StaleAfterDays))
		}
	}

	return out.String()
}

func renderPipeline(out *strings.Builder, stats *DashboardStats) {
	maxCount := 0
	for _, s := range stats.ByStatus {
		if s.Count > maxCount {
			maxCount = s.Count
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	for _, st := range models.AllStatuses {
		s, ok := stats.ByStatus[st]
		if !ok {
			continue
		}
		barLength := (s.Count * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)

		out.WriteString(fmt.Sprintf("  %-14s %s  %2d (%s %s)\n",
			st, bar, s.Count, stats.Currency, s.Value.StringFixed(0)))
	}
}
