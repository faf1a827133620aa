// ABOUTME: TUI view for follow-up tracking
// ABOUTME: Lists open leads whose top suggestion is urgent or high priority
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/harperreed/leadcoach/db"
	"github.com/harperreed/leadcoach/models"
)

type followup struct {
	lead models.Lead
	top  models.Suggestion
}

// followups evaluates every open lead and keeps those with pressing work.
func (m Model) followups() ([]followup, error) {
	leads, err := db.FindOpenLeads(m.db, listLimit)
	if err != nil {
		return nil, err
	}

	var out []followup
	for i := range leads {
		lead := &leads[i]
		suggestions := m.engine.Suggest(lead)
		if len(suggestions) == 0 || suggestions[0].Priority.Rank() > models.PriorityHigh.Rank() {
			continue
		}
		out = append(out, followup{lead: *lead, top: suggestions[0]})
	}
	return out, nil
}

func (m Model) renderFollowupsTable() string {
	followups, err := m.followups()
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	columns := []table.Column{
		{Title: "", Width: 2},
		{Title: "Name", Width: 22},
		{Title: "Status", Width: 14},
		{Title: "Next action", Width: 30},
		{Title: "Due", Width: 10},
	}

	var rows []table.Row
	for _, f := range followups {
		indicator := "🟡"
		if f.top.Priority == models.PriorityUrgent {
			indicator = "🔴"
		}
		rows = append(rows, table.Row{
			indicator,
			f.lead.Name,
			string(f.lead.Status),
			f.top.Title,
			f.top.DueLabel,
		})
	}

	return m.newTable(columns, rows).View()
}
