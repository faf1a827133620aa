package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/leadcoach/db"
	"github.com/harperreed/leadcoach/models"
)

const listLimit = 200

func (m Model) renderListView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("LEADCOACH"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	s.WriteString(m.renderTable())
	s.WriteString("\n")

	if m.message != "" {
		s.WriteString(m.message)
		s.WriteString("\n")
	}
	if m.err != nil {
		s.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		s.WriteString("\n")
	}

	s.WriteString(m.renderListHelp())

	return s.String()
}

func (m Model) renderTabs() string {
	tabs := []string{"Pipeline", "Follow-ups", "Closed"}
	var rendered []string

	for i, tab := range tabs {
		if Tab(i) == m.tab {
			rendered = append(rendered, tabActiveStyle.Render(tab))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderTable() string {
	if m.tab == TabFollowups {
		return m.renderFollowupsTable()
	}

	leads, err := m.listLeads()
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	columns := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Company", Width: 20},
		{Title: "Status", Width: 14},
		{Title: "Score", Width: 6},
		{Title: "Budget", Width: 12},
	}

	var rows []table.Row
	for _, lead := range leads {
		budget := "-"
		if v, ok := lead.Budget(); ok {
			budget = v.StringFixed(0)
		}
		rows = append(rows, table.Row{
			lead.Name,
			lead.Company,
			string(lead.Status),
			fmt.Sprintf("%d", lead.LeadScore),
			budget,
		})
	}

	return m.newTable(columns, rows).View()
}

func (m Model) newTable(columns []table.Column, rows []table.Row) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
	)
	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}
	return t
}

// listLeads returns the leads shown on the pipeline or closed tab.
func (m Model) listLeads() ([]models.Lead, error) {
	all, err := db.FindLeads(m.db, "", "", listLimit)
	if err != nil {
		return nil, err
	}
	closed := m.tab == TabClosed
	out := all[:0]
	for _, lead := range all {
		isClosed := lead.Status == models.StatusWon || lead.Status == models.StatusLost
		if isClosed == closed {
			out = append(out, lead)
		}
	}
	return out, nil
}

func (m Model) rowCount() int {
	if m.tab == TabFollowups {
		f, _ := m.followups()
		return len(f)
	}
	leads, _ := m.listLeads()
	return len(leads)
}

func (m Model) renderListHelp() string {
	help := []string{
		"↑/↓: Navigate",
		"Tab: Switch tabs",
		"Enter: View lead",
		"n: New lead",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < m.rowCount()-1 {
			m.selectedRow++
		}
	case "tab":
		m.tab = (m.tab + 1) % tabCount
		m.selectedRow = 0
	case "enter":
		if id := m.getSelectedID(); id != "" {
			m.selectedID = id
			m.viewMode = ViewDetail
			m.message = ""
		}
	case "n":
		m.selectedID = ""
		m.initFormInputs(FormNewLead)
		m.viewMode = ViewEdit
	}

	return m, nil
}

func (m Model) getSelectedID() string {
	if m.tab == TabFollowups {
		followups, _ := m.followups()
		if m.selectedRow < len(followups) {
			return followups[m.selectedRow].lead.ID.String()
		}
		return ""
	}
	leads, _ := m.listLeads()
	if m.selectedRow < len(leads) {
		return leads[m.selectedRow].ID.String()
	}
	return ""
}
