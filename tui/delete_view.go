// ABOUTME: Delete confirmation view for TUI
// ABOUTME: Removes a lead with its interactions and quotes after confirmation
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/leadcoach/db"
)

var (
	confirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(1, 2).
			Width(60).
			Align(lipgloss.Center)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	confirmButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("9")).
				Padding(0, 2).
				MarginRight(2)

	cancelButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("8")).
				Padding(0, 2)
)

func (m Model) renderConfirmDeleteView() string {
	lead, err := m.selectedLead()
	if err != nil {
		return fmt.Sprintf("Error loading lead: %v", err)
	}

	buttons := lipgloss.JoinHorizontal(
		lipgloss.Left,
		confirmButtonStyle.Render("Yes, Delete (y)"),
		cancelButtonStyle.Render("Cancel (n/esc)"),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		warningStyle.Render("⚠  DELETE LEAD  ⚠"),
		"",
		fmt.Sprintf("Delete %s and all of their history?", lead.Name),
		fmt.Sprintf("\n%d interactions will be removed along with every quote.", len(lead.Interactions)),
		"\nThis action cannot be undone!",
		"",
		buttons,
	)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, confirmBoxStyle.Render(content))
}

func (m Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		lead, err := m.selectedLead()
		if err == nil {
			err = db.DeleteLead(m.db, lead.ID)
		}
		m.viewMode = ViewList
		if err != nil {
			m.err = err
			m.message = ""
			return m, nil
		}
		m.message = "Deleted " + lead.Name
		m.selectedID = ""
		m.selectedRow = 0
	case "n", "N", "esc":
		m.viewMode = ViewDetail
	}

	return m, nil
}
