package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/harperreed/leadcoach/viz"
)

var dotStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

// graphWindow is how many DOT lines fit under the title and help.
func (m Model) graphWindow() int {
	return max(m.height-8, 5)
}

func (m Model) renderGraphView() string {
	var s strings.Builder

	title := "LEAD GRAPH"
	if lead, err := m.selectedLead(); err == nil {
		title += ": " + lead.Name
	}
	s.WriteString(titleStyle.Render(title))
	s.WriteString("\n\n")

	lines := strings.Split(m.graphDOT, "\n")
	end := min(m.graphOffset+m.graphWindow(), len(lines))
	s.WriteString(dotStyle.Render(strings.Join(lines[m.graphOffset:end], "\n")))
	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(fmt.Sprintf("lines %d-%d of %d  ↑/↓: Scroll • Esc: Back • q: Quit",
		m.graphOffset+1, end, len(lines))))

	return s.String()
}

func (m Model) handleGraphKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	last := max(strings.Count(m.graphDOT, "\n")+1-m.graphWindow(), 0)

	switch msg.String() {
	case "up", "k":
		if m.graphOffset > 0 {
			m.graphOffset--
		}
	case "down", "j":
		if m.graphOffset < last {
			m.graphOffset++
		}
	case "esc":
		m.viewMode = ViewDetail
		m.graphDOT = ""
		m.graphOffset = 0
	}

	return m, nil
}

func (m *Model) generateGraph() error {
	id, err := uuid.Parse(m.selectedID)
	if err != nil {
		return err
	}
	dot, err := viz.NewGraphGenerator(m.db).GenerateLeadGraph(context.Background(), id)
	if err != nil {
		return err
	}
	m.graphDOT = strings.TrimRight(dot, "\n")
	m.graphOffset = 0
	return nil
}
