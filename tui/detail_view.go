package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/harperreed/leadcoach/db"
	"github.com/harperreed/leadcoach/models"
)

var (
	fieldLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Width(16)

	fieldValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	sectionStyle = lipgloss.NewStyle().Bold(true)

	priorityStyles = map[models.Priority]lipgloss.Style{
		models.PriorityUrgent: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		models.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		models.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		models.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
)

func (m Model) selectedLead() (*models.Lead, error) {
	id, err := uuid.Parse(m.selectedID)
	if err != nil {
		return nil, fmt.Errorf("invalid ID: %w", err)
	}
	lead, err := db.GetLead(m.db, id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, fmt.Errorf("lead not found")
	}
	return lead, nil
}

func (m Model) renderDetailView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("LEAD"))
	s.WriteString("\n\n")

	lead, err := m.selectedLead()
	if err != nil {
		s.WriteString(fmt.Sprintf("Error: %v\n", err))
	} else {
		s.WriteString(m.renderLeadDetail(lead))
	}

	if m.message != "" {
		s.WriteString("\n")
		s.WriteString(m.message)
	}
	if m.err != nil {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	}

	s.WriteString("\n")
	s.WriteString(m.renderDetailHelp())

	return s.String()
}

func (m Model) renderLeadDetail(lead *models.Lead) string {
	var s strings.Builder

	s.WriteString(m.renderField("Name", lead.Name))
	s.WriteString(m.renderField("Company", lead.Company))
	s.WriteString(m.renderField("Email", lead.Email))
	s.WriteString(m.renderField("Phone", lead.Phone))
	s.WriteString(m.renderField("Status", string(lead.Status)))
	s.WriteString(m.renderField("Score", fmt.Sprintf("%d", lead.LeadScore)))
	if v, ok := lead.Budget(); ok {
		s.WriteString(m.renderField("Budget", m.engine.Catalog().Currency+" "+v.StringFixed(0)))
	}
	s.WriteString(m.renderField("Needs", strings.Join(lead.DetectedNeeds, ", ")))
	if lead.PsychProfile != nil {
		s.WriteString(m.renderField("Psych type", string(lead.PsychType())))
	}
	if lead.NextMeeting != nil {
		s.WriteString(m.renderField("Meeting", lead.NextMeeting.ScheduledAt.Local().Format("2006-01-02 15:04")))
	}
	if lead.LastContactAt != nil {
		s.WriteString(m.renderField("Last contact", lead.LastContactAt.Local().Format("2006-01-02 15:04")))
	}

	s.WriteString("\n")
	s.WriteString(sectionStyle.Render("NEXT ACTIONS"))
	s.WriteString("\n")
	suggestions := m.engine.Suggest(lead)
	if len(suggestions) == 0 {
		s.WriteString("  nothing to do right now\n")
	}
	for _, sg := range suggestions {
		label := priorityStyles[sg.Priority].Render(fmt.Sprintf("[%s]", sg.Priority))
		s.WriteString(fmt.Sprintf("  %s %s", label, sg.Title))
		if sg.DueLabel != "" {
			s.WriteString(fmt.Sprintf(" (%s)", sg.DueLabel))
		}
		s.WriteString("\n")
	}

	guidance := m.engine.Guidance(lead)
	verdict := m.engine.CanAIClose(lead)
	s.WriteString("\n")
	s.WriteString(sectionStyle.Render("CLOSER: " + strings.ToUpper(guidance.Phase)))
	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("  Close line: %s\n", guidance.CloseAttempt))
	auto := "no"
	if verdict.Eligible {
		auto = "yes"
	}
	s.WriteString(fmt.Sprintf("  Auto-close: %s (%s)\n", auto, verdict.Reason))

	quotes, _ := db.FindQuotesByLead(m.db, lead.ID)
	if len(quotes) > 0 {
		s.WriteString("\n")
		s.WriteString(sectionStyle.Render("QUOTES"))
		s.WriteString("\n")
		for _, q := range quotes {
			s.WriteString(fmt.Sprintf("  • %s %s %s %s (%s)\n", q.Number, q.Kind, q.Currency, q.Total.StringFixed(2), q.Status))
		}
	}

	return s.String()
}

func (m Model) renderField(label, value string) string {
	if value == "" {
		value = "-"
	}
	return fmt.Sprintf("%s %s\n",
		fieldLabelStyle.Render(label+":"),
		fieldValueStyle.Render(value))
}

func (m Model) renderDetailHelp() string {
	help := []string{
		"Esc: Back",
		"s: Score",
		"l: Log touch",
		"d: Delete",
		"g: View graph",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
		m.message = ""
	case "s":
		m.scoreSelected()
	case "l":
		m.initFormInputs(FormInteraction)
		m.viewMode = ViewEdit
	case "d":
		m.viewMode = ViewConfirmDelete
	case "g":
		if err := m.generateGraph(); err != nil {
			m.err = err
			return m, nil
		}
		m.viewMode = ViewGraph
	}

	return m, nil
}

func (m *Model) scoreSelected() {
	lead, err := m.selectedLead()
	if err != nil {
		m.err = err
		return
	}
	score := m.engine.Score(lead)
	if err := db.UpdateLeadScore(m.db, lead.ID, score); err != nil {
		m.err = err
		return
	}
	m.message = fmt.Sprintf("Score updated: %d → %d", lead.LeadScore, score)
}
