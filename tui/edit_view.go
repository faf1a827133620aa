package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harperreed/leadcoach/db"
	"github.com/harperreed/leadcoach/models"
)

func (m Model) renderEditView() string {
	var s strings.Builder

	if m.formKind == FormInteraction {
		s.WriteString(titleStyle.Render("LOG TOUCH"))
	} else {
		s.WriteString(titleStyle.Render("NEW LEAD"))
	}
	s.WriteString("\n\n")

	for i, input := range m.formInputs {
		if i == m.focusIndex {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		s.WriteString(input.View())
		s.WriteString("\n")
	}

	if m.err != nil {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		s.WriteString("\n")
	}

	s.WriteString(m.renderEditHelp())

	return s.String()
}

func (m Model) renderEditHelp() string {
	help := []string{
		"Tab: Next field",
		"Enter: Save",
		"Esc: Cancel",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.err = nil
		m.viewMode = m.formReturnView()
		return m, nil
	case "tab", "shift+tab":
		step := 1
		if msg.String() == "shift+tab" {
			step = len(m.formInputs) - 1
		}
		m.focusIndex = (m.focusIndex + step) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "enter":
		if err := m.saveForm(); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.viewMode = m.formReturnView()
		return m, nil
	}

	var cmd tea.Cmd
	m.formInputs[m.focusIndex], cmd = m.formInputs[m.focusIndex].Update(msg)
	return m, cmd
}

func (m Model) formReturnView() ViewMode {
	if m.formKind == FormInteraction {
		return ViewDetail
	}
	return ViewList
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	return in
}

func (m *Model) initFormInputs(kind FormKind) {
	m.formKind = kind
	switch kind {
	case FormNewLead:
		m.formInputs = []textinput.Model{
			newInput("Name", 100),
			newInput("Company", 100),
			newInput("Email", 100),
			newInput("Phone", 20),
			newInput("Needs (comma separated)", 200),
			newInput("Budget", 15),
			newInput("Source", 30),
		}
	case FormInteraction:
		channel := newInput("Channel (whatsapp, email, call, meeting)", 10)
		channel.SetValue(models.ChannelWhatsApp)
		direction := newInput("Direction (inbound, outbound)", 10)
		direction.SetValue(models.DirectionOutbound)
		m.formInputs = []textinput.Model{channel, direction, newInput("Notes", 500)}
	}

	m.focusIndex = 0
	m.updateFormFocus()
}

func (m *Model) updateFormFocus() {
	for i := range m.formInputs {
		if i == m.focusIndex {
			m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
}

func (m *Model) formValue(i int) string {
	return strings.TrimSpace(m.formInputs[i].Value())
}

func (m *Model) saveForm() error {
	if m.formKind == FormInteraction {
		return m.saveInteraction()
	}
	return m.saveLead()
}

func (m *Model) saveLead() error {
	name := m.formValue(0)
	if name == "" {
		return fmt.Errorf("name is required")
	}

	lead := &models.Lead{
		Name:    name,
		Company: m.formValue(1),
		Email:   m.formValue(2),
		Phone:   m.formValue(3),
		Source:  strings.ToLower(m.formValue(6)),
	}
	for _, need := range strings.Split(m.formValue(4), ",") {
		if need = strings.TrimSpace(need); need != "" {
			lead.DetectedNeeds = append(lead.DetectedNeeds, need)
		}
	}
	if raw := m.formValue(5); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("invalid budget: %s", raw)
		}
		lead.PotentialValue = &v
	}
	lead.LeadScore = m.engine.Score(lead)

	if err := db.CreateLead(m.db, lead); err != nil {
		return err
	}
	m.message = fmt.Sprintf("Created %s (score %d)", lead.Name, lead.LeadScore)
	return nil
}

func (m *Model) saveInteraction() error {
	id, err := uuid.Parse(m.selectedID)
	if err != nil {
		return fmt.Errorf("invalid ID: %w", err)
	}
	channel := strings.ToLower(m.formValue(0))
	switch channel {
	case models.ChannelWhatsApp, models.ChannelEmail, models.ChannelCall, models.ChannelMeeting:
	default:
		return fmt.Errorf("invalid channel: %s", channel)
	}

	in := &models.Interaction{
		LeadID:    id,
		Channel:   channel,
		Direction: strings.ToLower(m.formValue(1)),
		Notes:     m.formValue(2),
		Timestamp: time.Now(),
	}
	if err := db.LogInteraction(m.db, in); err != nil {
		return err
	}
	m.message = fmt.Sprintf("Logged %s %s", in.Direction, in.Channel)
	return nil
}
