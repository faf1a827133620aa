// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Interactive lead pipeline with coaching, quick capture and graphs
package tui

import (
	"database/sql"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/leadcoach/engine"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewEdit
	ViewGraph
	ViewConfirmDelete
)

// Tab selects which slice of the pipeline the list shows
type Tab int

const (
	TabOpen Tab = iota
	TabFollowups
	TabClosed
	tabCount
)

// FormKind says what the edit view is capturing
type FormKind int

const (
	FormNewLead FormKind = iota
	FormInteraction
)

// Model is the main bubbletea model
type Model struct {
	db     *sql.DB
	engine *engine.Engine

	viewMode ViewMode
	tab      Tab

	// List view state
	selectedRow int

	// Detail view state
	selectedID string

	// Edit view state
	formKind   FormKind
	formInputs []textinput.Model
	focusIndex int

	// Graph view state
	graphDOT    string
	graphOffset int

	// Status line shown under the list
	message string

	// UI state
	width  int
	height int
	err    error
}

// NewModel creates a new TUI model
func NewModel(db *sql.DB, eng *engine.Engine) Model {
	return Model{
		db:       db,
		engine:   eng,
		viewMode: ViewList,
		tab:      TabOpen,
		width:    80,
		height:   24,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewList:
		return m.renderListView()
	case ViewDetail:
		return m.renderDetailView()
	case ViewEdit:
		return m.renderEditView()
	case ViewGraph:
		return m.renderGraphView()
	case ViewConfirmDelete:
		return m.renderConfirmDeleteView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	// Forms need q as a letter
	if msg.String() == "q" && m.viewMode != ViewEdit {
		return m, tea.Quit
	}

	switch m.viewMode {
	case ViewList:
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewEdit:
		return m.handleEditKeys(msg)
	case ViewGraph:
		return m.handleGraphKeys(msg)
	case ViewConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	}

	return m, nil
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)
