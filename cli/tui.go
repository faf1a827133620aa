// ABOUTME: Interactive TUI subcommand
// ABOUTME: Launches the bubbletea pipeline browser when attached to a terminal
package cli

import (
	"database/sql"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/harperreed/leadcoach/engine"
	"github.com/harperreed/leadcoach/tui"
)

// TUICommand runs the full-screen interface.
func TUICommand(database *sql.DB, eng *engine.Engine) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("tui needs an interactive terminal")
	}
	p := tea.NewProgram(tui.NewModel(database, eng), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
