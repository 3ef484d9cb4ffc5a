package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nbhansali/drivefeed/internal/parser"
)

// Run opens the viewer over a parsed result and blocks until the user
// quits.
func Run(title string, result parser.Result) error {
	p := tea.NewProgram(
		NewModel(title, result),
		tea.WithAltScreen(),
	)

	_, err := p.Run()

	return err
}
