package styles

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	Base     = lipgloss.Color("#1e1e2e")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Surface0 = lipgloss.Color("#313244")

	Pink   = lipgloss.Color("#f5c2e7")
	Red    = lipgloss.Color("#f38ba8")
	Yellow = lipgloss.Color("#f9e2af")
	Green  = lipgloss.Color("#a6e3a1")
	Teal   = lipgloss.Color("#94e2d5")
	Blue   = lipgloss.Color("#89b4fa")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(Base).
			Background(Blue).
			Bold(true).
			Padding(0, 1)

	HeaderCellStyle = lipgloss.NewStyle().
			Foreground(Teal).
			Bold(true).
			Padding(0, 1)

	RowStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(Text)

	SelectedRowStyle = lipgloss.NewStyle().
				BorderLeft(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(Pink).
				Padding(0, 1).
				Foreground(Text)

	MultiValueStyle = lipgloss.NewStyle().Foreground(Yellow)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Base).
			Background(Red).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Red).
			Padding(0, 1).
			Align(lipgloss.Center)

	FooterStyle = lipgloss.NewStyle().
			Foreground(Subtext0).
			Padding(0, 1).
			Align(lipgloss.Center)
)
