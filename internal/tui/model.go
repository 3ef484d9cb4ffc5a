package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nbhansali/drivefeed/internal/parser"
	"github.com/nbhansali/drivefeed/internal/tui/styles"
)

// Model renders one parsed result as a scrollable list of rows or records.
type Model struct {
	title  string
	result parser.Result

	keys     keyMap
	help     help.Model
	cursor   int
	width    int
	height   int
	showHelp bool
}

// NewModel creates a viewer over a parsed result.
func NewModel(title string, result parser.Result) Model {
	return Model{
		title:  title,
		result: result,
		keys:   newKeyMap(),
		help:   help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < m.result.Len()-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.PageUp):
			m.cursor = max(0, m.cursor-m.pageSize())
		case key.Matches(msg, m.keys.PageDown):
			m.cursor = min(m.result.Len()-1, m.cursor+m.pageSize())
		case key.Matches(msg, m.keys.Top):
			m.cursor = 0
		case key.Matches(msg, m.keys.Bottom):
			m.cursor = m.result.Len() - 1
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			m.help.ShowAll = m.showHelp
		}
	}

	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	title := fmt.Sprintf("%s — %d %s", m.title, m.result.Len(), m.result.Shape())
	b.WriteString(styles.TitleStyle.Render(title))
	b.WriteString("\n\n")

	if m.result.Len() == 0 {
		b.WriteString(styles.RowStyle.Render("no structured data"))
		b.WriteString("\n")
	} else {
		start, end := m.window()
		for i := start; i < end; i++ {
			line := m.renderElement(i)
			if i == m.cursor {
				b.WriteString(styles.SelectedRowStyle.Render(line))
			} else {
				b.WriteString(styles.RowStyle.Render(line))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.FooterStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// window returns the visible slice of elements around the cursor.
func (m Model) window() (int, int) {
	size := m.pageSize()
	start := m.cursor - size/2
	if start < 0 {
		start = 0
	}

	end := start + size
	if end > m.result.Len() {
		end = m.result.Len()
		start = max(0, end-size)
	}

	return start, end
}

func (m Model) pageSize() int {
	// Title, blank lines and footer take a handful of rows.
	if m.height > 6 {
		return m.height - 6
	}

	return 10
}

func (m Model) renderElement(i int) string {
	switch m.result.Shape() {
	case parser.ShapeRows:
		return renderRow(m.result.Rows()[i])
	case parser.ShapeRecords:
		return renderRecord(m.result.Records()[i])
	default:
		return ""
	}
}

func renderRow(row parser.Row) string {
	cells := make([]string, len(row))
	for i, c := range row {
		cells[i] = renderCell(c)
	}

	return strings.Join(cells, " │ ")
}

func renderRecord(record parser.Record) string {
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = styles.HeaderCellStyle.Render(k) + "=" + renderCell(record[k])
	}

	return strings.Join(pairs, " ")
}

func renderCell(c parser.Cell) string {
	if c.Multi {
		return styles.MultiValueStyle.Render("[" + strings.Join(c.Parts, ", ") + "]")
	}

	return c.Value
}

// RenderError renders err in the shared error style, for callers that want
// failures shown consistently with the viewer.
func RenderError(err error) string {
	return styles.ErrorStyle.Render(err.Error())
}
