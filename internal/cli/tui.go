package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/sankeyflow/pkg/examples"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// exampleRow is one example with its graph size, computed up front so the
// table does not parse data while rendering.
type exampleRow struct {
	Example examples.Example
	Nodes   int
	Links   int
}

func loadExampleRows() ([]exampleRow, error) {
	all := examples.All()
	rows := make([]exampleRow, len(all))
	for i, ex := range all {
		g, err := ex.Graph()
		if err != nil {
			return nil, err
		}
		rows[i] = exampleRow{Example: ex, Nodes: g.NodeCount(), Links: g.EdgeCount()}
	}
	return rows, nil
}

// exampleTable renders rows as a bordered table. cursor is the highlighted
// row, or -1 for none.
func exampleTable(rows []exampleRow, cursor int) string {
	cells := make([][]string, len(rows))
	for i, r := range rows {
		marker := "  "
		if i == cursor {
			marker = "▸ "
		}
		cells[i] = []string{marker, r.Example.ID, strconv.Itoa(r.Nodes), strconv.Itoa(r.Links), r.Example.Description}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Example", "Nodes", "Links", "Description").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			base := lipgloss.NewStyle()
			if col == 2 || col == 3 {
				base = base.Align(lipgloss.Right).Foreground(colorGray)
			}
			if row == cursor {
				if col == 1 {
					return base.Foreground(colorGreen).Bold(true)
				}
				return base.Bold(true)
			}
			if col == 4 {
				return base.Foreground(colorDim)
			}
			return base
		}).
		Render()
}

// =============================================================================
// ExampleListModel - Interactive example selection
// =============================================================================

// ExampleListModel is the bubbletea model for interactive example selection.
type ExampleListModel struct {
	Rows     []exampleRow
	Cursor   int
	Selected *examples.Example
}

// NewExampleListModel creates a new example list model.
func NewExampleListModel(rows []exampleRow) ExampleListModel {
	return ExampleListModel{Rows: rows}
}

func (m ExampleListModel) Init() tea.Cmd {
	return nil
}

func (m ExampleListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
			}
		case "enter":
			if len(m.Rows) == 0 {
				return m, tea.Quit
			}
			ex := m.Rows[m.Cursor].Example
			m.Selected = &ex
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ExampleListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Example"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")
	b.WriteString(exampleTable(m.Rows, m.Cursor))
	b.WriteString("\n\n")
	if len(m.Rows) > 0 {
		b.WriteString(listSelectedStyle.Render(m.Rows[m.Cursor].Example.Name))
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))
		b.WriteString("\n")
	}
	return b.String()
}
