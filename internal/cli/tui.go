package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/ventgraph/pkg/network"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// StartListModel - Interactive start node selection
// =============================================================================

// StartListModel is the bubbletea model for picking the start valve.
type StartListModel struct {
	Nodes    []network.Node
	Cursor   int
	Selected string
	Height   int
	Offset   int
}

// NewStartListModel creates a start list positioned on preferred, if present.
func NewStartListModel(nodes []network.Node, preferred string) StartListModel {
	m := StartListModel{Nodes: nodes, Height: 15}
	for i, n := range nodes {
		if n.ID == preferred {
			m.Cursor = i
			break
		}
	}
	m.scroll()
	return m
}

func (m StartListModel) Init() tea.Cmd {
	return nil
}

func (m StartListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(len(m.Nodes)-1, 0)
		case "enter":
			if len(m.Nodes) == 0 {
				return m, tea.Quit
			}
			m.Selected = m.Nodes[m.Cursor].ID
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	m.scroll()
	return m, nil
}

// scroll keeps the cursor inside the visible window.
func (m *StartListModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m StartListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Start Valve"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Nodes))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rate := "—"
		if n.Rate > 0 {
			rate = strconv.Itoa(n.Rate)
		}
		rows = append(rows, []string{cursor, n.ID, rate, strings.Join(n.Tunnels, ", ")})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Valve", "Rate", "Tunnels").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Nodes) {
				return lipgloss.NewStyle()
			}
			switch {
			case idx == m.Cursor:
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			case m.Nodes[idx].Rate > 0:
				return lipgloss.NewStyle().Foreground(colorGreen)
			default:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Nodes))))

	return b.String()
}

// pickStart runs the start picker and returns the chosen valve, or "" if the
// user quit without choosing.
func pickStart(nodes []network.Node, preferred string) (string, error) {
	final, err := tea.NewProgram(NewStartListModel(nodes, preferred)).Run()
	if err != nil {
		return "", err
	}
	return final.(StartListModel).Selected, nil
}
