package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gwillem/sealcal/pkg/seal"
)

const reviewRows = 10

// reviewModel lists the lines an export changes and waits for the user to
// accept (enter) or reject (q, esc) them.
type reviewModel struct {
	changes   []seal.Change
	nonProd   bool
	offset    int
	width     int
	confirmed bool
	done      bool
}

func newReviewModel(doc *seal.Document) reviewModel {
	return reviewModel{changes: doc.Changes(), nonProd: doc.NonProduction, width: 100}
}

func (m reviewModel) Init() tea.Cmd {
	return nil
}

func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "y":
			m.confirmed, m.done = true, true
			return m, tea.Quit
		case "q", "esc", "n", "ctrl+c":
			m.done = true
			return m, tea.Quit
		case "down", "j":
			if m.offset+reviewRows < len(m.changes) {
				m.offset++
			}
		case "up", "k":
			if m.offset > 0 {
				m.offset--
			}
		}
	}
	return m, nil
}

func (m reviewModel) View() string {
	if m.done {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Review SEAL export"))
	sb.WriteString(fmt.Sprintf(" - %d changed line(s)\n\n", len(m.changes)))

	// Line number column plus borders and padding.
	colWidth := max(20, (m.width-16)/2)
	end := min(len(m.changes), m.offset+reviewRows)
	rows := make([][]string, 0, end-m.offset)
	for _, c := range m.changes[m.offset:end] {
		rows = append(rows, []string{fmt.Sprint(c.Line), truncate(c.Old, colWidth), truncate(c.New, colWidth)})
	}

	oldStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(0, 1)
	newStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Line", "Template", "Export").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return subHeaderStyle.Padding(0, 1)
			}
			switch col {
			case 1:
				return oldStyle
			case 2:
				return newStyle
			default:
				return dimStyle.Padding(0, 1)
			}
		})
	sb.WriteString(t.Render())
	sb.WriteString("\n")

	if m.nonProd {
		sb.WriteString(warnStyle.Render("No template: every line is new and the factory lines are placeholders."))
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render("↑/↓ scroll • enter write • q cancel"))
	return sb.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
