package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

type PatternCommand struct {
	BoardFlags

	Points bool `long:"points" description:"List the board's object points"`
}

func (c *PatternCommand) Execute(args []string) error {
	board, err := c.Board()
	if err != nil {
		return err
	}

	pts := board.ObjectPoints()
	var w, h float64
	for _, p := range pts {
		w, h = max(w, p.X), max(h, p.Y)
	}

	fmt.Println(headerStyle.Render(board.String()))
	fmt.Printf("Features: %d\n", board.PointCount())
	fmt.Printf("Extent:   %.1f x %.1f mm\n", w, h)

	if !c.Points {
		return nil
	}
	rows := make([][]string, 0, len(pts))
	for i, p := range pts {
		rows = append(rows, []string{fmt.Sprint(i), fmt.Sprintf("%.2f", p.X), fmt.Sprintf("%.2f", p.Y), fmt.Sprintf("%.2f", p.Z)})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("#", "X (mm)", "Y (mm)", "Z (mm)").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	fmt.Println(t.Render())
	return nil
}
