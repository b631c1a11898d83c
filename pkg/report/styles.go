// Package report renders calibration results and SEAL files for the terminal
// and as PNG plots.
package report

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gwillem/sealcal/pkg/calib"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	goodStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	badStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Padding(0, 1)
	colHeadStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)

	leftColor  = lipgloss.Color("46")
	rightColor = lipgloss.Color("208")
)

// VerdictStyle colours a quality verdict.
func VerdictStyle(v string) lipgloss.Style {
	switch v {
	case string(calib.VerdictExcellent):
		return goodStyle
	case string(calib.VerdictGood):
		return warnStyle
	default:
		return badStyle
	}
}
