package report

import (
	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"
	"github.com/charmbracelet/lipgloss"

	"github.com/gwillem/sealcal/pkg/calib"
)

const (
	leftSeries  = "left"
	rightSeries = "right"
)

var chartStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))

// ErrorChart draws the per-view reprojection errors as a terminal line chart.
// It returns "" when the result carries no per-view errors.
func ErrorChart(res *calib.Result, width, height int) string {
	var right []float64
	if res.Right != nil {
		right = res.Right.PerViewErrors
	}
	if len(res.Left.PerViewErrors) == 0 && len(right) == 0 {
		return ""
	}

	top := calib.OutlierError
	for _, e := range append(append([]float64(nil), res.Left.PerViewErrors...), right...) {
		if e > top {
			top = e
		}
	}

	chart := streamlinechart.New(width, height,
		streamlinechart.WithYRange(0, top*1.1),
	)
	chart.SetDataSetStyles(leftSeries, runes.ThinLineStyle, lipgloss.NewStyle().Foreground(leftColor))
	chart.SetDataSetStyles(rightSeries, runes.ThinLineStyle, lipgloss.NewStyle().Foreground(rightColor))
	for _, e := range res.Left.PerViewErrors {
		chart.PushDataSet(leftSeries, e)
	}
	for _, e := range right {
		chart.PushDataSet(rightSeries, e)
	}
	chart.DrawAll()

	legend := lipgloss.NewStyle().Foreground(leftColor).Render("━ left")
	if len(right) > 0 {
		legend += "  " + lipgloss.NewStyle().Foreground(rightColor).Render("━ right")
	}
	return chartStyle.Render(chart.View()) + "\n" + legend + dimStyle.Render("  per-view error (px)")
}
