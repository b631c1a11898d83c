package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gwillem/sealcal/pkg/calib"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return colHeadStyle
			}
			if col == 0 {
				return labelStyle
			}
			return cellStyle
		})
}

func f4(v float64) string { return fmt.Sprintf("%.4f", v) }
func f6(v float64) string { return fmt.Sprintf("%.6f", v) }

// Summary renders the camera parameters, the stereo geometry and the quality
// assessment of res.
func Summary(res *calib.Result) string {
	var sb strings.Builder

	headers := []string{"Parameter", "Left"}
	if res.IsStereo() {
		headers = append(headers, "Right")
	}
	t := newTable(headers...)
	row := func(name string, val func(c calib.Camera) string) {
		cells := []string{name, val(res.Left)}
		if res.IsStereo() {
			cells = append(cells, val(*res.Right))
		}
		t.Row(cells...)
	}
	row("fx", func(c calib.Camera) string { return f4(c.Intrinsics.Fx) })
	row("fy", func(c calib.Camera) string { return f4(c.Intrinsics.Fy) })
	row("cx", func(c calib.Camera) string { return f4(c.Intrinsics.Cx) })
	row("cy", func(c calib.Camera) string { return f4(c.Intrinsics.Cy) })
	row("k1 k2", func(c calib.Camera) string { return f6(c.Distortion.K1) + " " + f6(c.Distortion.K2) })
	row("p1 p2", func(c calib.Camera) string { return f6(c.Distortion.P1) + " " + f6(c.Distortion.P2) })
	row("k3", func(c calib.Camera) string { return f6(c.Distortion.K3) })
	row("views", func(c calib.Camera) string { return fmt.Sprint(len(c.PerViewErrors)) })

	sb.WriteString(headerStyle.Render("Calibration summary"))
	sb.WriteString("\n")
	sb.WriteString(t.Render())
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "Resolution: %dx%d\n", res.Resolution.Width, res.Resolution.Height)
	if res.IsStereo() {
		rot := res.RotationDegrees()
		fmt.Fprintf(&sb, "Baseline:   %.2f mm\n", res.Baseline())
		fmt.Fprintf(&sb, "Rotation:   %.3f %.3f %.3f deg\n", rot.X, rot.Y, rot.Z)
	}

	a := calib.Assess(res)
	fmt.Fprintf(&sb, "RMS error:  %.4f px (%s)\n", res.RMSError, VerdictStyle(string(a.Verdict)).Render(string(a.Verdict)))
	for _, n := range a.Notes {
		sb.WriteString(dimStyle.Render("  - " + n))
		sb.WriteString("\n")
	}
	return sb.String()
}
