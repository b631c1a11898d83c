package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gwillem/sealcal/pkg/seal"
)

func joinFloats(vals []float64, prec int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(v, 'f', prec, 64)
	}
	return strings.Join(parts, " ")
}

// Inspect renders a decoded SEAL file field by field.
func Inspect(c *seal.Contents) string {
	var sb strings.Builder

	t := newTable("Field", "Value")
	t.Row("resolution", fmt.Sprintf("%dx%d", c.Resolution.Width, c.Resolution.Height))
	t.Row("scale factors", joinFloats(c.ScaleFactors[:], 6))
	t.Row("offset center", fmt.Sprintf("%d %d", c.OffsetCenter[0], c.OffsetCenter[1]))
	t.Row("offset tilt", fmt.Sprintf("%d %d", c.OffsetTilt[0], c.OffsetTilt[1]))
	for _, cam := range []struct {
		name string
		c    []float64
	}{
		{"left fx fy cx cy", []float64{c.Left.Intrinsics.Fx, c.Left.Intrinsics.Fy, c.Left.Intrinsics.Cx, c.Left.Intrinsics.Cy}},
		{"left distortion", c.Left.Distortion.Coeffs()},
		{"right fx fy cx cy", []float64{c.Right.Intrinsics.Fx, c.Right.Intrinsics.Fy, c.Right.Intrinsics.Cx, c.Right.Intrinsics.Cy}},
		{"right distortion", c.Right.Distortion.Coeffs()},
	} {
		t.Row(cam.name, joinFloats(cam.c, 6))
	}
	if len(c.Projector) > 0 {
		t.Row("projector", joinFloats(c.Projector[:min(4, len(c.Projector))], 3)+" ...")
	}
	t.Row("table lines", strconv.Itoa(len(c.Tables)))
	if c.HasMetadata {
		t.Row("device", c.Metadata.DevID)
		t.Row("calibrated", c.Metadata.CalibrateDate)
		t.Row("type", c.Metadata.Type)
		t.Row("soft version", c.Metadata.SoftVersion)
	} else {
		t.Row("metadata", badStyle.Render("missing"))
	}

	sb.WriteString(t.Render())
	sb.WriteString("\n")
	if c.Metadata.Type == seal.NonProductionType {
		sb.WriteString(warnStyle.Render("Non-production export: factory lines are placeholders."))
		sb.WriteString("\n")
	}
	return sb.String()
}
