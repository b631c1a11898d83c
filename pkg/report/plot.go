package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/gwillem/sealcal/pkg/calib"
)

// SaveErrorPlot writes a PNG (or any format gonum/plot infers from the
// extension) of the per-view reprojection errors with the outlier threshold.
func SaveErrorPlot(res *calib.Result, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Per-view reprojection error (RMS %.4f px)", res.RMSError)
	p.X.Label.Text = "View"
	p.Y.Label.Text = "Error (px)"

	series := []struct {
		name  string
		errs  []float64
		color color.Color
	}{
		{"left", res.Left.PerViewErrors, color.RGBA{R: 0x1b, G: 0x9e, B: 0x77, A: 0xff}},
	}
	if res.Right != nil {
		series = append(series, struct {
			name  string
			errs  []float64
			color color.Color
		}{"right", res.Right.PerViewErrors, color.RGBA{R: 0xd9, G: 0x5f, B: 0x02, A: 0xff}})
	}

	views := 0
	for _, s := range series {
		if len(s.errs) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(s.errs))
		for i, e := range s.errs {
			pts[i] = plotter.XY{X: float64(i), Y: e}
		}
		line, scatter, err := plotter.NewLinePoints(pts)
		if err != nil {
			return err
		}
		line.Color = s.color
		line.Width = vg.Points(1)
		scatter.Color = s.color
		p.Add(line, scatter)
		p.Legend.Add(s.name, line, scatter)
		views = max(views, len(s.errs))
	}
	if views == 0 {
		return fmt.Errorf("no per-view errors to plot")
	}

	threshold, err := plotter.NewLine(plotter.XYs{{X: 0, Y: calib.OutlierError}, {X: float64(views - 1), Y: calib.OutlierError}})
	if err != nil {
		return err
	}
	threshold.Color = color.RGBA{R: 0xcc, A: 0xff}
	threshold.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(threshold)
	p.Legend.Add("outlier threshold", threshold)

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}
