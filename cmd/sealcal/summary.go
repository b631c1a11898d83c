package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/gwillem/sealcal/pkg/calib"
	"github.com/gwillem/sealcal/pkg/report"
)

type SummaryCommand struct {
	Plot    string `long:"plot" description:"Also save a per-view error plot (PNG) to this path"`
	NoChart bool   `long:"no-chart" description:"Skip the terminal chart"`

	Args struct {
		Params string `positional-arg-name:"PARAMS" description:"Calibration parameter file (.npz or .json)"`
	} `positional-args:"yes" required:"yes"`
}

func (c *SummaryCommand) Execute(args []string) error {
	res, err := calib.Load(c.Args.Params)
	if err != nil {
		return err
	}

	fmt.Println(report.Summary(res))

	if !c.NoChart {
		width := 80
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 {
			width = w - 4
		}
		if chart := report.ErrorChart(res, width, 12); chart != "" {
			fmt.Println(subHeaderStyle.Render("Per-view reprojection error"))
			fmt.Println(chart)
		}
	}

	if c.Plot != "" {
		if err := report.SaveErrorPlot(res, c.Plot); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("Plot saved to " + c.Plot))
	}
	return nil
}
