package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/jessevdk/go-flags"

	"github.com/gwillem/sealcal/pkg/seal"
)

type Options struct {
	Config string `short:"c" long:"config" default:"sealcal.json" description:"Configuration file"`

	Init      InitCommand      `command:"init" description:"Write a configuration file with the default settings"`
	Calibrate CalibrateCommand `command:"calibrate" description:"Run the calibration solver and export the result to SEAL"`
	Export    ExportCommand    `command:"export" description:"Export a calibration parameter file to SEAL"`
	Inspect   InspectCommand   `command:"inspect" description:"Show the fields of a SEAL file"`
	Summary   SummaryCommand   `command:"summary" description:"Show calibration parameters, quality and per-view errors"`
	History   HistoryCommand   `command:"history" description:"List previous exports"`
	Pattern   PatternCommand   `command:"pattern" description:"Describe a calibration board"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	subHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	errorStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func main() {
	parser.LongDescription = "sealcal - camera calibration to SEAL scanner calibration files"

	_, err := parser.Parse()
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) {
			if flagsErr.Type == flags.ErrHelp {
				fmt.Println(flagsErr.Message)
				os.Exit(0)
			}
			fmt.Fprintln(os.Stderr, flagsErr.Message)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
		os.Exit(1)
	}
}

// loadConfig reads the --config file, falling back to the defaults when it
// does not exist.
func loadConfig() (*seal.Config, error) {
	if opts.Config == seal.DefaultConfigFile {
		if !seal.ConfigExists() {
			return seal.DefaultConfig(), nil
		}
		return seal.LoadConfig()
	}
	if _, err := os.Stat(opts.Config); errors.Is(err, os.ErrNotExist) {
		return seal.DefaultConfig(), nil
	}
	return seal.LoadConfigFrom(opts.Config)
}
