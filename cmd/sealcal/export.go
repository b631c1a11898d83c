package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/gwillem/sealcal/pkg/calib"
	"github.com/gwillem/sealcal/pkg/history"
	"github.com/gwillem/sealcal/pkg/seal"
)

var errCancelled = errors.New("export cancelled")

type ExportCommand struct {
	ExportFlags

	Args struct {
		Params string `positional-arg-name:"PARAMS" description:"Calibration parameter file (.npz or .json)"`
	} `positional-args:"yes" required:"yes"`
}

func (c *ExportCommand) Execute(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c.apply(cfg)

	res, err := calib.Load(c.Args.Params)
	if err != nil {
		return err
	}
	return runExport(cfg, res, c.ExportFlags)
}

// runExport merges res into the configured template and writes the SEAL
// file, its manifest and the history record.
func runExport(cfg *seal.Config, res *calib.Result, f ExportFlags) error {
	var tmpl *seal.Template
	if cfg.TemplatePath != "" {
		t, err := seal.LoadTemplate(cfg.TemplatePath, nil)
		if err != nil {
			return err
		}
		tmpl = t
	}

	exporter, err := seal.NewExporter(*cfg, nil)
	if err != nil {
		return err
	}
	doc, err := exporter.Export(res, tmpl)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render("SEAL Export"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━"))
	if tmpl != nil {
		fmt.Printf("Template: %s\n", tmpl.Path)
	}
	fmt.Printf("Device:   %s\n", doc.Metadata.DevID)
	fmt.Printf("RMS:      %.4f px (%s)\n", res.RMSError, calib.Grade(res.RMSError))
	fmt.Println()

	for _, w := range doc.Warnings {
		fmt.Fprintln(os.Stderr, warnStyle.Render("Warning:"), w)
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if doc.NonProduction && !f.Yes && interactive {
		ok, err := confirm("Write a non-production SEAL file?")
		if err != nil {
			return err
		}
		if !ok {
			return errCancelled
		}
	}

	if f.Review {
		if !interactive {
			return fmt.Errorf("--review needs an interactive terminal")
		}
		final, err := tea.NewProgram(newReviewModel(doc)).Run()
		if err != nil {
			return fmt.Errorf("review: %w", err)
		}
		if !final.(reviewModel).confirmed {
			return errCancelled
		}
	}

	out := f.outputPath(cfg)
	if err := doc.Save(out); err != nil {
		return err
	}

	rec := history.NewRecord(out, doc, res)
	if err := history.WriteManifest(rec); err != nil {
		return err
	}
	if !f.NoHistory && cfg.HistoryDB != "" {
		if err := recordHistory(cfg.HistoryDB, rec); err != nil {
			// The SEAL file is already written.
			fmt.Fprintln(os.Stderr, warnStyle.Render("Warning:"), err)
		}
	}

	fmt.Println(successStyle.Render("SEAL file written to " + out))
	fmt.Println(dimStyle.Render("Run " + rec.RunID + ", manifest " + history.ManifestPath(out)))
	if doc.NonProduction {
		fmt.Println(warnStyle.Render("NOT FOR PRODUCTION: configure a template to keep the factory lines."))
	}
	return nil
}

func recordHistory(path string, rec *history.Record) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Insert(rec)
}

func confirm(title string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description("The factory lines will hold placeholder values.").
				Affirmative("Write").
				Negative("Cancel").
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}
