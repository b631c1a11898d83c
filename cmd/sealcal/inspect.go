package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gwillem/sealcal/pkg/history"
	"github.com/gwillem/sealcal/pkg/report"
	"github.com/gwillem/sealcal/pkg/seal"
)

type InspectCommand struct {
	Check bool `long:"check" description:"Validate the file as an export template"`

	Args struct {
		File string `positional-arg-name:"FILE" description:"SEAL file"`
	} `positional-args:"yes" required:"yes"`
}

func (c *InspectCommand) Execute(args []string) error {
	contents, err := seal.DecodeFile(c.Args.File)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render(c.Args.File))
	fmt.Println(report.Inspect(contents))

	if rec, err := history.ReadManifest(history.ManifestPath(c.Args.File)); err == nil {
		fmt.Println(dimStyle.Render(fmt.Sprintf("Export run %s at %s, template %q",
			rec.RunID, rec.CreatedAt.Local().Format("2006-01-02 15:04"), rec.TemplatePath)))
		if rec.NonProduction {
			fmt.Println(warnStyle.Render("Manifest marks this export as non-production."))
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		fmt.Println(warnStyle.Render("Warning:"), err)
	}

	if c.Check {
		tmpl, err := seal.LoadTemplate(c.Args.File, nil)
		if err != nil {
			return err
		}
		first, last := tmpl.TableLines()
		fmt.Println(successStyle.Render("Valid template"))
		fmt.Println(dimStyle.Render(fmt.Sprintf("%d lines, tables on lines %d-%d, metadata on line %d, sha256 %s",
			tmpl.Len(), first, last, tmpl.MetadataLine(), tmpl.Digest())))
	}
	return nil
}
