package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gwillem/sealcal/pkg/history"
	"github.com/gwillem/sealcal/pkg/report"
)

type HistoryCommand struct {
	DevID string `long:"dev-id" description:"Only show exports for this device"`
	Limit int    `short:"n" long:"limit" default:"20" description:"Number of exports to show (0 for all)"`

	Args struct {
		RunID string `positional-arg-name:"RUN-ID" description:"Show a single export as JSON"`
	} `positional-args:"yes"`
}

func (c *HistoryCommand) Execute(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.HistoryDB == "" {
		return fmt.Errorf("no history database configured")
	}
	store, err := history.Open(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	if c.Args.RunID != "" {
		rec, err := store.Get(c.Args.RunID)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}

	recs, err := store.List(c.DevID, c.Limit)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println(dimStyle.Render("No exports recorded in " + cfg.HistoryDB))
		return nil
	}

	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		kind := "production"
		if r.NonProduction {
			kind = "NON-PRODUCTION"
		}
		rows = append(rows, []string{
			shortRunID(r.RunID),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.DevID,
			fmt.Sprintf("%.4f", r.RMSError),
			r.Verdict,
			kind,
			r.Output,
		})
	}

	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Run", "Exported", "Device", "RMS", "Verdict", "Kind", "Output").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			if row < 0 || row >= len(recs) {
				return cellStyle
			}
			switch col {
			case 4:
				return report.VerdictStyle(recs[row].Verdict).Padding(0, 1)
			case 5:
				if recs[row].NonProduction {
					return warnStyle.Padding(0, 1)
				}
			}
			return cellStyle
		})
	fmt.Println(t.Render())
	return nil
}

// shortRunID is the leading part of a run id shown in listings.
func shortRunID(id string) string {
	return id[:min(8, len(id))]
}
