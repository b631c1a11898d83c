package main

import (
	"github.com/gwillem/sealcal/pkg/pattern"
	"github.com/gwillem/sealcal/pkg/seal"
)

// BoardFlags select the calibration board.
type BoardFlags struct {
	Pattern    string  `long:"pattern" default:"chessboard" choice:"chessboard" choice:"charuco" choice:"circles" description:"Board type"`
	Rows       int     `long:"rows" default:"6" description:"Board rows (inner corners for chessboards)"`
	Cols       int     `long:"cols" default:"9" description:"Board columns (inner corners for chessboards)"`
	SquareSize float64 `long:"square-size" default:"25" description:"Square size or circle spacing in mm"`
	MarkerSize float64 `long:"marker-size" description:"ArUco marker size in mm (charuco only)"`
}

func (f BoardFlags) Board() (pattern.Board, error) {
	kind, err := pattern.ParseKind(f.Pattern)
	if err != nil {
		return pattern.Board{}, err
	}
	b := pattern.Board{Kind: kind, Rows: f.Rows, Cols: f.Cols, SquareSize: f.SquareSize, MarkerSize: f.MarkerSize}
	if kind == pattern.Charuco && b.MarkerSize == 0 {
		b.MarkerSize = b.SquareSize * 0.75
	}
	return b, b.Validate()
}

// ExportFlags override the export settings from the config file.
type ExportFlags struct {
	Template    string `short:"t" long:"template" description:"SEAL template providing the factory lines"`
	DevID       string `long:"dev-id" description:"Device id for the metadata line"`
	OutputDir   string `long:"output-dir" description:"Output directory"`
	Output      string `short:"o" long:"output" description:"Output file (default <output-dir>/stereo_calibration_seal.txt)"`
	UpdateRight bool   `long:"update-right" description:"Also overwrite the right camera line"`
	Review      bool   `long:"review" description:"Review the changed lines before writing"`
	Yes         bool   `short:"y" long:"yes" description:"Write non-production exports without asking"`
	NoHistory   bool   `long:"no-history" description:"Do not record the export in the history database"`
}

func (f ExportFlags) apply(cfg *seal.Config) {
	if f.Template != "" {
		cfg.TemplatePath = f.Template
	}
	if f.DevID != "" {
		cfg.DevID = f.DevID
	}
	if f.OutputDir != "" {
		cfg.OutputDir = f.OutputDir
	}
	if f.UpdateRight {
		cfg.UpdateRightCamera = true
	}
}

func (f ExportFlags) outputPath(cfg *seal.Config) string {
	if f.Output != "" {
		return f.Output
	}
	return cfg.OutputPath()
}
