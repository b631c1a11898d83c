package calib

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/gwillem/sealcal/pkg/pattern"
)

// DefaultParamsFile is the parameter file name the solver writes.
const DefaultParamsFile = "stereo_calibration.npz"

// Session describes one calibration run handed to the external solver.
type Session struct {
	Board       pattern.Board
	LeftCamera  int
	RightCamera int    // negative for single-camera runs
	Images      int    // frames to capture in live mode
	FromImages  string // directory of captured image pairs; empty for live capture
	OutputDir   string
}

// Stereo reports whether the session calibrates a camera pair.
func (s Session) Stereo() bool {
	return s.RightCamera >= 0
}

// ParamsPath is where the solver leaves the parameter file.
func (s Session) ParamsPath() string {
	return filepath.Join(s.OutputDir, DefaultParamsFile)
}

// Validate checks the session before the solver is started.
func (s Session) Validate() error {
	if err := s.Board.Validate(); err != nil {
		return err
	}
	if s.LeftCamera < 0 {
		return fmt.Errorf("left camera index must be >= 0, got %d", s.LeftCamera)
	}
	if s.Stereo() && s.RightCamera == s.LeftCamera {
		return fmt.Errorf("left and right camera share index %d", s.LeftCamera)
	}
	if s.FromImages == "" && s.Images < 4 {
		return fmt.Errorf("need at least 4 images for calibration, got %d", s.Images)
	}
	if s.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	return nil
}

// Args renders the session as solver command-line flags.
func (s Session) Args() []string {
	args := []string{
		"--pattern-type", string(s.Board.Kind),
		"--rows", strconv.Itoa(s.Board.Rows),
		"--cols", strconv.Itoa(s.Board.Cols),
		"--square-size", strconv.FormatFloat(s.Board.SquareSize, 'f', -1, 64),
		"--left", strconv.Itoa(s.LeftCamera),
		"--output-dir", s.OutputDir,
	}
	if s.Board.Kind == pattern.Charuco {
		args = append(args, "--marker-size", strconv.FormatFloat(s.Board.MarkerSize, 'f', -1, 64))
	}
	if s.Stereo() {
		args = append(args, "--right", strconv.Itoa(s.RightCamera))
	}
	if s.FromImages != "" {
		args = append(args, "--from-images", s.FromImages)
	} else {
		args = append(args, "--images", strconv.Itoa(s.Images))
	}
	return args
}

// Solver runs the external detection and calibration program.
type Solver struct {
	Command []string // program and leading arguments, e.g. ["python3", "stereo_calibration.py"]
	Stdout  io.Writer
	Stderr  io.Writer
}

// Run forwards the session to the solver and loads the parameters it wrote.
func (s *Solver) Run(ctx context.Context, sess Session) (*Result, error) {
	if len(s.Command) == 0 {
		return nil, fmt.Errorf("no solver command configured")
	}
	if err := sess.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session: %w", err)
	}

	params := sess.ParamsPath()
	before, _ := os.Stat(params)

	args := append(append([]string(nil), s.Command[1:]...), sess.Args()...)
	cmd := exec.CommandContext(ctx, s.Command[0], args...)
	cmd.Stdout = s.Stdout
	cmd.Stderr = s.Stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("run solver %s: %w", s.Command[0], err)
	}

	after, err := os.Stat(params)
	if err != nil || unchanged(before, after) {
		// A parameter file left by an earlier run must not be exported again.
		return nil, inputErr(params, "", "solver did not write parameters", nil)
	}
	return Load(params)
}

func unchanged(before, after os.FileInfo) bool {
	return before != nil && after.ModTime().Equal(before.ModTime()) && after.Size() == before.Size()
}
