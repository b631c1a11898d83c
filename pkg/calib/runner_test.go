package calib

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gwillem/sealcal/pkg/pattern"
)

func TestSession_Args(t *testing.T) {
	tests := []struct {
		name string
		sess Session
		want []string
	}{
		{
			name: "live stereo",
			sess: Session{Board: pattern.DefaultBoard(), LeftCamera: 0, RightCamera: 1, Images: 20, OutputDir: "out"},
			want: []string{
				"--pattern-type", "chessboard", "--rows", "6", "--cols", "9", "--square-size", "25",
				"--left", "0", "--output-dir", "out", "--right", "1", "--images", "20",
			},
		},
		{
			name: "charuco from images",
			sess: Session{
				Board:       pattern.Board{Kind: pattern.Charuco, Rows: 5, Cols: 7, SquareSize: 30, MarkerSize: 22.5},
				RightCamera: -1,
				FromImages:  "captures",
				OutputDir:   "out",
			},
			want: []string{
				"--pattern-type", "charuco", "--rows", "5", "--cols", "7", "--square-size", "30",
				"--left", "0", "--output-dir", "out", "--marker-size", "22.5", "--from-images", "captures",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.sess.Args()); diff != "" {
				t.Errorf("Args() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSession_Validate(t *testing.T) {
	good := Session{Board: pattern.DefaultBoard(), RightCamera: 1, Images: 10, OutputDir: "out"}
	if err := good.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	bad := map[string]func(s *Session){
		"same camera":  func(s *Session) { s.RightCamera = 0 },
		"few images":   func(s *Session) { s.Images = 3 },
		"no output":    func(s *Session) { s.OutputDir = "" },
		"bad board":    func(s *Session) { s.Board.Rows = 1 },
		"negative cam": func(s *Session) { s.LeftCamera = -1 },
	}
	for name, mutate := range bad {
		s := good
		mutate(&s)
		if err := s.Validate(); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}

	offline := good
	offline.Images = 0
	offline.FromImages = "captures"
	if err := offline.Validate(); err != nil {
		t.Errorf("offline session: %v", err)
	}
}

func TestSolver_Run(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("no true(1) on this system")
	}
	sess := Session{Board: pattern.DefaultBoard(), RightCamera: -1, Images: 10, OutputDir: t.TempDir()}

	if _, err := (&Solver{}).Run(context.Background(), sess); err == nil {
		t.Error("expected error without a command")
	}

	_, err := (&Solver{Command: []string{"false"}}).Run(context.Background(), sess)
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Errorf("failing solver: got %v, want *exec.ExitError", err)
	}

	// The solver exits cleanly but leaves no parameter file behind.
	_, err = (&Solver{Command: []string{"true"}}).Run(context.Background(), sess)
	var ie *InputError
	if !errors.As(err, &ie) {
		t.Fatalf("got %v, want *InputError", err)
	}
	if ie.Path != filepath.Join(sess.OutputDir, DefaultParamsFile) {
		t.Errorf("InputError.Path = %q", ie.Path)
	}
	if ie.Reason != "solver did not write parameters" {
		t.Errorf("InputError.Reason = %q", ie.Reason)
	}
}

func TestSolver_RunIgnoresStaleParams(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("no true(1) on this system")
	}
	sess := Session{Board: pattern.DefaultBoard(), RightCamera: -1, Images: 10, OutputDir: t.TempDir()}

	// Left over from an earlier run; the solver below writes nothing.
	stale := filepath.Join(sess.OutputDir, DefaultParamsFile)
	if err := os.WriteFile(stale, []byte("stale parameters"), 0644); err != nil {
		t.Fatal(err)
	}

	res, err := (&Solver{Command: []string{"true"}}).Run(context.Background(), sess)
	var ie *InputError
	if !errors.As(err, &ie) {
		t.Fatalf("Run() = %v, %v; want *InputError", res, err)
	}
	if ie.Reason != "solver did not write parameters" {
		t.Errorf("InputError.Reason = %q", ie.Reason)
	}
}
