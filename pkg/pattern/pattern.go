// Package pattern describes the calibration boards the solver can detect.
package pattern

import (
	"fmt"
	"strings"

	"github.com/golang/geo/r3"
)

// Kind identifies a calibration board type.
type Kind string

const (
	Chessboard Kind = "chessboard"
	Charuco    Kind = "charuco"
	Circles    Kind = "circles"
)

// AllKinds returns the supported board types.
func AllKinds() []Kind {
	return []Kind{Chessboard, Charuco, Circles}
}

// ParseKind maps a name (case-insensitive) to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllKinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown pattern type %q (want chessboard, charuco or circles)", s)
}

// Board is a calibration target.
//
// For chessboards Rows and Cols count inner corners. For charuco boards they
// count squares and MarkerSize is the ArUco marker side. For asymmetric
// circle grids they count circles and SquareSize is the centre spacing.
// Lengths are in mm.
type Board struct {
	Kind       Kind    `json:"kind"`
	Rows       int     `json:"rows"`
	Cols       int     `json:"cols"`
	SquareSize float64 `json:"square_size"`
	MarkerSize float64 `json:"marker_size,omitempty"`
}

// DefaultBoard is the 9x6 chessboard with 25 mm squares used on the SEAL rig.
func DefaultBoard() Board {
	return Board{Kind: Chessboard, Rows: 6, Cols: 9, SquareSize: 25}
}

// Validate checks the board dimensions for its kind.
func (b Board) Validate() error {
	if b.Rows < 2 || b.Cols < 2 {
		return fmt.Errorf("%s: need at least 2x2, got %dx%d", b.Kind, b.Cols, b.Rows)
	}
	if b.SquareSize <= 0 {
		return fmt.Errorf("%s: square size must be positive, got %g", b.Kind, b.SquareSize)
	}
	switch b.Kind {
	case Chessboard, Circles:
	case Charuco:
		if b.MarkerSize <= 0 || b.MarkerSize >= b.SquareSize {
			return fmt.Errorf("charuco: marker size must be in (0, %g), got %g", b.SquareSize, b.MarkerSize)
		}
	default:
		return fmt.Errorf("unknown pattern type %q", b.Kind)
	}
	return nil
}

// PointCount is the number of detectable features on the board.
func (b Board) PointCount() int {
	if b.Kind == Charuco {
		// Charuco corners are the inner chessboard corners.
		return (b.Rows - 1) * (b.Cols - 1)
	}
	return b.Rows * b.Cols
}

// ObjectPoints returns the board features in board coordinates (mm, z=0),
// row by row, in the order the detector reports them.
func (b Board) ObjectPoints() []r3.Vector {
	pts := make([]r3.Vector, 0, b.PointCount())
	switch b.Kind {
	case Circles:
		// Asymmetric grid: odd rows are shifted by half a spacing.
		for i := 0; i < b.Rows; i++ {
			for j := 0; j < b.Cols; j++ {
				pts = append(pts, r3.Vector{
					X: float64(2*j+i%2) * b.SquareSize,
					Y: float64(i) * b.SquareSize,
				})
			}
		}
	case Charuco:
		for i := 1; i < b.Rows; i++ {
			for j := 1; j < b.Cols; j++ {
				pts = append(pts, r3.Vector{X: float64(j) * b.SquareSize, Y: float64(i) * b.SquareSize})
			}
		}
	default:
		for i := 0; i < b.Rows; i++ {
			for j := 0; j < b.Cols; j++ {
				pts = append(pts, r3.Vector{X: float64(j) * b.SquareSize, Y: float64(i) * b.SquareSize})
			}
		}
	}
	return pts
}

// String renders the board like "chessboard 9x6 @ 25mm".
func (b Board) String() string {
	s := fmt.Sprintf("%s %dx%d @ %gmm", b.Kind, b.Cols, b.Rows, b.SquareSize)
	if b.Kind == Charuco {
		s += fmt.Sprintf(" (marker %gmm)", b.MarkerSize)
	}
	return s
}
