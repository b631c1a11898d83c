package calib

import "fmt"

// Verdict grades a calibration by its RMS reprojection error.
type Verdict string

const (
	VerdictExcellent Verdict = "excellent"
	VerdictGood      Verdict = "good"
	VerdictPoor      Verdict = "needs improvement"
)

// RMS thresholds in pixels.
const (
	ExcellentRMS = 0.5
	GoodRMS      = 1.0
	// OutlierError marks a single view whose reprojection error exceeds it.
	OutlierError = 1.0
)

// Grade returns the verdict for an RMS error.
func Grade(rms float64) Verdict {
	switch {
	case rms < ExcellentRMS:
		return VerdictExcellent
	case rms < GoodRMS:
		return VerdictGood
	default:
		return VerdictPoor
	}
}

// Assessment summarises the quality checks run on a Result.
type Assessment struct {
	Verdict Verdict
	// Notes are human-readable findings, one per line.
	Notes         []string
	OutliersLeft  []int
	OutliersRight []int
}

// Assess grades the result and flags views and settings worth a recalibration.
func Assess(r *Result) Assessment {
	a := Assessment{Verdict: Grade(r.RMSError)}
	if a.Verdict == VerdictPoor {
		a.Notes = append(a.Notes, fmt.Sprintf("RMS error %.4f px is above %.1f; capture more images with better lighting", r.RMSError, GoodRMS))
	}
	if r.Resolution != SEALResolution {
		a.Notes = append(a.Notes, fmt.Sprintf("resolution %dx%d differs from SEAL %dx%d",
			r.Resolution.Width, r.Resolution.Height, SEALResolution.Width, SEALResolution.Height))
	}

	a.OutliersLeft = outliers(r.Left.PerViewErrors)
	if r.Right != nil {
		a.OutliersRight = outliers(r.Right.PerViewErrors)
	}
	if len(a.OutliersLeft) > 0 || len(a.OutliersRight) > 0 {
		a.Notes = append(a.Notes, fmt.Sprintf("outlier views (> %.1f px): left %v, right %v; consider removing them",
			OutlierError, a.OutliersLeft, a.OutliersRight))
	}
	return a
}

func outliers(errs []float64) []int {
	var idx []int
	for i, e := range errs {
		if e > OutlierError {
			idx = append(idx, i)
		}
	}
	return idx
}
