// Package calib holds camera calibration results and reads them from the
// parameter files written by the calibration solver.
package calib

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Resolution is an image size in pixels.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SEALResolution is the sensor resolution SEAL devices are calibrated at.
var SEALResolution = Resolution{Width: 1280, Height: 720}

// Intrinsics holds the pinhole parameters of a camera matrix.
type Intrinsics struct {
	Fx float64 `json:"fx"`
	Fy float64 `json:"fy"`
	Cx float64 `json:"cx"`
	Cy float64 `json:"cy"`
}

// Matrix returns the 3x3 camera matrix K.
func (in Intrinsics) Matrix() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		in.Fx, 0, in.Cx,
		0, in.Fy, in.Cy,
		0, 0, 1,
	})
}

// IntrinsicsFromMatrix extracts fx, fy, cx, cy from a 3x3 camera matrix.
func IntrinsicsFromMatrix(k mat.Matrix) Intrinsics {
	return Intrinsics{
		Fx: k.At(0, 0),
		Fy: k.At(1, 1),
		Cx: k.At(0, 2),
		Cy: k.At(1, 2),
	}
}

// Distortion holds the rational-model distortion coefficients.
type Distortion struct {
	K1 float64 `json:"k1"`
	K2 float64 `json:"k2"`
	P1 float64 `json:"p1"`
	P2 float64 `json:"p2"`
	K3 float64 `json:"k3"`
	K4 float64 `json:"k4"`
	K5 float64 `json:"k5"`
	K6 float64 `json:"k6"`
}

// DistortionFromCoeffs maps a flat coefficient vector in solver order
// (k1 k2 p1 p2 k3 k4 k5 k6) onto Distortion. Missing trailing values are zero.
func DistortionFromCoeffs(c []float64) Distortion {
	at := func(i int) float64 {
		if i < len(c) {
			return c[i]
		}
		return 0
	}
	return Distortion{
		K1: at(0), K2: at(1), P1: at(2), P2: at(3),
		K3: at(4), K4: at(5), K5: at(6), K6: at(7),
	}
}

// Coeffs returns the coefficients in solver order.
func (d Distortion) Coeffs() []float64 {
	return []float64{d.K1, d.K2, d.P1, d.P2, d.K3, d.K4, d.K5, d.K6}
}

// Camera is the calibration of a single camera.
type Camera struct {
	Intrinsics Intrinsics `json:"intrinsics"`
	Distortion Distortion `json:"distortion"`
	RMSError   float64    `json:"rms_error"`
	// PerViewErrors holds the reprojection error of each calibration image, if known.
	PerViewErrors []float64 `json:"per_view_errors,omitempty"`
}

// Stereo holds the extrinsics between the left and right cameras.
type Stereo struct {
	R *mat.Dense // rotation, left to right
	T r3.Vector  // translation in mm
}

// Result is one completed calibration run. It is not modified after loading.
type Result struct {
	Left       Camera
	Right      *Camera // nil for single-camera runs
	Stereo     *Stereo // nil for single-camera runs
	Resolution Resolution
	RMSError   float64

	// baselineMM overrides |T| when the parameter file carries an explicit baseline.
	baselineMM float64
}

// IsStereo reports whether the result describes a stereo rig.
func (r *Result) IsStereo() bool {
	return r.Right != nil
}

// Baseline returns the distance between the optical centres in mm.
func (r *Result) Baseline() float64 {
	if r.baselineMM > 0 {
		return r.baselineMM
	}
	if r.Stereo == nil {
		return 0
	}
	return r.Stereo.T.Norm()
}

// SetBaseline overrides the baseline derived from the translation vector.
func (r *Result) SetBaseline(mm float64) {
	r.baselineMM = mm
}

// RotationDegrees returns the stereo rotation as a Rodrigues vector in degrees.
func (r *Result) RotationDegrees() r3.Vector {
	if r.Stereo == nil || r.Stereo.R == nil {
		return r3.Vector{}
	}
	return rodrigues(r.Stereo.R).Mul(180 / math.Pi)
}

// rodrigues converts a rotation matrix to an axis-angle vector.
func rodrigues(rm mat.Matrix) r3.Vector {
	trace := rm.At(0, 0) + rm.At(1, 1) + rm.At(2, 2)
	cos := math.Max(-1, math.Min(1, (trace-1)/2))
	theta := math.Acos(cos)
	if theta < 1e-9 {
		return r3.Vector{}
	}
	axis := r3.Vector{
		X: rm.At(2, 1) - rm.At(1, 2),
		Y: rm.At(0, 2) - rm.At(2, 0),
		Z: rm.At(1, 0) - rm.At(0, 1),
	}
	if axis.Norm() < 1e-12 {
		// theta close to pi; recover the axis from the diagonal.
		axis = r3.Vector{
			X: math.Sqrt(math.Max(0, (rm.At(0, 0)+1)/2)),
			Y: math.Sqrt(math.Max(0, (rm.At(1, 1)+1)/2)),
			Z: math.Sqrt(math.Max(0, (rm.At(2, 2)+1)/2)),
		}
	}
	return axis.Normalize().Mul(theta)
}
