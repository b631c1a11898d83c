package calib

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/sbinet/npyio/npz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const stereoJSON = `{
  "K_left": [[850.2, 0, 640.0], [0, 849.7, 360.0], [0, 0, 1]],
  "dist_left": [[-0.12, 0.05, 0.0001, -0.0002, 0.3]],
  "K_right": [[851.0, 0, 641.5], [0, 850.4, 359.2], [0, 0, 1]],
  "dist_right": [[-0.11, 0.04, 0.0002, -0.0001, 0.2, 0.01, 0.02, 0.03]],
  "R": [[1, 0, 0], [0, 1, 0], [0, 0, 1]],
  "T": [[-60.0], [0.3], [-7.8]],
  "img_size": [1280, 720],
  "rms_error": 0.42,
  "errors_left": [0.3, 0.4, 1.2, 0.2],
  "errors_right": [0.35, 0.45, 0.5, 0.25]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_StereoJSON(t *testing.T) {
	res, err := Load(writeFile(t, "stereo_calibration.json", stereoJSON))
	require.NoError(t, err)

	assert.True(t, res.IsStereo())
	assert.Equal(t, Intrinsics{Fx: 850.2, Fy: 849.7, Cx: 640, Cy: 360}, res.Left.Intrinsics)
	assert.Equal(t, Distortion{K1: -0.12, K2: 0.05, P1: 0.0001, P2: -0.0002, K3: 0.3}, res.Left.Distortion)
	assert.Equal(t, 0.03, res.Right.Distortion.K6)
	assert.Equal(t, SEALResolution, res.Resolution)
	assert.Equal(t, 0.42, res.RMSError)
	assert.Equal(t, []float64{0.3, 0.4, 1.2, 0.2}, res.Left.PerViewErrors)
	assert.InDelta(t, math.Sqrt(60*60+0.3*0.3+7.8*7.8), res.Baseline(), 1e-9)
}

func TestLoad_SingleCameraJSON(t *testing.T) {
	res, err := Load(writeFile(t, "camera.json", `{
		"K": [850.2, 0, 640, 0, 849.7, 360, 0, 0, 1],
		"dist": [-0.12, 0.05, 0.0001, -0.0002],
		"img_size": [1920, 1080],
		"rms_error": 1.3
	}`))
	require.NoError(t, err)
	assert.False(t, res.IsStereo())
	assert.Nil(t, res.Stereo)
	assert.Zero(t, res.Baseline())
	assert.Zero(t, res.Left.Distortion.K3)

	a := Assess(res)
	assert.Equal(t, VerdictPoor, a.Verdict)
	assert.Len(t, a.Notes, 2)
}

func TestLoad_InputErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		key     string
	}{
		{"wrong extension", "params.txt", "1 2 3", ""},
		{"bad json", "params.json", "{", ""},
		{"non numeric", "params.json", `{"K": "x"}`, "K"},
		{"missing size", "params.json", `{"rms_error": 0.3}`, KeyImgSize},
		{"missing rms", "params.json", `{"img_size": [1280, 720]}`, KeyRMSError},
		{"short K", "params.json", `{"img_size": [1280, 720], "rms_error": 0.3, "K": [1, 2, 3], "dist": [0, 0, 0, 0]}`, KeyK},
		{"zero focal", "params.json", `{"img_size": [1280, 720], "rms_error": 0.3, "K": [0, 0, 640, 0, 0, 360, 0, 0, 1], "dist": [0, 0, 0, 0]}`, KeyK},
		{"bad size", "params.json", `{"img_size": [0, 720], "rms_error": 0.3}`, KeyImgSize},
		{"stereo without T", "params.json", `{"img_size": [1280, 720], "rms_error": 0.3,
			"K_left": [1, 0, 1, 0, 1, 1, 0, 0, 1], "dist_left": [0, 0, 0, 0],
			"K_right": [1, 0, 1, 0, 1, 1, 0, 0, 1], "dist_right": [0, 0, 0, 0],
			"R": [1, 0, 0, 0, 1, 0, 0, 0, 1]}`, KeyT},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			var ie *InputError
			require.True(t, errors.As(err, &ie), "got %v", err)
			assert.Equal(t, tt.key, ie.Key)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.npz"))
	var ie *InputError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "file not found", ie.Reason)
}

func TestFromArrays_NotFinite(t *testing.T) {
	_, err := FromArrays("mem", map[string][]float64{
		KeyImgSize:  {1280, 720},
		KeyRMSError: {math.NaN()},
	})
	var ie *InputError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, KeyRMSError, ie.Key)
}

func TestResult_BaselineOverride(t *testing.T) {
	res := &Result{Stereo: &Stereo{T: r3.Vector{X: 3, Y: 4}}}
	assert.Equal(t, 5.0, res.Baseline())
	res.SetBaseline(60.5)
	assert.Equal(t, 60.5, res.Baseline())
}

func TestResult_RotationDegrees(t *testing.T) {
	// 90 degrees about Z.
	res := &Result{Stereo: &Stereo{R: mat.NewDense(3, 3, []float64{
		0, -1, 0,
		1, 0, 0,
		0, 0, 1,
	})}}
	got := res.RotationDegrees()
	assert.InDelta(t, 0, got.X, 1e-9)
	assert.InDelta(t, 0, got.Y, 1e-9)
	assert.InDelta(t, 90, got.Z, 1e-9)

	res.Stereo.R = mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	assert.Equal(t, r3.Vector{}, res.RotationDegrees())
}

func TestIntrinsics_Matrix(t *testing.T) {
	in := Intrinsics{Fx: 850.2, Fy: 849.7, Cx: 640, Cy: 360}
	assert.Equal(t, in, IntrinsicsFromMatrix(in.Matrix()))
}

func TestDistortion_Coeffs(t *testing.T) {
	d := DistortionFromCoeffs([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7, 8}, d.Coeffs())
}

func TestGrade(t *testing.T) {
	tests := []struct {
		rms  float64
		want Verdict
	}{
		{0.1, VerdictExcellent},
		{0.5, VerdictGood},
		{0.99, VerdictGood},
		{1.0, VerdictPoor},
		{2.5, VerdictPoor},
	}
	for _, tt := range tests {
		if got := Grade(tt.rms); got != tt.want {
			t.Errorf("Grade(%v) = %q, want %q", tt.rms, got, tt.want)
		}
	}
}

func TestAssess_Outliers(t *testing.T) {
	res, err := Load(writeFile(t, "stereo.json", stereoJSON))
	require.NoError(t, err)

	a := Assess(res)
	assert.Equal(t, VerdictExcellent, a.Verdict)
	assert.Equal(t, []int{2}, a.OutliersLeft)
	assert.Empty(t, a.OutliersRight)
	assert.Len(t, a.Notes, 1)
}

func writeNPZ(t *testing.T, name string, arrays map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	w, err := npz.Create(path)
	require.NoError(t, err)
	for key, v := range arrays {
		require.NoError(t, w.Write(key, v), key)
	}
	require.NoError(t, w.Close())
	return path
}

func TestLoad_StereoNPZ(t *testing.T) {
	path := writeNPZ(t, "stereo_calibration.npz", map[string]any{
		KeyKLeft:       []float64{850.2, 0, 640, 0, 849.7, 360, 0, 0, 1},
		KeyDistLeft:    []float64{-0.12, 0.05, 0.0001, -0.0002, 0.3},
		KeyKRight:      []float64{851, 0, 641.5, 0, 850.4, 359.2, 0, 0, 1},
		KeyDistRight:   []float32{-0.11, 0.04, 0.0002, -0.0001, 0.2},
		KeyR:           []float64{1, 0, 0, 0, 1, 0, 0, 0, 1},
		KeyT:           []float64{-60.5, 0, 0},
		KeyImgSize:     []int64{1280, 720},
		KeyRMSError:    0.42,
		KeyErrorsLeft:  []float64{0.3, 1.4},
		"E":            []float64{0, 0, 0, 0, 0, 60.5, 0, -60.5, 0},
		KeyBaseline:    60.5,
		KeyErrorsRight: []int32{0, 1},
	})

	res, err := Load(path)
	require.NoError(t, err)
	assert.True(t, res.IsStereo())
	assert.Equal(t, Intrinsics{Fx: 850.2, Fy: 849.7, Cx: 640, Cy: 360}, res.Left.Intrinsics)
	assert.InDelta(t, -0.11, res.Right.Distortion.K1, 1e-7)
	assert.Equal(t, SEALResolution, res.Resolution)
	assert.Equal(t, 0.42, res.RMSError)
	assert.Equal(t, 60.5, res.Baseline())
	assert.Equal(t, []float64{0.3, 1.4}, res.Left.PerViewErrors)
	assert.Equal(t, []float64{0, 1}, res.Right.PerViewErrors)
}

func TestLoad_SingleCameraNPZ(t *testing.T) {
	path := writeNPZ(t, "camera.npz", map[string]any{
		KeyK:        []float64{850.2, 0, 640, 0, 849.7, 360, 0, 0, 1},
		KeyDist:     []float32{-0.125, 0.0625, 0, 0, 0.25},
		KeyImgSize:  []int64{1920, 1080},
		KeyRMSError: 0.75,
	})

	res, err := Load(path)
	require.NoError(t, err)
	assert.False(t, res.IsStereo())
	assert.Equal(t, Resolution{Width: 1920, Height: 1080}, res.Resolution)
	assert.Equal(t, 0.75, res.RMSError)
	assert.Equal(t, Distortion{K1: -0.125, K2: 0.0625, K3: 0.25}, res.Left.Distortion)
	assert.Equal(t, VerdictGood, Assess(res).Verdict)

	// Missing required arrays are reported by key.
	_, err = Load(writeNPZ(t, "partial.npz", map[string]any{KeyImgSize: []int64{1280, 720}}))
	var ie *InputError
	require.True(t, errors.As(err, &ie), "got %v", err)
	assert.Equal(t, KeyRMSError, ie.Key)
}
