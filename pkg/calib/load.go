package calib

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/sbinet/npyio/npz"
	"gonum.org/v1/gonum/mat"
)

// Array names written by the calibration solver.
const (
	KeyKLeft       = "K_left"
	KeyDistLeft    = "dist_left"
	KeyKRight      = "K_right"
	KeyDistRight   = "dist_right"
	KeyR           = "R"
	KeyT           = "T"
	KeyK           = "K"
	KeyDist        = "dist"
	KeyImgSize     = "img_size"
	KeyRMSError    = "rms_error"
	KeyBaseline    = "baseline"
	KeyErrorsLeft  = "errors_left"
	KeyErrorsRight = "errors_right"
	KeyErrors      = "per_view_errors"
)

// Load reads a calibration parameter file. The format is chosen by extension:
// ".npz" for numpy archives, ".json" for JSON objects of named arrays.
func Load(path string) (*Result, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, inputErr(path, "", "file not found", nil)
		}
		return nil, inputErr(path, "", "stat", err)
	}

	var (
		arrays map[string][]float64
		err    error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".npz":
		arrays, err = readNPZ(path)
	case ".json":
		arrays, err = readJSON(path)
	default:
		return nil, inputErr(path, "", fmt.Sprintf("unsupported extension %q (want .npz or .json)", ext), nil)
	}
	if err != nil {
		return nil, err
	}
	return FromArrays(path, arrays)
}

func readNPZ(path string) (map[string][]float64, error) {
	f, err := npz.Open(path)
	if err != nil {
		return nil, inputErr(path, "", "open npz", err)
	}
	defer f.Close()

	arrays := make(map[string][]float64)
	for _, key := range f.Keys() {
		vals, err := readNumeric(f, key)
		if err != nil {
			// E and F are stored too but never needed; only report keys we use.
			continue
		}
		arrays[strings.TrimSuffix(key, ".npy")] = vals
	}
	return arrays, nil
}

// readNumeric reads an npz entry as float64 regardless of the stored dtype.
func readNumeric(f *npz.Reader, key string) ([]float64, error) {
	var f64 []float64
	if err := f.Read(key, &f64); err == nil {
		return f64, nil
	}
	var f32 []float32
	if err := f.Read(key, &f32); err == nil {
		out := make([]float64, len(f32))
		for i, v := range f32 {
			out[i] = float64(v)
		}
		return out, nil
	}
	var i64 []int64
	if err := f.Read(key, &i64); err == nil {
		out := make([]float64, len(i64))
		for i, v := range i64 {
			out[i] = float64(v)
		}
		return out, nil
	}
	var i32 []int32
	if err := f.Read(key, &i32); err == nil {
		out := make([]float64, len(i32))
		for i, v := range i32 {
			out[i] = float64(v)
		}
		return out, nil
	}
	var scalar float64
	if err := f.Read(key, &scalar); err != nil {
		return nil, err
	}
	return []float64{scalar}, nil
}

func readJSON(path string) (map[string][]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, inputErr(path, "", "read", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, inputErr(path, "", "parse JSON", err)
	}
	arrays := make(map[string][]float64, len(raw))
	for key, v := range raw {
		vals, ok := flatten(v, nil)
		if !ok {
			return nil, inputErr(path, key, "not a numeric array", nil)
		}
		arrays[key] = vals
	}
	return arrays, nil
}

// flatten walks nested JSON arrays in row-major order.
func flatten(v any, dst []float64) ([]float64, bool) {
	switch t := v.(type) {
	case float64:
		return append(dst, t), true
	case []any:
		for _, e := range t {
			var ok bool
			if dst, ok = flatten(e, dst); !ok {
				return nil, false
			}
		}
		return dst, true
	default:
		return nil, false
	}
}

// FromArrays builds a Result from named, row-major flattened arrays.
// path is only used for error messages.
func FromArrays(path string, arrays map[string][]float64) (*Result, error) {
	get := func(key string, min int) ([]float64, error) {
		v, ok := arrays[key]
		if !ok {
			return nil, inputErr(path, key, "missing array", nil)
		}
		if len(v) < min {
			return nil, inputErr(path, key, fmt.Sprintf("has %d values, expected at least %d", len(v), min), nil)
		}
		for i, x := range v {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return nil, inputErr(path, key, fmt.Sprintf("value %d is not finite", i), nil)
			}
		}
		return v, nil
	}

	size, err := get(KeyImgSize, 2)
	if err != nil {
		return nil, err
	}
	res := &Result{Resolution: Resolution{Width: int(size[0]), Height: int(size[1])}}
	if res.Resolution.Width <= 0 || res.Resolution.Height <= 0 {
		return nil, inputErr(path, KeyImgSize, fmt.Sprintf("invalid resolution %dx%d", res.Resolution.Width, res.Resolution.Height), nil)
	}

	rms, err := get(KeyRMSError, 1)
	if err != nil {
		return nil, err
	}
	res.RMSError = rms[0]

	camera := func(kKey, distKey string) (Camera, error) {
		k, err := get(kKey, 9)
		if err != nil {
			return Camera{}, err
		}
		dist, err := get(distKey, 4)
		if err != nil {
			return Camera{}, err
		}
		in := IntrinsicsFromMatrix(mat.NewDense(3, 3, k[:9]))
		if in.Fx <= 0 || in.Fy <= 0 {
			return Camera{}, inputErr(path, kKey, "focal lengths must be positive", nil)
		}
		return Camera{
			Intrinsics: in,
			Distortion: DistortionFromCoeffs(dist),
			RMSError:   res.RMSError,
		}, nil
	}

	if _, stereo := arrays[KeyKLeft]; !stereo {
		if res.Left, err = camera(KeyK, KeyDist); err != nil {
			return nil, err
		}
		res.Left.PerViewErrors = arrays[KeyErrors]
		return res, nil
	}

	if res.Left, err = camera(KeyKLeft, KeyDistLeft); err != nil {
		return nil, err
	}
	right, err := camera(KeyKRight, KeyDistRight)
	if err != nil {
		return nil, err
	}
	res.Right = &right
	res.Left.PerViewErrors = arrays[KeyErrorsLeft]
	res.Right.PerViewErrors = arrays[KeyErrorsRight]

	rot, err := get(KeyR, 9)
	if err != nil {
		return nil, err
	}
	t, err := get(KeyT, 3)
	if err != nil {
		return nil, err
	}
	res.Stereo = &Stereo{
		R: mat.NewDense(3, 3, append([]float64(nil), rot[:9]...)),
		T: r3.Vector{X: t[0], Y: t[1], Z: t[2]},
	}
	if b, ok := arrays[KeyBaseline]; ok && len(b) > 0 && b[0] > 0 {
		res.SetBaseline(b[0])
	}
	return res, nil
}
