package calib

import "fmt"

// InputError reports a missing or malformed calibration parameter file.
// It is fatal: no export is attempted after it.
type InputError struct {
	Path   string
	Key    string // offending array, empty when the file itself is unusable
	Reason string
	Err    error
}

func (e *InputError) Error() string {
	msg := "calibration input " + e.Path
	if e.Key != "" {
		msg += fmt.Sprintf(" [%s]", e.Key)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InputError) Unwrap() error {
	return e.Err
}

func inputErr(path, key, reason string, err error) error {
	return &InputError{Path: path, Key: key, Reason: reason, Err: err}
}
