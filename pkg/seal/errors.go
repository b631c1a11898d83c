package seal

import "fmt"

// TemplateFormatError reports a SEAL file that does not match the schema:
// too few lines, a missing marker, or an unparsable field. It is fatal.
type TemplateFormatError struct {
	Path   string
	Line   int // 1-based; 0 when the error concerns the whole file
	Field  string
	Reason string
}

func (e *TemplateFormatError) Error() string {
	msg := "seal template"
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(": line %d", e.Line)
	}
	if e.Field != "" {
		msg += " (" + e.Field + ")"
	}
	return msg + ": " + e.Reason
}

func formatErr(line int, field, reason string, args ...any) *TemplateFormatError {
	return &TemplateFormatError{Line: line, Field: field, Reason: fmt.Sprintf(reason, args...)}
}

// MissingTemplateWarning is attached to documents exported without a
// template. The factory lines hold placeholder defaults and the file must not
// be flashed to a production device.
type MissingTemplateWarning struct{}

func (MissingTemplateWarning) Error() string {
	return "no SEAL template given: factory lines 2-4, projector and tables use placeholder defaults; output is NOT for production use"
}
