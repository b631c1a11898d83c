package seal

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gwillem/sealcal/pkg/calib"
)

// Contents is the decoded view of a SEAL file.
type Contents struct {
	Resolution   calib.Resolution
	ScaleFactors [2]float64
	OffsetCenter [2]int
	OffsetTilt   [2]int
	Left         calib.Camera
	Right        calib.Camera
	LeftExtras   []float64
	RightExtras  []float64
	Projector    []float64
	// Tables holds the lookup and Gray-code table lines verbatim.
	Tables      []string
	Metadata    Metadata
	HasMetadata bool
}

// Template is a validated vendor SEAL file used as the source of protected
// lines. It is never modified after parsing.
type Template struct {
	Path string

	schema   *Schema
	lines    []string
	eol      string
	meta     int // 0-based index of the metadata line
	contents *Contents
	digest   string
}

// LoadTemplate reads and validates a template file.
func LoadTemplate(path string, schema *Schema) (*Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}
	defer f.Close()

	t, err := ParseTemplate(f, schema)
	if err != nil {
		var fe *TemplateFormatError
		if errors.As(err, &fe) {
			fe.Path = path
		}
		return nil, err
	}
	t.Path = path
	return t, nil
}

// ParseTemplate reads a template and validates it against schema (nil means
// DefaultSchema). A template must hold at least schema.MinLines lines, valid
// values for every field, one or more table lines and a metadata line.
func ParseTemplate(r io.Reader, schema *Schema) (*Template, error) {
	if schema == nil {
		schema = DefaultSchema()
	}
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	h := sha256.New()
	lines, eol, err := readLines(io.TeeReader(r, h))
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	if len(lines) < schema.MinLines {
		return nil, formatErr(0, "", "has %d lines, expected at least %d", len(lines), schema.MinLines)
	}

	contents, meta, err := decode(lines, schema)
	if err != nil {
		return nil, err
	}
	if meta < 0 {
		return nil, formatErr(0, "metadata", "missing %q marker after line %d", MetadataMarker, schema.TableStart-1)
	}
	if meta < schema.TableStart {
		return nil, formatErr(meta+1, "tables", "no lookup or Gray-code table lines before the metadata line")
	}

	return &Template{
		schema:   schema,
		lines:    lines,
		eol:      eol,
		meta:     meta,
		contents: contents,
		digest:   hex.EncodeToString(h.Sum(nil)),
	}, nil
}

// Lines returns a copy of the template lines.
func (t *Template) Lines() []string {
	return append([]string(nil), t.lines...)
}

// Len is the number of lines.
func (t *Template) Len() int {
	return len(t.lines)
}

// TableLines returns the 1-based inclusive range of the table region.
func (t *Template) TableLines() (first, last int) {
	return t.schema.TableStart, t.meta
}

// MetadataLine is the 1-based line number of the metadata line.
func (t *Template) MetadataLine() int {
	return t.meta + 1
}

// Contents returns the decoded template values.
func (t *Template) Contents() *Contents {
	return t.contents
}

// Digest is the hex SHA-256 of the template bytes as read.
func (t *Template) Digest() string {
	return t.digest
}

// Schema returns the schema the template was validated against.
func (t *Template) Schema() *Schema {
	return t.schema
}

// Decode parses any SEAL file, including untemplated exports which may be
// shorter than a template and lack tables.
func Decode(r io.Reader) (*Contents, error) {
	lines, _, err := readLines(r)
	if err != nil {
		return nil, err
	}
	c, _, err := decode(lines, DefaultSchema())
	return c, err
}

// DecodeFile is Decode for a path.
func DecodeFile(path string) (*Contents, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		var fe *TemplateFormatError
		if errors.As(err, &fe) {
			fe.Path = path
		}
		return nil, err
	}
	return c, nil
}

// decode validates the schema fields and locates the metadata line, which is
// searched backwards from the end. meta is -1 when there is none.
func decode(lines []string, schema *Schema) (*Contents, int, error) {
	if need := schema.TableStart - 1; len(lines) < need {
		return nil, -1, formatErr(0, "", "has %d lines, expected at least %d", len(lines), need)
	}

	c := &Contents{}
	for _, f := range schema.Fields {
		vals, err := f.check(lines[f.Line-1])
		if err != nil {
			return nil, -1, err
		}
		switch f.Name {
		case FieldResolution:
			c.Resolution = calib.Resolution{Width: int(vals[0]), Height: int(vals[1])}
		case FieldScaleFactors:
			c.ScaleFactors = [2]float64{vals[0], vals[1]}
		case FieldOffsetCenter:
			c.OffsetCenter = [2]int{int(vals[0]), int(vals[1])}
		case FieldOffsetTilt:
			c.OffsetTilt = [2]int{int(vals[0]), int(vals[1])}
		case FieldLeftCamera:
			c.Left, c.LeftExtras = cameraFromValues(vals)
		case FieldRightCamera:
			c.Right, c.RightExtras = cameraFromValues(vals)
		case FieldProjector:
			c.Projector = vals
		}
	}

	meta := -1
	for i := len(lines) - 1; i >= schema.TableStart-1; i-- {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), MetadataMarker) {
			meta = i
			break
		}
	}
	end := len(lines)
	if meta >= 0 {
		end = meta
		c.Metadata = ParseMetadata(lines[meta])
		c.HasMetadata = true
	}
	if end > schema.TableStart-1 {
		c.Tables = append([]string(nil), lines[schema.TableStart-1:end]...)
	}
	return c, meta, nil
}

// cameraFromValues maps fx fy cx cy k1 k2 p1 p2 k3 [k4 k5 k6] [extras...].
func cameraFromValues(v []float64) (calib.Camera, []float64) {
	cam := calib.Camera{
		Intrinsics: calib.Intrinsics{Fx: v[0], Fy: v[1], Cx: v[2], Cy: v[3]},
		Distortion: calib.DistortionFromCoeffs(v[4:min(len(v), CameraColumns)]),
	}
	var extras []float64
	if len(v) > CameraColumns {
		extras = append(extras, v[CameraColumns:]...)
	}
	return cam, extras
}

// cameraValues is the inverse of cameraFromValues for the calibrated columns.
func cameraValues(c calib.Camera) []float64 {
	in, d := c.Intrinsics, c.Distortion
	return []float64{in.Fx, in.Fy, in.Cx, in.Cy, d.K1, d.K2, d.P1, d.P2, d.K3, d.K4, d.K5, d.K6}
}

// readLines splits r into lines, dropping the line terminators and a leading
// UTF-8 BOM. Lines may end in LF or CRLF; the returned eol is "\r\n" when the
// first line ends that way, else "\n".
func readLines(r io.Reader) ([]string, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}
	s := strings.TrimPrefix(string(data), "\ufeff")
	eol := "\n"
	if i := strings.IndexByte(s, '\n'); i > 0 && s[i-1] == '\r' {
		eol = "\r\n"
	}
	s = strings.TrimSuffix(s, "\n")
	if s == "" || s == "\r" {
		return nil, eol, nil
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines, eol, nil
}
