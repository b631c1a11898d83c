package seal

import (
	"fmt"
	"math"
	"strconv"
)

// ValueKind is the numeric type of a field's columns.
type ValueKind int

const (
	Int ValueKind = iota
	Float
)

// Field maps a named value group to a line and column range of a SEAL file.
type Field struct {
	Name string
	Line int // 1-based
	Kind ValueKind
	// MinColumns is how many values a template must carry on the line.
	MinColumns int
	// Write is the half-open column range the exporter overwrites.
	// Protected fields leave it empty.
	Write     [2]int
	Protected bool
}

// Writes reports whether the exporter overwrites this field.
func (f Field) Writes() bool {
	return !f.Protected && f.Write[1] > f.Write[0]
}

// Field names of the SEAL layout.
const (
	FieldResolution   = "resolution"
	FieldScaleFactors = "scale_factors"
	FieldOffsetCenter = "offset_center"
	FieldOffsetTilt   = "offset_tilt"
	FieldLeftCamera   = "left_camera"
	FieldRightCamera  = "right_camera"
	FieldProjector    = "projector"
)

// CameraColumns is the number of calibrated values on a camera line:
// fx fy cx cy k1 k2 p1 p2 k3 k4 k5 k6. Up to three vendor extras follow.
const CameraColumns = 12

// MetadataMarker starts the metadata line that closes the table region.
const MetadataMarker = "***DevID:"

// Schema declares the line layout of a SEAL file.
type Schema struct {
	Fields []Field
	// TableStart is the first line of the lookup and Gray-code tables.
	// Tables run until the metadata line.
	TableStart int
	// MinLines is the shortest template accepted.
	MinLines int
}

// DefaultSchema returns the layout of SEAL calibration files.
func DefaultSchema() *Schema {
	return &Schema{
		Fields: []Field{
			{Name: FieldResolution, Line: 1, Kind: Int, MinColumns: 2, Write: [2]int{0, 2}},
			{Name: FieldScaleFactors, Line: 2, Kind: Float, MinColumns: 2, Protected: true},
			{Name: FieldOffsetCenter, Line: 3, Kind: Int, MinColumns: 2, Protected: true},
			{Name: FieldOffsetTilt, Line: 4, Kind: Int, MinColumns: 2, Protected: true},
			{Name: FieldLeftCamera, Line: 5, Kind: Float, MinColumns: 9, Write: [2]int{0, CameraColumns}},
			{Name: FieldRightCamera, Line: 6, Kind: Float, MinColumns: 9, Write: [2]int{0, CameraColumns}},
			{Name: FieldProjector, Line: 7, Kind: Float, MinColumns: 9, Protected: true},
		},
		TableStart: 8,
		MinLines:   10,
	}
}

// Field returns the named field.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Validate checks the schema is self-consistent: fields sit on distinct lines
// before the tables, and write ranges fit the columns.
func (s *Schema) Validate() error {
	if s.TableStart < 2 {
		return fmt.Errorf("schema: table start %d must be after line 1", s.TableStart)
	}
	// At least one table line and the metadata line follow the fields.
	if s.MinLines < s.TableStart+1 {
		return fmt.Errorf("schema: min lines %d leaves no room for tables and metadata", s.MinLines)
	}
	seen := make(map[int]string)
	names := make(map[string]bool)
	for _, f := range s.Fields {
		if f.Line < 1 || f.Line >= s.TableStart {
			return fmt.Errorf("schema: field %s on line %d outside 1..%d", f.Name, f.Line, s.TableStart-1)
		}
		if other, ok := seen[f.Line]; ok {
			return fmt.Errorf("schema: fields %s and %s share line %d", other, f.Name, f.Line)
		}
		if names[f.Name] {
			return fmt.Errorf("schema: duplicate field %s", f.Name)
		}
		seen[f.Line] = f.Name
		names[f.Name] = true
		if f.Write[0] < 0 || f.Write[1] < f.Write[0] {
			return fmt.Errorf("schema: field %s has invalid write range %v", f.Name, f.Write)
		}
		if f.Protected && f.Write[1] > f.Write[0] {
			return fmt.Errorf("schema: protected field %s declares a write range", f.Name)
		}
		if f.Writes() && f.Write[0] > f.MinColumns {
			return fmt.Errorf("schema: field %s writes from column %d past its %d required columns", f.Name, f.Write[0], f.MinColumns)
		}
	}
	return nil
}

// check validates one template line against its field.
func (f Field) check(line string) ([]float64, error) {
	toks := splitTokens(line)
	if len(toks.vals) < f.MinColumns {
		return nil, formatErr(f.Line, f.Name, "has %d values, expected at least %d", len(toks.vals), f.MinColumns)
	}
	if f.Kind == Int {
		out := make([]float64, len(toks.vals))
		for i, v := range toks.vals {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, formatErr(f.Line, f.Name, "column %d: %q is not an integer", i+1, v)
			}
			out[i] = float64(n)
		}
		return out, nil
	}
	vals, err := toks.floats(-1)
	if err != nil {
		return nil, formatErr(f.Line, f.Name, "%v", err)
	}
	return vals, nil
}

// apply overwrites the field's write range in line with vals, keeping the
// template's separators and per-column precision. Columns beyond the range
// are left untouched.
func (f Field) apply(line string, vals []float64) string {
	toks := splitTokens(line)
	for i := f.Write[0]; i < f.Write[1] && i-f.Write[0] < len(vals); i++ {
		v := vals[i-f.Write[0]]
		var s string
		if f.Kind == Int {
			s = strconv.Itoa(int(math.Round(v)))
		} else if i < len(toks.vals) {
			s = formatOf(toks.vals[i]).format(v)
		} else {
			s = numberFormat{verb: 'f', prec: DefaultPrecision}.format(v)
		}
		toks.set(i, s)
	}
	return toks.String()
}
