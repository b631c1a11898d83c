package seal

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gwillem/sealcal/pkg/calib"
)

// Exporter merges calibration results into SEAL documents.
type Exporter struct {
	cfg    Config
	schema *Schema

	// Now stamps CalibrateDate. Defaults to time.Now.
	Now func() time.Time
}

// NewExporter validates schema (nil means DefaultSchema) and the configured
// metadata values once and returns an exporter bound to cfg.
func NewExporter(cfg Config, schema *Schema) (*Exporter, error) {
	if schema == nil {
		schema = DefaultSchema()
	}
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if err := CheckMetadataValue("device id", cfg.DevID); err != nil {
		return nil, err
	}
	if err := CheckMetadataValue("soft version", cfg.SoftVersion); err != nil {
		return nil, err
	}
	return &Exporter{cfg: cfg, schema: schema, Now: time.Now}, nil
}

// Export builds the SEAL document for res.
//
// With a template, every line is copied from it except the fields the schema
// marks writable (resolution, left camera, and the right camera when
// UpdateRightCamera is set) and the metadata line. Without a template the
// protected fields come from the configured Defaults, the document is marked
// NonProduction and carries a MissingTemplateWarning.
func (e *Exporter) Export(res *calib.Result, tmpl *Template) (*Document, error) {
	if res == nil {
		return nil, errors.New("export: no calibration result")
	}
	if tmpl == nil {
		return e.exportDefaults(res), nil
	}

	schema := tmpl.Schema()
	lines := tmpl.Lines()
	vals := e.calibratedValues(res)
	for _, f := range schema.Fields {
		v, ok := vals[f.Name]
		if !ok || !f.Writes() {
			continue
		}
		lines[f.Line-1] = f.apply(lines[f.Line-1], v)
	}

	meta := e.metadata(tmpl.Contents().Metadata, CalibrationType)
	lines[tmpl.meta] = meta.String()

	return &Document{
		Lines:    lines,
		EOL:      tmpl.eol,
		Metadata: meta,
		template: tmpl,
	}, nil
}

func (e *Exporter) exportDefaults(res *calib.Result) *Document {
	d := e.cfg.EffectiveDefaults()
	vals := e.calibratedValues(res)
	if _, ok := vals[FieldRightCamera]; !ok {
		// Single-camera run or right camera not updated: there is no factory
		// line to keep, so write the best calibration available.
		right := res.Left
		if res.Right != nil {
			right = *res.Right
		}
		vals[FieldRightCamera] = cameraValues(right)
	}
	vals[FieldLeftCamera] = append(vals[FieldLeftCamera], d.CameraExtras...)
	vals[FieldRightCamera] = append(vals[FieldRightCamera], d.CameraExtras...)
	vals[FieldScaleFactors] = d.ScaleFactors[:]
	vals[FieldOffsetCenter] = []float64{float64(d.OffsetCenter[0]), float64(d.OffsetCenter[1])}
	vals[FieldOffsetTilt] = []float64{float64(d.OffsetTilt[0]), float64(d.OffsetTilt[1])}
	vals[FieldProjector] = d.Projector

	lines := make([]string, e.schema.TableStart-1)
	for _, f := range e.schema.Fields {
		lines[f.Line-1] = render(f.Kind, vals[f.Name])
	}
	lines = append(lines, d.Tables...)

	meta := e.metadata(Metadata{}, NonProductionType)
	lines = append(lines, meta.String())

	return &Document{
		Lines:         lines,
		EOL:           "\n",
		NonProduction: true,
		Warnings:      []error{MissingTemplateWarning{}},
		Metadata:      meta,
	}
}

// calibratedValues maps writable field names to values from res.
func (e *Exporter) calibratedValues(res *calib.Result) map[string][]float64 {
	vals := map[string][]float64{
		FieldResolution: {float64(res.Resolution.Width), float64(res.Resolution.Height)},
		FieldLeftCamera: cameraValues(res.Left),
	}
	if e.cfg.UpdateRightCamera && res.Right != nil {
		vals[FieldRightCamera] = cameraValues(*res.Right)
	}
	return vals
}

func (e *Exporter) metadata(base Metadata, typ string) Metadata {
	return Metadata{
		DevID:         firstNonEmpty(e.cfg.DevID, base.DevID, UnknownDevID),
		CalibrateDate: e.Now().Format(DateLayout),
		Type:          typ,
		SoftVersion:   firstNonEmpty(e.cfg.SoftVersion, base.SoftVersion, DefaultSoftVersion),
	}
}

func render(kind ValueKind, vals []float64) string {
	parts := make([]string, len(vals))
	f := numberFormat{verb: 'f', prec: DefaultPrecision}
	for i, v := range vals {
		if kind == Int {
			parts[i] = strconv.Itoa(int(v))
		} else {
			parts[i] = f.format(v)
		}
	}
	return strings.Join(parts, " ")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
