// Package history keeps track of SEAL exports: a JSON manifest written next
// to each exported file and a SQLite log of every export.
package history

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gwillem/sealcal/pkg/calib"
	"github.com/gwillem/sealcal/pkg/seal"
)

// Record describes one export.
type Record struct {
	RunID          string    `json:"run_id"`
	CreatedAt      time.Time `json:"created_at"`
	Output         string    `json:"output"`
	TemplatePath   string    `json:"template_path,omitempty"`
	TemplateSHA256 string    `json:"template_sha256,omitempty"`
	NonProduction  bool      `json:"non_production"`
	DevID          string    `json:"dev_id"`
	CalibrateDate  string    `json:"calibrate_date"`
	SoftVersion    string    `json:"soft_version"`
	Resolution     string    `json:"resolution"`
	Stereo         bool      `json:"stereo"`
	RMSError       float64   `json:"rms_error"`
	Verdict        string    `json:"verdict"`
	BaselineMM     float64   `json:"baseline_mm,omitempty"`
}

// NewRecord builds the record for doc, exported from res to output. A fresh
// run id is assigned.
func NewRecord(output string, doc *seal.Document, res *calib.Result) *Record {
	rec := &Record{
		RunID:         uuid.New().String(),
		CreatedAt:     time.Now().UTC(),
		Output:        output,
		NonProduction: doc.NonProduction,
		DevID:         doc.Metadata.DevID,
		CalibrateDate: doc.Metadata.CalibrateDate,
		SoftVersion:   doc.Metadata.SoftVersion,
		Resolution:    fmt.Sprintf("%dx%d", res.Resolution.Width, res.Resolution.Height),
		Stereo:        res.IsStereo(),
		RMSError:      res.RMSError,
		Verdict:       string(calib.Grade(res.RMSError)),
		BaselineMM:    res.Baseline(),
	}
	if t := doc.Template(); t != nil {
		rec.TemplatePath = t.Path
		rec.TemplateSHA256 = t.Digest()
	}
	return rec
}
