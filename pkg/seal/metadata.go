package seal

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Metadata values written on recalibration.
const (
	// CalibrationType marks files produced from a vendor template.
	CalibrationType = "Sychev-calibration"
	// NonProductionType marks files exported without a template.
	NonProductionType = "Sychev-calibration-unverified"
	// DefaultSoftVersion is used when neither config nor template name one.
	DefaultSoftVersion = "3.0.0.1116"
	// UnknownDevID is used when no device id is known.
	UnknownDevID = "UNKNOWN"
	// DateLayout is the CalibrateDate format.
	DateLayout = "2006-01-02_15-04-05"
)

// Metadata is the trailing ***-delimited line of a SEAL file.
type Metadata struct {
	DevID         string
	CalibrateDate string
	Type          string
	SoftVersion   string
}

var (
	devIDRe   = regexp.MustCompile(`DevID:([^*]+)`)
	dateRe    = regexp.MustCompile(`CalibrateDate:([^*]+)`)
	typeRe    = regexp.MustCompile(`Type:([^*]+)`)
	versionRe = regexp.MustCompile(`SoftVersion:([^\s*]+)`)
)

// ParseMetadata extracts the known fields of a metadata line. Missing fields
// are left empty.
func ParseMetadata(line string) Metadata {
	find := func(re *regexp.Regexp) string {
		if m := re.FindStringSubmatch(line); m != nil {
			return m[1]
		}
		return ""
	}
	return Metadata{
		DevID:         find(devIDRe),
		CalibrateDate: find(dateRe),
		Type:          find(typeRe),
		SoftVersion:   find(versionRe),
	}
}

// CheckMetadataValue rejects values that would change the structure of the
// metadata line: the "*" field delimiter, line breaks and surrounding
// whitespace.
func CheckMetadataValue(name, v string) error {
	switch {
	case strings.ContainsAny(v, "*\r\n"):
		return fmt.Errorf("%s %q must not contain '*' or line breaks", name, v)
	case strings.TrimSpace(v) != v:
		return fmt.Errorf("%s %q has leading or trailing whitespace", name, v)
	}
	return nil
}

// Date parses CalibrateDate in local time.
func (m Metadata) Date() (time.Time, error) {
	return time.ParseInLocation(DateLayout, m.CalibrateDate, time.Local)
}

func (m Metadata) String() string {
	return fmt.Sprintf("***DevID:%s***CalibrateDate:%s***Type:%s***SoftVersion:%s",
		m.DevID, m.CalibrateDate, m.Type, m.SoftVersion)
}
