package seal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	DefaultConfigFile = "sealcal.json"
	// DefaultOutputFile is the export file name inside OutputDir.
	DefaultOutputFile = "stereo_calibration_seal.txt"
)

// Defaults fill the protected lines when no template is available. The values
// are estimates for a generic SEAL scanner and are not accurate for scanning.
//
// The documented defaults carry no lookup or Gray-code tables: those are
// measured per device at the factory, so an untemplated export has an empty
// table region (the metadata line directly follows the projector line) unless
// Tables is configured.
type Defaults struct {
	ScaleFactors [2]float64 `json:"scale_factors"` // baseline scale, depth scale
	OffsetCenter [2]int     `json:"offset_center"` // dx, dy
	OffsetTilt   [2]int     `json:"offset_tilt"`   // tilt, height
	Projector    []float64  `json:"projector"`
	CameraExtras []float64  `json:"camera_extras"`
	// Tables are written verbatim between the projector and metadata lines.
	Tables []string `json:"tables,omitempty"`
}

// DefaultDefaults returns the documented placeholder values.
func DefaultDefaults() Defaults {
	return Defaults{
		ScaleFactors: [2]float64{11.6, 4.4},
		OffsetCenter: [2]int{162, 110},
		OffsetTilt:   [2]int{4, -80},
		Projector: []float64{
			2800, 2477, 542, 353,
			-0.22, -0.295, -0.000011, -0.000875,
			4.029662, -0.007206, -0.133619, -0.003511,
			28.377724, 0.011272, 1.662601,
		},
		CameraExtras: []float64{0, 0, 0},
	}
}

// Config holds the exporter and CLI settings.
type Config struct {
	// TemplatePath is the vendor file providing factory lines.
	TemplatePath string `json:"template,omitempty"`
	DevID        string `json:"dev_id,omitempty"`
	SoftVersion  string `json:"soft_version,omitempty"`
	OutputDir    string `json:"output_dir,omitempty"`
	HistoryDB    string `json:"history_db,omitempty"`
	// Solver is the external calibration command, program first.
	Solver []string `json:"solver,omitempty"`
	// UpdateRightCamera overwrites line 6 from the calibration. By default the
	// factory right (UV) camera line is kept from the template.
	UpdateRightCamera bool      `json:"update_right_camera,omitempty"`
	Defaults          *Defaults `json:"defaults,omitempty"`
}

// OutputPath is the export path inside OutputDir.
func (c *Config) OutputPath() string {
	return filepath.Join(c.OutputDir, DefaultOutputFile)
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		OutputDir: ".",
		HistoryDB: "sealcal.db",
		Solver:    []string{"python3", "stereo_calibration.py"},
	}
}

// LoadConfig loads configuration from the default config file
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(DefaultConfigFile)
}

// LoadConfigFrom loads configuration from a specific file. Fields missing
// from the file keep their DefaultConfig values.
func LoadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveTo saves configuration to a specific file
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ConfigExists returns true if the default config file exists
func ConfigExists() bool {
	_, err := os.Stat(DefaultConfigFile)
	return err == nil
}

// EffectiveDefaults returns the configured placeholders or the documented ones.
func (c *Config) EffectiveDefaults() Defaults {
	if c.Defaults != nil {
		return *c.Defaults
	}
	return DefaultDefaults()
}
