// Package sealcal turns stereo camera calibration results into SEAL scanner
// calibration files.
//
// # Installation
//
//	go install github.com/gwillem/sealcal/cmd/sealcal@latest
//
// # Usage
//
// Write a configuration file pointing at the device's factory SEAL file:
//
//	sealcal init --template calibJMS1006207.txt --dev-id JMS1006207
//
// Then calibrate and export in one go:
//
//	sealcal calibrate --rows 6 --cols 9 --square-size 25
//
// or export an existing parameter file:
//
//	sealcal export stereo_calibration.npz
//
// Without a template the factory lines are filled with placeholders and the
// file is marked non-production.
//
// # Packages
//
//   - cmd/sealcal: CLI with calibrate, export, inspect, summary, history and pattern commands
//   - pkg/calib: Calibration results, parameter file loading and quality checks
//   - pkg/pattern: Calibration board definitions
//   - pkg/seal: SEAL template parsing and export
//   - pkg/history: Export manifests and history database
//   - pkg/report: Terminal tables, charts and plots
package sealcal
