package history

import (
	"encoding/json"
	"fmt"
	"os"
)

// ManifestPath is the sidecar path for an exported SEAL file.
func ManifestPath(output string) string {
	return output + ".manifest.json"
}

// WriteManifest writes rec next to its output file.
func WriteManifest(rec *Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(ManifestPath(rec.Output), append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &rec, nil
}
