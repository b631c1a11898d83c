package seal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Document is an exported SEAL file held in memory.
type Document struct {
	Lines []string
	EOL   string
	// NonProduction is set when no template supplied the factory lines.
	NonProduction bool
	// Warnings are non-fatal findings for the caller to surface.
	Warnings []error
	Metadata Metadata

	template *Template
}

// Template returns the template the document was built from, or nil.
func (d *Document) Template() *Template {
	return d.template
}

// String renders the document with a trailing line terminator.
func (d *Document) String() string {
	eol := d.EOL
	if eol == "" {
		eol = "\n"
	}
	return strings.Join(d.Lines, eol) + eol
}

// WriteTo writes the rendered document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.String())
	return int64(n), err
}

// Save writes the document to path, creating parent directories.
func (d *Document) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(d.String()), 0644); err != nil {
		return fmt.Errorf("write SEAL file: %w", err)
	}
	return nil
}

// Contents decodes the rendered document, e.g. to verify a round trip.
func (d *Document) Contents() (*Contents, error) {
	return Decode(strings.NewReader(d.String()))
}

// Change is a line that differs from the template.
type Change struct {
	Line int // 1-based
	Old  string
	New  string
}

// Changes lists the lines that differ from the template. Without a template
// every line counts as new.
func (d *Document) Changes() []Change {
	var out []Change
	for i, l := range d.Lines {
		var old string
		if d.template != nil && i < d.template.Len() {
			old = d.template.lines[i]
			if old == l {
				continue
			}
		}
		out = append(out, Change{Line: i + 1, Old: old, New: l})
	}
	return out
}
