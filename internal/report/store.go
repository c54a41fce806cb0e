package report

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// Writer exports rendered reports to a directory.
type Writer struct {
	dir string
}

// NewWriter creates a Writer rooted at dir ("." for the working directory).
func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = "."
	}
	return &Writer{dir: dir}
}

// Save renders the report and writes it to <dir>/amie-report-<id>.md.
// The write is atomic: temp file in the same directory, then rename, so a
// crash mid-write never leaves a truncated report behind.
func (w *Writer) Save(r *Report) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", eris.Wrap(err, "report: create output dir")
	}

	path := filepath.Join(w.dir, "amie-report-"+r.RequestID+".md")
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(r.Markdown()), 0644); err != nil {
		return "", eris.Wrap(err, "report: write temp file")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", eris.Wrap(err, "report: rename temp file")
	}
	return path, nil
}
