package hapmap

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Writer writes HapMap tab-separated text.
type Writer struct {
	w *bufio.Writer
}

// NewWriter creates a writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteHeader writes the header line for samples.
func (hw *Writer) WriteHeader(samples []string) error {
	_, err := hw.w.WriteString(strings.Join(FixedColumns, "\t"))
	if err != nil {
		return err
	}
	for _, s := range samples {
		if _, err := hw.w.WriteString("\t" + s); err != nil {
			return err
		}
	}
	return hw.w.WriteByte('\n')
}

// Write writes one record.
func (hw *Writer) Write(r *Record) error {
	_, err := hw.w.WriteString(strings.Join(r.Fields(), "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (hw *Writer) Flush() error {
	return hw.w.Flush()
}

// WriteTable writes a complete table.
func WriteTable(w io.Writer, t *Table) error {
	hw := NewWriter(w)
	if err := hw.WriteHeader(t.Samples); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range t.Records {
		if err := hw.Write(r); err != nil {
			return fmt.Errorf("write record %s: %w", r.ID, err)
		}
	}
	return hw.Flush()
}

// WriteFile writes t to path, replacing any existing file. Paths ending in
// .gz are gzip-compressed.
func WriteFile(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create hapmap file: %w", err)
	}

	var w io.Writer = f
	var gz *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gz = gzip.NewWriter(f)
		w = gz
	}

	if err := WriteTable(w, t); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			f.Close()
			return fmt.Errorf("close gzip writer: %w", err)
		}
	}
	return f.Close()
}
