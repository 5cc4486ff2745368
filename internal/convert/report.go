package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
)

// droppedRow is one line of the dropped-marker audit.
type droppedRow struct {
	Marker   string `csv:"marker"`
	MarkerID string `csv:"marker_id"`
	Ref      string `csv:"ref"`
	Alt      string `csv:"alt"`
	Reason   string `csv:"reason"`
}

// WriteDropped writes the dropped markers as CSV with a header line.
func WriteDropped(w io.Writer, drops []*DropError) error {
	rows := make([]*droppedRow, 0, len(drops))
	for _, d := range drops {
		rows = append(rows, &droppedRow{
			Marker:   d.Marker.Name(),
			MarkerID: d.Marker.ID,
			Ref:      d.Ref,
			Alt:      d.Alt,
			Reason:   ErrMultiAllelic.Error(),
		})
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("write dropped markers: %w", err)
	}
	return nil
}

// WriteDroppedFile writes the dropped-marker audit to path.
func WriteDroppedFile(path string, drops []*DropError) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dropped marker file: %w", err)
	}
	if err := WriteDropped(f, drops); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// FilteredPath names the resolved-only sibling of a HapMap output file:
// out.txt becomes out.filtered.txt.
func FilteredPath(out string) string {
	return siblingPath(out, ".filtered", filepath.Ext(out))
}

// DroppedPath names the dropped-marker audit for a HapMap output file.
func DroppedPath(out string) string {
	return siblingPath(out, ".dropped", ".csv")
}

func siblingPath(out, tag, ext string) string {
	return strings.TrimSuffix(out, filepath.Ext(out)) + tag + ext
}
