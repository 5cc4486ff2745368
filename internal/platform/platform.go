// Package platform reads genotyping platform exports into a marker-major
// genotype matrix.
package platform

import (
	"errors"
	"fmt"
	"strings"
)

// Platform identifies an export layout.
type Platform int

const (
	// Agriplex is the fixed-layout SNP-array spreadsheet export (selector 1).
	Agriplex Platform = iota + 1
	// Dart is the CSV SNP-calling export, one row per sample (selector 2).
	Dart
)

// ErrUnknownPlatform is returned for an unrecognized platform selector.
var ErrUnknownPlatform = errors.New("unknown platform")

// ParsePlatform accepts the numeric selectors 1 and 2 or the platform names.
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "agriplex", "1krica":
		return Agriplex, nil
	case "2", "dart":
		return Dart, nil
	}
	return 0, fmt.Errorf("%w %q (want 1 for agriplex or 2 for dart)", ErrUnknownPlatform, s)
}

func (p Platform) String() string {
	switch p {
	case Agriplex:
		return "agriplex"
	case Dart:
		return "dart"
	}
	return fmt.Sprintf("platform(%d)", int(p))
}

// Marker is one variant site as named by the export.
type Marker struct {
	ID      string
	AltName string
	Ref     string
	Alt     string
}

// Name returns the name written to the rs# column: the alternate name when
// the platform provides one, the marker ID otherwise.
func (m Marker) Name() string {
	if m.AltName != "" {
		return m.AltName
	}
	return m.ID
}

// Other returns the marker's second identifier, or "" if it has only one.
func (m Marker) Other() string {
	if m.AltName != "" && m.AltName != m.ID {
		return m.ID
	}
	return ""
}

// Matrix holds one export in canonical orientation: one row of calls per
// marker, one column per sample, both in input order.
type Matrix struct {
	Platform Platform
	Markers  []Marker
	Samples  []string
	Calls    [][]string
}

// NumMarkers returns the number of markers.
func (m *Matrix) NumMarkers() int {
	return len(m.Markers)
}

// NumSamples returns the number of samples.
func (m *Matrix) NumSamples() int {
	return len(m.Samples)
}

// Validate checks that every marker has one call per sample.
func (m *Matrix) Validate() error {
	if len(m.Calls) != len(m.Markers) {
		return fmt.Errorf("matrix has %d call rows for %d markers", len(m.Calls), len(m.Markers))
	}
	for i, row := range m.Calls {
		if len(row) != len(m.Samples) {
			return fmt.Errorf("marker %s has %d calls for %d samples", m.Markers[i].Name(), len(row), len(m.Samples))
		}
	}
	return nil
}

// FormatError reports an export that does not match its platform layout.
type FormatError struct {
	Path    string
	Row     int // 1-based; 0 when not row specific
	Message string
}

func (e *FormatError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%s: row %d: %s", e.Path, e.Row, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Read reads an export of the given platform.
func Read(p Platform, path string) (*Matrix, error) {
	switch p {
	case Agriplex:
		return ReadAgriplex(path)
	case Dart:
		return ReadDart(path)
	}
	return nil, fmt.Errorf("%w %d", ErrUnknownPlatform, int(p))
}
