package platform

import (
	"fmt"
	"strings"
)

// Agriplex sheet layout, 0-based.
const (
	agriRowMarkerID   = 3
	agriRowAltName    = 4
	agriRowRef        = 5
	agriRowAlt        = 6
	agriRowFirstCall  = 7
	agriColSampleID   = 2
	agriColFirstCall  = 3
	agriLabelMarkerID = "Customer Marker ID"
)

// ReadAgriplex reads an Agriplex export (.xlsx, .xls or delimited text).
func ReadAgriplex(path string) (*Matrix, error) {
	g, err := readGrid(path)
	if err != nil {
		return nil, err
	}
	return parseAgriplex(g, path)
}

// parseAgriplex extracts markers from rows 4-7 and samples from row 8 on.
// Column 3 holds sample IDs and calls start at column 4, unless that column
// carries the "Customer Marker ID" label, in which case it is skipped.
func parseAgriplex(g grid, path string) (*Matrix, error) {
	if len(g) <= agriRowAlt {
		return nil, &FormatError{
			Path:    path,
			Message: fmt.Sprintf("agriplex export needs at least %d rows, found %d", agriRowAlt+1, len(g)),
		}
	}

	first := agriColFirstCall
	if strings.EqualFold(g.cell(agriRowMarkerID, first), agriLabelMarkerID) {
		first++
	}

	m := &Matrix{Platform: Agriplex}
	var cols []int
	width := g.width(agriRowMarkerID, agriRowAltName, agriRowRef, agriRowAlt)
	for c := first; c < width; c++ {
		mk := Marker{
			ID:      g.cell(agriRowMarkerID, c),
			AltName: g.cell(agriRowAltName, c),
			Ref:     g.cell(agriRowRef, c),
			Alt:     g.cell(agriRowAlt, c),
		}
		if mk.ID == "" && mk.AltName == "" {
			continue
		}
		m.Markers = append(m.Markers, mk)
		cols = append(cols, c)
	}
	if len(m.Markers) == 0 {
		return nil, &FormatError{Path: path, Row: agriRowMarkerID + 1, Message: "no marker IDs found"}
	}

	var sampleRows []int
	for r := agriRowFirstCall; r < len(g); r++ {
		if g.blank(r) {
			continue
		}
		id := g.cell(r, agriColSampleID)
		if id == "" {
			return nil, &FormatError{Path: path, Row: r + 1, Message: "genotype row without sample ID"}
		}
		m.Samples = append(m.Samples, id)
		sampleRows = append(sampleRows, r)
	}

	m.Calls = make([][]string, len(cols))
	for i, c := range cols {
		row := make([]string, len(sampleRows))
		for j, r := range sampleRows {
			row[j] = g.cell(r, c)
		}
		m.Calls[i] = row
	}
	return m, nil
}
