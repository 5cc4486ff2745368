package platform

import "fmt"

// DArT column layout, 0-based. Columns 0 and 1 hold plate and well.
const (
	dartColSubject   = 2
	dartColFirstCall = 3
)

// ReadDart reads a DArT export: a header row of plate, well, subject and
// marker names followed by one row per sample.
func ReadDart(path string) (*Matrix, error) {
	g, err := readGrid(path)
	if err != nil {
		return nil, err
	}
	return parseDart(g, path)
}

// parseDart transposes the sample-major export into marker-major form.
func parseDart(g grid, path string) (*Matrix, error) {
	header := -1
	for r := range g {
		if !g.blank(r) {
			header = r
			break
		}
	}
	if header < 0 {
		return nil, &FormatError{Path: path, Message: "empty export"}
	}
	if len(g[header]) <= dartColFirstCall {
		return nil, &FormatError{
			Path:    path,
			Row:     header + 1,
			Message: fmt.Sprintf("header needs plate, well, subject and marker columns, found %d columns", len(g[header])),
		}
	}

	m := &Matrix{Platform: Dart}
	for c := dartColFirstCall; c < len(g[header]); c++ {
		name := g.cell(header, c)
		if name == "" {
			return nil, &FormatError{Path: path, Row: header + 1, Message: fmt.Sprintf("column %d has no marker name", c+1)}
		}
		m.Markers = append(m.Markers, Marker{ID: name})
	}

	var sampleRows []int
	for r := header + 1; r < len(g); r++ {
		if g.blank(r) {
			continue
		}
		id := g.cell(r, dartColSubject)
		if id == "" {
			return nil, &FormatError{Path: path, Row: r + 1, Message: "sample row without subject ID"}
		}
		m.Samples = append(m.Samples, id)
		sampleRows = append(sampleRows, r)
	}

	m.Calls = make([][]string, len(m.Markers))
	for i := range m.Markers {
		row := make([]string, len(sampleRows))
		for j, r := range sampleRows {
			row[j] = g.cell(r, dartColFirstCall+i)
		}
		m.Calls[i] = row
	}
	return m, nil
}
