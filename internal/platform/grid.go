package platform

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/csimplestring/go-csv/detector"
	"github.com/extrame/xls"
	"github.com/h2non/filetype"
	"github.com/xuri/excelize/v2"
)

// Grid formats.
const (
	formatXLSX = "xlsx"
	formatXLS  = "xls"
	formatText = "text"
)

// grid is a sheet of cell strings, row-major, possibly ragged.
type grid [][]string

// cell returns the trimmed cell at 0-based row r and column c, or "".
func (g grid) cell(r, c int) string {
	if r < 0 || r >= len(g) || c < 0 || c >= len(g[r]) {
		return ""
	}
	return strings.TrimSpace(g[r][c])
}

// width returns the longest row length among rows.
func (g grid) width(rows ...int) int {
	w := 0
	for _, r := range rows {
		if r < len(g) && len(g[r]) > w {
			w = len(g[r])
		}
	}
	return w
}

// blank reports whether row r has no non-empty cell.
func (g grid) blank(r int) bool {
	if r >= len(g) {
		return true
	}
	for _, v := range g[r] {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// detectFormat sniffs the file content, falling back to the extension.
func detectFormat(path string) (string, error) {
	kind, err := filetype.MatchFile(path)
	if err != nil {
		return "", fmt.Errorf("open input: %w", err)
	}
	switch kind.Extension {
	case formatXLSX:
		return formatXLSX, nil
	case formatXLS:
		return formatXLS, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return formatXLSX, nil
	case ".xls":
		return formatXLS, nil
	}
	return formatText, nil
}

// readGrid reads the first sheet of a spreadsheet or a delimited text file.
func readGrid(path string) (grid, error) {
	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case formatXLSX:
		return readXLSX(path)
	case formatXLS:
		return readXLS(path)
	}
	return readDelimited(path)
}

func readXLSX(path string) (grid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &FormatError{Path: path, Message: "workbook has no sheets"}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return grid(rows), nil
}

func readXLS(path string) (grid, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, &FormatError{Path: path, Message: "workbook has no sheets"}
	}

	g := make(grid, 0, int(sheet.MaxRow)+1)
	for r := 0; r <= int(sheet.MaxRow); r++ {
		row := sheet.Row(r)
		if row == nil {
			g = append(g, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol()+1)
		for c := 0; c <= row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		g = append(g, cells)
	}
	return g, nil
}

func readDelimited(path string) (grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delimiterFor(path, bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return grid(rows), nil
}

// delimiterFor returns tab for .tsv files and otherwise the most likely
// delimiter of the content, defaulting to a comma.
func delimiterFor(path string, r io.Reader) rune {
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		return '\t'
	}
	d := detector.New()
	if delimiters := d.DetectDelimiter(r, '"'); len(delimiters) > 0 && delimiters[0] != "" {
		return rune(delimiters[0][0])
	}
	return ','
}
