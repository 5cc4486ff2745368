// Package coord resolves marker identifiers to chromosome and position, either
// from an external coordinate table or from tokens embedded in the marker name.
package coord

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Field positions within a coordinate table line:
// name,f1,f2,chrom,pos,ref,alt[,...]
const (
	fieldName  = 0
	fieldChrom = 3
	fieldPos   = 4
	fieldRef   = 5
	fieldAlt   = 6
	minFields  = fieldAlt + 1
)

// Entry is one coordinate table line.
type Entry struct {
	Name  string
	Chrom string
	Pos   string
	Ref   string
	Alt   string
	Line  int
}

// Table maps lower-cased marker names to reference coordinates and alleles.
// It is read-only after construction.
type Table struct {
	entries    map[string]Entry
	malformed  int
	duplicates int
}

// LoadTable reads a coordinate table from disk.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open coordinate table: %w", err)
	}
	defer f.Close()

	t, err := ParseTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ParseTable parses comma-separated coordinate table content. Lines with too
// few fields are counted and skipped; the first line for a name wins.
func ParseTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	t := &Table{entries: make(map[string]Entry)}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read coordinate table: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if len(rec) < minFields || strings.TrimSpace(rec[fieldName]) == "" {
			t.malformed++
			continue
		}

		e := Entry{
			Name:  strings.TrimSpace(rec[fieldName]),
			Chrom: strings.TrimSpace(rec[fieldChrom]),
			Pos:   strings.TrimSpace(rec[fieldPos]),
			Ref:   strings.TrimSpace(rec[fieldRef]),
			Alt:   strings.TrimSpace(rec[fieldAlt]),
			Line:  line,
		}
		key := strings.ToLower(e.Name)
		if _, exists := t.entries[key]; exists {
			t.duplicates++
			continue
		}
		t.entries[key] = e
	}
	return t, nil
}

// Lookup finds a marker by name, ignoring case. A nil table finds nothing.
func (t *Table) Lookup(name string) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	e, ok := t.entries[strings.ToLower(strings.TrimSpace(name))]
	return e, ok
}

// Len returns the number of markers in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Malformed returns the number of skipped lines with too few fields.
func (t *Table) Malformed() int {
	if t == nil {
		return 0
	}
	return t.malformed
}

// Duplicates returns the number of ignored repeated names.
func (t *Table) Duplicates() int {
	if t == nil {
		return 0
	}
	return t.duplicates
}
