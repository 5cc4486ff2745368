package hapmap

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseError represents an error during HapMap parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("hapmap parse error at line %d: %s", e.Line, e.Message)
}

// required header columns by position
var requiredColumns = map[int]string{1: "alleles", 2: "chrom", 3: "pos"}

// ReadFile reads a HapMap table from path. Gzip, bzip2 and xz files are
// detected by their magic bytes.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open hapmap file: %w", err)
	}
	defer f.Close()

	r, closeFn, err := decompress(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer closeFn()

	t, err := ReadTable(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ReadTable parses HapMap text. The first non-empty line is the header.
func ReadTable(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	var (
		t          *Table
		lineNumber int
		width      int
	)

	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read line %d: %w", lineNumber+1, err)
		}
		if line == "" && errors.Is(err, io.EOF) {
			break
		}
		lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line != "" {
			fields := strings.Split(line, "\t")
			if t == nil {
				if perr := checkHeader(fields, lineNumber); perr != nil {
					return nil, perr
				}
				t = NewTable(fields[NumFixed:])
				width = len(fields)
			} else {
				if len(fields) != width {
					return nil, &ParseError{
						Line:    lineNumber,
						Message: fmt.Sprintf("expected %d columns, found %d", width, len(fields)),
					}
				}
				t.Records = append(t.Records, recordFromFields(fields))
			}
		}

		if errors.Is(err, io.EOF) {
			break
		}
	}

	if t == nil {
		return nil, &ParseError{Line: lineNumber, Message: "no header line found"}
	}
	return t, nil
}

func checkHeader(fields []string, line int) error {
	if len(fields) < NumFixed {
		return &ParseError{
			Line:    line,
			Message: fmt.Sprintf("header has %d columns, need at least %d", len(fields), NumFixed),
		}
	}
	for i, name := range requiredColumns {
		if !strings.EqualFold(strings.TrimSpace(fields[i]), name) {
			return &ParseError{
				Line:    line,
				Message: fmt.Sprintf("column %d is %q, expected %q", i+1, fields[i], name),
			}
		}
	}
	return nil
}
