package hapmap

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(t *testing.T) *Table {
	t.Helper()
	tbl := NewTable([]string{"S1", "S2", "S3"})
	require.NoError(t, tbl.Append(NewRecord("M1", "A/G", "3", "1500", []string{"A", "R", "G"})))
	require.NoError(t, tbl.Append(NewRecord("M2", "C/T", "999", "1", []string{"C", "N", "Y"})))
	return tbl
}

func TestTable_Header(t *testing.T) {
	tbl := NewTable([]string{"S2", "S1"})
	h := tbl.Header()

	require.Len(t, h, NumFixed+2)
	assert.Equal(t, FixedColumns, h[:NumFixed])
	assert.Equal(t, []string{"S2", "S1"}, h[NumFixed:])
}

func TestTable_AppendColumnCount(t *testing.T) {
	tbl := NewTable([]string{"S1", "S2"})
	err := tbl.Append(NewRecord("M1", "A/G", "1", "10", []string{"A"}))
	assert.ErrorIs(t, err, ErrColumnCount)
	assert.Zero(t, tbl.Len())
}

func TestNewRecord_Defaults(t *testing.T) {
	r := NewRecord("M1", "A/G", "1", "10", nil)
	fields := r.Fields()

	require.Len(t, fields, NumFixed)
	assert.Equal(t, []string{"M1", "A/G", "1", "10", "+", "NA", "NA", "NA", "NA", "NA", "NA"}, fields)
}

func TestWriteAndReadTable(t *testing.T) {
	tbl := sampleTable(t)

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, tbl))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "rs#\talleles\tchrom\tpos\tstrand\tassembly#\tcenter\tprotLSID\tassayLSID\tpanelLSID\tQCcode\tS1\tS2\tS3", lines[0])
	assert.Equal(t, "M1\tA/G\t3\t1500\t+\tNA\tNA\tNA\tNA\tNA\tNA\tA\tR\tG", lines[1])

	got, err := ReadTable(&buf)
	require.NoError(t, err)
	assert.Equal(t, tbl.Samples, got.Samples)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, tbl.Records[1], got.Records[1])
}

func TestReadTable_Errors(t *testing.T) {
	_, err := ReadTable(strings.NewReader(""))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)

	_, err = ReadTable(strings.NewReader("rs#\talleles\tchrom\n"))
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 1, perr.Line)

	header := strings.Join(FixedColumns, "\t") + "\tS1\n"
	_, err = ReadTable(strings.NewReader(header + "M1\tA/G\t1\t10\t+\tNA\tNA\tNA\tNA\tNA\tNA\n"))
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
	assert.Contains(t, perr.Error(), "expected 12 columns")
}

func TestReadTable_CRLFAndBlankLines(t *testing.T) {
	header := strings.Join(FixedColumns, "\t") + "\tS1\r\n"
	body := "\r\nM1\tA/G\t1\t10\t+\tNA\tNA\tNA\tNA\tNA\tNA\tR"
	got, err := ReadTable(strings.NewReader(header + body))
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	assert.Equal(t, []string{"R"}, got.Records[0].Genotypes)
}

func TestWriteFileReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.hmp.txt")
	tbl := sampleTable(t)

	require.NoError(t, WriteFile(path, tbl))
	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, tbl.Len(), got.Len())

	_, err = ReadFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteFileReadFile_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.hmp.txt.gz")
	tbl := sampleTable(t)

	require.NoError(t, WriteFile(path, tbl))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1f, 0x8b}, raw[:2])

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, tbl.Samples, got.Samples)
	assert.Equal(t, tbl.Records[0].Genotypes, got.Records[0].Genotypes)
}
