package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/geno2hmp/internal/coord"
	"github.com/inodb/geno2hmp/internal/duckdb"
	"github.com/inodb/geno2hmp/internal/hapmap"
	"github.com/inodb/geno2hmp/internal/platform"
)

const dartExport = "PlateID,Well,Subject,snpA,chr2_500,snpC,snpD\n" +
	"P1,A1,S1,A:G,.:.,C,T:T\n" +
	"P1,A2,S2,A:A,C:T,-:-,G:T\n"

const coordTable = "snpA,x,y,4,1000,A,G\n" +
	"snpC,x,y,1,900,CT,C\n"

// execute runs the root command with an isolated home directory and config.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("HOME", t.TempDir())

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, exitCode(nil))
	assert.Equal(t, ExitError, exitCode(errors.New("boom")))
	assert.Equal(t, ExitUsage, exitCode(usagef("bad")))

	_, err := platform.ParsePlatform("7")
	assert.Equal(t, ExitUnknownPlatform, exitCode(err))
}

func TestConvert_Dart(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "dart.csv", dartExport)
	coords := writeFile(t, dir, "coords.csv", coordTable)
	output := filepath.Join(dir, "out.hmp.txt")

	stdout, err := execute(t, "convert", "2", coords, input, output)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote 3 markers x 2 samples")

	tbl, err := hapmap.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, []string{"S1", "S2"}, tbl.Samples)
	require.Equal(t, 3, tbl.Len())

	a, b, d := tbl.Records[0], tbl.Records[1], tbl.Records[2]
	assert.Equal(t, []string{"snpA", "A/G", "4", "1000"}, []string{a.ID, a.Alleles, a.Chrom, a.Pos})
	assert.Equal(t, []string{"R", "A"}, a.Genotypes)
	assert.Equal(t, []string{"chr2_500", "N/N", "2", "500"}, []string{b.ID, b.Alleles, b.Chrom, b.Pos})
	assert.Equal(t, []string{"N", "Y"}, b.Genotypes)
	assert.Equal(t, []string{"snpD", coord.UnknownChrom, "1"}, []string{d.ID, d.Chrom, d.Pos})
	assert.Equal(t, []string{"T", "K"}, d.Genotypes)

	resolved, err := hapmap.ReadFile(filepath.Join(dir, "out.hmp.filtered.txt"))
	require.NoError(t, err)
	assert.Equal(t, 2, resolved.Len())

	dropped, err := os.ReadFile(filepath.Join(dir, "out.hmp.dropped.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(dropped), "snpC,snpC,CT,C,")
}

func TestConvert_CoordsFlagAndNA(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "dart.csv", dartExport)
	coords := writeFile(t, dir, "coords.csv", coordTable)
	output := filepath.Join(dir, "out.txt")

	_, err := execute(t, "convert", "dart", input, output,
		"--coords", coords, "--unknown", "na", "--split-resolved=false")
	require.NoError(t, err)

	tbl, err := hapmap.ReadFile(output)
	require.NoError(t, err)
	last := tbl.Records[tbl.Len()-1]
	assert.Equal(t, hapmap.NA, last.Chrom)
	assert.Equal(t, hapmap.NA, last.Pos)

	_, err = os.Stat(filepath.Join(dir, "out.filtered.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestConvert_DuckDBArchive(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "dart.csv", dartExport)
	output := filepath.Join(dir, "out.txt")
	dbPath := filepath.Join(dir, "archive.duckdb")

	_, err := execute(t, "convert", "2", input, output, "--duckdb", dbPath)
	require.NoError(t, err)

	store, err := duckdb.Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	n, err := store.MarkerCount()
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestArchiveQuery(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "dart.csv", dartExport)
	coords := writeFile(t, dir, "coords.csv", coordTable)
	output := filepath.Join(dir, "out.txt")
	dbPath := filepath.Join(dir, "archive.duckdb")

	_, err := execute(t, "convert", "2", coords, input, output, "--duckdb", dbPath, "--split-resolved=false")
	require.NoError(t, err)

	out, err := execute(t, "archive", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Sources: 1\n")
	assert.Contains(t, out, output+"\t3 markers\t2 samples")
	assert.Contains(t, out, "Markers: 3\n")
	assert.Contains(t, out, "  4\t1\n")
	assert.Contains(t, out, "  999\t1\n")

	out, err = execute(t, "archive", dbPath, "snpA")
	require.NoError(t, err)
	assert.Contains(t, out, "snpA\tA/G\t4:1000\tresolved=true")
	assert.Contains(t, out, "  A\t1\n")
	assert.Contains(t, out, "  R\t1\n")

	_, err = execute(t, "archive", dbPath, "nope")
	assert.Equal(t, ExitError, exitCode(err))

	_, err = execute(t, "archive", filepath.Join(dir, "absent.duckdb"))
	assert.Equal(t, ExitError, exitCode(err))

	_, err = execute(t, "archive")
	assert.Equal(t, ExitUsage, exitCode(err))
}

func TestConvert_Errors(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "dart.csv", dartExport)
	coords := writeFile(t, dir, "coords.csv", coordTable)
	output := filepath.Join(dir, "out.txt")

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"too few args", []string{"convert", "2", input}, ExitUsage},
		{"too many args", []string{"convert", "2", coords, input, output, "extra"}, ExitUsage},
		{"unknown platform", []string{"convert", "9", input, output}, ExitUnknownPlatform},
		{"bad unknown policy", []string{"convert", "2", input, output, "--unknown", "guess"}, ExitUsage},
		{"bad precedence", []string{"convert", "2", input, output, "--precedence", "first"}, ExitUsage},
		{"table twice", []string{"convert", "2", coords, input, output, "--coords", coords}, ExitUsage},
		{"unknown flag", []string{"convert", "2", input, output, "--nope"}, ExitUsage},
		{"missing input", []string{"convert", "2", filepath.Join(dir, "absent.csv"), output}, ExitError},
		{"missing table", []string{"convert", "2", filepath.Join(dir, "absent.csv"), input, output}, ExitError},
		{"unknown command", []string{"explode"}, ExitUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, exitCode(err))
		})
	}
}

func TestFilter(t *testing.T) {
	dir := t.TempDir()
	hmp := strings.Join(hapmap.FixedColumns, "\t") + "\tS1\tS2\n" +
		"m1\tA/G\t1\t100.0\t+\tx\tx\tx\tx\tx\tx\tA/G\tG/G\n" +
		"m2\tAT/A\t1\t200\t+\tx\tx\tx\tx\tx\tx\tAT\tA\n" +
		"m3\tC/T\t999\t1\t+\tx\tx\tx\tx\tx\tx\tC\tT\n"
	input := writeFile(t, dir, "in.hmp.txt", hmp)
	output := filepath.Join(dir, "out.hmp.txt")

	stdout, err := execute(t, "filter", "--iupac", "--resolved-only", input, output)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Kept 1 of 3 markers")

	tbl, err := hapmap.ReadFile(output)
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())
	r := tbl.Records[0]
	assert.Equal(t, "100", r.Pos)
	assert.Equal(t, hapmap.NA, r.Assembly)
	assert.Equal(t, []string{"R", "G"}, r.Genotypes)

	_, err = execute(t, "filter", input)
	assert.Equal(t, ExitUsage, exitCode(err))

	_, err = execute(t, "filter", "--iupac", "--unmatched", "maybe", input, output)
	assert.Equal(t, ExitUsage, exitCode(err))
}

func TestConfigSetGet(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "geno2hmp.yaml", "")

	out, err := execute(t, "--config", cfg, "config", "set", "coords.unknown", "na")
	require.NoError(t, err)
	assert.Contains(t, out, "Set coords.unknown = na")

	out, err = execute(t, "--config", cfg, "config", "get", "coords.unknown")
	require.NoError(t, err)
	assert.Equal(t, "na\n", out)

	out, err = execute(t, "--config", cfg, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "unknown: na")

	_, err = execute(t, "--config", cfg, "config", "set", "coords.unknown", "sometimes")
	assert.Equal(t, ExitUsage, exitCode(err))

	_, err = execute(t, "--config", cfg, "config", "get", "no.such.key")
	assert.Equal(t, ExitError, exitCode(err))
}

func TestConfigDrivesConvert(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "geno2hmp.yaml", "coords:\n  unknown: na\n")
	input := writeFile(t, dir, "dart.csv", dartExport)
	output := filepath.Join(dir, "out.txt")

	_, err := execute(t, "--config", cfg, "convert", "2", input, output)
	require.NoError(t, err)

	tbl, err := hapmap.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, hapmap.NA, tbl.Records[0].Chrom)
}

func TestConvertHelpDescribesPlaceholders(t *testing.T) {
	out, err := execute(t, "convert", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "chrom 999")
	assert.Contains(t, out, "not the marker index")
}
