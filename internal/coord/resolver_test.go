package coord

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTable(t *testing.T, content string) *Table {
	t.Helper()
	tbl, err := ParseTable(strings.NewReader(content))
	require.NoError(t, err)
	return tbl
}

func TestResolve_TableWinsOverNameTokens(t *testing.T) {
	tbl := mustTable(t, "M1,p,x,3,1500,A,G\nchr5_120000,p,x,8,10,C,T\n")
	r := NewResolver(tbl)
	var counter Counter

	res := r.Resolve("M1", "", &counter)
	assert.True(t, res.Resolved())
	assert.True(t, res.HasAlleles())
	assert.Equal(t, SourceTable, res.Source)
	assert.Equal(t, "3", res.Chrom)
	assert.Equal(t, "1500", res.Pos)
	assert.Equal(t, "A", res.Ref)
	assert.Equal(t, "G", res.Alt)

	res = r.Resolve("chr5_120000", "", &counter)
	assert.Equal(t, SourceTable, res.Source)
	assert.Equal(t, "8", res.Chrom)
}

func TestResolve_NamePrecedence(t *testing.T) {
	tbl := mustTable(t, "chr5_120000,p,x,8,10,C,T\n")
	r := NewResolver(tbl, WithPrecedence(PrecedenceNames))

	res := r.Resolve("chr5_120000", "", &Counter{})
	assert.Equal(t, SourceName, res.Source)
	assert.Equal(t, "5", res.Chrom)
	assert.Equal(t, "120000", res.Pos)
	assert.False(t, res.HasAlleles())
}

func TestResolve_OtherNameLookup(t *testing.T) {
	tbl := mustTable(t, "CUST-7,p,x,2,77,A,C\n")
	r := NewResolver(tbl)

	res := r.Resolve("qtl7", "cust-7", &Counter{})
	assert.Equal(t, SourceTable, res.Source)
	assert.Equal(t, "2", res.Chrom)
}

func TestResolve_FallsBackToNameTokens(t *testing.T) {
	r := NewResolver(mustTable(t, "M1,p,x,3,1500,A,G\n"))

	res := r.Resolve("IRRI_SNP1_IRGSP1_C7_88000", "", &Counter{})
	assert.Equal(t, SourceName, res.Source)
	assert.Equal(t, "7", res.Chrom)
	assert.Equal(t, "88000", res.Pos)
}

func TestResolve_PlaceholderPolicy(t *testing.T) {
	r := NewResolver(mustTable(t, "M1,p,x,3,1500,A,G\n"))
	var counter Counter

	first := r.Resolve("qtl1", "", &counter)
	resolved := r.Resolve("M1", "", &counter)
	second := r.Resolve("bad_name", "", &counter)

	assert.False(t, first.Resolved())
	assert.Equal(t, UnknownChrom, first.Chrom)
	assert.Equal(t, "1", first.Pos)
	assert.ErrorIs(t, first.Err, ErrNotInTable)
	assert.ErrorIs(t, first.Err, ErrNoConvention)

	assert.True(t, resolved.Resolved())

	assert.Equal(t, UnknownChrom, second.Chrom)
	assert.Equal(t, "2", second.Pos)
}

func TestResolve_NAPolicy(t *testing.T) {
	r := NewResolver(nil, WithUnknownPolicy(UnknownNA))

	res := r.Resolve("IRRI_SNP1_IRGSP1_C7", "", &Counter{})
	assert.False(t, res.Resolved())
	assert.Equal(t, NA, res.Chrom)
	assert.Equal(t, NA, res.Pos)
	assert.ErrorIs(t, res.Err, ErrTooFewTokens)
	assert.NotErrorIs(t, res.Err, ErrNotInTable)
}

func TestParsePolicies(t *testing.T) {
	u, err := ParseUnknownPolicy("NA")
	require.NoError(t, err)
	assert.Equal(t, UnknownNA, u)

	_, err = ParseUnknownPolicy("zero")
	assert.Error(t, err)

	p, err := ParsePrecedence("names")
	require.NoError(t, err)
	assert.Equal(t, PrecedenceNames, p)

	_, err = ParsePrecedence("both")
	assert.Error(t, err)
}

func TestResolve_TableEntryWithoutCoordinates(t *testing.T) {
	tbl := mustTable(t, "M1,p,x,NA,NA,A,G\nM2,p,x,,,C,T\nchr4_900,p,x,999,1,G,T\n")
	r := NewResolver(tbl)
	var counter Counter

	res := r.Resolve("M1", "", &counter)
	assert.False(t, res.Resolved())
	assert.ErrorIs(t, res.Err, ErrTableCoordinates)
	assert.Equal(t, UnknownChrom, res.Chrom)
	assert.Equal(t, "1", res.Pos)
	assert.True(t, res.HasAlleles())
	assert.Equal(t, "A", res.Ref)
	assert.Equal(t, "G", res.Alt)

	res = r.Resolve("M2", "", &counter)
	assert.False(t, res.Resolved())
	assert.Equal(t, "2", res.Pos)
	assert.Equal(t, "C", res.Ref)

	// name tokens take over, table alleles are kept
	res = r.Resolve("chr4_900", "", &counter)
	assert.Equal(t, SourceName, res.Source)
	assert.Equal(t, "4", res.Chrom)
	assert.Equal(t, "900", res.Pos)
	assert.Equal(t, "G", res.Ref)
	assert.Equal(t, "T", res.Alt)
}

func TestValidCoordinates(t *testing.T) {
	assert.True(t, ValidCoordinates("3", "1500"))
	assert.True(t, ValidCoordinates(" Chr3 ", " 7 "))
	for _, c := range [][2]string{{"NA", "1"}, {"na", "1"}, {"", "1"}, {UnknownChrom, "1"}, {"3", "NA"}, {"3", ""}, {"3", "-5"}, {"3", "1.5"}} {
		assert.False(t, ValidCoordinates(c[0], c[1]), "%q", c)
	}
}
