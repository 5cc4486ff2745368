package hapmap

import (
	"math"
	"strconv"
	"strings"

	"github.com/inodb/geno2hmp/internal/coord"
	"github.com/inodb/geno2hmp/internal/genotype"
)

// gap is the allele character for a deletion.
const gap = '-'

// IsBiAllelic reports whether alleles has the form X/Y with exactly one
// character per side and neither side a gap.
func IsBiAllelic(alleles string) bool {
	s := strings.TrimSpace(alleles)
	if len(s) != 3 || s[1] != '/' {
		return false
	}
	return isAlleleChar(s[0]) && isAlleleChar(s[2])
}

func isAlleleChar(c byte) bool {
	return c != gap && c != '/' && c > ' ' && c < 0x7f
}

// CoercePos normalizes a position to a non-negative integer string. Values
// that are not integral, negative or beyond int64 become NA with ok false.
func CoercePos(s string) (pos string, ok bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseUint(s, 10, 64); err == nil && n <= math.MaxInt64 {
		return strconv.FormatUint(n, 10), true
	}
	// MaxInt64 rounds to 2^63 as a float64, the first value out of range.
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 && f < math.MaxInt64 && f == math.Trunc(f) {
		return strconv.FormatInt(int64(f), 10), true
	}
	return NA, false
}

// IsResolved reports whether chrom and pos are real coordinates rather than
// an unknown sentinel.
func IsResolved(chrom, pos string) bool {
	return coord.ValidCoordinates(chrom, pos)
}

// FilterOptions selects the passes applied by Filter.
type FilterOptions struct {
	BiAllelicOnly bool
	ResolvedOnly  bool
	ResetMetadata bool
	CoercePos     bool
	// Recode, when set, converts genotype values to IUPAC codes.
	Recode *genotype.CodeTable
}

// DefaultFilterOptions keeps strict bi-allelic SNPs with normalized
// metadata and positions.
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{BiAllelicOnly: true, ResetMetadata: true, CoercePos: true}
}

// FilterStats counts what Filter did.
type FilterStats struct {
	Input        int
	Kept         int
	NotBiAllelic int
	Unresolved   int
	PosUnknown   int
	Recoded      int
}

// Filter returns a new table with the selected records. The input table is
// not modified.
func Filter(t *Table, opts FilterOptions) (*Table, FilterStats) {
	out := NewTable(t.Samples)
	stats := FilterStats{Input: t.Len()}

	for _, in := range t.Records {
		if opts.BiAllelicOnly && !IsBiAllelic(in.Alleles) {
			stats.NotBiAllelic++
			continue
		}

		r := in.Clone()
		if opts.CoercePos {
			var ok bool
			if r.Pos, ok = CoercePos(r.Pos); !ok {
				stats.PosUnknown++
			}
		}
		if opts.ResolvedOnly && !IsResolved(r.Chrom, r.Pos) {
			stats.Unresolved++
			continue
		}
		if opts.ResetMetadata {
			r.ResetMetadata()
		}
		if opts.Recode != nil {
			for i, g := range r.Genotypes {
				if genotype.IsCode(g) {
					continue
				}
				if code := opts.Recode.Encode(g); code != g {
					r.Genotypes[i] = code
					stats.Recoded++
				}
			}
		}
		out.Records = append(out.Records, r)
	}

	stats.Kept = out.Len()
	return out, stats
}
