package genotype

import "strings"

// Classification is the outcome of checking a marker's allele pair.
type Classification int

const (
	// Keep marks a bi-allelic single-nucleotide marker.
	Keep Classification = iota
	// Drop marks a multi-nucleotide or indel marker.
	Drop
)

func (c Classification) String() string {
	if c == Drop {
		return "drop"
	}
	return "keep"
}

// NormalizeAllele trims and upper-cases an allele; empty alleles become Missing.
func NormalizeAllele(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return Missing
	}
	return s
}

// Classify drops a marker iff either allele is longer than one character.
func Classify(ref, alt string) Classification {
	if len(NormalizeAllele(ref)) > 1 || len(NormalizeAllele(alt)) > 1 {
		return Drop
	}
	return Keep
}

// AllelePair formats ref and alt as the HapMap "X/Y" alleles field.
func AllelePair(ref, alt string) string {
	return NormalizeAllele(ref) + "/" + NormalizeAllele(alt)
}
