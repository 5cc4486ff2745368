package coord

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Convention identifies how coordinates are embedded in a marker name.
type Convention int

const (
	ConventionNone Convention = iota
	// ConventionChr names look like chr5_120000.
	ConventionChr
	// ConventionIRGSP1 names look like IRRI_SNP1_IRGSP1_C7_88000.
	ConventionIRGSP1
	// ConventionMSU7 names look like IRRI_SNP2_MSU7_9_44000_A-G.
	ConventionMSU7
)

func (c Convention) String() string {
	switch c {
	case ConventionChr:
		return "chr"
	case ConventionIRGSP1:
		return "IRGSP1"
	case ConventionMSU7:
		return "MSU7"
	}
	return "none"
}

const (
	prefixChr    = "chr"
	prefixIRGSP1 = "IRGSP1"
	prefixMSU7   = "MSU7"

	// Assembly-tagged names carry the chromosome and position in the 4th and
	// 5th underscore tokens.
	assemblyChromToken = 3
	assemblyPosToken   = 4
	assemblyTagToken   = 2
)

var (
	ErrNoConvention = errors.New("no recognized naming convention")
	ErrTooFewTokens = errors.New("too few underscore tokens")
	ErrBadPosition  = errors.New("position is not an unsigned integer")
	ErrEmptyChrom   = errors.New("empty chromosome")
)

// NameError reports why a marker name could not be parsed into coordinates.
type NameError struct {
	Name       string
	Convention Convention
	Err        error
}

func (e *NameError) Error() string {
	if e.Convention == ConventionNone {
		return fmt.Sprintf("marker %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("marker %q (%s): %v", e.Name, e.Convention, e.Err)
}

func (e *NameError) Unwrap() error {
	return e.Err
}

// Coordinates is a resolved chromosome and position.
type Coordinates struct {
	Chrom string
	Pos   string
}

// DetectConvention picks the naming convention of name. hint is the
// platform's other identifier for the same marker and may be empty; it can
// select an assembly-tagged convention but never the chr one, whose tokens
// must come from name itself.
func DetectConvention(name, hint string) Convention {
	if hasPrefixFold(name, prefixChr) {
		return ConventionChr
	}

	tag := ""
	if tokens := strings.Split(name, "_"); len(tokens) > assemblyTagToken {
		tag = tokens[assemblyTagToken]
	}
	switch {
	case strings.HasPrefix(hint, prefixIRGSP1), strings.HasPrefix(tag, prefixIRGSP1):
		return ConventionIRGSP1
	case strings.HasPrefix(hint, prefixMSU7), strings.HasPrefix(tag, prefixMSU7):
		return ConventionMSU7
	}
	return ConventionNone
}

// ParseName extracts coordinates from the underscore tokens of name.
// Every failure is a *NameError.
func ParseName(name, hint string) (Coordinates, error) {
	name = strings.TrimSpace(name)
	conv := DetectConvention(name, strings.TrimSpace(hint))
	fail := func(err error) (Coordinates, error) {
		return Coordinates{}, &NameError{Name: name, Convention: conv, Err: err}
	}

	tokens := strings.Split(name, "_")

	var c Coordinates
	switch conv {
	case ConventionChr:
		if len(tokens) < 2 {
			return fail(ErrTooFewTokens)
		}
		c.Chrom = trimPrefixFold(tokens[0], prefixChr)
		c.Pos = tokens[1]
	case ConventionIRGSP1, ConventionMSU7:
		if len(tokens) <= assemblyPosToken {
			return fail(ErrTooFewTokens)
		}
		c.Chrom = tokens[assemblyChromToken]
		if conv == ConventionIRGSP1 {
			c.Chrom = strings.TrimPrefix(c.Chrom, "C")
		}
		c.Pos = tokens[assemblyPosToken]
	default:
		return fail(ErrNoConvention)
	}

	if c.Chrom == "" {
		return fail(ErrEmptyChrom)
	}
	if _, err := strconv.ParseUint(c.Pos, 10, 64); err != nil {
		return fail(fmt.Errorf("%w: %q", ErrBadPosition, c.Pos))
	}
	return c, nil
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func trimPrefixFold(s, prefix string) string {
	if hasPrefixFold(s, prefix) {
		return s[len(prefix):]
	}
	return s
}
