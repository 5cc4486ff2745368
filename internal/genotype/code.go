// Package genotype normalizes raw genotype calls into single-letter IUPAC codes
// and classifies allele pairs as bi-allelic SNPs or multi-nucleotide markers.
package genotype

import (
	"fmt"
	"strings"
	"unicode"
)

// Missing is the code written for failed or absent calls.
const Missing = "N"

// UnmatchedPolicy decides what Encode returns for tokens that are not in the table.
type UnmatchedPolicy int

const (
	// UnmatchedMissing replaces unknown tokens with Missing.
	UnmatchedMissing UnmatchedPolicy = iota
	// UnmatchedPassthrough writes unknown tokens unchanged (whitespace trimmed).
	UnmatchedPassthrough
)

// ParseUnmatchedPolicy parses "missing" or "passthrough".
func ParseUnmatchedPolicy(s string) (UnmatchedPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "missing", "n":
		return UnmatchedMissing, nil
	case "passthrough", "pass", "raw":
		return UnmatchedPassthrough, nil
	}
	return UnmatchedMissing, fmt.Errorf("unknown genotype policy %q (want missing or passthrough)", s)
}

func (p UnmatchedPolicy) String() string {
	if p == UnmatchedPassthrough {
		return "passthrough"
	}
	return "missing"
}

// DefaultMissing lists the failed-call sentinels seen across export batches.
var DefaultMissing = []string{"--", "FAIL", "NN", ".:.", "-:-", "N/N", "-/-", "N"}

// pairSeparators are accepted between the two alleles of a call.
var pairSeparators = []string{"", "/", ":", "|"}

// Base masks: A=1, C=2, G=4, T=8. An ambiguity code is the OR of its bases.
var baseMask = map[byte]uint8{'A': 1, 'C': 2, 'G': 4, 'T': 8}

var maskCode = map[uint8]string{
	1: "A", 2: "C", 4: "G", 8: "T",
	1 | 8: "W",
	2 | 4: "S",
	1 | 2: "M",
	4 | 8: "K",
	1 | 4: "R",
	2 | 8: "Y",
}

// IsCode reports whether s is already a single IUPAC code or the missing code.
func IsCode(s string) bool {
	if s == Missing {
		return true
	}
	if len(s) != 1 {
		return false
	}
	for _, code := range maskCode {
		if code == s {
			return true
		}
	}
	return false
}

// CodeTable maps normalized genotype tokens to IUPAC codes. It is built once
// and never modified, so one table can be shared by every marker in a run.
type CodeTable struct {
	codes  map[string]string
	policy UnmatchedPolicy
}

// NewCodeTable builds the standard table. extraMissing adds batch-specific
// failed-call sentinels on top of DefaultMissing.
func NewCodeTable(policy UnmatchedPolicy, extraMissing ...string) *CodeTable {
	codes := make(map[string]string, 128)

	bases := []byte{'A', 'C', 'G', 'T'}
	for _, a := range bases {
		codes[string(a)] = string(a)
		for _, b := range bases {
			code := maskCode[baseMask[a]|baseMask[b]]
			for _, sep := range pairSeparators {
				codes[string(a)+sep+string(b)] = code
			}
		}
	}

	// Already-encoded ambiguity letters map to themselves.
	for _, code := range maskCode {
		codes[code] = code
	}

	for _, s := range DefaultMissing {
		codes[normalizeToken(s)] = Missing
	}
	for _, s := range extraMissing {
		if s = normalizeToken(s); s != "" {
			codes[s] = Missing
		}
	}

	return &CodeTable{codes: codes, policy: policy}
}

// Policy returns the unmatched-token policy of the table.
func (t *CodeTable) Policy() UnmatchedPolicy {
	return t.policy
}

// Len returns the number of distinct tokens the table recognizes.
func (t *CodeTable) Len() int {
	return len(t.codes)
}

// Lookup returns the code for raw and whether the token is in the table.
func (t *CodeTable) Lookup(raw string) (string, bool) {
	code, ok := t.codes[normalizeToken(raw)]
	return code, ok
}

// Encode converts a raw call into its single-letter code. Empty cells are
// missing; other unknown tokens follow the table's UnmatchedPolicy.
func (t *CodeTable) Encode(raw string) string {
	if code, ok := t.Lookup(raw); ok {
		return code
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || t.policy == UnmatchedMissing {
		return Missing
	}
	return trimmed
}

// EncodeAll encodes calls in order.
func (t *CodeTable) EncodeAll(calls []string) []string {
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = t.Encode(c)
	}
	return out
}

// normalizeToken strips all whitespace and upper-cases.
func normalizeToken(s string) string {
	return strings.ToUpper(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s))
}
