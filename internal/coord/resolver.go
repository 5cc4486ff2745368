package coord

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel coordinate values.
const (
	UnknownChrom = "999"
	NA           = "NA"
)

// ErrNotInTable is reported when a coordinate table is loaded but has no
// entry for the marker.
var ErrNotInTable = errors.New("marker not in coordinate table")

// ErrTableCoordinates is reported when the coordinate table has an entry for
// the marker but its chromosome or position is missing or not a position.
var ErrTableCoordinates = errors.New("coordinate table entry has no usable coordinates")

// Source records where a Result's coordinates came from.
type Source int

const (
	SourceUnresolved Source = iota
	SourceTable
	SourceName
)

func (s Source) String() string {
	switch s {
	case SourceTable:
		return "table"
	case SourceName:
		return "name"
	}
	return "unresolved"
}

// Precedence orders the two coordinate strategies.
type Precedence int

const (
	// PrecedenceTable consults the coordinate table before name tokens.
	PrecedenceTable Precedence = iota
	// PrecedenceNames consults name tokens before the coordinate table.
	PrecedenceNames
)

// ParsePrecedence parses "table" or "names".
func ParsePrecedence(s string) (Precedence, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table":
		return PrecedenceTable, nil
	case "names", "name":
		return PrecedenceNames, nil
	}
	return PrecedenceTable, fmt.Errorf("unknown coordinate precedence %q (want table or names)", s)
}

func (p Precedence) String() string {
	if p == PrecedenceNames {
		return "names"
	}
	return "table"
}

// UnknownPolicy selects the sentinel written for unresolved coordinates.
type UnknownPolicy int

const (
	// UnknownPlaceholder writes chromosome 999 and a per-run counter as the
	// position, keeping unresolved rows distinct for downstream sorting.
	UnknownPlaceholder UnknownPolicy = iota
	// UnknownNA writes NA for both chromosome and position.
	UnknownNA
)

// ParseUnknownPolicy parses "placeholder" or "na".
func ParseUnknownPolicy(s string) (UnknownPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "placeholder", "counter":
		return UnknownPlaceholder, nil
	case "na":
		return UnknownNA, nil
	}
	return UnknownPlaceholder, fmt.Errorf("unknown coordinate policy %q (want placeholder or na)", s)
}

func (u UnknownPolicy) String() string {
	if u == UnknownNA {
		return "na"
	}
	return "placeholder"
}

// Counter hands out placeholder positions 1, 2, 3, ... within one run.
type Counter struct {
	n int
}

// Next returns the next placeholder position.
func (c *Counter) Next() int {
	c.n++
	return c.n
}

// Result is the outcome of resolving one marker. Unresolved results carry
// sentinel coordinates and the reason in Err.
type Result struct {
	Chrom  string
	Pos    string
	Ref    string
	Alt    string
	Source Source
	Err    error
}

// Resolved reports whether real coordinates were found.
func (r Result) Resolved() bool {
	return r.Source != SourceUnresolved
}

// HasAlleles reports whether the result supplies the marker's allele pair.
// Table alleles are kept even when the entry's coordinates were unusable.
func (r Result) HasAlleles() bool {
	return r.Ref != "" || r.Alt != ""
}

// ValidCoordinates reports whether chrom and pos are real coordinates: a
// chromosome that is not a sentinel and an unsigned integer position.
func ValidCoordinates(chrom, pos string) bool {
	chrom = strings.TrimSpace(chrom)
	if chrom == "" || strings.EqualFold(chrom, NA) || chrom == UnknownChrom {
		return false
	}
	_, err := strconv.ParseUint(strings.TrimSpace(pos), 10, 64)
	return err == nil
}

// Resolver resolves marker names to coordinates.
type Resolver struct {
	table      *Table
	precedence Precedence
	unknown    UnknownPolicy
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithPrecedence sets the strategy order.
func WithPrecedence(p Precedence) Option {
	return func(r *Resolver) { r.precedence = p }
}

// WithUnknownPolicy sets the unresolved sentinel policy.
func WithUnknownPolicy(u UnknownPolicy) Option {
	return func(r *Resolver) { r.unknown = u }
}

// NewResolver creates a resolver. table may be nil.
func NewResolver(table *Table, opts ...Option) *Resolver {
	r := &Resolver{table: table}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Table returns the coordinate table, which may be nil.
func (r *Resolver) Table() *Table {
	return r.table
}

// UnknownPolicy returns the sentinel policy.
func (r *Resolver) UnknownPolicy() UnknownPolicy {
	return r.unknown
}

// Lookup tries both strategies in precedence order. An unresolved result
// has empty coordinates and the reasons in Err; see FillUnknown.
func (r *Resolver) Lookup(name, other string) Result {
	var tableErr, nameErr error
	var alleles *Entry

	fromTable := func() (Result, bool) {
		if r.table == nil {
			return Result{}, false
		}
		for _, key := range []string{name, other} {
			if key == "" {
				continue
			}
			e, ok := r.table.Lookup(key)
			if !ok {
				continue
			}
			if !ValidCoordinates(e.Chrom, e.Pos) {
				alleles = &e
				tableErr = fmt.Errorf("%w: %q %q", ErrTableCoordinates, e.Chrom, e.Pos)
				return Result{}, false
			}
			return Result{Chrom: e.Chrom, Pos: e.Pos, Ref: e.Ref, Alt: e.Alt, Source: SourceTable}, true
		}
		tableErr = ErrNotInTable
		return Result{}, false
	}

	fromName := func() (Result, bool) {
		c, err := ParseName(name, other)
		if err != nil {
			nameErr = err
			return Result{}, false
		}
		return Result{Chrom: c.Chrom, Pos: c.Pos, Source: SourceName}, true
	}

	strategies := []func() (Result, bool){fromTable, fromName}
	if r.precedence == PrecedenceNames {
		strategies = []func() (Result, bool){fromName, fromTable}
	}
	res := Result{Source: SourceUnresolved}
	for _, try := range strategies {
		if got, ok := try(); ok {
			res = got
			break
		}
	}
	if alleles != nil && !res.HasAlleles() {
		res.Ref, res.Alt = alleles.Ref, alleles.Alt
	}
	if !res.Resolved() {
		res.Err = errors.Join(tableErr, nameErr)
	}
	return res
}

// FillUnknown writes the policy's sentinel coordinates into an unresolved
// result. The placeholder policy draws the position from counter.
func (r *Resolver) FillUnknown(res *Result, counter *Counter) {
	if res.Resolved() {
		return
	}
	switch r.unknown {
	case UnknownNA:
		res.Chrom, res.Pos = NA, NA
	default:
		if counter == nil {
			counter = &Counter{}
		}
		res.Chrom, res.Pos = UnknownChrom, strconv.Itoa(counter.Next())
	}
}

// Resolve finds coordinates for a marker, falling back to sentinel values.
// name is the marker's display name and other its second identifier, if the
// platform has one. counter must be shared by all markers of a run.
func (r *Resolver) Resolve(name, other string, counter *Counter) Result {
	res := r.Lookup(name, other)
	r.FillUnknown(&res, counter)
	return res
}
