// Package convert turns a platform genotype matrix into a HapMap table.
package convert

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/geno2hmp/internal/coord"
	"github.com/inodb/geno2hmp/internal/genotype"
	"github.com/inodb/geno2hmp/internal/hapmap"
	"github.com/inodb/geno2hmp/internal/platform"
)

// ErrMultiAllelic marks markers excluded for multi-nucleotide or indel alleles.
var ErrMultiAllelic = errors.New("multi-nucleotide or indel alleles")

// DropError records a marker excluded from the output.
type DropError struct {
	Marker platform.Marker
	Ref    string
	Alt    string
}

func (e *DropError) Error() string {
	return fmt.Sprintf("marker %s dropped (%s/%s): %v", e.Marker.Name(), e.Ref, e.Alt, ErrMultiAllelic)
}

func (e *DropError) Unwrap() error {
	return ErrMultiAllelic
}

// Builder builds one HapMap record per marker.
type Builder struct {
	resolver *coord.Resolver
	codes    *genotype.CodeTable
	logger   *zap.Logger
}

// NewBuilder creates a builder using the given resolver and genotype codes.
func NewBuilder(r *coord.Resolver, codes *genotype.CodeTable) *Builder {
	return &Builder{
		resolver: r,
		codes:    codes,
		logger:   zap.NewNop(),
	}
}

// SetLogger sets the logger for per-marker diagnostics.
func (b *Builder) SetLogger(l *zap.Logger) {
	b.logger = l
}

// Build resolves, classifies and encodes one marker. Markers with
// multi-character alleles return a *DropError and no record; placeholder
// positions are only drawn from counter for markers that are kept.
func (b *Builder) Build(m platform.Marker, calls []string, counter *coord.Counter) (*hapmap.Record, coord.Result, error) {
	res := b.resolver.Lookup(m.Name(), m.Other())

	ref, alt := m.Ref, m.Alt
	if res.HasAlleles() {
		ref, alt = res.Ref, res.Alt
	}
	ref, alt = genotype.NormalizeAllele(ref), genotype.NormalizeAllele(alt)

	if genotype.Classify(ref, alt) == genotype.Drop {
		b.logger.Debug("dropping marker",
			zap.String("marker", m.Name()),
			zap.String("ref", ref),
			zap.String("alt", alt))
		return nil, res, &DropError{Marker: m, Ref: ref, Alt: alt}
	}

	if !res.Resolved() {
		b.resolver.FillUnknown(&res, counter)
		b.logger.Debug("unresolved coordinates",
			zap.String("marker", m.Name()),
			zap.String("chrom", res.Chrom),
			zap.String("pos", res.Pos),
			zap.Error(res.Err))
	}

	rec := hapmap.NewRecord(m.Name(), genotype.AllelePair(ref, alt), res.Chrom, res.Pos, b.codes.EncodeAll(calls))
	return rec, res, nil
}
