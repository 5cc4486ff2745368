package convert

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/geno2hmp/internal/coord"
	"github.com/inodb/geno2hmp/internal/hapmap"
	"github.com/inodb/geno2hmp/internal/platform"
)

// Stats counts markers by outcome.
type Stats struct {
	Markers    int
	Kept       int
	Dropped    int
	FromTable  int
	FromName   int
	Unresolved int
}

// Result is the outcome of one conversion run.
type Result struct {
	Table   *hapmap.Table
	Dropped []*DropError
	Stats   Stats

	resolved map[*hapmap.Record]bool
}

// ResolvedOnly returns the records whose coordinates were resolved from the
// coordinate table or the marker name.
func (r *Result) ResolvedOnly() *hapmap.Table {
	return r.Table.Select(func(rec *hapmap.Record) bool {
		return r.resolved[rec] && hapmap.IsResolved(rec.Chrom, rec.Pos)
	})
}

// Assembler drives a Builder over a whole matrix.
type Assembler struct {
	builder *Builder
	logger  *zap.Logger
}

// NewAssembler creates an assembler.
func NewAssembler(b *Builder) *Assembler {
	return &Assembler{builder: b, logger: zap.NewNop()}
}

// SetLogger sets the logger for run summaries.
func (a *Assembler) SetLogger(l *zap.Logger) {
	a.logger = l
}

// Run converts every marker of m in input order. Dropped markers are
// collected in Result.Dropped; any other error aborts the run.
func (a *Assembler) Run(m *platform.Matrix) (*Result, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s matrix: %w", m.Platform, err)
	}

	res := &Result{
		Table:    hapmap.NewTable(m.Samples),
		resolved: make(map[*hapmap.Record]bool),
	}
	counter := &coord.Counter{}

	for i, mk := range m.Markers {
		res.Stats.Markers++

		rec, cr, err := a.builder.Build(mk, m.Calls[i], counter)
		var drop *DropError
		if errors.As(err, &drop) {
			res.Dropped = append(res.Dropped, drop)
			res.Stats.Dropped++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("build marker %s: %w", mk.Name(), err)
		}
		if err := res.Table.Append(rec); err != nil {
			return nil, err
		}
		res.Stats.Kept++

		switch cr.Source {
		case coord.SourceTable:
			res.Stats.FromTable++
			res.resolved[rec] = true
		case coord.SourceName:
			res.Stats.FromName++
			res.resolved[rec] = true
		default:
			res.Stats.Unresolved++
		}
	}

	a.logger.Info("assembled hapmap table",
		zap.Stringer("platform", m.Platform),
		zap.Int("markers", res.Stats.Markers),
		zap.Int("samples", len(m.Samples)),
		zap.Int("kept", res.Stats.Kept),
		zap.Int("dropped", res.Stats.Dropped),
		zap.Int("from_table", res.Stats.FromTable),
		zap.Int("from_name", res.Stats.FromName),
		zap.Int("unresolved", res.Stats.Unresolved))

	return res, nil
}
