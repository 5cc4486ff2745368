// Package hapmap models HapMap genotype tables and reads, writes and filters them.
package hapmap

import (
	"errors"
	"fmt"
)

// FixedColumns are the metadata columns preceding the sample columns.
var FixedColumns = []string{
	"rs#",
	"alleles",
	"chrom",
	"pos",
	"strand",
	"assembly#",
	"center",
	"protLSID",
	"assayLSID",
	"panelLSID",
	"QCcode",
}

// NumFixed is the number of metadata columns.
const NumFixed = 11

// Default metadata values.
const (
	DefaultStrand = "+"
	NA            = "NA"
)

// ErrColumnCount is returned when a record does not match the table's samples.
var ErrColumnCount = errors.New("genotype count does not match sample count")

// Record is one HapMap row.
type Record struct {
	ID        string
	Alleles   string
	Chrom     string
	Pos       string
	Strand    string
	Assembly  string
	Center    string
	ProtLSID  string
	AssayLSID string
	PanelLSID string
	QCCode    string
	Genotypes []string
}

// NewRecord creates a record with default strand and NA metadata.
func NewRecord(id, alleles, chrom, pos string, genotypes []string) *Record {
	r := &Record{
		ID:        id,
		Alleles:   alleles,
		Chrom:     chrom,
		Pos:       pos,
		Strand:    DefaultStrand,
		Genotypes: genotypes,
	}
	r.ResetMetadata()
	return r
}

// ResetMetadata sets assembly# through QCcode to NA.
func (r *Record) ResetMetadata() {
	r.Assembly = NA
	r.Center = NA
	r.ProtLSID = NA
	r.AssayLSID = NA
	r.PanelLSID = NA
	r.QCCode = NA
}

// Fields returns the record as output columns.
func (r *Record) Fields() []string {
	fields := make([]string, 0, NumFixed+len(r.Genotypes))
	fields = append(fields,
		r.ID, r.Alleles, r.Chrom, r.Pos, r.Strand, r.Assembly,
		r.Center, r.ProtLSID, r.AssayLSID, r.PanelLSID, r.QCCode,
	)
	return append(fields, r.Genotypes...)
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	c := *r
	c.Genotypes = append([]string(nil), r.Genotypes...)
	return &c
}

// recordFromFields is the inverse of Fields.
func recordFromFields(fields []string) *Record {
	return &Record{
		ID:        fields[0],
		Alleles:   fields[1],
		Chrom:     fields[2],
		Pos:       fields[3],
		Strand:    fields[4],
		Assembly:  fields[5],
		Center:    fields[6],
		ProtLSID:  fields[7],
		AssayLSID: fields[8],
		PanelLSID: fields[9],
		QCCode:    fields[10],
		Genotypes: append([]string(nil), fields[NumFixed:]...),
	}
}

// Table is an ordered set of records sharing one sample header.
type Table struct {
	Samples []string
	Records []*Record
}

// NewTable creates an empty table for the given samples.
func NewTable(samples []string) *Table {
	return &Table{Samples: append([]string(nil), samples...)}
}

// Header returns the fixed columns followed by the sample IDs.
func (t *Table) Header() []string {
	h := make([]string, 0, NumFixed+len(t.Samples))
	h = append(h, FixedColumns...)
	return append(h, t.Samples...)
}

// Append adds a record, rejecting one whose genotype count differs from the
// number of samples.
func (t *Table) Append(r *Record) error {
	if len(r.Genotypes) != len(t.Samples) {
		return fmt.Errorf("record %s: %w (%d genotypes, %d samples)",
			r.ID, ErrColumnCount, len(r.Genotypes), len(t.Samples))
	}
	t.Records = append(t.Records, r)
	return nil
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.Records)
}

// Select returns a table with the same samples holding the records for which
// keep returns true. Records are shared, not copied.
func (t *Table) Select(keep func(*Record) bool) *Table {
	out := NewTable(t.Samples)
	for _, r := range t.Records {
		if keep(r) {
			out.Records = append(out.Records, r)
		}
	}
	return out
}
