package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/geno2hmp/internal/hapmap"
)

// Marker is one archived HapMap row without its genotype calls.
type Marker struct {
	ID         string
	Alleles    string
	Chrom      string
	Pos        string
	Resolved   bool
	SourceFile string
}

// WriteTable archives t under sourceFile. Rows previously archived from the
// same source are replaced.
func (s *Store) WriteTable(t *hapmap.Table, sourceFile string) error {
	fp, err := StatFile(sourceFile)
	if err != nil {
		return fmt.Errorf("stat source file: %w", err)
	}
	if err := s.DeleteSource(sourceFile); err != nil {
		return err
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	if err := appendRows(conn, "markers", func(a *goduckdb.Appender) error {
		for _, r := range t.Records {
			if err := a.AppendRow(r.ID, r.Alleles, r.Chrom, r.Pos, hapmap.IsResolved(r.Chrom, r.Pos), sourceFile); err != nil {
				return fmt.Errorf("append marker %s: %w", r.ID, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}

	if err := appendRows(conn, "genotypes", func(a *goduckdb.Appender) error {
		for _, r := range t.Records {
			for i, code := range r.Genotypes {
				if err := a.AppendRow(r.ID, t.Samples[i], code, sourceFile); err != nil {
					return fmt.Errorf("append genotype %s/%s: %w", r.ID, t.Samples[i], err)
				}
			}
		}
		return nil
	}); err != nil {
		return err
	}

	_, err = s.db.Exec(`INSERT INTO imports VALUES (?, ?, ?, ?, ?)`,
		sourceFile, fp.Size, fp.ModTime, int64(t.Len()), int64(len(t.Samples)))
	if err != nil {
		return fmt.Errorf("record import: %w", err)
	}
	return nil
}

// appendRows runs fill against an Appender on table and flushes it.
func appendRows(conn *sql.Conn, table string, fill func(*goduckdb.Appender) error) error {
	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
		return err
	}); err != nil {
		return fmt.Errorf("create %s appender: %w", table, err)
	}
	defer appender.Close()

	if err := fill(appender); err != nil {
		return err
	}
	return appender.Flush()
}

// DeleteSource removes everything archived from sourceFile.
func (s *Store) DeleteSource(sourceFile string) error {
	for _, table := range []string{"markers", "genotypes", "imports"} {
		if _, err := s.db.Exec("DELETE FROM "+table+" WHERE source_file=?", sourceFile); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// MarkerCount returns the number of archived markers.
func (s *Store) MarkerCount() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT count(*) FROM markers").Scan(&n); err != nil {
		return 0, fmt.Errorf("count markers: %w", err)
	}
	return n, nil
}

// LookupMarker returns the first archived marker with the given id, or nil.
func (s *Store) LookupMarker(id string) (*Marker, error) {
	var m Marker
	err := s.db.QueryRow(`SELECT id, alleles, chrom, pos, resolved, source_file
		FROM markers WHERE id=? LIMIT 1`, id).
		Scan(&m.ID, &m.Alleles, &m.Chrom, &m.Pos, &m.Resolved, &m.SourceFile)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query marker: %w", err)
	}
	return &m, nil
}

// CountByChrom returns the number of archived markers per chromosome.
func (s *Store) CountByChrom() (map[string]int, error) {
	rows, err := s.db.Query("SELECT chrom, count(*) FROM markers GROUP BY chrom")
	if err != nil {
		return nil, fmt.Errorf("query chromosomes: %w", err)
	}
	defer rows.Close()

	return scanCounts(rows)
}

// GenotypeCounts returns how often each code was called for marker id.
func (s *Store) GenotypeCounts(id string) (map[string]int, error) {
	rows, err := s.db.Query("SELECT code, count(*) FROM genotypes WHERE id=? GROUP BY code", id)
	if err != nil {
		return nil, fmt.Errorf("query genotypes: %w", err)
	}
	defer rows.Close()

	return scanCounts(rows)
}

// Imports lists the archived source files.
func (s *Store) Imports() ([]Import, error) {
	rows, err := s.db.Query(`SELECT source_file, size, mod_time, markers, samples
		FROM imports ORDER BY source_file`)
	if err != nil {
		return nil, fmt.Errorf("query imports: %w", err)
	}
	defer rows.Close()

	var out []Import
	for rows.Next() {
		var im Import
		if err := rows.Scan(&im.Path, &im.Size, &im.ModTime, &im.Markers, &im.Samples); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		out = append(out, im)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate imports: %w", err)
	}
	return out, nil
}

// scanCounts scans (key, count) rows into a map.
func scanCounts(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) (map[string]int, error) {
	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[key] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}
	return counts, nil
}
