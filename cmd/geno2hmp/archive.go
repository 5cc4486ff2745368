package main

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/inodb/geno2hmp/internal/duckdb"
)

func newArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <duckdb_file> [marker_id]",
		Short: "Query a DuckDB archive of converted tables",
		Long: `Summarize a DuckDB archive written by convert --duckdb or filter --duckdb.
Without a marker ID, list the archived source files and marker counts per
chromosome. With a marker ID, show its coordinates and genotype code counts.`,
		Example: `  geno2hmp archive archive.duckdb
  geno2hmp archive archive.duckdb IRRI_SNP2_MSU7_9_44000_A-G`,
		Args: usageArgs(cobra.RangeArgs(1, 2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err != nil {
				return fmt.Errorf("open archive: %w", err)
			}
			store, err := duckdb.Open(args[0])
			if err != nil {
				return err
			}
			defer store.Close()

			if len(args) == 2 {
				return showArchivedMarker(cmd.OutOrStdout(), store, args[1])
			}
			return showArchiveSummary(cmd.OutOrStdout(), store)
		},
	}
}

func showArchiveSummary(w io.Writer, store *duckdb.Store) error {
	imports, err := store.Imports()
	if err != nil {
		return err
	}
	n, err := store.MarkerCount()
	if err != nil {
		return err
	}
	byChrom, err := store.CountByChrom()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Sources: %d\n", len(imports))
	for _, im := range imports {
		fmt.Fprintf(w, "  %s\t%d markers\t%d samples\n", im.Path, im.Markers, im.Samples)
	}
	fmt.Fprintf(w, "Markers: %d\n", n)
	for _, chrom := range slices.Sorted(maps.Keys(byChrom)) {
		fmt.Fprintf(w, "  %s\t%d\n", chrom, byChrom[chrom])
	}
	return nil
}

func showArchivedMarker(w io.Writer, store *duckdb.Store, id string) error {
	m, err := store.LookupMarker(id)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("marker %q is not archived", id)
	}
	counts, err := store.GenotypeCounts(id)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s\t%s\t%s:%s\tresolved=%t\t%s\n", m.ID, m.Alleles, m.Chrom, m.Pos, m.Resolved, m.SourceFile)
	for _, code := range slices.Sorted(maps.Keys(counts)) {
		fmt.Fprintf(w, "  %s\t%d\n", code, counts[code])
	}
	return nil
}
