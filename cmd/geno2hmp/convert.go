package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/geno2hmp/internal/convert"
	"github.com/inodb/geno2hmp/internal/coord"
	"github.com/inodb/geno2hmp/internal/duckdb"
	"github.com/inodb/geno2hmp/internal/genotype"
	"github.com/inodb/geno2hmp/internal/hapmap"
	"github.com/inodb/geno2hmp/internal/platform"
)

type convertOptions struct {
	coordsPath  string
	droppedPath string
	duckdbPath  string
}

func newConvertCmd(a *app) *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert <platform> [coordinate_table] <input_file> <output_file>",
		Short: "Convert a platform export to HapMap",
		Long: `Convert a genotyping platform export into a HapMap table.

Platform 1 is the Agriplex grid (xlsx, xls or delimited text); platform 2 is
the DArT long-format CSV. Marker coordinates come from the optional coordinate
table and from coordinates embedded in marker names. Markers with indel or
multi-nucleotide alleles are dropped and listed in <output>.dropped.csv.`,
		Example: `  geno2hmp convert 1 coords.csv export.xlsx out.hmp.txt
  geno2hmp convert 2 dart.csv out.hmp.txt --unknown na
  geno2hmp convert 1 export.xlsx out.hmp.txt --coords coords.csv --duckdb archive.duckdb`,
		Args: usageArgs(cobra.RangeArgs(3, 4)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, a, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.coordsPath, "coords", "", "Coordinate table (alternative to the positional argument)")
	f.String("unknown", "placeholder", "Unresolved coordinates: placeholder (chrom 999, pos counts unresolved kept markers only, not the marker index) or na")
	f.String("precedence", "table", "Coordinate strategy order: table or names")
	f.String("unmatched", "missing", "Unrecognized genotype calls: missing or passthrough")
	f.Bool("split-resolved", true, "Also write <output>.filtered with resolved markers only")
	f.StringVar(&opts.droppedPath, "dropped", "", "Dropped-marker CSV (default <output>.dropped.csv)")
	f.StringVar(&opts.duckdbPath, "duckdb", "", "Also archive the HapMap table in this DuckDB file")

	viper.BindPFlag(keyUnknown, f.Lookup("unknown"))
	viper.BindPFlag(keyPrecedence, f.Lookup("precedence"))
	viper.BindPFlag(keyUnmatched, f.Lookup("unmatched"))
	viper.BindPFlag(keySplitResolved, f.Lookup("split-resolved"))

	return cmd
}

func runConvert(cmd *cobra.Command, a *app, args []string, opts convertOptions) error {
	p, err := platform.ParsePlatform(args[0])
	if err != nil {
		return err
	}

	coordsPath := opts.coordsPath
	if len(args) == 4 {
		if coordsPath != "" {
			return usagef("coordinate table given both as argument and --coords")
		}
		coordsPath = args[1]
	}
	input, output := args[len(args)-2], args[len(args)-1]

	resolver, err := newResolver(a.logger, coordsPath)
	if err != nil {
		return err
	}
	codes, err := newCodeTable()
	if err != nil {
		return err
	}

	m, err := platform.Read(p, input)
	if err != nil {
		return fmt.Errorf("read %s export: %w", p, err)
	}
	a.logger.Info("read platform export",
		zap.String("file", input),
		zap.Int("markers", m.NumMarkers()),
		zap.Int("samples", m.NumSamples()))

	builder := convert.NewBuilder(resolver, codes)
	builder.SetLogger(a.logger)
	asm := convert.NewAssembler(builder)
	asm.SetLogger(a.logger)

	res, err := asm.Run(m)
	if err != nil {
		return err
	}

	if err := hapmap.WriteFile(output, res.Table); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d markers x %d samples to %s\n", res.Table.Len(), len(res.Table.Samples), output)

	if viper.GetBool(keySplitResolved) {
		resolved := res.ResolvedOnly()
		path := convert.FilteredPath(output)
		if err := hapmap.WriteFile(path, resolved); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d resolved markers to %s\n", resolved.Len(), path)
	}

	droppedPath := opts.droppedPath
	if droppedPath == "" && len(res.Dropped) > 0 {
		droppedPath = convert.DroppedPath(output)
	}
	if droppedPath != "" {
		if err := convert.WriteDroppedFile(droppedPath, res.Dropped); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Dropped %d markers, listed in %s\n", len(res.Dropped), droppedPath)
	}

	if opts.duckdbPath != "" {
		if err := archiveTable(a.logger, opts.duckdbPath, res.Table, output); err != nil {
			return err
		}
	}
	return nil
}

// newResolver validates the coordinate options and loads the table.
func newResolver(logger *zap.Logger, coordsPath string) (*coord.Resolver, error) {
	unknown, err := coord.ParseUnknownPolicy(viper.GetString(keyUnknown))
	if err != nil {
		return nil, &usageError{err: err}
	}
	precedence, err := coord.ParsePrecedence(viper.GetString(keyPrecedence))
	if err != nil {
		return nil, &usageError{err: err}
	}

	var table *coord.Table
	if coordsPath != "" {
		table, err = coord.LoadTable(coordsPath)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded coordinate table",
			zap.String("file", coordsPath),
			zap.Int("entries", table.Len()))
		if table.Malformed() > 0 || table.Duplicates() > 0 {
			logger.Warn("coordinate table has skipped lines",
				zap.Int("malformed", table.Malformed()),
				zap.Int("duplicates", table.Duplicates()))
		}
	}

	return coord.NewResolver(table,
		coord.WithUnknownPolicy(unknown),
		coord.WithPrecedence(precedence)), nil
}

// newCodeTable builds the genotype table from the configured policy and
// extra missing sentinels.
func newCodeTable() (*genotype.CodeTable, error) {
	policy, err := genotype.ParseUnmatchedPolicy(viper.GetString(keyUnmatched))
	if err != nil {
		return nil, &usageError{err: err}
	}
	return genotype.NewCodeTable(policy, viper.GetStringSlice(keyMissing)...), nil
}

// archiveTable writes t into the DuckDB file at path.
func archiveTable(logger *zap.Logger, path string, t *hapmap.Table, sourceFile string) error {
	store, err := duckdb.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.WriteTable(t, sourceFile); err != nil {
		return fmt.Errorf("archive %s: %w", sourceFile, err)
	}
	logger.Info("archived hapmap table",
		zap.String("duckdb", path),
		zap.String("source", sourceFile),
		zap.Int("markers", t.Len()))
	return nil
}
