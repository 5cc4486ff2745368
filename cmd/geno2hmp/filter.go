package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/geno2hmp/internal/genotype"
	"github.com/inodb/geno2hmp/internal/hapmap"
)

type filterOptions struct {
	iupac        bool
	resolvedOnly bool
	duckdbPath   string
}

func newFilterCmd(a *app) *cobra.Command {
	var opts filterOptions

	cmd := &cobra.Command{
		Use:   "filter <hapmap_file> <output_file>",
		Short: "Keep bi-allelic SNP markers of a HapMap file",
		Long: `Keep only markers whose alleles column is a single-base pair such as A/G.
Metadata columns are reset to NA and positions coerced to integers; markers
with unknown coordinates are kept unless --resolved-only is set.`,
		Example: `  geno2hmp filter out.hmp.txt out.biallelic.hmp.txt
  geno2hmp filter --iupac --resolved-only in.hmp.txt out.hmp.txt`,
		Args: usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd, a, args[0], args[1], opts)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.iupac, "iupac", false, "Recode genotype pairs such as A/G to IUPAC codes")
	f.BoolVar(&opts.resolvedOnly, "resolved-only", false, "Drop markers with unknown chromosome or position")
	f.String("unmatched", "missing", "Unrecognized genotype calls when recoding: missing or passthrough")
	f.StringVar(&opts.duckdbPath, "duckdb", "", "Also archive the filtered table in this DuckDB file")

	return cmd
}

func runFilter(cmd *cobra.Command, a *app, input, output string, opts filterOptions) error {
	fopts := hapmap.DefaultFilterOptions()
	fopts.ResolvedOnly = opts.resolvedOnly
	if opts.iupac {
		codes, err := newFilterCodeTable(cmd)
		if err != nil {
			return err
		}
		fopts.Recode = codes
	}

	in, err := hapmap.ReadFile(input)
	if err != nil {
		return err
	}

	out, stats := hapmap.Filter(in, fopts)
	a.logger.Info("filtered hapmap table",
		zap.String("file", input),
		zap.Int("input", stats.Input),
		zap.Int("kept", stats.Kept),
		zap.Int("not_biallelic", stats.NotBiAllelic),
		zap.Int("unresolved", stats.Unresolved),
		zap.Int("pos_unknown", stats.PosUnknown),
		zap.Int("recoded", stats.Recoded))

	if err := hapmap.WriteFile(output, out); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Kept %d of %d markers in %s\n", stats.Kept, stats.Input, output)

	if opts.duckdbPath != "" {
		return archiveTable(a.logger, opts.duckdbPath, out, output)
	}
	return nil
}

// newFilterCodeTable uses --unmatched when given, else the configured policy.
func newFilterCodeTable(cmd *cobra.Command) (*genotype.CodeTable, error) {
	value := viper.GetString(keyUnmatched)
	if f := cmd.Flags().Lookup("unmatched"); f != nil && f.Changed {
		value = f.Value.String()
	}
	policy, err := genotype.ParseUnmatchedPolicy(value)
	if err != nil {
		return nil, &usageError{err: err}
	}
	return genotype.NewCodeTable(policy, viper.GetStringSlice(keyMissing)...), nil
}
