package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/molotkova/treatment-datasets/pkg/cli"
	"github.com/molotkova/treatment-datasets/pkg/dataset"
	"github.com/molotkova/treatment-datasets/pkg/missing"
	"github.com/molotkova/treatment-datasets/pkg/schema"
	"github.com/molotkova/treatment-datasets/pkg/taxonomy"
)

const (
	FlagTaxonomy     = "taxonomy"
	FlagIncludeOther = "include-other"
	FlagPlaceholder  = "placeholder"
	FlagOut          = "out"
)

func init() {
	cli.AddLogFlags(&cmd)
	cli.AddSchemaFlags(&cmd)
	cli.AddDatasetFlags(&cmd)
	cmd.Flags().String(FlagTaxonomy, string(taxonomy.Fairness), "taxonomy to group by: fairness or structural")
	cmd.Flags().Bool(FlagIncludeOther, false, "keep columns of the other role")
	cmd.Flags().String(FlagPlaceholder, missing.Placeholder, "string value counted as missing; only applied when set")
	cmd.Flags().String(FlagOut, "", "report path, defaults to stdout")
}

func main() {
	err := cmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var cmd = cobra.Command{
	Use:     "missing-report DATASET",
	Short:   "reports missing values per column, grouped by role",
	Args:    cobra.ExactArgs(1),
	Version: "0.1.0",
	RunE:    runE,
}

func runE(cmd *cobra.Command, args []string) error {
	inPath := args[0]

	logger, err := cli.Logger(cmd)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	s, err := cli.LoadSchema(cmd)
	if err != nil {
		return fmt.Errorf("loading schema: %w", err)
	}

	taxonomyName, err := cmd.Flags().GetString(FlagTaxonomy)
	if err != nil {
		return fmt.Errorf("getting taxonomy: %w", err)
	}
	t, err := taxonomy.ParseTaxonomy(taxonomyName)
	if err != nil {
		return err
	}

	opts, err := getOptions(cmd)
	if err != nil {
		return err
	}

	tbl, err := cli.LoadDataset(cmd, inPath, logger)
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}
	defer tbl.Release()

	err = cli.VerifySchema(cmd, s, dataset.Columns(tbl))
	if err != nil {
		return err
	}
	if s.SampleCount() != int(tbl.NumRows()) {
		logger.Warn("sample count differs from schema",
			zap.Int("schema", s.SampleCount()),
			zap.Int64("dataset", tbl.NumRows()))
	}

	progress := cli.NewColumnProgress("columns", tbl.NumCols())
	rows, err := missing.Report(tbl, s, t, opts, progress.Done)
	progress.Wait()
	if err != nil {
		return fmt.Errorf("grouping missing values: %w", err)
	}

	outPath, err := cmd.Flags().GetString(FlagOut)
	if err != nil {
		return fmt.Errorf("getting out: %w", err)
	}
	out, closeOut, err := cli.Output(outPath)
	if err != nil {
		return fmt.Errorf("creating report %q: %w", outPath, err)
	}

	err = writeReport(out, rows)
	if err != nil {
		_ = closeOut()
		return fmt.Errorf("writing report: %w", err)
	}

	logger.Info("missing values grouped",
		zap.String("taxonomy", string(t)),
		zap.Int("columns", len(rows)))
	return closeOut()
}

func getOptions(cmd *cobra.Command) (missing.Options, error) {
	includeOther, err := cmd.Flags().GetBool(FlagIncludeOther)
	if err != nil {
		return missing.Options{}, fmt.Errorf("getting include-other: %w", err)
	}

	opts := missing.Options{IncludeOtherRole: includeOther}
	if cli.IsSet(cmd, FlagPlaceholder) {
		placeholder, err := cmd.Flags().GetString(FlagPlaceholder)
		if err != nil {
			return missing.Options{}, fmt.Errorf("getting placeholder: %w", err)
		}
		opts.NormalizePlaceholder = &placeholder
	}
	return opts, nil
}

func writeReport(w io.Writer, rows []schema.RoleMissing) error {
	_, err := fmt.Fprintln(w, "Category;Feature;Missing_Count;Missing_Percentage")
	if err != nil {
		return err
	}
	for _, row := range rows {
		_, err = fmt.Fprintf(w, "%s;%s;%d;%.2f\n", row.Role.Title(), row.Column, row.Count, row.Fraction*100)
		if err != nil {
			return err
		}
	}
	return nil
}
