package main

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/molotkova/treatment-datasets/pkg/cli"
	"github.com/molotkova/treatment-datasets/pkg/profile"
	"github.com/molotkova/treatment-datasets/pkg/taxonomy"
)

const (
	FlagOut = "out"
)

func init() {
	cli.AddLogFlags(&cmd)
	cli.AddDatasetFlags(&cmd)
	cmd.Flags().String(cli.FlagStructural, "", "existing structural role dictionary; its columns are not suggested again")
	cmd.Flags().String(FlagOut, "", "path of the suggested role dictionary, defaults to stdout")
}

func main() {
	err := cmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var cmd = cobra.Command{
	Use:     "suggest-roles DATASET",
	Short:   "proposes numerical and categorical roles from the values of each column",
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

	skip := make(map[string]bool)
	structuralPath, err := cmd.Flags().GetString(cli.FlagStructural)
	if err != nil {
		return fmt.Errorf("getting structural: %w", err)
	}
	if structuralPath != "" {
		existing, err := taxonomy.LoadRoleDict(structuralPath)
		if err != nil {
			return err
		}
		skip = lo.Associate(existing.Flatten(), func(column string) (string, bool) {
			return column, true
		})
	}

	tbl, err := cli.LoadDataset(cmd, inPath, logger)
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}
	defer tbl.Release()

	progress := cli.NewColumnProgress("profiling", tbl.NumCols())
	columns, err := profile.Table(tbl, progress.Done)
	progress.Wait()
	if err != nil {
		return fmt.Errorf("profiling columns: %w", err)
	}

	for _, c := range columns {
		logger.Debug("column profile",
			zap.String("column", c.Name),
			zap.String("role", string(c.Field.Role())),
			zap.Int("nulls", c.Nulls),
			zap.Stringer("values", c.Field))
	}

	suggested := profile.Suggest(columns, skip)

	outPath, err := cmd.Flags().GetString(FlagOut)
	if err != nil {
		return fmt.Errorf("getting out: %w", err)
	}
	out, closeOut, err := cli.Output(outPath)
	if err != nil {
		return fmt.Errorf("creating %q: %w", outPath, err)
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	err = enc.Encode(suggested)
	if err == nil {
		err = enc.Close()
	}
	if err != nil {
		_ = closeOut()
		return fmt.Errorf("writing role dictionary: %w", err)
	}

	logger.Info("suggested structural roles",
		zap.Int("numerical", len(suggested.Columns(taxonomy.Numerical))),
		zap.Int("categorical", len(suggested.Columns(taxonomy.Categorical))),
		zap.Int("skipped", len(skip)))
	return closeOut()
}
