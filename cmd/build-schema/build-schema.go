package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/molotkova/treatment-datasets/pkg/cli"
	"github.com/molotkova/treatment-datasets/pkg/dataset"
	"github.com/molotkova/treatment-datasets/pkg/schema"
	"github.com/molotkova/treatment-datasets/pkg/taxonomy"
)

const (
	FlagName = "name"
)

func init() {
	cli.AddLogFlags(&cmd)
	cli.AddRoleFlags(&cmd)
	cli.AddDatasetFlags(&cmd)
	cmd.Flags().String(FlagName, "", "dataset name recorded in the schema, defaults to the file name")
}

func main() {
	err := cmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var cmd = cobra.Command{
	Use:     "build-schema DATASET OUT_SCHEMA",
	Short:   "records which columns of a dataset fill each fairness and structural role",
	Args:    cobra.ExactArgs(2),
	Version: "0.1.0",
	RunE:    runE,
}

func runE(cmd *cobra.Command, args []string) error {
	inPath := args[0]
	outPath := args[1]

	logger, err := cli.Logger(cmd)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	fairness, structural, err := cli.RoleDicts(cmd)
	if err != nil {
		return fmt.Errorf("getting role dictionaries: %w", err)
	}

	name, err := cmd.Flags().GetString(FlagName)
	if err != nil {
		return fmt.Errorf("getting name: %w", err)
	}
	if name == "" {
		name = cli.DatasetName(inPath)
	}

	tbl, err := cli.LoadDataset(cmd, inPath, logger)
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}
	defer tbl.Release()

	s, report := schema.Build(dataset.Columns(tbl), fairness, structural, name, int(tbl.NumRows()))
	report.Log(logger)
	for _, t := range taxonomy.Taxonomies() {
		for _, r := range t.Roles() {
			logger.Debug("resolved role",
				zap.String("taxonomy", string(t)),
				zap.String("role", string(r)),
				zap.Int("features", s.Count(t, r)))
		}
	}

	err = s.WriteFile(outPath)
	if err != nil {
		return fmt.Errorf("writing schema %q: %w", outPath, err)
	}

	logger.Info("wrote schema",
		zap.String("dataset", name),
		zap.String("path", outPath),
		zap.Int("n_samples", s.SampleCount()),
		zap.Int("ignored", len(report.Ignored)))
	return nil
}
