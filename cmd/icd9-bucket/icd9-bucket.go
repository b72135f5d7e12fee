package main

import (
	"fmt"
	"os"

	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/molotkova/treatment-datasets/pkg/cli"
	"github.com/molotkova/treatment-datasets/pkg/dataset"
	"github.com/molotkova/treatment-datasets/pkg/icd9"
)

const (
	FlagColumns = "columns"
)

func init() {
	cli.AddLogFlags(&cmd)
	cli.AddDatasetFlags(&cmd)
	cmd.Flags().StringSlice(FlagColumns, []string{"diag_1", "diag_2", "diag_3"}, "diagnosis code columns to bucket")
}

func main() {
	err := cmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var cmd = cobra.Command{
	Use:     "icd9-bucket DATASET OUT",
	Short:   "adds a coarse ICD-9 category column next to each diagnosis code column",
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

	columns, err := cmd.Flags().GetStringSlice(FlagColumns)
	if err != nil {
		return fmt.Errorf("getting columns: %w", err)
	}

	tbl, err := cli.LoadDataset(cmd, inPath, logger)
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}
	defer tbl.Release()

	bucketed, err := icd9.AddCategories(tbl, columns, memory.NewGoAllocator())
	if err != nil {
		return fmt.Errorf("bucketing diagnosis codes: %w", err)
	}
	defer bucketed.Release()

	err = dataset.Write(bucketed, outPath)
	if err != nil {
		return fmt.Errorf("writing %q: %w", outPath, err)
	}

	logger.Info("bucketed diagnosis codes",
		zap.Strings("columns", columns),
		zap.String("path", outPath))
	return nil
}
