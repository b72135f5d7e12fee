package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/molotkova/treatment-datasets/pkg/cli"
	"github.com/molotkova/treatment-datasets/pkg/dataset"
	"github.com/molotkova/treatment-datasets/pkg/reorder"
	"github.com/molotkova/treatment-datasets/pkg/schema"
	"github.com/molotkova/treatment-datasets/pkg/taxonomy"
)

const (
	FlagRoleDict         = "role-dict"
	FlagOriginal         = "original"
	FlagSeparator        = "separator"
	FlagCategoricalRoles = "categorical-roles"
)

var ErrNoColumns = errors.New("no columns selected")

func init() {
	cli.AddLogFlags(&cmd)
	cli.AddSchemaFlags(&cmd)
	cli.AddDatasetFlags(&cmd)
	cmd.Flags().String(cli.FlagPriority, "", "comma-separated roles in output order, e.g. sensitive,covariate,treatment,target")
	cmd.Flags().String(FlagRoleDict, "", "order columns by this role dictionary instead of a schema")
	cmd.Flags().String(FlagOriginal, "", "dataset the schema was built from, before one-hot encoding")
	cmd.Flags().String(FlagSeparator, reorder.DefaultSeparator, "separator between a feature and its value in one-hot column names")
	cmd.Flags().String(FlagCategoricalRoles, string(taxonomy.Categorical), "comma-separated roles whose features were one-hot encoded")

	cmd.MarkFlagsOneRequired(cli.FlagPriority, FlagRoleDict)
	cmd.MarkFlagsMutuallyExclusive(cli.FlagPriority, FlagRoleDict)
}

func main() {
	err := cmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var cmd = cobra.Command{
	Use:     "reorder-columns DATASET OUT",
	Short:   "reorders dataset columns by role and records each column's roles as field metadata",
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

	tbl, err := cli.LoadDataset(cmd, inPath, logger)
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}
	defer tbl.Release()

	var order []string
	var annotate func(arrow.Field) arrow.Metadata
	if cli.IsSet(cmd, FlagRoleDict) {
		order, annotate, err = byRoleDict(cmd, tbl, logger)
	} else {
		order, annotate, err = bySchema(cmd, tbl, logger)
	}
	if err != nil {
		return err
	}
	if len(order) == 0 {
		return ErrNoColumns
	}

	reordered, err := reorder.Table(tbl, order)
	if err != nil {
		return fmt.Errorf("reordering columns: %w", err)
	}
	defer reordered.Release()

	annotated := dataset.Annotate(reordered, annotate)
	defer annotated.Release()

	err = dataset.Write(annotated, outPath)
	if err != nil {
		return fmt.Errorf("writing %q: %w", outPath, err)
	}
	dataset.LogShape(logger, cli.DatasetName(outPath), annotated)
	return nil
}

func byRoleDict(cmd *cobra.Command, tbl arrow.Table, logger *zap.Logger) ([]string, func(arrow.Field) arrow.Metadata, error) {
	path, err := cmd.Flags().GetString(FlagRoleDict)
	if err != nil {
		return nil, nil, fmt.Errorf("getting role dictionary: %w", err)
	}
	d, err := taxonomy.LoadRoleDict(path)
	if err != nil {
		return nil, nil, err
	}

	order, err := reorder.ByRoleDict(dataset.Columns(tbl), d, logger)
	if err != nil {
		return nil, nil, err
	}
	return order, reorder.DictMetadata(d), nil
}

func bySchema(cmd *cobra.Command, tbl arrow.Table, logger *zap.Logger) ([]string, func(arrow.Field) arrow.Metadata, error) {
	s, err := cli.LoadSchema(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("loading schema: %w", err)
	}

	priorityFlag, err := cmd.Flags().GetString(cli.FlagPriority)
	if err != nil {
		return nil, nil, fmt.Errorf("getting priority: %w", err)
	}
	priority, err := taxonomy.ParseRoles(priorityFlag)
	if err != nil {
		return nil, nil, err
	}

	separator, err := cmd.Flags().GetString(FlagSeparator)
	if err != nil {
		return nil, nil, fmt.Errorf("getting separator: %w", err)
	}

	columns := dataset.Columns(tbl)
	layout, err := originalLayout(cmd, columns, logger)
	if err != nil {
		return nil, nil, err
	}

	err = cli.VerifySchema(cmd, s, layout)
	if err != nil {
		return nil, nil, err
	}

	order, err := s.OrderedColumns(layout, priority)
	if err != nil {
		return nil, nil, err
	}

	categorical := make(map[string]bool)
	if cli.IsSet(cmd, FlagOriginal) {
		categorical, err = categoricalFeatures(cmd, s, layout)
		if err != nil {
			return nil, nil, err
		}
		order = reorder.RestoreGroupedOrder(columns, order, categorical, separator)
	}

	dropped := lo.Without(columns, order...)
	if len(dropped) > 0 {
		logger.Warn("dropping columns without a prioritized role", zap.Strings("columns", dropped))
	}

	annotate, err := reorder.RoleMetadata(s, layout, categorical, separator)
	if err != nil {
		return nil, nil, err
	}
	return order, annotate, nil
}

// originalLayout returns the columns of --original when set, and columns
// otherwise.
func originalLayout(cmd *cobra.Command, columns []string, logger *zap.Logger) ([]string, error) {
	path, err := cmd.Flags().GetString(FlagOriginal)
	if err != nil {
		return nil, fmt.Errorf("getting original: %w", err)
	}
	if path == "" {
		return columns, nil
	}

	original, err := cli.LoadDataset(cmd, path, logger)
	if err != nil {
		return nil, fmt.Errorf("loading original dataset: %w", err)
	}
	defer original.Release()
	return dataset.Columns(original), nil
}

func categoricalFeatures(cmd *cobra.Command, s *schema.Schema, layout []string) (map[string]bool, error) {
	rolesFlag, err := cmd.Flags().GetString(FlagCategoricalRoles)
	if err != nil {
		return nil, fmt.Errorf("getting categorical roles: %w", err)
	}
	roles, err := taxonomy.ParseRoles(rolesFlag)
	if err != nil {
		return nil, err
	}

	result := make(map[string]bool)
	for _, r := range roles {
		features, err := s.FeaturesForRole(layout, r.Taxonomy(), r)
		if err != nil {
			return nil, err
		}
		for _, f := range features {
			result[f] = true
		}
	}
	return result, nil
}
