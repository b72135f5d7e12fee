// Package cli holds the flags and setup shared by the command line tools.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/molotkova/treatment-datasets/pkg/dataset"
	"github.com/molotkova/treatment-datasets/pkg/logging"
	"github.com/molotkova/treatment-datasets/pkg/schema"
	"github.com/molotkova/treatment-datasets/pkg/taxonomy"
)

const (
	FlagSchema     = "schema"
	FlagSchemaText = "schema-text"
	FlagFairness   = "fairness"
	FlagStructural = "structural"
	FlagPreset     = "preset"
	FlagNullValues = "null-values"
	FlagStrict     = "strict"
	FlagPriority   = "priority"
)

var ErrNoRoles = errors.New("no role dictionaries provided")

func AddLogFlags(cmd *cobra.Command) {
	cmd.Flags().String(logging.FlagLevel, "info", "log level: debug, info, warn or error")
}

func AddSchemaFlags(cmd *cobra.Command) {
	cmd.Flags().String(FlagSchema, "", "path of the schema YAML file")
	cmd.Flags().String(FlagSchemaText, "", "inline schema YAML, used instead of --schema")
	cmd.Flags().Bool(FlagStrict, false, "fail unless the dataset columns match the layout the schema was built from")
}

func AddRoleFlags(cmd *cobra.Command) {
	cmd.Flags().String(FlagFairness, "", "path of the fairness role dictionary YAML")
	cmd.Flags().String(FlagStructural, "", "path of the structural role dictionary YAML")
	cmd.Flags().String(FlagPreset, "", "built-in role dictionaries to start from: "+taxonomy.PresetCompas)
}

func AddDatasetFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice(FlagNullValues, dataset.DefaultNullValues, "CSV cell values read as null")
}

// IsSet reports whether the user set the named flag explicitly.
func IsSet(cmd *cobra.Command, name string) bool {
	set := false
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func Logger(cmd *cobra.Command) (*zap.Logger, error) {
	level, err := cmd.Flags().GetString(logging.FlagLevel)
	if err != nil {
		return nil, err
	}
	return logging.New(level)
}

// RoleDicts returns the preset role dictionaries, replaced by whichever
// dictionary files were given.
func RoleDicts(cmd *cobra.Command) (fairness, structural taxonomy.RoleDict, err error) {
	preset, err := cmd.Flags().GetString(FlagPreset)
	if err != nil {
		return nil, nil, err
	}
	if preset != "" {
		fairness, structural, err = taxonomy.Preset(preset)
		if err != nil {
			return nil, nil, err
		}
	}

	fairnessPath, err := cmd.Flags().GetString(FlagFairness)
	if err != nil {
		return nil, nil, err
	}
	if fairnessPath != "" {
		fairness, err = taxonomy.LoadRoleDict(fairnessPath)
		if err != nil {
			return nil, nil, err
		}
	}

	structuralPath, err := cmd.Flags().GetString(FlagStructural)
	if err != nil {
		return nil, nil, err
	}
	if structuralPath != "" {
		structural, err = taxonomy.LoadRoleDict(structuralPath)
		if err != nil {
			return nil, nil, err
		}
	}

	if fairness == nil && structural == nil {
		return nil, nil, fmt.Errorf("%w: use --%s, --%s or --%s", ErrNoRoles, FlagPreset, FlagFairness, FlagStructural)
	}
	return fairness, structural, nil
}

// LoadSchema reads the schema named by --schema-text or --schema.
func LoadSchema(cmd *cobra.Command) (*schema.Schema, error) {
	path, err := cmd.Flags().GetString(FlagSchema)
	if err != nil {
		return nil, err
	}
	text, err := cmd.Flags().GetString(FlagSchemaText)
	if err != nil {
		return nil, err
	}
	return schema.Load(path, []byte(text))
}

// VerifySchema checks the column layout digest when --strict is set.
func VerifySchema(cmd *cobra.Command, s *schema.Schema, columns []string) error {
	strict, err := cmd.Flags().GetBool(FlagStrict)
	if err != nil {
		return err
	}
	if !strict {
		return nil
	}
	return s.VerifyColumns(columns)
}

func LoadDataset(cmd *cobra.Command, path string, logger *zap.Logger) (arrow.Table, error) {
	nullValues, err := cmd.Flags().GetStringSlice(FlagNullValues)
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	tbl, err := dataset.Load(ctx, path, dataset.Options{NullValues: nullValues})
	if err != nil {
		return nil, err
	}
	dataset.LogShape(logger, DatasetName(path), tbl)
	return tbl, nil
}

// DatasetName derives a dataset identifier from its path,
// e.g. "compas-scores-two-years" for "data/compas-scores-two-years.csv.gz".
func DatasetName(path string) string {
	name := filepath.Base(filepath.Clean(path))
	name = strings.TrimSuffix(name, dataset.GzipExt)
	for _, ext := range []string{dataset.CSVExt, dataset.ParquetExt, dataset.JSONLExt} {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}

// Output opens path for writing, or returns stdout for "". The returned
// function closes the file.
func Output(path string) (*os.File, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
