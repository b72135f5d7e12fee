package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/molotkova/treatment-datasets/pkg/schema"
	"github.com/molotkova/treatment-datasets/pkg/taxonomy"
)

func newCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	AddLogFlags(cmd)
	AddSchemaFlags(cmd)
	AddRoleFlags(cmd)
	AddDatasetFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestRoleDicts(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		_, _, err := RoleDicts(newCommand(t))
		require.ErrorIs(t, err, ErrNoRoles)
	})

	t.Run("preset", func(t *testing.T) {
		fairness, structural, err := RoleDicts(newCommand(t, "--preset", taxonomy.PresetCompas))
		require.NoError(t, err)
		require.Equal(t, taxonomy.CompasFairness(), fairness)
		require.Equal(t, taxonomy.CompasStructural(), structural)
	})

	t.Run("file replaces preset", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fairness.yaml")
		require.NoError(t, os.WriteFile(path, []byte("target: [y]\n"), 0o644))

		fairness, structural, err := RoleDicts(newCommand(t, "--preset", taxonomy.PresetCompas, "--fairness", path))
		require.NoError(t, err)
		require.Equal(t, []taxonomy.Role{taxonomy.Target}, fairness.Roles())
		require.Equal(t, taxonomy.CompasStructural(), structural)
	})
}

func TestLoadSchema(t *testing.T) {
	_, err := LoadSchema(newCommand(t))
	require.ErrorIs(t, err, schema.ErrConfiguration)

	s, err := LoadSchema(newCommand(t, "--schema-text", "dataset:\n  name: inline\n"))
	require.NoError(t, err)
	require.Equal(t, "inline", s.Name())
}

func TestIsSet(t *testing.T) {
	cmd := newCommand(t, "--strict")
	require.True(t, IsSet(cmd, FlagStrict))
	require.False(t, IsSet(cmd, FlagPreset))
}

func TestDatasetName(t *testing.T) {
	require.Equal(t, "compas-scores-two-years", DatasetName("data/compas-scores-two-years.csv.gz"))
	require.Equal(t, "diabetic_data", DatasetName("diabetic_data.parquet"))
	require.Equal(t, "shards", DatasetName("in/shards/"))
}
