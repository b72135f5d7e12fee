package reorder

import (
	"testing"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/stretchr/testify/require"

	"github.com/molotkova/treatment-datasets/pkg/dataset"
	"github.com/molotkova/treatment-datasets/pkg/schema"
	"github.com/molotkova/treatment-datasets/pkg/taxonomy"
)

func metadataValue(t *testing.T, md arrow.Metadata, key string) string {
	t.Helper()
	i := md.FindKey(key)
	if i < 0 {
		return ""
	}
	return md.Values()[i]
}

func TestRoleMetadata(t *testing.T) {
	original := []string{"age", "sex", "race", "two_year_recid"}
	fairness := taxonomy.RoleDict{
		{Role: taxonomy.Sensitive, Columns: []string{"sex", "race"}},
		{Role: taxonomy.Target, Columns: []string{"two_year_recid"}},
	}
	structural := taxonomy.RoleDict{
		{Role: taxonomy.Numerical, Columns: []string{"age"}},
		{Role: taxonomy.Categorical, Columns: []string{"sex", "race"}},
	}
	s, _ := schema.Build(original, fairness, structural, "compas", 4)

	annotate, err := RoleMetadata(s, original, map[string]bool{"sex": true, "race": true}, DefaultSeparator)
	require.NoError(t, err)

	tcs := []struct {
		column         string
		wantFairness   string
		wantStructural string
	}{
		{column: "age", wantFairness: string(taxonomy.Unclassified), wantStructural: string(taxonomy.Numerical)},
		{column: "sex_Male", wantFairness: string(taxonomy.Sensitive), wantStructural: string(taxonomy.Categorical)},
		{column: "race_African-American", wantFairness: string(taxonomy.Sensitive), wantStructural: string(taxonomy.Categorical)},
		{column: "two_year_recid", wantFairness: string(taxonomy.Target), wantStructural: string(taxonomy.Unclassified)},
		{column: "unknown"},
	}

	for _, tc := range tcs {
		t.Run(tc.column, func(t *testing.T) {
			md := annotate(arrow.Field{Name: tc.column, Type: arrow.PrimitiveTypes.Int64})
			require.Equal(t, tc.wantFairness, metadataValue(t, md, dataset.KeyFairnessRole))
			require.Equal(t, tc.wantStructural, metadataValue(t, md, dataset.KeyStructuralRole))
		})
	}
}

func TestRoleMetadata_Mismatch(t *testing.T) {
	s, _ := schema.Build([]string{"a", "b", "c"},
		taxonomy.RoleDict{{Role: taxonomy.Target, Columns: []string{"c"}}}, nil, "t", 1)

	_, err := RoleMetadata(s, []string{"a"}, nil, DefaultSeparator)
	require.ErrorIs(t, err, schema.ErrSchemaMismatch)
}

func TestDictMetadata(t *testing.T) {
	annotate := DictMetadata(taxonomy.RoleDict{
		{Role: taxonomy.Sensitive, Columns: []string{"sex"}},
		{Role: taxonomy.Numerical, Columns: []string{"age"}},
	})

	md := annotate(arrow.Field{
		Name:     "sex",
		Type:     arrow.BinaryTypes.String,
		Metadata: arrow.NewMetadata([]string{dataset.KeyComment}, []string{"recorded at intake"}),
	})
	require.Equal(t, "recorded at intake", metadataValue(t, md, dataset.KeyComment))
	require.Equal(t, string(taxonomy.Sensitive), metadataValue(t, md, dataset.KeyFairnessRole))
	require.Equal(t, "", metadataValue(t, md, dataset.KeyStructuralRole))

	md = annotate(arrow.Field{Name: "age", Type: arrow.PrimitiveTypes.Int64})
	require.Equal(t, string(taxonomy.Numerical), metadataValue(t, md, dataset.KeyStructuralRole))

	md = annotate(arrow.Field{Name: "id", Type: arrow.PrimitiveTypes.Int64})
	require.Equal(t, 0, md.Len())
}
