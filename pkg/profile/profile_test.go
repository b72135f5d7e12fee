package profile

import (
	"testing"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/molotkova/treatment-datasets/pkg/taxonomy"
)

func TestField(t *testing.T) {
	tcs := []struct {
		name     string
		values   []any
		wantRole taxonomy.Role
		wantType arrow.DataType
		wantStr  string
	}{
		{
			name:     "nulls only",
			values:   []any{nil, nil},
			wantRole: taxonomy.Unclassified,
			wantType: arrow.BinaryTypes.String,
			wantStr:  "empty",
		},
		{
			name:     "flag",
			values:   []any{nil, 0.0, 1.0, 1.0},
			wantRole: taxonomy.Categorical,
			wantType: arrow.PrimitiveTypes.Int64,
			wantStr:  "integer;0;1",
		},
		{
			name:     "counts",
			values:   []any{0.0, 3.0, 12.0},
			wantRole: taxonomy.Numerical,
			wantType: arrow.PrimitiveTypes.Int64,
			wantStr:  "integer;0;12",
		},
		{
			name:     "scores",
			values:   []any{0.5, 2.0},
			wantRole: taxonomy.Numerical,
			wantType: arrow.PrimitiveTypes.Float64,
			wantStr:  "float;0.5;2",
		},
		{
			name:     "booleans",
			values:   []any{true, nil, false, true},
			wantRole: taxonomy.Categorical,
			wantType: arrow.FixedWidthTypes.Boolean,
			wantStr:  "bool;true:2;false:1",
		},
		{
			name:     "strings",
			values:   []any{"Male", "Female", nil, "Male"},
			wantRole: taxonomy.Categorical,
			wantType: arrow.BinaryTypes.String,
			wantStr:  "enum;2;Female:1;Male:2",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			var f Field = &EmptyField{}
			for _, v := range tc.values {
				var err error
				f, err = f.Add(v)
				require.NoError(t, err)
			}
			require.Equal(t, tc.wantRole, f.Role())
			require.True(t, arrow.TypeEqual(tc.wantType, f.DataType()), "got %s", f.DataType())
			require.Equal(t, tc.wantStr, f.String())
		})
	}
}

func TestField_MixedKinds(t *testing.T) {
	var f Field = &EmptyField{}
	f, err := f.Add("a")
	require.NoError(t, err)
	_, err = f.Add(1.0)
	require.Error(t, err)
}

func TestTable(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "age", Type: arrow.PrimitiveTypes.Int32},
		{Name: "sex", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "is_recid", Type: arrow.PrimitiveTypes.Int64},
		{Name: "blank", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()
	b.Field(0).(*array.Int32Builder).AppendValues([]int32{25, 31, 60}, nil)
	b.Field(1).(*array.StringBuilder).AppendValues([]string{"Male", "", "Female"}, []bool{true, false, true})
	b.Field(2).(*array.Int64Builder).AppendValues([]int64{0, 1, 0}, nil)
	b.Field(3).(*array.StringBuilder).AppendNulls(3)

	record := b.NewRecord()
	defer record.Release()
	tbl := array.NewTableFromRecords(schema, []arrow.Record{record})
	defer tbl.Release()

	var done []string
	columns, err := Table(tbl, func(column string) { done = append(done, column) })
	require.NoError(t, err)
	require.Equal(t, []string{"age", "sex", "is_recid", "blank"}, done)
	require.Equal(t, 1, columns[1].Nulls)
	require.Equal(t, 3, columns[3].Nulls)

	got := Suggest(columns, map[string]bool{"age": false, "sex": true})
	want := taxonomy.RoleDict{
		{Role: taxonomy.Numerical, Columns: []string{"age"}},
		{Role: taxonomy.Categorical, Columns: []string{"is_recid"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Error(diff)
	}
}
