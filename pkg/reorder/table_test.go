package reorder

import (
	"testing"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/stretchr/testify/require"
)

func testTable(t *testing.T, mem memory.Allocator) arrow.Table {
	t.Helper()

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "age", Type: arrow.PrimitiveTypes.Int64},
		{Name: "sex", Type: arrow.BinaryTypes.String},
		{Name: "two_year_recid", Type: arrow.PrimitiveTypes.Int64},
	}, nil)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	b.Field(0).(*array.Int64Builder).AppendValues([]int64{25, 40}, nil)
	b.Field(1).(*array.StringBuilder).AppendValues([]string{"Male", "Female"}, nil)
	b.Field(2).(*array.Int64Builder).AppendValues([]int64{0, 1}, nil)

	record := b.NewRecord()
	defer record.Release()

	return array.NewTableFromRecords(schema, []arrow.Record{record})
}

func TestTable(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	tbl := testTable(t, mem)
	defer tbl.Release()

	got, err := Table(tbl, []string{"sex", "two_year_recid", "age"})
	require.NoError(t, err)
	defer got.Release()

	require.Equal(t, int64(2), got.NumRows())
	require.Equal(t, int64(3), got.NumCols())
	require.Equal(t, "sex", got.Schema().Field(0).Name)
	require.Equal(t, "age", got.Schema().Field(2).Name)

	sex := got.Column(0).Data().Chunk(0).(*array.String)
	require.Equal(t, "Female", sex.Value(1))
}

func TestTable_Missing(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	tbl := testTable(t, mem)
	defer tbl.Release()

	_, err := Table(tbl, []string{"sex", "race"})
	require.ErrorIs(t, err, ErrMissingColumn)
}
