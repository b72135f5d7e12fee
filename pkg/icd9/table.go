package icd9

import (
	"errors"
	"fmt"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"

	"github.com/molotkova/treatment-datasets/pkg/dataset"
)

// CategorySuffix names the column added next to a bucketed code column.
const CategorySuffix = "_category"

var (
	ErrColumnNotFound  = errors.New("column not found")
	ErrUnsupportedType = errors.New("unsupported code column type")
)

// Categories maps every cell of column to its category. Null cells are
// Unknown.
func Categories(column *arrow.Column, mem memory.Allocator) (*arrow.Chunked, error) {
	chunks := make([]arrow.Array, 0, len(column.Data().Chunks()))
	defer func() {
		for _, chunk := range chunks {
			chunk.Release()
		}
	}()

	for _, chunk := range column.Data().Chunks() {
		categories, err := categorize(chunk, mem)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", column.Name(), err)
		}
		chunks = append(chunks, categories)
	}
	return arrow.NewChunked(arrow.BinaryTypes.String, chunks), nil
}

func categorize(arr arrow.Array, mem memory.Allocator) (arrow.Array, error) {
	var category func(i int) string
	switch a := arr.(type) {
	case *array.String:
		category = func(i int) string { return Category(a.Value(i)) }
	case *array.LargeString:
		category = func(i int) string { return Category(a.Value(i)) }
	case *array.Int64:
		category = func(i int) string { return CategoryOf(float64(a.Value(i))) }
	case *array.Float64:
		category = func(i int) string { return CategoryOf(a.Value(i)) }
	case *array.Null:
		category = func(int) string { return Unknown }
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, arr.DataType())
	}

	b := array.NewStringBuilder(mem)
	defer b.Release()
	b.Reserve(arr.Len())
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			b.Append(Unknown)
			continue
		}
		b.Append(category(i))
	}
	return b.NewArray(), nil
}

// AddCategories returns tbl with a string column name+CategorySuffix inserted
// after each named code column. The result shares the data of tbl; the caller
// releases both tables.
func AddCategories(tbl arrow.Table, names []string, mem memory.Allocator) (arrow.Table, error) {
	added := make(map[int]*arrow.Column, len(names))
	defer func() {
		for _, column := range added {
			column.Release()
		}
	}()

	for _, name := range names {
		indices := tbl.Schema().FieldIndices(name)
		if len(indices) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
		}
		position := indices[0]
		if _, done := added[position]; done {
			continue
		}

		chunked, err := Categories(tbl.Column(position), mem)
		if err != nil {
			return nil, err
		}
		field := arrow.Field{
			Name: name + CategorySuffix,
			Type: arrow.BinaryTypes.String,
			Metadata: dataset.NewMetadataBuilder(arrow.Metadata{}).
				Add(dataset.KeyComment, "ICD-9 category of "+name).
				Build(),
		}
		added[position] = arrow.NewColumn(field, chunked)
		chunked.Release()
	}

	fields := make([]arrow.Field, 0, int(tbl.NumCols())+len(added))
	columns := make([]arrow.Column, 0, cap(fields))
	for i := 0; i < int(tbl.NumCols()); i++ {
		column := tbl.Column(i)
		fields = append(fields, column.Field())
		columns = append(columns, *column)
		if category, found := added[i]; found {
			fields = append(fields, category.Field())
			columns = append(columns, *category)
		}
	}

	metadata := tbl.Schema().Metadata()
	return array.NewTable(arrow.NewSchema(fields, &metadata), columns, tbl.NumRows()), nil
}
