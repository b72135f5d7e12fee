package dataset

import (
	"fmt"
	"strconv"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"

	"github.com/molotkova/treatment-datasets/pkg/profile"
)

// parseScalar interprets a CSV cell the way a JSON decoder would type it.
func parseScalar(s string) any {
	switch s {
	case "true", "True", "TRUE":
		return true
	case "false", "False", "FALSE":
		return false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// narrow converts string columns of tbl to Int64, Float64 or Boolean when
// every non-null value parses as such.
func narrow(tbl arrow.Table, mem memory.Allocator) (arrow.Table, error) {
	fields := make([]arrow.Field, tbl.NumCols())
	columns := make([]arrow.Column, tbl.NumCols())
	defer func() {
		for i := range columns {
			if columns[i].Data() != nil {
				columns[i].Release()
			}
		}
	}()

	for i := range columns {
		column := tbl.Column(i)
		field := column.Field()

		target := inferType(column)
		if arrow.TypeEqual(target, field.Type) {
			fields[i] = field
			columns[i] = *arrow.NewColumn(field, column.Data())
			continue
		}

		chunks := make([]arrow.Array, 0, len(column.Data().Chunks()))
		for _, chunk := range column.Data().Chunks() {
			converted, err := convert(chunk.(*array.String), target, mem)
			if err != nil {
				for _, c := range chunks {
					c.Release()
				}
				return nil, fmt.Errorf("column %q: %w", field.Name, err)
			}
			chunks = append(chunks, converted)
		}

		field.Type = target
		chunked := arrow.NewChunked(target, chunks)
		for _, c := range chunks {
			c.Release()
		}
		fields[i] = field
		columns[i] = *arrow.NewColumn(field, chunked)
		chunked.Release()
	}

	metadata := tbl.Schema().Metadata()
	return array.NewTable(arrow.NewSchema(fields, &metadata), columns, tbl.NumRows()), nil
}

func inferType(column *arrow.Column) arrow.DataType {
	if !arrow.TypeEqual(column.DataType(), arrow.BinaryTypes.String) {
		return column.DataType()
	}

	var field profile.Field = &profile.EmptyField{}
	for _, chunk := range column.Data().Chunks() {
		strs := chunk.(*array.String)
		for j := 0; j < strs.Len(); j++ {
			if strs.IsNull(j) {
				continue
			}
			value := parseScalar(strs.Value(j))
			if !canonical(strs.Value(j), value) {
				return arrow.BinaryTypes.String
			}
			var err error
			field, err = field.Add(value)
			if err != nil {
				return arrow.BinaryTypes.String
			}
		}
	}
	return field.DataType()
}

// canonical reports whether writing value back out reproduces s, so that
// narrowing never rewrites codes such as "038" or "250.10".
func canonical(s string, value any) bool {
	switch v := value.(type) {
	case bool:
		return strconv.FormatBool(v) == s
	case float64:
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return strconv.FormatInt(i, 10) == s
		}
		return strconv.FormatFloat(v, 'g', -1, 64) == s
	default:
		return true
	}
}

func convert(strs *array.String, target arrow.DataType, mem memory.Allocator) (arrow.Array, error) {
	switch target.ID() {
	case arrow.INT64:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		for i := 0; i < strs.Len(); i++ {
			if strs.IsNull(i) {
				b.AppendNull()
				continue
			}
			v, err := strconv.ParseInt(strs.Value(i), 10, 64)
			if err != nil {
				f, errFloat := strconv.ParseFloat(strs.Value(i), 64)
				if errFloat != nil {
					return nil, err
				}
				v = int64(f)
			}
			b.Append(v)
		}
		return b.NewArray(), nil
	case arrow.FLOAT64:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		for i := 0; i < strs.Len(); i++ {
			if strs.IsNull(i) {
				b.AppendNull()
				continue
			}
			v, err := strconv.ParseFloat(strs.Value(i), 64)
			if err != nil {
				return nil, err
			}
			b.Append(v)
		}
		return b.NewArray(), nil
	case arrow.BOOL:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		for i := 0; i < strs.Len(); i++ {
			if strs.IsNull(i) {
				b.AppendNull()
				continue
			}
			b.Append(parseScalar(strs.Value(i)) == true)
		}
		return b.NewArray(), nil
	default:
		return nil, fmt.Errorf("%w: cannot convert strings to %s", ErrUnsupportedFormat, target)
	}
}
