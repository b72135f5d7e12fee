package profile

import (
	"fmt"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"

	"github.com/molotkova/treatment-datasets/pkg/taxonomy"
)

// Column is the profile of one dataset column.
type Column struct {
	Name  string
	Field Field
	Nulls int
}

// Table profiles every column of tbl. done, if not nil, is called after
// each column.
func Table(tbl arrow.Table, done func(column string)) ([]Column, error) {
	result := make([]Column, tbl.NumCols())
	for i := range result {
		column := tbl.Column(i)

		var field Field = &EmptyField{}
		for _, chunk := range column.Data().Chunks() {
			for j := 0; j < chunk.Len(); j++ {
				var err error
				field, err = field.Add(Value(chunk, j))
				if err != nil {
					return nil, fmt.Errorf("column %q row %d: %w", column.Name(), j, err)
				}
			}
		}

		result[i] = Column{Name: column.Name(), Field: field, Nulls: column.NullN()}
		if done != nil {
			done(column.Name())
		}
	}
	return result, nil
}

// Value converts one element of arr to the kinds a Field accepts: nil,
// bool, float64 or string. Types without a natural mapping use their string
// form.
func Value(arr arrow.Array, i int) any {
	if arr.IsNull(i) {
		return nil
	}
	switch a := arr.(type) {
	case *array.Boolean:
		return a.Value(i)
	case *array.Int8:
		return float64(a.Value(i))
	case *array.Int16:
		return float64(a.Value(i))
	case *array.Int32:
		return float64(a.Value(i))
	case *array.Int64:
		return float64(a.Value(i))
	case *array.Uint8:
		return float64(a.Value(i))
	case *array.Uint16:
		return float64(a.Value(i))
	case *array.Uint32:
		return float64(a.Value(i))
	case *array.Uint64:
		return float64(a.Value(i))
	case *array.Float32:
		return float64(a.Value(i))
	case *array.Float64:
		return a.Value(i)
	case *array.String:
		return a.Value(i)
	case *array.LargeString:
		return a.Value(i)
	default:
		return arr.ValueStr(i)
	}
}

// Suggest proposes a structural role dictionary from column profiles.
// Columns in skip, typically those already classified by the author, and
// columns holding only nulls are left out.
func Suggest(columns []Column, skip map[string]bool) taxonomy.RoleDict {
	var numerical, categorical []string
	for _, c := range columns {
		if skip[c.Name] {
			continue
		}
		switch c.Field.Role() {
		case taxonomy.Numerical:
			numerical = append(numerical, c.Name)
		case taxonomy.Categorical:
			categorical = append(categorical, c.Name)
		}
	}
	return taxonomy.RoleDict{
		{Role: taxonomy.Numerical, Columns: numerical},
		{Role: taxonomy.Categorical, Columns: categorical},
	}
}
