package reorder

import (
	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
)

// Table selects the columns of tbl named by order, in that order. The result
// shares column data with tbl; callers release both.
func Table(tbl arrow.Table, order []string) (arrow.Table, error) {
	schema := tbl.Schema()

	positions := make([]int, len(order))
	var missing []string
	for i, name := range order {
		indices := schema.FieldIndices(name)
		if len(indices) == 0 {
			missing = append(missing, name)
			continue
		}
		positions[i] = indices[0]
	}
	if len(missing) > 0 {
		return nil, &MissingColumnError{Missing: missing}
	}

	fields := make([]arrow.Field, len(order))
	columns := make([]arrow.Column, len(order))
	for i, position := range positions {
		column := tbl.Column(position)
		fields[i] = column.Field()
		columns[i] = *arrow.NewColumn(column.Field(), column.Data())
	}
	defer func() {
		for i := range columns {
			columns[i].Release()
		}
	}()

	metadata := schema.Metadata()
	return array.NewTable(arrow.NewSchema(fields, &metadata), columns, tbl.NumRows()), nil
}
