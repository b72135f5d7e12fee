package dataset

import (
	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
)

// Field metadata keys written on exported tables.
const (
	KeyComment        = "comment"
	KeyFairnessRole   = "role.fairness"
	KeyStructuralRole = "role.structural"
)

// MetadataBuilder is a convenience type to aid readability of code that
// specifies metadata for Arrow fields.
type MetadataBuilder struct {
	keys   []string
	values []string
}

// NewMetadataBuilder starts from the entries of base, if any.
func NewMetadataBuilder(base arrow.Metadata) *MetadataBuilder {
	return &MetadataBuilder{
		keys:   append([]string(nil), base.Keys()...),
		values: append([]string(nil), base.Values()...),
	}
}

// Add sets key to value, replacing an existing entry. Empty values are
// skipped.
func (b *MetadataBuilder) Add(key, value string) *MetadataBuilder {
	if value == "" {
		return b
	}
	for i, k := range b.keys {
		if k == key {
			b.values[i] = value
			return b
		}
	}
	b.keys = append(b.keys, key)
	b.values = append(b.values, value)
	return b
}

func (b *MetadataBuilder) Build() arrow.Metadata {
	return arrow.NewMetadata(b.keys, b.values)
}

// Annotate returns a table sharing the data of tbl whose fields carry the
// metadata returned by annotate. The caller releases both tables.
func Annotate(tbl arrow.Table, annotate func(field arrow.Field) arrow.Metadata) arrow.Table {
	fields := make([]arrow.Field, tbl.NumCols())
	columns := make([]arrow.Column, tbl.NumCols())
	for i := range columns {
		column := tbl.Column(i)
		field := column.Field()
		field.Metadata = annotate(field)
		fields[i] = field
		columns[i] = *arrow.NewColumn(field, column.Data())
	}
	defer func() {
		for i := range columns {
			columns[i].Release()
		}
	}()

	metadata := tbl.Schema().Metadata()
	return array.NewTable(arrow.NewSchema(fields, &metadata), columns, tbl.NumRows())
}
