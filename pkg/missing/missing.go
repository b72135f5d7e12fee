// Package missing computes per-column missing-value statistics of a dataset
// and groups them by the roles a schema assigns.
package missing

import (
	"sort"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"

	"github.com/molotkova/treatment-datasets/pkg/dataset"
	"github.com/molotkova/treatment-datasets/pkg/schema"
	"github.com/molotkova/treatment-datasets/pkg/taxonomy"
)

// Placeholder is the conventional marker for an unknown value in the
// recidivism and medical datasets.
const Placeholder = "?"

type Options struct {
	// IncludeOtherRole keeps columns of the Other role in reports.
	IncludeOtherRole bool
	// NormalizePlaceholder, if set, counts string cells equal to it as
	// missing in addition to nulls.
	NormalizePlaceholder *string
}

// Compute counts the missing cells of every column of tbl. Results are sorted
// by fraction descending; ties keep column order. Fractions of an empty table
// are zero.
func Compute(tbl arrow.Table, placeholder *string, done func(column string)) []schema.ColumnMissing {
	rows := tbl.NumRows()

	result := make([]schema.ColumnMissing, tbl.NumCols())
	for i := range result {
		column := tbl.Column(i)

		count := column.NullN()
		if placeholder != nil {
			count += countPlaceholders(column, *placeholder)
		}

		var fraction float64
		if rows > 0 {
			fraction = float64(count) / float64(rows)
		}
		result[i] = schema.ColumnMissing{Column: column.Name(), Count: count, Fraction: fraction}

		if done != nil {
			done(column.Name())
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Fraction > result[j].Fraction
	})
	return result
}

func countPlaceholders(column *arrow.Column, placeholder string) int {
	count := 0
	for _, chunk := range column.Data().Chunks() {
		switch strs := chunk.(type) {
		case *array.String:
			for i := 0; i < strs.Len(); i++ {
				if strs.IsValid(i) && strs.Value(i) == placeholder {
					count++
				}
			}
		case *array.LargeString:
			for i := 0; i < strs.Len(); i++ {
				if strs.IsValid(i) && strs.Value(i) == placeholder {
					count++
				}
			}
		}
	}
	return count
}

// Report computes missing-value statistics for tbl and groups them by the
// roles s assigns within t. The table's columns must be the layout s was
// built from.
func Report(
	tbl arrow.Table,
	s *schema.Schema,
	t taxonomy.Taxonomy,
	opts Options,
	done func(column string),
) ([]schema.RoleMissing, error) {
	stats := Compute(tbl, opts.NormalizePlaceholder, done)
	return s.GroupMissingnessByRole(stats, dataset.Columns(tbl), t, opts.IncludeOtherRole)
}
