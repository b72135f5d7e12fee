package schema

import (
	"sort"

	"github.com/molotkova/treatment-datasets/pkg/taxonomy"
)

// ColumnMissing is the missing-value statistic of one column.
type ColumnMissing struct {
	Column   string
	Count    int
	Fraction float64
}

// RoleMissing is a ColumnMissing joined with the column's role.
type RoleMissing struct {
	Role     taxonomy.Role
	Column   string
	Count    int
	Fraction float64
}

// GroupMissingnessByRole joins per-column statistics with the role of each
// column in t. Unclassified columns are dropped, as are columns of the Other
// role unless includeOther is set. Rows are sorted by role declaration order,
// then by fraction descending; ties keep the order of stats.
func (s *Schema) GroupMissingnessByRole(
	stats []ColumnMissing,
	columns []string,
	t taxonomy.Taxonomy,
	includeOther bool,
) ([]RoleMissing, error) {
	roles, err := s.roleIndex(columns, t)
	if err != nil {
		return nil, err
	}

	result := make([]RoleMissing, 0, len(stats))
	for _, stat := range stats {
		role, found := roles[stat.Column]
		if !found {
			continue
		}
		if role == taxonomy.Other && !includeOther {
			continue
		}
		result = append(result, RoleMissing{
			Role:     role,
			Column:   stat.Column,
			Count:    stat.Count,
			Fraction: stat.Fraction,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		ri, rj := t.Rank(result[i].Role), t.Rank(result[j].Role)
		if ri != rj {
			return ri < rj
		}
		return result[i].Fraction > result[j].Fraction
	})
	return result, nil
}
