package schema

import (
	"github.com/molotkova/treatment-datasets/pkg/taxonomy"
)

// FeaturesForRole resolves the stored positions of a role against columns,
// in role-declared order. A role the schema does not record has no features.
func (s *Schema) FeaturesForRole(columns []string, t taxonomy.Taxonomy, r taxonomy.Role) ([]string, error) {
	indexes := s.Indexes(t, r)
	names := make([]string, 0, len(indexes))
	for _, i := range indexes {
		if i < 0 || i >= len(columns) {
			return nil, &SchemaMismatchError{Taxonomy: t, Role: r, Index: i, ColumnCount: len(columns)}
		}
		names = append(names, columns[i])
	}
	return names, nil
}

// OrderedColumns concatenates the features of each role in priority order,
// skipping roles the schema does not record. Roles of either taxonomy may
// appear in priority.
//
// The result depends only on priority and the order roles were declared in,
// never on the physical order of columns.
func (s *Schema) OrderedColumns(columns []string, priority []taxonomy.Role) ([]string, error) {
	var result []string
	for _, r := range priority {
		t := r.Taxonomy()
		if !s.Has(t, r) {
			continue
		}
		features, err := s.FeaturesForRole(columns, t, r)
		if err != nil {
			return nil, err
		}
		result = append(result, features...)
	}
	return result, nil
}

// RoleOfFeature returns the first role of t, in declaration order, that lists
// feature, or taxonomy.Unclassified.
func (s *Schema) RoleOfFeature(columns []string, t taxonomy.Taxonomy, feature string) (taxonomy.Role, error) {
	for _, r := range t.Roles() {
		features, err := s.FeaturesForRole(columns, t, r)
		if err != nil {
			return "", err
		}
		for _, f := range features {
			if f == feature {
				return r, nil
			}
		}
	}
	return taxonomy.Unclassified, nil
}

// roleIndex maps every classified feature of t to its role, keeping the
// first role in declaration order for features listed more than once.
func (s *Schema) roleIndex(columns []string, t taxonomy.Taxonomy) (map[string]taxonomy.Role, error) {
	result := make(map[string]taxonomy.Role)
	for _, r := range t.Roles() {
		features, err := s.FeaturesForRole(columns, t, r)
		if err != nil {
			return nil, err
		}
		for _, f := range features {
			if _, found := result[f]; !found {
				result[f] = r
			}
		}
	}
	return result, nil
}
