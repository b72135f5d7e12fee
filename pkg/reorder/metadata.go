package reorder

import (
	"strings"

	"github.com/apache/arrow/go/v18/arrow"

	"github.com/molotkova/treatment-datasets/pkg/dataset"
	"github.com/molotkova/treatment-datasets/pkg/schema"
	"github.com/molotkova/treatment-datasets/pkg/taxonomy"
)

var roleKeys = map[taxonomy.Taxonomy]string{
	taxonomy.Fairness:   dataset.KeyFairnessRole,
	taxonomy.Structural: dataset.KeyStructuralRole,
}

// RoleMetadata returns an annotation recording the fairness and structural
// role of each field. Roles are resolved against original, the layout s was
// built from. Columns derived from a categorical feature inherit its roles;
// the longest matching feature name wins.
func RoleMetadata(
	s *schema.Schema,
	original []string,
	categorical map[string]bool,
	separator string,
) (func(field arrow.Field) arrow.Metadata, error) {
	roles := make(map[string]map[taxonomy.Taxonomy]taxonomy.Role, len(original))
	for _, feature := range original {
		if _, found := roles[feature]; found {
			continue
		}
		byTaxonomy := make(map[taxonomy.Taxonomy]taxonomy.Role, len(roleKeys))
		for t := range roleKeys {
			r, err := s.RoleOfFeature(original, t, feature)
			if err != nil {
				return nil, err
			}
			byTaxonomy[t] = r
		}
		roles[feature] = byTaxonomy
	}

	lookup := func(column string) map[taxonomy.Taxonomy]taxonomy.Role {
		if r, found := roles[column]; found {
			return r
		}
		best := ""
		for feature := range categorical {
			if strings.HasPrefix(column, feature+separator) && len(feature) > len(best) {
				best = feature
			}
		}
		return roles[best]
	}

	return func(field arrow.Field) arrow.Metadata {
		b := dataset.NewMetadataBuilder(field.Metadata)
		r := lookup(field.Name)
		for _, t := range taxonomy.Taxonomies() {
			b.Add(roleKeys[t], string(r[t]))
		}
		return b.Build()
	}, nil
}

// DictMetadata returns an annotation recording the role d assigns each
// field, under the key of the role's taxonomy.
func DictMetadata(d taxonomy.RoleDict) func(field arrow.Field) arrow.Metadata {
	roles := make(map[string]taxonomy.Role)
	for _, a := range d {
		for _, column := range a.Columns {
			if _, found := roles[column]; !found {
				roles[column] = a.Role
			}
		}
	}

	return func(field arrow.Field) arrow.Metadata {
		b := dataset.NewMetadataBuilder(field.Metadata)
		if r, found := roles[field.Name]; found {
			if key, known := roleKeys[r.Taxonomy()]; known {
				b.Add(key, string(r))
			}
		}
		return b.Build()
	}
}
