package schema

import (
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/molotkova/treatment-datasets/pkg/logging"
	"github.com/molotkova/treatment-datasets/pkg/taxonomy"
)

// Report holds the non-fatal observations made while building a schema.
type Report struct {
	// ExcludedFromFairness lists columns no fairness role mentions.
	ExcludedFromFairness []string
	// ExcludedFromStructural lists columns no structural role mentions.
	ExcludedFromStructural []string
	// Ignored lists columns absent from both taxonomies.
	Ignored []string
	// Absent lists names the role dictionaries declare but the dataset lacks.
	Absent []string
	// DuplicateColumns lists column names occurring more than once. Roles
	// referencing them resolve to the first occurrence.
	DuplicateColumns []string
	// UnknownRoles lists role dictionary keys outside the taxonomy they were
	// supplied for. Their columns still count towards the exclusion sets.
	UnknownRoles []taxonomy.Role
	// MultipleRoles lists columns declared under more than one role of the
	// same taxonomy. Reverse lookups resolve them to the first role.
	MultipleRoles []string
}

// Log writes every non-empty observation as a warning.
func (r *Report) Log(logger *zap.Logger) {
	logger = logging.OrNop(logger)
	if len(r.ExcludedFromFairness) > 0 {
		logger.Warn("columns excluded from fairness taxonomy",
			zap.Strings("columns", r.ExcludedFromFairness))
	}
	if len(r.ExcludedFromStructural) > 0 {
		logger.Warn("columns excluded from structural taxonomy",
			zap.Strings("columns", r.ExcludedFromStructural))
	}
	if len(r.Ignored) > 0 {
		logger.Warn("columns completely ignored",
			zap.Strings("columns", r.Ignored))
	}
	if len(r.Absent) > 0 {
		logger.Warn("declared columns absent from dataset",
			zap.Strings("columns", r.Absent))
	}
	if len(r.DuplicateColumns) > 0 {
		logger.Warn("duplicate column names resolve to first occurrence",
			zap.Strings("columns", r.DuplicateColumns))
	}
	if len(r.UnknownRoles) > 0 {
		roles := make([]string, len(r.UnknownRoles))
		for i, role := range r.UnknownRoles {
			roles[i] = string(role)
		}
		logger.Warn("role dictionary keys outside taxonomy",
			zap.Strings("roles", roles))
	}
	if len(r.MultipleRoles) > 0 {
		logger.Warn("columns declared under more than one role",
			zap.Strings("columns", r.MultipleRoles))
	}
}

// Build records the positions of the columns filling each role. It never
// fails: mismatches between the role dictionaries and columns are reported,
// not raised.
//
// Within a role, positions follow the order of the role dictionary, filtered
// to names present in columns.
func Build(
	columns []string,
	fairness, structural taxonomy.RoleDict,
	name string,
	sampleCount int,
) (*Schema, *Report) {
	positions := make(map[string]int, len(columns))
	for i, column := range columns {
		if _, found := positions[column]; !found {
			positions[column] = i
		}
	}

	s := &Schema{
		name:          name,
		sampleCount:   sampleCount,
		columnsDigest: Digest(columns),
		roles: map[taxonomy.Taxonomy]map[taxonomy.Role][]int{
			taxonomy.Structural: resolveRoles(taxonomy.Structural, structural, positions),
			taxonomy.Fairness:   resolveRoles(taxonomy.Fairness, fairness, positions),
		},
	}

	fairnessUnion := lo.Uniq(fairness.Flatten())
	structuralUnion := lo.Uniq(structural.Flatten())

	report := &Report{
		ExcludedFromFairness:   lo.Without(columns, fairnessUnion...),
		ExcludedFromStructural: lo.Without(columns, structuralUnion...),
		DuplicateColumns:       lo.Uniq(lo.FindDuplicates(columns)),
	}
	report.Ignored = lo.Filter(report.ExcludedFromFairness, func(column string, _ int) bool {
		return lo.Contains(report.ExcludedFromStructural, column)
	})
	report.Absent = lo.Filter(lo.Uniq(lo.Flatten([][]string{fairnessUnion, structuralUnion})), func(column string, _ int) bool {
		_, found := positions[column]
		return !found
	})
	report.UnknownRoles = append(unknownRoles(taxonomy.Fairness, fairness),
		unknownRoles(taxonomy.Structural, structural)...)
	report.MultipleRoles = lo.Uniq(lo.Flatten([][]string{
		multipleRoles(taxonomy.Fairness, fairness),
		multipleRoles(taxonomy.Structural, structural),
	}))

	return s, report
}

func resolveRoles(t taxonomy.Taxonomy, d taxonomy.RoleDict, positions map[string]int) map[taxonomy.Role][]int {
	roles := make(map[taxonomy.Role][]int)
	for _, role := range t.Roles() {
		indexes := []int{}
		for _, column := range d.Columns(role) {
			if i, found := positions[column]; found {
				indexes = append(indexes, i)
			}
		}
		roles[role] = indexes
	}
	return roles
}

func unknownRoles(t taxonomy.Taxonomy, d taxonomy.RoleDict) []taxonomy.Role {
	var result []taxonomy.Role
	for _, role := range d.Roles() {
		if t.Rank(role) < 0 {
			result = append(result, role)
		}
	}
	return result
}

// multipleRoles returns the columns listed under more than one known role
// of t, in dictionary order.
func multipleRoles(t taxonomy.Taxonomy, d taxonomy.RoleDict) []string {
	var listed []string
	for _, role := range t.Roles() {
		listed = append(listed, lo.Uniq(d.Columns(role))...)
	}
	return lo.FindDuplicates(listed)
}
