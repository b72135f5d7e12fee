// Package taxonomy defines the two independent classification systems applied
// to dataset columns and the author-facing role dictionaries that populate
// them.
package taxonomy

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownTaxonomy = errors.New("unknown taxonomy")
	ErrUnknownRole     = errors.New("unknown role")
)

// Taxonomy is one of the classification systems a column may take part in.
type Taxonomy string

const (
	Fairness   Taxonomy = "fairness"
	Structural Taxonomy = "structural"
)

// Role is a single category within a Taxonomy.
type Role string

const (
	Sensitive Role = "sensitive"
	Covariate Role = "covariate"
	Treatment Role = "treatment"
	Target    Role = "target"
	Other     Role = "other"

	Numerical   Role = "numerical"
	Categorical Role = "categorical"

	// Unclassified is returned by lookups for columns that no role of a
	// taxonomy lists. It belongs to no taxonomy.
	Unclassified Role = "unclassified"
)

var (
	fairnessRoles   = []Role{Sensitive, Covariate, Treatment, Target, Other}
	structuralRoles = []Role{Numerical, Categorical}
)

// Taxonomies lists every taxonomy in persisted order.
func Taxonomies() []Taxonomy {
	return []Taxonomy{Structural, Fairness}
}

// ParseTaxonomy accepts a taxonomy name in any case.
func ParseTaxonomy(s string) (Taxonomy, error) {
	t := Taxonomy(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTaxonomy, s)
	}
	return t, nil
}

func (t Taxonomy) Valid() bool {
	return t == Fairness || t == Structural
}

// Roles returns the roles of t in declaration order. The result is a fresh
// slice the caller may modify.
func (t Taxonomy) Roles() []Role {
	switch t {
	case Fairness:
		return append([]Role(nil), fairnessRoles...)
	case Structural:
		return append([]Role(nil), structuralRoles...)
	default:
		return nil
	}
}

// Rank is the declaration position of r within t, or -1 if r is not one of
// t's roles.
func (t Taxonomy) Rank(r Role) int {
	var roles []Role
	switch t {
	case Fairness:
		roles = fairnessRoles
	case Structural:
		roles = structuralRoles
	}
	for i, role := range roles {
		if role == r {
			return i
		}
	}
	return -1
}

// ParseRole accepts a role name in any case, so "Sensitive" and "sensitive"
// name the same role. Unclassified is not a parseable role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if r.Taxonomy() == "" {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

// ParseRoles parses a comma separated priority list such as
// "sensitive,covariate,treatment,target,other".
func ParseRoles(s string) ([]Role, error) {
	var roles []Role
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		r, err := ParseRole(part)
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, nil
}

// Taxonomy returns the taxonomy r belongs to, or "" for Unclassified and
// unknown roles.
func (r Role) Taxonomy() Taxonomy {
	switch {
	case Fairness.Rank(r) >= 0:
		return Fairness
	case Structural.Rank(r) >= 0:
		return Structural
	default:
		return ""
	}
}

// Title is the display form used in reports, e.g. "Sensitive".
func (r Role) Title() string {
	if r == "" {
		return ""
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}
