// Package schema builds and queries the feature-taxonomy schema of a dataset.
//
// A Schema records, for every role of both taxonomies, the positions of the
// columns filling that role. Positions are only meaningful against the exact
// column ordering the schema was built from.
package schema

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/molotkova/treatment-datasets/pkg/taxonomy"
)

// Schema is immutable once built or decoded and safe for concurrent readers.
type Schema struct {
	name          string
	sampleCount   int
	columnsDigest string

	roles map[taxonomy.Taxonomy]map[taxonomy.Role][]int
}

// Name identifies the dataset the schema was built from.
func (s *Schema) Name() string {
	return s.name
}

// SampleCount is the row count of the dataset at build time.
func (s *Schema) SampleCount() int {
	return s.sampleCount
}

// ColumnsDigest identifies the column layout the schema was built from. It
// is empty for schemas persisted without one.
func (s *Schema) ColumnsDigest() string {
	return s.columnsDigest
}

// Has reports whether the schema records role r of taxonomy t, even if the
// role holds no features.
func (s *Schema) Has(t taxonomy.Taxonomy, r taxonomy.Role) bool {
	_, ok := s.roles[t][r]
	return ok
}

// Indexes returns a copy of the stored column positions for a role.
func (s *Schema) Indexes(t taxonomy.Taxonomy, r taxonomy.Role) []int {
	indexes := s.roles[t][r]
	if indexes == nil {
		return nil
	}
	return append([]int(nil), indexes...)
}

// Count is the number of features stored for a role.
func (s *Schema) Count(t taxonomy.Taxonomy, r taxonomy.Role) int {
	return len(s.roles[t][r])
}

// VerifyColumns compares columns against the layout digest recorded at build
// time. Schemas without a digest always verify.
func (s *Schema) VerifyColumns(columns []string) error {
	if s.columnsDigest == "" {
		return nil
	}
	got := Digest(columns)
	if got != s.columnsDigest {
		return &SchemaMismatchError{WantDigest: s.columnsDigest, GotDigest: got}
	}
	return nil
}

// Digest is the hex blake2b-256 sum of the ordered column names.
func Digest(columns []string) string {
	sum := blake2b.Sum256([]byte(strings.Join(columns, "\x00")))
	return hex.EncodeToString(sum[:])
}
