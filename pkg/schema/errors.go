package schema

import (
	"errors"
	"fmt"

	"github.com/molotkova/treatment-datasets/pkg/taxonomy"
)

var (
	// ErrConfiguration is returned by Load when neither a path nor inline
	// schema text is supplied.
	ErrConfiguration = errors.New("no schema source provided")

	// ErrSchemaMismatch signals the schema was built against a different
	// column layout than the one supplied at query time.
	ErrSchemaMismatch = errors.New("schema does not match columns")

	ErrDecode = errors.New("decoding schema")
)

// SchemaMismatchError carries the stored index that could not be resolved,
// or the digests that disagree when the mismatch was found by VerifyColumns.
type SchemaMismatchError struct {
	Taxonomy    taxonomy.Taxonomy
	Role        taxonomy.Role
	Index       int
	ColumnCount int

	WantDigest string
	GotDigest  string
}

func (e *SchemaMismatchError) Error() string {
	if e.WantDigest != "" {
		return fmt.Sprintf("%v: column layout digest %s, schema was built for %s",
			ErrSchemaMismatch, e.GotDigest, e.WantDigest)
	}
	return fmt.Sprintf("%v: %s role %q index %d out of range for %d columns",
		ErrSchemaMismatch, e.Taxonomy, e.Role, e.Index, e.ColumnCount)
}

func (e *SchemaMismatchError) Unwrap() error {
	return ErrSchemaMismatch
}
