// Package reorder arranges dataset columns according to role dictionaries.
package reorder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/molotkova/treatment-datasets/pkg/logging"
	"github.com/molotkova/treatment-datasets/pkg/taxonomy"
)

// DefaultSeparator joins a categorical feature name and a value in the
// columns produced by one-hot encoding, e.g. "sex_Male".
const DefaultSeparator = "_"

var ErrMissingColumn = errors.New("declared columns missing from dataset")

// MissingColumnError lists every declared column absent from the dataset.
type MissingColumnError struct {
	Missing []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%v: %s", ErrMissingColumn, strings.Join(e.Missing, ", "))
}

func (e *MissingColumnError) Unwrap() error {
	return ErrMissingColumn
}

// ByRoleDict flattens d in authored order. Every declared column must exist in
// columns; columns d does not declare are dropped and reported to logger.
func ByRoleDict(columns []string, d taxonomy.RoleDict, logger *zap.Logger) ([]string, error) {
	ordered := d.Flatten()

	missing := lo.Uniq(lo.Without(ordered, columns...))
	if len(missing) > 0 {
		return nil, &MissingColumnError{Missing: missing}
	}

	dropped := lo.Without(columns, ordered...)
	if len(dropped) > 0 {
		logging.OrNop(logger).Warn("dropping columns absent from role dictionary",
			zap.Strings("columns", dropped))
	}

	return ordered, nil
}

// RestoreGroupedOrder rebuilds the order of original after categorical
// features were expanded into derived columns named
// feature + separator + value. Each categorical feature is replaced by every
// derived column present in columns, in the order they appear there; other
// features are kept when present. Columns matching nothing in original are
// dropped.
func RestoreGroupedOrder(columns, original []string, categorical map[string]bool, separator string) []string {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}

	var result []string
	placed := make(map[string]bool, len(columns))
	for _, feature := range original {
		if !categorical[feature] {
			if present[feature] && !placed[feature] {
				result = append(result, feature)
				placed[feature] = true
			}
			continue
		}

		prefix := feature + separator
		for _, c := range columns {
			if strings.HasPrefix(c, prefix) && !placed[c] {
				result = append(result, c)
				placed[c] = true
			}
		}
	}
	return result
}
