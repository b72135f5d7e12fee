// Package profile summarizes the values of dataset columns to infer their
// storage type and suggest a structural role.
package profile

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/apache/arrow/go/v18/arrow"

	"github.com/molotkova/treatment-datasets/pkg/taxonomy"
)

// MaxEnum is the largest number of unique values tracked per field.
const MaxEnum = 20

// MaxCategoricalNumbers is the largest number of distinct integral values a
// numeric column may hold and still be suggested as categorical, which
// catches 0/1 flags such as two_year_recid.
const MaxCategoricalNumbers = 2

// Field accumulates the values of one column. A column may hold nulls and
// values of a single kind: booleans, numbers or strings.
type Field interface {
	Add(obj any) (Field, error)
	// Role is the suggested structural role, or taxonomy.Unclassified when
	// nothing was seen.
	Role() taxonomy.Role
	// DataType is the Arrow type able to hold every value seen.
	DataType() arrow.DataType
	String() string
}

// EmptyField has only seen nulls. Adding a value returns a typed field.
type EmptyField struct{}

func (f *EmptyField) Add(obj any) (Field, error) {
	var next Field
	switch obj.(type) {
	case nil:
		return f, nil
	case bool:
		next = &BoolField{}
	case float64:
		next = &NumberField{Seen: make(map[float64]int)}
	case string:
		next = &StringField{Seen: make(map[string]int)}
	default:
		return nil, fmt.Errorf("unsupported value type %T", obj)
	}
	return next.Add(obj)
}

func (f *EmptyField) Role() taxonomy.Role {
	return taxonomy.Unclassified
}

func (f *EmptyField) DataType() arrow.DataType {
	return arrow.BinaryTypes.String
}

func (f *EmptyField) String() string {
	return "empty"
}

type BoolField struct {
	True  int
	False int
}

func (f *BoolField) Add(obj any) (Field, error) {
	switch o := obj.(type) {
	case nil:
	case bool:
		if o {
			f.True++
		} else {
			f.False++
		}
	default:
		return nil, fmt.Errorf("%T added to boolean field", obj)
	}
	return f, nil
}

func (f *BoolField) Role() taxonomy.Role {
	return taxonomy.Categorical
}

func (f *BoolField) DataType() arrow.DataType {
	return arrow.FixedWidthTypes.Boolean
}

func (f *BoolField) String() string {
	return fmt.Sprintf("bool;true:%d;false:%d", f.True, f.False)
}

// NumberField tracks the range of the numbers seen and whether all of them
// are integers.
type NumberField struct {
	Integral bool
	Min, Max float64

	// Seen counts unique values. It stops growing past MaxEnum entries.
	Seen map[float64]int
}

func (f *NumberField) Add(obj any) (Field, error) {
	switch o := obj.(type) {
	case nil:
		return f, nil
	case float64:
		if len(f.Seen) == 0 {
			f.Integral = isIntegral(o)
			f.Min, f.Max = o, o
		} else {
			f.Integral = f.Integral && isIntegral(o)
			f.Min = math.Min(f.Min, o)
			f.Max = math.Max(f.Max, o)
		}
		if _, found := f.Seen[o]; found || len(f.Seen) <= MaxEnum {
			f.Seen[o]++
		}
		return f, nil
	default:
		return nil, fmt.Errorf("%T added to number field", obj)
	}
}

func isIntegral(f float64) bool {
	return math.Round(f) == f && !math.IsInf(f, 0)
}

func (f *NumberField) Role() taxonomy.Role {
	if f.Integral && len(f.Seen) <= MaxCategoricalNumbers {
		return taxonomy.Categorical
	}
	return taxonomy.Numerical
}

func (f *NumberField) DataType() arrow.DataType {
	if f.Integral && f.Min >= math.MinInt64 && f.Max <= math.MaxInt64 {
		return arrow.PrimitiveTypes.Int64
	}
	return arrow.PrimitiveTypes.Float64
}

func (f *NumberField) String() string {
	if f.Integral {
		return fmt.Sprintf("integer;%d;%d", int64(f.Min), int64(f.Max))
	}
	return fmt.Sprintf("float;%g;%g", f.Min, f.Max)
}

type StringField struct {
	// Seen counts unique values. It stops growing past MaxEnum entries.
	Seen map[string]int
}

func (f *StringField) Add(obj any) (Field, error) {
	switch o := obj.(type) {
	case nil:
		return f, nil
	case string:
		if _, found := f.Seen[o]; found || len(f.Seen) <= MaxEnum {
			f.Seen[o]++
		}
		return f, nil
	default:
		return nil, fmt.Errorf("%T added to string field", obj)
	}
}

func (f *StringField) Role() taxonomy.Role {
	return taxonomy.Categorical
}

func (f *StringField) DataType() arrow.DataType {
	return arrow.BinaryTypes.String
}

// String lists the values of enum-like fields in sorted order.
func (f *StringField) String() string {
	if len(f.Seen) > MaxEnum {
		return "string"
	}

	values := make([]string, 0, len(f.Seen))
	for v := range f.Seen {
		values = append(values, v)
	}
	sort.Strings(values)

	result := strings.Builder{}
	result.WriteString(fmt.Sprintf("enum;%d", len(values)))
	for _, v := range values {
		result.WriteString(fmt.Sprintf(";%s:%d", v, f.Seen[v]))
	}
	return result.String()
}
