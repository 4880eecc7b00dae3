package cartesian

import (
	"strings"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/combitest/cartesian-test-harness/framework/helpers"
)

// ValueSet is an ordered, duplicate-free sequence of candidate values for one
// parameter. Values are type-erased at this layer; type checking happens when
// a tuple is handed to the test body. A ValueSet is immutable once built.
type ValueSet struct {
	values []ldvalue.Value
}

// NewValueSet builds a ValueSet from the given values, in order. Values that
// are equal to an earlier value are dropped, so each value keeps the position
// of its first occurrence.
func NewValueSet(values ...ldvalue.Value) ValueSet {
	deduped := make([]ldvalue.Value, 0, len(values))
	for _, v := range values {
		seen := false
		for _, prev := range deduped {
			if prev.Equal(v) {
				seen = true
				break
			}
		}
		if !seen {
			deduped = append(deduped, v)
		}
	}
	return ValueSet{values: deduped}
}

// Count returns the number of values in the set.
func (s ValueSet) Count() int { return len(s.values) }

// Get returns the value at the given position.
func (s ValueSet) Get(index int) ldvalue.Value { return s.values[index] }

// Values returns a copy of the set's values in order.
func (s ValueSet) Values() []ldvalue.Value {
	return append([]ldvalue.Value(nil), s.values...)
}

// Tuple is one full argument combination, one value per parameter, in
// parameter declaration order.
type Tuple []ldvalue.Value

// String returns a comma-joined rendering of the tuple's values, the same
// rendering the {arguments} display-name placeholder uses.
func (tp Tuple) String() string {
	parts := make([]string, 0, len(tp))
	for _, v := range tp {
		parts = append(parts, describeValue(v))
	}
	return strings.Join(parts, ", ")
}

// InvocationRecord is one planned invocation of the test body: a 1-based
// index, the argument tuple, and the formatted display name. Indexes are
// strictly increasing from 1 with no gaps across the full product.
type InvocationRecord struct {
	Index     int
	Arguments Tuple
	Name      string
}

// describeValue renders a value for display names: strings appear without
// quotes, everything else as its JSON representation.
func describeValue(v ldvalue.Value) string {
	return helpers.IfElse(v.IsString(), v.StringValue(), v.JSONString())
}
