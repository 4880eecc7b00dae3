// Package opt provides a minimal optional-value type.
package opt

import "fmt"

// Maybe represents a value of type V that may or may not be present. The zero
// value is "no value".
type Maybe[V any] struct {
	defined bool
	value   V
}

// Some returns a Maybe that has the given value.
func Some[V any](value V) Maybe[V] {
	return Maybe[V]{defined: true, value: value}
}

// None returns a Maybe with no value.
func None[V any]() Maybe[V] { return Maybe[V]{} }

// IsDefined returns true if the Maybe has a value.
func (m Maybe[V]) IsDefined() bool { return m.defined }

// Value returns the value, or the zero value of V if none is defined.
func (m Maybe[V]) Value() V { return m.value }

// Get returns the value plus a boolean indicating whether it was defined.
func (m Maybe[V]) Get() (V, bool) { return m.value, m.defined }

// OrElse returns the value if defined, or valueIfUndefined otherwise.
func (m Maybe[V]) OrElse(valueIfUndefined V) V {
	if m.defined {
		return m.value
	}
	return valueIfUndefined
}

// String returns the value's string representation, or "[none]" if undefined.
func (m Maybe[V]) String() string {
	if !m.defined {
		return "[none]"
	}
	var v interface{} = m.value
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", m.value)
}
