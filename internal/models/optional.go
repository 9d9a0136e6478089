package models

import (
	"bytes"
	"encoding/json"
)

// Optional distinguishes an omitted JSON field from one explicitly sent as null.
// Set is true whenever the key was present; Null is true when its value was null.
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Some returns a set, non-null Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Get returns the value and true when the field was set to a non-null value.
func (o Optional[T]) Get() (T, bool) {
	if !o.Set || o.Null {
		var zero T
		return zero, false
	}
	return o.Value, true
}

// UnmarshalJSON is only invoked when the key is present, which is what marks it Set.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}
