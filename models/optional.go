package models

import (
	"bytes"
	"encoding/json"
)

// Optional distinguishes an absent JSON field from an explicit null in
// partial updates. Set is true when the key was present; Valid is false when
// its value was null.
type Optional[T any] struct {
	Value T
	Set   bool
	Valid bool
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true, Valid: true}
}

// Null returns an Optional that was explicitly set to null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// UnmarshalJSON is only invoked for keys present in the payload.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.Value = zero
		o.Valid = false
		return nil
	}

	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// Ptr returns nil for null, otherwise a pointer to a copy of the value.
func (o Optional[T]) Ptr() *T {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}
