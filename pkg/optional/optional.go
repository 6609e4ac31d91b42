// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package optional provides a presence-aware value wrapper.

A [Field] distinguishes "absent" from "present with a zero or null value",
which plain pointers cannot do for nullable columns:

  - Encoding: combine with the `omitzero` JSON tag option. Absent fields are
    omitted; present fields are encoded as their value (including null).
  - Decoding: a key that appears in the JSON object marks the field present.
    A JSON null is treated as absent.
*/
package optional

import (
	"bytes"
	"encoding/json"
)

// Field holds a value of type T and whether it was set.
type Field[T any] struct {
	value T
	set   bool
}

// Of returns a present [Field] holding value.
func Of[T any](value T) Field[T] {
	return Field[T]{value: value, set: true}
}

// Get returns the value and whether it is present.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.set
}

// IsSet reports whether the field is present.
func (f Field[T]) IsSet() bool { return f.set }

// IsZero reports whether the field is absent. encoding/json uses it for `omitzero`.
func (f Field[T]) IsZero() bool { return !f.set }

// Ptr returns a pointer to the value, or nil when absent.
func (f Field[T]) Ptr() *T {
	if !f.set {
		return nil
	}
	value := f.value
	return &value
}

// MarshalJSON implements [json.Marshaler].
func (f Field[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.value)
}

// UnmarshalJSON implements [json.Unmarshaler].
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.value, f.set = zero, false
		return nil
	}

	if err := json.Unmarshal(data, &f.value); err != nil {
		return err
	}
	f.set = true
	return nil
}
