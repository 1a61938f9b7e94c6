package shared

import (
	"bytes"
	"encoding/json"
)

// Patch is a tri-state JSON field for partial updates. It distinguishes
// "field omitted" (Set == false) from "field explicitly null" (Set == true,
// Valid == false) from "field carries a value".
//
// encoding/json only calls UnmarshalJSON for keys present in the document,
// so Set flips to true exactly when the client sent the field.
type Patch[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// PatchOf returns a Patch carrying a value.
func PatchOf[T any](v T) Patch[T] {
	return Patch[T]{Set: true, Valid: true, Value: v}
}

// PatchNull returns a Patch representing an explicit null.
func PatchNull[T any]() Patch[T] {
	return Patch[T]{Set: true}
}

// Get returns the value and whether it is usable (present and non-null).
func (p Patch[T]) Get() (T, bool) {
	return p.Value, p.Set && p.Valid
}

// IsNull reports whether the field was explicitly cleared.
func (p Patch[T]) IsNull() bool {
	return p.Set && !p.Valid
}

func (p *Patch[T]) UnmarshalJSON(data []byte) error {
	p.Set = true
	if bytes.Equal(data, []byte("null")) {
		p.Valid = false
		return nil
	}
	if err := json.Unmarshal(data, &p.Value); err != nil {
		return err
	}
	p.Valid = true
	return nil
}

func (p Patch[T]) MarshalJSON() ([]byte, error) {
	if !p.Set || !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}
