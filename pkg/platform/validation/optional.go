package validation

import (
	"bytes"
	"encoding/json"
)

// Opt is a payload field that remembers whether it was supplied. It keeps
// three states apart: absent (Set false), explicit null (Null true) and a
// value, which may itself be a zero value such as "".
type Opt[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Some returns a present Opt holding v.
func Some[T any](v T) Opt[T] {
	return Opt[T]{Value: v, Set: true}
}

// Ok reports whether o holds a non-null value.
func (o Opt[T]) Ok() bool {
	return o.Set && !o.Null
}

// Ptr returns a pointer to the value, or nil when o holds no value.
func (o Opt[T]) Ptr() *T {
	if !o.Ok() {
		return nil
	}
	v := o.Value
	return &v
}

// UnmarshalJSON is only called for keys present in the payload.
func (o *Opt[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.Value = zero
		o.Null = true
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if !o.Ok() {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// FromPtr lifts a pointer into an Opt: nil becomes absent.
func FromPtr[T any](p *T) Opt[T] {
	if p == nil {
		return Opt[T]{}
	}
	return Some(*p)
}
