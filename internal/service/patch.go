package service

import "encoding/json"

// Nullable distinguishes "field absent" from "field explicitly null" in
// partial update bodies. The edit dialogs send only the changed field, and
// an explicit null clears nullable columns (end dates, machine assignment,
// operator), so both states must survive decoding.
type Nullable[T any] struct {
	Set   bool // key present in the body
	Valid bool // value was non-null
	Value T
}

func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		return nil
	}
	if err := json.Unmarshal(b, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Ptr returns the value as a pointer, nil when null.
func (n Nullable[T]) Ptr() *T {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}
