package snapshot

import (
	"bytes"
	"encoding/json"
)

// Deep-value equality in this module is serialization equality: two
// structured values are equal iff their canonical (compact) JSON forms
// are byte-identical.  This is deliberately order-sensitive for object
// keys inside opaque payloads, and it distinguishes explicit null from
// an absent key, which is why deleted plugin-data keys are signaled
// with an explicit null value rather than by omission.

// Canon returns the canonical serialized form of v.  It panics when v
// cannot be marshaled; the snapshot types in this package always can.
func Canon(v any) string {
	d, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(d)
}

// Equal reports whether two boards are canonically equal.  nil is the
// empty board.
func Equal(a, b *Board) bool {
	if a == nil {
		a = &Board{}
	}
	if b == nil {
		b = &Board{}
	}
	return Canon(a) == Canon(b)
}

// RawEqual reports serialization equality of two raw values.
func RawEqual(a, b json.RawMessage) bool {
	return bytes.Equal(compact(a), compact(b))
}

// CardsEqual reports serialization equality of two whole card lists.
// Absent and empty lists are the same list.
func CardsEqual(a, b []Card) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return Canon(a) == Canon(b)
}

// Null is the canonical serialized null value, used to signal a deleted
// plugin-data key.
func Null() json.RawMessage {
	return json.RawMessage("null")
}

// IsNull reports whether raw is the null value (or empty, which
// serializes to null).
func IsNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}
