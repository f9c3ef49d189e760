package types

import (
	"bytes"
	"encoding/json"
)

// NullableID tracks whether a numeric reference was explicitly present in a JSON patch.
// Missing field: Valid=false. Explicit null: Valid=true, Value=nil.
type NullableID struct {
	Valid bool
	Value *uint
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullableID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	if bytes.Equal(trimmed, []byte("null")) {
		n.Valid = true
		n.Value = nil
		return nil
	}

	var parsed uint
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		return err
	}
	n.Valid = true
	n.Value = &parsed
	return nil
}

// Set reports whether the patch should touch the column.
func (n NullableID) Set() bool {
	return n.Valid
}
