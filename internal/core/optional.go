package core

import (
	"bytes"
	"encoding/json"
)

// OptionalID distinguishes an absent JSON field from an explicit null, so a
// patch can clear a link.
type OptionalID struct {
	Set   bool
	Value *int64
}

// SetID returns an OptionalID that assigns id.
func SetID(id int64) OptionalID {
	return OptionalID{Set: true, Value: &id}
}

// ClearID returns an OptionalID that removes the link.
func ClearID() OptionalID {
	return OptionalID{Set: true}
}

func (o *OptionalID) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(b, []byte("null")) {
		o.Value = nil
		return nil
	}
	var id int64
	if err := json.Unmarshal(b, &id); err != nil {
		return NewValidationError("id", "link id must be a number or null")
	}
	o.Value = &id
	return nil
}

// Apply returns the patched value of current.
func (o OptionalID) Apply(current *int64) *int64 {
	if !o.Set {
		return current
	}
	if o.Value == nil {
		return nil
	}
	v := *o.Value
	return &v
}
