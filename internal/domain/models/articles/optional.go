package articles

import (
	"bytes"
	"encoding/json"
)

// OptionalString is a nullable column on update (RFC 7396 merge semantics):
//   - Present=false: field absent, keep the current value
//   - Present=true, Value=nil: JSON null, clear it
//   - Present=true, Value=&"x": set it
type OptionalString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON only runs when the key is in the payload
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true
	if isNull(data) {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// Apply returns the new value for a nullable field given its current value
func (o OptionalString) Apply(current *string) *string {
	if !o.Present {
		return current
	}
	return o.Value
}

// OptionalInt is the integer counterpart of OptionalString
type OptionalInt struct {
	Present bool
	Value   *int
}

// UnmarshalJSON implements json.Unmarshaler
func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	o.Present = true
	if isNull(data) {
		o.Value = nil
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	o.Value = &n
	return nil
}

// Apply returns the new value for a nullable int field
func (o OptionalInt) Apply(current *int) *int {
	if !o.Present {
		return current
	}
	return o.Value
}

func isNull(data []byte) bool {
	return string(bytes.TrimSpace(data)) == "null"
}
