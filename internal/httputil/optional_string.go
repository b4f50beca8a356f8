package httputil

import (
	"bytes"
	"encoding/json"
)

// OptionalString is a PATCH-body field that distinguishes "absent" from
// "explicitly null", which a plain *string cannot. Document updates rely
// on this for icon, cover image and parent: an absent field is left
// alone, a null clears it (for parent: moves the document to root), and
// a string sets it.
type OptionalString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON records that the field appeared in the body at all;
// encoding/json never calls it for absent fields, so Present only flips
// here.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true

	if string(bytes.TrimSpace(data)) == "null" {
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
