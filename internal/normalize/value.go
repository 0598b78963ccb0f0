package normalize

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/woozymasta/geodesy/internal/geo"
)

// Value defers interpretation of a coordinate field until the caller knows whether it
// expects a point, a point list or a polygon. It decodes from both JSON and YAML.
type Value struct {
	raw interface{}
}

// NewValue wraps an already decoded value.
func NewValue(raw interface{}) Value {
	return Value{raw: raw}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &v.raw)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	return node.Decode(&v.raw)
}

// MarshalJSON echoes the raw value.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw)
}

// IsZero reports whether the field was absent or null.
func (v Value) IsZero() bool {
	return v.raw == nil
}

func (v Value) Point() (geo.Point, error) { return Point(v.raw) }

func (v Value) Points() ([]geo.Point, error) { return Points(v.raw) }

func (v Value) Polygon() (geo.Polygon, error) { return Polygon(v.raw) }
