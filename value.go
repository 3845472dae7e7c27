package libemit

import (
	"bytes"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var nullJSON = []byte("null")

// Value is a dynamic, JSON-backed payload. The zero Value is empty and
// serializes as null. Values are immutable: Set returns a modified copy.
type Value struct {
	raw []byte
}

// NewValue serializes v into a Value.
func NewValue(v any) (Value, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return Value{}, errors.Wrap(ErrInvalidValue, err.Error())
	}
	return newValueFromRaw(raw), nil
}

// MustValue is like NewValue but panics on error.
func MustValue(v any) Value {
	val, err := NewValue(v)
	if err != nil {
		panic(err)
	}
	return val
}

// ParseValue wraps raw JSON text. The input is copied.
func ParseValue(raw []byte) (Value, error) {
	if !gjson.ValidBytes(raw) {
		return Value{}, errors.Wrapf(ErrInvalidValue, "malformed json %q", raw)
	}
	return newValueFromRaw(bytes.Clone(raw)), nil
}

func newValueFromRaw(raw []byte) Value {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, nullJSON) {
		return Value{}
	}
	return Value{raw: raw}
}

// IsEmpty reports whether the value is null.
func (v Value) IsEmpty() bool {
	return len(v.raw) == 0
}

// Get looks up path using gjson syntax.
func (v Value) Get(path string) gjson.Result {
	return gjson.GetBytes(v.raw, path)
}

// Set returns a copy of v with path set to x, using sjson syntax.
func (v Value) Set(path string, x any) (Value, error) {
	raw, err := sjson.SetBytes(bytes.Clone(v.raw), path, x)
	if err != nil {
		return v, errors.Wrapf(ErrInvalidValue, "set %s: %s", path, err)
	}
	return newValueFromRaw(raw), nil
}

// Decode unmarshals the value into dst.
func (v Value) Decode(dst any) error {
	return errors.WithStack(json.Unmarshal(v.bytes(), dst))
}

// Bytes returns a copy of the JSON encoding.
func (v Value) Bytes() []byte {
	return bytes.Clone(v.bytes())
}

func (v Value) String() string {
	return string(v.bytes())
}

func (v Value) MarshalJSON() ([]byte, error) {
	return v.Bytes(), nil
}

func (v *Value) UnmarshalJSON(raw []byte) error {
	val, err := ParseValue(raw)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

func (v Value) bytes() []byte {
	if v.IsEmpty() {
		return nullJSON
	}
	return v.raw
}
