// Package encoding contains the value codec used to serialize an entry's
// ordered record sequence to bytes and back.
package encoding

import (
	"encoding/json"
)

// Marshaler interface specifies encoding to byte array and back to the object.
type Marshaler interface {
	// Encodes any object to byte array.
	Marshal(v any) ([]byte, error)
	// Decodes byte array back to its Object type.
	Unmarshal(data []byte, v any) error
}

// Global Default marshaller.
var DefaultMarshaler = NewMarshaler()

// Global BlobMarshaler takes care of packing and unpacking to/from entry object & byte array.
// You can replace with your desired Marshaler implementation if needed. Defaults to use JSON Marshal.
var BlobMarshaler = DefaultMarshaler

type defaultMarshaler struct{}

// Returns the default marshaller which uses the golang's json package.
func NewMarshaler() Marshaler {
	return &defaultMarshaler{}
}

// Encodes any object to a byte array.
func (m defaultMarshaler) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Decodes a byte array back to its Object type.
func (m defaultMarshaler) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// Marshal that can do byte array pass-through. Uses the global BlobMarshaler.
func Marshal[T any](v T) ([]byte, error) {
	return MarshalWith(BlobMarshaler, v)
}

// Unmarshal that can do byte array pass-through. Uses the global BlobMarshaler.
func Unmarshal[T any](ba []byte, v *T) error {
	return UnmarshalWith(BlobMarshaler, ba, v)
}

// MarshalWith is Marshal with an explicit marshaler instead of the global one.
func MarshalWith[T any](marshaler Marshaler, v T) ([]byte, error) {
	switch any(v).(type) {
	case *[]byte:
		var intf interface{}
		var v2 interface{} = v
		var ba *[]byte = v2.(*[]byte)
		intf = *ba
		return intf.([]byte), nil
	case []byte:
		var intf interface{}
		intf = v
		return intf.([]byte), nil
	default:
		return marshaler.Marshal(v)
	}
}

// UnmarshalWith is Unmarshal with an explicit marshaler instead of the global one.
func UnmarshalWith[T any](marshaler Marshaler, ba []byte, v *T) error {
	switch any(v).(type) {
	case *[]byte:
		var intf interface{}
		intf = ba
		*v = intf.(T)
		return nil
	case []byte:
		var intf interface{}
		intf = ba
		*v = intf.(T)
		return nil
	default:
		if err := marshaler.Unmarshal(ba, v); err != nil {
			return err
		}
		return nil
	}
}
