package encoding

import (
	"bytes"
	"testing"
)

func TestMarshalRoundTrip(t *testing.T) {
	type record struct {
		Name  string
		Count int
	}
	in := []record{{Name: "a", Count: 1}, {Name: "b", Count: 2}}

	ba, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out []record
	if err := Unmarshal(ba, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(out) != 2 || out[0] != in[0] || out[1] != in[1] {
		t.Fatalf("round trip mismatch: %v", out)
	}
}

// TestByteArrayPassThrough: []byte payloads skip the JSON marshaler entirely.
func TestByteArrayPassThrough(t *testing.T) {
	in := []byte{0x00, 0x01, 0xff}

	ba, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(ba, in) {
		t.Fatalf("Marshal should pass bytes through, got %v", ba)
	}

	var out []byte
	if err := Unmarshal(ba, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !bytes.Equal(out, in) {
		t.Fatalf("Unmarshal should pass bytes through, got %v", out)
	}
}

type upperMarshaler struct{}

func (upperMarshaler) Marshal(v any) ([]byte, error) {
	return bytes.ToUpper([]byte(v.(string))), nil
}

func (upperMarshaler) Unmarshal(data []byte, v any) error {
	*(v.(*string)) = string(bytes.ToLower(data))
	return nil
}

// TestMarshalWithExplicitMarshaler: the explicit marshaler serves non-byte
// values while []byte payloads still bypass it.
func TestMarshalWithExplicitMarshaler(t *testing.T) {
	ba, err := MarshalWith[string](upperMarshaler{}, "abc")
	if err != nil || string(ba) != "ABC" {
		t.Fatalf("MarshalWith: %v %s", err, string(ba))
	}
	var out string
	if err := UnmarshalWith(upperMarshaler{}, ba, &out); err != nil || out != "abc" {
		t.Fatalf("UnmarshalWith: %v %s", err, out)
	}

	raw := []byte{0x00, 0xff}
	ba, err = MarshalWith(upperMarshaler{}, raw)
	if err != nil || !bytes.Equal(ba, raw) {
		t.Fatalf("MarshalWith should pass bytes through, got %v %v", err, ba)
	}
}

func TestUnmarshalError(t *testing.T) {
	var out []int
	if err := Unmarshal([]byte("not json"), &out); err == nil {
		t.Fatalf("expected unmarshal error")
	}
}
