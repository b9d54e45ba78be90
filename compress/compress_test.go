package compress

import (
	"bytes"
	"testing"
)

func TestSnappyRoundTrip(t *testing.T) {
	codec := NewSnappyCodec()
	in := bytes.Repeat([]byte("spatial bucket payload "), 100)

	encoded, err := codec.Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(encoded) >= len(in) {
		t.Fatalf("repetitive payload should compress, got %d >= %d", len(encoded), len(in))
	}
	decoded, err := codec.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(decoded, in) {
		t.Fatalf("round trip mismatch")
	}
}

func TestSnappyDecodeGarbage(t *testing.T) {
	codec := NewSnappyCodec()
	if _, err := codec.Decode([]byte("definitely not snappy")); err == nil {
		t.Fatalf("expected decode error on garbage input")
	}
}

func TestNoCompressionPassThrough(t *testing.T) {
	codec := NewNoCompression()
	in := []byte("as-is")

	encoded, err := codec.Encode(in)
	if err != nil || !bytes.Equal(encoded, in) {
		t.Fatalf("Encode: %v %s", err, string(encoded))
	}
	decoded, err := codec.Decode(encoded)
	if err != nil || !bytes.Equal(decoded, in) {
		t.Fatalf("Decode: %v %s", err, string(decoded))
	}
}
