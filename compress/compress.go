// Package compress contains the compression codec applied to serialized
// entry payloads before they reach the backend. The default codec is Snappy,
// a general-purpose block compressor; any Encode/Decode pair is acceptable.
package compress

import (
	"github.com/golang/snappy"
)

// Codec is a stateless byte-buffer transform, applied on write (Encode) and
// undone on read (Decode).
type Codec interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

type snappyCodec struct{}

// NewSnappyCodec returns the default block-compression codec.
func NewSnappyCodec() Codec {
	return &snappyCodec{}
}

func (snappyCodec) Encode(data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

func (snappyCodec) Decode(data []byte) ([]byte, error) {
	return snappy.Decode(nil, data)
}

type noCompression struct{}

// NewNoCompression returns a pass-through codec for callers that want the
// serialized payload stored as-is.
func NewNoCompression() Codec {
	return &noCompression{}
}

func (noCompression) Encode(data []byte) ([]byte, error) {
	return data, nil
}

func (noCompression) Decode(data []byte) ([]byte, error) {
	return data, nil
}
