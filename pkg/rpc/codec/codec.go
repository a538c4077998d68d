// Package codec provides the gRPC wire codec this cluster uses in place of
// protobuf: JSON payloads carried over the same framing gRPC always uses
// (length-prefixed messages over HTTP/2). See SPEC_FULL.md §6 for why no
// protoc-generated codec is checked in.
package codec

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// Name is registered with encoding.RegisterCodec under this name, and must match
// the subtype grpc uses to pick it (grpc.CallContentSubtype(Name)).
const Name = "json"

func init() {
	encoding.RegisterCodec(Codec{})
}

// Codec implements google.golang.org/grpc/encoding.Codec.
type Codec struct{}

func (Codec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (Codec) Name() string {
	return Name
}
