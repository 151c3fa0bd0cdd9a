package api

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// codecName replaces Connect's built-in protojson codec, which only accepts
// protobuf messages.
const codecName = "json"

type jsonCodec struct{}

var _ connect.Codec = jsonCodec{}

func (jsonCodec) Name() string { return codecName }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

// WithJSON configures a handler to speak the JSON message encoding.
func WithJSON() connect.HandlerOption {
	return connect.WithCodec(jsonCodec{})
}

// WithJSONClient configures a client to speak the JSON message encoding.
func WithJSONClient() connect.ClientOption {
	return connect.WithCodec(jsonCodec{})
}
