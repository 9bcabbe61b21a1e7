package api

import (
	"encoding/json"
	"fmt"
)

// CodecName is the connect codec name. Clients send
// Content-Type: application/json.
const CodecName = "json"

// Codec marshals the plain Go messages in this package as JSON.
// Connect's built-in JSON codec only accepts proto.Message values.
type Codec struct{}

func (Codec) Name() string { return CodecName }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("failed to decode %T: %w", msg, err)
	}
	return nil
}
