package protocol

import (
	"encoding/json"
	"io"
)

// RoundAssignment is what the coordinator hands a joining client.
type RoundAssignment struct {
	SessionID   string       `json:"session_id"`
	ClientIndex int          `json:"client_index"`
	Config      SecAggConfig `json:"config"`
}

// ShareBundleUpload carries a client's serialized share bundle (see
// encoding.go for the binary layout inside Bundle).
type ShareBundleUpload struct {
	SessionID   string `json:"session_id"`
	ClientIndex int    `json:"client_index"`
	Bundle      []byte `json:"bundle"`
}

// MaskedUpdateUpload carries a client's masked weight-delta payload.
type MaskedUpdateUpload struct {
	SessionID   string `json:"session_id"`
	ClientIndex int    `json:"client_index"`
	Payload     []byte `json:"payload"`
}

// DroppedClientsNotice tells surviving clients which participant indices
// never delivered a masked update.
type DroppedClientsNotice struct {
	SessionID string `json:"session_id"`
	Dropped   []int  `json:"dropped"`
}

// UnmaskingUpload carries a client's serialized unmasking report.
type UnmaskingUpload struct {
	SessionID   string `json:"session_id"`
	ClientIndex int    `json:"client_index"`
	Report      []byte `json:"report"`
}

// UnmarshalMessage deserializes a message from JSON bytes.
func UnmarshalMessage[T any](data []byte) (*T, error) {
	var msg T
	err := json.Unmarshal(data, &msg)
	return &msg, err
}

// DecodeMessage deserializes a message from a JSON reader.
func DecodeMessage[T any](reader io.Reader) (*T, error) {
	var msg T
	err := json.NewDecoder(reader).Decode(&msg)
	return &msg, err
}

// SerializeMessage serializes a message to JSON bytes.
func SerializeMessage[T any](msg *T) ([]byte, error) {
	return json.Marshal(msg)
}
