// Package json is the single JSON entry point for the module so that the
// codec can be swapped in one place
package json

import "encoding/json"

// RawMessage is a raw encoded JSON value
type RawMessage = json.RawMessage

// Encoder writes JSON values to an output stream
type Encoder = json.Encoder

// Decoder reads JSON values from an input stream
type Decoder = json.Decoder

var (
	// Marshal returns the JSON encoding of v
	Marshal = json.Marshal
	// MarshalIndent is like Marshal but applies indent to format the output
	MarshalIndent = json.MarshalIndent
	// Unmarshal parses the JSON-encoded data and stores the result in v
	Unmarshal = json.Unmarshal
	// NewEncoder returns a new encoder that writes to w
	NewEncoder = json.NewEncoder
	// NewDecoder returns a new decoder that reads from r
	NewDecoder = json.NewDecoder
	// Valid reports whether data is a valid JSON encoding
	Valid = json.Valid
)
