package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrInvalidMetadata = errors.New("invalid trust metadata")

// Metadata is the descriptive part of a trust. On chain it is stored as a JSON
// array: empty string, [name], or [name, description].
type Metadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Encode returns the on-chain form of m.
func (m Metadata) Encode() string {
	var fields []string
	switch {
	case m.Description != "":
		fields = []string{m.Name, m.Description}
	case m.Name != "":
		fields = []string{m.Name}
	default:
		return ""
	}
	out, err := json.Marshal(fields)
	if err != nil {
		// A string slice always marshals.
		panic(err)
	}
	return string(out)
}

// DecodeMetadata parses the on-chain metadata string.
func DecodeMetadata(raw string) (Metadata, error) {
	if raw == "" {
		return Metadata{}, nil
	}
	var fields []string
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return Metadata{}, fmt.Errorf("%w: %w", ErrInvalidMetadata, err)
	}
	var m Metadata
	if len(fields) > 0 {
		m.Name = fields[0]
	}
	if len(fields) > 1 {
		m.Description = fields[1]
	}
	return m, nil
}
