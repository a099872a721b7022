package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Metadata is the raw provider object attached to an item or search result.
// It is stored verbatim and only decoded when something asks for it.
type Metadata []byte

// MetadataOf encodes v as a Metadata blob.
func MetadataOf(v any) (Metadata, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	return Metadata(b), nil
}

// Decode unmarshals the blob into v.
func (m Metadata) Decode(v any) error {
	if len(m) == 0 {
		return errors.New("metadata is empty")
	}
	if err := json.Unmarshal(m, v); err != nil {
		return fmt.Errorf("decode metadata: %w", err)
	}
	return nil
}

// Clone returns a copy that does not alias m.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	return append(Metadata(nil), m...)
}

// Equal compares the blobs byte for byte.
func (m Metadata) Equal(o Metadata) bool {
	return bytes.Equal(m, o)
}

// MarshalJSON writes the blob as an embedded JSON value.
func (m Metadata) MarshalJSON() ([]byte, error) {
	if len(m) == 0 {
		return []byte("null"), nil
	}
	if !json.Valid(m) {
		return nil, errors.New("metadata is not valid JSON")
	}
	return m, nil
}

// UnmarshalJSON keeps the raw bytes of the value.
func (m *Metadata) UnmarshalJSON(b []byte) error {
	if m == nil {
		return errors.New("metadata: UnmarshalJSON on nil pointer")
	}
	if bytes.Equal(b, []byte("null")) {
		*m = nil
		return nil
	}
	*m = append((*m)[0:0], b...)
	return nil
}
