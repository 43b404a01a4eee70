package json

import (
	"github.com/bytedance/sonic"
)

// Package json centralizes the JSON codec choice. All marshalling in the
// repository goes through these aliases so the underlying implementation
// can be swapped in one place.

var (
	// Marshal serializes v into JSON bytes.
	Marshal = sonic.Marshal

	// Unmarshal parses JSON bytes into v.
	Unmarshal = sonic.Unmarshal

	// MarshalIndent serializes v into pretty-printed JSON bytes.
	MarshalIndent = sonic.MarshalIndent

	// MarshalString serializes v into a JSON string.
	MarshalString = sonic.MarshalString

	// UnmarshalString parses a JSON string into v.
	UnmarshalString = sonic.UnmarshalString
)
