package crypto

import (
	"bytes"
	"testing"

	"github.com/freshe4qa/taiko-mono/core/types"
)

func TestKeccak256KnownVectors(t *testing.T) {
	tests := []struct {
		input []byte
		want  string
	}{
		{nil, "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"},
		{[]byte("abc"), "0x4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45"},
	}
	for _, tt := range tests {
		got := Keccak256Hash(tt.input)
		if got != types.HexToHash(tt.want) {
			t.Errorf("Keccak256Hash(%q) = %s, want %s", tt.input, got.Hex(), tt.want)
		}
	}
}

func TestKeccak256MultiChunk(t *testing.T) {
	// Hashing split input equals hashing the concatenation.
	whole := Keccak256([]byte("hello world"))
	split := Keccak256([]byte("hello "), []byte("world"))
	if !bytes.Equal(whole, split) {
		t.Errorf("chunked hash %x != whole hash %x", split, whole)
	}
}
