package ethereum

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

// Known vectors from the ENS specification.
func TestNamehash(t *testing.T) {
	tests := []struct {
		name string
		want common.Hash
	}{
		{"", common.HexToHash("0x0000000000000000000000000000000000000000000000000000000000000000")},
		{"eth", common.HexToHash("0x93cdeb708b7545dc668eb9280176169d1c33cfd8ed6f04690a0bcc88a93fc4ae")},
		{"foo.eth", common.HexToHash("0xde9b09fd7c5f901e23a3f19fecc54828e9c848539801e86591bd9801b019f84f")},
	}

	for _, tt := range tests {
		t.Run("namehash "+tt.name, func(t *testing.T) {
			if got := Namehash(tt.name); got != tt.want {
				t.Fatalf("Namehash(%q) = %s, want %s", tt.name, got.Hex(), tt.want.Hex())
			}
		})
	}
}
