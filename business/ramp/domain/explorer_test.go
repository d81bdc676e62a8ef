package domain

import "testing"

func TestExplorerTxURL(t *testing.T) {
	tests := []struct {
		name    string
		chainID uint64
		want    string
	}{
		{"mainnet", ChainIDMainnet, "https://etherscan.io/tx/0xabc"},
		{"sepolia", ChainIDSepolia, "https://sepolia.etherscan.io/tx/0xabc"},
		{"unknown defaults to mainnet", 137, "https://etherscan.io/tx/0xabc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExplorerTxURL(tt.chainID, "0xabc"); got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}
