package domain

import "fmt"

// Chain IDs with a dedicated explorer host.
const (
	ChainIDMainnet uint64 = 1
	ChainIDSepolia uint64 = 11155111
)

// ExplorerTxURL returns the block-explorer link for a transaction hash.
// Unknown chain IDs fall back to the mainnet explorer.
func ExplorerTxURL(chainID uint64, txHash string) string {
	host := "etherscan.io"
	if chainID == ChainIDSepolia {
		host = "sepolia.etherscan.io"
	}
	return fmt.Sprintf("https://%s/tx/%s", host, txHash)
}
