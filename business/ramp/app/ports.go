// Package app contains application services and port definitions for the ramp context.
package app

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"

	"github.com/fd1az/ramp-engine/business/ramp/domain"
)

// ChainReader reads blocks and receipts from the chain and feeds new
// heights to the monitor.
type ChainReader interface {
	// BlockByNumber retrieves a block with its full transaction list.
	BlockByNumber(ctx context.Context, number *big.Int) (*types.Block, error)

	// TransactionReceipt retrieves the receipt for a mined transaction.
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)

	// SubscribeHeights starts the height feed and returns a channel of
	// chain-head heights. Heights may repeat or skip; consumers own the
	// windowing.
	SubscribeHeights(ctx context.Context) (<-chan uint64, error)

	// State returns the current connection state.
	State() domain.ConnectionState
}

// Broadcaster submits a value transfer to the chain and returns its hash.
// Signing happens behind this port; the engine never holds keys.
type Broadcaster interface {
	SendTransaction(ctx context.Context, to common.Address, amount decimal.Decimal) (string, error)
}

// ReceiptWatcher blocks until a transaction reaches a terminal chain
// state and reports whether it succeeded.
type ReceiptWatcher interface {
	WaitForReceipt(ctx context.Context, txHash string) (ReceiptOutcome, error)
}

// ReceiptOutcome is the terminal chain state of a watched transaction.
type ReceiptOutcome struct {
	TxHash    string
	Confirmed bool // true on success, false on revert
}

// NameResolver resolves a human-readable name to a chain address.
type NameResolver interface {
	Resolve(ctx context.Context, name string) (common.Address, error)
}

// Notification is a one-time user-facing message about a transaction.
type Notification struct {
	Title       string
	Message     string
	ExplorerURL string
}

// Notifier delivers notifications to whatever surface is attached.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}
