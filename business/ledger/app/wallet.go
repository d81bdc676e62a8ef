// Package app contains the application service for the ledger context.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fd1az/ramp-engine/business/ledger/domain"
	"github.com/fd1az/ramp-engine/internal/apperror"
	"github.com/fd1az/ramp-engine/internal/logger"
)

// Wallet is the process-wide ledger container: the active receiving address,
// an advisory balance, and the ordered list of tracked transactions.
//
// The balance is optimistic bookkeeping only: outbound entries debit and
// inbound entries credit at creation time, before the chain confirms, and no
// compensating entry is written if the chain later reports failure. The chain
// remains authoritative.
type Wallet struct {
	log logger.LoggerInterface

	mu        sync.RWMutex
	connected bool
	address   common.Address
	balance   decimal.Decimal
	txs       []domain.Transaction // most-recent-first
	byHash    map[string]string    // normalized hash -> transaction id
}

// NewWallet creates an empty, disconnected wallet ledger.
func NewWallet(log logger.LoggerInterface) *Wallet {
	return &Wallet{
		log:    log,
		byHash: make(map[string]string),
	}
}

// Connect sets the active receiving address. The ledger starts empty.
func (w *Wallet) Connect(address common.Address) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.connected = true
	w.address = address
	w.balance = decimal.Zero
	w.txs = nil
	w.byHash = make(map[string]string)

	w.log.Info(context.Background(), "wallet connected", "address", address.Hex())
}

// Disconnect clears the address, balance, and transaction list.
func (w *Wallet) Disconnect() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.connected = false
	w.address = common.Address{}
	w.balance = decimal.Zero
	w.txs = nil
	w.byHash = make(map[string]string)

	w.log.Info(context.Background(), "wallet disconnected, ledger reset")
}

// Address returns the active receiving address, if connected.
func (w *Wallet) Address() (common.Address, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.address, w.connected
}

// Balance returns the advisory balance.
func (w *Wallet) Balance() decimal.Decimal {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.balance
}

// Record appends a transaction and returns its id. Creation is idempotent on
// the transaction hash: a second record with the same hash (any case) returns
// the first entry's id and leaves the balance untouched.
func (w *Wallet) Record(tx domain.Transaction) (string, error) {
	if !tx.Direction.Valid() {
		return "", apperror.Validation(apperror.CodeInvalidInput, "unknown transaction direction")
	}
	if !tx.Status.Valid() {
		return "", apperror.Validation(apperror.CodeInvalidInput, "unknown transaction status")
	}
	if tx.ChainAmount.IsNegative() {
		return "", apperror.Validation(apperror.CodeInvalidInput, "chain amount must not be negative")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.connected {
		return "", apperror.New(apperror.CodeWalletNotConnected)
	}

	if key := tx.NormalizedHash(); key != "" {
		if existing, ok := w.byHash[key]; ok {
			w.log.Debug(context.Background(), "duplicate record suppressed",
				"hash", key, "id", existing)
			return existing, nil
		}
	}

	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}

	w.txs = append([]domain.Transaction{tx}, w.txs...)
	if key := tx.NormalizedHash(); key != "" {
		w.byHash[key] = tx.ID
	}

	switch tx.Direction {
	case domain.DirectionOutbound:
		w.balance = w.balance.Sub(tx.ChainAmount)
	case domain.DirectionInbound:
		w.balance = w.balance.Add(tx.ChainAmount)
	}

	w.log.Info(context.Background(), "transaction recorded",
		"id", tx.ID,
		"direction", string(tx.Direction),
		"amount", tx.ChainAmount.String(),
		"status", string(tx.Status),
		"hash", tx.TxHash)

	return tx.ID, nil
}

// SetStatus moves the entry with the given hash to the given status. Unknown
// hashes and non-monotonic transitions are logged and ignored.
func (w *Wallet) SetStatus(txHash string, status domain.Status) {
	key := domain.NormalizeHash(txHash)

	w.mu.Lock()
	defer w.mu.Unlock()

	id, ok := w.byHash[key]
	if !ok {
		w.log.Warn(context.Background(), "status update for unknown hash ignored",
			"hash", txHash, "status", string(status))
		return
	}

	for i := range w.txs {
		if w.txs[i].ID != id {
			continue
		}
		if !w.txs[i].Status.CanTransitionTo(status) {
			w.log.Warn(context.Background(), "non-monotonic status transition ignored",
				"id", id,
				"from", string(w.txs[i].Status),
				"to", string(status))
			return
		}
		w.txs[i].Status = status
		w.log.Info(context.Background(), "transaction status updated",
			"id", id, "status", string(status))
		return
	}
}

// List returns all transactions, most recent first.
func (w *Wallet) List() []domain.Transaction {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]domain.Transaction, len(w.txs))
	copy(out, w.txs)
	return out
}

// ListByDirection returns transactions for one ramp direction, most recent first.
func (w *Wallet) ListByDirection(dir domain.Direction) []domain.Transaction {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var out []domain.Transaction
	for _, tx := range w.txs {
		if tx.Direction == dir {
			out = append(out, tx)
		}
	}
	return out
}

// Find returns the first transaction matching the predicate.
func (w *Wallet) Find(pred func(domain.Transaction) bool) (domain.Transaction, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, tx := range w.txs {
		if pred(tx) {
			return tx, true
		}
	}
	return domain.Transaction{}, false
}

// FindByHash returns the transaction with the given hash, if any.
func (w *Wallet) FindByHash(txHash string) (domain.Transaction, bool) {
	key := domain.NormalizeHash(txHash)
	return w.Find(func(tx domain.Transaction) bool {
		return tx.NormalizedHash() == key && key != ""
	})
}
