package app

import (
	"context"
	"strings"
	"sync"

	ledgerapp "github.com/fd1az/ramp-engine/business/ledger/app"
	ledgerdomain "github.com/fd1az/ramp-engine/business/ledger/domain"
	"github.com/fd1az/ramp-engine/business/ramp/domain"
	"github.com/fd1az/ramp-engine/internal/logger"
)

// ReconcilerConfig holds configuration for the status reconciler.
type ReconcilerConfig struct {
	ChainID uint64 // selects the explorer host in notifications
}

// Reconciler waits for broadcast transactions to reach a terminal chain
// state, applies the matching ledger transition, and notifies the user
// once per hash.
type Reconciler struct {
	config   ReconcilerConfig
	logger   logger.LoggerInterface
	wallet   *ledgerapp.Wallet
	watcher  ReceiptWatcher
	notifier Notifier

	mu      sync.Mutex
	handled map[string]struct{} // lower-cased hashes already resolved
}

// NewReconciler creates a reconciler over the given receipt watcher.
func NewReconciler(cfg ReconcilerConfig, log logger.LoggerInterface, wallet *ledgerapp.Wallet, watcher ReceiptWatcher, notifier Notifier) *Reconciler {
	if cfg.ChainID == 0 {
		cfg.ChainID = domain.ChainIDMainnet
	}
	return &Reconciler{
		config:   cfg,
		logger:   log,
		wallet:   wallet,
		watcher:  watcher,
		notifier: notifier,
		handled:  make(map[string]struct{}),
	}
}

// Track blocks until the transaction resolves, then applies exactly one
// terminal transition and one notification for the hash. Duplicate
// tracking requests for the same hash are no-ops.
func (r *Reconciler) Track(ctx context.Context, txHash string) {
	key := strings.ToLower(strings.TrimSpace(txHash))
	if key == "" {
		return
	}

	r.mu.Lock()
	if _, dup := r.handled[key]; dup {
		r.mu.Unlock()
		return
	}
	r.handled[key] = struct{}{}
	r.mu.Unlock()

	outcome, err := r.watcher.WaitForReceipt(ctx, txHash)
	if err != nil {
		// The entry stays in processing; the chain is still authoritative
		// and a later lookup will show the real outcome.
		r.logger.Error(ctx, "receipt watch failed", "hash", key, "error", err)
		return
	}

	status := ledgerdomain.StatusCompleted
	if !outcome.Confirmed {
		status = ledgerdomain.StatusFailed
	}
	r.wallet.SetStatus(key, status)

	r.notify(ctx, key, status)
}

// notify emits the one-time user notification with the explorer link.
func (r *Reconciler) notify(ctx context.Context, txHash string, status ledgerdomain.Status) {
	if r.notifier == nil {
		return
	}

	title := "Transaction confirmed"
	message := "Your transfer was confirmed on chain"
	if status == ledgerdomain.StatusFailed {
		title = "Transaction failed"
		message = "Your transfer was reverted on chain"
	}

	if tx, ok := r.wallet.FindByHash(txHash); ok && !tx.ChainAmount.IsZero() {
		message = message + " (" + tx.ChainAmount.String() + " ETH)"
	}

	r.notifier.Notify(ctx, Notification{
		Title:       title,
		Message:     message,
		ExplorerURL: domain.ExplorerTxURL(r.config.ChainID, txHash),
	})
}
