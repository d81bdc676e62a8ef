package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ledgerapp "github.com/fd1az/ramp-engine/business/ledger/app"
	ledgerdomain "github.com/fd1az/ramp-engine/business/ledger/domain"
	"github.com/fd1az/ramp-engine/business/ramp/domain"
)

type stubWatcher struct {
	outcome ReceiptOutcome
	err     error
	calls   int
}

func (s *stubWatcher) WaitForReceipt(ctx context.Context, txHash string) (ReceiptOutcome, error) {
	s.calls++
	if s.err != nil {
		return ReceiptOutcome{}, s.err
	}
	out := s.outcome
	out.TxHash = txHash
	return out, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []Notification
}

func (n *recordingNotifier) Notify(ctx context.Context, notif Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notif)
}

func (n *recordingNotifier) notifications() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notification, len(n.sent))
	copy(out, n.sent)
	return out
}

func newTestReconciler(t *testing.T, watcher ReceiptWatcher, chainID uint64) (*Reconciler, *ledgerapp.Wallet, *recordingNotifier) {
	t.Helper()
	wallet := ledgerapp.NewWallet(nopLogger{})
	wallet.Connect(monitorAddr)
	notifier := &recordingNotifier{}
	r := NewReconciler(ReconcilerConfig{ChainID: chainID}, nopLogger{}, wallet, watcher, notifier)
	return r, wallet, notifier
}

func recordProcessing(t *testing.T, wallet *ledgerapp.Wallet, hash string) {
	t.Helper()
	_, err := wallet.Record(ledgerdomain.Transaction{
		Direction:   ledgerdomain.DirectionOutbound,
		ChainAmount: decimal.RequireFromString("0.02"),
		Status:      ledgerdomain.StatusProcessing,
		TxHash:      hash,
	})
	require.NoError(t, err)
}

func TestReconciler_ConfirmedTransitionsToCompleted(t *testing.T) {
	watcher := &stubWatcher{outcome: ReceiptOutcome{Confirmed: true}}
	r, wallet, notifier := newTestReconciler(t, watcher, domain.ChainIDMainnet)

	recordProcessing(t, wallet, "0xFEED")
	r.Track(context.Background(), "0xFEED")

	tx, ok := wallet.FindByHash("0xfeed")
	require.True(t, ok)
	assert.Equal(t, ledgerdomain.StatusCompleted, tx.Status)

	sent := notifier.notifications()
	require.Len(t, sent, 1)
	assert.Equal(t, "Transaction confirmed", sent[0].Title)
	assert.Contains(t, sent[0].Message, "0.02 ETH")
	assert.Equal(t, "https://etherscan.io/tx/0xfeed", sent[0].ExplorerURL)
}

func TestReconciler_RevertedTransitionsToFailed(t *testing.T) {
	watcher := &stubWatcher{outcome: ReceiptOutcome{Confirmed: false}}
	r, wallet, notifier := newTestReconciler(t, watcher, domain.ChainIDSepolia)

	recordProcessing(t, wallet, "0xdead")
	r.Track(context.Background(), "0xdead")

	tx, _ := wallet.FindByHash("0xdead")
	assert.Equal(t, ledgerdomain.StatusFailed, tx.Status)

	sent := notifier.notifications()
	require.Len(t, sent, 1)
	assert.Equal(t, "Transaction failed", sent[0].Title)
	assert.Equal(t, "https://sepolia.etherscan.io/tx/0xdead", sent[0].ExplorerURL)
}

func TestReconciler_OneTerminalTransitionPerHash(t *testing.T) {
	watcher := &stubWatcher{outcome: ReceiptOutcome{Confirmed: true}}
	r, wallet, notifier := newTestReconciler(t, watcher, domain.ChainIDMainnet)

	recordProcessing(t, wallet, "0xfeed")

	r.Track(context.Background(), "0xfeed")
	r.Track(context.Background(), "0xFEED") // same hash, different casing

	assert.Equal(t, 1, watcher.calls, "second track must not hit the watcher")
	assert.Len(t, notifier.notifications(), 1, "notification must fire once")
}

func TestReconciler_WatchFailureLeavesProcessing(t *testing.T) {
	watcher := &stubWatcher{err: errors.New("rpc down")}
	r, wallet, notifier := newTestReconciler(t, watcher, domain.ChainIDMainnet)

	recordProcessing(t, wallet, "0xfeed")
	r.Track(context.Background(), "0xfeed")

	tx, _ := wallet.FindByHash("0xfeed")
	assert.Equal(t, ledgerdomain.StatusProcessing, tx.Status)
	assert.Empty(t, notifier.notifications())
}
