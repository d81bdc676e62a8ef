package app

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ledgerapp "github.com/fd1az/ramp-engine/business/ledger/app"
	ledgerdomain "github.com/fd1az/ramp-engine/business/ledger/domain"
	"github.com/fd1az/ramp-engine/business/ramp/domain"
)

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, args ...any)              {}
func (nopLogger) Info(ctx context.Context, msg string, args ...any)               {}
func (nopLogger) Warn(ctx context.Context, msg string, args ...any)               {}
func (nopLogger) Error(ctx context.Context, msg string, args ...any)              {}
func (nopLogger) Debugc(ctx context.Context, caller int, msg string, args ...any) {}
func (nopLogger) Infoc(ctx context.Context, caller int, msg string, args ...any)  {}
func (nopLogger) Warnc(ctx context.Context, caller int, msg string, args ...any)  {}
func (nopLogger) Errorc(ctx context.Context, caller int, msg string, args ...any) {}

// fakeReader serves canned blocks and receipts and records which
// heights were fetched.
type fakeReader struct {
	mu          sync.Mutex
	blocks      map[uint64]*types.Block
	blockErrs   map[uint64]error
	receipts    map[common.Hash]*types.Receipt
	receiptErrs map[common.Hash]error
	fetched     []uint64
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		blocks:      make(map[uint64]*types.Block),
		blockErrs:   make(map[uint64]error),
		receipts:    make(map[common.Hash]*types.Receipt),
		receiptErrs: make(map[common.Hash]error),
	}
}

func (f *fakeReader) BlockByNumber(ctx context.Context, number *big.Int) (*types.Block, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h := number.Uint64()
	f.fetched = append(f.fetched, h)
	if err, ok := f.blockErrs[h]; ok {
		return nil, err
	}
	if b, ok := f.blocks[h]; ok {
		return b, nil
	}
	return emptyBlock(h), nil
}

func (f *fakeReader) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.receiptErrs[txHash]; ok {
		return nil, err
	}
	if r, ok := f.receipts[txHash]; ok {
		return r, nil
	}
	return nil, errors.New("receipt not found")
}

func (f *fakeReader) SubscribeHeights(ctx context.Context) (<-chan uint64, error) {
	ch := make(chan uint64)
	close(ch)
	return ch, nil
}

func (f *fakeReader) State() domain.ConnectionState { return domain.StateConnected }

func (f *fakeReader) fetchedHeights() []uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]uint64, len(f.fetched))
	copy(out, f.fetched)
	return out
}

func (f *fakeReader) resetFetched() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = nil
}

func emptyBlock(height uint64) *types.Block {
	header := &types.Header{Number: new(big.Int).SetUint64(height)}
	return types.NewBlockWithHeader(header)
}

func blockWithTxs(height uint64, txs ...*types.Transaction) *types.Block {
	header := &types.Header{Number: new(big.Int).SetUint64(height)}
	return types.NewBlockWithHeader(header).WithBody(types.Body{Transactions: txs})
}

func transferTo(to common.Address, wei int64, nonce uint64) *types.Transaction {
	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    big.NewInt(wei),
		Gas:      21000,
		GasPrice: big.NewInt(1),
	})
}

var monitorAddr = common.HexToAddress("0x2222222222222222222222222222222222222222")

func newTestMonitor(t *testing.T, reader *fakeReader) (*Monitor, *ledgerapp.Wallet) {
	t.Helper()
	wallet := ledgerapp.NewWallet(nopLogger{})
	wallet.Connect(monitorAddr)
	m := NewMonitor(DefaultMonitorConfig(), nopLogger{}, reader, wallet)
	return m, wallet
}

func TestMonitor_BootstrapWindow(t *testing.T) {
	reader := newFakeReader()
	m, _ := newTestMonitor(t, reader)

	m.Scan(context.Background(), 50)

	assert.Equal(t, []uint64{45, 46, 47, 48, 49, 50}, reader.fetchedHeights())
	cursor, ok := m.Cursor()
	require.True(t, ok)
	assert.Equal(t, uint64(50), cursor)
}

func TestMonitor_WindowAfterCursor(t *testing.T) {
	reader := newFakeReader()
	m, _ := newTestMonitor(t, reader)

	m.Scan(context.Background(), 100)
	reader.resetFetched()

	m.Scan(context.Background(), 105)
	assert.Equal(t, []uint64{101, 102, 103, 104, 105}, reader.fetchedHeights())
}

func TestMonitor_EmptyWindowNoop(t *testing.T) {
	reader := newFakeReader()
	m, _ := newTestMonitor(t, reader)

	m.Scan(context.Background(), 100)
	reader.resetFetched()

	m.Scan(context.Background(), 100)
	assert.Empty(t, reader.fetchedHeights())

	m.Scan(context.Background(), 99)
	assert.Empty(t, reader.fetchedHeights(), "head behind cursor must not rescan")

	cursor, _ := m.Cursor()
	assert.Equal(t, uint64(100), cursor, "cursor must not move backwards")
}

func TestMonitor_RecordsDeposit(t *testing.T) {
	reader := newFakeReader()
	m, wallet := newTestMonitor(t, reader)

	tx := transferTo(monitorAddr, 2_000_000_000_000_000_000, 0) // 2 ETH
	reader.blocks[48] = blockWithTxs(48, tx)
	reader.receipts[tx.Hash()] = &types.Receipt{Status: types.ReceiptStatusSuccessful}

	m.Scan(context.Background(), 50)

	list := wallet.List()
	require.Len(t, list, 1)
	assert.Equal(t, ledgerdomain.DirectionInbound, list[0].Direction)
	assert.Equal(t, ledgerdomain.StatusCompleted, list[0].Status)
	assert.Equal(t, "2", list[0].ChainAmount.String())
	assert.Equal(t, "2", wallet.Balance().String())
}

func TestMonitor_RevertedDepositMarkedFailed(t *testing.T) {
	reader := newFakeReader()
	m, wallet := newTestMonitor(t, reader)

	tx := transferTo(monitorAddr, 1_000_000_000_000_000_000, 0)
	reader.blocks[50] = blockWithTxs(50, tx)
	reader.receipts[tx.Hash()] = &types.Receipt{Status: types.ReceiptStatusFailed}

	m.Scan(context.Background(), 50)

	list := wallet.List()
	require.Len(t, list, 1)
	assert.Equal(t, ledgerdomain.StatusFailed, list[0].Status)
}

func TestMonitor_IgnoresOtherRecipients(t *testing.T) {
	reader := newFakeReader()
	m, wallet := newTestMonitor(t, reader)

	other := common.HexToAddress("0x3333333333333333333333333333333333333333")
	tx := transferTo(other, 1_000_000_000_000_000_000, 0)
	reader.blocks[50] = blockWithTxs(50, tx)

	m.Scan(context.Background(), 50)

	assert.Empty(t, wallet.List())
}

func TestMonitor_DedupAcrossOverlappingBlocks(t *testing.T) {
	reader := newFakeReader()
	m, wallet := newTestMonitor(t, reader)

	// The same transfer shows up at two scanned heights, as it would
	// when the feed replays around a reorg.
	tx := transferTo(monitorAddr, 1_000_000_000_000_000_000, 0)
	reader.blocks[49] = blockWithTxs(49, tx)
	reader.blocks[50] = blockWithTxs(50, tx)
	reader.receipts[tx.Hash()] = &types.Receipt{Status: types.ReceiptStatusSuccessful}

	m.Scan(context.Background(), 50)

	assert.Len(t, wallet.List(), 1)
	assert.Equal(t, "1", wallet.Balance().String())
}

func TestMonitor_ReceiptFailureSkipsPermanently(t *testing.T) {
	reader := newFakeReader()
	m, wallet := newTestMonitor(t, reader)

	tx := transferTo(monitorAddr, 1_000_000_000_000_000_000, 0)
	reader.blocks[50] = blockWithTxs(50, tx)
	reader.receiptErrs[tx.Hash()] = errors.New("rpc timeout")

	m.Scan(context.Background(), 50)
	require.Empty(t, wallet.List())

	// The receipt becomes available and the tx reappears in a later
	// block, but the seen set already holds the hash.
	delete(reader.receiptErrs, tx.Hash())
	reader.receipts[tx.Hash()] = &types.Receipt{Status: types.ReceiptStatusSuccessful}
	reader.blocks[51] = blockWithTxs(51, tx)

	m.Scan(context.Background(), 51)
	assert.Empty(t, wallet.List())
}

func TestMonitor_BlockFailureSkipsHeightOnly(t *testing.T) {
	reader := newFakeReader()
	m, wallet := newTestMonitor(t, reader)

	reader.blockErrs[46] = errors.New("rpc timeout")
	tx := transferTo(monitorAddr, 1_000_000_000_000_000_000, 0)
	reader.blocks[47] = blockWithTxs(47, tx)
	reader.receipts[tx.Hash()] = &types.Receipt{Status: types.ReceiptStatusSuccessful}

	m.Scan(context.Background(), 50)

	assert.Len(t, wallet.List(), 1, "failure at one height must not stop the scan")
	cursor, _ := m.Cursor()
	assert.Equal(t, uint64(50), cursor, "cursor advances despite partial failure")
}

func TestMonitor_DisconnectResetsScanState(t *testing.T) {
	reader := newFakeReader()
	m, wallet := newTestMonitor(t, reader)

	m.Scan(context.Background(), 100)
	_, ok := m.Cursor()
	require.True(t, ok)

	wallet.Disconnect()
	m.Scan(context.Background(), 110)
	_, ok = m.Cursor()
	assert.False(t, ok, "disconnect must drop the cursor")

	// Reconnect bootstraps a fresh trailing window.
	wallet.Connect(monitorAddr)
	reader.resetFetched()
	m.Scan(context.Background(), 120)
	assert.Equal(t, []uint64{115, 116, 117, 118, 119, 120}, reader.fetchedHeights())
}
