package app

import (
	"context"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	ledgerapp "github.com/fd1az/ramp-engine/business/ledger/app"
	ledgerdomain "github.com/fd1az/ramp-engine/business/ledger/domain"
	"github.com/fd1az/ramp-engine/business/ramp/domain"
	"github.com/fd1az/ramp-engine/internal/asset"
	"github.com/fd1az/ramp-engine/internal/logger"
)

// MonitorConfig holds configuration for the deposit monitor.
type MonitorConfig struct {
	Lookback uint64 // heights scanned behind the head on the first scan
	ChainID  uint64 // used to recover the sender address from raw txs
}

// DefaultMonitorConfig returns sensible defaults for mainnet.
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Lookback: 5,
		ChainID:  domain.ChainIDMainnet,
	}
}

// Monitor scans new blocks for transfers into the active receiving
// address and records them as inbound ledger entries. Scanning is best
// effort: a height or receipt that cannot be fetched is skipped, and
// the cursor still advances so the feed stays current.
type Monitor struct {
	config MonitorConfig
	logger logger.LoggerInterface
	reader ChainReader
	wallet *ledgerapp.Wallet

	mu          sync.Mutex
	activeAddr  common.Address
	lastChecked *uint64
	seen        map[string]struct{} // lower-cased tx hashes
}

// NewMonitor creates a deposit monitor over the given chain reader.
func NewMonitor(cfg MonitorConfig, log logger.LoggerInterface, reader ChainReader, wallet *ledgerapp.Wallet) *Monitor {
	if cfg.Lookback == 0 {
		cfg.Lookback = 5
	}
	return &Monitor{
		config: cfg,
		logger: log,
		reader: reader,
		wallet: wallet,
	}
}

// Run consumes the height feed until the context ends.
func (m *Monitor) Run(ctx context.Context) error {
	heights, err := m.reader.SubscribeHeights(ctx)
	if err != nil {
		return err
	}

	m.logger.Info(ctx, "deposit monitor started", "lookback", m.config.Lookback)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case height, ok := <-heights:
			if !ok {
				m.logger.Info(ctx, "height feed closed, monitor stopping")
				return nil
			}
			m.Scan(ctx, height)
		}
	}
}

// Scan inspects every height between the cursor and the given head.
// Errors never escape: a broken scan is logged and the next head gets a
// fresh attempt.
func (m *Monitor) Scan(ctx context.Context, current uint64) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error(ctx, "block scan panicked", "height", current, "panic", r)
		}
	}()

	addr, connected := m.wallet.Address()

	m.mu.Lock()
	if !connected {
		// Wallet gone: drop the cursor and dedup state so a reconnect
		// starts from a fresh bootstrap window.
		m.lastChecked = nil
		m.seen = nil
		m.activeAddr = common.Address{}
		m.mu.Unlock()
		return
	}
	if m.seen == nil || m.activeAddr != addr {
		m.lastChecked = nil
		m.seen = make(map[string]struct{})
		m.activeAddr = addr
	}
	last := m.lastChecked
	m.mu.Unlock()

	window, ok := domain.NextWindow(last, current, m.config.Lookback)
	if ok {
		for h := window.From; h <= window.To; h++ {
			m.scanHeight(ctx, h, addr)
		}
	}

	m.mu.Lock()
	if m.lastChecked == nil || current > *m.lastChecked {
		cursor := current
		m.lastChecked = &cursor
	}
	m.mu.Unlock()
}

// scanHeight fetches one block and records matching deposits.
func (m *Monitor) scanHeight(ctx context.Context, height uint64, addr common.Address) {
	block, err := m.reader.BlockByNumber(ctx, new(big.Int).SetUint64(height))
	if err != nil {
		m.logger.Warn(ctx, "block fetch failed, skipping height", "height", height, "error", err)
		return
	}

	for _, tx := range block.Transactions() {
		to := tx.To()
		if to == nil || *to != addr {
			continue
		}
		m.recordDeposit(ctx, tx, height)
	}
}

// recordDeposit fetches the receipt and writes the inbound entry.
func (m *Monitor) recordDeposit(ctx context.Context, tx *types.Transaction, height uint64) {
	hash := strings.ToLower(tx.Hash().Hex())

	m.mu.Lock()
	if _, dup := m.seen[hash]; dup {
		m.mu.Unlock()
		return
	}
	m.seen[hash] = struct{}{}
	m.mu.Unlock()

	receipt, err := m.reader.TransactionReceipt(ctx, tx.Hash())
	if err != nil {
		// The hash stays in the seen set; this deposit is never retried.
		m.logger.Warn(ctx, "receipt fetch failed, skipping deposit",
			"hash", hash, "height", height, "error", err)
		return
	}

	entry := ledgerdomain.Transaction{
		Direction:    ledgerdomain.DirectionInbound,
		ChainAmount:  asset.FromWei(tx.Value()),
		Status:       ledgerdomain.StatusProcessing,
		Counterparty: m.senderOf(tx),
		TxHash:       hash,
	}

	if _, err := m.wallet.Record(entry); err != nil {
		m.logger.Warn(ctx, "deposit record rejected", "hash", hash, "error", err)
		return
	}

	final := ledgerdomain.StatusCompleted
	if receipt.Status != types.ReceiptStatusSuccessful {
		final = ledgerdomain.StatusFailed
	}
	m.wallet.SetStatus(hash, final)

	m.logger.Info(ctx, "deposit recorded",
		"hash", hash,
		"height", height,
		"amount", entry.ChainAmount.String(),
		"status", string(final))
}

// senderOf recovers the origin address, best effort.
func (m *Monitor) senderOf(tx *types.Transaction) common.Address {
	signer := types.LatestSignerForChainID(new(big.Int).SetUint64(m.config.ChainID))
	from, err := types.Sender(signer, tx)
	if err != nil {
		return common.Address{}
	}
	return from
}

// Cursor returns the last fully scanned height, if any.
func (m *Monitor) Cursor() (uint64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lastChecked == nil {
		return 0, false
	}
	return *m.lastChecked, true
}
