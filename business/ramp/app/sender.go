package app

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	ledgerapp "github.com/fd1az/ramp-engine/business/ledger/app"
	ledgerdomain "github.com/fd1az/ramp-engine/business/ledger/domain"
	pricingdomain "github.com/fd1az/ramp-engine/business/pricing/domain"
	"github.com/fd1az/ramp-engine/business/ramp/domain"
	"github.com/fd1az/ramp-engine/internal/apperror"
	"github.com/fd1az/ramp-engine/internal/logger"
)

// chainAmountPrecision bounds the fiat-to-ether division; ether has 18
// decimal places so anything finer is noise.
const chainAmountPrecision = 18

// PriceQuoter is the slice of the pricing oracle the sender needs.
type PriceQuoter interface {
	GetPrice(ctx context.Context) pricingdomain.Quote
}

// Tracker receives broadcast hashes for status reconciliation.
type Tracker interface {
	Track(ctx context.Context, txHash string)
}

// SenderConfig holds configuration for the send flow.
type SenderConfig struct {
	Limits domain.AmountLimits
}

// DefaultSenderConfig returns the standard fiat limits.
func DefaultSenderConfig() SenderConfig {
	return SenderConfig{Limits: domain.DefaultAmountLimits()}
}

// SubmitResult reports a successfully broadcast transfer.
type SubmitResult struct {
	TxHash      string
	Destination common.Address
	FiatAmount  decimal.Decimal
	ChainAmount decimal.Decimal
	Cleared     bool // input state may be discarded once this is set
}

// Sender runs the outbound send flow: validate the destination and
// amount, convert fiat to ether at the oracle rate, broadcast, record
// the ledger entry, and hand the hash to the reconciler.
type Sender struct {
	config      SenderConfig
	logger      logger.LoggerInterface
	prices      PriceQuoter
	wallet      *ledgerapp.Wallet
	broadcaster Broadcaster
	resolver    NameResolver // optional; nil disables name destinations
	tracker     Tracker      // optional
}

// NewSender creates the send flow controller.
func NewSender(cfg SenderConfig, log logger.LoggerInterface, prices PriceQuoter, wallet *ledgerapp.Wallet, broadcaster Broadcaster, resolver NameResolver, tracker Tracker) *Sender {
	if cfg.Limits.Min.IsZero() && cfg.Limits.Max.IsZero() {
		cfg.Limits = domain.DefaultAmountLimits()
	}
	return &Sender{
		config:      cfg,
		logger:      log,
		prices:      prices,
		wallet:      wallet,
		broadcaster: broadcaster,
		resolver:    resolver,
		tracker:     tracker,
	}
}

// Submit validates and broadcasts a transfer of fiatAmount USD worth of
// ether to the destination, which is either a hex address or a
// resolvable name.
func (s *Sender) Submit(ctx context.Context, destination, fiatAmount string) (SubmitResult, error) {
	if _, connected := s.wallet.Address(); !connected {
		return SubmitResult{}, apperror.New(apperror.CodeWalletNotConnected)
	}

	to, err := s.resolveDestination(ctx, destination)
	if err != nil {
		return SubmitResult{}, err
	}

	fiat, err := domain.ParseFiatAmount(fiatAmount, s.config.Limits)
	if err != nil {
		return SubmitResult{}, err
	}

	quote := s.prices.GetPrice(ctx)
	chainAmount := fiat.DivRound(quote.Rate, chainAmountPrecision)

	s.logger.Info(ctx, "submitting transfer",
		"to", to.Hex(),
		"fiat", fiat.String(),
		"rate", quote.Rate.String(),
		"rate_source", quote.Source,
		"amount", chainAmount.String())

	hash, err := s.broadcaster.SendTransaction(ctx, to, chainAmount)
	if err != nil {
		return SubmitResult{}, apperror.ClassifyBroadcast(err)
	}

	// The broadcast hash is consumed exactly here; the idempotent ledger
	// keyed on the hash absorbs any replay.
	if _, err := s.wallet.Record(ledgerdomain.Transaction{
		Direction:    ledgerdomain.DirectionOutbound,
		ChainAmount:  chainAmount,
		FiatAmount:   fiat,
		Status:       ledgerdomain.StatusProcessing,
		Counterparty: to,
		TxHash:       hash,
	}); err != nil {
		return SubmitResult{TxHash: hash}, err
	}

	if s.tracker != nil {
		go s.tracker.Track(context.WithoutCancel(ctx), hash)
	}

	return SubmitResult{
		TxHash:      hash,
		Destination: to,
		FiatAmount:  fiat,
		ChainAmount: chainAmount,
		Cleared:     true,
	}, nil
}

// resolveDestination turns user input into a chain address.
func (s *Sender) resolveDestination(ctx context.Context, destination string) (common.Address, error) {
	trimmed := strings.TrimSpace(destination)
	if trimmed == "" {
		return common.Address{}, apperror.Validation(apperror.CodeInvalidAddress, "destination is empty")
	}

	if domain.IsChainAddress(trimmed) {
		return common.HexToAddress(trimmed), nil
	}

	if s.resolver == nil {
		return common.Address{}, apperror.Validation(apperror.CodeInvalidAddress,
			"destination "+trimmed+" is not a chain address")
	}

	addr, err := s.resolver.Resolve(ctx, trimmed)
	if err != nil {
		if apperror.GetCode(err) == apperror.CodeNameNotFound {
			return common.Address{}, err
		}
		return common.Address{}, apperror.Wrap(err, apperror.CodeNameResolutionFailed,
			"resolving "+trimmed)
	}
	return addr, nil
}
