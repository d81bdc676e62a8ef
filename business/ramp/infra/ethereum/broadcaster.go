package ethereum

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/ramp-engine/business/ramp/app"
	"github.com/fd1az/ramp-engine/internal/apperror"
	"github.com/fd1az/ramp-engine/internal/asset"
	"github.com/fd1az/ramp-engine/internal/logger"
)

// Ensure both broadcasters implement the port.
var (
	_ app.Broadcaster = (*Broadcaster)(nil)
	_ app.Broadcaster = Disabled{}
)

// Disabled is the Broadcaster used when no signing backend is attached.
// Deposits still flow; sends are rejected up front.
type Disabled struct{}

func (Disabled) SendTransaction(ctx context.Context, to common.Address, amount decimal.Decimal) (string, error) {
	return "", apperror.New(apperror.CodeWalletNotConnected,
		apperror.WithContext("no signing backend attached"))
}

// transferGasLimit is the fixed cost of a plain value transfer.
const transferGasLimit = 21000

// SignerFn signs a transaction on behalf of the sending account. The
// engine never sees the key behind it.
type SignerFn func(ctx context.Context, tx *types.Transaction) (*types.Transaction, error)

// BroadcasterConfig holds configuration for the transfer broadcaster.
type BroadcasterConfig struct {
	From    common.Address // sending account, must match the signer
	ChainID uint64
}

// Broadcaster builds, signs, and submits plain value transfers.
type Broadcaster struct {
	config BroadcasterConfig
	logger logger.LoggerInterface
	client *Client
	signer SignerFn
}

// NewBroadcaster creates a broadcaster over the shared chain client and
// an external signer.
func NewBroadcaster(cfg BroadcasterConfig, log logger.LoggerInterface, client *Client, signer SignerFn) *Broadcaster {
	return &Broadcaster{
		config: cfg,
		logger: log,
		client: client,
		signer: signer,
	}
}

// SendTransaction submits a transfer of the given ether amount and
// returns the transaction hash.
func (b *Broadcaster) SendTransaction(ctx context.Context, to common.Address, amount decimal.Decimal) (string, error) {
	ctx, span := b.client.tracer.Start(ctx, "eth.send_transaction",
		trace.WithAttributes(
			attribute.String("to", to.Hex()),
			attribute.String("amount", amount.String()),
		),
	)
	defer span.End()

	wei, err := asset.ToWei(amount)
	if err != nil {
		return "", apperror.Validation(apperror.CodeAmountNotNumeric,
			"amount "+amount.String()+" not convertible to wei")
	}

	backend := b.client.backend()
	if backend == nil {
		return "", apperror.New(apperror.CodeEthereumConnectionFailed,
			apperror.WithContext("no ethereum client connected"))
	}

	nonce, err := backend.PendingNonceAt(ctx, b.config.From)
	if err != nil {
		span.RecordError(err)
		return "", apperror.New(apperror.CodeBroadcastNetworkError,
			apperror.WithCause(err),
			apperror.WithContext("failed to fetch nonce"))
	}

	tipCap, err := backend.SuggestGasTipCap(ctx)
	if err != nil {
		span.RecordError(err)
		return "", apperror.New(apperror.CodeBroadcastNetworkError,
			apperror.WithCause(err),
			apperror.WithContext("failed to fetch gas tip"))
	}

	head, err := backend.HeaderByNumber(ctx, nil)
	if err != nil {
		span.RecordError(err)
		return "", apperror.New(apperror.CodeBroadcastNetworkError,
			apperror.WithCause(err),
			apperror.WithContext("failed to fetch head for base fee"))
	}

	feeCap := new(big.Int).Add(tipCap, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))

	unsigned := types.NewTx(&types.DynamicFeeTx{
		ChainID:   new(big.Int).SetUint64(b.config.ChainID),
		Nonce:     nonce,
		To:        &to,
		Value:     wei,
		Gas:       transferGasLimit,
		GasTipCap: tipCap,
		GasFeeCap: feeCap,
	})

	signed, err := b.signer(ctx, unsigned)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "signing failed")
		// The signer owns the user interaction; its message carries the
		// rejection/insufficient-funds detail the classifier keys on.
		return "", err
	}

	if err := backend.SendTransaction(ctx, signed); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "broadcast failed")
		return "", err
	}

	hash := signed.Hash().Hex()
	b.logger.Info(ctx, "transfer broadcast",
		"hash", hash,
		"to", to.Hex(),
		"amount", amount.String(),
		"nonce", nonce)

	span.SetAttributes(attribute.String("hash", hash))
	span.SetStatus(codes.Ok, "broadcast")
	return hash, nil
}
