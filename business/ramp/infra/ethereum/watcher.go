package ethereum

import (
	"context"
	"errors"
	"time"

	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/ramp-engine/business/ramp/app"
	"github.com/fd1az/ramp-engine/internal/apperror"
)

// Ensure Client satisfies the ports it backs.
var (
	_ app.ChainReader    = (*Client)(nil)
	_ app.ReceiptWatcher = (*Client)(nil)
)

// receiptPollInterval is how often WaitForReceipt rechecks a pending tx.
const receiptPollInterval = 4 * time.Second

// WaitForReceipt polls until the transaction is mined and reports its
// terminal state. The context bounds the wait.
func (c *Client) WaitForReceipt(ctx context.Context, txHash string) (app.ReceiptOutcome, error) {
	ctx, span := c.tracer.Start(ctx, "eth.wait_for_receipt",
		trace.WithAttributes(attribute.String("hash", txHash)),
	)
	defer span.End()

	hash := common.HexToHash(txHash)
	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.pendingReceipt(ctx, hash)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "receipt fetch failed")
			return app.ReceiptOutcome{}, err
		}
		if receipt != nil {
			outcome := app.ReceiptOutcome{
				TxHash:    txHash,
				Confirmed: receipt.Status == types.ReceiptStatusSuccessful,
			}
			span.SetAttributes(attribute.Bool("confirmed", outcome.Confirmed))
			span.SetStatus(codes.Ok, "mined")
			return outcome, nil
		}

		select {
		case <-ctx.Done():
			return app.ReceiptOutcome{}, apperror.New(apperror.CodeReceiptNotFound,
				apperror.WithCause(ctx.Err()),
				apperror.WithContext("gave up waiting for receipt "+txHash))
		case <-c.done:
			return app.ReceiptOutcome{}, errors.New("client closed while waiting for receipt")
		case <-ticker.C:
		}
	}
}

// pendingReceipt fetches a receipt, mapping not-yet-mined to nil.
func (c *Client) pendingReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	client := c.backend()
	if client == nil {
		return nil, apperror.New(apperror.CodeEthereumConnectionFailed,
			apperror.WithContext("no ethereum client connected"))
	}

	receipt, err := client.TransactionReceipt(ctx, hash)
	if errors.Is(err, goethereum.NotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.New(apperror.CodeEthereumRPCError,
			apperror.WithCause(err),
			apperror.WithContext("failed to fetch receipt "+hash.Hex()))
	}
	return receipt, nil
}
