package ethereum

import (
	"context"
	"strings"

	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/ramp-engine/business/ramp/app"
	"github.com/fd1az/ramp-engine/internal/apperror"
	"github.com/fd1az/ramp-engine/internal/logger"
)

// Ensure Resolver implements the port.
var _ app.NameResolver = (*Resolver)(nil)

// ENS registry function selectors.
var (
	selectorResolver = crypto.Keccak256([]byte("resolver(bytes32)"))[:4]
	selectorAddr     = crypto.Keccak256([]byte("addr(bytes32)"))[:4]
)

// ResolverConfig holds configuration for the ENS resolver.
type ResolverConfig struct {
	Registry common.Address // ENS registry contract
}

// Resolver resolves ENS names through registry and resolver eth_calls.
type Resolver struct {
	config ResolverConfig
	logger logger.LoggerInterface
	client *Client
}

// NewResolver creates an ENS resolver over the shared chain client.
func NewResolver(cfg ResolverConfig, log logger.LoggerInterface, client *Client) *Resolver {
	return &Resolver{
		config: cfg,
		logger: log,
		client: client,
	}
}

// Resolve looks up the address behind an ENS name.
func (r *Resolver) Resolve(ctx context.Context, name string) (common.Address, error) {
	ctx, span := r.client.tracer.Start(ctx, "ens.resolve",
		trace.WithAttributes(attribute.String("name", name)),
	)
	defer span.End()

	node := Namehash(strings.ToLower(strings.TrimSpace(name)))

	resolverAddr, err := r.call(ctx, r.config.Registry, selectorResolver, node)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "registry call failed")
		return common.Address{}, apperror.New(apperror.CodeNameResolutionFailed,
			apperror.WithCause(err),
			apperror.WithContext("ens registry lookup for "+name))
	}
	if resolverAddr == (common.Address{}) {
		return common.Address{}, apperror.Validation(apperror.CodeNameNotFound,
			"no resolver for "+name)
	}

	addr, err := r.call(ctx, resolverAddr, selectorAddr, node)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolver call failed")
		return common.Address{}, apperror.New(apperror.CodeNameResolutionFailed,
			apperror.WithCause(err),
			apperror.WithContext("ens addr lookup for "+name))
	}
	if addr == (common.Address{}) {
		return common.Address{}, apperror.Validation(apperror.CodeNameNotFound,
			name+" does not resolve to an address")
	}

	span.SetAttributes(attribute.String("address", addr.Hex()))
	span.SetStatus(codes.Ok, "resolved")
	r.logger.Debug(ctx, "ens name resolved", "name", name, "address", addr.Hex())

	return addr, nil
}

// call performs a single-argument bytes32 view call returning an address.
func (r *Resolver) call(ctx context.Context, contract common.Address, selector []byte, node common.Hash) (common.Address, error) {
	if err := r.client.limiter.Wait(ctx); err != nil {
		return common.Address{}, err
	}

	backend := r.client.backend()
	if backend == nil {
		return common.Address{}, apperror.New(apperror.CodeEthereumConnectionFailed,
			apperror.WithContext("no ethereum client connected"))
	}

	data := make([]byte, 0, 36)
	data = append(data, selector...)
	data = append(data, node.Bytes()...)

	out, err := backend.CallContract(ctx, goethereum.CallMsg{
		To:   &contract,
		Data: data,
	}, nil)
	if err != nil {
		return common.Address{}, err
	}
	if len(out) < 32 {
		return common.Address{}, nil
	}
	return common.BytesToAddress(out[12:32]), nil
}

// Namehash implements the ENS hierarchical name hash.
func Namehash(name string) common.Hash {
	node := make([]byte, 32)
	if name == "" {
		return common.BytesToHash(node)
	}

	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		labelHash := crypto.Keccak256([]byte(labels[i]))
		node = crypto.Keccak256(node, labelHash)
	}
	return common.BytesToHash(node)
}
