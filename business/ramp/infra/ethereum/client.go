// Package ethereum provides chain infrastructure adapters for the ramp context.
package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/ramp-engine/business/ramp/domain"
	"github.com/fd1az/ramp-engine/internal/apperror"
	"github.com/fd1az/ramp-engine/internal/circuitbreaker"
	"github.com/fd1az/ramp-engine/internal/logger"
	"github.com/fd1az/ramp-engine/internal/ratelimit"
)

const (
	tracerName = "github.com/fd1az/ramp-engine/business/ramp/infra/ethereum"
	meterName  = "github.com/fd1az/ramp-engine/business/ramp/infra/ethereum"
)

// ClientConfig holds configuration for the chain client.
type ClientConfig struct {
	WSURL          string        // WebSocket endpoint (primary height feed)
	HTTPURL        string        // HTTP endpoint (reads + polling fallback)
	PollInterval   time.Duration // polling interval for HTTP fallback
	ReconnectDelay time.Duration // delay before reconnecting WS
	BufferSize     int           // height channel buffer size
	RPCPerMinute   int           // rate limit across read calls
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(wsURL, httpURL string) ClientConfig {
	return ClientConfig{
		WSURL:          wsURL,
		HTTPURL:        httpURL,
		PollInterval:   12 * time.Second, // ~1 block time
		ReconnectDelay: 5 * time.Second,
		BufferSize:     16,
		RPCPerMinute:   300,
	}
}

// clientMetrics holds OTEL metric instruments.
type clientMetrics struct {
	heightsReceived  metric.Int64Counter
	subscribeErrors  metric.Int64Counter
	rpcErrors        metric.Int64Counter
	connectionState  metric.Int64Gauge
	httpFallbackUsed metric.Int64Counter
}

// Client adapts go-ethereum clients to the ramp ports. The height feed
// uses WebSocket as primary with HTTP polling as fallback; block and
// receipt reads prefer whichever connection is healthy.
type Client struct {
	config ClientConfig
	logger logger.LoggerInterface

	wsClient   *ethclient.Client
	httpClient *ethclient.Client
	clientMu   sync.RWMutex

	state      domain.ConnectionState
	stateMu    sync.RWMutex
	usingHTTP  atomic.Bool
	lastHeight atomic.Uint64
	reconnects atomic.Int32

	heights chan uint64
	done    chan struct{}
	closeMu sync.Mutex
	closed  atomic.Bool

	limiter   *ratelimit.Limiter
	headCB    *circuitbreaker.CircuitBreaker[*types.Header]
	blockCB   *circuitbreaker.CircuitBreaker[*types.Block]
	receiptCB *circuitbreaker.CircuitBreaker[*types.Receipt]

	tracer  trace.Tracer
	metrics *clientMetrics
}

// NewClient creates a chain client. Call Connect before use.
func NewClient(cfg ClientConfig, log logger.LoggerInterface) (*Client, error) {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 12 * time.Second
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 16
	}
	if cfg.RPCPerMinute <= 0 {
		cfg.RPCPerMinute = 300
	}

	c := &Client{
		config:  cfg,
		logger:  log,
		state:   domain.StateDisconnected,
		heights: make(chan uint64, cfg.BufferSize),
		done:    make(chan struct{}),
		limiter: ratelimit.New(cfg.RPCPerMinute),
		tracer:  otel.Tracer(tracerName),
	}

	if err := c.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	c.initCircuitBreakers()

	return c, nil
}

// initMetrics initializes OTEL metric instruments.
func (c *Client) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	c.metrics = &clientMetrics{}

	c.metrics.heightsReceived, err = meter.Int64Counter(
		"eth_heights_received_total",
		metric.WithDescription("Total chain heights received"),
		metric.WithUnit("{block}"),
	)
	if err != nil {
		return err
	}

	c.metrics.subscribeErrors, err = meter.Int64Counter(
		"eth_subscribe_errors_total",
		metric.WithDescription("Total subscription errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	c.metrics.rpcErrors, err = meter.Int64Counter(
		"eth_rpc_errors_total",
		metric.WithDescription("Total failed RPC reads"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	c.metrics.connectionState, err = meter.Int64Gauge(
		"eth_connection_state",
		metric.WithDescription("Chain connection state (0=disconnected, 1=connecting, 2=connected, 3=reconnecting)"),
		metric.WithUnit("{state}"),
	)
	if err != nil {
		return err
	}

	c.metrics.httpFallbackUsed, err = meter.Int64Counter(
		"eth_http_fallback_total",
		metric.WithDescription("Times HTTP fallback was used"),
		metric.WithUnit("{fallback}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// initCircuitBreakers initializes per-read-path circuit breakers.
func (c *Client) initCircuitBreakers() {
	onChange := func(name string, from, to gobreaker.State) {
		c.logger.Info(context.Background(), "circuit breaker state change",
			"breaker", name, "from", from.String(), "to", to.String())
	}

	headCfg := circuitbreaker.DefaultConfig("eth-head")
	headCfg.OnStateChange = onChange
	c.headCB = circuitbreaker.New[*types.Header](headCfg)

	blockCfg := circuitbreaker.DefaultConfig("eth-block")
	blockCfg.OnStateChange = onChange
	c.blockCB = circuitbreaker.New[*types.Block](blockCfg)

	receiptCfg := circuitbreaker.DefaultConfig("eth-receipt")
	receiptCfg.OnStateChange = onChange
	c.receiptCB = circuitbreaker.New[*types.Receipt](receiptCfg)
}

// Connect dials the configured endpoints. At least one must succeed.
func (c *Client) Connect(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "eth.connect",
		trace.WithAttributes(
			attribute.String("ws_url", c.config.WSURL),
			attribute.String("http_url", c.config.HTTPURL),
		),
	)
	defer span.End()

	c.setState(domain.StateConnecting)

	var wsErr, httpErr error
	if c.config.WSURL != "" {
		wsErr = c.dialWS(ctx)
	} else {
		wsErr = errors.New("ws url not configured")
	}
	if c.config.HTTPURL != "" {
		httpErr = c.dialHTTP(ctx)
	} else {
		httpErr = errors.New("http url not configured")
	}

	if wsErr != nil && httpErr != nil {
		span.SetStatus(codes.Error, "both connections failed")
		c.setState(domain.StateDisconnected)
		return apperror.New(apperror.CodeEthereumConnectionFailed,
			apperror.WithCause(errors.Join(wsErr, httpErr)),
			apperror.WithContext("failed to connect via WS and HTTP"))
	}

	if wsErr != nil {
		c.logger.Warn(ctx, "ws connection failed, reads and feed use http", "error", wsErr)
		c.usingHTTP.Store(true)
	}

	c.setState(domain.StateConnected)
	span.SetStatus(codes.Ok, "connected")
	return nil
}

// dialWS establishes the WebSocket connection.
func (c *Client) dialWS(ctx context.Context) error {
	client, err := ethclient.DialContext(ctx, c.config.WSURL)
	if err != nil {
		return fmt.Errorf("dial ws: %w", err)
	}
	c.clientMu.Lock()
	c.wsClient = client
	c.clientMu.Unlock()
	return nil
}

// dialHTTP establishes the HTTP connection.
func (c *Client) dialHTTP(ctx context.Context) error {
	client, err := ethclient.DialContext(ctx, c.config.HTTPURL)
	if err != nil {
		return fmt.Errorf("dial http: %w", err)
	}
	c.clientMu.Lock()
	c.httpClient = client
	c.clientMu.Unlock()
	return nil
}

// backend returns the preferred client for read calls.
func (c *Client) backend() *ethclient.Client {
	c.clientMu.RLock()
	defer c.clientMu.RUnlock()
	if c.wsClient != nil && !c.usingHTTP.Load() {
		return c.wsClient
	}
	return c.httpClient
}

// Backend exposes the active go-ethereum client for adapters that need
// raw access, like the broadcaster and the name resolver.
func (c *Client) Backend() *ethclient.Client {
	return c.backend()
}

// BlockByNumber retrieves a block with its full transaction list.
func (c *Client) BlockByNumber(ctx context.Context, number *big.Int) (*types.Block, error) {
	ctx, span := c.tracer.Start(ctx, "eth.block_by_number",
		trace.WithAttributes(attribute.String("number", number.String())),
	)
	defer span.End()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	client := c.backend()
	if client == nil {
		return nil, apperror.New(apperror.CodeEthereumConnectionFailed,
			apperror.WithContext("no ethereum client connected"))
	}

	block, err := c.blockCB.Execute(func() (*types.Block, error) {
		return client.BlockByNumber(ctx, number)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		c.metrics.rpcErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("call", "block_by_number")))
		return nil, apperror.New(apperror.CodeBlockNotFound,
			apperror.WithCause(err),
			apperror.WithContext("failed to fetch block "+number.String()))
	}

	span.SetStatus(codes.Ok, "fetched")
	return block, nil
}

// TransactionReceipt retrieves the receipt for a mined transaction.
func (c *Client) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	ctx, span := c.tracer.Start(ctx, "eth.transaction_receipt",
		trace.WithAttributes(attribute.String("hash", txHash.Hex())),
	)
	defer span.End()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	client := c.backend()
	if client == nil {
		return nil, apperror.New(apperror.CodeEthereumConnectionFailed,
			apperror.WithContext("no ethereum client connected"))
	}

	receipt, err := c.receiptCB.Execute(func() (*types.Receipt, error) {
		return client.TransactionReceipt(ctx, txHash)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		c.metrics.rpcErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("call", "transaction_receipt")))
		return nil, apperror.New(apperror.CodeReceiptNotFound,
			apperror.WithCause(err),
			apperror.WithContext("failed to fetch receipt "+txHash.Hex()))
	}

	span.SetStatus(codes.Ok, "fetched")
	return receipt, nil
}

// ChainID returns the connected chain's id.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	client := c.backend()
	if client == nil {
		return nil, apperror.New(apperror.CodeEthereumConnectionFailed,
			apperror.WithContext("no ethereum client connected"))
	}
	id, err := client.ChainID(ctx)
	if err != nil {
		return nil, apperror.New(apperror.CodeEthereumRPCError,
			apperror.WithCause(err),
			apperror.WithContext("failed to get chain id"))
	}
	return id, nil
}

// State returns the current connection state.
func (c *Client) State() domain.ConnectionState {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

// Status returns detailed connection status.
func (c *Client) Status() domain.ConnectionStatus {
	return domain.ConnectionStatus{
		State:      c.State(),
		LastHeight: c.lastHeight.Load(),
		LastUpdate: time.Now(),
		Reconnects: int(c.reconnects.Load()),
		UsingHTTP:  c.usingHTTP.Load(),
	}
}

// Close gracefully closes the client and the height feed.
func (c *Client) Close() error {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()

	if c.closed.Load() {
		return nil
	}

	c.logger.Info(context.Background(), "closing ethereum client")

	c.closed.Store(true)
	close(c.done)

	c.clientMu.Lock()
	if c.wsClient != nil {
		c.wsClient.Close()
		c.wsClient = nil
	}
	if c.httpClient != nil {
		c.httpClient.Close()
		c.httpClient = nil
	}
	c.clientMu.Unlock()

	close(c.heights)
	c.setState(domain.StateDisconnected)

	return nil
}

// setState updates the connection state and records metrics.
func (c *Client) setState(state domain.ConnectionState) {
	c.stateMu.Lock()
	c.state = state
	c.stateMu.Unlock()

	stateValue := int64(0)
	switch state {
	case domain.StateDisconnected:
		stateValue = 0
	case domain.StateConnecting:
		stateValue = 1
	case domain.StateConnected:
		stateValue = 2
	case domain.StateReconnecting:
		stateValue = 3
	}

	c.metrics.connectionState.Record(context.Background(), stateValue)
}
