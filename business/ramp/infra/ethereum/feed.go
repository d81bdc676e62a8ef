package ethereum

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"go.opentelemetry.io/otel/codes"

	"github.com/fd1az/ramp-engine/business/ramp/domain"
)

// SubscribeHeights starts the height feed and returns its channel.
// WebSocket new-head subscription is the primary source; when it is
// unavailable or drops, the feed switches to HTTP polling.
func (c *Client) SubscribeHeights(ctx context.Context) (<-chan uint64, error) {
	ctx, span := c.tracer.Start(ctx, "eth.subscribe_heights")
	defer span.End()

	if c.closed.Load() {
		err := errors.New("client is closed")
		span.RecordError(err)
		return nil, err
	}

	c.clientMu.RLock()
	hasWS := c.wsClient != nil
	hasHTTP := c.httpClient != nil
	c.clientMu.RUnlock()

	if !hasWS && !hasHTTP {
		return nil, errors.New("not connected, call Connect first")
	}

	if hasWS && !c.usingHTTP.Load() {
		go c.runWSSubscription(ctx)
	} else {
		c.usingHTTP.Store(true)
		go c.runHTTPPoller(ctx)
	}

	span.SetStatus(codes.Ok, "subscribed")
	return c.heights, nil
}

// runWSSubscription runs the WebSocket new-head loop.
func (c *Client) runWSSubscription(ctx context.Context) {
	headers := make(chan *types.Header, c.config.BufferSize)

	c.clientMu.RLock()
	client := c.wsClient
	c.clientMu.RUnlock()

	if client == nil {
		c.handleWSDisconnect(ctx)
		return
	}

	sub, err := client.SubscribeNewHead(ctx, headers)
	if err != nil {
		c.logger.Error(ctx, "subscribe new head failed", "error", err)
		c.metrics.subscribeErrors.Add(ctx, 1)
		c.handleWSDisconnect(ctx)
		return
	}

	c.logger.Info(ctx, "subscribed to new heads via ws")

	c.processWSHeaders(ctx, headers, sub)

	sub.Unsubscribe()
	c.handleWSDisconnect(ctx)
}

// processWSHeaders forwards incoming headers until the subscription errors.
func (c *Client) processWSHeaders(ctx context.Context, headers <-chan *types.Header, sub interface{ Err() <-chan error }) {
	for {
		select {
		case <-c.done:
			return
		case <-ctx.Done():
			return
		case err := <-sub.Err():
			if err != nil {
				c.logger.Error(ctx, "subscription error", "error", err)
				c.metrics.subscribeErrors.Add(ctx, 1)
			}
			return
		case header := <-headers:
			if header == nil {
				continue
			}
			c.emitHeight(ctx, header.Number.Uint64())
		}
	}
}

// handleWSDisconnect retries the WebSocket, falling back to polling.
func (c *Client) handleWSDisconnect(ctx context.Context) {
	if c.closed.Load() || ctx.Err() != nil {
		return
	}

	c.setState(domain.StateReconnecting)
	c.reconnects.Add(1)

	time.Sleep(c.config.ReconnectDelay)

	if c.closed.Load() || ctx.Err() != nil {
		return
	}

	if err := c.dialWS(ctx); err != nil {
		c.logger.Warn(ctx, "ws reconnect failed, switching to http polling", "error", err)

		c.clientMu.RLock()
		hasHTTP := c.httpClient != nil
		c.clientMu.RUnlock()

		if !hasHTTP {
			if err := c.dialHTTP(ctx); err != nil {
				c.logger.Error(ctx, "http fallback connection failed", "error", err)
				c.setState(domain.StateDisconnected)
				return
			}
		}

		c.usingHTTP.Store(true)
		c.metrics.httpFallbackUsed.Add(ctx, 1)
		c.setState(domain.StateConnected)
		go c.runHTTPPoller(ctx)
		return
	}

	c.usingHTTP.Store(false)
	c.setState(domain.StateConnected)
	go c.runWSSubscription(ctx)
}

// runHTTPPoller polls the chain head on an interval.
func (c *Client) runHTTPPoller(ctx context.Context) {
	ticker := time.NewTicker(c.config.PollInterval)
	defer ticker.Stop()

	c.logger.Info(ctx, "starting http polling height feed", "interval", c.config.PollInterval)

	for {
		select {
		case <-c.done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.pollHead(ctx)
		}
	}
}

// pollHead fetches the latest header and emits its height once.
func (c *Client) pollHead(ctx context.Context) {
	c.clientMu.RLock()
	client := c.httpClient
	c.clientMu.RUnlock()

	if client == nil {
		return
	}

	header, err := c.headCB.Execute(func() (*types.Header, error) {
		return client.HeaderByNumber(ctx, nil) // nil = latest
	})
	if err != nil {
		c.logger.Error(ctx, "http head poll failed", "error", err)
		c.metrics.subscribeErrors.Add(ctx, 1)
		return
	}

	height := header.Number.Uint64()
	if height <= c.lastHeight.Load() {
		return
	}

	c.emitHeight(ctx, height)
}

// emitHeight publishes a height without blocking the feed.
func (c *Client) emitHeight(ctx context.Context, height uint64) {
	c.lastHeight.Store(height)

	select {
	case c.heights <- height:
		c.metrics.heightsReceived.Add(ctx, 1)
		c.logger.Debug(ctx, "height received", "height", height)
	default:
		c.logger.Warn(ctx, "height dropped, buffer full", "height", height)
	}
}
