package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fd1az/ramp-engine/internal/logger"
)

// mockLogger implements logger.LoggerInterface for testing.
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, args ...any)              {}
func (m *mockLogger) Info(ctx context.Context, msg string, args ...any)               {}
func (m *mockLogger) Warn(ctx context.Context, msg string, args ...any)               {}
func (m *mockLogger) Error(ctx context.Context, msg string, args ...any)              {}
func (m *mockLogger) Debugc(ctx context.Context, caller int, msg string, args ...any) {}
func (m *mockLogger) Infoc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Warnc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Errorc(ctx context.Context, caller int, msg string, args ...any) {}

var _ logger.LoggerInterface = (*mockLogger)(nil)

func newTestProvider(t *testing.T, body string) *Provider {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/simple/price" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	cfg := DefaultProviderConfig()
	cfg.BaseURL = server.URL

	p, err := NewProvider(cfg, &mockLogger{})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	return p
}

func TestProvider_FetchUSDPrice(t *testing.T) {
	p := newTestProvider(t, `{"ethereum":{"usd":1912.34}}`)

	rate, err := p.FetchUSDPrice(context.Background())
	if err != nil {
		t.Fatalf("FetchUSDPrice: %v", err)
	}
	if !rate.Equal(decimal.RequireFromString("1912.34")) {
		t.Fatalf("got rate %s, want 1912.34", rate)
	}
}

func TestProvider_MissingCoinEntry(t *testing.T) {
	p := newTestProvider(t, `{}`)

	if _, err := p.FetchUSDPrice(context.Background()); err == nil {
		t.Fatal("expected error for missing ethereum entry")
	}
}
