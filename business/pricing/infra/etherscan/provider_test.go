package etherscan

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

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultProviderConfig("TESTKEY")
	cfg.BaseURL = server.URL

	p, err := NewProvider(cfg, &mockLogger{})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	return p
}

func TestProvider_FetchUSDPrice(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("module") != "stats" || q.Get("action") != "ethprice" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		if q.Get("apikey") != "TESTKEY" {
			t.Errorf("api key not forwarded, got %q", q.Get("apikey"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"1","message":"OK","result":{"ethbtc":"0.05","ethusd":"1850.42","ethusd_timestamp":"1717243200"}}`))
	})

	rate, err := p.FetchUSDPrice(context.Background())
	if err != nil {
		t.Fatalf("FetchUSDPrice: %v", err)
	}
	if !rate.Equal(decimal.RequireFromString("1850.42")) {
		t.Fatalf("got rate %s, want 1850.42", rate)
	}
}

func TestProvider_FetchUSDPriceErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"in-band error status", `{"status":"0","message":"NOTOK","result":"Max rate limit reached"}`},
		{"missing ethusd", `{"status":"1","message":"OK","result":{"ethbtc":"0.05"}}`},
		{"non-numeric ethusd", `{"status":"1","message":"OK","result":{"ethusd":"not-a-number"}}`},
		{"zero ethusd", `{"status":"1","message":"OK","result":{"ethusd":"0"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			})

			if _, err := p.FetchUSDPrice(context.Background()); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestNewProvider_RequiresAPIKey(t *testing.T) {
	if _, err := NewProvider(DefaultProviderConfig(""), &mockLogger{}); err == nil {
		t.Fatal("expected error for missing API key")
	}
}
