// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Ethereum  EthereumConfig  `mapstructure:"ethereum"`
	Pricing   PricingConfig   `mapstructure:"pricing"`
	Ramp      RampConfig      `mapstructure:"ramp"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// EthereumConfig holds Ethereum node configuration.
type EthereumConfig struct {
	WebSocketURL   string        `mapstructure:"websocket_url"`
	HTTPURL        string        `mapstructure:"http_url"`
	ChainID        uint64        `mapstructure:"chain_id"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	ReconnectDelay time.Duration `mapstructure:"reconnect_delay"`
	RPCPerMinute   int           `mapstructure:"rpc_per_minute"`
}

// PricingConfig holds reference price source configuration.
type PricingConfig struct {
	EtherscanURL      string        `mapstructure:"etherscan_url"`
	EtherscanAPIKey   string        `mapstructure:"etherscan_api_key"`
	CoinGeckoURL      string        `mapstructure:"coingecko_url"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
	FallbackPrice     float64       `mapstructure:"fallback_price"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
}

// FallbackPriceDecimal returns the hardcoded fallback price as a decimal.
func (c *PricingConfig) FallbackPriceDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.FallbackPrice)
}

// RampConfig holds ramp flow configuration.
type RampConfig struct {
	ReceiveAddress string  `mapstructure:"receive_address"`
	MinUSDAmount   float64 `mapstructure:"min_usd_amount"`
	MaxUSDAmount   float64 `mapstructure:"max_usd_amount"`
	ScanLookback   uint64  `mapstructure:"scan_lookback"`
	HealthPort     int     `mapstructure:"health_port"`
	ENSRegistry    string  `mapstructure:"ens_registry"`
	EnableENS      bool    `mapstructure:"enable_ens"`
	ReceiptBuffer  int     `mapstructure:"receipt_buffer"`
}

// ReceiveAddressHex returns the configured receiving address, if any.
func (c *RampConfig) ReceiveAddressHex() (common.Address, bool) {
	if !common.IsHexAddress(c.ReceiveAddress) {
		return common.Address{}, false
	}
	return common.HexToAddress(c.ReceiveAddress), true
}

// MinUSDDecimal returns the minimum fiat amount as a decimal.
func (c *RampConfig) MinUSDDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MinUSDAmount)
}

// MaxUSDDecimal returns the maximum fiat amount as a decimal.
func (c *RampConfig) MaxUSDDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MaxUSDAmount)
}

// ENSRegistryHex returns the ENS registry address as common.Address.
func (c *RampConfig) ENSRegistryHex() common.Address {
	return common.HexToAddress(c.ENSRegistry)
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("RAMP")
	v.AutomaticEnv()

	// Bind env vars to config keys
	bindEnvVars(v)

	// Set defaults
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "RAMP_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "RAMP_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "RAMP_LOG_LEVEL", "LOG_LEVEL")

	// Ethereum
	v.BindEnv("ethereum.websocket_url", "RAMP_ETH_WS_URL", "ETH_WS_URL")
	v.BindEnv("ethereum.http_url", "RAMP_ETH_HTTP_URL", "ETH_HTTP_URL")
	v.BindEnv("ethereum.chain_id", "RAMP_ETH_CHAIN_ID", "ETH_CHAIN_ID")

	// Pricing
	v.BindEnv("pricing.etherscan_api_key", "RAMP_ETHERSCAN_API_KEY", "ETHERSCAN_API_KEY")
	v.BindEnv("pricing.etherscan_url", "RAMP_ETHERSCAN_URL")
	v.BindEnv("pricing.coingecko_url", "RAMP_COINGECKO_URL")

	// Ramp
	v.BindEnv("ramp.receive_address", "RAMP_RECEIVE_ADDRESS", "RECEIVE_ADDRESS")
	v.BindEnv("ramp.min_usd_amount", "RAMP_MIN_USD")
	v.BindEnv("ramp.max_usd_amount", "RAMP_MAX_USD")
	v.BindEnv("ramp.scan_lookback", "RAMP_SCAN_LOOKBACK")

	// Telemetry
	v.BindEnv("telemetry.enabled", "RAMP_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "RAMP_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "RAMP_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "ramp-engine")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Ethereum defaults
	v.SetDefault("ethereum.chain_id", 1)
	v.SetDefault("ethereum.poll_interval", "12s") // ~1 block time
	v.SetDefault("ethereum.reconnect_delay", "5s")
	v.SetDefault("ethereum.rpc_per_minute", 300)

	// Pricing defaults
	v.SetDefault("pricing.etherscan_url", "https://api.etherscan.io")
	v.SetDefault("pricing.coingecko_url", "https://api.coingecko.com")
	v.SetDefault("pricing.cache_ttl", "60s")
	v.SetDefault("pricing.fallback_price", 2000)
	v.SetDefault("pricing.requests_per_minute", 30)

	// Ramp defaults
	v.SetDefault("ramp.min_usd_amount", 1)
	v.SetDefault("ramp.max_usd_amount", 1_000_000)
	v.SetDefault("ramp.scan_lookback", 5)
	v.SetDefault("ramp.health_port", 8081)
	// Mainnet ENS registry
	v.SetDefault("ramp.ens_registry", "0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e")
	v.SetDefault("ramp.enable_ens", true)
	v.SetDefault("ramp.receipt_buffer", 16)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "ramp-engine")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Ethereum.WebSocketURL == "" && c.Ethereum.HTTPURL == "" {
		return fmt.Errorf("at least one of ethereum.websocket_url or ethereum.http_url is required")
	}
	if c.Pricing.CacheTTL <= 0 {
		return fmt.Errorf("pricing.cache_ttl must be positive")
	}
	if c.Pricing.FallbackPrice <= 0 {
		return fmt.Errorf("pricing.fallback_price must be positive")
	}
	if c.Ramp.MinUSDAmount <= 0 || c.Ramp.MaxUSDAmount <= c.Ramp.MinUSDAmount {
		return fmt.Errorf("ramp amount bounds are inconsistent: min=%v max=%v",
			c.Ramp.MinUSDAmount, c.Ramp.MaxUSDAmount)
	}
	if c.Ramp.ReceiveAddress != "" && !common.IsHexAddress(c.Ramp.ReceiveAddress) {
		return fmt.Errorf("invalid ramp.receive_address: %s", c.Ramp.ReceiveAddress)
	}
	if c.Ramp.EnableENS && !common.IsHexAddress(c.Ramp.ENSRegistry) {
		return fmt.Errorf("invalid ramp.ens_registry: %s", c.Ramp.ENSRegistry)
	}
	return nil
}
