package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Data source kinds accepted in portfolio.dataSource.
const (
	DataSourceMock = "mock"
	DataSourceRPC  = "rpc"
)

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
	File  string `yaml:"file"`
}

// SolanaConfig holds the Solana JSON-RPC endpoint settings.
type SolanaConfig struct {
	RPCURL               string  `yaml:"rpcURL"`
	Cluster              string  `yaml:"cluster"` // label shown on the dashboard, e.g. "devnet"
	RequestTimeoutMillis int64   `yaml:"requestTimeoutMillis"`
	RateLimit            float64 `yaml:"rateLimit"` // requests per second, 0 disables limiting
	BurstLimit           int     `yaml:"burstLimit"`
	SignatureLimit       int     `yaml:"signatureLimit"`
}

// PortfolioConfig holds configuration for the portfolio aggregator.
type PortfolioConfig struct {
	DataSource         string `yaml:"dataSource"` // "mock" or "rpc"
	FetchTimeoutMillis int64  `yaml:"fetchTimeoutMillis"`
	RenderWaitMillis   int64  `yaml:"renderWaitMillis"`
	SessionTTLMinutes  int    `yaml:"sessionTTLMinutes"`
}

// ResolverConfig holds configuration for the address resolver memo.
type ResolverConfig struct {
	CacheTTLMinutes int `yaml:"cacheTTLMinutes"`
}

// CORSConfig holds configuration for the JSON API CORS policy.
type CORSConfig struct {
	AllowOrigins []string `yaml:"allowOrigins"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Solana    SolanaConfig    `yaml:"solana"`
	Portfolio PortfolioConfig `yaml:"portfolio"`
	Resolver  ResolverConfig  `yaml:"resolver"`
	CORS      CORSConfig      `yaml:"cors"`
}

// GetEnv returns the environment variable or fallback when it is unset or empty.
func GetEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// Load reads the YAML configuration file from the given path, applies
// environment overrides and fills in defaults.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	logrus.Info("Configuration loaded successfully.")
	return cfg, nil
}

// Parse unmarshals raw YAML, applies environment overrides, defaults, and validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Port = GetEnv("PORT", cfg.Server.Port)
	cfg.Logging.Level = GetEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.Solana.RPCURL = GetEnv("SOLANA_RPC_URL", cfg.Solana.RPCURL)
	cfg.Solana.Cluster = GetEnv("SOLANA_CLUSTER", cfg.Solana.Cluster)
	cfg.Portfolio.DataSource = GetEnv("PORTFOLIO_DATA_SOURCE", cfg.Portfolio.DataSource)
	if v := GetEnv("SOLANA_RATE_LIMIT", ""); v != "" {
		if rl, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Solana.RateLimit = rl
		} else {
			logrus.Warnf("Ignoring SOLANA_RATE_LIMIT=%q: %v", v, err)
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
		logrus.Infof("Server.Port not set, defaulting to %s", cfg.Server.Port)
	}
	cfg.Server.Port = strings.TrimPrefix(cfg.Server.Port, ":")
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 30
	}
	if cfg.Server.IdleTimeout <= 0 {
		cfg.Server.IdleTimeout = 60
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.Solana.RPCURL == "" {
		cfg.Solana.RPCURL = "https://api.devnet.solana.com"
		logrus.Infof("Solana.RPCURL not set, defaulting to %s", cfg.Solana.RPCURL)
	}
	if cfg.Solana.Cluster == "" {
		cfg.Solana.Cluster = "devnet"
	}
	if cfg.Solana.RequestTimeoutMillis <= 0 {
		cfg.Solana.RequestTimeoutMillis = 10000 // 10 seconds
		logrus.Infof("Solana.RequestTimeoutMillis not set, defaulting to %d ms", cfg.Solana.RequestTimeoutMillis)
	}
	if cfg.Solana.BurstLimit <= 0 {
		cfg.Solana.BurstLimit = 1
	}
	if cfg.Solana.SignatureLimit <= 0 {
		cfg.Solana.SignatureLimit = 10
	}

	if cfg.Portfolio.DataSource == "" {
		cfg.Portfolio.DataSource = DataSourceMock
		logrus.Infof("Portfolio.DataSource not set, defaulting to %s", cfg.Portfolio.DataSource)
	}
	cfg.Portfolio.DataSource = strings.ToLower(cfg.Portfolio.DataSource)
	if cfg.Portfolio.FetchTimeoutMillis <= 0 {
		cfg.Portfolio.FetchTimeoutMillis = cfg.Solana.RequestTimeoutMillis
	}
	if cfg.Portfolio.RenderWaitMillis <= 0 {
		cfg.Portfolio.RenderWaitMillis = 2000
	}
	if cfg.Portfolio.SessionTTLMinutes <= 0 {
		cfg.Portfolio.SessionTTLMinutes = 30
		logrus.Infof("Portfolio.SessionTTLMinutes not set, defaulting to %d minutes", cfg.Portfolio.SessionTTLMinutes)
	}

	if cfg.Resolver.CacheTTLMinutes <= 0 {
		cfg.Resolver.CacheTTLMinutes = 60 // 1 hour
	}
	if len(cfg.CORS.AllowOrigins) == 0 {
		cfg.CORS.AllowOrigins = []string{"*"}
	}
}

func validate(cfg *Config) error {
	switch cfg.Portfolio.DataSource {
	case DataSourceMock, DataSourceRPC:
	default:
		return fmt.Errorf("unknown portfolio.dataSource %q (want %q or %q)", cfg.Portfolio.DataSource, DataSourceMock, DataSourceRPC)
	}
	if cfg.Solana.RateLimit < 0 {
		return fmt.Errorf("solana.rateLimit must not be negative, got %v", cfg.Solana.RateLimit)
	}
	return nil
}
