package datasource

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"portfolio_dashboard/internal/app/port"
	"portfolio_dashboard/internal/infrastructure/configloader"
	"portfolio_dashboard/internal/infrastructure/solanarpc"
	"portfolio_dashboard/internal/pkg/metrics"
)

// Source serves both the dashboard and the account page.
type Source interface {
	port.PortfolioSource
	port.AccountReader
}

// FromConfig builds the data source selected by cfg.Portfolio.DataSource.
func FromConfig(cfg *configloader.Config, logger *zap.Logger, m *metrics.Metrics) (Source, error) {
	switch cfg.Portfolio.DataSource {
	case configloader.DataSourceMock:
		logger.Info("Using mock portfolio data source")
		return NewMockSource(), nil
	case configloader.DataSourceRPC:
		opts := []solanarpc.ClientOption{
			solanarpc.WithTimeout(time.Duration(cfg.Solana.RequestTimeoutMillis) * time.Millisecond),
			solanarpc.WithRateLimit(cfg.Solana.RateLimit, cfg.Solana.BurstLimit),
			solanarpc.WithLogger(logger),
		}
		if m != nil {
			opts = append(opts, solanarpc.WithCallObserver(func(method string, d time.Duration) {
				m.RPCCallDuration.WithLabelValues(method).Observe(d.Seconds())
			}))
		}
		client := solanarpc.NewClient(cfg.Solana.RPCURL, opts...)
		logger.Info("Using Solana RPC data source",
			zap.String("rpcURL", cfg.Solana.RPCURL),
			zap.String("cluster", cfg.Solana.Cluster))
		return NewRPCSource(client, logger), nil
	default:
		return nil, fmt.Errorf("unknown portfolio data source %q", cfg.Portfolio.DataSource)
	}
}
