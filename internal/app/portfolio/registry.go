package portfolio

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"portfolio_dashboard/internal/app/port"
	"portfolio_dashboard/internal/domain/entity"
	"portfolio_dashboard/internal/pkg/metrics"
)

// Registry keeps one Aggregator per account for the HTTP server.
// Sessions idle for longer than the TTL are evicted and closed.
type Registry struct {
	source  port.PortfolioSource
	base    *zap.Logger
	logger  *zap.Logger
	metrics *metrics.Metrics
	opts    []Option
	ttl     time.Duration

	mu       sync.Mutex
	sessions *cache.Cache
}

// NewRegistry creates a registry whose aggregators read from source.
func NewRegistry(source port.PortfolioSource, logger *zap.Logger, m *metrics.Metrics, ttl time.Duration, opts ...Option) *Registry {
	if m == nil {
		m = metrics.NewNopMetrics()
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	r := &Registry{
		source:   source,
		base:     logger,
		logger:   logger.Named("PortfolioRegistry"),
		metrics:  m,
		opts:     opts,
		ttl:      ttl,
		sessions: cache.New(ttl, ttl/2),
	}
	r.sessions.OnEvicted(func(key string, value interface{}) {
		if agg, ok := value.(*Aggregator); ok {
			agg.Close()
		}
		r.metrics.ActiveSessions.Dec()
		r.logger.Debug("Portfolio session closed", zap.String("account", key))
	})
	return r
}

// Get returns the aggregator for account, creating and connecting one if
// needed. Every call extends the session's idle deadline.
func (r *Registry) Get(account entity.Account) *Aggregator {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := account.String()
	if v, found := r.sessions.Get(key); found {
		agg := v.(*Aggregator)
		r.sessions.SetDefault(key, agg)
		return agg
	}

	// Expired entries are still stored until the janitor runs; evict them
	// first so their aggregators get closed.
	r.sessions.DeleteExpired()

	agg := NewAggregator(r.source, r.base, r.metrics, r.opts...)
	agg.Connect(account)
	r.sessions.SetDefault(key, agg)
	r.metrics.ActiveSessions.Inc()
	r.logger.Debug("Portfolio session opened", zap.String("account", key))
	return agg
}

// Lookup returns the aggregator for account without creating one.
func (r *Registry) Lookup(account entity.Account) (*Aggregator, bool) {
	v, found := r.sessions.Get(account.String())
	if !found {
		return nil, false
	}
	return v.(*Aggregator), true
}

// Disconnect closes and forgets the session for account.
func (r *Registry) Disconnect(account entity.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions.Delete(account.String())
}

// Len reports the number of stored sessions, including expired ones not yet evicted.
func (r *Registry) Len() int {
	return r.sessions.ItemCount()
}

// Close evicts every session.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.sessions.Items() {
		r.sessions.Delete(key)
	}
	r.sessions.DeleteExpired()
}
