package portfolio

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"portfolio_dashboard/internal/app/port"
	"portfolio_dashboard/internal/domain/entity"
	"portfolio_dashboard/internal/pkg/metrics"
)

const defaultFetchTimeout = 10 * time.Second

// Aggregator is the portfolio view-model object. It owns a State, feeds
// events through Reduce and runs data source fetches in the background.
// All methods are safe for concurrent use.
type Aggregator struct {
	source       port.PortfolioSource
	logger       *zap.Logger
	metrics      *metrics.Metrics
	fetchTimeout time.Duration

	baseCtx    context.Context
	baseCancel context.CancelFunc

	mu          sync.Mutex
	state       State
	cancelFetch context.CancelFunc
	changed     chan struct{} // closed and replaced on every state change
	closed      bool
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithFetchTimeout bounds each data source call.
func WithFetchTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.fetchTimeout = d
		}
	}
}

// NewAggregator creates a disconnected aggregator over source.
func NewAggregator(source port.PortfolioSource, logger *zap.Logger, m *metrics.Metrics, opts ...Option) *Aggregator {
	if m == nil {
		m = metrics.NewNopMetrics()
	}
	ctx, cancel := context.WithCancel(context.Background())
	a := &Aggregator{
		source:       source,
		logger:       logger.Named("PortfolioAggregator"),
		metrics:      m,
		fetchTimeout: defaultFetchTimeout,
		baseCtx:      ctx,
		baseCancel:   cancel,
		state:        InitialState(),
		changed:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Connect sets the connected account. A new account starts a fetch;
// connecting the current account again does nothing.
func (a *Aggregator) Connect(account entity.Account) {
	a.dispatch(Connected{Account: account})
}

// Disconnect clears the account and discards any in-flight fetch.
func (a *Aggregator) Disconnect() {
	a.dispatch(Disconnected{})
}

// Refresh re-enters Loading and fetches again. Without an account it is a no-op.
// A fetch still in flight is canceled and its result ignored.
func (a *Aggregator) Refresh() {
	a.dispatch(RefreshRequested{})
}

// Snapshot returns a copy of the current state.
func (a *Aggregator) Snapshot() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.Clone()
}

// Wait blocks until the aggregator is not loading, the aggregator is closed
// or ctx is done, and returns the state at that point.
func (a *Aggregator) Wait(ctx context.Context) (State, error) {
	for {
		a.mu.Lock()
		if !a.state.Loading || a.closed {
			s := a.state.Clone()
			a.mu.Unlock()
			return s, nil
		}
		ch := a.changed
		a.mu.Unlock()

		select {
		case <-ctx.Done():
			return a.Snapshot(), ctx.Err()
		case <-ch:
		}
	}
}

// Close tears the aggregator down. In-flight fetches are canceled and their
// results dropped; later calls to Connect or Refresh are ignored.
func (a *Aggregator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	a.state = Reduce(a.state, Disconnected{})
	a.stopFetchLocked()
	a.baseCancel()
	a.notifyLocked()
}

// dispatch reduces e into the state and starts a fetch when the transition asks for one.
func (a *Aggregator) dispatch(e Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}

	prev := a.state
	a.state = Reduce(prev, e)
	if a.state.Generation != prev.Generation {
		a.stopFetchLocked()
		if a.state.Loading {
			a.startFetchLocked(a.state.Generation, a.state.Account)
		}
	}
	a.notifyLocked()
}

// complete applies a fetch result unless a newer request superseded it.
func (a *Aggregator) complete(e Event, generation uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || IsStale(a.state, generation) {
		a.metrics.StaleResponsesDropped.Inc()
		a.logger.Debug("Dropping stale portfolio response", zap.Uint64("generation", generation))
		return
	}
	a.state = Reduce(a.state, e)
	a.cancelFetch = nil
	a.notifyLocked()
}

func (a *Aggregator) startFetchLocked(generation uint64, account entity.Account) {
	ctx, cancel := context.WithTimeout(a.baseCtx, a.fetchTimeout)
	a.cancelFetch = cancel
	go a.fetch(ctx, cancel, generation, account)
}

func (a *Aggregator) stopFetchLocked() {
	if a.cancelFetch != nil {
		a.cancelFetch()
		a.cancelFetch = nil
	}
}

func (a *Aggregator) notifyLocked() {
	close(a.changed)
	a.changed = make(chan struct{})
}

func (a *Aggregator) fetch(ctx context.Context, cancel context.CancelFunc, generation uint64, account entity.Account) {
	defer cancel()

	start := time.Now()
	snapshot, err := a.source.FetchPortfolio(ctx, account)
	a.metrics.PortfolioFetchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		a.metrics.PortfolioFetches.WithLabelValues("error").Inc()
		a.logger.Error("Portfolio fetch error",
			zap.String("account", account.String()),
			zap.Uint64("generation", generation),
			zap.Error(err))
		a.complete(FetchFailed{Generation: generation, Message: ErrorMessage}, generation)
		return
	}

	a.metrics.PortfolioFetches.WithLabelValues("success").Inc()
	a.logger.Debug("Portfolio fetched",
		zap.String("account", account.String()),
		zap.Uint64("generation", generation),
		zap.Int("tokenCount", len(snapshot.Tokens)))
	a.complete(FetchSucceeded{Generation: generation, Snapshot: snapshot}, generation)
}
