package portfolio

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"portfolio_dashboard/internal/infrastructure/datasource"
	"portfolio_dashboard/internal/pkg/metrics"
)

func TestRegistry_GetReusesSession(t *testing.T) {
	m := metrics.NewNopMetrics()
	r := NewRegistry(datasource.NewMockSource(), zap.NewNop(), m, time.Minute)
	defer r.Close()

	a1 := r.Get(walletA)
	a2 := r.Get(walletA)
	b := r.Get(walletB)

	assert.Same(t, a1, a2)
	assert.NotSame(t, a1, b)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ActiveSessions))

	s := waitReady(t, a1)
	assert.Equal(t, walletA, s.Account)
	assert.Equal(t, StatusReady, s.Status())
}

func TestRegistry_DisconnectClosesSession(t *testing.T) {
	m := metrics.NewNopMetrics()
	r := NewRegistry(datasource.NewMockSource(), zap.NewNop(), m, time.Minute)
	defer r.Close()

	a := r.Get(walletA)
	r.Disconnect(walletA)

	_, found := r.Lookup(walletA)
	assert.False(t, found)
	assert.Equal(t, StatusDisconnected, a.Snapshot().Status())
	assert.Zero(t, testutil.ToFloat64(m.ActiveSessions))
}

func TestRegistry_ExpiredSessionReplaced(t *testing.T) {
	r := NewRegistry(datasource.NewMockSource(), zap.NewNop(), nil, 20*time.Millisecond)
	defer r.Close()

	old := r.Get(walletA)
	time.Sleep(40 * time.Millisecond)
	fresh := r.Get(walletA)

	assert.NotSame(t, old, fresh)
	assert.Eventually(t, func() bool {
		return old.Snapshot().Status() == StatusDisconnected
	}, time.Second, 5*time.Millisecond)
}

func TestRegistry_CloseEvictsAll(t *testing.T) {
	m := metrics.NewNopMetrics()
	r := NewRegistry(datasource.NewMockSource(), zap.NewNop(), m, time.Minute)

	a := r.Get(walletA)
	b := r.Get(walletB)
	r.Close()

	assert.Zero(t, r.Len())
	assert.Equal(t, StatusDisconnected, a.Snapshot().Status())
	assert.Equal(t, StatusDisconnected, b.Snapshot().Status())
	assert.Zero(t, testutil.ToFloat64(m.ActiveSessions))
}
