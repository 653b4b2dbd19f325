package portfolio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio_dashboard/internal/domain/entity"
	"portfolio_dashboard/internal/infrastructure/datasource"
)

const (
	walletA = entity.Account("9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM")
	walletB = entity.Account("4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T")
)

func TestReduce_InitialStateIsDisconnected(t *testing.T) {
	s := InitialState()
	assert.Equal(t, StatusDisconnected, s.Status())
	assert.False(t, s.Loading)
	assert.Empty(t, s.Error)
	assert.NotNil(t, s.Data.Tokens)
}

func TestReduce_ConnectStartsLoading(t *testing.T) {
	s := Reduce(InitialState(), Connected{Account: walletA})

	assert.Equal(t, StatusLoading, s.Status())
	assert.Equal(t, walletA, s.Account)
	assert.Equal(t, uint64(1), s.Generation)
}

func TestReduce_ConnectSameAccountIsNoop(t *testing.T) {
	s := Reduce(InitialState(), Connected{Account: walletA})
	s = Reduce(s, FetchSucceeded{Generation: s.Generation, Snapshot: datasource.MockSnapshot()})

	next := Reduce(s, Connected{Account: walletA})
	assert.Equal(t, s, next)
}

func TestReduce_ConnectEmptyAccountDisconnects(t *testing.T) {
	s := Reduce(InitialState(), Connected{Account: walletA})
	s = Reduce(s, Connected{Account: ""})

	assert.Equal(t, StatusDisconnected, s.Status())
	assert.Equal(t, uint64(2), s.Generation)
}

func TestReduce_AccountChangeResetsData(t *testing.T) {
	s := Reduce(InitialState(), Connected{Account: walletA})
	s = Reduce(s, FetchSucceeded{Generation: s.Generation, Snapshot: datasource.MockSnapshot()})
	require.Len(t, s.Data.Tokens, 2)

	s = Reduce(s, Connected{Account: walletB})
	assert.Equal(t, StatusLoading, s.Status())
	assert.Equal(t, walletB, s.Account)
	assert.Empty(t, s.Data.Tokens)
	assert.Zero(t, s.Data.Balance)
}

func TestReduce_FetchSucceeded_MockScenario(t *testing.T) {
	s := Reduce(InitialState(), Connected{Account: walletA})
	s = Reduce(s, FetchSucceeded{Generation: s.Generation, Snapshot: datasource.MockSnapshot()})

	assert.Equal(t, StatusReady, s.Status())
	assert.Equal(t, int64(2_500_000_000), s.Data.Balance)
	assert.Len(t, s.Data.Tokens, 2)
	assert.Equal(t, 501_000_000.0, s.Data.TotalValue)
}

func TestReduce_FetchFailedRetainsPriorData(t *testing.T) {
	s := Reduce(InitialState(), Connected{Account: walletA})
	s = Reduce(s, FetchSucceeded{Generation: s.Generation, Snapshot: datasource.MockSnapshot()})
	prior := s.Data

	s = Reduce(s, RefreshRequested{})
	s = Reduce(s, FetchFailed{Generation: s.Generation})

	assert.Equal(t, StatusError, s.Status())
	assert.Equal(t, ErrorMessage, s.Error)
	assert.False(t, s.Loading)
	assert.Equal(t, prior, s.Data)
}

func TestReduce_ErrorBannerKeptWhileReloading(t *testing.T) {
	s := Reduce(InitialState(), Connected{Account: walletA})
	s = Reduce(s, FetchFailed{Generation: s.Generation, Message: "boom"})
	s = Reduce(s, RefreshRequested{})

	assert.Equal(t, StatusLoading, s.Status())
	assert.Equal(t, "boom", s.Error)

	s = Reduce(s, FetchSucceeded{Generation: s.Generation, Snapshot: datasource.MockSnapshot()})
	assert.Equal(t, StatusReady, s.Status())
	assert.Empty(t, s.Error)
}

func TestReduce_RefreshWithoutAccountIsNoop(t *testing.T) {
	s := InitialState()
	assert.Equal(t, s, Reduce(s, RefreshRequested{}))
}

func TestReduce_StaleResultsDropped(t *testing.T) {
	s := Reduce(InitialState(), Connected{Account: walletA})
	first := s.Generation
	s = Reduce(s, RefreshRequested{})

	// The response to the first request arrives after the second was issued.
	stale := Reduce(s, FetchSucceeded{Generation: first, Snapshot: datasource.MockSnapshot()})
	assert.Equal(t, s, stale)

	stale = Reduce(s, FetchFailed{Generation: first})
	assert.Equal(t, s, stale)
}

func TestReduce_ResultAfterDisconnectDropped(t *testing.T) {
	s := Reduce(InitialState(), Connected{Account: walletA})
	gen := s.Generation
	s = Reduce(s, Disconnected{})

	next := Reduce(s, FetchSucceeded{Generation: gen, Snapshot: datasource.MockSnapshot()})
	assert.Equal(t, StatusDisconnected, next.Status())
	assert.Empty(t, next.Data.Tokens)
}

func TestReduce_DoesNotAliasSnapshot(t *testing.T) {
	snap := datasource.MockSnapshot()
	s := Reduce(InitialState(), Connected{Account: walletA})
	s = Reduce(s, FetchSucceeded{Generation: s.Generation, Snapshot: snap})

	snap.Tokens[0].Amount = "0"
	*snap.Tokens[1].Symbol = "XXX"
	assert.Equal(t, "1000000", s.Data.Tokens[0].Amount)
	assert.Equal(t, "USDT", s.Data.Tokens[1].SymbolOr(""))
}

func TestComputeTotalValue(t *testing.T) {
	tests := []struct {
		name   string
		tokens []entity.TokenInfo
		want   float64
	}{
		{name: "empty", tokens: nil, want: 0},
		{
			name: "ignores decimals",
			tokens: []entity.TokenInfo{
				{Amount: "1000000", Decimals: 6},
				{Amount: "42", Decimals: 0},
				{Amount: "7", Decimals: 9},
			},
			want: 1_000_049,
		},
		{
			name: "fractional amounts",
			tokens: []entity.TokenInfo{
				{Amount: "1.5"},
				{Amount: "2.25"},
			},
			want: 3.75,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeTotalValue(tt.tokens))
		})
	}
}

func TestComputeTotalValue_UnparseableAmountPoisonsSum(t *testing.T) {
	total := ComputeTotalValue([]entity.TokenInfo{{Amount: "100"}, {Amount: "abc"}})
	assert.True(t, math.IsNaN(total), "expected NaN, got %v", total)
}
