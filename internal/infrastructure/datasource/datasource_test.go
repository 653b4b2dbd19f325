package datasource

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"portfolio_dashboard/internal/domain/entity"
	"portfolio_dashboard/internal/infrastructure/solanarpc"
)

// stubRPC implements rpcClient for testing.
type stubRPC struct {
	balance    uint64
	accounts   map[string][]solanarpc.TokenAccount // by program ID
	signatures []solanarpc.SignatureInfo
	balanceErr error
	tokensErr  error
}

func (s *stubRPC) GetBalance(_ context.Context, _ string) (uint64, error) {
	return s.balance, s.balanceErr
}

func (s *stubRPC) GetTokenAccountsByOwner(_ context.Context, _ string, programID string) ([]solanarpc.TokenAccount, error) {
	if s.tokensErr != nil {
		return nil, s.tokensErr
	}
	return s.accounts[programID], nil
}

func (s *stubRPC) GetSignaturesForAddress(_ context.Context, _ string, limit int) ([]solanarpc.SignatureInfo, error) {
	if limit > 0 && limit < len(s.signatures) {
		return s.signatures[:limit], nil
	}
	return s.signatures, nil
}

const wallet = entity.Account("9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM")

func TestMockSource_FetchPortfolio(t *testing.T) {
	snap, err := NewMockSource().FetchPortfolio(context.Background(), wallet)
	require.NoError(t, err)

	assert.Equal(t, int64(2_500_000_000), snap.Balance)
	require.Len(t, snap.Tokens, 2)
	assert.Equal(t, USDCMint, snap.Tokens[0].Mint)
	assert.Equal(t, "1000000", snap.Tokens[0].Amount)
	assert.Equal(t, "USDC", snap.Tokens[0].SymbolOr(""))
	assert.Equal(t, USDTMint, snap.Tokens[1].Mint)
	assert.Equal(t, "500000000", snap.Tokens[1].Amount)
}

func TestMockSource_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMockSource().FetchPortfolio(ctx, wallet)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRPCSource_FetchPortfolio(t *testing.T) {
	rpc := &stubRPC{
		balance: 1_500_000_000,
		accounts: map[string][]solanarpc.TokenAccount{
			solanarpc.TokenProgramID: {
				{Pubkey: "ata1", Mint: USDCMint, Amount: "42", Decimals: 6},
				{Pubkey: "ata2", Mint: "UnknownMint1111111111111111111111111111111", Amount: "7", Decimals: 0},
			},
			solanarpc.Token2022ProgramID: {
				{Pubkey: "ata3", Mint: USDTMint, Amount: "3", Decimals: 6},
			},
		},
	}
	src := NewRPCSource(rpc, zap.NewNop())

	snap, err := src.FetchPortfolio(context.Background(), wallet)
	require.NoError(t, err)
	assert.Equal(t, int64(1_500_000_000), snap.Balance)
	require.Len(t, snap.Tokens, 3)
	assert.Equal(t, "USDC", snap.Tokens[0].SymbolOr(""))
	assert.Nil(t, snap.Tokens[1].Symbol)
	assert.Equal(t, "USDT", snap.Tokens[2].SymbolOr(""))
}

func TestRPCSource_FetchPortfolio_Failure(t *testing.T) {
	src := NewRPCSource(&stubRPC{tokensErr: errors.New("node unavailable")}, zap.NewNop())

	_, err := src.FetchPortfolio(context.Background(), wallet)
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrDataSourceFailure)
	assert.Contains(t, err.Error(), "node unavailable")
}

func TestRPCSource_AccountReader(t *testing.T) {
	bt := int64(1700000000)
	rpc := &stubRPC{
		balance: 10,
		accounts: map[string][]solanarpc.TokenAccount{
			solanarpc.TokenProgramID: {{Pubkey: "ata1", Mint: USDCMint, Amount: "1", Decimals: 6}},
		},
		signatures: []solanarpc.SignatureInfo{
			{Signature: "s1", Slot: 3, BlockTime: &bt},
			{Signature: "s2", Slot: 2, Err: map[string]interface{}{"InstructionError": 1}},
			{Signature: "s3", Slot: 1},
		},
	}
	src := NewRPCSource(rpc, zap.NewNop())
	addr := entity.Address(wallet)

	bal, err := src.GetBalance(context.Background(), addr)
	require.NoError(t, err)
	assert.Equal(t, int64(10), bal)

	accounts, err := src.GetTokenAccounts(context.Background(), addr)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "ata1", accounts[0].Pubkey)

	sigs, err := src.GetSignatures(context.Background(), addr, 2)
	require.NoError(t, err)
	require.Len(t, sigs, 2)
	assert.False(t, sigs[0].Failed())
	assert.True(t, sigs[1].Failed())
}

func TestRPCSource_GetBalance_Failure(t *testing.T) {
	src := NewRPCSource(&stubRPC{balanceErr: errors.New("timeout")}, zap.NewNop())
	_, err := src.GetBalance(context.Background(), entity.Address(wallet))
	assert.ErrorIs(t, err, entity.ErrDataSourceFailure)
}
