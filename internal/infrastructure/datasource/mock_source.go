package datasource

import (
	"context"

	"portfolio_dashboard/internal/domain/entity"
)

// Mint addresses of the stablecoins in the mock portfolio.
const (
	USDCMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	USDTMint = "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB"
)

// MockSnapshot returns the fixed portfolio served by MockSource.
func MockSnapshot() entity.PortfolioSnapshot {
	return entity.PortfolioSnapshot{
		Balance: 2_500_000_000,
		Tokens: []entity.TokenInfo{
			{Mint: USDCMint, Amount: "1000000", Decimals: 6, Symbol: entity.StrPtr("USDC")},
			{Mint: USDTMint, Amount: "500000000", Decimals: 6, Symbol: entity.StrPtr("USDT")},
		},
	}
}

// MockSource serves the same hardcoded portfolio for every account.
// It implements port.PortfolioSource and port.AccountReader.
type MockSource struct{}

// NewMockSource creates a new MockSource.
func NewMockSource() *MockSource {
	return &MockSource{}
}

// FetchPortfolio implements port.PortfolioSource.
func (m *MockSource) FetchPortfolio(ctx context.Context, _ entity.Account) (entity.PortfolioSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return entity.PortfolioSnapshot{}, err
	}
	return MockSnapshot(), nil
}

// GetBalance implements port.AccountReader.
func (m *MockSource) GetBalance(ctx context.Context, _ entity.Address) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return MockSnapshot().Balance, nil
}

// GetTokenAccounts implements port.AccountReader.
func (m *MockSource) GetTokenAccounts(ctx context.Context, _ entity.Address) ([]entity.TokenAccount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tokens := MockSnapshot().Tokens
	accounts := make([]entity.TokenAccount, 0, len(tokens))
	for _, t := range tokens {
		accounts = append(accounts, entity.TokenAccount{
			Mint:     t.Mint,
			Amount:   t.Amount,
			Decimals: t.Decimals,
		})
	}
	return accounts, nil
}

// GetSignatures implements port.AccountReader. The mock has no history.
func (m *MockSource) GetSignatures(ctx context.Context, _ entity.Address, _ int) ([]entity.TransactionSignature, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []entity.TransactionSignature{}, nil
}
