package port

import (
	"context"

	"portfolio_dashboard/internal/domain/entity"
)

// PortfolioSource defines the data source the portfolio aggregator pulls from.
// Implementations may fail; the aggregator converts failures into user-facing state.
type PortfolioSource interface {
	// FetchPortfolio returns the native balance and token list for an account.
	FetchPortfolio(ctx context.Context, account entity.Account) (entity.PortfolioSnapshot, error)
}

// AccountReader defines the per-section reads used by the account detail page.
// Each section is fetched independently.
type AccountReader interface {
	// GetBalance returns the native balance in lamports.
	GetBalance(ctx context.Context, address entity.Address) (int64, error)

	// GetTokenAccounts returns the SPL token accounts owned by the address.
	GetTokenAccounts(ctx context.Context, address entity.Address) ([]entity.TokenAccount, error)

	// GetSignatures returns up to limit most recent transaction signatures.
	GetSignatures(ctx context.Context, address entity.Address, limit int) ([]entity.TransactionSignature, error)
}
