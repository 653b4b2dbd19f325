package datasource

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"portfolio_dashboard/internal/domain/entity"
	"portfolio_dashboard/internal/infrastructure/solanarpc"
)

// knownSymbols labels common mints; the RPC node does not return token metadata.
var knownSymbols = map[string]string{
	USDCMint: "USDC",
	USDTMint: "USDT",
	"So11111111111111111111111111111111111111112": "wSOL",
}

// tokenPrograms are queried in this order; it fixes the token list order.
var tokenPrograms = []string{solanarpc.TokenProgramID, solanarpc.Token2022ProgramID}

// rpcClient is the subset of *solanarpc.Client used by RPCSource.
type rpcClient interface {
	GetBalance(ctx context.Context, pubkey string) (uint64, error)
	GetTokenAccountsByOwner(ctx context.Context, owner, programID string) ([]solanarpc.TokenAccount, error)
	GetSignaturesForAddress(ctx context.Context, address string, limit int) ([]solanarpc.SignatureInfo, error)
}

// RPCSource reads live portfolio data from a Solana JSON-RPC node.
// It implements port.PortfolioSource and port.AccountReader.
type RPCSource struct {
	client rpcClient
	logger *zap.Logger
}

// NewRPCSource creates a new RPCSource backed by client.
func NewRPCSource(client rpcClient, logger *zap.Logger) *RPCSource {
	return &RPCSource{client: client, logger: logger.Named("RPCSource")}
}

// FetchPortfolio implements port.PortfolioSource.
// Balance and token accounts are read concurrently; any failure abandons the whole fetch.
func (s *RPCSource) FetchPortfolio(ctx context.Context, account entity.Account) (entity.PortfolioSnapshot, error) {
	var (
		lamports uint64
		perProg  = make([][]solanarpc.TokenAccount, len(tokenPrograms))
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		lamports, err = s.client.GetBalance(egCtx, account.String())
		if err != nil {
			return fmt.Errorf("get balance: %w", err)
		}
		return nil
	})
	for i, programID := range tokenPrograms {
		eg.Go(func() error {
			accounts, err := s.client.GetTokenAccountsByOwner(egCtx, account.String(), programID)
			if err != nil {
				return fmt.Errorf("get token accounts (%s): %w", programID, err)
			}
			perProg[i] = accounts
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		s.logger.Warn("Portfolio fetch failed", zap.String("account", account.String()), zap.Error(err))
		return entity.PortfolioSnapshot{}, fmt.Errorf("%w: %v", entity.ErrDataSourceFailure, err)
	}

	snapshot := entity.PortfolioSnapshot{Balance: int64(lamports), Tokens: []entity.TokenInfo{}}
	for _, accounts := range perProg {
		for _, a := range accounts {
			token := entity.TokenInfo{Mint: a.Mint, Amount: a.Amount, Decimals: a.Decimals}
			if sym, ok := knownSymbols[a.Mint]; ok {
				token.Symbol = entity.StrPtr(sym)
			}
			snapshot.Tokens = append(snapshot.Tokens, token)
		}
	}
	s.logger.Debug("Portfolio fetched",
		zap.String("account", account.String()),
		zap.Int64("lamports", snapshot.Balance),
		zap.Int("tokenCount", len(snapshot.Tokens)))
	return snapshot, nil
}

// GetBalance implements port.AccountReader.
func (s *RPCSource) GetBalance(ctx context.Context, address entity.Address) (int64, error) {
	lamports, err := s.client.GetBalance(ctx, address.String())
	if err != nil {
		return 0, fmt.Errorf("%w: get balance: %v", entity.ErrDataSourceFailure, err)
	}
	return int64(lamports), nil
}

// GetTokenAccounts implements port.AccountReader.
func (s *RPCSource) GetTokenAccounts(ctx context.Context, address entity.Address) ([]entity.TokenAccount, error) {
	out := []entity.TokenAccount{}
	for _, programID := range tokenPrograms {
		accounts, err := s.client.GetTokenAccountsByOwner(ctx, address.String(), programID)
		if err != nil {
			return nil, fmt.Errorf("%w: get token accounts: %v", entity.ErrDataSourceFailure, err)
		}
		for _, a := range accounts {
			out = append(out, entity.TokenAccount{
				Pubkey:   a.Pubkey,
				Mint:     a.Mint,
				Amount:   a.Amount,
				Decimals: a.Decimals,
			})
		}
	}
	return out, nil
}

// GetSignatures implements port.AccountReader.
func (s *RPCSource) GetSignatures(ctx context.Context, address entity.Address, limit int) ([]entity.TransactionSignature, error) {
	sigs, err := s.client.GetSignaturesForAddress(ctx, address.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("%w: get signatures: %v", entity.ErrDataSourceFailure, err)
	}
	out := make([]entity.TransactionSignature, 0, len(sigs))
	for _, sig := range sigs {
		out = append(out, entity.TransactionSignature{
			Signature: sig.Signature,
			Slot:      sig.Slot,
			BlockTime: sig.BlockTime,
			Err:       sig.Err,
		})
	}
	return out, nil
}
