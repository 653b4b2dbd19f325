// Package account loads the sections of the account detail page.
package account

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"portfolio_dashboard/internal/app/port"
	"portfolio_dashboard/internal/domain/entity"
)

const defaultSignatureLimit = 10

// Section error messages shown to the user.
const (
	BalanceErrorMessage      = "Error loading balance"
	TokensErrorMessage       = "Error loading tokens"
	TransactionsErrorMessage = "Error loading transactions"
)

// Service fetches balance, token accounts and recent transactions for an
// address concurrently. A failing section never hides the others.
type Service struct {
	reader         port.AccountReader
	logger         *zap.Logger
	signatureLimit int
}

// NewService creates a new account Service.
func NewService(reader port.AccountReader, logger *zap.Logger, signatureLimit int) *Service {
	if signatureLimit <= 0 {
		signatureLimit = defaultSignatureLimit
	}
	return &Service{
		reader:         reader,
		logger:         logger.Named("AccountService"),
		signatureLimit: signatureLimit,
	}
}

// Load fetches all sections for address.
func (s *Service) Load(ctx context.Context, address entity.Address) entity.AccountDetail {
	detail := entity.AccountDetail{
		Address:       address,
		TokenAccounts: []entity.TokenAccount{},
		Transactions:  []entity.TransactionSignature{},
	}

	var mu sync.Mutex
	fail := func(section entity.AccountSection, message string, err error) {
		s.logger.Error("Account section fetch error",
			zap.String("address", address.String()),
			zap.String("section", string(section)),
			zap.Error(err))
		mu.Lock()
		detail.Errors = append(detail.Errors, entity.SectionError{
			Address: address.String(),
			Section: section,
			Message: message,
		})
		mu.Unlock()
	}

	var g errgroup.Group
	g.Go(func() error {
		balance, err := s.reader.GetBalance(ctx, address)
		if err != nil {
			fail(entity.SectionBalance, BalanceErrorMessage, err)
			return nil
		}
		mu.Lock()
		detail.Balance = &balance
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		accounts, err := s.reader.GetTokenAccounts(ctx, address)
		if err != nil {
			fail(entity.SectionTokens, TokensErrorMessage, err)
			return nil
		}
		mu.Lock()
		if accounts != nil {
			detail.TokenAccounts = accounts
		}
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		signatures, err := s.reader.GetSignatures(ctx, address, s.signatureLimit)
		if err != nil {
			fail(entity.SectionTransactions, TransactionsErrorMessage, err)
			return nil
		}
		mu.Lock()
		if signatures != nil {
			detail.Transactions = signatures
		}
		mu.Unlock()
		return nil
	})
	_ = g.Wait()

	sortSectionErrors(detail.Errors)
	s.logger.Debug("Account detail loaded",
		zap.String("address", address.String()),
		zap.Int("tokenAccounts", len(detail.TokenAccounts)),
		zap.Int("transactions", len(detail.Transactions)),
		zap.Int("failedSections", len(detail.Errors)))
	return detail
}

var sectionOrder = map[entity.AccountSection]int{
	entity.SectionBalance:      0,
	entity.SectionTokens:       1,
	entity.SectionTransactions: 2,
}

// sortSectionErrors puts errors in page order regardless of completion order.
func sortSectionErrors(errs []entity.SectionError) {
	slices.SortFunc(errs, func(a, b entity.SectionError) int {
		return sectionOrder[a.Section] - sectionOrder[b.Section]
	})
}
