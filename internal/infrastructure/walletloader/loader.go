// Package walletloader reads a watchlist of wallet addresses from a text file.
package walletloader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"portfolio_dashboard/internal/app/port"
	"portfolio_dashboard/internal/domain/entity"
)

// DefaultWalletFilePath is used when no path is configured.
const DefaultWalletFilePath = "data/wallets.txt"

// WalletFileLoader loads one address per line. Blank lines and lines
// starting with '#' are ignored; malformed addresses are logged and skipped.
type WalletFileLoader struct {
	filePath  string
	validator port.AddressValidator
	logger    *zap.Logger
}

// NewWalletFileLoader creates a new WalletFileLoader.
func NewWalletFileLoader(filePath string, validator port.AddressValidator, logger *zap.Logger) *WalletFileLoader {
	if filePath == "" {
		filePath = DefaultWalletFilePath
	}
	return &WalletFileLoader{
		filePath:  filePath,
		validator: validator,
		logger:    logger.Named("WalletLoader"),
	}
}

// GetWallets reads wallet addresses from the configured file path.
func (l *WalletFileLoader) GetWallets() ([]entity.Address, error) {
	file, err := os.Open(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open wallet file %s: %w", l.filePath, err)
	}
	defer file.Close()

	wallets, err := l.read(file)
	if err != nil {
		return nil, fmt.Errorf("error scanning wallet file %s: %w", l.filePath, err)
	}
	l.logger.Info("Wallets loaded successfully from file", zap.Int("count", len(wallets)), zap.String("path", l.filePath))
	return wallets, nil
}

func (l *WalletFileLoader) read(r io.Reader) ([]entity.Address, error) {
	seen := make(map[entity.Address]struct{})
	var wallets []entity.Address

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		address, err := l.validator.Validate(line)
		if err != nil {
			l.logger.Warn("Skipping invalid wallet address",
				zap.String("file", l.filePath),
				zap.Int("lineNumber", lineNum),
				zap.String("address", line),
				zap.Error(err))
			continue
		}
		if _, dup := seen[address]; dup {
			continue
		}
		seen[address] = struct{}{}
		wallets = append(wallets, address)
	}
	return wallets, scanner.Err()
}
