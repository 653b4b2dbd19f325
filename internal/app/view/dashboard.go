// Package view turns aggregator state and account details into the
// display models rendered by the HTML templates, the JSON API and the CLI.
package view

import (
	"fmt"
	"math"

	"portfolio_dashboard/internal/app/portfolio"
	"portfolio_dashboard/internal/domain/entity"
	"portfolio_dashboard/internal/pkg/utils"
)

// Display strings.
const (
	TitleConnected    = "My Portfolio Dashboard for Cryptocurrency Assets"
	TitleDisconnected = "Portfolio Dashboard - Please Connect Wallet"
	ConnectPrompt     = "Please connect your Solana wallet to view your cryptocurrency portfolio."
	LoadingBalance    = "Loading your balance..."
	NoTokensFound     = "No tokens found in wallet"
	UnknownToken      = "Unknown Token"
)

// balanceDivisor is the divisor applied to the raw balance for display.
const balanceDivisor = 1_000_000

// TokenRow is one entry of the token holdings card.
type TokenRow struct {
	Symbol    string `json:"symbol"`
	Mint      string `json:"mint"`
	MintShort string `json:"mintShort"`
	RawAmount string `json:"rawAmount"`
	Amount    string `json:"amount"`
	UIAmount  string `json:"uiAmount,omitempty"`
	Decimals  int    `json:"decimals"`
}

// Dashboard is the rendered portfolio page.
type Dashboard struct {
	Title        string     `json:"title"`
	Network      string     `json:"network"`
	Connected    bool       `json:"connected"`
	Prompt       string     `json:"prompt,omitempty"`
	Account      string     `json:"account,omitempty"`
	AccountShort string     `json:"accountShort,omitempty"`
	Status       string     `json:"status"`
	Loading      bool       `json:"loading"`
	Error        string     `json:"error,omitempty"`
	Balance      string     `json:"balance"`
	Tokens       []TokenRow `json:"tokens"`
	NoTokens     string     `json:"noTokens,omitempty"`
	TotalValue   string     `json:"totalValue"`
	CanRefresh   bool       `json:"canRefresh"`
}

// Build derives the dashboard from aggregator state. cluster is the
// network label shown under the balance.
func Build(s portfolio.State, cluster string) Dashboard {
	d := Dashboard{
		Network: cluster,
		Status:  s.Status().String(),
		Tokens:  []TokenRow{},
	}
	if !s.Account.IsConnected() {
		d.Title = TitleDisconnected
		d.Prompt = ConnectPrompt
		return d
	}

	d.Title = TitleConnected
	d.Connected = true
	d.Account = s.Account.String()
	d.AccountShort = utils.Ellipsify(d.Account, 4)
	d.Loading = s.Loading
	d.Error = s.Error
	d.CanRefresh = !s.Loading

	if s.Loading {
		d.Balance = LoadingBalance
	} else {
		d.Balance = FormatBalance(s.Data.Balance)
	}
	for _, t := range s.Data.Tokens {
		d.Tokens = append(d.Tokens, NewTokenRow(t))
	}
	if len(d.Tokens) == 0 {
		d.NoTokens = NoTokensFound
	}
	d.TotalValue = FormatTotalValue(s.Data.TotalValue)
	return d
}

// NewTokenRow formats a single token holding.
func NewTokenRow(t entity.TokenInfo) TokenRow {
	row := TokenRow{
		Symbol:    t.SymbolOr(UnknownToken),
		Mint:      t.Mint,
		MintShort: utils.Ellipsify(t.Mint, 4),
		RawAmount: t.Amount,
		Amount:    t.Amount + " tokens",
		Decimals:  t.Decimals,
	}
	if ui, err := utils.FormatUnits(t.Amount, t.Decimals); err == nil {
		row.UIAmount = ui
	}
	return row
}

// FormatBalance renders a raw balance divided by 1,000,000 with two decimals.
// Example: 2500000000 => "2500.00 SOL"
func FormatBalance(balance int64) string {
	return utils.FormatFixed(balance, balanceDivisor, 2) + " SOL"
}

// FormatTotalValue renders the portfolio total with two decimals.
// Example: 501000000 => "501000000.00 USD"
func FormatTotalValue(total float64) string {
	switch {
	case math.IsNaN(total):
		return "NaN USD"
	case math.IsInf(total, 1):
		return "Infinity USD"
	case math.IsInf(total, -1):
		return "-Infinity USD"
	}
	return fmt.Sprintf("%.2f USD", total)
}
