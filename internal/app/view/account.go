package view

import (
	"net/url"
	"strconv"
	"time"

	"portfolio_dashboard/internal/domain/entity"
	"portfolio_dashboard/internal/pkg/solanaaddr"
	"portfolio_dashboard/internal/pkg/utils"
)

const (
	lamportDecimals = 9
	explorerBaseURL = "https://explorer.solana.com"
	mainnetCluster  = "mainnet-beta"
)

// Account page strings.
const (
	AccountErrorText = "Error loading account"
	NoTokenAccounts  = "No token accounts found."
	NoTransactions   = "No transactions found."
	KindWallet       = "Wallet (on curve)"
	KindProgramOwned = "Program derived (off curve)"
	StatusSuccess    = "Success"
	StatusFailed     = "Failed"
)

// TokenAccountRow is one row of the account token table.
type TokenAccountRow struct {
	Pubkey      string `json:"pubkey"`
	PubkeyShort string `json:"pubkeyShort"`
	Mint        string `json:"mint"`
	MintShort   string `json:"mintShort"`
	Amount      string `json:"amount"`
}

// TransactionRow is one row of the transaction history table.
type TransactionRow struct {
	Signature      string `json:"signature"`
	SignatureShort string `json:"signatureShort"`
	ExplorerURL    string `json:"explorerUrl"`
	Slot           int64  `json:"slot"`
	Time           string `json:"time"`
	Status         string `json:"status"`
}

// AccountPage is the rendered account detail page.
type AccountPage struct {
	Title             string            `json:"title"`
	Network           string            `json:"network"`
	Address           string            `json:"address"`
	AddressShort      string            `json:"addressShort"`
	ExplorerURL       string            `json:"explorerUrl"`
	OnCurve           bool              `json:"onCurve"`
	Kind              string            `json:"kind"`
	Balance           string            `json:"balance,omitempty"`
	BalanceError      string            `json:"balanceError,omitempty"`
	Tokens            []TokenAccountRow `json:"tokens"`
	TokensEmpty       string            `json:"tokensEmpty,omitempty"`
	TokensError       string            `json:"tokensError,omitempty"`
	Transactions      []TransactionRow  `json:"transactions"`
	TransactionsEmpty string            `json:"transactionsEmpty,omitempty"`
	TransactionsError string            `json:"transactionsError,omitempty"`
}

// BuildAccount derives the account page from a loaded AccountDetail.
func BuildAccount(d entity.AccountDetail, cluster string) AccountPage {
	addr := d.Address.String()
	p := AccountPage{
		Title:        TitleConnected,
		Network:      cluster,
		Address:      addr,
		AddressShort: utils.Ellipsify(addr, 4),
		ExplorerURL:  ExplorerURL("address", addr, cluster),
		OnCurve:      solanaaddr.IsOnCurve(d.Address),
		Tokens:       []TokenAccountRow{},
		Transactions: []TransactionRow{},
	}
	p.Kind = KindProgramOwned
	if p.OnCurve {
		p.Kind = KindWallet
	}

	if e, failed := d.ErrorFor(entity.SectionBalance); failed {
		p.BalanceError = e.Message
	} else if d.Balance != nil {
		p.Balance = FormatLamports(*d.Balance)
	}

	if e, failed := d.ErrorFor(entity.SectionTokens); failed {
		p.TokensError = e.Message
	} else {
		for _, ta := range d.TokenAccounts {
			amount, err := utils.FormatUnits(ta.Amount, ta.Decimals)
			if err != nil {
				amount = ta.Amount
			}
			p.Tokens = append(p.Tokens, TokenAccountRow{
				Pubkey:      ta.Pubkey,
				PubkeyShort: utils.Ellipsify(ta.Pubkey, 4),
				Mint:        ta.Mint,
				MintShort:   utils.Ellipsify(ta.Mint, 4),
				Amount:      amount,
			})
		}
		if len(p.Tokens) == 0 {
			p.TokensEmpty = NoTokenAccounts
		}
	}

	if e, failed := d.ErrorFor(entity.SectionTransactions); failed {
		p.TransactionsError = e.Message
	} else {
		for _, tx := range d.Transactions {
			p.Transactions = append(p.Transactions, newTransactionRow(tx, cluster))
		}
		if len(p.Transactions) == 0 {
			p.TransactionsEmpty = NoTransactions
		}
	}
	return p
}

func newTransactionRow(tx entity.TransactionSignature, cluster string) TransactionRow {
	row := TransactionRow{
		Signature:      tx.Signature,
		SignatureShort: utils.Ellipsify(tx.Signature, 8),
		ExplorerURL:    ExplorerURL("tx", tx.Signature, cluster),
		Slot:           tx.Slot,
		Time:           "unknown",
		Status:         StatusSuccess,
	}
	if tx.BlockTime != nil {
		row.Time = time.Unix(*tx.BlockTime, 0).UTC().Format(time.RFC3339)
	}
	if tx.Failed() {
		row.Status = StatusFailed
	}
	return row
}

// FormatLamports renders a lamport balance in SOL.
// Example: 2500000000 => "2.5 SOL"
func FormatLamports(lamports int64) string {
	sol, err := utils.FormatUnits(strconv.FormatInt(lamports, 10), lamportDecimals)
	if err != nil {
		return strconv.FormatInt(lamports, 10) + " lamports"
	}
	return sol + " SOL"
}

// ExplorerURL links to kind ("address" or "tx") on the Solana explorer for cluster.
func ExplorerURL(kind, id, cluster string) string {
	u := explorerBaseURL + "/" + kind + "/" + url.PathEscape(id)
	if cluster != "" && cluster != mainnetCluster {
		u += "?cluster=" + url.QueryEscape(cluster)
	}
	return u
}
