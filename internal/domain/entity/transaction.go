package entity

// TransactionSignature is one entry of an account's transaction history.
type TransactionSignature struct {
	Signature string `json:"signature"`
	Slot      int64  `json:"slot"`
	BlockTime *int64 `json:"blockTime,omitempty"`
	Err       any    `json:"err,omitempty"`
}

// Failed reports whether the transaction ended with an error.
func (t TransactionSignature) Failed() bool {
	return t.Err != nil
}

// TokenAccount is a token account owned by a wallet, as shown on the account page.
type TokenAccount struct {
	Pubkey   string `json:"pubkey"`
	Mint     string `json:"mint"`
	Amount   string `json:"amount"`
	Decimals int    `json:"decimals"`
}
