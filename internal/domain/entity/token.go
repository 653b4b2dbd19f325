package entity

// TokenInfo holds a single SPL token holding as returned by a data source.
// Amount is kept as the raw decimal string in base units.
type TokenInfo struct {
	Mint     string  `json:"mint" yaml:"mint"`
	Amount   string  `json:"amount" yaml:"amount"`
	Decimals int     `json:"decimals" yaml:"decimals"`
	Symbol   *string `json:"symbol,omitempty" yaml:"symbol,omitempty"`
}

// SymbolOr returns the token symbol or fallback when the symbol is unknown.
func (t TokenInfo) SymbolOr(fallback string) string {
	if t.Symbol == nil || *t.Symbol == "" {
		return fallback
	}
	return *t.Symbol
}

// StrPtr returns a pointer to s.
func StrPtr(s string) *string {
	return &s
}
