package entity

// PortfolioSnapshot is the raw payload a data source returns for an account.
type PortfolioSnapshot struct {
	Balance int64       `json:"balance"`
	Tokens  []TokenInfo `json:"tokens"`
}

// PortfolioData is the derived view model shown on the dashboard.
// It is rebuilt from a PortfolioSnapshot on every successful fetch.
type PortfolioData struct {
	Balance    int64       `json:"balance"`
	Tokens     []TokenInfo `json:"tokens"`
	TotalValue float64     `json:"totalValue"`
}

// Clone returns a deep copy so callers can't mutate aggregator-owned slices.
func (p PortfolioData) Clone() PortfolioData {
	out := PortfolioData{Balance: p.Balance, TotalValue: p.TotalValue}
	if p.Tokens != nil {
		out.Tokens = make([]TokenInfo, len(p.Tokens))
		for i, t := range p.Tokens {
			out.Tokens[i] = t
			if t.Symbol != nil {
				out.Tokens[i].Symbol = StrPtr(*t.Symbol)
			}
		}
	}
	return out
}
