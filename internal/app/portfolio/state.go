// Package portfolio owns the dashboard's portfolio view-model: a pure reducer
// over explicit state, an aggregator that drives fetches against a data
// source, and a per-account registry for the HTTP server.
package portfolio

import (
	"portfolio_dashboard/internal/domain/entity"
	"portfolio_dashboard/internal/pkg/utils"
)

// ErrorMessage is the user-facing text shown when a fetch fails.
const ErrorMessage = "Error loading portfolio"

// Status is the aggregator's position in its state machine.
type Status int

const (
	StatusDisconnected Status = iota
	StatusLoading
	StatusReady
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is the complete view-model state owned by an Aggregator.
// Data is retained across failures; Error holds the banner text of the last failure.
type State struct {
	Account    entity.Account
	Data       entity.PortfolioData
	Loading    bool
	Error      string
	Generation uint64
}

// Status derives the state-machine position from the state fields.
func (s State) Status() Status {
	switch {
	case !s.Account.IsConnected():
		return StatusDisconnected
	case s.Loading:
		return StatusLoading
	case s.Error != "":
		return StatusError
	default:
		return StatusReady
	}
}

// Clone returns a copy that shares no slices with s.
func (s State) Clone() State {
	s.Data = s.Data.Clone()
	return s
}

// emptyData is the portfolio shown before the first successful fetch.
func emptyData() entity.PortfolioData {
	return entity.PortfolioData{Tokens: []entity.TokenInfo{}}
}

// ComputeTotalValue sums each token's raw amount string parsed as a float,
// in list order. Decimals are deliberately not applied.
func ComputeTotalValue(tokens []entity.TokenInfo) float64 {
	total := 0.0
	for _, t := range tokens {
		total += utils.ParseLeadingFloat(t.Amount)
	}
	return total
}

// BuildPortfolioData derives the view model from a data source snapshot.
// The result shares no memory with snapshot.
func BuildPortfolioData(snapshot entity.PortfolioSnapshot) entity.PortfolioData {
	data := entity.PortfolioData{
		Balance:    snapshot.Balance,
		Tokens:     snapshot.Tokens,
		TotalValue: ComputeTotalValue(snapshot.Tokens),
	}.Clone()
	if data.Tokens == nil {
		data.Tokens = []entity.TokenInfo{}
	}
	return data
}
