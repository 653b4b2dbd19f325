package portfolio

import "portfolio_dashboard/internal/domain/entity"

// Event is an input to Reduce.
type Event interface {
	isEvent()
}

// Connected is dispatched when an account becomes available or changes.
type Connected struct {
	Account entity.Account
}

// Disconnected is dispatched when the wallet session goes away.
type Disconnected struct{}

// RefreshRequested is dispatched by an explicit user refresh.
type RefreshRequested struct{}

// FetchSucceeded carries a data source result for the fetch started at Generation.
type FetchSucceeded struct {
	Generation uint64
	Snapshot   entity.PortfolioSnapshot
}

// FetchFailed reports a failed fetch started at Generation.
type FetchFailed struct {
	Generation uint64
	Message    string
}

func (Connected) isEvent()        {}
func (Disconnected) isEvent()     {}
func (RefreshRequested) isEvent() {}
func (FetchSucceeded) isEvent()   {}
func (FetchFailed) isEvent()      {}

// InitialState is the state of a freshly created aggregator.
func InitialState() State {
	return State{Data: emptyData()}
}

// Reduce applies e to s and returns the next state. It never mutates s.
//
// Every transition into Loading bumps Generation, and fetch results carrying
// any other generation are ignored, so only the most recent request can land.
func Reduce(s State, e Event) State {
	switch e := e.(type) {
	case Connected:
		if !e.Account.IsConnected() {
			return Reduce(s, Disconnected{})
		}
		if e.Account == s.Account {
			return s
		}
		return State{
			Account:    e.Account,
			Data:       emptyData(),
			Loading:    true,
			Generation: s.Generation + 1,
		}

	case Disconnected:
		return State{Data: emptyData(), Generation: s.Generation + 1}

	case RefreshRequested:
		if !s.Account.IsConnected() {
			return s
		}
		s.Loading = true
		s.Generation++
		return s

	case FetchSucceeded:
		if IsStale(s, e.Generation) {
			return s
		}
		s.Data = BuildPortfolioData(e.Snapshot)
		s.Loading = false
		s.Error = ""
		return s

	case FetchFailed:
		if IsStale(s, e.Generation) {
			return s
		}
		s.Loading = false
		s.Error = e.Message
		if s.Error == "" {
			s.Error = ErrorMessage
		}
		return s
	}
	return s
}

// IsStale reports whether a fetch result for generation must be discarded.
func IsStale(s State, generation uint64) bool {
	return !s.Account.IsConnected() || !s.Loading || generation != s.Generation
}
