package entity

// AccountSection names an independently loaded part of the account page.
type AccountSection string

const (
	SectionBalance      AccountSection = "balance"
	SectionTokens       AccountSection = "tokens"
	SectionTransactions AccountSection = "transactions"
)

// SectionError represents an error that occurred while loading one section
// of an account. Other sections are unaffected.
type SectionError struct {
	Address string         `json:"address"`
	Section AccountSection `json:"section"`
	Message string         `json:"message"`
}

// AccountDetail is everything shown for a single address.
// A section that failed to load is left empty and reported in Errors.
type AccountDetail struct {
	Address       Address                `json:"address"`
	Balance       *int64                 `json:"balance,omitempty"`
	TokenAccounts []TokenAccount         `json:"tokenAccounts"`
	Transactions  []TransactionSignature `json:"transactions"`
	Errors        []SectionError         `json:"errors,omitempty"`
}

// ErrorFor returns the error recorded for section, if any.
func (d AccountDetail) ErrorFor(section AccountSection) (SectionError, bool) {
	for _, e := range d.Errors {
		if e.Section == section {
			return e, true
		}
	}
	return SectionError{}, false
}
