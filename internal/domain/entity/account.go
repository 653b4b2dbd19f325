package entity

// Account is the handle of a connected wallet session.
// An empty Account means no wallet is connected.
type Account string

// IsConnected reports whether the account handle is present.
func (a Account) IsConnected() bool {
	return a != ""
}

// String returns the account as a plain string.
func (a Account) String() string {
	return string(a)
}

// Address is a validated Solana address (base58, 32 bytes).
type Address string

// String returns the address as a plain string.
func (a Address) String() string {
	return string(a)
}

// Account converts a validated address into an account handle.
func (a Address) Account() Account {
	return Account(a)
}
