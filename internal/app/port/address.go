package port

import "portfolio_dashboard/internal/domain/entity"

// AddressValidator checks a candidate string against the chain's address rules.
type AddressValidator interface {
	// Validate returns the validated address or an error wrapping entity.ErrInvalidAddressFormat.
	Validate(candidate string) (entity.Address, error)
}
