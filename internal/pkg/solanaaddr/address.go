// Package solanaaddr validates Solana base58 addresses.
package solanaaddr

import (
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"

	"portfolio_dashboard/internal/domain/entity"
)

const (
	minAddressLength = 32
	maxAddressLength = 44
	addressByteSize  = 32
)

// Validator implements port.AddressValidator for Solana addresses.
type Validator struct{}

// NewValidator creates a new Solana address validator.
func NewValidator() Validator {
	return Validator{}
}

// Validate implements port.AddressValidator.
func (Validator) Validate(candidate string) (entity.Address, error) {
	if err := Check(candidate); err != nil {
		return "", err
	}
	return entity.Address(candidate), nil
}

// Check returns nil when candidate is a well-formed address.
// The string must be 32..44 base58 characters that decode to exactly 32 bytes.
func Check(candidate string) error {
	if n := len(candidate); n < minAddressLength || n > maxAddressLength {
		return fmt.Errorf("%w: expected %d-%d characters, got %d", entity.ErrInvalidAddressFormat, minAddressLength, maxAddressLength, n)
	}
	decoded, err := base58.Decode(candidate)
	if err != nil {
		return fmt.Errorf("%w: %q is not base58: %v", entity.ErrInvalidAddressFormat, candidate, err)
	}
	if len(decoded) != addressByteSize {
		return fmt.Errorf("%w: %q decodes to %d bytes, want %d", entity.ErrInvalidAddressFormat, candidate, len(decoded), addressByteSize)
	}
	return nil
}

// IsOnCurve reports whether a valid address is an ed25519 public key.
// Program-derived addresses are off the curve and have no private key.
func IsOnCurve(address entity.Address) bool {
	decoded, err := base58.Decode(address.String())
	if err != nil || len(decoded) != addressByteSize {
		return false
	}
	_, err = new(edwards25519.Point).SetBytes(decoded)
	return err == nil
}
