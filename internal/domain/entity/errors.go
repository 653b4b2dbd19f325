package entity

import "errors"

var (
	// ErrInvalidAddressFormat is returned when a candidate string is not a valid Solana address.
	ErrInvalidAddressFormat = errors.New("invalid address format")

	// ErrDataSourceFailure wraps any failure reported by a portfolio data source.
	ErrDataSourceFailure = errors.New("data source failure")
)
