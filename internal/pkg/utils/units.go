package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FormatUnits converts a raw base-unit amount string to a human-readable value,
// considering the given number of decimals.
// Example: amount="1234500", decimals=6 => "1.2345"
func FormatUnits(amount string, decimals int) (string, error) {
	if amount == "" {
		return "0", nil
	}
	raw, err := decimal.NewFromString(amount)
	if err != nil {
		return "", fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if decimals < 0 {
		return "", fmt.Errorf("negative decimals %d", decimals)
	}
	return raw.Shift(int32(-decimals)).String(), nil
}

// FormatFixed divides value by divisor and renders it with exactly places digits.
func FormatFixed(value int64, divisor int64, places int32) string {
	if divisor == 0 {
		divisor = 1
	}
	return decimal.NewFromInt(value).Div(decimal.NewFromInt(divisor)).StringFixed(places)
}
