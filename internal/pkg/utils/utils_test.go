package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLeadingFloat(t *testing.T) {
	cases := map[string]float64{
		"1000000":    1000000,
		"500000000":  500000000,
		"  42":       42,
		"12.5abc":    12.5,
		"-3.25":      -3.25,
		".5":         0.5,
		"5.":         5,
		"1e3":        1000,
		"1e":         1,
		"2E-2x":      0.02,
		"+7":         7,
		"Infinity":   math.Inf(1),
		"-Infinityx": math.Inf(-1),
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLeadingFloat(in), in)
	}
}

func TestParseLeadingFloat_NaN(t *testing.T) {
	for _, in := range []string{"", "abc", "-", ".", "e5", "  "} {
		assert.True(t, math.IsNaN(ParseLeadingFloat(in)), in)
	}
}

func TestEllipsify(t *testing.T) {
	assert.Equal(t, "EPjF..Dt1v", Ellipsify("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", 4))
	assert.Equal(t, "short", Ellipsify("short", 4))
	assert.Equal(t, "abcd..ghij", Ellipsify("abcdXXXXghij", 0))
}

func TestFormatUnits(t *testing.T) {
	got, err := FormatUnits("1000000", 6)
	require.NoError(t, err)
	assert.Equal(t, "1", got)

	got, err = FormatUnits("1234500", 6)
	require.NoError(t, err)
	assert.Equal(t, "1.2345", got)

	got, err = FormatUnits("42", 0)
	require.NoError(t, err)
	assert.Equal(t, "42", got)

	_, err = FormatUnits("abc", 6)
	assert.Error(t, err)
}

func TestFormatFixed(t *testing.T) {
	assert.Equal(t, "2500.00", FormatFixed(2_500_000_000, 1_000_000, 2))
	assert.Equal(t, "0.00", FormatFixed(0, 1_000_000, 2))
	assert.Equal(t, "0.01", FormatFixed(5_000, 1_000_000, 2))
	assert.Equal(t, "7.00", FormatFixed(7, 0, 2))
}
