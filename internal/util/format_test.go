package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		expected string
	}{
		{"zero", 0, "$0.00"},
		{"cents", 0.64, "$0.64"},
		{"rounds to cents", 17.716, "$17.72"},
		{"thousands", 1234.5, "$1,234.50"},
		{"millions", 1234567.891, "$1,234,567.89"},
		{"negative", -10.68, "-$10.68"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatCurrency(tt.amount))
		})
	}
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0", FormatCount(0))
	assert.Equal(t, "999", FormatCount(999))
	assert.Equal(t, "1,000", FormatCount(1000))
	assert.Equal(t, "123,456", FormatCount(123456))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "10.68", FormatAmount(10.68))
	assert.Equal(t, "5.34", FormatAmount(10.68/2))
	assert.Equal(t, "0.00", FormatAmount(0))
}

func TestPadString(t *testing.T) {
	assert.Equal(t, "ab   ", PadString("ab", 5, true))
	assert.Equal(t, "   ab", PadString("ab", 5, false))
	assert.Equal(t, "abcdef", PadString("abcdef", 3, true))
	// Wide runes count double
	assert.Equal(t, "血液 ", PadString("血液", 5, true))
}

func TestColorize(t *testing.T) {
	assert.Equal(t, "title", Colorize("title", false, ColorBold))
	assert.Equal(t, ColorBold+"title"+ColorReset, Colorize("title", true, ColorBold))
	assert.Equal(t, "title", Colorize("title", true))
}
