package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"3.45", "3.45"},
		{" 12.00 ", "12"},
		{"1,234.56", "1234.56"},
		{"12,345,678.90", "12345678.9"},
		{"7", "7"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseAmount(tt.value)
			require.NoError(t, err)
			want, _ := decimal.NewFromString(tt.want)
			assert.True(t, got.Equal(want), "got %s, want %s", got, want)
		})
	}
}

func TestParseAmount_CommaOnlyKept(t *testing.T) {
	// A lone comma is not a thousands separator, so the value stays invalid.
	_, err := ParseAmount("3,45")
	assert.Error(t, err)
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, value := range []string{"", "DEBIT", "3.4.5"} {
		_, err := ParseAmount(value)
		assert.Error(t, err, "value %q", value)
	}
}

func TestApproxEqual(t *testing.T) {
	a := decimal.RequireFromString("10.00")
	assert.True(t, ApproxEqual(a, decimal.RequireFromString("10.00")))
	assert.True(t, ApproxEqual(a, decimal.RequireFromString("10.01")))
	assert.False(t, ApproxEqual(a, decimal.RequireFromString("10.02")))
	assert.False(t, ApproxEqual(a, decimal.RequireFromString("9.90")))
}
