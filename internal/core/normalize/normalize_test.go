package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLenderCanonicalization(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Wells Fargo Bank", "Wells Fargo"},
		{"WELLS FARGO, N.A.", "Wells Fargo"},
		{"JPMorgan Chase Bank", "Jpmorgan Chase"},
		{"Chase", "Jpmorgan Chase"},
		{"BofA", "Bank Of America"},
		{"Rockland Trust Company", "Rockland Trust"},
		{"HarborOne Bank", "Harborone"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Lender(tc.in), tc.in)
	}
}

func TestLenderFuzzyMatch(t *testing.T) {
	// One-character OCR slip should still resolve.
	assert.Equal(t, "Wells Fargo", Lender("Wels Fargo Bank"))
}

func TestLenderUnknownIsTitleCased(t *testing.T) {
	assert.Equal(t, "First National Bank Of Smalltown", Lender("FIRST NATIONAL BANK OF SMALLTOWN"))
	assert.Equal(t, "", Lender(""))
}

func TestDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2021-03-15", "2021-03-15"},
		{"3/15/2021", "2021-03-15"},
		{"March 15, 2021", "2021-03-15"},
		{"Mar 15, 2021", "2021-03-15"},
		{"15 March 2021", "2021-03-15"},
	}
	for _, tc := range cases {
		got, ok := Date(tc.in)
		require.True(t, ok, tc.in)
		assert.Equal(t, tc.want, got.Format("2006-01-02"), tc.in)
	}

	_, ok := Date("not a date")
	assert.False(t, ok)
}

func TestNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1000000", 1000000},
		{"$1,000,000", 1000000},
		{"$1,000,000.50", 1000000.50},
		{"4.25%", 4.25},
		{" 250 ", 250},
	}
	for _, tc := range cases {
		got, ok := Number(tc.in)
		require.True(t, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, ok := Number("one million")
	assert.False(t, ok)
}

func TestRateToDecimal(t *testing.T) {
	// Values above 1 are percentages.
	assert.Equal(t, 0.0425, RateToDecimal(4.25))
	// Values already in decimal form pass through.
	assert.Equal(t, 0.0425, RateToDecimal(0.0425))
	// Rounded to 5 places.
	assert.Equal(t, 0.04257, RateToDecimal(4.256789))
}
