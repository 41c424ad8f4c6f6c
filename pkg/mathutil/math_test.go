package mathutil_test

import (
	"math"
	"testing"

	"github.com/permavault/permavault-daemon/pkg/mathutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCeilMul(t *testing.T) {
	tests := []struct {
		x        uint64
		rate     float64
		expected uint64
	}{
		{169, 6, 1014},
		{169, 2.5, 423},
		{111, 1.01, 113},
		{100, 0, 0},
		{100, -3, 0},
		{100, math.NaN(), 0},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, mathutil.CeilMul(tt.x, tt.rate))
	}
}

func TestCeilLinear(t *testing.T) {
	base := decimal.RequireFromString("10.5")
	a := decimal.RequireFromString("57.5")
	b := decimal.NewFromInt(43)

	require.Equal(t, uint64(154), mathutil.CeilLinear(base, a, 1, b, 2))
	require.Equal(t, uint64(212), mathutil.CeilLinear(base, a, 2, b, 2))
	require.Equal(t, uint64(11), mathutil.CeilLinear(base, a, 0, b, 0))
}

func TestBTCToSats(t *testing.T) {
	tests := []struct {
		btc      string
		expected uint64
		err      error
	}{
		{"1", 100000000, nil},
		{"0.00000546", 546, nil},
		{"0.1", 10000000, nil},
		{"0", 0, mathutil.ErrInvalidAmount},
		{"-1", 0, mathutil.ErrInvalidAmount},
		{"0.000000001", 0, mathutil.ErrInvalidAmount},
		{"abc", 0, mathutil.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.btc, func(t *testing.T) {
			sats, err := mathutil.BTCToSats(tt.btc)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, sats)
		})
	}
}

func TestSatsToBTC(t *testing.T) {
	require.Equal(t, "0.00000546", mathutil.SatsToBTC(546))
	require.Equal(t, "1.00000000", mathutil.SatsToBTC(100000000))
}

func TestWinstonToAR(t *testing.T) {
	ar, err := mathutil.WinstonToAR("1500000000000")
	require.NoError(t, err)
	require.Equal(t, "1.500000000000", ar)

	_, err = mathutil.WinstonToAR("nope")
	require.Error(t, err)
}

func TestShiftDecimals(t *testing.T) {
	tests := []struct {
		amount   string
		decimals int32
		expected string
	}{
		{"1500000000000000000", 18, "1.5"},
		{"1", 18, "0.000000000000000001"},
		{"2500000000", 9, "2.5"},
		{"0", 9, "0"},
	}
	for _, tt := range tests {
		got, err := mathutil.ShiftDecimals(tt.amount, tt.decimals)
		require.NoError(t, err)
		require.Equal(t, tt.expected, got)
	}

	_, err := mathutil.ShiftDecimals("abc", 9)
	require.Error(t, err)
}
