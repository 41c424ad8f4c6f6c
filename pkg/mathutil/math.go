package mathutil

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

var (
	//BigOne represents a single unit of an asset with precision 8
	BigOne = uint64(math.Pow10(8))
	//BigOneDecimal represents a single unit of an asset with precision 8 as decimal.Decimal
	BigOneDecimal = decimal.NewFromInt(int64(BigOne))
	// WinstonPerAR is the number of winstons in one AR.
	WinstonPerAR = decimal.New(1, 12)

	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New("amount must be a positive number with at most 8 decimals")
)

// CeilMul returns ceil(x * rate). A non-positive or non-finite rate yields 0.
func CeilMul(x uint64, rate float64) uint64 {
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0
	}
	X := decimal.NewFromInt(int64(x))
	R := decimal.NewFromFloat(rate)
	return uint64(X.Mul(R).Ceil().IntPart())
}

// CeilLinear returns ceil(base + a*x + b*y) for the given decimal
// coefficients.
func CeilLinear(base, a decimal.Decimal, x int, b decimal.Decimal, y int) uint64 {
	z := base.
		Add(a.Mul(decimal.NewFromInt(int64(x)))).
		Add(b.Mul(decimal.NewFromInt(int64(y))))
	return uint64(z.Ceil().IntPart())
}

// SatsToBTC converts an amount in satoshis to its BTC string form.
func SatsToBTC(sats int64) string {
	return decimal.NewFromInt(sats).Div(BigOneDecimal).StringFixed(8)
}

// BTCToSats parses a BTC amount with at most 8 decimals and returns the
// equivalent in satoshis.
func BTCToSats(btc string) (uint64, error) {
	d, err := decimal.NewFromString(btc)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if !d.IsPositive() || !d.Equal(d.Round(8)) {
		return 0, ErrInvalidAmount
	}
	return uint64(d.Mul(BigOneDecimal).IntPart()), nil
}

// WinstonToAR converts a winston amount in string form to AR.
func WinstonToAR(winston string) (string, error) {
	d, err := decimal.NewFromString(winston)
	if err != nil {
		return "", err
	}
	return d.Div(WinstonPerAR).StringFixed(12), nil
}

// ShiftDecimals converts an integer amount in a chain's base unit to the
// native coin, e.g. wei to ETH with decimals 18. Trailing zeros are dropped.
func ShiftDecimals(amount string, decimals int32) (string, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return "", err
	}
	return d.Shift(-decimals).String(), nil
}
