package bitcoin

import (
	"github.com/permavault/permavault-daemon/pkg/mathutil"
	"github.com/shopspring/decimal"
)

const (
	// DustThreshold is the value at or below which a change output is not
	// created and is left to miners instead.
	DustThreshold = 546
	// DefaultNumOutputs is the output count assumed when estimating the size
	// of a transfer: payment plus change.
	DefaultNumOutputs = 2
)

var (
	txOverheadVsize = decimal.RequireFromString("10.5")
	// taproot key-path input
	inputVsize = decimal.RequireFromString("57.5")
	// p2tr output
	outputVsize = decimal.NewFromInt(43)
)

// EstimateVsize returns ceil(10.5 + inputs*57.5 + outputs*43), the virtual
// size of a transaction spending taproot key-path inputs.
func EstimateVsize(numInputs, numOutputs int) uint64 {
	return mathutil.CeilLinear(
		txOverheadVsize, inputVsize, numInputs, outputVsize, numOutputs,
	)
}

// EstimateFee returns ceil(vsize * feeRate).
func EstimateFee(vsize uint64, feeRate float64) uint64 {
	return mathutil.CeilMul(vsize, feeRate)
}
