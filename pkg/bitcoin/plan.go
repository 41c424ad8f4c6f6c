package bitcoin

import (
	"fmt"

	"github.com/permavault/permavault-daemon/pkg/explorer"
)

// SelectionPasses is the fixed number of coin selection rounds run to make the
// input set and the fee agree.
const SelectionPasses = 3

// TransferPlan is the outcome of the fee convergence loop.
type TransferPlan struct {
	Inputs     []explorer.Utxo
	Amount     uint64
	FeeRate    float64
	Vsize      uint64
	TotalInput uint64
	// Fee is the estimated fee, ceil(Vsize * FeeRate), where Vsize is
	// estimated on the input count of the second selection pass.
	Fee uint64
	// Change is TotalInput - Amount - Fee. It becomes an output only if it is
	// above the dust threshold.
	Change uint64
	Passes int
}

// HasChangeOutput tells whether the change is worth an output.
func (p TransferPlan) HasChangeOutput() bool {
	return p.Change > DustThreshold
}

// ChangeOutputValue returns the value of the change output, 0 if none.
func (p TransferPlan) ChangeOutputValue() uint64 {
	if !p.HasChangeOutput() {
		return 0
	}
	return p.Change
}

// EffectiveFee is what the miners will actually get, dust change included.
func (p TransferPlan) EffectiveFee() uint64 {
	return p.TotalInput - p.Amount - p.ChangeOutputValue()
}

// NumOutputs returns the number of outputs of the resulting tx.
func (p TransferPlan) NumOutputs() int {
	if p.HasChangeOutput() {
		return 2
	}
	return 1
}

// Planner runs the fee convergence loop with the given coin selector.
type Planner struct {
	selectCoins CoinSelector
}

// NewPlanner returns a Planner using selector, or PickUtxos if nil.
func NewPlanner(selector CoinSelector) *Planner {
	if selector == nil {
		selector = PickUtxos
	}
	return &Planner{selector}
}

// BuildTransferPlan is a shorthand for NewPlanner(nil).Plan.
func BuildTransferPlan(
	utxos []explorer.Utxo, amount uint64, feeRate float64,
) (*TransferPlan, error) {
	return NewPlanner(nil).Plan(utxos, amount, feeRate)
}

// Plan resolves the circular dependency between the number of inputs and the
// fee with exactly three selection passes:
//  1. select for amount, estimate fee from the resulting input count;
//  2. select for amount+fee, re-estimate the fee;
//  3. select for amount+fee one last time.
//
// The fee of the plan is the one estimated after the second pass, which the
// third selection covers by construction.
func (p *Planner) Plan(
	utxos []explorer.Utxo, amount uint64, feeRate float64,
) (*TransferPlan, error) {
	if amount == 0 {
		return nil, ErrInvalidAmount
	}
	if !isValidRate(feeRate) {
		return nil, ErrInvalidFeeRate
	}

	passes := 0
	target := amount
	var (
		selected []explorer.Utxo
		total    uint64
		vsize    uint64
		fee      uint64
		err      error
	)
	for passes < SelectionPasses {
		selected, total, err = p.selectCoins(utxos, target)
		passes++
		if err != nil {
			return nil, err
		}
		if passes == SelectionPasses {
			break
		}
		vsize = EstimateVsize(len(selected), DefaultNumOutputs)
		fee = EstimateFee(vsize, feeRate)
		target = amount + fee
	}
	if total < target {
		return nil, fmt.Errorf(
			"%w: inputs %d sats do not cover amount %d plus fee %d",
			ErrInsufficientBalance, total, amount, fee,
		)
	}

	return &TransferPlan{
		Inputs:     selected,
		Amount:     amount,
		FeeRate:    feeRate,
		Vsize:      vsize,
		TotalInput: total,
		Fee:        fee,
		Change:     total - amount - fee,
		Passes:     passes,
	}, nil
}
