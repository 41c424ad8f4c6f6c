package bitcoin_test

import (
	"testing"

	"github.com/permavault/permavault-daemon/pkg/bitcoin"
	"github.com/permavault/permavault-daemon/pkg/explorer"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func countingSelector(calls *int) bitcoin.CoinSelector {
	return func(
		utxos []explorer.Utxo, target uint64,
	) ([]explorer.Utxo, uint64, error) {
		*calls++
		return bitcoin.PickUtxos(utxos, target)
	}
}

func TestBuildTransferPlan(t *testing.T) {
	t.Run("converges_on_more_inputs", func(t *testing.T) {
		utxos := utxosWithValues(
			1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000,
		)
		calls := 0
		plan, err := bitcoin.NewPlanner(countingSelector(&calls)).Plan(utxos, 3000, 2)
		require.NoError(t, err)

		// pass 1: 3 inputs -> fee 538, pass 2: 4 inputs -> fee 654,
		// pass 3: 4 inputs.
		require.Equal(t, 3, calls)
		require.Equal(t, bitcoin.SelectionPasses, plan.Passes)
		require.Len(t, plan.Inputs, 4)
		require.Equal(t, uint64(327), plan.Vsize)
		require.Equal(t, uint64(654), plan.Fee)
		require.Equal(t, uint64(4000), plan.TotalInput)
		require.Equal(t, uint64(346), plan.Change)
		require.False(t, plan.HasChangeOutput())
		require.Equal(t, 1, plan.NumOutputs())
		require.Equal(t, uint64(1000), plan.EffectiveFee())
	})

	t.Run("third_pass_adds_inputs", func(t *testing.T) {
		tests := []struct {
			name       string
			count      int
			amount     uint64
			feeRate    float64
			wantInputs int
			wantVsize  uint64
			wantFee    uint64
			wantChange uint64
		}{
			{
				// pass 1: 3 inputs -> fee 2690, pass 2: 6 inputs -> fee 4420,
				// pass 3: 8 inputs.
				name: "ten_utxos", count: 10, amount: 3000, feeRate: 10,
				wantInputs: 8, wantVsize: 442, wantFee: 4420, wantChange: 580,
			},
			{
				// pass 1: 5 inputs -> fee 3840, pass 2: 9 inputs -> fee 6140,
				// pass 3: 12 inputs.
				name: "hundred_utxos", count: 100, amount: 5000, feeRate: 10,
				wantInputs: 12, wantVsize: 614, wantFee: 6140, wantChange: 860,
			},
		}

		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				calls := 0
				plan, err := bitcoin.NewPlanner(countingSelector(&calls)).
					Plan(repeatedUtxos(tt.count, 1000), tt.amount, tt.feeRate)
				require.NoError(t, err)
				require.Equal(t, bitcoin.SelectionPasses, calls)
				require.Len(t, plan.Inputs, tt.wantInputs)
				require.Equal(t, tt.wantVsize, plan.Vsize)
				require.Equal(t, tt.wantFee, plan.Fee)
				require.Equal(t, tt.wantChange, plan.Change)
				require.Equal(t, uint64(tt.wantInputs)*1000, plan.TotalInput)
				require.True(t, plan.HasChangeOutput())
			})
		}
	})

	t.Run("dust_change_is_dropped", func(t *testing.T) {
		plan, err := bitcoin.BuildTransferPlan(utxosWithValues(10000), 9300, 2)
		require.NoError(t, err)
		require.Equal(t, uint64(308), plan.Fee)
		require.Equal(t, uint64(392), plan.Change)
		require.False(t, plan.HasChangeOutput())
		require.Zero(t, plan.ChangeOutputValue())
		require.Equal(t, uint64(700), plan.EffectiveFee())
	})

	t.Run("change_above_dust", func(t *testing.T) {
		plan, err := bitcoin.BuildTransferPlan(utxosWithValues(10000), 9000, 2)
		require.NoError(t, err)
		require.Equal(t, uint64(692), plan.Change)
		require.True(t, plan.HasChangeOutput())
		require.Equal(t, 2, plan.NumOutputs())
		require.Equal(t, plan.Fee, plan.EffectiveFee())
	})

	t.Run("change_at_dust_threshold", func(t *testing.T) {
		plan, err := bitcoin.BuildTransferPlan(utxosWithValues(10000), 9146, 2)
		require.NoError(t, err)
		require.Equal(t, uint64(bitcoin.DustThreshold), plan.Change)
		require.False(t, plan.HasChangeOutput())
	})
}

func TestBuildTransferPlanFailures(t *testing.T) {
	t.Run("amount_not_covered", func(t *testing.T) {
		_, err := bitcoin.BuildTransferPlan(utxosWithValues(500, 300), 1000, 2)
		require.ErrorIs(t, err, bitcoin.ErrInsufficientBalance)
	})

	t.Run("fee_not_covered", func(t *testing.T) {
		_, err := bitcoin.BuildTransferPlan(utxosWithValues(1000), 900, 2)
		require.ErrorIs(t, err, bitcoin.ErrInsufficientBalance)
	})

	t.Run("zero_amount", func(t *testing.T) {
		_, err := bitcoin.BuildTransferPlan(utxosWithValues(1000), 0, 2)
		require.ErrorIs(t, err, bitcoin.ErrInvalidAmount)
	})

	t.Run("zero_fee_rate", func(t *testing.T) {
		_, err := bitcoin.BuildTransferPlan(utxosWithValues(1000), 10, 0)
		require.ErrorIs(t, err, bitcoin.ErrInvalidFeeRate)
	})
}

func TestBuildTransferPlanProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		vals := rapid.SliceOfN(rapid.Uint64Range(546, 10_000_000), 1, 30).Draw(t, "values")
		amount := rapid.Uint64Range(1, 50_000_000).Draw(t, "amount")
		feeRate := rapid.Float64Range(1, 200).Draw(t, "feeRate")

		utxos := utxosWithValues(vals...)
		feeAll := bitcoin.EstimateFee(
			bitcoin.EstimateVsize(len(utxos), bitcoin.DefaultNumOutputs), feeRate,
		)
		affordable := explorer.TotalValue(utxos) >= amount+feeAll

		calls := 0
		plan, err := bitcoin.NewPlanner(countingSelector(&calls)).
			Plan(utxos, amount, feeRate)
		if err != nil {
			require.False(t, affordable, "spending every utxo covers amount and fee")
			require.ErrorIs(t, err, bitcoin.ErrInsufficientBalance)
			require.LessOrEqual(t, calls, bitcoin.SelectionPasses)
			return
		}

		require.Equal(t, bitcoin.SelectionPasses, calls)
		require.Equal(t, bitcoin.SelectionPasses, plan.Passes)
		require.Equal(t, plan.TotalInput, plan.Amount+plan.Fee+plan.Change)
		require.Equal(t, explorer.TotalValue(plan.Inputs), plan.TotalInput)
		require.Equal(t, bitcoin.EstimateFee(plan.Vsize, feeRate), plan.Fee)
		require.LessOrEqual(
			t, plan.Vsize,
			bitcoin.EstimateVsize(len(plan.Inputs), bitcoin.DefaultNumOutputs),
		)
		require.GreaterOrEqual(t, plan.EffectiveFee(), plan.Fee)
	})
}

func repeatedUtxos(count int, value uint64) []explorer.Utxo {
	vals := make([]uint64, count)
	for i := range vals {
		vals[i] = value
	}
	return utxosWithValues(vals...)
}
