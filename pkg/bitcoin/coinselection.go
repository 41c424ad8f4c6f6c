package bitcoin

import (
	"fmt"
	"sort"

	"github.com/permavault/permavault-daemon/pkg/explorer"
)

// CoinSelector picks a subset of utxos covering target. It returns the
// selection and its total value.
type CoinSelector func(
	utxos []explorer.Utxo, target uint64,
) (selected []explorer.Utxo, total uint64, err error)

// PickUtxos performs a smallest-first greedy selection: utxos are sorted by
// ascending value and accumulated until their total covers target.
// The given slice is not modified.
func PickUtxos(
	utxos []explorer.Utxo, target uint64,
) ([]explorer.Utxo, uint64, error) {
	sorted := make([]explorer.Utxo, len(utxos))
	copy(sorted, utxos)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value < sorted[j].Value
	})

	selected := make([]explorer.Utxo, 0)
	total := uint64(0)
	for _, u := range sorted {
		if total >= target && len(selected) > 0 {
			break
		}
		selected = append(selected, u)
		total += u.Value
	}

	if total < target {
		return nil, 0, fmt.Errorf(
			"%w: need %d sats, have %d", ErrInsufficientBalance, target, total,
		)
	}
	return selected, total, nil
}
