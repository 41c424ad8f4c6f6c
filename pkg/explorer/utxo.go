package explorer

import "fmt"

// Utxo is an unspent output as returned by the explorer's
// /address/{address}/utxo endpoint.
type Utxo struct {
	TxID   string     `json:"txid"`
	Vout   uint32     `json:"vout"`
	Value  uint64     `json:"value"`
	Status UtxoStatus `json:"status"`
}

// UtxoStatus reports whether the utxo is confirmed.
type UtxoStatus struct {
	Confirmed   bool   `json:"confirmed"`
	BlockHeight uint32 `json:"block_height,omitempty"`
	BlockHash   string `json:"block_hash,omitempty"`
	BlockTime   int64  `json:"block_time,omitempty"`
}

// Key returns the outpoint in the form txid:vout.
func (u Utxo) Key() string {
	return fmt.Sprintf("%s:%d", u.TxID, u.Vout)
}

// TotalValue sums the values of the given utxos.
func TotalValue(utxos []Utxo) uint64 {
	total := uint64(0)
	for _, u := range utxos {
		total += u.Value
	}
	return total
}
