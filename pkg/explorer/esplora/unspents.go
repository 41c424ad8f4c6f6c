package esplora

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/permavault/permavault-daemon/pkg/explorer"
)

func (e *esplora) GetUnspents(
	ctx context.Context, addr string,
) ([]explorer.Utxo, error) {
	body, err := e.doGet(ctx, fmt.Sprintf("/address/%s/utxo", url.PathEscape(addr)))
	if err != nil {
		return nil, fmt.Errorf("error on retrieving utxos: %w", err)
	}

	var utxos []explorer.Utxo
	if err := json.Unmarshal(body, &utxos); err != nil {
		return nil, fmt.Errorf("%w: %s", explorer.ErrMalformedResponse, err)
	}
	return utxos, nil
}

type addressStats struct {
	FundedTxoSum int64 `json:"funded_txo_sum"`
	SpentTxoSum  int64 `json:"spent_txo_sum"`
}

type addressInfo struct {
	Address      string       `json:"address"`
	ChainStats   addressStats `json:"chain_stats"`
	MempoolStats addressStats `json:"mempool_stats"`
}

func (e *esplora) GetBalance(ctx context.Context, addr string) (int64, error) {
	body, err := e.doGet(ctx, fmt.Sprintf("/address/%s", url.PathEscape(addr)))
	if err != nil {
		return 0, fmt.Errorf("error on retrieving balance: %w", err)
	}

	var info addressInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return 0, fmt.Errorf("%w: %s", explorer.ErrMalformedResponse, err)
	}
	confirmed := info.ChainStats.FundedTxoSum - info.ChainStats.SpentTxoSum
	unconfirmed := info.MempoolStats.FundedTxoSum - info.MempoolStats.SpentTxoSum
	return confirmed + unconfirmed, nil
}
