package esplora

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/permavault/permavault-daemon/pkg/explorer"
)

func (e *esplora) GetFeeEstimates(
	ctx context.Context,
) (explorer.FeeEstimates, error) {
	body, err := e.doGet(ctx, "/fee-estimates")
	if err != nil {
		return nil, fmt.Errorf("error on retrieving fee estimates: %w", err)
	}

	var estimates explorer.FeeEstimates
	if err := json.Unmarshal(body, &estimates); err != nil {
		return nil, fmt.Errorf("%w: %s", explorer.ErrMalformedResponse, err)
	}
	return estimates, nil
}
