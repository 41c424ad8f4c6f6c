package esplora

import (
	"context"
	"strings"
)

func (e *esplora) BroadcastTransaction(
	ctx context.Context, txHex string,
) (string, error) {
	body, err := e.doPost(ctx, "/tx", txHex)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}
