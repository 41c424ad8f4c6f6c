package explorer

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUpstreamUnavailable is returned when the explorer cannot be reached
	// or keeps answering with server errors.
	ErrUpstreamUnavailable = errors.New("explorer is unavailable")
	// ErrMalformedResponse ...
	ErrMalformedResponse = errors.New("explorer returned a malformed response")
)

// HTTPError carries the status code and body of a non-2xx explorer response.
// The body is surfaced as the error message.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("explorer responded with status %d", e.StatusCode)
	}
	return e.Body
}

// FeeEstimates maps a confirmation target, in blocks, to a fee rate in
// sat/vbyte.
type FeeEstimates map[string]float64

// Service is representation of a Bitcoin explorer that allows to fetch
// unspents and fee estimates, and to broadcast transactions.
type Service interface {
	// GetUnspents returns the unspents locked by the given address.
	GetUnspents(ctx context.Context, addr string) ([]Utxo, error)
	// GetFeeEstimates returns the fee rates indexed by confirmation target.
	GetFeeEstimates(ctx context.Context) (FeeEstimates, error)
	// GetBalance returns confirmed plus mempool balance of the address.
	GetBalance(ctx context.Context, addr string) (int64, error)
	// BroadcastTransaction publishes the hex encoded tx and returns its id.
	// It is never retried.
	BroadcastTransaction(ctx context.Context, txHex string) (string, error)
}
