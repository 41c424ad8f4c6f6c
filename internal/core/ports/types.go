package ports

import (
	"context"

	"github.com/permavault/permavault-daemon/internal/core/domain"
)

type Balance interface {
	GetChain() domain.Chain
	GetAddress() string
	// GetAmount returns the balance in the chain's smallest unit.
	GetAmount() string
	// GetDisplayAmount returns the balance in the chain's native coin.
	GetDisplayAmount() string
}

// BalanceProvider queries the balance of addresses of a single chain.
type BalanceProvider interface {
	Chain() domain.Chain
	GetBalance(ctx context.Context, address string) (Balance, error)
}

// BlobStore is a content-addressed store for encrypted file payloads.
type BlobStore interface {
	Put(ctx context.Context, data []byte) (string, error)
	Get(ctx context.Context, id string) ([]byte, error)
	Price(ctx context.Context, size int64) (*domain.Price, error)
}
