package blobstore

import (
	"context"
	"errors"

	"github.com/permavault/permavault-daemon/internal/core/domain"
	"github.com/permavault/permavault-daemon/internal/core/ports"
	"github.com/permavault/permavault-daemon/pkg/arweave"
	"github.com/permavault/permavault-daemon/pkg/mathutil"
)

type arweaveStore struct {
	client *arweave.Client
}

// NewArweaveStore returns a read-only store over an Arweave gateway. Uploads
// need a funded bundler and are not supported.
func NewArweaveStore(client *arweave.Client) ports.BlobStore {
	return &arweaveStore{client}
}

func (s *arweaveStore) Put(context.Context, []byte) (string, error) {
	return "", ErrReadOnlyStore
}

func (s *arweaveStore) Get(ctx context.Context, id string) ([]byte, error) {
	data, err := s.client.GetData(ctx, id)
	if err != nil {
		if errors.Is(err, arweave.ErrNotFound) {
			return nil, ErrBlobNotFound
		}
		if errors.Is(err, arweave.ErrInvalidTxID) {
			return nil, ErrInvalidBlobID
		}
		return nil, err
	}
	return data, nil
}

func (s *arweaveStore) Price(ctx context.Context, size int64) (*domain.Price, error) {
	winston, err := s.client.GetPrice(ctx, size)
	if err != nil {
		return nil, err
	}
	ar, err := mathutil.WinstonToAR(winston)
	if err != nil {
		return nil, err
	}
	return &domain.Price{Amount: ar, Unit: domain.ChainArweave.Symbol()}, nil
}
