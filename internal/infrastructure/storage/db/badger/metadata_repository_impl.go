package dbbadger

import (
	"context"
	"errors"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/permavault/permavault-daemon/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type metadata struct {
	Key   string `badgerhold:"key"`
	Name  string
	Scope string `badgerholdIndex:"Scope"`
	Value string
}

type metadataRepositoryImpl struct {
	store *badgerhold.Store
}

func NewMetadataRepositoryImpl(store *badgerhold.Store) domain.MetadataRepository {
	return &metadataRepositoryImpl{store}
}

func (r *metadataRepositoryImpl) GetMetadata(
	ctx context.Context, key domain.MetadataKey,
) (string, error) {
	var m metadata
	err := execTx(ctx, r.store, func(tx *badger.Txn) error {
		return r.store.TxGet(tx, key.String(), &m)
	})
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return "", domain.ErrMetadataNotFound
		}
		return "", err
	}
	return m.Value, nil
}

func (r *metadataRepositoryImpl) SetMetadata(
	ctx context.Context, key domain.MetadataKey, value string,
) error {
	m := &metadata{
		Key:   key.String(),
		Name:  key.Name,
		Scope: key.Scope,
		Value: value,
	}
	return execTx(ctx, r.store, func(tx *badger.Txn) error {
		return r.store.TxUpsert(tx, m.Key, m)
	})
}

func (r *metadataRepositoryImpl) GetMetadataForVault(
	ctx context.Context, vaultID string,
) ([]domain.Metadata, error) {
	var rows []metadata
	err := execTx(ctx, r.store, func(tx *badger.Txn) error {
		return r.store.TxFind(tx, &rows, badgerhold.Where("Scope").Eq(vaultID))
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	res := make([]domain.Metadata, 0, len(rows))
	for _, m := range rows {
		res = append(res, domain.Metadata{
			Key:   domain.MetadataKey{Scope: m.Scope, Name: m.Name},
			Value: m.Value,
		})
	}
	return res, nil
}

func (r *metadataRepositoryImpl) DeleteMetadata(
	ctx context.Context, key domain.MetadataKey,
) error {
	err := execTx(ctx, r.store, func(tx *badger.Txn) error {
		return r.store.TxDelete(tx, key.String(), metadata{})
	})
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil
	}
	return err
}
