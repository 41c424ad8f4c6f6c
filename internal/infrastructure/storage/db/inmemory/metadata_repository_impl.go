package inmemory

import (
	"context"
	"sort"

	"github.com/permavault/permavault-daemon/internal/core/domain"
)

type metadataRepositoryImpl struct {
	store *metadataInmemoryStore
}

func NewMetadataRepositoryImpl(store *metadataInmemoryStore) domain.MetadataRepository {
	return &metadataRepositoryImpl{store}
}

func (r *metadataRepositoryImpl) GetMetadata(
	_ context.Context, key domain.MetadataKey,
) (string, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	value, ok := r.store.metadata[key]
	if !ok {
		return "", domain.ErrMetadataNotFound
	}
	return value, nil
}

func (r *metadataRepositoryImpl) SetMetadata(
	_ context.Context, key domain.MetadataKey, value string,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	r.store.metadata[key] = value
	return nil
}

func (r *metadataRepositoryImpl) GetMetadataForVault(
	_ context.Context, vaultID string,
) ([]domain.Metadata, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	res := make([]domain.Metadata, 0)
	for key, value := range r.store.metadata {
		if key.Scope == vaultID {
			res = append(res, domain.Metadata{Key: key, Value: value})
		}
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Key.String() < res[j].Key.String()
	})
	return res, nil
}

func (r *metadataRepositoryImpl) DeleteMetadata(
	_ context.Context, key domain.MetadataKey,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	delete(r.store.metadata, key)
	return nil
}
