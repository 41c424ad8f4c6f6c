package inmemory

import (
	"context"
	"sort"

	"github.com/permavault/permavault-daemon/internal/core/domain"
)

type fileRepositoryImpl struct {
	store *fileInmemoryStore
}

func NewFileRepositoryImpl(store *fileInmemoryStore) domain.FileRepository {
	return &fileRepositoryImpl{store}
}

func (r *fileRepositoryImpl) AddFile(
	_ context.Context, file *domain.FileRecord,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if _, ok := r.store.files[file.ID]; ok {
		return domain.ErrFileAlreadyExists
	}
	r.store.files[file.ID] = *file
	return nil
}

func (r *fileRepositoryImpl) GetFile(
	_ context.Context, id string,
) (*domain.FileRecord, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	f, ok := r.store.files[id]
	if !ok {
		return nil, domain.ErrFileNotFound
	}
	return &f, nil
}

func (r *fileRepositoryImpl) GetFilesForVault(
	_ context.Context, vaultID string, page domain.Page,
) ([]domain.FileRecord, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	files := make([]domain.FileRecord, 0)
	for _, f := range r.store.files {
		if f.VaultID == vaultID {
			files = append(files, f)
		}
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].CreatedAt == files[j].CreatedAt {
			return files[i].ID < files[j].ID
		}
		return files[i].CreatedAt > files[j].CreatedAt
	})

	start, end := page.Bounds(len(files))
	return files[start:end], nil
}

func (r *fileRepositoryImpl) DeleteFile(_ context.Context, id string) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if _, ok := r.store.files[id]; !ok {
		return domain.ErrFileNotFound
	}
	delete(r.store.files, id)
	return nil
}
