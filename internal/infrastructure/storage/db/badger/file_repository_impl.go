package dbbadger

import (
	"context"
	"errors"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/permavault/permavault-daemon/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type file struct {
	ID          string `badgerhold:"key"`
	VaultID     string `badgerholdIndex:"VaultID"`
	Name        string
	ContentType string
	Size        int64
	BlobID      string
	CreatedAt   int64
}

type fileRepositoryImpl struct {
	store *badgerhold.Store
}

func NewFileRepositoryImpl(store *badgerhold.Store) domain.FileRepository {
	return &fileRepositoryImpl{store}
}

func (r *fileRepositoryImpl) AddFile(
	ctx context.Context, f *domain.FileRecord,
) error {
	stored := file(*f)
	err := execTx(ctx, r.store, func(tx *badger.Txn) error {
		return r.store.TxInsert(tx, stored.ID, &stored)
	})
	if errors.Is(err, badgerhold.ErrKeyExists) {
		return domain.ErrFileAlreadyExists
	}
	return err
}

func (r *fileRepositoryImpl) GetFile(
	ctx context.Context, id string,
) (*domain.FileRecord, error) {
	var f file
	err := execTx(ctx, r.store, func(tx *badger.Txn) error {
		return r.store.TxGet(tx, id, &f)
	})
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrFileNotFound
		}
		return nil, err
	}
	f.ID = id
	record := domain.FileRecord(f)
	return &record, nil
}

func (r *fileRepositoryImpl) GetFilesForVault(
	ctx context.Context, vaultID string, page domain.Page,
) ([]domain.FileRecord, error) {
	var files []file
	err := execTx(ctx, r.store, func(tx *badger.Txn) error {
		return r.store.TxFind(tx, &files, badgerhold.Where("VaultID").Eq(vaultID))
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i].CreatedAt == files[j].CreatedAt {
			return files[i].ID < files[j].ID
		}
		return files[i].CreatedAt > files[j].CreatedAt
	})

	start, end := page.Bounds(len(files))
	res := make([]domain.FileRecord, 0, end-start)
	for _, f := range files[start:end] {
		res = append(res, domain.FileRecord(f))
	}
	return res, nil
}

func (r *fileRepositoryImpl) DeleteFile(ctx context.Context, id string) error {
	err := execTx(ctx, r.store, func(tx *badger.Txn) error {
		return r.store.TxDelete(tx, id, file{})
	})
	if errors.Is(err, badgerhold.ErrNotFound) {
		return domain.ErrFileNotFound
	}
	return err
}
