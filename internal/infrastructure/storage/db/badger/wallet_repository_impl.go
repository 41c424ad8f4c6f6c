package dbbadger

import (
	"context"
	"errors"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/permavault/permavault-daemon/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

// wallet is the stored form of a domain.WalletRecord.
type wallet struct {
	ID           uint64 `badgerhold:"key"`
	Address      string
	EncryptedKey string
	Alias        string
	Chain        string
	VaultID      string `badgerholdIndex:"VaultID"`
	CreatedAt    int64
}

// walletSequence holds the last assigned wallet id, ids start from 1.
type walletSequence struct {
	Last uint64
}

const walletSequenceKey = "wallets"

// walletAddress reserves an (address, vault) pair. Inserting it fails with
// ErrKeyExists if the pair is taken.
type walletAddress struct {
	WalletID uint64
}

type walletRepositoryImpl struct {
	store *badgerhold.Store
}

func NewWalletRepositoryImpl(store *badgerhold.Store) domain.WalletRepository {
	return &walletRepositoryImpl{store}
}

func (r *walletRepositoryImpl) AddWallet(
	ctx context.Context, w *domain.WalletRecord,
) (uint64, error) {
	stored := fromDomainWallet(*w)
	err := execTx(ctx, r.store, func(tx *badger.Txn) error {
		id, err := r.nextID(tx)
		if err != nil {
			return err
		}
		stored.ID = id
		if err := r.store.TxInsert(tx, id, stored); err != nil {
			return err
		}
		return r.reserveAddress(tx, stored)
	})
	if err != nil {
		return 0, err
	}
	return stored.ID, nil
}

func (r *walletRepositoryImpl) GetWallet(
	ctx context.Context, id uint64,
) (*domain.WalletRecord, error) {
	var w wallet
	err := execTx(ctx, r.store, func(tx *badger.Txn) error {
		return r.store.TxGet(tx, id, &w)
	})
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}
	w.ID = id
	return w.toDomain(), nil
}

func (r *walletRepositoryImpl) GetWalletByAddress(
	ctx context.Context, vaultID, address string,
) (*domain.WalletRecord, error) {
	var ref walletAddress
	err := execTx(ctx, r.store, func(tx *badger.Txn) error {
		return r.store.TxGet(tx, addressKey(vaultID, address), &ref)
	})
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}
	return r.GetWallet(ctx, ref.WalletID)
}

func (r *walletRepositoryImpl) GetWalletsForVault(
	ctx context.Context, vaultID string,
) ([]domain.WalletRecord, error) {
	return r.findWallets(ctx, badgerhold.Where("VaultID").Eq(vaultID))
}

func (r *walletRepositoryImpl) CountWallets(ctx context.Context) (int, error) {
	wallets, err := r.findWallets(ctx, nil)
	if err != nil {
		return 0, err
	}
	return len(wallets), nil
}

func (r *walletRepositoryImpl) UpdateWallet(
	ctx context.Context,
	id uint64, updateFn func(w *domain.WalletRecord) (*domain.WalletRecord, error),
) error {
	return execTx(ctx, r.store, func(tx *badger.Txn) error {
		var current wallet
		if err := r.store.TxGet(tx, id, &current); err != nil {
			if errors.Is(err, badgerhold.ErrNotFound) {
				return domain.ErrWalletNotFound
			}
			return err
		}
		current.ID = id

		updatedWallet, err := updateFn(current.toDomain())
		if err != nil {
			return err
		}
		updated := fromDomainWallet(*updatedWallet)
		updated.ID = id

		oldKey := addressKey(current.VaultID, current.Address)
		if newKey := addressKey(updated.VaultID, updated.Address); newKey != oldKey {
			if err := r.reserveAddress(tx, updated); err != nil {
				return err
			}
			if err := r.store.TxDelete(tx, oldKey, walletAddress{}); err != nil {
				return err
			}
		}
		return r.store.TxUpdate(tx, id, updated)
	})
}

func (r *walletRepositoryImpl) DeleteWallet(ctx context.Context, id uint64) error {
	return execTx(ctx, r.store, func(tx *badger.Txn) error {
		return r.deleteWallet(tx, id)
	})
}

func (r *walletRepositoryImpl) DeleteWalletsForVault(
	ctx context.Context, vaultID string,
) (int, error) {
	count := 0
	err := execTx(ctx, r.store, func(tx *badger.Txn) error {
		var wallets []wallet
		if err := r.store.TxFind(
			tx, &wallets, badgerhold.Where("VaultID").Eq(vaultID),
		); err != nil {
			return err
		}
		for _, w := range wallets {
			if err := r.deleteWallet(tx, w.ID); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *walletRepositoryImpl) deleteWallet(tx *badger.Txn, id uint64) error {
	var w wallet
	if err := r.store.TxGet(tx, id, &w); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return domain.ErrWalletNotFound
		}
		return err
	}
	if err := r.store.TxDelete(
		tx, addressKey(w.VaultID, w.Address), walletAddress{},
	); err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return err
	}
	return r.store.TxDelete(tx, id, wallet{})
}

func (r *walletRepositoryImpl) nextID(tx *badger.Txn) (uint64, error) {
	var seq walletSequence
	if err := r.store.TxGet(tx, walletSequenceKey, &seq); err != nil &&
		!errors.Is(err, badgerhold.ErrNotFound) {
		return 0, err
	}
	seq.Last++
	if err := r.store.TxUpsert(tx, walletSequenceKey, &seq); err != nil {
		return 0, err
	}
	return seq.Last, nil
}

func (r *walletRepositoryImpl) reserveAddress(tx *badger.Txn, w *wallet) error {
	err := r.store.TxInsert(
		tx, addressKey(w.VaultID, w.Address), walletAddress{w.ID},
	)
	if errors.Is(err, badgerhold.ErrKeyExists) {
		return domain.ErrWalletAlreadyExists
	}
	return err
}

func (r *walletRepositoryImpl) findWallets(
	ctx context.Context, query *badgerhold.Query,
) ([]domain.WalletRecord, error) {
	var wallets []wallet
	err := execTx(ctx, r.store, func(tx *badger.Txn) error {
		return r.store.TxFind(tx, &wallets, query)
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(wallets, func(i, j int) bool { return wallets[i].ID < wallets[j].ID })
	res := make([]domain.WalletRecord, 0, len(wallets))
	for _, w := range wallets {
		res = append(res, *w.toDomain())
	}
	return res, nil
}

func addressKey(vaultID, address string) string {
	return vaultID + "/" + address
}

func fromDomainWallet(w domain.WalletRecord) *wallet {
	return &wallet{
		ID:           w.ID,
		Address:      w.Address,
		EncryptedKey: w.EncryptedKey,
		Alias:        w.Alias,
		Chain:        w.Chain.String(),
		VaultID:      w.VaultID,
		CreatedAt:    w.CreatedAt,
	}
}

func (w wallet) toDomain() *domain.WalletRecord {
	return &domain.WalletRecord{
		ID:           w.ID,
		Address:      w.Address,
		EncryptedKey: w.EncryptedKey,
		Alias:        w.Alias,
		Chain:        domain.ParseChain(w.Chain),
		VaultID:      w.VaultID,
		CreatedAt:    w.CreatedAt,
	}
}
