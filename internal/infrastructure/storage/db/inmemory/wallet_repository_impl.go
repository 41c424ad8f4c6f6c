package inmemory

import (
	"context"
	"sort"

	"github.com/permavault/permavault-daemon/internal/core/domain"
)

type walletRepositoryImpl struct {
	store *walletInmemoryStore
}

func NewWalletRepositoryImpl(store *walletInmemoryStore) domain.WalletRepository {
	return &walletRepositoryImpl{store}
}

func (r *walletRepositoryImpl) AddWallet(
	_ context.Context, wallet *domain.WalletRecord,
) (uint64, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	key := addressKey(wallet.VaultID, wallet.Address)
	if _, ok := r.store.addresses[key]; ok {
		return 0, domain.ErrWalletAlreadyExists
	}

	r.store.nextID++
	w := *wallet
	w.ID = r.store.nextID
	r.store.wallets[w.ID] = w
	r.store.addresses[key] = w.ID
	return w.ID, nil
}

func (r *walletRepositoryImpl) GetWallet(
	_ context.Context, id uint64,
) (*domain.WalletRecord, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	w, ok := r.store.wallets[id]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	return &w, nil
}

func (r *walletRepositoryImpl) GetWalletByAddress(
	_ context.Context, vaultID, address string,
) (*domain.WalletRecord, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	id, ok := r.store.addresses[addressKey(vaultID, address)]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	w := r.store.wallets[id]
	return &w, nil
}

func (r *walletRepositoryImpl) GetWalletsForVault(
	_ context.Context, vaultID string,
) ([]domain.WalletRecord, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	wallets := make([]domain.WalletRecord, 0)
	for _, w := range r.store.wallets {
		if w.VaultID == vaultID {
			wallets = append(wallets, w)
		}
	}
	sort.Slice(wallets, func(i, j int) bool { return wallets[i].ID < wallets[j].ID })
	return wallets, nil
}

func (r *walletRepositoryImpl) CountWallets(_ context.Context) (int, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	return len(r.store.wallets), nil
}

func (r *walletRepositoryImpl) UpdateWallet(
	_ context.Context,
	id uint64, updateFn func(w *domain.WalletRecord) (*domain.WalletRecord, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	current, ok := r.store.wallets[id]
	if !ok {
		return domain.ErrWalletNotFound
	}
	w := current
	updated, err := updateFn(&w)
	if err != nil {
		return err
	}
	updated.ID = id

	oldKey := addressKey(current.VaultID, current.Address)
	newKey := addressKey(updated.VaultID, updated.Address)
	if newKey != oldKey {
		if _, ok := r.store.addresses[newKey]; ok {
			return domain.ErrWalletAlreadyExists
		}
		delete(r.store.addresses, oldKey)
		r.store.addresses[newKey] = id
	}
	r.store.wallets[id] = *updated
	return nil
}

func (r *walletRepositoryImpl) DeleteWallet(_ context.Context, id uint64) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if _, ok := r.store.wallets[id]; !ok {
		return domain.ErrWalletNotFound
	}
	r.deleteWallet(id)
	return nil
}

func (r *walletRepositoryImpl) DeleteWalletsForVault(
	_ context.Context, vaultID string,
) (int, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	count := 0
	for id, w := range r.store.wallets {
		if w.VaultID == vaultID {
			r.deleteWallet(id)
			count++
		}
	}
	return count, nil
}

func (r *walletRepositoryImpl) deleteWallet(id uint64) {
	w := r.store.wallets[id]
	delete(r.store.addresses, addressKey(w.VaultID, w.Address))
	delete(r.store.wallets, id)
}

func addressKey(vaultID, address string) string {
	return vaultID + "/" + address
}
