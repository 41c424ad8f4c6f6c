package domain

import "context"

// WalletRepository is the abstraction for any kind of database intended to
// persist WalletRecords.
type WalletRepository interface {
	// AddWallet inserts the record and returns its newly assigned id. Adding an
	// address already registered for the same vault fails with
	// ErrWalletAlreadyExists.
	AddWallet(ctx context.Context, wallet *WalletRecord) (uint64, error)
	// GetWallet returns the record with the given id.
	GetWallet(ctx context.Context, id uint64) (*WalletRecord, error)
	// GetWalletByAddress returns the record registered for the address under
	// the given vault.
	GetWalletByAddress(
		ctx context.Context, vaultID, address string,
	) (*WalletRecord, error)
	// GetWalletsForVault returns all records of a vault sorted by id.
	GetWalletsForVault(ctx context.Context, vaultID string) ([]WalletRecord, error)
	// CountWallets returns the number of records of all vaults.
	CountWallets(ctx context.Context) (int, error)
	// UpdateWallet updates a record. The closure receives the stored record and
	// returns the one to persist.
	UpdateWallet(
		ctx context.Context,
		id uint64, updateFn func(w *WalletRecord) (*WalletRecord, error),
	) error
	// DeleteWallet removes the record with the given id.
	DeleteWallet(ctx context.Context, id uint64) error
	// DeleteWalletsForVault removes all records of a vault and returns how many
	// were removed.
	DeleteWalletsForVault(ctx context.Context, vaultID string) (int, error)
}
