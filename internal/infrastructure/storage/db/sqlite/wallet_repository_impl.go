package sqlitedb

import (
	"context"
	"database/sql"
	"errors"

	"github.com/permavault/permavault-daemon/internal/core/domain"
)

const (
	walletColumns = "id, address, encrypted_key, alias, chain, vault_id, created_at"

	insertWalletQuery = `INSERT INTO wallets
		(address, encrypted_key, alias, chain, vault_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	selectWalletQuery          = "SELECT " + walletColumns + " FROM wallets WHERE id = ?"
	selectWalletByAddressQuery = "SELECT " + walletColumns +
		" FROM wallets WHERE vault_id = ? AND address = ?"
	selectWalletsForVaultQuery = "SELECT " + walletColumns +
		" FROM wallets WHERE vault_id = ? ORDER BY id"
	countWalletsQuery = "SELECT COUNT(*) FROM wallets"
	updateWalletQuery = `UPDATE wallets
		SET address = ?, encrypted_key = ?, alias = ?, chain = ?, vault_id = ?
		WHERE id = ?`
	deleteWalletQuery          = "DELETE FROM wallets WHERE id = ?"
	deleteWalletsForVaultQuery = "DELETE FROM wallets WHERE vault_id = ?"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

type walletRepositoryImpl struct {
	db     *sql.DB
	execTx func(ctx context.Context, txBody func(*sql.Tx) error) error
}

func NewWalletRepositoryImpl(
	db *sql.DB,
	execTx func(ctx context.Context, txBody func(*sql.Tx) error) error,
) domain.WalletRepository {
	return &walletRepositoryImpl{db, execTx}
}

func (r *walletRepositoryImpl) AddWallet(
	ctx context.Context, wallet *domain.WalletRecord,
) (uint64, error) {
	res, err := r.db.ExecContext(
		ctx, insertWalletQuery,
		wallet.Address, wallet.EncryptedKey, wallet.Alias, wallet.Chain.String(),
		wallet.VaultID, wallet.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrWalletAlreadyExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (r *walletRepositoryImpl) GetWallet(
	ctx context.Context, id uint64,
) (*domain.WalletRecord, error) {
	return scanWallet(r.db.QueryRowContext(ctx, selectWalletQuery, id))
}

func (r *walletRepositoryImpl) GetWalletByAddress(
	ctx context.Context, vaultID, address string,
) (*domain.WalletRecord, error) {
	return scanWallet(
		r.db.QueryRowContext(ctx, selectWalletByAddressQuery, vaultID, address),
	)
}

func (r *walletRepositoryImpl) GetWalletsForVault(
	ctx context.Context, vaultID string,
) ([]domain.WalletRecord, error) {
	rows, err := r.db.QueryContext(ctx, selectWalletsForVaultQuery, vaultID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	wallets := make([]domain.WalletRecord, 0)
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, *w)
	}
	return wallets, rows.Err()
}

func (r *walletRepositoryImpl) CountWallets(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, countWalletsQuery).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *walletRepositoryImpl) UpdateWallet(
	ctx context.Context,
	id uint64, updateFn func(w *domain.WalletRecord) (*domain.WalletRecord, error),
) error {
	err := r.execTx(ctx, func(tx *sql.Tx) error {
		w, err := scanWallet(tx.QueryRowContext(ctx, selectWalletQuery, id))
		if err != nil {
			return err
		}
		updated, err := updateFn(w)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(
			ctx, updateWalletQuery,
			updated.Address, updated.EncryptedKey, updated.Alias,
			updated.Chain.String(), updated.VaultID, id,
		)
		return err
	})
	if err != nil && isUniqueViolation(err) {
		return domain.ErrWalletAlreadyExists
	}
	return err
}

func (r *walletRepositoryImpl) DeleteWallet(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, deleteWalletQuery, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrWalletNotFound
	}
	return nil
}

func (r *walletRepositoryImpl) DeleteWalletsForVault(
	ctx context.Context, vaultID string,
) (int, error) {
	res, err := r.db.ExecContext(ctx, deleteWalletsForVaultQuery, vaultID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func scanWallet(row rowScanner) (*domain.WalletRecord, error) {
	var (
		w     domain.WalletRecord
		chain string
	)
	if err := row.Scan(
		&w.ID, &w.Address, &w.EncryptedKey, &w.Alias, &chain, &w.VaultID,
		&w.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}
	w.Chain = domain.ParseChain(chain)
	return &w, nil
}
