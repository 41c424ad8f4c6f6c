package sqlitedb

import (
	"context"
	"database/sql"
	"errors"

	"github.com/permavault/permavault-daemon/internal/core/domain"
)

const (
	fileColumns = "id, vault_id, name, content_type, size, blob_id, created_at"

	insertFileQuery = `INSERT INTO files
		(id, vault_id, name, content_type, size, blob_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	selectFileQuery          = "SELECT " + fileColumns + " FROM files WHERE id = ?"
	selectFilesForVaultQuery = "SELECT " + fileColumns +
		" FROM files WHERE vault_id = ? ORDER BY created_at DESC, id LIMIT ? OFFSET ?"
	deleteFileQuery = "DELETE FROM files WHERE id = ?"
)

type fileRepositoryImpl struct {
	db *sql.DB
}

func NewFileRepositoryImpl(db *sql.DB) domain.FileRepository {
	return &fileRepositoryImpl{db}
}

func (r *fileRepositoryImpl) AddFile(ctx context.Context, f *domain.FileRecord) error {
	_, err := r.db.ExecContext(
		ctx, insertFileQuery,
		f.ID, f.VaultID, f.Name, f.ContentType, f.Size, f.BlobID, f.CreatedAt,
	)
	if err != nil && isUniqueViolation(err) {
		return domain.ErrFileAlreadyExists
	}
	return err
}

func (r *fileRepositoryImpl) GetFile(
	ctx context.Context, id string,
) (*domain.FileRecord, error) {
	return scanFile(r.db.QueryRowContext(ctx, selectFileQuery, id))
}

func (r *fileRepositoryImpl) GetFilesForVault(
	ctx context.Context, vaultID string, page domain.Page,
) ([]domain.FileRecord, error) {
	rows, err := r.db.QueryContext(
		ctx, selectFilesForVaultQuery, vaultID, page.Size, page.Offset(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	files := make([]domain.FileRecord, 0)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, *f)
	}
	return files, rows.Err()
}

func (r *fileRepositoryImpl) DeleteFile(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteFileQuery, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrFileNotFound
	}
	return nil
}

func scanFile(row rowScanner) (*domain.FileRecord, error) {
	var f domain.FileRecord
	if err := row.Scan(
		&f.ID, &f.VaultID, &f.Name, &f.ContentType, &f.Size, &f.BlobID,
		&f.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFileNotFound
		}
		return nil, err
	}
	return &f, nil
}
