package sqlitedb

import (
	"context"
	"database/sql"
	"errors"

	"github.com/permavault/permavault-daemon/internal/core/domain"
	log "github.com/sirupsen/logrus"
)

const (
	selectMetadataQuery    = "SELECT value FROM vault_metadata WHERE key = ?"
	selectAllMetadataQuery = "SELECT key, value FROM vault_metadata ORDER BY key"
	upsertMetadataQuery    = `INSERT INTO vault_metadata (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`
	deleteMetadataQuery = "DELETE FROM vault_metadata WHERE key = ?"
)

type metadataRepositoryImpl struct {
	db *sql.DB
}

func NewMetadataRepositoryImpl(db *sql.DB) domain.MetadataRepository {
	return &metadataRepositoryImpl{db}
}

func (r *metadataRepositoryImpl) GetMetadata(
	ctx context.Context, key domain.MetadataKey,
) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, selectMetadataQuery, key.String()).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrMetadataNotFound
		}
		return "", err
	}
	return value, nil
}

func (r *metadataRepositoryImpl) SetMetadata(
	ctx context.Context, key domain.MetadataKey, value string,
) error {
	_, err := r.db.ExecContext(ctx, upsertMetadataQuery, key.String(), value)
	return err
}

// GetMetadataForVault scans the whole table since the scope is only encoded
// in the key suffix.
func (r *metadataRepositoryImpl) GetMetadataForVault(
	ctx context.Context, vaultID string,
) ([]domain.Metadata, error) {
	rows, err := r.db.QueryContext(ctx, selectAllMetadataQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metadata := make([]domain.Metadata, 0)
	for rows.Next() {
		var rawKey, value string
		if err := rows.Scan(&rawKey, &value); err != nil {
			return nil, err
		}
		key, err := domain.ParseMetadataKey(rawKey)
		if err != nil {
			log.WithError(err).Warnf("skipping metadata row %q", rawKey)
			continue
		}
		if key.Scope == vaultID {
			metadata = append(metadata, domain.Metadata{Key: key, Value: value})
		}
	}
	return metadata, rows.Err()
}

func (r *metadataRepositoryImpl) DeleteMetadata(
	ctx context.Context, key domain.MetadataKey,
) error {
	_, err := r.db.ExecContext(ctx, deleteMetadataQuery, key.String())
	return err
}
