package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileRecord indexes an encrypted file stored in a blob store.
type FileRecord struct {
	ID          string
	VaultID     string
	Name        string
	ContentType string
	Size        int64
	BlobID      string
	CreatedAt   int64
}

func NewFileRecord(
	vaultID, name, contentType string, size int64, blobID string,
) (*FileRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNullFileName
	}
	if vaultID == "" {
		return nil, ErrNullVaultID
	}
	return &FileRecord{
		ID:          uuid.New().String(),
		VaultID:     vaultID,
		Name:        name,
		ContentType: contentType,
		Size:        size,
		BlobID:      blobID,
		CreatedAt:   time.Now().UnixMilli(),
	}, nil
}

// Price is a storage cost expressed in the store's native unit.
type Price struct {
	Amount string
	Unit   string
}
