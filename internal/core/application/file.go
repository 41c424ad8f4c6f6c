package application

import (
	"context"

	"github.com/permavault/permavault-daemon/internal/core/application/file"
	"github.com/permavault/permavault-daemon/internal/core/application/vault"
	"github.com/permavault/permavault-daemon/internal/core/domain"
	"github.com/permavault/permavault-daemon/internal/core/ports"
)

type FileService interface {
	Upload(ctx context.Context, name string, data []byte) (*domain.FileRecord, error)
	List(ctx context.Context, page domain.Page) ([]domain.FileRecord, error)
	Download(ctx context.Context, id string) (*domain.FileRecord, []byte, error)
	Delete(ctx context.Context, id string) error
	Price(ctx context.Context, size int64) (*domain.Price, error)
}

func NewFileService(
	vaultSvc VaultService, repoManager ports.RepoManager, blobStore ports.BlobStore,
) (FileService, error) {
	v, _ := vaultSvc.(*vault.Service)
	return file.NewService(v, repoManager, blobStore)
}
