package application

import (
	"context"

	"github.com/permavault/permavault-daemon/internal/core/application/vault"
	"github.com/permavault/permavault-daemon/internal/core/ports"
)

type VaultService interface {
	Unlock(ctx context.Context, password string) error
	Lock(ctx context.Context)
	Status(ctx context.Context) (*vault.Status, error)
}

func NewVaultService(
	repoManager ports.RepoManager, kdfIterations int,
) (VaultService, error) {
	return vault.NewService(repoManager, kdfIterations)
}
