package application

import (
	"context"

	"github.com/permavault/permavault-daemon/internal/core/application/backup"
	"github.com/permavault/permavault-daemon/internal/core/application/vault"
	"github.com/permavault/permavault-daemon/internal/core/ports"
)

type BackupService interface {
	Export(ctx context.Context) (*backup.Export, error)
	Import(ctx context.Context, data []byte, merge bool) backup.ImportResult
}

func NewBackupService(
	vaultSvc VaultService, repoManager ports.RepoManager,
) (BackupService, error) {
	v, _ := vaultSvc.(*vault.Service)
	return backup.NewService(v, repoManager)
}
