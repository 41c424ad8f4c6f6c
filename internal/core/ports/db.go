package ports

import "github.com/permavault/permavault-daemon/internal/core/domain"

// RepoManager interface defines the methods to access the vault repositories.
type RepoManager interface {
	WalletRepository() domain.WalletRepository
	MetadataRepository() domain.MetadataRepository
	FileRepository() domain.FileRepository

	Close()
}
