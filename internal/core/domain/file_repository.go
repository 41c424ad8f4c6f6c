package domain

import "context"

// FileRepository is the abstraction for any kind of database intended to
// persist the index of stored files.
type FileRepository interface {
	// AddFile adds a new file record to the repository.
	AddFile(ctx context.Context, file *FileRecord) error
	// GetFile returns the record with the given id.
	GetFile(ctx context.Context, id string) (*FileRecord, error)
	// GetFilesForVault returns the given page of the vault files, newest first.
	GetFilesForVault(
		ctx context.Context, vaultID string, page Page,
	) ([]FileRecord, error)
	// DeleteFile removes the record with the given id.
	DeleteFile(ctx context.Context, id string) error
}
