package domain

import "context"

// MetadataRepository is the abstraction for any kind of database intended to
// persist vault Metadata.
type MetadataRepository interface {
	// GetMetadata returns the value for the key or ErrMetadataNotFound.
	GetMetadata(ctx context.Context, key MetadataKey) (string, error)
	// SetMetadata inserts or overwrites the value for the key.
	SetMetadata(ctx context.Context, key MetadataKey, value string) error
	// GetMetadataForVault returns all rows scoped to the given vault.
	GetMetadataForVault(ctx context.Context, vaultID string) ([]Metadata, error)
	// DeleteMetadata removes the key. Deleting a missing key is not an error.
	DeleteMetadata(ctx context.Context, key MetadataKey) error
}
