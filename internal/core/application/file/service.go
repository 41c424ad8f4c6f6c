package file

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/permavault/permavault-daemon/internal/core/application/vault"
	"github.com/permavault/permavault-daemon/internal/core/domain"
	"github.com/permavault/permavault-daemon/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

// MaxFileSize is the largest payload accepted for upload.
const MaxFileSize = 32 << 20

var (
	// ErrEmptyFile ...
	ErrEmptyFile = errors.New("file must not be empty")
	// ErrFileTooLarge ...
	ErrFileTooLarge = fmt.Errorf("file exceeds max size of %d bytes", MaxFileSize)
)

// Service stores files encrypted under the master key in a blob store and
// keeps their index in the vault db.
type Service struct {
	vault *vault.Service
	repo  ports.RepoManager
	blobs ports.BlobStore
}

func NewService(
	vaultSvc *vault.Service, repo ports.RepoManager, blobStore ports.BlobStore,
) (*Service, error) {
	if vaultSvc == nil {
		return nil, fmt.Errorf("missing vault service")
	}
	if repo == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if blobStore == nil {
		return nil, fmt.Errorf("missing blob store")
	}
	return &Service{vaultSvc, repo, blobStore}, nil
}

func (s *Service) Upload(
	ctx context.Context, name string, data []byte,
) (*domain.FileRecord, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.ErrNullFileName
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if len(data) > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	vaultID, err := s.vault.VaultID()
	if err != nil {
		return nil, err
	}

	contentType := mimetype.Detect(data).String()
	sealed, err := s.vault.Seal(data)
	if err != nil {
		return nil, err
	}
	blobID, err := s.blobs.Put(ctx, []byte(sealed))
	if err != nil {
		return nil, err
	}

	file, err := domain.NewFileRecord(
		vaultID, name, contentType, int64(len(data)), blobID,
	)
	if err != nil {
		return nil, err
	}
	if err := s.repo.FileRepository().AddFile(ctx, file); err != nil {
		return nil, err
	}

	log.Debugf("stored file %s (%s, %d bytes) as blob %s", file.ID, contentType, file.Size, blobID)
	return file, nil
}

func (s *Service) List(
	ctx context.Context, page domain.Page,
) ([]domain.FileRecord, error) {
	vaultID, err := s.vault.VaultID()
	if err != nil {
		return nil, err
	}
	return s.repo.FileRepository().GetFilesForVault(ctx, vaultID, page)
}

// Download returns the file index entry and the decrypted content.
func (s *Service) Download(
	ctx context.Context, id string,
) (*domain.FileRecord, []byte, error) {
	file, err := s.getFile(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	sealed, err := s.blobs.Get(ctx, file.BlobID)
	if err != nil {
		return nil, nil, err
	}
	data, err := s.vault.Open(string(sealed))
	if err != nil {
		return nil, nil, err
	}
	return file, data, nil
}

// Delete removes the file from the index. The blob is left in the store.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.getFile(ctx, id); err != nil {
		return err
	}
	return s.repo.FileRepository().DeleteFile(ctx, id)
}

// Price returns the cost of storing size bytes in the blob store.
func (s *Service) Price(ctx context.Context, size int64) (*domain.Price, error) {
	if size <= 0 {
		return nil, ErrEmptyFile
	}
	if size > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	return s.blobs.Price(ctx, size)
}

func (s *Service) getFile(ctx context.Context, id string) (*domain.FileRecord, error) {
	vaultID, err := s.vault.VaultID()
	if err != nil {
		return nil, err
	}
	file, err := s.repo.FileRepository().GetFile(ctx, id)
	if err != nil {
		return nil, err
	}
	if file.VaultID != vaultID {
		return nil, domain.ErrFileNotFound
	}
	return file, nil
}
