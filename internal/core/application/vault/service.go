package vault

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"github.com/permavault/permavault-daemon/internal/core/domain"
	"github.com/permavault/permavault-daemon/internal/core/ports"
	"github.com/permavault/permavault-daemon/pkg/vaultcrypto"
	log "github.com/sirupsen/logrus"
)

var saltKey = domain.SystemKey(domain.MetadataSystemSalt)

// Status is a snapshot of the vault session.
type Status struct {
	Locked      bool
	VaultID     string
	WalletCount int
	HasSalt     bool
}

// Service owns the vault session. It is shared by all the other application
// services that need the master key.
type Service struct {
	repo       ports.RepoManager
	session    *domain.VaultSession
	iterations int

	saltLock sync.Mutex
	salt     []byte
}

func NewService(repo ports.RepoManager, iterations int) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if iterations <= 0 {
		return nil, fmt.Errorf("invalid kdf iterations")
	}
	return &Service{
		repo:       repo,
		session:    domain.NewVaultSession(),
		iterations: iterations,
	}, nil
}

// Session returns the session shared with the other services.
func (s *Service) Session() *domain.VaultSession {
	return s.session
}

// InitSalt returns the salt for key derivation, creating it on first use.
// Installs that already hold wallets but no salt keep using the legacy salt
// so that their secrets stay decryptable. Storage failures never prevent
// the unlock: the legacy salt is used instead.
func (s *Service) InitSalt(ctx context.Context) []byte {
	s.saltLock.Lock()
	defer s.saltLock.Unlock()

	if s.salt != nil {
		return s.salt
	}

	salt, err := s.loadOrCreateSalt(ctx)
	if err != nil {
		log.WithError(err).Warn("failed to init vault salt, using legacy salt")
		return vaultcrypto.LegacySalt
	}
	s.salt = salt
	return salt
}

// DeriveMasterKey derives the master key and vault id for password.
// Any password derives a key: a wrong one is detected only when decrypting.
func (s *Service) DeriveMasterKey(
	ctx context.Context, password string,
) ([]byte, string, error) {
	if password == "" {
		return nil, "", domain.ErrNullPassword
	}
	key, err := vaultcrypto.DeriveKey(vaultcrypto.DeriveKeyOpts{
		Password:   password,
		Salt:       s.InitSalt(ctx),
		Iterations: s.iterations,
	})
	if err != nil {
		return nil, "", err
	}
	return key, vaultcrypto.DeriveVaultID(key), nil
}

func (s *Service) Unlock(ctx context.Context, password string) error {
	key, vaultID, err := s.DeriveMasterKey(ctx, password)
	if err != nil {
		unlocksTotal.WithLabelValues("failure").Inc()
		return err
	}
	defer vaultcrypto.Zero(key)

	s.session.Unlock(key, vaultID)
	unlocksTotal.WithLabelValues("success").Inc()
	log.Debugf("vault %s unlocked", vaultID)
	return nil
}

func (s *Service) Lock(_ context.Context) {
	s.session.Lock()
	log.Debug("vault locked")
}

func (s *Service) Status(ctx context.Context) (*Status, error) {
	count, err := s.repo.WalletRepository().CountWallets(ctx)
	if err != nil {
		return nil, err
	}

	hasSalt := true
	if _, err := s.repo.MetadataRepository().GetMetadata(ctx, saltKey); err != nil {
		if !errors.Is(err, domain.ErrMetadataNotFound) {
			return nil, err
		}
		hasSalt = false
	}

	vaultID, _ := s.session.VaultID()
	return &Status{
		Locked:      s.session.IsLocked(),
		VaultID:     vaultID,
		WalletCount: count,
		HasSalt:     hasSalt,
	}, nil
}

// VaultID returns the id of the unlocked vault.
func (s *Service) VaultID() (string, error) {
	return s.session.VaultID()
}

// Seal encrypts plaintext under the session master key.
func (s *Service) Seal(plaintext []byte) (string, error) {
	key, err := s.session.MasterKey()
	if err != nil {
		return "", err
	}
	defer vaultcrypto.Zero(key)

	return vaultcrypto.Seal(plaintext, key)
}

// Open decrypts a blob sealed under the session master key.
func (s *Service) Open(blob string) ([]byte, error) {
	key, err := s.session.MasterKey()
	if err != nil {
		return nil, err
	}
	defer vaultcrypto.Zero(key)

	plaintext, err := vaultcrypto.Open(blob, key)
	if err != nil {
		return nil, domain.ErrIncorrectPassword
	}
	return plaintext, nil
}

func (s *Service) loadOrCreateSalt(ctx context.Context) ([]byte, error) {
	metadataRepo := s.repo.MetadataRepository()

	encoded, err := metadataRepo.GetMetadata(ctx, saltKey)
	if err == nil {
		salt, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil || len(salt) == 0 {
			return nil, fmt.Errorf("malformed stored salt")
		}
		return salt, nil
	}
	if !errors.Is(err, domain.ErrMetadataNotFound) {
		return nil, err
	}

	count, err := s.repo.WalletRepository().CountWallets(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		log.Info("wallets found without vault salt, using legacy salt")
		return vaultcrypto.LegacySalt, nil
	}

	salt, err := vaultcrypto.NewSalt()
	if err != nil {
		return nil, err
	}
	if err := metadataRepo.SetMetadata(
		ctx, saltKey, base64.StdEncoding.EncodeToString(salt),
	); err != nil {
		return nil, err
	}
	return salt, nil
}
