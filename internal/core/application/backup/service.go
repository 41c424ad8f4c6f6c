package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/permavault/permavault-daemon/internal/core/application/vault"
	"github.com/permavault/permavault-daemon/internal/core/domain"
	"github.com/permavault/permavault-daemon/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrInvalidFormat is returned for backups missing the version or the
	// wallets list.
	ErrInvalidFormat = errors.New("invalid backup format")
)

// Service exports and imports vaults.
type Service struct {
	vault *vault.Service
	repo  ports.RepoManager
}

func NewService(vaultSvc *vault.Service, repo ports.RepoManager) (*Service, error) {
	if vaultSvc == nil {
		return nil, fmt.Errorf("missing vault service")
	}
	if repo == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	return &Service{vaultSvc, repo}, nil
}

// Export dumps the wallets and the settings of the unlocked vault. Secrets
// stay encrypted.
func (s *Service) Export(ctx context.Context) (*Export, error) {
	vaultID, err := s.vault.VaultID()
	if err != nil {
		return nil, err
	}

	records, err := s.repo.WalletRepository().GetWalletsForVault(ctx, vaultID)
	if err != nil {
		return nil, err
	}
	wallets := make([]ExportedWallet, 0, len(records))
	for _, r := range records {
		wallets = append(wallets, ExportedWallet{
			Address:      r.Address,
			EncryptedKey: r.EncryptedKey,
			Alias:        r.Alias,
			Chain:        r.Chain.String(),
			VaultID:      r.VaultID,
			CreatedAt:    r.CreatedAt,
		})
	}

	metadata := make([]Metadata, 0)
	rows, err := s.repo.MetadataRepository().GetMetadataForVault(ctx, vaultID)
	if err != nil {
		log.WithError(err).Warn("failed to export vault settings")
	}
	for _, m := range rows {
		metadata = append(metadata, Metadata{Key: m.Key.String(), Value: m.Value})
	}

	return &Export{
		Version:       FormatVersion,
		ExportDate:    time.Now().UnixMilli(),
		Wallets:       wallets,
		VaultMetadata: metadata,
	}, nil
}

// Import restores a backup. With merge, wallets and settings are moved into
// the unlocked vault. Otherwise they keep the vault id of the first exported
// wallet, so that the original password still opens them. Wallets already
// present are updated in place. Import never returns an error, failures are
// reported in the result.
func (s *Service) Import(ctx context.Context, data []byte, merge bool) ImportResult {
	result, err := s.importBackup(ctx, data, merge)
	if err != nil {
		log.WithError(err).Warn("vault import failed")
		result.Success = false
		result.Error = err.Error()
		return result
	}
	result.Success = true
	return result
}

func (s *Service) importBackup(
	ctx context.Context, data []byte, merge bool,
) (ImportResult, error) {
	result := ImportResult{}

	currentVaultID, err := s.vault.VaultID()
	if err != nil {
		return result, err
	}

	file, err := parseImportFile(data)
	if err != nil {
		return result, err
	}
	wallets := *file.Wallets

	targetVaultID := currentVaultID
	if !merge {
		if len(wallets) > 0 && domain.IsVaultID(wallets[0].VaultID) {
			targetVaultID = wallets[0].VaultID
		}
		result.NewVaultID = targetVaultID
	}

	for _, w := range wallets {
		if err := s.importWallet(ctx, w, targetVaultID); err != nil {
			if errors.Is(err, domain.ErrWalletAlreadyExists) ||
				errors.Is(err, domain.ErrUnknownChain) ||
				errors.Is(err, domain.ErrNullAddress) ||
				errors.Is(err, domain.ErrNullEncryptedKey) {
				log.WithError(err).Warnf("skipping wallet %s", w.Address)
				continue
			}
			return result, err
		}
		result.ImportedWallets++
	}

	metadataRepo := s.repo.MetadataRepository()
	for _, m := range file.VaultMetadata {
		key, err := domain.ParseMetadataKey(m.Key)
		if err != nil || !key.IsVaultScoped() {
			log.Warnf("skipping metadata %q", m.Key)
			continue
		}
		if err := metadataRepo.SetMetadata(
			ctx, key.WithScope(targetVaultID), m.Value,
		); err != nil {
			log.WithError(err).Warnf("failed to import metadata %q", m.Key)
			continue
		}
		result.ImportedMetadata++
	}

	log.Infof(
		"imported %d wallets and %d settings into vault %s",
		result.ImportedWallets, result.ImportedMetadata, targetVaultID,
	)
	return result, nil
}

// importWallet inserts the wallet or, if its address is already in the
// vault with the same chain, overwrites alias and encrypted key.
func (s *Service) importWallet(
	ctx context.Context, w ExportedWallet, vaultID string,
) error {
	chain := domain.ParseChain(w.Chain)
	walletRepo := s.repo.WalletRepository()

	existing, err := walletRepo.GetWalletByAddress(ctx, vaultID, w.Address)
	if err != nil && !errors.Is(err, domain.ErrWalletNotFound) {
		return err
	}
	if existing != nil {
		if existing.Chain != chain {
			return fmt.Errorf(
				"%w: address registered as %s", domain.ErrWalletAlreadyExists,
				existing.Chain,
			)
		}
		return walletRepo.UpdateWallet(
			ctx, existing.ID,
			func(r *domain.WalletRecord) (*domain.WalletRecord, error) {
				r.EncryptedKey = w.EncryptedKey
				if w.Alias != "" {
					r.Alias = w.Alias
				}
				return r, nil
			},
		)
	}

	record, err := domain.NewWalletRecord(
		chain, w.Address, w.Alias, w.EncryptedKey, vaultID,
	)
	if err != nil {
		return err
	}
	if w.CreatedAt > 0 {
		record.CreatedAt = w.CreatedAt
	}
	_, err = walletRepo.AddWallet(ctx, record)
	return err
}

func parseImportFile(data []byte) (*importFile, error) {
	file := &importFile{}
	if err := json.Unmarshal(data, file); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFormat, err)
	}
	if file.Version == nil {
		return nil, fmt.Errorf("%w: missing version", ErrInvalidFormat)
	}
	if file.Wallets == nil {
		return nil, fmt.Errorf("%w: missing wallets", ErrInvalidFormat)
	}
	return file, nil
}
