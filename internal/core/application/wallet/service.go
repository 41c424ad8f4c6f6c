package wallet

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/permavault/permavault-daemon/internal/core/application/vault"
	"github.com/permavault/permavault-daemon/internal/core/domain"
	"github.com/permavault/permavault-daemon/internal/core/ports"
	"github.com/permavault/permavault-daemon/pkg/vaultcrypto"
	log "github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultQRSize is the side in pixels of the receive QR code.
	DefaultQRSize = 256

	maxBalanceRequests = 8
	unsupportedBalance = "unsupported"
)

var (
	// ErrInvalidQRSize ...
	ErrInvalidQRSize = errors.New("qr code size must be between 64 and 2048 pixels")
)

// Service manages the wallets of the unlocked vault.
type Service struct {
	vault     *vault.Service
	repo      ports.RepoManager
	chainKeys ports.ChainKeys
	balances  map[domain.Chain]ports.BalanceProvider
}

func NewService(
	vaultSvc *vault.Service, repo ports.RepoManager, chainKeys ports.ChainKeys,
	balanceProviders []ports.BalanceProvider,
) (*Service, error) {
	if vaultSvc == nil {
		return nil, fmt.Errorf("missing vault service")
	}
	if repo == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if chainKeys == nil {
		return nil, fmt.Errorf("missing chain keys service")
	}

	balances := make(map[domain.Chain]ports.BalanceProvider)
	for _, p := range balanceProviders {
		if p == nil {
			continue
		}
		balances[p.Chain()] = p
	}

	return &Service{vaultSvc, repo, chainKeys, balances}, nil
}

// CreateWallet generates a new key for chain and stores it sealed under the
// master key.
func (s *Service) CreateWallet(
	ctx context.Context, chain domain.Chain, alias string,
) (*Wallet, error) {
	if !chain.IsKnown() {
		return nil, domain.ErrUnknownChain
	}
	if _, err := s.vault.VaultID(); err != nil {
		return nil, err
	}

	key, err := s.chainKeys.NewKey(chain)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s wallet: %w", chain, err)
	}
	return s.storeKey(ctx, key, alias)
}

// AddWallet imports a private key or mnemonic. The chain is detected from
// the input format, mnemonicChain is used only for mnemonics.
func (s *Service) AddWallet(
	ctx context.Context, raw, alias string, mnemonicChain domain.Chain,
) (*Wallet, error) {
	if _, err := s.vault.VaultID(); err != nil {
		return nil, err
	}

	key, err := s.chainKeys.ImportKey(raw, mnemonicChain)
	if err != nil {
		return nil, err
	}
	return s.storeKey(ctx, key, alias)
}

func (s *Service) ListWallets(ctx context.Context) ([]Wallet, error) {
	vaultID, err := s.vault.VaultID()
	if err != nil {
		return nil, err
	}

	records, err := s.repo.WalletRepository().GetWalletsForVault(ctx, vaultID)
	if err != nil {
		return nil, err
	}
	wallets := make([]Wallet, 0, len(records))
	for _, r := range records {
		wallets = append(wallets, fromRecord(r))
	}
	return wallets, nil
}

func (s *Service) GetWallet(ctx context.Context, id uint64) (*Wallet, error) {
	record, err := s.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	w := fromRecord(*record)
	return &w, nil
}

func (s *Service) UpdateAlias(
	ctx context.Context, id uint64, alias string,
) (*Wallet, error) {
	if _, err := s.getRecord(ctx, id); err != nil {
		return nil, err
	}

	var updated domain.WalletRecord
	if err := s.repo.WalletRepository().UpdateWallet(
		ctx, id, func(w *domain.WalletRecord) (*domain.WalletRecord, error) {
			w.Alias = strings.TrimSpace(alias)
			if w.Alias == "" {
				w.Alias = w.DefaultAlias()
			}
			updated = *w
			return w, nil
		},
	); err != nil {
		return nil, err
	}

	w := fromRecord(updated)
	return &w, nil
}

// DeleteWallet removes the wallet and, if it was the active one, the active
// address setting.
func (s *Service) DeleteWallet(ctx context.Context, id uint64) error {
	record, err := s.getRecord(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.WalletRepository().DeleteWallet(ctx, id); err != nil {
		return err
	}

	activeKey := domain.VaultKey(record.VaultID, domain.MetadataActiveAddress)
	active, err := s.repo.MetadataRepository().GetMetadata(ctx, activeKey)
	if err == nil && active == record.Address {
		if err := s.repo.MetadataRepository().DeleteMetadata(ctx, activeKey); err != nil {
			log.WithError(err).Warn("failed to reset active address")
		}
	}
	return nil
}

// ClearWallets removes all the wallets and settings of the vault and returns
// the number of deleted wallets.
func (s *Service) ClearWallets(ctx context.Context) (int, error) {
	vaultID, err := s.vault.VaultID()
	if err != nil {
		return 0, err
	}

	count, err := s.repo.WalletRepository().DeleteWalletsForVault(ctx, vaultID)
	if err != nil {
		return 0, err
	}

	metadataRepo := s.repo.MetadataRepository()
	metadata, err := metadataRepo.GetMetadataForVault(ctx, vaultID)
	if err != nil {
		log.WithError(err).Warn("failed to list vault settings")
		return count, nil
	}
	for _, m := range metadata {
		if err := metadataRepo.DeleteMetadata(ctx, m.Key); err != nil {
			log.WithError(err).Warnf("failed to delete setting %s", m.Key)
		}
	}
	return count, nil
}

// RevealWallet returns the plaintext secret of the wallet. It does not need
// an unlocked vault, but the password must derive the wallet's vault id.
func (s *Service) RevealWallet(
	ctx context.Context, id uint64, password string,
) (*domain.DecryptedSecret, error) {
	record, err := s.repo.WalletRepository().GetWallet(ctx, id)
	if err != nil {
		return nil, err
	}
	if vaultID, err := s.vault.VaultID(); err == nil && vaultID != record.VaultID {
		return nil, domain.ErrWalletNotFound
	}
	return s.GetDecryptedInfo(ctx, record, password)
}

// GetDecryptedInfo re-derives the master key from password and decrypts the
// record. A vault id mismatch and a failed decryption are reported with the
// same error.
func (s *Service) GetDecryptedInfo(
	ctx context.Context, record *domain.WalletRecord, password string,
) (*domain.DecryptedSecret, error) {
	key, vaultID, err := s.vault.DeriveMasterKey(ctx, password)
	if err != nil {
		return nil, err
	}
	defer vaultcrypto.Zero(key)

	expectedVaultID := record.VaultID
	if sessionVaultID, err := s.vault.VaultID(); err == nil {
		expectedVaultID = sessionVaultID
	}
	if vaultID != expectedVaultID || vaultID != record.VaultID {
		return nil, domain.ErrIncorrectPassword
	}

	plaintext, err := vaultcrypto.Open(record.EncryptedKey, key)
	if err != nil {
		return nil, domain.ErrIncorrectPassword
	}
	defer vaultcrypto.Zero(plaintext)

	return domain.ParseDecryptedSecret(plaintext)
}

// GetRecord returns the full record of a wallet of the unlocked vault.
func (s *Service) GetRecord(
	ctx context.Context, id uint64,
) (*domain.WalletRecord, error) {
	return s.getRecord(ctx, id)
}

func (s *Service) SetActiveAddress(ctx context.Context, address string) error {
	vaultID, err := s.vault.VaultID()
	if err != nil {
		return err
	}
	if _, err := s.repo.WalletRepository().GetWalletByAddress(
		ctx, vaultID, address,
	); err != nil {
		return err
	}
	return s.repo.MetadataRepository().SetMetadata(
		ctx, domain.VaultKey(vaultID, domain.MetadataActiveAddress), address,
	)
}

func (s *Service) SetUseExternal(ctx context.Context, useExternal bool) error {
	vaultID, err := s.vault.VaultID()
	if err != nil {
		return err
	}
	return s.repo.MetadataRepository().SetMetadata(
		ctx, domain.VaultKey(vaultID, domain.MetadataUseExternal),
		strconv.FormatBool(useExternal),
	)
}

func (s *Service) GetSettings(ctx context.Context) (*Settings, error) {
	vaultID, err := s.vault.VaultID()
	if err != nil {
		return nil, err
	}

	settings := &Settings{}
	metadata, err := s.repo.MetadataRepository().GetMetadataForVault(ctx, vaultID)
	if err != nil {
		return nil, err
	}
	for _, m := range metadata {
		switch m.Key.Name {
		case domain.MetadataActiveAddress:
			settings.ActiveAddress = m.Value
		case domain.MetadataUseExternal:
			settings.UseExternal, _ = strconv.ParseBool(m.Value)
		}
	}
	return settings, nil
}

// ReceiveQR renders the wallet address as a PNG QR code.
func (s *Service) ReceiveQR(
	ctx context.Context, id uint64, size int,
) ([]byte, error) {
	if size == 0 {
		size = DefaultQRSize
	}
	if size < 64 || size > 2048 {
		return nil, ErrInvalidQRSize
	}

	record, err := s.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(record.Address, qrcode.Medium, size)
}

// Balances fetches the balance of every wallet of the vault concurrently.
// Failures are reported per wallet.
func (s *Service) Balances(ctx context.Context) ([]Balance, error) {
	wallets, err := s.ListWallets(ctx)
	if err != nil {
		return nil, err
	}

	balances := make([]Balance, len(wallets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxBalanceRequests)

	for i, w := range wallets {
		i, w := i, w
		balances[i] = Balance{Wallet: w, Symbol: w.Chain.Symbol()}

		provider, ok := s.balances[w.Chain]
		if !ok {
			balances[i].Error = unsupportedBalance
			continue
		}

		g.Go(func() error {
			b, err := provider.GetBalance(gctx, w.Address)
			if err != nil {
				log.WithError(err).Debugf("failed to fetch balance of %s", w.Address)
				balances[i].Error = err.Error()
				return nil
			}
			balances[i].Amount = b.GetAmount()
			balances[i].DisplayAmount = b.GetDisplayAmount()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return balances, nil
}

func (s *Service) storeKey(
	ctx context.Context, key *domain.ChainKey, alias string,
) (*Wallet, error) {
	vaultID, err := s.vault.VaultID()
	if err != nil {
		return nil, err
	}

	plaintext, err := key.Secret.Serialize()
	if err != nil {
		return nil, err
	}
	defer vaultcrypto.Zero(plaintext)

	encryptedKey, err := s.vault.Seal(plaintext)
	if err != nil {
		return nil, err
	}

	record, err := domain.NewWalletRecord(
		key.Chain, key.Address, alias, encryptedKey, vaultID,
	)
	if err != nil {
		return nil, err
	}

	id, err := s.repo.WalletRepository().AddWallet(ctx, record)
	if err != nil {
		return nil, err
	}
	record.ID = id
	walletsAddedTotal.WithLabelValues(record.Chain.String()).Inc()

	w := fromRecord(*record)
	return &w, nil
}

// getRecord returns the wallet only if it belongs to the unlocked vault.
func (s *Service) getRecord(
	ctx context.Context, id uint64,
) (*domain.WalletRecord, error) {
	vaultID, err := s.vault.VaultID()
	if err != nil {
		return nil, err
	}

	record, err := s.repo.WalletRepository().GetWallet(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.VaultID != vaultID {
		return nil, domain.ErrWalletNotFound
	}
	return record, nil
}
