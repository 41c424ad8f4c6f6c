package application

import (
	"context"

	"github.com/permavault/permavault-daemon/internal/core/application/vault"
	"github.com/permavault/permavault-daemon/internal/core/application/wallet"
	"github.com/permavault/permavault-daemon/internal/core/domain"
	"github.com/permavault/permavault-daemon/internal/core/ports"
)

type WalletService interface {
	CreateWallet(
		ctx context.Context, chain domain.Chain, alias string,
	) (*wallet.Wallet, error)
	AddWallet(
		ctx context.Context, raw, alias string, mnemonicChain domain.Chain,
	) (*wallet.Wallet, error)
	ListWallets(ctx context.Context) ([]wallet.Wallet, error)
	GetWallet(ctx context.Context, id uint64) (*wallet.Wallet, error)
	UpdateAlias(ctx context.Context, id uint64, alias string) (*wallet.Wallet, error)
	DeleteWallet(ctx context.Context, id uint64) error
	ClearWallets(ctx context.Context) (int, error)
	RevealWallet(
		ctx context.Context, id uint64, password string,
	) (*domain.DecryptedSecret, error)
	GetSettings(ctx context.Context) (*wallet.Settings, error)
	SetActiveAddress(ctx context.Context, address string) error
	SetUseExternal(ctx context.Context, useExternal bool) error
	ReceiveQR(ctx context.Context, id uint64, size int) ([]byte, error)
	Balances(ctx context.Context) ([]wallet.Balance, error)
}

func NewWalletService(
	vaultSvc VaultService, repoManager ports.RepoManager,
	chainKeys ports.ChainKeys, balanceProviders []ports.BalanceProvider,
) (WalletService, error) {
	v, _ := vaultSvc.(*vault.Service)
	return wallet.NewService(v, repoManager, chainKeys, balanceProviders)
}
