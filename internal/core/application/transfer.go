package application

import (
	"context"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/permavault/permavault-daemon/internal/core/application/transfer"
	"github.com/permavault/permavault-daemon/internal/core/application/wallet"
	"github.com/permavault/permavault-daemon/pkg/bitcoin"
	"github.com/permavault/permavault-daemon/pkg/explorer"
)

type TransferService interface {
	Quote(
		ctx context.Context, walletID uint64, to string, amount uint64,
	) (*transfer.Preview, error)
	Send(
		ctx context.Context, walletID uint64, to string, amount uint64,
		password string,
	) (string, error)
}

func NewTransferService(
	walletSvc WalletService, explorerSvc explorer.Service,
	network *chaincfg.Params, feeRatePolicy bitcoin.FeeRatePolicy,
) (TransferService, error) {
	w, _ := walletSvc.(*wallet.Service)
	return transfer.NewService(w, explorerSvc, network, feeRatePolicy)
}
