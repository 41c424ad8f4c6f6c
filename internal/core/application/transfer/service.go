package transfer

import (
	"context"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/permavault/permavault-daemon/internal/core/application/wallet"
	"github.com/permavault/permavault-daemon/internal/core/domain"
	"github.com/permavault/permavault-daemon/pkg/bitcoin"
	"github.com/permavault/permavault-daemon/pkg/explorer"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNotBitcoinWallet ...
	ErrNotBitcoinWallet = errors.New("wallet is not a bitcoin wallet")
)

// Preview describes the transaction that Send would build at the time of the
// quote.
type Preview struct {
	From       string
	To         string
	Amount     uint64
	FeeRate    float64
	Vsize      uint64
	NumInputs  int
	NumOutputs int
	TotalInput uint64
	// Fee is the estimated fee, EffectiveFee also counts dust change.
	Fee          uint64
	EffectiveFee uint64
	Change       uint64
}

// Service quotes and sends Bitcoin transfers from the vault's wallets.
type Service struct {
	wallet   *wallet.Service
	explorer explorer.Service
	network  *chaincfg.Params
	feeRate  bitcoin.FeeRatePolicy
	planner  *bitcoin.Planner
}

func NewService(
	walletSvc *wallet.Service, explorerSvc explorer.Service,
	network *chaincfg.Params, feeRatePolicy bitcoin.FeeRatePolicy,
) (*Service, error) {
	if walletSvc == nil {
		return nil, fmt.Errorf("missing wallet service")
	}
	if explorerSvc == nil {
		return nil, fmt.Errorf("missing explorer service")
	}
	if network == nil {
		return nil, fmt.Errorf("missing network")
	}
	return &Service{
		wallet:   walletSvc,
		explorer: explorerSvc,
		network:  network,
		feeRate:  feeRatePolicy,
		planner:  bitcoin.NewPlanner(bitcoin.PickUtxos),
	}, nil
}

// Quote plans a transfer of amount sats from the wallet to the given address.
func (s *Service) Quote(
	ctx context.Context, walletID uint64, to string, amount uint64,
) (*Preview, error) {
	record, err := s.bitcoinWallet(ctx, walletID, to)
	if err != nil {
		return nil, err
	}

	plan, err := s.plan(ctx, record.Address, amount)
	if err != nil {
		return nil, err
	}
	return newPreview(record.Address, to, plan), nil
}

// Send signs a transfer with the wallet key and broadcasts it. The password
// is checked against the wallet before any network access.
func (s *Service) Send(
	ctx context.Context, walletID uint64, to string, amount uint64,
	password string,
) (string, error) {
	txid, err := s.send(ctx, walletID, to, amount, password)
	if err != nil {
		transfersTotal.WithLabelValues("failure").Inc()
		return "", err
	}
	transfersTotal.WithLabelValues("success").Inc()
	return txid, nil
}

func (s *Service) send(
	ctx context.Context, walletID uint64, to string, amount uint64,
	password string,
) (string, error) {
	record, err := s.bitcoinWallet(ctx, walletID, to)
	if err != nil {
		return "", err
	}
	if amount == 0 {
		return "", bitcoin.ErrInvalidAmount
	}

	secret, err := s.wallet.GetDecryptedInfo(ctx, record, password)
	if err != nil {
		return "", err
	}
	if err := bitcoin.CheckKeyControlsAddress(
		secret.Key, record.Address, s.network,
	); err != nil {
		return "", err
	}

	plan, err := s.plan(ctx, record.Address, amount)
	if err != nil {
		return "", err
	}

	tx, err := bitcoin.BuildSignedTransferTx(bitcoin.BuildTxOpts{
		WIF:     secret.Key,
		From:    record.Address,
		To:      to,
		Plan:    plan,
		Network: s.network,
	})
	if err != nil {
		return "", err
	}
	txHex, err := bitcoin.SerializeTx(tx)
	if err != nil {
		return "", err
	}

	txid, err := s.explorer.BroadcastTransaction(ctx, txHex)
	if err != nil {
		return "", err
	}
	log.Infof(
		"broadcasted tx %s sending %d sats to %s with fee %d sats",
		txid, plan.Amount, to, plan.EffectiveFee(),
	)
	return txid, nil
}

// plan fetches unspents and fee rate concurrently and runs the fee
// convergence loop.
func (s *Service) plan(
	ctx context.Context, from string, amount uint64,
) (*bitcoin.TransferPlan, error) {
	var (
		utxos   []explorer.Utxo
		feeRate float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		utxos, err = s.explorer.GetUnspents(gctx, from)
		return err
	})
	g.Go(func() error {
		feeRate = s.feeRate.Resolve(gctx, s.explorer)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return s.planner.Plan(utxos, amount, feeRate)
}

func (s *Service) bitcoinWallet(
	ctx context.Context, walletID uint64, to string,
) (*domain.WalletRecord, error) {
	if !bitcoin.IsValidAddress(to, s.network) {
		return nil, bitcoin.ErrInvalidAddress
	}

	record, err := s.wallet.GetRecord(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if record.Chain != domain.ChainBitcoin {
		return nil, ErrNotBitcoinWallet
	}
	if !bitcoin.IsValidAddress(record.Address, s.network) {
		return nil, fmt.Errorf(
			"%w: wallet address %s does not belong to network %s",
			bitcoin.ErrInvalidAddress, record.Address, s.network.Name,
		)
	}
	return record, nil
}

func newPreview(from, to string, plan *bitcoin.TransferPlan) *Preview {
	return &Preview{
		From:         from,
		To:           to,
		Amount:       plan.Amount,
		FeeRate:      plan.FeeRate,
		Vsize:        plan.Vsize,
		NumInputs:    len(plan.Inputs),
		NumOutputs:   plan.NumOutputs(),
		TotalInput:   plan.TotalInput,
		Fee:          plan.Fee,
		EffectiveFee: plan.EffectiveFee(),
		Change:       plan.ChangeOutputValue(),
	}
}
