package chainkeys

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/permavault/permavault-daemon/internal/core/domain"
	"github.com/permavault/permavault-daemon/pkg/bitcoin"
	"github.com/permavault/permavault-daemon/pkg/wallet"
)

// bitcoinManager handles single-key BIP86 Taproot accounts. Secrets are
// stored as compressed WIF.
type bitcoinManager struct {
	net *chaincfg.Params
}

func NewBitcoinManager(net *chaincfg.Params) *bitcoinManager {
	return &bitcoinManager{net}
}

func (m *bitcoinManager) Chain() domain.Chain {
	return domain.ChainBitcoin
}

func (m *bitcoinManager) NewKey() (*domain.ChainKey, error) {
	w, err := wallet.NewWallet(wallet.NewMnemonicOpts{})
	if err != nil {
		return nil, err
	}
	return m.fromWallet(w)
}

func (m *bitcoinManager) ImportKey(raw string) (*domain.ChainKey, error) {
	addr, err := bitcoin.AddressFromWIF(raw, m.net)
	if err != nil {
		return nil, err
	}
	return &domain.ChainKey{
		Chain:   domain.ChainBitcoin,
		Address: addr,
		Secret:  domain.DecryptedSecret{Key: raw},
	}, nil
}

func (m *bitcoinManager) ImportMnemonic(mnemonic string) (*domain.ChainKey, error) {
	w, err := wallet.NewWalletFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}
	return m.fromWallet(w)
}

func (m *bitcoinManager) IsValidAddress(addr string) bool {
	return bitcoin.IsValidAddress(addr, m.net)
}

func (m *bitcoinManager) fromWallet(w *wallet.Wallet) (*domain.ChainKey, error) {
	privKey, err := w.DeriveSecp256k1Key(
		wallet.BitcoinTaprootPath(m.net.HDCoinType), m.net,
	)
	if err != nil {
		return nil, err
	}
	key, err := m.fromPrivKey(privKey)
	if err != nil {
		return nil, err
	}
	key.Secret.Mnemonic = w.Mnemonic()
	return key, nil
}

func (m *bitcoinManager) fromPrivKey(privKey *btcec.PrivateKey) (*domain.ChainKey, error) {
	wif, err := btcutil.NewWIF(privKey, m.net, true)
	if err != nil {
		return nil, err
	}
	addr, err := bitcoin.TaprootAddress(privKey.PubKey(), m.net)
	if err != nil {
		return nil, fmt.Errorf("failed to derive taproot address: %w", err)
	}
	return &domain.ChainKey{
		Chain:   domain.ChainBitcoin,
		Address: addr.EncodeAddress(),
		Secret:  domain.DecryptedSecret{Key: wif.String()},
	}, nil
}
