package chainkeys

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/permavault/permavault-daemon/internal/core/domain"
	"github.com/permavault/permavault-daemon/pkg/wallet"
)

// ethereumManager stores secrets as 0x-prefixed hex private keys. The address
// is shared by every EVM network.
type ethereumManager struct{}

func NewEthereumManager() *ethereumManager {
	return &ethereumManager{}
}

func (m *ethereumManager) Chain() domain.Chain {
	return domain.ChainEthereum
}

func (m *ethereumManager) NewKey() (*domain.ChainKey, error) {
	w, err := wallet.NewWallet(wallet.NewMnemonicOpts{})
	if err != nil {
		return nil, err
	}
	return m.ImportMnemonic(w.Mnemonic())
}

func (m *ethereumManager) ImportKey(raw string) (*domain.ChainKey, error) {
	privKey, err := crypto.HexToECDSA(trimHexPrefix(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPrivateKey, err)
	}
	return m.fromPrivKey(privKey), nil
}

func (m *ethereumManager) ImportMnemonic(mnemonic string) (*domain.ChainKey, error) {
	w, err := wallet.NewWalletFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}
	key, err := w.DeriveSecp256k1Key(
		wallet.MustParseDerivationPath(wallet.EthereumPath), nil,
	)
	if err != nil {
		return nil, err
	}
	privKey, err := crypto.ToECDSA(key.Serialize())
	if err != nil {
		return nil, err
	}

	chainKey := m.fromPrivKey(privKey)
	chainKey.Secret.Mnemonic = w.Mnemonic()
	return chainKey, nil
}

func (m *ethereumManager) IsValidAddress(addr string) bool {
	return common.IsHexAddress(addr)
}

func (m *ethereumManager) fromPrivKey(privKey *ecdsa.PrivateKey) *domain.ChainKey {
	return &domain.ChainKey{
		Chain:   domain.ChainEthereum,
		Address: crypto.PubkeyToAddress(privKey.PublicKey).Hex(),
		Secret: domain.DecryptedSecret{
			Key: "0x" + hex.EncodeToString(crypto.FromECDSA(privKey)),
		},
	}
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
		return s[2:]
	}
	return s
}
