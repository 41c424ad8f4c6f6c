package chainkeys

import (
	"crypto/ed25519"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/permavault/permavault-daemon/internal/core/domain"
	"github.com/permavault/permavault-daemon/pkg/wallet"
)

// solanaManager stores secrets as base58 encoded 64-byte keypairs.
type solanaManager struct{}

func NewSolanaManager() *solanaManager {
	return &solanaManager{}
}

func (m *solanaManager) Chain() domain.Chain {
	return domain.ChainSolana
}

func (m *solanaManager) NewKey() (*domain.ChainKey, error) {
	w, err := wallet.NewWallet(wallet.NewMnemonicOpts{})
	if err != nil {
		return nil, err
	}
	return m.ImportMnemonic(w.Mnemonic())
}

// ImportKey accepts either a base58 keypair or a JSON array of 64 bytes as
// written by the solana CLI.
func (m *solanaManager) ImportKey(raw string) (*domain.ChainKey, error) {
	var (
		privKey solana.PrivateKey
		err     error
	)
	if strings.HasPrefix(raw, "[") {
		var buf []byte
		buf, err = parseByteArray(raw)
		privKey = solana.PrivateKey(buf)
	} else {
		privKey, err = solana.PrivateKeyFromBase58(raw)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPrivateKey, err)
	}
	if err := validateSolanaKey(privKey); err != nil {
		return nil, err
	}
	return m.fromPrivKey(privKey), nil
}

func (m *solanaManager) ImportMnemonic(mnemonic string) (*domain.ChainKey, error) {
	w, err := wallet.NewWalletFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}
	seed, err := w.DeriveEd25519Seed(
		wallet.MustParseDerivationPath(wallet.SolanaPath),
	)
	if err != nil {
		return nil, err
	}

	privKey := solana.PrivateKey(ed25519.NewKeyFromSeed(seed))
	key := m.fromPrivKey(privKey)
	key.Secret.Mnemonic = w.Mnemonic()
	return key, nil
}

func (m *solanaManager) IsValidAddress(addr string) bool {
	_, err := solana.PublicKeyFromBase58(addr)
	return err == nil
}

func (m *solanaManager) fromPrivKey(privKey solana.PrivateKey) *domain.ChainKey {
	return &domain.ChainKey{
		Chain:   domain.ChainSolana,
		Address: privKey.PublicKey().String(),
		Secret:  domain.DecryptedSecret{Key: privKey.String()},
	}
}

// validateSolanaKey checks that the public half of the keypair matches its
// seed.
func validateSolanaKey(privKey solana.PrivateKey) error {
	if len(privKey) != ed25519.PrivateKeySize {
		return ErrInvalidPrivateKey
	}
	expected := ed25519.NewKeyFromSeed(privKey[:ed25519.SeedSize])
	if !expected.Equal(ed25519.PrivateKey(privKey)) {
		return fmt.Errorf("%w: public key does not match seed", ErrInvalidPrivateKey)
	}
	return nil
}
