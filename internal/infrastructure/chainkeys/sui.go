package chainkeys

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"regexp"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/permavault/permavault-daemon/internal/core/domain"
	"github.com/permavault/permavault-daemon/pkg/wallet"
	"golang.org/x/crypto/blake2b"
)

const (
	suiPrivKeyHRP = "suiprivkey"
	// suiEd25519Flag is the signature scheme byte prepended to keys and
	// public keys before hashing.
	suiEd25519Flag = 0x00
)

var suiAddressRegexp = regexp.MustCompile(`^0x[0-9a-f]{64}$`)

// suiManager stores secrets as bech32 "suiprivkey" strings.
type suiManager struct{}

func NewSuiManager() *suiManager {
	return &suiManager{}
}

func (m *suiManager) Chain() domain.Chain {
	return domain.ChainSui
}

func (m *suiManager) NewKey() (*domain.ChainKey, error) {
	w, err := wallet.NewWallet(wallet.NewMnemonicOpts{})
	if err != nil {
		return nil, err
	}
	return m.ImportMnemonic(w.Mnemonic())
}

func (m *suiManager) ImportKey(raw string) (*domain.ChainKey, error) {
	hrp, data, err := bech32.DecodeToBase256(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPrivateKey, err)
	}
	if hrp != suiPrivKeyHRP || len(data) != 1+ed25519.SeedSize {
		return nil, ErrInvalidPrivateKey
	}
	if data[0] != suiEd25519Flag {
		return nil, fmt.Errorf(
			"%w: unsupported signature scheme %#x", ErrInvalidPrivateKey, data[0],
		)
	}
	return m.fromSeed(data[1:])
}

func (m *suiManager) ImportMnemonic(mnemonic string) (*domain.ChainKey, error) {
	w, err := wallet.NewWalletFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}
	seed, err := w.DeriveEd25519Seed(
		wallet.MustParseDerivationPath(wallet.SuiPath),
	)
	if err != nil {
		return nil, err
	}

	key, err := m.fromSeed(seed)
	if err != nil {
		return nil, err
	}
	key.Secret.Mnemonic = w.Mnemonic()
	return key, nil
}

func (m *suiManager) IsValidAddress(addr string) bool {
	return suiAddressRegexp.MatchString(addr)
}

func (m *suiManager) fromSeed(seed []byte) (*domain.ChainKey, error) {
	pubKey := ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)

	encoded, err := bech32.EncodeFromBase256(
		suiPrivKeyHRP, append([]byte{suiEd25519Flag}, seed...),
	)
	if err != nil {
		return nil, err
	}
	return &domain.ChainKey{
		Chain:   domain.ChainSui,
		Address: suiAddress(pubKey),
		Secret:  domain.DecryptedSecret{Key: encoded},
	}, nil
}

func suiAddress(pubKey ed25519.PublicKey) string {
	hash := blake2b.Sum256(append([]byte{suiEd25519Flag}, pubKey...))
	return "0x" + hex.EncodeToString(hash[:])
}
