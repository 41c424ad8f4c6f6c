package wallet

import (
	"errors"
	"strings"

	"github.com/vulpemventures/go-bip39"
)

var (
	// ErrNullMnemonic ...
	ErrNullMnemonic = errors.New("mnemonic must not be null")
	// ErrInvalidMnemonic ...
	ErrInvalidMnemonic = errors.New("mnemonic is invalid")
	// ErrInvalidEntropySize ...
	ErrInvalidEntropySize = errors.New(
		"entropy size must be a multiple of 32 in the range [128,256]",
	)
	// ErrNullDerivationPath ...
	ErrNullDerivationPath = errors.New("derivation path must not be null")
	// ErrMalformedDerivationPath ...
	ErrMalformedDerivationPath = errors.New(
		"path must not start or end with a '/' and " +
			"can optionally start with 'm/' for absolute paths",
	)
	// ErrInvalidDerivationPath ...
	ErrInvalidDerivationPath = errors.New("invalid derivation path")
	// ErrNonHardenedEd25519Path ...
	ErrNonHardenedEd25519Path = errors.New(
		"ed25519 derivation supports hardened path elements only",
	)
)

// Wallet holds the BIP39 seed of a mnemonic and derives chain keys from it.
type Wallet struct {
	mnemonic string
	seed     []byte
}

// NewWalletFromMnemonic validates the mnemonic and computes its seed with an
// empty BIP39 passphrase.
func NewWalletFromMnemonic(mnemonic string) (*Wallet, error) {
	m := NormalizeMnemonic(mnemonic)
	if m == "" {
		return nil, ErrNullMnemonic
	}
	if !bip39.IsMnemonicValid(m) {
		return nil, ErrInvalidMnemonic
	}
	return &Wallet{m, bip39.NewSeed(m, "")}, nil
}

// NewWallet generates a fresh mnemonic.
func NewWallet(opts NewMnemonicOpts) (*Wallet, error) {
	mnemonic, err := NewMnemonic(opts)
	if err != nil {
		return nil, err
	}
	return NewWalletFromMnemonic(strings.Join(mnemonic, " "))
}

func (w *Wallet) Mnemonic() string {
	return w.mnemonic
}

func (w *Wallet) Seed() []byte {
	seed := make([]byte, len(w.seed))
	copy(seed, w.seed)
	return seed
}
