package ports

import "github.com/permavault/permavault-daemon/internal/core/domain"

// ChainKeyManager generates and imports key material for a single chain.
type ChainKeyManager interface {
	Chain() domain.Chain
	// NewKey generates fresh key material, with a mnemonic when the chain
	// supports one.
	NewKey() (*domain.ChainKey, error)
	// ImportKey derives the address of a raw private key in any of the
	// encodings the chain supports.
	ImportKey(raw string) (*domain.ChainKey, error)
	// ImportMnemonic derives the first account of a BIP39 mnemonic.
	ImportMnemonic(mnemonic string) (*domain.ChainKey, error)
	// IsValidAddress returns whether addr is a well-formed address.
	IsValidAddress(addr string) bool
}

// ChainKeys dispatches key operations to the right ChainKeyManager.
type ChainKeys interface {
	NewKey(chain domain.Chain) (*domain.ChainKey, error)
	// ImportKey detects the chain of raw and imports it. mnemonicChain is used
	// when raw is a mnemonic phrase.
	ImportKey(raw string, mnemonicChain domain.Chain) (*domain.ChainKey, error)
	// DetectChain returns the chain of a raw private key, ChainUnknown for
	// mnemonics and unrecognized inputs.
	DetectChain(raw string) domain.Chain
	IsValidAddress(chain domain.Chain, addr string) bool
}
