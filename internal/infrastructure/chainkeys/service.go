package chainkeys

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/permavault/permavault-daemon/internal/core/domain"
	"github.com/permavault/permavault-daemon/internal/core/ports"
)

const defaultArweaveKeyBits = 4096

var (
	// ErrMnemonicNotSupported is returned by chains whose keys cannot be
	// derived from a BIP39 phrase.
	ErrMnemonicNotSupported = errors.New("chain does not support mnemonic import")
	// ErrInvalidPrivateKey ...
	ErrInvalidPrivateKey = errors.New("invalid private key")
)

type Config struct {
	Network *chaincfg.Params
	// ArweaveKeyBits is the RSA modulus size of generated Arweave keys.
	ArweaveKeyBits int
}

func (c Config) validate() error {
	if c.Network == nil {
		return fmt.Errorf("missing bitcoin network")
	}
	if c.ArweaveKeyBits != 0 && c.ArweaveKeyBits < 1024 {
		return fmt.Errorf("arweave key size must be at least 1024 bits")
	}
	return nil
}

type service struct {
	managers map[domain.Chain]ports.ChainKeyManager
}

// NewService returns a ports.ChainKeys backed by one manager per supported
// chain.
func NewService(cfg Config) (ports.ChainKeys, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.ArweaveKeyBits == 0 {
		cfg.ArweaveKeyBits = defaultArweaveKeyBits
	}

	managers := map[domain.Chain]ports.ChainKeyManager{}
	for _, m := range []ports.ChainKeyManager{
		NewEthereumManager(),
		NewBitcoinManager(cfg.Network),
		NewSolanaManager(),
		NewSuiManager(),
		NewArweaveManager(cfg.ArweaveKeyBits),
	} {
		managers[m.Chain()] = m
	}
	return &service{managers}, nil
}

func (s *service) NewKey(chain domain.Chain) (*domain.ChainKey, error) {
	m, err := s.manager(chain)
	if err != nil {
		return nil, err
	}
	return m.NewKey()
}

func (s *service) ImportKey(
	raw string, mnemonicChain domain.Chain,
) (*domain.ChainKey, error) {
	format := detectFormat(raw)
	if format.mnemonic {
		if !mnemonicChain.IsKnown() {
			mnemonicChain = domain.ChainEthereum
		}
		m, err := s.manager(mnemonicChain)
		if err != nil {
			return nil, err
		}
		return m.ImportMnemonic(format.normalized)
	}
	if !format.chain.IsKnown() {
		return nil, domain.ErrUnrecognizedKey
	}

	m, err := s.manager(format.chain)
	if err != nil {
		return nil, err
	}
	return m.ImportKey(format.normalized)
}

func (s *service) DetectChain(raw string) domain.Chain {
	return detectFormat(raw).chain
}

func (s *service) IsValidAddress(chain domain.Chain, addr string) bool {
	m, err := s.manager(chain)
	if err != nil {
		return false
	}
	return m.IsValidAddress(addr)
}

func (s *service) manager(chain domain.Chain) (ports.ChainKeyManager, error) {
	m, ok := s.managers[chain]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownChain, chain)
	}
	return m, nil
}
