package domain

import (
	"fmt"
	"strings"
)

// Chain is the closed set of networks whose keys can be held by the vault.
type Chain int

const (
	ChainUnknown Chain = iota
	ChainEthereum
	ChainBitcoin
	ChainSolana
	ChainSui
	ChainArweave
)

var chainNames = map[Chain]string{
	ChainUnknown:  "unknown",
	ChainEthereum: "ethereum",
	ChainBitcoin:  "bitcoin",
	ChainSolana:   "solana",
	ChainSui:      "sui",
	ChainArweave:  "arweave",
}

var chainAliases = map[string]Chain{
	"ethereum": ChainEthereum,
	"eth":      ChainEthereum,
	"evm":      ChainEthereum,
	"bitcoin":  ChainBitcoin,
	"btc":      ChainBitcoin,
	"solana":   ChainSolana,
	"sol":      ChainSolana,
	"sui":      ChainSui,
	"arweave":  ChainArweave,
	"ar":       ChainArweave,
}

// SupportedChains returns every known chain, Unknown excluded.
func SupportedChains() []Chain {
	return []Chain{
		ChainEthereum, ChainBitcoin, ChainSolana, ChainSui, ChainArweave,
	}
}

// ParseChain maps any string to a Chain. Inputs that do not name a supported
// chain map to ChainUnknown.
func ParseChain(s string) Chain {
	if c, ok := chainAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c
	}
	return ChainUnknown
}

func (c Chain) String() string {
	if name, ok := chainNames[c]; ok {
		return name
	}
	return chainNames[ChainUnknown]
}

func (c Chain) IsKnown() bool {
	return c != ChainUnknown && chainNames[c] != ""
}

// Symbol returns the ticker of the chain's native coin.
func (c Chain) Symbol() string {
	switch c {
	case ChainEthereum:
		return "ETH"
	case ChainBitcoin:
		return "BTC"
	case ChainSolana:
		return "SOL"
	case ChainSui:
		return "SUI"
	case ChainArweave:
		return "AR"
	default:
		return ""
	}
}

func (c Chain) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Chain) UnmarshalText(text []byte) error {
	chain := ParseChain(string(text))
	if !chain.IsKnown() && strings.ToLower(string(text)) != chainNames[ChainUnknown] {
		return fmt.Errorf("%w: %s", ErrUnknownChain, text)
	}
	*c = chain
	return nil
}
