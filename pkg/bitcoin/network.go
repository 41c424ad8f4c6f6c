package bitcoin

import (
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
)

const (
	// MainNet ...
	MainNet = "mainnet"
	// TestNet ...
	TestNet = "testnet"
	// RegTest ...
	RegTest = "regtest"
)

// NetworkParams returns the chain params for the given network name.
func NetworkParams(name string) (*chaincfg.Params, error) {
	switch strings.ToLower(name) {
	case MainNet, "bitcoin":
		return &chaincfg.MainNetParams, nil
	case TestNet, "testnet3":
		return &chaincfg.TestNet3Params, nil
	case RegTest:
		return &chaincfg.RegressionNetParams, nil
	default:
		return nil, ErrUnknownNetwork
	}
}
