package bitcoin

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

const bech32Charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

var (
	// minimum of 20 data chars after the separator, lowercase only.
	mainnetAddressRegexp = addressRegexp(chaincfg.MainNetParams.Bech32HRPSegwit)
	testnetAddressRegexp = addressRegexp(chaincfg.TestNet3Params.Bech32HRPSegwit)
	regtestAddressRegexp = addressRegexp(chaincfg.RegressionNetParams.Bech32HRPSegwit)
)

func addressRegexp(hrp string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf("^%s1[%s]{20,}$", hrp, bech32Charset))
}

// IsValidAddress tells whether addr has the shape of a witness address for
// the given network. It does not verify the checksum and it does not touch the
// network. Legacy base58 addresses are rejected.
func IsValidAddress(addr string, net *chaincfg.Params) bool {
	if net == nil {
		net = &chaincfg.MainNetParams
	}
	switch net.Bech32HRPSegwit {
	case chaincfg.MainNetParams.Bech32HRPSegwit:
		return mainnetAddressRegexp.MatchString(addr)
	case chaincfg.TestNet3Params.Bech32HRPSegwit:
		return testnetAddressRegexp.MatchString(addr)
	case chaincfg.RegressionNetParams.Bech32HRPSegwit:
		return regtestAddressRegexp.MatchString(addr)
	default:
		return addressRegexp(net.Bech32HRPSegwit).MatchString(addr)
	}
}

// DecodeAddress checks the address shape, then fully decodes it and returns
// its output script.
func DecodeAddress(addr string, net *chaincfg.Params) ([]byte, error) {
	if net == nil {
		return nil, ErrNullNetwork
	}
	if !IsValidAddress(addr, net) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAddress, addr)
	}
	decoded, err := btcutil.DecodeAddress(addr, net)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAddress, err)
	}
	if !decoded.IsForNet(net) {
		return nil, fmt.Errorf("%w: address is not for %s", ErrInvalidAddress, net.Name)
	}
	switch decoded.(type) {
	case *btcutil.AddressWitnessPubKeyHash, *btcutil.AddressWitnessScriptHash,
		*btcutil.AddressTaproot:
	default:
		return nil, fmt.Errorf("%w: not a witness address", ErrInvalidAddress)
	}
	return txscript.PayToAddrScript(decoded)
}

// NormalizeAddress trims surrounding whitespace.
func NormalizeAddress(addr string) string {
	return strings.TrimSpace(addr)
}
