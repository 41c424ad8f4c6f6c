package bitcoin

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
)

const oddPubKeyPrefix = 0x03

// TweakPrivKey returns the taproot output key for a key-path only spend:
// the key is negated if its public key has odd y, then tweaked with
// TaggedHash("TapTweak", xonly(P)).
func TweakPrivKey(privKey *btcec.PrivateKey) (*btcec.PrivateKey, error) {
	pubKey := privKey.PubKey()

	var k btcec.ModNScalar
	k.Set(&privKey.Key)
	if pubKey.SerializeCompressed()[0] == oddPubKeyPrefix {
		k.Negate()
	}

	tweakHash := chainhash.TaggedHash(
		chainhash.TagTapTweak, schnorr.SerializePubKey(pubKey),
	)
	var tweak btcec.ModNScalar
	if overflow := tweak.SetByteSlice(tweakHash[:]); overflow {
		return nil, ErrInvalidTweak
	}

	k.Add(&tweak)
	if k.IsZero() {
		return nil, ErrInvalidTweak
	}
	return btcec.PrivKeyFromScalar(&k), nil
}

// TaprootAddress returns the key-path only P2TR address of pubKey.
func TaprootAddress(
	pubKey *btcec.PublicKey, net *chaincfg.Params,
) (*btcutil.AddressTaproot, error) {
	if net == nil {
		return nil, ErrNullNetwork
	}
	outputKey := txscript.ComputeTaprootKeyNoScript(pubKey)
	return btcutil.NewAddressTaproot(schnorr.SerializePubKey(outputKey), net)
}

// ParseWIF decodes a WIF string and checks it belongs to net.
func ParseWIF(wif string, net *chaincfg.Params) (*btcutil.WIF, error) {
	if net == nil {
		return nil, ErrNullNetwork
	}
	decoded, err := btcutil.DecodeWIF(wif)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWIF, err)
	}
	if !decoded.IsForNet(net) {
		return nil, fmt.Errorf("%w: key is not for %s", ErrInvalidWIF, net.Name)
	}
	return decoded, nil
}

// AddressFromWIF returns the P2TR address controlled by the WIF key.
func AddressFromWIF(wif string, net *chaincfg.Params) (string, error) {
	decoded, err := ParseWIF(wif, net)
	if err != nil {
		return "", err
	}
	addr, err := TaprootAddress(decoded.PrivKey.PubKey(), net)
	if err != nil {
		return "", err
	}
	return addr.EncodeAddress(), nil
}

// CheckKeyControlsAddress fails with ErrKeyMismatch if the WIF key does not
// control addr.
func CheckKeyControlsAddress(wif, addr string, net *chaincfg.Params) error {
	derived, err := AddressFromWIF(wif, net)
	if err != nil {
		return err
	}
	if derived != addr {
		return fmt.Errorf("%w: key controls %s", ErrKeyMismatch, derived)
	}
	return nil
}
