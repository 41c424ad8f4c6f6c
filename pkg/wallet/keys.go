package wallet

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
)

var ed25519SeedKey = []byte("ed25519 seed")

// DeriveSecp256k1Key derives the BIP32 private key at the given path.
func (w *Wallet) DeriveSecp256k1Key(
	path DerivationPath, net *chaincfg.Params,
) (*btcec.PrivateKey, error) {
	if len(path) <= 0 {
		return nil, ErrNullDerivationPath
	}
	if net == nil {
		net = &chaincfg.MainNetParams
	}

	hdNode, err := hdkeychain.NewMaster(w.seed, net)
	if err != nil {
		return nil, err
	}
	for _, step := range path {
		hdNode, err = hdNode.Derive(step)
		if err != nil {
			return nil, err
		}
	}
	return hdNode.ECPrivKey()
}

// DeriveEd25519Seed derives the 32-byte ed25519 private seed at the given
// SLIP-0010 path. Only hardened elements are allowed.
func (w *Wallet) DeriveEd25519Seed(path DerivationPath) ([]byte, error) {
	if len(path) <= 0 {
		return nil, ErrNullDerivationPath
	}
	key, chainCode := slip10Master(w.seed)
	for _, step := range path {
		if step < hdkeychain.HardenedKeyStart {
			return nil, ErrNonHardenedEd25519Path
		}
		key, chainCode = slip10Child(key, chainCode, step)
	}
	return key, nil
}

func slip10Master(seed []byte) ([]byte, []byte) {
	mac := hmac.New(sha512.New, ed25519SeedKey)
	mac.Write(seed)
	sum := mac.Sum(nil)
	return sum[:32], sum[32:]
}

func slip10Child(key, chainCode []byte, index uint32) ([]byte, []byte) {
	data := make([]byte, 0, 37)
	data = append(data, 0)
	data = append(data, key...)
	data = binary.BigEndian.AppendUint32(data, index)

	mac := hmac.New(sha512.New, chainCode)
	mac.Write(data)
	sum := mac.Sum(nil)
	return sum[:32], sum[32:]
}
