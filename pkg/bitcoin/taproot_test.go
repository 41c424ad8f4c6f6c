package bitcoin_test

import (
	"fmt"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/permavault/permavault-daemon/pkg/bitcoin"
	"github.com/stretchr/testify/require"
)

func TestTweakPrivKey(t *testing.T) {
	for i := 0; i < 20; i++ {
		privKey := testPrivKey(fmt.Sprintf("key-%d", i))

		tweaked, err := bitcoin.TweakPrivKey(privKey)
		require.NoError(t, err)

		expected := txscript.TweakTaprootPrivKey(*privKey, nil)
		require.Equal(t, expected.Serialize(), tweaked.Serialize())

		outputKey := txscript.ComputeTaprootKeyNoScript(privKey.PubKey())
		require.Equal(
			t, schnorr.SerializePubKey(outputKey),
			schnorr.SerializePubKey(tweaked.PubKey()),
		)
	}
}

func TestAddressFromWIF(t *testing.T) {
	net := &chaincfg.MainNetParams
	wif := testWIF(t, "alice", net)

	addr, err := bitcoin.AddressFromWIF(wif, net)
	require.NoError(t, err)
	require.True(t, bitcoin.IsValidAddress(addr, net))
	require.Equal(t, "bc1p", addr[:4])

	expected, err := bitcoin.TaprootAddress(testPrivKey("alice").PubKey(), net)
	require.NoError(t, err)
	require.Equal(t, expected.EncodeAddress(), addr)

	_, err = bitcoin.AddressFromWIF(wif, &chaincfg.TestNet3Params)
	require.ErrorIs(t, err, bitcoin.ErrInvalidWIF)

	_, err = bitcoin.AddressFromWIF("notawif", net)
	require.ErrorIs(t, err, bitcoin.ErrInvalidWIF)
}

func TestCheckKeyControlsAddress(t *testing.T) {
	net := &chaincfg.MainNetParams
	aliceWIF := testWIF(t, "alice", net)
	aliceAddr, err := bitcoin.AddressFromWIF(aliceWIF, net)
	require.NoError(t, err)
	bobAddr, err := bitcoin.AddressFromWIF(testWIF(t, "bob", net), net)
	require.NoError(t, err)

	require.NoError(t, bitcoin.CheckKeyControlsAddress(aliceWIF, aliceAddr, net))
	err = bitcoin.CheckKeyControlsAddress(aliceWIF, bobAddr, net)
	require.ErrorIs(t, err, bitcoin.ErrKeyMismatch)
}
