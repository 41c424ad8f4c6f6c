package bitcoin_test

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/require"
)

func fakeTxID(i int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("tx-%d", i)))
	return hex.EncodeToString(sum[:])
}

func testPrivKey(seed string) *btcec.PrivateKey {
	sum := sha256.Sum256([]byte(seed))
	privKey, _ := btcec.PrivKeyFromBytes(sum[:])
	return privKey
}

func testWIF(t *testing.T, seed string, net *chaincfg.Params) string {
	wif, err := btcutil.NewWIF(testPrivKey(seed), net, true)
	require.NoError(t, err)
	return wif.String()
}
