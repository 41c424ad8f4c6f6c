package chainkeys_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/gagliardetto/solana-go"
	"github.com/permavault/permavault-daemon/internal/core/domain"
	"github.com/permavault/permavault-daemon/internal/core/ports"
	"github.com/permavault/permavault-daemon/internal/infrastructure/chainkeys"
	"github.com/permavault/permavault-daemon/pkg/bitcoin"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon " +
	"abandon abandon abandon abandon abandon about"

func newTestService(t *testing.T) ports.ChainKeys {
	svc, err := chainkeys.NewService(chainkeys.Config{
		Network:        &chaincfg.MainNetParams,
		ArweaveKeyBits: 1024,
	})
	require.NoError(t, err)
	return svc
}

func TestNewService(t *testing.T) {
	_, err := chainkeys.NewService(chainkeys.Config{})
	require.Error(t, err)
	_, err = chainkeys.NewService(chainkeys.Config{
		Network: &chaincfg.MainNetParams, ArweaveKeyBits: 512,
	})
	require.Error(t, err)
}

func TestImportMnemonicVectors(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		chain    domain.Chain
		expected string
	}{
		// BIP86 first receive address
		{domain.ChainBitcoin, "bc1p5cyxnuxmeuwuvkwfem96lqzszd02n6xdcjrs20cac6yqjjwudpxqkedrcr"},
		{domain.ChainEthereum, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"},
		// mnemonics default to ethereum
		{domain.ChainUnknown, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"},
	}
	for _, tt := range tests {
		t.Run(tt.chain.String(), func(t *testing.T) {
			key, err := svc.ImportKey(testMnemonic, tt.chain)
			require.NoError(t, err)
			require.Equal(t, tt.expected, key.Address)
			require.Equal(t, testMnemonic, key.Secret.Mnemonic)
		})
	}

	_, err := svc.ImportKey(testMnemonic, domain.ChainArweave)
	require.ErrorIs(t, err, chainkeys.ErrMnemonicNotSupported)
}

func TestImportMnemonicIsDeterministic(t *testing.T) {
	svc := newTestService(t)
	for _, chain := range []domain.Chain{domain.ChainSolana, domain.ChainSui} {
		k1, err := svc.ImportKey(testMnemonic, chain)
		require.NoError(t, err)
		k2, err := svc.ImportKey(strings.ToUpper(testMnemonic), chain)
		require.NoError(t, err)
		require.Equal(t, k1, k2)
		require.Equal(t, chain, k1.Chain)
		require.True(t, svc.IsValidAddress(chain, k1.Address))

		// the derived raw key imports back to the same account
		k3, err := svc.ImportKey(k1.Secret.Key, domain.ChainUnknown)
		require.NoError(t, err)
		require.Equal(t, k1.Address, k3.Address)
	}
}

func TestImportEthereumKey(t *testing.T) {
	svc := newTestService(t)
	for _, raw := range []string{
		"0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318",
		"4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318",
		" 0x4C0883A69102937D6231471B5DBB6204FE5129617082792AE468D01A3F362318\n",
	} {
		key, err := svc.ImportKey(raw, domain.ChainUnknown)
		require.NoError(t, err)
		require.Equal(t, domain.ChainEthereum, key.Chain)
		require.Equal(t, "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23", key.Address)
		require.Equal(t, "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318", key.Secret.Key)
		require.Empty(t, key.Secret.Mnemonic)
	}
}

func TestNewKeyRoundTrip(t *testing.T) {
	svc := newTestService(t)

	for _, chain := range domain.SupportedChains() {
		t.Run(chain.String(), func(t *testing.T) {
			key, err := svc.NewKey(chain)
			require.NoError(t, err)
			require.Equal(t, chain, key.Chain)
			require.NotEmpty(t, key.Secret.Key)
			require.True(t, svc.IsValidAddress(chain, key.Address))
			require.Equal(t, chain, svc.DetectChain(key.Secret.Key))

			imported, err := svc.ImportKey(key.Secret.Key, domain.ChainUnknown)
			require.NoError(t, err)
			require.Equal(t, key.Address, imported.Address)

			if key.Secret.Mnemonic != "" {
				fromMnemonic, err := svc.ImportKey(key.Secret.Mnemonic, chain)
				require.NoError(t, err)
				require.Equal(t, key, fromMnemonic)
			}
		})
	}

	_, err := svc.NewKey(domain.ChainUnknown)
	require.ErrorIs(t, err, domain.ErrUnknownChain)
}

func TestImportBitcoinKey(t *testing.T) {
	svc := newTestService(t)
	key, err := svc.ImportKey(testMnemonic, domain.ChainBitcoin)
	require.NoError(t, err)

	imported, err := svc.ImportKey(key.Secret.Key, domain.ChainUnknown)
	require.NoError(t, err)
	require.Equal(t, domain.ChainBitcoin, imported.Chain)
	require.Equal(t, key.Address, imported.Address)
	require.NoError(t, bitcoin.CheckKeyControlsAddress(
		imported.Secret.Key, imported.Address, &chaincfg.MainNetParams,
	))

	testnetSvc, err := chainkeys.NewService(chainkeys.Config{
		Network: &chaincfg.TestNet3Params,
	})
	require.NoError(t, err)
	_, err = testnetSvc.ImportKey(key.Secret.Key, domain.ChainUnknown)
	require.ErrorIs(t, err, bitcoin.ErrInvalidWIF)

	testnetKey, err := testnetSvc.ImportKey(testMnemonic, domain.ChainBitcoin)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(testnetKey.Address, "tb1p"))
}

func TestImportSolanaByteArray(t *testing.T) {
	svc := newTestService(t)
	privKey, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	ints := make([]int, 0, len(privKey))
	for _, b := range privKey {
		ints = append(ints, int(b))
	}
	buf, err := json.Marshal(ints)
	require.NoError(t, err)

	key, err := svc.ImportKey(string(buf), domain.ChainUnknown)
	require.NoError(t, err)
	require.Equal(t, domain.ChainSolana, key.Chain)
	require.Equal(t, privKey.PublicKey().String(), key.Address)
	require.Equal(t, privKey.String(), key.Secret.Key)

	// keypair whose public half does not match its seed
	tampered := make([]int, len(ints))
	copy(tampered, ints)
	tampered[63] ^= 0xff
	buf, _ = json.Marshal(tampered)
	_, err = svc.ImportKey(string(buf), domain.ChainUnknown)
	require.ErrorIs(t, err, chainkeys.ErrInvalidPrivateKey)
}

func TestImportArweaveKey(t *testing.T) {
	svc := newTestService(t)
	key, err := svc.NewKey(domain.ChainArweave)
	require.NoError(t, err)
	require.Len(t, key.Address, 43)

	jwk := map[string]string{}
	require.NoError(t, json.Unmarshal([]byte(key.Secret.Key), &jwk))
	require.Equal(t, "RSA", jwk["kty"])
	require.Equal(t, "AQAB", jwk["e"])

	jwk["d"] = jwk["n"]
	buf, _ := json.Marshal(jwk)
	_, err = svc.ImportKey(string(buf), domain.ChainUnknown)
	require.ErrorIs(t, err, chainkeys.ErrInvalidPrivateKey)
}

func TestImportUnrecognizedKey(t *testing.T) {
	svc := newTestService(t)
	for _, raw := range []string{
		"",
		"hello world",
		"0x1234",
		`{"kty":"EC"}`,
		"[1,2,3]",
		"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa",
		strings.Repeat("abandon ", 12),
	} {
		_, err := svc.ImportKey(raw, domain.ChainUnknown)
		require.ErrorIs(t, err, domain.ErrUnrecognizedKey, raw)
		require.Equal(t, domain.ChainUnknown, svc.DetectChain(raw))
	}
	require.Equal(t, domain.ChainUnknown, svc.DetectChain(testMnemonic))
}

func TestSuiKeyFormat(t *testing.T) {
	svc := newTestService(t)
	key, err := svc.NewKey(domain.ChainSui)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(key.Secret.Key, "suiprivkey1"))
	require.Len(t, key.Address, 66)

	imported, err := svc.ImportKey(strings.ToUpper(key.Secret.Key), domain.ChainUnknown)
	require.NoError(t, err)
	require.Equal(t, key.Address, imported.Address)

	_, err = svc.ImportKey("suiprivkey1qqqqq", domain.ChainUnknown)
	require.ErrorIs(t, err, chainkeys.ErrInvalidPrivateKey)
}
