package bitcoin_test

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/permavault/permavault-daemon/pkg/bitcoin"
	"github.com/permavault/permavault-daemon/pkg/explorer"
	"github.com/stretchr/testify/require"
)

type txFixture struct {
	net      *chaincfg.Params
	wif      string
	from     string
	to       string
	toScript []byte
}

func newTxFixture(t *testing.T) txFixture {
	net := &chaincfg.RegressionNetParams
	wif := testWIF(t, "sender", net)
	from, err := bitcoin.AddressFromWIF(wif, net)
	require.NoError(t, err)
	to, err := bitcoin.AddressFromWIF(testWIF(t, "receiver", net), net)
	require.NoError(t, err)
	toScript, err := bitcoin.DecodeAddress(to, net)
	require.NoError(t, err)
	return txFixture{net, wif, from, to, toScript}
}

// verifyTx runs every input through the script engine.
func verifyTx(t *testing.T, tx *wire.MsgTx, inputs []explorer.Utxo, pkScript []byte) {
	prevOuts := txscript.NewMultiPrevOutFetcher(nil)
	for _, in := range inputs {
		hash, err := chainhash.NewHashFromStr(in.TxID)
		require.NoError(t, err)
		prevOuts.AddPrevOut(
			wire.OutPoint{Hash: *hash, Index: in.Vout},
			wire.NewTxOut(int64(in.Value), pkScript),
		)
	}
	sigHashes := txscript.NewTxSigHashes(tx, prevOuts)

	for i, in := range inputs {
		vm, err := txscript.NewEngine(
			pkScript, tx, i, txscript.StandardVerifyFlags, nil, sigHashes,
			int64(in.Value), prevOuts,
		)
		require.NoError(t, err)
		require.NoError(t, vm.Execute())
	}
}

func TestBuildSignedTransferTx(t *testing.T) {
	f := newTxFixture(t)
	fromScript, err := bitcoin.DecodeAddress(f.from, f.net)
	require.NoError(t, err)

	tests := []struct {
		name            string
		utxos           []uint64
		amount          uint64
		expectedOutputs int
	}{
		{"with_change", []uint64{20000, 5000}, 12000, 2},
		{"dust_change_dropped", []uint64{10000}, 9300, 1},
		{"many_inputs", []uint64{1000, 1000, 1000, 1000, 1000, 1000}, 3000, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := bitcoin.BuildTransferPlan(utxosWithValues(tt.utxos...), tt.amount, 2)
			require.NoError(t, err)

			tx, err := bitcoin.BuildSignedTransferTx(bitcoin.BuildTxOpts{
				WIF:     f.wif,
				From:    f.from,
				To:      f.to,
				Plan:    plan,
				Network: f.net,
			})
			require.NoError(t, err)
			require.Len(t, tx.TxIn, len(plan.Inputs))
			require.Len(t, tx.TxOut, tt.expectedOutputs)

			require.Equal(t, int64(tt.amount), tx.TxOut[0].Value)
			require.Equal(t, f.toScript, tx.TxOut[0].PkScript)
			if tt.expectedOutputs == 2 {
				require.Equal(t, int64(plan.Change), tx.TxOut[1].Value)
				require.Equal(t, fromScript, tx.TxOut[1].PkScript)
			}

			outTotal := int64(0)
			for _, out := range tx.TxOut {
				outTotal += out.Value
			}
			require.Equal(t, int64(plan.TotalInput-plan.EffectiveFee()), outTotal)

			for _, in := range tx.TxIn {
				require.Len(t, in.Witness, 1)
				require.Len(t, in.Witness[0], 64)
			}
			verifyTx(t, tx, plan.Inputs, fromScript)

			txHex, err := bitcoin.SerializeTx(tx)
			require.NoError(t, err)
			raw, err := hex.DecodeString(txHex)
			require.NoError(t, err)
			parsed := wire.NewMsgTx(0)
			require.NoError(t, parsed.Deserialize(bytes.NewReader(raw)))
			require.Equal(t, tx.TxHash(), parsed.TxHash())
		})
	}
}

func TestBuildSignedTransferTxFailures(t *testing.T) {
	f := newTxFixture(t)
	plan, err := bitcoin.BuildTransferPlan(utxosWithValues(20000), 5000, 2)
	require.NoError(t, err)

	otherWIF := testWIF(t, "mallory", f.net)

	tests := []struct {
		name string
		opts bitcoin.BuildTxOpts
		err  error
	}{
		{
			"key_mismatch",
			bitcoin.BuildTxOpts{WIF: otherWIF, From: f.from, To: f.to, Plan: plan, Network: f.net},
			bitcoin.ErrKeyMismatch,
		},
		{
			"invalid_recipient",
			bitcoin.BuildTxOpts{WIF: f.wif, From: f.from, To: "mzBc4XEFSdzCDcTxAgf6EZXgsZWpztRhef", Plan: plan, Network: f.net},
			bitcoin.ErrInvalidAddress,
		},
		{
			"null_plan",
			bitcoin.BuildTxOpts{WIF: f.wif, From: f.from, To: f.to, Network: f.net},
			bitcoin.ErrNullPlan,
		},
		{
			"null_network",
			bitcoin.BuildTxOpts{WIF: f.wif, From: f.from, To: f.to, Plan: plan},
			bitcoin.ErrNullNetwork,
		},
		{
			"underfunded_plan",
			bitcoin.BuildTxOpts{
				WIF: f.wif, From: f.from, To: f.to, Network: f.net,
				Plan: &bitcoin.TransferPlan{
					Inputs: plan.Inputs, Amount: 30000, Fee: 300, TotalInput: 20000,
				},
			},
			bitcoin.ErrInsufficientBalance,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := bitcoin.BuildSignedTransferTx(tt.opts)
			require.ErrorIs(t, err, tt.err)
			require.Nil(t, tx)
		})
	}
}
