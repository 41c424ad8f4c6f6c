package bitcoin

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

const txVersion = 2

// BuildTxOpts is the struct given to BuildSignedTransferTx method
type BuildTxOpts struct {
	// WIF is the signing key of the funding address.
	WIF     string
	From    string
	To      string
	Plan    *TransferPlan
	Network *chaincfg.Params
}

func (o BuildTxOpts) validate() error {
	if o.Network == nil {
		return ErrNullNetwork
	}
	if o.Plan == nil {
		return ErrNullPlan
	}
	if o.Plan.Amount == 0 {
		return ErrInvalidAmount
	}
	if len(o.Plan.Inputs) <= 0 || o.Plan.TotalInput < o.Plan.Amount+o.Plan.Fee {
		return ErrInsufficientBalance
	}
	return nil
}

// BuildSignedTransferTx builds a transaction paying Plan.Amount to To, with a
// change output back to From when the change is above the dust threshold.
// Every input is signed with a taproot key-path signature. The key is checked
// against From before anything is signed.
func BuildSignedTransferTx(opts BuildTxOpts) (*wire.MsgTx, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	toScript, err := DecodeAddress(opts.To, opts.Network)
	if err != nil {
		return nil, err
	}
	fromScript, err := DecodeAddress(opts.From, opts.Network)
	if err != nil {
		return nil, err
	}

	if err := CheckKeyControlsAddress(opts.WIF, opts.From, opts.Network); err != nil {
		return nil, err
	}
	wif, err := ParseWIF(opts.WIF, opts.Network)
	if err != nil {
		return nil, err
	}
	signingKey, err := TweakPrivKey(wif.PrivKey)
	if err != nil {
		return nil, err
	}

	tx := wire.NewMsgTx(txVersion)
	prevOuts := txscript.NewMultiPrevOutFetcher(nil)
	for _, in := range opts.Plan.Inputs {
		hash, err := chainhash.NewHashFromStr(in.TxID)
		if err != nil {
			return nil, fmt.Errorf("invalid input txid %s: %w", in.TxID, err)
		}
		outpoint := wire.NewOutPoint(hash, in.Vout)
		tx.AddTxIn(wire.NewTxIn(outpoint, nil, nil))
		prevOuts.AddPrevOut(*outpoint, wire.NewTxOut(int64(in.Value), fromScript))
	}

	tx.AddTxOut(wire.NewTxOut(int64(opts.Plan.Amount), toScript))
	if opts.Plan.HasChangeOutput() {
		tx.AddTxOut(wire.NewTxOut(int64(opts.Plan.Change), fromScript))
	}

	sigHashes := txscript.NewTxSigHashes(tx, prevOuts)
	for i := range tx.TxIn {
		sigHash, err := txscript.CalcTaprootSignatureHash(
			sigHashes, txscript.SigHashDefault, tx, i, prevOuts,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to compute sighash of input %d: %w", i, err)
		}
		sig, err := schnorr.Sign(signingKey, sigHash)
		if err != nil {
			return nil, fmt.Errorf("failed to sign input %d: %w", i, err)
		}
		// SigHashDefault signatures are 64 bytes, no sighash flag appended.
		tx.TxIn[i].Witness = wire.TxWitness{sig.Serialize()}
	}

	return tx, nil
}

// SerializeTx returns the hex encoding of tx, witnesses included.
func SerializeTx(tx *wire.MsgTx) (string, error) {
	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf.Bytes()), nil
}
