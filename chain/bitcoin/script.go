package bitcoin

import (
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/grin-btc/atomicswap/internal/curve"
)

// FundScript builds the 2-of-2 witness script and its P2WSH pkScript:
// "2 <redeemer_X> <funder_X> 2 OP_CHECKMULTISIG".
func FundScript(redeemerX, funderX curve.Point) (witnessScript, pkScript []byte, err error) {
	witnessScript, err = txscript.NewScriptBuilder().
		AddOp(txscript.OP_2).
		AddData(redeemerX.Bytes()).
		AddData(funderX.Bytes()).
		AddOp(txscript.OP_2).
		AddOp(txscript.OP_CHECKMULTISIG).
		Script()
	if err != nil {
		return nil, nil, fmt.Errorf("bitcoin: build witness script: %w", err)
	}
	digest := sha256.Sum256(witnessScript)
	pkScript, err = txscript.NewScriptBuilder().
		AddOp(txscript.OP_0).
		AddData(digest[:]).
		Script()
	if err != nil {
		return nil, nil, fmt.Errorf("bitcoin: build fund pkScript: %w", err)
	}
	return witnessScript, pkScript, nil
}

// SigHash computes the BIP143 witness signature hash for spending a P2WSH
// input at index 0 (redeem and refund each spend exactly one input, the
// fund output).
func SigHash(tx *wire.MsgTx, witnessScript []byte, inputValue int64) ([]byte, error) {
	fetcher := txscript.NewCannedPrevOutputFetcher(nil, inputValue)
	sigHashes := txscript.NewTxSigHashes(tx, fetcher)
	h, err := txscript.CalcWitnessSigHash(witnessScript, sigHashes, txscript.SigHashAll, tx, 0, inputValue)
	if err != nil {
		return nil, fmt.Errorf("bitcoin: compute sighash: %w", err)
	}
	return h, nil
}

// Witness assembles the redeem/refund witness stack: the leading empty
// item is the well-known OP_CHECKMULTISIG off-by-one.
func Witness(witnessScript, redeemerDER, funderDER []byte) wire.TxWitness {
	return wire.TxWitness{
		nil,
		append(redeemerDER, byte(txscript.SigHashAll)),
		append(funderDER, byte(txscript.SigHashAll)),
		witnessScript,
	}
}
