package bitcoin

import (
	"context"
	"encoding/asn1"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	dcrecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	ecdsaadaptor "github.com/grin-btc/atomicswap/adaptor/ecdsa"
	"github.com/grin-btc/atomicswap/internal/curve"
	"github.com/grin-btc/atomicswap/internal/swaperr"
)

// Node is the Bitcoin collaborator contract the protocol consumes; a
// real implementation wraps node RPC.
type Node interface {
	PostTransaction(ctx context.Context, tx *wire.MsgTx) error
	GetRawTransaction(ctx context.Context, txid chainhash.Hash) (*wire.MsgTx, error)
}

// Fund is the single-input fund transaction. Its input still needs the
// funder's wallet to sign the spend of its own UTXO, a standard wallet
// operation the node/wallet integration performs; the protocol itself
// only fixes the transaction's shape and the fund outpoint both parties
// agree on.
type Fund struct {
	Tx *wire.MsgTx
}

func (f Fund) Execute(ctx context.Context, node Node) error {
	return node.PostTransaction(ctx, f.Tx)
}

// Refund is the fully-signed refund transaction; the caller is responsible
// for waiting until the offer's expiry before posting it.
type Refund struct {
	Tx *wire.MsgTx
}

func (r Refund) Execute(ctx context.Context, node Node) error {
	return node.PostTransaction(ctx, r.Tx)
}

// EncryptedRedeem carries the redeem transaction with the funder's
// witness signature still encrypted under Y. Once y is known, Finalize
// completes the witness with the redeemer's own plain signature plus the
// decrypted funder signature.
type EncryptedRedeem struct {
	Tx            *wire.MsgTx
	WitnessScript []byte
	SigHash       []byte
	FunderX       curve.Point
	RedeemerX     curve.Point
	Y             curve.Point
	EncSig        ecdsaadaptor.EncryptedSignature
}

// RecoveryKey is the half of the encrypted signature sufficient to
// recover y once the decrypted signature is observed on-chain.
func (e EncryptedRedeem) RecoveryKey() ecdsaadaptor.RecoveryKey {
	return ecdsaadaptor.RecoveryKey{Y: e.Y, Shat: e.EncSig.Shat}
}

// Finalize decrypts the funder's redeem signature with y, signs the
// redeemer's own half directly (no adaptor needed, the redeemer already
// holds their own key), and returns the fully-witnessed redeem transaction.
func (e EncryptedRedeem) Finalize(y curve.Scalar, redeemerKey curve.Scalar) (*wire.MsgTx, error) {
	funderSig := ecdsaadaptor.DecSig(y, e.EncSig)
	if !ecdsaadaptor.Verify(funderSig, e.FunderX, MessageScalar(e.SigHash)) {
		return nil, &swaperr.AdaptorVerifyFailed{}
	}
	redeemerSig := signPlain(redeemerKey, e.SigHash)

	tx := e.Tx.Copy()
	funderDER := DER(ecdsaadaptor.Signature{R: funderSig.R, S: funderSig.S})
	tx.TxIn[0].Witness = Witness(e.WitnessScript, redeemerSig.Serialize(), funderDER)
	return tx, nil
}

func (e EncryptedRedeem) Execute(ctx context.Context, node Node, y curve.Scalar, redeemerKey curve.Scalar) error {
	tx, err := e.Finalize(y, redeemerKey)
	if err != nil {
		return err
	}
	return node.PostTransaction(ctx, tx)
}

// LookFor scans a published redeem transaction's witness for the
// funder's decrypted signature, returning it so y can be recovered. It
// returns swaperr.NotRecoverable when the transaction does not carry a
// signature that verifies against FunderX (an unrelated transaction
// paying the same address, or not the redeem at all), so the watcher
// keeps polling.
func (e EncryptedRedeem) LookFor(ctx context.Context, node Node, txid chainhash.Hash) (ecdsaadaptor.Signature, error) {
	tx, err := node.GetRawTransaction(ctx, txid)
	if err != nil {
		return ecdsaadaptor.Signature{}, fmt.Errorf("bitcoin: fetch redeem tx: %w", err)
	}
	if len(tx.TxIn) == 0 || len(tx.TxIn[0].Witness) < 3 {
		return ecdsaadaptor.Signature{}, &swaperr.NotRecoverable{}
	}
	for _, item := range tx.TxIn[0].Witness[1:3] {
		if len(item) == 0 {
			continue
		}
		der := item[:len(item)-1]
		sig, err := ParseDER(der)
		if err != nil {
			continue
		}
		candidate := signatureFromDecred(sig)
		if ecdsaadaptor.Verify(candidate, e.FunderX, MessageScalar(e.SigHash)) {
			return candidate, nil
		}
	}
	return ecdsaadaptor.Signature{}, &swaperr.NotRecoverable{}
}

func signatureFromDecred(sig *dcrecdsa.Signature) ecdsaadaptor.Signature {
	var rs struct{ R, S *big.Int }
	asn1.Unmarshal(sig.Serialize(), &rs)
	return ecdsaadaptor.Signature{R: curve.ScalarFromBytes(rs.R.Bytes()), S: curve.ScalarFromBytes(rs.S.Bytes())}
}
