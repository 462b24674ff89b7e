package bitcoin

import (
	"github.com/btcsuite/btcd/wire"
	dcrecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	ecdsaadaptor "github.com/grin-btc/atomicswap/adaptor/ecdsa"
	"github.com/grin-btc/atomicswap/internal/curve"
)

// Redeemer0 holds a redeemer's initial state. FundInput is the funder's
// UTXO, public information agreed before the four-message exchange so
// both parties can compute the fund transaction identically.
type Redeemer0 struct {
	Keys      Keys
	Params    Params
	FundInput WalletOutput
}

// Redeemer1 additionally knows the counterparty's public key and has
// signed the refund half.
type Redeemer1 struct {
	base    Redeemer0
	FunderX curve.Point
	set     txSet

	refundSig *dcrecdsa.Signature
}

// Advance moves a Redeemer0 to Redeemer1: computes the shared
// transaction set and signs the refund half-signature.
func (r Redeemer0) Advance(funderX curve.Point) (Redeemer1, []byte, error) {
	set, err := buildTxSet(r.Params, r.FundInput, r.Keys.X.Public, funderX)
	if err != nil {
		return Redeemer1{}, nil, err
	}
	refundSig := signPlain(r.Keys.X.Secret, set.refundHash)
	return Redeemer1{base: r, FunderX: funderX, set: set, refundSig: refundSig}, refundSig.Serialize(), nil
}

// RedeemSigHash is the message the redeemer signs at execution time once
// the funder's adaptor signature has been decrypted.
func (r Redeemer1) RedeemSigHash() []byte {
	return r.set.redeemHash
}

// RefundSigHash is the message the redeemer's refund half-signature was
// produced over.
func (r Redeemer1) RefundSigHash() []byte {
	return r.set.refundHash
}

// FundOutpoint is the deterministic outpoint both parties agree the fund
// output will occupy, before either party signs anything.
func (r Redeemer1) FundOutpoint() wire.OutPoint {
	return r.set.fundOutpoint
}

// Redeemer2 holds the fund/refund transactions the redeemer can verify and
// the encrypted redeem action, awaiting y.
type Redeemer2 struct {
	Fund            Fund
	Refund          Refund
	EncryptedRedeem EncryptedRedeem
}

// Advance moves a Redeemer1 to Redeemer2 on receipt of the funder's
// encrypted redeem signature. It verifies the encrypted signature's DLEQ
// proof and signing equation before accepting it.
func (r Redeemer1) Advance(encsig ecdsaadaptor.EncryptedSignature, Y curve.Point) (Redeemer2, error) {
	if err := ecdsaadaptor.EncVerify(r.FunderX, Y, MessageScalar(r.set.redeemHash), encsig); err != nil {
		return Redeemer2{}, err
	}

	return Redeemer2{
		Fund:   Fund{Tx: r.set.fundTx},
		Refund: Refund{Tx: r.set.refundTx},
		EncryptedRedeem: EncryptedRedeem{
			Tx:            r.set.redeemTx,
			WitnessScript: r.set.witnessScript,
			SigHash:       r.set.redeemHash,
			FunderX:       r.FunderX,
			RedeemerX:     r.base.Keys.X.Public,
			Y:             Y,
			EncSig:        encsig,
		},
	}, nil
}
