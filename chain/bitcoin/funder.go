package bitcoin

import (
	"github.com/btcsuite/btcd/wire"

	ecdsaadaptor "github.com/grin-btc/atomicswap/adaptor/ecdsa"
	"github.com/grin-btc/atomicswap/internal/curve"
	"github.com/grin-btc/atomicswap/internal/swaperr"
)

// Funder0 holds a funder's initial state: its own keys, the agreed
// terms, and the UTXO it will spend from.
type Funder0 struct {
	Keys   Keys
	Params Params
	Input  WalletOutput
}

// Funder1 additionally knows the counterparty's public key, enough to
// compute the deterministic fund/refund/redeem transaction set.
type Funder1 struct {
	base      Funder0
	RedeemerX curve.Point
	set       txSet
}

// Advance moves a Funder0 to Funder1 on receipt of the counterparty's
// public key.
func (f Funder0) Advance(redeemerX curve.Point) (Funder1, error) {
	set, err := buildTxSet(f.Params, f.Input, redeemerX, f.Keys.X.Public)
	if err != nil {
		return Funder1{}, err
	}
	return Funder1{base: f, RedeemerX: redeemerX, set: set}, nil
}

// RefundSigHash is the message the redeemer must sign for Funder1 ->
// Funder2 to proceed.
func (f Funder1) RefundSigHash() []byte {
	return f.set.refundHash
}

// RedeemSigHash is the message the funder's adaptor-encrypted redeem
// signature is produced over.
func (f Funder1) RedeemSigHash() []byte {
	return f.set.redeemHash
}

// FundOutpoint is the deterministic outpoint both parties agree the fund
// output will occupy, before either party signs anything.
func (f Funder1) FundOutpoint() wire.OutPoint {
	return f.set.fundOutpoint
}

// Funder2 holds the fully-built actions, ready for execution.
type Funder2 struct {
	Fund            Fund
	Refund          Refund
	EncryptedRedeem EncryptedRedeem
}

// Advance moves a Funder1 to Funder2: verifies the redeemer's refund
// half-signature, signs the funder's own half, combines into the full
// refund transaction, and produces the adaptor-encrypted redeem
// signature under Y.
func (f Funder1) Advance(redeemerRefundDER []byte, Y curve.Point) (Funder2, error) {
	redeemerSig, err := ParseDER(redeemerRefundDER)
	if err != nil {
		return Funder2{}, err
	}
	if !verifyPlain(redeemerSig, f.set.refundHash, f.RedeemerX) {
		return Funder2{}, &swaperr.PartialSigInvalid{Role: swaperr.RoleRedeemer, Kernel: swaperr.KernelRefund}
	}
	funderRefundSig := signPlain(f.base.Keys.X.Secret, f.set.refundHash)

	refundTx := f.set.refundTx.Copy()
	refundTx.TxIn[0].Witness = Witness(f.set.witnessScript, redeemerRefundDER, funderRefundSig.Serialize())

	encsig, err := ecdsaadaptor.EncSign(f.base.Keys.X.Secret, Y, MessageScalar(f.set.redeemHash))
	if err != nil {
		return Funder2{}, err
	}

	return Funder2{
		Fund:   Fund{Tx: f.set.fundTx},
		Refund: Refund{Tx: refundTx},
		EncryptedRedeem: EncryptedRedeem{
			Tx:            f.set.redeemTx,
			WitnessScript: f.set.witnessScript,
			SigHash:       f.set.redeemHash,
			FunderX:       f.base.Keys.X.Public,
			RedeemerX:     f.RedeemerX,
			Y:             Y,
			EncSig:        encsig,
		},
	}, nil
}
