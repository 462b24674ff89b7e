package grin

import (
	"github.com/grin-btc/atomicswap/adaptor/schnorr"
	"github.com/grin-btc/atomicswap/chain"
	"github.com/grin-btc/atomicswap/internal/curve"
	"github.com/grin-btc/atomicswap/internal/swaperr"
)

// Redeemer0 holds a redeemer's initial state on Grin.
type Redeemer0 struct {
	Keys  Keys
	Offer chain.Offer
}

// Redeemer1 additionally knows the counterparty's (funder's) public tuple
// and has produced its three partial signatures, ready to send.
type Redeemer1 struct {
	base  Redeemer0
	Other PublicKeys
	X     curve.Point

	fundExcess, redeemExcess, refundExcess curve.Point
	fundR, refundR, redeemR                curve.Point

	// redeemYNegated records whether the redeem nonce normalization
	// flipped signs, so the encrypted scalar can later be checked against
	// the matching image of Y.
	redeemYNegated bool

	Partials RedeemerPartials
}

// Advance moves a Redeemer0 to Redeemer1: computes the three kernels'
// offsets and excesses (identically to the funder side), normalizes each
// nonce under the quadratic-residue rule, and signs all three partials.
// Y must already be known to the caller by this point: true whenever
// this role is played by Alice (she generated y) and true for Bob once
// he has opened Alice's commitment.
func (r Redeemer0) Advance(other PublicKeys, Y curve.Point) Redeemer1 {
	X := r.Keys.X.Public.Add(other.X)

	fundOffset := Offset(other.RFund, r.Keys.RFund.Public)
	refundOffset := Offset(other.RRefund, r.Keys.RRefund.Public)
	redeemOffset := Offset(other.RRedeem, r.Keys.RRedeem.Public)

	rawFundR := r.Keys.RFund.Public.Add(other.RFund)
	rawRefundR := r.Keys.RRefund.Public.Add(other.RRefund)
	rawRedeemR := r.Keys.RRedeem.Public.Add(other.RRedeem).Add(Y)

	fundR := schnorr.NormalizedPoint(rawFundR)
	refundR := schnorr.NormalizedPoint(rawRefundR)
	redeemR := schnorr.NormalizedPoint(rawRedeemR)

	fundExcess := Excess(X, fundOffset)
	refundExcess := Excess(X, refundOffset)
	redeemExcess := Excess(X, redeemOffset)

	fundSelfNonce := schnorr.NormalizeSelf(r.Keys.RFund.Secret, rawFundR)
	refundSelfNonce := schnorr.NormalizeSelf(r.Keys.RRefund.Secret, rawRefundR)
	redeemSelfNonce := schnorr.NormalizeSelf(r.Keys.RRedeem.Secret, rawRedeemR)

	fundE := schnorr.Challenge(fundR, fundExcess, Message(Plain, 0, 0))
	refundE := schnorr.Challenge(refundR, refundExcess, Message(HeightLocked, 0, r.Offer.Expiry))
	redeemE := schnorr.Challenge(redeemR, redeemExcess, Message(Plain, 0, 0))

	partials := RedeemerPartials{
		Fund:   schnorr.Sign(fundSelfNonce, r.Keys.X.Secret, fundE),
		Refund: schnorr.Sign(refundSelfNonce, r.Keys.X.Secret, refundE),
		Redeem: schnorr.Sign(redeemSelfNonce, r.Keys.X.Secret, redeemE),
	}

	return Redeemer1{
		base:  r,
		Other: other,
		X:     X,

		fundExcess:   fundExcess,
		redeemExcess: redeemExcess,
		refundExcess: refundExcess,

		fundR:   fundR,
		refundR: refundR,
		redeemR: redeemR,

		redeemYNegated: !rawRedeemR.IsQuadraticResidue(),

		Partials: partials,
	}
}

// Redeemer2 holds the fully verified fund/refund actions and the still
// -encrypted redeem kernel, awaiting y.
type Redeemer2 struct {
	Fund            Fund
	Refund          Refund
	EncryptedRedeem EncryptedRedeem
}

// Advance moves a Redeemer1 to Redeemer2 on receipt of the funder's
// aggregated fund and refund signatures plus the redeem kernel's
// encrypted scalar. It verifies fund and refund against their excess
// and the encrypted scalar against the redeem nonce before accepting,
// then builds the three actions from its own locally-computed excesses
// rather than trusting the funder's.
func (r Redeemer1) Advance(fund, refund Sig, encryptedS curve.Scalar, Y curve.Point) (Redeemer2, error) {
	if !fund.Verify(r.fundExcess, Plain, 0, 0) {
		return Redeemer2{}, &swaperr.PartialSigInvalid{Role: swaperr.RoleFunder, Kernel: swaperr.KernelFund}
	}
	if !refund.Verify(r.refundExcess, HeightLocked, 0, r.base.Offer.Expiry) {
		return Redeemer2{}, &swaperr.PartialSigInvalid{Role: swaperr.RoleFunder, Kernel: swaperr.KernelRefund}
	}

	yImage := Y
	if r.redeemYNegated {
		yImage = Y.Negate()
	}
	redeemE := schnorr.Challenge(r.redeemR, r.redeemExcess, Message(Plain, 0, 0))
	if !schnorr.EncVerify(r.redeemR, yImage, r.redeemExcess, redeemE, encryptedS) {
		return Redeemer2{}, &swaperr.AdaptorVerifyFailed{}
	}

	return Redeemer2{
		Fund:   Fund{X: r.X, Value: r.base.Offer.FundAmount(), Excess: r.fundExcess, Sig: fund},
		Refund: Refund{X: r.X, Value: r.base.Offer.RefundAmount(), Excess: r.refundExcess, Sig: refund, LockHeight: r.base.Offer.Expiry},
		EncryptedRedeem: EncryptedRedeem{
			X:          r.X,
			Value:      r.base.Offer.RedeemAmount(),
			R:          r.redeemR,
			Excess:     r.redeemExcess,
			Y:          Y,
			YNegated:   r.redeemYNegated,
			EncryptedS: encryptedS,
			Message:    Message(Plain, 0, 0),
		},
	}, nil
}
