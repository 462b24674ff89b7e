package grin

import (
	"github.com/grin-btc/atomicswap/adaptor/schnorr"
	"github.com/grin-btc/atomicswap/chain"
	"github.com/grin-btc/atomicswap/internal/curve"
	"github.com/grin-btc/atomicswap/internal/swaperr"
)

// Funder0 holds a funder's initial state on Grin: its key tuple and the
// agreed offer terms.
type Funder0 struct {
	Keys  Keys
	Offer chain.Offer
}

// Funder1 additionally knows the counterparty's public tuple and the
// per-kernel offsets and excesses both parties compute identically.
type Funder1 struct {
	base  Funder0
	Other PublicKeys
	X     curve.Point // aggregated special-output excess, shared by all 3 kernels

	fundOffset, redeemOffset, refundOffset curve.Scalar
	fundExcess, redeemExcess, refundExcess curve.Point
	fundR, refundR                         curve.Point // normalized (QR) aggregated nonces, no Y

	fundSelfNonce, refundSelfNonce curve.Scalar
}

// Advance moves a Funder0 to Funder1 on receipt of the counterparty's
// public key tuple. By convention the funder is the party that subtracts
// each kernel's offset from its own secret share; the redeemer signs its
// unmodified share, and both verify against the offset-shifted excess.
func (f Funder0) Advance(other PublicKeys) Funder1 {
	X := f.Keys.X.Public.Add(other.X)

	fundOffset := Offset(f.Keys.RFund.Public, other.RFund)
	refundOffset := Offset(f.Keys.RRefund.Public, other.RRefund)
	redeemOffset := Offset(f.Keys.RRedeem.Public, other.RRedeem)

	rawFundR := f.Keys.RFund.Public.Add(other.RFund)
	rawRefundR := f.Keys.RRefund.Public.Add(other.RRefund)

	return Funder1{
		base:  f,
		Other: other,
		X:     X,

		fundOffset:   fundOffset,
		redeemOffset: redeemOffset,
		refundOffset: refundOffset,

		fundExcess:   Excess(X, fundOffset),
		redeemExcess: Excess(X, redeemOffset),
		refundExcess: Excess(X, refundOffset),

		fundR:   schnorr.NormalizedPoint(rawFundR),
		refundR: schnorr.NormalizedPoint(rawRefundR),

		fundSelfNonce:   schnorr.NormalizeSelf(f.Keys.RFund.Secret, rawFundR),
		refundSelfNonce: schnorr.NormalizeSelf(f.Keys.RRefund.Secret, rawRefundR),
	}
}

// RedeemerPartials is the set of partial signatures the redeemer must
// produce and send for Funder1 -> Funder2 to proceed.
type RedeemerPartials struct {
	Fund   schnorr.Partial
	Redeem schnorr.Partial // produced against an R that includes Y, i.e. encrypted
	Refund schnorr.Partial
}

// Funder2 holds the three finalized kernel actions, ready for execution
// (fund and refund plain, redeem still encrypted under Y).
type Funder2 struct {
	Fund            Fund
	Refund          Refund
	EncryptedRedeem EncryptedRedeem
}

// Advance moves a Funder1 to Funder2: verifies the redeemer's three
// partials, produces the funder's own (offset-adjusted) partials,
// aggregates fund and refund into finished signatures, and leaves redeem
// encrypted under Y.
func (f Funder1) Advance(parts RedeemerPartials, Y curve.Point) (Funder2, error) {
	// A signer negated its nonce share iff the raw aggregate failed the
	// quadratic-residue test, so its effective public nonce flips sign
	// under the same predicate.
	rawFundR := f.base.Keys.RFund.Public.Add(f.Other.RFund)
	rawRefundR := f.base.Keys.RRefund.Public.Add(f.Other.RRefund)
	rawRedeemR := f.base.Keys.RRedeem.Public.Add(f.Other.RRedeem).Add(Y)

	fundMsg := Message(Plain, 0, 0)
	fundE := schnorr.Challenge(f.fundR, f.fundExcess, fundMsg)
	if !schnorr.VerifyPartial(parts.Fund, effectiveNonce(f.Other.RFund, rawFundR), f.Other.X, fundE) {
		return Funder2{}, &swaperr.PartialSigInvalid{Role: swaperr.RoleRedeemer, Kernel: swaperr.KernelFund}
	}

	refundMsg := Message(HeightLocked, 0, f.base.Offer.Expiry)
	refundE := schnorr.Challenge(f.refundR, f.refundExcess, refundMsg)
	if !schnorr.VerifyPartial(parts.Refund, effectiveNonce(f.Other.RRefund, rawRefundR), f.Other.X, refundE) {
		return Funder2{}, &swaperr.PartialSigInvalid{Role: swaperr.RoleRedeemer, Kernel: swaperr.KernelRefund}
	}

	R := schnorr.NormalizedPoint(rawRedeemR)
	redeemMsg := Message(Plain, 0, 0)
	redeemE := schnorr.Challenge(R, f.redeemExcess, redeemMsg)
	if !schnorr.VerifyPartial(parts.Redeem, effectiveNonce(f.Other.RRedeem, rawRedeemR), f.Other.X, redeemE) {
		return Funder2{}, &swaperr.PartialSigInvalid{Role: swaperr.RoleRedeemer, Kernel: swaperr.KernelRedeem}
	}

	fundSelfKey := f.base.Keys.X.Secret.Add(f.fundOffset.Negate())
	fundSelf := schnorr.Sign(f.fundSelfNonce, fundSelfKey, fundE)
	fundSig := Sig{R: f.fundR, S: schnorr.Aggregate(fundSelf, parts.Fund)}

	refundSelfKey := f.base.Keys.X.Secret.Add(f.refundOffset.Negate())
	refundSelf := schnorr.Sign(f.refundSelfNonce, refundSelfKey, refundE)
	refundSig := Sig{R: f.refundR, S: schnorr.Aggregate(refundSelf, parts.Refund)}

	redeemSelfNonce := schnorr.NormalizeSelf(f.base.Keys.RRedeem.Secret, rawRedeemR)
	redeemSelfKey := f.base.Keys.X.Secret.Add(f.redeemOffset.Negate())
	redeemSelf := schnorr.Sign(redeemSelfNonce, redeemSelfKey, redeemE)
	encryptedS := schnorr.Aggregate(redeemSelf, parts.Redeem)

	return Funder2{
		Fund:   Fund{X: f.X, Value: f.base.Offer.FundAmount(), Excess: f.fundExcess, Sig: fundSig},
		Refund: Refund{X: f.X, Value: f.base.Offer.RefundAmount(), Excess: f.refundExcess, Sig: refundSig, LockHeight: f.base.Offer.Expiry},
		EncryptedRedeem: EncryptedRedeem{
			X:          f.X,
			Value:      f.base.Offer.RedeemAmount(),
			R:          R,
			Excess:     f.redeemExcess,
			Y:          Y,
			YNegated:   !rawRedeemR.IsQuadraticResidue(),
			EncryptedS: encryptedS,
			Message:    redeemMsg,
		},
	}, nil
}
