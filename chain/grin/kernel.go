package grin

import (
	"encoding/binary"

	"github.com/grin-btc/atomicswap/adaptor/schnorr"
	"github.com/grin-btc/atomicswap/internal/curve"
)

// Feature is a Grin kernel's feature flag.
type Feature int

const (
	// Plain is used for the fund and redeem kernels, fee 0; the
	// aggregated wallet-side kernel pays the real network fee.
	Plain Feature = iota
	// HeightLocked is used for the refund kernel, fee 0, locked to the
	// offer's expiry.
	HeightLocked
)

// Message builds the byte string a kernel's Schnorr challenge is
// computed over alongside (R, X): features || fee || [lock_height].
func Message(feature Feature, fee, lockHeight uint64) []byte {
	buf := make([]byte, 9)
	buf[0] = byte(feature)
	binary.BigEndian.PutUint64(buf[1:], fee)
	if feature != HeightLocked {
		return buf
	}
	lockBuf := make([]byte, 8)
	binary.BigEndian.PutUint64(lockBuf, lockHeight)
	return append(buf, lockBuf...)
}

// Offset computes a kernel's deterministic offset: SHA-256 of the
// x-coordinates of both parties' per-kernel nonce public keys.
func Offset(rFunder, rRedeemer curve.Point) curve.Scalar {
	fx := rFunder.XBytes()
	rx := rRedeemer.XBytes()
	return curve.HashToScalar(fx[:], rx[:])
}

// Excess computes the kernel excess X - offset*G: the public point
// both parties' Schnorr partials are verified against, once the offset has
// been subtracted from the aggregated blinding factor.
func Excess(X curve.Point, offset curve.Scalar) curve.Point {
	return X.Add(offset.Negate().BaseMul())
}

// effectiveNonce returns a signer's public nonce share with the sign
// flip its owner applied when the raw aggregated nonce failed the
// quadratic-residue test, so a partial signature can be verified against
// the share its producer actually signed with.
func effectiveNonce(share, rawAggregate curve.Point) curve.Point {
	if rawAggregate.IsQuadraticResidue() {
		return share
	}
	return share.Negate()
}

// Sig is a finalized Grin kernel signature.
type Sig struct {
	R curve.Point
	S curve.Scalar
}

// Verify checks a finalized kernel signature against its (already
// offset-shifted) excess.
func (s Sig) Verify(excess curve.Point, feature Feature, fee, lockHeight uint64) bool {
	e := schnorr.Challenge(s.R, excess, append([]byte(nil), Message(feature, fee, lockHeight)...))
	return schnorr.Verify(s.R, excess, e, s.S)
}
