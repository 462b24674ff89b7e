// Package schnorr implements the 2-party Schnorr signing and adaptor
// signing used for Grin kernels. Unlike adaptor-ECDSA, a Schnorr adaptor
// signature is additively encrypted: the encrypted signature's scalar is
// s0+s1 against an aggregated nonce R = r0*G + r1*G + Y, and DecSig
// simply adds y. Recovery is therefore just subtraction once the
// decrypted signature is published.
package schnorr

import "github.com/grin-btc/atomicswap/internal/curve"

// Partial is one signer's half-signature contribution: s_i = r_i + e*x_i.
type Partial struct {
	S curve.Scalar
}

// Challenge computes e = H(R, X, msg), the Schnorr challenge over the
// aggregated nonce R, the (offset-adjusted) aggregated excess X, and the
// kernel's signed message (features || fee, or for Grin's refund kernel,
// features || fee || lock_height).
func Challenge(R, X curve.Point, msg []byte) curve.Scalar {
	return curve.HashToScalar(R.Bytes(), X.Bytes(), msg)
}

// Sign produces this party's partial signature against challenge e, given
// its own nonce secret and (offset-adjusted, where applicable) key share.
func Sign(nonce, key, e curve.Scalar) Partial {
	return Partial{S: nonce.Add(e.Mul(key))}
}

// VerifyPartial checks a single partial signature against the signer's
// public nonce and public key share, for the shared challenge e. A
// funder runs this against every redeemer partial before aggregating or
// publishing anything.
func VerifyPartial(part Partial, publicNonce, publicKey curve.Point, e curve.Scalar) bool {
	lhs := part.S.BaseMul()
	rhs := publicNonce.Add(e.MulPoint(publicKey))
	return lhs.Equal(rhs)
}

// Aggregate sums partial signatures into the joint scalar. For a plain
// signature this already verifies against (R, X); for an adaptor
// signature under Y it is the encrypted signature's scalar component.
func Aggregate(parts ...Partial) curve.Scalar {
	sum := curve.ZeroScalar()
	for _, p := range parts {
		sum = sum.Add(p.S)
	}
	return sum
}

// Verify checks a full (aggregated) Schnorr signature s against nonce R,
// excess X and challenge e.
func Verify(R, X curve.Point, e curve.Scalar, s curve.Scalar) bool {
	return s.BaseMul().Equal(R.Add(e.MulPoint(X)))
}

// DecSig decrypts an adaptor signature's scalar component by adding the
// one-time scalar y.
func DecSig(encryptedS curve.Scalar, y curve.Scalar) curve.Scalar {
	return encryptedS.Add(y)
}

// EncVerify checks an aggregated adaptor signature scalar against the
// normalized nonce R it was produced under: s*G + Y == R + e*X, where Y
// must carry the same sign flip the normalization applied to R (the
// caller negates it when the pre-normalization aggregate was not a
// quadratic residue). Decrypting a scalar that passes this check always
// yields a signature Verify accepts.
func EncVerify(R, Y, X curve.Point, e curve.Scalar, encryptedS curve.Scalar) bool {
	lhs := encryptedS.BaseMul().Add(Y)
	rhs := R.Add(e.MulPoint(X))
	return lhs.Equal(rhs)
}

// Recover extracts y from a decrypted signature once it is published
// on-chain, given the encrypted signature's scalar that was known before
// decryption by straight subtraction.
func Recover(decryptedS, encryptedS curve.Scalar) curve.Scalar {
	return decryptedS.Add(encryptedS.Negate())
}

// NormalizeTriple enforces the quadratic-residue rule: if the aggregated
// redeem nonce R = r_self*G + r_other*G + Y does not have a
// quadratic-residue y-coordinate, r_self, r_other and y are all negated
// in lockstep so the final signature's R satisfies Grin's verification
// rule. Both parties call this on the same serialized R (computed
// independently from the same public nonce commitments) and therefore
// agree on whether to negate. The procedure is idempotent: R after one
// application is always a quadratic residue, so a second application is
// a no-op.
func NormalizeTriple(rSelf, rOther, y curve.Scalar, R curve.Point) (curve.Scalar, curve.Scalar, curve.Scalar, curve.Point) {
	if R.IsQuadraticResidue() {
		return rSelf, rOther, y, R
	}
	return rSelf.Negate(), rOther.Negate(), y.Negate(), R.Negate()
}

// NormalizePair is NormalizeTriple without an adaptor scalar, used for the
// plain fund/refund kernels which have no Y term.
func NormalizePair(rSelf, rOther curve.Scalar, R curve.Point) (curve.Scalar, curve.Scalar, curve.Point) {
	if R.IsQuadraticResidue() {
		return rSelf, rOther, R
	}
	return rSelf.Negate(), rOther.Negate(), R.Negate()
}

// NormalizeSelf applies the same quadratic-residue rule from a single
// party's point of view: it knows only its own nonce secret, not the
// counterparty's, so it negates just its own share when the aggregated
// (public) R is not a quadratic residue. Both parties reach the same
// decision independently because they test the same serialized R.
func NormalizeSelf(rSelf curve.Scalar, R curve.Point) curve.Scalar {
	if R.IsQuadraticResidue() {
		return rSelf
	}
	return rSelf.Negate()
}

// NormalizedPoint returns R, negated under the same quadratic-residue
// rule NormalizeSelf applies, so a party can recover the final (R, X)
// pair a signature will verify against without needing the
// counterparty's secret.
func NormalizedPoint(R curve.Point) curve.Point {
	if R.IsQuadraticResidue() {
		return R
	}
	return R.Negate()
}
