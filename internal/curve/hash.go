package curve

import "crypto/sha256"

// HashToScalar reduces SHA-256(data...) modulo the group order. Used for
// the Schnorr challenge e = H(R, X, message) and the Grin kernel offset
// derivation.
func HashToScalar(parts ...[]byte) Scalar {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	return ScalarFromBytes(h.Sum(nil))
}

// IsQuadraticResidue reports whether p's y-coordinate is a quadratic
// residue mod the secp256k1 field prime. Grin only accepts kernel
// signatures whose nonce has a QR y-coordinate, so both signers evaluate
// this on the same aggregated nonce to agree on whether to negate their
// shares.
func (p Point) IsQuadraticResidue() bool {
	yb := p.yBytes()
	return isQuadraticResidueFieldBytes(yb[:])
}

func (p Point) yBytes() [32]byte {
	var out [32]byte
	b := p.pub.Y().Bytes()
	copy(out[:], b[:])
	return out
}
