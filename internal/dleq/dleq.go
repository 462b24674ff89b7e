// Package dleq implements a Chaum-Pedersen discrete-log-equality proof:
// given bases G and Y and points R̂ = r*G, R = r*Y, prove knowledge of r
// without revealing it. Adaptor-ECDSA uses this to bind the encryption
// nonce r to both its G-multiple and its Y-multiple, so a verifier can
// trust that decrypting the signature with the scalar behind Y recovers
// the same r used to build R̂.
package dleq

import (
	"github.com/grin-btc/atomicswap/internal/curve"
)

// Proof is a non-interactive Chaum-Pedersen proof that log_G(Rhat) ==
// log_Y(R).
type Proof struct {
	C curve.Scalar
	S curve.Scalar
}

// Prove constructs a proof that Rhat = r*G and R = r*Y for the given
// secret r, public Y, and derived points Rhat/R.
func Prove(r curve.Scalar, Y, Rhat, R curve.Point) (Proof, error) {
	k, err := curve.RandomScalar()
	if err != nil {
		return Proof{}, err
	}
	K1 := k.BaseMul()
	K2 := k.MulPoint(Y)

	c := challenge(Y, Rhat, R, K1, K2)
	s := k.Add(c.Mul(r))
	return Proof{C: c, S: s}, nil
}

// Verify checks a proof against the public Y, Rhat, R it claims to relate.
func Verify(p Proof, Y, Rhat, R curve.Point) bool {
	// K1' = s*G - c*Rhat, K2' = s*Y - c*R
	sG := p.S.BaseMul()
	cRhat := p.C.MulPoint(Rhat)
	K1 := sG.Add(cRhat.Negate())

	sY := p.S.MulPoint(Y)
	cR := p.C.MulPoint(R)
	K2 := sY.Add(cR.Negate())

	cPrime := challenge(Y, Rhat, R, K1, K2)
	return cPrime.Equal(p.C)
}

func challenge(Y, Rhat, R, K1, K2 curve.Point) curve.Scalar {
	return curve.HashToScalar(Y.Bytes(), Rhat.Bytes(), R.Bytes(), K1.Bytes(), K2.Bytes())
}
