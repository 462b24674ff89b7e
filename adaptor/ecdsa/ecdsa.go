// Package ecdsa implements single-party adaptor ECDSA: EncSign produces a
// signature encrypted under a public point Y, EncVerify checks it without
// decrypting, DecSig decrypts it into a standard ECDSA signature once the
// scalar behind Y is known, and Recover extracts that scalar once the
// decrypted signature is published on-chain. This is the primitive the
// Bitcoin side of the swap uses for its redeem signature.
package ecdsa

import (
	"bytes"
	"encoding/hex"

	"github.com/grin-btc/atomicswap/internal/curve"
	"github.com/grin-btc/atomicswap/internal/dleq"
	"github.com/grin-btc/atomicswap/internal/swaperr"
)

// halfOrder is N/2 (Bitcoin's canonical BIP-62 low-S threshold), used to
// normalize decrypted signatures so they are indistinguishable from a
// fresh wallet-produced signature.
var halfOrder = mustBytes("7fffffffffffffffffffffffffffffff5d576e7357a4501ddfe92f46681b20a0")

func mustBytes(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("ecdsa: bad constant: " + err.Error())
	}
	return b
}

// Signature is a standard ECDSA signature (r, s) over secp256k1.
type Signature struct {
	R curve.Scalar
	S curve.Scalar
}

// EncryptedSignature is the adaptor-ECDSA ciphertext (R, R̂, ŝ, π):
// R = r*Y, R̂ = r*G, ŝ the masked signature scalar, and π the DLEQ proof
// tying R and R̂ to the same nonce r.
type EncryptedSignature struct {
	R    curve.Point // r*Y
	Rhat curve.Point // r*G
	Shat curve.Scalar
	Proof dleq.Proof
}

// RecoveryKey is the half of the encrypted signature sufficient to
// recover y given the decrypted signature.
type RecoveryKey struct {
	Y    curve.Point
	Shat curve.Scalar
}

// Reckey extracts the recovery key from an encrypted signature.
func Reckey(Y curve.Point, sig EncryptedSignature) RecoveryKey {
	return RecoveryKey{Y: Y, Shat: sig.Shat}
}

// EncSign produces an adaptor signature on message hash m (already reduced
// to a scalar) under signing key x, encrypted under encryption point Y.
func EncSign(x curve.Scalar, Y curve.Point, m curve.Scalar) (EncryptedSignature, error) {
	r, err := curve.RandomScalar()
	if err != nil {
		return EncryptedSignature{}, err
	}
	Rhat := r.BaseMul()
	R := r.MulPoint(Y)

	proof, err := dleq.Prove(r, Y, Rhat, R)
	if err != nil {
		return EncryptedSignature{}, err
	}

	Rx := rX(R)
	rInv := r.Invert()
	shat := rInv.Mul(m.Add(Rx.Mul(x)))

	return EncryptedSignature{R: R, Rhat: Rhat, Shat: shat, Proof: proof}, nil
}

// EncVerify checks an encrypted signature against signer public key X,
// encryption point Y and message hash m, without needing y.
func EncVerify(X, Y curve.Point, m curve.Scalar, sig EncryptedSignature) error {
	if !dleq.Verify(sig.Proof, Y, sig.Rhat, sig.R) {
		return &swaperr.DleqInvalid{}
	}

	Rx := rX(sig.R)
	sInv := sig.Shat.Invert()
	lhs := sInv.Mul(m).BaseMul().Add(sInv.Mul(Rx).MulPoint(X))
	if !lhs.Equal(sig.Rhat) {
		return &swaperr.AdaptorVerifyFailed{}
	}
	return nil
}

// DecSig decrypts an adaptor signature with scalar y, producing a standard
// low-S-normalized ECDSA signature over the same message and key.
func DecSig(y curve.Scalar, sig EncryptedSignature) Signature {
	s := sig.Shat.Mul(y.Invert())
	out := Signature{R: rX(sig.R), S: s}
	return normalizeLowS(out)
}

// Recover extracts the one-time scalar y from a published, decrypted
// signature and the recovery key produced at encsign time. It returns
// swaperr.NotRecoverable if sig does not correspond to rk, meaning an
// unrelated transaction was observed, not a protocol failure.
func Recover(sig Signature, rk RecoveryKey) (curve.Scalar, error) {
	sInv := sig.S.Invert()
	cand := rk.Shat.Mul(sInv)
	if cand.BaseMul().Equal(rk.Y) {
		return cand, nil
	}
	negCand := cand.Negate()
	if negCand.BaseMul().Equal(rk.Y) {
		return negCand, nil
	}
	return curve.Scalar{}, &swaperr.NotRecoverable{}
}

// Verify checks a standard ECDSA signature against public key X and
// message hash scalar m.
func Verify(sig Signature, X curve.Point, m curve.Scalar) bool {
	if sig.R.IsZero() || sig.S.IsZero() {
		return false
	}
	sInv := sig.S.Invert()
	u1 := m.Mul(sInv)
	u2 := sig.R.Mul(sInv)
	point := u1.BaseMul().Add(u2.MulPoint(X))
	return rX(point).Equal(sig.R)
}

func rX(p curve.Point) curve.Scalar {
	xb := p.XBytes()
	return curve.ScalarFromBytes(xb[:])
}

func normalizeLowS(sig Signature) Signature {
	sb := sig.S.Bytes()
	if bytes.Compare(sb, halfOrder) > 0 {
		sig.S = sig.S.Negate()
	}
	return sig
}
