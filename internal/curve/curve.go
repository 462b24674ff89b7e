// Package curve wraps secp256k1 scalar and point arithmetic behind the
// Scalar/Point/KeyPair shapes the protocol needs: negation, compressed
// point encoding, and the handful of group operations used to build
// adaptor signatures for both the Bitcoin ECDSA scheme and the Grin
// kernel Schnorr scheme.
package curve

import (
	"crypto/rand"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Scalar is an element of the secp256k1 scalar field (mod the group order N).
type Scalar struct {
	v secp256k1.ModNScalar
}

// Point is a secp256k1 curve point, always in affine form and never the
// identity outside of error paths.
type Point struct {
	pub secp256k1.PublicKey
}

// KeyPair binds a secret scalar to its public multiple x*G.
type KeyPair struct {
	Secret Scalar
	Public Point
}

// ZeroScalar returns the additive identity.
func ZeroScalar() Scalar {
	return Scalar{}
}

// RandomScalar draws a uniform non-zero scalar.
func RandomScalar() (Scalar, error) {
	for {
		var buf [32]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return Scalar{}, fmt.Errorf("curve: read random scalar: %w", err)
		}
		var s secp256k1.ModNScalar
		overflow := s.SetByteSlice(buf[:])
		if overflow || s.IsZero() {
			continue
		}
		return Scalar{v: s}, nil
	}
}

// ScalarFromBytes reduces a big-endian byte string modulo the group order.
// It is used both to interpret fixed-width wire scalars and to reduce hash
// digests into the scalar field (e.g. the Schnorr challenge, the Grin
// kernel offset).
func ScalarFromBytes(b []byte) Scalar {
	var s secp256k1.ModNScalar
	s.SetByteSlice(b)
	return Scalar{v: s}
}

// ModN exposes the underlying field element for packages that need to hand
// it to another secp256k1 binding (e.g. DER signature encoding).
func (s Scalar) ModN() secp256k1.ModNScalar {
	return s.v
}

// PrivateKey adapts s to decred's secp256k1.PrivateKey, for handing to the
// ecdsa subpackage's own (non-adaptor) signing and verification helpers.
func (s Scalar) PrivateKey() *secp256k1.PrivateKey {
	return secp256k1.NewPrivateKey(&s.v)
}

// Bytes returns the scalar's big-endian 32-byte encoding.
func (s Scalar) Bytes() []byte {
	b := s.v.Bytes()
	out := make([]byte, 32)
	copy(out, b[:])
	return out
}

// IsZero reports whether s is the additive identity.
func (s Scalar) IsZero() bool {
	return s.v.IsZero()
}

// Equal reports whether two scalars are the same field element.
func (s Scalar) Equal(o Scalar) bool {
	return s.v.Equals(&o.v)
}

// Add returns s + o.
func (s Scalar) Add(o Scalar) Scalar {
	var out secp256k1.ModNScalar
	out.Add2(&s.v, &o.v)
	return Scalar{v: out}
}

// Negate returns -s mod N.
func (s Scalar) Negate() Scalar {
	out := s.v
	out.Negate()
	return Scalar{v: out}
}

// Mul returns s * o.
func (s Scalar) Mul(o Scalar) Scalar {
	var out secp256k1.ModNScalar
	out.Mul2(&s.v, &o.v)
	return Scalar{v: out}
}

// Invert returns the multiplicative inverse of s mod N, via Fermat's
// little theorem (N is prime). s must be non-zero.
func (s Scalar) Invert() Scalar {
	base := newNat(s.Bytes())
	result := newNat(nil).Exp(base, natOrderMinus2, modOrder)
	return ScalarFromBytes(result.Bytes())
}

// BaseMul returns s*G, the scalar's public multiple of the generator.
func (s Scalar) BaseMul() Point {
	var jp secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&s.v, &jp)
	return jacobianToPoint(&jp)
}

// MulPoint returns s*P.
func (s Scalar) MulPoint(p Point) Point {
	var jp secp256k1.JacobianPoint
	p.pub.AsJacobian(&jp)
	var result secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(&s.v, &jp, &result)
	return jacobianToPoint(&result)
}

// GenerateKeyPair samples a fresh random keypair.
func GenerateKeyPair() (KeyPair, error) {
	secret, err := RandomScalar()
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{Secret: secret, Public: secret.BaseMul()}, nil
}

// Add returns p + o.
func (p Point) Add(o Point) Point {
	var jp, jo, result secp256k1.JacobianPoint
	p.pub.AsJacobian(&jp)
	o.pub.AsJacobian(&jo)
	secp256k1.AddNonConst(&jp, &jo, &result)
	return jacobianToPoint(&result)
}

// Negate returns -p (same x, negated y).
func (p Point) Negate() Point {
	var jp secp256k1.JacobianPoint
	p.pub.AsJacobian(&jp)
	jp.Y.Negate(1)
	jp.Y.Normalize()
	jp.ToAffine()
	return jacobianToPoint(&jp)
}

// Mul returns s*p (equivalent to s.MulPoint(p), kept for call-site symmetry
// with curve.Scalar.BaseMul).
func (p Point) Mul(s Scalar) Point {
	return s.MulPoint(p)
}

// Equal reports whether two points are the same affine coordinates.
func (p Point) Equal(o Point) bool {
	return p.pub.X().Cmp(o.pub.X()) == 0 && p.pub.Y().Cmp(o.pub.Y()) == 0
}

// PublicKey exposes the underlying decred public key, for handing to the
// ecdsa subpackage's own (non-adaptor) signing and verification helpers.
func (p Point) PublicKey() *secp256k1.PublicKey {
	return &p.pub
}

// XBytes returns the point's 32-byte x-coordinate.
func (p Point) XBytes() [32]byte {
	var out [32]byte
	p.pub.X().FillBytes(out[:])
	return out
}

// YIsOdd reports the parity of the y-coordinate, the bit dropped by the
// 32-byte x-only encoding and recoverable from the compressed prefix.
func (p Point) YIsOdd() bool {
	return p.pub.Y().Bit(0) == 1
}

// Bytes returns the 33-byte compressed point encoding (0x02/0x03 prefix
// plus the 32-byte x-coordinate), the encoding every protocol message
// carries points in.
func (p Point) Bytes() []byte {
	return p.pub.SerializeCompressed()
}

// PointFromBytes parses a 33-byte compressed point.
func PointFromBytes(b []byte) (Point, error) {
	pub, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return Point{}, fmt.Errorf("curve: parse point: %w", err)
	}
	return Point{pub: *pub}, nil
}

func jacobianToPoint(jp *secp256k1.JacobianPoint) Point {
	jp.ToAffine()
	jp.X.Normalize()
	jp.Y.Normalize()
	return Point{pub: *secp256k1.NewPublicKey(&jp.X, &jp.Y)}
}
