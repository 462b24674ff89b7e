package curve

import "github.com/cronokirby/saferith"

// secp256k1 is a Koblitz curve; its group order and field prime are
// standard constants, not computed at runtime. ModNScalar and FieldVal
// only expose addition/multiplication/negation, not general modular
// exponentiation, so the inverse (Invert) and the quadratic-residue test
// (used for Schnorr nonce normalization) go through saferith's
// constant-width Nat/Modulus.
const (
	secpOrderHex       = "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141"
	secpOrderMinus2Hex = "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD036413F"
	secpFieldPrimeHex  = "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFC2F"
	// (p-1)/2, the exponent Euler's criterion uses to test quadratic residuosity.
	secpFieldQRExpHex = "7FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF7FFFFE17"
)

var (
	modOrder      = saferith.ModulusFromBytes(mustHexBytes(secpOrderHex))
	modField      = saferith.ModulusFromBytes(mustHexBytes(secpFieldPrimeHex))
	natOrderMinus2 = newNat(mustHexBytes(secpOrderMinus2Hex))
	natFieldQRExp  = newNat(mustHexBytes(secpFieldQRExpHex))
	natOne         = new(saferith.Nat).SetUint64(1)
)

func mustHexBytes(h string) []byte {
	b := make([]byte, len(h)/2)
	for i := 0; i < len(b); i++ {
		hi := hexNibble(h[2*i])
		lo := hexNibble(h[2*i+1])
		b[i] = hi<<4 | lo
	}
	return b
}

func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		panic("curve: invalid hex digit")
	}
}

func newNat(b []byte) *saferith.Nat {
	return new(saferith.Nat).SetBytes(b)
}

// isQuadraticResidueFieldBytes reports whether the field element encoded
// by b (big-endian, 32 bytes) is a quadratic residue mod the secp256k1
// field prime, via Euler's criterion: b^((p-1)/2) mod p == 1. The input is
// always a public y-coordinate, so this need not run in constant time.
func isQuadraticResidueFieldBytes(b []byte) bool {
	base := newNat(b)
	result := new(saferith.Nat).Exp(base, natFieldQRExp, modField)
	return natEqual(result, natOne)
}

func natEqual(a, b *saferith.Nat) bool {
	return string(trimLeadingZeros(a.Bytes())) == string(trimLeadingZeros(b.Bytes()))
}

func trimLeadingZeros(b []byte) []byte {
	i := 0
	for i < len(b) && b[i] == 0 {
		i++
	}
	if i == len(b) {
		return nil
	}
	return b[i:]
}
