// Package commitment implements the BLAKE2b-512 hiding commitment Alice
// makes to her key material in message M0. It binds Alice to her
// alpha-chain keys, beta-chain keys, and adaptor point Y before Bob
// discloses his own keys, which is what stops Bob adaptively choosing
// keys that induce a known relation on the aggregated public material.
package commitment

import (
	"bytes"

	"golang.org/x/crypto/blake2b"

	"github.com/grin-btc/atomicswap/internal/curve"
)

// Size is the length in bytes of a commitment digest (BLAKE2b-512).
const Size = 64

// Commitment is the 64-byte digest Alice sends in M0.
type Commitment [Size]byte

// Opening is the material a commitment hides: Alice's per-chain public
// key sets plus her one-time adaptor point Y.
type Opening struct {
	AlphaKeys []curve.Point
	BetaKeys  []curve.Point
	Y         curve.Point
}

// Commit hashes the opening in canonical field order:
// (pk.x || ...)_alpha || (pk.x || ...)_beta || Y.x, each key contributing
// its bare 32-byte x-coordinate.
func Commit(o Opening) Commitment {
	h, err := blake2b.New512(nil)
	if err != nil {
		// blake2b.New512 only errors on a bad key, and we pass none.
		panic("commitment: blake2b.New512: " + err.Error())
	}
	for _, k := range o.AlphaKeys {
		x := k.XBytes()
		h.Write(x[:])
	}
	for _, k := range o.BetaKeys {
		x := k.XBytes()
		h.Write(x[:])
	}
	yx := o.Y.XBytes()
	h.Write(yx[:])

	var out Commitment
	copy(out[:], h.Sum(nil))
	return out
}

// Verify reports whether opening o matches commitment c. A mismatch
// on any field (including swapping a single key) changes the digest,
// giving the binding commit/open requires.
func Verify(c Commitment, o Opening) bool {
	got := Commit(o)
	return bytes.Equal(c[:], got[:])
}
