package bulletproof

import (
	"crypto/sha256"

	"github.com/grin-btc/atomicswap/internal/curve"
)

// secondGenerator derives a nothing-up-my-sleeve curve point with unknown
// discrete log relative to G, by hashing seed with an incrementing
// counter and trying both compressed-point parities until one parses as a
// valid curve point. This is the standard construction used for a Pedersen
// commitment's second base (the same approach libsecp256k1's own NUMS H
// point uses), and is what makes Commit hiding: nobody, including either
// swap party, knows h such that H = h*G.
func secondGenerator(seed string) curve.Point {
	for counter := uint32(0); ; counter++ {
		h := sha256.New()
		h.Write([]byte(seed))
		h.Write([]byte{byte(counter >> 24), byte(counter >> 16), byte(counter >> 8), byte(counter)})
		digest := h.Sum(nil)

		for _, prefix := range []byte{0x02, 0x03} {
			candidate := append([]byte{prefix}, digest...)
			if p, err := curve.PointFromBytes(candidate); err == nil {
				return p
			}
		}
	}
}

// genH is the Pedersen commitment's value base, Commit(blind, value) =
// blind*G + value*genH, the convention Mimblewimble/Grin uses.
var genH = secondGenerator("grin-btc-swap/bulletproof/H")
