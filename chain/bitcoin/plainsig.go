package bitcoin

import (
	dcrecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/grin-btc/atomicswap/internal/curve"
)

// signPlain produces a standard (non-adaptor) ECDSA signature. The
// refund path never needs encryption: each party signs with its own key
// directly, since the refund half-signatures are exchanged as a safety
// net rather than a coercion point.
func signPlain(key curve.Scalar, hash []byte) *dcrecdsa.Signature {
	return dcrecdsa.Sign(key.PrivateKey(), hash)
}

func verifyPlain(sig *dcrecdsa.Signature, hash []byte, pub curve.Point) bool {
	return sig.Verify(hash, pub.PublicKey())
}
