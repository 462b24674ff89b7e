package bitcoin

import (
	"github.com/grin-btc/atomicswap/internal/curve"
	swapwire "github.com/grin-btc/atomicswap/wire"
)

// Keys is one party's Bitcoin signing keypair for the 2-of-2 multisig
// fund output.
type Keys struct {
	X curve.KeyPair
}

// NewKeys samples a fresh keypair.
func NewKeys() (Keys, error) {
	kp, err := curve.GenerateKeyPair()
	if err != nil {
		return Keys{}, err
	}
	return Keys{X: kp}, nil
}

// ToWire encodes the public half for M1; Bitcoin key sets carry only X.
func (k Keys) ToWire() swapwire.KeySet {
	return swapwire.KeySet{X: k.X.Public.Bytes()}
}

// PublicFromWire decodes a counterparty's Bitcoin public key set.
func PublicFromWire(ks swapwire.KeySet) (curve.Point, error) {
	return curve.PointFromBytes(ks.X)
}
