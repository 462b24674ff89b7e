// Package grin implements the Grin side of the swap: special-output
// blinding, the three-kernel funder/redeemer state machines, and the
// wallet-invoice aggregation that hides those special outputs behind
// Mimblewimble cut-through.
package grin

import (
	"github.com/grin-btc/atomicswap/internal/curve"
	swapwire "github.com/grin-btc/atomicswap/wire"
)

// Keys is one party's Grin keypair tuple: one blinding scalar and three
// signing nonces, one per kernel.
type Keys struct {
	X       curve.KeyPair
	RFund   curve.KeyPair
	RRedeem curve.KeyPair
	RRefund curve.KeyPair
}

// NewKeys samples a fresh key tuple.
func NewKeys() (Keys, error) {
	x, err := curve.GenerateKeyPair()
	if err != nil {
		return Keys{}, err
	}
	rFund, err := curve.GenerateKeyPair()
	if err != nil {
		return Keys{}, err
	}
	rRedeem, err := curve.GenerateKeyPair()
	if err != nil {
		return Keys{}, err
	}
	rRefund, err := curve.GenerateKeyPair()
	if err != nil {
		return Keys{}, err
	}
	return Keys{X: x, RFund: rFund, RRedeem: rRedeem, RRefund: rRefund}, nil
}

// ToWire encodes the public tuple for M1: X plus the three per-kernel
// nonces, compressed.
func (k Keys) ToWire() swapwire.KeySet {
	return swapwire.KeySet{
		X:       k.X.Public.Bytes(),
		RFund:   k.RFund.Public.Bytes(),
		RRedeem: k.RRedeem.Public.Bytes(),
		RRefund: k.RRefund.Public.Bytes(),
	}
}

// PublicKeys is a counterparty's decoded public tuple.
type PublicKeys struct {
	X       curve.Point
	RFund   curve.Point
	RRedeem curve.Point
	RRefund curve.Point
}

// PublicFromWire decodes a counterparty's Grin public key set.
func PublicFromWire(ks swapwire.KeySet) (PublicKeys, error) {
	x, err := curve.PointFromBytes(ks.X)
	if err != nil {
		return PublicKeys{}, err
	}
	rFund, err := curve.PointFromBytes(ks.RFund)
	if err != nil {
		return PublicKeys{}, err
	}
	rRedeem, err := curve.PointFromBytes(ks.RRedeem)
	if err != nil {
		return PublicKeys{}, err
	}
	rRefund, err := curve.PointFromBytes(ks.RRefund)
	if err != nil {
		return PublicKeys{}, err
	}
	return PublicKeys{X: x, RFund: rFund, RRedeem: rRedeem, RRefund: rRefund}, nil
}
