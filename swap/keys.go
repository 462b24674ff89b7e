// Package swap implements the cross-chain orchestrator: the four-message
// key-exchange/signing protocol that binds a Grin leg and a Bitcoin leg,
// one chain playing alpha and the other beta, into a single atomic swap.
// Alice always funds the alpha chain and redeems the beta chain; Bob is
// the mirror image. Which chain is alpha is a per-swap choice
// (AlphaNetwork), so the same code drives both the Grin->Bitcoin and
// Bitcoin->Grin directions.
package swap

import (
	"fmt"

	"github.com/grin-btc/atomicswap/chain"
	"github.com/grin-btc/atomicswap/chain/bitcoin"
	"github.com/grin-btc/atomicswap/chain/grin"
	"github.com/grin-btc/atomicswap/internal/curve"
	swapwire "github.com/grin-btc/atomicswap/wire"
)

// ChainKeys is one party's own keypair tuple for a single chain, tagged
// by which chain it belongs to so the orchestrator can carry "whichever
// chain is alpha/beta" without hard-coding the pairing.
type ChainKeys struct {
	Network chain.Network
	Grin    grin.Keys
	Bitcoin bitcoin.Keys
}

// NewChainKeys samples a fresh key tuple for network.
func NewChainKeys(network chain.Network) (ChainKeys, error) {
	switch network {
	case chain.Grin:
		k, err := grin.NewKeys()
		if err != nil {
			return ChainKeys{}, err
		}
		return ChainKeys{Network: chain.Grin, Grin: k}, nil
	case chain.Bitcoin:
		k, err := bitcoin.NewKeys()
		if err != nil {
			return ChainKeys{}, err
		}
		return ChainKeys{Network: chain.Bitcoin, Bitcoin: k}, nil
	default:
		return ChainKeys{}, fmt.Errorf("swap: unknown network %v", network)
	}
}

// Wire encodes the public half of k for M1/commitment purposes.
func (k ChainKeys) Wire() swapwire.KeySet {
	if k.Network == chain.Grin {
		return k.Grin.ToWire()
	}
	return k.Bitcoin.ToWire()
}

// Points returns the public key material in the canonical per-chain
// order commitment hashing and the opening use.
func (k ChainKeys) Points() []curve.Point {
	if k.Network == chain.Grin {
		return []curve.Point{k.Grin.X.Public, k.Grin.RFund.Public, k.Grin.RRedeem.Public, k.Grin.RRefund.Public}
	}
	return []curve.Point{k.Bitcoin.X.Public}
}

// ChainPublicKeys is a counterparty's decoded public key tuple for a single
// chain.
type ChainPublicKeys struct {
	Network chain.Network
	Grin    grin.PublicKeys
	Bitcoin curve.Point
}

// ChainPublicKeysFromWire decodes a counterparty's key set for network.
func ChainPublicKeysFromWire(network chain.Network, ks swapwire.KeySet) (ChainPublicKeys, error) {
	switch network {
	case chain.Grin:
		pk, err := grin.PublicFromWire(ks)
		if err != nil {
			return ChainPublicKeys{}, err
		}
		return ChainPublicKeys{Network: chain.Grin, Grin: pk}, nil
	case chain.Bitcoin:
		pk, err := bitcoin.PublicFromWire(ks)
		if err != nil {
			return ChainPublicKeys{}, err
		}
		return ChainPublicKeys{Network: chain.Bitcoin, Bitcoin: pk}, nil
	default:
		return ChainPublicKeys{}, fmt.Errorf("swap: unknown network %v", network)
	}
}

// Points mirrors ChainKeys.Points for a decoded counterparty key set.
func (k ChainPublicKeys) Points() []curve.Point {
	if k.Network == chain.Grin {
		return []curve.Point{k.Grin.X, k.Grin.RFund, k.Grin.RRedeem, k.Grin.RRefund}
	}
	return []curve.Point{k.Bitcoin}
}

// grinOf returns whichever of alpha/beta holds the Grin key tuple.
func grinOf(alpha, beta ChainKeys) grin.Keys {
	if alpha.Network == chain.Grin {
		return alpha.Grin
	}
	return beta.Grin
}

// betaOf returns the network that is not n; a swap always pairs exactly
// Grin with Bitcoin.
func betaOf(n chain.Network) chain.Network {
	if n == chain.Grin {
		return chain.Bitcoin
	}
	return chain.Grin
}
