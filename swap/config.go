package swap

import (
	"github.com/grin-btc/atomicswap/chain"
	"github.com/grin-btc/atomicswap/chain/bitcoin"
	"github.com/grin-btc/atomicswap/internal/curve"
)

// Config is the public information both parties must agree on before
// the four-message exchange begins: which chain plays alpha, the terms
// of each leg, and the Bitcoin-specific wallet material needed to build
// the deterministic fund/refund/redeem transaction set. Both Alice and
// Bob construct their orchestrator state from an identical Config.
type Config struct {
	// AlphaNetwork selects which chain Alice funds and Bob redeems;
	// BetaNetwork is always the other one.
	AlphaNetwork chain.Network

	GrinOffer    chain.Offer
	BitcoinOffer chain.Offer

	// BitcoinParams and BitcoinFundInput are shared regardless of whether
	// Bitcoin is alpha or beta: buildTxSet needs them identically on both
	// sides to agree on the fund outpoint before either party signs
	// anything (chain/bitcoin: "public information agreed before the
	// four-message exchange").
	BitcoinParams    bitcoin.Params
	BitcoinFundInput bitcoin.WalletOutput

	// AliceGrinFundKey is a stable reference public key, known to both
	// parties ahead of time, that both Alice's and Bob's bulletproof
	// sessions derive CommonNonce from (bulletproof.NewSession's
	// aliceFundPublic). It is deliberately independent of the per-swap
	// ephemeral Grin keys: those are exchanged inside a commitment Bob
	// cannot open until M2, but both parties must be able to compute
	// Round1 before then (M0, M1), so CommonNonce cannot depend on
	// anything either party's commitment still hides.
	AliceGrinFundKey curve.Point
}

// BetaNetwork is the chain that is not cfg.AlphaNetwork.
func (cfg Config) BetaNetwork() chain.Network {
	return betaOf(cfg.AlphaNetwork)
}
