package swap

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"golang.org/x/sync/errgroup"

	ecdsaadaptor "github.com/grin-btc/atomicswap/adaptor/ecdsa"
	"github.com/grin-btc/atomicswap/chain"
	"github.com/grin-btc/atomicswap/chain/bitcoin"
	"github.com/grin-btc/atomicswap/chain/grin"
	"github.com/grin-btc/atomicswap/internal/curve"
)

// Nodes bundles the two chain collaborators a running swap needs; only the
// one matching a given action's Network is ever used.
type Nodes struct {
	Grin    grin.Node
	Bitcoin bitcoin.Node
}

// FundAction dispatches Fund.Execute to whichever chain it is tagged
// with, so the orchestrator's callers don't need to branch on network
// themselves.
type FundAction struct {
	Network chain.Network
	Grin    grin.Fund
	Bitcoin bitcoin.Fund
}

// Execute posts the fund transaction. grinFee is ignored for a Bitcoin
// action.
func (f FundAction) Execute(ctx context.Context, nodes Nodes, grinFee uint64) error {
	if f.Network == chain.Grin {
		return f.Grin.Execute(ctx, nodes.Grin, grinFee)
	}
	return f.Bitcoin.Execute(ctx, nodes.Bitcoin)
}

// RefundAction dispatches Refund.Execute.
type RefundAction struct {
	Network chain.Network
	Grin    grin.Refund
	Bitcoin bitcoin.Refund
}

func (r RefundAction) Execute(ctx context.Context, nodes Nodes, grinFee uint64) error {
	if r.Network == chain.Grin {
		return r.Grin.Execute(ctx, nodes.Grin, grinFee)
	}
	return r.Bitcoin.Execute(ctx, nodes.Bitcoin)
}

// EncryptedRedeemAction dispatches the redeem kernel's Execute/LookFor
// operations across the two chains' differing recovery mechanics: Grin's
// additive Schnorr adaptor recovers y directly inside LookFor, while
// Bitcoin's DLEQ-gated ECDSA adaptor needs a separate recovery step
// against the decrypted signature LookFor returns.
type EncryptedRedeemAction struct {
	Network chain.Network
	Grin    grin.EncryptedRedeem
	Bitcoin bitcoin.EncryptedRedeem

	// BitcoinRedeemerKey is the executing party's own Bitcoin signing key,
	// needed only on the Bitcoin leg: unlike Grin's additive Schnorr
	// adaptor, a Bitcoin redeem still needs the redeemer's own plain
	// half-signature alongside the decrypted funder signature
	// (chain/bitcoin: "the redeemer already holds their own key").
	BitcoinRedeemerKey curve.Scalar
}

// Execute finalizes and posts the redeem transaction once y is known.
// grinFee is ignored on the Bitcoin leg.
func (e EncryptedRedeemAction) Execute(ctx context.Context, nodes Nodes, y curve.Scalar, grinFee uint64) error {
	if e.Network == chain.Grin {
		return e.Grin.Execute(ctx, nodes.Grin, y, grinFee)
	}
	return e.Bitcoin.Execute(ctx, nodes.Bitcoin, y, e.BitcoinRedeemerKey)
}

// LookForY polls for the counterparty's published redeem and, once
// found, recovers y from it. bitcoinTxid is ignored on Grin.
func (e EncryptedRedeemAction) LookForY(ctx context.Context, nodes Nodes, bitcoinTxid chainhash.Hash) (curve.Scalar, error) {
	if e.Network == chain.Grin {
		return e.Grin.LookFor(ctx, nodes.Grin)
	}
	sig, err := e.Bitcoin.LookFor(ctx, nodes.Bitcoin, bitcoinTxid)
	if err != nil {
		return curve.Scalar{}, err
	}
	return ecdsaadaptor.Recover(sig, e.Bitcoin.RecoveryKey())
}

// String identifies the chain an action belongs to, for logging.
func (e EncryptedRedeemAction) String() string {
	return fmt.Sprintf("encrypted-redeem(%s)", e.Network)
}

// FundBoth posts alpha's and beta's fund transactions concurrently: the
// two legs are independent of each other (neither reads the other's
// outpoint), so there is nothing gained by serializing them.
func FundBoth(ctx context.Context, nodes Nodes, alpha, beta FundAction, grinFee uint64) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return alpha.Execute(ctx, nodes, grinFee) })
	g.Go(func() error { return beta.Execute(ctx, nodes, grinFee) })
	return g.Wait()
}
