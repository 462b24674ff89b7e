package bitcoin

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"

	"github.com/grin-btc/atomicswap/chain"
)

// WalletOutput is the funder's single UTXO: its on-chain reference and
// value, spent into the 2-of-2 fund output. Its outpoint is public:
// both parties need it to precompute the deterministic fund transaction
// before either broadcasts anything.
type WalletOutput struct {
	Outpoint wire.OutPoint
	Value    int64
}

// Params bundles one party's view of a Bitcoin swap leg: the agreed offer
// terms and the three wallet-controlled addresses the protocol
// ultimately pays to: change on funding, the redeemer's own address, and
// the funder's refund address.
type Params struct {
	Offer         chain.Offer
	ChangeAddress btcutil.Address
	RedeemAddress btcutil.Address
	RefundAddress btcutil.Address
}
