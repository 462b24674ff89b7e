// Package chain holds the types shared by both per-chain packages: the
// terms a swap is struck on and the amounts derived from them.
package chain

// Network names the two chains a swap can run over.
type Network int

const (
	Grin Network = iota
	Bitcoin
)

func (n Network) String() string {
	if n == Grin {
		return "grin"
	}
	return "bitcoin"
}

// Offer is the per-chain terms of a swap leg: the amount changing hands,
// the network fee the protocol itself pays, and the expiry after which the
// refund path becomes available. Expiry is a block height on Grin and an
// absolute Unix timestamp on Bitcoin.
//
// Expiry == 0 is used throughout the scenario suite as a "no timelock, test
// only" shortcut rather than a real sentinel value; see DESIGN.md for why
// production callers must reject it.
type Offer struct {
	Asset  uint64
	Fee    uint64
	Expiry uint64
}

// FundAmount is the value the fund output must carry: the traded asset plus
// the protocol fee paid on that leg.
func (o Offer) FundAmount() uint64 {
	return o.Asset + o.Fee
}

// ChangeAmount is what the funder's wallet keeps back from a given input
// value after paying into the fund output, given the protocol fee is
// charged once on funding and once on redeem/refund.
func (o Offer) ChangeAmount(input uint64) uint64 {
	return input - o.Asset - 2*o.Fee
}

// RedeemAmount is the value the redeemer receives, identical to the
// refund amount, since either path pays the same party the same asset.
func (o Offer) RedeemAmount() uint64 {
	return o.Asset
}

// RefundAmount is the value returned to the funder on timeout.
func (o Offer) RefundAmount() uint64 {
	return o.Asset
}
