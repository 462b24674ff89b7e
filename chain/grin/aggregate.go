package grin

import (
	"github.com/grin-btc/atomicswap/bulletproof"
	"github.com/grin-btc/atomicswap/internal/curve"
)

// Output is a Mimblewimble output: a Pedersen commitment to a value
// under a blinding factor.
type Output struct {
	Commitment curve.Point
}

// InputSpend references the output commitment an input spends.
type InputSpend struct {
	Commitment curve.Point
}

// Kernel is a signed Mimblewimble transaction kernel.
type Kernel struct {
	Excess     curve.Point
	Sig        Sig
	Feature    Feature
	Fee        uint64
	LockHeight uint64
}

// Transaction is a minimal Mimblewimble transaction: inputs, outputs and
// kernels, plus the aggregate offset each kernel's excess was already
// shifted by. Cut-through (Aggregate) is the only operation defined
// over it; building one from real wallet UTXOs is the collaborator's job.
type Transaction struct {
	Offset  curve.Scalar
	Inputs  []InputSpend
	Outputs []Output
	Kernels []Kernel
}

// specialCommitment is the Pedersen commitment to the special output's
// value under the shared excess X, computable by either party from
// public information alone, since neither holds the full blinding
// factor.
func specialCommitment(x curve.Point, value uint64) curve.Point {
	return bulletproof.CommitFromPoint(x, value)
}

// SpecialFundHalf is the protocol's pre-signed half of the fund
// transaction: a single special output at the shared commitment,
// carrying its own zero-fee kernel.
func SpecialFundHalf(x curve.Point, value uint64, excess curve.Point, sig Sig) Transaction {
	return Transaction{
		Outputs: []Output{{Commitment: specialCommitment(x, value)}},
		Kernels: []Kernel{{Excess: excess, Sig: sig, Feature: Plain, Fee: 0}},
	}
}

// SpecialSpendHalf is the protocol's pre-signed half of the redeem or
// refund transaction: a single special input at the shared commitment.
func SpecialSpendHalf(x curve.Point, value uint64, excess curve.Point, sig Sig, feature Feature, lockHeight uint64) Transaction {
	return Transaction{
		Inputs:  []InputSpend{{Commitment: specialCommitment(x, value)}},
		Kernels: []Kernel{{Excess: excess, Sig: sig, Feature: feature, Fee: 0, LockHeight: lockHeight}},
	}
}

// Aggregate combines a wallet-built half-transaction with the protocol's
// special half and applies Mimblewimble cut-through: any output commitment
// that exactly matches an input commitment cancels, since Grin's balance
// equation sums them to zero either way. What remains is the single
// transaction actually posted to the node. The special input/output
// never appears on-chain, so neither party's blinding-factor lineage for
// it is ever exposed.
func Aggregate(wallet, special Transaction) Transaction {
	offset := wallet.Offset.Add(special.Offset)
	inputs := append(append([]InputSpend{}, wallet.Inputs...), special.Inputs...)
	outputs := append(append([]Output{}, wallet.Outputs...), special.Outputs...)
	kernels := append(append([]Kernel{}, wallet.Kernels...), special.Kernels...)

	var cutInputs []InputSpend
outer:
	for _, in := range inputs {
		for i, out := range outputs {
			if in.Commitment.Equal(out.Commitment) {
				outputs = append(outputs[:i], outputs[i+1:]...)
				continue outer
			}
		}
		cutInputs = append(cutInputs, in)
	}

	return Transaction{Offset: offset, Inputs: cutInputs, Outputs: outputs, Kernels: kernels}
}

// InvoicePurpose tells the wallet collaborator which side of the special
// commitment its half-transaction must connect to.
type InvoicePurpose int

const (
	// FundInvoice: wallet funds pay into the special output; the wallet
	// covers the network fee.
	FundInvoice InvoicePurpose = iota
	// SpendInvoice: the special input pays out to a wallet-controlled
	// output; the wallet still covers the network fee.
	SpendInvoice
)
