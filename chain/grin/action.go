package grin

import (
	"context"
	"fmt"

	"github.com/grin-btc/atomicswap/adaptor/schnorr"
	"github.com/grin-btc/atomicswap/internal/curve"
	"github.com/grin-btc/atomicswap/internal/swaperr"
)

// Node is the Grin collaborator contract the protocol consumes: kernel
// lookup by excess plus the wallet-invoice half of the aggregation
// policy. BuildWalletInvoice is the only place a real wallet
// integration (building and signing a transaction against its own
// UTXOs) enters this file; everything else here only ever touches the
// special output/input both parties pre-signed.
type Node interface {
	BuildWalletInvoice(ctx context.Context, purpose InvoicePurpose, amount, fee uint64) (Transaction, error)
	PostTransaction(ctx context.Context, tx Transaction) error
	FindKernel(ctx context.Context, excess curve.Point) (*Sig, error)
}

// Fund is the special output half of the fund transaction, with the
// shared commitment it rides in.
type Fund struct {
	X      curve.Point
	Value  uint64
	Excess curve.Point
	Sig    Sig
}

// Execute asks the wallet for its funding invoice (wallet inputs paying
// into this special output, covering the network fee), aggregates it
// with the pre-signed special half, and posts the result.
func (f Fund) Execute(ctx context.Context, node Node, fee uint64) error {
	wallet, err := node.BuildWalletInvoice(ctx, FundInvoice, f.Value, fee)
	if err != nil {
		return fmt.Errorf("grin: build fund wallet invoice: %w", err)
	}
	special := SpecialFundHalf(f.X, f.Value, f.Excess, f.Sig)
	return node.PostTransaction(ctx, Aggregate(wallet, special))
}

// Refund is the fully-aggregated refund kernel signature; the caller waits
// until the offer's expiry (lock_height) before executing it.
type Refund struct {
	X          curve.Point
	Value      uint64
	Excess     curve.Point
	Sig        Sig
	LockHeight uint64
}

func (r Refund) Execute(ctx context.Context, node Node, fee uint64) error {
	wallet, err := node.BuildWalletInvoice(ctx, SpendInvoice, r.Value, fee)
	if err != nil {
		return fmt.Errorf("grin: build refund wallet invoice: %w", err)
	}
	special := SpecialSpendHalf(r.X, r.Value, r.Excess, r.Sig, HeightLocked, r.LockHeight)
	return node.PostTransaction(ctx, Aggregate(wallet, special))
}

// EncryptedRedeem carries the redeem kernel's excess and nonce with its
// scalar still encrypted under Y. Grin's Schnorr adaptor is additive
// (unlike Bitcoin's ECDSA adaptor): Finalize just adds y to EncryptedS,
// and once the decrypted kernel is observed on-chain, y is recovered by
// plain subtraction rather than a DLEQ-gated recovery key.
//
// YNegated records whether the quadratic-residue normalization flipped
// the aggregated nonce: when it did, every signer negated its nonce
// share, so the scalar that completes the signature is -y rather than y.
// Finalize and LookFor apply the flip internally, so callers always deal
// in the true y.
type EncryptedRedeem struct {
	X          curve.Point
	Value      uint64
	R          curve.Point
	Excess     curve.Point
	Y          curve.Point
	YNegated   bool
	EncryptedS curve.Scalar
	Message    []byte
}

// Finalize decrypts the redeem kernel's scalar with y and verifies the
// resulting signature against Excess before returning it.
func (e EncryptedRedeem) Finalize(y curve.Scalar) (Sig, error) {
	if e.YNegated {
		y = y.Negate()
	}
	sig := Sig{R: e.R, S: schnorr.DecSig(e.EncryptedS, y)}
	challenge := schnorr.Challenge(e.R, e.Excess, e.Message)
	if !schnorr.Verify(e.R, e.Excess, challenge, sig.S) {
		return Sig{}, &swaperr.AdaptorVerifyFailed{}
	}
	return sig, nil
}

func (e EncryptedRedeem) Execute(ctx context.Context, node Node, y curve.Scalar, fee uint64) error {
	sig, err := e.Finalize(y)
	if err != nil {
		return err
	}
	wallet, err := node.BuildWalletInvoice(ctx, SpendInvoice, e.Value, fee)
	if err != nil {
		return fmt.Errorf("grin: build redeem wallet invoice: %w", err)
	}
	special := SpecialSpendHalf(e.X, e.Value, e.Excess, sig, Plain, 0)
	return node.PostTransaction(ctx, Aggregate(wallet, special))
}

// LookFor polls for the redeem kernel by its excess and, once found,
// recovers y from the decrypted signature. It returns
// swaperr.NotRecoverable when no kernel with this excess has been
// published yet; the caller is expected to keep polling, not treat
// this as a protocol failure.
func (e EncryptedRedeem) LookFor(ctx context.Context, node Node) (curve.Scalar, error) {
	sig, err := node.FindKernel(ctx, e.Excess)
	if err != nil {
		return curve.Scalar{}, fmt.Errorf("grin: find redeem kernel: %w", err)
	}
	if sig == nil {
		return curve.Scalar{}, &swaperr.NotRecoverable{}
	}
	y := schnorr.Recover(sig.S, e.EncryptedS)
	if e.YNegated {
		y = y.Negate()
	}
	if !y.BaseMul().Equal(e.Y) {
		return curve.Scalar{}, &swaperr.NotRecoverable{}
	}
	return y, nil
}
