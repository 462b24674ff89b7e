package swap

import (
	"fmt"

	ecdsaadaptor "github.com/grin-btc/atomicswap/adaptor/ecdsa"
	"github.com/grin-btc/atomicswap/adaptor/schnorr"
	"github.com/grin-btc/atomicswap/bulletproof"
	"github.com/grin-btc/atomicswap/chain/grin"
	"github.com/grin-btc/atomicswap/internal/curve"
	"github.com/grin-btc/atomicswap/internal/dleq"
	swapwire "github.com/grin-btc/atomicswap/wire"
)

// decodeRound1 parses a wire bulletproof round-1 message.
func decodeRound1(m *swapwire.BPRound1) (bulletproof.Round1, error) {
	T1, err := curve.PointFromBytes(m.T1)
	if err != nil {
		return bulletproof.Round1{}, fmt.Errorf("swap: decode bp round1 T1: %w", err)
	}
	T2, err := curve.PointFromBytes(m.T2)
	if err != nil {
		return bulletproof.Round1{}, fmt.Errorf("swap: decode bp round1 T2: %w", err)
	}
	return bulletproof.Round1{T1: T1, T2: T2}, nil
}

// decodeRound2 parses a wire bulletproof round-2 message.
func decodeRound2(m *swapwire.BPRound2) (bulletproof.Round2, error) {
	return bulletproof.Round2{Taux: curve.ScalarFromBytes(m.Taux)}, nil
}

// The M2/M3 fields carrying redeemer half-signatures and redeem
// encrypted signatures are opaque CBOR blobs at the wire layer so wire
// stays chain agnostic; these payload types are the chain-specific
// contents chain/bitcoin and chain/grin encode into them.

// bitcoinRefundSig is Bitcoin's M2/M3 "redeemer half-sig" payload: a
// single DER-encoded refund half-signature.
type bitcoinRefundSig struct {
	DER []byte `cbor:"1,keyasint"`
}

func encodeBitcoinRefundSig(der []byte) ([]byte, error) {
	return swapwire.Encode(bitcoinRefundSig{DER: der})
}

func decodeBitcoinRefundSig(b []byte) ([]byte, error) {
	var p bitcoinRefundSig
	if err := swapwire.Decode(b, &p); err != nil {
		return nil, fmt.Errorf("swap: decode bitcoin refund sig: %w", err)
	}
	return p.DER, nil
}

// bitcoinEncSig is Bitcoin's M3/M4 "redeem encsig" payload: the
// adaptor-ECDSA ciphertext, wire-encoded field by field.
type bitcoinEncSig struct {
	R      []byte `cbor:"1,keyasint"`
	Rhat   []byte `cbor:"2,keyasint"`
	Shat   []byte `cbor:"3,keyasint"`
	ProofC []byte `cbor:"4,keyasint"`
	ProofS []byte `cbor:"5,keyasint"`
}

func encodeBitcoinEncSig(sig ecdsaadaptor.EncryptedSignature) ([]byte, error) {
	return swapwire.Encode(bitcoinEncSig{
		R:      sig.R.Bytes(),
		Rhat:   sig.Rhat.Bytes(),
		Shat:   sig.Shat.Bytes(),
		ProofC: sig.Proof.C.Bytes(),
		ProofS: sig.Proof.S.Bytes(),
	})
}

func decodeBitcoinEncSig(b []byte) (ecdsaadaptor.EncryptedSignature, error) {
	var p bitcoinEncSig
	if err := swapwire.Decode(b, &p); err != nil {
		return ecdsaadaptor.EncryptedSignature{}, fmt.Errorf("swap: decode bitcoin encsig: %w", err)
	}
	R, err := curve.PointFromBytes(p.R)
	if err != nil {
		return ecdsaadaptor.EncryptedSignature{}, err
	}
	Rhat, err := curve.PointFromBytes(p.Rhat)
	if err != nil {
		return ecdsaadaptor.EncryptedSignature{}, err
	}
	return ecdsaadaptor.EncryptedSignature{
		R:    R,
		Rhat: Rhat,
		Shat: curve.ScalarFromBytes(p.Shat),
		Proof: dleq.Proof{
			C: curve.ScalarFromBytes(p.ProofC),
			S: curve.ScalarFromBytes(p.ProofS),
		},
	}, nil
}

// grinPartials is Grin's M2/M3 "redeemer half-sigs" payload: the three
// per-kernel partial signatures. The nonce public keys they verify
// against were already disclosed in M1 (or M2's opening), so only the
// scalars cross the wire here.
type grinPartials struct {
	Fund   []byte `cbor:"1,keyasint"`
	Redeem []byte `cbor:"2,keyasint"`
	Refund []byte `cbor:"3,keyasint"`
}

func encodeGrinPartials(p grin.RedeemerPartials) ([]byte, error) {
	return swapwire.Encode(grinPartials{
		Fund:   p.Fund.S.Bytes(),
		Redeem: p.Redeem.S.Bytes(),
		Refund: p.Refund.S.Bytes(),
	})
}

func decodeGrinPartials(b []byte) (grin.RedeemerPartials, error) {
	var p grinPartials
	if err := swapwire.Decode(b, &p); err != nil {
		return grin.RedeemerPartials{}, fmt.Errorf("swap: decode grin partials: %w", err)
	}
	return grin.RedeemerPartials{
		Fund:   schnorr.Partial{S: curve.ScalarFromBytes(p.Fund)},
		Redeem: schnorr.Partial{S: curve.ScalarFromBytes(p.Redeem)},
		Refund: schnorr.Partial{S: curve.ScalarFromBytes(p.Refund)},
	}, nil
}

// grinFunderReply is Grin's M3/M4 "redeem encsig" payload. Unlike
// Bitcoin, where the redeemer can rebuild the fund/refund transactions
// alone from public Params, a Grin redeemer needs the funder's two
// finished kernel signatures (fund, refund) before it can build its own
// Redeemer2, so the funder's reply bundles them alongside the redeem
// kernel's aggregated nonce and still-encrypted scalar. Grin's Schnorr
// adaptor carries no DLEQ proof: the encrypted scalar is additively
// masked and checked against the known R directly.
type grinFunderReply struct {
	FundR      []byte `cbor:"1,keyasint"`
	FundS      []byte `cbor:"2,keyasint"`
	RefundR    []byte `cbor:"3,keyasint"`
	RefundS    []byte `cbor:"4,keyasint"`
	RedeemR    []byte `cbor:"5,keyasint"`
	EncryptedS []byte `cbor:"6,keyasint"`
}

func encodeGrinFunderReply(fund, refund grin.Sig, redeemR curve.Point, encryptedS curve.Scalar) ([]byte, error) {
	return swapwire.Encode(grinFunderReply{
		FundR:      fund.R.Bytes(),
		FundS:      fund.S.Bytes(),
		RefundR:    refund.R.Bytes(),
		RefundS:    refund.S.Bytes(),
		RedeemR:    redeemR.Bytes(),
		EncryptedS: encryptedS.Bytes(),
	})
}

func decodeGrinFunderReply(b []byte) (fund, refund grin.Sig, redeemR curve.Point, encryptedS curve.Scalar, err error) {
	var p grinFunderReply
	if err := swapwire.Decode(b, &p); err != nil {
		return grin.Sig{}, grin.Sig{}, curve.Point{}, curve.Scalar{}, fmt.Errorf("swap: decode grin funder reply: %w", err)
	}
	fundR, err := curve.PointFromBytes(p.FundR)
	if err != nil {
		return grin.Sig{}, grin.Sig{}, curve.Point{}, curve.Scalar{}, err
	}
	refundR, err := curve.PointFromBytes(p.RefundR)
	if err != nil {
		return grin.Sig{}, grin.Sig{}, curve.Point{}, curve.Scalar{}, err
	}
	redeemR, err = curve.PointFromBytes(p.RedeemR)
	if err != nil {
		return grin.Sig{}, grin.Sig{}, curve.Point{}, curve.Scalar{}, err
	}
	fund = grin.Sig{R: fundR, S: curve.ScalarFromBytes(p.FundS)}
	refund = grin.Sig{R: refundR, S: curve.ScalarFromBytes(p.RefundS)}
	return fund, refund, redeemR, curve.ScalarFromBytes(p.EncryptedS), nil
}
