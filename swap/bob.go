package swap

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/grin-btc/atomicswap/bulletproof"
	"github.com/grin-btc/atomicswap/chain"
	"github.com/grin-btc/atomicswap/chain/bitcoin"
	"github.com/grin-btc/atomicswap/chain/grin"
	"github.com/grin-btc/atomicswap/internal/commitment"
	"github.com/grin-btc/atomicswap/internal/curve"
	"github.com/grin-btc/atomicswap/internal/swaperr"
	swapwire "github.com/grin-btc/atomicswap/wire"
)

// Bob0 is Bob's state after receiving Alice's M0 and sampling his own
// keys, ready to send M1. Bob always redeems the alpha chain and funds
// the beta chain.
type Bob0 struct {
	cfg Config

	alphaKeys ChainKeys
	betaKeys  ChainKeys
	bp        *bulletproof.Session

	aliceCommitment commitment.Commitment
	aliceR1         bulletproof.Round1
}

// NewBob0 samples Bob's per-chain keys, stores Alice's commitment for
// later verification, and produces M1. Bob needs no commitment of his
// own: he discloses his keys only after Alice's are already bound, so he
// has nothing to gain by choosing them adaptively.
func NewBob0(cfg Config, m0 swapwire.M0) (Bob0, swapwire.M1, error) {
	alphaKeys, err := NewChainKeys(cfg.AlphaNetwork)
	if err != nil {
		return Bob0{}, swapwire.M1{}, err
	}
	betaKeys, err := NewChainKeys(cfg.BetaNetwork())
	if err != nil {
		return Bob0{}, swapwire.M1{}, err
	}
	if m0.BPRound1Alice == nil {
		return Bob0{}, swapwire.M1{}, fmt.Errorf("swap: M0 missing bulletproof round 1")
	}
	aliceR1, err := decodeRound1(m0.BPRound1Alice)
	if err != nil {
		return Bob0{}, swapwire.M1{}, err
	}

	grinKeys := grinOf(alphaKeys, betaKeys)
	bp := bulletproof.NewSession(bulletproof.DefaultBackend{}, cfg.GrinOffer.FundAmount(), grinKeys.X.Secret, curve.Point{}, cfg.AliceGrinFundKey)
	r1 := bp.Round1()

	m1 := swapwire.M1{
		AlphaKeys:   alphaKeys.Wire(),
		BetaKeys:    betaKeys.Wire(),
		BPRound1Bob: &swapwire.BPRound1{T1: r1.T1.Bytes(), T2: r1.T2.Bytes()},
	}

	return Bob0{
		cfg:             cfg,
		alphaKeys:       alphaKeys,
		betaKeys:        betaKeys,
		bp:              bp,
		aliceCommitment: commitment.Commitment(m0.Commitment),
		aliceR1:         aliceR1,
	}, m1, nil
}

// Bob1 is Bob's state after verifying Alice's opening and completing his
// beta-funder and alpha-redeemer state machines: both legs are ready, and
// M3 has been produced. Only the alpha-redeemer leg still needs Alice's
// M4 reply.
type Bob1 struct {
	cfg       Config
	Y         curve.Point
	alphaKeys ChainKeys

	grinRedeemer1    *grin.Redeemer1
	bitcoinRedeemer1 *bitcoin.Redeemer1

	betaFund            FundAction
	betaRefund          RefundAction
	betaEncryptedRedeem EncryptedRedeemAction

	grinBulletproofProof *bulletproof.Proof
}

// ReceiveM2 advances Bob0 to Bob1 on receipt of Alice's M2, producing
// M3. It verifies Alice's commitment opening, builds
// Bob's beta-funder and alpha-redeemer state, runs bulletproof round 2,
// and, when Bob is the Grin funder, finalizes the bulletproof locally,
// since by this point he already holds both parties' round-2 shares.
func (b Bob0) ReceiveM2(m2 swapwire.M2) (Bob1, swapwire.M3, error) {
	aliceAlpha, err := ChainPublicKeysFromWire(b.cfg.AlphaNetwork, m2.Opening.AlphaKeys)
	if err != nil {
		return Bob1{}, swapwire.M3{}, err
	}
	aliceBeta, err := ChainPublicKeysFromWire(b.cfg.BetaNetwork(), m2.Opening.BetaKeys)
	if err != nil {
		return Bob1{}, swapwire.M3{}, err
	}
	Y, err := curve.PointFromBytes(m2.Opening.Y)
	if err != nil {
		return Bob1{}, swapwire.M3{}, err
	}

	opening := commitment.Opening{AlphaKeys: aliceAlpha.Points(), BetaKeys: aliceBeta.Points(), Y: Y}
	if !commitment.Verify(b.aliceCommitment, opening) {
		return Bob1{}, swapwire.M3{}, &swaperr.OpeningRejected{Reason: "M2 opening does not match M0 commitment"}
	}

	var grinX curve.Point
	var alphaRedeemerSigs []byte
	var betaFund FundAction
	var betaRefund RefundAction
	var betaEncryptedRedeem EncryptedRedeemAction
	var betaReplyPayload []byte

	var grinRedeemer1 *grin.Redeemer1
	var bitcoinRedeemer1 *bitcoin.Redeemer1

	if b.cfg.AlphaNetwork == chain.Grin {
		r0 := grin.Redeemer0{Keys: b.alphaKeys.Grin, Offer: b.cfg.GrinOffer}
		r1 := r0.Advance(aliceAlpha.Grin, Y)
		grinRedeemer1 = &r1
		grinX = r1.X
		alphaRedeemerSigs, err = encodeGrinPartials(r1.Partials)
		if err != nil {
			return Bob1{}, swapwire.M3{}, err
		}

		f0 := bitcoin.Funder0{Keys: b.betaKeys.Bitcoin, Params: b.cfg.BitcoinParams, Input: b.cfg.BitcoinFundInput}
		f1, err := f0.Advance(aliceBeta.Bitcoin)
		if err != nil {
			return Bob1{}, swapwire.M3{}, err
		}
		der, err := decodeBitcoinRefundSig(m2.BetaRedeemerSigs)
		if err != nil {
			return Bob1{}, swapwire.M3{}, err
		}
		f2, err := f1.Advance(der, Y)
		if err != nil {
			return Bob1{}, swapwire.M3{}, err
		}
		betaFund = FundAction{Network: chain.Bitcoin, Bitcoin: f2.Fund}
		betaRefund = RefundAction{Network: chain.Bitcoin, Bitcoin: f2.Refund}
		betaEncryptedRedeem = EncryptedRedeemAction{Network: chain.Bitcoin, Bitcoin: f2.EncryptedRedeem}
		betaReplyPayload, err = encodeBitcoinEncSig(f2.EncryptedRedeem.EncSig)
		if err != nil {
			return Bob1{}, swapwire.M3{}, err
		}
	} else {
		r0 := bitcoin.Redeemer0{Keys: b.alphaKeys.Bitcoin, Params: b.cfg.BitcoinParams, FundInput: b.cfg.BitcoinFundInput}
		r1, refundDER, err := r0.Advance(aliceAlpha.Bitcoin)
		if err != nil {
			return Bob1{}, swapwire.M3{}, err
		}
		bitcoinRedeemer1 = &r1
		alphaRedeemerSigs, err = encodeBitcoinRefundSig(refundDER)
		if err != nil {
			return Bob1{}, swapwire.M3{}, err
		}

		f0 := grin.Funder0{Keys: b.betaKeys.Grin, Offer: b.cfg.GrinOffer}
		f1 := f0.Advance(aliceBeta.Grin)
		grinX = f1.X
		parts, err := decodeGrinPartials(m2.BetaRedeemerSigs)
		if err != nil {
			return Bob1{}, swapwire.M3{}, err
		}
		f2, err := f1.Advance(parts, Y)
		if err != nil {
			return Bob1{}, swapwire.M3{}, err
		}
		betaFund = FundAction{Network: chain.Grin, Grin: f2.Fund}
		betaRefund = RefundAction{Network: chain.Grin, Grin: f2.Refund}
		betaEncryptedRedeem = EncryptedRedeemAction{Network: chain.Grin, Grin: f2.EncryptedRedeem}
		betaReplyPayload, err = encodeGrinFunderReply(f2.Fund.Sig, f2.Refund.Sig, f2.EncryptedRedeem.R, f2.EncryptedRedeem.EncryptedS)
		if err != nil {
			return Bob1{}, swapwire.M3{}, err
		}
	}

	b.bp.SetCommitment(b.cfg.GrinOffer.FundAmount(), bulletproof.CommitFromPoint(grinX, b.cfg.GrinOffer.FundAmount()))
	r2 := b.bp.Round2(b.aliceR1)

	var bpRound2Bob *swapwire.BPRound2
	var proof *bulletproof.Proof
	if b.cfg.AlphaNetwork == chain.Grin {
		// Alice is the Grin funder; she finalizes in ReceiveM3, so Bob must
		// send his round-2 share onward.
		bpRound2Bob = &swapwire.BPRound2{Taux: r2.Taux.Bytes()}
	} else {
		// Bob is the Grin funder: he already holds both round-2 shares, so
		// he finalizes immediately and has nothing further to send.
		if m2.BPRound2Alice == nil {
			return Bob1{}, swapwire.M3{}, fmt.Errorf("swap: M2 missing bulletproof round 2")
		}
		aliceR2, err := decodeRound2(m2.BPRound2Alice)
		if err != nil {
			return Bob1{}, swapwire.M3{}, err
		}
		p, err := b.bp.Round3(aliceR2)
		if err != nil {
			return Bob1{}, swapwire.M3{}, err
		}
		proof = &p
	}

	m3 := swapwire.M3{
		AlphaRedeemerSigs: alphaRedeemerSigs,
		BPRound2Bob:       bpRound2Bob,
		BetaRedeemEncSig:  betaReplyPayload,
	}

	next := Bob1{
		cfg:                  b.cfg,
		Y:                    Y,
		alphaKeys:            b.alphaKeys,
		grinRedeemer1:        grinRedeemer1,
		bitcoinRedeemer1:     bitcoinRedeemer1,
		betaFund:             betaFund,
		betaRefund:           betaRefund,
		betaEncryptedRedeem:  betaEncryptedRedeem,
		grinBulletproofProof: proof,
	}

	return next, m3, nil
}

// Bob2 is Bob's final state: his beta-chain funding/refund actions, and
// his alpha-chain encrypted redeem awaiting y, which he recovers by
// watching Alice execute the matching beta-chain redeem.
type Bob2 struct {
	BetaFund             FundAction
	BetaRefund           RefundAction
	BetaEncryptedRedeem  EncryptedRedeemAction
	AlphaEncryptedRedeem EncryptedRedeemAction
	GrinBulletproofProof *bulletproof.Proof
}

// ReceiveM4 advances Bob1 to Bob2 on receipt of Alice's M4, completing
// Bob's alpha-redeemer state machine.
func (b Bob1) ReceiveM4(m4 swapwire.M4) (Bob2, error) {
	var alphaEncryptedRedeem EncryptedRedeemAction

	if b.cfg.AlphaNetwork == chain.Grin {
		fund, refund, _, encS, err := decodeGrinFunderReply(m4.AlphaRedeemEncSig)
		if err != nil {
			return Bob2{}, err
		}
		r2, err := b.grinRedeemer1.Advance(fund, refund, encS, b.Y)
		if err != nil {
			return Bob2{}, err
		}
		alphaEncryptedRedeem = EncryptedRedeemAction{Network: chain.Grin, Grin: r2.EncryptedRedeem}
	} else {
		encsig, err := decodeBitcoinEncSig(m4.AlphaRedeemEncSig)
		if err != nil {
			return Bob2{}, err
		}
		r2, err := b.bitcoinRedeemer1.Advance(encsig, b.Y)
		if err != nil {
			return Bob2{}, err
		}
		alphaEncryptedRedeem = EncryptedRedeemAction{
			Network:            chain.Bitcoin,
			Bitcoin:            r2.EncryptedRedeem,
			BitcoinRedeemerKey: b.alphaKeys.Bitcoin.X.Secret,
		}
	}

	return Bob2{
		BetaFund:             b.betaFund,
		BetaRefund:           b.betaRefund,
		BetaEncryptedRedeem:  b.betaEncryptedRedeem,
		AlphaEncryptedRedeem: alphaEncryptedRedeem,
		GrinBulletproofProof: b.grinBulletproofProof,
	}, nil
}

// RecoverY watches for Alice's beta-chain redeem and extracts y from it.
// bitcoinTxid is ignored when the beta chain is Grin.
func (b Bob2) RecoverY(ctx context.Context, nodes Nodes, bitcoinTxid chainhash.Hash) (curve.Scalar, error) {
	return b.BetaEncryptedRedeem.LookForY(ctx, nodes, bitcoinTxid)
}

// RedeemAlpha finalizes and posts Bob's alpha-chain redeem once y is known.
func (b Bob2) RedeemAlpha(ctx context.Context, nodes Nodes, y curve.Scalar, grinFee uint64) error {
	return b.AlphaEncryptedRedeem.Execute(ctx, nodes, y, grinFee)
}
