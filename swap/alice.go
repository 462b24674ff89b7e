package swap

import (
	"context"
	"fmt"

	"github.com/grin-btc/atomicswap/bulletproof"
	"github.com/grin-btc/atomicswap/chain"
	"github.com/grin-btc/atomicswap/chain/bitcoin"
	"github.com/grin-btc/atomicswap/chain/grin"
	"github.com/grin-btc/atomicswap/internal/commitment"
	"github.com/grin-btc/atomicswap/internal/curve"
	swapwire "github.com/grin-btc/atomicswap/wire"
)

// Alice0 is Alice's state after sampling her adaptor secret and keys,
// ready to send M0. Alice always funds the alpha chain and redeems the
// beta chain.
type Alice0 struct {
	cfg Config
	y   curve.Scalar
	Y   curve.Point

	alphaKeys ChainKeys
	betaKeys  ChainKeys

	bp *bulletproof.Session
}

// NewAlice0 samples Alice's adaptor secret and per-chain keys, commits
// to them, and produces M0. Round1 of the multi-party bulletproof is
// included immediately: it depends only on Alice's own Grin blinding
// share and the session's CommonNonce, neither of which needs Bob's
// (still-undisclosed) keys.
func NewAlice0(cfg Config) (Alice0, swapwire.M0, error) {
	y, err := curve.GenerateKeyPair()
	if err != nil {
		return Alice0{}, swapwire.M0{}, err
	}

	alphaKeys, err := NewChainKeys(cfg.AlphaNetwork)
	if err != nil {
		return Alice0{}, swapwire.M0{}, err
	}
	betaKeys, err := NewChainKeys(cfg.BetaNetwork())
	if err != nil {
		return Alice0{}, swapwire.M0{}, err
	}

	grinKeys := grinOf(alphaKeys, betaKeys)
	bp := bulletproof.NewSession(bulletproof.DefaultBackend{}, cfg.GrinOffer.FundAmount(), grinKeys.X.Secret, curve.Point{}, cfg.AliceGrinFundKey)
	r1 := bp.Round1()

	opening := commitment.Opening{
		AlphaKeys: alphaKeys.Points(),
		BetaKeys:  betaKeys.Points(),
		Y:         y.Public,
	}
	c := commitment.Commit(opening)

	m0 := swapwire.M0{
		Commitment:    [commitment.Size]byte(c),
		BPRound1Alice: &swapwire.BPRound1{T1: r1.T1.Bytes(), T2: r1.T2.Bytes()},
	}

	return Alice0{
		cfg:       cfg,
		y:         y.Secret,
		Y:         y.Public,
		alphaKeys: alphaKeys,
		betaKeys:  betaKeys,
		bp:        bp,
	}, m0, nil
}

// Alice1 is Alice's state after receiving Bob's uncommitted keys: both
// per-chain state machines have advanced one step, and she has produced
// her bulletproof round-2 share.
type Alice1 struct {
	cfg Config
	y   curve.Scalar
	Y   curve.Point

	alphaKeys ChainKeys
	betaKeys  ChainKeys
	bp        *bulletproof.Session

	grinFunder1      *grin.Funder1
	bitcoinFunder1   *bitcoin.Funder1
	grinRedeemer1    *grin.Redeemer1
	bitcoinRedeemer1 *bitcoin.Redeemer1
}

// ReceiveM1 advances Alice0 to Alice1 on receipt of Bob's M1, producing
// M2. It builds Alice's alpha-funder and beta-redeemer state from Bob's
// now-known public keys, derives the aggregated Grin fund commitment for
// the bulletproof session, and runs Round2.
func (a Alice0) ReceiveM1(m1 swapwire.M1) (Alice1, swapwire.M2, error) {
	otherAlpha, err := ChainPublicKeysFromWire(a.cfg.AlphaNetwork, m1.AlphaKeys)
	if err != nil {
		return Alice1{}, swapwire.M2{}, err
	}
	otherBeta, err := ChainPublicKeysFromWire(a.cfg.BetaNetwork(), m1.BetaKeys)
	if err != nil {
		return Alice1{}, swapwire.M2{}, err
	}
	if m1.BPRound1Bob == nil {
		return Alice1{}, swapwire.M2{}, fmt.Errorf("swap: M1 missing bulletproof round 1")
	}
	bobR1, err := decodeRound1(m1.BPRound1Bob)
	if err != nil {
		return Alice1{}, swapwire.M2{}, err
	}

	next := Alice1{cfg: a.cfg, y: a.y, Y: a.Y, alphaKeys: a.alphaKeys, betaKeys: a.betaKeys, bp: a.bp}

	var grinX curve.Point
	var betaRedeemerSigs []byte

	if a.cfg.AlphaNetwork == chain.Grin {
		f0 := grin.Funder0{Keys: a.alphaKeys.Grin, Offer: a.cfg.GrinOffer}
		f1 := f0.Advance(otherAlpha.Grin)
		next.grinFunder1 = &f1
		grinX = f1.X

		r0 := bitcoin.Redeemer0{Keys: a.betaKeys.Bitcoin, Params: a.cfg.BitcoinParams, FundInput: a.cfg.BitcoinFundInput}
		r1, refundDER, err := r0.Advance(otherBeta.Bitcoin)
		if err != nil {
			return Alice1{}, swapwire.M2{}, err
		}
		next.bitcoinRedeemer1 = &r1
		betaRedeemerSigs, err = encodeBitcoinRefundSig(refundDER)
		if err != nil {
			return Alice1{}, swapwire.M2{}, err
		}
	} else {
		f0 := bitcoin.Funder0{Keys: a.alphaKeys.Bitcoin, Params: a.cfg.BitcoinParams, Input: a.cfg.BitcoinFundInput}
		f1, err := f0.Advance(otherAlpha.Bitcoin)
		if err != nil {
			return Alice1{}, swapwire.M2{}, err
		}
		next.bitcoinFunder1 = &f1

		r0 := grin.Redeemer0{Keys: a.betaKeys.Grin, Offer: a.cfg.GrinOffer}
		r1 := r0.Advance(otherBeta.Grin, a.Y)
		next.grinRedeemer1 = &r1
		grinX = r1.X

		betaRedeemerSigs, err = encodeGrinPartials(r1.Partials)
		if err != nil {
			return Alice1{}, swapwire.M2{}, err
		}
	}

	a.bp.SetCommitment(a.cfg.GrinOffer.FundAmount(), bulletproof.CommitFromPoint(grinX, a.cfg.GrinOffer.FundAmount()))
	r2 := a.bp.Round2(bobR1)

	m2 := swapwire.M2{
		Opening: swapwire.Opening{
			AlphaKeys: a.alphaKeys.Wire(),
			BetaKeys:  a.betaKeys.Wire(),
			Y:         a.Y.Bytes(),
		},
		BetaRedeemerSigs: betaRedeemerSigs,
		BPRound2Alice:    &swapwire.BPRound2{Taux: r2.Taux.Bytes()},
	}

	return next, m2, nil
}

// Alice2 is Alice's final state: both legs' actions are ready, and her
// adaptor secret y lets her execute the beta redeem immediately. y never
// leaves her state except as the public image Y until one of the redeem
// signatures lands on-chain.
type Alice2 struct {
	y curve.Scalar
	Y curve.Point

	AlphaFund            FundAction
	AlphaRefund          RefundAction
	BetaEncryptedRedeem  EncryptedRedeemAction
	GrinBulletproofProof *bulletproof.Proof
}

// RedeemBeta finalizes and posts Alice's beta-chain redeem using her own
// y, the step that, once observed on-chain, lets Bob recover y for his
// own alpha-chain redeem.
func (a Alice2) RedeemBeta(ctx context.Context, nodes Nodes, grinFee uint64) error {
	return a.BetaEncryptedRedeem.Execute(ctx, nodes, a.y, grinFee)
}

// ReceiveM3 advances Alice1 to Alice2 on receipt of Bob's M3, producing
// M4. It completes Alice's alpha-funder and beta-redeemer state machines
// and, when Alice is the Grin funder, finalizes the multi-party
// bulletproof.
func (a Alice1) ReceiveM3(m3 swapwire.M3) (Alice2, swapwire.M4, error) {
	var alphaFund FundAction
	var alphaRefund RefundAction
	var m4Payload []byte
	var proof *bulletproof.Proof

	if a.cfg.AlphaNetwork == chain.Grin {
		parts, err := decodeGrinPartials(m3.AlphaRedeemerSigs)
		if err != nil {
			return Alice2{}, swapwire.M4{}, err
		}
		f2, err := a.grinFunder1.Advance(parts, a.Y)
		if err != nil {
			return Alice2{}, swapwire.M4{}, err
		}
		alphaFund = FundAction{Network: chain.Grin, Grin: f2.Fund}
		alphaRefund = RefundAction{Network: chain.Grin, Grin: f2.Refund}
		m4Payload, err = encodeGrinFunderReply(f2.Fund.Sig, f2.Refund.Sig, f2.EncryptedRedeem.R, f2.EncryptedRedeem.EncryptedS)
		if err != nil {
			return Alice2{}, swapwire.M4{}, err
		}

		if m3.BPRound2Bob == nil {
			return Alice2{}, swapwire.M4{}, fmt.Errorf("swap: M3 missing bulletproof round 2")
		}
		bobR2, err := decodeRound2(m3.BPRound2Bob)
		if err != nil {
			return Alice2{}, swapwire.M4{}, err
		}
		p, err := a.bp.Round3(bobR2)
		if err != nil {
			return Alice2{}, swapwire.M4{}, err
		}
		proof = &p
	} else {
		der, err := decodeBitcoinRefundSig(m3.AlphaRedeemerSigs)
		if err != nil {
			return Alice2{}, swapwire.M4{}, err
		}
		f2, err := a.bitcoinFunder1.Advance(der, a.Y)
		if err != nil {
			return Alice2{}, swapwire.M4{}, err
		}
		alphaFund = FundAction{Network: chain.Bitcoin, Bitcoin: f2.Fund}
		alphaRefund = RefundAction{Network: chain.Bitcoin, Bitcoin: f2.Refund}
		m4Payload, err = encodeBitcoinEncSig(f2.EncryptedRedeem.EncSig)
		if err != nil {
			return Alice2{}, swapwire.M4{}, err
		}
	}

	var betaEncryptedRedeem EncryptedRedeemAction
	if a.cfg.BetaNetwork() == chain.Grin {
		fund, refund, _, encS, err := decodeGrinFunderReply(m3.BetaRedeemEncSig)
		if err != nil {
			return Alice2{}, swapwire.M4{}, err
		}
		r2, err := a.grinRedeemer1.Advance(fund, refund, encS, a.Y)
		if err != nil {
			return Alice2{}, swapwire.M4{}, err
		}
		betaEncryptedRedeem = EncryptedRedeemAction{Network: chain.Grin, Grin: r2.EncryptedRedeem}
	} else {
		encsig, err := decodeBitcoinEncSig(m3.BetaRedeemEncSig)
		if err != nil {
			return Alice2{}, swapwire.M4{}, err
		}
		r2, err := a.bitcoinRedeemer1.Advance(encsig, a.Y)
		if err != nil {
			return Alice2{}, swapwire.M4{}, err
		}
		betaEncryptedRedeem = EncryptedRedeemAction{
			Network:            chain.Bitcoin,
			Bitcoin:            r2.EncryptedRedeem,
			BitcoinRedeemerKey: a.betaKeys.Bitcoin.X.Secret,
		}
	}

	m4 := swapwire.M4{AlphaRedeemEncSig: m4Payload}

	return Alice2{
		y:                    a.y,
		Y:                    a.Y,
		AlphaFund:            alphaFund,
		AlphaRefund:          alphaRefund,
		BetaEncryptedRedeem:  betaEncryptedRedeem,
		GrinBulletproofProof: proof,
	}, m4, nil
}
