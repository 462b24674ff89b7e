package bitcoin

import (
	"fmt"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	ecdsaadaptor "github.com/grin-btc/atomicswap/adaptor/ecdsa"
	"github.com/grin-btc/atomicswap/internal/curve"

	dcrecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// BuildFund assembles the single-input, two-output fund transaction: the
// 2-of-2 P2WSH fund output plus change back to the funder's wallet.
// Both parties can compute it identically once they know each other's X,
// so the fund outpoint is agreed before either party signs anything.
func BuildFund(input WalletOutput, fundPkScript []byte, fundAmount int64, changeScript []byte, changeAmount int64) *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(&wire.TxIn{PreviousOutPoint: input.Outpoint, Sequence: wire.MaxTxInSequenceNum})
	tx.AddTxOut(wire.NewTxOut(fundAmount, fundPkScript))
	if changeAmount > 0 {
		tx.AddTxOut(wire.NewTxOut(changeAmount, changeScript))
	}
	return tx
}

// FundOutpoint identifies the fund output of a built fund transaction.
func FundOutpoint(fundTx *wire.MsgTx) wire.OutPoint {
	return wire.OutPoint{Hash: fundTx.TxHash(), Index: 0}
}

// BuildSpend assembles the single-input, single-output transaction
// spending the fund outpoint, used for both redeem and refund.
// lockTime is zero for redeem and the offer's expiry for refund; a
// non-zero lockTime requires the input sequence to be less than the
// maximum so consensus honors nLockTime.
func BuildSpend(fundOutpoint wire.OutPoint, amount int64, payScript []byte, lockTime uint32) *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion)
	sequence := uint32(wire.MaxTxInSequenceNum)
	if lockTime != 0 {
		sequence--
	}
	tx.AddTxIn(&wire.TxIn{PreviousOutPoint: fundOutpoint, Sequence: sequence})
	tx.AddTxOut(wire.NewTxOut(amount, payScript))
	tx.LockTime = lockTime
	return tx
}

// DER encodes a low-s-normalized ECDSA signature in DER form, the format
// Bitcoin's witness stack carries.
func DER(sig ecdsaadaptor.Signature) []byte {
	r := sig.R.ModN()
	s := sig.S.ModN()
	return dcrecdsa.NewSignature(&r, &s).Serialize()
}

// MessageScalar reduces a 32-byte sighash digest into the scalar field,
// the message input to adaptor-ECDSA.
func MessageScalar(sigHash []byte) curve.Scalar {
	return curve.ScalarFromBytes(sigHash)
}

// ParseDER parses a witness-stack signature (minus its trailing sighash
// type byte) back into a Signature.
func ParseDER(der []byte) (*dcrecdsa.Signature, error) {
	sig, err := dcrecdsa.ParseDERSignature(der)
	if err != nil {
		return nil, fmt.Errorf("bitcoin: parse signature: %w", err)
	}
	return sig, nil
}

// txSet is the deterministic fund/refund/redeem transaction triple both
// parties compute independently from (Params, WalletOutput, both public
// keys), all public information agreed before the four-message exchange
// begins, so only keys and signatures ever need to cross the wire.
type txSet struct {
	witnessScript []byte
	fundTx        *wire.MsgTx
	fundOutpoint  wire.OutPoint
	refundTx      *wire.MsgTx
	refundHash    []byte
	redeemTx      *wire.MsgTx
	redeemHash    []byte
}

func buildTxSet(p Params, input WalletOutput, redeemerX, funderX curve.Point) (txSet, error) {
	witnessScript, fundPkScript, err := FundScript(redeemerX, funderX)
	if err != nil {
		return txSet{}, err
	}

	fundAmount := int64(p.Offer.FundAmount())
	changeAmount := int64(p.Offer.ChangeAmount(uint64(input.Value)))
	changeScript, err := txscript.PayToAddrScript(p.ChangeAddress)
	if err != nil {
		return txSet{}, fmt.Errorf("bitcoin: change script: %w", err)
	}
	fundTx := BuildFund(input, fundPkScript, fundAmount, changeScript, changeAmount)
	fundOutpoint := FundOutpoint(fundTx)

	refundScript, err := txscript.PayToAddrScript(p.RefundAddress)
	if err != nil {
		return txSet{}, fmt.Errorf("bitcoin: refund script: %w", err)
	}
	refundTx := BuildSpend(fundOutpoint, int64(p.Offer.RefundAmount()), refundScript, uint32(p.Offer.Expiry))
	refundHash, err := SigHash(refundTx, witnessScript, fundAmount)
	if err != nil {
		return txSet{}, err
	}

	redeemScript, err := txscript.PayToAddrScript(p.RedeemAddress)
	if err != nil {
		return txSet{}, fmt.Errorf("bitcoin: redeem script: %w", err)
	}
	redeemTx := BuildSpend(fundOutpoint, int64(p.Offer.RedeemAmount()), redeemScript, 0)
	redeemHash, err := SigHash(redeemTx, witnessScript, fundAmount)
	if err != nil {
		return txSet{}, err
	}

	return txSet{
		witnessScript: witnessScript,
		fundTx:        fundTx,
		fundOutpoint:  fundOutpoint,
		refundTx:      refundTx,
		refundHash:    refundHash,
		redeemTx:      redeemTx,
		redeemHash:    redeemHash,
	}, nil
}
