package bitcoin_test

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"

	"github.com/grin-btc/atomicswap/chain"
	"github.com/grin-btc/atomicswap/chain/bitcoin"
	"github.com/grin-btc/atomicswap/internal/curve"
)

// newAddress derives a fresh regtest P2WPKH address for a key that is
// immediately forgotten; tests only need something PayToAddrScript
// accepts.
func newAddress(t *testing.T) btcutil.Address {
	t.Helper()
	kp, err := curve.GenerateKeyPair()
	require.NoError(t, err)
	a, err := btcutil.NewAddressWitnessPubKeyHash(btcutil.Hash160(kp.Public.Bytes()), &chaincfg.RegressionNetParams)
	require.NoError(t, err)
	return a
}

func testParams(t *testing.T) bitcoin.Params {
	t.Helper()
	return bitcoin.Params{
		Offer:         chain.Offer{Asset: 100_000_000, Fee: 1_000, Expiry: 0},
		ChangeAddress: newAddress(t),
		RedeemAddress: newAddress(t),
		RefundAddress: newAddress(t),
	}
}

// TestFundRedeemRefundRoundTrip drives the full Funder0->Funder2 and
// Redeemer0->Redeemer2 state machines against each other and checks that
// both sides agree on the fund outpoint, that the refund transaction
// finishes with a valid 2-of-2 witness, and that the redeemer can finalize
// the redeem transaction once y is revealed.
func TestFundRedeemRefundRoundTrip(t *testing.T) {
	params := testParams(t)
	input := bitcoin.WalletOutput{Outpoint: wire.OutPoint{Index: 0}, Value: 101_002_000}

	funderKeys, err := bitcoin.NewKeys()
	require.NoError(t, err)
	redeemerKeys, err := bitcoin.NewKeys()
	require.NoError(t, err)

	f0 := bitcoin.Funder0{Keys: funderKeys, Params: params, Input: input}
	f1, err := f0.Advance(redeemerKeys.X.Public)
	require.NoError(t, err)

	r0 := bitcoin.Redeemer0{Keys: redeemerKeys, Params: params, FundInput: input}
	r1, refundDER, err := r0.Advance(funderKeys.X.Public)
	require.NoError(t, err)

	require.Equal(t, f1.FundOutpoint(), r1.FundOutpoint())
	require.Equal(t, f1.RefundSigHash(), r1.RefundSigHash())
	require.Equal(t, f1.RedeemSigHash(), r1.RedeemSigHash())

	y, err := curve.RandomScalar()
	require.NoError(t, err)
	Y := y.BaseMul()

	f2, err := f1.Advance(refundDER, Y)
	require.NoError(t, err)
	require.NotNil(t, f2.Fund.Tx)
	require.Len(t, f2.Refund.Tx.TxIn[0].Witness, 4)

	r2, err := r1.Advance(f2.EncryptedRedeem.EncSig, Y)
	require.NoError(t, err)
	require.True(t, f2.EncryptedRedeem.EncSig.Shat.Equal(r2.EncryptedRedeem.EncSig.Shat))

	redeemTx, err := r2.EncryptedRedeem.Finalize(y, redeemerKeys.X.Secret)
	require.NoError(t, err)
	require.Len(t, redeemTx.TxIn[0].Witness, 4)
}

func TestFunderRejectsBadRefundHalfSig(t *testing.T) {
	params := testParams(t)
	input := bitcoin.WalletOutput{Outpoint: wire.OutPoint{Index: 0}, Value: 101_002_000}

	funderKeys, err := bitcoin.NewKeys()
	require.NoError(t, err)
	redeemerKeys, err := bitcoin.NewKeys()
	require.NoError(t, err)

	f0 := bitcoin.Funder0{Keys: funderKeys, Params: params, Input: input}
	f1, err := f0.Advance(redeemerKeys.X.Public)
	require.NoError(t, err)

	otherKeys, err := bitcoin.NewKeys()
	require.NoError(t, err)
	_, badDER, err := (bitcoin.Redeemer0{Keys: otherKeys, Params: params, FundInput: input}).Advance(funderKeys.X.Public)
	require.NoError(t, err)

	y, err := curve.RandomScalar()
	require.NoError(t, err)

	_, err = f1.Advance(badDER, y.BaseMul())
	require.Error(t, err)
}
