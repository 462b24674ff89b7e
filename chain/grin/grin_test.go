package grin_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/grin-btc/atomicswap/chain"
	"github.com/grin-btc/atomicswap/chain/grin"
	"github.com/grin-btc/atomicswap/internal/curve"
)

func testOffer() chain.Offer {
	return chain.Offer{Asset: 10_000_000, Fee: 1_000, Expiry: 100}
}

// TestFundRedeemRefundRoundTrip drives Funder0->Funder2 and Redeemer0->
// Redeemer2 against each other and checks the fund, refund, and
// (post-decryption) redeem kernels all verify against their own
// independently-computed excesses.
func TestFundRedeemRefundRoundTrip(t *testing.T) {
	offer := testOffer()

	funderKeys, err := grin.NewKeys()
	require.NoError(t, err)
	redeemerKeys, err := grin.NewKeys()
	require.NoError(t, err)

	funderPub := grin.PublicKeys{X: funderKeys.X.Public, RFund: funderKeys.RFund.Public, RRedeem: funderKeys.RRedeem.Public, RRefund: funderKeys.RRefund.Public}
	redeemerPub := grin.PublicKeys{X: redeemerKeys.X.Public, RFund: redeemerKeys.RFund.Public, RRedeem: redeemerKeys.RRedeem.Public, RRefund: redeemerKeys.RRefund.Public}

	y, err := curve.RandomScalar()
	require.NoError(t, err)
	Y := y.BaseMul()

	f0 := grin.Funder0{Keys: funderKeys, Offer: offer}
	f1 := f0.Advance(redeemerPub)

	r0 := grin.Redeemer0{Keys: redeemerKeys, Offer: offer}
	r1 := r0.Advance(funderPub, Y)

	require.True(t, f1.X.Equal(r1.X))

	f2, err := f1.Advance(r1.Partials, Y)
	require.NoError(t, err)

	require.True(t, f2.Fund.Sig.Verify(f2.Fund.Excess, grin.Plain, 0, 0))
	require.True(t, f2.Refund.Sig.Verify(f2.Refund.Excess, grin.HeightLocked, 0, offer.Expiry))

	r2, err := r1.Advance(f2.Fund.Sig, f2.Refund.Sig, f2.EncryptedRedeem.EncryptedS, Y)
	require.NoError(t, err)

	redeemSig, err := r2.EncryptedRedeem.Finalize(y)
	require.NoError(t, err)
	require.True(t, redeemSig.Verify(r2.EncryptedRedeem.Excess, grin.Plain, 0, 0))
}

func TestFunderRejectsBadPartial(t *testing.T) {
	offer := testOffer()

	funderKeys, err := grin.NewKeys()
	require.NoError(t, err)
	redeemerKeys, err := grin.NewKeys()
	require.NoError(t, err)
	otherKeys, err := grin.NewKeys()
	require.NoError(t, err)

	funderPub := grin.PublicKeys{X: funderKeys.X.Public, RFund: funderKeys.RFund.Public, RRedeem: funderKeys.RRedeem.Public, RRefund: funderKeys.RRefund.Public}
	redeemerPub := grin.PublicKeys{X: redeemerKeys.X.Public, RFund: redeemerKeys.RFund.Public, RRedeem: redeemerKeys.RRedeem.Public, RRefund: redeemerKeys.RRefund.Public}

	y, err := curve.RandomScalar()
	require.NoError(t, err)
	Y := y.BaseMul()

	f0 := grin.Funder0{Keys: funderKeys, Offer: offer}
	f1 := f0.Advance(redeemerPub)

	// otherKeys signs against a different funder pairing entirely, so its
	// partials do not verify against f1's excesses.
	bad := (grin.Redeemer0{Keys: otherKeys, Offer: offer}).Advance(funderPub, Y)

	_, err = f1.Advance(bad.Partials, Y)
	require.Error(t, err)
}

// fakeNode is a minimal grin.Node: wallet invoices are empty transactions,
// and posted kernels are kept so FindKernel can locate them by excess.
type fakeNode struct {
	kernels map[curve.Point]grin.Sig
}

func newFakeNode() *fakeNode { return &fakeNode{kernels: make(map[curve.Point]grin.Sig)} }

func (n *fakeNode) BuildWalletInvoice(ctx context.Context, purpose grin.InvoicePurpose, amount, fee uint64) (grin.Transaction, error) {
	return grin.Transaction{}, nil
}

func (n *fakeNode) PostTransaction(ctx context.Context, tx grin.Transaction) error {
	for _, k := range tx.Kernels {
		n.kernels[k.Excess] = k.Sig
	}
	return nil
}

func (n *fakeNode) FindKernel(ctx context.Context, excess curve.Point) (*grin.Sig, error) {
	sig, ok := n.kernels[excess]
	if !ok {
		return nil, nil
	}
	return &sig, nil
}

// TestEncryptedRedeemExecuteThenLookForRecoversY exercises the
// aggregation policy end to end: executing the redeem posts the
// decrypted kernel, and a counterparty watching for it recovers y
// byte-for-byte.
func TestEncryptedRedeemExecuteThenLookForRecoversY(t *testing.T) {
	offer := testOffer()
	node := newFakeNode()
	ctx := context.Background()

	funderKeys, err := grin.NewKeys()
	require.NoError(t, err)
	redeemerKeys, err := grin.NewKeys()
	require.NoError(t, err)

	funderPub := grin.PublicKeys{X: funderKeys.X.Public, RFund: funderKeys.RFund.Public, RRedeem: funderKeys.RRedeem.Public, RRefund: funderKeys.RRefund.Public}
	redeemerPub := grin.PublicKeys{X: redeemerKeys.X.Public, RFund: redeemerKeys.RFund.Public, RRedeem: redeemerKeys.RRedeem.Public, RRefund: redeemerKeys.RRefund.Public}

	y, err := curve.RandomScalar()
	require.NoError(t, err)
	Y := y.BaseMul()

	f0 := grin.Funder0{Keys: funderKeys, Offer: offer}
	f1 := f0.Advance(redeemerPub)
	r0 := grin.Redeemer0{Keys: redeemerKeys, Offer: offer}
	r1 := r0.Advance(funderPub, Y)

	f2, err := f1.Advance(r1.Partials, Y)
	require.NoError(t, err)
	r2, err := r1.Advance(f2.Fund.Sig, f2.Refund.Sig, f2.EncryptedRedeem.EncryptedS, Y)
	require.NoError(t, err)

	require.NoError(t, r2.EncryptedRedeem.Execute(ctx, node, y, offer.Fee))

	recovered, err := f2.EncryptedRedeem.LookFor(ctx, node)
	require.NoError(t, err)
	require.True(t, recovered.Equal(y))
}

func TestLookForReturnsNotRecoverableBeforePosting(t *testing.T) {
	offer := testOffer()
	node := newFakeNode()
	ctx := context.Background()

	funderKeys, err := grin.NewKeys()
	require.NoError(t, err)
	redeemerKeys, err := grin.NewKeys()
	require.NoError(t, err)
	funderPub := grin.PublicKeys{X: funderKeys.X.Public, RFund: funderKeys.RFund.Public, RRedeem: funderKeys.RRedeem.Public, RRefund: funderKeys.RRefund.Public}
	redeemerPub := grin.PublicKeys{X: redeemerKeys.X.Public, RFund: redeemerKeys.RFund.Public, RRedeem: redeemerKeys.RRedeem.Public, RRefund: redeemerKeys.RRefund.Public}

	y, err := curve.RandomScalar()
	require.NoError(t, err)
	Y := y.BaseMul()

	f0 := grin.Funder0{Keys: funderKeys, Offer: offer}
	f1 := f0.Advance(redeemerPub)
	r0 := grin.Redeemer0{Keys: redeemerKeys, Offer: offer}
	r1 := r0.Advance(funderPub, Y)

	f2, err := f1.Advance(r1.Partials, Y)
	require.NoError(t, err)

	// Nothing has been posted to node yet.
	_, err = f2.EncryptedRedeem.LookFor(ctx, node)
	require.Error(t, err)
}
