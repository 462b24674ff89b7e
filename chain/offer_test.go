package chain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grin-btc/atomicswap/chain"
)

func TestDerivedAmounts(t *testing.T) {
	o := chain.Offer{Asset: 10_000_000_000, Fee: 5_000_000, Expiry: 0}

	assert.Equal(t, uint64(10_005_000_000), o.FundAmount())
	assert.Equal(t, uint64(10_000_000_000), o.RedeemAmount())
	assert.Equal(t, uint64(10_000_000_000), o.RefundAmount())
	assert.Equal(t, uint64(89_990_000_000), o.ChangeAmount(100_000_000_000))
}
