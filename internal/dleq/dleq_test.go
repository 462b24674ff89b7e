package dleq_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grin-btc/atomicswap/internal/curve"
	"github.com/grin-btc/atomicswap/internal/dleq"
)

func TestProveVerifyRoundTrip(t *testing.T) {
	r, err := curve.RandomScalar()
	require.NoError(t, err)
	yKP, err := curve.GenerateKeyPair()
	require.NoError(t, err)

	Rhat := r.BaseMul()
	R := r.MulPoint(yKP.Public)

	proof, err := dleq.Prove(r, yKP.Public, Rhat, R)
	require.NoError(t, err)
	assert.True(t, dleq.Verify(proof, yKP.Public, Rhat, R))
}

func TestVerifyRejectsUnrelatedPoints(t *testing.T) {
	r, err := curve.RandomScalar()
	require.NoError(t, err)
	other, err := curve.RandomScalar()
	require.NoError(t, err)
	yKP, err := curve.GenerateKeyPair()
	require.NoError(t, err)

	Rhat := r.BaseMul()
	// R uses a different exponent, so no proof should relate the pair.
	R := other.MulPoint(yKP.Public)

	proof, err := dleq.Prove(r, yKP.Public, Rhat, R)
	require.NoError(t, err)
	assert.False(t, dleq.Verify(proof, yKP.Public, Rhat, R))
}

func TestVerifyRejectsTamperedProof(t *testing.T) {
	r, err := curve.RandomScalar()
	require.NoError(t, err)
	yKP, err := curve.GenerateKeyPair()
	require.NoError(t, err)

	Rhat := r.BaseMul()
	R := r.MulPoint(yKP.Public)

	proof, err := dleq.Prove(r, yKP.Public, Rhat, R)
	require.NoError(t, err)

	tampered := proof
	tampered.S = proof.S.Add(curve.ScalarFromBytes([]byte{1}))
	assert.False(t, dleq.Verify(tampered, yKP.Public, Rhat, R))
}
