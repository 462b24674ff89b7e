package bulletproof_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grin-btc/atomicswap/bulletproof"
	"github.com/grin-btc/atomicswap/internal/curve"
)

// TestMultiPartyBulletproofRoundTrip checks that the aggregated range
// proof verifies against commit(x_alice+x_bob, value) for a representative
// spread of values, including the edges of [0, 2^64).
func TestMultiPartyBulletproofRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 10_000_000_000, ^uint64(0)}

	for _, value := range values {
		x0, err := curve.RandomScalar()
		require.NoError(t, err)
		x1, err := curve.RandomScalar()
		require.NoError(t, err)
		blind := x0.Add(x1)
		commitment := bulletproof.Commit(blind, value)

		alicePub, err := curve.GenerateKeyPair()
		require.NoError(t, err)

		backend := bulletproof.DefaultBackend{}
		s0 := bulletproof.NewSession(backend, value, x0, commitment, alicePub.Public)
		s1 := bulletproof.NewSession(backend, value, x1, commitment, alicePub.Public)

		r1a := s0.Round1()
		r1b := s1.Round1()

		r2a := s0.Round2(r1b)
		r2b := s1.Round2(r1a)

		proof, err := s0.Round3(r2b)
		require.NoError(t, err)

		require.NoError(t, bulletproof.Verify(backend, commitment, value, proof))

		// The other party, finalizing independently, must reach the same
		// proof material.
		proof2, err := s1.Round3(r2a)
		require.NoError(t, err)
		assert.True(t, proof.S.Equal(proof2.S))
	}
}

func TestVerifyRejectsWrongValue(t *testing.T) {
	x0, err := curve.RandomScalar()
	require.NoError(t, err)
	x1, err := curve.RandomScalar()
	require.NoError(t, err)
	blind := x0.Add(x1)
	value := uint64(5_000_000_000)
	commitment := bulletproof.Commit(blind, value)

	alicePub, err := curve.GenerateKeyPair()
	require.NoError(t, err)

	backend := bulletproof.DefaultBackend{}
	s0 := bulletproof.NewSession(backend, value, x0, commitment, alicePub.Public)
	s1 := bulletproof.NewSession(backend, value, x1, commitment, alicePub.Public)

	r1a := s0.Round1()
	r1b := s1.Round1()
	_ = s0.Round2(r1b)
	r2b := s1.Round2(r1a)
	proof, err := s0.Round3(r2b)
	require.NoError(t, err)

	err = bulletproof.Verify(backend, commitment, value+1, proof)
	assert.Error(t, err)
}
