package commitment_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/grin-btc/atomicswap/internal/commitment"
	"github.com/grin-btc/atomicswap/internal/curve"
)

func randomPoint(t *testing.T) curve.Point {
	t.Helper()
	kp, err := curve.GenerateKeyPair()
	require.NoError(t, err)
	return kp.Public
}

func testOpening(t *testing.T) commitment.Opening {
	t.Helper()
	return commitment.Opening{
		AlphaKeys: []curve.Point{randomPoint(t), randomPoint(t), randomPoint(t), randomPoint(t)},
		BetaKeys:  []curve.Point{randomPoint(t)},
		Y:         randomPoint(t),
	}
}

func TestCommitVerifyRoundTrip(t *testing.T) {
	o := testOpening(t)
	c := commitment.Commit(o)
	require.True(t, commitment.Verify(c, o))
}

// TestVerifyRejectsAnyFieldChange checks that changing a single key or
// swapping two keys within a key set changes the digest.
func TestVerifyRejectsAnyFieldChange(t *testing.T) {
	o := testOpening(t)
	c := commitment.Commit(o)

	tampered := o
	tampered.Y = randomPoint(t)
	require.False(t, commitment.Verify(c, tampered))

	swapped := o
	swapped.AlphaKeys = append([]curve.Point{}, o.AlphaKeys...)
	swapped.AlphaKeys[0], swapped.AlphaKeys[1] = swapped.AlphaKeys[1], swapped.AlphaKeys[0]
	require.False(t, commitment.Verify(c, swapped))
}
