package schnorr_test

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adaptorecdsa "github.com/grin-btc/atomicswap/adaptor/ecdsa"
	"github.com/grin-btc/atomicswap/adaptor/schnorr"
	"github.com/grin-btc/atomicswap/internal/curve"
)

// TestAdaptorSchnorrRoundTrip checks that the 2-party adaptor
// Schnorr signature verifies against the aggregated excess once decrypted,
// and publishing it lets the counterparty recover y.
func TestAdaptorSchnorrRoundTrip(t *testing.T) {
	x0, err := curve.GenerateKeyPair()
	require.NoError(t, err)
	x1, err := curve.GenerateKeyPair()
	require.NoError(t, err)
	yKP, err := curve.GenerateKeyPair()
	require.NoError(t, err)

	r0, err := curve.RandomScalar()
	require.NoError(t, err)
	r1, err := curve.RandomScalar()
	require.NoError(t, err)

	Rraw := r0.BaseMul().Add(r1.BaseMul()).Add(yKP.Public)
	r0n, r1n, yn, R := schnorr.NormalizeTriple(r0, r1, yKP.Secret, Rraw)

	X := x0.Public.Add(x1.Public)
	msg := []byte("grin redeem kernel")
	e := schnorr.Challenge(R, X, msg)

	p0 := schnorr.Sign(r0n, x0.Secret, e)
	p1 := schnorr.Sign(r1n, x1.Secret, e)

	assert.True(t, schnorr.VerifyPartial(p0, r0n.BaseMul(), x0.Public, e))
	assert.True(t, schnorr.VerifyPartial(p1, r1n.BaseMul(), x1.Public, e))

	encryptedS := schnorr.Aggregate(p0, p1)
	assert.True(t, schnorr.EncVerify(R, yn.BaseMul(), X, e, encryptedS))

	decryptedS := schnorr.DecSig(encryptedS, yn)
	assert.True(t, schnorr.Verify(R, X, e, decryptedS))

	recovered := schnorr.Recover(decryptedS, encryptedS)
	assert.True(t, recovered.Equal(yn))
}

// TestNormalizeTripleIdempotent checks that normalization is idempotent.
func TestNormalizeTripleIdempotent(t *testing.T) {
	r0, err := curve.RandomScalar()
	require.NoError(t, err)
	r1, err := curve.RandomScalar()
	require.NoError(t, err)
	yKP, err := curve.GenerateKeyPair()
	require.NoError(t, err)

	Rraw := r0.BaseMul().Add(r1.BaseMul()).Add(yKP.Public)

	r0a, r1a, ya, Ra := schnorr.NormalizeTriple(r0, r1, yKP.Secret, Rraw)
	r0b, r1b, yb, Rb := schnorr.NormalizeTriple(r0a, r1a, ya, Ra)

	assert.True(t, r0a.Equal(r0b))
	assert.True(t, r1a.Equal(r1b))
	assert.True(t, ya.Equal(yb))
	assert.True(t, Ra.Equal(Rb))
}

// TestCrossSchemeRecovery checks that the y recovered from a published
// ECDSA signature decrypts a Schnorr adaptor built under the same Y,
// the link that makes a Bitcoin redeem unlock a Grin redeem.
func TestCrossSchemeRecovery(t *testing.T) {
	yKP, err := curve.GenerateKeyPair()
	require.NoError(t, err)

	// Bitcoin leg: an adaptor-ECDSA signature under Y is decrypted and
	// "published"; the watcher recovers y from it.
	signerKP, err := curve.GenerateKeyPair()
	require.NoError(t, err)
	h := sha256.Sum256([]byte("bitcoin redeem sighash"))
	m := curve.ScalarFromBytes(h[:])

	encsig, err := adaptorecdsa.EncSign(signerKP.Secret, yKP.Public, m)
	require.NoError(t, err)
	published := adaptorecdsa.DecSig(yKP.Secret, encsig)
	recovered, err := adaptorecdsa.Recover(published, adaptorecdsa.Reckey(yKP.Public, encsig))
	require.NoError(t, err)

	// Grin leg: a Schnorr adaptor under the same Y, decrypted with the
	// recovered scalar, must verify as a plain kernel signature.
	x0, err := curve.GenerateKeyPair()
	require.NoError(t, err)
	x1, err := curve.GenerateKeyPair()
	require.NoError(t, err)
	r0, err := curve.RandomScalar()
	require.NoError(t, err)
	r1, err := curve.RandomScalar()
	require.NoError(t, err)

	Rraw := r0.BaseMul().Add(r1.BaseMul()).Add(yKP.Public)
	r0n, r1n, yn, R := schnorr.NormalizeTriple(r0, r1, recovered, Rraw)

	X := x0.Public.Add(x1.Public)
	e := schnorr.Challenge(R, X, []byte("grin redeem kernel"))
	encryptedS := schnorr.Aggregate(schnorr.Sign(r0n, x0.Secret, e), schnorr.Sign(r1n, x1.Secret, e))

	decryptedS := schnorr.DecSig(encryptedS, yn)
	assert.True(t, schnorr.Verify(R, X, e, decryptedS))
}

func TestVerifyPartialRejectsWrongKey(t *testing.T) {
	x0, err := curve.GenerateKeyPair()
	require.NoError(t, err)
	other, err := curve.GenerateKeyPair()
	require.NoError(t, err)
	r0, err := curve.RandomScalar()
	require.NoError(t, err)

	R := r0.BaseMul()
	e := schnorr.Challenge(R, x0.Public, []byte("fund kernel"))
	p0 := schnorr.Sign(r0, x0.Secret, e)

	assert.False(t, schnorr.VerifyPartial(p0, R, other.Public, e))
}
